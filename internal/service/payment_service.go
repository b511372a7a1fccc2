package service

import (
	"time"

	"github.com/facturel/facturel-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentService handles payment business logic
type PaymentService struct {
	paymentRepo domain.PaymentRepository
	billRepo    domain.BillRepository
}

// NewPaymentService creates a new PaymentService
func NewPaymentService(paymentRepo domain.PaymentRepository, billRepo domain.BillRepository) *PaymentService {
	return &PaymentService{
		paymentRepo: paymentRepo,
		billRepo:    billRepo,
	}
}

// CreatePaymentInput holds the input for recording a payment
type CreatePaymentInput struct {
	BillID      uuid.UUID
	Amount      decimal.Decimal
	PaymentDate time.Time
	Notes       *string
}

// CreatePayment validates and records a payment against an existing bill
func (s *PaymentService) CreatePayment(input CreatePaymentInput) (*domain.Payment, error) {
	if err := validatePaymentFields(input.Amount, input.PaymentDate); err != nil {
		return nil, err
	}

	// Referential check before the write: a payment against a missing bill is
	// a caller contract violation, not a storage error.
	if _, err := s.billRepo.GetByID(input.BillID); err != nil {
		return nil, err
	}

	payment := &domain.Payment{
		BillID:      input.BillID,
		Amount:      input.Amount,
		PaymentDate: truncateToDate(input.PaymentDate),
		Notes:       input.Notes,
	}

	return s.paymentRepo.Create(payment)
}

// UpdatePaymentInput holds the input for updating a payment
type UpdatePaymentInput struct {
	Amount      decimal.Decimal
	PaymentDate time.Time
	Notes       *string
}

// UpdatePayment updates an existing payment's amount, date and notes
func (s *PaymentService) UpdatePayment(id uuid.UUID, input UpdatePaymentInput) (*domain.Payment, error) {
	if err := validatePaymentFields(input.Amount, input.PaymentDate); err != nil {
		return nil, err
	}

	existing, err := s.paymentRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	existing.Amount = input.Amount
	existing.PaymentDate = truncateToDate(input.PaymentDate)
	existing.Notes = input.Notes

	return s.paymentRepo.Update(existing)
}

// ListPayments retrieves payments, optionally filtered by bill, newest first
func (s *PaymentService) ListPayments(billID *uuid.UUID) ([]*domain.Payment, error) {
	return s.paymentRepo.List(billID)
}

// DeletePayment removes a payment
func (s *PaymentService) DeletePayment(id uuid.UUID) error {
	return s.paymentRepo.Delete(id)
}

func validatePaymentFields(amount decimal.Decimal, paymentDate time.Time) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return domain.ErrInvalidAmount
	}
	if truncateToDate(paymentDate).After(truncateToDate(time.Now())) {
		return domain.ErrFuturePaymentDate
	}
	return nil
}
