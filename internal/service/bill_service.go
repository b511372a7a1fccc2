package service

import (
	"strings"
	"time"

	"github.com/facturel/facturel-backend/internal/domain"
	"github.com/google/uuid"
)

// BillService handles bill business logic
type BillService struct {
	billRepo domain.BillRepository
	tagRepo  domain.TagRepository
}

// NewBillService creates a new BillService
func NewBillService(billRepo domain.BillRepository, tagRepo domain.TagRepository) *BillService {
	return &BillService{
		billRepo: billRepo,
		tagRepo:  tagRepo,
	}
}

// CreateBillInput holds the input for creating a bill
type CreateBillInput struct {
	Name       string
	PaymentURL *string
	Notes      *string
	DueDay     *int32
	Recurrence *domain.Recurrence
	TagIDs     []uuid.UUID
}

// CreateBill validates the input, computes the next due date for recurring
// bills and persists the bill with its tag set.
func (s *BillService) CreateBill(input CreateBillInput) (*domain.Bill, error) {
	name, err := s.validateName(input.Name)
	if err != nil {
		return nil, err
	}

	dueDay, recurrence, nextDueDate, err := s.validateRecurrence(input.DueDay, input.Recurrence)
	if err != nil {
		return nil, err
	}

	if err := s.validateTagIDs(input.TagIDs); err != nil {
		return nil, err
	}

	bill := &domain.Bill{
		Name:        name,
		PaymentURL:  input.PaymentURL,
		Notes:       input.Notes,
		DueDay:      dueDay,
		Recurrence:  recurrence,
		NextDueDate: nextDueDate,
	}

	created, err := s.billRepo.Create(bill)
	if err != nil {
		return nil, err
	}

	if len(input.TagIDs) > 0 {
		if err := s.billRepo.ReplaceTags(created.ID, input.TagIDs); err != nil {
			return nil, err
		}
	}

	return s.billRepo.GetByID(created.ID)
}

// UpdateBillInput holds the input for updating a bill. A nil TagIDs leaves the
// tag set untouched; a non-nil slice replaces it entirely.
type UpdateBillInput struct {
	Name       string
	PaymentURL *string
	Notes      *string
	DueDay     *int32
	Recurrence *domain.Recurrence
	TagIDs     *[]uuid.UUID
}

// UpdateBill updates an existing bill, recomputing the next due date from the
// submitted due-day/recurrence fields.
func (s *BillService) UpdateBill(id uuid.UUID, input UpdateBillInput) (*domain.Bill, error) {
	name, err := s.validateName(input.Name)
	if err != nil {
		return nil, err
	}

	dueDay, recurrence, nextDueDate, err := s.validateRecurrence(input.DueDay, input.Recurrence)
	if err != nil {
		return nil, err
	}

	if input.TagIDs != nil {
		if err := s.validateTagIDs(*input.TagIDs); err != nil {
			return nil, err
		}
	}

	existing, err := s.billRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	existing.Name = name
	existing.PaymentURL = input.PaymentURL
	existing.Notes = input.Notes
	existing.DueDay = dueDay
	existing.Recurrence = recurrence
	existing.NextDueDate = nextDueDate

	if _, err := s.billRepo.Update(existing); err != nil {
		return nil, err
	}

	if input.TagIDs != nil {
		if err := s.billRepo.ReplaceTags(id, *input.TagIDs); err != nil {
			return nil, err
		}
	}

	return s.billRepo.GetByID(id)
}

// GetBillByID retrieves a bill with its tags attached
func (s *BillService) GetBillByID(id uuid.UUID) (*domain.Bill, error) {
	return s.billRepo.GetByID(id)
}

// ListBills retrieves all bills, optionally including archived ones
func (s *BillService) ListBills(includeArchived bool) ([]*domain.Bill, error) {
	return s.billRepo.List(includeArchived)
}

// DeleteBill removes a bill; its payments and tag associations are removed by
// cascade.
func (s *BillService) DeleteBill(id uuid.UUID) error {
	return s.billRepo.Delete(id)
}

// ArchiveBill flips the archived flag; payments and tags are left intact.
func (s *BillService) ArchiveBill(id uuid.UUID) (*domain.Bill, error) {
	if err := s.billRepo.Archive(id); err != nil {
		return nil, err
	}
	return s.billRepo.GetByID(id)
}

// SetLogoPath stores or clears the bill's logo object path
func (s *BillService) SetLogoPath(id uuid.UUID, logoPath *string) (*domain.Bill, error) {
	existing, err := s.billRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	existing.LogoPath = logoPath
	if _, err := s.billRepo.Update(existing); err != nil {
		return nil, err
	}

	return s.billRepo.GetByID(id)
}

func (s *BillService) validateName(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", domain.ErrNameRequired
	}
	if len(name) > domain.MaxBillNameLength {
		return "", domain.ErrNameTooLong
	}
	return name, nil
}

// validateRecurrence enforces that due day and recurrence are both present or
// both absent, and computes the next due date for recurring bills.
func (s *BillService) validateRecurrence(dueDay *int32, recurrence *domain.Recurrence) (*int32, *domain.Recurrence, *time.Time, error) {
	if dueDay == nil && recurrence == nil {
		return nil, nil, nil, nil
	}
	if dueDay == nil {
		return nil, nil, nil, domain.ErrDueDayRequired
	}
	if recurrence == nil {
		return nil, nil, nil, domain.ErrRecurrenceRequired
	}
	if *dueDay < 1 || *dueDay > 31 {
		return nil, nil, nil, domain.ErrInvalidDueDay
	}
	if !recurrence.IsValid() {
		return nil, nil, nil, domain.ErrInvalidRecurrence
	}

	nextDueDate := NextDueDate(*dueDay, *recurrence, time.Now())
	return dueDay, recurrence, &nextDueDate, nil
}

func (s *BillService) validateTagIDs(tagIDs []uuid.UUID) error {
	for _, tagID := range tagIDs {
		if _, err := s.tagRepo.GetByID(tagID); err != nil {
			return err
		}
	}
	return nil
}
