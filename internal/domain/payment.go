package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Payment struct {
	ID          uuid.UUID       `json:"id"`
	BillID      uuid.UUID       `json:"billId"`
	Amount      decimal.Decimal `json:"amount"`
	PaymentDate time.Time       `json:"paymentDate"`
	Notes       *string         `json:"notes,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

type PaymentRepository interface {
	Create(payment *Payment) (*Payment, error)
	GetByID(id uuid.UUID) (*Payment, error)
	List(billID *uuid.UUID) ([]*Payment, error)
	Update(payment *Payment) (*Payment, error)
	Delete(id uuid.UUID) error
}
