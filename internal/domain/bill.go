package domain

import (
	"time"

	"github.com/google/uuid"
)

type Recurrence string

const (
	RecurrenceMonthly   Recurrence = "monthly"
	RecurrenceQuarterly Recurrence = "quarterly"
	RecurrenceYearly    Recurrence = "yearly"
)

// IsValid reports whether the recurrence is one of the supported periods.
func (r Recurrence) IsValid() bool {
	switch r {
	case RecurrenceMonthly, RecurrenceQuarterly, RecurrenceYearly:
		return true
	}
	return false
}

// Months returns the number of months a single recurrence period spans.
func (r Recurrence) Months() int {
	switch r {
	case RecurrenceQuarterly:
		return 3
	case RecurrenceYearly:
		return 12
	default:
		return 1
	}
}

type DueStatus string

const (
	DueStatusNoDate   DueStatus = "no-date"
	DueStatusOverdue  DueStatus = "overdue"
	DueStatusDueSoon  DueStatus = "due-soon"
	DueStatusUpcoming DueStatus = "upcoming"
)

type Bill struct {
	ID          uuid.UUID   `json:"id"`
	Name        string      `json:"name"`
	LogoPath    *string     `json:"logoPath,omitempty"`
	PaymentURL  *string     `json:"paymentUrl,omitempty"`
	Notes       *string     `json:"notes,omitempty"`
	DueDay      *int32      `json:"dueDay,omitempty"`
	Recurrence  *Recurrence `json:"recurrence,omitempty"`
	NextDueDate *time.Time  `json:"nextDueDate,omitempty"`
	IsArchived  bool        `json:"isArchived"`
	Tags        []Tag       `json:"tags"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

type BillRepository interface {
	Create(bill *Bill) (*Bill, error)
	GetByID(id uuid.UUID) (*Bill, error)
	List(includeArchived bool) ([]*Bill, error)
	Update(bill *Bill) (*Bill, error)
	Delete(id uuid.UUID) error
	Archive(id uuid.UUID) error
	ReplaceTags(billID uuid.UUID, tagIDs []uuid.UUID) error
}
