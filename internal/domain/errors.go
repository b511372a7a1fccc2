package domain

import "errors"

// Domain errors
var (
	ErrBillNotFound       = errors.New("bill not found")
	ErrPaymentNotFound    = errors.New("payment not found")
	ErrTagNotFound        = errors.New("tag not found")
	ErrTagNameExists      = errors.New("tag name already exists")
	ErrNameRequired       = errors.New("name is required")
	ErrNameTooLong        = errors.New("name exceeds maximum length")
	ErrInvalidDueDay      = errors.New("due day must be between 1 and 31")
	ErrInvalidRecurrence  = errors.New("invalid recurrence period")
	ErrRecurrenceRequired = errors.New("recurrence is required when due day is set")
	ErrDueDayRequired     = errors.New("due day is required when recurrence is set")
	ErrInvalidAmount      = errors.New("amount must be positive")
	ErrFuturePaymentDate  = errors.New("payment date must not be in the future")
)

// Validation constants
const (
	MaxBillNameLength = 255
	MaxTagNameLength  = 100
)
