package service

import (
	"time"

	"github.com/facturel/facturel-backend/internal/domain"
)

// DueSoonWindowDays is the inclusive number of days ahead within which a bill
// counts as due-soon.
const DueSoonWindowDays = 7

// NextDueDate returns the next due date for a recurring bill relative to ref.
// The candidate is dueDay in ref's month; if that candidate falls on or before
// ref's calendar date, the date advances by one recurrence period (1, 3 or 12
// months). Due days past the end of the target month clamp to the last day of
// that month (due day 31 in February yields Feb 28/29) rather than overflowing
// into the next month.
func NextDueDate(dueDay int32, recurrence domain.Recurrence, ref time.Time) time.Time {
	today := truncateToDate(ref)

	candidate := actualDueDate(dueDay, today.Year(), today.Month())
	if candidate.After(today) {
		return candidate
	}

	// Candidate already passed (or is today); roll forward one period.
	// time.Date normalizes out-of-range months, so month+12 lands in the
	// following year.
	month := today.Month() + time.Month(recurrence.Months())
	return actualDueDate(dueDay, today.Year(), month)
}

// ClassifyDueStatus classifies a bill's next due date relative to ref.
// A due date equal to ref's calendar date counts as due-soon, not overdue.
func ClassifyDueStatus(nextDueDate *time.Time, ref time.Time) domain.DueStatus {
	if nextDueDate == nil {
		return domain.DueStatusNoDate
	}

	days := DaysUntil(*nextDueDate, ref)
	switch {
	case days < 0:
		return domain.DueStatusOverdue
	case days <= DueSoonWindowDays:
		return domain.DueStatusDueSoon
	default:
		return domain.DueStatusUpcoming
	}
}

// DaysUntil returns the whole-day difference between due and ref, comparing
// calendar dates only. Negative when due is in the past.
func DaysUntil(due time.Time, ref time.Time) int {
	return int(truncateToDate(due).Sub(truncateToDate(ref)).Hours() / 24)
}

// actualDueDate returns the date for dueDay in the given month, clamped to the
// last day of the month when the month is shorter. Invalid due days (<= 0)
// are clamped to 1.
func actualDueDate(dueDay int32, year int, month time.Month) time.Time {
	actualDay := int(dueDay)
	if actualDay < 1 {
		actualDay = 1
	}

	// Get last day of month by going to day 0 of next month
	lastDay := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
	if actualDay > lastDay {
		actualDay = lastDay
	}

	return time.Date(year, month, actualDay, 0, 0, 0, 0, time.UTC)
}

func truncateToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
