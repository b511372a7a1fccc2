package service

import (
	"time"

	"github.com/facturel/facturel-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// StatisticsService computes aggregate spending statistics on demand.
type StatisticsService struct {
	billRepo    domain.BillRepository
	paymentRepo domain.PaymentRepository
}

// NewStatisticsService creates a new StatisticsService
func NewStatisticsService(billRepo domain.BillRepository, paymentRepo domain.PaymentRepository) *StatisticsService {
	return &StatisticsService{
		billRepo:    billRepo,
		paymentRepo: paymentRepo,
	}
}

// GetStatistics aggregates over all bills and payments as of now.
func (s *StatisticsService) GetStatistics() (*domain.Statistics, error) {
	bills, err := s.billRepo.List(true)
	if err != nil {
		return nil, err
	}

	payments, err := s.paymentRepo.List(nil)
	if err != nil {
		return nil, err
	}

	stats := AggregateStatistics(bills, payments, time.Now())
	return &stats, nil
}

// AggregateStatistics reduces bills and payments into a Statistics record.
// Archived bills are excluded from the bill count but their payments remain in
// every payment aggregate. All payment aggregates are zero when there are no
// payments.
func AggregateStatistics(bills []*domain.Bill, payments []*domain.Payment, ref time.Time) domain.Statistics {
	stats := domain.Statistics{
		AveragePayment: decimal.Zero,
		LowestPayment:  decimal.Zero,
		HighestPayment: decimal.Zero,
		TotalPaid:      decimal.Zero,
		ThisYearTotal:  decimal.Zero,
		LastYearTotal:  decimal.Zero,
	}

	for _, bill := range bills {
		if !bill.IsArchived {
			stats.TotalBills++
		}
	}

	thisYear := ref.Year()
	lastYear := thisYear - 1

	for i, payment := range payments {
		stats.TotalPayments++
		stats.TotalPaid = stats.TotalPaid.Add(payment.Amount)

		if i == 0 {
			stats.LowestPayment = payment.Amount
			stats.HighestPayment = payment.Amount
		} else {
			if payment.Amount.LessThan(stats.LowestPayment) {
				stats.LowestPayment = payment.Amount
			}
			if payment.Amount.GreaterThan(stats.HighestPayment) {
				stats.HighestPayment = payment.Amount
			}
		}

		switch payment.PaymentDate.Year() {
		case thisYear:
			stats.ThisYearTotal = stats.ThisYearTotal.Add(payment.Amount)
		case lastYear:
			stats.LastYearTotal = stats.LastYearTotal.Add(payment.Amount)
		}
	}

	if stats.TotalPayments > 0 {
		stats.AveragePayment = stats.TotalPaid.Div(decimal.NewFromInt(int64(stats.TotalPayments)))
	}

	return stats
}
