package domain

import "github.com/shopspring/decimal"

// Statistics is derived from bills and payments on demand; it is never persisted.
type Statistics struct {
	TotalBills     int             `json:"totalBills"`
	TotalPayments  int             `json:"totalPayments"`
	AveragePayment decimal.Decimal `json:"averagePayment"`
	LowestPayment  decimal.Decimal `json:"lowestPayment"`
	HighestPayment decimal.Decimal `json:"highestPayment"`
	TotalPaid      decimal.Decimal `json:"totalPaid"`
	ThisYearTotal  decimal.Decimal `json:"thisYearTotal"`
	LastYearTotal  decimal.Decimal `json:"lastYearTotal"`
}
