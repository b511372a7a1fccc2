package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/facturel/facturel-backend/internal/domain"
	"github.com/facturel/facturel-backend/internal/service"
)

// StatisticsHandler handles statistics HTTP requests
type StatisticsHandler struct {
	statsService *service.StatisticsService
}

// NewStatisticsHandler creates a new StatisticsHandler
func NewStatisticsHandler(statsService *service.StatisticsService) *StatisticsHandler {
	return &StatisticsHandler{statsService: statsService}
}

// StatisticsResponse represents aggregate statistics in API responses.
// Monetary figures are fixed two-decimal strings.
type StatisticsResponse struct {
	TotalBills     int    `json:"totalBills"`
	TotalPayments  int    `json:"totalPayments"`
	AveragePayment string `json:"averagePayment"`
	LowestPayment  string `json:"lowestPayment"`
	HighestPayment string `json:"highestPayment"`
	TotalPaid      string `json:"totalPaid"`
	ThisYearTotal  string `json:"thisYearTotal"`
	LastYearTotal  string `json:"lastYearTotal"`
}

// ToStatisticsResponse converts domain statistics to a response
func ToStatisticsResponse(stats *domain.Statistics) StatisticsResponse {
	return StatisticsResponse{
		TotalBills:     stats.TotalBills,
		TotalPayments:  stats.TotalPayments,
		AveragePayment: stats.AveragePayment.StringFixed(2),
		LowestPayment:  stats.LowestPayment.StringFixed(2),
		HighestPayment: stats.HighestPayment.StringFixed(2),
		TotalPaid:      stats.TotalPaid.StringFixed(2),
		ThisYearTotal:  stats.ThisYearTotal.StringFixed(2),
		LastYearTotal:  stats.LastYearTotal.StringFixed(2),
	}
}

// GetStatistics handles GET /api/v1/statistics
func (h *StatisticsHandler) GetStatistics(c echo.Context) error {
	stats, err := h.statsService.GetStatistics()
	if err != nil {
		log.Error().Err(err).Msg("Failed to compute statistics")
		return NewInternalError(c, "Failed to compute statistics")
	}

	return c.JSON(http.StatusOK, ToStatisticsResponse(stats))
}
