package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/facturel/facturel-backend/internal/service"
)

// ExportHandler handles data export HTTP requests
type ExportHandler struct {
	exportService *service.ExportService
}

// NewExportHandler creates a new ExportHandler
func NewExportHandler(exportService *service.ExportService) *ExportHandler {
	return &ExportHandler{exportService: exportService}
}

// ExportCSV handles GET /api/v1/export/csv, returning the full dataset as a CSV
// attachment
func (h *ExportHandler) ExportCSV(c echo.Context) error {
	csv, err := h.exportService.ExportCSV()
	if err != nil {
		log.Error().Err(err).Msg("Failed to export CSV")
		return NewInternalError(c, "Failed to export CSV")
	}

	filename := fmt.Sprintf("facturel-export-%s.csv", time.Now().Format("2006-01-02"))
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename=%q`, filename))

	return c.Blob(http.StatusOK, "text/csv; charset=utf-8", []byte(csv))
}
