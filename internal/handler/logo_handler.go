package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/facturel/facturel-backend/internal/domain"
	"github.com/facturel/facturel-backend/internal/service"
	"github.com/facturel/facturel-backend/internal/websocket"
)

// LogoHandler handles bill logo HTTP requests
type LogoHandler struct {
	billService *service.BillService
	logoService *service.LogoService
	publisher   websocket.EventPublisher
}

// NewLogoHandler creates a new LogoHandler
func NewLogoHandler(billService *service.BillService, logoService *service.LogoService, publisher websocket.EventPublisher) *LogoHandler {
	return &LogoHandler{
		billService: billService,
		logoService: logoService,
		publisher:   publisher,
	}
}

// LogoResponse represents an uploaded logo in API responses
type LogoResponse struct {
	LogoPath     string `json:"logoPath"`
	ThumbnailURL string `json:"thumbnailUrl,omitempty"`
	DisplayURL   string `json:"displayUrl,omitempty"`
}

// UploadLogo handles POST /api/v1/bills/:id/logo with a multipart "file" field
func (h *LogoHandler) UploadLogo(c echo.Context) error {
	if !h.logoService.IsEnabled() {
		return NewServiceUnavailableError(c, "Logo storage is not configured")
	}

	billID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid bill ID", []ValidationError{
			{Field: "id", Message: "must be a valid UUID"},
		})
	}

	bill, err := h.billService.GetBillByID(billID)
	if err != nil {
		if errors.Is(err, domain.ErrBillNotFound) {
			return NewNotFoundError(c, "Bill not found")
		}
		log.Error().Err(err).Msg("Failed to load bill for logo upload")
		return NewInternalError(c, "Failed to load bill")
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return NewValidationError(c, "Missing file", []ValidationError{
			{Field: "file", Message: "multipart file field is required"},
		})
	}

	if fileHeader.Size > service.MaxLogoSize {
		return NewValidationError(c, "File too large", []ValidationError{
			{Field: "file", Message: "maximum size is 5MB"},
		})
	}

	src, err := fileHeader.Open()
	if err != nil {
		log.Error().Err(err).Msg("Failed to open uploaded logo")
		return NewInternalError(c, "Failed to read uploaded file")
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, service.MaxLogoSize+1))
	if err != nil {
		log.Error().Err(err).Msg("Failed to read uploaded logo")
		return NewInternalError(c, "Failed to read uploaded file")
	}

	ctx := c.Request().Context()

	metadata, err := h.logoService.ProcessAndUpload(ctx, billID, data, fileHeader.Filename)
	if err != nil {
		return h.handleLogoError(c, err)
	}

	// Replace any previous logo after the new one is safely stored
	if bill.LogoPath != nil {
		if err := h.logoService.DeleteAllVariants(ctx, *bill.LogoPath); err != nil {
			log.Warn().Err(err).Str("bill_id", billID.String()).Msg("Failed to delete previous logo variants")
		}
	}

	updated, err := h.billService.SetLogoPath(billID, &metadata.DisplayPath)
	if err != nil {
		log.Error().Err(err).Msg("Failed to store logo path")
		return NewInternalError(c, "Failed to store logo path")
	}

	h.publisher.Publish(websocket.BillUpdated(ToBillResponse(updated)))

	resp := LogoResponse{LogoPath: metadata.DisplayPath}
	if url, err := h.logoService.ResolveURL(ctx, metadata.ThumbnailPath); err == nil {
		resp.ThumbnailURL = url
	}
	if url, err := h.logoService.ResolveURL(ctx, metadata.DisplayPath); err == nil {
		resp.DisplayURL = url
	}

	return c.JSON(http.StatusOK, resp)
}

// GetLogoURL handles GET /api/v1/bills/:id/logo, returning a temporary URL for
// the bill's stored logo
func (h *LogoHandler) GetLogoURL(c echo.Context) error {
	if !h.logoService.IsEnabled() {
		return NewServiceUnavailableError(c, "Logo storage is not configured")
	}

	billID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid bill ID", []ValidationError{
			{Field: "id", Message: "must be a valid UUID"},
		})
	}

	bill, err := h.billService.GetBillByID(billID)
	if err != nil {
		if errors.Is(err, domain.ErrBillNotFound) {
			return NewNotFoundError(c, "Bill not found")
		}
		log.Error().Err(err).Msg("Failed to load bill for logo URL")
		return NewInternalError(c, "Failed to load bill")
	}

	if bill.LogoPath == nil {
		return NewNotFoundError(c, "Bill has no logo")
	}

	ctx := c.Request().Context()

	url, err := h.logoService.ResolveURL(ctx, *bill.LogoPath)
	if err != nil {
		log.Error().Err(err).Msg("Failed to generate logo URL")
		return NewInternalError(c, "Failed to generate logo URL")
	}

	return c.JSON(http.StatusOK, map[string]string{"url": url})
}

// DeleteLogo handles DELETE /api/v1/bills/:id/logo
func (h *LogoHandler) DeleteLogo(c echo.Context) error {
	if !h.logoService.IsEnabled() {
		return NewServiceUnavailableError(c, "Logo storage is not configured")
	}

	billID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid bill ID", []ValidationError{
			{Field: "id", Message: "must be a valid UUID"},
		})
	}

	bill, err := h.billService.GetBillByID(billID)
	if err != nil {
		if errors.Is(err, domain.ErrBillNotFound) {
			return NewNotFoundError(c, "Bill not found")
		}
		log.Error().Err(err).Msg("Failed to load bill for logo deletion")
		return NewInternalError(c, "Failed to load bill")
	}

	if bill.LogoPath == nil {
		return c.NoContent(http.StatusNoContent)
	}

	ctx := c.Request().Context()

	if err := h.logoService.DeleteAllVariants(ctx, *bill.LogoPath); err != nil {
		log.Error().Err(err).Msg("Failed to delete logo variants")
		return NewInternalError(c, "Failed to delete logo")
	}

	updated, err := h.billService.SetLogoPath(billID, nil)
	if err != nil {
		log.Error().Err(err).Msg("Failed to clear logo path")
		return NewInternalError(c, "Failed to clear logo path")
	}

	h.publisher.Publish(websocket.BillUpdated(ToBillResponse(updated)))

	return c.NoContent(http.StatusNoContent)
}

// handleLogoError maps logo processing errors to HTTP responses
func (h *LogoHandler) handleLogoError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, service.ErrLogoTooLarge):
		return NewValidationError(c, "File too large", []ValidationError{
			{Field: "file", Message: "maximum size is 5MB"},
		})
	case errors.Is(err, service.ErrInvalidLogoFormat):
		return NewValidationError(c, "Invalid format", []ValidationError{
			{Field: "file", Message: "supported formats are JPEG, PNG and WebP"},
		})
	case errors.Is(err, service.ErrLogoTooSmall):
		return NewValidationError(c, "Image too small", []ValidationError{
			{Field: "file", Message: "minimum dimensions are 50x50 pixels"},
		})
	case errors.Is(err, service.ErrInvalidLogoData):
		return NewValidationError(c, "Invalid image data", []ValidationError{
			{Field: "file", Message: "could not decode image"},
		})
	case errors.Is(err, service.ErrLogoStorageNotConfigured):
		return NewServiceUnavailableError(c, "Logo storage is not configured")
	default:
		log.Error().Err(err).Msg("Logo operation failed")
		return NewInternalError(c, "Logo operation failed")
	}
}
