package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/facturel/facturel-backend/internal/domain"
	"github.com/facturel/facturel-backend/internal/service"
	"github.com/facturel/facturel-backend/internal/websocket"
)

// BillHandler handles bill HTTP requests
type BillHandler struct {
	billService  *service.BillService
	statsService *service.StatisticsService
	publisher    websocket.EventPublisher
}

// NewBillHandler creates a new BillHandler
func NewBillHandler(billService *service.BillService, statsService *service.StatisticsService, publisher websocket.EventPublisher) *BillHandler {
	return &BillHandler{
		billService:  billService,
		statsService: statsService,
		publisher:    publisher,
	}
}

// CreateBillRequest represents the request to create a bill
type CreateBillRequest struct {
	Name       string   `json:"name"`
	PaymentURL *string  `json:"paymentUrl"`
	Notes      *string  `json:"notes"`
	DueDay     *int32   `json:"dueDay"`
	Recurrence *string  `json:"recurrence"`
	TagIDs     []string `json:"tagIds"`
}

// UpdateBillRequest represents the request to update a bill. A null tagIds
// leaves the bill's tag set untouched; an array replaces it entirely.
type UpdateBillRequest struct {
	Name       string    `json:"name"`
	PaymentURL *string   `json:"paymentUrl"`
	Notes      *string   `json:"notes"`
	DueDay     *int32    `json:"dueDay"`
	Recurrence *string   `json:"recurrence"`
	TagIDs     *[]string `json:"tagIds"`
}

// BillResponse represents a bill in API responses. DueStatus and DaysUntilDue
// are recomputed against the current date on every read.
type BillResponse struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	LogoPath     *string       `json:"logoPath,omitempty"`
	PaymentURL   *string       `json:"paymentUrl,omitempty"`
	Notes        *string       `json:"notes,omitempty"`
	DueDay       *int32        `json:"dueDay,omitempty"`
	Recurrence   *string       `json:"recurrence,omitempty"`
	NextDueDate  *string       `json:"nextDueDate,omitempty"`
	DueStatus    string        `json:"dueStatus"`
	DaysUntilDue *int          `json:"daysUntilDue,omitempty"`
	IsArchived   bool          `json:"isArchived"`
	Tags         []TagResponse `json:"tags"`
	CreatedAt    time.Time     `json:"createdAt"`
	UpdatedAt    time.Time     `json:"updatedAt"`
}

// ToBillResponse converts a domain bill to a response
func ToBillResponse(bill *domain.Bill) BillResponse {
	now := time.Now()

	resp := BillResponse{
		ID:         bill.ID.String(),
		Name:       bill.Name,
		LogoPath:   bill.LogoPath,
		PaymentURL: bill.PaymentURL,
		Notes:      bill.Notes,
		DueDay:     bill.DueDay,
		DueStatus:  string(service.ClassifyDueStatus(bill.NextDueDate, now)),
		IsArchived: bill.IsArchived,
		Tags:       ToTagResponses(bill.Tags),
		CreatedAt:  bill.CreatedAt,
		UpdatedAt:  bill.UpdatedAt,
	}

	if bill.Recurrence != nil {
		recurrence := string(*bill.Recurrence)
		resp.Recurrence = &recurrence
	}

	if bill.NextDueDate != nil {
		nextDue := bill.NextDueDate.Format("2006-01-02")
		resp.NextDueDate = &nextDue
		days := service.DaysUntil(*bill.NextDueDate, now)
		resp.DaysUntilDue = &days
	}

	return resp
}

// ToBillResponses converts a slice of domain bills to responses
func ToBillResponses(bills []*domain.Bill) []BillResponse {
	responses := make([]BillResponse, len(bills))
	for i, bill := range bills {
		responses[i] = ToBillResponse(bill)
	}
	return responses
}

// ListBills handles GET /api/v1/bills
func (h *BillHandler) ListBills(c echo.Context) error {
	includeArchived := c.QueryParam("includeArchived") == "true"

	bills, err := h.billService.ListBills(includeArchived)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list bills")
		return NewInternalError(c, "Failed to list bills")
	}

	return c.JSON(http.StatusOK, ToBillResponses(bills))
}

// GetBill handles GET /api/v1/bills/:id
func (h *BillHandler) GetBill(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid bill ID", []ValidationError{
			{Field: "id", Message: "must be a valid UUID"},
		})
	}

	bill, err := h.billService.GetBillByID(id)
	if err != nil {
		return h.handleBillError(c, err)
	}

	return c.JSON(http.StatusOK, ToBillResponse(bill))
}

// CreateBill handles POST /api/v1/bills
func (h *BillHandler) CreateBill(c echo.Context) error {
	var req CreateBillRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	tagIDs, err := parseUUIDs(req.TagIDs)
	if err != nil {
		return NewValidationError(c, "Invalid tag ID", []ValidationError{
			{Field: "tagIds", Message: "must be valid UUIDs"},
		})
	}

	bill, err := h.billService.CreateBill(service.CreateBillInput{
		Name:       req.Name,
		PaymentURL: req.PaymentURL,
		Notes:      req.Notes,
		DueDay:     req.DueDay,
		Recurrence: parseRecurrence(req.Recurrence),
		TagIDs:     tagIDs,
	})
	if err != nil {
		return h.handleBillError(c, err)
	}

	resp := ToBillResponse(bill)
	h.publisher.Publish(websocket.BillCreated(resp))
	publishStatistics(h.publisher, h.statsService)

	return c.JSON(http.StatusCreated, resp)
}

// UpdateBill handles PUT /api/v1/bills/:id
func (h *BillHandler) UpdateBill(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid bill ID", []ValidationError{
			{Field: "id", Message: "must be a valid UUID"},
		})
	}

	var req UpdateBillRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	input := service.UpdateBillInput{
		Name:       req.Name,
		PaymentURL: req.PaymentURL,
		Notes:      req.Notes,
		DueDay:     req.DueDay,
		Recurrence: parseRecurrence(req.Recurrence),
	}

	if req.TagIDs != nil {
		tagIDs, err := parseUUIDs(*req.TagIDs)
		if err != nil {
			return NewValidationError(c, "Invalid tag ID", []ValidationError{
				{Field: "tagIds", Message: "must be valid UUIDs"},
			})
		}
		input.TagIDs = &tagIDs
	}

	bill, err := h.billService.UpdateBill(id, input)
	if err != nil {
		return h.handleBillError(c, err)
	}

	resp := ToBillResponse(bill)
	h.publisher.Publish(websocket.BillUpdated(resp))
	publishStatistics(h.publisher, h.statsService)

	return c.JSON(http.StatusOK, resp)
}

// DeleteBill handles DELETE /api/v1/bills/:id
func (h *BillHandler) DeleteBill(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid bill ID", []ValidationError{
			{Field: "id", Message: "must be a valid UUID"},
		})
	}

	if err := h.billService.DeleteBill(id); err != nil {
		return h.handleBillError(c, err)
	}

	h.publisher.Publish(websocket.BillDeleted(map[string]string{"id": id.String()}))
	publishStatistics(h.publisher, h.statsService)

	return c.NoContent(http.StatusNoContent)
}

// ArchiveBill handles PATCH /api/v1/bills/:id/archive
func (h *BillHandler) ArchiveBill(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid bill ID", []ValidationError{
			{Field: "id", Message: "must be a valid UUID"},
		})
	}

	bill, err := h.billService.ArchiveBill(id)
	if err != nil {
		return h.handleBillError(c, err)
	}

	resp := ToBillResponse(bill)
	h.publisher.Publish(websocket.BillArchived(resp))
	publishStatistics(h.publisher, h.statsService)

	return c.JSON(http.StatusOK, resp)
}

// handleBillError maps domain errors to HTTP responses
func (h *BillHandler) handleBillError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrBillNotFound):
		return NewNotFoundError(c, "Bill not found")
	case errors.Is(err, domain.ErrTagNotFound):
		return NewValidationError(c, "Unknown tag", []ValidationError{
			{Field: "tagIds", Message: "references a tag that does not exist"},
		})
	case errors.Is(err, domain.ErrNameRequired):
		return NewValidationError(c, "Name is required", []ValidationError{
			{Field: "name", Message: "cannot be empty"},
		})
	case errors.Is(err, domain.ErrNameTooLong):
		return NewValidationError(c, "Name is too long", []ValidationError{
			{Field: "name", Message: "must be at most 255 characters"},
		})
	case errors.Is(err, domain.ErrInvalidDueDay):
		return NewValidationError(c, "Invalid due day", []ValidationError{
			{Field: "dueDay", Message: "must be between 1 and 31"},
		})
	case errors.Is(err, domain.ErrInvalidRecurrence):
		return NewValidationError(c, "Invalid recurrence", []ValidationError{
			{Field: "recurrence", Message: "must be monthly, quarterly or yearly"},
		})
	case errors.Is(err, domain.ErrDueDayRequired):
		return NewValidationError(c, "Due day is required for recurring bills", []ValidationError{
			{Field: "dueDay", Message: "required when recurrence is set"},
		})
	case errors.Is(err, domain.ErrRecurrenceRequired):
		return NewValidationError(c, "Recurrence is required when a due day is set", []ValidationError{
			{Field: "recurrence", Message: "required when dueDay is set"},
		})
	default:
		log.Error().Err(err).Msg("Bill operation failed")
		return NewInternalError(c, "Bill operation failed")
	}
}

// parseUUIDs parses a slice of UUID strings
func parseUUIDs(raw []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, len(raw))
	for i, s := range raw {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, err
		}
		ids[i] = id
	}
	return ids, nil
}

// parseRecurrence converts an optional recurrence string to the domain type.
// Validity is checked by the service layer.
func parseRecurrence(raw *string) *domain.Recurrence {
	if raw == nil || *raw == "" {
		return nil
	}
	recurrence := domain.Recurrence(*raw)
	return &recurrence
}

// publishStatistics recomputes statistics and broadcasts them so dashboards
// stay current after any mutation
func publishStatistics(publisher websocket.EventPublisher, statsService *service.StatisticsService) {
	stats, err := statsService.GetStatistics()
	if err != nil {
		log.Error().Err(err).Msg("Failed to recompute statistics for broadcast")
		return
	}
	publisher.Publish(websocket.StatisticsUpdated(ToStatisticsResponse(stats)))
}
