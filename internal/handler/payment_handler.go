package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/facturel/facturel-backend/internal/domain"
	"github.com/facturel/facturel-backend/internal/service"
	"github.com/facturel/facturel-backend/internal/websocket"
)

// PaymentHandler handles payment HTTP requests
type PaymentHandler struct {
	paymentService *service.PaymentService
	statsService   *service.StatisticsService
	publisher      websocket.EventPublisher
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(paymentService *service.PaymentService, statsService *service.StatisticsService, publisher websocket.EventPublisher) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
		statsService:   statsService,
		publisher:      publisher,
	}
}

// CreatePaymentRequest represents the request to record a payment
type CreatePaymentRequest struct {
	BillID      string  `json:"billId"`
	Amount      string  `json:"amount"`
	PaymentDate string  `json:"paymentDate"`
	Notes       *string `json:"notes"`
}

// UpdatePaymentRequest represents the request to update a payment
type UpdatePaymentRequest struct {
	Amount      string  `json:"amount"`
	PaymentDate string  `json:"paymentDate"`
	Notes       *string `json:"notes"`
}

// PaymentResponse represents a payment in API responses. Amounts are rendered
// as fixed two-decimal strings, payment dates as calendar dates.
type PaymentResponse struct {
	ID          string    `json:"id"`
	BillID      string    `json:"billId"`
	Amount      string    `json:"amount"`
	PaymentDate string    `json:"paymentDate"`
	Notes       *string   `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ToPaymentResponse converts a domain payment to a response
func ToPaymentResponse(payment *domain.Payment) PaymentResponse {
	return PaymentResponse{
		ID:          payment.ID.String(),
		BillID:      payment.BillID.String(),
		Amount:      payment.Amount.StringFixed(2),
		PaymentDate: payment.PaymentDate.Format("2006-01-02"),
		Notes:       payment.Notes,
		CreatedAt:   payment.CreatedAt,
		UpdatedAt:   payment.UpdatedAt,
	}
}

// ToPaymentResponses converts a slice of domain payments to responses
func ToPaymentResponses(payments []*domain.Payment) []PaymentResponse {
	responses := make([]PaymentResponse, len(payments))
	for i, payment := range payments {
		responses[i] = ToPaymentResponse(payment)
	}
	return responses
}

// ListPayments handles GET /api/v1/payments with an optional billId filter
func (h *PaymentHandler) ListPayments(c echo.Context) error {
	var billID *uuid.UUID
	if raw := c.QueryParam("billId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return NewValidationError(c, "Invalid bill ID", []ValidationError{
				{Field: "billId", Message: "must be a valid UUID"},
			})
		}
		billID = &id
	}

	payments, err := h.paymentService.ListPayments(billID)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list payments")
		return NewInternalError(c, "Failed to list payments")
	}

	return c.JSON(http.StatusOK, ToPaymentResponses(payments))
}

// CreatePayment handles POST /api/v1/payments
func (h *PaymentHandler) CreatePayment(c echo.Context) error {
	var req CreatePaymentRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	billID, err := uuid.Parse(req.BillID)
	if err != nil {
		return NewValidationError(c, "Invalid bill ID", []ValidationError{
			{Field: "billId", Message: "must be a valid UUID"},
		})
	}

	amount, paymentDate, verr := parsePaymentFields(req.Amount, req.PaymentDate)
	if verr != nil {
		return NewValidationError(c, "Invalid payment", []ValidationError{*verr})
	}

	payment, err := h.paymentService.CreatePayment(service.CreatePaymentInput{
		BillID:      billID,
		Amount:      amount,
		PaymentDate: paymentDate,
		Notes:       req.Notes,
	})
	if err != nil {
		return h.handlePaymentError(c, err)
	}

	resp := ToPaymentResponse(payment)
	h.publisher.Publish(websocket.PaymentCreated(resp))
	publishStatistics(h.publisher, h.statsService)

	return c.JSON(http.StatusCreated, resp)
}

// UpdatePayment handles PUT /api/v1/payments/:id
func (h *PaymentHandler) UpdatePayment(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid payment ID", []ValidationError{
			{Field: "id", Message: "must be a valid UUID"},
		})
	}

	var req UpdatePaymentRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	amount, paymentDate, verr := parsePaymentFields(req.Amount, req.PaymentDate)
	if verr != nil {
		return NewValidationError(c, "Invalid payment", []ValidationError{*verr})
	}

	payment, err := h.paymentService.UpdatePayment(id, service.UpdatePaymentInput{
		Amount:      amount,
		PaymentDate: paymentDate,
		Notes:       req.Notes,
	})
	if err != nil {
		return h.handlePaymentError(c, err)
	}

	resp := ToPaymentResponse(payment)
	h.publisher.Publish(websocket.PaymentUpdated(resp))
	publishStatistics(h.publisher, h.statsService)

	return c.JSON(http.StatusOK, resp)
}

// DeletePayment handles DELETE /api/v1/payments/:id
func (h *PaymentHandler) DeletePayment(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid payment ID", []ValidationError{
			{Field: "id", Message: "must be a valid UUID"},
		})
	}

	if err := h.paymentService.DeletePayment(id); err != nil {
		return h.handlePaymentError(c, err)
	}

	h.publisher.Publish(websocket.PaymentDeleted(map[string]string{"id": id.String()}))
	publishStatistics(h.publisher, h.statsService)

	return c.NoContent(http.StatusNoContent)
}

// parsePaymentFields parses the amount and payment date shared by create and
// update requests
func parsePaymentFields(rawAmount, rawDate string) (decimal.Decimal, time.Time, *ValidationError) {
	amount, err := decimal.NewFromString(rawAmount)
	if err != nil {
		return decimal.Decimal{}, time.Time{}, &ValidationError{
			Field: "amount", Message: "must be a decimal number",
		}
	}

	paymentDate, err := time.Parse("2006-01-02", rawDate)
	if err != nil {
		return decimal.Decimal{}, time.Time{}, &ValidationError{
			Field: "paymentDate", Message: "must be a date in YYYY-MM-DD format",
		}
	}

	return amount, paymentDate, nil
}

// handlePaymentError maps domain errors to HTTP responses
func (h *PaymentHandler) handlePaymentError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrPaymentNotFound):
		return NewNotFoundError(c, "Payment not found")
	case errors.Is(err, domain.ErrBillNotFound):
		return NewValidationError(c, "Unknown bill", []ValidationError{
			{Field: "billId", Message: "references a bill that does not exist"},
		})
	case errors.Is(err, domain.ErrInvalidAmount):
		return NewValidationError(c, "Invalid amount", []ValidationError{
			{Field: "amount", Message: "must be greater than zero"},
		})
	case errors.Is(err, domain.ErrFuturePaymentDate):
		return NewValidationError(c, "Invalid payment date", []ValidationError{
			{Field: "paymentDate", Message: "cannot be in the future"},
		})
	default:
		log.Error().Err(err).Msg("Payment operation failed")
		return NewInternalError(c, "Payment operation failed")
	}
}
