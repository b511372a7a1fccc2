package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/facturel/facturel-backend/internal/domain"
	"github.com/facturel/facturel-backend/internal/service"
	"github.com/facturel/facturel-backend/internal/testutil"
	"github.com/facturel/facturel-backend/internal/websocket"
)

type paymentFixture struct {
	handler     *PaymentHandler
	billRepo    *testutil.MockBillRepository
	paymentRepo *testutil.MockPaymentRepository
}

func newPaymentFixture() paymentFixture {
	billRepo := testutil.NewMockBillRepository()
	paymentRepo := testutil.NewMockPaymentRepository()

	paymentService := service.NewPaymentService(paymentRepo, billRepo)
	statsService := service.NewStatisticsService(billRepo, paymentRepo)

	return paymentFixture{
		handler:     NewPaymentHandler(paymentService, statsService, &websocket.NoOpPublisher{}),
		billRepo:    billRepo,
		paymentRepo: paymentRepo,
	}
}

func TestCreatePayment_HTTPSuccess(t *testing.T) {
	e := echo.New()
	f := newPaymentFixture()

	bill := &domain.Bill{Name: "Rent"}
	f.billRepo.AddBill(bill)

	reqBody := `{"billId": "` + bill.ID.String() + `", "amount": "120.5", "paymentDate": "2024-03-05"}`
	req := httptest.NewRequest(http.MethodPost, "/api/payments", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := f.handler.CreatePayment(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var response PaymentResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}

	if response.Amount != "120.50" {
		t.Errorf("Amount = %s, want 120.50", response.Amount)
	}
	if response.PaymentDate != "2024-03-05" {
		t.Errorf("PaymentDate = %s, want 2024-03-05", response.PaymentDate)
	}
	if response.BillID != bill.ID.String() {
		t.Errorf("BillID = %s, want %s", response.BillID, bill.ID)
	}
}

func TestCreatePayment_UnknownBillRejected(t *testing.T) {
	e := echo.New()
	f := newPaymentFixture()

	reqBody := `{"billId": "7f6b9a6e-3b1f-4a68-9a2e-df9d4c1b5a10", "amount": "10", "paymentDate": "2024-03-05"}`
	req := httptest.NewRequest(http.MethodPost, "/api/payments", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := f.handler.CreatePayment(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestCreatePayment_InvalidAmount(t *testing.T) {
	e := echo.New()
	f := newPaymentFixture()

	bill := &domain.Bill{Name: "Rent"}
	f.billRepo.AddBill(bill)

	tests := []struct {
		name   string
		amount string
	}{
		{"zero", "0"},
		{"negative", "-5"},
		{"not a number", "abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reqBody := `{"billId": "` + bill.ID.String() + `", "amount": "` + tt.amount + `", "paymentDate": "2024-03-05"}`
			req := httptest.NewRequest(http.MethodPost, "/api/payments", strings.NewReader(reqBody))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			if err := f.handler.CreatePayment(c); err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if rec.Code != http.StatusBadRequest {
				t.Errorf("Expected status 400, got %d", rec.Code)
			}
		})
	}
}

func TestCreatePayment_FutureDateRejected(t *testing.T) {
	e := echo.New()
	f := newPaymentFixture()

	bill := &domain.Bill{Name: "Rent"}
	f.billRepo.AddBill(bill)

	future := time.Now().AddDate(0, 0, 3).Format("2006-01-02")
	reqBody := `{"billId": "` + bill.ID.String() + `", "amount": "10", "paymentDate": "` + future + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/payments", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := f.handler.CreatePayment(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestListPayments_FilteredByBill(t *testing.T) {
	e := echo.New()
	f := newPaymentFixture()

	rent := &domain.Bill{Name: "Rent"}
	gym := &domain.Bill{Name: "Gym"}
	f.billRepo.AddBill(rent)
	f.billRepo.AddBill(gym)

	f.paymentRepo.AddPayment(&domain.Payment{
		BillID:      rent.ID,
		Amount:      decimal.RequireFromString("100"),
		PaymentDate: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
	})
	f.paymentRepo.AddPayment(&domain.Payment{
		BillID:      gym.ID,
		Amount:      decimal.RequireFromString("30"),
		PaymentDate: time.Date(2024, time.January, 2, 0, 0, 0, 0, time.UTC),
	})

	req := httptest.NewRequest(http.MethodGet, "/api/payments?billId="+rent.ID.String(), nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := f.handler.ListPayments(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	var response []PaymentResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if len(response) != 1 {
		t.Fatalf("Expected 1 payment, got %d", len(response))
	}
	if response[0].BillID != rent.ID.String() {
		t.Errorf("BillID = %s, want %s", response[0].BillID, rent.ID)
	}
}

func TestUpdatePayment_HTTPSuccess(t *testing.T) {
	e := echo.New()
	f := newPaymentFixture()

	bill := &domain.Bill{Name: "Rent"}
	f.billRepo.AddBill(bill)

	payment := &domain.Payment{
		BillID:      bill.ID,
		Amount:      decimal.RequireFromString("100"),
		PaymentDate: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
	}
	f.paymentRepo.AddPayment(payment)

	reqBody := `{"amount": "110.25", "paymentDate": "2024-01-02"}`
	req := httptest.NewRequest(http.MethodPut, "/api/payments/"+payment.ID.String(), strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(payment.ID.String())

	if err := f.handler.UpdatePayment(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var response PaymentResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if response.Amount != "110.25" {
		t.Errorf("Amount = %s, want 110.25", response.Amount)
	}
}

func TestDeletePayment_NotFoundHTTP(t *testing.T) {
	e := echo.New()
	f := newPaymentFixture()

	req := httptest.NewRequest(http.MethodDelete, "/api/payments/7f6b9a6e-3b1f-4a68-9a2e-df9d4c1b5a10", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("7f6b9a6e-3b1f-4a68-9a2e-df9d4c1b5a10")

	if err := f.handler.DeletePayment(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", rec.Code)
	}
}
