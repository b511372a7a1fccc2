package handler

import (
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
)

func TestExportCSV_Endpoint(t *testing.T) {
	e := echo.New()
	billRepo := testutil.NewMockBillRepository()
	paymentRepo := testutil.NewMockPaymentRepository()
	handler := NewExportHandler(service.NewExportService(billRepo, paymentRepo))

	bill := &domain.Bill{Name: "Rent", CreatedAt: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)}
	billRepo.AddBill(bill)
	paymentRepo.AddPayment(&domain.Payment{
		BillID:      bill.ID,
		Amount:      decimal.RequireFromString("1200.50"),
		PaymentDate: time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC),
	})

	req := httptest.NewRequest(http.MethodGet, "/api/export/csv", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.ExportCSV(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	contentType := rec.Header().Get(echo.HeaderContentType)
	if !strings.HasPrefix(contentType, "text/csv") {
		t.Errorf("Content-Type = %s, want text/csv", contentType)
	}

	disposition := rec.Header().Get(echo.HeaderContentDisposition)
	if !strings.Contains(disposition, "attachment") || !strings.Contains(disposition, ".csv") {
		t.Errorf("Content-Disposition = %s, want a csv attachment", disposition)
	}

	body := rec.Body.String()
	if !strings.HasPrefix(body, service.ExportCSVHeader) {
		t.Errorf("Body does not start with header: %q", body)
	}
	if !strings.Contains(body, `Bill,"Rent"`) {
		t.Errorf("Body missing bill row: %q", body)
	}
	if !strings.Contains(body, `Payment,"Rent",1200.50`) {
		t.Errorf("Body missing payment row: %q", body)
	}
}
