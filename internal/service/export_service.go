package service

import (
	"strings"
	"time"

	"github.com/facturel/facturel-backend/internal/domain"
	"github.com/google/uuid"
)

// ExportService renders a flattened CSV snapshot of all bills and payments.
type ExportService struct {
	billRepo    domain.BillRepository
	paymentRepo domain.PaymentRepository
}

// NewExportService creates a new ExportService
func NewExportService(billRepo domain.BillRepository, paymentRepo domain.PaymentRepository) *ExportService {
	return &ExportService{
		billRepo:    billRepo,
		paymentRepo: paymentRepo,
	}
}

// ExportCSVHeader is the header row of the export.
const ExportCSVHeader = "Type,Bill Name,Amount,Date,Notes,Tags"

// TagSeparator joins tag names inside the Tags column. Not a comma, so the
// list survives CSV parsing as a single field.
const TagSeparator = ";"

// UnknownBillName is emitted for payments whose owning bill cannot be resolved.
const UnknownBillName = "Unknown"

// ExportCSV renders every bill (archived included) and every payment as
// delimited text, one row each. Text fields are always double-quote wrapped;
// embedded quotes are doubled.
func (s *ExportService) ExportCSV() (string, error) {
	bills, err := s.billRepo.List(true)
	if err != nil {
		return "", err
	}

	payments, err := s.paymentRepo.List(nil)
	if err != nil {
		return "", err
	}

	billNames := make(map[uuid.UUID]string, len(bills))
	for _, bill := range bills {
		billNames[bill.ID] = bill.Name
	}

	var b strings.Builder
	b.WriteString(ExportCSVHeader)
	b.WriteByte('\n')

	for _, bill := range bills {
		tagNames := make([]string, len(bill.Tags))
		for i, tag := range bill.Tags {
			tagNames[i] = tag.Name
		}

		b.WriteString("Bill,")
		b.WriteString(quoteField(bill.Name))
		b.WriteString(",,")
		b.WriteString(quoteField(bill.CreatedAt.Format(time.RFC3339)))
		b.WriteByte(',')
		b.WriteString(quoteField(derefOrEmpty(bill.Notes)))
		b.WriteByte(',')
		b.WriteString(quoteField(strings.Join(tagNames, TagSeparator)))
		b.WriteByte('\n')
	}

	for _, payment := range payments {
		billName, ok := billNames[payment.BillID]
		if !ok {
			billName = UnknownBillName
		}

		b.WriteString("Payment,")
		b.WriteString(quoteField(billName))
		b.WriteByte(',')
		b.WriteString(payment.Amount.StringFixed(2))
		b.WriteByte(',')
		b.WriteString(quoteField(payment.PaymentDate.Format("2006-01-02")))
		b.WriteByte(',')
		b.WriteString(quoteField(derefOrEmpty(payment.Notes)))
		b.WriteString(",\n")
	}

	return b.String(), nil
}

// quoteField wraps a text field in double quotes, doubling embedded quotes so
// the output parses back as a single field.
func quoteField(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func derefOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
