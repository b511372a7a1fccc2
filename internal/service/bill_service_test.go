package service

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/facturel/facturel-backend/internal/domain"
	"github.com/facturel/facturel-backend/internal/testutil"
)

func newBillServiceFixture() (*BillService, *testutil.MockBillRepository, *testutil.MockTagRepository) {
	billRepo := testutil.NewMockBillRepository()
	tagRepo := testutil.NewMockTagRepository()
	billRepo.TagLookup = tagRepo.Lookup
	return NewBillService(billRepo, tagRepo), billRepo, tagRepo
}

func strPtr(s string) *string { return &s }

func int32Ptr(n int32) *int32 { return &n }

func recurrencePtr(r domain.Recurrence) *domain.Recurrence { return &r }

func TestCreateBill_Minimal(t *testing.T) {
	svc, _, _ := newBillServiceFixture()

	bill, err := svc.CreateBill(CreateBillInput{Name: "Rent"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if bill.Name != "Rent" {
		t.Errorf("Name = %s, want Rent", bill.Name)
	}
	if bill.DueDay != nil || bill.Recurrence != nil || bill.NextDueDate != nil {
		t.Error("Expected no recurrence fields on a one-off bill")
	}
	if bill.IsArchived {
		t.Error("New bill must not be archived")
	}
}

func TestCreateBill_TrimsName(t *testing.T) {
	svc, _, _ := newBillServiceFixture()

	bill, err := svc.CreateBill(CreateBillInput{Name: "  Electricity  "})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if bill.Name != "Electricity" {
		t.Errorf("Name = %q, want %q", bill.Name, "Electricity")
	}
}

func TestCreateBill_NameValidation(t *testing.T) {
	svc, _, _ := newBillServiceFixture()

	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{"empty name", "", domain.ErrNameRequired},
		{"whitespace only", "   ", domain.ErrNameRequired},
		{"too long", strings.Repeat("a", 256), domain.ErrNameTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateBill(CreateBillInput{Name: tt.input})
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("CreateBill error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestCreateBill_RecurringComputesNextDueDate(t *testing.T) {
	svc, _, _ := newBillServiceFixture()

	bill, err := svc.CreateBill(CreateBillInput{
		Name:       "Internet",
		DueDay:     int32Ptr(15),
		Recurrence: recurrencePtr(domain.RecurrenceMonthly),
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if bill.NextDueDate == nil {
		t.Fatal("Expected next due date to be computed")
	}
	if bill.NextDueDate.Day() != 15 {
		t.Errorf("NextDueDate day = %d, want 15", bill.NextDueDate.Day())
	}
	if !bill.NextDueDate.After(truncateToDate(time.Now())) {
		t.Errorf("NextDueDate %v must be strictly in the future", bill.NextDueDate)
	}
}

func TestCreateBill_RecurrenceValidation(t *testing.T) {
	svc, _, _ := newBillServiceFixture()

	tests := []struct {
		name       string
		dueDay     *int32
		recurrence *domain.Recurrence
		wantErr    error
	}{
		{"due day without recurrence", int32Ptr(10), nil, domain.ErrRecurrenceRequired},
		{"recurrence without due day", nil, recurrencePtr(domain.RecurrenceMonthly), domain.ErrDueDayRequired},
		{"due day zero", int32Ptr(0), recurrencePtr(domain.RecurrenceMonthly), domain.ErrInvalidDueDay},
		{"due day too large", int32Ptr(32), recurrencePtr(domain.RecurrenceMonthly), domain.ErrInvalidDueDay},
		{"unknown recurrence", int32Ptr(10), recurrencePtr(domain.Recurrence("weekly")), domain.ErrInvalidRecurrence},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateBill(CreateBillInput{
				Name:       "Test",
				DueDay:     tt.dueDay,
				Recurrence: tt.recurrence,
			})
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("CreateBill error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestCreateBill_WithTags(t *testing.T) {
	svc, _, tagRepo := newBillServiceFixture()

	tag := &domain.Tag{Name: "Housing", Color: "#FF0000"}
	tagRepo.AddTag(tag)

	bill, err := svc.CreateBill(CreateBillInput{
		Name:   "Rent",
		TagIDs: []uuid.UUID{tag.ID},
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(bill.Tags) != 1 {
		t.Fatalf("Expected 1 tag, got %d", len(bill.Tags))
	}
	if bill.Tags[0].Name != "Housing" {
		t.Errorf("Tag name = %s, want Housing", bill.Tags[0].Name)
	}
}

func TestCreateBill_UnknownTagRejected(t *testing.T) {
	svc, _, _ := newBillServiceFixture()

	_, err := svc.CreateBill(CreateBillInput{
		Name:   "Rent",
		TagIDs: []uuid.UUID{uuid.New()},
	})
	if !errors.Is(err, domain.ErrTagNotFound) {
		t.Errorf("CreateBill error = %v, want %v", err, domain.ErrTagNotFound)
	}
}

func TestUpdateBill_ReplacesFields(t *testing.T) {
	svc, _, _ := newBillServiceFixture()

	created, err := svc.CreateBill(CreateBillInput{Name: "Rent", Notes: strPtr("old notes")})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	updated, err := svc.UpdateBill(created.ID, UpdateBillInput{
		Name:  "Rent 2.0",
		Notes: strPtr("new notes"),
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if updated.Name != "Rent 2.0" {
		t.Errorf("Name = %s, want Rent 2.0", updated.Name)
	}
	if updated.Notes == nil || *updated.Notes != "new notes" {
		t.Errorf("Notes = %v, want new notes", updated.Notes)
	}
}

func TestUpdateBill_ClearingRecurrenceClearsNextDueDate(t *testing.T) {
	svc, _, _ := newBillServiceFixture()

	created, err := svc.CreateBill(CreateBillInput{
		Name:       "Internet",
		DueDay:     int32Ptr(15),
		Recurrence: recurrencePtr(domain.RecurrenceMonthly),
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	updated, err := svc.UpdateBill(created.ID, UpdateBillInput{Name: "Internet"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if updated.DueDay != nil || updated.Recurrence != nil || updated.NextDueDate != nil {
		t.Error("Expected recurrence fields to be cleared")
	}
}

func TestUpdateBill_NilTagIDsLeavesTagsUntouched(t *testing.T) {
	svc, _, tagRepo := newBillServiceFixture()

	tag := &domain.Tag{Name: "Housing"}
	tagRepo.AddTag(tag)

	created, err := svc.CreateBill(CreateBillInput{Name: "Rent", TagIDs: []uuid.UUID{tag.ID}})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	updated, err := svc.UpdateBill(created.ID, UpdateBillInput{Name: "Rent"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(updated.Tags) != 1 {
		t.Errorf("Expected tags untouched, got %d tags", len(updated.Tags))
	}
}

func TestUpdateBill_EmptyTagIDsClearsTags(t *testing.T) {
	svc, _, tagRepo := newBillServiceFixture()

	tag := &domain.Tag{Name: "Housing"}
	tagRepo.AddTag(tag)

	created, err := svc.CreateBill(CreateBillInput{Name: "Rent", TagIDs: []uuid.UUID{tag.ID}})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	empty := []uuid.UUID{}
	updated, err := svc.UpdateBill(created.ID, UpdateBillInput{Name: "Rent", TagIDs: &empty})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(updated.Tags) != 0 {
		t.Errorf("Expected tags cleared, got %d tags", len(updated.Tags))
	}
}

func TestUpdateBill_NotFound(t *testing.T) {
	svc, _, _ := newBillServiceFixture()

	_, err := svc.UpdateBill(uuid.New(), UpdateBillInput{Name: "Ghost"})
	if !errors.Is(err, domain.ErrBillNotFound) {
		t.Errorf("UpdateBill error = %v, want %v", err, domain.ErrBillNotFound)
	}
}

func TestArchiveBill(t *testing.T) {
	svc, _, _ := newBillServiceFixture()

	created, err := svc.CreateBill(CreateBillInput{Name: "Gym"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	archived, err := svc.ArchiveBill(created.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !archived.IsArchived {
		t.Error("Expected bill to be archived")
	}

	// Archived bills drop out of the default listing
	active, err := svc.ListBills(false)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(active) != 0 {
		t.Errorf("Expected no active bills, got %d", len(active))
	}

	all, err := svc.ListBills(true)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(all) != 1 {
		t.Errorf("Expected 1 bill including archived, got %d", len(all))
	}
}

func TestDeleteBill_NotFound(t *testing.T) {
	svc, _, _ := newBillServiceFixture()

	err := svc.DeleteBill(uuid.New())
	if !errors.Is(err, domain.ErrBillNotFound) {
		t.Errorf("DeleteBill error = %v, want %v", err, domain.ErrBillNotFound)
	}
}

func TestSetLogoPath(t *testing.T) {
	svc, _, _ := newBillServiceFixture()

	created, err := svc.CreateBill(CreateBillInput{Name: "Netflix"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	path := "bills/" + created.ID.String() + "/logo_display.jpg"
	updated, err := svc.SetLogoPath(created.ID, &path)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if updated.LogoPath == nil || *updated.LogoPath != path {
		t.Errorf("LogoPath = %v, want %s", updated.LogoPath, path)
	}

	cleared, err := svc.SetLogoPath(created.ID, nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if cleared.LogoPath != nil {
		t.Errorf("LogoPath = %v, want nil", cleared.LogoPath)
	}
}
