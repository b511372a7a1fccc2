package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/facturel/facturel-backend/internal/domain"
	"github.com/facturel/facturel-backend/internal/service"
	"github.com/facturel/facturel-backend/internal/testutil"
	"github.com/facturel/facturel-backend/internal/websocket"
)

func newTagFixture() (*TagHandler, *testutil.MockTagRepository) {
	tagRepo := testutil.NewMockTagRepository()
	tagService := service.NewTagService(tagRepo)
	return NewTagHandler(tagService, &websocket.NoOpPublisher{}), tagRepo
}

func TestCreateTag_Success(t *testing.T) {
	e := echo.New()
	handler, _ := newTagFixture()

	reqBody := `{"name": "Housing"}`
	req := httptest.NewRequest(http.MethodPost, "/api/tags", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.CreateTag(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d", rec.Code)
	}

	var response TagResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if response.Name != "Housing" {
		t.Errorf("Name = %s, want Housing", response.Name)
	}
	if response.Color != domain.DefaultTagColor {
		t.Errorf("Color = %s, want default", response.Color)
	}
}

func TestCreateTag_ExistingNameReturns200(t *testing.T) {
	e := echo.New()
	handler, tagRepo := newTagFixture()

	existing := &domain.Tag{Name: "Housing", Color: "#FF0000"}
	tagRepo.AddTag(existing)

	reqBody := `{"name": "Housing", "color": "#00FF00"}`
	req := httptest.NewRequest(http.MethodPost, "/api/tags", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.CreateTag(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200 for existing tag, got %d", rec.Code)
	}

	var response TagResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if response.ID != existing.ID.String() {
		t.Errorf("ID = %s, want existing %s", response.ID, existing.ID)
	}
	if response.Color != "#FF0000" {
		t.Errorf("Color = %s, want the original #FF0000", response.Color)
	}
}

func TestCreateTag_EmptyName(t *testing.T) {
	e := echo.New()
	handler, _ := newTagFixture()

	reqBody := `{"name": "  "}`
	req := httptest.NewRequest(http.MethodPost, "/api/tags", strings.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.CreateTag(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestListTags_Sorted(t *testing.T) {
	e := echo.New()
	handler, tagRepo := newTagFixture()

	tagRepo.AddTag(&domain.Tag{Name: "Utilities"})
	tagRepo.AddTag(&domain.Tag{Name: "Housing"})

	req := httptest.NewRequest(http.MethodGet, "/api/tags", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.ListTags(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	var response []TagResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if len(response) != 2 {
		t.Fatalf("Expected 2 tags, got %d", len(response))
	}
	if response[0].Name != "Housing" || response[1].Name != "Utilities" {
		t.Errorf("Tags not sorted by name: %+v", response)
	}
}

func TestDeleteTag_Success(t *testing.T) {
	e := echo.New()
	handler, tagRepo := newTagFixture()

	tag := &domain.Tag{Name: "Housing"}
	tagRepo.AddTag(tag)

	req := httptest.NewRequest(http.MethodDelete, "/api/tags/"+tag.ID.String(), nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(tag.ID.String())

	if err := handler.DeleteTag(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusNoContent {
		t.Errorf("Expected status 204, got %d", rec.Code)
	}
}

func TestDeleteTag_NotFoundHTTP(t *testing.T) {
	e := echo.New()
	handler, _ := newTagFixture()

	req := httptest.NewRequest(http.MethodDelete, "/api/tags/7f6b9a6e-3b1f-4a68-9a2e-df9d4c1b5a10", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("7f6b9a6e-3b1f-4a68-9a2e-df9d4c1b5a10")

	if err := handler.DeleteTag(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", rec.Code)
	}
}
