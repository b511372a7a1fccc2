package handler

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/facturel/facturel-backend/internal/domain"
	"github.com/facturel/facturel-backend/internal/service"
	"github.com/facturel/facturel-backend/internal/websocket"
)

// TagHandler handles tag HTTP requests
type TagHandler struct {
	tagService *service.TagService
	publisher  websocket.EventPublisher
}

// NewTagHandler creates a new TagHandler
func NewTagHandler(tagService *service.TagService, publisher websocket.EventPublisher) *TagHandler {
	return &TagHandler{
		tagService: tagService,
		publisher:  publisher,
	}
}

// CreateTagRequest represents the request to create a tag
type CreateTagRequest struct {
	Name  string  `json:"name"`
	Color *string `json:"color"`
}

// TagResponse represents a tag in API responses
type TagResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// ToTagResponse converts a domain tag to a response
func ToTagResponse(tag *domain.Tag) TagResponse {
	return TagResponse{
		ID:    tag.ID.String(),
		Name:  tag.Name,
		Color: tag.Color,
	}
}

// ToTagResponses converts a slice of domain tags to responses
func ToTagResponses(tags []domain.Tag) []TagResponse {
	responses := make([]TagResponse, len(tags))
	for i := range tags {
		responses[i] = ToTagResponse(&tags[i])
	}
	return responses
}

// ListTags handles GET /api/v1/tags
func (h *TagHandler) ListTags(c echo.Context) error {
	tags, err := h.tagService.ListTags()
	if err != nil {
		log.Error().Err(err).Msg("Failed to list tags")
		return NewInternalError(c, "Failed to list tags")
	}

	responses := make([]TagResponse, len(tags))
	for i, tag := range tags {
		responses[i] = ToTagResponse(tag)
	}

	return c.JSON(http.StatusOK, responses)
}

// CreateTag handles POST /api/v1/tags. Creation is idempotent by name: posting an
// existing name returns the existing tag with 200 instead of 201.
func (h *TagHandler) CreateTag(c echo.Context) error {
	var req CreateTagRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	tag, created, err := h.tagService.CreateOrGetTag(req.Name, req.Color)
	if err != nil {
		return h.handleTagError(c, err)
	}

	resp := ToTagResponse(tag)
	if !created {
		return c.JSON(http.StatusOK, resp)
	}

	h.publisher.Publish(websocket.TagCreated(resp))
	return c.JSON(http.StatusCreated, resp)
}

// DeleteTag handles DELETE /api/v1/tags/:id
func (h *TagHandler) DeleteTag(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid tag ID", []ValidationError{
			{Field: "id", Message: "must be a valid UUID"},
		})
	}

	if err := h.tagService.DeleteTag(id); err != nil {
		return h.handleTagError(c, err)
	}

	h.publisher.Publish(websocket.TagDeleted(map[string]string{"id": id.String()}))
	return c.NoContent(http.StatusNoContent)
}

// handleTagError maps domain errors to HTTP responses
func (h *TagHandler) handleTagError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrTagNotFound):
		return NewNotFoundError(c, "Tag not found")
	case errors.Is(err, domain.ErrNameRequired):
		return NewValidationError(c, "Name is required", []ValidationError{
			{Field: "name", Message: "cannot be empty"},
		})
	case errors.Is(err, domain.ErrNameTooLong):
		return NewValidationError(c, "Name is too long", []ValidationError{
			{Field: "name", Message: "must be at most 100 characters"},
		})
	default:
		log.Error().Err(err).Msg("Tag operation failed")
		return NewInternalError(c, "Tag operation failed")
	}
}
