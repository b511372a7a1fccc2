package service

import (
	"errors"
	"strings"

	"github.com/facturel/facturel-backend/internal/domain"
	"github.com/google/uuid"
)

// TagService handles tag business logic
type TagService struct {
	tagRepo domain.TagRepository
}

// NewTagService creates a new TagService
func NewTagService(tagRepo domain.TagRepository) *TagService {
	return &TagService{tagRepo: tagRepo}
}

// ListTags retrieves all tags ordered by name
func (s *TagService) ListTags() ([]*domain.Tag, error) {
	return s.tagRepo.List()
}

// CreateOrGetTag creates a tag, or returns the existing tag when the name is
// already taken. Tag creation is idempotent by name; a uniqueness violation is
// never surfaced to the caller. The boolean reports whether a new tag was
// actually created.
func (s *TagService) CreateOrGetTag(name string, color *string) (*domain.Tag, bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, false, domain.ErrNameRequired
	}
	if len(name) > domain.MaxTagNameLength {
		return nil, false, domain.ErrNameTooLong
	}

	tagColor := domain.DefaultTagColor
	if color != nil && *color != "" {
		tagColor = *color
	}

	created, err := s.tagRepo.Create(&domain.Tag{Name: name, Color: tagColor})
	if err != nil {
		if errors.Is(err, domain.ErrTagNameExists) {
			existing, getErr := s.tagRepo.GetByName(name)
			return existing, false, getErr
		}
		return nil, false, err
	}

	return created, true, nil
}

// DeleteTag removes a tag; bill associations are removed by cascade, the
// bills themselves are untouched.
func (s *TagService) DeleteTag(id uuid.UUID) error {
	return s.tagRepo.Delete(id)
}
