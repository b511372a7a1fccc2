package domain

import (
	"time"

	"github.com/google/uuid"
)

// DefaultTagColor is applied when a tag is created without an explicit color.
const DefaultTagColor = "#3B82F6"

type Tag struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	CreatedAt time.Time `json:"createdAt"`
}

type TagRepository interface {
	List() ([]*Tag, error)
	GetByID(id uuid.UUID) (*Tag, error)
	GetByName(name string) (*Tag, error)
	Create(tag *Tag) (*Tag, error)
	Delete(id uuid.UUID) error
}
