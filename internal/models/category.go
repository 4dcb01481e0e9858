package models

import (
	"time"

	"github.com/google/uuid"
)

// Category represents a blog category. Posts reference at most one
// category; a category cannot be deleted while any post still points at it.
type Category struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description *string   `json:"description,omitempty"`
	Color       *string   `json:"color,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// PostCount is populated by list queries.
	PostCount int `json:"post_count"`
}
