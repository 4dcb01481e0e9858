package models

import (
	"time"

	"github.com/google/uuid"
)

// Tag represents a blog tag. Tags relate to posts many-to-many through
// blog_post_tags; deleting a tag removes its join rows first.
type Tag struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"created_at"`

	// PostCount is populated by list queries.
	PostCount int `json:"post_count"`
}
