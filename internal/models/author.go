package models

import (
	"time"

	"github.com/google/uuid"
)

// Author is the public byline for blog posts. An author row is created
// lazily the first time an admin user logs in, keyed by email.
type Author struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Bio       *string   `json:"bio,omitempty"`
	AvatarURL *string   `json:"avatar_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
