package models

import (
	"time"

	"github.com/google/uuid"
)

// Subscriber represents a newsletter subscription. Source records which
// part of the site produced the signup ("website", "blog", "footer").
type Subscriber struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Source    string    `json:"source"`
	CreatedAt time.Time `json:"created_at"`
}
