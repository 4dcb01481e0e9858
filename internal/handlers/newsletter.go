package handlers

import (
	"errors"
	"net/http"
	"strings"

	"aironlab/internal/store"
)

// Newsletter groups the public newsletter subscription handlers.
type Newsletter struct {
	subscribers *store.SubscriberStore
}

// NewNewsletter creates a new Newsletter handler group.
func NewNewsletter(subscribers *store.SubscriberStore) *Newsletter {
	return &Newsletter{subscribers: subscribers}
}

type subscribeRequest struct {
	Email  string `json:"email"`
	Source string `json:"source"`
}

// Subscribe records a newsletter signup. A repeat signup for the same
// address reports success without inserting a second row.
func (h *Newsletter) Subscribe(w http.ResponseWriter, r *http.Request) {
	var req subscribeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !validEmail(email) {
		writeError(w, http.StatusBadRequest, "Invalid email address")
		return
	}

	source := req.Source
	if source == "" {
		source = "website"
	}

	if _, err := h.subscribers.Subscribe(email, source); err != nil {
		if !errors.Is(err, store.ErrDuplicateEmail) {
			writeServerError(w, r, err)
			return
		}
		// Already subscribed: idempotent success, no address probing.
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Subscription successful. Please check your email to confirm.",
	})
}
