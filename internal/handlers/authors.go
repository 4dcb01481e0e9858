package handlers

import (
	"net/http"
	"strings"
	"unicode/utf8"

	"aironlab/internal/models"
	"aironlab/internal/store"
)

// Authors handles the blog author byline records. Rows are created
// lazily on login; this group only lists them (for the post editor's
// author picker) and updates the public profile fields.
type Authors struct {
	authors *store.AuthorStore
}

// NewAuthors creates a new Authors handler group.
func NewAuthors(authors *store.AuthorStore) *Authors {
	return &Authors{authors: authors}
}

// List returns all authors ordered by name.
func (h *Authors) List(w http.ResponseWriter, r *http.Request) {
	authors, err := h.authors.List()
	if err != nil {
		writeServerError(w, r, err)
		return
	}
	if authors == nil {
		authors = []models.Author{}
	}
	writeJSON(w, http.StatusOK, authors)
}

type updateAuthorRequest struct {
	Name      *string `json:"name"`
	Bio       *string `json:"bio"`
	AvatarURL *string `json:"avatar_url"`
}

// Update modifies an author's public profile. Email is the login
// identity and cannot change here.
func (h *Authors) Update(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Некорректный идентификатор автора")
		return
	}

	var req updateAuthorRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Некорректный JSON")
		return
	}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			writeValidationError(w, map[string]string{"name": "Имя обязательно"})
			return
		}
		if utf8.RuneCountInString(*req.Name) > maxPostTitleLen {
			writeValidationError(w, map[string]string{"name": "Имя слишком длинное"})
			return
		}
	}

	author, err := h.authors.FindByID(id)
	if err != nil {
		writeServerError(w, r, err)
		return
	}
	if author == nil {
		writeError(w, http.StatusNotFound, "Автор не найден")
		return
	}

	if req.Name != nil {
		author.Name = strings.TrimSpace(*req.Name)
	}
	if req.Bio != nil {
		author.Bio = req.Bio
	}
	if req.AvatarURL != nil {
		author.AvatarURL = req.AvatarURL
	}

	if err := h.authors.Update(author); err != nil {
		writeServerError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, author)
}
