package handlers

import (
	"errors"
	"net/http"

	"aironlab/internal/models"
	"aironlab/internal/slug"
	"aironlab/internal/store"
)

// Tags groups the admin tag CRUD handlers.
type Tags struct {
	tags *store.TagStore
}

// NewTags creates a new Tags handler group.
func NewTags(tags *store.TagStore) *Tags {
	return &Tags{tags: tags}
}

type tagRequest struct {
	Name *string `json:"name"`
	Slug *string `json:"slug"`
}

// List returns all tags with post counts, ordered by name.
func (h *Tags) List(w http.ResponseWriter, r *http.Request) {
	tags, err := h.tags.List()
	if err != nil {
		writeServerError(w, r, err)
		return
	}
	if tags == nil {
		tags = []models.Tag{}
	}
	writeJSON(w, http.StatusOK, tags)
}

// Create validates the payload, derives the slug from the name when
// absent, and inserts the tag.
func (h *Tags) Create(w http.ResponseWriter, r *http.Request) {
	var req tagRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	name := ""
	if req.Name != nil {
		name = *req.Name
	}
	if fields := validateTag(name, req.Slug, true); len(fields) > 0 {
		writeValidationError(w, fields)
		return
	}

	tag := &models.Tag{Name: name}
	if req.Slug != nil && *req.Slug != "" {
		tag.Slug = slug.Generate(*req.Slug)
	} else {
		tag.Slug = slug.Generate(name)
	}

	created, err := h.tags.Create(tag)
	if err != nil {
		if errors.Is(err, store.ErrDuplicateSlug) {
			writeError(w, http.StatusBadRequest, "Тег с таким slug уже существует")
			return
		}
		writeServerError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// Update applies a partial update to a tag.
func (h *Tags) Update(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Некорректный идентификатор")
		return
	}

	tag, err := h.tags.FindByID(id)
	if err != nil {
		writeServerError(w, r, err)
		return
	}
	if tag == nil {
		writeError(w, http.StatusNotFound, "Тег не найден")
		return
	}

	var req tagRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	name := tag.Name
	if req.Name != nil {
		name = *req.Name
	}
	if fields := validateTag(name, req.Slug, true); len(fields) > 0 {
		writeValidationError(w, fields)
		return
	}

	tag.Name = name
	if req.Slug != nil && *req.Slug != "" {
		tag.Slug = slug.Generate(*req.Slug)
	}

	if err := h.tags.Update(tag); err != nil {
		if errors.Is(err, store.ErrDuplicateSlug) {
			writeError(w, http.StatusBadRequest, "Тег с таким slug уже существует")
			return
		}
		writeServerError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tag)
}

// Delete removes a tag. Join rows in blog_post_tags cascade away with it.
func (h *Tags) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Некорректный идентификатор")
		return
	}

	tag, err := h.tags.FindByID(id)
	if err != nil {
		writeServerError(w, r, err)
		return
	}
	if tag == nil {
		writeError(w, http.StatusNotFound, "Тег не найден")
		return
	}

	if err := h.tags.Delete(id); err != nil {
		writeServerError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
