package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"aironlab/internal/models"
	"aironlab/internal/slug"
	"aironlab/internal/store"
)

// Categories groups the admin category CRUD handlers.
type Categories struct {
	categories *store.CategoryStore
}

// NewCategories creates a new Categories handler group.
func NewCategories(categories *store.CategoryStore) *Categories {
	return &Categories{categories: categories}
}

type categoryRequest struct {
	Name        *string `json:"name"`
	Slug        *string `json:"slug"`
	Description *string `json:"description"`
	Color       *string `json:"color"`
}

// List returns all categories with post counts, ordered by name.
func (h *Categories) List(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categories.List()
	if err != nil {
		writeServerError(w, r, err)
		return
	}
	if categories == nil {
		categories = []models.Category{}
	}
	writeJSON(w, http.StatusOK, categories)
}

// Create validates the payload, derives the slug from the name when
// absent, and inserts the category.
func (h *Categories) Create(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	name := ""
	if req.Name != nil {
		name = *req.Name
	}
	if fields := validateCategory(name, req.Slug, req.Description, true); len(fields) > 0 {
		writeValidationError(w, fields)
		return
	}

	category := &models.Category{
		Name:        name,
		Description: req.Description,
		Color:       req.Color,
	}
	if req.Slug != nil && *req.Slug != "" {
		category.Slug = slug.Generate(*req.Slug)
	} else {
		category.Slug = slug.Generate(name)
	}

	created, err := h.categories.Create(category)
	if err != nil {
		if errors.Is(err, store.ErrDuplicateSlug) {
			writeError(w, http.StatusBadRequest, "Категория с таким slug уже существует")
			return
		}
		writeServerError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// Update applies a partial update to a category.
func (h *Categories) Update(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Некорректный идентификатор")
		return
	}

	category, err := h.categories.FindByID(id)
	if err != nil {
		writeServerError(w, r, err)
		return
	}
	if category == nil {
		writeError(w, http.StatusNotFound, "Категория не найдена")
		return
	}

	var req categoryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	name := category.Name
	if req.Name != nil {
		name = *req.Name
	}
	if fields := validateCategory(name, req.Slug, req.Description, true); len(fields) > 0 {
		writeValidationError(w, fields)
		return
	}

	category.Name = name
	if req.Slug != nil && *req.Slug != "" {
		category.Slug = slug.Generate(*req.Slug)
	}
	if req.Description != nil {
		category.Description = req.Description
	}
	if req.Color != nil {
		category.Color = req.Color
	}

	if err := h.categories.Update(category); err != nil {
		if errors.Is(err, store.ErrDuplicateSlug) {
			writeError(w, http.StatusBadRequest, "Категория с таким slug уже существует")
			return
		}
		writeServerError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, category)
}

// Delete removes a category, refusing while posts still reference it.
func (h *Categories) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Некорректный идентификатор")
		return
	}

	category, err := h.categories.FindByID(id)
	if err != nil {
		writeServerError(w, r, err)
		return
	}
	if category == nil {
		writeError(w, http.StatusNotFound, "Категория не найдена")
		return
	}

	count, err := h.categories.CountPosts(id)
	if err != nil {
		writeServerError(w, r, err)
		return
	}
	if count > 0 {
		writeError(w, http.StatusBadRequest,
			fmt.Sprintf("Невозможно удалить категорию. Она используется в %d постах", count))
		return
	}

	if err := h.categories.Delete(id); err != nil {
		writeServerError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
