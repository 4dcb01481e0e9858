package handlers

import (
	"errors"
	"net/http"

	"github.com/google/uuid"

	"aironlab/internal/cache"
	"aironlab/internal/models"
	"aironlab/internal/slug"
	"aironlab/internal/store"
	"aironlab/internal/textutil"
)

// Posts groups the admin post CRUD handlers.
type Posts struct {
	posts *store.PostStore
	tags  *store.TagStore
	feed  *cache.FeedCache
}

// NewPosts creates a new Posts handler group.
func NewPosts(posts *store.PostStore, tags *store.TagStore, feed *cache.FeedCache) *Posts {
	return &Posts{posts: posts, tags: tags, feed: feed}
}

type createPostRequest struct {
	Title           string   `json:"title"`
	Content         string   `json:"content"`
	AuthorID        string   `json:"author_id"`
	Slug            *string  `json:"slug"`
	Excerpt         *string  `json:"excerpt"`
	FeaturedImage   *string  `json:"featured_image"`
	Status          *string  `json:"status"`
	CategoryID      *string  `json:"category_id"`
	MetaTitle       *string  `json:"meta_title"`
	MetaDescription *string  `json:"meta_description"`
	Tags            []string `json:"tags"`
}

type updatePostRequest struct {
	Title           *string   `json:"title"`
	Content         *string   `json:"content"`
	Slug            *string   `json:"slug"`
	Excerpt         *string   `json:"excerpt"`
	FeaturedImage   *string   `json:"featured_image"`
	Status          *string   `json:"status"`
	CategoryID      *string   `json:"category_id"`
	MetaTitle       *string   `json:"meta_title"`
	MetaDescription *string   `json:"meta_description"`
	Tags            *[]string `json:"tags"`
}

// List returns a filtered page of posts as {posts, pagination}.
func (h *Posts) List(w http.ResponseWriter, r *http.Request) {
	filters := parsePostFilters(r.URL.Query())

	posts, total, err := h.posts.List(filters)
	if err != nil {
		writeServerError(w, r, err)
		return
	}
	if posts == nil {
		posts = []models.Post{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"posts":      posts,
		"pagination": newPagination(filters.Page, filters.Limit, total),
	})
}

// Create validates the payload, derives the slug, excerpt and read time
// when absent, and inserts the post with its tag associations.
func (h *Posts) Create(w http.ResponseWriter, r *http.Request) {
	var req createPostRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if fields := validateCreatePost(&req); len(fields) > 0 {
		writeValidationError(w, fields)
		return
	}

	authorID, _ := parseUUID(req.AuthorID)

	post := &models.Post{
		Title:           req.Title,
		Content:         req.Content,
		AuthorID:        authorID,
		FeaturedImage:   req.FeaturedImage,
		Status:          models.PostStatusDraft,
		MetaTitle:       req.MetaTitle,
		MetaDescription: req.MetaDescription,
		ReadTime:        textutil.ReadTime(req.Content),
	}
	if req.Status != nil {
		post.Status = models.PostStatus(*req.Status)
	}

	if req.Slug != nil && *req.Slug != "" {
		post.Slug = slug.Generate(*req.Slug)
	} else {
		post.Slug = slug.Generate(req.Title)
	}

	if req.Excerpt != nil {
		post.Excerpt = req.Excerpt
	} else {
		excerpt := textutil.Excerpt(req.Content, textutil.DefaultExcerptLength)
		post.Excerpt = &excerpt
	}

	if req.CategoryID != nil && *req.CategoryID != "" {
		categoryID, _ := parseUUID(*req.CategoryID)
		post.CategoryID = &categoryID
	}

	tagIDs, msg, err := h.resolveTagIDs(req.Tags)
	if err != nil {
		writeServerError(w, r, err)
		return
	}
	if msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	created, err := h.posts.Create(post, tagIDs)
	if err != nil {
		if errors.Is(err, store.ErrDuplicateSlug) {
			writeError(w, http.StatusBadRequest, "Пост с таким slug уже существует")
			return
		}
		writeServerError(w, r, err)
		return
	}

	h.feed.Invalidate(r.Context())
	writeJSON(w, http.StatusCreated, created)
}

// Get returns a single post by ID.
func (h *Posts) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Некорректный идентификатор")
		return
	}

	post, err := h.posts.FindByID(id)
	if err != nil {
		writeServerError(w, r, err)
		return
	}
	if post == nil {
		writeError(w, http.StatusNotFound, "Пост не найден")
		return
	}
	writeJSON(w, http.StatusOK, post)
}

// Update applies a partial update. Only supplied fields change; read time
// and excerpt are re-derived when content changes and excerpt was not
// explicitly supplied.
func (h *Posts) Update(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Некорректный идентификатор")
		return
	}

	post, err := h.posts.FindByID(id)
	if err != nil {
		writeServerError(w, r, err)
		return
	}
	if post == nil {
		writeError(w, http.StatusNotFound, "Пост не найден")
		return
	}

	var req updatePostRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if fields := validateUpdatePost(&req); len(fields) > 0 {
		writeValidationError(w, fields)
		return
	}

	if req.Title != nil {
		post.Title = *req.Title
	}
	if req.Content != nil {
		post.Content = *req.Content
		post.ReadTime = textutil.ReadTime(*req.Content)
		if req.Excerpt == nil {
			excerpt := textutil.Excerpt(*req.Content, textutil.DefaultExcerptLength)
			post.Excerpt = &excerpt
		}
	}
	if req.Excerpt != nil {
		post.Excerpt = req.Excerpt
	}
	if req.Slug != nil {
		post.Slug = slug.Generate(*req.Slug)
	}
	if req.FeaturedImage != nil {
		post.FeaturedImage = req.FeaturedImage
	}
	if req.Status != nil {
		post.Status = models.PostStatus(*req.Status)
	}
	if req.CategoryID != nil {
		if *req.CategoryID == "" {
			post.CategoryID = nil
		} else {
			categoryID, _ := parseUUID(*req.CategoryID)
			post.CategoryID = &categoryID
		}
	}
	if req.MetaTitle != nil {
		post.MetaTitle = req.MetaTitle
	}
	if req.MetaDescription != nil {
		post.MetaDescription = req.MetaDescription
	}

	var tagIDs []uuid.UUID
	if req.Tags != nil {
		var msg string
		tagIDs, msg, err = h.resolveTagIDs(*req.Tags)
		if err != nil {
			writeServerError(w, r, err)
			return
		}
		if msg != "" {
			writeError(w, http.StatusBadRequest, msg)
			return
		}
		if tagIDs == nil {
			tagIDs = []uuid.UUID{}
		}
	}

	updated, err := h.posts.Update(post, tagIDs)
	if err != nil {
		if errors.Is(err, store.ErrDuplicateSlug) {
			writeError(w, http.StatusBadRequest, "Пост с таким slug уже существует")
			return
		}
		writeServerError(w, r, err)
		return
	}

	h.feed.Invalidate(r.Context())
	writeJSON(w, http.StatusOK, updated)
}

// Delete removes a post.
func (h *Posts) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Некорректный идентификатор")
		return
	}

	post, err := h.posts.FindByID(id)
	if err != nil {
		writeServerError(w, r, err)
		return
	}
	if post == nil {
		writeError(w, http.StatusNotFound, "Пост не найден")
		return
	}

	if err := h.posts.Delete(id); err != nil {
		writeServerError(w, r, err)
		return
	}

	h.feed.Invalidate(r.Context())
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// resolveTagIDs parses tag UUIDs and verifies they all exist. A non-empty
// msg signals a client error; err signals a backend failure.
func (h *Posts) resolveTagIDs(raw []string) (ids []uuid.UUID, msg string, err error) {
	if len(raw) == 0 {
		return nil, "", nil
	}

	ids = make([]uuid.UUID, 0, len(raw))
	for _, s := range raw {
		id, parseErr := parseUUID(s)
		if parseErr != nil {
			return nil, "Некорректный идентификатор тега", nil
		}
		ids = append(ids, id)
	}

	found, err := h.tags.FindByIDs(ids)
	if err != nil {
		return nil, "", err
	}
	if len(found) != len(ids) {
		return nil, "Тег не найден", nil
	}
	return ids, "", nil
}
