package handlers

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"aironlab/internal/models"
	"aironlab/internal/store"
)

// Validation limits for API inputs.
const (
	maxPostTitleLen    = 255
	maxPostSlugLen     = 255
	maxExcerptLen      = 500
	maxMetaTitleLen    = 255
	maxMetaDescLen     = 500
	maxCategoryNameLen = 100
	maxCategorySlugLen = 100
	maxCategoryDescLen = 500
	maxTagNameLen      = 50
	maxTagSlugLen      = 50

	defaultPageLimit = 20
	maxPageLimit     = 100
)

// emailPattern matches the newsletter signup check: one @, no whitespace,
// a dot in the domain part.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func validEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// validateCreatePost checks the create-post payload and returns
// field→message pairs for everything wrong with it.
func validateCreatePost(req *createPostRequest) map[string]string {
	fields := map[string]string{}

	if strings.TrimSpace(req.Title) == "" {
		fields["title"] = "Заголовок обязателен"
	} else if utf8.RuneCountInString(req.Title) > maxPostTitleLen {
		fields["title"] = "Заголовок слишком длинный"
	}

	if strings.TrimSpace(req.Content) == "" {
		fields["content"] = "Содержимое обязательно"
	}

	if req.AuthorID == "" {
		fields["author_id"] = "Автор обязателен"
	} else if !validUUID(req.AuthorID) {
		fields["author_id"] = "Некорректный идентификатор автора"
	}

	if req.Slug != nil && utf8.RuneCountInString(*req.Slug) > maxPostSlugLen {
		fields["slug"] = "Slug слишком длинный"
	}
	if req.Status != nil && !models.PostStatus(*req.Status).Valid() {
		fields["status"] = "Недопустимый статус"
	}
	if req.CategoryID != nil && *req.CategoryID != "" && !validUUID(*req.CategoryID) {
		fields["category_id"] = "Некорректный идентификатор категории"
	}
	for _, tagID := range req.Tags {
		if !validUUID(tagID) {
			fields["tags"] = "Некорректный идентификатор тега"
			break
		}
	}

	validateOptionalLengths(fields, req.Excerpt, req.MetaTitle, req.MetaDescription)
	return fields
}

// validateUpdatePost checks the partial-update payload. Only supplied
// fields are validated.
func validateUpdatePost(req *updatePostRequest) map[string]string {
	fields := map[string]string{}

	if req.Title != nil {
		if strings.TrimSpace(*req.Title) == "" {
			fields["title"] = "Заголовок обязателен"
		} else if utf8.RuneCountInString(*req.Title) > maxPostTitleLen {
			fields["title"] = "Заголовок слишком длинный"
		}
	}
	if req.Content != nil && strings.TrimSpace(*req.Content) == "" {
		fields["content"] = "Содержимое обязательно"
	}
	if req.Slug != nil {
		if strings.TrimSpace(*req.Slug) == "" {
			fields["slug"] = "Slug не может быть пустым"
		} else if utf8.RuneCountInString(*req.Slug) > maxPostSlugLen {
			fields["slug"] = "Slug слишком длинный"
		}
	}
	if req.Status != nil && !models.PostStatus(*req.Status).Valid() {
		fields["status"] = "Недопустимый статус"
	}
	if req.CategoryID != nil && *req.CategoryID != "" && !validUUID(*req.CategoryID) {
		fields["category_id"] = "Некорректный идентификатор категории"
	}
	if req.Tags != nil {
		for _, tagID := range *req.Tags {
			if !validUUID(tagID) {
				fields["tags"] = "Некорректный идентификатор тега"
				break
			}
		}
	}

	validateOptionalLengths(fields, req.Excerpt, req.MetaTitle, req.MetaDescription)
	return fields
}

func validateOptionalLengths(fields map[string]string, excerpt, metaTitle, metaDesc *string) {
	if excerpt != nil && utf8.RuneCountInString(*excerpt) > maxExcerptLen {
		fields["excerpt"] = "Краткое описание слишком длинное"
	}
	if metaTitle != nil && utf8.RuneCountInString(*metaTitle) > maxMetaTitleLen {
		fields["meta_title"] = "Meta title слишком длинный"
	}
	if metaDesc != nil && utf8.RuneCountInString(*metaDesc) > maxMetaDescLen {
		fields["meta_description"] = "Meta description слишком длинное"
	}
}

// validateCategory checks a category create/update payload. For updates
// name may be omitted; pass required=false.
func validateCategory(name string, slug, description *string, required bool) map[string]string {
	fields := map[string]string{}

	if required && strings.TrimSpace(name) == "" {
		fields["name"] = "Название обязательно"
	} else if utf8.RuneCountInString(name) > maxCategoryNameLen {
		fields["name"] = "Название слишком длинное"
	}
	if slug != nil && utf8.RuneCountInString(*slug) > maxCategorySlugLen {
		fields["slug"] = "Slug слишком длинный"
	}
	if description != nil && utf8.RuneCountInString(*description) > maxCategoryDescLen {
		fields["description"] = "Описание слишком длинное"
	}
	return fields
}

// validateTag checks a tag create/update payload.
func validateTag(name string, slug *string, required bool) map[string]string {
	fields := map[string]string{}

	if required && strings.TrimSpace(name) == "" {
		fields["name"] = "Название обязательно"
	} else if utf8.RuneCountInString(name) > maxTagNameLen {
		fields["name"] = "Название слишком длинное"
	}
	if slug != nil && utf8.RuneCountInString(*slug) > maxTagSlugLen {
		fields["slug"] = "Slug слишком длинный"
	}
	return fields
}

// parsePostFilters reads list query parameters, applying the defaults
// and bounds: page >= 1, limit 1..100 default 20, whitelisted sort/order,
// status one of draft/published/all.
func parsePostFilters(q url.Values) store.PostFilters {
	f := store.PostFilters{
		Status: "all",
		Sort:   "created_at",
		Order:  "desc",
		Page:   1,
		Limit:  defaultPageLimit,
	}

	switch q.Get("status") {
	case "draft", "published":
		f.Status = q.Get("status")
	}
	f.Search = strings.TrimSpace(q.Get("search"))
	f.TagSlug = strings.TrimSpace(q.Get("tag"))

	if raw := q.Get("category_id"); raw != "" {
		if id, err := parseUUID(raw); err == nil {
			f.CategoryID = &id
		}
	}
	if raw := q.Get("author_id"); raw != "" {
		if id, err := parseUUID(raw); err == nil {
			f.AuthorID = &id
		}
	}

	switch q.Get("sort") {
	case "created_at", "updated_at", "published_at", "title":
		f.Sort = q.Get("sort")
	}
	if q.Get("order") == "asc" {
		f.Order = "asc"
	}

	if page, err := strconv.Atoi(q.Get("page")); err == nil && page >= 1 {
		f.Page = page
	}
	if limit, err := strconv.Atoi(q.Get("limit")); err == nil && limit >= 1 {
		if limit > maxPageLimit {
			limit = maxPageLimit
		}
		f.Limit = limit
	}
	return f
}
