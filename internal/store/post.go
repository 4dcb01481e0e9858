package store

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"aironlab/internal/models"
)

// PostFilters narrows and orders admin post listings. Zero values mean
// "no filter"; Page and Limit are normalized by the handlers before the
// store sees them.
type PostFilters struct {
	Status     string // "draft", "published" or "" for all
	Search     string // substring match on title and content
	CategoryID *uuid.UUID
	AuthorID   *uuid.UUID
	TagSlug    string
	Sort       string // created_at, updated_at, published_at, title
	Order      string // asc or desc
	Page       int
	Limit      int
}

// sortColumns whitelists ORDER BY targets. Anything else falls back to
// created_at so request input never reaches the SQL text.
var sortColumns = map[string]string{
	"created_at":   "p.created_at",
	"updated_at":   "p.updated_at",
	"published_at": "p.published_at",
	"title":        "p.title",
}

// PostStore handles blog post database operations, including the tag
// associations in blog_post_tags.
type PostStore struct {
	db *sql.DB
}

// NewPostStore creates a new PostStore with the given database connection.
func NewPostStore(db *sql.DB) *PostStore {
	return &PostStore{db: db}
}

// postColumns is the select list shared by every query against the
// blog_posts_full view.
const postColumns = `
	p.id, p.title, p.slug, p.content, p.excerpt, p.featured_image,
	p.status, p.author_id, p.category_id, p.published_at, p.read_time,
	p.meta_title, p.meta_description, p.created_at, p.updated_at,
	p.author_name, p.author_email, p.author_avatar_url,
	p.category_name, p.category_slug, p.category_color`

// scanPost reads one row of postColumns into a Post, hydrating the
// virtual Author and Category fields from the view's joined columns.
func scanPost(scan func(dest ...any) error) (*models.Post, error) {
	p := &models.Post{}
	var (
		authorName, authorEmail string
		authorAvatar            *string
		categoryName            *string
		categorySlug            *string
		categoryColor           *string
	)
	err := scan(
		&p.ID, &p.Title, &p.Slug, &p.Content, &p.Excerpt, &p.FeaturedImage,
		&p.Status, &p.AuthorID, &p.CategoryID, &p.PublishedAt, &p.ReadTime,
		&p.MetaTitle, &p.MetaDescription, &p.CreatedAt, &p.UpdatedAt,
		&authorName, &authorEmail, &authorAvatar,
		&categoryName, &categorySlug, &categoryColor,
	)
	if err != nil {
		return nil, err
	}

	p.Author = &models.Author{ID: p.AuthorID, Name: authorName, Email: authorEmail, AvatarURL: authorAvatar}
	if p.CategoryID != nil && categoryName != nil {
		p.Category = &models.Category{ID: *p.CategoryID, Name: *categoryName, Slug: *categorySlug, Color: categoryColor}
	}
	p.Tags = []models.Tag{}
	return p, nil
}

// List returns a page of posts matching the filters plus the total count
// of matching rows before pagination.
func (s *PostStore) List(f PostFilters) ([]models.Post, int, error) {
	where, args := buildPostFilters(f)

	var total int
	countQuery := `SELECT COUNT(*) FROM blog_posts_full p` + where
	if err := s.db.QueryRow(countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count posts: %w", err)
	}

	sortCol, ok := sortColumns[f.Sort]
	if !ok {
		sortCol = "p.created_at"
	}
	dir := "DESC"
	if strings.EqualFold(f.Order, "asc") {
		dir = "ASC"
	}

	query := fmt.Sprintf(`SELECT %s FROM blog_posts_full p%s ORDER BY %s %s NULLS LAST LIMIT $%d OFFSET $%d`,
		postColumns, where, sortCol, dir, len(args)+1, len(args)+2)
	args = append(args, f.Limit, (f.Page-1)*f.Limit)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	var posts []models.Post
	for rows.Next() {
		p, err := scanPost(rows.Scan)
		if err != nil {
			return nil, 0, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	if err := s.attachTags(posts); err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// buildPostFilters assembles the WHERE clause for List. The tag filter
// goes through an EXISTS subquery so the row count stays one-per-post.
func buildPostFilters(f PostFilters) (string, []any) {
	var conds []string
	var args []any

	if f.Status != "" && f.Status != "all" {
		args = append(args, f.Status)
		conds = append(conds, fmt.Sprintf("p.status = $%d", len(args)))
	}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		conds = append(conds, fmt.Sprintf("(p.title ILIKE $%d OR p.content ILIKE $%d)", len(args), len(args)))
	}
	if f.CategoryID != nil {
		args = append(args, *f.CategoryID)
		conds = append(conds, fmt.Sprintf("p.category_id = $%d", len(args)))
	}
	if f.AuthorID != nil {
		args = append(args, *f.AuthorID)
		conds = append(conds, fmt.Sprintf("p.author_id = $%d", len(args)))
	}
	if f.TagSlug != "" {
		args = append(args, f.TagSlug)
		conds = append(conds, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM blog_post_tags pt JOIN blog_tags t ON t.id = pt.tag_id WHERE pt.post_id = p.id AND t.slug = $%d)",
			len(args)))
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// ListPublished returns all published posts with authors, categories and
// tags attached, newest first. Feeds the public listing, search, RSS and
// the sitemap.
func (s *PostStore) ListPublished() ([]models.Post, error) {
	posts, _, err := s.List(PostFilters{
		Status: string(models.PostStatusPublished),
		Sort:   "published_at",
		Order:  "desc",
		Page:   1,
		Limit:  1000,
	})
	return posts, err
}

// FindByID retrieves a post with author, category and tags. Returns nil
// if not found.
func (s *PostStore) FindByID(id uuid.UUID) (*models.Post, error) {
	p, err := scanPost(s.db.QueryRow(
		`SELECT `+postColumns+` FROM blog_posts_full p WHERE p.id = $1`, id).Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find post by id: %w", err)
	}

	tags, err := s.tagsForPost(p.ID)
	if err != nil {
		return nil, err
	}
	p.Tags = tags
	return p, nil
}

// FindBySlug retrieves a post by slug regardless of status. Returns nil
// if not found.
func (s *PostStore) FindBySlug(slug string) (*models.Post, error) {
	p, err := scanPost(s.db.QueryRow(
		`SELECT `+postColumns+` FROM blog_posts_full p WHERE p.slug = $1`, slug).Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find post by slug: %w", err)
	}

	tags, err := s.tagsForPost(p.ID)
	if err != nil {
		return nil, err
	}
	p.Tags = tags
	return p, nil
}

// FindPublishedBySlug retrieves a published post by slug for the public
// site. Returns nil if not found or still a draft.
func (s *PostStore) FindPublishedBySlug(slug string) (*models.Post, error) {
	p, err := s.FindBySlug(slug)
	if err != nil || p == nil {
		return nil, err
	}
	if !p.IsPublished() {
		return nil, nil
	}
	return p, nil
}

// Create inserts a post and its tag associations in one transaction, so
// a failed tag insert never leaves a tagless post behind. Stamps
// published_at when the post is created already published. Returns
// ErrDuplicateSlug if the slug is taken.
func (s *PostStore) Create(p *models.Post, tagIDs []uuid.UUID) (*models.Post, error) {
	if p.Status == models.PostStatusPublished && p.PublishedAt == nil {
		now := time.Now()
		p.PublishedAt = &now
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	result := &models.Post{}
	err = tx.QueryRow(`
		INSERT INTO blog_posts (title, slug, content, excerpt, featured_image, status,
		                        author_id, category_id, published_at, read_time,
		                        meta_title, meta_description)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, title, slug, content, excerpt, featured_image, status,
		          author_id, category_id, published_at, read_time,
		          meta_title, meta_description, created_at, updated_at
	`, p.Title, p.Slug, p.Content, p.Excerpt, p.FeaturedImage, p.Status,
		p.AuthorID, p.CategoryID, p.PublishedAt, p.ReadTime,
		p.MetaTitle, p.MetaDescription,
	).Scan(
		&result.ID, &result.Title, &result.Slug, &result.Content, &result.Excerpt,
		&result.FeaturedImage, &result.Status, &result.AuthorID, &result.CategoryID,
		&result.PublishedAt, &result.ReadTime, &result.MetaTitle, &result.MetaDescription,
		&result.CreatedAt, &result.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateSlug
		}
		return nil, fmt.Errorf("create post: %w", err)
	}

	if err := insertPostTags(tx, result.ID, tagIDs); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit create post: %w", err)
	}
	return s.FindByID(result.ID)
}

// Update modifies a post and, when tagIDs is non-nil, replaces its tag
// associations. Runs in one transaction. Stamps published_at on the
// first transition to published. Returns ErrDuplicateSlug on collision.
func (s *PostStore) Update(p *models.Post, tagIDs []uuid.UUID) (*models.Post, error) {
	if p.Status == models.PostStatusPublished && p.PublishedAt == nil {
		now := time.Now()
		p.PublishedAt = &now
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		UPDATE blog_posts SET
			title = $1, slug = $2, content = $3, excerpt = $4, featured_image = $5,
			status = $6, category_id = $7, published_at = $8, read_time = $9,
			meta_title = $10, meta_description = $11, updated_at = NOW()
		WHERE id = $12
	`, p.Title, p.Slug, p.Content, p.Excerpt, p.FeaturedImage,
		p.Status, p.CategoryID, p.PublishedAt, p.ReadTime,
		p.MetaTitle, p.MetaDescription, p.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateSlug
		}
		return nil, fmt.Errorf("update post: %w", err)
	}

	if tagIDs != nil {
		if _, err := tx.Exec(`DELETE FROM blog_post_tags WHERE post_id = $1`, p.ID); err != nil {
			return nil, fmt.Errorf("clear post tags: %w", err)
		}
		if err := insertPostTags(tx, p.ID, tagIDs); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit update post: %w", err)
	}
	return s.FindByID(p.ID)
}

// Delete removes a post by ID. Tag join rows cascade.
func (s *PostStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM blog_posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	return nil
}

// insertPostTags adds join rows for the given tag IDs within tx.
func insertPostTags(tx *sql.Tx, postID uuid.UUID, tagIDs []uuid.UUID) error {
	for _, tagID := range tagIDs {
		if _, err := tx.Exec(`
			INSERT INTO blog_post_tags (post_id, tag_id) VALUES ($1, $2)
			ON CONFLICT DO NOTHING
		`, postID, tagID); err != nil {
			return fmt.Errorf("insert post tag: %w", err)
		}
	}
	return nil
}

// tagsForPost returns the tags of one post ordered by name.
func (s *PostStore) tagsForPost(postID uuid.UUID) ([]models.Tag, error) {
	rows, err := s.db.Query(`
		SELECT t.id, t.name, t.slug, t.created_at
		FROM blog_tags t
		JOIN blog_post_tags pt ON pt.tag_id = t.id
		WHERE pt.post_id = $1
		ORDER BY t.name ASC
	`, postID)
	if err != nil {
		return nil, fmt.Errorf("post tags: %w", err)
	}
	defer rows.Close()

	tags := []models.Tag{}
	for rows.Next() {
		var t models.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.Slug, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan post tag: %w", err)
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

// attachTags loads tags for a page of posts in one query.
func (s *PostStore) attachTags(posts []models.Post) error {
	if len(posts) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, len(posts))
	index := make(map[uuid.UUID]int, len(posts))
	for i := range posts {
		ids[i] = posts[i].ID
		index[posts[i].ID] = i
	}

	rows, err := s.db.Query(`
		SELECT pt.post_id, t.id, t.name, t.slug, t.created_at
		FROM blog_post_tags pt
		JOIN blog_tags t ON t.id = pt.tag_id
		WHERE pt.post_id = ANY($1::uuid[])
		ORDER BY t.name ASC
	`, uuidStrings(ids))
	if err != nil {
		return fmt.Errorf("attach tags: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var postID uuid.UUID
		var t models.Tag
		if err := rows.Scan(&postID, &t.ID, &t.Name, &t.Slug, &t.CreatedAt); err != nil {
			return fmt.Errorf("scan attached tag: %w", err)
		}
		if i, ok := index[postID]; ok {
			posts[i].Tags = append(posts[i].Tags, t)
		}
	}
	return rows.Err()
}
