package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"aironlab/internal/models"
)

// TagStore handles blog tag database operations.
type TagStore struct {
	db *sql.DB
}

// NewTagStore creates a new TagStore with the given database connection.
func NewTagStore(db *sql.DB) *TagStore {
	return &TagStore{db: db}
}

// List returns all tags ordered by name, each with the number of posts
// carrying it.
func (s *TagStore) List() ([]models.Tag, error) {
	rows, err := s.db.Query(`
		SELECT t.id, t.name, t.slug, t.created_at, COUNT(pt.post_id) AS post_count
		FROM blog_tags t
		LEFT JOIN blog_post_tags pt ON pt.tag_id = t.id
		GROUP BY t.id
		ORDER BY t.name ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	defer rows.Close()

	var tags []models.Tag
	for rows.Next() {
		var t models.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.Slug, &t.CreatedAt, &t.PostCount); err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

// FindByID retrieves a tag by UUID. Returns nil if not found.
func (s *TagStore) FindByID(id uuid.UUID) (*models.Tag, error) {
	t := &models.Tag{}
	err := s.db.QueryRow(`
		SELECT id, name, slug, created_at FROM blog_tags WHERE id = $1
	`, id).Scan(&t.ID, &t.Name, &t.Slug, &t.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find tag by id: %w", err)
	}
	return t, nil
}

// FindBySlug retrieves a tag by slug. Returns nil if not found.
func (s *TagStore) FindBySlug(slug string) (*models.Tag, error) {
	t := &models.Tag{}
	err := s.db.QueryRow(`
		SELECT id, name, slug, created_at FROM blog_tags WHERE slug = $1
	`, slug).Scan(&t.ID, &t.Name, &t.Slug, &t.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find tag by slug: %w", err)
	}
	return t, nil
}

// FindByIDs returns the tags with the given IDs. Missing IDs are silently
// absent from the result; callers compare lengths to detect them.
func (s *TagStore) FindByIDs(ids []uuid.UUID) ([]models.Tag, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	rows, err := s.db.Query(`
		SELECT id, name, slug, created_at FROM blog_tags WHERE id = ANY($1::uuid[]) ORDER BY name ASC
	`, uuidStrings(ids))
	if err != nil {
		return nil, fmt.Errorf("find tags by ids: %w", err)
	}
	defer rows.Close()

	var tags []models.Tag
	for rows.Next() {
		var t models.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.Slug, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

// Create inserts a new tag. Returns ErrDuplicateSlug if the slug is taken.
func (s *TagStore) Create(t *models.Tag) (*models.Tag, error) {
	result := &models.Tag{}
	err := s.db.QueryRow(`
		INSERT INTO blog_tags (name, slug) VALUES ($1, $2)
		RETURNING id, name, slug, created_at
	`, t.Name, t.Slug).Scan(&result.ID, &result.Name, &result.Slug, &result.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateSlug
		}
		return nil, fmt.Errorf("create tag: %w", err)
	}
	return result, nil
}

// Update modifies an existing tag. Returns ErrDuplicateSlug on collision.
func (s *TagStore) Update(t *models.Tag) error {
	_, err := s.db.Exec(`
		UPDATE blog_tags SET name = $1, slug = $2 WHERE id = $3
	`, t.Name, t.Slug, t.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateSlug
		}
		return fmt.Errorf("update tag: %w", err)
	}
	return nil
}

// Delete removes a tag by ID. The join rows in blog_post_tags cascade.
func (s *TagStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM blog_tags WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete tag: %w", err)
	}
	return nil
}

// uuidStrings converts UUIDs to strings for = ANY($1::uuid[]) predicates.
// The pgx driver encodes []string natively; the cast restores the type.
func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}
