package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"aironlab/internal/models"
)

// AuthorStore handles blog author database operations. Authors are the
// public bylines on posts, separate from the admin user accounts.
type AuthorStore struct {
	db *sql.DB
}

// NewAuthorStore creates a new AuthorStore with the given database connection.
func NewAuthorStore(db *sql.DB) *AuthorStore {
	return &AuthorStore{db: db}
}

// FindByID retrieves an author by UUID. Returns nil if not found.
func (s *AuthorStore) FindByID(id uuid.UUID) (*models.Author, error) {
	a := &models.Author{}
	err := s.db.QueryRow(`
		SELECT id, name, email, bio, avatar_url, created_at, updated_at
		FROM blog_authors WHERE id = $1
	`, id).Scan(&a.ID, &a.Name, &a.Email, &a.Bio, &a.AvatarURL, &a.CreatedAt, &a.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find author by id: %w", err)
	}
	return a, nil
}

// FindOrCreateByEmail returns the author with the given email, creating
// one with the given display name on first login. The insert races safely:
// a concurrent creator wins the unique index and we re-read the row.
func (s *AuthorStore) FindOrCreateByEmail(email, name string) (*models.Author, error) {
	a := &models.Author{}
	err := s.db.QueryRow(`
		SELECT id, name, email, bio, avatar_url, created_at, updated_at
		FROM blog_authors WHERE email = $1
	`, email).Scan(&a.ID, &a.Name, &a.Email, &a.Bio, &a.AvatarURL, &a.CreatedAt, &a.UpdatedAt)
	if err == nil {
		return a, nil
	}
	if err != sql.ErrNoRows {
		return nil, fmt.Errorf("find author by email: %w", err)
	}

	err = s.db.QueryRow(`
		INSERT INTO blog_authors (name, email)
		VALUES ($1, $2)
		RETURNING id, name, email, bio, avatar_url, created_at, updated_at
	`, name, email).Scan(&a.ID, &a.Name, &a.Email, &a.Bio, &a.AvatarURL, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return s.FindOrCreateByEmail(email, name)
		}
		return nil, fmt.Errorf("create author: %w", err)
	}
	return a, nil
}

// Update modifies an author's profile fields.
func (s *AuthorStore) Update(a *models.Author) error {
	_, err := s.db.Exec(`
		UPDATE blog_authors SET name = $1, bio = $2, avatar_url = $3, updated_at = NOW()
		WHERE id = $4
	`, a.Name, a.Bio, a.AvatarURL, a.ID)
	if err != nil {
		return fmt.Errorf("update author: %w", err)
	}
	return nil
}

// List returns all authors ordered by name.
func (s *AuthorStore) List() ([]models.Author, error) {
	rows, err := s.db.Query(`
		SELECT id, name, email, bio, avatar_url, created_at, updated_at
		FROM blog_authors ORDER BY name ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list authors: %w", err)
	}
	defer rows.Close()

	var authors []models.Author
	for rows.Next() {
		var a models.Author
		if err := rows.Scan(&a.ID, &a.Name, &a.Email, &a.Bio, &a.AvatarURL, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan author: %w", err)
		}
		authors = append(authors, a)
	}
	return authors, rows.Err()
}
