package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"aironlab/internal/models"
)

// MediaStore handles media metadata database operations. The files
// themselves live in S3; these rows record what was uploaded and where.
type MediaStore struct {
	db *sql.DB
}

// NewMediaStore creates a new MediaStore with the given database connection.
func NewMediaStore(db *sql.DB) *MediaStore {
	return &MediaStore{db: db}
}

// Create records an uploaded file's metadata.
func (s *MediaStore) Create(m *models.Media) (*models.Media, error) {
	result := &models.Media{}
	err := s.db.QueryRow(`
		INSERT INTO media (filename, original_name, content_type, size_bytes, bucket, key, thumb_key, uploader_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, filename, original_name, content_type, size_bytes, bucket, key, thumb_key, uploader_id, created_at
	`, m.Filename, m.OriginalName, m.ContentType, m.SizeBytes, m.Bucket, m.Key, m.ThumbKey, m.UploaderID).Scan(
		&result.ID, &result.Filename, &result.OriginalName, &result.ContentType,
		&result.SizeBytes, &result.Bucket, &result.Key, &result.ThumbKey,
		&result.UploaderID, &result.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("create media: %w", err)
	}
	return result, nil
}

// FindByID retrieves a media row by UUID. Returns nil if not found.
func (s *MediaStore) FindByID(id uuid.UUID) (*models.Media, error) {
	m := &models.Media{}
	err := s.db.QueryRow(`
		SELECT id, filename, original_name, content_type, size_bytes, bucket, key, thumb_key, uploader_id, created_at
		FROM media WHERE id = $1
	`, id).Scan(
		&m.ID, &m.Filename, &m.OriginalName, &m.ContentType,
		&m.SizeBytes, &m.Bucket, &m.Key, &m.ThumbKey, &m.UploaderID, &m.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find media by id: %w", err)
	}
	return m, nil
}

// List returns all media rows, newest first.
func (s *MediaStore) List() ([]models.Media, error) {
	rows, err := s.db.Query(`
		SELECT id, filename, original_name, content_type, size_bytes, bucket, key, thumb_key, uploader_id, created_at
		FROM media ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list media: %w", err)
	}
	defer rows.Close()

	var items []models.Media
	for rows.Next() {
		var m models.Media
		if err := rows.Scan(
			&m.ID, &m.Filename, &m.OriginalName, &m.ContentType,
			&m.SizeBytes, &m.Bucket, &m.Key, &m.ThumbKey, &m.UploaderID, &m.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan media: %w", err)
		}
		items = append(items, m)
	}
	return items, rows.Err()
}

// Delete removes a media row by ID. Callers delete the S3 objects first.
func (s *MediaStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM media WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete media: %w", err)
	}
	return nil
}
