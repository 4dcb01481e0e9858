package store

import (
	"database/sql"
	"fmt"

	"aironlab/internal/models"
)

// SubscriberStore handles newsletter subscription database operations.
type SubscriberStore struct {
	db *sql.DB
}

// NewSubscriberStore creates a new SubscriberStore with the given database connection.
func NewSubscriberStore(db *sql.DB) *SubscriberStore {
	return &SubscriberStore{db: db}
}

// Subscribe records a new subscription. Returns ErrDuplicateEmail if the
// address is already on the list.
func (s *SubscriberStore) Subscribe(email, source string) (*models.Subscriber, error) {
	sub := &models.Subscriber{}
	err := s.db.QueryRow(`
		INSERT INTO newsletter_subscribers (email, source)
		VALUES ($1, $2)
		RETURNING id, email, source, created_at
	`, email, source).Scan(&sub.ID, &sub.Email, &sub.Source, &sub.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("subscribe: %w", err)
	}
	return sub, nil
}

// Unsubscribe removes an address from the list. Removing an unknown
// address is not an error.
func (s *SubscriberStore) Unsubscribe(email string) error {
	_, err := s.db.Exec(`DELETE FROM newsletter_subscribers WHERE email = $1`, email)
	if err != nil {
		return fmt.Errorf("unsubscribe: %w", err)
	}
	return nil
}

// List returns all subscribers, newest first.
func (s *SubscriberStore) List() ([]models.Subscriber, error) {
	rows, err := s.db.Query(`
		SELECT id, email, source, created_at
		FROM newsletter_subscribers ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list subscribers: %w", err)
	}
	defer rows.Close()

	var subs []models.Subscriber
	for rows.Next() {
		var sub models.Subscriber
		if err := rows.Scan(&sub.ID, &sub.Email, &sub.Source, &sub.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan subscriber: %w", err)
		}
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}

// Count returns the number of subscribers.
func (s *SubscriberStore) Count() (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM newsletter_subscribers`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count subscribers: %w", err)
	}
	return count, nil
}
