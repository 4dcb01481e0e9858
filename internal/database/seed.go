package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
)

// Seed populates the database with initial development data: a default
// admin user and a starter set of blog categories and tags. No-op when
// users already exist.
func Seed(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return fmt.Errorf("seed check users: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("admin"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed bcrypt: %w", err)
	}

	_, err = db.Exec(`
		INSERT INTO users (email, password_hash, display_name, role)
		VALUES ($1, $2, $3, $4)
	`, "admin@aironlab.local", string(hash), "Admin", "admin")
	if err != nil {
		return fmt.Errorf("seed insert admin: %w", err)
	}

	// Starter categories matching the site's main topics.
	categories := []struct {
		name, slug, color string
	}{
		{"Искусственный интеллект", "ai", "#6366f1"},
		{"Разработка", "development", "#10b981"},
		{"Автоматизация", "automation", "#f59e0b"},
	}
	for _, c := range categories {
		_, err = db.Exec(`
			INSERT INTO blog_categories (name, slug, color)
			VALUES ($1, $2, $3)
			ON CONFLICT (slug) DO NOTHING
		`, c.name, c.slug, c.color)
		if err != nil {
			return fmt.Errorf("seed insert category %s: %w", c.slug, err)
		}
	}

	tags := []struct{ name, slug string }{
		{"Python", "python"},
		{"LLM", "llm"},
		{"Go", "go"},
		{"Web", "web"},
	}
	for _, tg := range tags {
		_, err = db.Exec(`
			INSERT INTO blog_tags (name, slug)
			VALUES ($1, $2)
			ON CONFLICT (slug) DO NOTHING
		`, tg.name, tg.slug)
		if err != nil {
			return fmt.Errorf("seed insert tag %s: %w", tg.slug, err)
		}
	}

	slog.Info("database seeded with default admin user",
		"email", "admin@aironlab.local",
		"password", "admin",
	)

	return nil
}
