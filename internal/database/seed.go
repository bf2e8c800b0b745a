package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
)

// Seed populates the database with initial development data.
// It creates a default creator account if no users exist yet.
func Seed(db *sql.DB) error {
	// Check if any users exist already.
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return fmt.Errorf("seed check users: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("notely"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed bcrypt: %w", err)
	}

	_, err = db.Exec(`
		INSERT INTO users (email, password_hash, name, role)
		VALUES ($1, $2, $3, $4)
	`, "creator@notely.local", string(hash), "Notely Creator", "creator")
	if err != nil {
		return fmt.Errorf("seed insert creator: %w", err)
	}

	slog.Info("database seeded with default creator user",
		"email", "creator@notely.local",
		"password", "notely",
	)

	return nil
}
