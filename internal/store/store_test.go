// store_test.go provides a shared test database helper for all store
// integration tests. Tests are skipped if PostgreSQL is not available.
package store

import (
	"database/sql"
	"os"
	"testing"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"notely/internal/database"
	"notely/internal/models"
)

// testDSN returns the PostgreSQL connection string for testing.
// Uses environment variables with defaults matching docker-compose.yml.
func testDSN() string {
	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "notely")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "notely")
	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test database and runs migrations.
// If the database is unavailable, the test is skipped. A cleanup
// function is registered to close the connection when the test finishes.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("pgx", testDSN())
	if err != nil {
		t.Skipf("skipping integration test: cannot open DB: %v", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping integration test: DB not reachable: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// cleanUsers removes test users by email. Call in t.Cleanup().
func cleanUsers(t *testing.T, db *sql.DB, emails ...string) {
	t.Helper()
	for _, email := range emails {
		db.Exec("DELETE FROM users WHERE email = $1", email)
	}
}

// cleanPosts removes test posts by slug. Comments cascade.
func cleanPosts(t *testing.T, db *sql.DB, slugs ...string) {
	t.Helper()
	for _, slug := range slugs {
		db.Exec("DELETE FROM posts WHERE slug = $1", slug)
	}
}

// cleanCategories removes test categories by slug.
func cleanCategories(t *testing.T, db *sql.DB, slugs ...string) {
	t.Helper()
	for _, slug := range slugs {
		db.Exec("DELETE FROM categories WHERE slug = $1", slug)
	}
}

// makeUser inserts a user fixture and registers cleanup.
func makeUser(t *testing.T, db *sql.DB, email string, role models.Role) *models.User {
	t.Helper()
	s := NewUserStore(db)
	t.Cleanup(func() { cleanUsers(t, db, email) })
	u, err := s.Create(email, "password123", "Test User", role)
	if err != nil {
		t.Fatalf("create fixture user %s: %v", email, err)
	}
	return u
}

// makePost inserts a post fixture owned by author and registers cleanup.
func makePost(t *testing.T, db *sql.DB, author uuid.UUID, slug string, published bool, mutate ...func(*models.Post)) *models.Post {
	t.Helper()
	s := NewPostStore(db)
	t.Cleanup(func() { cleanPosts(t, db, slug) })
	p := &models.Post{
		Title:       "Fixture " + slug,
		Slug:        slug,
		Content:     "fixture content",
		AuthorID:    author,
		IsPublished: published,
	}
	for _, m := range mutate {
		m(p)
	}
	created, err := s.Create(p)
	if err != nil {
		t.Fatalf("create fixture post %s: %v", slug, err)
	}
	return created
}
