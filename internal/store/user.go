// Package store provides database access methods for all Notely entities.
// Each store struct wraps a *sql.DB and exposes typed query methods.
// Lookup methods return (nil, nil) when the entity does not exist; callers
// decide whether that is an error.
package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"notely/internal/models"
)

const userColumns = `id, external_id, name, email, password_hash, role, avatar, totp_secret, totp_enabled, created_at, updated_at`

// UserStore handles all user-related database operations.
type UserStore struct {
	db *sql.DB
}

// NewUserStore creates a new UserStore with the given database connection.
func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

// scanUser scans a row into a User struct.
func scanUser(scanner interface{ Scan(...any) error }) (*models.User, error) {
	var u models.User
	err := scanner.Scan(
		&u.ID, &u.ExternalID, &u.Name, &u.Email, &u.PasswordHash,
		&u.Role, &u.Avatar, &u.TOTPSecret, &u.TOTPEnabled,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// FindByID retrieves a user by their UUID. Returns nil if not found.
func (s *UserStore) FindByID(id uuid.UUID) (*models.User, error) {
	row := s.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return u, nil
}

// FindByEmail retrieves a user by their email address. Returns nil if not found.
func (s *UserStore) FindByEmail(email string) (*models.User, error) {
	row := s.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return u, nil
}

// FindByExternalID retrieves a user by their identity-provider key.
// Returns nil if not found.
func (s *UserStore) FindByExternalID(externalID string) (*models.User, error) {
	row := s.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE external_id = $1`, externalID)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user by external id: %w", err)
	}
	return u, nil
}

// List returns all users ordered by creation date.
func (s *UserStore) List() ([]models.User, error) {
	return s.list(`SELECT ` + userColumns + ` FROM users ORDER BY created_at ASC`)
}

// ListCreators returns all users with the creator role.
func (s *UserStore) ListCreators() ([]models.User, error) {
	return s.list(`SELECT `+userColumns+` FROM users WHERE role = $1 ORDER BY created_at ASC`, models.RoleCreator)
}

func (s *UserStore) list(query string, args ...any) ([]models.User, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

// Create inserts a new locally registered user with a bcrypt-hashed password.
func (s *UserStore) Create(email, password, name string, role models.Role) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	row := s.db.QueryRow(`
		INSERT INTO users (email, password_hash, name, role)
		VALUES ($1, $2, $3, $4)
		RETURNING `+userColumns,
		email, string(hash), name, role)
	u, err := scanUser(row)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

// UpsertExternal creates or refreshes a user record mirroring the identity
// provider, keyed by the provider's user id. Safe to call repeatedly for
// the same event: the result converges on the latest provider state.
func (s *UserStore) UpsertExternal(externalID, email, name, avatar string) (*models.User, error) {
	if avatar == "" {
		avatar = models.DefaultAvatar
	}
	row := s.db.QueryRow(`
		INSERT INTO users (external_id, email, name, avatar, role)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (external_id) DO UPDATE SET
			email = EXCLUDED.email,
			name = EXCLUDED.name,
			avatar = EXCLUDED.avatar,
			updated_at = NOW()
		RETURNING `+userColumns,
		externalID, email, name, avatar, models.RoleReader)
	u, err := scanUser(row)
	if err != nil {
		return nil, fmt.Errorf("upsert external user: %w", err)
	}
	return u, nil
}

// DeleteByExternalID removes the local mirror of a provider-deleted user.
// Deleting an already-absent user is a no-op (webhook redelivery).
func (s *UserStore) DeleteByExternalID(externalID string) error {
	_, err := s.db.Exec(`DELETE FROM users WHERE external_id = $1`, externalID)
	if err != nil {
		return fmt.Errorf("delete user by external id: %w", err)
	}
	return nil
}

// UpdateProfile updates the mutable profile fields. Nil fields are left
// unchanged.
func (s *UserStore) UpdateProfile(id uuid.UUID, name *string, role *models.Role) (*models.User, error) {
	row := s.db.QueryRow(`
		UPDATE users SET
			name = COALESCE($1, name),
			role = COALESCE($2, role),
			updated_at = NOW()
		WHERE id = $3
		RETURNING `+userColumns,
		name, role, id)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return u, nil
}

// Delete removes a user unless they still author posts. Returns true if a
// row was deleted. The NOT EXISTS guard and the delete run as one statement,
// so a post created concurrently cannot orphan its author.
func (s *UserStore) Delete(id uuid.UUID) (bool, error) {
	res, err := s.db.Exec(`
		DELETE FROM users
		WHERE id = $1
		  AND NOT EXISTS (SELECT 1 FROM posts WHERE author_id = $1)
	`, id)
	if err != nil {
		return false, fmt.Errorf("delete user: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete user rows: %w", err)
	}
	return n > 0, nil
}

// SetTOTPSecret saves the TOTP secret for a user (during 2FA setup).
func (s *UserStore) SetTOTPSecret(userID uuid.UUID, secret string) error {
	_, err := s.db.Exec(`
		UPDATE users SET totp_secret = $1, updated_at = NOW() WHERE id = $2
	`, secret, userID)
	if err != nil {
		return fmt.Errorf("set totp secret: %w", err)
	}
	return nil
}

// EnableTOTP marks 2FA as active for a user (after successful code verification).
func (s *UserStore) EnableTOTP(userID uuid.UUID) error {
	_, err := s.db.Exec(`
		UPDATE users SET totp_enabled = TRUE, updated_at = NOW() WHERE id = $1
	`, userID)
	if err != nil {
		return fmt.Errorf("enable totp: %w", err)
	}
	return nil
}

// CheckPassword verifies a plaintext password against the user's stored hash.
// Provider-only accounts have no hash and never match.
func (s *UserStore) CheckPassword(user *models.User, password string) bool {
	if user.PasswordHash == nil {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(password)) == nil
}
