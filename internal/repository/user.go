package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/tingleshq/tingles/internal/model"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrDuplicateEmail     = errors.New("email already exists")
	ErrDuplicateSubject   = errors.New("oauth subject already exists")
	ErrProfileNotFound    = errors.New("profile not found")
	ErrSuggestionNotFound = errors.New("suggestion not found")
)

// UserRepository is the narrow contract the account resolver needs from the
// credential store. The backing store is swappable (sqlite or postgres via
// the driver switch) without touching the resolver.
type UserRepository interface {
	Create(user *model.User) error
	ByID(id string) (*model.User, error)
	ByEmail(email string) (*model.User, error)
	ByProviderSubject(provider model.AuthProvider, oauthID string) (*model.User, error)
	Update(user *model.User) error
	UpdateRole(id string, role model.Role) error
}

type userRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(user *model.User) error {
	if _, err := model.ParseAuthProvider(string(user.AuthProvider)); err != nil {
		return err
	}
	if _, err := model.ParseRole(string(user.Role)); err != nil {
		return err
	}

	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))

	query := `
		INSERT INTO users (id, email, password_hash, auth_provider, oauth_id, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.Exec(query,
		user.ID,
		user.Email,
		user.PasswordHash,
		user.AuthProvider,
		user.OAuthID,
		user.Role,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		return translateUniqueViolation(err)
	}

	return nil
}

func (r *userRepository) ByID(id string) (*model.User, error) {
	user := &model.User{}
	err := r.db.Get(user, `SELECT * FROM users WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	return user, err
}

// ByEmail matches case-insensitively: emails are stored lowercase and the
// argument is folded here as well, so lookups stay consistent across the
// password and OAuth paths.
func (r *userRepository) ByEmail(email string) (*model.User, error) {
	user := &model.User{}
	email = strings.ToLower(strings.TrimSpace(email))

	err := r.db.Get(user, `SELECT * FROM users WHERE email = $1`, email)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	return user, err
}

// ByProviderSubject scopes the lookup by provider: a numeric Google subject
// and a LinkedIn id are not comparable, so oauth_id alone is never queried.
func (r *userRepository) ByProviderSubject(provider model.AuthProvider, oauthID string) (*model.User, error) {
	user := &model.User{}
	err := r.db.Get(user, `SELECT * FROM users WHERE auth_provider = $1 AND oauth_id = $2`, provider, oauthID)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	return user, err
}

func (r *userRepository) Update(user *model.User) error {
	if _, err := model.ParseAuthProvider(string(user.AuthProvider)); err != nil {
		return err
	}

	user.UpdatedAt = time.Now()
	query := `
		UPDATE users
		SET email = $1, password_hash = $2, auth_provider = $3, oauth_id = $4, updated_at = $5
		WHERE id = $6
	`
	_, err := r.db.Exec(query,
		strings.ToLower(strings.TrimSpace(user.Email)),
		user.PasswordHash,
		user.AuthProvider,
		user.OAuthID,
		user.UpdatedAt,
		user.ID,
	)
	if err != nil {
		return translateUniqueViolation(err)
	}
	return nil
}

// UpdateRole is the administrative role change; roles are never touched by
// the authentication paths.
func (r *userRepository) UpdateRole(id string, role model.Role) error {
	if _, err := model.ParseRole(string(role)); err != nil {
		return err
	}

	result, err := r.db.Exec(`UPDATE users SET role = $1, updated_at = $2 WHERE id = $3`, role, time.Now(), id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrUserNotFound
	}
	return nil
}

// translateUniqueViolation maps driver-specific unique constraint errors to
// sentinel errors. String matching works for both SQLite and PostgreSQL.
func translateUniqueViolation(err error) error {
	msg := err.Error()
	if !strings.Contains(msg, "UNIQUE constraint failed") && !strings.Contains(msg, "duplicate key value") {
		return err
	}
	if strings.Contains(msg, "oauth_id") {
		return fmt.Errorf("%w: %s", ErrDuplicateSubject, msg)
	}
	return fmt.Errorf("%w: %s", ErrDuplicateEmail, msg)
}
