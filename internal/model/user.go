package model

import (
	"fmt"
	"time"
)

// AuthProvider identifies how a user's identity is established.
// Unrecognized values are rejected at the store boundary.
type AuthProvider string

const (
	ProviderEmail    AuthProvider = "email"
	ProviderGoogle   AuthProvider = "google"
	ProviderLinkedIn AuthProvider = "linkedin"
)

func ParseAuthProvider(s string) (AuthProvider, error) {
	switch AuthProvider(s) {
	case ProviderEmail, ProviderGoogle, ProviderLinkedIn:
		return AuthProvider(s), nil
	}
	return "", fmt.Errorf("unknown auth provider %q", s)
}

// IsOAuth reports whether the provider is an external OAuth provider.
func (p AuthProvider) IsOAuth() bool {
	return p == ProviderGoogle || p == ProviderLinkedIn
}

// Role governs which application surface a user is routed to.
type Role string

const (
	RoleUser    Role = "user"
	RoleFounder Role = "founder"
)

func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleUser, RoleFounder:
		return Role(s), nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// User is one credential record: a single canonical identity regardless of
// how many login methods end up attached to it.
type User struct {
	ID           string       `db:"id" json:"id"`
	Email        string       `db:"email" json:"email"`
	PasswordHash *string      `db:"password_hash" json:"-"` // non-nil iff AuthProvider == email
	AuthProvider AuthProvider `db:"auth_provider" json:"auth_provider"`
	OAuthID      *string      `db:"oauth_id" json:"-"` // provider subject id, nil for email accounts
	Role         Role         `db:"role" json:"role"`
	CreatedAt    time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time    `db:"updated_at" json:"updated_at"`
}

func (u *User) HasPassword() bool {
	return u.PasswordHash != nil && *u.PasswordHash != ""
}

func (u *User) IsFounder() bool {
	return u.Role == RoleFounder
}
