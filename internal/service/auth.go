package service

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/tingleshq/tingles/internal/auth"
	"github.com/tingleshq/tingles/internal/model"
	"github.com/tingleshq/tingles/internal/repository"
	"github.com/tingleshq/tingles/internal/validation"
)

// AuthService is the account resolver: it maps an authentication attempt,
// either an email/password pair or a verified OAuth identity, onto one
// canonical credential record, creating or linking records as needed.
type AuthService struct {
	userRepository    repository.UserRepository
	profileRepository repository.ProfileRepository
	hasher            *auth.PasswordHasher
	jwtSecret         string
	jwtExpiry         time.Duration
	isProduction      bool
}

func NewAuthService(
	userRepository repository.UserRepository,
	profileRepository repository.ProfileRepository,
	hasher *auth.PasswordHasher,
	jwtSecret string,
	jwtExpiry time.Duration,
	isProduction bool,
) *AuthService {
	return &AuthService{
		userRepository:    userRepository,
		profileRepository: profileRepository,
		hasher:            hasher,
		jwtSecret:         jwtSecret,
		jwtExpiry:         jwtExpiry,
		isProduction:      isProduction,
	}
}

// ByID loads a user by ID, mapping repository sentinels to auth errors.
func (s *AuthService) ByID(id string) (*model.User, error) {
	user, err := s.userRepository.ByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, auth.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// Login is the password path. It never creates or links records: a lookup,
// a provider check, and a hash comparison.
func (s *AuthService) Login(email, password string) (*model.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	user, err := s.userRepository.ByEmail(email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, auth.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	// OAuth-linked accounts must not accept password login, even if a stale
	// hash were still present.
	if user.AuthProvider != model.ProviderEmail || !user.HasPassword() {
		return nil, auth.ErrProviderMismatch
	}

	err = s.hasher.Compare(*user.PasswordHash, password)
	if err != nil {
		return nil, err
	}

	return user, nil
}

// Signup creates an email/password account with an empty profile. Roles are
// never granted here; every signup starts as a regular user.
func (s *AuthService) Signup(email, password string) (*model.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	err := validation.ValidateEmail(email)
	if err != nil {
		return nil, err
	}
	err = validation.ValidatePassword(password)
	if err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: &hash,
		AuthProvider: model.ProviderEmail,
		Role:         model.RoleUser,
	}

	err = s.userRepository.Create(user)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	err = s.createEmptyProfile(user.ID, "")
	if err != nil {
		return nil, err
	}

	slog.Info("new user signed up", "user_id", user.ID)
	return user, nil
}

// ResolveOAuth maps a verified OAuth identity to a credential record:
//
//  1. A record already keyed by (provider, subject) is returned unchanged,
//     the fast path for returning OAuth users.
//  2. Otherwise the email is looked up across all providers. An existing
//     email/password account is linked in place, so one physical identity
//     spans both login methods. An account already linked to a different
//     OAuth provider is rejected rather than silently relinked.
//  3. With no match at all, a fresh record is created with a null password
//     and the default role.
//
// The second return value reports whether a new record was created.
func (s *AuthService) ResolveOAuth(identity *auth.VerifiedIdentity) (*model.User, bool, error) {
	if identity == nil {
		return nil, false, errors.New("nil identity")
	}

	user, created, err := s.resolveOAuthOnce(identity)
	if errors.Is(err, repository.ErrDuplicateEmail) {
		// Lost a creation race against a concurrent signup for the same
		// email. The record exists now, so the lookup-and-link path is
		// retried once and converges.
		slog.Warn("oauth create hit duplicate email, retrying lookup", "provider", identity.Provider)
		return s.resolveOAuthOnce(identity)
	}
	return user, created, err
}

func (s *AuthService) resolveOAuthOnce(identity *auth.VerifiedIdentity) (*model.User, bool, error) {
	user, err := s.userRepository.ByProviderSubject(identity.Provider, identity.SubjectID)
	if err == nil {
		return user, false, nil
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, false, fmt.Errorf("failed to look up oauth subject: %w", err)
	}

	email := strings.TrimSpace(strings.ToLower(identity.Email))

	user, err = s.userRepository.ByEmail(email)
	if err == nil {
		user, err = s.linkOAuth(user, identity)
		return user, false, err
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, false, fmt.Errorf("failed to look up email: %w", err)
	}

	user, err = s.createFromIdentity(identity, email)
	return user, true, err
}

// linkOAuth upgrades an existing record in place. Role and profile data are
// preserved; the password hash is cleared because linked accounts carry no
// secret material.
func (s *AuthService) linkOAuth(user *model.User, identity *auth.VerifiedIdentity) (*model.User, error) {
	if user.AuthProvider.IsOAuth() {
		// Already linked to an OAuth subject, either a different provider or
		// a different subject on the same provider. Refuse rather than
		// silently relink.
		return nil, auth.ErrProviderConflict
	}

	subject := identity.SubjectID
	user.AuthProvider = identity.Provider
	user.OAuthID = &subject
	user.PasswordHash = nil

	err := s.userRepository.Update(user)
	if err != nil {
		return nil, fmt.Errorf("failed to link oauth identity: %w", err)
	}

	slog.Info("linked oauth identity to existing account", "user_id", user.ID, "provider", identity.Provider)
	return user, nil
}

func (s *AuthService) createFromIdentity(identity *auth.VerifiedIdentity, email string) (*model.User, error) {
	subject := identity.SubjectID
	user := &model.User{
		ID:           uuid.New().String(),
		Email:        email,
		AuthProvider: identity.Provider,
		OAuthID:      &subject,
		Role:         model.RoleUser,
	}

	err := s.userRepository.Create(user)
	if err != nil {
		return nil, err
	}

	// The provider's display name seeds the profile; age and gender still
	// come from onboarding, so the profile stays incomplete until then.
	err = s.createEmptyProfile(user.ID, identity.Name)
	if err != nil {
		return nil, err
	}

	slog.Info("new oauth user created", "user_id", user.ID, "provider", identity.Provider)
	return user, nil
}

func (s *AuthService) createEmptyProfile(userID, name string) error {
	profile := &model.Profile{
		ID:     uuid.New().String(),
		UserID: userID,
		Name:   strings.TrimSpace(name),
		Status: model.StatusAvailable,
	}
	err := s.profileRepository.Create(profile)
	if err != nil {
		return fmt.Errorf("failed to create profile: %w", err)
	}
	return nil
}

// NeedsOnboarding reports whether the user must complete their profile
// before matching features are reachable.
func (s *AuthService) NeedsOnboarding(userID string) (bool, error) {
	profile, err := s.profileRepository.ByUserID(userID)
	if err != nil {
		return false, fmt.Errorf("failed to get profile: %w", err)
	}
	return !profile.Complete(), nil
}

func (s *AuthService) GenerateJWT(user *model.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"role":    string(user.Role),
		"exp":     time.Now().Add(s.jwtExpiry).Unix(),
		"iat":     time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

func (s *AuthService) VerifyJWT(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})

	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if ok && token.Valid {
		return claims, nil
	}

	return nil, fmt.Errorf("invalid token")
}

func (s *AuthService) SetJWTCookie(w http.ResponseWriter, token string, expiry time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     "auth_token",
		Value:    token,
		Expires:  expiry,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.isProduction,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *AuthService) ClearJWTCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     "auth_token",
		Value:    "",
		Expires:  time.Unix(0, 0),
		Path:     "/",
		HttpOnly: true,
		Secure:   s.isProduction,
		SameSite: http.SameSiteLaxMode,
	})
}

// SetRole is the administrative role change; only founder handlers reach it.
func (s *AuthService) SetRole(userID string, role model.Role) error {
	return s.userRepository.UpdateRole(userID, role)
}
