package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/tingleshq/tingles/internal/auth"
	"github.com/tingleshq/tingles/internal/ctxkeys"
	"github.com/tingleshq/tingles/internal/handler/respond"
	"github.com/tingleshq/tingles/internal/model"
	"github.com/tingleshq/tingles/internal/repository"
	"github.com/tingleshq/tingles/internal/service"
	"github.com/tingleshq/tingles/internal/validation"
)

const (
	destOnboarding = "/onboarding"
	destGallery    = "/gallery"
	destFounder    = "/founder"
)

type authHandler struct {
	authService    *service.AuthService
	profileService *service.ProfileService
	emailService   *service.EmailService
	exchange       *auth.Exchange
	states         *auth.StateStore
	jwtExpiry      time.Duration
}

func NewAuthHandler(authService *service.AuthService, profileService *service.ProfileService, emailService *service.EmailService, exchange *auth.Exchange, states *auth.StateStore, jwtExpiry time.Duration) *authHandler {
	return &authHandler{
		authService:    authService,
		profileService: profileService,
		emailService:   emailService,
		exchange:       exchange,
		states:         states,
		jwtExpiry:      jwtExpiry,
	}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	User        *model.User `json:"user"`
	Destination string      `json:"destination"`
}

func (h *authHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	// Validate up front so the caller gets a specific message; the service
	// re-checks before writing.
	err = validation.ValidateEmail(strings.TrimSpace(strings.ToLower(req.Email)))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	err = validation.ValidatePassword(req.Password)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.authService.Signup(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			respond.ErrorCode(w, http.StatusConflict, "email_taken", "an account with this email already exists")
			return
		}
		slog.Error("signup failed", "error", err)
		respond.Error(w, http.StatusInternalServerError, "signup failed")
		return
	}

	err = h.emailService.SendSignupNotification(user.Email, string(user.AuthProvider))
	if err != nil {
		slog.Warn("signup notification failed", "error", err, "user_id", user.ID)
	}

	err = h.issueSession(w, user)
	if err != nil {
		slog.Error("failed to generate JWT", "error", err, "user_id", user.ID)
		respond.Error(w, http.StatusInternalServerError, "signup failed")
		return
	}

	slog.Info("user signed up", "user_id", user.ID, "email", user.Email)
	respond.JSON(w, http.StatusCreated, sessionResponse{User: user, Destination: destOnboarding})
}

func (h *authHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrProviderMismatch) {
			respond.ErrorCode(w, http.StatusConflict, "oauth_account", "this account signs in with Google or LinkedIn")
			return
		}
		// Unknown email and wrong password answer identically so the
		// endpoint cannot be used to enumerate accounts.
		slog.Warn("password login failed", "error", err, "email", req.Email)
		respond.Error(w, http.StatusUnauthorized, "invalid email or password")
		return
	}

	err = h.issueSession(w, user)
	if err != nil {
		slog.Error("failed to generate JWT", "error", err, "user_id", user.ID)
		respond.Error(w, http.StatusInternalServerError, "login failed")
		return
	}

	dest, err := h.destination(user)
	if err != nil {
		slog.Warn("failed to check onboarding status", "error", err, "user_id", user.ID)
	}

	slog.Info("user logged in with password", "user_id", user.ID, "email", user.Email)
	respond.JSON(w, http.StatusOK, sessionResponse{User: user, Destination: dest})
}

func (h *authHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.authService.ClearJWTCookie(w)
	respond.JSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

// Session reports the caller's current user and where the client should
// route them.
func (h *authHandler) Session(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	if user == nil {
		respond.Error(w, http.StatusUnauthorized, "not signed in")
		return
	}

	dest, err := h.destination(user)
	if err != nil {
		slog.Warn("failed to check onboarding status", "error", err, "user_id", user.ID)
	}
	respond.JSON(w, http.StatusOK, sessionResponse{User: user, Destination: dest})
}

type onboardingRequest struct {
	Name   string `json:"name"`
	Age    int    `json:"age"`
	Gender string `json:"gender"`
}

func (h *authHandler) CompleteOnboarding(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	if user == nil {
		respond.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req onboardingRequest
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	name := strings.TrimSpace(req.Name)
	gender := strings.TrimSpace(req.Gender)
	if err := validation.ValidateName(name); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := validation.ValidateAge(req.Age); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := validation.ValidateGender(gender); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	err = h.profileService.CompleteOnboarding(user.ID, name, req.Age, gender)
	if err != nil {
		slog.Error("onboarding failed", "error", err, "user_id", user.ID)
		respond.Error(w, http.StatusInternalServerError, "onboarding failed")
		return
	}

	dest := destGallery
	if user.IsFounder() {
		dest = destFounder
	}

	slog.Info("onboarding completed", "user_id", user.ID, "name", req.Name)
	respond.JSON(w, http.StatusOK, sessionResponse{User: user, Destination: dest})
}

// OAuthBegin redirects the browser to the provider's consent screen.
// Handles GET /auth/{provider}.
func (h *authHandler) OAuthBegin(w http.ResponseWriter, r *http.Request) {
	provider, err := model.ParseAuthProvider(r.PathValue("provider"))
	if err != nil || !provider.IsOAuth() {
		respond.Error(w, http.StatusNotFound, "unknown provider")
		return
	}

	authURL, _, err := h.exchange.Begin(provider)
	if err != nil {
		if errors.Is(err, auth.ErrProviderDisabled) {
			respond.ErrorCode(w, http.StatusServiceUnavailable, "provider_disabled", string(provider)+" sign-in is not configured")
			return
		}
		slog.Error("oauth begin failed", "error", err, "provider", provider)
		respond.Error(w, http.StatusInternalServerError, "sign-in failed")
		return
	}

	http.Redirect(w, r, authURL, http.StatusTemporaryRedirect)
}

// OAuthCallback handles the shared redirect URI for both providers. The
// state token itself tells us which provider the attempt belongs to; an
// unknown or expired state never reaches the network.
func (h *authHandler) OAuthCallback(w http.ResponseWriter, r *http.Request) {
	state := r.URL.Query().Get("state")
	code := r.URL.Query().Get("code")

	provider, ok := h.states.Provider(state)
	if !ok {
		slog.Warn("oauth state validation failed")
		h.callbackError(w, r, "state_mismatch")
		return
	}

	identity, err := h.exchange.Complete(r.Context(), provider, code, state)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrStateMismatch):
			slog.Warn("oauth state validation failed", "provider", provider)
			h.callbackError(w, r, "state_mismatch")
		case errors.Is(err, auth.ErrIncompleteProfile):
			slog.Warn("oauth profile missing email", "provider", provider)
			h.callbackError(w, r, "incomplete_profile")
		default:
			slog.Error("oauth exchange failed", "error", err, "provider", provider)
			h.callbackError(w, r, "provider_error")
		}
		return
	}

	user, created, err := h.authService.ResolveOAuth(identity)
	if err != nil {
		if errors.Is(err, auth.ErrProviderConflict) {
			slog.Warn("oauth account conflict", "provider", provider, "email", identity.Email)
			h.callbackError(w, r, "provider_conflict")
			return
		}
		slog.Error("oauth resolution failed", "error", err, "provider", provider, "email", identity.Email)
		h.callbackError(w, r, "resolution_failed")
		return
	}

	if created {
		err = h.emailService.SendSignupNotification(user.Email, string(provider))
		if err != nil {
			slog.Warn("signup notification failed", "error", err, "user_id", user.ID)
		}
	}

	err = h.issueSession(w, user)
	if err != nil {
		slog.Error("failed to generate JWT", "error", err, "user_id", user.ID)
		h.callbackError(w, r, "session_failed")
		return
	}

	dest, err := h.destination(user)
	if err != nil {
		slog.Warn("failed to check onboarding status", "error", err, "user_id", user.ID)
	}

	slog.Info("user logged in with oauth", "user_id", user.ID, "email", user.Email, "provider", provider)
	http.Redirect(w, r, dest, http.StatusSeeOther)
}

// callbackError lands the browser back on the login page with an error code
// the client can surface. The callback is a top-level navigation, so it
// redirects rather than answering JSON.
func (h *authHandler) callbackError(w http.ResponseWriter, r *http.Request, code string) {
	http.Redirect(w, r, "/login?error="+code, http.StatusSeeOther)
}

func (h *authHandler) issueSession(w http.ResponseWriter, user *model.User) error {
	token, err := h.authService.GenerateJWT(user)
	if err != nil {
		return err
	}
	h.authService.SetJWTCookie(w, token, time.Now().Add(h.jwtExpiry))
	return nil
}

// destination decides where the client routes a signed-in user: onboarding
// until the profile is complete, then the founder dashboard or the gallery
// by role.
func (h *authHandler) destination(user *model.User) (string, error) {
	needsOnboarding, err := h.authService.NeedsOnboarding(user.ID)
	if err != nil {
		return destGallery, err
	}
	if needsOnboarding {
		return destOnboarding, nil
	}
	if user.IsFounder() {
		return destFounder, nil
	}
	return destGallery, nil
}
