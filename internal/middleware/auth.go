package middleware

import (
	"net/http"

	"github.com/tingleshq/tingles/internal/ctxkeys"
	"github.com/tingleshq/tingles/internal/handler/respond"
	"github.com/tingleshq/tingles/internal/service"
)

// AuthMiddleware checks for a JWT cookie and adds user + profile to the
// context when valid. Invalid tokens clear the cookie and fall through as
// unauthenticated rather than erroring.
func AuthMiddleware(authService *service.AuthService, profileService *service.ProfileService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie("auth_token")
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := authService.VerifyJWT(cookie.Value)
			if err != nil {
				authService.ClearJWTCookie(w)
				next.ServeHTTP(w, r)
				return
			}

			userID, ok := claims["user_id"].(string)
			if !ok {
				authService.ClearJWTCookie(w)
				next.ServeHTTP(w, r)
				return
			}

			user, err := authService.ByID(userID)
			if err != nil {
				authService.ClearJWTCookie(w)
				next.ServeHTTP(w, r)
				return
			}

			// Never carry secret material through the request context
			user.PasswordHash = nil

			profile, err := profileService.ByUserID(userID)
			if err != nil {
				authService.ClearJWTCookie(w)
				next.ServeHTTP(w, r)
				return
			}

			ctx := ctxkeys.WithUser(r.Context(), user)
			ctx = ctxkeys.WithProfile(ctx, profile)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth ensures the user is authenticated and has completed their
// profile. Incomplete profiles are pointed at onboarding; matching features
// stay out of reach until name, age, and gender are set.
func RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := ctxkeys.User(r.Context())
		if user == nil {
			respond.Error(w, http.StatusUnauthorized, "authentication required")
			return
		}

		profile := ctxkeys.Profile(r.Context())
		if profile == nil || !profile.Complete() {
			respond.ErrorCode(w, http.StatusForbidden, "profile_incomplete", "complete your profile to continue")
			return
		}

		next.ServeHTTP(w, r)
	}
}

// RequireUser only needs a valid session; onboarding endpoints use it.
func RequireUser(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := ctxkeys.User(r.Context())
		if user == nil {
			respond.Error(w, http.StatusUnauthorized, "authentication required")
			return
		}
		next.ServeHTTP(w, r)
	}
}

// RequireFounder gates founder tools. Roles come from the credential
// record, never from the authentication path.
func RequireFounder(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := ctxkeys.User(r.Context())
		if user == nil {
			respond.Error(w, http.StatusUnauthorized, "authentication required")
			return
		}
		if !user.IsFounder() {
			respond.Error(w, http.StatusForbidden, "founder access required")
			return
		}
		next.ServeHTTP(w, r)
	}
}

// RequireGuest rejects authenticated sessions on login/signup endpoints.
func RequireGuest(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := ctxkeys.User(r.Context())
		if user != nil {
			respond.Error(w, http.StatusConflict, "already signed in")
			return
		}
		next.ServeHTTP(w, r)
	}
}
