package routes

import (
	"net/http"

	"github.com/tingleshq/tingles/internal/app"
	"github.com/tingleshq/tingles/internal/handler"
	"github.com/tingleshq/tingles/internal/middleware"
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	health := handler.NewHealthHandler(app.DB)
	auth := handler.NewAuthHandler(app.AuthService, app.ProfileService, app.EmailService, app.Exchange, app.States, app.Cfg.JWTExpiry)
	profile := handler.NewProfileHandler(app.ProfileService, app.PhotoService)
	gallery := handler.NewGalleryHandler(app.ProfileService)
	suggestion := handler.NewSuggestionHandler(app.SuggestionService)
	founder := handler.NewFounderHandler(app.AuthService, app.ProfileService, app.SuggestionService)

	mux := http.NewServeMux()

	// ============================================================================
	// PUBLIC ROUTES
	// ============================================================================

	mux.HandleFunc("GET /healthz", health.Healthz)

	// Auth - Authentication flow (rate limited)
	rateLimiter := middleware.RateLimitAuth()

	mux.HandleFunc("POST /auth/signup", rateLimiter(middleware.RequireGuest(auth.Signup)))
	mux.HandleFunc("POST /auth/login", rateLimiter(middleware.RequireGuest(auth.Login)))
	mux.HandleFunc("POST /auth/logout", auth.Logout)
	mux.HandleFunc("GET /auth/session", auth.Session)

	// OAuth. Both providers share one registered callback; the state token
	// identifies which flow a callback belongs to.
	mux.HandleFunc("GET /auth/callback", rateLimiter(auth.OAuthCallback))
	mux.HandleFunc("GET /auth/{provider}", rateLimiter(middleware.RequireGuest(auth.OAuthBegin)))

	// Onboarding needs a session but not a complete profile
	mux.HandleFunc("POST /auth/onboarding", middleware.RequireUser(auth.CompleteOnboarding))

	// ============================================================================
	// MEMBER ROUTES (complete profile required)
	// ============================================================================

	mux.HandleFunc("GET /api/profile", middleware.RequireUser(profile.Me))
	mux.HandleFunc("PUT /api/profile", middleware.RequireAuth(profile.UpdateDetails))
	mux.HandleFunc("POST /api/profile/photo", middleware.RequireUser(profile.UploadPhoto))

	mux.HandleFunc("GET /api/gallery", middleware.RequireAuth(gallery.List))
	mux.HandleFunc("POST /api/gallery/{userID}/interest", middleware.RequireAuth(gallery.ExpressInterest))

	mux.HandleFunc("GET /api/suggestions", middleware.RequireAuth(suggestion.List))
	mux.HandleFunc("POST /api/suggestions/{id}/respond", middleware.RequireAuth(suggestion.Respond))

	// ============================================================================
	// FOUNDER ROUTES
	// ============================================================================

	mux.HandleFunc("GET /api/founder/interested", middleware.RequireFounder(founder.Interested))
	mux.HandleFunc("POST /api/founder/suggestions", middleware.RequireFounder(founder.Suggest))
	mux.HandleFunc("PUT /api/founder/members/{userID}/stage", middleware.RequireFounder(founder.UpdateMatchStage))
	mux.HandleFunc("PUT /api/founder/members/{userID}/profile", middleware.RequireFounder(founder.UpdateMemberProfile))
	mux.HandleFunc("PUT /api/founder/members/{userID}/role", middleware.RequireFounder(founder.SetRole))

	// Global middleware - executed in order (top to bottom)
	return middleware.Chain(
		mux,
		middleware.Config(app.Cfg),
		middleware.RequestLogging,
		middleware.AuthMiddleware(app.AuthService, app.ProfileService),
	)
}
