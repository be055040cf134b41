package app

import (
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	"github.com/tingleshq/tingles/internal/auth"
	"github.com/tingleshq/tingles/internal/config"
	"github.com/tingleshq/tingles/internal/db"
	"github.com/tingleshq/tingles/internal/repository"
	"github.com/tingleshq/tingles/internal/service"
	"github.com/tingleshq/tingles/internal/storage"
)

type App struct {
	Cfg               *config.Config
	DB                *sqlx.DB
	States            *auth.StateStore
	Exchange          *auth.Exchange
	AuthService       *service.AuthService
	ProfileService    *service.ProfileService
	SuggestionService *service.SuggestionService
	EmailService      *service.EmailService
	PhotoService      *service.PhotoService
}

func New(cfg *config.Config) (*App, error) {
	// Initialize database
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %v", err)
	}

	// Run database migrations
	err = db.RunMigrations(database.DB, cfg.DBDriver)
	if err != nil {
		return nil, fmt.Errorf("failed to run migrations: %v", err)
	}

	// Repositories
	userRepository := repository.NewUserRepository(database)
	profileRepository := repository.NewProfileRepository(database)
	suggestionRepository := repository.NewSuggestionRepository(database)

	// Photo storage
	var photoStorage storage.Storage
	if cfg.PhotoStorageConfigured() {
		photoStorage, err = storage.NewS3Storage(storage.S3Config{
			Region:        cfg.S3Region,
			Bucket:        cfg.S3Bucket,
			AccessKey:     cfg.S3AccessKey,
			SecretKey:     cfg.S3SecretKey,
			Endpoint:      cfg.S3Endpoint,
			PresignExpiry: cfg.S3PresignExpiry,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize storage: %v", err)
		}
	} else {
		slog.Info("photo storage not configured, uploads disabled")
		photoStorage = storage.NewNoop()
	}

	// OAuth
	states := auth.NewStateStore(cfg.OAuthStateTTL)
	exchange := auth.NewExchange(states, cfg.OAuthRedirectURL,
		auth.ClientCredentials{ClientID: cfg.GoogleClientID, ClientSecret: cfg.GoogleClientSecret},
		auth.ClientCredentials{ClientID: cfg.LinkedInClientID, ClientSecret: cfg.LinkedInClientSecret},
	)

	// Services
	emailService := service.NewEmailService(
		cfg.ResendAPIKey,
		cfg.EmailFrom,
		cfg.FounderEmail,
		cfg.AppName,
		cfg.IsDevelopment(),
	)
	photoService := service.NewPhotoService(photoStorage)
	authService := service.NewAuthService(
		userRepository,
		profileRepository,
		auth.NewPasswordHasher(),
		cfg.JWTSecret,
		cfg.JWTExpiry,
		cfg.IsProduction(),
	)
	profileService := service.NewProfileService(profileRepository, userRepository, photoService, emailService)
	suggestionService := service.NewSuggestionService(suggestionRepository, profileRepository)

	return &App{
		Cfg:               cfg,
		DB:                database,
		States:            states,
		Exchange:          exchange,
		AuthService:       authService,
		ProfileService:    profileService,
		SuggestionService: suggestionService,
		EmailService:      emailService,
		PhotoService:      photoService,
	}, nil
}

func (a *App) Close() error {
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}
