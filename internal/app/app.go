package app

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/templui/goalvoice/internal/config"
	"github.com/templui/goalvoice/internal/db"
	"github.com/templui/goalvoice/internal/metrics"
	"github.com/templui/goalvoice/internal/repository"
	"github.com/templui/goalvoice/internal/service"
	"github.com/templui/goalvoice/internal/service/voice"
	"github.com/templui/goalvoice/internal/storage"
)

type App struct {
	Cfg                 *config.Config
	DB                  *sqlx.DB
	Registry            *prometheus.Registry
	Metrics             *metrics.Metrics
	AuthService         *service.AuthService
	UserService         *service.UserService
	EmailService        *service.EmailService
	GoalService         *service.GoalService
	ConversationService *service.ConversationService
	Pipeline            *voice.Pipeline
	WebhookVerifier     *voice.Verifier
}

func New(ctx context.Context, cfg *config.Config) (*App, error) {
	// Initialize database
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// Run database migrations
	err = db.RunMigrations(database.DB, cfg.DBDriver)
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	a, err := Build(ctx, cfg, database)
	if err != nil {
		database.Close()
		return nil, err
	}
	return a, nil
}

// Build wires services on top of an already migrated database.
func Build(ctx context.Context, cfg *config.Config, database *sqlx.DB) (*App, error) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.MustNew(registry)

	// Repositories
	userRepository := repository.NewUserRepository(database)
	profileRepository := repository.NewProfileRepository(database)
	goalRepository := repository.NewGoalRepository(database)
	conversationRepository := repository.NewConversationRepository(database)

	// Storage
	transcripts, err := storage.New(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	// Services
	emailService := service.NewEmailService(
		cfg.ResendAPIKey,
		cfg.EmailFrom,
		cfg.AppURL,
		cfg.AppName,
		cfg.IsDevelopment(),
	)
	authService := service.NewAuthService(
		userRepository,
		profileRepository,
		emailService,
		cfg.JWTSecret,
		cfg.JWTExpiry,
	)
	userService := service.NewUserService(userRepository, profileRepository)
	goalService := service.NewGoalService(goalRepository)
	conversationService := service.NewConversationService(conversationRepository, transcripts)

	// Voice pipeline
	notifier, err := voice.NewRelayNotifier(voice.RelayConfig{
		URL:           cfg.RelayWebhookURL,
		Timeout:       cfg.RelayTimeout,
		SigningSecret: cfg.RelaySigningSecret,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize relay notifier: %w", err)
	}
	verifier, err := voice.NewVerifier(cfg.VoiceWebhookSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize webhook verifier: %w", err)
	}
	pipeline := voice.NewPipeline(
		voice.NewReceiver(userService),
		voice.NewExtractor(voice.WithFirstMatchOnly(cfg.ExtractFirstMatchOnly)),
		goalService,
		notifier,
		voice.WithConversations(conversationService),
		voice.WithMetrics(m),
	)

	return &App{
		Cfg:                 cfg,
		DB:                  database,
		Registry:            registry,
		Metrics:             m,
		AuthService:         authService,
		UserService:         userService,
		EmailService:        emailService,
		GoalService:         goalService,
		ConversationService: conversationService,
		Pipeline:            pipeline,
		WebhookVerifier:     verifier,
	}, nil
}

func (a *App) Close() error {
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}
