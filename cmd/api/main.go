package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"linkshield/internal/api"
	"linkshield/internal/api/handlers"
	"linkshield/internal/config"
	"linkshield/internal/detection/typosquat"
	"linkshield/internal/domain/services"
	"linkshield/internal/infrastructure/cache"
	"linkshield/internal/infrastructure/database"
	"linkshield/internal/infrastructure/database/repository"
	"linkshield/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.LoadDefault()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	var log *logger.Logger
	if cfg.App.Environment == "production" {
		log = logger.NewProduction()
	} else {
		log = logger.NewDevelopment()
	}
	logger.SetGlobal(log)

	log.Info().
		Str("app", cfg.App.Name).
		Str("env", cfg.App.Environment).
		Str("version", cfg.App.Version).
		Msg("starting LinkShield")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize infrastructure
	db, redisCache := initInfrastructure(ctx, cfg, log)
	defer func() {
		if db != nil {
			db.Close()
		}
		if redisCache != nil {
			redisCache.Close()
		}
	}()

	// Initialize repositories
	var repos *repository.Repositories
	if db != nil {
		repos = repository.NewRepositories(db.Pool())
		log.Info().Msg("repositories initialized with database")
	} else {
		log.Warn().Msg("running without database - repositories unavailable")
	}

	// Build the detection engine, with config overrides over the built-in
	// reference tables
	engineCfg := typosquat.DefaultConfig()
	if len(cfg.Detection.Brands) > 0 {
		engineCfg.Brands = cfg.Detection.Brands
	}
	if len(cfg.Detection.SuspiciousTLDs) > 0 {
		engineCfg.SuspiciousTLDs = cfg.Detection.SuspiciousTLDs
	}
	engine := typosquat.NewEngine(engineCfg)
	log.Info().Int("brands", len(engineCfg.Brands)).Msg("detection engine initialized")

	// Initialize services
	var reputation services.ReputationClient
	if cfg.Reputation.Enabled && cfg.Reputation.APIURL != "" {
		reputation = services.NewHTTPReputationClient(cfg.Reputation, redisCache, log)
		log.Info().Str("api_url", cfg.Reputation.APIURL).Msg("reputation client initialized")
	} else {
		log.Info().Msg("reputation lookups disabled")
	}

	scanner := services.NewScanService(engine, reputation, redisCache, repos, cfg.Scanner, log)

	var settingsRepo *repository.SettingsRepository
	var userRepo *repository.UserRepository
	if repos != nil {
		settingsRepo = repos.Settings
		userRepo = repos.Users
	}
	settings := services.NewSettingsService(settingsRepo, redisCache, log)
	auth := services.NewAuthService(userRepo, redisCache, cfg.Auth, log)

	// Create handlers
	deps := handlers.Dependencies{
		Scanner:    scanner,
		Settings:   settings,
		Auth:       auth,
		Reputation: reputation,
		Cache:      redisCache,
		Repos:      repos,
		Logger:     log,
	}
	h := handlers.NewHandlers(deps)

	// Create router
	router := api.NewRouter(*cfg, h, auth, redisCache, log)
	httpHandler := router.Setup()

	// Start HTTP server
	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.HTTPPort),
		Handler:      httpHandler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info().
			Str("addr", httpServer.Addr).
			Msg("starting HTTP server")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	log.Info().Msg("shutdown complete")
}

// initInfrastructure initializes database and cache connections. Both are
// optional; the services degrade to engine-only behavior without them.
func initInfrastructure(ctx context.Context, cfg *config.Config, log *logger.Logger) (*database.PostgresDB, *cache.RedisCache) {
	db, err := database.NewPostgres(ctx, cfg.Database, log)
	if err != nil {
		log.Warn().Err(err).Msg("failed to connect to PostgreSQL, continuing without database")
	}

	redisCache, err := cache.NewRedis(ctx, cfg.Redis, log)
	if err != nil {
		log.Warn().Err(err).Msg("failed to connect to Redis, continuing without cache")
		redisCache = nil
	}

	return db, redisCache
}
