package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"linkshield/internal/api/handlers"
	apimiddleware "linkshield/internal/api/middleware"
	"linkshield/internal/config"
	"linkshield/internal/domain/services"
	"linkshield/internal/infrastructure/cache"
	"linkshield/pkg/logger"
)

// Router holds dependencies for the API router
type Router struct {
	config   config.Config
	handlers *handlers.Handlers
	auth     *services.AuthService
	cache    *cache.RedisCache
	logger   *logger.Logger
}

// NewRouter creates a new Router instance
func NewRouter(cfg config.Config, h *handlers.Handlers, auth *services.AuthService, c *cache.RedisCache, log *logger.Logger) *Router {
	return &Router{
		config:   cfg,
		handlers: h,
		auth:     auth,
		cache:    c,
		logger:   log.WithComponent("router"),
	}
}

// Setup sets up the Chi router with all routes and middleware
func (r *Router) Setup() http.Handler {
	router := chi.NewRouter()

	// Core middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(apimiddleware.Logger(r.logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))

	// CORS
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   r.config.CORS.AllowedOrigins,
		AllowedMethods:   r.config.CORS.AllowedMethods,
		AllowedHeaders:   r.config.CORS.AllowedHeaders,
		AllowCredentials: r.config.CORS.AllowCredentials,
		MaxAge:           r.config.CORS.MaxAge,
	}))

	// Rate limiting
	if r.config.RateLimit.Enabled && r.cache != nil {
		router.Use(apimiddleware.RateLimiter(r.cache, r.config.RateLimit))
	}

	// Public routes
	router.Group(func(pub chi.Router) {
		pub.Get("/health", r.handlers.Health.Check)
		pub.Get("/ready", r.handlers.Health.Ready)

		pub.Get("/api/v1/stats", r.handlers.Stats.Get)
	})

	// API v1 routes
	router.Route("/api/v1", func(api chi.Router) {
		api.Use(apimiddleware.SessionAuth(r.auth))

		// Account endpoints
		api.Route("/auth", func(auth chi.Router) {
			auth.Post("/register", r.handlers.Auth.Register)
			auth.Post("/login", r.handlers.Auth.Login)
			auth.Post("/logout", r.handlers.Auth.Logout)
		})

		// Scan endpoints; the extension calls these without an account
		api.Route("/scan", func(scan chi.Router) {
			scan.Post("/", r.handlers.Scan.ScanPage)
			scan.Post("/url", r.handlers.Scan.CheckURL)
			scan.Get("/reputation/{domain}", r.handlers.Scan.GetReputation)
		})

		// Settings endpoints (authenticated)
		api.Route("/settings", func(settings chi.Router) {
			settings.Use(apimiddleware.RequireUser())
			settings.Get("/", r.handlers.Settings.Get)
			settings.Put("/", r.handlers.Settings.Update)
		})
	})

	return router
}
