package handlers

import (
	"linkshield/internal/domain/services"
	"linkshield/internal/infrastructure/cache"
	"linkshield/internal/infrastructure/database/repository"
	"linkshield/pkg/logger"
)

// Handlers holds all API handlers
type Handlers struct {
	Health   *HealthHandler
	Scan     *ScanHandler
	Settings *SettingsHandler
	Auth     *AuthHandler
	Stats    *StatsHandler
}

// Dependencies holds dependencies for handlers
type Dependencies struct {
	Scanner    *services.ScanService
	Settings   *services.SettingsService
	Auth       *services.AuthService
	Reputation services.ReputationClient
	Cache      *cache.RedisCache
	Repos      *repository.Repositories
	Logger     *logger.Logger
}

// NewHandlers creates all handlers
func NewHandlers(deps Dependencies) *Handlers {
	return &Handlers{
		Health:   NewHealthHandler(deps.Cache, deps.Repos, deps.Logger),
		Scan:     NewScanHandler(deps.Scanner, deps.Reputation, deps.Logger),
		Settings: NewSettingsHandler(deps.Settings, deps.Logger),
		Auth:     NewAuthHandler(deps.Auth, deps.Logger),
		Stats:    NewStatsHandler(deps.Scanner, deps.Repos, deps.Logger),
	}
}
