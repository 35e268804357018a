package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"linkshield/internal/domain/models"
	"linkshield/internal/infrastructure/cache"
	"linkshield/internal/infrastructure/database/repository"
	"linkshield/pkg/logger"
)

// SettingsService manages per-user extension settings with a Redis
// read-through cache on top of Postgres. Without a database it keeps
// settings in memory, which is enough for single-node deployments and
// tests.
type SettingsService struct {
	repo   *repository.SettingsRepository
	cache  *cache.RedisCache
	logger *logger.Logger

	mu  sync.RWMutex
	mem map[uuid.UUID]*models.Settings
}

// NewSettingsService creates a settings service. Both repo and cache may
// be nil.
func NewSettingsService(repo *repository.SettingsRepository, c *cache.RedisCache, log *logger.Logger) *SettingsService {
	return &SettingsService{
		repo:   repo,
		cache:  c,
		logger: log.WithComponent("settings"),
		mem:    map[uuid.UUID]*models.Settings{},
	}
}

// Get returns the user's settings, falling back to defaults when the user
// has never saved any.
func (s *SettingsService) Get(ctx context.Context, userID uuid.UUID) (*models.Settings, error) {
	cacheKey := cache.KeySettingsPrefix + userID.String()
	if s.cache != nil {
		var cached models.Settings
		if err := s.cache.GetJSON(ctx, cacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	if s.repo == nil {
		s.mu.RLock()
		stored, ok := s.mem[userID]
		s.mu.RUnlock()
		if ok {
			copied := *stored
			return &copied, nil
		}
		defaults := models.DefaultSettings(userID)
		return &defaults, nil
	}

	settings, err := s.repo.Get(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		defaults := models.DefaultSettings(userID)
		settings = &defaults
	} else if err != nil {
		return nil, err
	}

	if s.cache != nil {
		_ = s.cache.SetJSON(ctx, cacheKey, settings, 10*time.Minute)
	}

	return settings, nil
}

// Update applies a partial update and persists the result.
func (s *SettingsService) Update(ctx context.Context, userID uuid.UUID, update *models.SettingsUpdate) (*models.Settings, error) {
	settings, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	apply(settings, update)
	settings.UpdatedAt = time.Now()

	if s.repo != nil {
		if err := s.repo.Upsert(ctx, settings); err != nil {
			return nil, err
		}
	} else {
		copied := *settings
		s.mu.Lock()
		s.mem[userID] = &copied
		s.mu.Unlock()
	}

	if s.cache != nil {
		_ = s.cache.Delete(ctx, cache.KeySettingsPrefix+userID.String())
	}

	s.logger.Info().
		Str("user_id", userID.String()).
		Int("threshold", settings.HighlightThreshold).
		Bool("protection", settings.ProtectionEnabled).
		Msg("settings updated")

	return settings, nil
}

func apply(settings *models.Settings, update *models.SettingsUpdate) {
	if update.ProtectionEnabled != nil {
		settings.ProtectionEnabled = *update.ProtectionEnabled
	}
	if update.HighlightThreshold != nil {
		threshold := *update.HighlightThreshold
		if threshold < 0 {
			threshold = 0
		}
		if threshold > 100 {
			threshold = 100
		}
		settings.HighlightThreshold = threshold
	}
	if update.UseReputation != nil {
		settings.UseReputation = *update.UseReputation
	}
	if update.TrustedDomains != nil {
		settings.TrustedDomains = *update.TrustedDomains
	}
	if update.BlockedDomains != nil {
		settings.BlockedDomains = *update.BlockedDomains
	}
}
