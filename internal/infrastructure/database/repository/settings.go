package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"linkshield/internal/domain/models"
)

// SettingsRepository handles per-user settings persistence
type SettingsRepository struct {
	pool *pgxpool.Pool
}

// NewSettingsRepository creates a new settings repository
func NewSettingsRepository(pool *pgxpool.Pool) *SettingsRepository {
	return &SettingsRepository{pool: pool}
}

// Get fetches settings for a user
func (r *SettingsRepository) Get(ctx context.Context, userID uuid.UUID) (*models.Settings, error) {
	query := `
		SELECT user_id, protection_enabled, highlight_threshold, use_reputation,
		       trusted_domains, blocked_domains, updated_at
		FROM settings WHERE user_id = $1`

	var s models.Settings
	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&s.UserID, &s.ProtectionEnabled, &s.HighlightThreshold, &s.UseReputation,
		&s.TrustedDomains, &s.BlockedDomains, &s.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}

	return &s, nil
}

// Upsert writes settings for a user
func (r *SettingsRepository) Upsert(ctx context.Context, s *models.Settings) error {
	query := `
		INSERT INTO settings (user_id, protection_enabled, highlight_threshold,
		                      use_reputation, trusted_domains, blocked_domains, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, now())
		ON CONFLICT (user_id) DO UPDATE SET
			protection_enabled  = EXCLUDED.protection_enabled,
			highlight_threshold = EXCLUDED.highlight_threshold,
			use_reputation      = EXCLUDED.use_reputation,
			trusted_domains     = EXCLUDED.trusted_domains,
			blocked_domains     = EXCLUDED.blocked_domains,
			updated_at          = now()`

	_, err := r.pool.Exec(ctx, query,
		s.UserID, s.ProtectionEnabled, s.HighlightThreshold,
		s.UseReputation, s.TrustedDomains, s.BlockedDomains,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert settings: %w", err)
	}

	return nil
}
