package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"linkshield/internal/domain/models"
	"linkshield/pkg/logger"
)

func TestSettingsDefaults(t *testing.T) {
	svc := NewSettingsService(nil, nil, logger.Nop())
	userID := uuid.New()

	settings, err := svc.Get(context.Background(), userID)
	require.NoError(t, err)
	require.Equal(t, userID, settings.UserID)
	require.True(t, settings.ProtectionEnabled)
	require.Equal(t, 70, settings.HighlightThreshold)
	require.True(t, settings.UseReputation)
}

func TestSettingsPartialUpdate(t *testing.T) {
	svc := NewSettingsService(nil, nil, logger.Nop())
	userID := uuid.New()
	ctx := context.Background()

	threshold := 85
	updated, err := svc.Update(ctx, userID, &models.SettingsUpdate{
		HighlightThreshold: &threshold,
	})
	require.NoError(t, err)
	require.Equal(t, 85, updated.HighlightThreshold)
	// Untouched fields keep their defaults.
	require.True(t, updated.ProtectionEnabled)
	require.True(t, updated.UseReputation)

	// The update sticks across reads.
	settings, err := svc.Get(ctx, userID)
	require.NoError(t, err)
	require.Equal(t, 85, settings.HighlightThreshold)
}

func TestSettingsThresholdClamped(t *testing.T) {
	svc := NewSettingsService(nil, nil, logger.Nop())
	ctx := context.Background()
	userID := uuid.New()

	over := 150
	updated, err := svc.Update(ctx, userID, &models.SettingsUpdate{HighlightThreshold: &over})
	require.NoError(t, err)
	require.Equal(t, 100, updated.HighlightThreshold)

	under := -10
	updated, err = svc.Update(ctx, userID, &models.SettingsUpdate{HighlightThreshold: &under})
	require.NoError(t, err)
	require.Equal(t, 0, updated.HighlightThreshold)
}

func TestSettingsDomainLists(t *testing.T) {
	svc := NewSettingsService(nil, nil, logger.Nop())
	ctx := context.Background()
	userID := uuid.New()

	trusted := []string{"intranet.corp.example", "wiki.corp.example"}
	blocked := []string{"evil.example"}
	updated, err := svc.Update(ctx, userID, &models.SettingsUpdate{
		TrustedDomains: &trusted,
		BlockedDomains: &blocked,
	})
	require.NoError(t, err)
	require.Equal(t, trusted, updated.TrustedDomains)
	require.Equal(t, blocked, updated.BlockedDomains)

	// Clearing with an empty slice is distinct from leaving nil.
	empty := []string{}
	updated, err = svc.Update(ctx, userID, &models.SettingsUpdate{TrustedDomains: &empty})
	require.NoError(t, err)
	require.Empty(t, updated.TrustedDomains)
	require.Equal(t, blocked, updated.BlockedDomains)
}

func TestSettingsDisableProtection(t *testing.T) {
	svc := NewSettingsService(nil, nil, logger.Nop())
	ctx := context.Background()
	userID := uuid.New()

	off := false
	updated, err := svc.Update(ctx, userID, &models.SettingsUpdate{ProtectionEnabled: &off})
	require.NoError(t, err)
	require.False(t, updated.ProtectionEnabled)

	settings, err := svc.Get(ctx, userID)
	require.NoError(t, err)
	require.False(t, settings.ProtectionEnabled)
}

func TestSettingsIsolatedPerUser(t *testing.T) {
	svc := NewSettingsService(nil, nil, logger.Nop())
	ctx := context.Background()

	off := false
	_, err := svc.Update(ctx, uuid.New(), &models.SettingsUpdate{ProtectionEnabled: &off})
	require.NoError(t, err)

	other, err := svc.Get(ctx, uuid.New())
	require.NoError(t, err)
	require.True(t, other.ProtectionEnabled)
}
