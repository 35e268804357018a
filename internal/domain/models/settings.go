package models

import (
	"time"

	"github.com/google/uuid"
)

// Settings holds per-user protection preferences. The detection engine
// itself never reads these; the scan service applies them around it.
type Settings struct {
	UserID             uuid.UUID `json:"user_id"`
	ProtectionEnabled  bool      `json:"protection_enabled"`
	HighlightThreshold int       `json:"highlight_threshold"`
	UseReputation      bool      `json:"use_reputation"`
	TrustedDomains     []string  `json:"trusted_domains,omitempty"`
	BlockedDomains     []string  `json:"blocked_domains,omitempty"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// DefaultSettings returns the settings a fresh user starts with.
func DefaultSettings(userID uuid.UUID) Settings {
	return Settings{
		UserID:             userID,
		ProtectionEnabled:  true,
		HighlightThreshold: 70,
		UseReputation:      true,
		UpdatedAt:          time.Now(),
	}
}

// SettingsUpdate is a partial update; nil fields keep their current value.
type SettingsUpdate struct {
	ProtectionEnabled  *bool     `json:"protection_enabled,omitempty"`
	HighlightThreshold *int      `json:"highlight_threshold,omitempty"`
	UseReputation      *bool     `json:"use_reputation,omitempty"`
	TrustedDomains     *[]string `json:"trusted_domains,omitempty"`
	BlockedDomains     *[]string `json:"blocked_domains,omitempty"`
}
