package models

import (
	"time"

	"github.com/google/uuid"
)

// User is an account on the service. PasswordHash never leaves the server.
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	LastLoginAt  time.Time `json:"last_login_at,omitempty"`
}

// RegisterRequest creates a new account.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the credential gate input.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Session is an opaque bearer token with an expiry, stored server-side.
type Session struct {
	Token     string    `json:"token"`
	UserID    uuid.UUID `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ScanReport is a persisted flagged verdict, kept for history and stats.
type ScanReport struct {
	ID           uuid.UUID `json:"id"`
	URL          string    `json:"url"`
	RiskScore    int       `json:"risk_score"`
	MatchedBrand string    `json:"matched_brand,omitempty"`
	Reasons      []string  `json:"reasons"`
	Source       string    `json:"source,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}
