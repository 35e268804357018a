package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	zxcvbn "github.com/nbutton23/zxcvbn-go"
	"golang.org/x/crypto/bcrypt"

	"linkshield/internal/config"
	"linkshield/internal/domain/models"
	"linkshield/internal/infrastructure/cache"
	"linkshield/internal/infrastructure/database/repository"
	"linkshield/pkg/logger"
)

var (
	// ErrInvalidCredentials covers both unknown email and wrong password.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrWeakPassword is returned when the password fails the strength gate.
	ErrWeakPassword = errors.New("password is too weak")
	// ErrEmailTaken is returned on duplicate registration.
	ErrEmailTaken = errors.New("email already registered")
	// ErrSessionExpired is returned for unknown or expired tokens.
	ErrSessionExpired = errors.New("session expired")
)

// AuthService handles registration, login and opaque session tokens.
// Sessions live in Redis; without Redis they are kept in memory and die
// with the process.
type AuthService struct {
	repo   *repository.UserRepository
	cache  *cache.RedisCache
	cfg    config.AuthConfig
	logger *logger.Logger

	mu       sync.RWMutex
	memUsers map[string]*models.User
	memSess  map[string]*models.Session
}

// NewAuthService creates an auth service. Repo and cache may be nil.
func NewAuthService(repo *repository.UserRepository, c *cache.RedisCache, cfg config.AuthConfig, log *logger.Logger) *AuthService {
	if cfg.SessionTTL == 0 {
		cfg.SessionTTL = 24 * time.Hour
	}

	return &AuthService{
		repo:     repo,
		cache:    c,
		cfg:      cfg,
		logger:   log.WithComponent("auth"),
		memUsers: map[string]*models.User{},
		memSess:  map[string]*models.Session{},
	}
}

// Register creates an account after checking password strength.
func (s *AuthService) Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, errors.New("invalid email address")
	}

	strength := zxcvbn.PasswordStrength(req.Password, []string{email})
	if strength.Score < s.cfg.MinPasswordScore {
		return nil, ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now(),
	}

	if s.repo != nil {
		if _, err := s.repo.GetByEmail(ctx, email); err == nil {
			return nil, ErrEmailTaken
		}
		if _, err := s.repo.Create(ctx, user); err != nil {
			return nil, err
		}
	} else {
		s.mu.Lock()
		if _, exists := s.memUsers[email]; exists {
			s.mu.Unlock()
			return nil, ErrEmailTaken
		}
		s.memUsers[email] = user
		s.mu.Unlock()
	}

	s.logger.Info().Str("email", email).Msg("user registered")
	return user, nil
}

// Login verifies credentials and issues a session token.
func (s *AuthService) Login(ctx context.Context, req *models.LoginRequest) (*models.Session, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.lookupUser(ctx, email)
	if err != nil {
		// Burn comparable time so unknown emails are not distinguishable.
		_ = bcrypt.CompareHashAndPassword(
			[]byte("$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"),
			[]byte(req.Password),
		)
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	session := &models.Session{
		Token:     newToken(),
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(s.cfg.SessionTTL),
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, cache.KeySessionPrefix+session.Token, session, s.cfg.SessionTTL); err != nil {
			return nil, err
		}
	} else {
		s.mu.Lock()
		s.memSess[session.Token] = session
		s.mu.Unlock()
	}

	if s.repo != nil {
		if err := s.repo.TouchLogin(ctx, user.ID); err != nil {
			s.logger.Warn().Err(err).Str("email", email).Msg("failed to record login time")
		}
	}

	s.logger.Info().Str("email", email).Msg("user logged in")
	return session, nil
}

// Logout invalidates a session token. Unknown tokens are not an error.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if s.cache != nil {
		return s.cache.Delete(ctx, cache.KeySessionPrefix+token)
	}
	s.mu.Lock()
	delete(s.memSess, token)
	s.mu.Unlock()
	return nil
}

// ValidateSession resolves a token to its session.
func (s *AuthService) ValidateSession(ctx context.Context, token string) (*models.Session, error) {
	if token == "" {
		return nil, ErrSessionExpired
	}

	if s.cache != nil {
		var session models.Session
		if err := s.cache.GetJSON(ctx, cache.KeySessionPrefix+token, &session); err != nil {
			return nil, ErrSessionExpired
		}
		return &session, nil
	}

	s.mu.RLock()
	session, ok := s.memSess[token]
	s.mu.RUnlock()
	if !ok || time.Now().After(session.ExpiresAt) {
		return nil, ErrSessionExpired
	}
	return session, nil
}

func (s *AuthService) lookupUser(ctx context.Context, email string) (*models.User, error) {
	if s.repo != nil {
		return s.repo.GetByEmail(ctx, email)
	}
	s.mu.RLock()
	user, ok := s.memUsers[email]
	s.mu.RUnlock()
	if !ok {
		return nil, repository.ErrNotFound
	}
	return user, nil
}

func newToken() string {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return uuid.NewString()
	}
	return hex.EncodeToString(buf)
}
