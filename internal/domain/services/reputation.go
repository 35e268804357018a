package services

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"linkshield/internal/config"
	"linkshield/internal/domain/models"
	"linkshield/internal/infrastructure/cache"
	"linkshield/pkg/logger"
)

// ReputationClient looks up a URL against an external reputation service.
type ReputationClient interface {
	CheckURL(ctx context.Context, url string) (*models.ReputationVerdict, error)
}

// HTTPReputationClient is a thin JSON client for a remote reputation API,
// with response caching and fixed-interval rate limiting. One upstream call
// at most every MinInterval; concurrent callers queue on the limiter.
type HTTPReputationClient struct {
	cfg        config.ReputationConfig
	httpClient *http.Client
	cache      *cache.RedisCache
	logger     *logger.Logger

	mu       sync.Mutex
	lastCall time.Time
}

// NewHTTPReputationClient creates a reputation client. The cache may be nil;
// lookups then always hit the upstream.
func NewHTTPReputationClient(cfg config.ReputationConfig, c *cache.RedisCache, log *logger.Logger) *HTTPReputationClient {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	if cfg.MinInterval == 0 {
		cfg.MinInterval = time.Second
	}

	return &HTTPReputationClient{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: timeout},
		cache:      c,
		logger:     log.WithComponent("reputation"),
	}
}

type reputationRequest struct {
	URL    string `json:"url"`
	Client string `json:"client"`
}

type reputationResponse struct {
	Malicious bool     `json:"malicious"`
	Score     int      `json:"score"`
	Reasons   []string `json:"reasons"`
	Category  string   `json:"category"`
}

// CheckURL queries the remote service for one URL.
func (c *HTTPReputationClient) CheckURL(ctx context.Context, url string) (*models.ReputationVerdict, error) {
	if c.cfg.APIURL == "" {
		return nil, fmt.Errorf("reputation API URL not configured")
	}

	cacheKey := cache.KeyReputationPrefix + hashKey(url)
	if c.cache != nil {
		var cached models.ReputationVerdict
		if err := c.cache.GetJSON(ctx, cacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	if err := c.waitTurn(ctx); err != nil {
		return nil, err
	}

	body, err := json.Marshal(reputationRequest{URL: url, Client: "linkshield"})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.APIURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API returned status %d", resp.StatusCode)
	}

	var apiResp reputationResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	verdict := &models.ReputationVerdict{
		URL:       url,
		Malicious: apiResp.Malicious,
		RiskScore: clampScore(apiResp.Score),
		Reasons:   apiResp.Reasons,
		Category:  apiResp.Category,
	}

	if c.cache != nil {
		ttl := 5 * time.Minute
		if verdict.Malicious {
			ttl = time.Hour
		}
		_ = c.cache.SetJSON(ctx, cacheKey, verdict, ttl)
	}

	c.logger.Debug().
		Str("url", url).
		Bool("malicious", verdict.Malicious).
		Int("score", verdict.RiskScore).
		Msg("reputation check completed")

	return verdict, nil
}

// waitTurn enforces the fixed minimum interval between upstream calls.
// Another caller may claim the slot while this one sleeps, so the interval
// is rechecked after every wakeup until it actually holds.
func (c *HTTPReputationClient) waitTurn(ctx context.Context) error {
	c.mu.Lock()
	for {
		wait := c.cfg.MinInterval - time.Since(c.lastCall)
		if wait <= 0 {
			break
		}
		c.mu.Unlock()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
		c.mu.Lock()
	}
	c.lastCall = time.Now()
	c.mu.Unlock()
	return nil
}

func hashKey(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:8])
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// MockReputationClient is a map-backed implementation for tests.
type MockReputationClient struct {
	Verdicts map[string]*models.ReputationVerdict
}

// NewMockReputationClient creates an empty mock.
func NewMockReputationClient() *MockReputationClient {
	return &MockReputationClient{Verdicts: map[string]*models.ReputationVerdict{}}
}

// CheckURL implements ReputationClient.
func (m *MockReputationClient) CheckURL(_ context.Context, url string) (*models.ReputationVerdict, error) {
	if v, ok := m.Verdicts[url]; ok {
		return v, nil
	}
	return &models.ReputationVerdict{URL: url}, nil
}
