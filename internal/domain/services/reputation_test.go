package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"linkshield/internal/config"
	"linkshield/pkg/logger"
)

func TestHTTPReputationClientCheckURL(t *testing.T) {
	var calls int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&calls, 1)
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		var req reputationRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "linkshield", req.Client)

		json.NewEncoder(w).Encode(reputationResponse{
			Malicious: true,
			Score:     85,
			Reasons:   []string{"listed"},
			Category:  "phishing",
		})
	}))
	defer server.Close()

	client := NewHTTPReputationClient(config.ReputationConfig{
		Enabled:     true,
		APIURL:      server.URL,
		APIKey:      "secret",
		MinInterval: time.Millisecond,
	}, nil, logger.Nop())

	verdict, err := client.CheckURL(context.Background(), "https://evil.example")
	require.NoError(t, err)
	require.True(t, verdict.Malicious)
	require.Equal(t, 85, verdict.RiskScore)
	require.Equal(t, []string{"listed"}, verdict.Reasons)
	require.Equal(t, "phishing", verdict.Category)
	require.EqualValues(t, 1, atomic.LoadInt64(&calls))
}

func TestHTTPReputationClientClampsScore(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(reputationResponse{Malicious: true, Score: 250})
	}))
	defer server.Close()

	client := NewHTTPReputationClient(config.ReputationConfig{
		APIURL:      server.URL,
		MinInterval: time.Millisecond,
	}, nil, logger.Nop())

	verdict, err := client.CheckURL(context.Background(), "https://evil.example")
	require.NoError(t, err)
	require.Equal(t, 100, verdict.RiskScore)
}

func TestHTTPReputationClientUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewHTTPReputationClient(config.ReputationConfig{
		APIURL:      server.URL,
		MinInterval: time.Millisecond,
	}, nil, logger.Nop())

	_, err := client.CheckURL(context.Background(), "https://evil.example")
	require.Error(t, err)
	require.Contains(t, err.Error(), "502")
}

func TestHTTPReputationClientNoURLConfigured(t *testing.T) {
	client := NewHTTPReputationClient(config.ReputationConfig{}, nil, logger.Nop())

	_, err := client.CheckURL(context.Background(), "https://evil.example")
	require.Error(t, err)
}

func TestHTTPReputationClientRateLimitInterval(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(reputationResponse{})
	}))
	defer server.Close()

	interval := 100 * time.Millisecond
	client := NewHTTPReputationClient(config.ReputationConfig{
		APIURL:      server.URL,
		MinInterval: interval,
	}, nil, logger.Nop())

	ctx := context.Background()
	_, err := client.CheckURL(ctx, "https://one.example")
	require.NoError(t, err)

	// The first call stamps the limiter just before its HTTP round trip, so
	// measure with a small allowance for that latency.
	start := time.Now()
	_, err = client.CheckURL(ctx, "https://two.example")
	require.NoError(t, err)
	require.GreaterOrEqual(t, time.Since(start), interval-20*time.Millisecond)
}

func TestHTTPReputationClientRateLimitConcurrentCallers(t *testing.T) {
	var (
		mu    sync.Mutex
		calls []time.Time
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		calls = append(calls, time.Now())
		mu.Unlock()
		json.NewEncoder(w).Encode(reputationResponse{})
	}))
	defer server.Close()

	interval := 100 * time.Millisecond
	client := NewHTTPReputationClient(config.ReputationConfig{
		APIURL:      server.URL,
		MinInterval: interval,
	}, nil, logger.Nop())

	ctx := context.Background()
	_, err := client.CheckURL(ctx, "https://seed.example")
	require.NoError(t, err)

	// Queue several callers at once; all sleep on the limiter together and
	// each must still claim its own interval slot when it wakes.
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := client.CheckURL(ctx, fmt.Sprintf("https://site-%d.example", i))
			require.NoError(t, err)
		}(i)
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, calls, 5)
	for i := 1; i < len(calls); i++ {
		gap := calls[i].Sub(calls[i-1])
		require.GreaterOrEqual(t, gap, interval-20*time.Millisecond,
			"gap between call %d and %d", i-1, i)
	}
}

func TestHTTPReputationClientHonorsContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(reputationResponse{})
	}))
	defer server.Close()

	client := NewHTTPReputationClient(config.ReputationConfig{
		APIURL:      server.URL,
		MinInterval: time.Minute,
	}, nil, logger.Nop())

	// First call sets lastCall; the second must wait a minute, so the
	// context cancellation has to win.
	_, err := client.CheckURL(context.Background(), "https://one.example")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = client.CheckURL(ctx, "https://two.example")
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestMockReputationClient(t *testing.T) {
	mock := NewMockReputationClient()
	verdict, err := mock.CheckURL(context.Background(), "https://unknown.example")
	require.NoError(t, err)
	require.False(t, verdict.Malicious)
	require.Zero(t, verdict.RiskScore)
}
