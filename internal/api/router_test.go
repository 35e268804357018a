package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"linkshield/internal/api/handlers"
	"linkshield/internal/config"
	"linkshield/internal/detection/typosquat"
	"linkshield/internal/domain/models"
	"linkshield/internal/domain/services"
	"linkshield/pkg/logger"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	cfg := config.Default()
	cfg.RateLimit.Enabled = false

	log := logger.Nop()
	engine := typosquat.NewDefaultEngine()
	scanner := services.NewScanService(engine, nil, nil, nil, cfg.Scanner, log)
	settings := services.NewSettingsService(nil, nil, log)
	auth := services.NewAuthService(nil, nil, cfg.Auth, log)

	h := handlers.NewHandlers(handlers.Dependencies{
		Scanner:  scanner,
		Settings: settings,
		Auth:     auth,
		Logger:   log,
	})

	router := NewRouter(*cfg, h, auth, nil, log)
	server := httptest.NewServer(router.Setup())
	t.Cleanup(server.Close)
	return server
}

func postJSON(t *testing.T, url, token string, body interface{}) *http.Response {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(payload))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func TestHealthEndpoint(t *testing.T) {
	server := newTestServer(t)

	resp, err := http.Get(server.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var health struct {
		Status string `json:"status"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
	require.Equal(t, "healthy", health.Status)
}

func TestScanURLEndpoint(t *testing.T) {
	server := newTestServer(t)

	resp := postJSON(t, server.URL+"/api/v1/scan/url", "", models.ScanRequest{URL: "https://g00gle.com/login"})
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var verdict models.Verdict
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&verdict))
	require.True(t, verdict.Suspicious)
	require.GreaterOrEqual(t, verdict.RiskScore, 90)
	require.Equal(t, "google", verdict.MatchedBrand)
	require.True(t, verdict.Highlight)
}

func TestScanURLRequiresURL(t *testing.T) {
	server := newTestServer(t)

	resp := postJSON(t, server.URL+"/api/v1/scan/url", "", models.ScanRequest{})
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestScanPageEndpoint(t *testing.T) {
	server := newTestServer(t)

	resp := postJSON(t, server.URL+"/api/v1/scan", "", models.PageScanRequest{
		PageURL: "https://forum.example",
		URLs:    []string{"https://google.com", "https://paypal.com.evil.com"},
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var page models.PageScanResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&page))
	require.Equal(t, 2, page.TotalCount)
	require.Equal(t, 1, page.SuspiciousCount)
	require.False(t, page.Results[0].Suspicious)
	require.True(t, page.Results[1].Suspicious)
}

func TestSettingsRequireAuth(t *testing.T) {
	server := newTestServer(t)

	resp, err := http.Get(server.URL + "/api/v1/settings")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthAndSettingsFlow(t *testing.T) {
	server := newTestServer(t)

	// Register
	resp := postJSON(t, server.URL+"/api/v1/auth/register", "", models.RegisterRequest{
		Email:    "frank@example.com",
		Password: "correct horse battery staple",
	})
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// Login
	resp = postJSON(t, server.URL+"/api/v1/auth/login", "", models.LoginRequest{
		Email:    "frank@example.com",
		Password: "correct horse battery staple",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var session models.Session
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&session))
	resp.Body.Close()
	require.NotEmpty(t, session.Token)

	// Read settings with the token
	req, err := http.NewRequest(http.MethodGet, server.URL+"/api/v1/settings", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+session.Token)
	getResp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, getResp.StatusCode)

	var settings models.Settings
	require.NoError(t, json.NewDecoder(getResp.Body).Decode(&settings))
	getResp.Body.Close()
	require.Equal(t, session.UserID, settings.UserID)
	require.Equal(t, 70, settings.HighlightThreshold)

	// Update the threshold
	threshold := 90
	payload, err := json.Marshal(models.SettingsUpdate{HighlightThreshold: &threshold})
	require.NoError(t, err)
	putReq, err := http.NewRequest(http.MethodPut, server.URL+"/api/v1/settings", bytes.NewReader(payload))
	require.NoError(t, err)
	putReq.Header.Set("Content-Type", "application/json")
	putReq.Header.Set("Authorization", "Bearer "+session.Token)
	putResp, err := http.DefaultClient.Do(putReq)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, putResp.StatusCode)

	var updated models.Settings
	require.NoError(t, json.NewDecoder(putResp.Body).Decode(&updated))
	putResp.Body.Close()
	require.Equal(t, 90, updated.HighlightThreshold)

	// Logout kills the session
	resp = postJSON(t, server.URL+"/api/v1/auth/logout", session.Token, nil)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	req, err = http.NewRequest(http.MethodGet, server.URL+"/api/v1/settings", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+session.Token)
	afterResp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	afterResp.Body.Close()
	require.Equal(t, http.StatusUnauthorized, afterResp.StatusCode)
}

func TestLoginRejectsBadPassword(t *testing.T) {
	server := newTestServer(t)

	resp := postJSON(t, server.URL+"/api/v1/auth/register", "", models.RegisterRequest{
		Email:    "grace@example.com",
		Password: "correct horse battery staple",
	})
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = postJSON(t, server.URL+"/api/v1/auth/login", "", models.LoginRequest{
		Email:    "grace@example.com",
		Password: "not the password",
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRegisterRejectsWeakPassword(t *testing.T) {
	server := newTestServer(t)

	resp := postJSON(t, server.URL+"/api/v1/auth/register", "", models.RegisterRequest{
		Email:    "heidi@example.com",
		Password: "12345",
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestStatsEndpoint(t *testing.T) {
	server := newTestServer(t)

	resp, err := http.Get(server.URL + "/api/v1/stats")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var stats map[string]int64
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&stats))
	require.Contains(t, stats, "total_scans")
}
