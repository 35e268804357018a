package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"linkshield/internal/config"
	"linkshield/internal/detection/typosquat"
	"linkshield/internal/domain/models"
	"linkshield/pkg/logger"
)

func newTestScanService(reputation ReputationClient) *ScanService {
	return NewScanService(
		typosquat.NewDefaultEngine(),
		reputation,
		nil, // no cache
		nil, // no database
		config.ScannerConfig{},
		logger.Nop(),
	)
}

func TestCheckURLEngineOnly(t *testing.T) {
	svc := newTestScanService(nil)

	verdict, err := svc.CheckURL(context.Background(), &models.ScanRequest{URL: "https://g00gle.com/login"})
	require.NoError(t, err)
	require.True(t, verdict.Suspicious)
	require.GreaterOrEqual(t, verdict.RiskScore, 90)
	require.True(t, verdict.Highlight)
	require.Equal(t, []string{"engine"}, verdict.Sources)
	require.False(t, verdict.CacheHit)
}

func TestCheckURLCleanDomain(t *testing.T) {
	svc := newTestScanService(nil)

	verdict, err := svc.CheckURL(context.Background(), &models.ScanRequest{URL: "https://example.org"})
	require.NoError(t, err)
	require.False(t, verdict.Suspicious)
	require.Zero(t, verdict.RiskScore)
	require.False(t, verdict.Highlight)
	require.Empty(t, verdict.Sources)
}

func TestCheckURLMergesReputation(t *testing.T) {
	mock := NewMockReputationClient()
	mock.Verdicts["https://badsite.example"] = &models.ReputationVerdict{
		URL:       "https://badsite.example",
		Malicious: true,
		RiskScore: 95,
		Reasons:   []string{"known phishing campaign"},
		Category:  "phishing",
	}
	svc := newTestScanService(mock)

	verdict, err := svc.CheckURL(context.Background(), &models.ScanRequest{URL: "https://badsite.example"})
	require.NoError(t, err)
	require.True(t, verdict.Suspicious)
	require.Equal(t, 95, verdict.RiskScore)
	require.Contains(t, verdict.Reasons, "known phishing campaign")
	require.Contains(t, verdict.Sources, "reputation")
	require.True(t, verdict.Highlight)
}

func TestCheckURLReputationKeepsHigherEngineScore(t *testing.T) {
	mock := NewMockReputationClient()
	mock.Verdicts["https://g00gle.com"] = &models.ReputationVerdict{
		URL:       "https://g00gle.com",
		Malicious: true,
		RiskScore: 40,
		Reasons:   []string{"low confidence listing"},
	}
	svc := newTestScanService(mock)

	verdict, err := svc.CheckURL(context.Background(), &models.ScanRequest{URL: "https://g00gle.com"})
	require.NoError(t, err)
	// Engine scored at least 90; the weaker remote score must not pull it down.
	require.GreaterOrEqual(t, verdict.RiskScore, 90)
	require.Contains(t, verdict.Reasons, "low confidence listing")
	require.ElementsMatch(t, []string{"engine", "reputation"}, verdict.Sources)
}

func TestScanPagePreservesOrder(t *testing.T) {
	svc := newTestScanService(nil)

	urls := []string{
		"https://google.com",
		"https://g00gle.com",
		"https://example.org",
		"https://paypal.com.evil.com",
	}
	resp, err := svc.ScanPage(context.Background(), &models.PageScanRequest{
		PageURL: "https://forum.example/thread/42",
		URLs:    urls,
	})
	require.NoError(t, err)
	require.Len(t, resp.Results, len(urls))
	require.Equal(t, len(urls), resp.TotalCount)
	require.Equal(t, 2, resp.SuspiciousCount)

	for i, u := range urls {
		require.Equal(t, u, resp.Results[i].URL)
	}
	require.False(t, resp.Results[0].Suspicious)
	require.True(t, resp.Results[1].Suspicious)
	require.False(t, resp.Results[2].Suspicious)
	require.True(t, resp.Results[3].Suspicious)
}

func TestScanPageTruncatesOversizeBatch(t *testing.T) {
	svc := NewScanService(
		typosquat.NewDefaultEngine(),
		nil, nil, nil,
		config.ScannerConfig{MaxBatchSize: 3, Concurrency: 2},
		logger.Nop(),
	)

	urls := []string{"https://a.example", "https://b.example", "https://c.example", "https://d.example"}
	resp, err := svc.ScanPage(context.Background(), &models.PageScanRequest{URLs: urls})
	require.NoError(t, err)
	require.Len(t, resp.Results, 3)
	require.Equal(t, 3, resp.TotalCount)
}

func TestScanPageEmpty(t *testing.T) {
	svc := newTestScanService(nil)

	resp, err := svc.ScanPage(context.Background(), &models.PageScanRequest{URLs: nil})
	require.NoError(t, err)
	require.Empty(t, resp.Results)
	require.Zero(t, resp.SuspiciousCount)
}

func TestStatsWithoutCache(t *testing.T) {
	svc := newTestScanService(nil)

	stats := svc.Stats(context.Background())
	require.NotNil(t, stats)
	require.Zero(t, stats.TotalScans)
}
