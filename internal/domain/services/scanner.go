package services

import (
	"context"
	"sync"
	"time"

	"linkshield/internal/config"
	"linkshield/internal/detection/typosquat"
	"linkshield/internal/domain/models"
	"linkshield/internal/infrastructure/cache"
	"linkshield/internal/infrastructure/database/repository"
	"linkshield/pkg/logger"
)

// ScanService runs the typosquat engine over URLs, merges in remote
// reputation verdicts, and decides which links the extension should
// highlight. The engine does the analysis; this service does all the I/O
// around it: caching, persistence, counters.
type ScanService struct {
	engine     *typosquat.Engine
	reputation ReputationClient
	cache      *cache.RedisCache
	repos      *repository.Repositories
	cfg        config.ScannerConfig
	logger     *logger.Logger
}

// NewScanService creates a scan service. Reputation client, cache and
// repositories may each be nil; the service degrades to engine-only
// verdicts.
func NewScanService(
	engine *typosquat.Engine,
	reputation ReputationClient,
	c *cache.RedisCache,
	repos *repository.Repositories,
	cfg config.ScannerConfig,
	log *logger.Logger,
) *ScanService {
	if cfg.HighlightThreshold == 0 {
		cfg.HighlightThreshold = 70
	}
	if cfg.MaxBatchSize == 0 {
		cfg.MaxBatchSize = 200
	}
	if cfg.Concurrency == 0 {
		cfg.Concurrency = 8
	}
	if cfg.SafeCacheTTL == 0 {
		cfg.SafeCacheTTL = 5 * time.Minute
	}
	if cfg.FlaggedCacheTTL == 0 {
		cfg.FlaggedCacheTTL = time.Hour
	}

	return &ScanService{
		engine:     engine,
		reputation: reputation,
		cache:      c,
		repos:      repos,
		cfg:        cfg,
		logger:     log.WithComponent("scanner"),
	}
}

// CheckURL produces the merged verdict for a single URL.
func (s *ScanService) CheckURL(ctx context.Context, req *models.ScanRequest) (*models.Verdict, error) {
	cacheKey := cache.KeyVerdictPrefix + hashKey(req.URL)
	if s.cache != nil {
		var cached models.Verdict
		if err := s.cache.GetJSON(ctx, cacheKey, &cached); err == nil {
			cached.CacheHit = true
			return &cached, nil
		}
	}

	verdict := &models.Verdict{
		Result:    s.engine.Analyze(req.URL),
		CheckedAt: time.Now(),
	}
	if verdict.Suspicious {
		verdict.Sources = append(verdict.Sources, "engine")
	}

	s.mergeReputation(ctx, verdict)

	verdict.Highlight = verdict.RiskScore >= s.cfg.HighlightThreshold

	s.record(ctx, req, verdict)
	s.cacheVerdict(ctx, cacheKey, verdict)

	s.logger.Debug().
		Str("url", req.URL).
		Bool("suspicious", verdict.Suspicious).
		Int("score", verdict.RiskScore).
		Str("brand", verdict.MatchedBrand).
		Msg("URL checked")

	return verdict, nil
}

// ScanPage analyzes every URL found on a page with bounded fan-out. Result
// order matches input order; the engine places no ordering requirement on
// the concurrent calls themselves.
func (s *ScanService) ScanPage(ctx context.Context, req *models.PageScanRequest) (*models.PageScanResponse, error) {
	urls := req.URLs
	if len(urls) > s.cfg.MaxBatchSize {
		s.logger.Warn().
			Int("count", len(urls)).
			Int("max", s.cfg.MaxBatchSize).
			Msg("page scan truncated to batch limit")
		urls = urls[:s.cfg.MaxBatchSize]
	}

	response := &models.PageScanResponse{
		PageURL:    req.PageURL,
		Results:    make([]models.Verdict, len(urls)),
		TotalCount: len(urls),
		CheckedAt:  time.Now(),
	}

	var wg sync.WaitGroup
	sem := make(chan struct{}, s.cfg.Concurrency)

	for i, u := range urls {
		wg.Add(1)
		go func(i int, u string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			verdict, err := s.CheckURL(ctx, &models.ScanRequest{
				URL:      u,
				DeviceID: req.DeviceID,
				Source:   "browser",
			})
			if err != nil {
				s.logger.Warn().Err(err).Str("url", u).Msg("failed to check URL")
				verdict = &models.Verdict{
					Result:    typosquat.Result{URL: u},
					CheckedAt: time.Now(),
				}
			}
			response.Results[i] = *verdict
		}(i, u)
	}
	wg.Wait()

	for _, v := range response.Results {
		if v.Suspicious {
			response.SuspiciousCount++
		}
	}

	return response, nil
}

// mergeReputation folds the remote verdict into the engine verdict: the
// higher risk score wins, reasons concatenate.
func (s *ScanService) mergeReputation(ctx context.Context, verdict *models.Verdict) {
	if s.reputation == nil {
		return
	}

	remote, err := s.reputation.CheckURL(ctx, verdict.URL)
	if err != nil {
		s.logger.Debug().Err(err).Str("url", verdict.URL).Msg("reputation lookup failed")
		return
	}
	if remote == nil || (!remote.Malicious && remote.RiskScore == 0) {
		return
	}

	if remote.RiskScore > verdict.RiskScore {
		verdict.RiskScore = remote.RiskScore
	}
	verdict.Reasons = append(verdict.Reasons, remote.Reasons...)
	if remote.Malicious {
		verdict.Suspicious = true
		if len(remote.Reasons) == 0 {
			verdict.Reasons = append(verdict.Reasons, "flagged by reputation service")
		}
	}
	verdict.Sources = append(verdict.Sources, "reputation")
}

// record bumps counters and persists flagged verdicts.
func (s *ScanService) record(ctx context.Context, req *models.ScanRequest, verdict *models.Verdict) {
	if s.cache != nil {
		s.cache.IncrStat(ctx, cache.KeyStatsScans)
		if verdict.Suspicious {
			s.cache.IncrStat(ctx, cache.KeyStatsSuspicious)
		}
		if verdict.Highlight {
			s.cache.IncrStat(ctx, cache.KeyStatsHighlighted)
		}
	}

	if s.repos != nil && verdict.Suspicious {
		_, err := s.repos.Reports.Create(ctx, &models.ScanReport{
			URL:          verdict.URL,
			RiskScore:    verdict.RiskScore,
			MatchedBrand: verdict.MatchedBrand,
			Reasons:      verdict.Reasons,
			Source:       req.Source,
		})
		if err != nil {
			s.logger.Warn().Err(err).Str("url", verdict.URL).Msg("failed to persist scan report")
		}
	}
}

func (s *ScanService) cacheVerdict(ctx context.Context, key string, verdict *models.Verdict) {
	if s.cache == nil {
		return
	}
	ttl := s.cfg.SafeCacheTTL
	if verdict.Suspicious {
		ttl = s.cfg.FlaggedCacheTTL
	}
	_ = s.cache.SetJSON(ctx, key, verdict, ttl)
}

// Stats returns the scan counters.
func (s *ScanService) Stats(ctx context.Context) *models.ScanStats {
	stats := &models.ScanStats{}
	if s.cache == nil {
		return stats
	}
	stats.TotalScans = s.cache.GetStat(ctx, cache.KeyStatsScans)
	stats.SuspiciousHits = s.cache.GetStat(ctx, cache.KeyStatsSuspicious)
	stats.HighlightedHits = s.cache.GetStat(ctx, cache.KeyStatsHighlighted)
	return stats
}
