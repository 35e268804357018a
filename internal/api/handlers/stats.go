package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"linkshield/internal/domain/services"
	"linkshield/internal/infrastructure/database/repository"
	"linkshield/pkg/logger"
)

// StatsHandler handles statistics endpoints
type StatsHandler struct {
	scanner *services.ScanService
	repos   *repository.Repositories
	logger  *logger.Logger
}

// NewStatsHandler creates a new StatsHandler
func NewStatsHandler(scanner *services.ScanService, repos *repository.Repositories, log *logger.Logger) *StatsHandler {
	return &StatsHandler{
		scanner: scanner,
		repos:   repos,
		logger:  log.WithComponent("stats"),
	}
}

// StatsResponse combines live counters with recent report activity
type StatsResponse struct {
	TotalScans      int64 `json:"total_scans"`
	SuspiciousHits  int64 `json:"suspicious_hits"`
	HighlightedHits int64 `json:"highlighted_hits"`
	ReportsLastDay  int64 `json:"reports_last_day"`
}

// Get handles GET /api/v1/stats
func (h *StatsHandler) Get(w http.ResponseWriter, r *http.Request) {
	counters := h.scanner.Stats(r.Context())

	response := StatsResponse{
		TotalScans:      counters.TotalScans,
		SuspiciousHits:  counters.SuspiciousHits,
		HighlightedHits: counters.HighlightedHits,
	}

	if h.repos != nil {
		count, err := h.repos.Reports.CountSince(r.Context(), time.Now().Add(-24*time.Hour))
		if err != nil {
			h.logger.Warn().Err(err).Msg("failed to count recent reports")
		} else {
			response.ReportsLastDay = count
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "public, max-age=60")
	json.NewEncoder(w).Encode(response)
}
