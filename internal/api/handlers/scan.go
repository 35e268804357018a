package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"linkshield/internal/domain/models"
	"linkshield/internal/domain/services"
	"linkshield/pkg/logger"
)

// ScanHandler handles URL and page scan requests
type ScanHandler struct {
	scanner    *services.ScanService
	reputation services.ReputationClient
	logger     *logger.Logger
}

// NewScanHandler creates a new scan handler
func NewScanHandler(scanner *services.ScanService, reputation services.ReputationClient, log *logger.Logger) *ScanHandler {
	return &ScanHandler{
		scanner:    scanner,
		reputation: reputation,
		logger:     log.WithComponent("scan-handler"),
	}
}

// ScanPage handles POST /api/v1/scan
func (h *ScanHandler) ScanPage(w http.ResponseWriter, r *http.Request) {
	var req models.PageScanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if len(req.URLs) == 0 {
		h.respondError(w, http.StatusBadRequest, "urls array is required")
		return
	}

	result, err := h.scanner.ScanPage(r.Context(), &req)
	if err != nil {
		h.logger.Error().Err(err).Int("count", len(req.URLs)).Msg("failed to scan page")
		h.respondError(w, http.StatusInternalServerError, "failed to scan page")
		return
	}

	h.respondJSON(w, http.StatusOK, result)
}

// CheckURL handles POST /api/v1/scan/url
func (h *ScanHandler) CheckURL(w http.ResponseWriter, r *http.Request) {
	var req models.ScanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.URL == "" {
		h.respondError(w, http.StatusBadRequest, "url is required")
		return
	}

	result, err := h.scanner.CheckURL(r.Context(), &req)
	if err != nil {
		h.logger.Error().Err(err).Str("url", req.URL).Msg("failed to check URL")
		h.respondError(w, http.StatusInternalServerError, "failed to check URL")
		return
	}

	h.respondJSON(w, http.StatusOK, result)
}

// GetReputation handles GET /api/v1/scan/reputation/{domain}
func (h *ScanHandler) GetReputation(w http.ResponseWriter, r *http.Request) {
	domain := chi.URLParam(r, "domain")
	if domain == "" {
		h.respondError(w, http.StatusBadRequest, "domain is required")
		return
	}

	if h.reputation == nil {
		h.respondError(w, http.StatusServiceUnavailable, "reputation service not configured")
		return
	}

	verdict, err := h.reputation.CheckURL(r.Context(), "https://"+domain)
	if err != nil {
		h.logger.Error().Err(err).Str("domain", domain).Msg("failed to get domain reputation")
		h.respondError(w, http.StatusBadGateway, "failed to get reputation")
		return
	}

	h.respondJSON(w, http.StatusOK, verdict)
}

func (h *ScanHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (h *ScanHandler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}
