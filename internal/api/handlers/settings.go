package handlers

import (
	"encoding/json"
	"net/http"

	"linkshield/internal/api/middleware"
	"linkshield/internal/domain/models"
	"linkshield/internal/domain/services"
	"linkshield/pkg/logger"
)

// SettingsHandler handles per-user settings endpoints
type SettingsHandler struct {
	settings *services.SettingsService
	logger   *logger.Logger
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(settings *services.SettingsService, log *logger.Logger) *SettingsHandler {
	return &SettingsHandler{
		settings: settings,
		logger:   log.WithComponent("settings-handler"),
	}
}

// Get handles GET /api/v1/settings
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	settings, err := h.settings.Get(r.Context(), userID)
	if err != nil {
		h.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to get settings")
		h.respondError(w, http.StatusInternalServerError, "failed to get settings")
		return
	}

	h.respondJSON(w, http.StatusOK, settings)
}

// Update handles PUT /api/v1/settings
func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var update models.SettingsUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	settings, err := h.settings.Update(r.Context(), userID, &update)
	if err != nil {
		h.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to update settings")
		h.respondError(w, http.StatusInternalServerError, "failed to update settings")
		return
	}

	h.respondJSON(w, http.StatusOK, settings)
}

func (h *SettingsHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (h *SettingsHandler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}
