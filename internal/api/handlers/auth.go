package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"linkshield/internal/api/middleware"
	"linkshield/internal/domain/models"
	"linkshield/internal/domain/services"
	"linkshield/pkg/logger"
)

// AuthHandler handles registration, login and logout
type AuthHandler struct {
	auth   *services.AuthService
	logger *logger.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(auth *services.AuthService, log *logger.Logger) *AuthHandler {
	return &AuthHandler{
		auth:   auth,
		logger: log.WithComponent("auth-handler"),
	}
}

// Register handles POST /api/v1/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.auth.Register(r.Context(), &req)
	switch {
	case errors.Is(err, services.ErrWeakPassword):
		h.respondError(w, http.StatusUnprocessableEntity, "password is too weak")
		return
	case errors.Is(err, services.ErrEmailTaken):
		h.respondError(w, http.StatusConflict, "email already registered")
		return
	case err != nil:
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.respondJSON(w, http.StatusCreated, user)
}

// Login handles POST /api/v1/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	session, err := h.auth.Login(r.Context(), &req)
	if errors.Is(err, services.ErrInvalidCredentials) {
		h.respondError(w, http.StatusUnauthorized, "invalid email or password")
		return
	}
	if err != nil {
		h.logger.Error().Err(err).Msg("login failed")
		h.respondError(w, http.StatusInternalServerError, "login failed")
		return
	}

	h.respondJSON(w, http.StatusOK, session)
}

// Logout handles POST /api/v1/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token := middleware.GetToken(r.Context())
	if token == "" {
		h.respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	if err := h.auth.Logout(r.Context(), token); err != nil {
		h.logger.Error().Err(err).Msg("logout failed")
		h.respondError(w, http.StatusInternalServerError, "logout failed")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

func (h *AuthHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (h *AuthHandler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}
