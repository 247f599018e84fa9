package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/eventwall/eventwall/internal/handler/dto"
	"github.com/eventwall/eventwall/internal/service"
)

// AuthHandler handles the shared admin credential check.
type AuthHandler struct {
	svc    *service.CredentialService
	logger *slog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(svc *service.CredentialService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		svc:    svc,
		logger: logger,
	}
}

// Verify handles POST /api/v1/auth.
// Returns only the boolean outcome; no session or token is issued.
func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var req dto.AuthRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	ok, err := h.svc.Verify(r.Context(), req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPasswordRequired):
			h.writeError(w, http.StatusBadRequest, "PASSWORD_REQUIRED", "Password is required")
		default:
			h.logger.Error("internal_error", "error", err)
			h.writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
		}
		return
	}

	if !ok {
		h.logger.Warn("auth_denied", "request_id", r.Header.Get("X-Request-ID"))
		writeJSON(w, http.StatusUnauthorized, dto.AuthResponse{Authenticated: false})
		return
	}

	writeJSON(w, http.StatusOK, dto.AuthResponse{Authenticated: true})
}

// writeError writes an error response.
func (h *AuthHandler) writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, dto.ErrorResponse{
		Error: message,
		Code:  code,
	})
}
