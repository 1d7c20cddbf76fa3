package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/unklab/lostfound-server/internal/logger"
	"github.com/unklab/lostfound-server/internal/model"
)

// ResetService defines the password reset token lifecycle operations.
type ResetService interface {
	RequestReset(ctx context.Context, email string) error
	ValidateToken(ctx context.Context, token string) (model.PasswordResetToken, error)
	ResetPassword(ctx context.Context, token, newPassword string) error
}

// Reset handles the /api/password-reset endpoints.
type Reset struct {
	resetService ResetService
	logger       *logger.Logger
}

// NewReset creates a new Reset handler.
func NewReset(resetService ResetService, logger *logger.Logger) *Reset {
	return &Reset{resetService: resetService, logger: logger}
}

type requestResetRequest struct {
	Email string `json:"email"`
}

// requestResetResponse is identical whether or not the email is registered.
type requestResetResponse struct {
	Message string `json:"message"`
}

type validateTokenResponse struct {
	Valid  bool   `json:"valid"`
	Reason string `json:"reason,omitempty"`
}

type resetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

// Request accepts a reset request. The response never reveals whether the
// email is registered.
func (h *Reset) Request(w http.ResponseWriter, r *http.Request) {
	var req requestResetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, codeInvalidRequest, "invalid request body")
		return
	}
	if req.Email == "" {
		respondError(w, http.StatusBadRequest, codeInvalidRequest, "email is required")
		return
	}

	if err := h.resetService.RequestReset(r.Context(), req.Email); err != nil {
		h.logger.Error("Reset handler: reset request failed", "error", err.Error())
		handleError(w, err)
		return
	}

	respondJSON(w, http.StatusAccepted, requestResetResponse{
		Message: "If an account exists with that email, you will receive a password reset link shortly.",
	})
}

// Validate reports whether the presented token is usable. The SPA calls it
// on page load before rendering the reset form; it never consumes the token.
func (h *Reset) Validate(w http.ResponseWriter, r *http.Request) {
	tokenValue := mux.Vars(r)["token"]
	if tokenValue == "" {
		respondError(w, http.StatusBadRequest, codeInvalidRequest, "token is required")
		return
	}

	_, err := h.resetService.ValidateToken(r.Context(), tokenValue)
	switch {
	case err == nil:
		respondJSON(w, http.StatusOK, validateTokenResponse{Valid: true})
	case errors.Is(err, model.ErrInvalidToken):
		respondJSON(w, http.StatusOK, validateTokenResponse{Valid: false, Reason: "invalid"})
	case errors.Is(err, model.ErrTokenUsed):
		respondJSON(w, http.StatusOK, validateTokenResponse{Valid: false, Reason: "used"})
	case errors.Is(err, model.ErrTokenExpired):
		respondJSON(w, http.StatusOK, validateTokenResponse{Valid: false, Reason: "expired"})
	default:
		h.logger.Error("Reset handler: token validation failed", "error", err.Error())
		handleError(w, err)
	}
}

// ResetPassword consumes the token and updates the credential.
func (h *Reset) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, codeInvalidRequest, "invalid request body")
		return
	}
	if req.Token == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, codeInvalidRequest, "token and password are required")
		return
	}

	if err := h.resetService.ResetPassword(r.Context(), req.Token, req.Password); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
