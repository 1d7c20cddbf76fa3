package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/unklab/lostfound-server/internal/model"
)

// errorResponse is the JSON error shape shared by all endpoints.
type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Error codes surfaced to the SPA.
const (
	codeInvalidCredentials = "INVALID_CREDENTIALS"
	codeAccountBlocked     = "ACCOUNT_BLOCKED"
	codeEmailTaken         = "EMAIL_TAKEN"
	codeInvalidToken       = "INVALID_TOKEN"
	codeTokenUsed          = "TOKEN_USED"
	codeTokenExpired       = "TOKEN_EXPIRED"
	codeWeakPassword       = "WEAK_PASSWORD"
	codeUserNotFound       = "USER_NOT_FOUND"
	codeNotFound           = "NOT_FOUND"
	codeStoreUnavailable   = "STORE_UNAVAILABLE"
	codeInvalidRequest     = "INVALID_REQUEST"
	codeInternal           = "INTERNAL_ERROR"
)

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		json.NewEncoder(w).Encode(body)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, errorResponse{Error: code, Message: message})
}

// handleError maps the typed failure taxonomy onto HTTP statuses. Anything
// unrecognized is reported as an internal error without leaking detail.
func handleError(w http.ResponseWriter, err error) {
	var wpe *model.WeakPasswordError
	if errors.As(err, &wpe) {
		respondError(w, http.StatusBadRequest, codeWeakPassword, wpe.Rule)
		return
	}

	switch {
	case errors.Is(err, model.ErrInvalidCredentials):
		respondError(w, http.StatusUnauthorized, codeInvalidCredentials, "invalid email or password")
	case errors.Is(err, model.ErrAccountBlocked):
		respondError(w, http.StatusForbidden, codeAccountBlocked, "your account has been blocked, please contact the administrator")
	case errors.Is(err, model.ErrEmailTaken):
		respondError(w, http.StatusConflict, codeEmailTaken, "email already registered")
	case errors.Is(err, model.ErrInvalidToken):
		respondError(w, http.StatusGone, codeInvalidToken, "reset link is invalid")
	case errors.Is(err, model.ErrTokenUsed):
		respondError(w, http.StatusGone, codeTokenUsed, "reset link has already been used")
	case errors.Is(err, model.ErrTokenExpired):
		respondError(w, http.StatusGone, codeTokenExpired, "reset link has expired")
	case errors.Is(err, model.ErrUserNotFound):
		respondError(w, http.StatusNotFound, codeUserNotFound, "user not found")
	case errors.Is(err, model.ErrNotFound):
		respondError(w, http.StatusNotFound, codeNotFound, "not found")
	case errors.Is(err, model.ErrStoreUnavailable):
		respondError(w, http.StatusServiceUnavailable, codeStoreUnavailable, "storage temporarily unavailable")
	default:
		respondError(w, http.StatusInternalServerError, codeInternal, "internal server error")
	}
}
