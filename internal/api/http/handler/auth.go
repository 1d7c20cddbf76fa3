package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/unklab/lostfound-server/internal/logger"
	"github.com/unklab/lostfound-server/internal/model"
)

// AuthService defines credential verification and registration operations.
type AuthService interface {
	Login(ctx context.Context, email, password string) (model.Principal, error)
	Register(ctx context.Context, name, email, password string) (model.User, error)
	ChangePassword(ctx context.Context, userID uuid.UUID, current, next string) error
}

// TokenIssuer mints session tokens for authenticated principals.
type TokenIssuer interface {
	GenerateSessionToken(userID uuid.UUID) (string, error)
}

// PrincipalReader retrieves the request principal.
type PrincipalReader interface {
	GetPrincipal(ctx context.Context) (model.Principal, bool)
}

// Auth handles the /api/auth endpoints.
type Auth struct {
	authService AuthService
	tokens      TokenIssuer
	ctxMgr      PrincipalReader
	logger      *logger.Logger
}

// NewAuth creates a new Auth handler.
func NewAuth(authService AuthService, tokens TokenIssuer, ctxMgr PrincipalReader, logger *logger.Logger) *Auth {
	return &Auth{
		authService: authService,
		tokens:      tokens,
		ctxMgr:      ctxMgr,
		logger:      logger,
	}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// userResponse is the user projection returned by the API. The credential
// hash never leaves the server.
type userResponse struct {
	ID             uuid.UUID `json:"id"`
	Email          string    `json:"email"`
	Name           string    `json:"name"`
	ProfilePicture string    `json:"profile_picture,omitempty"`
	Role           string    `json:"role"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
}

func toUserResponse(u model.User) userResponse {
	return userResponse{
		ID:             u.ID,
		Email:          u.Email,
		Name:           u.Name,
		ProfilePicture: u.ProfilePicture,
		Role:           string(u.Role),
		Status:         string(u.Status),
		CreatedAt:      u.CreatedAt,
	}
}

// Register creates an account with the default role and status.
func (h *Auth) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, codeInvalidRequest, "invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, codeInvalidRequest, "email and password are required")
		return
	}

	user, err := h.authService.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		h.logger.Info("Auth handler: registration failed",
			"email", req.Email,
			"error", err.Error())
		handleError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, toUserResponse(user))
}

// Login verifies credentials and returns a session token with the principal.
func (h *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, codeInvalidRequest, "invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, codeInvalidRequest, "email and password are required")
		return
	}

	principal, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		handleError(w, err)
		return
	}

	token, err := h.tokens.GenerateSessionToken(principal.ID)
	if err != nil {
		h.logger.Error("Auth handler: failed to issue session token",
			"user_id", principal.ID,
			"error", err.Error())
		handleError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, loginResponse{
		Token: token,
		User: userResponse{
			ID:     principal.ID,
			Email:  principal.Email,
			Name:   principal.Name,
			Role:   string(principal.Role),
			Status: string(principal.Status),
		},
	})
}

// ChangePassword updates the caller's own credential.
func (h *Auth) ChangePassword(w http.ResponseWriter, r *http.Request) {
	principal, ok := h.ctxMgr.GetPrincipal(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, codeInvalidCredentials, "authentication required")
		return
	}

	var req changePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, codeInvalidRequest, "invalid request body")
		return
	}

	if err := h.authService.ChangePassword(r.Context(), principal.ID, req.CurrentPassword, req.NewPassword); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Me returns the authenticated principal.
func (h *Auth) Me(w http.ResponseWriter, r *http.Request) {
	principal, ok := h.ctxMgr.GetPrincipal(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, codeInvalidCredentials, "authentication required")
		return
	}

	respondJSON(w, http.StatusOK, userResponse{
		ID:     principal.ID,
		Email:  principal.Email,
		Name:   principal.Name,
		Role:   string(principal.Role),
		Status: string(principal.Status),
	})
}
