package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/unklab/lostfound-server/internal/logger"
	"github.com/unklab/lostfound-server/internal/model"
)

// maxAvatarSize caps avatar uploads at 5 MiB.
const maxAvatarSize = 5 << 20

// UsersService defines profile and administrative user operations.
type UsersService interface {
	GetByID(ctx context.Context, id uuid.UUID) (model.User, error)
	List(ctx context.Context) ([]model.User, error)
	SetStatus(ctx context.Context, id uuid.UUID, status model.Status) error
	SetRole(ctx context.Context, id uuid.UUID, role model.Role) error
	UpdateName(ctx context.Context, id uuid.UUID, name string) (model.User, error)
	UploadAvatar(ctx context.Context, id uuid.UUID, reader io.Reader, size int64, contentType string) (model.User, error)
	DownloadAvatar(ctx context.Context, id uuid.UUID) (io.ReadCloser, string, error)
}

// Users handles the /api/users endpoints.
type Users struct {
	usersService UsersService
	ctxMgr       PrincipalReader
	logger       *logger.Logger
}

// NewUsers creates a new Users handler.
func NewUsers(usersService UsersService, ctxMgr PrincipalReader, logger *logger.Logger) *Users {
	return &Users{
		usersService: usersService,
		ctxMgr:       ctxMgr,
		logger:       logger,
	}
}

type updateNameRequest struct {
	Name string `json:"name"`
}

type setStatusRequest struct {
	Status string `json:"status"`
}

type setRoleRequest struct {
	Role string `json:"role"`
}

func pathID(r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// List returns every account. Admin only.
func (h *Users) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.usersService.List(r.Context())
	if err != nil {
		h.logger.Error("Users handler: list failed", "error", err.Error())
		handleError(w, err)
		return
	}

	resp := make([]userResponse, 0, len(users))
	for _, u := range users {
		resp = append(resp, toUserResponse(u))
	}

	respondJSON(w, http.StatusOK, resp)
}

// Get returns a single account. Admin only.
func (h *Users) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, codeInvalidRequest, "invalid user id")
		return
	}

	user, err := h.usersService.GetByID(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, toUserResponse(user))
}

// SetStatus blocks or unblocks an account. Admin only.
func (h *Users) SetStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, codeInvalidRequest, "invalid user id")
		return
	}

	var req setStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, codeInvalidRequest, "invalid request body")
		return
	}

	status := model.Status(req.Status)
	if status != model.StatusActive && status != model.StatusBlocked {
		respondError(w, http.StatusBadRequest, codeInvalidRequest, "status must be active or blocked")
		return
	}

	if principal, ok := h.ctxMgr.GetPrincipal(r.Context()); ok && principal.ID == id {
		respondError(w, http.StatusBadRequest, codeInvalidRequest, "cannot change your own status")
		return
	}

	if err := h.usersService.SetStatus(r.Context(), id, status); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// SetRole promotes or demotes an account. Admin only.
func (h *Users) SetRole(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, codeInvalidRequest, "invalid user id")
		return
	}

	var req setRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, codeInvalidRequest, "invalid request body")
		return
	}

	role := model.Role(req.Role)
	if role != model.RoleUser && role != model.RoleAdmin {
		respondError(w, http.StatusBadRequest, codeInvalidRequest, "role must be user or admin")
		return
	}

	if principal, ok := h.ctxMgr.GetPrincipal(r.Context()); ok && principal.ID == id {
		respondError(w, http.StatusBadRequest, codeInvalidRequest, "cannot change your own role")
		return
	}

	if err := h.usersService.SetRole(r.Context(), id, role); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// UpdateName changes the caller's display name.
func (h *Users) UpdateName(w http.ResponseWriter, r *http.Request) {
	principal, ok := h.ctxMgr.GetPrincipal(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, codeInvalidCredentials, "authentication required")
		return
	}

	var req updateNameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, codeInvalidRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		respondError(w, http.StatusBadRequest, codeInvalidRequest, "name is required")
		return
	}

	user, err := h.usersService.UpdateName(r.Context(), principal.ID, req.Name)
	if err != nil {
		handleError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, toUserResponse(user))
}

// UploadAvatar replaces the caller's profile picture.
func (h *Users) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	principal, ok := h.ctxMgr.GetPrincipal(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, codeInvalidCredentials, "authentication required")
		return
	}

	contentType := r.Header.Get("Content-Type")
	if contentType != "image/png" && contentType != "image/jpeg" && contentType != "image/webp" {
		respondError(w, http.StatusBadRequest, codeInvalidRequest, "content type must be image/png, image/jpeg or image/webp")
		return
	}
	if r.ContentLength <= 0 || r.ContentLength > maxAvatarSize {
		respondError(w, http.StatusBadRequest, codeInvalidRequest, "avatar must be between 1 byte and 5 MiB")
		return
	}

	body := http.MaxBytesReader(w, r.Body, maxAvatarSize)
	user, err := h.usersService.UploadAvatar(r.Context(), principal.ID, body, r.ContentLength, contentType)
	if err != nil {
		h.logger.Error("Users handler: avatar upload failed",
			"user_id", principal.ID,
			"error", err.Error())
		handleError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, toUserResponse(user))
}

// DownloadAvatar streams a user's profile picture.
func (h *Users) DownloadAvatar(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, codeInvalidRequest, "invalid user id")
		return
	}

	h.streamAvatar(w, r, id)
}

// DownloadOwnAvatar streams the caller's profile picture.
func (h *Users) DownloadOwnAvatar(w http.ResponseWriter, r *http.Request) {
	principal, ok := h.ctxMgr.GetPrincipal(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, codeInvalidCredentials, "authentication required")
		return
	}

	h.streamAvatar(w, r, principal.ID)
}

func (h *Users) streamAvatar(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	reader, contentType, err := h.usersService.DownloadAvatar(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}
	defer reader.Close()

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, reader); err != nil {
		h.logger.Error("Users handler: avatar stream interrupted",
			"user_id", id,
			"error", err.Error())
	}
}
