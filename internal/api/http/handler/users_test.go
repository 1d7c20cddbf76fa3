package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/unklab/lostfound-server/internal/api/http/httpctx"
	"github.com/unklab/lostfound-server/internal/model"
	"github.com/unklab/lostfound-server/internal/testutil"
)

// MockUsersService mocks the UsersService interface
type MockUsersService struct {
	mock.Mock
}

func (m *MockUsersService) GetByID(ctx context.Context, id uuid.UUID) (model.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *MockUsersService) List(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *MockUsersService) SetStatus(ctx context.Context, id uuid.UUID, status model.Status) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockUsersService) SetRole(ctx context.Context, id uuid.UUID, role model.Role) error {
	args := m.Called(ctx, id, role)
	return args.Error(0)
}

func (m *MockUsersService) UpdateName(ctx context.Context, id uuid.UUID, name string) (model.User, error) {
	args := m.Called(ctx, id, name)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *MockUsersService) UploadAvatar(ctx context.Context, id uuid.UUID, reader io.Reader, size int64, contentType string) (model.User, error) {
	args := m.Called(ctx, id, reader, size, contentType)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *MockUsersService) DownloadAvatar(ctx context.Context, id uuid.UUID) (io.ReadCloser, string, error) {
	args := m.Called(ctx, id)
	var rc io.ReadCloser
	if v := args.Get(0); v != nil {
		rc = v.(io.ReadCloser)
	}
	return rc, args.String(1), args.Error(2)
}

func adminPrincipal() model.Principal {
	return model.Principal{
		ID:     uuid.New(),
		Email:  "admin@unklab.ac.id",
		Role:   model.RoleAdmin,
		Status: model.StatusActive,
	}
}

func TestUsers_List(t *testing.T) {
	svc := &MockUsersService{}
	svc.On("List", mock.Anything).Return([]model.User{
		{ID: uuid.New(), Email: "a@unklab.ac.id", Role: model.RoleUser, Status: model.StatusActive},
		{ID: uuid.New(), Email: "b@unklab.ac.id", Role: model.RoleAdmin, Status: model.StatusBlocked},
	}, nil)

	h := NewUsers(svc, httpctx.NewManager(), testutil.MakeNoopLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	rec := httptest.NewRecorder()
	h.List(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp []userResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp, 2)
	assert.Equal(t, "blocked", resp[1].Status)
}

func TestUsers_SetStatus(t *testing.T) {
	ctxMgr := httpctx.NewManager()
	admin := adminPrincipal()
	target := uuid.New()

	setStatus := func(t *testing.T, svc *MockUsersService, targetID uuid.UUID, body any) *httptest.ResponseRecorder {
		t.Helper()
		buf, err := json.Marshal(body)
		require.NoError(t, err)

		h := NewUsers(svc, ctxMgr, testutil.MakeNoopLogger())
		req := httptest.NewRequest(http.MethodPatch, "/api/users/"+targetID.String()+"/status", bytes.NewReader(buf))
		req = mux.SetURLVars(req, map[string]string{"id": targetID.String()})
		req = req.WithContext(ctxMgr.SetPrincipal(req.Context(), admin))
		rec := httptest.NewRecorder()
		h.SetStatus(rec, req)
		return rec
	}

	t.Run("blocks a user", func(t *testing.T) {
		svc := &MockUsersService{}
		svc.On("SetStatus", mock.Anything, target, model.StatusBlocked).Return(nil)

		rec := setStatus(t, svc, target, setStatusRequest{Status: "blocked"})
		assert.Equal(t, http.StatusNoContent, rec.Code)
		svc.AssertExpectations(t)
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		svc := &MockUsersService{}
		rec := setStatus(t, svc, target, setStatusRequest{Status: "suspended"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		svc.AssertNotCalled(t, "SetStatus", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("rejects self-block", func(t *testing.T) {
		svc := &MockUsersService{}
		rec := setStatus(t, svc, admin.ID, setStatusRequest{Status: "blocked"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		svc.AssertNotCalled(t, "SetStatus", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unknown user", func(t *testing.T) {
		svc := &MockUsersService{}
		svc.On("SetStatus", mock.Anything, target, model.StatusBlocked).Return(model.ErrUserNotFound)

		rec := setStatus(t, svc, target, setStatusRequest{Status: "blocked"})
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestUsers_SetRole_RejectsSelfDemotion(t *testing.T) {
	ctxMgr := httpctx.NewManager()
	admin := adminPrincipal()
	svc := &MockUsersService{}

	buf, err := json.Marshal(setRoleRequest{Role: "user"})
	require.NoError(t, err)

	h := NewUsers(svc, ctxMgr, testutil.MakeNoopLogger())
	req := httptest.NewRequest(http.MethodPatch, "/api/users/"+admin.ID.String()+"/role", bytes.NewReader(buf))
	req = mux.SetURLVars(req, map[string]string{"id": admin.ID.String()})
	req = req.WithContext(ctxMgr.SetPrincipal(req.Context(), admin))
	rec := httptest.NewRecorder()

	h.SetRole(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertNotCalled(t, "SetRole", mock.Anything, mock.Anything, mock.Anything)
}

func TestUsers_UpdateName(t *testing.T) {
	ctxMgr := httpctx.NewManager()
	principal := model.Principal{ID: uuid.New(), Role: model.RoleUser, Status: model.StatusActive}

	svc := &MockUsersService{}
	renamed := model.User{ID: principal.ID, Name: "Renamed", Role: model.RoleUser, Status: model.StatusActive}
	svc.On("UpdateName", mock.Anything, principal.ID, "Renamed").Return(renamed, nil)

	buf, err := json.Marshal(updateNameRequest{Name: "Renamed"})
	require.NoError(t, err)

	h := NewUsers(svc, ctxMgr, testutil.MakeNoopLogger())
	req := httptest.NewRequest(http.MethodPatch, "/api/users/me/name", bytes.NewReader(buf))
	req = req.WithContext(ctxMgr.SetPrincipal(req.Context(), principal))
	rec := httptest.NewRecorder()

	h.UpdateName(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp userResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "Renamed", resp.Name)
}

func TestUsers_UploadAvatar_RejectsContentType(t *testing.T) {
	ctxMgr := httpctx.NewManager()
	principal := model.Principal{ID: uuid.New(), Role: model.RoleUser, Status: model.StatusActive}
	svc := &MockUsersService{}

	h := NewUsers(svc, ctxMgr, testutil.MakeNoopLogger())
	req := httptest.NewRequest(http.MethodPut, "/api/users/me/avatar", bytes.NewReader([]byte("not-an-image")))
	req.Header.Set("Content-Type", "text/plain")
	req = req.WithContext(ctxMgr.SetPrincipal(req.Context(), principal))
	rec := httptest.NewRecorder()

	h.UploadAvatar(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertNotCalled(t, "UploadAvatar", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUsers_DownloadAvatar(t *testing.T) {
	target := uuid.New()
	svc := &MockUsersService{}
	svc.On("DownloadAvatar", mock.Anything, target).
		Return(io.NopCloser(bytes.NewReader([]byte("img"))), "image/png", nil)

	h := NewUsers(svc, httpctx.NewManager(), testutil.MakeNoopLogger())
	req := httptest.NewRequest(http.MethodGet, "/api/users/"+target.String()+"/avatar", nil)
	req = mux.SetURLVars(req, map[string]string{"id": target.String()})
	rec := httptest.NewRecorder()

	h.DownloadAvatar(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.Equal(t, "img", rec.Body.String())
}

func TestUsers_DownloadAvatar_NotFound(t *testing.T) {
	target := uuid.New()
	svc := &MockUsersService{}
	svc.On("DownloadAvatar", mock.Anything, target).Return(nil, "", model.ErrNotFound)

	h := NewUsers(svc, httpctx.NewManager(), testutil.MakeNoopLogger())
	req := httptest.NewRequest(http.MethodGet, "/api/users/"+target.String()+"/avatar", nil)
	req = mux.SetURLVars(req, map[string]string{"id": target.String()})
	rec := httptest.NewRecorder()

	h.DownloadAvatar(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
