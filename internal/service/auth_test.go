package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/unklab/lostfound-server/internal/logger"
	servermocks "github.com/unklab/lostfound-server/internal/mocks"
	"github.com/unklab/lostfound-server/internal/model"
	"github.com/unklab/lostfound-server/internal/password"
)

func testUser(t *testing.T, pass string) model.User {
	t.Helper()
	hash, err := password.Hash(pass)
	require.NoError(t, err)
	return model.User{
		ID:           uuid.New(),
		Email:        "student@unklab.ac.id",
		PasswordHash: hash,
		Name:         "Student",
		Role:         model.RoleUser,
		Status:       model.StatusActive,
	}
}

func TestAuth_Login_Success(t *testing.T) {
	ctx := context.Background()
	userStore := &servermocks.UserStore{}
	log := logger.New(0)

	user := testUser(t, "Correct1password")
	userStore.On("GetByEmail", mock.Anything, user.Email).Return(user, nil)

	a := NewAuth(userStore, log)

	principal, err := a.Login(ctx, user.Email, "Correct1password")
	require.NoError(t, err)
	assert.Equal(t, user.ID, principal.ID)
	assert.Equal(t, user.Email, principal.Email)
	assert.Equal(t, model.RoleUser, principal.Role)
}

func TestAuth_Login_UnknownEmail(t *testing.T) {
	ctx := context.Background()
	userStore := &servermocks.UserStore{}
	log := logger.New(0)

	userStore.On("GetByEmail", mock.Anything, "nobody@unklab.ac.id").Return(model.User{}, model.ErrNotFound)

	a := NewAuth(userStore, log)

	_, err := a.Login(ctx, "nobody@unklab.ac.id", "Whatever1pass")
	assert.ErrorIs(t, err, model.ErrInvalidCredentials)
}

func TestAuth_Login_WrongPassword(t *testing.T) {
	ctx := context.Background()
	userStore := &servermocks.UserStore{}
	log := logger.New(0)

	user := testUser(t, "Correct1password")
	userStore.On("GetByEmail", mock.Anything, user.Email).Return(user, nil)

	a := NewAuth(userStore, log)

	_, err := a.Login(ctx, user.Email, "Wrong1password")
	assert.ErrorIs(t, err, model.ErrInvalidCredentials)
}

func TestAuth_Login_BlockedAccount(t *testing.T) {
	ctx := context.Background()
	userStore := &servermocks.UserStore{}
	log := logger.New(0)

	user := testUser(t, "Correct1password")
	user.Status = model.StatusBlocked
	userStore.On("GetByEmail", mock.Anything, user.Email).Return(user, nil)

	a := NewAuth(userStore, log)

	_, err := a.Login(ctx, user.Email, "Correct1password")
	assert.ErrorIs(t, err, model.ErrAccountBlocked)
}

func TestAuth_Login_BlockedAccountWrongPassword(t *testing.T) {
	ctx := context.Background()
	userStore := &servermocks.UserStore{}
	log := logger.New(0)

	user := testUser(t, "Correct1password")
	user.Status = model.StatusBlocked
	userStore.On("GetByEmail", mock.Anything, user.Email).Return(user, nil)

	a := NewAuth(userStore, log)

	// Credential check comes first: a wrong password on a blocked account
	// must not reveal the blocked status.
	_, err := a.Login(ctx, user.Email, "Wrong1password")
	assert.ErrorIs(t, err, model.ErrInvalidCredentials)
}

func TestAuth_Login_StoreError(t *testing.T) {
	ctx := context.Background()
	userStore := &servermocks.UserStore{}
	log := logger.New(0)

	storeErr := errors.New("connection refused")
	userStore.On("GetByEmail", mock.Anything, mock.Anything).Return(model.User{}, storeErr)

	a := NewAuth(userStore, log)

	_, err := a.Login(ctx, "student@unklab.ac.id", "Correct1password")
	require.Error(t, err)
	assert.NotErrorIs(t, err, model.ErrInvalidCredentials)
}

func TestAuth_Register_Success(t *testing.T) {
	ctx := context.Background()
	userStore := &servermocks.UserStore{}
	log := logger.New(0)

	userStore.On("GetByEmail", mock.Anything, "New@Unklab.ac.id").Return(model.User{}, model.ErrNotFound)
	userStore.On("Create", mock.Anything, mock.MatchedBy(func(u model.User) bool {
		return u.Email == "new@unklab.ac.id" &&
			u.Role == model.RoleUser &&
			u.Status == model.StatusActive &&
			u.PasswordHash != "Fresh1password"
	})).Return(func(_ context.Context, u model.User) (model.User, error) {
		return u, nil
	})

	a := NewAuth(userStore, log)

	created, err := a.Register(ctx, "New Student", "New@Unklab.ac.id", "Fresh1password")
	require.NoError(t, err)
	assert.Equal(t, "new@unklab.ac.id", created.Email)
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.NoError(t, password.Check(created.PasswordHash, "Fresh1password"))
}

func TestAuth_Register_EmailTaken(t *testing.T) {
	ctx := context.Background()
	userStore := &servermocks.UserStore{}
	log := logger.New(0)

	existing := testUser(t, "Existing1password")
	userStore.On("GetByEmail", mock.Anything, existing.Email).Return(existing, nil)

	a := NewAuth(userStore, log)

	_, err := a.Register(ctx, "Dup", existing.Email, "Fresh1password")
	assert.ErrorIs(t, err, model.ErrEmailTaken)
	userStore.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAuth_Register_WeakPassword(t *testing.T) {
	ctx := context.Background()
	userStore := &servermocks.UserStore{}
	log := logger.New(0)

	a := NewAuth(userStore, log)

	tests := []struct {
		name string
		pass string
	}{
		{name: "too short", pass: "Ab1"},
		{name: "no uppercase", pass: "alllower1"},
		{name: "no lowercase", pass: "ALLUPPER1"},
		{name: "no digit", pass: "NoDigitsHere"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := a.Register(ctx, "Weak", "weak@unklab.ac.id", tt.pass)
			require.Error(t, err)
			assert.True(t, model.IsWeakPassword(err))
		})
	}
	userStore.AssertNotCalled(t, "GetByEmail", mock.Anything, mock.Anything)
}

func TestAuth_ChangePassword_Success(t *testing.T) {
	ctx := context.Background()
	userStore := &servermocks.UserStore{}
	log := logger.New(0)

	user := testUser(t, "Current1password")
	userStore.On("GetByID", mock.Anything, user.ID).Return(user, nil)
	userStore.On("UpdatePassword", mock.Anything, user.ID, mock.AnythingOfType("string")).Return(nil)

	a := NewAuth(userStore, log)

	err := a.ChangePassword(ctx, user.ID, "Current1password", "Next1password")
	require.NoError(t, err)
	userStore.AssertCalled(t, "UpdatePassword", mock.Anything, user.ID, mock.AnythingOfType("string"))
}

func TestAuth_ChangePassword_WrongCurrent(t *testing.T) {
	ctx := context.Background()
	userStore := &servermocks.UserStore{}
	log := logger.New(0)

	user := testUser(t, "Current1password")
	userStore.On("GetByID", mock.Anything, user.ID).Return(user, nil)

	a := NewAuth(userStore, log)

	err := a.ChangePassword(ctx, user.ID, "Wrong1password", "Next1password")
	assert.ErrorIs(t, err, model.ErrInvalidCredentials)
	userStore.AssertNotCalled(t, "UpdatePassword", mock.Anything, mock.Anything, mock.Anything)
}

func TestAuth_ChangePassword_UnknownUser(t *testing.T) {
	ctx := context.Background()
	userStore := &servermocks.UserStore{}
	log := logger.New(0)

	id := uuid.New()
	userStore.On("GetByID", mock.Anything, id).Return(model.User{}, model.ErrNotFound)

	a := NewAuth(userStore, log)

	err := a.ChangePassword(ctx, id, "Current1password", "Next1password")
	assert.ErrorIs(t, err, model.ErrUserNotFound)
}
