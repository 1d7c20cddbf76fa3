package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/unklab/lostfound-server/internal/logger"
	"github.com/unklab/lostfound-server/internal/model"
	"github.com/unklab/lostfound-server/internal/password"
)

// Auth verifies credentials against the user store and applies the
// account status gate. It performs no session handling; persisting
// "is logged in" belongs to the caller.
type Auth struct {
	userStore model.UserStore
	logger    *logger.Logger

	// dummyHash absorbs a bcrypt comparison on the unknown-email path so
	// login cost does not reveal whether the account exists.
	dummyHash string
}

func NewAuth(userStore model.UserStore, logger *logger.Logger) *Auth {
	dummyHash, err := password.Hash("not-a-real-credential")
	if err != nil {
		// bcrypt only fails on oversized input; this one is fixed.
		panic(fmt.Sprintf("failed to prepare dummy hash: %v", err))
	}

	return &Auth{
		userStore: userStore,
		logger:    logger,
		dummyHash: dummyHash,
	}
}

// Login verifies the email/password pair and returns the authenticated
// principal. Unknown email and wrong password both map to
// ErrInvalidCredentials; a blocked account with a correct credential maps
// to ErrAccountBlocked.
func (a *Auth) Login(ctx context.Context, email, pass string) (model.Principal, error) {
	a.logger.Debug("Auth service: processing login", "email", email)

	user, err := a.userStore.GetByEmail(ctx, email)
	if errors.Is(err, model.ErrNotFound) {
		// Equivalent-cost work on the unknown-email path.
		_ = password.Check(a.dummyHash, pass)
		return model.Principal{}, model.ErrInvalidCredentials
	}
	if err != nil {
		a.logger.Error("Auth service: failed to get user by email",
			"email", email,
			"error", err.Error())
		return model.Principal{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	if err := password.Check(user.PasswordHash, pass); err != nil {
		a.logger.Info("Auth service: credential mismatch", "email", email)
		return model.Principal{}, model.ErrInvalidCredentials
	}

	if user.IsBlocked() {
		a.logger.Info("Auth service: login attempt on blocked account", "email", email)
		return model.Principal{}, model.ErrAccountBlocked
	}

	a.logger.Info("Auth service: login successful",
		"email", email,
		"user_id", user.ID)

	return model.PrincipalFromUser(user), nil
}

// Register creates a new user with role=user and status=active. The shared
// password policy applies here the same as in the reset flow.
func (a *Auth) Register(ctx context.Context, name, email, pass string) (model.User, error) {
	a.logger.Debug("Auth service: processing registration", "email", email)

	if err := password.Validate(pass); err != nil {
		return model.User{}, err
	}

	existing, err := a.userStore.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, model.ErrNotFound) {
		a.logger.Error("Auth service: failed to get user by email",
			"email", email,
			"error", err.Error())
		return model.User{}, fmt.Errorf("failed to get user by email: %w", err)
	}
	if existing.ID != uuid.Nil {
		a.logger.Info("Auth service: email already registered", "email", email)
		return model.User{}, model.ErrEmailTaken
	}

	hash, err := password.Hash(pass)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := model.User{
		ID:           uuid.New(),
		Email:        strings.ToLower(email),
		PasswordHash: hash,
		Name:         name,
		Role:         model.RoleUser,
		Status:       model.StatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := a.userStore.Create(ctx, user)
	if err != nil {
		a.logger.Error("Auth service: failed to create user",
			"email", email,
			"error", err.Error())
		return model.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	a.logger.Info("Auth service: registration completed",
		"email", email,
		"user_id", created.ID)

	return created, nil
}

// ChangePassword verifies the current credential before updating to the new
// one. The new password passes through the shared policy.
func (a *Auth) ChangePassword(ctx context.Context, userID uuid.UUID, current, next string) error {
	a.logger.Debug("Auth service: processing password change", "user_id", userID)

	user, err := a.userStore.GetByID(ctx, userID)
	if errors.Is(err, model.ErrNotFound) {
		return model.ErrUserNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to get user by id: %w", err)
	}

	if err := password.Check(user.PasswordHash, current); err != nil {
		return model.ErrInvalidCredentials
	}

	if err := password.Validate(next); err != nil {
		return err
	}

	hash, err := password.Hash(next)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := a.userStore.UpdatePassword(ctx, userID, hash); err != nil {
		a.logger.Error("Auth service: failed to update password",
			"user_id", userID,
			"error", err.Error())
		return fmt.Errorf("failed to update password: %w", err)
	}

	a.logger.Info("Auth service: password changed", "user_id", userID)

	return nil
}
