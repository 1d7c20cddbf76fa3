package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/unklab/lostfound-server/internal/logger"
	"github.com/unklab/lostfound-server/internal/model"
)

// Users covers profile operations and the administrative actions behind the
// admin dashboard: listing accounts and flipping role or status.
type Users struct {
	userStore model.UserStore
	avatars   model.AvatarStorage
	logger    *logger.Logger
}

func NewUsers(userStore model.UserStore, avatars model.AvatarStorage, logger *logger.Logger) *Users {
	return &Users{
		userStore: userStore,
		avatars:   avatars,
		logger:    logger,
	}
}

func (u *Users) GetByID(ctx context.Context, id uuid.UUID) (model.User, error) {
	user, err := u.userStore.GetByID(ctx, id)
	if errors.Is(err, model.ErrNotFound) {
		return model.User{}, model.ErrUserNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("failed to get user by id: %w", err)
	}
	return user, nil
}

func (u *Users) List(ctx context.Context) ([]model.User, error) {
	users, err := u.userStore.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// SetStatus blocks or unblocks an account. Admin action only; the handler
// layer enforces the capability.
func (u *Users) SetStatus(ctx context.Context, id uuid.UUID, status model.Status) error {
	if status != model.StatusActive && status != model.StatusBlocked {
		return fmt.Errorf("unknown status %q", status)
	}

	err := u.userStore.SetStatus(ctx, id, status)
	if errors.Is(err, model.ErrNotFound) {
		return model.ErrUserNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to set user status: %w", err)
	}

	u.logger.Info("Users service: status changed", "user_id", id, "status", status)

	return nil
}

func (u *Users) SetRole(ctx context.Context, id uuid.UUID, role model.Role) error {
	if role != model.RoleUser && role != model.RoleAdmin {
		return fmt.Errorf("unknown role %q", role)
	}

	err := u.userStore.SetRole(ctx, id, role)
	if errors.Is(err, model.ErrNotFound) {
		return model.ErrUserNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to set user role: %w", err)
	}

	u.logger.Info("Users service: role changed", "user_id", id, "role", role)

	return nil
}

// UpdateName changes the display name, keeping the stored avatar key.
func (u *Users) UpdateName(ctx context.Context, id uuid.UUID, name string) (model.User, error) {
	user, err := u.GetByID(ctx, id)
	if err != nil {
		return model.User{}, err
	}

	updated, err := u.userStore.UpdateProfile(ctx, id, name, user.ProfilePicture)
	if errors.Is(err, model.ErrNotFound) {
		return model.User{}, model.ErrUserNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("failed to update profile: %w", err)
	}

	return updated, nil
}

// UploadAvatar stores the picture and records its object key on the user.
func (u *Users) UploadAvatar(ctx context.Context, id uuid.UUID, reader io.Reader, size int64, contentType string) (model.User, error) {
	user, err := u.GetByID(ctx, id)
	if err != nil {
		return model.User{}, err
	}

	key := "avatars/" + id.String()
	if err := u.avatars.Upload(ctx, key, reader, size, contentType); err != nil {
		u.logger.Error("Users service: avatar upload failed",
			"user_id", id,
			"error", err.Error())
		return model.User{}, fmt.Errorf("failed to upload avatar: %w", err)
	}

	updated, err := u.userStore.UpdateProfile(ctx, id, user.Name, key)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to record avatar key: %w", err)
	}

	return updated, nil
}

// DownloadAvatar streams the stored picture for the user.
func (u *Users) DownloadAvatar(ctx context.Context, id uuid.UUID) (io.ReadCloser, string, error) {
	user, err := u.GetByID(ctx, id)
	if err != nil {
		return nil, "", err
	}
	if user.ProfilePicture == "" {
		return nil, "", model.ErrNotFound
	}

	reader, contentType, err := u.avatars.Download(ctx, user.ProfilePicture)
	if err != nil {
		return nil, "", fmt.Errorf("failed to download avatar: %w", err)
	}

	return reader, contentType, nil
}
