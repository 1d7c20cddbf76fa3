package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/unklab/lostfound-server/internal/model"
)

// ResetTokenStore is a mock implementation of model.ResetTokenStore.
type ResetTokenStore struct {
	mock.Mock
}

func (m *ResetTokenStore) Create(ctx context.Context, token model.PasswordResetToken) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *ResetTokenStore) GetByHash(ctx context.Context, tokenHash []byte) (model.PasswordResetToken, error) {
	args := m.Called(ctx, tokenHash)
	return args.Get(0).(model.PasswordResetToken), args.Error(1)
}

func (m *ResetTokenStore) MarkUsed(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *ResetTokenStore) MarkAllUsedForUser(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *ResetTokenStore) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	args := m.Called(ctx, before)
	return args.Get(0).(int64), args.Error(1)
}
