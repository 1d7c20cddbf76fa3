package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// ResetMailer is a mock implementation of model.ResetMailer.
type ResetMailer struct {
	mock.Mock
}

func (m *ResetMailer) SendResetLink(ctx context.Context, email, displayName, token string) error {
	args := m.Called(ctx, email, displayName, token)
	return args.Error(0)
}
