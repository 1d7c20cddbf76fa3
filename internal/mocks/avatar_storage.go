package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"
)

// AvatarStorage is a mock implementation of model.AvatarStorage.
type AvatarStorage struct {
	mock.Mock
}

func (m *AvatarStorage) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	args := m.Called(ctx, key, reader, size, contentType)
	return args.Error(0)
}

func (m *AvatarStorage) Download(ctx context.Context, key string) (io.ReadCloser, string, error) {
	args := m.Called(ctx, key)
	var rc io.ReadCloser
	if v := args.Get(0); v != nil {
		rc = v.(io.ReadCloser)
	}
	return rc, args.String(1), args.Error(2)
}

func (m *AvatarStorage) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}
