package model

import (
	"context"
	"io"
)

// AvatarStorage holds user profile pictures in object storage. Keys are
// stored on the User record; the storage itself is content-agnostic.
type AvatarStorage interface {
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
	Download(ctx context.Context, key string) (io.ReadCloser, string, error)
	Delete(ctx context.Context, key string) error
}
