package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ResetTokenTTL is how long a password reset token stays valid after issuance.
const ResetTokenTTL = 30 * time.Minute

// ResetTokenStore persists password reset tokens. Token plaintext is never
// stored; lookups are by the SHA-256 hash of the presented value.
type ResetTokenStore interface {
	Create(ctx context.Context, token PasswordResetToken) error
	GetByHash(ctx context.Context, tokenHash []byte) (PasswordResetToken, error)
	// MarkUsed sets used_at only while the token is still unused. It returns
	// ErrTokenUsed when another consumer won the race.
	MarkUsed(ctx context.Context, id uuid.UUID) error
	// MarkAllUsedForUser closes every outstanding token for the user.
	MarkAllUsedForUser(ctx context.Context, userID uuid.UUID) error
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

// PasswordResetToken is a single-use, time-bound capability to change one
// user's password.
type PasswordResetToken struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Email     string
	TokenHash []byte
	ExpiresAt time.Time
	UsedAt    *time.Time
	CreatedAt time.Time
}

// IsUsed reports whether the token has already been consumed.
func (t PasswordResetToken) IsUsed() bool {
	return t.UsedAt != nil
}

// IsExpired reports whether the token is past its expiry at the given time.
func (t PasswordResetToken) IsExpired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}
