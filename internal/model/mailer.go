package model

import "context"

// ResetMailer delivers the password reset link out of band. Delivery is
// fire-and-forget: a failure must never fail the reset request itself,
// since the token is already durably stored.
type ResetMailer interface {
	SendResetLink(ctx context.Context, email, displayName, token string) error
}
