package model

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned by stores when no record matches.
	ErrNotFound = errors.New("record not found")

	// ErrInvalidCredentials covers both unknown email and wrong password so
	// the response does not confirm account existence.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrAccountBlocked is returned when the credential is correct but the
	// account is administratively blocked.
	ErrAccountBlocked = errors.New("account is blocked")

	// ErrEmailTaken is returned on registration with an existing email.
	ErrEmailTaken = errors.New("email already registered")

	// ErrInvalidToken means no live reset token matches the presented value.
	ErrInvalidToken = errors.New("reset token invalid")

	// ErrTokenUsed means the reset token has already been consumed.
	ErrTokenUsed = errors.New("reset token already used")

	// ErrTokenExpired means the reset token is past its expiry.
	ErrTokenExpired = errors.New("reset token expired")

	// ErrUserNotFound means the token's owning user no longer exists.
	ErrUserNotFound = errors.New("user not found")

	// ErrStoreUnavailable wraps store failures that are not a definitive
	// "no such record" answer. It is the only error class callers may retry.
	ErrStoreUnavailable = errors.New("store unavailable")
)

// WeakPasswordError reports the first unmet password policy rule.
type WeakPasswordError struct {
	Rule string
}

func (e *WeakPasswordError) Error() string {
	return fmt.Sprintf("weak password: %s", e.Rule)
}

// IsWeakPassword reports whether err is a password policy violation.
func IsWeakPassword(err error) bool {
	var wpe *WeakPasswordError
	return errors.As(err, &wpe)
}
