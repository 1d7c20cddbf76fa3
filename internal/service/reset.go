package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/unklab/lostfound-server/internal/logger"
	"github.com/unklab/lostfound-server/internal/model"
	"github.com/unklab/lostfound-server/internal/password"
)

// Reset owns the password reset token lifecycle: issuance, validation,
// consumption and expiry cleanup. Tokens are 256-bit random values; only
// their SHA-256 hash is persisted.
type Reset struct {
	userStore  model.UserStore
	tokenStore model.ResetTokenStore
	mailer     model.ResetMailer
	logger     *logger.Logger
}

func NewReset(
	userStore model.UserStore,
	tokenStore model.ResetTokenStore,
	mailer model.ResetMailer,
	logger *logger.Logger,
) *Reset {
	return &Reset{
		userStore:  userStore,
		tokenStore: tokenStore,
		mailer:     mailer,
		logger:     logger,
	}
}

// RequestReset issues a reset token for the email if an account exists. The
// outcome is identical either way so an unauthenticated caller cannot learn
// which accounts are registered; the unknown-email path still pays the token
// generation cost.
func (s *Reset) RequestReset(ctx context.Context, email string) error {
	s.logger.Debug("Reset service: processing reset request", "email", email)

	tokenValue, err := generateToken()
	if err != nil {
		return fmt.Errorf("failed to generate reset token: %w", err)
	}
	tokenHash := hashToken(tokenValue)

	user, err := s.userStore.GetByEmail(ctx, email)
	if errors.Is(err, model.ErrNotFound) {
		s.logger.Info("Reset service: reset requested for unknown email")
		return nil
	}
	if err != nil {
		s.logger.Error("Reset service: failed to get user by email",
			"error", err.Error())
		return fmt.Errorf("failed to get user by email: %w", err)
	}

	now := time.Now()
	token := model.PasswordResetToken{
		ID:        uuid.New(),
		UserID:    user.ID,
		Email:     user.Email,
		TokenHash: tokenHash,
		ExpiresAt: now.Add(model.ResetTokenTTL),
		CreatedAt: now,
	}

	if err := s.tokenStore.Create(ctx, token); err != nil {
		s.logger.Error("Reset service: failed to persist reset token",
			"user_id", user.ID,
			"error", err.Error())
		return fmt.Errorf("failed to persist reset token: %w", err)
	}

	// The token is durably stored; delivery is best-effort and a failure
	// must not fail the request.
	if err := s.mailer.SendResetLink(ctx, user.Email, user.Name, tokenValue); err != nil {
		s.logger.Error("Reset service: failed to send reset link",
			"user_id", user.ID,
			"error", err.Error())
	}

	s.logger.Info("Reset service: reset token issued",
		"user_id", user.ID,
		"expires_at", token.ExpiresAt)

	return nil
}

// ValidateToken checks the presented value against use and expiry rules.
// It is read-only and callable any number of times.
func (s *Reset) ValidateToken(ctx context.Context, tokenValue string) (model.PasswordResetToken, error) {
	token, err := s.tokenStore.GetByHash(ctx, hashToken(tokenValue))
	if errors.Is(err, model.ErrNotFound) {
		return model.PasswordResetToken{}, model.ErrInvalidToken
	}
	if err != nil {
		return model.PasswordResetToken{}, fmt.Errorf("failed to get reset token: %w", err)
	}

	if token.IsUsed() {
		return model.PasswordResetToken{}, model.ErrTokenUsed
	}
	if token.IsExpired(time.Now()) {
		return model.PasswordResetToken{}, model.ErrTokenExpired
	}

	return token, nil
}

// ResetPassword consumes a valid token and updates the owning user's
// credential. The token is re-validated here regardless of any earlier
// ValidateToken call, and consumption is a conditional write so concurrent
// submissions of the same token yield exactly one success.
func (s *Reset) ResetPassword(ctx context.Context, tokenValue, newPassword string) error {
	s.logger.Debug("Reset service: processing password reset")

	token, err := s.ValidateToken(ctx, tokenValue)
	if err != nil {
		return err
	}

	if err := password.Validate(newPassword); err != nil {
		return err
	}

	hash, err := password.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.userStore.GetByID(ctx, token.UserID)
	if errors.Is(err, model.ErrNotFound) {
		// Owning user is gone. Close the capability immediately rather
		// than leaving it to age out.
		if markErr := s.tokenStore.MarkUsed(ctx, token.ID); markErr != nil && !errors.Is(markErr, model.ErrTokenUsed) {
			s.logger.Error("Reset service: failed to close dangling token",
				"token_id", token.ID,
				"error", markErr.Error())
		}
		return model.ErrUserNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to get user by id: %w", err)
	}

	// Consume first: the conditional write decides the race, and a consumed
	// token can never be replayed even if the credential update below fails.
	if err := s.tokenStore.MarkUsed(ctx, token.ID); err != nil {
		return err
	}

	if err := s.userStore.UpdatePassword(ctx, user.ID, hash); err != nil {
		// Token is already consumed; surface the failure so the caller
		// requests a fresh link instead of silently keeping the old password.
		s.logger.Error("Reset service: password update failed after token consumption",
			"user_id", user.ID,
			"token_id", token.ID,
			"error", err.Error())
		return fmt.Errorf("failed to update password: %w", err)
	}

	// Close any sibling tokens still outstanding for this user.
	if err := s.tokenStore.MarkAllUsedForUser(ctx, user.ID); err != nil {
		s.logger.Error("Reset service: failed to invalidate sibling tokens",
			"user_id", user.ID,
			"error", err.Error())
	}

	s.logger.Info("Reset service: password reset completed", "user_id", user.ID)

	return nil
}

// CleanupExpiredTokens removes tokens past their expiry. Validation already
// rejects expired tokens, so this is storage hygiene only.
func (s *Reset) CleanupExpiredTokens(ctx context.Context) (int64, error) {
	count, err := s.tokenStore.DeleteExpired(ctx, time.Now())
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired reset tokens: %w", err)
	}

	if count > 0 {
		s.logger.Info("Reset service: expired tokens removed", "count", count)
	}

	return count, nil
}

func generateToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

func hashToken(tokenValue string) []byte {
	h := sha256.Sum256([]byte(tokenValue))
	return h[:]
}
