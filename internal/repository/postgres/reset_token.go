package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/unklab/lostfound-server/internal/model"
)

var _ model.ResetTokenStore = (*ResetTokenRepository)(nil)

type ResetTokenRepository struct {
	db DB
}

func NewResetTokenRepository(db DB) *ResetTokenRepository {
	return &ResetTokenRepository{db: db}
}

func (r *ResetTokenRepository) Create(ctx context.Context, token model.PasswordResetToken) error {
	const query = `
        INSERT INTO password_reset_tokens (id, user_id, email, token_hash, expires_at, used_at, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
    `

	if token.ID == uuid.Nil {
		token.ID = uuid.New()
	}

	_, err := r.db.Exec(ctx, query,
		token.ID, token.UserID, token.Email, token.TokenHash, token.ExpiresAt,
		token.UsedAt, token.CreatedAt,
	)
	if err != nil {
		return unavailable("create reset token", err)
	}
	return nil
}

func (r *ResetTokenRepository) GetByHash(ctx context.Context, tokenHash []byte) (model.PasswordResetToken, error) {
	const query = `
        SELECT id, user_id, email, token_hash, expires_at, used_at, created_at
        FROM password_reset_tokens WHERE token_hash = $1
    `
	var t model.PasswordResetToken
	err := r.db.QueryRow(ctx, query, tokenHash).Scan(
		&t.ID, &t.UserID, &t.Email, &t.TokenHash, &t.ExpiresAt, &t.UsedAt, &t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.PasswordResetToken{}, model.ErrNotFound
		}
		return model.PasswordResetToken{}, unavailable("get reset token by hash", err)
	}
	return t, nil
}

// MarkUsed is a conditional write: it only succeeds while used_at is still
// NULL, so of two concurrent consumers exactly one wins and the loser
// observes ErrTokenUsed.
func (r *ResetTokenRepository) MarkUsed(ctx context.Context, id uuid.UUID) error {
	const query = `
        UPDATE password_reset_tokens SET used_at = NOW()
        WHERE id = $1 AND used_at IS NULL
    `
	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return unavailable("mark reset token used", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrTokenUsed
	}
	return nil
}

func (r *ResetTokenRepository) MarkAllUsedForUser(ctx context.Context, userID uuid.UUID) error {
	const query = `
        UPDATE password_reset_tokens SET used_at = NOW()
        WHERE user_id = $1 AND used_at IS NULL
    `
	if _, err := r.db.Exec(ctx, query, userID); err != nil {
		return unavailable("mark reset tokens used by user", err)
	}
	return nil
}

func (r *ResetTokenRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	const query = `DELETE FROM password_reset_tokens WHERE expires_at < $1`

	tag, err := r.db.Exec(ctx, query, before)
	if err != nil {
		return 0, unavailable("delete expired reset tokens", err)
	}
	return tag.RowsAffected(), nil
}
