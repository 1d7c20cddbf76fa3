package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/unklab/lostfound-server/internal/logger"
	"github.com/unklab/lostfound-server/internal/model"
)

// TokenParser resolves user IDs from bearer tokens.
type TokenParser interface {
	ParseSessionToken(token string) (uuid.UUID, error)
}

// ContextManager attaches the resolved principal to the request context.
type ContextManager interface {
	SetPrincipal(ctx context.Context, principal model.Principal) context.Context
}

// Authenticate resolves the bearer token into a Principal. The user record
// is re-read per request so an admin block takes effect immediately, not at
// next token expiry. Requests without a valid token pass through with no
// principal attached; enforcement happens in the access gate middleware.
type Authenticate struct {
	tokens    TokenParser
	userStore model.UserStore
	ctxMgr    ContextManager
	logger    *logger.Logger
}

// NewAuthenticate creates a new Authenticate middleware instance.
func NewAuthenticate(tokens TokenParser, userStore model.UserStore, ctxMgr ContextManager, logger *logger.Logger) *Authenticate {
	return &Authenticate{tokens: tokens, userStore: userStore, ctxMgr: ctxMgr, logger: logger}
}

// Resolve is the middleware entry point.
func (m *Authenticate) Resolve(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString := bearerToken(r)
		if tokenString == "" {
			next.ServeHTTP(w, r)
			return
		}

		userID, err := m.tokens.ParseSessionToken(tokenString)
		if err != nil {
			m.logger.Debug("authenticate: invalid session token", "error", err.Error())
			next.ServeHTTP(w, r)
			return
		}

		user, err := m.userStore.GetByID(r.Context(), userID)
		if err != nil {
			m.logger.Debug("authenticate: token user not found",
				"user_id", userID,
				"error", err.Error())
			next.ServeHTTP(w, r)
			return
		}

		ctx := m.ctxMgr.SetPrincipal(r.Context(), model.PrincipalFromUser(user))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	return strings.TrimPrefix(header, "Bearer ")
}
