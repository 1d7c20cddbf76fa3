// Package httpctx carries the resolved principal through request contexts.
package httpctx

import (
	"context"

	"github.com/unklab/lostfound-server/internal/model"
)

type contextKey struct{}

// Manager sets and retrieves the request principal. The principal is always
// attached explicitly by the authentication middleware; nothing in the core
// reads ambient state.
type Manager struct{}

// NewManager creates a new context manager instance.
func NewManager() *Manager {
	return &Manager{}
}

// SetPrincipal returns a context carrying the principal.
func (m *Manager) SetPrincipal(ctx context.Context, principal model.Principal) context.Context {
	return context.WithValue(ctx, contextKey{}, principal)
}

// GetPrincipal retrieves the principal, reporting whether one was attached.
func (m *Manager) GetPrincipal(ctx context.Context) (model.Principal, bool) {
	principal, ok := ctx.Value(contextKey{}).(model.Principal)
	return principal, ok
}
