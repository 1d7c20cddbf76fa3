package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/unklab/lostfound-server/internal/access"
	"github.com/unklab/lostfound-server/internal/logger"
	"github.com/unklab/lostfound-server/internal/model"
)

// PrincipalReader retrieves the principal attached by Authenticate.
type PrincipalReader interface {
	GetPrincipal(ctx context.Context) (model.Principal, bool)
}

// Gate enforces a route's required capability via the access gate. Denials
// return the redirect intent as JSON for the SPA router to follow.
type Gate struct {
	ctxMgr PrincipalReader
	logger *logger.Logger
}

// NewGate creates a new Gate middleware instance.
func NewGate(ctxMgr PrincipalReader, logger *logger.Logger) *Gate {
	return &Gate{ctxMgr: ctxMgr, logger: logger}
}

type denyResponse struct {
	Error    string `json:"error"`
	Redirect string `json:"redirect"`
}

// Require wraps a handler with a capability check.
func (g *Gate) Require(capability access.Capability) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var principal *model.Principal
			if p, ok := g.ctxMgr.GetPrincipal(r.Context()); ok {
				principal = &p
			}

			decision := access.Decide(principal, capability, r.URL.Path)
			if !decision.Allow {
				g.logger.Debug("gate: request denied",
					"path", r.URL.Path,
					"reason", string(decision.Reason))

				status := http.StatusUnauthorized
				if decision.Reason == access.ReasonAccessDenied {
					status = http.StatusForbidden
				}

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(status)
				json.NewEncoder(w).Encode(denyResponse{
					Error:    string(decision.Reason),
					Redirect: decision.RedirectTarget,
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
