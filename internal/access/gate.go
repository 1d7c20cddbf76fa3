// Package access decides whether a principal may reach a gated destination.
// Decisions are pure: no state is read or mutated, and the principal (or its
// absence) is always supplied by the caller.
package access

import (
	"net/url"

	"github.com/unklab/lostfound-server/internal/model"
)

// Capability is the access level required to reach a destination or perform
// an action.
type Capability int

const (
	// Public destinations are always allowed.
	Public Capability = iota
	// AuthenticatedUser requires any authenticated principal.
	AuthenticatedUser
	// AdminOnly requires an authenticated principal with the admin role.
	AdminOnly
)

// Reason explains a denial.
type Reason string

const (
	// ReasonNotAuthenticated means no principal was presented.
	ReasonNotAuthenticated Reason = "not_authenticated"
	// ReasonAccessDenied means the principal lacks the required role.
	ReasonAccessDenied Reason = "access_denied"
	// ReasonAccountBlocked means the principal's account is blocked.
	ReasonAccountBlocked Reason = "account_blocked"
)

// Redirect targets for denied requests.
const (
	LoginTarget   = "/login"
	DefaultTarget = "/"
)

// Decision is the outcome of a gate check.
type Decision struct {
	Allow          bool
	RedirectTarget string
	Reason         Reason
}

// Decide evaluates the required capability against the principal, or nil for
// an unauthenticated caller. destination is the originally requested path,
// preserved on the login redirect for post-login return.
func Decide(principal *model.Principal, required Capability, destination string) Decision {
	switch required {
	case Public:
		return Decision{Allow: true}
	case AuthenticatedUser:
		if principal == nil {
			return Decision{
				RedirectTarget: loginRedirect(destination),
				Reason:         ReasonNotAuthenticated,
			}
		}
		if principal.Status == model.StatusBlocked {
			return Decision{
				RedirectTarget: LoginTarget,
				Reason:         ReasonAccountBlocked,
			}
		}
		return Decision{Allow: true}
	case AdminOnly:
		if principal == nil {
			return Decision{
				RedirectTarget: loginRedirect(destination),
				Reason:         ReasonNotAuthenticated,
			}
		}
		if principal.Status == model.StatusBlocked {
			return Decision{
				RedirectTarget: LoginTarget,
				Reason:         ReasonAccountBlocked,
			}
		}
		if principal.Role != model.RoleAdmin {
			return Decision{
				RedirectTarget: DefaultTarget,
				Reason:         ReasonAccessDenied,
			}
		}
		return Decision{Allow: true}
	default:
		// Unknown capabilities deny closed.
		return Decision{
			RedirectTarget: DefaultTarget,
			Reason:         ReasonAccessDenied,
		}
	}
}

func loginRedirect(destination string) string {
	if destination == "" {
		return LoginTarget
	}
	return LoginTarget + "?redirect=" + url.QueryEscape(destination)
}
