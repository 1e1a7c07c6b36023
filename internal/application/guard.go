package application

import (
	"errors"

	"github.com/bnema/admin-dashboard-cli/internal/domain"
)

var errSessionUnavailable = errors.New("session state unavailable")

// AuthState is the part of the session the guard reads.
type AuthState interface {
	IsAuthenticated() bool
}

type Decision struct {
	Target   string
	Allow    bool
	Redirect string
}

// Guard decides route transitions from the session state. Any failure to
// read that state sends the caller to the login route.
type Guard struct {
	auth       AuthState
	sessionErr error
}

// NewGuard builds a guard. sessionErr is the outcome of restoring the
// session; a non-nil value makes every protected route redirect to login.
func NewGuard(auth AuthState, sessionErr error) *Guard {
	return &Guard{auth: auth, sessionErr: sessionErr}
}

func (g *Guard) Resolve(target string) (decision Decision) {
	path := domain.ResolvePath(target)
	decision = Decision{Target: path}

	defer func() {
		if recovered := recover(); recovered != nil {
			decision = failClosed(path)
		}
	}()

	authenticated, err := g.authenticated()
	if err != nil {
		if domain.IsPublicPath(path) {
			decision.Allow = true
			return decision
		}
		return failClosed(path)
	}

	switch {
	case !authenticated && !domain.IsPublicPath(path):
		decision.Redirect = domain.LoginPath
	case authenticated && domain.IsPublicPath(path):
		decision.Redirect = domain.HomePath
	default:
		decision.Allow = true
	}

	return decision
}

func (g *Guard) authenticated() (bool, error) {
	if g == nil || g.auth == nil {
		return false, errSessionUnavailable
	}
	if g.sessionErr != nil {
		return false, g.sessionErr
	}
	return g.auth.IsAuthenticated(), nil
}

func failClosed(path string) Decision {
	return Decision{Target: path, Redirect: domain.LoginPath}
}
