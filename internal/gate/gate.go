package gate

import (
	"context"
	"fmt"
	"net/url"

	"github.com/spec-kit/freight-console/internal/auth"
	"github.com/spec-kit/freight-console/internal/domain"
	"github.com/spec-kit/freight-console/internal/events"
)

// Outcome tags a Decision.
type Outcome int

const (
	Allow Outcome = iota
	RedirectLogin
	RedirectUnauthorized
	NotFound
)

func (o Outcome) String() string {
	switch o {
	case Allow:
		return "allow"
	case RedirectLogin:
		return "redirect_login"
	case RedirectUnauthorized:
		return "redirect_unauthorized"
	case NotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

// ErrorInsufficientRole is the error marker carried to the unauthorized view.
const ErrorInsufficientRole = "insufficient_role"

// Decision is what the gate resolved for one navigation attempt.
// The caller performs the side effects: logout when ForceLogout is set, then
// the redirect to Path with Params.
type Decision struct {
	Outcome     Outcome
	Path        string
	Params      map[string]string
	ForceLogout bool
	Reason      string
	Required    []string
	Match       *Match
}

// Location renders the redirect target, empty for non-redirect outcomes.
func (d Decision) Location() string {
	if d.Outcome != RedirectLogin && d.Outcome != RedirectUnauthorized {
		return ""
	}
	if len(d.Params) == 0 {
		return d.Path
	}
	query := url.Values{}
	for k, v := range d.Params {
		query.Set(k, v)
	}
	return d.Path + "?" + query.Encode()
}

// Session is the view of the session store the gate needs.
type Session interface {
	Token(ctx context.Context) (string, error)
	CurrentIdentity(ctx context.Context) (*domain.Identity, error)
}

// ExpiryChecker reports whether a token is no longer usable.
type ExpiryChecker interface {
	IsExpired(token string) bool
}

// Gate decides whether a navigation may proceed.
type Gate struct {
	routes           *RouteTable
	validator        ExpiryChecker
	loginPath        string
	unauthorizedPath string
}

// New builds a gate over routes.
func New(routes *RouteTable, validator ExpiryChecker, loginPath, unauthorizedPath string) *Gate {
	return &Gate{
		routes:           routes,
		validator:        validator,
		loginPath:        loginPath,
		unauthorizedPath: unauthorizedPath,
	}
}

// Decide evaluates a navigation to target, a path optionally followed by a query.
// It never fails: every branch resolves to an outcome.
func (g *Gate) Decide(ctx context.Context, target string, session Session) Decision {
	path := target
	if u, err := url.Parse(target); err == nil {
		path = u.Path
	}

	match, ok := g.routes.Match(path)
	if !ok {
		return Decision{Outcome: NotFound}
	}
	if match.Public() {
		return Decision{Outcome: Allow, Match: match}
	}

	token, err := session.Token(ctx)
	switch {
	case err != nil || token == "":
		return g.redirectLogin(target, events.ReasonMissingToken, match)
	case g.validator.IsExpired(token):
		return g.redirectLogin(target, events.ReasonTokenExpired, match)
	}

	required := match.RequiredRoles()
	if len(required) == 0 {
		return Decision{Outcome: Allow, Match: match}
	}

	identity, err := resolveIdentity(ctx, session)
	if err != nil || identity == nil || !auth.HasRole(identity.Role, required) {
		return Decision{
			Outcome:  RedirectUnauthorized,
			Path:     g.unauthorizedPath,
			Params:   map[string]string{"error": ErrorInsufficientRole},
			Required: required,
			Match:    match,
		}
	}
	return Decision{Outcome: Allow, Required: required, Match: match}
}

func (g *Gate) redirectLogin(target, reason string, match *Match) Decision {
	return Decision{
		Outcome:     RedirectLogin,
		Path:        g.loginPath,
		Params:      map[string]string{"returnUrl": target},
		ForceLogout: true,
		Reason:      reason,
		Match:       match,
	}
}

// resolveIdentity takes one value from the session. A panicking lookup counts
// as a failed one.
func resolveIdentity(ctx context.Context, session Session) (identity *domain.Identity, err error) {
	defer func() {
		if r := recover(); r != nil {
			identity, err = nil, fmt.Errorf("resolve identity: %v", r)
		}
	}()
	return session.CurrentIdentity(ctx)
}
