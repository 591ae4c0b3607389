package gate

import (
	"context"
	"errors"
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/spec-kit/freight-console/internal/auth"
	"github.com/spec-kit/freight-console/internal/domain"
	"github.com/spec-kit/freight-console/internal/events"
)

const testRoutes = `
routes:
  - path: login
    view: auth/login
    public: true
  - path: unauthorized
    view: auth/unauthorized
    public: true
  - path: ""
    view: shell/dashboard
    children:
      - path: accounting
        view: accounting/home
        data:
          roles: [Admin, Accounting]
        children:
          - path: refunds
            view: accounting/refunds
          - path: petty-cash
            view: accounting/petty-cash
            data:
              roles: [sales]
      - path: jobs
        view: jobs/list
        children:
          - path: ":id"
            view: jobs/detail
            data:
              roles: [operations]
      - path: docs/**
        view: docs/viewer
`

type fakeSession struct {
	token    string
	tokenErr error
	identity *domain.Identity
	err      error
	panics   bool
	calls    int
}

func (f *fakeSession) Token(context.Context) (string, error) {
	return f.token, f.tokenErr
}

func (f *fakeSession) CurrentIdentity(context.Context) (*domain.Identity, error) {
	f.calls++
	if f.panics {
		panic("identity lookup exploded")
	}
	return f.identity, f.err
}

var testNow = time.Unix(1_700_000_000, 0)

func token(t *testing.T, exp time.Time) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"exp": exp.Unix()}).SignedString([]byte("k"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return signed
}

func newTestGate(t *testing.T) *Gate {
	t.Helper()
	table, err := ParseRouteTable([]byte(testRoutes))
	if err != nil {
		t.Fatalf("ParseRouteTable: %v", err)
	}
	validator := auth.NewTokenValidator(auth.WithClock(func() time.Time { return testNow }))
	return New(table, validator, "/login", "/unauthorized")
}

func TestDecide(t *testing.T) {
	g := newTestGate(t)
	live := token(t, testNow.Add(time.Hour))
	expired := token(t, testNow)

	cases := []struct {
		name        string
		target      string
		session     *fakeSession
		outcome     Outcome
		location    string
		forceLogout bool
		reason      string
	}{
		{name: "public route without token", target: "/login", session: &fakeSession{}, outcome: Allow},
		{name: "unknown route", target: "/nowhere", session: &fakeSession{token: live}, outcome: NotFound},
		{
			name: "no token redirects with return url", target: "/accounting/refunds?page=2", session: &fakeSession{},
			outcome: RedirectLogin, location: "/login?returnUrl=%2Faccounting%2Frefunds%3Fpage%3D2", forceLogout: true, reason: events.ReasonMissingToken,
		},
		{
			name: "token read failure", target: "/jobs", session: &fakeSession{tokenErr: errors.New("redis down")},
			outcome: RedirectLogin, location: "/login?returnUrl=%2Fjobs", forceLogout: true, reason: events.ReasonMissingToken,
		},
		{
			name: "expired token", target: "/jobs", session: &fakeSession{token: expired},
			outcome: RedirectLogin, location: "/login?returnUrl=%2Fjobs", forceLogout: true, reason: events.ReasonTokenExpired,
		},
		{
			name: "malformed token", target: "/jobs", session: &fakeSession{token: "garbage"},
			outcome: RedirectLogin, location: "/login?returnUrl=%2Fjobs", forceLogout: true, reason: events.ReasonTokenExpired,
		},
		{name: "no requirement allows any role", target: "/jobs", session: &fakeSession{token: live, identity: &domain.Identity{Role: "agency"}}, outcome: Allow},
		{name: "inherited requirement matches", target: "/accounting/refunds", session: &fakeSession{token: live, identity: &domain.Identity{Role: "ACCOUNTING"}}, outcome: Allow},
		{
			name: "inherited requirement rejects", target: "/accounting/refunds", session: &fakeSession{token: live, identity: &domain.Identity{Role: "sales"}},
			outcome: RedirectUnauthorized, location: "/unauthorized?error=insufficient_role",
		},
		{name: "nearest declaring ancestor wins", target: "/accounting/petty-cash", session: &fakeSession{token: live, identity: &domain.Identity{Role: "Sales"}}, outcome: Allow},
		{
			name: "nearest requirement overrides parent", target: "/accounting/petty-cash", session: &fakeSession{token: live, identity: &domain.Identity{Role: "admin"}},
			outcome: RedirectUnauthorized, location: "/unauthorized?error=insufficient_role",
		},
		{name: "param route", target: "/jobs/42", session: &fakeSession{token: live, identity: &domain.Identity{Role: "Operations"}}, outcome: Allow},
		{
			name: "identity error is non-membership", target: "/jobs/42", session: &fakeSession{token: live, err: errors.New("boom")},
			outcome: RedirectUnauthorized, location: "/unauthorized?error=insufficient_role",
		},
		{
			name: "nil identity is non-membership", target: "/jobs/42", session: &fakeSession{token: live},
			outcome: RedirectUnauthorized, location: "/unauthorized?error=insufficient_role",
		},
		{
			name: "panicking identity is non-membership", target: "/jobs/42", session: &fakeSession{token: live, panics: true},
			outcome: RedirectUnauthorized, location: "/unauthorized?error=insufficient_role",
		},
		{name: "wildcard", target: "/docs/a/b/c", session: &fakeSession{token: live}, outcome: Allow},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := g.Decide(context.Background(), tc.target, tc.session)
			if d.Outcome != tc.outcome {
				t.Fatalf("outcome = %s, want %s", d.Outcome, tc.outcome)
			}
			if d.Location() != tc.location {
				t.Fatalf("location = %q, want %q", d.Location(), tc.location)
			}
			if d.ForceLogout != tc.forceLogout {
				t.Fatalf("forceLogout = %v, want %v", d.ForceLogout, tc.forceLogout)
			}
			if d.Reason != tc.reason {
				t.Fatalf("reason = %q, want %q", d.Reason, tc.reason)
			}
		})
	}
}

func TestDecideRoleCaseInsensitive(t *testing.T) {
	g := newTestGate(t)
	live := token(t, testNow.Add(time.Hour))

	for _, role := range []string{"Admin", "admin", "ADMIN"} {
		d := g.Decide(context.Background(), "/accounting", &fakeSession{token: live, identity: &domain.Identity{Role: role}})
		if d.Outcome != Allow {
			t.Fatalf("role %q: outcome = %s", role, d.Outcome)
		}
	}
}

func TestDecideResolvesIdentityOnlyWhenRequired(t *testing.T) {
	g := newTestGate(t)
	live := token(t, testNow.Add(time.Hour))

	open := &fakeSession{token: live}
	g.Decide(context.Background(), "/jobs", open)
	if open.calls != 0 {
		t.Fatalf("identity looked up %d times for an open route", open.calls)
	}

	gated := &fakeSession{token: live, identity: &domain.Identity{Role: "admin"}}
	g.Decide(context.Background(), "/accounting", gated)
	if gated.calls != 1 {
		t.Fatalf("identity looked up %d times, want 1", gated.calls)
	}
}

func TestEffectiveRoles(t *testing.T) {
	root := &Route{Data: RouteData{Roles: []string{"admin"}}}
	empty := &Route{}
	mid := &Route{Data: RouteData{Roles: []string{"Sales", "sales"}}}

	cases := []struct {
		name  string
		chain []*Route
		want  []string
	}{
		{name: "no declarations", chain: []*Route{empty, empty}, want: nil},
		{name: "inherit from root", chain: []*Route{root, empty}, want: []string{"admin"}},
		{name: "deepest wins", chain: []*Route{root, mid, empty}, want: []string{"sales"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := EffectiveRoles(tc.chain)
			if len(got) != len(tc.want) {
				t.Fatalf("EffectiveRoles() = %v, want %v", got, tc.want)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Fatalf("EffectiveRoles() = %v, want %v", got, tc.want)
				}
			}
		})
	}
}

func TestMatchParams(t *testing.T) {
	table, err := ParseRouteTable([]byte(testRoutes))
	if err != nil {
		t.Fatalf("ParseRouteTable: %v", err)
	}

	m, ok := table.Match("/jobs/JOB-7")
	if !ok {
		t.Fatal("expected match")
	}
	if m.Params["id"] != "JOB-7" || m.Leaf().View != "jobs/detail" {
		t.Fatalf("unexpected match %+v / %+v", m.Params, m.Leaf())
	}

	m, ok = table.Match("/")
	if !ok || m.Leaf().View != "shell/dashboard" {
		t.Fatal("expected root to match the dashboard")
	}
}

func TestParseRouteTableRejectsBadTrees(t *testing.T) {
	cases := map[string]string{
		"wildcard not last": "routes:\n  - path: a/**/b\n    view: x\n",
		"no view":           "routes:\n  - path: a\n",
		"bad yaml":          "routes: [",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := ParseRouteTable([]byte(doc)); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}
