package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/spec-kit/freight-console/internal/auth"
	"github.com/spec-kit/freight-console/internal/domain"
	"github.com/spec-kit/freight-console/internal/events"
	"github.com/spec-kit/freight-console/internal/persistence"
)

type fakeAuthenticator struct {
	result     domain.LoginResult
	err        error
	refreshed  string
	refreshErr error
	calls      int
}

func (f *fakeAuthenticator) Login(_ context.Context, _ domain.Credentials) (domain.LoginResult, error) {
	f.calls++
	return f.result, f.err
}

func (f *fakeAuthenticator) Refresh(_ context.Context, _ string) (string, error) {
	return f.refreshed, f.refreshErr
}

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"exp": exp.Unix()})
	signed, err := token.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func adminResult(t *testing.T) domain.LoginResult {
	return domain.LoginResult{
		Token:    signedToken(t, time.Now().Add(time.Hour)),
		Identity: domain.Identity{AccountID: 7, Role: "Admin", RoleID: 1, RoleName: "Administrator", UserName: "jdoe"},
	}
}

type recorder struct {
	mu     sync.Mutex
	values []*domain.Identity
}

func (r *recorder) record(identity *domain.Identity) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values = append(r.values, identity)
}

func (r *recorder) snapshot() []*domain.Identity {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*domain.Identity(nil), r.values...)
}

func TestLoginPersistsAndEmits(t *testing.T) {
	ctx := context.Background()
	storage := persistence.NewMemoryBackend().Namespace("s1")
	authn := &fakeAuthenticator{result: adminResult(t)}
	store := New(ctx, storage, authn)

	rec := &recorder{}
	unsubscribe := store.Identity().Subscribe(rec.record)
	defer unsubscribe()

	identity, err := store.Login(ctx, domain.Credentials{Email: "jdoe@example.com", Password: "pw", Remember: true})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if identity.AccountID != 7 {
		t.Fatalf("unexpected identity %+v", identity)
	}

	token, _, _ := storage.GetItem(ctx, KeyAuthToken)
	if token != authn.result.Token {
		t.Fatal("token not persisted")
	}
	raw, ok, _ := storage.GetItem(ctx, KeyCurrentUser)
	if !ok || raw == "" {
		t.Fatal("identity not persisted")
	}
	if got := store.RememberedEmail(ctx); got != "jdoe@example.com" {
		t.Fatalf("remembered email = %q", got)
	}
	if !store.IsAuthenticated(ctx) {
		t.Fatal("expected authenticated session")
	}

	values := rec.snapshot()
	if len(values) != 2 || values[0] != nil || values[1] == nil || values[1].UserName != "jdoe" {
		t.Fatalf("unexpected emissions %+v", values)
	}
}

func TestLoginWithoutRememberClearsEmail(t *testing.T) {
	ctx := context.Background()
	storage := persistence.NewMemoryBackend().Namespace("s1")
	_ = storage.SetItem(ctx, KeyRememberedEmail, "old@example.com")
	store := New(ctx, storage, &fakeAuthenticator{result: adminResult(t)})

	if _, err := store.Login(ctx, domain.Credentials{Email: "jdoe@example.com", Password: "pw"}); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if got := store.RememberedEmail(ctx); got != "" {
		t.Fatalf("expected remembered email cleared, got %q", got)
	}
}

func TestLoginFailureLeavesStateUntouched(t *testing.T) {
	ctx := context.Background()
	storage := persistence.NewMemoryBackend().Namespace("s1")

	cases := []struct {
		name  string
		authn *fakeAuthenticator
		want  error
	}{
		{name: "remote error", authn: &fakeAuthenticator{err: errors.New("invalid credentials")}},
		{name: "empty token", authn: &fakeAuthenticator{result: domain.LoginResult{Identity: domain.Identity{AccountID: 1}}}, want: ErrLoginFailed},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := New(ctx, storage, tc.authn)
			rec := &recorder{}
			store.Identity().Subscribe(rec.record)

			_, err := store.Login(ctx, domain.Credentials{Email: "a@b.c", Password: "x"})
			if err == nil {
				t.Fatal("expected error")
			}
			if tc.want != nil && !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			if _, ok, _ := storage.GetItem(ctx, KeyAuthToken); ok {
				t.Fatal("token must not be persisted")
			}
			if len(rec.snapshot()) != 1 {
				t.Fatal("failed login must not emit")
			}
		})
	}
}

func TestLogoutIsIdempotentAndKeepsRememberedEmail(t *testing.T) {
	ctx := context.Background()
	storage := persistence.NewMemoryBackend().Namespace("s1")
	store := New(ctx, storage, &fakeAuthenticator{result: adminResult(t)})

	if _, err := store.Login(ctx, domain.Credentials{Email: "jdoe@example.com", Password: "pw", Remember: true}); err != nil {
		t.Fatalf("Login: %v", err)
	}

	rec := &recorder{}
	store.Identity().Subscribe(rec.record)

	for i := 0; i < 2; i++ {
		if err := store.Logout(ctx); err != nil {
			t.Fatalf("Logout #%d: %v", i+1, err)
		}
	}

	if _, ok, _ := storage.GetItem(ctx, KeyAuthToken); ok {
		t.Fatal("token should be removed")
	}
	if _, ok, _ := storage.GetItem(ctx, KeyCurrentUser); ok {
		t.Fatal("identity should be removed")
	}
	if store.Current() != nil {
		t.Fatal("expected nil identity after logout")
	}
	if store.IsAuthenticated(ctx) {
		t.Fatal("expected unauthenticated after logout")
	}
	if got := store.RememberedEmail(ctx); got != "jdoe@example.com" {
		t.Fatalf("remembered email should survive logout, got %q", got)
	}

	values := rec.snapshot()
	if len(values) != 3 || values[1] != nil || values[2] != nil {
		t.Fatalf("expected two nil emissions after the replay, got %+v", values)
	}
}

func TestRestoreFromStorage(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		name   string
		stored string
		want   *domain.Identity
	}{
		{name: "valid identity", stored: `{"accountId":3,"role":"Accounting","roleId":2,"roleName":"Accounting","userName":"amy"}`, want: &domain.Identity{AccountID: 3, Role: "Accounting", RoleID: 2, RoleName: "Accounting", UserName: "amy"}},
		{name: "malformed json", stored: `{"accountId":`},
		{name: "json null", stored: `null`},
		{name: "nothing stored"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			storage := persistence.NewMemoryBackend().Namespace("s1")
			if tc.stored != "" {
				_ = storage.SetItem(ctx, KeyCurrentUser, tc.stored)
			}
			store := New(ctx, storage, &fakeAuthenticator{})
			got := store.Current()
			switch {
			case tc.want == nil && got != nil:
				t.Fatalf("expected nil identity, got %+v", got)
			case tc.want != nil && (got == nil || *got != *tc.want):
				t.Fatalf("Current() = %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestIsAuthenticatedTracksExpiry(t *testing.T) {
	ctx := context.Background()
	storage := persistence.NewMemoryBackend().Namespace("s1")
	now := time.Unix(1_700_000_000, 0)
	validator := auth.NewTokenValidator(auth.WithClock(func() time.Time { return now }))
	store := New(ctx, storage, &fakeAuthenticator{}, WithValidator(validator))

	_ = storage.SetItem(ctx, KeyAuthToken, signedToken(t, now.Add(time.Minute)))
	if !store.IsAuthenticated(ctx) {
		t.Fatal("expected live token to authenticate")
	}

	_ = storage.SetItem(ctx, KeyAuthToken, signedToken(t, now))
	if store.IsAuthenticated(ctx) {
		t.Fatal("token expiring now must not authenticate")
	}

	_ = storage.SetItem(ctx, KeyAuthToken, "not-a-jwt")
	if store.IsAuthenticated(ctx) {
		t.Fatal("undecodable token must not authenticate")
	}
}

func TestRefreshReplacesToken(t *testing.T) {
	ctx := context.Background()
	storage := persistence.NewMemoryBackend().Namespace("s1")
	authn := &fakeAuthenticator{result: adminResult(t), refreshed: "fresh-token"}
	store := New(ctx, storage, authn)

	if _, err := store.Refresh(ctx); !errors.Is(err, ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated, got %v", err)
	}

	if _, err := store.Login(ctx, domain.Credentials{Email: "a@b.c", Password: "x"}); err != nil {
		t.Fatalf("Login: %v", err)
	}
	token, err := store.Refresh(ctx)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if stored, _ := store.Token(ctx); token != "fresh-token" || stored != "fresh-token" {
		t.Fatalf("unexpected token %q / %q", token, stored)
	}
	if store.Current() == nil {
		t.Fatal("refresh must keep the identity")
	}
}

func TestSessionEventsArePublished(t *testing.T) {
	ctx := context.Background()
	dispatcher := events.NewInMemoryDispatcher()

	var mu sync.Mutex
	var seen []events.EventType
	for _, et := range []events.EventType{events.EventLoggedIn, events.EventLoggedOut, events.EventForcedLogout} {
		dispatcher.Subscribe(et, func(_ context.Context, e events.Event) error {
			mu.Lock()
			defer mu.Unlock()
			seen = append(seen, e.Type)
			if e.SessionID != "abc" {
				return fmt.Errorf("unexpected session id %q", e.SessionID)
			}
			return nil
		})
	}

	store := New(ctx, persistence.NewMemoryBackend().Namespace("abc"), &fakeAuthenticator{result: adminResult(t)},
		WithID("abc"), WithEvents(dispatcher))

	if _, err := store.Login(ctx, domain.Credentials{Email: "a@b.c", Password: "x"}); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if err := store.ForceLogout(ctx, events.ReasonUpstream401, "/jobs"); err != nil {
		t.Fatalf("ForceLogout: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	want := []events.EventType{events.EventLoggedIn, events.EventLoggedOut, events.EventForcedLogout}
	if fmt.Sprint(seen) != fmt.Sprint(want) {
		t.Fatalf("events = %v, want %v", seen, want)
	}
}

func TestStreamReplaysAndOrders(t *testing.T) {
	stream := newIdentityStream(&domain.Identity{AccountID: 1})

	rec := &recorder{}
	unsubscribe := stream.Subscribe(rec.record)

	stream.emit(&domain.Identity{AccountID: 2})
	stream.emit(nil)

	late := &recorder{}
	stream.Subscribe(late.record)

	unsubscribe()
	stream.emit(&domain.Identity{AccountID: 3})

	values := rec.snapshot()
	if len(values) != 3 || values[0].AccountID != 1 || values[1].AccountID != 2 || values[2] != nil {
		t.Fatalf("unexpected early subscriber values %+v", values)
	}
	lateValues := late.snapshot()
	if len(lateValues) != 2 || lateValues[0] != nil || lateValues[1].AccountID != 3 {
		t.Fatalf("unexpected late subscriber values %+v", lateValues)
	}
}

func TestStreamDeliversCopies(t *testing.T) {
	stream := newIdentityStream(&domain.Identity{AccountID: 1, Role: "admin"})
	stream.Subscribe(func(identity *domain.Identity) {
		identity.Role = "tampered"
	})
	if got := stream.Current(); got.Role != "admin" {
		t.Fatalf("subscriber mutated stream state: %+v", got)
	}
}

func TestRegistryReusesAndRestores(t *testing.T) {
	ctx := context.Background()
	backend := persistence.NewMemoryBackend()
	authn := &fakeAuthenticator{result: adminResult(t)}

	registry, err := NewRegistry(backend, authn, 1)
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}

	first := registry.Get(ctx, "a")
	if registry.Get(ctx, "a") != first {
		t.Fatal("expected the same store for the same id")
	}
	if _, err := first.Login(ctx, domain.Credentials{Email: "a@b.c", Password: "x"}); err != nil {
		t.Fatalf("Login: %v", err)
	}

	evicted := &recorder{}
	first.Identity().Subscribe(evicted.record)

	other := registry.Get(ctx, "b")
	if other.Current() != nil {
		t.Fatal("sessions must be isolated")
	}
	if registry.Len() != 1 {
		t.Fatalf("expected a single live store, got %d", registry.Len())
	}

	restored := registry.Get(ctx, "a")
	if restored == first {
		t.Fatal("expected a fresh store after eviction")
	}
	if restored.Current() == nil || restored.Current().AccountID != 7 {
		t.Fatalf("expected identity restored from backend, got %+v", restored.Current())
	}

	first.Identity().emit(nil)
	if len(evicted.snapshot()) != 1 {
		t.Fatal("disposed store must not deliver to old subscribers")
	}
}

func TestNewRegistryRejectsZeroSize(t *testing.T) {
	if _, err := NewRegistry(persistence.NewMemoryBackend(), &fakeAuthenticator{}, 0); err == nil {
		t.Fatal("expected error")
	}
}

func TestStreamAllowsSubscribingFromHandler(t *testing.T) {
	stream := newIdentityStream(nil)

	nested := &recorder{}
	var once sync.Once
	outer := &recorder{}
	stream.Subscribe(func(identity *domain.Identity) {
		outer.record(identity)
		if identity != nil {
			once.Do(func() { stream.Subscribe(nested.record) })
		}
	})

	done := make(chan struct{})
	go func() {
		defer close(done)
		stream.emit(&domain.Identity{AccountID: 1, Role: "admin"})
		stream.emit(&domain.Identity{AccountID: 2, Role: "admin"})
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("emit blocked on a handler that subscribed")
	}

	if got := outer.snapshot(); len(got) != 3 || got[0] != nil || got[1].AccountID != 1 || got[2].AccountID != 2 {
		t.Fatalf("unexpected outer values %+v", got)
	}
	got := nested.snapshot()
	if len(got) != 2 || got[0].AccountID != 1 || got[1].AccountID != 2 {
		t.Fatalf("nested subscriber should see the current value then later updates, got %+v", got)
	}
}

func TestDisposeDropsSubscribers(t *testing.T) {
	ctx := context.Background()
	store := New(ctx, persistence.NewMemoryBackend().Namespace("d"), &fakeAuthenticator{result: adminResult(t)})

	rec := &recorder{}
	store.Identity().Subscribe(rec.record)
	store.Dispose()

	if _, err := store.Login(ctx, domain.Credentials{Email: "a@b.c", Password: "x"}); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if err := store.Logout(ctx); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if got := rec.snapshot(); len(got) != 1 || got[0] != nil {
		t.Fatalf("expected only the initial replay, got %+v", got)
	}

	late := &recorder{}
	store.Identity().Subscribe(late.record)
	if len(late.snapshot()) != 0 {
		t.Fatal("subscribing to a disposed store must not deliver")
	}
}

func TestForceLogoutWithoutIdentityPublishesNothing(t *testing.T) {
	ctx := context.Background()
	dispatcher := events.NewInMemoryDispatcher()

	var mu sync.Mutex
	var seen []events.EventType
	for _, et := range []events.EventType{events.EventLoggedOut, events.EventForcedLogout} {
		dispatcher.Subscribe(et, func(_ context.Context, e events.Event) error {
			mu.Lock()
			defer mu.Unlock()
			seen = append(seen, e.Type)
			return nil
		})
	}

	store := New(ctx, persistence.NewMemoryBackend().Namespace("anon"), &fakeAuthenticator{}, WithEvents(dispatcher))
	rec := &recorder{}
	store.Identity().Subscribe(rec.record)

	if err := store.ForceLogout(ctx, events.ReasonMissingToken, "/jobs"); err != nil {
		t.Fatalf("ForceLogout: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(seen) != 0 {
		t.Fatalf("expected no events for an anonymous session, got %v", seen)
	}
	if got := rec.snapshot(); len(got) != 2 || got[1] != nil {
		t.Fatalf("logout should still emit nil, got %+v", got)
	}
}
