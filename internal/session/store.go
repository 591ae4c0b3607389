package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/freight-console/internal/auth"
	"github.com/spec-kit/freight-console/internal/domain"
	"github.com/spec-kit/freight-console/internal/events"
	"github.com/spec-kit/freight-console/internal/persistence"
)

// Persisted keys, shared with the browser shell.
const (
	KeyAuthToken       = "authToken"
	KeyCurrentUser     = "currentUser"
	KeyRememberedEmail = "rememberedEmail"
)

var (
	// ErrLoginFailed is returned when the back office answers without a token.
	ErrLoginFailed = errors.New("session: login failed")
	// ErrNotAuthenticated is returned when an operation needs a stored token.
	ErrNotAuthenticated = errors.New("session: not authenticated")
)

// Authenticator performs the remote auth calls for a session.
type Authenticator interface {
	Login(ctx context.Context, creds domain.Credentials) (domain.LoginResult, error)
	Refresh(ctx context.Context, token string) (string, error)
}

// Store holds one browser context's authenticated identity and token.
type Store struct {
	id        string
	storage   persistence.Storage
	auth      Authenticator
	validator *auth.TokenValidator
	events    events.Dispatcher
	logger    *zap.Logger
	now       func() time.Time

	mu     sync.Mutex
	stream *IdentityStream
}

// Option configures a Store.
type Option func(*Store)

// WithID names the store; events carry it as the session id.
func WithID(id string) Option {
	return func(s *Store) { s.id = id }
}

// WithValidator sets the token validator used by IsAuthenticated.
func WithValidator(v *auth.TokenValidator) Option {
	return func(s *Store) {
		if v != nil {
			s.validator = v
		}
	}
}

// WithEvents publishes session events to d.
func WithEvents(d events.Dispatcher) Option {
	return func(s *Store) { s.events = d }
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New creates a store and restores the persisted identity.
// A missing or unreadable identity starts the store logged out; New never fails.
func New(ctx context.Context, storage persistence.Storage, authenticator Authenticator, opts ...Option) *Store {
	s := &Store{
		storage:   storage,
		auth:      authenticator,
		validator: auth.NewTokenValidator(),
		logger:    zap.NewNop(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.stream = newIdentityStream(s.restore(ctx))
	return s
}

func (s *Store) restore(ctx context.Context) *domain.Identity {
	raw, ok, err := s.storage.GetItem(ctx, KeyCurrentUser)
	if err != nil {
		s.logger.Warn("restore session failed", zap.String("session_id", s.id), zap.Error(err))
		return nil
	}
	if !ok || strings.TrimSpace(raw) == "" {
		return nil
	}
	var identity *domain.Identity
	if err := json.Unmarshal([]byte(raw), &identity); err != nil {
		s.logger.Warn("discarding unreadable identity", zap.String("session_id", s.id), zap.Error(err))
		return nil
	}
	return identity
}

// ID returns the console session id.
func (s *Store) ID() string {
	return s.id
}

// Identity exposes the identity stream.
func (s *Store) Identity() *IdentityStream {
	return s.stream
}

// Current returns the current identity, nil when logged out.
func (s *Store) Current() *domain.Identity {
	return s.stream.Current()
}

// CurrentIdentity resolves the identity once.
func (s *Store) CurrentIdentity(ctx context.Context) (*domain.Identity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.stream.Current(), nil
}

// Token returns the stored bearer token, empty when none is stored.
func (s *Store) Token(ctx context.Context) (string, error) {
	token, _, err := s.storage.GetItem(ctx, KeyAuthToken)
	if err != nil {
		return "", fmt.Errorf("read token: %w", err)
	}
	return token, nil
}

// IsAuthenticated reports whether a non-expired token is stored.
func (s *Store) IsAuthenticated(ctx context.Context) bool {
	token, err := s.Token(ctx)
	if err != nil || token == "" {
		return false
	}
	return !s.validator.IsExpired(token)
}

// RememberedEmail returns the login hint kept across logouts.
func (s *Store) RememberedEmail(ctx context.Context) string {
	email, _, err := s.storage.GetItem(ctx, KeyRememberedEmail)
	if err != nil {
		return ""
	}
	return email
}

// Login authenticates against the back office, persists the token and identity,
// then notifies subscribers.
func (s *Store) Login(ctx context.Context, creds domain.Credentials) (domain.Identity, error) {
	result, err := s.auth.Login(ctx, creds)
	if err != nil {
		return domain.Identity{}, err
	}
	if strings.TrimSpace(result.Token) == "" {
		return domain.Identity{}, ErrLoginFailed
	}

	payload, err := json.Marshal(result.Identity)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("encode identity: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.storage.SetItem(ctx, KeyAuthToken, result.Token); err != nil {
		return domain.Identity{}, fmt.Errorf("persist token: %w", err)
	}
	if err := s.storage.SetItem(ctx, KeyCurrentUser, string(payload)); err != nil {
		_ = s.storage.RemoveItem(ctx, KeyAuthToken)
		return domain.Identity{}, fmt.Errorf("persist identity: %w", err)
	}
	if creds.Remember {
		if err := s.storage.SetItem(ctx, KeyRememberedEmail, creds.Email); err != nil {
			s.logger.Warn("persist remembered email failed", zap.String("session_id", s.id), zap.Error(err))
		}
	} else if err := s.storage.RemoveItem(ctx, KeyRememberedEmail); err != nil {
		s.logger.Warn("clear remembered email failed", zap.String("session_id", s.id), zap.Error(err))
	}

	identity := result.Identity
	s.stream.emit(&identity)
	s.publish(ctx, events.EventLoggedIn, &identity, nil)
	return identity, nil
}

// Logout clears the token and identity and notifies subscribers with nil.
// It always emits, even when nothing was stored, so calling it twice is harmless.
// The remembered email survives.
func (s *Store) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.logoutLocked(ctx)
}

// ForceLogout logs out because authentication failed and records why.
// The event is only published when someone was actually signed in.
func (s *Store) ForceLogout(ctx context.Context, reason, returnURL string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	previous := s.stream.Current()
	err := s.logoutLocked(ctx)
	if previous != nil {
		s.publish(ctx, events.EventForcedLogout, previous, events.ForcedLogoutPayload{
			Reason:    reason,
			ReturnURL: returnURL,
		})
	}
	return err
}

func (s *Store) logoutLocked(ctx context.Context) error {
	previous := s.stream.Current()

	var errs []error
	for _, key := range []string{KeyAuthToken, KeyCurrentUser} {
		if err := s.storage.RemoveItem(ctx, key); err != nil {
			errs = append(errs, fmt.Errorf("remove %s: %w", key, err))
		}
	}

	s.stream.emit(nil)
	if previous != nil {
		s.publish(ctx, events.EventLoggedOut, previous, nil)
	}
	return errors.Join(errs...)
}

// Refresh exchanges the stored token for a fresh one. The identity is unchanged.
func (s *Store) Refresh(ctx context.Context) (string, error) {
	token, err := s.Token(ctx)
	if err != nil {
		return "", err
	}
	if token == "" {
		return "", ErrNotAuthenticated
	}

	fresh, err := s.auth.Refresh(ctx, token)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(fresh) == "" {
		return "", ErrLoginFailed
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.storage.SetItem(ctx, KeyAuthToken, fresh); err != nil {
		return "", fmt.Errorf("persist token: %w", err)
	}
	return fresh, nil
}

// Dispose drops every subscriber. Persisted state is left untouched.
func (s *Store) Dispose() {
	s.stream.close()
}

func (s *Store) publish(ctx context.Context, eventType events.EventType, identity *domain.Identity, payload interface{}) {
	if s.events == nil {
		return
	}
	event := events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		SessionID: s.id,
		Actor:     events.ActorFromIdentity(identity),
		Timestamp: s.now().UTC(),
		Payload:   payload,
	}
	if err := s.events.Publish(ctx, event); err != nil {
		s.logger.Warn("session event handler failed",
			zap.String("session_id", s.id),
			zap.String("event_type", string(eventType)),
			zap.Error(err))
	}
}
