package session

import (
	"context"
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/spec-kit/freight-console/internal/persistence"
)

// Registry keeps one live Store per console session id.
// Stores evicted from the cache are disposed; their persisted state stays in the
// backend and is restored on the next lookup.
type Registry struct {
	mu      sync.Mutex
	cache   *lru.Cache[string, *Store]
	backend persistence.Backend
	auth    Authenticator
	opts    []Option
}

// NewRegistry builds a registry holding at most size live stores.
func NewRegistry(backend persistence.Backend, authenticator Authenticator, size int, opts ...Option) (*Registry, error) {
	if size <= 0 {
		return nil, fmt.Errorf("session registry size must be positive, got %d", size)
	}
	cache, err := lru.NewWithEvict[string, *Store](size, func(_ string, s *Store) {
		s.Dispose()
	})
	if err != nil {
		return nil, fmt.Errorf("create session cache: %w", err)
	}
	return &Registry{cache: cache, backend: backend, auth: authenticator, opts: opts}, nil
}

// Get returns the store for id, restoring it from the backend when needed.
func (r *Registry) Get(ctx context.Context, id string) *Store {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.cache.Get(id); ok {
		return s
	}
	opts := append(append([]Option{}, r.opts...), WithID(id))
	s := New(ctx, r.backend.Namespace(id), r.auth, opts...)
	r.cache.Add(id, s)
	return s
}

// Len reports the number of live stores.
func (r *Registry) Len() int {
	return r.cache.Len()
}
