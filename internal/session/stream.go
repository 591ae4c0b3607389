package session

import (
	"sort"
	"sync"

	"github.com/spec-kit/freight-console/internal/domain"
)

// IdentityStream broadcasts identity changes.
// New subscribers receive the current value immediately, then every update
// in emission order. Deliveries are queued and run one at a time by whichever
// caller started draining, so a handler may subscribe or unsubscribe from
// inside its callback. Handlers must not log in or out.
type IdentityStream struct {
	mu       sync.Mutex
	current  *domain.Identity
	subs     map[uint64]func(*domain.Identity)
	nextID   uint64
	closed   bool
	queue    []delivery
	draining bool
}

type delivery struct {
	sub   uint64
	value *domain.Identity
}

func newIdentityStream(initial *domain.Identity) *IdentityStream {
	return &IdentityStream{
		current: cloneIdentity(initial),
		subs:    make(map[uint64]func(*domain.Identity)),
	}
}

// Current returns a copy of the latest identity, nil when logged out.
func (s *IdentityStream) Current() *domain.Identity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneIdentity(s.current)
}

// Subscribe registers fn and returns a function that removes it.
// The replay of the current value is queued in the same step as the
// registration, so no later emission can overtake it.
func (s *IdentityStream) Subscribe(fn func(*domain.Identity)) func() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return func() {}
	}
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.queue = append(s.queue, delivery{sub: id, value: cloneIdentity(s.current)})
	s.mu.Unlock()

	s.drain()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

func (s *IdentityStream) emit(identity *domain.Identity) {
	s.mu.Lock()
	s.current = cloneIdentity(identity)
	ids := make([]uint64, 0, len(s.subs))
	for id := range s.subs {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		s.queue = append(s.queue, delivery{sub: id, value: cloneIdentity(identity)})
	}
	s.mu.Unlock()

	s.drain()
}

// drain runs queued deliveries until the queue is empty. A call made while
// another drain is in progress returns at once; the active drain picks up
// whatever was queued.
func (s *IdentityStream) drain() {
	s.mu.Lock()
	if s.draining {
		s.mu.Unlock()
		return
	}
	s.draining = true
	s.mu.Unlock()

	defer func() {
		if r := recover(); r != nil {
			s.mu.Lock()
			s.draining = false
			s.mu.Unlock()
			panic(r)
		}
	}()

	for {
		s.mu.Lock()
		if len(s.queue) == 0 {
			s.draining = false
			s.mu.Unlock()
			return
		}
		next := s.queue[0]
		s.queue = s.queue[1:]
		handler, ok := s.subs[next.sub]
		s.mu.Unlock()

		if ok {
			handler(next.value)
		}
	}
}

func (s *IdentityStream) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.subs = make(map[uint64]func(*domain.Identity))
	s.queue = nil
}

func cloneIdentity(identity *domain.Identity) *domain.Identity {
	if identity == nil {
		return nil
	}
	out := *identity
	return &out
}
