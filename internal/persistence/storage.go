package persistence

import (
	"context"
	"sync"
)

// Storage is the per-browser key/value store the session lives in.
// It mirrors the browser's local storage: string keys, string values.
type Storage interface {
	GetItem(ctx context.Context, key string) (string, bool, error)
	SetItem(ctx context.Context, key, value string) error
	RemoveItem(ctx context.Context, key string) error
}

// Backend hands out an isolated Storage per console session id.
type Backend interface {
	Namespace(id string) Storage
}

// MemoryBackend keeps every namespace in process memory.
type MemoryBackend struct {
	mu    sync.RWMutex
	items map[string]map[string]string
}

// NewMemoryBackend creates an empty in-process backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{items: make(map[string]map[string]string)}
}

// Namespace returns the storage for one console session.
func (b *MemoryBackend) Namespace(id string) Storage {
	return &memoryStorage{backend: b, namespace: id}
}

type memoryStorage struct {
	backend   *MemoryBackend
	namespace string
}

func (s *memoryStorage) GetItem(_ context.Context, key string) (string, bool, error) {
	s.backend.mu.RLock()
	defer s.backend.mu.RUnlock()
	val, ok := s.backend.items[s.namespace][key]
	return val, ok, nil
}

func (s *memoryStorage) SetItem(_ context.Context, key, value string) error {
	s.backend.mu.Lock()
	defer s.backend.mu.Unlock()
	ns, ok := s.backend.items[s.namespace]
	if !ok {
		ns = make(map[string]string)
		s.backend.items[s.namespace] = ns
	}
	ns[key] = value
	return nil
}

func (s *memoryStorage) RemoveItem(_ context.Context, key string) error {
	s.backend.mu.Lock()
	defer s.backend.mu.Unlock()
	ns, ok := s.backend.items[s.namespace]
	if !ok {
		return nil
	}
	delete(ns, key)
	if len(ns) == 0 {
		delete(s.backend.items, s.namespace)
	}
	return nil
}
