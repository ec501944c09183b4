package session

import (
	"context"
	"sync"
)

// MemoryStore keeps sessions in process memory. Sessions are lost on restart.
type MemoryStore struct {
	mu     sync.RWMutex
	scopes map[string]map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{scopes: make(map[string]map[string]string)}
}

func (s *MemoryStore) Get(_ context.Context, scope, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.scopes[scope][key]
	return v, ok, nil
}

func (s *MemoryStore) Set(_ context.Context, scope, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	kv, ok := s.scopes[scope]
	if !ok {
		kv = make(map[string]string, 3)
		s.scopes[scope] = kv
	}
	kv[key] = value
	return nil
}

func (s *MemoryStore) Remove(_ context.Context, scope, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.scopes[scope], key)
	if len(s.scopes[scope]) == 0 {
		delete(s.scopes, scope)
	}
	return nil
}

func (s *MemoryStore) Ping(context.Context) error { return nil }
