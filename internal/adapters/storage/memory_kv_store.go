package storage

import (
	"context"
	"sync"
)

// MemoryKeyValueStore keeps entries in process memory.
// Useful for tests and for running without any durable backend.
type MemoryKeyValueStore struct {
	mu sync.RWMutex
	m  map[string]string
}

func NewMemoryKeyValueStore() *MemoryKeyValueStore {
	return &MemoryKeyValueStore{m: make(map[string]string)}
}

func (s *MemoryKeyValueStore) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.m[key]
	return v, ok, nil
}

func (s *MemoryKeyValueStore) Set(ctx context.Context, key string, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[key] = value
	return nil
}
