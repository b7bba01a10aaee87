package memory

import (
	"context"
	"sync"
)

// KV is an in-memory implementation of persist.KV, useful for tests and for
// running without any durable storage.
type KV struct {
	mu      sync.RWMutex
	records map[string][]byte
}

func NewKV() *KV {
	return &KV{records: make(map[string][]byte)}
}

func (s *KV) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.records[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), value...), true, nil
}

func (s *KV) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[key] = append([]byte(nil), value...)
	return nil
}
