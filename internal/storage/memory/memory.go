// Package memory keeps slots in process memory. Data does not survive a
// restart.
package memory

import (
	"context"
	"slices"
	"sync"
)

type Storage struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func New() *Storage {
	return &Storage{data: make(map[string][]byte)}
}

func (s *Storage) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.data[key]), nil
}

func (s *Storage) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = slices.Clone(value)
	return nil
}

func (s *Storage) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

func (s *Storage) Close() error {
	return nil
}
