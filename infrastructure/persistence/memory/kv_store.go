// Package memory is an in-process key-value store for tests and demos.
package memory

import (
	"context"
	"strings"
	"sync"

	pkgerrors "fillai-backend/pkg/errors"
)

// KVStore keeps values in a map. Values are copied on the way in and out.
type KVStore struct {
	mu     sync.RWMutex
	data   map[string][]byte
	closed bool
}

// NewKVStore creates an empty store.
func NewKVStore() *KVStore {
	return &KVStore{data: make(map[string][]byte)}
}

func (s *KVStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, pkgerrors.NewUnavailableError("memory store")
	}
	v, ok := s.data[key]
	if !ok {
		return nil, pkgerrors.NewNotFoundError("key " + key)
	}
	return append([]byte(nil), v...), nil
}

func (s *KVStore) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return pkgerrors.NewUnavailableError("memory store")
	}
	s.data[key] = append([]byte(nil), value...)
	return nil
}

func (s *KVStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return pkgerrors.NewUnavailableError("memory store")
	}
	delete(s.data, key)
	return nil
}

func (s *KVStore) List(_ context.Context, prefix string) (map[string][]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, pkgerrors.NewUnavailableError("memory store")
	}
	out := make(map[string][]byte)
	for k, v := range s.data {
		if strings.HasPrefix(k, prefix) {
			out[k] = append([]byte(nil), v...)
		}
	}
	return out, nil
}

func (s *KVStore) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return nil
}
