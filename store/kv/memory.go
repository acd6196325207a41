package kv

import (
	"context"
	"sort"
	"strings"
	"sync"

	"lending/core"
)

// Memory in-process store
type Memory struct {
	mu      sync.RWMutex
	entries map[string][]byte
}

// NewMemory new memory store
func NewMemory() *Memory {
	return &Memory{entries: map[string][]byte{}}
}

var _ core.PersistentStore = (*Memory)(nil)

func (s *Memory) Get(ctx context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.entries[key]
	if !ok {
		return nil, false, nil
	}

	return append([]byte(nil), v...), true, nil
}

func (s *Memory) Set(ctx context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = append([]byte(nil), value...)
	return nil
}

func (s *Memory) Remove(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, key)
	return nil
}

// WriteBatch apply writes under one lock
func (s *Memory) WriteBatch(ctx context.Context, writes []Write) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, w := range writes {
		if w.Deleted {
			delete(s.entries, w.Key)
			continue
		}
		s.entries[w.Key] = append([]byte(nil), w.Value...)
	}

	return nil
}

// Keys sorted keys with prefix
func (s *Memory) Keys(prefix string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var keys []string
	for k := range s.entries {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}

	sort.Strings(keys)
	return keys
}
