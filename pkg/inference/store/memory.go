package store

import (
	"context"
	"sync"
)

// Memory is an in-process store. It counts fetches per reference.
type Memory struct {
	mu        sync.RWMutex
	artifacts map[string][]byte
	fetches   map[string]int
}

// NewMemory returns a store seeded with artifacts keyed by reference.
func NewMemory(artifacts map[string][]byte) *Memory {
	m := &Memory{
		artifacts: make(map[string][]byte, len(artifacts)),
		fetches:   make(map[string]int),
	}
	for ref, data := range artifacts {
		m.artifacts[ref] = append([]byte(nil), data...)
	}
	return m
}

// Put stores or replaces an artifact.
func (m *Memory) Put(ref string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.artifacts[ref] = append([]byte(nil), data...)
}

// Fetch implements Store.
func (m *Memory) Fetch(ctx context.Context, ref string) ([]byte, error) {
	m.mu.Lock()
	m.fetches[ref]++
	m.mu.Unlock()

	return firstAvailable(ctx, "", ref, func(_ context.Context, key string) ([]byte, error) {
		m.mu.RLock()
		defer m.mu.RUnlock()
		data, ok := m.artifacts[key]
		if !ok {
			return nil, ErrNotFound
		}
		return append([]byte(nil), data...), nil
	})
}

// Fetches reports how many times ref was requested.
func (m *Memory) Fetches(ref string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.fetches[ref]
}
