package store

import (
	"context"
	"sync"
	"time"
)

type memEntry struct {
	data      []byte
	expiresAt time.Time
}

// Memory keeps slots in process memory with an optional TTL.
type Memory struct {
	mu      sync.RWMutex
	items   map[string]memEntry
	ttl     time.Duration
	nowFunc func() time.Time // For testing
}

// NewMemory creates a memory store. A zero ttl keeps entries forever.
func NewMemory(ttl time.Duration) *Memory {
	return &Memory{
		items:   make(map[string]memEntry),
		ttl:     ttl,
		nowFunc: time.Now,
	}
}

// Get returns a copy of the stored bytes.
func (m *Memory) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.items[key]
	if !ok || m.expired(e) {
		return nil, ErrNotFound
	}
	return append([]byte(nil), e.data...), nil
}

// Set stores a copy of data, refreshing the TTL.
func (m *Memory) Set(ctx context.Context, key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e := memEntry{data: append([]byte(nil), data...)}
	if m.ttl > 0 {
		e.expiresAt = m.nowFunc().Add(m.ttl)
	}
	m.items[key] = e
	return nil
}

// Delete removes a key.
func (m *Memory) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.items, key)
	return nil
}

// Cleanup drops expired entries.
func (m *Memory) Cleanup() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for key, e := range m.items {
		if m.expired(e) {
			delete(m.items, key)
		}
	}
}

// RunCleanup calls Cleanup every interval until ctx is done.
func (m *Memory) RunCleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Cleanup()
		}
	}
}

// Len returns the number of entries, including expired ones not yet cleaned up.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}

func (m *Memory) expired(e memEntry) bool {
	return !e.expiresAt.IsZero() && m.nowFunc().After(e.expiresAt)
}
