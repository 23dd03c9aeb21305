package cache

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"go-madrasah/internal/shared/clock"
)

type entry struct {
	value     []byte
	expiresAt time.Time
}

// Memory is a map guarded by a single mutex. Values are stored JSON-encoded
// so callers never share mutable state with the cache.
type Memory struct {
	mu    sync.Mutex
	items map[string]entry
	clock clock.Clock
}

func NewMemory(c clock.Clock) *Memory {
	if c == nil {
		c = clock.System()
	}
	return &Memory{items: make(map[string]entry), clock: c}
}

func (m *Memory) Get(_ context.Context, key string, dest any) error {
	m.mu.Lock()
	e, ok := m.items[key]
	if ok && !m.clock.Now().Before(e.expiresAt) {
		delete(m.items, key)
		ok = false
	}
	m.mu.Unlock()

	if !ok {
		return ErrMiss
	}
	return json.Unmarshal(e.value, dest)
}

func (m *Memory) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.items[key] = entry{value: b, expiresAt: m.clock.Now().Add(ttl)}
	m.mu.Unlock()
	return nil
}

func (m *Memory) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	for _, k := range keys {
		delete(m.items, k)
	}
	m.mu.Unlock()
	return nil
}

func (m *Memory) DeletePrefix(_ context.Context, prefix string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for k := range m.items {
		if strings.HasPrefix(k, prefix) {
			delete(m.items, k)
			n++
		}
	}
	return n, nil
}

func (m *Memory) Clear(_ context.Context) error {
	m.mu.Lock()
	m.items = make(map[string]entry)
	m.mu.Unlock()
	return nil
}

// PurgeExpired drops expired entries and returns how many were removed.
func (m *Memory) PurgeExpired() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.clock.Now()
	n := 0
	for k, e := range m.items {
		if !now.Before(e.expiresAt) {
			delete(m.items, k)
			n++
		}
	}
	return n
}

func (m *Memory) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.clock.Now()
	s := Stats{TotalKeys: len(m.items)}
	for _, e := range m.items {
		if now.Before(e.expiresAt) {
			s.ActiveKeys++
		} else {
			s.ExpiredKeys++
		}
	}
	return s
}
