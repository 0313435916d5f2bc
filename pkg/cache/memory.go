package cache

import (
	"context"
	"sync"
	"time"
)

// MemoryOption configures the in-memory cache.
type MemoryOption func(*memoryConfig)

type memoryConfig struct {
	defaultTTL time.Duration
	sweepEvery time.Duration
}

// WithDefaultTTL sets the TTL used when Set gets a zero TTL.
// Default: 1 hour.
func WithDefaultTTL(d time.Duration) MemoryOption {
	return func(c *memoryConfig) {
		c.defaultTTL = d
	}
}

// WithCleanupInterval sets how often expired entries are swept.
// Zero disables the background sweep. Default: 1 minute.
func WithCleanupInterval(d time.Duration) MemoryOption {
	return func(c *memoryConfig) {
		c.sweepEvery = d
	}
}

type item[V any] struct {
	value     V
	expiresAt time.Time // zero = never
}

func (i item[V]) expired(now time.Time) bool {
	return !i.expiresAt.IsZero() && now.After(i.expiresAt)
}

// Memory is a process-local cache with TTL expiration.
type Memory[V any] struct {
	items  map[string]item[V]
	cfg    memoryConfig
	done   chan struct{}
	mu     sync.RWMutex
	closed bool
}

// NewMemory creates an in-memory cache.
func NewMemory[V any](opts ...MemoryOption) *Memory[V] {
	cfg := memoryConfig{defaultTTL: time.Hour, sweepEvery: time.Minute}
	for _, opt := range opts {
		opt(&cfg)
	}

	m := &Memory[V]{
		items: make(map[string]item[V]),
		cfg:   cfg,
		done:  make(chan struct{}),
	}
	if cfg.sweepEvery > 0 {
		go m.sweep()
	}
	return m
}

func (m *Memory[V]) Get(_ context.Context, key string) (V, error) {
	m.mu.RLock()
	it, ok := m.items[key]
	m.mu.RUnlock()

	if !ok || it.expired(time.Now()) {
		var zero V
		return zero, ErrNotFound
	}
	return it.value, nil
}

func (m *Memory[V]) Set(_ context.Context, key string, value V, ttl time.Duration) error {
	if ttl == 0 {
		ttl = m.cfg.defaultTTL
	}
	it := item[V]{value: value}
	if ttl > 0 {
		it.expiresAt = time.Now().Add(ttl)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	m.items[key] = it
	return nil
}

func (m *Memory[V]) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, key)
	return nil
}

func (m *Memory[V]) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	clear(m.items)
	return nil
}

// Len returns the number of stored entries, expired ones included until
// the next sweep.
func (m *Memory[V]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}

// Close stops the sweeper. It is safe to call more than once.
func (m *Memory[V]) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.closed {
		m.closed = true
		close(m.done)
	}
	return nil
}

func (m *Memory[V]) sweep() {
	ticker := time.NewTicker(m.cfg.sweepEvery)
	defer ticker.Stop()

	for {
		select {
		case <-m.done:
			return
		case now := <-ticker.C:
			m.mu.Lock()
			for k, it := range m.items {
				if it.expired(now) {
					delete(m.items, k)
				}
			}
			m.mu.Unlock()
		}
	}
}

var _ Cache[any] = (*Memory[any])(nil)
