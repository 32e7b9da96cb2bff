package memory

import (
	"context"
	"sync"
	"time"

	"github.com/weekian/telegraf-session-redis/pkg/domain"
)

type entry struct {
	value     string
	expiresAt time.Time // zero means no expiration
}

// Backend implements ports.Backend in memory.
// Safe for concurrent use. Expired keys are evicted lazily on access.
type Backend struct {
	data   map[string]entry
	mu     sync.RWMutex
	now    func() time.Time
	closed bool
}

// Option configures a Backend.
type Option func(*Backend)

// WithClock overrides the time source used for expiration.
func WithClock(now func() time.Time) Option {
	return func(b *Backend) {
		b.now = now
	}
}

// NewBackend creates a new in-memory backend.
func NewBackend(opts ...Option) *Backend {
	b := &Backend{
		data: make(map[string]entry),
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Backend) live(e entry) bool {
	return e.expiresAt.IsZero() || b.now().Before(e.expiresAt)
}

// Get returns the stored value.
func (b *Backend) Get(ctx context.Context, key string) (string, bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return "", false, domain.ErrBackendClosed
	}

	e, ok := b.data[key]
	if !ok || !b.live(e) {
		return "", false, nil
	}
	return e.value, true, nil
}

// Set stores value and clears any previous expiration, matching Redis SET.
func (b *Backend) Set(ctx context.Context, key, value string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return domain.ErrBackendClosed
	}

	b.data[key] = entry{value: value}
	return nil
}

// Del removes key.
func (b *Backend) Del(ctx context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return domain.ErrBackendClosed
	}

	delete(b.data, key)
	return nil
}

// Expire sets a TTL on an existing key. Missing keys are ignored.
// A non-positive ttl deletes the key, as Redis does.
func (b *Backend) Expire(ctx context.Context, key string, ttl time.Duration) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return domain.ErrBackendClosed
	}

	e, ok := b.data[key]
	if !ok || !b.live(e) {
		delete(b.data, key)
		return nil
	}
	if ttl <= 0 {
		delete(b.data, key)
		return nil
	}
	e.expiresAt = b.now().Add(ttl)
	b.data[key] = e
	return nil
}

// TTL returns the remaining time-to-live of key, or zero if it has none.
func (b *Backend) TTL(key string) time.Duration {
	b.mu.RLock()
	defer b.mu.RUnlock()

	e, ok := b.data[key]
	if !ok || e.expiresAt.IsZero() || !b.live(e) {
		return 0
	}
	return e.expiresAt.Sub(b.now())
}

// Keys returns the live keys, in no particular order.
func (b *Backend) Keys() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	keys := make([]string, 0, len(b.data))
	for k, e := range b.data {
		if b.live(e) {
			keys = append(keys, k)
		}
	}
	return keys
}

// Close rejects further operations.
func (b *Backend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	return nil
}
