package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	backend "github.com/redis/go-redis/v9"
	"github.com/weekian/telegraf-session-redis/pkg/domain"
)

// Backend implements ports.Backend using Redis.
// It holds one long-lived client; the client multiplexes concurrent callers.
type Backend struct {
	client *backend.Client
	prefix string
}

// Option configures a Backend.
type Option func(*Backend)

// WithPrefix sets a namespace prepended to every session key.
// The default is no prefix, so keys are stored exactly as derived.
func WithPrefix(prefix string) Option {
	return func(b *Backend) {
		b.prefix = prefix
	}
}

// New creates a new Redis backend with options.
func New(address, password string, db int, opts ...Option) *Backend {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromURL creates a backend from a redis:// or rediss:// URL.
func NewFromURL(url string, opts ...Option) (*Backend, error) {
	options, err := backend.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}
	return NewFromClient(backend.NewClient(options), opts...), nil
}

// NewFromClient creates a new Redis backend from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Backend {
	b := &Backend{client: client}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Backend) key(key string) string {
	return b.prefix + key
}

// Get reads the raw value stored under key.
func (b *Backend) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := b.client.Get(ctx, b.key(key)).Result()
	if err != nil {
		if err == backend.Nil {
			return "", false, nil
		}
		return "", false, wrap("get", err)
	}
	return val, true, nil
}

// Set writes value with no expiration.
func (b *Backend) Set(ctx context.Context, key, value string) error {
	if err := b.client.Set(ctx, b.key(key), value, 0).Err(); err != nil {
		return wrap("set", err)
	}
	return nil
}

// Del removes key.
func (b *Backend) Del(ctx context.Context, key string) error {
	if err := b.client.Del(ctx, b.key(key)).Err(); err != nil {
		return wrap("del", err)
	}
	return nil
}

// Expire sets a TTL on key. Redis granularity for EXPIRE is one second.
func (b *Backend) Expire(ctx context.Context, key string, ttl time.Duration) error {
	if err := b.client.Expire(ctx, b.key(key), ttl).Err(); err != nil {
		return wrap("expire", err)
	}
	return nil
}

// Ping tests the Redis connection.
func (b *Backend) Ping(ctx context.Context) error {
	if err := b.client.Ping(ctx).Err(); err != nil {
		return wrap("ping", err)
	}
	return nil
}

// Close closes the redis client.
func (b *Backend) Close() error {
	return b.client.Close()
}

func wrap(op string, err error) error {
	if errors.Is(err, backend.ErrClosed) {
		return fmt.Errorf("redis %s: %w", op, domain.ErrBackendClosed)
	}
	return fmt.Errorf("redis %s: %w", op, err)
}
