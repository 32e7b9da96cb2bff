package session_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/weekian/telegraf-session-redis/pkg/adapters/redis"
)

// newRedis starts a miniredis instance and returns a backend connected to it.
func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Backend) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err, "Failed to start miniredis")
	t.Cleanup(mr.Close)

	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	b := redis.NewFromClient(client)
	t.Cleanup(func() { _ = b.Close() })
	return mr, b
}

// stubBackend records calls and lets tests inject failures per verb.
type stubBackend struct {
	mu    sync.Mutex
	data  map[string]string
	calls []string

	getErr, setErr, delErr, expireErr error
}

func newStubBackend() *stubBackend {
	return &stubBackend{data: make(map[string]string)}
}

func (s *stubBackend) record(verb, key string) {
	s.calls = append(s.calls, verb+" "+key)
}

func (s *stubBackend) Get(ctx context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("GET", key)
	if s.getErr != nil {
		return "", false, s.getErr
	}
	v, ok := s.data[key]
	return v, ok, nil
}

func (s *stubBackend) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("SET", key)
	if s.setErr != nil {
		return s.setErr
	}
	s.data[key] = value
	return nil
}

func (s *stubBackend) Del(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("DEL", key)
	if s.delErr != nil {
		return s.delErr
	}
	delete(s.data, key)
	return nil
}

func (s *stubBackend) Expire(ctx context.Context, key string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("EXPIRE", key)
	return s.expireErr
}

func (s *stubBackend) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}
