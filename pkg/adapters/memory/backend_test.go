package memory_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/weekian/telegraf-session-redis/pkg/adapters/memory"
	"github.com/weekian/telegraf-session-redis/pkg/domain"
	"github.com/weekian/telegraf-session-redis/pkg/ports"
)

func TestMemoryBackend_Contract(t *testing.T) {
	ports.RunBackendContract(t, memory.NewBackend())
}

// fakeClock is advanced manually by tests.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestMemoryBackend_Expiration(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1700000000, 0)}
	b := memory.NewBackend(memory.WithClock(clock.Now))
	ctx := context.Background()

	require.NoError(t, b.Set(ctx, "k", "v"))
	require.NoError(t, b.Expire(ctx, "k", 10*time.Second))
	assert.Equal(t, 10*time.Second, b.TTL("k"))

	clock.Advance(5 * time.Second)
	_, found, err := b.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, found, "reads never evict before the deadline")
	assert.Equal(t, 5*time.Second, b.TTL("k"), "reads never reset the TTL")

	clock.Advance(6 * time.Second)
	_, found, err = b.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Empty(t, b.Keys())
}

func TestMemoryBackend_SetClearsTTL(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1700000000, 0)}
	b := memory.NewBackend(memory.WithClock(clock.Now))
	ctx := context.Background()

	require.NoError(t, b.Set(ctx, "k", "v1"))
	require.NoError(t, b.Expire(ctx, "k", time.Second))
	require.NoError(t, b.Set(ctx, "k", "v2"))

	clock.Advance(time.Hour)
	v, found, err := b.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "v2", v)
}

func TestMemoryBackend_ExpireMissingKey(t *testing.T) {
	b := memory.NewBackend()
	assert.NoError(t, b.Expire(context.Background(), "missing", time.Second))
	assert.Empty(t, b.Keys())
}

func TestMemoryBackend_Closed(t *testing.T) {
	b := memory.NewBackend()
	require.NoError(t, b.Close())

	ctx := context.Background()
	_, _, err := b.Get(ctx, "k")
	assert.ErrorIs(t, err, domain.ErrBackendClosed)
	assert.ErrorIs(t, b.Set(ctx, "k", "v"), domain.ErrBackendClosed)
	assert.ErrorIs(t, b.Del(ctx, "k"), domain.ErrBackendClosed)
	assert.ErrorIs(t, b.Expire(ctx, "k", time.Second), domain.ErrBackendClosed)
}

func TestMemoryBackend_Concurrent(t *testing.T) {
	b := memory.NewBackend()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = b.Set(ctx, "shared", "v")
			_, _, _ = b.Get(ctx, "shared")
		}()
	}
	wg.Wait()

	v, found, err := b.Get(ctx, "shared")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "v", v)
}
