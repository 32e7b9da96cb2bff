package ports

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunBackendContract runs a suite of tests to verify that a Backend implementation
// adheres to the defined interface contract.
func RunBackendContract(t *testing.T, backend Backend) {
	ctx := context.Background()
	key := "contract-test-" + time.Now().Format("20060102150405")

	t.Run("Set and Get", func(t *testing.T) {
		err := backend.Set(ctx, key, `{"foo":42}`)
		require.NoError(t, err, "Set should not return error")

		value, found, err := backend.Get(ctx, key)
		require.NoError(t, err, "Get should not return error")
		assert.True(t, found)
		assert.Equal(t, `{"foo":42}`, value)
	})

	t.Run("Get Non-Existent", func(t *testing.T) {
		value, found, err := backend.Get(ctx, "non-existent-"+key)
		assert.NoError(t, err, "a missing key is not an error")
		assert.False(t, found)
		assert.Empty(t, value)
	})

	t.Run("Overwrite", func(t *testing.T) {
		require.NoError(t, backend.Set(ctx, key, "first"))
		require.NoError(t, backend.Set(ctx, key, "second"))

		value, _, err := backend.Get(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, "second", value)
	})

	t.Run("Del", func(t *testing.T) {
		require.NoError(t, backend.Set(ctx, key, "doomed"))

		err := backend.Del(ctx, key)
		require.NoError(t, err, "Del should not return error")

		_, found, err := backend.Get(ctx, key)
		require.NoError(t, err)
		assert.False(t, found, "Get after Del should report missing")

		assert.NoError(t, backend.Del(ctx, key), "deleting a missing key is not an error")
	})

	t.Run("Expire Existing", func(t *testing.T) {
		require.NoError(t, backend.Set(ctx, key, "ttl"))
		defer func() { _ = backend.Del(ctx, key) }()

		assert.NoError(t, backend.Expire(ctx, key, time.Hour))

		value, found, err := backend.Get(ctx, key)
		require.NoError(t, err)
		assert.True(t, found, "a long TTL must not evict the key immediately")
		assert.Equal(t, "ttl", value)
	})
}
