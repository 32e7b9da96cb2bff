package ports

import (
	"context"
	"time"
)

// Backend is the external key-value collaborator.
// Values are opaque text; the backend never interprets them.
type Backend interface {
	// Get returns the stored value. A missing key is reported as found == false
	// with a nil error.
	Get(ctx context.Context, key string) (value string, found bool, err error)

	// Set writes value under key without expiration.
	Set(ctx context.Context, key, value string) error

	// Del removes key. Deleting a missing key is not an error.
	Del(ctx context.Context, key string) error

	// Expire sets a time-to-live on an existing key.
	Expire(ctx context.Context, key string, ttl time.Duration) error
}
