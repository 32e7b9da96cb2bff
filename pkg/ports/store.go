package ports

import (
	"context"

	"github.com/weekian/telegraf-session-redis/pkg/domain"
)

// SessionStore translates a storage key into a Session and back.
type SessionStore interface {
	// Load returns the session stored under key, or an empty Session if there is none.
	// Only backend failures are returned as errors.
	Load(ctx context.Context, key string) (domain.Session, error)

	// Save persists session under key. An empty or nil session clears the key.
	Save(ctx context.Context, key string, session domain.Session) error

	// Clear removes the session stored under key.
	Clear(ctx context.Context, key string) error
}
