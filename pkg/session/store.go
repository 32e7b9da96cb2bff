package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/weekian/telegraf-session-redis/internal/logging"
	"github.com/weekian/telegraf-session-redis/pkg/domain"
	"github.com/weekian/telegraf-session-redis/pkg/ports"
)

// Store implements ports.SessionStore over a key-value Backend.
// It holds the backend handle for its whole lifetime and is safe for
// concurrent use as long as the backend is.
type Store struct {
	backend ports.Backend
	ttl     time.Duration
	logger  *slog.Logger
}

var _ ports.SessionStore = (*Store)(nil)

// StoreOption configures the Store.
type StoreOption func(*Store)

// WithTTL expires sessions ttl after their last write. Reads never extend it.
// A non-positive ttl disables expiration.
func WithTTL(ttl time.Duration) StoreOption {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithLogger configures a logger for the Store.
func WithLogger(logger *slog.Logger) StoreOption {
	return func(s *Store) {
		s.logger = logger
	}
}

// NewStore creates a session store over backend.
func NewStore(backend ports.Backend, opts ...StoreOption) *Store {
	s := &Store{
		backend: backend,
		logger:  logging.NewNop(), // Default to no-op
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// TTL returns the configured expiration, zero if disabled.
func (s *Store) TTL() time.Duration {
	if s.ttl < 0 {
		return 0
	}
	return s.ttl
}

// Load returns the session stored under key.
// Missing keys and undecodable payloads both yield an empty Session; only
// backend failures are returned.
func (s *Store) Load(ctx context.Context, key string) (domain.Session, error) {
	raw, found, err := s.backend.Get(ctx, key)
	if err != nil {
		if errors.Is(err, domain.ErrMalformedPayload) {
			s.logger.Warn("Parse session state failed", "key", key, "err", err)
			return domain.Session{}, nil
		}
		return nil, fmt.Errorf("failed to load session %q: %w", key, err)
	}
	if !found || raw == "" {
		return domain.Session{}, nil
	}

	session, err := decode(raw)
	if err != nil {
		s.logger.Warn("Parse session state failed", "key", key, "err", err)
		return domain.Session{}, nil
	}

	s.logger.Debug("session state", "key", key, "fields", len(session))
	return session, nil
}

// Save persists session under key, or clears the key if session is empty.
// When a TTL is configured it is applied after the write; a failed expire
// is logged and does not fail the save.
func (s *Store) Save(ctx context.Context, key string, session domain.Session) error {
	if session.IsEmpty() {
		return s.Clear(ctx, key)
	}

	text, err := encode(session)
	if err != nil {
		return fmt.Errorf("failed to encode session %q: %w", key, err)
	}

	s.logger.Debug("save session", "key", key, "fields", len(session))
	if err := s.backend.Set(ctx, key, text); err != nil {
		return fmt.Errorf("failed to save session %q: %w", key, err)
	}

	if s.ttl > 0 {
		s.logger.Debug("session ttl", "key", key, "ttl", s.ttl)
		if err := s.backend.Expire(ctx, key, s.ttl); err != nil {
			s.logger.Warn("Failed to set session ttl", "key", key, "err", err)
		}
	}
	return nil
}

// Clear removes the session stored under key.
func (s *Store) Clear(ctx context.Context, key string) error {
	s.logger.Debug("clear session", "key", key)
	if err := s.backend.Del(ctx, key); err != nil {
		return fmt.Errorf("failed to clear session %q: %w", key, err)
	}
	return nil
}
