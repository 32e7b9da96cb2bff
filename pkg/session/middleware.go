package session

import (
	"context"
	"log/slog"

	"github.com/weekian/telegraf-session-redis/internal/logging"
	"github.com/weekian/telegraf-session-redis/pkg/bot"
	"github.com/weekian/telegraf-session-redis/pkg/ports"
)

// Interceptor binds a session to a named context property around the rest of the chain.
//
// For each update it derives the key, loads the session, attaches a *Handle,
// runs next, and on success saves the Handle's final value. When no key can be
// derived the update passes through with no property and no backend traffic.
// When next fails the save is skipped and the update's mutations are lost.
//
// No lock is held across the cycle: concurrent updates for the same key are
// last-writer-wins.
type Interceptor struct {
	store    ports.SessionStore
	property string
	key      KeyFunc
	logger   *slog.Logger
}

// NewInterceptor creates an interceptor. A nil logger disables logging.
func NewInterceptor(store ports.SessionStore, property string, key KeyFunc, logger *slog.Logger) *Interceptor {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Interceptor{
		store:    store,
		property: property,
		key:      key,
		logger:   logger,
	}
}

// Property returns the context property name the session is bound to.
func (i *Interceptor) Property() string {
	return i.property
}

// Middleware returns the interception point as a bot.Middleware.
func (i *Interceptor) Middleware() bot.Middleware {
	return func(next bot.Handler) bot.Handler {
		return func(ctx context.Context, c *bot.Context) error {
			key, ok := i.key(c)
			if !ok || key == "" {
				return next(ctx, c)
			}

			loaded, err := i.store.Load(ctx, key)
			if err != nil {
				return err
			}
			i.logger.Debug("session snapshot", "key", key, "property", i.property, "fields", len(loaded))

			handle := NewHandle(loaded)
			c.Set(i.property, handle)

			if err := next(ctx, c); err != nil {
				return err
			}
			return i.store.Save(ctx, key, handle.Get())
		}
	}
}
