package sessionredis

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/weekian/telegraf-session-redis/internal/logging"
	"github.com/weekian/telegraf-session-redis/pkg/adapters/redis"
	"github.com/weekian/telegraf-session-redis/pkg/bot"
	"github.com/weekian/telegraf-session-redis/pkg/persistence/middleware"
	"github.com/weekian/telegraf-session-redis/pkg/ports"
	"github.com/weekian/telegraf-session-redis/pkg/session"
)

// RedisSession is the high-level entry point of the library. It owns the
// backend connection and exposes the two interception points.
type RedisSession struct {
	config  Config
	backend ports.Backend
	closer  io.Closer
	store   ports.SessionStore
	user    *session.Interceptor
	chat    *session.Interceptor
	logger  *slog.Logger
}

type options struct {
	logger             *slog.Logger
	storeMiddlewares   []middleware.StoreMiddleware
	backendMiddlewares []middleware.BackendMiddleware
}

// Option defines a functional option for configuring a RedisSession.
type Option func(*options)

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithStoreMiddleware wraps the session store, e.g. with metrics or redaction.
// The first middleware is the outermost.
func WithStoreMiddleware(mws ...middleware.StoreMiddleware) Option {
	return func(o *options) {
		o.storeMiddlewares = append(o.storeMiddlewares, mws...)
	}
}

// WithBackendMiddleware wraps the backend, e.g. with encryption.
// The first middleware is the outermost.
func WithBackendMiddleware(mws ...middleware.BackendMiddleware) Option {
	return func(o *options) {
		o.backendMiddlewares = append(o.backendMiddlewares, mws...)
	}
}

// New creates a RedisSession connected to the Redis described by cfg.Store.
// The connection is established lazily by the client; New does not ping.
func New(cfg Config, opts ...Option) (*RedisSession, error) {
	cfg = cfg.withDefaults()

	storeOpts, err := redis.DecodeOptions(cfg.Store)
	if err != nil {
		return nil, err
	}
	client, err := redis.Open(storeOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to create redis backend: %w", err)
	}

	return NewWithBackend(client, cfg, opts...), nil
}

// NewWithBackend creates a RedisSession over an existing backend.
// Close closes the backend if it implements io.Closer.
func NewWithBackend(backend ports.Backend, cfg Config, opts ...Option) *RedisSession {
	cfg = cfg.withDefaults()

	o := options{logger: logging.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}

	var closer io.Closer
	if c, ok := backend.(io.Closer); ok {
		closer = c
	}

	wrapped := middleware.ApplyBackend(backend, o.backendMiddlewares...)

	storeOpts := []session.StoreOption{session.WithLogger(o.logger)}
	if cfg.TTL > 0 {
		storeOpts = append(storeOpts, session.WithTTL(time.Duration(cfg.TTL)*time.Second))
	}
	store := middleware.ApplyStore(session.NewStore(wrapped, storeOpts...), o.storeMiddlewares...)

	return &RedisSession{
		config:  cfg,
		backend: backend,
		closer:  closer,
		store:   store,
		user:    session.NewInterceptor(store, cfg.Property, cfg.SessionKey, o.logger),
		chat:    session.NewInterceptor(store, cfg.ChatProperty, cfg.ChatSessionKey, o.logger),
		logger:  o.logger,
	}
}

// Middleware binds the user+chat session under Config.Property.
func (rs *RedisSession) Middleware() bot.Middleware {
	return rs.user.Middleware()
}

// ChatMiddleware binds the chat session under Config.ChatProperty.
func (rs *RedisSession) ChatMiddleware() bot.Middleware {
	return rs.chat.Middleware()
}

// Session returns the user+chat session bound on c.
func (rs *RedisSession) Session(c *bot.Context) (*session.Handle, bool) {
	return session.FromContext(c, rs.config.Property)
}

// ChatSession returns the chat session bound on c.
func (rs *RedisSession) ChatSession(c *bot.Context) (*session.Handle, bool) {
	return session.FromContext(c, rs.config.ChatProperty)
}

// Store returns the (possibly decorated) session store.
func (rs *RedisSession) Store() ports.SessionStore {
	return rs.store
}

// Config returns the effective configuration, defaults included.
func (rs *RedisSession) Config() Config {
	return rs.config
}

// Close releases the backend connection.
func (rs *RedisSession) Close() error {
	if rs.closer == nil {
		return nil
	}
	return rs.closer.Close()
}

// Logger returns the logger shared by the store and interceptors.
func (rs *RedisSession) Logger() *slog.Logger {
	return rs.logger
}
