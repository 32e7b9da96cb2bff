package middleware

import "github.com/weekian/telegraf-session-redis/pkg/ports"

// StoreMiddleware allows wrapping a SessionStore to add behavior.
type StoreMiddleware func(ports.SessionStore) ports.SessionStore

// BackendMiddleware allows wrapping a Backend to transform stored text.
type BackendMiddleware func(ports.Backend) ports.Backend

// ApplyStore wraps store with mws; the first middleware is the outermost.
func ApplyStore(store ports.SessionStore, mws ...StoreMiddleware) ports.SessionStore {
	for i := len(mws) - 1; i >= 0; i-- {
		store = mws[i](store)
	}
	return store
}

// ApplyBackend wraps backend with mws; the first middleware is the outermost.
func ApplyBackend(backend ports.Backend, mws ...BackendMiddleware) ports.Backend {
	for i := len(mws) - 1; i >= 0; i-- {
		backend = mws[i](backend)
	}
	return backend
}
