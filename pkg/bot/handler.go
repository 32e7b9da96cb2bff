package bot

import "context"

// Handler processes one update.
type Handler func(ctx context.Context, c *Context) error

// Middleware wraps a Handler, running code before and after the rest of the chain.
type Middleware func(next Handler) Handler

// Chain wraps h with mws. The first middleware is the outermost one, so it
// runs first on the way in and last on the way out.
func Chain(h Handler, mws ...Middleware) Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

// Compose merges several middlewares into one, preserving order.
func Compose(mws ...Middleware) Middleware {
	return func(next Handler) Handler {
		return Chain(next, mws...)
	}
}

// Noop is a Handler that does nothing.
func Noop(ctx context.Context, c *Context) error {
	return nil
}
