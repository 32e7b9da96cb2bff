package bot

import "github.com/weekian/telegraf-session-redis/pkg/domain"

// Context carries one inbound update through the middleware chain.
// A Context serves a single update and is not safe for concurrent use.
type Context struct {
	Update domain.Update

	requestID string
	props     map[string]any
}

// NewContext wraps an update.
func NewContext(update domain.Update) *Context {
	return &Context{
		Update: update,
		props:  make(map[string]any),
	}
}

// Set attaches a named property.
func (c *Context) Set(name string, value any) {
	if c.props == nil {
		c.props = make(map[string]any)
	}
	c.props[name] = value
}

// Get returns a named property.
func (c *Context) Get(name string) (any, bool) {
	v, ok := c.props[name]
	return v, ok
}

// Has reports whether a property is attached.
func (c *Context) Has(name string) bool {
	_, ok := c.props[name]
	return ok
}

// RequestID returns the id assigned by RequestLogger, if any.
func (c *Context) RequestID() string {
	return c.requestID
}
