package session

import (
	"github.com/weekian/telegraf-session-redis/pkg/bot"
	"github.com/weekian/telegraf-session-redis/pkg/domain"
)

// Handle is the mutable cell bound on a bot.Context for the duration of one update.
//
// Get returns the live value, so handlers mutate it in place:
//
//	h.Get()["count"] = 1
//
// Set replaces the cell with a shallow copy of its argument. Later mutations
// of the argument's top-level keys are not seen by the Handle.
type Handle struct {
	value domain.Session
}

// NewHandle binds an initial value. A nil session becomes an empty one.
func NewHandle(initial domain.Session) *Handle {
	if initial == nil {
		initial = domain.Session{}
	}
	return &Handle{value: initial}
}

// Get returns the current value. It is never nil.
func (h *Handle) Get() domain.Session {
	return h.value
}

// Set replaces the current value with a shallow copy of s.
// Setting nil resets the handle to an empty session, which the interceptor
// persists as a delete.
func (h *Handle) Set(s domain.Session) {
	h.value = s.Clone()
}

// FromContext returns the Handle bound under property, if any.
func FromContext(c *bot.Context, property string) (*Handle, bool) {
	v, ok := c.Get(property)
	if !ok {
		return nil, false
	}
	h, ok := v.(*Handle)
	return h, ok
}
