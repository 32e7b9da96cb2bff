// Package demo contains a small counting bot used by sessionctl and the tests.
package demo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/weekian/telegraf-session-redis/pkg/bot"
	"github.com/weekian/telegraf-session-redis/pkg/domain"
	"github.com/weekian/telegraf-session-redis/pkg/session"
)

// ResetCommand clears the sender's session in the current chat.
const ResetCommand = "/reset"

// SessionAccessor returns the session bound on a context.
type SessionAccessor func(c *bot.Context) (*session.Handle, bool)

// Counter replies with per-user and per-chat message counts.
//
// The user session keeps "count"; the chat session keeps "messages" and
// a "members" map of user id to username in join order.
type Counter struct {
	Out         io.Writer
	Session     SessionAccessor
	ChatSession SessionAccessor
}

// Handle implements bot.Handler.
func (h *Counter) Handle(ctx context.Context, c *bot.Context) error {
	if h.Out == nil {
		return errors.New("counter has no output")
	}

	user, hasUser := h.session(h.Session, c)
	chat, hasChat := h.session(h.ChatSession, c)

	if hasUser && strings.TrimSpace(c.Update.Text) == ResetCommand {
		user.Set(nil)
		_, err := fmt.Fprintf(h.Out, "chat %d: session reset\n", c.Update.Chat.ID)
		return err
	}

	var messages float64
	var members int
	if hasChat {
		messages, members = h.trackChat(c, chat)
	}

	if !hasUser {
		if !hasChat {
			return nil
		}
		_, err := fmt.Fprintf(h.Out, "chat %d: %v messages\n", c.Update.Chat.ID, messages)
		return err
	}

	count := asNumber(user.Get()["count"]) + 1
	user.Get()["count"] = count

	_, err := fmt.Fprintf(h.Out, "chat %d: user %d sent %v messages (chat total %v, %d members)\n",
		c.Update.Chat.ID, c.Update.From.ID, count, messages, members)
	return err
}

func (h *Counter) session(get SessionAccessor, c *bot.Context) (*session.Handle, bool) {
	if get == nil {
		return nil, false
	}
	return get(c)
}

func (h *Counter) trackChat(c *bot.Context, chat *session.Handle) (float64, int) {
	s := chat.Get()
	messages := asNumber(s["messages"]) + 1
	s["messages"] = messages

	if c.Update.From == nil {
		if m, ok := s.Members(); ok {
			return messages, m.Len()
		}
		return messages, 0
	}

	m, ok := s.Members()
	if !ok {
		m = &domain.Members{}
		s[domain.MembersField] = m
	}
	// int64 ids are always valid member keys.
	_ = m.Set(c.Update.From.ID, c.Update.From.Username)
	return messages, m.Len()
}

func asNumber(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case int64:
		return float64(n)
	}
	return 0
}
