package sessionredis

import "github.com/weekian/telegraf-session-redis/pkg/session"

const (
	// DefaultProperty is the context property of the user+chat session.
	DefaultProperty = "session"
	// DefaultChatProperty is the context property of the chat session.
	DefaultChatProperty = "chatSession"
)

// Config configures a RedisSession. Zero fields take the documented defaults.
type Config struct {
	// Property names the user+chat session on the context. Default "session".
	Property string `yaml:"property" json:"property"`

	// ChatProperty names the chat session on the context. Default "chatSession".
	ChatProperty string `yaml:"chat_property" json:"chat_property"`

	// SessionKey derives the user+chat key. Default "{userId}:{chatId}".
	SessionKey session.KeyFunc `yaml:"-" json:"-"`

	// ChatSessionKey derives the chat key. Default "{chatId}".
	ChatSessionKey session.KeyFunc `yaml:"-" json:"-"`

	// Store is the backend connection configuration, passed through to the
	// Redis adapter (see redis.Options for recognized keys). Default empty.
	Store map[string]any `yaml:"store" json:"store"`

	// TTL, in seconds, expires sessions after their last write. Zero or
	// negative disables expiration.
	TTL int `yaml:"ttl" json:"ttl"`
}

// DefaultConfig returns a Config with every default filled in.
func DefaultConfig() Config {
	return Config{}.withDefaults()
}

func (c Config) withDefaults() Config {
	if c.Property == "" {
		c.Property = DefaultProperty
	}
	if c.ChatProperty == "" {
		c.ChatProperty = DefaultChatProperty
	}
	if c.SessionKey == nil {
		c.SessionKey = session.UserChatKey
	}
	if c.ChatSessionKey == nil {
		c.ChatSessionKey = session.ChatKey
	}
	if c.Store == nil {
		c.Store = map[string]any{}
	}
	return c
}
