package session

import "github.com/weekian/telegraf-session-redis/pkg/bot"

// KeyFunc derives the storage key for an update.
// Returning false disables the session for that update.
type KeyFunc func(c *bot.Context) (string, bool)

// UserChatKey derives "{userId}:{chatId}". It needs both the sender and the chat.
func UserChatKey(c *bot.Context) (string, bool) {
	uid, ok := c.Update.UserID()
	if !ok {
		return "", false
	}
	cid, ok := c.Update.ChatID()
	if !ok {
		return "", false
	}
	return uid + ":" + cid, true
}

// ChatKey derives "{chatId}". It needs the chat only.
func ChatKey(c *bot.Context) (string, bool) {
	return c.Update.ChatID()
}
