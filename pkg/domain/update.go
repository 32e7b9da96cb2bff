package domain

import "strconv"

// User identifies the sender of an update.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username,omitempty"`
}

// Chat identifies the conversation an update belongs to.
type Chat struct {
	ID   int64  `json:"id"`
	Type string `json:"type,omitempty"`
}

// Update is the identity-bearing part of an inbound bot update.
// From and Chat are optional; session keys are only derivable when they are set.
type Update struct {
	ID   int64  `json:"update_id"`
	From *User  `json:"from,omitempty"`
	Chat *Chat  `json:"chat,omitempty"`
	Text string `json:"text,omitempty"`
}

// UserID returns the sender id as a decimal string.
func (u Update) UserID() (string, bool) {
	if u.From == nil {
		return "", false
	}
	return strconv.FormatInt(u.From.ID, 10), true
}

// ChatID returns the conversation id as a decimal string.
func (u Update) ChatID() (string, bool) {
	if u.Chat == nil {
		return "", false
	}
	return strconv.FormatInt(u.Chat.ID, 10), true
}
