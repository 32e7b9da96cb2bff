/*
Package sessionredis persists bot conversation state in Redis.

It loads a per-conversation Session before an update is handled and saves the
final value once the handler returns. Two interception points are provided:
one keyed by user and chat ("session") and one keyed by chat only
("chatSession").

# Usage

	rs, err := sessionredis.New(sessionredis.Config{
		Store: map[string]any{"url": "redis://localhost:6379/0"},
		TTL:   3600,
	})
	if err != nil {
		log.Fatal(err)
	}
	defer rs.Close()

	handler := bot.Chain(func(ctx context.Context, c *bot.Context) error {
		s, ok := rs.Session(c)
		if !ok {
			return nil // no sender or chat on this update
		}
		count, _ := s.Get()["count"].(float64)
		s.Get()["count"] = count + 1
		return nil
	}, rs.Middleware(), rs.ChatMiddleware())

# Persistence rules

  - An empty session is never written; the key is deleted instead.
  - The TTL, if configured, is applied after every write and never on reads.
  - A stored value that cannot be decoded loads as an empty session.
  - If the handler returns an error, nothing is saved for that update.
  - Concurrent updates for the same key are last-writer-wins.

The "members" field may hold a *domain.Members, an insertion-ordered map with
non-string keys. It is stored as a JSON string of [key, value] pairs and rebuilt
on load.
*/
package sessionredis
