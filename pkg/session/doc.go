/*
Package session implements the session lifecycle: loading a per-scope Session
before an update is handled and persisting the final value afterwards.

The Store translates a storage key into a Session over any ports.Backend. It
encodes the ordered "members" field as a JSON string of [key, value] pairs,
and it deletes the key instead of writing an empty session. The Interceptor
derives the key from the update, binds a Handle on the bot.Context, runs the
rest of the chain, then saves whatever the Handle holds.

# Consistency

There is no locking around load, mutate and save. Two concurrent updates that
derive the same key each work on their own copy and the later save overwrites
the earlier one entirely (last writer wins).

# Corrupt payloads

A stored value that cannot be decoded loads as an empty Session and is logged
at Warn level. The next save then replaces it. This hides corruption from the
handler; it is current behavior, not an accident.
*/
package session
