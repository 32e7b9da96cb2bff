package domain

// MembersField is the only session field given special round-trip treatment.
const MembersField = "members"

// Session is the accumulated state for one logical scope (user+chat, or chat only).
// Values must be JSON-representable, except for a *Members under MembersField.
type Session map[string]any

// IsEmpty reports whether the session has no fields. A nil session is empty.
func (s Session) IsEmpty() bool {
	return len(s) == 0
}

// Clone returns a shallow copy. The clone of a nil session is an empty, non-nil Session.
func (s Session) Clone() Session {
	out := make(Session, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Members returns the ordered members structure if one is present in memory.
func (s Session) Members() (*Members, bool) {
	m, ok := s[MembersField].(*Members)
	return m, ok
}
