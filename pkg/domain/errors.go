package domain

import "errors"

// ErrMalformedPayload is returned when a stored value cannot be decoded into a Session.
// The session store treats it as "no session" rather than a failure.
var ErrMalformedPayload = errors.New("malformed session payload")

// ErrUnsupportedMemberKey is returned when a Members key is not a JSON scalar.
// A stored members entry with such a key makes the session it belongs to load
// as empty.
var ErrUnsupportedMemberKey = errors.New("unsupported members key")

// ErrBackendClosed is returned by backends used after Close.
var ErrBackendClosed = errors.New("backend closed")
