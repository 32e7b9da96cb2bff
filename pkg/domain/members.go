package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Pair is one key/value entry of Members.
type Pair struct {
	Key   any
	Value any
}

// Members is an insertion-ordered associative structure whose keys may be
// any JSON scalar (string, bool, nil or number).
//
// Numeric keys are normalized so they survive a JSON round trip unchanged:
// integral values become int64, everything else float64. Set(1, v) and
// Set(1.0, v) therefore address the same entry.
//
// The zero value is ready to use. A nil *Members reads as empty.
// Members is not safe for concurrent use.
type Members struct {
	m *orderedmap.OrderedMap[any, any]
}

// NewMembers returns Members pre-populated with pairs, in order.
func NewMembers(pairs ...Pair) (*Members, error) {
	m := &Members{}
	for _, p := range pairs {
		if err := m.Set(p.Key, p.Value); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Members) init() {
	if m.m == nil {
		m.m = orderedmap.New[any, any]()
	}
}

// Set inserts or replaces the value for key. Replacing keeps the original position.
func (m *Members) Set(key, value any) error {
	k, err := normalizeMemberKey(key)
	if err != nil {
		return err
	}
	m.init()
	m.m.Set(k, value)
	return nil
}

// Get returns the value stored for key.
func (m *Members) Get(key any) (any, bool) {
	if m == nil || m.m == nil {
		return nil, false
	}
	k, err := normalizeMemberKey(key)
	if err != nil {
		return nil, false
	}
	return m.m.Get(k)
}

// Delete removes key and reports whether it was present.
func (m *Members) Delete(key any) bool {
	if m == nil || m.m == nil {
		return false
	}
	k, err := normalizeMemberKey(key)
	if err != nil {
		return false
	}
	_, present := m.m.Delete(k)
	return present
}

// Len returns the number of entries.
func (m *Members) Len() int {
	if m == nil || m.m == nil {
		return 0
	}
	return m.m.Len()
}

// Pairs returns the entries in insertion order.
func (m *Members) Pairs() []Pair {
	out := make([]Pair, 0, m.Len())
	if m == nil || m.m == nil {
		return out
	}
	for p := m.m.Oldest(); p != nil; p = p.Next() {
		out = append(out, Pair{Key: p.Key, Value: p.Value})
	}
	return out
}

// EncodePairs renders the entries as a JSON array of [key, value] arrays.
func (m *Members) EncodePairs() (string, error) {
	pairs := m.Pairs()
	raw := make([][2]any, len(pairs))
	for i, p := range pairs {
		raw[i] = [2]any{p.Key, p.Value}
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return "", fmt.Errorf("failed to encode members: %w", err)
	}
	return string(data), nil
}

// MarshalJSON renders Members as its pair array, for display purposes.
// The session codec stores the pair array as a string instead.
func (m *Members) MarshalJSON() ([]byte, error) {
	s, err := m.EncodePairs()
	if err != nil {
		return nil, err
	}
	return []byte(s), nil
}

// UnmarshalJSON accepts the pair array produced by MarshalJSON.
func (m *Members) UnmarshalJSON(data []byte) error {
	parsed, err := ParseMembers(string(data))
	if err != nil {
		return err
	}
	*m = *parsed
	return nil
}

// ParseMembers decodes a JSON array of [key, value] arrays.
// Any structural problem, including a non-scalar key, is reported as
// ErrMalformedPayload. The session store then loads the whole session as
// empty, not just its members.
func ParseMembers(text string) (*Members, error) {
	var items []json.RawMessage
	if err := json.Unmarshal([]byte(text), &items); err != nil {
		return nil, fmt.Errorf("%w: members is not a pair array: %v", ErrMalformedPayload, err)
	}

	m := &Members{}
	for i, item := range items {
		var pair []json.RawMessage
		if err := json.Unmarshal(item, &pair); err != nil || len(pair) != 2 {
			return nil, fmt.Errorf("%w: members entry %d is not a [key, value] pair", ErrMalformedPayload, i)
		}

		// Keys keep full numeric precision until normalized.
		dec := json.NewDecoder(bytes.NewReader(pair[0]))
		dec.UseNumber()
		var key any
		if err := dec.Decode(&key); err != nil {
			return nil, fmt.Errorf("%w: members entry %d key: %v", ErrMalformedPayload, i, err)
		}

		var value any
		if err := json.Unmarshal(pair[1], &value); err != nil {
			return nil, fmt.Errorf("%w: members entry %d value: %v", ErrMalformedPayload, i, err)
		}

		if err := m.Set(key, value); err != nil {
			return nil, fmt.Errorf("%w: members entry %d: %v", ErrMalformedPayload, i, err)
		}
	}
	return m, nil
}

func normalizeMemberKey(key any) (any, error) {
	switch k := key.(type) {
	case nil, string, bool:
		return k, nil
	case int:
		return int64(k), nil
	case int8:
		return int64(k), nil
	case int16:
		return int64(k), nil
	case int32:
		return int64(k), nil
	case int64:
		return k, nil
	case uint:
		return normalizeUint(uint64(k)), nil
	case uint8:
		return int64(k), nil
	case uint16:
		return int64(k), nil
	case uint32:
		return int64(k), nil
	case uint64:
		return normalizeUint(k), nil
	case float32:
		return normalizeFloat(float64(k))
	case float64:
		return normalizeFloat(k)
	case json.Number:
		if i, err := k.Int64(); err == nil {
			return i, nil
		}
		f, err := k.Float64()
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrUnsupportedMemberKey, k.String())
		}
		return normalizeFloat(f)
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedMemberKey, key)
	}
}

func normalizeUint(u uint64) any {
	if u > math.MaxInt64 {
		return float64(u)
	}
	return int64(u)
}

func normalizeFloat(f float64) (any, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedMemberKey, f)
	}
	if f == math.Trunc(f) && f >= math.MinInt64 && f < math.MaxInt64 {
		return int64(f), nil
	}
	return f, nil
}
