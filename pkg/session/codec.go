package session

import (
	"encoding/json"
	"fmt"

	"github.com/weekian/telegraf-session-redis/pkg/domain"
)

// encode renders the wire form of s. A *Members under the members field is
// replaced, in a copy, by the JSON string of its pairs; s is left untouched.
func encode(s domain.Session) (string, error) {
	out := s
	if m, ok := s.Members(); ok {
		pairs, err := m.EncodePairs()
		if err != nil {
			return "", err
		}
		out = s.Clone()
		out[domain.MembersField] = pairs
	}

	data, err := json.Marshal(out)
	if err != nil {
		return "", fmt.Errorf("failed to marshal session: %w", err)
	}
	return string(data), nil
}

// decode parses the wire form. Every failure wraps domain.ErrMalformedPayload.
// A string members field is rebuilt into *Members; other shapes pass through.
func decode(text string) (domain.Session, error) {
	var s domain.Session
	if err := json.Unmarshal([]byte(text), &s); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedPayload, err)
	}
	if s == nil {
		return domain.Session{}, nil
	}

	if raw, ok := s[domain.MembersField].(string); ok {
		m, err := domain.ParseMembers(raw)
		if err != nil {
			return nil, err
		}
		s[domain.MembersField] = m
	}
	return s, nil
}
