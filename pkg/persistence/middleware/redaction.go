package middleware

import (
	"context"
	"regexp"

	"github.com/weekian/telegraf-session-redis/pkg/domain"
	"github.com/weekian/telegraf-session-redis/pkg/ports"
)

type redactionMiddleware struct {
	next     ports.SessionStore
	patterns []*regexp.Regexp
}

// NewRedactionMiddleware creates a middleware that masks, before saving, the values
// of session fields (top-level or in nested objects) whose key matches a pattern.
// Members entries are not inspected.
func NewRedactionMiddleware(patternStrings []string) StoreMiddleware {
	patterns := make([]*regexp.Regexp, len(patternStrings))
	for i, p := range patternStrings {
		patterns[i] = regexp.MustCompile(p)
	}
	return func(next ports.SessionStore) ports.SessionStore {
		return &redactionMiddleware{next: next, patterns: patterns}
	}
}

func (m *redactionMiddleware) Load(ctx context.Context, key string) (domain.Session, error) {
	return m.next.Load(ctx, key)
}

func (m *redactionMiddleware) Save(ctx context.Context, key string, session domain.Session) error {
	if session.IsEmpty() {
		return m.next.Save(ctx, key, session)
	}

	// Deep copy so the in-memory session seen by handlers is never masked.
	cloned := domain.Session(deepCopyMap(session))
	maskMap(cloned, m.patterns)

	return m.next.Save(ctx, key, cloned)
}

func (m *redactionMiddleware) Clear(ctx context.Context, key string) error {
	return m.next.Clear(ctx, key)
}

// Helpers

func deepCopyMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		if subMap, ok := v.(map[string]any); ok {
			out[k] = deepCopyMap(subMap)
		} else {
			out[k] = v // shallow copy of value
		}
	}
	return out
}

func maskMap(m map[string]any, patterns []*regexp.Regexp) {
	for k, v := range m {
		// Members keep their pair structure so the session still decodes.
		if _, ok := v.(*domain.Members); ok {
			continue
		}
		for _, p := range patterns {
			if p.MatchString(k) {
				m[k] = "***"
				break
			}
		}

		if subMap, ok := v.(map[string]any); ok {
			maskMap(subMap, patterns)
		}
	}
}
