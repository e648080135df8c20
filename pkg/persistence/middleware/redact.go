package middleware

import (
	"context"
	"regexp"

	"github.com/hashhooshy/flux-labs/pkg/ports"
)

// mask replaces redacted values at rest.
const mask = "***"

type redactMiddleware struct {
	next     ports.DocumentStore
	patterns []*regexp.Regexp
}

// NewRedactMiddleware creates a middleware that masks the value of any field
// whose name matches one of the patterns before it is persisted. Reads pass
// through untouched; a masked value stays masked.
func NewRedactMiddleware(patternStrings []string) Middleware {
	patterns := make([]*regexp.Regexp, len(patternStrings))
	for i, p := range patternStrings {
		patterns[i] = regexp.MustCompile(p)
	}
	return func(next ports.DocumentStore) ports.DocumentStore {
		return &redactMiddleware{next: next, patterns: patterns}
	}
}

func (m *redactMiddleware) SetField(ctx context.Context, userID, field, value string) error {
	if m.matches(field) {
		value = mask
	}
	return m.next.SetField(ctx, userID, field, value)
}

func (m *redactMiddleware) GetField(ctx context.Context, userID, field string) (string, error) {
	return m.next.GetField(ctx, userID, field)
}

func (m *redactMiddleware) Fields(ctx context.Context, userID string) (map[string]string, error) {
	return m.next.Fields(ctx, userID)
}

func (m *redactMiddleware) DeleteField(ctx context.Context, userID, field string) error {
	return m.next.DeleteField(ctx, userID, field)
}

func (m *redactMiddleware) matches(field string) bool {
	for _, p := range m.patterns {
		if p.MatchString(field) {
			return true
		}
	}
	return false
}
