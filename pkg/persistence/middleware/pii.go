package middleware

import (
	"context"
	"fmt"
	"regexp"

	"github.com/aretw0/selim/pkg/domain"
	"github.com/aretw0/selim/pkg/ports"
)

// Mask replaces every redacted match in stored turn text.
const Mask = "***"

// DefaultRedactPatterns match e-mail addresses and Turkish mobile numbers.
var DefaultRedactPatterns = []string{
	`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`,
	`(?:\+90|0)?\s?5\d{2}\s?\d{3}\s?\d{2}\s?\d{2}`,
}

type piiMiddleware struct {
	next     ports.TranscriptStore
	patterns []*regexp.Regexp
}

// NewPIIMiddleware creates a middleware that masks text matching the patterns before it is stored.
// The in-memory transcript keeps the original text.
func NewPIIMiddleware(patternStrings []string) (Middleware, error) {
	patterns := make([]*regexp.Regexp, len(patternStrings))
	for i, p := range patternStrings {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid redact pattern %q: %w", p, err)
		}
		patterns[i] = re
	}
	return func(next ports.TranscriptStore) ports.TranscriptStore {
		return &piiMiddleware{next: next, patterns: patterns}
	}, nil
}

func (m *piiMiddleware) Save(ctx context.Context, t *domain.Transcript) error {
	// Turns are values, so masking the snapshot leaves t untouched.
	masked := t.Snapshot()
	for i := range masked.Turns {
		for _, p := range m.patterns {
			masked.Turns[i].Text = p.ReplaceAllString(masked.Turns[i].Text, Mask)
		}
	}
	return m.next.Save(ctx, masked)
}

func (m *piiMiddleware) Load(ctx context.Context) (*domain.Transcript, error) {
	return m.next.Load(ctx)
}

func (m *piiMiddleware) Delete(ctx context.Context) error {
	return m.next.Delete(ctx)
}
