// Package tokens issues single-use form tokens scoped to an addon and a
// visitor session.
package tokens

import (
	"fmt"
	"slices"

	"github.com/GriffinCanCode/addonkit/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/addonkit/internal/session"
	"github.com/GriffinCanCode/addonkit/internal/shared/id"
)

const (
	// Namespace is the session namespace holding pending tokens
	Namespace = "_plugin_tokens"

	// Length is the number of characters in a token
	Length = 64

	key = "tokens"
)

// Store manages the pending tokens of one addon
type Store struct {
	addon    string
	backend  session.Backend
	generate func() (string, error)
	metrics  *monitoring.Metrics
}

// Option configures a Store
type Option func(*Store)

// WithGenerator replaces the random token source
func WithGenerator(fn func() (string, error)) Option {
	return func(s *Store) { s.generate = fn }
}

// WithMetrics enables token metrics
func WithMetrics(m *monitoring.Metrics) Option {
	return func(s *Store) { s.metrics = m }
}

// New creates the token store of addon on backend
func New(addon string, backend session.Backend, opts ...Option) *Store {
	s := &Store{
		addon:    addon,
		backend:  backend,
		generate: func() (string, error) { return id.RandomString(Length) },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create issues a new token, adds it to the pending set and returns it
func (s *Store) Create() (string, error) {
	var (
		token string
		err   error
	)
	s.backend.Update(Namespace, s.addon, key, func(current any, _ bool) (any, bool) {
		pending := toStrings(current)
		for {
			token, err = s.generate()
			if err != nil {
				return nil, false
			}
			if !slices.Contains(pending, token) {
				break
			}
		}
		return append(pending, token), true
	})
	if err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}

	s.metrics.RecordTokenIssued(s.addon)
	return token, nil
}

// Validate consumes token. It returns true exactly once per issued token;
// unknown tokens leave the session untouched.
func (s *Store) Validate(token string) bool {
	accepted := false
	s.backend.Update(Namespace, s.addon, key, func(current any, _ bool) (any, bool) {
		pending := toStrings(current)
		idx := slices.Index(pending, token)
		if idx < 0 {
			return nil, false
		}
		accepted = true
		return slices.Delete(pending, idx, idx+1), true
	})

	s.metrics.RecordTokenValidation(s.addon, accepted)
	return accepted
}

// Pending returns the tokens not yet validated
func (s *Store) Pending() []string {
	return toStrings(s.backend.Get(Namespace, s.addon, key, nil))
}

// toStrings copies a stored token set. Backends that serialise state may
// hand back []any.
func toStrings(v any) []string {
	switch t := v.(type) {
	case []string:
		return append([]string(nil), t...)
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
