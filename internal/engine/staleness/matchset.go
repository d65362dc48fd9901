package staleness

import (
	"errors"

	"github.com/bmatcuk/doublestar/v4"
	"go.trai.ch/stale/internal/core/domain"
	"go.trai.ch/zerr"
)

// MatchSet is a validated set of glob patterns. A path matches the set when it
// matches at least one pattern.
type MatchSet struct {
	patterns []string
}

// Compile validates every pattern and builds a MatchSet. The first invalid
// pattern aborts compilation.
func Compile(patterns []string) (*MatchSet, error) {
	for _, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			return nil, errors.Join(domain.ErrPattern, zerr.With(zerr.Wrap(doublestar.ErrBadPattern, "compile"), "pattern", p))
		}
	}
	return &MatchSet{patterns: patterns}, nil
}

// Match reports whether the slash-separated relative path matches any pattern.
// Wildcards do not cross path separators; "**" matches any number of segments.
func (m *MatchSet) Match(rel string) bool {
	for _, p := range m.patterns {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
	}
	return false
}
