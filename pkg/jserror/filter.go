package jserror

import (
	"fmt"

	"github.com/gobwas/glob"
)

// Filter drops records whose source or message matches a glob pattern.
// A nil Filter matches nothing.
type Filter struct {
	sources  []glob.Glob
	messages []glob.Glob
}

// NewFilter compiles the ignore patterns.
func NewFilter(sources, messages []string) (*Filter, error) {
	f := &Filter{}

	for _, pattern := range sources {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid source pattern '%s': %w", pattern, err)
		}
		f.sources = append(f.sources, g)
	}

	for _, pattern := range messages {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid message pattern '%s': %w", pattern, err)
		}
		f.messages = append(f.messages, g)
	}

	return f, nil
}

// Match reports whether the record should be ignored.
func (f *Filter) Match(rec Record) bool {
	if f == nil {
		return false
	}
	for _, g := range f.sources {
		if g.Match(rec.Source()) {
			return true
		}
	}
	for _, g := range f.messages {
		if g.Match(rec.Message()) {
			return true
		}
	}
	return false
}
