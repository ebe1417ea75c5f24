package fileutil

import "strings"

// SuffixMatcher matches file names against an ordered suffix set, ignoring case
type SuffixMatcher struct {
	suffixes []string
}

// NewSuffixMatcher creates a matcher for the given suffixes. Suffixes are
// lowercased; empty entries are dropped.
func NewSuffixMatcher(suffixes []string) *SuffixMatcher {
	m := &SuffixMatcher{suffixes: make([]string, 0, len(suffixes))}
	for _, s := range suffixes {
		if s == "" {
			continue
		}
		m.suffixes = append(m.suffixes, strings.ToLower(s))
	}
	return m
}

// Match reports whether the lowercased name ends with one of the suffixes.
// Comparison is an exact suffix test, so "App.jsx" does not match ".js".
func (m *SuffixMatcher) Match(name string) bool {
	lower := strings.ToLower(name)
	for _, s := range m.suffixes {
		if strings.HasSuffix(lower, s) {
			return true
		}
	}
	return false
}

// Suffixes returns the normalized suffix list
func (m *SuffixMatcher) Suffixes() []string {
	out := make([]string, len(m.suffixes))
	copy(out, m.suffixes)
	return out
}
