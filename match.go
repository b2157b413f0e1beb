package discovery

import (
	"strings"
)

// MatchWildcard reports whether s matches pattern, where '*' matches any run
// of characters (including '/') and '?' matches exactly one character.
// Matching is case-sensitive.
//
// This is the two-pointer greedy matcher with a single backtrack point: on
// '*' it records the pattern and text positions, and on a later mismatch it
// resumes one character further into the text from the recorded position.
// Only the most recent star is ever revisited, so the cost is bounded by
// len(s)*len(pattern) regardless of how the pattern is crafted.
func MatchWildcard(s, pattern string) bool {
	text := []rune(s)
	pat := []rune(pattern)

	ti, pi := 0, 0
	starPi, starTi := -1, -1

	for ti < len(text) {
		switch {
		case pi < len(pat) && pat[pi] == '*':
			starPi, starTi = pi, ti
			pi++
		case pi < len(pat) && (pat[pi] == '?' || pat[pi] == text[ti]):
			ti++
			pi++
		case starPi >= 0:
			starTi++
			ti = starTi
			pi = starPi + 1
		default:
			return false
		}
	}

	for pi < len(pat) && pat[pi] == '*' {
		pi++
	}

	return pi == len(pat)
}

// IsIgnored applies rules to path in order and returns the final state.
// Every matching rule sets the state to !rule.Negate, so the last matching
// rule wins and a later negation can re-include an earlier match.
//
// path is slash-separated and relative to the directory holding the rules.
// isDir tells whether path itself is a directory.
func IsIgnored(rules []IgnoreRule, path string, isDir bool) bool {
	segments := splitPath(normalizePath(path))
	if len(segments) == 0 {
		return false
	}

	ignored := false
	for i := range rules {
		if matchRule(&rules[i], segments, isDir) {
			ignored = !rules[i].Negate
		}
	}
	return ignored
}

// matchRule checks a single rule against a path split into segments.
//
// A rule matching any ancestor directory matches the path too, since
// everything inside an ignored directory is ignored. Directory-only rules
// consider the path itself only when it is a directory.
func matchRule(r *IgnoreRule, segments []string, isDir bool) bool {
	last := len(segments)
	if r.DirOnly && !isDir {
		last--
	}

	for i := 1; i <= last; i++ {
		if matchCandidate(r, segments[:i]) {
			return true
		}
	}
	return false
}

// matchCandidate matches a rule against one candidate path (the full path or
// an ancestor). Literal patterns compare whole segments; wildcard patterns
// go through MatchWildcard.
func matchCandidate(r *IgnoreRule, segments []string) bool {
	candidate := strings.Join(segments, "/")
	name := segments[len(segments)-1]
	pattern := r.Pattern

	if !r.hasWildcard() {
		switch {
		case r.Anchored:
			return candidate == pattern
		case strings.Contains(pattern, "/"):
			return candidate == pattern || strings.HasSuffix(candidate, "/"+pattern)
		default:
			return name == pattern
		}
	}

	// A leading "**/" also matches at the top level.
	if rest, ok := strings.CutPrefix(pattern, "**/"); ok && rest != "" && MatchWildcard(candidate, rest) {
		return true
	}

	switch {
	case r.Anchored:
		return MatchWildcard(candidate, pattern)
	case strings.Contains(pattern, "/"):
		return MatchWildcard(candidate, pattern) || MatchWildcard(candidate, "*/"+pattern)
	default:
		return MatchWildcard(name, pattern) || MatchWildcard(candidate, pattern)
	}
}
