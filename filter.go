package discovery

import (
	"strconv"
	"strings"

	"github.com/gobwas/glob"

	"github.com/Sriram-PR/go-discovery/internal/errors"
)

// Limits applied to every user-supplied pattern, for GlobFilter and for
// ignore files alike. They bound the matching cost of hostile patterns.
const (
	MaxPatternLength    = 500
	MaxPatternWildcards = 50
)

// GlobFilter decides whether a path is in scope, using include and exclude
// glob patterns. Exclude always takes precedence over include.
//
// Patterns use '/' as separator: '*' and '?' stay inside one path segment,
// '**' crosses segments, and '[...]' and '{a,b}' are supported. Paths given
// to Matches and ShouldPrune are slash-separated and relative to the
// directory being walked.
//
// A GlobFilter is immutable and safe for concurrent use. A nil *GlobFilter
// accepts everything and prunes nothing.
type GlobFilter struct {
	include []compiledPattern
	exclude []compiledPattern
}

type compiledPattern struct {
	raw string
	g   glob.Glob
}

// NewGlobFilter validates and compiles the given patterns. A pattern that is
// blank, longer than MaxPatternLength, carries more than MaxPatternWildcards
// wildcards, or does not compile fails with *InvalidPatternError.
func NewGlobFilter(include, exclude []string) (*GlobFilter, error) {
	inc, err := compilePatterns(include)
	if err != nil {
		return nil, err
	}

	exc, err := compilePatterns(exclude)
	if err != nil {
		return nil, err
	}

	return &GlobFilter{include: inc, exclude: exc}, nil
}

func compilePatterns(patterns []string) ([]compiledPattern, error) {
	compiled := make([]compiledPattern, 0, len(patterns))
	for _, p := range patterns {
		if err := validatePattern(p); err != nil {
			return nil, err
		}

		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, errors.New(&InvalidPatternError{Pattern: p, Reason: err.Error()})
		}
		compiled = append(compiled, compiledPattern{raw: p, g: g})
	}
	return compiled, nil
}

func validatePattern(p string) error {
	if strings.TrimSpace(p) == "" {
		return errors.New(&InvalidPatternError{Pattern: p, Reason: "pattern must not be blank"})
	}

	if len(p) > MaxPatternLength {
		return errors.New(&InvalidPatternError{
			Pattern: p,
			Reason:  "pattern exceeds maximum length of " + strconv.Itoa(MaxPatternLength) + ": " + strconv.Itoa(len(p)),
		})
	}

	if n := countWildcards(p); n > MaxPatternWildcards {
		return errors.New(&InvalidPatternError{
			Pattern: p,
			Reason:  "pattern exceeds maximum wildcard count of " + strconv.Itoa(MaxPatternWildcards) + ": " + strconv.Itoa(n),
		})
	}

	return nil
}

// Matches reports whether path is in scope: false if any exclude pattern
// matches, true if no include patterns were configured, otherwise true only
// when an include pattern matches.
func (f *GlobFilter) Matches(path string) bool {
	if f == nil {
		return true
	}

	path = normalizePath(path)
	for _, p := range f.exclude {
		if p.g.Match(path) {
			return false
		}
	}

	if len(f.include) == 0 {
		return true
	}

	for _, p := range f.include {
		if p.g.Match(path) {
			return true
		}
	}
	return false
}

// ShouldPrune reports whether the directory dir is excluded, so a walk can
// skip its whole subtree. The directory is tested both bare and with a
// trailing slash, so "build/**" prunes "build".
func (f *GlobFilter) ShouldPrune(dir string) bool {
	if f == nil {
		return false
	}

	dir = normalizePath(dir)
	if dir == "" {
		return false
	}

	for _, p := range f.exclude {
		if p.g.Match(dir) || p.g.Match(dir+"/") {
			return true
		}
	}
	return false
}

// HasIncludePatterns returns true if include patterns are configured.
func (f *GlobFilter) HasIncludePatterns() bool {
	return f != nil && len(f.include) > 0
}

// HasExcludePatterns returns true if exclude patterns are configured.
func (f *GlobFilter) HasExcludePatterns() bool {
	return f != nil && len(f.exclude) > 0
}

// String lists the configured patterns, for logging.
func (f *GlobFilter) String() string {
	if f == nil {
		return "<nil>"
	}

	raw := func(ps []compiledPattern) string {
		out := make([]string, len(ps))
		for i, p := range ps {
			out[i] = p.raw
		}
		return strings.Join(out, ",")
	}
	return "include=[" + raw(f.include) + "] exclude=[" + raw(f.exclude) + "]"
}
