package discovery

import (
	"strings"
	"sync"
)

// MatchResult provides detailed information about an ignore decision.
type MatchResult struct {
	// Rule is the last matching rule as written, markers included
	// (empty if Matched == false).
	Rule string

	// BasePath is the directory, relative to the walk root, holding the
	// ignore file that supplied Rule. Empty means the root.
	BasePath string

	// Line is the line number of Rule in its ignore file.
	Line int

	// Ignored is the final decision, negation included.
	Ignored bool

	// Matched is true when at least one rule matched.
	Matched bool

	// Negated is true when the deciding rule was a negation.
	Negated bool
}

type ruleSet struct {
	basePath string
	rules    []IgnoreRule
}

// IgnoreMatcher evaluates rules from several ignore files, each scoped to
// the directory that held it.
//
// Rule sets are evaluated in the order they were added, and rules inside a
// set in file order, so the last matching rule wins across nested ignore
// files as long as outer files are added before inner ones (which a
// depth-first walk guarantees). A walk drops a directory's rule set again
// when it leaves that directory, so only the sets of the current directory
// and its ancestors are held.
//
// IgnoreMatcher is safe for concurrent use.
type IgnoreMatcher struct {
	mu   sync.RWMutex
	sets []ruleSet
}

// NewIgnoreMatcher creates an empty IgnoreMatcher.
func NewIgnoreMatcher() *IgnoreMatcher {
	return &IgnoreMatcher{}
}

// AddRules adds parsed rules scoped to basePath (relative, slash-separated;
// empty for the root).
func (m *IgnoreMatcher) AddRules(basePath string, rules []IgnoreRule) {
	if len(rules) == 0 {
		return
	}

	set := ruleSet{
		basePath: normalizePath(basePath),
		rules:    append([]IgnoreRule(nil), rules...),
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.sets = append(m.sets, set)
}

// AddPatterns parses ignore-file content and adds the resulting rules.
// Warnings for skipped lines are returned.
func (m *IgnoreMatcher) AddPatterns(basePath string, content []byte) []ParseWarning {
	rules, warnings := ParseIgnoreContent(content)
	m.AddRules(basePath, rules)
	return warnings
}

// Match returns true if path should be ignored.
func (m *IgnoreMatcher) Match(path string, isDir bool) bool {
	return m.MatchWithReason(path, isDir).Ignored
}

// MatchWithReason returns which rule, if any, decided the result for path.
//
//   - Matched == false: no rule matched; the path is not ignored
//   - Matched == true, Ignored == true: the path is ignored by Rule
//   - Matched == true, Ignored == false: the path was re-included by negation Rule
func (m *IgnoreMatcher) MatchWithReason(path string, isDir bool) MatchResult {
	path = normalizePath(path)
	if path == "" {
		return MatchResult{}
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var result MatchResult
	for _, set := range m.sets {
		rel, ok := scopePath(set.basePath, path)
		if !ok {
			continue
		}

		segments := splitPath(rel)
		for i := range set.rules {
			r := &set.rules[i]
			if !matchRule(r, segments, isDir) {
				continue
			}
			result = MatchResult{
				Rule:     r.text(),
				BasePath: set.basePath,
				Line:     r.Line,
				Ignored:  !r.Negate,
				Matched:  true,
				Negated:  r.Negate,
			}
		}
	}

	return result
}

// RuleCount returns the number of rules currently loaded.
func (m *IgnoreMatcher) RuleCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	n := 0
	for _, set := range m.sets {
		n += len(set.rules)
	}
	return n
}

// setCount returns the number of rule sets loaded so far.
func (m *IgnoreMatcher) setCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sets)
}

// truncate drops every rule set added after the first n, as a walk does when
// it leaves the directory that supplied them.
func (m *IgnoreMatcher) truncate(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if n < 0 || n >= len(m.sets) {
		return
	}
	clear(m.sets[n:])
	m.sets = m.sets[:n]
}

// scopePath strips basePath from path. It reports false when path is not
// strictly inside basePath.
func scopePath(basePath, path string) (string, bool) {
	if basePath == "" {
		return path, true
	}
	if !strings.HasPrefix(path, basePath+"/") {
		return "", false
	}
	return path[len(basePath)+1:], true
}
