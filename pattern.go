package discovery

import (
	"io"
	"io/fs"
	"strconv"
	"strings"

	"github.com/Sriram-PR/go-discovery/internal/errors"
)

// ParseWarning describes an ignore-file line that was skipped.
type ParseWarning struct {
	Pattern string // The raw line, after whitespace trimming
	Message string // Human-readable reason
	Line    int    // Line number (1-indexed)
}

func (w ParseWarning) String() string {
	return "line " + strconv.Itoa(w.Line) + ": " + w.Message + " (" + w.Pattern + ")"
}

// IgnoreRule is one parsed ignore-file pattern.
// Rules are evaluated in file order; later rules override earlier ones.
type IgnoreRule struct {
	// Pattern is the match text with the !, leading / and trailing / markers removed.
	Pattern string

	// Negate is set for lines starting with "!"; a match re-includes the path.
	Negate bool

	// DirOnly is set for lines ending with "/"; the rule only matches directories.
	DirOnly bool

	// Anchored is set for lines starting with "/"; the rule only matches
	// from the directory holding the ignore file.
	Anchored bool

	// Line is the 1-indexed line number in the source file.
	Line int
}

// hasWildcard reports whether the pattern needs the wildcard matcher.
func (r IgnoreRule) hasWildcard() bool {
	return strings.ContainsAny(r.Pattern, "*?")
}

// text returns the rule as it would be written in an ignore file.
func (r IgnoreRule) text() string {
	var b strings.Builder
	if r.Negate {
		b.WriteByte('!')
	}
	if r.Anchored {
		b.WriteByte('/')
	}
	b.WriteString(r.Pattern)
	if r.DirOnly {
		b.WriteByte('/')
	}
	return b.String()
}

// String returns a debug representation of the rule.
func (r IgnoreRule) String() string {
	var flags []string
	if r.Negate {
		flags = append(flags, "negate")
	}
	if r.DirOnly {
		flags = append(flags, "dirOnly")
	}
	if r.Anchored {
		flags = append(flags, "anchored")
	}

	if len(flags) == 0 {
		return r.Pattern
	}
	return r.Pattern + " [" + strings.Join(flags, ",") + "]"
}

// ParseIgnoreFile reads and parses an ignore file.
//
// A missing file yields no rules and no error. A file larger than maxSize
// fails with *IgnoreFileTooLargeError before any line is parsed. Other read
// failures are returned as I/O errors.
func ParseIgnoreFile(path string, maxSize int64) ([]IgnoreRule, []ParseWarning, error) {
	f, info, err := openRegular(path, "parse")
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil, nil
		}
		return nil, nil, err
	}
	defer f.Close()

	if info.Size() > maxSize {
		return nil, nil, errors.New(&IgnoreFileTooLargeError{Path: path, Size: info.Size(), Limit: maxSize})
	}

	// The file may grow between Stat and read; never read past the limit.
	content, err := io.ReadAll(io.LimitReader(f, maxSize+1))
	if err != nil {
		return nil, nil, errors.WithStackTrace(err)
	}
	if int64(len(content)) > maxSize {
		return nil, nil, errors.New(&IgnoreFileTooLargeError{Path: path, Size: int64(len(content)), Limit: maxSize})
	}

	rules, warnings := ParseIgnoreContent(content)
	return rules, warnings, nil
}

// ParseIgnoreContent parses ignore-file content into ordered rules.
// Content is normalized first (BOM, CRLF).
func ParseIgnoreContent(content []byte) ([]IgnoreRule, []ParseWarning) {
	content = normalizeContent(content)
	if len(content) == 0 {
		return nil, nil
	}

	lines := strings.Split(string(content), "\n")
	var rules []IgnoreRule
	var warnings []ParseWarning

	for i, line := range lines {
		r, warning := parseLine(line, i+1)
		if warning != nil {
			warnings = append(warnings, *warning)
		}
		if r != nil {
			rules = append(rules, *r)
		}
	}

	return rules, warnings
}

// parseLine parses a single ignore-file line.
// Blank lines and comments return neither a rule nor a warning.
func parseLine(line string, lineNum int) (*IgnoreRule, *ParseWarning) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return nil, nil
	}

	original := line
	warn := func(msg string) (*IgnoreRule, *ParseWarning) {
		return nil, &ParseWarning{Line: lineNum, Pattern: original, Message: msg}
	}

	if len(line) > MaxPatternLength {
		return warn("pattern exceeds maximum length of " + strconv.Itoa(MaxPatternLength))
	}
	if n := countWildcards(line); n > MaxPatternWildcards {
		return warn("pattern exceeds maximum wildcard count of " + strconv.Itoa(MaxPatternWildcards))
	}

	negate := false
	if strings.HasPrefix(line, "!") {
		negate = true
		line = line[1:]
	}

	dirOnly := false
	if strings.HasSuffix(line, "/") {
		dirOnly = true
		line = strings.TrimSuffix(line, "/")
	}

	anchored := false
	if strings.HasPrefix(line, "/") {
		anchored = true
		line = strings.TrimLeft(line, "/")
	}

	if line == "" {
		return warn("pattern is empty after processing")
	}

	return &IgnoreRule{
		Pattern:  line,
		Negate:   negate,
		DirOnly:  dirOnly,
		Anchored: anchored,
		Line:     lineNum,
	}, nil
}

// countWildcards returns the number of * and ? characters in s.
func countWildcards(s string) int {
	return strings.Count(s, "*") + strings.Count(s, "?")
}
