package discovery

import (
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
)

// MaxParentSegments is the number of ".." segments a root path may carry.
// More than that is treated as a traversal attempt.
const MaxParentSegments = 2

// systemDirs are prefixes whose access is logged, not blocked.
var systemDirs = []string{"/etc/", "/sys/", "/proc/"}

// PathSanitizer normalizes caller-supplied root paths and rejects the ones
// that look like an attempt to escape the intended tree.
//
// Paths outside the project root and paths under system directories are
// allowed but logged, since the caller already holds filesystem permissions.
type PathSanitizer struct {
	projectRoot string
	logger      logrus.FieldLogger
}

// NewPathSanitizer creates a sanitizer. An empty projectRoot means the
// current working directory; a nil logger means the logrus standard logger.
func NewPathSanitizer(projectRoot string, logger logrus.FieldLogger) *PathSanitizer {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	if projectRoot == "" {
		if wd, err := os.Getwd(); err == nil {
			projectRoot = wd
		}
	}
	if projectRoot != "" {
		projectRoot = resolvePath(projectRoot)
	}

	return &PathSanitizer{projectRoot: projectRoot, logger: logger}
}

// ProjectRoot returns the resolved project root, or "" if none is known.
func (s *PathSanitizer) ProjectRoot() string {
	return s.projectRoot
}

// Sanitize returns the absolute, cleaned, symlink-resolved form of path.
//
// It fails with *PathTraversalError when path is empty, holds a NUL byte,
// another control character or invalid UTF-8, carries more than
// MaxParentSegments ".." segments, or still has a ".." segment after
// normalization. If symlinks cannot be resolved (for example because the
// path does not exist) the cleaned absolute path is returned.
func (s *PathSanitizer) Sanitize(path string) (string, error) {
	if err := checkRawPath(path); err != nil {
		return "", err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", NewPathTraversalError(path, "cannot normalize: "+err.Error())
	}
	for _, seg := range strings.Split(filepath.ToSlash(abs), "/") {
		if seg == ".." {
			return "", NewPathTraversalError(path, "parent segment survived normalization")
		}
	}

	resolved := resolvePath(abs)

	s.warnSystemDir(resolved)
	s.warnOutsideProject(resolved)

	return resolved, nil
}

func checkRawPath(path string) error {
	if path == "" {
		return NewPathTraversalError(path, "empty path")
	}
	if strings.IndexByte(path, 0) >= 0 {
		return NewPathTraversalError(path, "contains NUL byte")
	}
	if !utf8.ValidString(path) {
		return NewPathTraversalError(path, "invalid UTF-8")
	}
	for _, r := range path {
		if r < 0x20 || r == 0x7f {
			return NewPathTraversalError(path, "contains control character")
		}
	}

	parents := 0
	for _, seg := range strings.FieldsFunc(path, isSeparator) {
		if seg == ".." {
			parents++
		}
	}
	if parents > MaxParentSegments {
		return NewPathTraversalError(path, "suspicious traversal pattern")
	}

	return nil
}

func isSeparator(r rune) bool {
	return r == '/' || r == filepath.Separator
}

// resolvePath resolves symlinks in an absolute path, falling back to the
// cleaned path when resolution fails.
func resolvePath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved
	}
	return abs
}

func (s *PathSanitizer) warnSystemDir(path string) {
	lower := strings.ToLower(filepath.ToSlash(path)) + "/"
	for _, dir := range systemDirs {
		if strings.HasPrefix(lower, dir) {
			s.logger.WithField("path", path).Warn("Accessing system directory")
			return
		}
	}
	if strings.Contains(lower, "/windows/system32/") {
		s.logger.WithField("path", path).Warn("Accessing system directory")
	}
}

func (s *PathSanitizer) warnOutsideProject(path string) {
	if s.projectRoot == "" || isWithin(s.projectRoot, path) {
		return
	}
	s.logger.WithFields(logrus.Fields{
		"path":         path,
		"project_root": s.projectRoot,
	}).Warn("Processing path outside project directory")
}

// isWithin reports whether path equals root or lies below it.
func isWithin(root, path string) bool {
	if path == root {
		return true
	}
	prefix := root
	if !strings.HasSuffix(prefix, string(filepath.Separator)) {
		prefix += string(filepath.Separator)
	}
	return strings.HasPrefix(path, prefix)
}
