package discovery

import (
	"fmt"
	"strings"

	"github.com/Sriram-PR/go-discovery/internal/errors"
)

// ErrNoRoots is returned by Discover when called without any root path.
var ErrNoRoots = errors.New("discovery: at least one root path is required")

// ErrNotRegularFile is wrapped in the *fs.PathError returned by FileValidator
// for directories, devices, sockets and named pipes.
var ErrNotRegularFile = errors.New("not a regular file")

// PathTraversalError reports a root path that looks like an attempt to
// escape the intended tree.
type PathTraversalError struct {
	Path   string
	Reason string
}

func (e *PathTraversalError) Error() string {
	return fmt.Sprintf("path traversal rejected for %q: %s", e.Path, e.Reason)
}

// NewPathTraversalError creates a PathTraversalError with a stack trace.
func NewPathTraversalError(path, reason string) error {
	return errors.New(&PathTraversalError{Path: path, Reason: reason})
}

// RecursionDepthExceededError is returned when a walk descends below the
// policy's maximum depth.
type RecursionDepthExceededError struct {
	Label string
	Depth int
	Limit int
}

func (e *RecursionDepthExceededError) Error() string {
	return fmt.Sprintf("recursion depth %d exceeds limit %d at %s", e.Depth, e.Limit, e.Label)
}

// FileCountExceededError is returned when a discovery call would include more
// files than the policy allows.
type FileCountExceededError struct {
	Limit int
}

func (e *FileCountExceededError) Error() string {
	return fmt.Sprintf("file count limit exceeded: %d files", e.Limit)
}

// IgnoreFileTooLargeError is returned when an ignore file is bigger than the
// policy's parse limit.
type IgnoreFileTooLargeError struct {
	Path  string
	Size  int64
	Limit int64
}

func (e *IgnoreFileTooLargeError) Error() string {
	return fmt.Sprintf("ignore file %s is %d bytes, limit is %d", e.Path, e.Size, e.Limit)
}

// FileTooLargeError is a policy violation for a file above MaxFileSize.
type FileTooLargeError struct {
	Path  string
	Size  int64
	Limit int64
}

func (e *FileTooLargeError) Error() string {
	return fmt.Sprintf("%s is %d bytes, limit is %d", e.Path, e.Size, e.Limit)
}

// ExtensionNotAllowedError is a policy violation for a file whose extension
// is not in AllowedExtensions.
type ExtensionNotAllowedError struct {
	Path      string
	Extension string
	Allowed   []string
}

func (e *ExtensionNotAllowedError) Error() string {
	ext := e.Extension
	if ext == "" {
		ext = "(none)"
	}
	return fmt.Sprintf("%s has extension %s, allowed: %s", e.Path, ext, strings.Join(e.Allowed, ", "))
}

// InvalidPatternError is returned by NewGlobFilter for patterns that are
// blank, too long or carry too many wildcards.
type InvalidPatternError struct {
	Pattern string
	Reason  string
}

func (e *InvalidPatternError) Error() string {
	return fmt.Sprintf("invalid pattern %q: %s", e.Pattern, e.Reason)
}

// InvalidPolicyError is returned by SecurityPolicy.Validate.
type InvalidPolicyError struct {
	Field  string
	Reason string
}

func (e *InvalidPolicyError) Error() string {
	return fmt.Sprintf("invalid security policy: %s %s", e.Field, e.Reason)
}
