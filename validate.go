package discovery

import (
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"syscall"

	"github.com/Sriram-PR/go-discovery/internal/errors"
)

// FileValidator checks a single file against the size and extension limits
// of a SecurityPolicy. It is stateless after construction and safe for
// concurrent use.
type FileValidator struct {
	maxSize int64
	allowed map[string]struct{}
	sorted  []string
}

// NewFileValidator creates a validator for the policy's limits.
func NewFileValidator(policy SecurityPolicy) *FileValidator {
	allowed := make(map[string]struct{}, len(policy.AllowedExtensions))
	for _, ext := range policy.AllowedExtensions {
		allowed[ext] = struct{}{}
	}

	sorted := slices.Clone(policy.AllowedExtensions)
	slices.Sort(sorted)

	return &FileValidator{
		maxSize: policy.MaxFileSize,
		allowed: allowed,
		sorted:  slices.Compact(sorted),
	}
}

// Validate checks, in order, that path is a readable regular file, that its
// size does not exceed the limit, and that its extension is allowed.
//
// Policy violations come back as *FileTooLargeError or
// *ExtensionNotAllowedError. Filesystem problems come back as *fs.PathError
// (wrapping fs.ErrNotExist, fs.ErrPermission, ErrNotRegularFile, ...).
// None of them is fatal from the validator's point of view.
func (v *FileValidator) Validate(path string) error {
	f, info, err := openRegular(path, "validate")
	if err != nil {
		return err
	}
	_ = f.Close()

	if info.Size() > v.maxSize {
		return errors.New(&FileTooLargeError{Path: path, Size: info.Size(), Limit: v.maxSize})
	}

	ext := fileExtension(filepath.Base(path))
	if _, ok := v.allowed[ext]; !ok {
		return errors.New(&ExtensionNotAllowedError{Path: path, Extension: ext, Allowed: v.sorted})
	}

	return nil
}

// openRegular opens path for reading only if it is a regular file. The mode
// is checked before the open, so a FIFO or device never blocks it, and again
// on the open descriptor in case the path was replaced in between.
func openRegular(path, op string) (*os.File, fs.FileInfo, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, nil, errors.WithStackTrace(err)
	}
	if !info.Mode().IsRegular() {
		return nil, nil, errors.WithStackTrace(&fs.PathError{Op: op, Path: path, Err: ErrNotRegularFile})
	}

	f, err := os.OpenFile(path, os.O_RDONLY|syscall.O_NONBLOCK, 0)
	if err != nil {
		return nil, nil, errors.WithStackTrace(err)
	}

	opened, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, nil, errors.WithStackTrace(err)
	}
	if !opened.Mode().IsRegular() || !os.SameFile(info, opened) {
		_ = f.Close()
		return nil, nil, errors.WithStackTrace(&fs.PathError{Op: op, Path: path, Err: ErrNotRegularFile})
	}

	return f, opened, nil
}

// fileExtension returns the extension of name including the dot, or "" if
// name has no dot or ends with one.
func fileExtension(name string) string {
	i := strings.LastIndexByte(name, '.')
	if i < 0 || i == len(name)-1 {
		return ""
	}
	return name[i:]
}
