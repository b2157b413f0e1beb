package discovery

import (
	"slices"

	"github.com/Sriram-PR/go-discovery/internal/errors"
)

// Default limits, used by DefaultPolicy.
const (
	DefaultMaxFileSize       = 50 * 1024 * 1024
	DefaultMaxDepth          = 1000
	DefaultWarnDepth         = 500
	DefaultMaxFiles          = 100_000
	DefaultMaxIgnoreFileSize = 1024 * 1024
)

// SecurityPolicy holds the limits a discovery call enforces.
//
// A policy is passed by value; the engine keeps its own copy so later changes
// made by the caller never reach a running discovery.
type SecurityPolicy struct {
	// MaxFileSize is the largest file, in bytes, that is included.
	MaxFileSize int64

	// AllowedExtensions lists the accepted extensions including the dot
	// (".java"). Comparison is case-sensitive.
	AllowedExtensions []string

	// MaxDepth is the deepest directory level a walk may enter. The root
	// directory of a walk is level 1.
	MaxDepth int

	// WarnDepth is the level at which a deep walk is logged. Must be below MaxDepth.
	WarnDepth int

	// MaxFiles caps the number of files one discovery call returns.
	MaxFiles int

	// MaxIgnoreFileSize caps the size of an ignore file that is parsed.
	MaxIgnoreFileSize int64
}

// DefaultPolicy returns the recommended limits for Java sources.
func DefaultPolicy() SecurityPolicy {
	return SecurityPolicy{
		MaxFileSize:       DefaultMaxFileSize,
		AllowedExtensions: []string{".java"},
		MaxDepth:          DefaultMaxDepth,
		WarnDepth:         DefaultWarnDepth,
		MaxFiles:          DefaultMaxFiles,
		MaxIgnoreFileSize: DefaultMaxIgnoreFileSize,
	}
}

// Validate checks the policy invariants.
func (p SecurityPolicy) Validate() error {
	switch {
	case p.MaxFileSize <= 0:
		return errors.New(&InvalidPolicyError{Field: "MaxFileSize", Reason: "must be positive"})
	case len(p.AllowedExtensions) == 0:
		return errors.New(&InvalidPolicyError{Field: "AllowedExtensions", Reason: "must not be empty"})
	case p.MaxDepth <= 0:
		return errors.New(&InvalidPolicyError{Field: "MaxDepth", Reason: "must be positive"})
	case p.WarnDepth <= 0:
		return errors.New(&InvalidPolicyError{Field: "WarnDepth", Reason: "must be positive"})
	case p.WarnDepth >= p.MaxDepth:
		return errors.New(&InvalidPolicyError{Field: "WarnDepth", Reason: "must be less than MaxDepth"})
	case p.MaxFiles <= 0:
		return errors.New(&InvalidPolicyError{Field: "MaxFiles", Reason: "must be positive"})
	case p.MaxIgnoreFileSize <= 0:
		return errors.New(&InvalidPolicyError{Field: "MaxIgnoreFileSize", Reason: "must be positive"})
	}

	for _, ext := range p.AllowedExtensions {
		if ext == "" {
			return errors.New(&InvalidPolicyError{Field: "AllowedExtensions", Reason: "must not contain empty entries"})
		}
	}

	return nil
}

// clone returns a copy that shares no memory with p.
func (p SecurityPolicy) clone() SecurityPolicy {
	p.AllowedExtensions = slices.Clone(p.AllowedExtensions)
	return p
}
