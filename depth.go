package discovery

import (
	"github.com/Sriram-PR/go-discovery/internal/errors"
)

// DepthTracker bounds how deep a directory walk may descend.
//
// A tracker belongs to a single discovery call and is passed down the walk
// by pointer; it is not safe for concurrent use and is never shared between
// calls.
type DepthTracker struct {
	max    int
	warn   int
	depth  int
	warned bool
}

// NewDepthTracker creates a tracker with the policy's MaxDepth and WarnDepth.
func NewDepthTracker(policy SecurityPolicy) *DepthTracker {
	return &DepthTracker{max: policy.MaxDepth, warn: policy.WarnDepth}
}

// Enter records a descent into label. If the new depth exceeds the maximum,
// the depth is left unchanged and *RecursionDepthExceededError is returned.
// Crossing the warning depth sets Warned.
func (t *DepthTracker) Enter(label string) error {
	next := t.depth + 1
	if next > t.max {
		return errors.New(&RecursionDepthExceededError{Label: label, Depth: next, Limit: t.max})
	}

	t.depth = next
	if t.depth > t.warn {
		t.warned = true
	}
	return nil
}

// Exit records an ascent. It never drops below zero.
func (t *DepthTracker) Exit() {
	if t.depth > 0 {
		t.depth--
	}
}

// Reset zeroes the depth and clears the warning flag.
func (t *DepthTracker) Reset() {
	t.depth = 0
	t.warned = false
}

// Depth returns the current depth.
func (t *DepthTracker) Depth() int {
	return t.depth
}

// Warned reports whether the warning depth was crossed since the last Reset.
func (t *DepthTracker) Warned() bool {
	return t.warned
}
