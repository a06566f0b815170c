package model

import (
	"errors"
	"fmt"
)

// ErrNoChannel indicates a leaf compound returned a nil Channel.
var ErrNoChannel = errors.New("loadeq: leaf compound has no channel")

// InvariantError reports a violated contract of the caller — a bug, not a
// recoverable runtime condition. Per spec.md §7 these are fatal: the
// reference implementation aborts with a diagnostic, which this module
// models as a panic carrying an *InvariantError rather than an error
// return, so a misbehaving caller cannot silently ignore it.
//
// Defined here (rather than in the root package) so that internal/tree and
// internal/history, which detect most of these violations, can raise the
// same error shape the root package's public API documents.
type InvariantError struct {
	// Op names the operation that detected the violation, e.g.
	// "buildTree" or "assignLeftoverTime".
	Op string
	// Msg describes the violated invariant.
	Msg string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("loadeq: invariant violation in %s: %s", e.Op, e.Msg)
}

// ThrowInvariant panics with an *InvariantError. Centralized so every
// invariant-violation site (spec.md §7) produces the same error shape.
func ThrowInvariant(op, format string, args ...any) {
	panic(&InvariantError{Op: op, Msg: fmt.Sprintf(format, args...)})
}
