package core

import "errors"

// Shared error kinds. Stage packages wrap these so callers can match the kind
// with errors.Is regardless of which stage failed.
var (
	// ErrInvalidArgument reports malformed input detected at a stage boundary:
	// bad filter coefficients, too-short signals, unsupported schemes, shape
	// mismatches. Inputs are never clamped or coerced.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrSingularSystem reports a linear system that cannot be solved, e.g. the
	// filter initial-state system or a rank-deficient regression.
	ErrSingularSystem = errors.New("singular system")
)
