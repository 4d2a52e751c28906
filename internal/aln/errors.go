package aln

import "errors"

var (
	// ErrInvalidRequest is returned when alignments violate a structural precondition
	// of the requested operation (mismatched dimensions, anchor rows, identities).
	ErrInvalidRequest = errors.New("invalid request")

	// ErrOrderingViolation is returned when an insertion would break the ordering or
	// non-overlap invariant of a pairwise alignment.
	ErrOrderingViolation = errors.New("ordering violation")

	// ErrPrecondition is returned for malformed ranges or base width mismatches.
	ErrPrecondition = errors.New("precondition violation")
)
