package manabase

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidTarget is matched by *InvalidTargetError.
	ErrInvalidTarget = errors.New("invalid land target")

	// ErrInvalidEntry is matched by *InvalidEntryError.
	ErrInvalidEntry = errors.New("invalid deck entry")

	// ErrInconsistentAnalysis is returned when a color identity disagrees with its pip counts.
	ErrInconsistentAnalysis = errors.New("color identity inconsistent with pip counts")

	// ErrUnknownFormat is returned for format names outside the preset list.
	ErrUnknownFormat = errors.New("unknown format")

	// ErrUnknownAlgorithm is returned for algorithm names outside the calculator family.
	ErrUnknownAlgorithm = errors.New("unknown algorithm")

	// ErrInvalidConfig is returned for out-of-range hypergeometric parameters.
	ErrInvalidConfig = errors.New("invalid hypergeometric config")

	// ErrInternal marks a logic defect in the calculator, never a user input problem.
	ErrInternal = errors.New("internal invariant violation")
)

// InvalidTargetError reports a land target that does not fit the deck size.
type InvalidTargetError struct {
	TotalCards  int
	TargetLands int
	Reason      string
}

func (e *InvalidTargetError) Error() string {
	return fmt.Sprintf("invalid land target: %s (total cards %d, target lands %d)", e.Reason, e.TotalCards, e.TargetLands)
}

// Is lets errors.Is match ErrInvalidTarget.
func (e *InvalidTargetError) Is(target error) bool {
	return target == ErrInvalidTarget
}

// InvalidEntryError reports a deck entry that cannot be analyzed.
type InvalidEntryError struct {
	Name   string
	Reason string
}

func (e *InvalidEntryError) Error() string {
	return fmt.Sprintf("invalid deck entry %q: %s", e.Name, e.Reason)
}

// Is lets errors.Is match ErrInvalidEntry.
func (e *InvalidEntryError) Is(target error) bool {
	return target == ErrInvalidEntry
}

// InvariantViolationError is a bug report: the computed allocation broke the
// exact-sum or non-negativity guarantee.
type InvariantViolationError struct {
	Algorithm Algorithm
	Want      int
	Got       int
	Detail    string
}

func (e *InvariantViolationError) Error() string {
	return fmt.Sprintf("bug: %s allocation invariant violated: %s (want %d lands, got %d)", e.Algorithm, e.Detail, e.Want, e.Got)
}

// Is lets errors.Is match ErrInternal.
func (e *InvariantViolationError) Is(target error) bool {
	return target == ErrInternal
}

// IsUserError reports whether err stems from caller input rather than a defect.
func IsUserError(err error) bool {
	return err != nil && !errors.Is(err, ErrInternal)
}
