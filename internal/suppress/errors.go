package suppress

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidCircle matches any *InvalidCircleError via errors.Is.
	ErrInvalidCircle = errors.New("invalid circle")

	// ErrInvalidThreshold matches any *ThresholdError via errors.Is.
	ErrInvalidThreshold = errors.New("invalid overlap threshold")
)

// InvalidCircleError reports a candidate with unusable geometry.
type InvalidCircleError struct {
	Index  int    // Position in the candidate slice
	Circle Circle // The offending candidate
	Reason string
}

func (e *InvalidCircleError) Error() string {
	return fmt.Sprintf("invalid circle at index %d %s: %s", e.Index, e.Circle, e.Reason)
}

func (e *InvalidCircleError) Is(target error) bool {
	return target == ErrInvalidCircle
}

// ThresholdError reports an overlap threshold outside [0, 1].
type ThresholdError struct {
	Value float64
}

func (e *ThresholdError) Error() string {
	return fmt.Sprintf("overlap threshold %v outside [0, 1]", e.Value)
}

func (e *ThresholdError) Is(target error) bool {
	return target == ErrInvalidThreshold
}
