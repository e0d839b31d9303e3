package suppress

import (
	"fmt"
	"math"
	"sort"
)

// DefaultThreshold is the overlap ratio above which two circles are duplicates.
const DefaultThreshold = 0.5

// Suppressor holds a validated threshold and policy for repeated use.
type Suppressor struct {
	threshold float64
	priority  Priority
	metric    Metric
}

// New creates a Suppressor.
//
// Parameters:
//   - threshold: Overlap ratio in [0, 1]. Candidates whose ratio against an
//     already picked circle exceeds this value are dropped. Typical: 0.5.
//   - opts: Optional policy overrides (WithPriority, WithMetric).
//
// Returns:
//   - *Suppressor: Ready for use with Apply.
//   - error: *ThresholdError if threshold is NaN or outside [0, 1], or an
//     error naming an unknown Priority or Metric value.
func New(threshold float64, opts ...Option) (*Suppressor, error) {
	if math.IsNaN(threshold) || threshold < 0 || threshold > 1 {
		return nil, &ThresholdError{Value: threshold}
	}

	s := &Suppressor{
		threshold: threshold,
		priority:  PriorityLargestFirst,
		metric:    MetricSquareOverDisk,
	}
	for _, opt := range opts {
		opt(s)
	}

	switch s.priority {
	case PriorityLargestFirst, PrioritySmallestFirst:
	default:
		return nil, fmt.Errorf("unknown priority %v", s.priority)
	}
	switch s.metric {
	case MetricSquareOverDisk, MetricDisk:
	default:
		return nil, fmt.Errorf("unknown metric %v", s.metric)
	}
	return s, nil
}

// Threshold returns the configured overlap threshold.
func (s *Suppressor) Threshold() float64 { return s.threshold }

// Priority returns the configured processing order.
func (s *Suppressor) Priority() Priority { return s.priority }

// Metric returns the configured overlap metric.
func (s *Suppressor) Metric() Metric { return s.metric }

// Suppress is a convenience wrapper around New(threshold, opts...).Apply.
func Suppress(candidates []Circle, threshold float64, opts ...Option) ([]Circle, error) {
	s, err := New(threshold, opts...)
	if err != nil {
		return nil, err
	}
	return s.Apply(candidates)
}

// Apply filters candidates down to a set of non-duplicate survivors.
//
// Parameters:
//   - candidates: Circles as reported by a detector. May be empty. The slice
//     is not modified.
//
// Returns:
//   - []Circle: Survivors in the order they were picked. With
//     PriorityLargestFirst this is descending radius. Never nil.
//   - error: *InvalidCircleError for the first candidate with a negative
//     radius or a non-finite field.
//
// # Algorithm
//
//  1. Order candidate indices by radius according to the priority, breaking
//     ties by input position.
//  2. Pick the first remaining index.
//  3. Compute the overlap ratio between the pick and every other remaining
//     candidate.
//  4. Drop the pick and every candidate whose ratio exceeds the threshold.
//  5. Repeat until no candidates remain.
//
// Complexity is O(n²) in the number of candidates.
func (s *Suppressor) Apply(candidates []Circle) ([]Circle, error) {
	if len(candidates) == 0 {
		return []Circle{}, nil
	}

	for i, c := range candidates {
		if err := c.Validate(); err != nil {
			return nil, &InvalidCircleError{Index: i, Circle: c, Reason: err.Error()}
		}
	}

	idxs := s.order(candidates)
	picked := make([]Circle, 0, len(idxs))

	for len(idxs) > 0 {
		current := candidates[idxs[0]]
		picked = append(picked, current)

		remaining := idxs[:0]
		for _, j := range idxs[1:] {
			if overlapRatio(s.metric, current, candidates[j]) > s.threshold {
				continue
			}
			remaining = append(remaining, j)
		}
		idxs = remaining
	}

	return picked, nil
}

// order returns candidate indices in processing order.
func (s *Suppressor) order(candidates []Circle) []int {
	idxs := make([]int, len(candidates))
	for i := range idxs {
		idxs[i] = i
	}

	sort.SliceStable(idxs, func(a, b int) bool {
		ra, rb := candidates[idxs[a]].R, candidates[idxs[b]].R
		if s.priority == PrioritySmallestFirst {
			return ra < rb
		}
		return ra > rb
	})
	return idxs
}
