package suppress

import (
	"fmt"
	"strings"
)

// Priority selects which circle of an overlapping cluster survives.
type Priority int

const (
	// PriorityLargestFirst keeps the largest circle of each cluster.
	PriorityLargestFirst Priority = iota

	// PrioritySmallestFirst keeps the smallest circle of each cluster.
	PrioritySmallestFirst
)

func (p Priority) String() string {
	switch p {
	case PriorityLargestFirst:
		return "largest-first"
	case PrioritySmallestFirst:
		return "smallest-first"
	}
	return fmt.Sprintf("Priority(%d)", int(p))
}

// ParsePriority accepts "largest-first" or "smallest-first" (case-insensitive).
// An empty string selects PriorityLargestFirst.
func ParsePriority(s string) (Priority, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "largest-first", "largest":
		return PriorityLargestFirst, nil
	case "smallest-first", "smallest":
		return PrioritySmallestFirst, nil
	}
	return 0, fmt.Errorf("unknown priority %q (want largest-first or smallest-first)", s)
}

// Metric selects how the overlap ratio between two circles is computed.
type Metric int

const (
	// MetricSquareOverDisk divides the bounding-square intersection by the
	// union of the disk areas.
	MetricSquareOverDisk Metric = iota

	// MetricDisk uses the exact circle-circle intersection and disk union.
	MetricDisk
)

func (m Metric) String() string {
	switch m {
	case MetricSquareOverDisk:
		return "square-over-disk"
	case MetricDisk:
		return "disk"
	}
	return fmt.Sprintf("Metric(%d)", int(m))
}

// ParseMetric accepts "square-over-disk" or "disk" (case-insensitive).
// An empty string selects MetricSquareOverDisk.
func ParseMetric(s string) (Metric, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "square-over-disk", "square":
		return MetricSquareOverDisk, nil
	case "disk", "circle":
		return MetricDisk, nil
	}
	return 0, fmt.Errorf("unknown metric %q (want square-over-disk or disk)", s)
}

// Option configures a Suppressor.
type Option func(*Suppressor)

// WithPriority sets the processing order.
func WithPriority(p Priority) Option {
	return func(s *Suppressor) {
		s.priority = p
	}
}

// WithMetric sets the overlap metric.
func WithMetric(m Metric) Option {
	return func(s *Suppressor) {
		s.metric = m
	}
}
