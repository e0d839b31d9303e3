// Package suppress removes duplicate circle detections.
//
// A circle detector typically reports the same physical feature several times
// with slightly different centers and radii. This package reduces such a
// candidate list to a minimal representative set using greedy, IoU-style
// suppression.
//
// # Overlap Model
//
// Each circle is approximated by its axis-aligned bounding square
// [X-R, X+R] × [Y-R, Y+R]. The overlap ratio between two circles is
//
//	intersection / (area(a) + area(b) - intersection)
//
// where intersection is the area shared by the two bounding squares and
// area(c) is the disk area π·R². Squares and disks are deliberately mixed
// (MetricSquareOverDisk) to stay compatible with existing tuning of the 0.5
// threshold. Because the square intersection can exceed the disk union, the
// ratio is not bounded by 1 under this metric. MetricDisk uses the exact
// circle-circle intersection instead and always yields a ratio in [0, 1].
//
// # Priority
//
// Candidates are processed in radius order. PriorityLargestFirst keeps the
// biggest circle of a duplicate cluster; PrioritySmallestFirst keeps the
// smallest one, which reproduces the behavior of the earlier script that
// popped from the end of a descending sort. Equal radii are processed in
// input order.
//
// # Guarantees
//
//   - The result never contains a circle that is not in the input.
//   - Circle values are never modified.
//   - No two survivors overlap by more than the threshold.
//   - Running Suppress on its own output returns the same slice.
//
// All functions are pure and safe for concurrent use.
package suppress
