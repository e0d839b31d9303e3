// Package detection finds candidate circles in photographs.
//
// Two backends implement the Detector interface:
//
//   - HoughDetector: a pure Go Hough circle transform built on the imaging
//     package's smoothing and Canny edge detection. Always available.
//   - OpenCVDetector: OpenCV's HOUGH_GRADIENT via gocv, preceded by a
//     bilateral filter. Only compiled with -tags gocv.
//
// # Pipeline
//
//  1. Smoothing: reduce sensor noise before edge detection
//  2. Edge Detection: find circle boundaries
//  3. Hough Voting: accumulate votes for centers at each radius
//  4. Peak Detection: keep local maxima above a vote threshold
//
// Detectors report every plausible circle, including concentric and shifted
// duplicates of the same feature. Run the result through package suppress
// before counting or drawing.
//
// # Empty Results
//
// A detector that finds nothing returns ErrNoCircles instead of an empty
// slice, so "nothing detected" cannot be confused with "everything
// suppressed".
//
// # Coordinate System
//
// Coordinates use the standard image convention: origin at the top-left,
// X increasing rightward, Y increasing downward, in the source image's own
// bounds.
package detection
