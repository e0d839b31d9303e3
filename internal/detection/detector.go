package detection

import (
	"context"
	"errors"
	"fmt"
	"image"

	"github.com/ironsheep/circle-counter/internal/config"
	"github.com/ironsheep/circle-counter/internal/suppress"
)

var (
	// ErrNoCircles is returned when the detector finds nothing. It is distinct
	// from a successful detection that yields survivors after suppression.
	ErrNoCircles = errors.New("no circles detected")

	// ErrBackendUnavailable is returned when a detector backend was not
	// compiled into the binary.
	ErrBackendUnavailable = errors.New("detector backend not available")
)

// Detector finds candidate circles in an image.
//
// Implementations return ErrNoCircles rather than an empty slice when no
// circle is found. Candidates may contain duplicates; callers are expected to
// run them through suppress.
type Detector interface {
	Detect(ctx context.Context, img image.Image) ([]suppress.Circle, error)
	Name() string
}

// NewDetector returns the backend named by cfg.Backend.
//
// Supported backends:
//   - "hough" (or empty): pure Go Hough transform, always available.
//   - "opencv": OpenCV HoughCircles via gocv; requires building with -tags gocv.
func NewDetector(cfg config.DetectionConfig) (Detector, error) {
	switch cfg.Backend {
	case "", "hough":
		return NewHoughDetector(cfg), nil
	case "opencv":
		return newOpenCVDetector(cfg)
	}
	return nil, fmt.Errorf("unknown detector backend %q", cfg.Backend)
}
