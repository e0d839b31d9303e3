//go:build !gocv

package detection

import (
	"fmt"

	"github.com/ironsheep/circle-counter/internal/config"
)

func newOpenCVDetector(config.DetectionConfig) (Detector, error) {
	return nil, fmt.Errorf("opencv: %w (rebuild with -tags gocv)", ErrBackendUnavailable)
}
