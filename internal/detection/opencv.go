//go:build gocv

package detection

import (
	"context"
	"fmt"
	"image"
	"math"

	"gocv.io/x/gocv"

	"github.com/ironsheep/circle-counter/internal/config"
	"github.com/ironsheep/circle-counter/internal/suppress"
)

// OpenCVDetector uses OpenCV's HOUGH_GRADIENT circle detector via gocv.
// It requires OpenCV 4 and building with -tags gocv.
type OpenCVDetector struct {
	cfg config.DetectionConfig
}

func newOpenCVDetector(cfg config.DetectionConfig) (Detector, error) {
	return &OpenCVDetector{cfg: cfg}, nil
}

func (d *OpenCVDetector) Name() string { return "opencv" }

// Detect runs a bilateral filter (diameter 10, sigma 50/50) followed by
// HoughCircles with dp=1, the configured MinDist, param1=CannyHigh,
// param2=30 and the configured radius range.
func (d *OpenCVDetector) Detect(ctx context.Context, img image.Image) ([]suppress.Circle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	mat, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return nil, fmt.Errorf("failed to convert image: %w", err)
	}
	defer mat.Close()

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(mat, &gray, gocv.ColorBGRToGray)

	smoothed := gocv.NewMat()
	defer smoothed.Close()
	gocv.BilateralFilter(gray, &smoothed, 10, 50, 50)

	found := gocv.NewMat()
	defer found.Close()
	gocv.HoughCirclesWithParams(smoothed, &found, gocv.HoughGradient, 1,
		float64(d.cfg.MinDist), float64(d.cfg.CannyHigh), 30,
		d.cfg.MinRadius, d.cfg.MaxRadius)

	if found.Empty() || found.Cols() == 0 {
		return nil, ErrNoCircles
	}

	bounds := img.Bounds()
	circles := make([]suppress.Circle, 0, found.Cols())
	for i := 0; i < found.Cols(); i++ {
		v := found.GetVecfAt(0, i)
		circles = append(circles, suppress.Circle{
			X: math.Round(float64(v[0])) + float64(bounds.Min.X),
			Y: math.Round(float64(v[1])) + float64(bounds.Min.Y),
			R: math.Round(float64(v[2])),
		})
	}
	return circles, nil
}
