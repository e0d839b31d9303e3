package detection

import (
	"context"
	"image"
	"math"

	"github.com/ironsheep/circle-counter/internal/config"
	"github.com/ironsheep/circle-counter/internal/imaging"
	"github.com/ironsheep/circle-counter/internal/suppress"
)

// HoughDetector finds circles with a pure Go Hough circle transform.
type HoughDetector struct {
	cfg config.DetectionConfig
}

// NewHoughDetector creates a detector using the given parameters.
func NewHoughDetector(cfg config.DetectionConfig) *HoughDetector {
	return &HoughDetector{cfg: cfg}
}

// Name returns "hough".
func (d *HoughDetector) Name() string { return "hough" }

// Detect finds candidate circles using the Hough circle transform.
//
// Returns:
//   - []suppress.Circle: Candidates with centers rounded to whole pixels and
//     coordinates in the image's own coordinate space.
//   - error: ErrNoCircles if nothing was found, or ctx.Err() if cancelled
//     between radius passes.
//
// # Algorithm (Hough Circle Transform)
//
//  1. Smoothing: grayscale plus Gaussian blur (BlurRadius)
//  2. Edge Detection: Canny with CannyLow/CannyHigh hysteresis
//  3. Accumulator Voting: for each radius from MinRadius to MaxRadius, every
//     edge pixel votes for the centers lying one radius away. The number of
//     sampled angles grows with the radius so votes stay about one pixel apart.
//  4. Scoring: votes are summed over a 3x3 neighborhood to absorb rounding.
//  5. Peak Detection: a center is accepted when its score reaches
//     VoteFraction of the circumference (2πr) and no score within MinDist/2
//     is higher.
//
// Concentric candidates at neighboring radii are expected; they are removed
// by overlap suppression.
//
// # Performance
//
// Time complexity is O(edgePixels × Σ 2πr) over the radius range. Large
// photographs should be downscaled first.
func (d *HoughDetector) Detect(ctx context.Context, img image.Image) ([]suppress.Circle, error) {
	bounds := img.Bounds()
	edges := imaging.CannyEdges(imaging.Smooth(img, d.cfg.BlurRadius), d.cfg.CannyLow, d.cfg.CannyHigh)
	width, height := edges.Width, edges.Height

	points := make([]image.Point, 0)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if edges.At(x, y) {
				points = append(points, image.Pt(x, y))
			}
		}
	}
	if len(points) == 0 {
		return nil, ErrNoCircles
	}

	window := d.cfg.MinDist / 2
	if window < 1 {
		window = 1
	}

	circles := make([]suppress.Circle, 0)
	accumulator := make([]int, width*height)
	score := make([]int, width*height)

	for radius := max(d.cfg.MinRadius, 1); radius <= d.cfg.MaxRadius; radius++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		clear(accumulator)
		vote(accumulator, points, width, height, radius)
		sumNeighborhood(score, accumulator, width, height)

		threshold := int(math.Ceil(d.cfg.VoteFraction * 2 * math.Pi * float64(radius)))
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				s := score[y*width+x]
				if s < threshold || !isLocalMax(score, width, height, x, y, window) {
					continue
				}
				circles = append(circles, suppress.Circle{
					X: float64(x + bounds.Min.X),
					Y: float64(y + bounds.Min.Y),
					R: float64(radius),
				})
			}
		}
	}

	if len(circles) == 0 {
		return nil, ErrNoCircles
	}
	return circles, nil
}

// vote casts one vote per sampled angle for every edge point.
func vote(acc []int, points []image.Point, width, height, radius int) {
	steps := int(math.Ceil(2 * math.Pi * float64(radius)))
	if steps < 36 {
		steps = 36
	}

	offsets := make([]image.Point, 0, steps)
	seen := make(map[image.Point]bool, steps)
	for i := 0; i < steps; i++ {
		rad := 2 * math.Pi * float64(i) / float64(steps)
		p := image.Pt(
			int(math.Round(float64(radius)*math.Cos(rad))),
			int(math.Round(float64(radius)*math.Sin(rad))),
		)
		// One vote per distinct center offset.
		if !seen[p] {
			seen[p] = true
			offsets = append(offsets, p)
		}
	}

	for _, p := range points {
		for _, o := range offsets {
			cx, cy := p.X-o.X, p.Y-o.Y
			if cx >= 0 && cx < width && cy >= 0 && cy < height {
				acc[cy*width+cx]++
			}
		}
	}
}

// sumNeighborhood writes the 3x3 box sum of acc into dst.
func sumNeighborhood(dst, acc []int, width, height int) {
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			sum := 0
			for dy := -1; dy <= 1; dy++ {
				ny := y + dy
				if ny < 0 || ny >= height {
					continue
				}
				for dx := -1; dx <= 1; dx++ {
					nx := x + dx
					if nx >= 0 && nx < width {
						sum += acc[ny*width+nx]
					}
				}
			}
			dst[y*width+x] = sum
		}
	}
}

// isLocalMax reports whether no score within the window exceeds (x, y).
func isLocalMax(score []int, width, height, x, y, window int) bool {
	v := score[y*width+x]
	for dy := -window; dy <= window; dy++ {
		ny := y + dy
		if ny < 0 || ny >= height {
			continue
		}
		for dx := -window; dx <= window; dx++ {
			nx := x + dx
			if nx < 0 || nx >= width || (dx == 0 && dy == 0) {
				continue
			}
			if score[ny*width+nx] > v {
				return false
			}
		}
	}
	return true
}
