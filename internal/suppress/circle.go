package suppress

import (
	"fmt"
	"image"
	"math"
)

// Circle is a detected circle in pixel coordinates.
type Circle struct {
	X float64 `json:"x"` // Center X (0 = leftmost)
	Y float64 `json:"y"` // Center Y (0 = topmost)
	R float64 `json:"r"` // Radius, must be >= 0
}

// String formats the circle as (x, y, r).
func (c Circle) String() string {
	return fmt.Sprintf("(%g, %g, %g)", c.X, c.Y, c.R)
}

// Validate reports whether the circle has usable geometry.
//
// Returns an error describing the first problem found: a non-finite field or
// a negative radius. The caller wraps it with the circle's position.
func (c Circle) Validate() error {
	switch {
	case !finite(c.X):
		return fmt.Errorf("center x is not finite: %v", c.X)
	case !finite(c.Y):
		return fmt.Errorf("center y is not finite: %v", c.Y)
	case !finite(c.R):
		return fmt.Errorf("radius is not finite: %v", c.R)
	case c.R < 0:
		return fmt.Errorf("radius is negative: %v", c.R)
	}
	return nil
}

// Pixel truncates the circle to integer pixel coordinates for drawing.
func (c Circle) Pixel() (image.Point, int) {
	return image.Pt(int(c.X), int(c.Y)), int(c.R)
}

// Area returns the disk area π·R².
func (c Circle) Area() float64 {
	return math.Pi * c.R * c.R
}

// Bounds returns the bounding square as (x1, y1, x2, y2).
func (c Circle) Bounds() (x1, y1, x2, y2 float64) {
	return c.X - c.R, c.Y - c.R, c.X + c.R, c.Y + c.R
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
