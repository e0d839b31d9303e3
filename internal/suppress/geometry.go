package suppress

import "math"

// squareIntersection returns the area shared by the bounding squares of a and b.
// Negative extents are clamped to zero.
func squareIntersection(a, b Circle) float64 {
	ax1, ay1, ax2, ay2 := a.Bounds()
	bx1, by1, bx2, by2 := b.Bounds()

	w := math.Max(0, math.Min(ax2, bx2)-math.Max(ax1, bx1))
	h := math.Max(0, math.Min(ay2, by2)-math.Max(ay1, by1))
	return w * h
}

// diskIntersection returns the exact lens area shared by two disks.
func diskIntersection(a, b Circle) float64 {
	d := math.Hypot(a.X-b.X, a.Y-b.Y)
	r1, r2 := a.R, b.R

	if d >= r1+r2 {
		return 0
	}
	if d <= math.Abs(r1-r2) {
		small := math.Min(r1, r2)
		return math.Pi * small * small
	}

	alpha := math.Acos(clampUnit((d*d + r1*r1 - r2*r2) / (2 * d * r1)))
	beta := math.Acos(clampUnit((d*d + r2*r2 - r1*r1) / (2 * d * r2)))
	kite := 0.5 * math.Sqrt(math.Max(0, (-d+r1+r2)*(d+r1-r2)*(d-r1+r2)*(d+r1+r2)))

	return r1*r1*alpha + r2*r2*beta - kite
}

// overlapRatio computes intersection over union for the chosen metric.
// A non-positive union (two zero-radius circles) yields 0.
func overlapRatio(m Metric, a, b Circle) float64 {
	var inter float64
	switch m {
	case MetricDisk:
		inter = diskIntersection(a, b)
	default:
		inter = squareIntersection(a, b)
	}

	union := a.Area() + b.Area() - inter
	if union <= 0 {
		return 0
	}
	return inter / union
}

func clampUnit(v float64) float64 {
	return math.Max(-1, math.Min(1, v))
}
