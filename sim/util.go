package sim

import "math"

// Clamp restricts v to [min, max]
func Clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// Distance returns the distance between two points
func Distance(x1, y1, x2, y2 float64) float64 {
	return math.Hypot(x2-x1, y2-y1)
}

// DistancePoints is Distance for Point values
func DistancePoints(a, b Point) float64 {
	return Distance(a.X, a.Y, b.X, b.Y)
}
