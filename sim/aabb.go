package sim

import "math"

// DirectionEpsilon is the centre offset below which a collision reports no direction on an axis
const DirectionEpsilon = 0.1

// Point is a position in world units
type Point struct {
	X, Y float64
}

// BoundingBox is an axis-aligned rectangle with origin at its top-left corner
type BoundingBox struct {
	X, Y          float64
	Width, Height float64
}

// NewBoundingBox builds a box, rejecting non-finite values and negative dimensions
func NewBoundingBox(x, y, width, height float64) (BoundingBox, error) {
	b := BoundingBox{X: x, Y: y, Width: width, Height: height}
	if err := b.Validate(); err != nil {
		return BoundingBox{}, err
	}
	return b, nil
}

// BoxAround returns the square box of half-size r centred on p
func BoxAround(p Point, r float64) BoundingBox {
	return BoundingBox{X: p.X - r, Y: p.Y - r, Width: 2 * r, Height: 2 * r}
}

// Validate checks the box invariants
func (b BoundingBox) Validate() error {
	switch {
	case !finite(b.X):
		return invalid("x", "must be finite")
	case !finite(b.Y):
		return invalid("y", "must be finite")
	case !finite(b.Width):
		return invalid("width", "must be finite")
	case !finite(b.Height):
		return invalid("height", "must be finite")
	case b.Width < 0:
		return invalid("width", "must not be negative")
	case b.Height < 0:
		return invalid("height", "must not be negative")
	}
	return nil
}

// Right returns the x coordinate of the far edge
func (b BoundingBox) Right() float64 { return b.X + b.Width }

// Bottom returns the y coordinate of the far edge
func (b BoundingBox) Bottom() float64 { return b.Y + b.Height }

// Center returns the centre point
func (b BoundingBox) Center() Point {
	return Point{X: b.X + b.Width/2, Y: b.Y + b.Height/2}
}

// Contains reports whether other lies entirely inside b (edges inclusive)
func (b BoundingBox) Contains(other BoundingBox) bool {
	return other.X >= b.X && other.Right() <= b.Right() &&
		other.Y >= b.Y && other.Bottom() <= b.Bottom()
}

// Direction classifies where one box lies relative to another on a single axis
type Direction int8

const (
	DirNone Direction = iota
	DirLeft
	DirRight
	DirTop
	DirBottom
)

func (d Direction) String() string {
	switch d {
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	case DirTop:
		return "top"
	case DirBottom:
		return "bottom"
	default:
		return "none"
	}
}

// Collision is the result of an overlap test between boxes a and b
type Collision struct {
	Colliding bool
	// Overlap extents, zero unless Colliding
	OverlapX, OverlapY float64
	// Side of b that a lies on, per axis
	DirX, DirY Direction
}

// CheckCollision tests a and b with closed intervals, so touching edges collide
func CheckCollision(a, b BoundingBox) Collision {
	if a.Right() < b.X || b.Right() < a.X || a.Bottom() < b.Y || b.Bottom() < a.Y {
		return Collision{}
	}

	c := Collision{
		Colliding: true,
		OverlapX:  math.Min(a.Right(), b.Right()) - math.Max(a.X, b.X),
		OverlapY:  math.Min(a.Bottom(), b.Bottom()) - math.Max(a.Y, b.Y),
	}

	ac, bc := a.Center(), b.Center()
	dx := ac.X - bc.X
	dy := ac.Y - bc.Y
	if dx > DirectionEpsilon {
		c.DirX = DirRight
	} else if dx < -DirectionEpsilon {
		c.DirX = DirLeft
	}
	if dy > DirectionEpsilon {
		c.DirY = DirBottom
	} else if dy < -DirectionEpsilon {
		c.DirY = DirTop
	}
	return c
}

// IsPointInBox reports whether p lies inside box, edges inclusive
func IsPointInBox(p Point, box BoundingBox) bool {
	return p.X >= box.X && p.X <= box.Right() && p.Y >= box.Y && p.Y <= box.Bottom()
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
