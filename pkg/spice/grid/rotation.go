package grid

import (
	"fmt"
	"strconv"
)

// Rotation is a clockwise rotation in quarter turns
type Rotation int

const (
	R0 Rotation = iota
	R90
	R180
	R270
)

// Degrees returns the rotation angle in degrees (0, 90, 180 or 270)
func (r Rotation) Degrees() int {
	return int(r.normalize()) * 90
}

// Clockwise returns the next state clockwise
func (r Rotation) Clockwise() Rotation {
	return (r.normalize() + 1) % 4
}

// CounterClockwise returns the next state counterclockwise
func (r Rotation) CounterClockwise() Rotation {
	return (r.normalize() + 3) % 4
}

// Apply rotates p around the origin
func (r Rotation) Apply(p Point) Point {
	switch r.normalize() {
	case R90:
		return Pt(-p.Y, p.X)
	case R180:
		return Pt(-p.X, -p.Y)
	case R270:
		return Pt(p.Y, -p.X)
	default:
		return p
	}
}

func (r Rotation) String() string {
	return strconv.Itoa(r.Degrees())
}

func (r Rotation) normalize() Rotation {
	return ((r % 4) + 4) % 4
}

// RotationFromDegrees maps 0/90/180/270 (and their multiples) to a Rotation
func RotationFromDegrees(deg int) (Rotation, error) {
	if deg%90 != 0 {
		return R0, fmt.Errorf("grid: rotation %d is not a multiple of 90", deg)
	}
	return Rotation(deg / 90).normalize(), nil
}

// Extents are a device's reach around its node 0, in grid units.
// Left and Top are usually <= 0, Right and Bottom >= 0.
type Extents struct {
	Left   int
	Right  int
	Top    int
	Bottom int
}

// Rotate permutes the extents for the given clockwise rotation
func (e Extents) Rotate(r Rotation) Extents {
	switch r.normalize() {
	case R90:
		return Extents{Left: -e.Bottom, Right: -e.Top, Top: e.Left, Bottom: e.Right}
	case R180:
		return Extents{Left: -e.Right, Right: -e.Left, Top: -e.Bottom, Bottom: -e.Top}
	case R270:
		return Extents{Left: e.Top, Right: e.Bottom, Top: -e.Right, Bottom: -e.Left}
	default:
		return e
	}
}

// At returns the grid rectangle covered by the extents when node 0 sits at p
func (e Extents) At(p Point) Rect {
	return Rect{
		Min: Pt(p.X+e.Left, p.Y+e.Top),
		Max: Pt(p.X+e.Right, p.Y+e.Bottom),
	}
}
