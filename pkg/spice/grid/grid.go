// Package grid provides the integer geometry shared by devices, circuits and
// placement. Coordinates are screen-oriented: x grows to the right and y grows
// downwards. Pixel coordinates are grid coordinates multiplied by a spacing.
package grid

import "fmt"

// Point is an integer grid coordinate
type Point struct {
	X int
	Y int
}

// Pt is shorthand for Point{X: x, Y: y}
func Pt(x, y int) Point {
	return Point{X: x, Y: y}
}

// Add returns p+q
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns p-q
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Mul scales p by k
func (p Point) Mul(k int) Point {
	return Point{X: p.X * k, Y: p.Y * k}
}

func (p Point) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Rect is an axis-aligned rectangle with inclusive corners.
// The zero Rect is the empty box returned for circuits without devices.
type Rect struct {
	Min Point // top-left corner
	Max Point // bottom-right corner
}

// R builds a Rect from two corners in any order
func R(x0, y0, x1, y1 int) Rect {
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	return Rect{Min: Pt(x0, y0), Max: Pt(x1, y1)}
}

// IsZero reports whether r is the zero Rect
func (r Rect) IsZero() bool {
	return r == Rect{}
}

// Width returns the horizontal span of the rectangle
func (r Rect) Width() int {
	return r.Max.X - r.Min.X
}

// Height returns the vertical span of the rectangle
func (r Rect) Height() int {
	return r.Max.Y - r.Min.Y
}

// Contains checks if a point lies within the rectangle (edges included)
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Min.X && p.X <= r.Max.X &&
		p.Y >= r.Min.Y && p.Y <= r.Max.Y
}

// Overlaps checks if two rectangles share at least one point
func (r Rect) Overlaps(other Rect) bool {
	return r.Min.X <= other.Max.X && r.Max.X >= other.Min.X &&
		r.Min.Y <= other.Max.Y && r.Max.Y >= other.Min.Y
}

// Union returns the smallest rectangle containing both r and other
func (r Rect) Union(other Rect) Rect {
	return Rect{
		Min: Pt(min(r.Min.X, other.Min.X), min(r.Min.Y, other.Min.Y)),
		Max: Pt(max(r.Max.X, other.Max.X), max(r.Max.Y, other.Max.Y)),
	}
}

// Translate moves the rectangle by d
func (r Rect) Translate(d Point) Rect {
	return Rect{Min: r.Min.Add(d), Max: r.Max.Add(d)}
}

// Scale multiplies both corners by k, mapping grid units to pixels
func (r Rect) Scale(k int) Rect {
	return Rect{Min: r.Min.Mul(k), Max: r.Max.Mul(k)}
}

// Inflate grows the rectangle by n on every side
func (r Rect) Inflate(n int) Rect {
	return Rect{Min: r.Min.Sub(Pt(n, n)), Max: r.Max.Add(Pt(n, n))}
}

func (r Rect) String() string {
	return fmt.Sprintf("[%v-%v]", r.Min, r.Max)
}
