// Package placement assigns grid positions to the devices of a circuit.
//
// Every strategy finishes by translating the circuit so that its top-left
// corner sits at (Margin, Margin) and by refreshing the circuit bounding box.
package placement

import (
	"errors"
	"fmt"
	"strings"

	"github.com/OpenTraceLab/OpenTraceSPICE/pkg/spice/circuit"
	"github.com/OpenTraceLab/OpenTraceSPICE/pkg/spice/device"
	"github.com/OpenTraceLab/OpenTraceSPICE/pkg/spice/grid"
)

// Margin is the distance, in grid units, kept free on the top and left edges
const Margin = 2

// ErrNotImplemented is returned by strategies without an algorithm
var ErrNotImplemented = errors.New("placement: strategy not implemented")

// Strategy selects a placement algorithm
type Strategy int

const (
	// Linear lines devices up left to right without overlaps
	Linear Strategy = iota
	// Heuristic places only the first neighbour of device 0 and stacks
	// every other device at the origin
	Heuristic
	// Graph is reserved for a connectivity-graph driven layout
	Graph
)

var strategyNames = map[Strategy]string{
	Linear:    "linear",
	Heuristic: "heuristic",
	Graph:     "graph",
}

func (s Strategy) String() string {
	if name, ok := strategyNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Strategy(%d)", int(s))
}

// ParseStrategy maps a strategy name (case-insensitive) to a Strategy
func ParseStrategy(name string) (Strategy, error) {
	for s, n := range strategyNames {
		if strings.EqualFold(n, name) {
			return s, nil
		}
	}
	return Linear, fmt.Errorf("placement: unknown strategy %q", name)
}

// Place positions every device of c and returns the new bounding box.
// Graph returns ErrNotImplemented and leaves the circuit untouched.
func Place(c *circuit.Circuit, s Strategy) (grid.Rect, error) {
	if c.Len() == 0 {
		return c.UpdateBoundingBox(), nil
	}

	switch s {
	case Linear:
		placeLinear(c)
	case Heuristic:
		placeHeuristic(c)
	case Graph:
		return c.BoundingBox(), ErrNotImplemented
	default:
		return c.BoundingBox(), fmt.Errorf("placement: unknown strategy %v", s)
	}

	Normalize(c)
	return c.UpdateBoundingBox(), nil
}

func placeLinear(c *circuit.Circuit) {
	first := c.Device(0)
	first.SetPosition(grid.Pt(0, 0))
	next := first.Extents().Right + 1

	for _, d := range c.Devices()[1:] {
		ext := d.Extents()
		d.SetPosition(grid.Pt(next-ext.Left, 0))
		next += ext.Right - ext.Left + 1
	}
}

func placeHeuristic(c *circuit.Circuit) {
	devices := c.Devices()
	for _, d := range devices {
		d.SetPosition(grid.Pt(0, 0))
	}

	first := devices[0]
	for j, node := range first.Nodes() {
		if node == device.Ground {
			continue
		}

		for _, d := range devices[1:] {
			k, ok := d.ConnectedTo(node)
			if !ok {
				continue
			}
			anchor := first.NodePosition(j)
			x := first.Position().X + first.Extents().Right + 1 - d.Extents().Left
			// line the shared node up with the one on device 0
			y := anchor.Y - d.NodePosition(k).Sub(d.Position()).Y
			d.SetPosition(grid.Pt(x, y))
			break
		}
		break
	}
}

// Normalize translates all devices so that the leftmost and topmost extents
// land on Margin. It does not refresh the bounding box.
func Normalize(c *circuit.Circuit) {
	devices := c.Devices()
	if len(devices) == 0 {
		return
	}

	minPt := devices[0].Box().Min
	for _, d := range devices[1:] {
		b := d.Box()
		minPt.X = min(minPt.X, b.Min.X)
		minPt.Y = min(minPt.Y, b.Min.Y)
	}

	offset := grid.Pt(Margin, Margin).Sub(minPt)
	for _, d := range devices {
		d.SetPosition(d.Position().Add(offset))
	}
}
