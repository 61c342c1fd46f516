// Package circuit holds a parsed subcircuit: its node set, its devices in
// declaration order and the bounding box of their grid placement.
//
// A Circuit is not safe for concurrent mutation. The bounding box is only
// refreshed by UpdateBoundingBox; moving or rotating devices leaves it stale
// until then.
package circuit

import (
	"fmt"
	"sort"

	"github.com/OpenTraceLab/OpenTraceSPICE/pkg/spice/device"
	"github.com/OpenTraceLab/OpenTraceSPICE/pkg/spice/grid"
)

// Circuit is a named set of nodes and devices
type Circuit struct {
	name    string
	nodes   map[string]struct{}
	devices []device.Device
	bbox    grid.Rect
}

// New creates an empty circuit
func New(name string) *Circuit {
	return &Circuit{
		name:  name,
		nodes: make(map[string]struct{}),
	}
}

// Name returns the circuit name
func (c *Circuit) Name() string {
	return c.name
}

// AddNode inserts node into the node set. Adding an existing node is a no-op.
func (c *Circuit) AddNode(node string) {
	c.nodes[node] = struct{}{}
}

// HasNode reports whether node belongs to the circuit
func (c *Circuit) HasNode(node string) bool {
	_, ok := c.nodes[node]
	return ok
}

// Nodes returns the node names in sorted order
func (c *Circuit) Nodes() []string {
	out := make([]string, 0, len(c.nodes))
	for n := range c.nodes {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// AddDevice appends dev; the circuit owns it from now on
func (c *Circuit) AddDevice(dev device.Device) {
	c.devices = append(c.devices, dev)
}

// AddExternalNode adds node and an external pin bound to it
func (c *Circuit) AddExternalNode(node string) {
	c.AddNode(node)
	c.AddDevice(device.NewExternalPin(node))
}

// ExternalNodes returns the nodes exposed through pins, in declaration order
func (c *Circuit) ExternalNodes() []string {
	var out []string
	for _, d := range c.devices {
		if pin, ok := d.(*device.ExternalPin); ok {
			out = append(out, pin.Node(0))
		}
	}
	return out
}

// Devices returns the devices in insertion order. The slice is a copy but the
// devices are shared with the circuit.
func (c *Circuit) Devices() []device.Device {
	out := make([]device.Device, len(c.devices))
	copy(out, c.devices)
	return out
}

// Device returns the i-th device
func (c *Circuit) Device(i int) device.Device {
	return c.devices[i]
}

// Len returns the number of devices
func (c *Circuit) Len() int {
	return len(c.devices)
}

// FindDevice looks a device up by reference (e.g. R1)
func (c *Circuit) FindDevice(ref string) (int, bool) {
	for i, d := range c.devices {
		if d.Ref() == ref {
			return i, true
		}
	}
	return -1, false
}

// SetDevicePosition moves device i so that its node 0 sits at p
func (c *Circuit) SetDevicePosition(i int, p grid.Point) error {
	if i < 0 || i >= len(c.devices) {
		return fmt.Errorf("circuit %s: device index %d out of range", c.name, i)
	}
	c.devices[i].SetPosition(p)
	return nil
}

// RotateDevice turns device i by a quarter turn
func (c *Circuit) RotateDevice(i int, clockwise bool) error {
	if i < 0 || i >= len(c.devices) {
		return fmt.Errorf("circuit %s: device index %d out of range", c.name, i)
	}
	if clockwise {
		c.devices[i].RotateClockwise()
	} else {
		c.devices[i].RotateCounterClockwise()
	}
	return nil
}

// UpdateBoundingBox recomputes the union of all device boxes and stores it.
// A circuit without devices has the zero box.
func (c *Circuit) UpdateBoundingBox() grid.Rect {
	if len(c.devices) == 0 {
		c.bbox = grid.Rect{}
		return c.bbox
	}

	bb := c.devices[0].Box()
	for _, d := range c.devices[1:] {
		bb = bb.Union(d.Box())
	}
	c.bbox = bb
	return bb
}

// BoundingBox returns the box computed by the last UpdateBoundingBox call
func (c *Circuit) BoundingBox() grid.Rect {
	return c.bbox
}

// PixelBox returns the pixel rectangle of device i for the given grid spacing
func (c *Circuit) PixelBox(i int, gridSpacing int) grid.Rect {
	return c.devices[i].Box().Scale(gridSpacing)
}

// HitTest returns the first device, in insertion order, whose pixel box
// inflated by tolerance contains pt.
func (c *Circuit) HitTest(pt grid.Point, gridSpacing, tolerance int) (int, bool) {
	for i := range c.devices {
		if c.PixelBox(i, gridSpacing).Inflate(tolerance).Contains(pt) {
			return i, true
		}
	}
	return -1, false
}

// Clone returns a deep copy of the circuit
func (c *Circuit) Clone() *Circuit {
	out := New(c.name)
	for n := range c.nodes {
		out.nodes[n] = struct{}{}
	}
	out.devices = make([]device.Device, len(c.devices))
	for i, d := range c.devices {
		out.devices[i] = d.Clone()
	}
	out.bbox = c.bbox
	return out
}
