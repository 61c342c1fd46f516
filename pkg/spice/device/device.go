// Package device implements the circuit elements that can appear in a SPICE
// netlist.
//
// Every element satisfies the sealed Device interface. The concrete variants
// are Passive (R, C, L, D), Transistor (M, Q, J), IndependentSource (I, V),
// DependentSource (E, G) and ExternalPin, the one-node device that stands for
// a subcircuit port.
//
// A device is anchored on the grid by its node 0. RelativeNodeOffset gives the
// position of every other node in the unrotated orientation (vertical, node 0
// on top); Extents and NodePosition apply the current rotation.
package device

import (
	"errors"
	"fmt"

	"github.com/OpenTraceLab/OpenTraceSPICE/pkg/spice/grid"
)

// Ground is the SPICE reference node
const Ground = "0"

var (
	// ErrTooManyNodes is returned by AddNode once a device has all its nodes
	ErrTooManyNodes = errors.New("device: too many nodes")

	// ErrInvalidProperty is returned when a token after the node list is rejected
	ErrInvalidProperty = errors.New("device: invalid property")
)

// Device is a circuit element placed on the schematic grid.
type Device interface {
	// Identifier is the SPICE letter selecting this kind of device
	Identifier() byte
	// Description is the upper-case human readable kind, e.g. RESISTOR
	Description() string
	// Summary describes the device parameters with formatted values
	Summary() string

	Name() string
	SetName(name string)
	// Ref is the identifier letter followed by the name, e.g. R1
	Ref() string

	Nodes() []string
	Node(i int) string
	NodeCount() int
	// AddNode appends a node; it fails once NodeCount nodes are bound
	AddNode(node string) error
	Complete() bool
	// ConnectedTo returns the index of node among the device nodes
	ConnectedTo(node string) (int, bool)

	// RelativeNodeOffset is the unrotated offset of node i from node 0
	RelativeNodeOffset(i int) grid.Point
	// NodePosition is the absolute grid position of node i
	NodePosition(i int) grid.Point
	// Extents are the rotated reach of the device around node 0
	Extents() grid.Extents
	// Box is the grid rectangle covered by the device
	Box() grid.Rect

	Position() grid.Point
	SetPosition(p grid.Point)
	Rotation() grid.Rotation
	SetRotation(r grid.Rotation)
	RotateClockwise()
	RotateCounterClockwise()

	// ParseProperty consumes the index-th token following the node list
	ParseProperty(index int, token string) error

	Clone() Device

	sealed()
}

// shape is the immutable geometry shared by all devices of a family
type shape struct {
	offsets []grid.Point
	extents grid.Extents
}

var (
	twoTerminal = &shape{
		offsets: []grid.Point{{X: 0, Y: 0}, {X: 0, Y: 1}},
		extents: grid.Extents{Left: 0, Right: 0, Top: 0, Bottom: 1},
	}
	threeTerminal = &shape{
		// drain/collector, gate/base, source/emitter
		offsets: []grid.Point{{X: 0, Y: 0}, {X: -1, Y: 1}, {X: 0, Y: 2}},
		extents: grid.Extents{Left: -1, Right: 0, Top: 0, Bottom: 2},
	}
	singleTerminal = &shape{
		offsets: []grid.Point{{X: 0, Y: 0}},
		extents: grid.Extents{},
	}
)

// base holds the state common to every variant
type base struct {
	id       byte
	desc     string
	name     string
	nodes    []string
	position grid.Point
	rotation grid.Rotation
	shape    *shape
}

func newBase(id byte, desc string, s *shape) base {
	return base{id: id, desc: desc, shape: s}
}

func (b *base) Identifier() byte    { return b.id }
func (b *base) Description() string { return b.desc }
func (b *base) Name() string        { return b.name }
func (b *base) SetName(name string) { b.name = name }
func (b *base) Ref() string         { return string(b.id) + b.name }
func (b *base) NodeCount() int      { return len(b.shape.offsets) }
func (b *base) Node(i int) string   { return b.nodes[i] }
func (b *base) Complete() bool      { return len(b.nodes) == b.NodeCount() }

func (b *base) Nodes() []string {
	out := make([]string, len(b.nodes))
	copy(out, b.nodes)
	return out
}

func (b *base) AddNode(node string) error {
	if len(b.nodes) >= b.NodeCount() {
		return fmt.Errorf("%w: %s already has %d", ErrTooManyNodes, b.Ref(), b.NodeCount())
	}
	b.nodes = append(b.nodes, node)
	return nil
}

func (b *base) ConnectedTo(node string) (int, bool) {
	for i, n := range b.nodes {
		if n == node {
			return i, true
		}
	}
	return -1, false
}

func (b *base) RelativeNodeOffset(i int) grid.Point {
	return b.shape.offsets[i]
}

func (b *base) NodePosition(i int) grid.Point {
	return b.position.Add(b.rotation.Apply(b.shape.offsets[i]))
}

func (b *base) Extents() grid.Extents {
	return b.shape.extents.Rotate(b.rotation)
}

func (b *base) Box() grid.Rect {
	return b.Extents().At(b.position)
}

func (b *base) Position() grid.Point        { return b.position }
func (b *base) SetPosition(p grid.Point)    { b.position = p }
func (b *base) Rotation() grid.Rotation     { return b.rotation }
func (b *base) SetRotation(r grid.Rotation) { b.rotation = r }
func (b *base) RotateClockwise()            { b.rotation = b.rotation.Clockwise() }
func (b *base) RotateCounterClockwise()     { b.rotation = b.rotation.CounterClockwise() }
func (b *base) sealed()                     {}

func (b base) clone() base {
	c := b
	c.nodes = b.Nodes()
	return c
}

func invalidProperty(d Device, token string) error {
	return fmt.Errorf("%w: %s %s: %q", ErrInvalidProperty, d.Description(), d.Ref(), token)
}
