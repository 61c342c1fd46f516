// Package layoutfile saves and restores device placements as an
// s-expression document:
//
//	(netlist_layout (version 1)
//	  (circuit "amp")
//	  (bbox 2 2 9 5)
//	  (device (ref "R1") (at 3 2) (rot 90)))
//
// Devices are matched by reference (R1, Q2, Pin...). Only positions and
// rotations are stored; the netlist stays the source of truth for
// everything else.
package layoutfile

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/OpenTraceLab/OpenTraceSPICE/pkg/sexp"
	"github.com/OpenTraceLab/OpenTraceSPICE/pkg/spice/circuit"
	"github.com/OpenTraceLab/OpenTraceSPICE/pkg/spice/grid"
)

// Version is the document version written by this package
const Version = 1

const rootKey = "netlist_layout"

var (
	// ErrInvalidLayout is returned for documents that do not describe a layout
	ErrInvalidLayout = errors.New("layoutfile: invalid layout")

	// ErrUnsupportedVersion is returned for documents newer than Version
	ErrUnsupportedVersion = errors.New("layoutfile: unsupported version")
)

// Placement is the stored state of one device
type Placement struct {
	Ref      string
	Position grid.Point
	Rotation grid.Rotation
}

// Layout is a saved circuit placement
type Layout struct {
	Circuit string
	Box     grid.Rect
	Devices []Placement
}

// FromCircuit captures the current placement of c
func FromCircuit(c *circuit.Circuit) *Layout {
	l := &Layout{Circuit: c.Name(), Box: c.BoundingBox()}
	for _, d := range c.Devices() {
		l.Devices = append(l.Devices, Placement{
			Ref:      d.Ref(),
			Position: d.Position(),
			Rotation: d.Rotation(),
		})
	}
	return l
}

// Apply moves and rotates the devices of c to the stored placement and
// refreshes its bounding box. It returns the references that matched no
// device. When a reference occurs more than once, stored entries and devices
// are paired in order.
func (l *Layout) Apply(c *circuit.Circuit) []string {
	used := make([]bool, c.Len())
	var missing []string

	for _, p := range l.Devices {
		idx := -1
		for i, d := range c.Devices() {
			if !used[i] && d.Ref() == p.Ref {
				idx = i
				break
			}
		}
		if idx < 0 {
			missing = append(missing, p.Ref)
			continue
		}
		used[idx] = true
		d := c.Device(idx)
		d.SetPosition(p.Position)
		d.SetRotation(p.Rotation)
	}

	c.UpdateBoundingBox()
	return missing
}

// Encode renders the layout as an s-expression
func (l *Layout) Encode() sexp.List {
	doc := sexp.L(
		sexp.Sym(rootKey),
		sexp.L(sexp.Sym("version"), sexp.Int(Version)),
		sexp.L(sexp.Sym("circuit"), sexp.Str(l.Circuit)),
		sexp.L(sexp.Sym("bbox"),
			sexp.Int(l.Box.Min.X), sexp.Int(l.Box.Min.Y),
			sexp.Int(l.Box.Max.X), sexp.Int(l.Box.Max.Y)),
	)
	for _, p := range l.Devices {
		doc = append(doc, sexp.L(
			sexp.Sym("device"),
			sexp.L(sexp.Sym("ref"), sexp.Str(p.Ref)),
			sexp.L(sexp.Sym("at"), sexp.Int(p.Position.X), sexp.Int(p.Position.Y)),
			sexp.L(sexp.Sym("rot"), sexp.Int(p.Rotation.Degrees())),
		))
	}
	return doc
}

// Write stores the layout in w, one device per line
func (l *Layout) Write(w io.Writer) error {
	doc := l.Encode()
	if _, err := fmt.Fprintf(w, "(%s", rootKey); err != nil {
		return err
	}
	for _, item := range doc[1:] {
		if _, err := fmt.Fprintf(w, "\n  %s", item); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, ")\n")
	return err
}

// WriteFile stores the layout at filename
func (l *Layout) WriteFile(filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	if err := l.Write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Read parses a layout document
func Read(r io.Reader) (*Layout, error) {
	exprs, err := sexp.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidLayout, err)
	}
	if len(exprs) != 1 {
		return nil, fmt.Errorf("%w: expected one (%s ...) document, got %d expressions", ErrInvalidLayout, rootKey, len(exprs))
	}
	root, ok := exprs[0].(sexp.List)
	if !ok || root.Head() != rootKey {
		return nil, fmt.Errorf("%w: missing (%s ...)", ErrInvalidLayout, rootKey)
	}
	return decode(root)
}

// ReadFile parses the layout stored at filename
func ReadFile(filename string) (*Layout, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	return Read(f)
}

func decode(root sexp.List) (*Layout, error) {
	ver, ok := root.Find("version")
	if !ok {
		return nil, fmt.Errorf("%w: missing version", ErrInvalidLayout)
	}
	v, err := ver.GetInt(1)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidLayout, err)
	}
	if v > Version {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, v)
	}

	l := &Layout{}
	if name, ok := root.Find("circuit"); ok {
		if l.Circuit, err = name.GetString(1); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidLayout, err)
		}
	}

	if bb, ok := root.Find("bbox"); ok {
		var coords [4]int
		for i := range coords {
			if coords[i], err = bb.GetInt(i + 1); err != nil {
				return nil, fmt.Errorf("%w: %w", ErrInvalidLayout, err)
			}
		}
		l.Box = grid.Rect{Min: grid.Pt(coords[0], coords[1]), Max: grid.Pt(coords[2], coords[3])}
	}

	for _, dev := range root.FindAll("device") {
		p, err := decodeDevice(dev)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidLayout, err)
		}
		l.Devices = append(l.Devices, p)
	}

	return l, nil
}

func decodeDevice(dev sexp.List) (Placement, error) {
	var p Placement

	ref, ok := dev.Find("ref")
	if !ok {
		return p, fmt.Errorf("device without ref: %s", dev)
	}
	name, err := ref.GetString(1)
	if err != nil {
		return p, err
	}
	p.Ref = name

	at, ok := dev.Find("at")
	if !ok {
		return p, fmt.Errorf("device %s without position", p.Ref)
	}
	if p.Position.X, err = at.GetInt(1); err != nil {
		return p, err
	}
	if p.Position.Y, err = at.GetInt(2); err != nil {
		return p, err
	}

	if rot, ok := dev.Find("rot"); ok {
		deg, err := rot.GetInt(1)
		if err != nil {
			return p, err
		}
		if p.Rotation, err = grid.RotationFromDegrees(deg); err != nil {
			return p, fmt.Errorf("device %s: %w", p.Ref, err)
		}
	}

	return p, nil
}
