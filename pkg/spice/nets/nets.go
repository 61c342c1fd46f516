// Package nets groups device pins by the circuit node they connect to and
// exports the result for other tools.
package nets

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/OpenTraceLab/OpenTraceSPICE/pkg/spice/circuit"
	"github.com/OpenTraceLab/OpenTraceSPICE/pkg/spice/device"
	"github.com/OpenTraceLab/OpenTraceSPICE/pkg/spice/grid"
)

// PinRef identifies one device terminal
type PinRef struct {
	Device   string     `json:"device"`   // reference, e.g. R1
	Pin      int        `json:"pin"`      // node index on the device
	Position grid.Point `json:"position"` // absolute grid position
}

// Net is the set of pins attached to one circuit node
type Net struct {
	ID     int      `json:"id"`
	Name   string   `json:"name"`
	Ground bool     `json:"ground,omitempty"`
	Pins   []PinRef `json:"pins"`
}

// Segment is a straight airwire between two pins
type Segment struct {
	From grid.Point
	To   grid.Point
}

// Airwires links every pair of pins of the net once, ordered by the first
// pin and then the second
func (n *Net) Airwires() []Segment {
	var out []Segment
	for i := range n.Pins {
		for j := i + 1; j < len(n.Pins); j++ {
			out = append(out, Segment{From: n.Pins[i].Position, To: n.Pins[j].Position})
		}
	}
	return out
}

// Netlist is the set of nets of one circuit, ordered by node name
type Netlist struct {
	Circuit string
	Nets    []*Net

	components []component
}

type component struct {
	ref   string
	value string
}

// Extract builds the netlist of c from the current device positions
func Extract(c *circuit.Circuit) *Netlist {
	byNode := make(map[string]*Net)
	for _, node := range c.Nodes() {
		byNode[node] = &Net{Name: node, Ground: node == device.Ground}
	}

	nl := &Netlist{Circuit: c.Name()}
	for _, d := range c.Devices() {
		nl.components = append(nl.components, component{ref: d.Ref(), value: d.Summary()})
		for i, node := range d.Nodes() {
			net, ok := byNode[node]
			if !ok {
				net = &Net{Name: node, Ground: node == device.Ground}
				byNode[node] = net
			}
			net.Pins = append(net.Pins, PinRef{Device: d.Ref(), Pin: i, Position: d.NodePosition(i)})
		}
	}

	for _, net := range byNode {
		nl.Nets = append(nl.Nets, net)
	}
	sort.Slice(nl.Nets, func(i, j int) bool {
		return nl.Nets[i].Name < nl.Nets[j].Name
	})
	for i, net := range nl.Nets {
		net.ID = i + 1
	}

	return nl
}

// NetCount returns the number of nets
func (nl *Netlist) NetCount() int {
	return len(nl.Nets)
}

// MultiPinNetCount returns the number of nets with more than one pin
func (nl *Netlist) MultiPinNetCount() int {
	count := 0
	for _, net := range nl.Nets {
		if len(net.Pins) > 1 {
			count++
		}
	}
	return count
}

// Net returns the net for a node name
func (nl *Netlist) Net(name string) (*Net, bool) {
	for _, net := range nl.Nets {
		if net.Name == name {
			return net, true
		}
	}
	return nil, false
}

// Airwires returns the airwires of every net, ground included
func (nl *Netlist) Airwires() []Segment {
	var out []Segment
	for _, net := range nl.Nets {
		out = append(out, net.Airwires()...)
	}
	return out
}

// Clone creates a deep copy of the netlist
func (nl *Netlist) Clone() *Netlist {
	clone := &Netlist{
		Circuit:    nl.Circuit,
		Nets:       make([]*Net, len(nl.Nets)),
		components: append([]component(nil), nl.components...),
	}
	for i, net := range nl.Nets {
		c := *net
		c.Pins = append([]PinRef(nil), net.Pins...)
		clone.Nets[i] = &c
	}
	return clone
}

// ExportJSON exports the netlist to JSON format.
func (nl *Netlist) ExportJSON() ([]byte, error) {
	output := struct {
		Version     string `json:"version"`
		Circuit     string `json:"circuit"`
		NetCount    int    `json:"net_count"`
		MultiNets   int    `json:"multi_pin_nets"`
		Nets        []*Net `json:"nets"`
		GeneratedBy string `json:"generated_by"`
	}{
		Version:     "1.0",
		Circuit:     nl.Circuit,
		NetCount:    nl.NetCount(),
		MultiNets:   nl.MultiPinNetCount(),
		Nets:        nl.Nets,
		GeneratedBy: "ots netlist viewer",
	}

	return json.MarshalIndent(output, "", "  ")
}

// ExportKiCad exports the netlist in the KiCad netlist s-expression format.
// Pins are numbered from 1.
func (nl *Netlist) ExportKiCad() string {
	var b strings.Builder
	b.WriteString("(export (version D)\n")
	b.WriteString("  (design\n")
	fmt.Fprintf(&b, "    (source %s)\n", quote(nl.Circuit))
	b.WriteString("    (tool \"ots\")\n")
	b.WriteString("  )\n")

	b.WriteString("  (components\n")
	for _, comp := range nl.components {
		fmt.Fprintf(&b, "    (comp (ref %s) (value %s))\n", quote(comp.ref), quote(comp.value))
	}
	b.WriteString("  )\n")

	b.WriteString("  (nets\n")
	for _, net := range nl.Nets {
		fmt.Fprintf(&b, "    (net (code %d) (name %s)\n", net.ID, quote(net.Name))
		for _, pin := range net.Pins {
			fmt.Fprintf(&b, "      (node (ref %s) (pin %d))\n", quote(pin.Device), pin.Pin+1)
		}
		b.WriteString("    )\n")
	}
	b.WriteString("  )\n")
	b.WriteString(")\n")

	return b.String()
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(strings.ReplaceAll(s, `\`, `\\`), `"`, `\"`) + `"`
}
