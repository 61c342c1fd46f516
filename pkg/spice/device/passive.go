package device

import (
	"fmt"
	"strings"

	"github.com/OpenTraceLab/OpenTraceSPICE/pkg/spice/value"
)

// PassiveKind selects the two-terminal passive element
type PassiveKind byte

const (
	Resistor  PassiveKind = 'R'
	Capacitor PassiveKind = 'C'
	Inductor  PassiveKind = 'L'
	Diode     PassiveKind = 'D'
)

func (k PassiveKind) description() string {
	switch k {
	case Resistor:
		return "RESISTOR"
	case Capacitor:
		return "CAPACITOR"
	case Inductor:
		return "INDUCTOR"
	case Diode:
		return "DIODE"
	}
	return "PASSIVE"
}

func (k PassiveKind) unit() string {
	switch k {
	case Resistor:
		return "OHM"
	case Capacitor:
		return "F"
	case Inductor:
		return "H"
	}
	return ""
}

// Passive is a resistor, capacitor, inductor or diode:
//
//	R|C|L|D{name} {+node} {-node} [model] {value} [IC={initial}]
type Passive struct {
	base
	Kind             PassiveKind
	Value            float64
	InitialCondition float64
	Model            string
}

// NewPassive returns an unnamed passive device of the given kind
func NewPassive(kind PassiveKind) *Passive {
	return &Passive{
		base: newBase(byte(kind), kind.description(), twoTerminal),
		Kind: kind,
	}
}

func (p *Passive) ParseProperty(index int, token string) error {
	if v, err := value.Parse(token); err == nil {
		p.Value = v
		return nil
	}

	if strings.HasPrefix(strings.ToUpper(token), "IC=") {
		v, err := value.Parse(token[3:])
		if err != nil {
			return fmt.Errorf("%w: initial condition of %s: %w", ErrInvalidProperty, p.Ref(), err)
		}
		p.InitialCondition = v
		return nil
	}

	if index == 0 {
		p.Model = token
		return nil
	}

	return invalidProperty(p, token)
}

func (p *Passive) Summary() string {
	var parts []string
	parts = append(parts, p.desc)
	if p.Kind != Diode || p.Value != 0 {
		parts = append(parts, value.Format(p.Value, p.Kind.unit()))
	}
	if p.Model != "" {
		parts = append(parts, "model="+p.Model)
	}
	if p.InitialCondition != 0 {
		parts = append(parts, "ic="+value.Format(p.InitialCondition, ""))
	}
	return strings.Join(parts, " ")
}

func (p *Passive) Clone() Device {
	c := *p
	c.base = p.base.clone()
	return &c
}
