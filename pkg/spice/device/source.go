package device

import (
	"fmt"
	"strings"

	"github.com/OpenTraceLab/OpenTraceSPICE/pkg/spice/value"
)

// SourceKind selects an independent source
type SourceKind byte

const (
	CurrentSource SourceKind = 'I'
	VoltageSource SourceKind = 'V'
)

// IndependentSource is a DC current or voltage source. Node 0 is the plus
// node (or current output), node 1 the minus node.
//
//	I|V{name} {+node} {-node} [DC=]{value}
type IndependentSource struct {
	base
	Kind  SourceKind
	Value float64
}

// NewIndependentSource returns an unnamed source of the given kind
func NewIndependentSource(kind SourceKind) *IndependentSource {
	desc := "VOLTAGE SOURCE"
	if kind == CurrentSource {
		desc = "CURRENT SOURCE"
	}
	return &IndependentSource{
		base: newBase(byte(kind), desc, twoTerminal),
		Kind: kind,
	}
}

func (s *IndependentSource) ParseProperty(index int, token string) error {
	if v, err := value.Parse(token); err == nil {
		s.Value = v
		return nil
	}

	if strings.HasPrefix(strings.ToUpper(token), "DC=") {
		v, err := value.Parse(token[3:])
		if err != nil {
			return fmt.Errorf("%w: DC value of %s: %w", ErrInvalidProperty, s.Ref(), err)
		}
		s.Value = v
		return nil
	}

	return invalidProperty(s, token)
}

func (s *IndependentSource) Summary() string {
	unit := "V"
	if s.Kind == CurrentSource {
		unit = "A"
	}
	return s.desc + " " + value.Format(s.Value, unit)
}

func (s *IndependentSource) Clone() Device {
	c := *s
	c.base = s.base.clone()
	return &c
}

// DependentKind selects a voltage-controlled source
type DependentKind byte

const (
	VCVS DependentKind = 'E'
	VCCS DependentKind = 'G'
)

// DependentSource is a voltage-controlled voltage (E) or current (G) source:
//
//	E|G{name} {+node} {-node} {+control} {-control} {gain}
//	E|G{name} {+node} {-node} VALUE {expression}
//
// Once a VALUE token has been seen every following token is accepted
// unchecked and only kept as expression text.
type DependentSource struct {
	base
	Kind       DependentKind
	Control1   string
	Control2   string
	Gain       float64
	Behavioral bool
	Expression string
}

// NewDependentSource returns an unnamed controlled source of the given kind
func NewDependentSource(kind DependentKind) *DependentSource {
	desc := "VOLTAGE-CONTROLLED VOLTAGE SOURCE"
	if kind == VCCS {
		desc = "VOLTAGE-CONTROLLED CURRENT SOURCE"
	}
	return &DependentSource{
		base: newBase(byte(kind), desc, twoTerminal),
		Kind: kind,
	}
}

func (s *DependentSource) ParseProperty(index int, token string) error {
	if s.Behavioral {
		s.Expression = strings.TrimSpace(s.Expression + " " + token)
		return nil
	}

	if strings.HasPrefix(strings.ToUpper(token), "VALUE") {
		s.Behavioral = true
		s.Expression = strings.TrimSpace(token[len("VALUE"):])
		return nil
	}

	switch {
	case index == 0:
		s.Control1 = strings.ToLower(token)
	case index == 1:
		s.Control2 = strings.ToLower(token)
	case index == 2 && s.Control1 != "" && s.Control2 != "":
		v, err := value.Parse(token)
		if err != nil {
			return fmt.Errorf("%w: gain of %s: %w", ErrInvalidProperty, s.Ref(), err)
		}
		s.Gain = v
	default:
		return invalidProperty(s, token)
	}
	return nil
}

func (s *DependentSource) Summary() string {
	if s.Behavioral {
		return s.desc + " VALUE " + s.Expression
	}
	return fmt.Sprintf("%s ctrl=(%s,%s) gain=%s", s.desc, s.Control1, s.Control2, value.Format(s.Gain, ""))
}

func (s *DependentSource) Clone() Device {
	c := *s
	c.base = s.base.clone()
	return &c
}
