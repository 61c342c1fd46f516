package device

import (
	"fmt"
	"sort"
	"strings"

	"github.com/OpenTraceLab/OpenTraceSPICE/pkg/spice/value"
)

// TransistorKind selects the three-terminal active element
type TransistorKind byte

const (
	MOS  TransistorKind = 'M'
	BJT  TransistorKind = 'Q'
	JFET TransistorKind = 'J'
)

func (k TransistorKind) description() string {
	switch k {
	case MOS:
		return "MOSFET"
	case BJT:
		return "BJT"
	case JFET:
		return "JFET"
	}
	return "TRANSISTOR"
}

// Channel is the transistor polarity, resolved from its .MODEL card
type Channel int

const (
	ChannelUnknown Channel = iota
	ChannelN
	ChannelP
)

func (c Channel) String() string {
	switch c {
	case ChannelN:
		return "N"
	case ChannelP:
		return "P"
	}
	return "?"
}

// ChannelForModelType maps a .MODEL type such as NMOS or PNP to a polarity
func ChannelForModelType(modelType string) Channel {
	switch strings.ToUpper(modelType) {
	case "NMOS", "NPN", "NJF":
		return ChannelN
	case "PMOS", "PNP", "PJF":
		return ChannelP
	}
	return ChannelUnknown
}

// Transistor is a MOSFET, BJT or JFET. Node 0 is the drain/collector, node 1
// the gate/base and node 2 the source/emitter:
//
//	M{name} {d} {g} {s} {sub} {model} [L={value}] [W={value}]
//	Q{name} {c} {b} {e} [{subs}] {model} [{area}]
//	J{name} {d} {g} {s} {model} [{area}]
type Transistor struct {
	base
	Kind      TransistorKind
	Model     string
	Substrate string
	Area      float64
	Off       bool
	Channel   Channel
	// Params holds key=value instance parameters, keys upper-cased
	Params map[string]string
}

// NewTransistor returns an unnamed transistor of the given kind
func NewTransistor(kind TransistorKind) *Transistor {
	return &Transistor{
		base: newBase(byte(kind), kind.description(), threeTerminal),
		Kind: kind,
	}
}

func (t *Transistor) ParseProperty(index int, token string) error {
	if key, val, ok := strings.Cut(token, "="); ok {
		if key == "" || val == "" {
			return invalidProperty(t, token)
		}
		for _, part := range strings.Split(val, ",") {
			if _, err := value.Parse(part); err != nil {
				return fmt.Errorf("%w: %s parameter %s: %w", ErrInvalidProperty, t.Ref(), key, err)
			}
		}
		if t.Params == nil {
			t.Params = make(map[string]string)
		}
		t.Params[strings.ToUpper(key)] = val
		return nil
	}

	if strings.EqualFold(token, "OFF") {
		t.Off = true
		return nil
	}

	// the bulk node of a MOSFET is mandatory and may look like a number
	if t.Kind == MOS && index == 0 {
		t.Substrate = strings.ToLower(token)
		return nil
	}

	if v, err := value.Parse(token); err == nil {
		if t.Model == "" {
			return invalidProperty(t, token)
		}
		t.Area = v
		return nil
	}

	if t.Model != "" {
		if t.Kind != BJT || t.Substrate != "" || t.Area != 0 {
			return invalidProperty(t, token)
		}
		t.Substrate = strings.ToLower(t.Model)
	}
	t.Model = token
	return nil
}

func (t *Transistor) Summary() string {
	parts := []string{t.desc}
	if t.Channel != ChannelUnknown {
		parts = append(parts, t.Channel.String()+"-channel")
	}
	if t.Model != "" {
		parts = append(parts, "model="+t.Model)
	}
	if t.Substrate != "" {
		parts = append(parts, "sub="+t.Substrate)
	}
	if t.Area != 0 {
		parts = append(parts, "area="+value.Format(t.Area, ""))
	}
	keys := make([]string, 0, len(t.Params))
	for k := range t.Params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		parts = append(parts, k+"="+t.Params[k])
	}
	if t.Off {
		parts = append(parts, "OFF")
	}
	return strings.Join(parts, " ")
}

func (t *Transistor) Clone() Device {
	c := *t
	c.base = t.base.clone()
	if t.Params != nil {
		c.Params = make(map[string]string, len(t.Params))
		for k, v := range t.Params {
			c.Params[k] = v
		}
	}
	return &c
}
