package device

import (
	"errors"
	"fmt"
	"sort"
)

var (
	// ErrUnknownIdentifier is returned when no prototype matches a letter
	ErrUnknownIdentifier = errors.New("device: unknown identifier")

	// ErrDuplicateIdentifier is returned when a letter is registered twice
	ErrDuplicateIdentifier = errors.New("device: identifier already registered")
)

// Registry maps SPICE identifier letters to device prototypes. New devices are
// always clones, so callers never share state with the prototypes.
type Registry struct {
	protos map[byte]Device
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{protos: make(map[byte]Device)}
}

// DefaultRegistry returns a new registry holding every parseable device kind
func DefaultRegistry() *Registry {
	r := NewRegistry()
	for _, d := range []Device{
		NewPassive(Capacitor),
		NewPassive(Resistor),
		NewPassive(Inductor),
		NewPassive(Diode),
		NewIndependentSource(CurrentSource),
		NewIndependentSource(VoltageSource),
		NewTransistor(MOS),
		NewTransistor(BJT),
		NewTransistor(JFET),
		NewDependentSource(VCCS),
		NewDependentSource(VCVS),
	} {
		// the letters above are distinct
		_ = r.Register(d)
	}
	return r
}

// Register adds a prototype under its identifier letter
func (r *Registry) Register(proto Device) error {
	id := upper(proto.Identifier())
	if _, ok := r.protos[id]; ok {
		return fmt.Errorf("%w: %c", ErrDuplicateIdentifier, id)
	}
	r.protos[id] = proto.Clone()
	return nil
}

// Lookup reports whether a prototype exists for id (case-insensitive)
func (r *Registry) Lookup(id byte) bool {
	_, ok := r.protos[upper(id)]
	return ok
}

// New returns a fresh device for the identifier letter (case-insensitive)
func (r *Registry) New(id byte) (Device, error) {
	proto, ok := r.protos[upper(id)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownIdentifier, id)
	}
	return proto.Clone(), nil
}

// Identifiers returns the registered letters in ascending order
func (r *Registry) Identifiers() []byte {
	ids := make([]byte, 0, len(r.protos))
	for id := range r.protos {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func upper(b byte) byte {
	if b >= 'a' && b <= 'z' {
		return b - 'a' + 'A'
	}
	return b
}
