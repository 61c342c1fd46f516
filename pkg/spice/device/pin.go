package device

// PinIdentifier marks external pins. It is never registered for parsing.
const PinIdentifier = 'P'

// ExternalPin is a subcircuit port, drawn as a single-node device bound to
// the exposed node.
type ExternalPin struct {
	base
}

// NewExternalPin returns a pin named after node and already bound to it
func NewExternalPin(node string) *ExternalPin {
	p := &ExternalPin{base: newBase(PinIdentifier, "EXTERNAL PIN", singleTerminal)}
	p.name = node
	p.nodes = []string{node}
	return p
}

// ParseProperty always fails: pins carry no properties
func (p *ExternalPin) ParseProperty(index int, token string) error {
	return invalidProperty(p, token)
}

func (p *ExternalPin) Summary() string {
	return p.desc + " " + p.name
}

func (p *ExternalPin) Clone() Device {
	c := *p
	c.base = p.base.clone()
	return &c
}
