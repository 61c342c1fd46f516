package netlist

import "strings"

// Statement is one logical line of a netlist
type Statement struct {
	Subckt    *SubcktStmt    `parser:"  @@"`
	Ends      *EndsStmt      `parser:"| @@"`
	Model     *ModelStmt     `parser:"| @@"`
	Directive *DirectiveStmt `parser:"| @@"`
	Device    *DeviceStmt    `parser:"| @@"`
}

// SubcktStmt opens a block
// Example: .SUBCKT amp in out vcc
type SubcktStmt struct {
	Name   string   `parser:"Subckt @Word"`
	Params []string `parser:"@Word*"`
}

// EndsStmt closes a block
// Example: .ENDS amp
type EndsStmt struct {
	Ends bool   `parser:"@Ends"`
	Name string `parser:"@Word?"`
}

// ModelStmt declares a device model
// Example: .MODEL qnpn NPN(BF=100)
type ModelStmt struct {
	Name   string   `parser:"Model @Word"`
	Type   string   `parser:"@Word?"`
	Params []string `parser:"@( Word | Directive | Subckt | Ends | Model )*"`
}

// Kind returns the model type without its parameter list (NPN for NPN(BF=100))
func (m *ModelStmt) Kind() string {
	kind, _, _ := strings.Cut(m.Type, "(")
	return strings.ToUpper(kind)
}

// DirectiveStmt is any other dot line
// Example: .TRAN 1n 100n
type DirectiveStmt struct {
	Name string   `parser:"@Directive"`
	Args []string `parser:"@( Word | Directive | Subckt | Ends | Model )*"`
}

// DeviceStmt is an element line
// Example: R1 in out 10k
type DeviceStmt struct {
	Head   string   `parser:"@Word"`
	Fields []string `parser:"@( Word | Directive | Subckt | Ends | Model )*"`
}
