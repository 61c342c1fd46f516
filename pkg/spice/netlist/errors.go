package netlist

import (
	"errors"
	"fmt"

	"github.com/OpenTraceLab/OpenTraceSPICE/pkg/spice/device"
)

var (
	// ErrUnknownDevice is returned when a line starts with an unregistered letter
	ErrUnknownDevice = errors.New("unknown device identifier")

	// ErrMissingNodes is returned when a device line has fewer nodes than required
	ErrMissingNodes = errors.New("missing node tokens")

	// ErrInvalidProperty is returned when a device rejects a property token
	ErrInvalidProperty = device.ErrInvalidProperty

	// ErrUnterminatedSubcircuit is returned for a .SUBCKT without .ENDS
	ErrUnterminatedSubcircuit = errors.New("unterminated subcircuit")

	// ErrInvalidStatement is returned when a line does not fit the grammar
	ErrInvalidStatement = errors.New("invalid statement")
)

// ParseError ties an error to the source line it was found on
type ParseError struct {
	Line int    // 1-based line in the input; continued lines report their first line
	Text string // the logical line after continuation merging
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %v: %q", e.Line, e.Err, e.Text)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
