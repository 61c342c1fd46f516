// Package netlist reads SPICE netlists and builds one circuit per
// .SUBCKT/.ENDS block.
//
// # Overview
//
// Loading runs in three passes:
//  1. Preprocessing: lines are trimmed, blank lines and '*' comments are
//     dropped and lines starting with '+' are appended to the line before.
//  2. Each logical line is tokenized and matched against a small grammar
//     (.SUBCKT, .ENDS, .MODEL, other dot lines, device lines).
//  3. Every .SUBCKT is paired with the next .ENDS. Subcircuit parameters
//     become external pins, device lines become devices, and .MODEL cards
//     found anywhere in the file decide the polarity of transistors.
//
// Device lines look like
//
//	<letter><name> <node>... <property>...
//
// The letter picks a prototype from a device.Registry, the next NodeCount()
// words are nodes (lower-cased by default) and every remaining word is handed
// to Device.ParseProperty. Inside a block only .MODEL cards are skipped; any
// other dot line, a nested .SUBCKT included, fails as an unknown device.
// Lines outside every block are ignored, even ones the grammar rejects, with
// the exception of a malformed .SUBCKT.
//
// # Usage
//
//	p, err := netlist.NewParser(device.DefaultRegistry())
//	if err != nil {
//		return err
//	}
//	circuits, err := p.ParseFile("amp.cir")
//	if err != nil {
//		var pe *netlist.ParseError
//		if errors.As(err, &pe) {
//			fmt.Printf("line %d: %v\n", pe.Line, pe.Err)
//		}
//		return err
//	}
//
// # Errors
//
// The first error aborts the load. Errors are *ParseError values wrapping
// one of ErrUnknownDevice, ErrMissingNodes, ErrInvalidProperty,
// ErrUnterminatedSubcircuit or ErrInvalidStatement. Line numbers refer to the
// input text; a continued line reports the line it starts on.
//
// # Flat netlists
//
// With Config.TopLevel set, a file containing no .SUBCKT at all is read as a
// single circuit named after its title line.
package netlist
