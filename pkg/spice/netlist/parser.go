package netlist

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/participle/v2"

	"github.com/OpenTraceLab/OpenTraceSPICE/pkg/spice/circuit"
	"github.com/OpenTraceLab/OpenTraceSPICE/pkg/spice/device"
)

// Parser turns SPICE netlists into circuits. A Parser holds no per-input
// state and may be reused.
type Parser struct {
	registry *device.Registry
	stmt     *participle.Parser[Statement]
	config   *Config
	log      *slog.Logger
}

// Option customizes a Parser
type Option func(*Parser)

// WithConfig replaces the default configuration
func WithConfig(cfg *Config) Option {
	return func(p *Parser) { p.config = cfg }
}

// WithLogger sets the logger used for debug output about skipped lines
func WithLogger(l *slog.Logger) Option {
	return func(p *Parser) { p.log = l }
}

// NewParser creates a parser drawing devices from reg. A nil registry means
// device.DefaultRegistry().
func NewParser(reg *device.Registry, opts ...Option) (*Parser, error) {
	stmt, err := participle.Build[Statement](
		participle.Lexer(SPICELexer),
		participle.Elide("Whitespace"),
		participle.UseLookahead(2),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build parser: %w", err)
	}

	if reg == nil {
		reg = device.DefaultRegistry()
	}

	p := &Parser{
		registry: reg,
		stmt:     stmt,
		config:   DefaultConfig(),
		log:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(p)
	}
	if err := p.config.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Parse reads a netlist and returns its subcircuits in file order
func (p *Parser) Parse(r io.Reader) ([]*circuit.Circuit, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read netlist: %w", err)
	}
	return p.ParseString(string(data))
}

// ParseFile parses the netlist stored at filename
func (p *Parser) ParseFile(filename string) ([]*circuit.Circuit, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return p.Parse(file)
}

// ParseString parses a netlist held in memory
func (p *Parser) ParseString(input string) ([]*circuit.Circuit, error) {
	entries := p.statements(p.preprocess(input))
	models := collectModels(entries)

	var circuits []*circuit.Circuit
	for i := 0; i < len(entries); i++ {
		e := entries[i]
		if e.err != nil {
			if opensBlock(e.text) {
				return nil, e.err
			}
			p.log.Debug("ignoring malformed line outside subcircuit", "line", e.num, "text", e.text)
			continue
		}

		open := e.stmt.Subckt
		if open == nil {
			if e.stmt.Ends != nil || e.stmt.Device != nil {
				p.log.Debug("ignoring line outside subcircuit", "line", e.num, "text", e.text)
			}
			continue
		}

		end := -1
		for j := i + 1; j < len(entries); j++ {
			if entries[j].stmt != nil && entries[j].stmt.Ends != nil {
				end = j
				break
			}
		}
		if end < 0 {
			return nil, &ParseError{
				Line: e.num,
				Text: e.text,
				Err:  fmt.Errorf("%w: .SUBCKT %s has no .ENDS", ErrUnterminatedSubcircuit, open.Name),
			}
		}

		c := circuit.New(open.Name)
		for _, param := range open.Params {
			c.AddExternalNode(p.node(param))
		}
		if err := p.fill(c, entries[i+1:end]); err != nil {
			return nil, err
		}
		resolveChannels(c, models)
		circuits = append(circuits, c)

		i = end
	}

	if len(circuits) == 0 && p.config.TopLevel {
		c, err := p.topLevel(input, entries)
		if err != nil {
			return nil, err
		}
		resolveChannels(c, models)
		circuits = append(circuits, c)
	}

	return circuits, nil
}

// entry is a logical line and its statement, or the reason it did not parse
type entry struct {
	line
	stmt *Statement
	err  error
}

// statements runs every logical line through the grammar. Failures are kept
// on the entry; whether they abort the load depends on where the line sits.
func (p *Parser) statements(lines []line) []entry {
	entries := make([]entry, len(lines))
	for i, ln := range lines {
		entries[i].line = ln
		st, err := p.stmt.ParseString("", ln.text)
		if err != nil {
			entries[i].err = &ParseError{Line: ln.num, Text: ln.text, Err: fmt.Errorf("%w: %v", ErrInvalidStatement, err)}
			continue
		}
		entries[i].stmt = st
	}
	return entries
}

// fill adds the devices of one block to c. Only .MODEL cards are skipped;
// any other dot line, a nested .SUBCKT included, has no device letter.
func (p *Parser) fill(c *circuit.Circuit, body []entry) error {
	for _, e := range body {
		if e.err != nil {
			return e.err
		}
		switch {
		case e.stmt.Device != nil:
			if err := p.addDevice(c, e.stmt.Device); err != nil {
				return &ParseError{Line: e.num, Text: e.text, Err: err}
			}
		case e.stmt.Model != nil:
			p.log.Debug("skipping .MODEL card", "line", e.num, "model", e.stmt.Model.Name)
		default:
			return &ParseError{Line: e.num, Text: e.text, Err: fmt.Errorf("%w: %q", ErrUnknownDevice, e.text[:1])}
		}
	}
	return nil
}

// topLevel builds one circuit out of a flat netlist. The first line of the
// input is its title; control lines are skipped.
func (p *Parser) topLevel(input string, entries []entry) (*circuit.Circuit, error) {
	title, _, _ := strings.Cut(input, "\n")
	title = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(title), "*"))
	if title == "" || strings.HasPrefix(title, ".") {
		title = p.config.TopLevelName
	}

	c := circuit.New(title)
	for _, e := range entries {
		if e.err != nil || e.stmt.Device == nil {
			p.log.Debug("skipping control line", "line", e.num, "text", e.text)
			continue
		}
		if e.num == 1 {
			continue
		}
		if err := p.addDevice(c, e.stmt.Device); err != nil {
			return nil, &ParseError{Line: e.num, Text: e.text, Err: err}
		}
	}
	return c, nil
}

// opensBlock reports whether text starts with the .SUBCKT keyword
func opensBlock(text string) bool {
	fields := strings.Fields(text)
	return len(fields) > 0 && strings.EqualFold(fields[0], ".subckt")
}

func (p *Parser) addDevice(c *circuit.Circuit, st *DeviceStmt) error {
	dev, err := p.registry.New(st.Head[0])
	if err != nil {
		if errors.Is(err, device.ErrUnknownIdentifier) {
			return fmt.Errorf("%w: %q", ErrUnknownDevice, st.Head[:1])
		}
		return err
	}
	dev.SetName(st.Head[1:])

	need := dev.NodeCount()
	if len(st.Fields) < need {
		return fmt.Errorf("%w: %s needs %d nodes, got %d", ErrMissingNodes, st.Head, need, len(st.Fields))
	}

	for _, tok := range st.Fields[:need] {
		n := p.node(tok)
		c.AddNode(n)
		if err := dev.AddNode(n); err != nil {
			return err
		}
	}

	for j, tok := range st.Fields[need:] {
		if err := dev.ParseProperty(j, tok); err != nil {
			return err
		}
	}

	c.AddDevice(dev)
	return nil
}

func (p *Parser) node(tok string) string {
	if p.config.LowerCaseNodes {
		return strings.ToLower(tok)
	}
	return tok
}

// collectModels maps lower-cased model names to the polarity their type implies
func collectModels(entries []entry) map[string]device.Channel {
	models := make(map[string]device.Channel)
	for _, e := range entries {
		if e.stmt == nil || e.stmt.Model == nil {
			continue
		}
		m := e.stmt.Model
		if ch := device.ChannelForModelType(m.Kind()); ch != device.ChannelUnknown {
			models[strings.ToLower(m.Name)] = ch
		}
	}
	return models
}

func resolveChannels(c *circuit.Circuit, models map[string]device.Channel) {
	for _, d := range c.Devices() {
		if t, ok := d.(*device.Transistor); ok {
			if ch, ok := models[strings.ToLower(t.Model)]; ok {
				t.Channel = ch
			}
		}
	}
}
