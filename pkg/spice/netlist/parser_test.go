package netlist

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OpenTraceLab/OpenTraceSPICE/pkg/spice/circuit"
	"github.com/OpenTraceLab/OpenTraceSPICE/pkg/spice/device"
	"github.com/OpenTraceLab/OpenTraceSPICE/pkg/spice/value"
)

func newParser(t *testing.T, opts ...Option) *Parser {
	t.Helper()
	p, err := NewParser(device.DefaultRegistry(), opts...)
	require.NoError(t, err)
	return p
}

func refs(c *circuit.Circuit) []string {
	var out []string
	for _, d := range c.Devices() {
		out = append(out, d.Ref())
	}
	return out
}

func TestParseSimpleSubckt(t *testing.T) {
	src := `
* divider
.SUBCKT div IN out
R1 in OUT 10k
R2 out 0 10k
.ENDS div
`
	circuits, err := newParser(t).ParseString(src)
	require.NoError(t, err)
	require.Len(t, circuits, 1)

	c := circuits[0]
	assert.Equal(t, "div", c.Name())
	assert.Equal(t, []string{"0", "in", "out"}, c.Nodes())
	assert.Equal(t, []string{"Pin", "Pout", "R1", "R2"}, refs(c))
	assert.Equal(t, []string{"in", "out"}, c.Device(2).Nodes())

	r1 := c.Device(2).(*device.Passive)
	assert.Equal(t, 10e3, r1.Value)
}

func TestParseFile(t *testing.T) {
	circuits, err := newParser(t).ParseFile("testdata/amp.cir")
	require.NoError(t, err)
	require.Len(t, circuits, 2)

	stage := circuits[0]
	assert.Equal(t, "stage", stage.Name())
	assert.Equal(t, []string{"0", "e1", "in", "out", "vcc"}, stage.Nodes())
	assert.Equal(t, []string{"Pin", "Pout", "Pvcc", "Q1", "R1", "RE", "C1"}, refs(stage))

	q1 := stage.Device(3).(*device.Transistor)
	assert.Equal(t, "qnpn", q1.Model)
	assert.Equal(t, device.ChannelN, q1.Channel)

	c1 := stage.Device(6).(*device.Passive)
	assert.InEpsilon(t, 10e-12, c1.Value, 1e-12)

	follower := circuits[1]
	assert.Equal(t, "follower", follower.Name())
	q2 := follower.Device(3).(*device.Transistor)
	assert.Equal(t, device.ChannelP, q2.Channel)
	assert.Equal(t, 2.0, q2.Area)

	rload := follower.Device(4).(*device.Passive)
	assert.Equal(t, "load", rload.Name())
	assert.Equal(t, 1e3, rload.Value)
}

func TestParseReader(t *testing.T) {
	circuits, err := newParser(t).Parse(strings.NewReader(".subckt x a\nD1 a 0 dmod\n.ends\n"))
	require.NoError(t, err)
	require.Len(t, circuits, 1)
	assert.Equal(t, "dmod", circuits[0].Device(1).(*device.Passive).Model)
}

func TestContinuationMatchesSingleLine(t *testing.T) {
	joined := ".SUBCKT s a b\nE1 a 0 b 0 2.5\n.ENDS\n"
	split := ".SUBCKT s a\n+ b\nE1 a 0\n* comment between\n+ b 0\n\n+ 2.5\n.ENDS\n"

	p := newParser(t)
	want, err := p.ParseString(joined)
	require.NoError(t, err)
	got, err := p.ParseString(split)
	require.NoError(t, err)

	require.Len(t, got, 1)
	assert.Equal(t, want[0].Nodes(), got[0].Nodes())
	assert.Equal(t, refs(want[0]), refs(got[0]))
	assert.Equal(t, want[0].Device(2), got[0].Device(2))
}

func TestUnterminatedSubckt(t *testing.T) {
	src := ".SUBCKT good a\nR1 a 0 1\n.ENDS\n\n.SUBCKT bad a\nR1 a 0 1\n"
	_, err := newParser(t).ParseString(src)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnterminatedSubcircuit))

	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, 5, pe.Line)
	assert.Equal(t, ".SUBCKT bad a", pe.Text)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		wantErr error
		line    int
	}{
		{"unknown device", ".subckt s\nX1 a b sub\n.ends", ErrUnknownDevice, 2},
		{"missing nodes", ".subckt s\n\nQ1 c b\n.ends", ErrMissingNodes, 3},
		{"bad property", ".subckt s\nR1 a b 1k foo\n.ends", ErrInvalidProperty, 2},
		{"bad initial condition", ".subckt s\nC1 a b 1p IC=x\n.ends", value.ErrNumericFormat, 2},
		{"bad source token", ".subckt s\nV1 a 0 DC 5\n.ends", ErrInvalidProperty, 2},
		{"subckt without name", "* t\n.SUBCKT\n.ENDS", ErrInvalidStatement, 2},
		{"continued line reports first line", ".subckt s\nR1 a\n+ b 1k\n+ junk\n.ends", ErrInvalidProperty, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newParser(t).ParseString(tt.src)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)

			var pe *ParseError
			require.ErrorAs(t, err, &pe)
			assert.Equal(t, tt.line, pe.Line)
		})
	}
}

func TestModelCardsInsideBlockAreSkipped(t *testing.T) {
	src := `.subckt s a
.model dx D
R1 a 0 1k
.ends s
R9 stray line 1
.tran 1n 10n
`
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	circuits, err := newParser(t, WithLogger(logger)).ParseString(src)
	require.NoError(t, err)
	require.Len(t, circuits, 1)
	assert.Equal(t, []string{"Pa", "R1"}, refs(circuits[0]))
	assert.Contains(t, logs.String(), "skipping .MODEL card")
	assert.Contains(t, logs.String(), "ignoring line outside subcircuit")
}

func TestDirectivesInsideBlockAreUnknownDevices(t *testing.T) {
	tests := []struct {
		name string
		src  string
		line int
	}{
		{"param", ".SUBCKT a in\n.PARAM x=1\nR1 in 0 1k\n.ENDS\n", 2},
		{"options", ".subckt a in\nR1 in 0 1k\n.Options noacct\n.ends\n", 3},
		{"nested subckt", ".SUBCKT a in\n.SUBCKT b x\nR1 in 0 1k\n.ENDS\n", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			circuits, err := newParser(t).ParseString(tt.src)
			require.Error(t, err)
			assert.Nil(t, circuits)
			assert.ErrorIs(t, err, ErrUnknownDevice)

			var pe *ParseError
			require.ErrorAs(t, err, &pe)
			assert.Equal(t, tt.line, pe.Line)
		})
	}
}

func TestMalformedLineOutsideBlockIsIgnored(t *testing.T) {
	src := ".MODEL\n.subckt s a\nR1 a 0 1k\n.ends\n.MODEL\n"

	circuits, err := newParser(t).ParseString(src)
	require.NoError(t, err)
	require.Len(t, circuits, 1)
	assert.Equal(t, []string{"Pa", "R1"}, refs(circuits[0]))

	// the same line inside a block still fails
	_, err = newParser(t).ParseString(".subckt s a\n.MODEL\n.ends\n")
	assert.ErrorIs(t, err, ErrInvalidStatement)
}

func TestOrphanContinuationIsDropped(t *testing.T) {
	circuits, err := newParser(t).ParseString("+ R1 a b 1\n.subckt s a\n.ends\n")
	require.NoError(t, err)
	require.Len(t, circuits, 1)
	assert.Equal(t, 1, circuits[0].Len())
}

func TestTopLevel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TopLevel = true

	circuits, err := newParser(t, WithConfig(cfg)).ParseFile("testdata/flat.cir")
	require.NoError(t, err)
	require.Len(t, circuits, 1)

	c := circuits[0]
	assert.Equal(t, "RC low-pass", c.Name())
	assert.Equal(t, []string{"V1", "R1", "C1"}, refs(c))
	assert.Equal(t, 5.0, c.Device(0).(*device.IndependentSource).Value)

	// without the option a flat netlist yields nothing
	circuits, err = newParser(t).ParseFile("testdata/flat.cir")
	require.NoError(t, err)
	assert.Empty(t, circuits)
}

func TestTopLevelIgnoredWhenSubcktsExist(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TopLevel = true

	circuits, err := newParser(t, WithConfig(cfg)).ParseFile("testdata/amp.cir")
	require.NoError(t, err)
	assert.Len(t, circuits, 2)
}

func TestPreserveNodeCase(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LowerCaseNodes = false

	circuits, err := newParser(t, WithConfig(cfg)).ParseString(".subckt s IN\nR1 IN Out 1\n.ends")
	require.NoError(t, err)
	assert.Equal(t, []string{"IN", "Out"}, circuits[0].Nodes())
}

func TestCustomRegistry(t *testing.T) {
	reg := device.NewRegistry()
	require.NoError(t, reg.Register(device.NewPassive(device.Resistor)))

	p, err := NewParser(reg)
	require.NoError(t, err)

	_, err = p.ParseString(".subckt s\nC1 a b 1p\n.ends")
	assert.ErrorIs(t, err, ErrUnknownDevice)
}

func TestConfigValidate(t *testing.T) {
	cfg := &Config{}
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "top", cfg.TopLevelName)

	cfg.TopLevelName = "two words"
	assert.Error(t, cfg.Validate())

	_, err := NewParser(nil, WithConfig(cfg))
	assert.Error(t, err)
}
