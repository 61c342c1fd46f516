package device

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OpenTraceLab/OpenTraceSPICE/pkg/spice/grid"
	"github.com/OpenTraceLab/OpenTraceSPICE/pkg/spice/value"
)

func TestAddNode(t *testing.T) {
	r := NewPassive(Resistor)
	r.SetName("1")
	require.NoError(t, r.AddNode("in"))
	assert.False(t, r.Complete())
	require.NoError(t, r.AddNode("0"))
	assert.True(t, r.Complete())

	err := r.AddNode("extra")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTooManyNodes))
	assert.Equal(t, []string{"in", "0"}, r.Nodes())

	idx, ok := r.ConnectedTo("0")
	assert.True(t, ok)
	assert.Equal(t, 1, idx)
	_, ok = r.ConnectedTo("out")
	assert.False(t, ok)
}

func TestNodeCounts(t *testing.T) {
	tests := []struct {
		dev  Device
		want int
	}{
		{NewPassive(Capacitor), 2},
		{NewIndependentSource(VoltageSource), 2},
		{NewDependentSource(VCVS), 2},
		{NewTransistor(BJT), 3},
		{NewExternalPin("in"), 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.dev.NodeCount(), tt.dev.Description())
	}
}

func TestGeometry(t *testing.T) {
	q := NewTransistor(BJT)
	assert.Equal(t, grid.Pt(-1, 1), q.RelativeNodeOffset(1))
	assert.Equal(t, grid.Extents{Left: -1, Right: 0, Top: 0, Bottom: 2}, q.Extents())

	q.SetPosition(grid.Pt(5, 5))
	assert.Equal(t, grid.Pt(4, 6), q.NodePosition(1))
	assert.Equal(t, grid.R(4, 5, 5, 7), q.Box())

	q.RotateClockwise()
	assert.Equal(t, grid.R90, q.Rotation())
	// offsets stay unrotated, absolute positions follow the rotation
	assert.Equal(t, grid.Pt(-1, 1), q.RelativeNodeOffset(1))
	assert.Equal(t, grid.Pt(4, 4), q.NodePosition(1))
	assert.Equal(t, grid.Pt(3, 5), q.NodePosition(2))
	assert.Equal(t, grid.R(3, 4, 5, 5), q.Box())

	r := NewPassive(Resistor)
	r.SetRotation(grid.R90)
	assert.Equal(t, grid.Extents{Left: -1, Right: 0, Top: 0, Bottom: 0}, r.Extents())
	r.RotateCounterClockwise()
	r.RotateCounterClockwise()
	assert.Equal(t, grid.R270, r.Rotation())

	pin := NewExternalPin("in")
	assert.Equal(t, grid.Extents{}, pin.Extents())
	assert.Equal(t, "in", pin.Node(0))
}

func TestPassiveProperties(t *testing.T) {
	c := NewPassive(Capacitor)
	require.NoError(t, c.ParseProperty(0, "cmodel"))
	require.NoError(t, c.ParseProperty(1, "2.3nF"))
	require.NoError(t, c.ParseProperty(2, "ic=1.5V"))
	assert.Equal(t, "cmodel", c.Model)
	assert.InEpsilon(t, 2.3e-9, c.Value, 1e-12)
	assert.InEpsilon(t, 1.5, c.InitialCondition, 1e-12)

	err := c.ParseProperty(3, "junk")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidProperty))

	err = c.ParseProperty(0, "IC=oops")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidProperty))
	assert.True(t, errors.Is(err, value.ErrNumericFormat))

	d := NewPassive(Diode)
	require.NoError(t, d.ParseProperty(0, "1N4148"))
	assert.Equal(t, "1N4148", d.Model)
}

func TestSourceProperties(t *testing.T) {
	v := NewIndependentSource(VoltageSource)
	require.NoError(t, v.ParseProperty(0, "DC=5"))
	assert.Equal(t, 5.0, v.Value)
	require.NoError(t, v.ParseProperty(1, "3.3V"))
	assert.Equal(t, 3.3, v.Value)

	assert.ErrorIs(t, v.ParseProperty(2, "AC"), ErrInvalidProperty)
	assert.ErrorIs(t, v.ParseProperty(2, "DC=x"), ErrInvalidProperty)
	assert.ErrorIs(t, v.ParseProperty(0, "DC"), ErrInvalidProperty)
}

func TestDependentSourceProperties(t *testing.T) {
	e := NewDependentSource(VCVS)
	require.NoError(t, e.ParseProperty(0, "10"))
	require.NoError(t, e.ParseProperty(1, "11"))
	require.NoError(t, e.ParseProperty(2, "2.5"))
	assert.Equal(t, "10", e.Control1)
	assert.Equal(t, "11", e.Control2)
	assert.Equal(t, 2.5, e.Gain)
	assert.ErrorIs(t, e.ParseProperty(3, "1"), ErrInvalidProperty)

	bad := NewDependentSource(VCCS)
	require.NoError(t, bad.ParseProperty(0, "a"))
	require.NoError(t, bad.ParseProperty(1, "b"))
	assert.ErrorIs(t, bad.ParseProperty(2, "fast"), value.ErrNumericFormat)

	g := NewDependentSource(VCCS)
	require.NoError(t, g.ParseProperty(0, "VALUE"))
	for i, tok := range []string{"=", "{", "V(3)*V(5,6)*100", "}"} {
		require.NoError(t, g.ParseProperty(i+1, tok))
	}
	assert.True(t, g.Behavioral)
	assert.Equal(t, "= { V(3)*V(5,6)*100 }", g.Expression)
	assert.Empty(t, g.Control1)
}

func TestTransistorProperties(t *testing.T) {
	m := NewTransistor(MOS)
	for i, tok := range []string{"0", "nch", "L=1u", "W=10u"} {
		require.NoError(t, m.ParseProperty(i, tok))
	}
	assert.Equal(t, "0", m.Substrate)
	assert.Equal(t, "nch", m.Model)
	assert.Equal(t, map[string]string{"L": "1u", "W": "10u"}, m.Params)
	assert.ErrorIs(t, m.ParseProperty(4, "L=abc"), ErrInvalidProperty)

	q := NewTransistor(BJT)
	for i, tok := range []string{"sub", "2N2222", "1.5"} {
		require.NoError(t, q.ParseProperty(i, tok))
	}
	assert.Equal(t, "sub", q.Substrate)
	assert.Equal(t, "2N2222", q.Model)
	assert.Equal(t, 1.5, q.Area)
	assert.ErrorIs(t, q.ParseProperty(3, "again"), ErrInvalidProperty)

	j := NewTransistor(JFET)
	require.NoError(t, j.ParseProperty(0, "jmod"))
	require.NoError(t, j.ParseProperty(1, "off"))
	assert.True(t, j.Off)
	assert.ErrorIs(t, j.ParseProperty(2, "other"), ErrInvalidProperty)

	assert.Equal(t, ChannelP, ChannelForModelType("pnp"))
	assert.Equal(t, ChannelN, ChannelForModelType("NMOS"))
	assert.Equal(t, ChannelUnknown, ChannelForModelType("D"))
}

func TestExternalPinRejectsProperties(t *testing.T) {
	p := NewExternalPin("out")
	assert.ErrorIs(t, p.ParseProperty(0, "1"), ErrInvalidProperty)
	assert.ErrorIs(t, p.AddNode("x"), ErrTooManyNodes)
	assert.Equal(t, "Pout", p.Ref())
}

func TestCloneIsIndependent(t *testing.T) {
	orig := NewTransistor(MOS)
	orig.SetName("1")
	require.NoError(t, orig.AddNode("d"))
	require.NoError(t, orig.ParseProperty(0, "b"))
	require.NoError(t, orig.ParseProperty(1, "nch"))
	require.NoError(t, orig.ParseProperty(2, "W=1u"))

	cl := orig.Clone().(*Transistor)
	cl.SetPosition(grid.Pt(3, 4))
	cl.RotateClockwise()
	cl.Params["W"] = "2u"
	require.NoError(t, cl.AddNode("g"))
	cl.SetName("2")

	assert.Equal(t, grid.Point{}, orig.Position())
	assert.Equal(t, grid.R0, orig.Rotation())
	assert.Equal(t, "1u", orig.Params["W"])
	assert.Equal(t, []string{"d"}, orig.Nodes())
	assert.Equal(t, "M1", orig.Ref())
}

func TestSummary(t *testing.T) {
	r := NewPassive(Resistor)
	require.NoError(t, r.ParseProperty(0, "4.7k"))
	assert.Equal(t, "RESISTOR 4.7 kOHM", r.Summary())

	v := NewIndependentSource(VoltageSource)
	require.NoError(t, v.ParseProperty(0, "1000"))
	assert.Equal(t, "VOLTAGE SOURCE 1 kV", v.Summary())
}
