package placement

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OpenTraceLab/OpenTraceSPICE/pkg/spice/circuit"
	"github.com/OpenTraceLab/OpenTraceSPICE/pkg/spice/device"
	"github.com/OpenTraceLab/OpenTraceSPICE/pkg/spice/grid"
)

type spec struct {
	id    byte
	name  string
	nodes []string
	rot   grid.Rotation
}

func build(t *testing.T, pins []string, devs ...spec) *circuit.Circuit {
	t.Helper()
	reg := device.DefaultRegistry()
	c := circuit.New("test")
	for _, p := range pins {
		c.AddExternalNode(p)
	}
	for _, s := range devs {
		d, err := reg.New(s.id)
		require.NoError(t, err)
		d.SetName(s.name)
		for _, n := range s.nodes {
			c.AddNode(n)
			require.NoError(t, d.AddNode(n))
		}
		d.SetRotation(s.rot)
		c.AddDevice(d)
	}
	return c
}

func assertNoOverlap(t *testing.T, c *circuit.Circuit) {
	t.Helper()
	devs := c.Devices()
	for i := range devs {
		for j := i + 1; j < len(devs); j++ {
			assert.False(t, devs[i].Box().Overlaps(devs[j].Box()),
				"%s %v overlaps %s %v", devs[i].Ref(), devs[i].Box(), devs[j].Ref(), devs[j].Box())
		}
	}
}

func TestLinear(t *testing.T) {
	c := build(t, []string{"in"},
		spec{'R', "1", []string{"in", "out"}, grid.R0},
		spec{'Q', "1", []string{"out", "in", "0"}, grid.R0},
		spec{'C', "1", []string{"out", "0"}, grid.R0},
	)

	bb, err := Place(c, Linear)
	require.NoError(t, err)

	// pin, resistor, transistor (one column left of its node 0), capacitor
	assert.Equal(t, grid.Pt(2, 2), c.Device(0).Position())
	assert.Equal(t, grid.Pt(3, 2), c.Device(1).Position())
	assert.Equal(t, grid.Pt(5, 2), c.Device(2).Position())
	assert.Equal(t, grid.Pt(6, 2), c.Device(3).Position())

	assert.Equal(t, grid.R(2, 2, 6, 4), bb)
	assert.Equal(t, bb, c.BoundingBox())
	assertNoOverlap(t, c)
}

func TestLinearNeverOverlaps(t *testing.T) {
	rots := []grid.Rotation{grid.R0, grid.R90, grid.R180, grid.R270}
	kinds := []struct {
		id    byte
		nodes []string
	}{
		{'M', []string{"d", "g", "s"}},
		{'R', []string{"a", "b"}},
		{'J', []string{"d", "g", "0"}},
		{'V', []string{"a", "0"}},
		{'E', []string{"b", "0"}},
		{'Q', []string{"c", "b", "e"}},
	}

	for offset := 0; offset < len(kinds); offset++ {
		var devs []spec
		for i := range kinds {
			k := kinds[(i+offset)%len(kinds)]
			devs = append(devs, spec{k.id, "x", k.nodes, rots[(i+offset)%len(rots)]})
		}
		c := build(t, []string{"a"}, devs...)

		bb, err := Place(c, Linear)
		require.NoError(t, err)
		assertNoOverlap(t, c)
		assert.Equal(t, grid.Pt(Margin, Margin), bb.Min)
	}
}

func TestHeuristic(t *testing.T) {
	c := build(t, nil,
		spec{'R', "1", []string{"0", "in"}, grid.R0},
		spec{'V', "1", []string{"in", "0"}, grid.R0},
		spec{'Q', "1", []string{"c", "in", "e"}, grid.R0},
	)

	bb, err := Place(c, Heuristic)
	require.NoError(t, err)

	assert.Equal(t, grid.Pt(3, 2), c.Device(0).Position())
	assert.Equal(t, grid.Pt(4, 3), c.Device(1).Position())
	// unreached devices keep the origin, shifted with everything else
	assert.Equal(t, grid.Pt(3, 2), c.Device(2).Position())
	assert.Equal(t, grid.R(2, 2, 4, 4), bb)

	assert.Equal(t, c.Device(0).NodePosition(1).Y, c.Device(1).NodePosition(0).Y)
}

func TestHeuristicAlignsSharedNode(t *testing.T) {
	c := build(t, nil,
		spec{'R', "1", []string{"0", "in"}, grid.R0},
		spec{'Q', "1", []string{"c", "in", "e"}, grid.R0},
	)

	_, err := Place(c, Heuristic)
	require.NoError(t, err)

	r, q := c.Device(0), c.Device(1)
	assert.Equal(t, r.NodePosition(1).Y, q.NodePosition(1).Y)
	assert.Greater(t, q.Box().Min.X, r.Box().Max.X)
}

func TestHeuristicOnlyGroundNodes(t *testing.T) {
	c := build(t, nil,
		spec{'R', "1", []string{"0", "0"}, grid.R0},
		spec{'R', "2", []string{"0", "a"}, grid.R0},
	)

	bb, err := Place(c, Heuristic)
	require.NoError(t, err)
	assert.Equal(t, c.Device(0).Position(), c.Device(1).Position())
	assert.Equal(t, grid.R(2, 2, 2, 3), bb)
}

func TestGraphNotImplemented(t *testing.T) {
	c := build(t, nil, spec{'R', "1", []string{"a", "b"}, grid.R0})
	c.Device(0).SetPosition(grid.Pt(7, 7))

	_, err := Place(c, Graph)
	assert.ErrorIs(t, err, ErrNotImplemented)
	assert.Equal(t, grid.Pt(7, 7), c.Device(0).Position())
}

func TestEmptyCircuit(t *testing.T) {
	for _, s := range []Strategy{Linear, Heuristic, Graph} {
		bb, err := Place(circuit.New("empty"), s)
		require.NoError(t, err)
		assert.Equal(t, grid.Rect{}, bb)
	}
}

func TestParseStrategy(t *testing.T) {
	s, err := ParseStrategy("Heuristic")
	require.NoError(t, err)
	assert.Equal(t, Heuristic, s)
	assert.Equal(t, "graph", Graph.String())

	_, err = ParseStrategy("spring")
	assert.Error(t, err)
}
