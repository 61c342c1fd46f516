package device

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OpenTraceLab/OpenTraceSPICE/pkg/spice/grid"
)

func TestDefaultRegistry(t *testing.T) {
	r := DefaultRegistry()
	assert.Equal(t, []byte("CDEGIJLMQRV"), r.Identifiers())
	assert.False(t, r.Lookup(PinIdentifier))

	d, err := r.New('r')
	require.NoError(t, err)
	assert.Equal(t, "RESISTOR", d.Description())

	_, err = r.New('X')
	assert.ErrorIs(t, err, ErrUnknownIdentifier)
}

func TestRegistryReturnsClones(t *testing.T) {
	r := DefaultRegistry()
	a, err := r.New('M')
	require.NoError(t, err)
	a.SetPosition(grid.Pt(1, 1))
	require.NoError(t, a.AddNode("d"))

	b, err := r.New('M')
	require.NoError(t, err)
	assert.Equal(t, grid.Point{}, b.Position())
	assert.Empty(t, b.Nodes())
}

func TestRegisterDuplicate(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(NewPassive(Resistor)))
	assert.ErrorIs(t, r.Register(NewPassive(Resistor)), ErrDuplicateIdentifier)
}

// Two registries never share prototypes.
func TestRegistriesAreIndependent(t *testing.T) {
	a := NewRegistry()
	require.NoError(t, a.Register(NewPassive(Resistor)))
	b := DefaultRegistry()
	assert.True(t, b.Lookup('R'))
	assert.False(t, a.Lookup('C'))
}
