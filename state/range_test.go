package state

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewValidatesLengths(t *testing.T) {
	_, err := New([]float64{1, 2}, []float64{1, 2, 3})
	assert.Error(t, err)
}

func TestNewValidatesMinimumCells(t *testing.T) {
	_, err := New([]float64{1, 2}, []float64{1, 2})
	assert.Error(t, err)
}

func TestNewInitializesGrowthConsistently(t *testing.T) {
	r := make([]float64, 10)
	h := make([]float64, 10)
	h[5] = 1.0

	rg, err := New(r, h)
	require.NoError(t, err)

	// g must already reflect r/h before any Step is taken.
	assert.NotEqual(t, 0.0, rg.Growth()[5])
	// boundary fix-up applied at construction time.
	assert.Equal(t, rg.Growth()[1], rg.Growth()[0])
	assert.Equal(t, rg.Growth()[8], rg.Growth()[9])
}

func TestZeroInputProducesZeroGrowth(t *testing.T) {
	r := make([]float64, 10)
	h := make([]float64, 10)

	rg, err := New(r, h)
	require.NoError(t, err)

	for _, g := range rg.Growth() {
		assert.Equal(t, 0.0, g)
	}
}

func TestFromStreamRoundTrip(t *testing.T) {
	r := []float64{0, 0, 0, 1, 1, 1, 0, 0, 0}
	h := []float64{0, 0, 0, 0, 1, 0, 0, 0, 0}

	rg, err := New(r, h)
	require.NoError(t, err)
	rg.SetSimTime(3.25)

	var buf bytes.Buffer
	require.NoError(t, rg.WriteTo(&buf))

	rg2, err := FromStream(&buf)
	require.NoError(t, err)

	assert.Equal(t, rg.SimTime(), rg2.SimTime())
	assert.Equal(t, rg.UpliftRate(), rg2.UpliftRate())
	assert.Equal(t, rg.Height(), rg2.Height())
}

func TestHNewCellHasNoNeighbourDependency(t *testing.T) {
	h := []float64{1, 2, 3}
	g := []float64{0.1, 0.2, 0.3}
	assert.Equal(t, h[1]+0.5*g[1], HNewCell(h, g, 1, 0.5))
}

func TestApplyBoundaryFixup(t *testing.T) {
	g := []float64{9, 1, 2, 3, 9}
	ApplyBoundaryFixup(g)
	assert.Equal(t, 1.0, g[0])
	assert.Equal(t, 3.0, g[4])
}
