package solver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/mountainrange/state"
)

func TestBasicZeroInputTerminatesImmediately(t *testing.T) {
	r := make([]float64, 10)
	h := make([]float64, 10)
	rg, err := state.New(r, h)
	require.NoError(t, err)

	b := NewBasic(rg)
	assert.Equal(t, 0.0, b.DSteepness())
}

func TestBasicSpikeDiffusesToNeighbours(t *testing.T) {
	const cells = 1000
	r := make([]float64, cells)
	h := make([]float64, cells)
	h[500] = 1.0

	rg, err := state.New(r, h)
	require.NoError(t, err)

	b := NewBasic(rg)
	assert.Less(t, rg.Growth()[500], 0.0)

	b.Step(0.01)

	assert.Greater(t, rg.Height()[499], 0.0)
	assert.Greater(t, rg.Height()[501], 0.0)
	assert.Less(t, rg.Height()[500], 1.0)
}

func TestBasicStepAdvancesTimeExactly(t *testing.T) {
	r := make([]float64, 10)
	h := make([]float64, 10)
	rg, err := state.New(r, h)
	require.NoError(t, err)

	b := NewBasic(rg)
	b.Step(0.01)
	assert.Equal(t, 0.01, rg.SimTime())
}

func TestBasicBoundaryPolicyAfterStep(t *testing.T) {
	r := make([]float64, 20)
	h := make([]float64, 20)
	h[10] = 1.0
	rg, err := state.New(r, h)
	require.NoError(t, err)

	b := NewBasic(rg)
	b.Step(0.01)

	g := rg.Growth()
	assert.Equal(t, g[1], g[0])
	assert.Equal(t, g[len(g)-2], g[len(g)-1])
}
