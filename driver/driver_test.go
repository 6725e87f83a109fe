package driver

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/mountainrange/solver"
	"github.com/notargets/mountainrange/state"
	"github.com/notargets/mountainrange/wireformat"
)

func TestSolveZeroInputTerminatesImmediately(t *testing.T) {
	r := make([]float64, 10)
	h := make([]float64, 10)
	rg, err := state.New(r, h)
	require.NoError(t, err)

	finalT, err := Solve(rg, solver.NewBasic(rg), Options{})
	require.NoError(t, err)
	assert.Equal(t, 0.0, finalT)
}

func TestSolvePlateauTerminatesWithMonotonicTime(t *testing.T) {
	old := Epsilon
	Epsilon = 1e-6
	defer func() { Epsilon = old }()

	const cells = 200
	r := make([]float64, cells)
	for i := 50; i < 100; i++ {
		r[i] = 1.0
	}
	h := make([]float64, cells)

	rg, err := state.New(r, h)
	require.NoError(t, err)

	finalT, err := Solve(rg, solver.NewBasic(rg), Options{})
	require.NoError(t, err)
	assert.Greater(t, finalT, 0.0)

	for _, v := range rg.Height() {
		assert.GreaterOrEqual(t, v, -1e-9)
	}
}

func TestSnapshotCadenceWritesExpectedFiles(t *testing.T) {
	old := Epsilon
	Epsilon = 1e-3
	defer func() { Epsilon = old }()

	dir := t.TempDir()

	const cells = 200
	r := make([]float64, cells)
	for i := 50; i < 100; i++ {
		r[i] = 1.0
	}
	h := make([]float64, cells)

	rg, err := state.New(r, h)
	require.NoError(t, err)

	_, err = Solve(rg, solver.NewBasic(rg), Options{
		SnapshotInterval: 0.5,
		SnapshotDir:      dir,
	})
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.NotEmpty(t, entries)
	for _, e := range entries {
		assert.Regexp(t, `^chk-\d{4}\.\d{2}\.wo$`, filepath.Base(e.Name()))
	}
}

func TestRunReadsSolvesAndWrites(t *testing.T) {
	dir := t.TempDir()
	infile := filepath.Join(dir, "in.wo")
	outfile := filepath.Join(dir, "out.wo")

	r := make([]float64, 10)
	h := make([]float64, 10)
	f, err := os.Create(infile)
	require.NoError(t, err)
	require.NoError(t, wireformat.Encode(f, 0, r, h))
	require.NoError(t, f.Close())

	err = Run(infile, outfile, Options{}, func(rg *state.Range) (Solver, error) {
		return solver.NewBasic(rg), nil
	})
	require.NoError(t, err)

	_, statErr := os.Stat(outfile)
	assert.NoError(t, statErr)
}
