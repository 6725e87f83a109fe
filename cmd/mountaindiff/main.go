// Command mountaindiff compares two mountain range files, checking that
// their simulation times and heights agree within tolerance, exactly as
// the original mountaindiff.cpp does: every check runs and reports
// independently rather than stopping at the first failure.
package main

import (
	"fmt"
	"math"
	"os"

	"github.com/notargets/mountainrange/state"
)

const (
	acceptableTimeRatio        = 1.0001
	acceptableHeightErrorRatio = 0.000001
)

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s expected.wo actual.wo\n", os.Args[0])
	fmt.Fprintln(os.Stderr, "Compare the mountain ranges in expected.wo and actual.wo, returning 0 if they")
	fmt.Fprintln(os.Stderr, "seem to represent the same mountain range, or printing an error message and")
	fmt.Fprintln(os.Stderr, "returning 1 if not.")
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) > 0 && (args[0] == "-h" || args[0] == "--help") {
		usage()
		return 0
	}
	if len(args) != 2 {
		fmt.Fprintln(os.Stderr, "Exactly two arguments must be supplied")
		usage()
		return 2
	}

	expected, err := readRange(args[0])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	actual, err := readRange(args[1])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	ok := true
	ensure := func(correct bool, message string) {
		if !correct {
			fmt.Fprintln(os.Stderr, message)
			ok = false
		}
	}

	t1, t2 := expected.SimTime(), actual.SimTime()
	timeRatio := 1.0
	if t1 > 0 || t2 > 0 {
		timeRatio = t1 / t2
	}
	ensure(timeRatio < acceptableTimeRatio && timeRatio > 1/acceptableTimeRatio,
		fmt.Sprintf("Simulation times (%v and %v) are not within tolerance", t1, t2))

	h1, h2 := expected.Height(), actual.Height()
	ensure(len(h1) == len(h2), fmt.Sprintf("Sizes (%d and %d) are not the same", len(h1), len(h2)))

	r1, r2 := expected.UpliftRate(), actual.UpliftRate()
	ensure(slicesEqual(r1, r2), "Uplift rates are not equal")

	if len(h1) == len(h2) {
		var sumSq, sumDiffSq float64
		for i := range h1 {
			sumSq += h1[i] * h1[i]
			d := h1[i] - h2[i]
			sumDiffSq += d * d
		}
		heightRMS := math.Sqrt(sumSq / float64(len(h1)))
		diffRMS := math.Sqrt(sumDiffSq / float64(len(h1)))
		heightErrorRatio := 0.0
		if diffRMS != 0 {
			heightErrorRatio = diffRMS / heightRMS
		}
		ensure(heightErrorRatio < acceptableHeightErrorRatio,
			fmt.Sprintf("Heights are not within tolerance (height error ratio is %v)", heightErrorRatio))
	}

	if !ok {
		return 1
	}
	return 0
}

func readRange(path string) (*state.Range, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()
	return state.FromStream(f)
}

func slicesEqual(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
