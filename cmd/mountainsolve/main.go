// Command mountainsolve reads a mountain range from an input file, solves
// it to termination, and writes the result to an output file, mirroring
// the original run_solver/mountainsolve command-line tools.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/notargets/mountainrange/driver"
	"github.com/notargets/mountainrange/mrconfig"
	"github.com/notargets/mountainrange/solver"
	"github.com/notargets/mountainrange/state"
)

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s [--strategy=basic|pool|bulk|distributed] [--participants=N] infile outfile\n", os.Args[0])
	fmt.Fprintln(os.Stderr, "Read a mountain range from infile, solve it, and write it to outfile.")
	fmt.Fprintf(os.Stderr, "`%s --help` prints this message.\n", os.Args[0])
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("mountainsolve", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	strategy := fs.String("strategy", "pool", "solver strategy: basic|pool|bulk|distributed")
	participants := fs.Int("participants", 4, "number of participants (distributed strategy only)")
	fs.Usage = usage

	if len(args) > 0 && (args[0] == "-h" || args[0] == "--help") {
		usage()
		return 0
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}
	rest := fs.Args()
	if len(rest) != 2 {
		fmt.Fprintln(os.Stderr, "Exactly two arguments must be supplied.")
		usage()
		return 2
	}
	infile, outfile := rest[0], rest[1]

	newSolver, err := strategyBuilder(*strategy, *participants)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	opts := driver.Options{
		SnapshotInterval: mrconfig.SnapshotInterval(),
		Verbose:          true,
	}

	if err := driver.Run(infile, outfile, opts, newSolver); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func strategyBuilder(strategy string, participants int) (func(*state.Range) (driver.Solver, error), error) {
	switch strategy {
	case "basic":
		return func(rg *state.Range) (driver.Solver, error) {
			return solver.NewBasic(rg), nil
		}, nil
	case "pool":
		return func(rg *state.Range) (driver.Solver, error) {
			return solver.NewPool(rg, mrconfig.Threads())
		}, nil
	case "bulk":
		return func(rg *state.Range) (driver.Solver, error) {
			return solver.NewBulk(rg), nil
		}, nil
	case "distributed":
		return func(rg *state.Range) (driver.Solver, error) {
			return solver.NewDistributed(rg, participants)
		}, nil
	default:
		return nil, errors.New("unknown strategy: " + strategy)
	}
}
