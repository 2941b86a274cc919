// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package main

import (
	"fmt"
	"runtime"
	"text/tabwriter"

	gs "github.com/db47h/gridsim"
	"github.com/db47h/gridsim/grid"
	"github.com/db47h/gridsim/puzzle"
	"github.com/db47h/gridsim/save"
	"github.com/db47h/gridsim/simtest"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	puzzleName   string
	seed         uint64
	maxTimeSteps int
	hotkeyFile   string
	atLocs       []string

	checkCmd = &cobra.Command{
		Use:   "check <circuit.toml>",
		Short: "Print the wires of a circuit and its wiring errors",
		Args:  cobra.ExactArgs(1),
		RunE:  runCheck,
	}
	runCmd = &cobra.Command{
		Use:   "run <circuit.toml>",
		Short: "Run a circuit until the puzzle ends",
		Args:  cobra.ExactArgs(1),
		RunE:  runRun,
	}
	verifyCmd = &cobra.Command{
		Use:   "verify <solution.toml>...",
		Short: "Replay solutions and compare their score",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runVerify,
	}
	puzzlesCmd = &cobra.Command{
		Use:   "puzzles",
		Short: "List puzzles",
		Args:  cobra.NoArgs,
		RunE:  runPuzzles,
	}
	hotkeysCmd = &cobra.Command{
		Use:   "hotkeys",
		Short: "Print the effective hotkey bindings",
		Args:  cobra.NoArgs,
		RunE:  runHotkeys,
	}
)

func init() {
	for _, c := range []*cobra.Command{checkCmd, runCmd} {
		c.Flags().StringVarP(&puzzleName, "puzzle", "p", puzzle.SandboxBehavior.String(), "puzzle the circuit is built for")
	}
	checkCmd.Flags().StringArrayVar(&atLocs, "at", nil, `print the wire at a location such as "3,1 e"`)
	runCmd.Flags().Uint64Var(&seed, "seed", 1, "seed of the random number generator")
	runCmd.Flags().IntVar(&maxTimeSteps, "max-time-steps", 1000, "give up after this many time steps")
	hotkeysCmd.Flags().StringVarP(&hotkeyFile, "file", "f", "", "YAML bindings file")

	rootCmd.AddCommand(checkCmd, runCmd, verifyCmd, puzzlesCmd, hotkeysCmd)
}

// loadGrid loads a circuit file for the puzzle named by the --puzzle flag.
// Every chip is allowed.
//
func loadGrid(name string) (*grid.EditGrid, error) {
	p, err := puzzle.Parse(puzzleName)
	if err != nil {
		return nil, err
	}
	d, err := save.LoadCircuit(name)
	if err != nil {
		return nil, err
	}
	g, err := grid.FromCircuitData(p, p.AllowedChips(simtest.EverythingSolved()), d,
		grid.WithLogger(logger), grid.WithSeed(seed))
	return g, errors.Wrapf(err, "%s", name)
}

func runCheck(cmd *cobra.Command, args []string) error {
	g, err := loadGrid(args[0])
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "WIRE\tCOLOR\tSIZE\tFRAGMENTS\tPORTS")
	for i, w := range g.Wires() {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%d\n", i, w.Color, w.Size, len(w.Fragments), len(w.Ports))
	}
	if err = tw.Flush(); err != nil {
		return err
	}
	errs := g.Errors()
	for _, e := range errs {
		fmt.Fprintln(out, "error:", e)
	}
	if len(errs) > 0 {
		return errors.Errorf("%s: %d wiring errors", args[0], len(errs))
	}
	fmt.Fprintf(out, "wire length %d\n", g.Analysis().WireLength())
	for _, p := range atLocs {
		l, err := gs.ParseLoc(p)
		if err != nil {
			return err
		}
		if id, ok := g.WireAt(l); ok {
			fmt.Fprintf(out, "%v: wire %d\n", l, id)
		} else {
			fmt.Fprintf(out, "%v: no wire\n", l)
		}
	}
	return nil
}

func runRun(cmd *cobra.Command, args []string) error {
	g, err := loadGrid(args[0])
	if err != nil {
		return err
	}
	c, err := g.StartEval()
	if err != nil {
		for _, e := range g.Errors() {
			logger.Error("wiring error", "error", e)
		}
		return err
	}
	defer g.StopEval()

	out := cmd.OutOrStdout()
	for c.TimeStep() < uint32(maxTimeSteps) {
		r := c.StepTime()
		switch r.Kind {
		case gs.Continue:
		case gs.Breakpoint:
			fmt.Fprintf(out, "time step %d: breakpoint at %v\n", c.TimeStep(), r.Breakpoints)
		case gs.Victory:
			fmt.Fprintf(out, "victory at time step %d, score %d (%s)\n", c.TimeStep(), r.Score, g.Puzzle().ScoreUnits())
			return nil
		case gs.Failure:
			for _, e := range c.Errors() {
				fmt.Fprintln(out, "error:", e)
			}
			return errors.Errorf("%s: evaluation failed at time step %d", args[0], c.TimeStep())
		}
	}
	return errors.Errorf("%s: no victory after %d time steps", args[0], maxTimeSteps)
}

func runVerify(cmd *cobra.Command, args []string) error {
	results := make([][]error, len(args))
	var eg errgroup.Group
	eg.SetLimit(runtime.GOMAXPROCS(0))
	for i, name := range args {
		eg.Go(func() error {
			data, err := save.LoadSolution(name)
			if err != nil {
				return err
			}
			results[i] = simtest.VerifySolution(data, logger.With("solution", name))
			if len(results[i]) == 0 {
				logger.Debug("solution verified", "solution", name, "puzzle", data.Puzzle, "score", data.Score)
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	failed := 0
	for i, errs := range results {
		if len(errs) == 0 {
			fmt.Fprintf(out, "%s: ok\n", args[i])
			continue
		}
		failed++
		for _, e := range errs {
			fmt.Fprintf(out, "%s: %v\n", args[i], e)
		}
	}
	if failed > 0 {
		return errors.Errorf("%d of %d solutions failed", failed, len(args))
	}
	return nil
}

func runPuzzles(cmd *cobra.Command, args []string) error {
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tTITLE\tKIND\tSCORE")
	for _, p := range puzzle.All() {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", p, p.Title(), p.Kind(), p.ScoreUnits())
	}
	return tw.Flush()
}

func runHotkeys(cmd *cobra.Command, args []string) error {
	b := save.DefaultHotkeyBindings()
	if hotkeyFile != "" {
		var err error
		if b, err = save.LoadHotkeys(hotkeyFile); err != nil {
			return err
		}
	}
	data, err := save.EncodeHotkeys(b)
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}
