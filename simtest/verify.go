// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package simtest

import (
	"log/slog"

	gs "github.com/db47h/gridsim"
	"github.com/db47h/gridsim/grid"
	"github.com/db47h/gridsim/puzzle"
	"github.com/db47h/gridsim/save"
	"github.com/pkg/errors"
)

type cycleKey struct{ timeStep, cycle uint32 }

// EverythingSolved returns a Solved set holding every puzzle.
//
func EverythingSolved() puzzle.Solved {
	s := make(puzzle.Solved)
	for _, p := range puzzle.All() {
		s[p] = true
	}
	return s
}

// VerifySolution replays a solution and returns every discrepancy found: wire
// errors, evaluation errors, an early victory, a wrong score, or no victory
// at the recorded time step. Recorded inputs are pressed at the time step and
// cycle they were recorded at.
//
// A nil logger disables logging.
//
func VerifySolution(data *save.SolutionData, log *slog.Logger) []error {
	g, err := grid.FromCircuitData(data.Puzzle, data.Puzzle.AllowedChips(EverythingSolved()), &data.Circuit, grid.WithLogger(log))
	if err != nil {
		return []error{err}
	}
	c, err := g.StartEval()
	if err != nil {
		var errs []error
		for _, e := range g.Errors() {
			errs = append(errs, e)
		}
		return append(errs, errors.New("circuit had errors"))
	}
	defer g.StopEval()

	inputs := make(map[cycleKey][]gs.InputRecord)
	records, err := data.Inputs.Records(g.Bounds().TopLeft())
	if err != nil {
		return []error{err}
	}
	for _, r := range records {
		k := cycleKey{r.TimeStep, r.Cycle}
		inputs[k] = append(inputs[k], r)
	}

	for {
		ts := c.TimeStep()
		k := cycleKey{ts, c.Cycle()}
		for _, r := range inputs[k] {
			c.PressButton(r.Coords, r.Sublocation, r.Count)
		}
		delete(inputs, k)
		r := c.StepCycle()
		switch r.Kind {
		case gs.Continue, gs.Breakpoint:
			// breakpoints are ignored during verification
			if ts >= data.TimeSteps {
				return []error{errors.Errorf("evaluation did not end at time step %d", data.TimeSteps)}
			}
		case gs.Failure:
			var errs []error
			for _, e := range c.Errors() {
				errs = append(errs, errors.Errorf("time step %d: %s", e.TimeStep, e.Message))
			}
			if len(errs) == 0 {
				errs = append(errs, errors.Errorf("evaluation failed at time step %d", ts))
			}
			return errs
		case gs.Victory:
			if ts < data.TimeSteps {
				return []error{errors.Errorf("unexpected victory at time step %d with score of %d", ts, r.Score)}
			}
			if r.Score != data.Score {
				return []error{errors.Errorf("actual score was %d, but expected %d", r.Score, data.Score)}
			}
			return nil
		}
	}
}
