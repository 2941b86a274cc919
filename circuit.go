// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package gridsim

import (
	"io"
	"log/slog"
	"strconv"
	"time"

	"github.com/db47h/gridsim/geom"
)

// CircuitOptions holds per-run settings of a Circuit.
//
type CircuitOptions struct {
	// Logger receives debug traces of the evaluation. Nil disables logging.
	Logger *slog.Logger
	// ScoreUnits selects how the score is computed on victory.
	ScoreUnits ScoreUnits
	// WireLength is the score for ScoreWireLength.
	WireLength int
}

// Circuit is a runnable circuit simulation.
//
// A Circuit is not safe for concurrent use. The host advances it by calling
// one of the Step methods; evaluation is suspended between calls.
//
type Circuit struct {
	chips    [][]Eval // evaluators, grouped by subcycle
	puzzle   PuzzleEval
	state    *State
	coords   map[geom.Coords]Eval
	opts     CircuitOptions
	log      *slog.Logger
	subcycle int
	total    uint32 // total cycles
	errors   []EvalError
	failed   bool
	begun    bool          // BeginTimeStep was called for the current time step
	credit   time.Duration // auto-run time credit
}

// NewCircuit builds a new circuit from evaluators sorted into subcycle
// groups. numWires is the size of the value bus and writes to wires in
// nullWires do not count as changes.
//
func NewCircuit(chips [][]Eval, nullWires map[WireID]bool, numWires int, puzzle PuzzleEval, opts CircuitOptions) *Circuit {
	c := &Circuit{
		chips:  chips,
		puzzle: puzzle,
		state:  NewState(numWires, nullWires),
		coords: make(map[geom.Coords]Eval),
		opts:   opts,
		log:    opts.Logger,
	}
	if c.log == nil {
		c.log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	for _, g := range chips {
		for _, e := range g {
			if l, ok := e.(Locator); ok {
				c.coords[l.Coords()] = e
			}
		}
	}
	return c
}

// State returns the circuit's value bus.
//
func (c *Circuit) State() *State { return c.state }

// Puzzle returns the puzzle evaluator.
//
func (c *Circuit) Puzzle() PuzzleEval { return c.puzzle }

// SecondsPerTimeStep returns the puzzle's time step duration.
//
func (c *Circuit) SecondsPerTimeStep() float64 { return c.puzzle.SecondsPerTimeStep() }

// TimeStep returns the current time step.
//
func (c *Circuit) TimeStep() uint32 { return c.state.timeStep }

// Cycle returns the current cycle within the time step.
//
func (c *Circuit) Cycle() uint32 { return c.state.cycle }

// Subcycle returns the index of the next subcycle group to evaluate.
//
func (c *Circuit) Subcycle() int { return c.subcycle }

// TotalCycles returns the number of cycles run so far.
//
func (c *Circuit) TotalCycles() uint32 { return c.total }

// Errors returns the errors raised so far.
//
func (c *Circuit) Errors() []EvalError { return c.errors }

// PressButton presses the interactive chip at coords, if any.
//
func (c *Circuit) PressButton(coords geom.Coords, sublocation, count uint32) {
	if p, ok := c.coords[coords].(Presser); ok {
		p.OnPress(sublocation, count)
	}
}

// PressHotkey registers a press of the given key. Button chips bound to it
// consume the presses.
//
func (c *Circuit) PressHotkey(code HotkeyCode) { c.state.pressHotkey(code) }

// WireValue returns the raw value of wire w.
//
func (c *Circuit) WireValue(w WireID) uint32 { return c.state.values[w].v }

// WireHasChange returns the change or event flag of wire w.
//
func (c *Circuit) WireHasChange(w WireID) bool { return c.state.values[w].flag }

// WireEvent returns the event on wire w, if any.
//
func (c *Circuit) WireEvent(w WireID) (uint32, bool) { return c.state.RecvEvent(w) }

// WireAnalog returns the value of analog wire w.
//
func (c *Circuit) WireAnalog(w WireID) geom.Fixed { return c.state.RecvAnalog(w) }

// DisplayData returns display data for the chip at coords, if any.
//
func (c *Circuit) DisplayData(coords geom.Coords) []byte {
	if d, ok := c.coords[coords].(Displayer); ok {
		return d.DisplayData()
	}
	return nil
}

// RecordedInputs returns the user inputs consumed so far.
//
func (c *Circuit) RecordedInputs() []InputRecord { return c.state.inputs }

func (c *Circuit) addErrors(errs []EvalError) bool {
	fatal := false
	for _, e := range errs {
		fatal = fatal || e.Fatal
	}
	c.errors = append(c.errors, errs...)
	if fatal {
		c.failed = true
		c.log.Debug("fatal evaluation error", "time_step", c.state.timeStep, "errors", len(errs))
	}
	return fatal
}

func (c *Circuit) score() uint32 {
	switch c.opts.ScoreUnits {
	case ScoreWireLength:
		return uint32(c.opts.WireLength)
	case ScoreTime:
		return c.state.timeStep
	case ScoreManualInputs:
		var n uint32
		for _, in := range c.state.inputs {
			n += in.Count
		}
		return n
	}
	return c.total
}

func (c *Circuit) endCycle() EvalResult {
	needs := false
	for _, g := range c.chips {
		for _, e := range g {
			if cn, ok := e.(CycleNeeder); ok && cn.NeedsAnotherCycle(c.state) {
				needs = true
			}
		}
	}
	if c.addErrors(c.puzzle.EndCycle(c.state)) {
		return EvalResult{Kind: Failure}
	}
	if c.puzzle.NeedsAnotherCycle(c.state) {
		needs = true
	}
	c.subcycle = 0
	c.total++
	if needs {
		if c.state.cycle+1 >= MaxCyclesPerTimeStep {
			c.addErrors([]EvalError{c.state.FatalError("Exceeded " + strconv.Itoa(MaxCyclesPerTimeStep) + " cycles")})
			return EvalResult{Kind: Failure}
		}
		c.state.cycle++
		c.state.resetForCycle()
		c.puzzle.BeginAdditionalCycle(c.state)
		return EvalResult{}
	}
	if c.addErrors(c.puzzle.EndTimeStep(c.state)) {
		return EvalResult{Kind: Failure}
	}
	for _, g := range c.chips {
		for _, e := range g {
			if ts, ok := e.(TimeStepper); ok {
				ts.OnTimeStep()
			}
		}
	}
	c.log.Debug("time step complete", "time_step", c.state.timeStep, "cycles", c.state.cycle+1)
	c.state.resetForCycle()
	c.state.cycle = 0
	c.state.timeStep++
	c.begun = false
	return EvalResult{}
}

// StepSubcycle runs subcycles until one of them changes a non-null wire, or
// until the end of the current cycle.
//
func (c *Circuit) StepSubcycle() EvalResult {
	if c.failed {
		return EvalResult{Kind: Failure}
	}
	c.state.resetForSubcycle()
	for !c.state.changed {
		if !c.begun {
			if c.puzzle.TaskIsCompleted(c.state) {
				if len(c.errors) > 0 {
					c.log.Debug("task completed with errors", "errors", len(c.errors))
					c.failed = true
					return EvalResult{Kind: Failure}
				}
				score := c.score()
				c.log.Info("victory", "time_step", c.state.timeStep, "score", score)
				return EvalResult{Kind: Victory, Score: score}
			}
			c.puzzle.BeginTimeStep(c.state)
			c.begun = true
		}
		if c.subcycle >= len(c.chips) {
			return c.endCycle()
		}
		for _, e := range c.chips[c.subcycle] {
			e.Eval(c.state)
		}
		c.subcycle++
		if len(c.state.breakpoints) > 0 {
			bp := c.state.breakpoints
			c.state.breakpoints = nil
			c.log.Debug("breakpoint", "coords", bp)
			return EvalResult{Kind: Breakpoint, Breakpoints: bp}
		}
	}
	return EvalResult{}
}

// StepCycle runs subcycles until the end of the current cycle.
//
func (c *Circuit) StepCycle() EvalResult {
	ts, cy := c.state.timeStep, c.state.cycle
	for c.state.timeStep == ts && c.state.cycle == cy {
		if r := c.StepSubcycle(); r.Kind != Continue {
			return r
		}
	}
	return EvalResult{}
}

// StepTime runs cycles until the end of the current time step.
//
func (c *Circuit) StepTime() EvalResult {
	ts := c.state.timeStep
	for c.state.timeStep == ts {
		if r := c.StepSubcycle(); r.Kind != Continue {
			return r
		}
	}
	return EvalResult{}
}
