// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package gridsim

import (
	"fmt"

	"github.com/db47h/gridsim/geom"
)

// MaxCyclesPerTimeStep is the maximum number of cycles in a single time step.
// Circuits that keep requesting cycles past this limit fail.
//
const MaxCyclesPerTimeStep = 1000

// Eval is a chip evaluator. Eval is called once per cycle, during the
// evaluator's subcycle. It reads its inputs from the bus and writes its
// outputs back to it.
//
// Evaluators may implement any of the optional interfaces CycleNeeder,
// TimeStepper, Locator, Displayer and Presser.
//
type Eval interface {
	Eval(s *State)
}

// EvalFunc adapts a function to the Eval interface.
//
type EvalFunc func(s *State)

// Eval calls f(s).
//
func (f EvalFunc) Eval(s *State) { f(s) }

// A CycleNeeder is asked at the end of each cycle whether another cycle is
// needed within the current time step.
//
type CycleNeeder interface {
	NeedsAnotherCycle(s *State) bool
}

// A TimeStepper updates its internal state between time steps.
//
type TimeStepper interface {
	OnTimeStep()
}

// A Locator reports the coordinates of the chip it belongs to. Displayer and
// Presser implementations must also implement Locator.
//
type Locator interface {
	Coords() geom.Coords
}

// A Displayer provides chip specific display data during evaluation.
//
type Displayer interface {
	DisplayData() []byte
}

// A Presser handles the chip being clicked during evaluation. The meaning of
// sublocation is chip specific.
//
type Presser interface {
	OnPress(sublocation, count uint32)
}

// PuzzleEval drives a puzzle's interfaces during evaluation.
//
type PuzzleEval interface {
	// SecondsPerTimeStep is the wall clock duration of a time step when
	// running automatically.
	SecondsPerTimeStep() float64
	// TaskIsCompleted is checked before each time step.
	TaskIsCompleted(s *State) bool
	// BeginTimeStep sets up interface inputs for a new time step.
	BeginTimeStep(s *State)
	// BeginAdditionalCycle is called at the start of every cycle but the
	// first one of a time step.
	BeginAdditionalCycle(s *State)
	// EndCycle receives interface events at the end of each cycle.
	EndCycle(s *State) []EvalError
	// NeedsAnotherCycle is called after EndCycle.
	NeedsAnotherCycle(s *State) bool
	// EndTimeStep receives interface behaviors at the end of a time step.
	EndTimeStep(s *State) []EvalError
}

// BasePuzzle provides default no-op implementations of the optional
// PuzzleEval methods. Embed it in puzzle evaluators.
//
type BasePuzzle struct{}

// SecondsPerTimeStep returns 0.1.
//
func (BasePuzzle) SecondsPerTimeStep() float64 { return 0.1 }

// BeginAdditionalCycle does nothing.
//
func (BasePuzzle) BeginAdditionalCycle(*State) {}

// EndCycle returns no errors.
//
func (BasePuzzle) EndCycle(*State) []EvalError { return nil }

// NeedsAnotherCycle returns false.
//
func (BasePuzzle) NeedsAnotherCycle(*State) bool { return false }

// EndTimeStep returns no errors.
//
func (BasePuzzle) EndTimeStep(*State) []EvalError { return nil }

// EvalError is an error raised during evaluation. Fatal errors stop
// evaluation.
//
type EvalError struct {
	TimeStep uint32
	Port     *Loc
	Fatal    bool
	Message  string
}

func (e EvalError) Error() string {
	if e.Port != nil {
		return fmt.Sprintf("time step %d: %s: %s", e.TimeStep, e.Port, e.Message)
	}
	return fmt.Sprintf("time step %d: %s", e.TimeStep, e.Message)
}

// ResultKind is the kind of an EvalResult.
//
type ResultKind uint8

// Result kinds.
//
const (
	Continue ResultKind = iota
	Breakpoint
	Failure
	Victory
)

func (k ResultKind) String() string {
	switch k {
	case Breakpoint:
		return "Breakpoint"
	case Failure:
		return "Failure"
	case Victory:
		return "Victory"
	}
	return "Continue"
}

// EvalResult is the outcome of a Circuit step. Anything but Continue
// interrupts stepping.
//
type EvalResult struct {
	Kind ResultKind
	// Chips that triggered a breakpoint.
	Breakpoints []geom.Coords
	// Score on Victory.
	Score uint32
}

func (r EvalResult) String() string {
	switch r.Kind {
	case Breakpoint:
		return fmt.Sprintf("Breakpoint%v", r.Breakpoints)
	case Victory:
		return fmt.Sprintf("Victory(%d)", r.Score)
	}
	return r.Kind.String()
}

// ScoreUnits selects what a puzzle's score counts.
//
type ScoreUnits uint8

// Score units.
//
const (
	ScoreCycles ScoreUnits = iota
	ScoreWireLength
	ScoreTime
	ScoreManualInputs
)

func (u ScoreUnits) String() string {
	switch u {
	case ScoreWireLength:
		return "WireLength"
	case ScoreTime:
		return "Time"
	case ScoreManualInputs:
		return "ManualInputs"
	}
	return "Cycles"
}
