// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package gridsim

import (
	"github.com/db47h/gridsim/geom"
)

// slot is the bus entry of one wire.
//
// For behavior and analog wires, flag is set when the value changed during
// the current cycle. For event wires, flag is set when an event was sent
// during the current cycle. All flags are cleared at the start of each
// cycle; values persist.
//
type slot struct {
	v    uint32
	flag bool
}

// An InputRecord is a user input consumed by a chip during evaluation.
//
type InputRecord struct {
	TimeStep    uint32
	Cycle       uint32
	Coords      geom.Coords
	Sublocation uint32
	Count       uint32
}

// State is the value bus of a running circuit. Chip and puzzle evaluators
// read and write wire values through it.
//
type State struct {
	timeStep uint32
	cycle    uint32
	values   []slot
	null     map[WireID]bool
	// set when a non-null wire was written to during the current subcycle.
	changed     bool
	breakpoints []geom.Coords
	hotkeys     map[HotkeyCode]uint32
	inputs      []InputRecord
}

// NewState returns a bus for numWires wires. Writes to wires in null never
// count as changes.
//
func NewState(numWires int, null map[WireID]bool) *State {
	if null == nil {
		null = make(map[WireID]bool)
	}
	return &State{
		values:  make([]slot, numWires),
		null:    null,
		hotkeys: make(map[HotkeyCode]uint32),
	}
}

// TimeStep returns the current time step.
//
func (s *State) TimeStep() uint32 { return s.timeStep }

// Cycle returns the current cycle within the time step.
//
func (s *State) Cycle() uint32 { return s.cycle }

// IsNullWire returns true if w is not connected to any wire fragment.
//
func (s *State) IsNullWire(w WireID) bool { return s.null[w] }

// Changed returns true if a non-null wire was written to during the current
// subcycle.
//
func (s *State) Changed() bool { return s.changed }

// RecvBehavior returns the value of behavior wire w.
//
func (s *State) RecvBehavior(w WireID) uint32 { return s.values[w].v }

// BehaviorChanged returns true if behavior wire w changed this cycle.
//
func (s *State) BehaviorChanged(w WireID) bool { return s.values[w].flag }

// RecvEvent returns the value of the event sent on w this cycle, if any.
//
func (s *State) RecvEvent(w WireID) (uint32, bool) {
	sl := s.values[w]
	return sl.v, sl.flag
}

// HasEvent returns true if an event was sent on w this cycle.
//
func (s *State) HasEvent(w WireID) bool { return s.values[w].flag }

// RecvAnalog returns the value of analog wire w.
//
func (s *State) RecvAnalog(w WireID) geom.Fixed { return geom.DecodeFixed(s.values[w].v) }

// SendBehavior sets the value of behavior wire w. Sending the current value
// is a no-op.
//
func (s *State) SendBehavior(w WireID, v uint32) {
	if s.values[w].v != v {
		s.values[w] = slot{v, true}
		s.markChanged(w)
	}
}

// SendEvent sends an event on w.
//
func (s *State) SendEvent(w WireID, v uint32) {
	s.values[w] = slot{v, true}
	s.markChanged(w)
}

// SendAnalog sets the value of analog wire w.
//
func (s *State) SendAnalog(w WireID, f geom.Fixed) {
	s.SendBehavior(w, f.Encode())
}

func (s *State) markChanged(w WireID) {
	if !s.null[w] {
		s.changed = true
	}
}

// Breakpoint records a breakpoint triggered by the chip at c.
//
func (s *State) Breakpoint(c geom.Coords) {
	s.breakpoints = append(s.breakpoints, c)
}

func (s *State) pressHotkey(code HotkeyCode) { s.hotkeys[code]++ }

// PopHotkeyPresses returns and clears the number of pending presses of code.
//
func (s *State) PopHotkeyPresses(code HotkeyCode) uint32 {
	n := s.hotkeys[code]
	delete(s.hotkeys, code)
	return n
}

// RecordInput logs a user input consumed at the current time step and cycle.
//
func (s *State) RecordInput(c geom.Coords, sublocation, count uint32) {
	s.inputs = append(s.inputs, InputRecord{
		TimeStep:    s.timeStep,
		Cycle:       s.cycle,
		Coords:      c,
		Sublocation: sublocation,
		Count:       count,
	})
}

// FatalError returns a fatal EvalError for the current time step.
//
func (s *State) FatalError(msg string) EvalError {
	return EvalError{TimeStep: s.timeStep, Fatal: true, Message: msg}
}

// PortError returns a non-fatal EvalError attached to port l.
//
func (s *State) PortError(l Loc, msg string) EvalError {
	return EvalError{TimeStep: s.timeStep, Port: &l, Message: msg}
}

// FatalPortError returns a fatal EvalError attached to port l.
//
func (s *State) FatalPortError(l Loc, msg string) EvalError {
	return EvalError{TimeStep: s.timeStep, Port: &l, Fatal: true, Message: msg}
}

func (s *State) resetForCycle() {
	for i := range s.values {
		s.values[i].flag = false
	}
}

func (s *State) resetForSubcycle() {
	s.changed = false
}
