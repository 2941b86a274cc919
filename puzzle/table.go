// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package puzzle

import (
	"fmt"
	"math"

	gs "github.com/db47h/gridsim"
)

// NoEvent marks a table cell where no event is sent or expected.
//
const NoEvent = math.MaxUint64

// A TableData describes a fabrication task. Columns map to the ports of the
// puzzle's interfaces, in order. Each row is one time step: input columns are
// sent to the circuit and output columns are the expected results.
//
type TableData struct {
	Ifaces []Interface
	Values []uint64 // rows, flattened
}

// NumColumns returns the number of columns in the table.
//
func (d *TableData) NumColumns() int {
	n := 0
	for i := range d.Ifaces {
		n += len(d.Ifaces[i].Ports)
	}
	return n
}

// NumRows returns the number of rows in the table.
//
func (d *TableData) NumRows() int { return len(d.Values) / d.NumColumns() }

type column struct {
	port InterfacePort
	slot gs.Slot
}

// Table is a fabrication environment that checks a circuit against a table
// of expected values.
//
type Table struct {
	gs.BasePuzzle
	data   *TableData
	cols   []column
	actual []uint64
	got    []bool // event received on output column, current time step
}

// NewTable returns a table environment for the interface slots.
//
func NewTable(slots [][]gs.Slot, data *TableData) *Table {
	t := &Table{data: data}
	for i := range data.Ifaces {
		for j, p := range data.Ifaces[i].Ports {
			t.cols = append(t.cols, column{port: p, slot: slots[i][j]})
		}
	}
	t.actual = make([]uint64, len(data.Values))
	for i := range t.actual {
		t.actual[i] = NoEvent
	}
	t.got = make([]bool, len(t.cols))
	return t
}

// Data returns the expected values.
//
func (t *Table) Data() *TableData { return t.data }

// Actual returns the values observed so far, laid out like the expected
// values. Cells not yet reached or without events hold NoEvent.
//
func (t *Table) Actual() []uint64 { return t.actual }

func (t *Table) row(ts uint32) int { return int(ts) * len(t.cols) }

// TaskIsCompleted implements gridsim.PuzzleEval.
//
func (t *Table) TaskIsCompleted(s *gs.State) bool {
	return int(s.TimeStep()) >= t.data.NumRows()
}

// BeginTimeStep implements gridsim.PuzzleEval.
//
func (t *Table) BeginTimeStep(s *gs.State) {
	r := t.row(s.TimeStep())
	for i, c := range t.cols {
		t.got[i] = false
		if c.port.Flow != gs.Send {
			continue
		}
		v := t.data.Values[r+i]
		t.actual[r+i] = v
		switch c.port.Color {
		case gs.Event:
			if v != NoEvent {
				s.SendEvent(c.slot.Wire, uint32(v))
			}
		default:
			s.SendBehavior(c.slot.Wire, uint32(v))
		}
	}
}

// EndCycle implements gridsim.PuzzleEval.
//
func (t *Table) EndCycle(s *gs.State) []gs.EvalError {
	var errs []gs.EvalError
	r := t.row(s.TimeStep())
	for i, c := range t.cols {
		if c.port.Flow != gs.Recv || c.port.Color != gs.Event {
			continue
		}
		v, ok := s.RecvEvent(c.slot.Wire)
		if !ok {
			continue
		}
		want := t.data.Values[r+i]
		switch {
		case want == NoEvent:
			errs = append(errs, s.PortError(c.slot.Loc,
				fmt.Sprintf("No output event expected, but got output event value of %d", v)))
		case t.got[i]:
			errs = append(errs, s.PortError(c.slot.Loc, "Expected only one output event, but got more than one"))
		case uint64(v) != want:
			errs = append(errs, s.PortError(c.slot.Loc,
				fmt.Sprintf("Expected output event value of %d, but got output event value of %d", want, v)))
		}
		t.got[i] = true
		t.actual[r+i] = uint64(v)
	}
	return errs
}

// EndTimeStep implements gridsim.PuzzleEval.
//
func (t *Table) EndTimeStep(s *gs.State) []gs.EvalError {
	var errs []gs.EvalError
	r := t.row(s.TimeStep())
	for i, c := range t.cols {
		if c.port.Flow != gs.Recv {
			continue
		}
		want := t.data.Values[r+i]
		if c.port.Color == gs.Event {
			if !t.got[i] && want != NoEvent {
				errs = append(errs, s.PortError(c.slot.Loc,
					fmt.Sprintf("Expected output event value of %d, but got no output event", want)))
			}
			continue
		}
		v := s.RecvBehavior(c.slot.Wire)
		t.actual[r+i] = uint64(v)
		if uint64(v) != want {
			errs = append(errs, s.PortError(c.slot.Loc,
				fmt.Sprintf("Expected output %d at time step %d, but output was %d", want, s.TimeStep(), v)))
		}
	}
	return errs
}
