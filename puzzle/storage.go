// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package puzzle

import (
	gs "github.com/db47h/gridsim"
	"github.com/db47h/gridsim/geom"
)

const (
	depotDock          = 0
	depotPositions     = 8
	depotDegPerPos     = 360 / depotPositions
	depotTurnTime      = 3 // time steps per position
	depotDegPerStep    = depotDegPerPos / depotTurnTime
	depotExtendTime    = 2
	depotNoNextCommand = -1
)

type depotCommand struct {
	delay    int
	retrieve bool
	crate    uint32
}

func depotStore(delay int, id uint32) depotCommand    { return depotCommand{delay, false, id} }
func depotRetrieve(delay int, id uint32) depotCommand { return depotCommand{delay, true, id} }

var depotCommands = []depotCommand{
	depotStore(0, 53), depotStore(4, 29), depotRetrieve(9, 53), depotStore(4, 82),
	depotStore(8, 7), depotStore(8, 38), depotRetrieve(7, 82), depotStore(6, 14),
	depotRetrieve(7, 14), depotRetrieve(7, 38), depotStore(9, 46), depotStore(7, 1),
	depotStore(6, 60), depotStore(4, 32), depotStore(7, 71), depotRetrieve(8, 60),
	depotRetrieve(3, 1), depotRetrieve(3, 32), depotRetrieve(8, 46), depotStore(9, 99),
	depotRetrieve(7, 71), depotRetrieve(9, 7), depotRetrieve(6, 99), depotRetrieve(5, 29),
}

var storageInterfaces = []Interface{
	{
		Name:        "Radio",
		Description: "Receives commands: 0 when a new crate is waiting at the loading dock (station 0), or the ID of a crate to bring back to the dock. Send an event to Xmit once a command is carried out.",
		Side:        geom.West, Pos: Left(1),
		Ports: []InterfacePort{
			in("Recv", gs.Event, gs.Eight),
			out("Xmit", gs.Event, gs.Zero),
		},
	},
	{
		Name:        "Sensors",
		Description: "Reports the station the arm is facing (0-7) and the ID of the crate it holds, or 0.",
		Side:        geom.East, Pos: Right(0),
		Ports: []InterfacePort{
			in("Pos", gs.Behavior, gs.Four),
			in("Held", gs.Behavior, gs.Eight),
		},
	},
	{
		Name:        "Motor",
		Description: "Send 1 to Rotate to turn the arm clockwise, 0 for counterclockwise. Send 1 to Grab to pick up a crate from the station, 0 to drop the held crate. Done signals when the arm has stopped moving.",
		Side:        geom.East, Pos: Left(0),
		Ports: []InterfacePort{
			out("Rotate", gs.Event, gs.One),
			out("Grab", gs.Event, gs.One),
			in("Done", gs.Event, gs.Zero),
		},
	},
}

type depotMotion uint8

const (
	depotStill depotMotion = iota
	depotTurnCW
	depotTurnCCW
	depotExtend
	depotRetract
)

// StorageDepot is the environment of the storage depot puzzle: the circuit
// drives a rotating arm that stores incoming crates in eight stations and
// brings them back to the loading dock on request.
//
type StorageDepot struct {
	gs.BasePuzzle
	recv, xmit, pos, held, rotate, grab, done gs.Slot

	motion    depotMotion
	left      int
	motorDone bool
	deg       uint32
	holding   uint32
	stations  [depotPositions]uint32
	next      int // time steps until the next command is sent
	sent      int
	completed int
	replied   bool
}

func newStorageDepot(slots [][]gs.Slot) *StorageDepot {
	return &StorageDepot{
		recv:   slots[0][0],
		xmit:   slots[0][1],
		pos:    slots[1][0],
		held:   slots[1][1],
		rotate: slots[2][0],
		grab:   slots[2][1],
		done:   slots[2][2],
		next:   depotCommands[0].delay,
	}
}

// Position returns the station the arm is facing.
//
func (d *StorageDepot) Position() uint32 { return degToPosition(d.deg, depotDegPerPos) }

// Holding returns the ID of the crate held by the arm, or 0.
//
func (d *StorageDepot) Holding() uint32 { return d.holding }

// Stations returns the ID of the crate at each station, or 0 for empty
// stations.
//
func (d *StorageDepot) Stations() [depotPositions]uint32 { return d.stations }

// Completed returns the number of commands carried out.
//
func (d *StorageDepot) Completed() int { return d.completed }

// DesiredCrate returns the crate the pending retrieve command waits for.
//
func (d *StorageDepot) DesiredCrate() (uint32, bool) {
	if d.completed >= len(depotCommands) || d.sent <= d.completed {
		return 0, false
	}
	c := depotCommands[d.completed]
	if !c.retrieve {
		return 0, false
	}
	return c.crate, true
}

// SecondsPerTimeStep implements gridsim.PuzzleEval.
//
func (d *StorageDepot) SecondsPerTimeStep() float64 { return 0.075 }

// TaskIsCompleted implements gridsim.PuzzleEval.
//
func (d *StorageDepot) TaskIsCompleted(*gs.State) bool { return d.completed >= len(depotCommands) }

// BeginTimeStep implements gridsim.PuzzleEval.
//
func (d *StorageDepot) BeginTimeStep(s *gs.State) {
	if d.next == 0 {
		switch c := depotCommands[d.sent]; {
		case c.retrieve:
			s.SendEvent(d.recv.Wire, c.crate)
			d.sent, d.next = d.sent+1, depotNoNextCommand
		case d.stations[depotDock] == 0:
			d.stations[depotDock] = c.crate
			s.SendEvent(d.recv.Wire, 0)
			d.sent, d.next = d.sent+1, depotNoNextCommand
		}
	}
	s.SendBehavior(d.pos.Wire, d.Position())
	s.SendBehavior(d.held.Wire, d.holding)
	if d.motorDone {
		s.SendEvent(d.done.Wire, 0)
		d.motorDone = false
	}
}

// EndCycle implements gridsim.PuzzleEval. Motor commands sent while the arm
// is moving are ignored.
//
func (d *StorageDepot) EndCycle(s *gs.State) []gs.EvalError {
	if s.HasEvent(d.xmit.Wire) {
		d.replied = true
	}
	if d.motion != depotStill {
		return nil
	}
	if v, ok := s.RecvEvent(d.rotate.Wire); ok {
		d.motion, d.left = depotTurnCW, depotTurnTime
		if v == 0 {
			d.motion = depotTurnCCW
		}
		return nil
	}
	v, ok := s.RecvEvent(d.grab.Wire)
	if !ok {
		return nil
	}
	var msg string
	switch {
	case v == 0 && d.holding == 0:
		msg = "Cannot drop; not holding a crate"
	case v == 0 && d.stations[d.Position()] != 0:
		msg = "Cannot drop; station is occupied"
	case v != 0 && d.holding != 0:
		msg = "Cannot grab; already holding a crate"
	default:
		d.motion, d.left = depotExtend, depotExtendTime
		return nil
	}
	return []gs.EvalError{s.FatalPortError(d.grab.Loc, msg)}
}

// EndTimeStep implements gridsim.PuzzleEval.
//
func (d *StorageDepot) EndTimeStep(*gs.State) []gs.EvalError {
	if d.replied && d.next == depotNoNextCommand && d.sent < len(depotCommands) {
		d.next = depotCommands[d.sent].delay
		d.replied = false
	}
	for d.completed < d.sent {
		c := depotCommands[d.completed]
		if c.retrieve {
			if d.stations[depotDock] != c.crate {
				break
			}
			d.stations[depotDock] = 0
		}
		d.completed++
	}
	d.moveArm()
	if d.next > 0 {
		d.next--
	}
	return nil
}

func (d *StorageDepot) moveArm() {
	switch d.motion {
	case depotStill:
		return
	case depotTurnCW:
		d.deg = (d.deg + depotDegPerStep) % 360
	case depotTurnCCW:
		d.deg = (d.deg + 360 - depotDegPerStep) % 360
	}
	if d.left--; d.left > 0 {
		return
	}
	if d.motion == depotExtend {
		p := d.Position()
		d.holding, d.stations[p] = d.stations[p], d.holding
		d.motion, d.left = depotRetract, depotExtendTime
		return
	}
	d.motion, d.motorDone = depotStill, true
}
