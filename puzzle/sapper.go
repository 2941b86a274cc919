// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package puzzle

import (
	gs "github.com/db47h/gridsim"
	"github.com/db47h/gridsim/geom"
)

const (
	sapperSections = 4
	sapperMoveTime = 3 // time steps
	sapperTurnTime = 2
	sapperMazeSize = 16
)

var sapperStart = geom.C(8, 7)

// Positive cells are mines of the numbered section. Negative cells are the
// satellite that arms the section.
var sapperMaze = [sapperMazeSize][sapperMazeSize]int8{
	{0, 4, 0, 4, 4, 4, 0, 4, 1, 1, 1, 1, 1, 1, 1, 0},
	{4, -4, 4, 0, 0, 0, 4, 1, 0, 0, 1, 0, 0, 0, -1, 1},
	{4, 0, 0, 0, 4, 0, 0, 4, 1, 0, 1, 0, 1, 1, 1, 0},
	{0, 4, 4, 4, 4, 4, 0, 4, 1, 0, 1, 0, 0, 1, 0, 1},
	{4, 0, 0, 0, 0, 0, 0, 4, 0, 0, 0, 1, 0, 1, 0, 1},
	{4, 4, 4, 0, 4, 4, 4, 1, 0, 1, 0, 0, 0, 1, 0, 1},
	{4, 0, 0, 0, 0, 0, 0, 4, 0, 1, 1, 1, 0, 0, 0, 1},
	{0, 4, 4, 4, 4, 4, 0, 0, 0, 0, 0, 2, 1, 1, 1, 0},
	{0, 3, 3, 3, 3, 3, 4, 3, 0, 2, 0, 0, 2, 2, 2, 0},
	{3, 0, 0, 0, 3, 0, 3, 0, 0, 3, 2, 0, 0, 0, 0, 2},
	{3, 0, 3, 0, 0, 0, 3, 0, 3, 2, 0, 0, 2, 2, 0, 2},
	{3, 0, 0, 3, 0, 3, 0, 0, 3, 2, 2, 2, 2, 0, 0, 2},
	{3, 0, 3, 0, 0, 3, 0, 3, 3, 2, 0, 0, 0, 0, 2, 0},
	{3, 0, 3, 0, 3, 0, 0, 0, 3, 2, 2, 0, 2, 2, -2, 2},
	{3, -3, 3, 0, 0, 0, 3, 0, 3, 2, 0, 0, 0, 0, 0, 2},
	{0, 3, 0, 3, 3, 3, 0, 3, 0, 0, 2, 2, 2, 2, 2, 0},
}

var sapperInterfaces = []Interface{
	{
		Name:        "Scanner",
		Description: "Scans the cell in front of the drone: 1 for an active mine, 2 for an unarmed satellite, 0 otherwise.",
		Side:        geom.North, Pos: Center,
		Ports:       []InterfacePort{in("Scan", gs.Behavior, gs.Two)},
	},
	{
		Name:        "Navigation",
		Description: "Reports the direction the drone is facing (0 for north, 1 for east, 2 for south, 3 for west) and its position, with y counted upward.",
		Side:        geom.West, Pos: Center,
		Ports: []InterfacePort{
			in("Face", gs.Behavior, gs.Two),
			in("XPos", gs.Behavior, gs.Four),
			in("YPos", gs.Behavior, gs.Four),
		},
	},
	{
		Name:        "Engine",
		Description: "Send an event to Move to go one cell forward, or to Turn to turn clockwise (1) or counterclockwise (0). Ready signals when the drone has stopped moving.",
		Side:        geom.South, Pos: Center,
		Ports: []InterfacePort{
			in("Ready", gs.Event, gs.Zero),
			out("Move", gs.Event, gs.Zero),
			out("Turn", gs.Event, gs.One),
		},
	},
}

type sapperMove uint8

const (
	sapperStill sapperMove = iota
	sapperForward
	sapperTurnCW
	sapperTurnCCW
)

// Sapper is the environment of the sapper drone puzzle: the circuit must
// steer a drone through a minefield to arm the satellite of each section.
//
type Sapper struct {
	gs.BasePuzzle
	scan, face, xpos, ypos, ready, move, turn gs.Slot

	pos    geom.Coords
	dir    geom.Direction
	moving sapperMove
	left   int // time steps left in the current move
	armed  [sapperSections]bool
	isIdle bool
}

func newSapper(slots [][]gs.Slot) *Sapper {
	return &Sapper{
		scan:   slots[0][0],
		face:   slots[1][0],
		xpos:   slots[1][1],
		ypos:   slots[1][2],
		ready:  slots[2][0],
		move:   slots[2][1],
		turn:   slots[2][2],
		pos:    sapperStart,
		dir:    geom.North,
		isIdle: true,
	}
}

// MazeCell returns the contents of a maze cell. Cells outside of the maze
// are empty.
//
func MazeCell(c geom.Coords) int8 {
	if c.X < 0 || c.X >= sapperMazeSize || c.Y < 0 || c.Y >= sapperMazeSize {
		return 0
	}
	return sapperMaze[c.Y][c.X]
}

// Position returns the cell the drone is in.
//
func (p *Sapper) Position() geom.Coords { return p.pos }

// Direction returns the direction the drone is facing.
//
func (p *Sapper) Direction() geom.Direction { return p.dir }

// SectionsArmed returns which sections have been armed.
//
func (p *Sapper) SectionsArmed() [sapperSections]bool { return p.armed }

func (p *Sapper) scanValue(c geom.Coords) uint32 {
	switch v := MazeCell(c); {
	case v > 0 && !p.armed[v-1]:
		return 1
	case v < 0 && !p.armed[-v-1]:
		return 2
	}
	return 0
}

func sapperFace(d geom.Direction) uint32 {
	switch d {
	case geom.East:
		return 1
	case geom.South:
		return 2
	case geom.West:
		return 3
	}
	return 0
}

// TaskIsCompleted implements gridsim.PuzzleEval.
//
func (p *Sapper) TaskIsCompleted(*gs.State) bool {
	return p.armed == [sapperSections]bool{true, true, true, true}
}

// BeginTimeStep implements gridsim.PuzzleEval.
//
func (p *Sapper) BeginTimeStep(s *gs.State) {
	s.SendBehavior(p.scan.Wire, p.scanValue(p.pos.Plus(p.dir)))
	s.SendBehavior(p.face.Wire, sapperFace(p.dir))
	s.SendBehavior(p.xpos.Wire, uint32(p.pos.X)&0xf)
	s.SendBehavior(p.ypos.Wire, uint32(sapperMazeSize-1-p.pos.Y)&0xf)
	if p.isIdle {
		s.SendEvent(p.ready.Wire, 0)
		p.isIdle = false
	}
}

// EndCycle implements gridsim.PuzzleEval.
//
func (p *Sapper) EndCycle(s *gs.State) []gs.EvalError {
	var errs []gs.EvalError
	if s.HasEvent(p.move.Wire) {
		if p.moving != sapperStill {
			errs = append(errs, s.FatalPortError(p.move.Loc, "Cannot move drone while it is still moving."))
		} else {
			p.moving, p.left = sapperForward, sapperMoveTime
		}
	}
	if v, ok := s.RecvEvent(p.turn.Wire); ok {
		switch {
		case p.moving != sapperStill:
			errs = append(errs, s.FatalPortError(p.turn.Loc, "Cannot turn drone while it is still moving."))
		case v == 0:
			p.moving, p.left = sapperTurnCCW, sapperTurnTime
		default:
			p.moving, p.left = sapperTurnCW, sapperTurnTime
		}
	}
	return errs
}

// EndTimeStep implements gridsim.PuzzleEval.
//
func (p *Sapper) EndTimeStep(s *gs.State) []gs.EvalError {
	if p.moving == sapperStill {
		return nil
	}
	if p.left--; p.left > 0 {
		return nil
	}
	m := p.moving
	p.moving, p.isIdle = sapperStill, true
	switch m {
	case sapperTurnCW:
		p.dir = p.dir.RotateCW()
	case sapperTurnCCW:
		p.dir = p.dir.RotateCCW()
	case sapperForward:
		p.pos = p.pos.Plus(p.dir)
		switch v := MazeCell(p.pos); {
		case v > 0:
			return []gs.EvalError{s.FatalError("Hit a mine!")}
		case v < 0:
			p.armed[-v-1] = true
		}
	}
	return nil
}
