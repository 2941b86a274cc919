// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package simtest provides utility functions for testing circuits: compact
// wire builders, board helpers, solution verification and circuit
// comparison.
//
package simtest

import (
	"testing"

	gs "github.com/db47h/gridsim"
	"github.com/db47h/gridsim/chip"
	"github.com/db47h/gridsim/geom"
	"github.com/db47h/gridsim/grid"
	"github.com/db47h/gridsim/puzzle"
)

// Wires is a set of wire fragments.
//
type Wires map[gs.Loc]gs.WireShape

// Path returns the fragments of a wire that starts with a stub at side
// from.Dir of cell from.Coords, then crosses cells by leaving each one
// through the sides listed in route, given as direction letters (e, s, w or
// n). The last cell entered ends with a stub.
//
// For example, Path(gs.L(0, 0, geom.East), "en") runs from (0, 0) through
// (1, 0), turns north in (2, 0) and ends in (2, -1).
//
func Path(from gs.Loc, route string) Wires {
	w := Wires{from: gs.Stub}
	cur := from.Facing()
	for i := 0; i < len(route); i++ {
		exit, ok := geom.DirectionFromLetter(route[i])
		if !ok {
			panic("invalid direction letter " + string(route[i]))
		}
		in := cur.Dir
		switch exit {
		case in.Neg():
			w[cur] = gs.Straight
			w[cur.Side(exit)] = gs.Straight
		case in.RotateCW():
			w[cur] = gs.TurnLeft
			w[cur.Side(exit)] = gs.TurnRight
		case in.RotateCCW():
			w[cur] = gs.TurnRight
			w[cur.Side(exit)] = gs.TurnLeft
		default:
			panic("path doubles back on itself")
		}
		cur = cur.Side(exit).Facing()
	}
	w[cur] = gs.Stub
	return w
}

// Merge returns the union of ws. Later fragments override earlier ones.
//
func Merge(ws ...Wires) Wires {
	m := make(Wires)
	for _, w := range ws {
		for l, s := range w {
			m[l] = s
		}
	}
	return m
}

// Frags parses a fragment list written as for gridsim.ParseFragments. It
// panics if desc is malformed.
//
func Frags(desc string) Wires {
	m, err := gs.ParseFragments(desc)
	if err != nil {
		panic(err)
	}
	return m
}

// Add returns a change that adds the fragments in w to an empty area.
//
func (w Wires) Add() grid.Change {
	return grid.ReplaceWires{Old: map[gs.Loc]gs.WireShape{}, New: w}
}

// Remove returns a change that removes the fragments in w.
//
func (w Wires) Remove() grid.Change {
	return grid.ReplaceWires{Old: w, New: map[gs.Loc]gs.WireShape{}}
}

// Place returns an AddChip change for an unrotated chip of kind k at c.
//
func Place(k chip.Kind, c geom.Coords) grid.Change {
	return grid.AddChip{Coords: c, Type: k.Type()}
}

// AllChips returns a chip set with every chip kind.
//
func AllChips() puzzle.ChipSet {
	s := make(puzzle.ChipSet)
	for _, k := range chip.AllKinds() {
		s[k] = true
	}
	return s
}

// NewGrid returns a board for puzzle p where every chip is allowed, with
// changes applied. It fails the test if the changes are rejected.
//
func NewGrid(t testing.TB, p puzzle.Puzzle, changes ...grid.Change) *grid.EditGrid {
	t.Helper()
	g := grid.New(p, AllChips())
	Mutate(t, g, changes...)
	return g
}

// Mutate applies changes to g and fails the test if they are rejected.
//
func Mutate(t testing.TB, g *grid.EditGrid, changes ...grid.Change) {
	t.Helper()
	if err := g.TryMutateErr(changes); err != nil {
		t.Fatalf("%+v", err)
	}
}

// Run starts an evaluation of g and steps it one time step at a time until
// it returns something other than Continue or until maxSteps time steps have
// run. Breakpoints are ignored.
//
func Run(t testing.TB, g *grid.EditGrid, maxSteps int) gs.EvalResult {
	t.Helper()
	c, err := g.StartEval()
	if err != nil {
		t.Fatalf("%+v", err)
	}
	defer g.StopEval()
	for i := 0; i <= maxSteps; i++ {
		r := c.StepTime()
		for r.Kind == gs.Breakpoint {
			r = c.StepTime()
		}
		if r.Kind != gs.Continue {
			return r
		}
	}
	return gs.EvalResult{}
}
