// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package grid

import (
	gs "github.com/db47h/gridsim"
	"github.com/db47h/gridsim/geom"
	"github.com/db47h/gridsim/puzzle"
	"github.com/db47h/gridsim/save"
	"github.com/pkg/errors"
)

// ToCircuitData returns the serialized form of the board.
//
// Only one fragment per cell shape is written: the other fragments of the
// cell, and the stubs facing a non-stub fragment, are implied.
//
func (g *EditGrid) ToCircuitData() *save.CircuitData {
	d := save.NewCircuitData(g.bounds)
	tl := g.bounds.TopLeft()
	for _, c := range g.chips {
		d.SetChip(c.Coords.Sub(tl), c.Type, c.Orient)
	}
	for l, s := range g.frags {
		if !isCanonical(g.frags, l, s) {
			continue
		}
		d.SetWire(l.Coords.Sub(tl), l.Dir, s)
	}
	return d
}

func isCanonical(frags map[gs.Loc]gs.WireShape, l gs.Loc, s gs.WireShape) bool {
	eastSouth := l.Dir == geom.East || l.Dir == geom.South
	switch s {
	case gs.Stub:
		// stubs facing another stub are written from the east or south side
		ps, ok := frags[l.Facing()]
		return !ok || (ps == gs.Stub && eastSouth)
	case gs.Straight:
		return eastSouth
	case gs.TurnLeft, gs.SplitTee:
		return true
	case gs.SplitFour, gs.Cross:
		return l.Dir == geom.East
	}
	return false
}

// FromCircuitData builds a board from its serialized form. Chips that are
// not in allowed are dropped. Any other inconsistency is an error.
//
func FromCircuitData(p puzzle.Puzzle, allowed puzzle.ChipSet, d *save.CircuitData, opts ...Option) (*EditGrid, error) {
	bounds := d.BoundsRect()
	g := newGrid(p, allowed, bounds, opts)
	lo := puzzle.MinBoundsSize(g.ifaces)
	if bounds.W < lo.W || bounds.H < lo.H {
		return nil, errors.Errorf("bounds %v smaller than %v", bounds, lo)
	}
	tl := bounds.TopLeft()

	chips, err := d.ChipEntries()
	if err != nil {
		return nil, err
	}
	for _, e := range chips {
		if !allowed.Has(e.Type) {
			g.log.Debug("dropping disallowed chip", "puzzle", p, "chip", e.Type.String())
			continue
		}
		c := AddChip{tl.Add(e.Delta), e.Type, e.Orient}
		if err := c.apply(g); err != nil {
			return nil, errors.WithMessage(err, c.String())
		}
	}

	wires, err := d.WireEntries()
	if err != nil {
		return nil, err
	}
	for _, e := range wires {
		l := gs.Loc{Coords: tl.Add(e.Delta), Dir: e.Dir}
		cell := append([]gs.SideShape{{Dir: e.Dir, Shape: e.Shape}}, e.Shape.Layout(e.Dir)...)
		for _, f := range cell {
			fl := l.Side(f.Dir)
			if s, ok := g.frags[fl]; ok && s != f.Shape {
				return nil, errors.Errorf("conflicting wire fragments at %v", fl)
			}
		}
		for _, f := range cell {
			g.frags[l.Side(f.Dir)] = f.Shape
		}
	}
	// implied stubs
	var missing []gs.Loc
	for l := range g.frags {
		if _, ok := g.frags[l.Facing()]; !ok {
			missing = append(missing, l.Facing())
		}
	}
	for _, l := range missing {
		g.frags[l] = gs.Stub
	}
	for l, s := range g.frags {
		if !fragmentInBounds(bounds, l, s) {
			return nil, errors.Errorf("wire fragment %v out of bounds", l)
		}
		if c, ok := g.ChipAt(l.Coords); ok && (s != gs.Stub || c.Rect().Contains(l.Facing().Coords)) {
			return nil, errors.Errorf("wire fragment %v under chip at %v", l, c.Coords)
		}
	}
	return g, nil
}
