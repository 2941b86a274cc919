// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package selection implements rectangular cut, copy and paste of board
// contents. Every operation produces a list of grid changes that keeps the
// board consistent: wires crossing the edge of a cut area are turned into
// stubs, and pasted wires are spliced into the wires already on the board.
//
package selection

import (
	"maps"
	"slices"

	gs "github.com/db47h/gridsim"
	"github.com/db47h/gridsim/chip"
	"github.com/db47h/gridsim/geom"
	"github.com/db47h/gridsim/grid"
	"github.com/db47h/gridsim/puzzle"
	"github.com/db47h/gridsim/save"
	"github.com/pkg/errors"
)

// Placed is a chip in a selection.
//
type Placed struct {
	Type   chip.ChipType
	Orient geom.Orientation
}

// A Selection holds the contents of a rectangular area of a board. Chip and
// fragment coordinates are relative to the top-left corner of the area.
//
type Selection struct {
	Size  geom.Size
	Chips map[geom.Coords]Placed
	Wires map[gs.Loc]gs.WireShape
}

// Copy returns the contents of area r of g.
//
func Copy(g *grid.EditGrid, r geom.Rect) *Selection {
	s, _ := cut(g, r)
	return s
}

// Cut returns the contents of area r of g along with the changes that remove
// them from the board.
//
func Cut(g *grid.EditGrid, r geom.Rect) (*Selection, []grid.Change) {
	return cut(g, r)
}

func cut(g *grid.EditGrid, r geom.Rect) (*Selection, []grid.Change) {
	tl := r.TopLeft()
	s := &Selection{
		Size:  r.Size(),
		Chips: make(map[geom.Coords]Placed),
		Wires: make(map[gs.Loc]gs.WireShape),
	}
	var changes []grid.Change
	old := make(map[gs.Loc]gs.WireShape)
	nw := make(map[gs.Loc]gs.WireShape)
	r.Cells(func(c geom.Coords) {
		if ch, ok := g.ChipAt(c); ok && ch.Coords == c && r.ContainsRect(ch.Rect()) {
			changes = append(changes, grid.RemoveChip(ch))
			s.Chips[c.Sub(tl)] = Placed{ch.Type, ch.Orient}
		}
		for _, dir := range geom.AllDirections {
			l := gs.Loc{Coords: c, Dir: dir}
			shape, ok := g.WireShapeAt(c, dir)
			if !ok {
				continue
			}
			peer := l.Facing()
			ps, _ := g.WireShapeAt(peer.Coords, peer.Dir)
			switch {
			case r.Contains(peer.Coords):
				old[l] = shape
			case ps == gs.Stub:
				old[l] = shape
				old[peer] = gs.Stub
			case shape != gs.Stub:
				old[l] = shape
				nw[l] = gs.Stub
			default:
				continue
			}
			s.Wires[gs.Loc{Coords: c.Sub(tl), Dir: dir}] = shape
		}
	})
	if len(old) > 0 {
		changes = append(changes, grid.ReplaceWires{Old: old, New: nw})
	}
	return s, changes
}

// Delete removes the contents of area r of g. It returns false if the board
// could not be changed.
//
func Delete(g *grid.EditGrid, r geom.Rect) bool {
	_, changes := cut(g, r)
	return g.TryMutate(changes)
}

// DeleteWire removes the logical wire id from g. The other half of a Cross
// fragment on the wire becomes a straight wire.
//
func DeleteWire(g *grid.EditGrid, id gs.WireID) bool {
	ws := g.Wires()
	if int(id) < 0 || int(id) >= len(ws) {
		return false
	}
	old := make(map[gs.Loc]gs.WireShape)
	nw := make(map[gs.Loc]gs.WireShape)
	for _, l := range ws[id].Fragments {
		s, _ := g.WireShapeAt(l.Coords, l.Dir)
		old[l] = s
	}
	for l, s := range old {
		if s != gs.Cross {
			continue
		}
		for _, d := range []geom.Direction{l.Dir.RotateCW(), l.Dir.RotateCCW()} {
			if _, ok := old[l.Side(d)]; !ok {
				old[l.Side(d)] = gs.Cross
				nw[l.Side(d)] = gs.Straight
			}
		}
	}
	return g.TryMutate([]grid.Change{grid.ReplaceWires{Old: old, New: nw}})
}

// Paste returns the changes that paste s with its top-left corner at tl. The
// pasted wires replace or are joined to the wires already there. Applying
// the changes fails if a pasted chip overlaps a chip on the board or if s
// does not fit in the board bounds.
//
func Paste(g *grid.EditGrid, s *Selection, tl geom.Coords) []grid.Change {
	old := make(map[gs.Loc]gs.WireShape)
	nw := make(map[gs.Loc]gs.WireShape)
	shapeAt := func(l gs.Loc) (gs.WireShape, bool) { return g.WireShapeAt(l.Coords, l.Dir) }

	// removes the fragment at l, leaving a stub unless its peer is a stub.
	detach := func(l gs.Loc, shape gs.WireShape, keepStub bool) {
		old[l] = shape
		peer := l.Facing()
		if ps, ok := shapeAt(peer); !keepStub && ok && ps == gs.Stub {
			old[peer] = gs.Stub
			return
		}
		nw[l] = gs.Stub
	}

	for _, dl := range gs.SortedLocs(s.Wires) {
		shape := s.Wires[dl]
		l := gs.Loc{Coords: tl.Add(dl.Coords), Dir: dl.Dir}
		if cur, ok := shapeAt(l); ok {
			if cur == shape || shape == gs.Stub {
				continue
			}
			old[l] = cur
			for _, sib := range cur.Layout(l.Dir) {
				sl := l.Side(sib.Dir)
				if _, ok := old[sl]; !ok {
					detach(sl, sib.Shape, false)
				}
			}
		}
		nw[l] = shape
	}

	var chips []grid.Change
	for _, dc := range sortedCoords(s.Chips) {
		p := s.Chips[dc]
		c := tl.Add(dc)
		ports := make(map[gs.Loc]bool)
		for _, ps := range p.Type.Ports(c, p.Orient) {
			ports[ps.Loc] = true
		}
		r := geom.RectAt(c, p.Type.Footprint(p.Orient))
		r.Cells(func(cell geom.Coords) {
			for _, dir := range geom.AllDirections {
				l := gs.Loc{Coords: cell, Dir: dir}
				shape, ok := shapeAt(l)
				if !ok {
					continue
				}
				switch {
				case r.Contains(l.Facing().Coords):
					old[l] = shape
					delete(nw, l)
				case shape != gs.Stub:
					detach(l, shape, ports[l])
				}
			}
		})
		chips = append(chips, grid.AddChip{Coords: c, Type: p.Type, Orient: p.Orient})
	}

	// every new fragment needs a peer
	for l := range nw {
		peer := l.Facing()
		if _, ok := nw[peer]; ok {
			continue
		}
		_, removed := old[peer]
		if _, ok := shapeAt(peer); !ok || removed {
			nw[peer] = gs.Stub
		}
	}

	var changes []grid.Change
	if len(old) > 0 || len(nw) > 0 {
		changes = append(changes, grid.ReplaceWires{Old: old, New: nw})
	}
	return append(changes, chips...)
}

func sortedCoords[V any](m map[geom.Coords]V) []geom.Coords {
	return slices.SortedFunc(maps.Keys(m), func(a, b geom.Coords) int {
		switch {
		case a.Less(b):
			return -1
		case b.Less(a):
			return 1
		}
		return 0
	})
}

// Reorient applies o to the selection in place. Chips keep their top-left
// cell as their position; mirroring swaps left and right turns and splits.
//
func (s *Selection) Reorient(o geom.Orientation) {
	chips := make(map[geom.Coords]Placed, len(s.Chips))
	for d, p := range s.Chips {
		nd := o.TransformInSize(d, s.Size).Sub(o.TransformInSize(geom.Coords{}, p.Type.Footprint(p.Orient)))
		chips[nd] = Placed{p.Type, o.Compose(p.Orient)}
	}
	wires := make(map[gs.Loc]gs.WireShape, len(s.Wires))
	for l, shape := range s.Wires {
		if o.IsMirrored() {
			shape = shape.Mirror()
		}
		wires[gs.Loc{Coords: o.TransformInSize(l.Coords, s.Size), Dir: o.Apply(l.Dir)}] = shape
	}
	s.Size = o.ApplySize(s.Size)
	s.Chips = chips
	s.Wires = wires
}

// Transform reorients the contents of area r of g in place as a single undo
// step. It returns false and leaves g untouched if the result does not fit.
//
func Transform(g *grid.EditGrid, r geom.Rect, o geom.Orientation) bool {
	s, changes := cut(g, r)
	if !g.TryMutateProvisional(changes) {
		return false
	}
	s.Reorient(o)
	if !g.TryMutateProvisional(Paste(g, s, r.TopLeft())) {
		g.RollBackProvisional()
		return false
	}
	g.CommitProvisional()
	return true
}

// Marshal returns the clipboard text of the selection.
//
func (s *Selection) Marshal() ([]byte, error) {
	d := save.NewCircuitData(geom.RectAt(geom.Coords{}, s.Size))
	for c, p := range s.Chips {
		d.SetChip(c, p.Type, p.Orient)
	}
	for l, shape := range s.Wires {
		d.SetWire(l.Coords, l.Dir, shape)
	}
	return save.EncodeCircuit(d)
}

// Unmarshal parses clipboard text. Chips not in allowed are dropped.
//
func Unmarshal(b []byte, allowed puzzle.ChipSet) (*Selection, error) {
	d, err := save.DecodeCircuit(b)
	if err != nil {
		return nil, err
	}
	r := d.BoundsRect()
	if r.IsEmpty() {
		return nil, errors.Errorf("invalid selection size %v", r.Size())
	}
	chips, err := d.ChipEntries()
	if err != nil {
		return nil, err
	}
	wires, err := d.WireEntries()
	if err != nil {
		return nil, err
	}
	s := &Selection{
		Size:  r.Size(),
		Chips: make(map[geom.Coords]Placed, len(chips)),
		Wires: make(map[gs.Loc]gs.WireShape, len(wires)),
	}
	for _, e := range chips {
		if allowed.Has(e.Type) {
			s.Chips[e.Delta] = Placed{e.Type, e.Orient}
		}
	}
	for _, e := range wires {
		s.Wires[gs.Loc{Coords: e.Delta, Dir: e.Dir}] = e.Shape
	}
	return s, nil
}
