// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package grid

import (
	"maps"
	"strconv"

	gs "github.com/db47h/gridsim"
	"github.com/db47h/gridsim/chip"
	"github.com/db47h/gridsim/geom"
)

// Change is a primitive grid mutation. Every Change has an inverse such that
// applying a change then its inverse leaves the grid untouched.
//
type Change interface {
	// Invert returns the change that undoes this one.
	Invert() Change
	String() string

	apply(g *EditGrid) error
}

// AddChip places a chip with its top-left cell at Coords.
//
type AddChip struct {
	Coords geom.Coords
	Type   chip.ChipType
	Orient geom.Orientation
}

// Invert returns the matching RemoveChip.
//
func (c AddChip) Invert() Change { return RemoveChip(c) }

func (c AddChip) String() string {
	return "AddChip(" + c.Coords.String() + ", " + c.Type.String() + ", " + c.Orient.String() + ")"
}

// RemoveChip removes a chip. The chip at Coords must match exactly.
//
type RemoveChip struct {
	Coords geom.Coords
	Type   chip.ChipType
	Orient geom.Orientation
}

// Invert returns the matching AddChip.
//
func (c RemoveChip) Invert() Change { return AddChip(c) }

func (c RemoveChip) String() string {
	return "RemoveChip(" + c.Coords.String() + ", " + c.Type.String() + ", " + c.Orient.String() + ")"
}

// ReplaceWires removes the fragments in Old, which must match the grid, and
// adds those in New.
//
type ReplaceWires struct {
	Old map[gs.Loc]gs.WireShape
	New map[gs.Loc]gs.WireShape
}

// Invert swaps Old and New.
//
func (c ReplaceWires) Invert() Change { return ReplaceWires{c.New, c.Old} }

func (c ReplaceWires) String() string {
	return "ReplaceWires(" + strconv.Itoa(len(c.Old)) + " -> " + strconv.Itoa(len(c.New)) + ")"
}

// ToggleBreakpoint enables or disables the Break chip at Coords.
//
type ToggleBreakpoint struct {
	Coords geom.Coords
}

// Invert returns c.
//
func (c ToggleBreakpoint) Invert() Change { return c }

func (c ToggleBreakpoint) String() string { return "ToggleBreakpoint(" + c.Coords.String() + ")" }

// SetBounds changes the board bounds from Old to New.
//
type SetBounds struct {
	Old, New geom.Rect
}

// Invert swaps Old and New.
//
func (c SetBounds) Invert() Change { return SetBounds{c.New, c.Old} }

func (c SetBounds) String() string {
	return "SetBounds(" + c.Old.String() + " -> " + c.New.String() + ")"
}

// SetComment changes the text of the Comment chip at Coords.
//
type SetComment struct {
	Coords   geom.Coords
	Old, New string
}

// Invert swaps Old and New.
//
func (c SetComment) Invert() Change { return SetComment{c.Coords, c.New, c.Old} }

func (c SetComment) String() string {
	return "SetComment(" + c.Coords.String() + ", " + strconv.Quote(c.New) + ")"
}

// SetConst changes the value of the Const chip at Coords.
//
type SetConst struct {
	Coords   geom.Coords
	Old, New uint32
}

// Invert swaps Old and New.
//
func (c SetConst) Invert() Change { return SetConst{c.Coords, c.New, c.Old} }

func (c SetConst) String() string {
	return "SetConst(" + c.Coords.String() + ", " + strconv.FormatUint(uint64(c.New), 10) + ")"
}

// InvertGroup returns the changes that undo a group of changes applied in
// order.
//
func InvertGroup(changes []Change) []Change {
	inv := make([]Change, len(changes))
	for i, c := range changes {
		inv[len(changes)-1-i] = c.Invert()
	}
	return inv
}

// InvertAndCollapse is like InvertGroup but merges adjacent wire
// replacements and drops changes that cancel out.
//
func InvertAndCollapse(changes []Change) []Change {
	var out []Change
	for i := len(changes) - 1; i >= 0; i-- {
		inv := changes[i].Invert()
		var last Change
		if n := len(out); n > 0 {
			last = out[n-1]
			out = out[:n-1]
		}
		switch c := inv.(type) {
		case ReplaceWires:
			if prev, ok := last.(ReplaceWires); ok {
				if m := mergeWires(prev, c); m != nil {
					out = append(out, *m)
				}
				continue
			}
		case AddChip:
			if prev, ok := last.(RemoveChip); ok && AddChip(prev) == c {
				continue
			}
		case RemoveChip:
			if prev, ok := last.(AddChip); ok && RemoveChip(prev) == c {
				continue
			}
		case SetBounds:
			if prev, ok := last.(SetBounds); ok {
				if prev.Old != c.New {
					out = append(out, SetBounds{prev.Old, c.New})
				}
				continue
			}
		case ToggleBreakpoint:
			if prev, ok := last.(ToggleBreakpoint); ok && prev == c {
				continue
			}
		case SetConst:
			if prev, ok := last.(SetConst); ok && prev.Coords == c.Coords {
				if prev.Old != c.New {
					out = append(out, SetConst{c.Coords, prev.Old, c.New})
				}
				continue
			}
		case SetComment:
			if prev, ok := last.(SetComment); ok && prev.Coords == c.Coords {
				if prev.Old != c.New {
					out = append(out, SetComment{c.Coords, prev.Old, c.New})
				}
				continue
			}
		}
		if last != nil {
			out = append(out, last)
		}
		if c := simplify(inv); c != nil {
			out = append(out, c)
		}
	}
	return out
}

// mergeWires merges two consecutive wire replacements into one. It returns
// nil if they cancel out.
//
func mergeWires(first, second ReplaceWires) *ReplaceWires {
	old, nw := maps.Clone(first.Old), maps.Clone(first.New)
	if old == nil {
		old = make(map[gs.Loc]gs.WireShape)
	}
	if nw == nil {
		nw = make(map[gs.Loc]gs.WireShape)
	}
	for l, s := range second.Old {
		if cur, ok := nw[l]; ok && cur == s {
			delete(nw, l)
		} else {
			old[l] = s
		}
	}
	for l, s := range second.New {
		if cur, ok := old[l]; ok && cur == s {
			delete(old, l)
		} else {
			nw[l] = s
		}
	}
	if len(old) == 0 && len(nw) == 0 {
		return nil
	}
	return &ReplaceWires{old, nw}
}

// simplify drops no-op parts of a change. It returns nil if nothing is left.
//
func simplify(c Change) Change {
	switch c := c.(type) {
	case ReplaceWires:
		old, nw := maps.Clone(c.Old), maps.Clone(c.New)
		for l, s := range nw {
			if cur, ok := old[l]; ok && cur == s {
				delete(old, l)
				delete(nw, l)
			}
		}
		if len(old) == 0 && len(nw) == 0 {
			return nil
		}
		return ReplaceWires{old, nw}
	case SetBounds:
		if c.Old == c.New {
			return nil
		}
	case SetConst:
		if c.Old == c.New {
			return nil
		}
	case SetComment:
		if c.Old == c.New {
			return nil
		}
	}
	return c
}
