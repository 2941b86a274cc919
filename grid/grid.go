// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package grid implements the editable circuit board: chips and wire
// fragments placed on a bounded grid, mutated through invertible changes with
// undo and redo.
//
// Every mutation either keeps the board consistent or is rejected as a
// whole:
//
//	- chips never overlap each other or a puzzle interface and lie within
//	  the board bounds;
//	- fragments facing each other across a cell edge exist in pairs;
//	- the fragments of a cell agree on their shapes;
//	- a fragment in a chip cell is a stub facing out of the chip.
//
// While an evaluation is running, the board is frozen.
//
package grid

import (
	"io"
	"log/slog"
	"slices"

	gs "github.com/db47h/gridsim"
	"github.com/db47h/gridsim/chip"
	"github.com/db47h/gridsim/geom"
	"github.com/db47h/gridsim/puzzle"
	"github.com/pkg/errors"
)

// ErrEvaluating is returned by mutations attempted while an evaluation is
// running.
//
var ErrEvaluating = errors.New("grid is being evaluated")

// Chip is a placed chip.
//
type Chip struct {
	Coords geom.Coords
	Type   chip.ChipType
	Orient geom.Orientation
}

// Rect returns the cells covered by the chip.
//
func (c Chip) Rect() geom.Rect {
	return geom.RectAt(c.Coords, c.Type.Footprint(c.Orient))
}

// Fragment is a wire fragment.
//
type Fragment struct {
	Loc   gs.Loc
	Shape gs.WireShape
}

// Option configures an EditGrid.
//
type Option func(*EditGrid)

// WithLogger sets the logger used for debug traces.
//
func WithLogger(l *slog.Logger) Option {
	return func(g *EditGrid) {
		if l != nil {
			g.log = l
		}
	}
}

// WithSeed sets the seed of the random number generator handed to chips when
// an evaluation starts.
//
func WithSeed(seed uint64) Option {
	return func(g *EditGrid) { g.seed = seed }
}

// EditGrid is an editable circuit board for a given puzzle.
//
// An EditGrid is not safe for concurrent use.
//
type EditGrid struct {
	puzzle  puzzle.Puzzle
	allowed puzzle.ChipSet
	ifaces  []puzzle.Interface
	bounds  geom.Rect
	chips   map[geom.Coords]Chip        // by top-left cell
	cells   map[geom.Coords]geom.Coords // cell -> top-left cell of the chip covering it
	frags   map[gs.Loc]gs.WireShape

	analysis *gs.Analysis // nil when stale
	eval     *gs.Circuit

	undo, redo  [][]Change
	provisional []Change
	modified    bool

	log  *slog.Logger
	seed uint64
}

// New returns an empty board for puzzle p with its initial bounds. Only chips
// in allowed can be placed.
//
func New(p puzzle.Puzzle, allowed puzzle.ChipSet, opts ...Option) *EditGrid {
	return newGrid(p, allowed, p.InitialBounds(), opts)
}

func newGrid(p puzzle.Puzzle, allowed puzzle.ChipSet, bounds geom.Rect, opts []Option) *EditGrid {
	g := &EditGrid{
		puzzle:  p,
		allowed: allowed,
		ifaces:  p.Interfaces(),
		bounds:  bounds,
		chips:   make(map[geom.Coords]Chip),
		cells:   make(map[geom.Coords]geom.Coords),
		frags:   make(map[gs.Loc]gs.WireShape),
		log:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		seed:    1,
	}
	for _, o := range opts {
		o(g)
	}
	return g
}

// Puzzle returns the board's puzzle.
//
func (g *EditGrid) Puzzle() puzzle.Puzzle { return g.puzzle }

// AllowedChips returns the chip kinds that can be placed on the board.
//
func (g *EditGrid) AllowedChips() puzzle.ChipSet { return g.allowed }

// Bounds returns the board bounds.
//
func (g *EditGrid) Bounds() geom.Rect { return g.bounds }

// Interfaces returns the puzzle interfaces around the board.
//
func (g *EditGrid) Interfaces() []puzzle.Interface { return g.ifaces }

// InterfaceAt returns the index of the interface covering cell c.
//
func (g *EditGrid) InterfaceAt(c geom.Coords) (int, bool) {
	for i := range g.ifaces {
		if g.ifaces[i].Rect(g.bounds).Contains(c) {
			return i, true
		}
	}
	return -1, false
}

// ChipAt returns the chip covering cell c.
//
func (g *EditGrid) ChipAt(c geom.Coords) (Chip, bool) {
	tl, ok := g.cells[c]
	if !ok {
		return Chip{}, false
	}
	return g.chips[tl], true
}

// ChipCells returns the cells covered by the chip covering cell c, or nil if
// there is none.
//
func (g *EditGrid) ChipCells(c geom.Coords) []geom.Coords {
	ch, ok := g.ChipAt(c)
	if !ok {
		return nil
	}
	var cells []geom.Coords
	ch.Rect().Cells(func(c geom.Coords) { cells = append(cells, c) })
	return cells
}

// Chips returns all chips, sorted by position.
//
func (g *EditGrid) Chips() []Chip {
	cs := make([]Chip, 0, len(g.chips))
	for _, c := range g.chips {
		cs = append(cs, c)
	}
	slices.SortFunc(cs, func(a, b Chip) int {
		switch {
		case a.Coords.Less(b.Coords):
			return -1
		case b.Coords.Less(a.Coords):
			return 1
		}
		return 0
	})
	return cs
}

// WireShapeAt returns the shape of the fragment at side dir of cell c.
//
func (g *EditGrid) WireShapeAt(c geom.Coords, dir geom.Direction) (gs.WireShape, bool) {
	s, ok := g.frags[gs.Loc{Coords: c, Dir: dir}]
	return s, ok
}

// Fragments returns all wire fragments, sorted by location.
//
func (g *EditGrid) Fragments() []Fragment {
	fs := make([]Fragment, 0, len(g.frags))
	for _, l := range gs.SortedLocs(g.frags) {
		fs = append(fs, Fragment{l, g.frags[l]})
	}
	return fs
}

// CanPlaceChip reports whether the cells in r are free and within bounds.
//
func (g *EditGrid) CanPlaceChip(r geom.Rect) bool {
	if !g.bounds.ContainsRect(r) {
		return false
	}
	for i := range g.ifaces {
		if g.ifaces[i].Rect(g.bounds).Intersects(r) {
			return false
		}
	}
	free := true
	r.Cells(func(c geom.Coords) {
		if _, ok := g.cells[c]; ok {
			free = false
		}
	})
	return free
}

// CanHaveBounds reports whether the board contents fit in bounds b.
//
func (g *EditGrid) CanHaveBounds(b geom.Rect) bool {
	lo := puzzle.MinBoundsSize(g.ifaces)
	if b.W < lo.W || b.H < lo.H {
		return false
	}
	for c := range g.cells {
		if !b.Contains(c) {
			return false
		}
	}
	for l, s := range g.frags {
		if !fragmentInBounds(b, l, s) {
			return false
		}
	}
	return true
}

func fragmentInBounds(b geom.Rect, l gs.Loc, s gs.WireShape) bool {
	return b.Contains(l.Coords) || (s == gs.Stub && b.Contains(l.Facing().Coords))
}

// IsModified reports whether the board changed since the last call to
// MarkUnmodified.
//
func (g *EditGrid) IsModified() bool { return g.modified }

// MarkUnmodified clears the modified flag, typically after a save.
//
func (g *EditGrid) MarkUnmodified() { g.modified = false }

// HasUndo reports whether there are changes to undo.
//
func (g *EditGrid) HasUndo() bool { return len(g.undo) > 0 || len(g.provisional) > 0 }

// HasRedo reports whether there are changes to redo.
//
func (g *EditGrid) HasRedo() bool { return len(g.redo) > 0 }

// TryMutate applies changes atomically. It returns false and leaves the
// board untouched if any change is invalid.
//
func (g *EditGrid) TryMutate(changes []Change) bool {
	return g.TryMutateErr(changes) == nil
}

// TryMutateErr is like TryMutate but returns the reason of a rejection.
//
func (g *EditGrid) TryMutateErr(changes []Change) error {
	if g.eval != nil {
		return ErrEvaluating
	}
	g.CommitProvisional()
	if err := g.mutate(changes); err != nil {
		return err
	}
	if inv := InvertAndCollapse(changes); len(inv) > 0 {
		g.undo = append(g.undo, inv)
	}
	return nil
}

// TryMutateProvisional applies changes atomically to the provisional buffer.
// Provisional changes are either committed as one undo step or rolled back.
//
func (g *EditGrid) TryMutateProvisional(changes []Change) bool {
	if g.eval != nil {
		return false
	}
	if err := g.mutate(changes); err != nil {
		return false
	}
	g.provisional = append(g.provisional, changes...)
	return true
}

// HasProvisional reports whether there are uncommitted provisional changes.
//
func (g *EditGrid) HasProvisional() bool { return len(g.provisional) > 0 }

// CommitProvisional turns the provisional changes into a single undo step.
//
func (g *EditGrid) CommitProvisional() {
	if len(g.provisional) == 0 {
		return
	}
	if inv := InvertAndCollapse(g.provisional); len(inv) > 0 {
		g.undo = append(g.undo, inv)
	}
	g.provisional = nil
}

// RollBackProvisional reverts the provisional changes. It returns true if
// the board changed.
//
func (g *EditGrid) RollBackProvisional() bool {
	if g.eval != nil || len(g.provisional) == 0 {
		return false
	}
	g.replay(InvertGroup(g.provisional), "roll back")
	g.provisional = nil
	return true
}

// Undo reverts the last committed mutation, or the provisional changes if
// any. It returns true if the board changed.
//
func (g *EditGrid) Undo() bool {
	if g.eval != nil {
		return false
	}
	changed := g.RollBackProvisional()
	if n := len(g.undo); n > 0 {
		changes := g.undo[n-1]
		g.undo = g.undo[:n-1]
		g.replay(changes, "undo")
		g.redo = append(g.redo, InvertGroup(changes))
		g.modified = true
		changed = true
	}
	return changed
}

// Redo reapplies the last undone mutation. It returns true if the board
// changed.
//
func (g *EditGrid) Redo() bool {
	if g.eval != nil {
		return false
	}
	n := len(g.redo)
	if n == 0 {
		return false
	}
	changes := g.redo[n-1]
	g.redo = g.redo[:n-1]
	g.replay(changes, "redo")
	g.undo = append(g.undo, InvertGroup(changes))
	g.modified = true
	return true
}

// replay applies changes known to be valid.
//
func (g *EditGrid) replay(changes []Change, what string) {
	for _, c := range changes {
		if err := c.apply(g); err != nil {
			g.log.Warn("change had no effect", "op", what, "change", c.String(), "error", err)
		}
	}
	g.analysis = nil
}

// mutate applies changes in order. If one fails, the ones already applied
// are reverted.
//
func (g *EditGrid) mutate(changes []Change) error {
	for i, c := range changes {
		if err := c.apply(g); err != nil {
			for j := i - 1; j >= 0; j-- {
				if rerr := changes[j].Invert().apply(g); rerr != nil {
					g.log.Warn("failed to roll back change", "change", changes[j].String(), "error", rerr)
				}
			}
			g.log.Debug("mutation rejected", "change", c.String(), "error", err)
			return errors.WithMessage(err, c.String())
		}
	}
	if len(changes) > 0 {
		g.redo = nil
		g.modified = true
		g.analysis = nil
	}
	return nil
}

func (c AddChip) apply(g *EditGrid) error {
	if !g.allowed.Has(c.Type) {
		return errors.Errorf("chip %s is not allowed in %s", c.Type.Kind, g.puzzle)
	}
	r := geom.RectAt(c.Coords, c.Type.Footprint(c.Orient))
	if !g.CanPlaceChip(r) {
		return errors.New("chip does not fit")
	}
	var blocked bool
	r.Cells(func(cell geom.Coords) {
		for _, dir := range geom.AllDirections {
			l := gs.Loc{Coords: cell, Dir: dir}
			s, ok := g.frags[l]
			if ok && (s != gs.Stub || r.Contains(l.Facing().Coords)) {
				blocked = true
			}
		}
	})
	if blocked {
		return errors.New("wires in the way")
	}
	g.chips[c.Coords] = Chip(c)
	r.Cells(func(cell geom.Coords) { g.cells[cell] = c.Coords })
	return nil
}

func (c RemoveChip) apply(g *EditGrid) error {
	cur, ok := g.chips[c.Coords]
	if !ok || cur != Chip(c) {
		return errors.Errorf("no matching chip at %v", c.Coords)
	}
	cur.Rect().Cells(func(cell geom.Coords) { delete(g.cells, cell) })
	delete(g.chips, c.Coords)
	return nil
}

// payloadChip returns the chip of kind k whose top-left cell is c.
//
func (g *EditGrid) payloadChip(c geom.Coords, k chip.Kind) (Chip, error) {
	cur, ok := g.chips[c]
	if !ok || cur.Type.Kind != k {
		return Chip{}, errors.Errorf("no %s chip at %v", k, c)
	}
	return cur, nil
}

func (c ToggleBreakpoint) apply(g *EditGrid) error {
	cur, err := g.payloadChip(c.Coords, chip.Break)
	if err != nil {
		return err
	}
	cur.Type.Flag = !cur.Type.Flag
	g.chips[c.Coords] = cur
	return nil
}

func (c SetConst) apply(g *EditGrid) error {
	cur, err := g.payloadChip(c.Coords, chip.Const)
	if err != nil {
		return err
	}
	if cur.Type.Value != c.Old {
		return errors.Errorf("constant at %v is %d, not %d", c.Coords, cur.Type.Value, c.Old)
	}
	if c.New > chip.MaxConstValue {
		return errors.Errorf("constant %d out of range", c.New)
	}
	cur.Type.Value = c.New
	g.chips[c.Coords] = cur
	return nil
}

func (c SetComment) apply(g *EditGrid) error {
	cur, err := g.payloadChip(c.Coords, chip.Comment)
	if err != nil {
		return err
	}
	if cur.Type.Text != c.Old {
		return errors.Errorf("comment at %v does not match", c.Coords)
	}
	cur.Type.Text = c.New
	g.chips[c.Coords] = cur
	return nil
}

func (c SetBounds) apply(g *EditGrid) error {
	if g.bounds != c.Old {
		return errors.Errorf("bounds are %v, not %v", g.bounds, c.Old)
	}
	if !g.CanHaveBounds(c.New) {
		return errors.Errorf("board cannot have bounds %v", c.New)
	}
	g.bounds = c.New
	return nil
}

func (c ReplaceWires) apply(g *EditGrid) error {
	for l, s := range c.Old {
		if cur, ok := g.frags[l]; !ok || cur != s {
			return errors.Errorf("no %s fragment at %v", s, l)
		}
		// a removed fragment is either replaced or goes away with its peer
		if _, ok := c.Old[l.Facing()]; !ok {
			if _, ok := c.New[l]; !ok {
				return errors.Errorf("removing %v leaves its peer dangling", l)
			}
		}
		if ns, ok := c.New[l]; ok && ns == s {
			continue
		}
		for _, p := range s.Layout(l.Dir) {
			if _, ok := c.Old[l.Side(p.Dir)]; !ok {
				return errors.Errorf("removing %v breaks its cell", l)
			}
		}
	}
	for l, s := range c.New {
		if !fragmentInBounds(g.bounds, l, s) {
			return errors.Errorf("fragment %v out of bounds", l)
		}
		if ch, ok := g.ChipAt(l.Coords); ok {
			if s != gs.Stub || ch.Rect().Contains(l.Facing().Coords) {
				return errors.Errorf("fragment %v under chip", l)
			}
		}
		if _, ok := g.frags[l]; ok {
			if _, ok := c.Old[l]; !ok {
				return errors.Errorf("fragment %v already exists", l)
			}
		}
		peer := l.Facing()
		if _, ok := c.New[peer]; !ok {
			_, exists := g.frags[peer]
			_, removed := c.Old[peer]
			if !exists || removed {
				return errors.Errorf("fragment %v has no peer", l)
			}
		}
		if prev, ok := c.Old[l]; ok && prev == s {
			continue
		}
		for _, p := range s.Layout(l.Dir) {
			if ns, ok := c.New[l.Side(p.Dir)]; !ok || ns != p.Shape {
				return errors.Errorf("fragment %v is missing its %s side", l, p.Dir)
			}
		}
	}
	for l := range c.Old {
		delete(g.frags, l)
	}
	for l, s := range c.New {
		g.frags[l] = s
	}
	return nil
}
