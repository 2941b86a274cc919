// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package grid_test

import (
	"testing"

	gs "github.com/db47h/gridsim"
	"github.com/db47h/gridsim/chip"
	"github.com/db47h/gridsim/geom"
	"github.com/db47h/gridsim/grid"
	"github.com/db47h/gridsim/puzzle"
	"github.com/db47h/gridsim/simtest"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// a Xor chip at the center of the board wired to the three interfaces.
var xorWires = simtest.Merge(
	simtest.Path(gs.L(-1, 2, geom.East), "ee"),
	simtest.Path(gs.L(2, 2, geom.East), "ee"),
	simtest.Path(gs.L(2, 5, geom.North), "nn"),
)

func xorGrid(t *testing.T) *grid.EditGrid {
	return simtest.NewGrid(t, puzzle.FabricateXor,
		simtest.Place(chip.Xor, geom.C(2, 2)),
		xorWires.Add(),
	)
}

type snapshot struct {
	bounds geom.Rect
	chips  []grid.Chip
	frags  []grid.Fragment
}

func snap(g *grid.EditGrid) snapshot {
	return snapshot{g.Bounds(), g.Chips(), g.Fragments()}
}

func TestXorSolution(t *testing.T) {
	g := xorGrid(t)
	require.False(t, g.HasErrors(), "%v", g.Errors())
	assert.Len(t, g.Fragments(), 18)

	in, ok := g.WireAt(gs.L(0, 2, geom.East))
	require.True(t, ok)
	port, ok := g.WireAt(gs.L(-1, 2, geom.East))
	require.True(t, ok)
	assert.Equal(t, in, port)

	r := simtest.Run(t, g, 10)
	assert.Equal(t, gs.Victory, r.Kind, "%v", r)
	assert.EqualValues(t, 18, r.Score)
}

func TestEmptyGrid(t *testing.T) {
	g := grid.New(puzzle.FabricateXor, simtest.AllChips())
	assert.Equal(t, puzzle.FabricateXor.InitialBounds(), g.Bounds())
	assert.Empty(t, g.Chips())
	assert.Empty(t, g.Fragments())
	assert.False(t, g.IsModified())
	assert.False(t, g.HasUndo())
	assert.False(t, g.HasRedo())
	assert.False(t, g.HasErrors())
	assert.False(t, g.Undo())
	assert.False(t, g.Redo())

	// nothing drives the output
	r := simtest.Run(t, g, 10)
	assert.Equal(t, gs.Failure, r.Kind)
}

func TestMutationsAreAtomic(t *testing.T) {
	g := xorGrid(t)
	before := snap(g)
	for _, d := range []struct {
		name    string
		changes []grid.Change
	}{
		{"overlap", []grid.Change{simtest.Place(chip.Not, geom.C(0, 0)), simtest.Place(chip.And, geom.C(2, 2))}},
		{"out of bounds", []grid.Change{simtest.Place(chip.Not, geom.C(0, 0)), simtest.Place(chip.Not, geom.C(5, 0))}},
		{"partly out of bounds", []grid.Change{simtest.Place(chip.Ram, geom.C(4, 4))}},
		{"on wires", []grid.Change{simtest.Place(chip.Not, geom.C(1, 2))}},
		{"wire under chip", []grid.Change{simtest.Path(gs.L(1, 1, geom.East), "ss").Add()}},
		{"dangling peer", []grid.Change{grid.ReplaceWires{
			Old: map[gs.Loc]gs.WireShape{gs.L(3, 2, geom.East): gs.Straight},
			New: map[gs.Loc]gs.WireShape{},
		}}},
		{"no peer", []grid.Change{grid.ReplaceWires{
			Old: map[gs.Loc]gs.WireShape{},
			New: map[gs.Loc]gs.WireShape{gs.L(0, 0, geom.East): gs.Stub},
		}}},
		{"existing fragment", []grid.Change{simtest.Path(gs.L(-1, 2, geom.East), "e").Add()}},
		{"stale fragment", []grid.Change{simtest.Path(gs.L(0, 0, geom.East), "e").Remove()}},
		{"missing chip", []grid.Change{grid.RemoveChip{geom.C(2, 2), chip.And.Type(), geom.Orientation{}}}},
		{"wrong bounds", []grid.Change{grid.SetBounds{Old: geom.Rect{X: 1, Y: 1, W: 5, H: 5}, New: geom.Rect{W: 6, H: 6}}}},
		{"no const", []grid.Change{grid.SetConst{geom.C(2, 2), 0, 1}}},
		{"no break", []grid.Change{grid.ToggleBreakpoint{geom.C(2, 2)}}},
	} {
		err := g.TryMutateErr(d.changes)
		assert.Error(t, err, d.name)
		assert.Equal(t, before, snap(g), d.name)
	}
	assert.False(t, g.TryMutate([]grid.Change{simtest.Place(chip.Not, geom.C(1, 2))}))
}

func TestAllowedChips(t *testing.T) {
	g := grid.New(puzzle.FabricateXor, puzzle.FabricateXor.AllowedChips(nil))
	assert.False(t, g.AllowedChips()[chip.Xor])
	assert.False(t, g.TryMutate([]grid.Change{simtest.Place(chip.Xor, geom.C(1, 1))}))
	assert.True(t, g.TryMutate([]grid.Change{simtest.Place(chip.Not, geom.C(1, 1))}))
}

func TestChipCells(t *testing.T) {
	g := simtest.NewGrid(t, puzzle.SandboxBehavior, simtest.Place(chip.Ram, geom.C(1, 1)))
	want := []geom.Coords{geom.C(1, 1), geom.C(2, 1), geom.C(1, 2), geom.C(2, 2)}
	assert.Equal(t, want, g.ChipCells(geom.C(2, 2)))
	assert.Equal(t, want, g.ChipCells(geom.C(1, 1)))
	assert.Nil(t, g.ChipCells(geom.C(0, 0)))
}

func TestInvertRestoresGrid(t *testing.T) {
	g := simtest.NewGrid(t, puzzle.FabricateXor,
		grid.AddChip{geom.C(0, 0), chip.NewConst(3), geom.Orientation{}},
		grid.AddChip{geom.C(4, 0), chip.NewBreak(true), geom.Orientation{}},
		grid.AddChip{geom.C(0, 4), chip.NewComment("xor"), geom.Orientation{}},
		grid.AddChip{geom.C(3, 3), chip.Ram.Type(), geom.Orientation{}},
	)
	b := g.Bounds()
	for _, c := range []grid.Change{
		grid.AddChip{geom.C(2, 0), chip.Not.Type(), geom.Orientation{}.RotateCW()},
		grid.RemoveChip{geom.C(0, 0), chip.NewConst(3), geom.Orientation{}},
		grid.SetConst{geom.C(0, 0), 3, 7},
		grid.ToggleBreakpoint{geom.C(4, 0)},
		grid.SetComment{geom.C(0, 4), "xor", "exclusive or"},
		grid.SetBounds{b, geom.Rect{X: -1, Y: -1, W: 7, H: 7}},
		simtest.Path(gs.L(-1, 2, geom.East), "ees").Add(),
	} {
		before := snap(g)
		require.True(t, g.TryMutate([]grid.Change{c}), c.String())
		assert.NotEqual(t, before, snap(g), c.String())
		require.True(t, g.TryMutate([]grid.Change{c.Invert()}), c.String())
		assert.Equal(t, before, snap(g), c.String())
	}
}

func TestPayloadChanges(t *testing.T) {
	g := simtest.NewGrid(t, puzzle.FabricateXor,
		grid.AddChip{geom.C(0, 0), chip.NewConst(3), geom.Orientation{}},
		grid.AddChip{geom.C(4, 0), chip.NewBreak(true), geom.Orientation{}},
		grid.AddChip{geom.C(0, 4), chip.NewComment("xor"), geom.Orientation{}},
	)
	simtest.Mutate(t, g,
		grid.SetConst{geom.C(0, 0), 3, 12},
		grid.ToggleBreakpoint{geom.C(4, 0)},
		grid.SetComment{geom.C(0, 4), "xor", "exclusive or"},
	)
	c, ok := g.ChipAt(geom.C(0, 0))
	require.True(t, ok)
	assert.Equal(t, chip.NewConst(12), c.Type)
	c, _ = g.ChipAt(geom.C(4, 0))
	assert.Equal(t, chip.NewBreak(false), c.Type)
	c, _ = g.ChipAt(geom.C(0, 4))
	assert.Equal(t, chip.NewComment("exclusive or"), c.Type)

	// stale old values and out of range constants are rejected
	assert.False(t, g.TryMutate([]grid.Change{grid.SetConst{geom.C(0, 0), 3, 4}}))
	assert.False(t, g.TryMutate([]grid.Change{grid.SetConst{geom.C(0, 0), 12, chip.MaxConstValue + 1}}))
	assert.False(t, g.TryMutate([]grid.Change{grid.SetComment{geom.C(0, 4), "xor", ""}}))

	// all three were one undo step
	require.True(t, g.Undo())
	c, _ = g.ChipAt(geom.C(0, 0))
	assert.Equal(t, chip.NewConst(3), c.Type)
	c, _ = g.ChipAt(geom.C(4, 0))
	assert.Equal(t, chip.NewBreak(true), c.Type)
	c, _ = g.ChipAt(geom.C(0, 4))
	assert.Equal(t, chip.NewComment("xor"), c.Type)
}

func TestUndoRedo(t *testing.T) {
	g := grid.New(puzzle.FabricateXor, simtest.AllChips())
	empty := snap(g)
	simtest.Mutate(t, g, simtest.Place(chip.Xor, geom.C(2, 2)))
	withChip := snap(g)
	simtest.Mutate(t, g, xorWires.Add())
	full := snap(g)
	assert.True(t, g.IsModified())
	g.MarkUnmodified()

	require.True(t, g.HasUndo())
	assert.False(t, g.HasRedo())
	require.True(t, g.Undo())
	assert.Equal(t, withChip, snap(g))
	assert.True(t, g.IsModified())
	require.True(t, g.Undo())
	assert.Equal(t, empty, snap(g))
	assert.False(t, g.HasUndo())
	assert.False(t, g.Undo())

	require.True(t, g.Redo())
	assert.Equal(t, withChip, snap(g))
	require.True(t, g.Redo())
	assert.Equal(t, full, snap(g))
	assert.False(t, g.Redo())

	// a new mutation clears the redo stack, a rejected one does not
	require.True(t, g.Undo())
	assert.False(t, g.TryMutate([]grid.Change{simtest.Place(chip.Not, geom.C(9, 9))}))
	assert.True(t, g.HasRedo())
	simtest.Mutate(t, g, simtest.Place(chip.Not, geom.C(0, 0)))
	assert.False(t, g.HasRedo())
}

func TestProvisional(t *testing.T) {
	g := grid.New(puzzle.FabricateXor, simtest.AllChips())
	empty := snap(g)

	require.True(t, g.TryMutateProvisional([]grid.Change{simtest.Place(chip.Not, geom.C(1, 1))}))
	require.True(t, g.TryMutateProvisional([]grid.Change{grid.RemoveChip{geom.C(1, 1), chip.Not.Type(), geom.Orientation{}}}))
	require.True(t, g.TryMutateProvisional([]grid.Change{simtest.Place(chip.Not, geom.C(2, 1))}))
	assert.False(t, g.TryMutateProvisional([]grid.Change{simtest.Place(chip.Not, geom.C(2, 1))}))
	assert.True(t, g.HasProvisional())
	assert.True(t, g.HasUndo())

	require.True(t, g.RollBackProvisional())
	assert.Equal(t, empty, snap(g))
	assert.False(t, g.HasProvisional())
	assert.False(t, g.HasUndo())
	assert.False(t, g.RollBackProvisional())

	// committed provisional changes form a single undo step
	require.True(t, g.TryMutateProvisional([]grid.Change{simtest.Place(chip.Not, geom.C(1, 1))}))
	require.True(t, g.TryMutateProvisional([]grid.Change{simtest.Place(chip.Not, geom.C(3, 3))}))
	g.CommitProvisional()
	assert.False(t, g.HasProvisional())
	assert.Len(t, g.Chips(), 2)
	require.True(t, g.Undo())
	assert.Equal(t, empty, snap(g))

	// a regular mutation commits pending provisional changes
	require.True(t, g.TryMutateProvisional([]grid.Change{simtest.Place(chip.Not, geom.C(1, 1))}))
	simtest.Mutate(t, g, simtest.Place(chip.Not, geom.C(3, 3)))
	require.True(t, g.Undo())
	assert.Len(t, g.Chips(), 1)
	require.True(t, g.Undo())
	assert.Equal(t, empty, snap(g))
}

func TestBounds(t *testing.T) {
	g := simtest.NewGrid(t, puzzle.FabricateXor, simtest.Place(chip.Not, geom.C(4, 4)))
	b := g.Bounds()
	assert.True(t, g.CanHaveBounds(geom.Rect{X: 0, Y: 0, W: 6, H: 6}))
	assert.False(t, g.CanHaveBounds(geom.Rect{X: 0, Y: 0, W: 4, H: 4}))
	assert.False(t, g.CanHaveBounds(geom.Rect{X: 4, Y: 4, W: 0, H: 1}))

	bigger := geom.Rect{X: -2, Y: 0, W: 7, H: 6}
	simtest.Mutate(t, g, grid.SetBounds{b, bigger})
	assert.Equal(t, bigger, g.Bounds())
	assert.True(t, g.CanPlaceChip(geom.RectAt(geom.C(-2, 5), geom.Size{W: 1, H: 1})))
	assert.False(t, g.CanPlaceChip(geom.RectAt(geom.C(-2, 6), geom.Size{W: 1, H: 1})))

	// interfaces follow the bounds
	i, ok := g.InterfaceAt(geom.C(-3, 2))
	require.True(t, ok)
	assert.Equal(t, "In1", g.Interfaces()[i].Name)

	require.True(t, g.Undo())
	assert.Equal(t, b, g.Bounds())
}

func TestFrozenWhileEvaluating(t *testing.T) {
	g := xorGrid(t)
	simtest.Mutate(t, g, simtest.Place(chip.Not, geom.C(0, 0)))
	require.True(t, g.Undo())
	before := snap(g)

	c, err := g.StartEval()
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Same(t, c, g.Eval())
	_, err = g.StartEval()
	assert.Equal(t, grid.ErrEvaluating, errors.Cause(err))

	err = g.TryMutateErr([]grid.Change{simtest.Place(chip.Not, geom.C(0, 0))})
	assert.Equal(t, grid.ErrEvaluating, errors.Cause(err))
	assert.False(t, g.TryMutateProvisional([]grid.Change{simtest.Place(chip.Not, geom.C(0, 0))}))
	assert.False(t, g.Undo())
	assert.False(t, g.Redo())
	assert.Equal(t, before, snap(g))

	g.StopEval()
	assert.Nil(t, g.Eval())
	require.True(t, g.Redo())
	assert.Len(t, g.Chips(), 2)
}

func TestStopStart(t *testing.T) {
	g := xorGrid(t)
	first := simtest.Run(t, g, 10)
	second := simtest.Run(t, g, 10)
	assert.Equal(t, first, second)

	// a stopped evaluation does not leak into the next one
	c, err := g.StartEval()
	require.NoError(t, err)
	c.StepTime()
	c.StepTime()
	g.StopEval()
	c, err = g.StartEval()
	require.NoError(t, err)
	assert.EqualValues(t, 0, c.TimeStep())
	g.StopEval()
}

func TestStartEvalWithErrors(t *testing.T) {
	// the output of a Not chip looped back into its input
	g := simtest.NewGrid(t, puzzle.FabricateXor,
		simtest.Place(chip.Not, geom.C(1, 1)),
		simtest.Path(gs.L(1, 1, geom.East), "nwwse").Add(),
	)
	require.True(t, g.HasErrors())
	_, err := g.StartEval()
	assert.Error(t, err)
	assert.Nil(t, g.Eval())
}

func TestCircuitData(t *testing.T) {
	g := xorGrid(t)
	d := g.ToCircuitData()
	assert.Equal(t, [4]int{0, 0, 5, 5}, d.Bounds)
	assert.Equal(t, map[string]string{"p2p2": "f0-Xor"}, d.Chips)
	assert.Equal(t, map[string]string{
		"p0p2e": "Straight", "p1p2e": "Straight",
		"p3p2e": "Straight", "p4p2e": "Straight",
		"p2p4s": "Straight", "p2p3s": "Straight",
	}, d.Wires)

	g2, err := grid.FromCircuitData(puzzle.FabricateXor, simtest.AllChips(), d)
	require.NoError(t, err)
	assert.Equal(t, snap(g), snap(g2))
	assert.False(t, g2.IsModified())
	assert.False(t, g2.HasUndo())

	// disallowed chips are dropped
	g3, err := grid.FromCircuitData(puzzle.FabricateXor, puzzle.FabricateXor.AllowedChips(nil), d)
	require.NoError(t, err)
	assert.Empty(t, g3.Chips())
	assert.Equal(t, g.Fragments(), g3.Fragments())
}

func TestCircuitDataMovedBounds(t *testing.T) {
	g := xorGrid(t)
	simtest.Mutate(t, g, grid.SetBounds{g.Bounds(), geom.Rect{X: -1, Y: 0, W: 7, H: 5}})
	simtest.Mutate(t, g, simtest.Place(chip.Not, geom.C(-1, 0)))
	d := g.ToCircuitData()
	assert.Equal(t, "f0-Not", d.Chips["p0p0"])
	g2, err := grid.FromCircuitData(puzzle.FabricateXor, simtest.AllChips(), d)
	require.NoError(t, err)
	assert.Equal(t, snap(g), snap(g2))
}

func TestBadCircuitData(t *testing.T) {
	for _, d := range []struct {
		name string
		edit func(d map[string]string, w map[string]string)
	}{
		{"unknown chip", func(c, w map[string]string) { c["p0p0"] = "f0-Bogus" }},
		{"overlapping chip", func(c, w map[string]string) { c["p2p2"] = "f0-Ram"; c["p3p3"] = "f0-Not" }},
		{"chip out of bounds", func(c, w map[string]string) { c["p5p5"] = "f0-Not" }},
		{"bad key", func(c, w map[string]string) { w["x1"] = "Stub" }},
		{"bad shape", func(c, w map[string]string) { w["p0p0e"] = "Squiggle" }},
		{"wire out of bounds", func(c, w map[string]string) { w["p9p9e"] = "Straight" }},
		{"conflicting fragments", func(c, w map[string]string) { w["p0p2w"] = "TurnLeft" }},
		{"wire under chip", func(c, w map[string]string) { w["p2p2e"] = "Straight" }},
	} {
		cd := xorGrid(t).ToCircuitData()
		d.edit(cd.Chips, cd.Wires)
		_, err := grid.FromCircuitData(puzzle.FabricateXor, simtest.AllChips(), cd)
		assert.Error(t, err, d.name)
	}

	cd := xorGrid(t).ToCircuitData()
	cd.Bounds = [4]int{0, 0, 1, 1}
	_, err := grid.FromCircuitData(puzzle.FabricateXor, simtest.AllChips(), cd)
	assert.Error(t, err, "shrunk bounds")
}

func TestRecordedInputs(t *testing.T) {
	g := xorGrid(t)
	assert.Nil(t, g.RecordedInputs())
	c, err := g.StartEval()
	require.NoError(t, err)
	defer g.StopEval()
	c.StepTime()
	assert.Empty(t, g.RecordedInputs())
}

// randomBoard returns the changes building two random number generators,
// one triggered by a button and one by a hotkey, each followed by a Latest
// chip holding the last value drawn.
//
func randomBoard() []grid.Change {
	var cs []grid.Change
	var ws []simtest.Wires
	for _, row := range []struct {
		y      int
		button chip.ChipType
	}{
		{1, chip.NewButton()},
		{3, chip.NewHotkeyButton(gs.KeySpace)},
	} {
		cs = append(cs,
			grid.AddChip{Coords: geom.C(1, row.y), Type: row.button},
			simtest.Place(chip.Random, geom.C(2, row.y)),
			simtest.Place(chip.Latest, geom.C(3, row.y)),
			grid.AddChip{Coords: geom.C(4, row.y), Type: chip.NewCoerce(gs.Eight)},
		)
		for x := 1; x < 4; x++ {
			ws = append(ws, simtest.Path(gs.L(x, row.y, geom.East), ""))
		}
	}
	return append(cs, simtest.Merge(ws...).Add())
}

type evalStep struct {
	result gs.EvalResult
	values []uint32
}

// runInputs runs g for steps time steps, pressing the button every third step
// and the hotkey every fourth one, and returns every result along with the
// value of every wire at the end of each step.
//
func runInputs(t *testing.T, g *grid.EditGrid, steps int) []evalStep {
	t.Helper()
	c, err := g.StartEval()
	require.NoError(t, err)
	defer g.StopEval()
	var out []evalStep
	for i := 0; i < steps; i++ {
		if i%3 == 0 {
			c.PressButton(geom.C(1, 1), 0, 1)
		}
		if i%4 == 1 {
			c.PressHotkey(gs.KeySpace)
		}
		r := c.StepTime()
		vs := make([]uint32, len(g.Wires()))
		for w := range vs {
			vs[w] = c.WireValue(gs.WireID(w))
		}
		out = append(out, evalStep{r, vs})
	}
	assert.Len(t, c.RecordedInputs(), (steps+2)/3+(steps+2)/4)
	return out
}

func TestDeterministicEval(t *testing.T) {
	const steps = 20
	g := simtest.NewGrid(t, puzzle.SandboxEvent, randomBoard()...)
	require.False(t, g.HasErrors(), "%v", g.Errors())
	before := snap(g)

	first := runInputs(t, g, steps)
	assert.Equal(t, before, snap(g))
	second := runInputs(t, g, steps)
	assert.Equal(t, first, second)
	assert.Equal(t, before, snap(g))

	// the random values do show up on the Latest outputs
	w, ok := g.WireAt(gs.L(3, 1, geom.East))
	require.True(t, ok)
	seen := make(map[uint32]bool)
	for _, s := range first {
		assert.Equal(t, gs.Continue, s.result.Kind)
		seen[s.values[w]] = true
	}
	assert.Greater(t, len(seen), 1)

	// same board, same seed
	g2 := grid.New(puzzle.SandboxEvent, simtest.AllChips(), grid.WithSeed(1))
	simtest.Mutate(t, g2, randomBoard()...)
	assert.Equal(t, first, runInputs(t, g2, steps))

	// another seed draws other values
	g3 := grid.New(puzzle.SandboxEvent, simtest.AllChips(), grid.WithSeed(2))
	simtest.Mutate(t, g3, randomBoard()...)
	assert.NotEqual(t, first, runInputs(t, g3, steps))
}

func TestEvalLeavesBoardUntouched(t *testing.T) {
	g := simtest.NewGrid(t, puzzle.SandboxEvent, randomBoard()...)
	simtest.Mutate(t, g, grid.AddChip{Coords: geom.C(6, 4), Type: chip.NewComment("notes")})
	before := snap(g)
	data := g.ToCircuitData()

	c, err := g.StartEval()
	require.NoError(t, err)
	c.PressButton(geom.C(1, 1), 0, 2)
	c.PressHotkey(gs.KeySpace)
	for i := 0; i < 5; i++ {
		c.StepTime()
	}
	g.StopEval()

	assert.Equal(t, before, snap(g))
	assert.Equal(t, data, g.ToCircuitData())
	assert.False(t, g.Redo())
}
