// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package chip_test

import (
	"math/rand/v2"
	"testing"

	gs "github.com/db47h/gridsim"
	"github.com/db47h/gridsim/chip"
	"github.com/db47h/gridsim/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var at = geom.C(2, 2)

// harness drives every port of a single chip from outside. Inputs are sent at
// the start of each time step; behaviors are read at the end of the time step
// and events at the end of each cycle.
//
type harness struct {
	gs.BasePuzzle
	ports  []gs.PortSpec
	slots  []gs.Slot
	in     map[int]uint32
	out    map[int]uint32
	events map[int]uint32
	cycles map[int]uint32
	counts map[int]int
}

func (p *harness) TaskIsCompleted(*gs.State) bool { return false }

func (p *harness) BeginTimeStep(s *gs.State) {
	for i, v := range p.in {
		if p.ports[i].Color == gs.Event {
			s.SendEvent(p.slots[i].Wire, v)
		} else {
			s.SendBehavior(p.slots[i].Wire, v)
		}
	}
}

func (p *harness) EndCycle(s *gs.State) []gs.EvalError {
	for i, port := range p.ports {
		if port.Flow != gs.Send || port.Color != gs.Event {
			continue
		}
		if v, ok := s.RecvEvent(p.slots[i].Wire); ok {
			p.events[i] = v
			p.cycles[i] = s.Cycle()
			p.counts[i]++
		}
	}
	return nil
}

func (p *harness) EndTimeStep(s *gs.State) []gs.EvalError {
	for i, port := range p.ports {
		if port.Flow == gs.Send && port.Color != gs.Event {
			p.out[i] = s.RecvBehavior(p.slots[i].Wire)
		}
	}
	return nil
}

type bench struct {
	t     *testing.T
	c     *gs.Circuit
	slots []gs.Slot
	*harness
}

// newBench places a chip of type ct at (2,2) and connects each of its ports
// to a terminal port of opposite flow. sizes pins the size of the wires
// attached to the given chip ports.
//
func newBench(t *testing.T, ct chip.ChipType, sizes map[int]gs.WireSize) *bench {
	t.Helper()
	o := geom.Orientation{}
	ports := ct.Ports(at, o)
	all := make(map[gs.Loc]gs.PortSpec)
	frags := make(map[gs.Loc]gs.WireShape)
	terms := make([]gs.PortSpec, len(ports))
	cs := ct.Constraints(at, o)
	for i, p := range ports {
		term := gs.PortSpec{Flow: 1 - p.Flow, Color: p.Color, Loc: p.Loc.Facing()}
		terms[i] = term
		all[p.Loc], all[term.Loc] = p, term
		frags[p.Loc], frags[term.Loc] = gs.Stub, gs.Stub
		if sz, ok := sizes[i]; ok {
			cs = append(cs, gs.Exact(term.Loc, sz))
		}
	}
	a := gs.Analyze(all, frags, cs, ct.Dependencies(at, o))
	require.Empty(t, a.Errors)
	groups := a.Mount([]gs.Placement{{Spec: ct.Spec(), Coords: at, Orient: o}}, rand.New(rand.NewPCG(1, 2)))
	p := &harness{
		ports: ports,
		slots: a.Slots(terms),
	}
	p.reset()
	c := gs.NewCircuit(groups, a.NullWires(), len(a.Wires), p, gs.CircuitOptions{})
	return &bench{t: t, c: c, slots: p.slots, harness: p}
}

func (p *harness) reset() {
	p.out = make(map[int]uint32)
	p.events = make(map[int]uint32)
	p.cycles = make(map[int]uint32)
	p.counts = make(map[int]int)
}

// step runs a full time step with the given inputs and requires it to
// complete.
//
func (b *bench) step(in map[int]uint32) {
	b.t.Helper()
	r := b.run(in)
	require.Equal(b.t, gs.Continue, r.Kind, "%v", r)
}

func (b *bench) run(in map[int]uint32) gs.EvalResult {
	b.reset()
	b.in = in
	return b.c.StepTime()
}

func fx(f float64) uint32 { return geom.FixedFromFloat(f).Encode() }

func TestCombinational(t *testing.T) {
	four := map[int]gs.WireSize{2: gs.Four}
	td := []struct {
		name  string
		ct    chip.ChipType
		sizes map[int]gs.WireSize
		in    map[int]uint32
		out   map[int]uint32
	}{
		{"add", chip.Add.Type(), four, map[int]uint32{0: 9, 1: 8}, map[int]uint32{2: 1}},
		{"sub", chip.Sub.Type(), four, map[int]uint32{0: 3, 1: 8}, map[int]uint32{2: 5}},
		{"mul", chip.Mul.Type(), four, map[int]uint32{0: 3, 1: 6}, map[int]uint32{2: 2}},
		{"mul4", chip.Mul4Bit.Type(), nil, map[int]uint32{0: 7, 1: 9}, map[int]uint32{2: 15, 3: 3}},
		{"halve", chip.Halve.Type(), map[int]gs.WireSize{1: gs.Four}, map[int]uint32{0: 9}, map[int]uint32{1: 4}},
		{"neg", chip.Neg.Type(), map[int]gs.WireSize{1: gs.Four}, map[int]uint32{0: 1}, map[int]uint32{1: 15}},
		{"not", chip.Not.Type(), map[int]gs.WireSize{1: gs.Four}, map[int]uint32{0: 5}, map[int]uint32{1: 10}},
		{"and", chip.And.Type(), four, map[int]uint32{0: 12, 1: 10}, map[int]uint32{2: 8}},
		{"or", chip.Or.Type(), four, map[int]uint32{0: 12, 1: 10}, map[int]uint32{2: 14}},
		{"xor", chip.Xor.Type(), four, map[int]uint32{0: 12, 1: 10}, map[int]uint32{2: 6}},
		{"mux0", chip.Mux.Type(), four, map[int]uint32{0: 3, 1: 5}, map[int]uint32{2: 3}},
		{"mux1", chip.Mux.Type(), four, map[int]uint32{0: 3, 1: 5, 3: 1}, map[int]uint32{2: 5}},
		{"cmp_lt", chip.Cmp.Type(), map[int]gs.WireSize{0: gs.Four}, map[int]uint32{0: 3, 1: 5}, map[int]uint32{2: 1}},
		{"cmp_eq", chip.Cmp.Type(), map[int]gs.WireSize{0: gs.Four}, map[int]uint32{0: 5, 1: 5}, map[int]uint32{2: 0}},
		{"cmpeq_eq", chip.CmpEq.Type(), map[int]gs.WireSize{0: gs.Four}, map[int]uint32{0: 5, 1: 5}, map[int]uint32{2: 1}},
		{"cmpeq_gt", chip.CmpEq.Type(), map[int]gs.WireSize{0: gs.Four}, map[int]uint32{0: 6, 1: 5}, map[int]uint32{2: 0}},
		{"eq", chip.Eq.Type(), map[int]gs.WireSize{0: gs.Four}, map[int]uint32{0: 5, 1: 5}, map[int]uint32{2: 1}},
		{"neq", chip.Eq.Type(), map[int]gs.WireSize{0: gs.Four}, map[int]uint32{0: 3, 1: 5}, map[int]uint32{2: 0}},
		{"pack", chip.Pack.Type(), map[int]gs.WireSize{0: gs.Four}, map[int]uint32{0: 3, 1: 0xa}, map[int]uint32{2: 0xa3}},
		{"unpack", chip.Unpack.Type(), map[int]gs.WireSize{1: gs.Four}, map[int]uint32{0: 0xa3}, map[int]uint32{1: 3, 2: 0xa}},
		{"const", chip.NewConst(12), nil, nil, map[int]uint32{0: 12}},
		{"coerce", chip.NewCoerce(gs.Two), nil, map[int]uint32{0: 3}, map[int]uint32{1: 3}},
		{"aadd", chip.AAdd.Type(), nil, map[int]uint32{0: fx(0.25), 1: fx(0.5)}, map[int]uint32{2: fx(0.75)}},
		{"amul", chip.AMul.Type(), nil, map[int]uint32{0: fx(0.5), 1: fx(0.5)}, map[int]uint32{2: fx(0.25)}},
		{"aadd_sat", chip.AAdd.Type(), nil, map[int]uint32{0: fx(0.75), 1: fx(0.5)}, map[int]uint32{2: fx(1)}},
		{"relay", chip.Relay.Type(), nil, map[int]uint32{0: fx(0.25), 1: fx(-0.5), 3: 1}, map[int]uint32{2: fx(-0.5)}},
	}
	for _, d := range td {
		t.Run(d.name, func(t *testing.T) {
			b := newBench(t, d.ct, d.sizes)
			b.step(d.in)
			assert.Equal(t, d.out, b.out)
			assert.Equal(t, uint32(1), b.c.TotalCycles())
		})
	}
}

func TestEventChips(t *testing.T) {
	type ev map[int]uint32
	td := []struct {
		name   string
		ct     chip.ChipType
		sizes  map[int]gs.WireSize
		in     map[int]uint32
		events ev
	}{
		{"discard", chip.Discard.Type(), map[int]gs.WireSize{0: gs.Four}, ev{0: 5}, ev{1: 0}},
		{"discard_none", chip.Discard.Type(), map[int]gs.WireSize{0: gs.Four}, nil, ev{}},
		{"sample", chip.Sample.Type(), map[int]gs.WireSize{1: gs.Four}, ev{0: 0, 1: 9}, ev{2: 9}},
		{"sample_none", chip.Sample.Type(), map[int]gs.WireSize{1: gs.Four}, ev{1: 9}, ev{}},
		{"join_both", chip.Join.Type(), map[int]gs.WireSize{0: gs.Four}, ev{0: 1, 1: 2}, ev{2: 1}},
		{"join_second", chip.Join.Type(), map[int]gs.WireSize{0: gs.Four}, ev{1: 2}, ev{2: 2}},
		{"inc", chip.Inc.Type(), map[int]gs.WireSize{0: gs.Four}, ev{0: 14, 1: 3}, ev{2: 1}},
		{"demux1", chip.Demux.Type(), map[int]gs.WireSize{0: gs.Four}, ev{0: 7, 3: 1}, ev{1: 7}},
		{"demux0", chip.Demux.Type(), map[int]gs.WireSize{0: gs.Four}, ev{0: 7}, ev{2: 7}},
		{"filter_pass", chip.Filter.Type(), map[int]gs.WireSize{0: gs.Four}, ev{0: 7}, ev{1: 7}},
		{"filter_drop", chip.Filter.Type(), map[int]gs.WireSize{0: gs.Four}, ev{0: 7, 2: 1}, ev{}},
		{"acmp_lt", chip.ACmp.Type(), nil, ev{0: fx(-0.5), 1: fx(0.25), 2: 0}, ev{3: 1}},
		{"acmp_ge", chip.ACmp.Type(), nil, ev{0: fx(0.5), 1: fx(0.25), 2: 0}, ev{3: 0}},
		{"acmp_none", chip.ACmp.Type(), nil, ev{0: fx(-0.5), 1: fx(0.25)}, ev{}},
	}
	for _, d := range td {
		t.Run(d.name, func(t *testing.T) {
			b := newBench(t, d.ct, d.sizes)
			b.step(d.in)
			assert.Equal(t, map[int]uint32(d.events), b.events)
		})
	}
}

func TestLatest(t *testing.T) {
	b := newBench(t, chip.Latest.Type(), map[int]gs.WireSize{0: gs.Four})
	b.step(map[int]uint32{0: 6})
	assert.Equal(t, uint32(6), b.out[1])
	b.step(nil)
	assert.Equal(t, uint32(6), b.out[1])
	b.step(map[int]uint32{0: 0})
	assert.Equal(t, uint32(0), b.out[1])
}

func TestRandom(t *testing.T) {
	b := newBench(t, chip.Random.Type(), map[int]gs.WireSize{1: gs.Eight})
	for i := 0; i < 20; i++ {
		b.step(map[int]uint32{0: 0})
		require.Contains(t, b.events, 1)
		assert.LessOrEqual(t, b.events[1], uint32(0xff))
	}
	b.step(nil)
	assert.Empty(t, b.events)
}

func TestDelay(t *testing.T) {
	b := newBench(t, chip.Delay.Type(), map[int]gs.WireSize{0: gs.Four})
	b.step(map[int]uint32{0: 5})
	assert.Equal(t, uint32(5), b.events[1])
	assert.Equal(t, uint32(1), b.cycles[1])
	assert.Equal(t, uint32(2), b.c.TotalCycles())
	b.step(nil)
	assert.Empty(t, b.events)
	assert.Equal(t, uint32(3), b.c.TotalCycles())
}

func TestClock(t *testing.T) {
	b := newBench(t, chip.Clock.Type(), nil)
	b.step(map[int]uint32{0: 0})
	assert.Empty(t, b.events)
	b.step(nil)
	assert.Equal(t, map[int]uint32{1: 0}, b.events)
	assert.Equal(t, uint32(0), b.cycles[1])
	b.step(nil)
	assert.Empty(t, b.events)
}

func TestEggTimer(t *testing.T) {
	b := newBench(t, chip.EggTimer.Type(), map[int]gs.WireSize{0: gs.Four})
	b.step(map[int]uint32{0: 2})
	assert.Equal(t, uint32(2), b.out[1])
	assert.Empty(t, b.events)
	b.step(nil)
	assert.Equal(t, uint32(1), b.out[1])
	assert.Empty(t, b.events)
	b.step(nil)
	assert.Equal(t, uint32(0), b.out[1])
	assert.Equal(t, map[int]uint32{2: 0}, b.events)
	b.step(nil)
	assert.Empty(t, b.events)

	// setting to zero rings right away
	b.step(map[int]uint32{0: 0})
	assert.Equal(t, map[int]uint32{2: 0}, b.events)
}

func TestStopwatch(t *testing.T) {
	b := newBench(t, chip.Stopwatch.Type(), map[int]gs.WireSize{3: gs.Four})
	var got []uint32
	for _, in := range []map[int]uint32{{0: 0}, nil, {1: 0}, nil, {2: 0}} {
		b.step(in)
		got = append(got, b.out[3])
	}
	assert.Equal(t, []uint32{0, 1, 2, 2, 0}, got)
}

func TestLatch(t *testing.T) {
	b := newBench(t, chip.Latch.Type(), nil)
	var got []uint32
	for _, in := range []map[int]uint32{{0: 0}, nil, {1: 0}, {0: 0, 1: 0}, {0: 0, 1: 0}} {
		b.step(in)
		got = append(got, b.out[2])
	}
	assert.Equal(t, []uint32{1, 1, 0, 1, 0}, got)
}

func TestCounter(t *testing.T) {
	b := newBench(t, chip.Counter.Type(), map[int]gs.WireSize{0: gs.Four})
	var got []uint32
	for _, in := range []map[int]uint32{{0: 14}, {1: 0}, {1: 0}, {2: 0}, nil} {
		b.step(in)
		got = append(got, b.out[3])
	}
	assert.Equal(t, []uint32{14, 15, 0, 15, 15}, got)
}

func TestRam(t *testing.T) {
	b := newBench(t, chip.Ram.Type(), map[int]gs.WireSize{0: gs.Four, 1: gs.Eight})
	b.step(map[int]uint32{0: 3, 1: 42, 3: 3})
	assert.Equal(t, map[int]uint32{2: 42, 5: 42}, b.out)
	b.step(map[int]uint32{3: 4, 4: 7})
	assert.Equal(t, map[int]uint32{2: 42, 5: 7}, b.out)
	b.step(map[int]uint32{0: 4})
	assert.Equal(t, map[int]uint32{2: 7, 5: 7}, b.out)
}

func TestStackQueue(t *testing.T) {
	td := []struct {
		k    chip.Kind
		pops []uint32
	}{
		{chip.Stack, []uint32{2, 1}},
		{chip.Queue, []uint32{1, 2}},
	}
	for _, d := range td {
		t.Run(d.k.String(), func(t *testing.T) {
			b := newBench(t, d.k.Type(), map[int]gs.WireSize{0: gs.Four})
			b.step(map[int]uint32{0: 1})
			assert.Equal(t, uint32(1), b.out[1])
			b.step(map[int]uint32{0: 2})
			assert.Equal(t, uint32(2), b.out[1])
			for i, v := range d.pops {
				b.step(map[int]uint32{2: 0})
				assert.Equal(t, map[int]uint32{3: v}, b.events)
				assert.Equal(t, uint32(len(d.pops)-i-1), b.out[1])
			}
			// popping an empty stack does nothing
			b.step(map[int]uint32{2: 0})
			assert.Empty(t, b.events)
		})
	}
}

func TestStackFull(t *testing.T) {
	b := newBench(t, chip.Stack.Type(), map[int]gs.WireSize{0: gs.Four})
	for i := 0; i < 0x100; i++ {
		b.step(map[int]uint32{0: uint32(i) & 0xf})
	}
	assert.Equal(t, uint32(0xff), b.out[1])
	// push and pop at once on a full stack
	b.step(map[int]uint32{0: 9, 2: 0})
	assert.Equal(t, uint32(0xff), b.out[1])
	assert.Equal(t, map[int]uint32{3: 9}, b.events)
}

func TestIntegrate(t *testing.T) {
	b := newBench(t, chip.Integrate.Type(), nil)
	b.step(map[int]uint32{0: fx(1), 1: 0, 2: fx(0.25)})
	assert.Equal(t, geom.NewFixed(999000000), geom.DecodeFixed(b.out[3]))
	assert.Equal(t, uint32(750), b.c.TotalCycles())
	b.step(nil)
	assert.Equal(t, geom.FixedOne, geom.DecodeFixed(b.out[3]))
	assert.Equal(t, uint32(751), b.c.TotalCycles())
	// zero input settles in a single cycle
	b.step(map[int]uint32{0: fx(0)})
	assert.Equal(t, geom.FixedOne, geom.DecodeFixed(b.out[3]))
	assert.Equal(t, uint32(752), b.c.TotalCycles())
}

func TestDisplay(t *testing.T) {
	b := newBench(t, chip.Display.Type(), map[int]gs.WireSize{0: gs.Sixteen})
	b.step(map[int]uint32{0: 0xab})
	assert.Equal(t, []byte{0, 0, 0, 0xab}, b.c.DisplayData(at))
	assert.Nil(t, b.c.DisplayData(geom.C(0, 0)))
}

func TestToggle(t *testing.T) {
	b := newBench(t, chip.NewToggle(false), nil)
	b.step(nil)
	assert.Equal(t, uint32(0), b.out[0])
	b.c.PressButton(at, 0, 1)
	b.step(nil)
	assert.Equal(t, uint32(1), b.out[0])
	b.c.PressButton(at, 0, 2)
	b.step(nil)
	assert.Equal(t, uint32(1), b.out[0])
	assert.Equal(t, []gs.InputRecord{
		{TimeStep: 1, Coords: at, Count: 1},
		{TimeStep: 2, Coords: at, Count: 2},
	}, b.c.RecordedInputs())
}

func TestButton(t *testing.T) {
	b := newBench(t, chip.NewButton(), nil)
	b.step(nil)
	assert.Empty(t, b.events)
	b.c.PressButton(at, 0, 2)
	b.step(nil)
	assert.Equal(t, 2, b.counts[0])
	assert.Equal(t, uint32(1), b.cycles[0])
	assert.Equal(t, uint32(3), b.c.TotalCycles())
	assert.Len(t, b.c.RecordedInputs(), 2)

	// hotkeys are ignored by buttons without one
	b.c.PressHotkey(gs.KeyA)
	b.step(nil)
	assert.Empty(t, b.events)
}

func TestHotkeyButton(t *testing.T) {
	b := newBench(t, chip.NewHotkeyButton(gs.KeyA), nil)
	b.c.PressHotkey(gs.KeyB)
	b.step(nil)
	assert.Empty(t, b.events)
	b.c.PressHotkey(gs.KeyA)
	b.step(nil)
	assert.Equal(t, 1, b.counts[0])
	assert.Equal(t, []gs.InputRecord{{TimeStep: 1, Coords: at, Count: 1}}, b.c.RecordedInputs())
}

func TestBreak(t *testing.T) {
	b := newBench(t, chip.NewBreak(true), map[int]gs.WireSize{0: gs.Four})
	assert.Equal(t, []byte{1}, b.c.DisplayData(at))
	r := b.run(map[int]uint32{0: 7})
	assert.Equal(t, gs.EvalResult{Kind: gs.Breakpoint, Breakpoints: []geom.Coords{at}}, r)
	r = b.c.StepTime()
	assert.Equal(t, gs.Continue, r.Kind)
	assert.Equal(t, map[int]uint32{1: 7}, b.events)

	// no event, no break
	b.step(nil)

	b.c.PressButton(at, 0, 1)
	assert.Equal(t, []byte{0}, b.c.DisplayData(at))
	b.step(map[int]uint32{0: 3})
	assert.Equal(t, map[int]uint32{1: 3}, b.events)
}

func TestScreen(t *testing.T) {
	b := newBench(t, chip.Screen.Type(), nil)
	b.step(map[int]uint32{0: 5, 1: 0x42, 3: 5, 6: 6})
	assert.Equal(t, uint32(0x42), b.out[2])
	assert.Equal(t, uint32(0x42), b.out[5])
	assert.Equal(t, uint32(0), b.out[8])
	data := b.c.DisplayData(at)
	require.Len(t, data, 256)
	assert.Equal(t, byte(0x42), data[5])

	b.step(map[int]uint32{7: 0x17})
	assert.Equal(t, uint32(0x17), b.out[8])
	assert.Empty(t, b.events)

	b.c.PressButton(at, 9, 1)
	b.step(nil)
	assert.Equal(t, map[int]uint32{9: 9}, b.events)
	assert.Equal(t, []gs.InputRecord{{TimeStep: 2, Coords: at, Sublocation: 9, Count: 1}}, b.c.RecordedInputs())
}

func TestComment(t *testing.T) {
	b := newBench(t, chip.NewComment("note"), nil)
	b.step(nil)
	assert.Empty(t, b.out)
}
