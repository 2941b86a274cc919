// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package gridsim_test

import (
	"math/rand/v2"
	"testing"
	"testing/quick"

	gs "github.com/db47h/gridsim"
	"github.com/db47h/gridsim/geom"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func trace(t *testing.T, err error) {
	t.Helper()
	if err, ok := err.(interface {
		StackTrace() errors.StackTrace
	}); ok {
		for _, f := range err.StackTrace() {
			t.Logf("%+v ", f)
		}
	}
}

func port(flow gs.PortFlow, color gs.PortColor, l gs.Loc) gs.PortSpec {
	return gs.PortSpec{Flow: flow, Color: color, Loc: l, MaxSize: gs.Sixteen}
}

func portMap(ps ...gs.PortSpec) map[gs.Loc]gs.PortSpec {
	m := make(map[gs.Loc]gs.PortSpec)
	for _, p := range ps {
		m[p.Loc] = p
	}
	return m
}

func fragments(t *testing.T, desc string) map[gs.Loc]gs.WireShape {
	t.Helper()
	m, err := gs.ParseFragments(desc)
	if err != nil {
		trace(t, err)
		t.Fatal(err)
	}
	return m
}

func TestGroupNoWires(t *testing.T) {
	wires := gs.GroupWires(nil, nil)
	assert.Empty(t, wires)
	assert.Empty(t, gs.ColorWires(wires))
	a := gs.Analyze(nil, nil, nil, nil)
	assert.Empty(t, a.Wires)
	assert.Empty(t, a.Errors)
	assert.Empty(t, a.Groups)
}

func TestGroupMultipleWires(t *testing.T) {
	ports := portMap(
		port(gs.Send, gs.Event, gs.L(0, 0, geom.East)),
		port(gs.Recv, gs.Behavior, gs.L(2, 1, geom.West)),
	)
	frags := fragments(t, "0,0 e Stub; 1,0 w TurnRight; 1,0 s TurnLeft; 1,1 n Stub; 1,1 e Stub; 2,1 w Stub")
	wires := gs.GroupWires(ports, frags)
	require.Len(t, wires, 2)
	// the wire holding (0,0):e sorts first.
	assert.Len(t, wires[0].Fragments, 4)
	assert.Len(t, wires[1].Fragments, 2)
	assert.Empty(t, gs.ColorWires(wires))
	assert.Equal(t, gs.EventWire, wires[0].Color)
	assert.Equal(t, gs.BehaviorWire, wires[1].Color)
}

func TestGroupShapes(t *testing.T) {
	data := []struct {
		name  string
		frags string
		wires int
	}{
		{"cross", "1,1 e Cross; 1,1 s Cross; 1,1 w Cross; 1,1 n Cross; 2,1 w Stub; 0,1 e Stub; 1,2 n Stub; 1,0 s Stub", 2},
		{"split four", "1,1 e SplitFour; 1,1 s SplitFour; 1,1 w SplitFour; 1,1 n SplitFour; 2,1 w Stub; 0,1 e Stub; 1,2 n Stub; 1,0 s Stub", 1},
		{"tee", "1,1 n SplitTee; 1,1 e SplitRight; 1,1 w SplitLeft; 1,0 s Stub; 2,1 w Stub; 0,1 e Stub", 1},
		{"stubs", "0,0 e Stub; 1,0 w Stub; 1,0 e Stub; 2,0 w Stub", 2},
		{"straight", "0,0 e Stub; 1,0 w Straight; 1,0 e Straight; 2,0 w Stub", 1},
	}
	for _, d := range data {
		t.Run(d.name, func(t *testing.T) {
			wires := gs.GroupWires(nil, fragments(t, d.frags))
			assert.Len(t, wires, d.wires)
		})
	}
}

func TestGroupIsDeterministic(t *testing.T) {
	frags := fragments(t, "0,0 e Stub; 1,0 w TurnRight; 1,0 s TurnLeft; 1,1 n Stub; 1,1 e Stub; 2,1 w Stub; 5,5 s Stub; 5,6 n Stub")
	ports := portMap(port(gs.Recv, gs.Event, gs.L(9, 9, geom.North)), port(gs.Send, gs.Event, gs.L(0, 0, geom.East)))
	ref := gs.GroupWires(ports, frags)
	for i := 0; i < 20; i++ {
		// rebuilding the maps reshuffles their iteration order.
		f2 := make(map[gs.Loc]gs.WireShape)
		for k, v := range frags {
			f2[k] = v
		}
		assert.Equal(t, ref, gs.GroupWires(portMap(ports[gs.L(9, 9, geom.North)], ports[gs.L(0, 0, geom.East)]), f2))
	}
	require.Len(t, ref, 4)
	assert.True(t, ref[3].IsNull())
}

func TestColorWires(t *testing.T) {
	l1, l2 := gs.L(0, 0, geom.East), gs.L(1, 0, geom.West)
	frags := fragments(t, "0,0 e Stub; 1,0 w Stub")
	data := []struct {
		name  string
		ports map[gs.Loc]gs.PortSpec
		color gs.WireColor
		size  gs.SizeInterval
		errs  []gs.WireErrorKind
	}{
		{"behavior", portMap(port(gs.Send, gs.Behavior, l1), port(gs.Recv, gs.Behavior, l2)),
			gs.BehaviorWire, gs.AtLeast(gs.One), nil},
		{"event", portMap(port(gs.Send, gs.Event, l1), port(gs.Recv, gs.Event, l2)),
			gs.EventWire, gs.FullInterval(), nil},
		{"analog", portMap(port(gs.Send, gs.AnalogColor, l1), port(gs.Recv, gs.AnalogColor, l2)),
			gs.AnalogWire, gs.Exactly(gs.Analog), nil},
		{"mismatch", portMap(port(gs.Send, gs.AnalogColor, l1), port(gs.Recv, gs.Behavior, l2)),
			gs.Ambiguous, gs.AtLeast(gs.One), []gs.WireErrorKind{gs.PortColorMismatch}},
		{"senders", portMap(port(gs.Send, gs.Event, l1), port(gs.Send, gs.Event, l2)),
			gs.EventWire, gs.FullInterval(), []gs.WireErrorKind{gs.MultipleSenders}},
		{"none", nil, gs.Unknown, gs.EmptyInterval(), nil},
	}
	for _, d := range data {
		t.Run(d.name, func(t *testing.T) {
			wires := gs.GroupWires(d.ports, frags)
			require.Len(t, wires, 1)
			errs := gs.ColorWires(wires)
			var kinds []gs.WireErrorKind
			for _, e := range errs {
				kinds = append(kinds, e.Kind)
			}
			assert.Equal(t, d.errs, kinds)
			assert.Equal(t, d.color, wires[0].Color)
			assert.True(t, d.size.Equal(wires[0].Size), "size %v", wires[0].Size)
			assert.Equal(t, len(d.errs) > 0, wires[0].HasError)
		})
	}
}

// singleWire returns an event wire joining a sender at (0,0):e to a receiver
// at (1,0):w.
//
func singleWire(t *testing.T) (map[gs.Loc]gs.PortSpec, map[gs.Loc]gs.WireShape) {
	return portMap(
			port(gs.Send, gs.Event, gs.L(0, 0, geom.East)),
			port(gs.Recv, gs.Event, gs.L(1, 0, geom.West))),
		fragments(t, "0,0 e Stub; 1,0 w Stub")
}

func TestSizesMeet(t *testing.T) {
	ports, frags := singleWire(t)
	a := gs.Analyze(ports, frags, []gs.PortConstraint{
		gs.Exact(gs.L(0, 0, geom.East), gs.Four),
		gs.Exact(gs.L(1, 0, geom.West), gs.Four),
	}, nil)
	assert.Empty(t, a.Errors)
	require.Len(t, a.Wires, 1)
	assert.Equal(t, gs.Exactly(gs.Four), a.Wires[0].Size)
	assert.Equal(t, [][]gs.WireID{{0}}, a.Groups)
}

func TestSizesConflict(t *testing.T) {
	ports, frags := singleWire(t)
	a := gs.Analyze(ports, frags, []gs.PortConstraint{
		gs.Exact(gs.L(0, 0, geom.East), gs.Four),
		gs.Exact(gs.L(1, 0, geom.West), gs.Eight),
	}, nil)
	require.Equal(t, []gs.WireError{{Kind: gs.NoValidSize, Wires: []gs.WireID{0}}}, a.Errors)
	assert.Equal(t, "Wire 0 has a size mismatch", a.Errors[0].Error())
	assert.True(t, a.Wires[0].Size.IsEmpty())
	assert.Nil(t, a.Groups)
}

// packCircuit wires two 2-port behavior sources into a pack chip at (5,0)
// whose output feeds a sink.
//
func packCircuit(t *testing.T) (map[gs.Loc]gs.PortSpec, map[gs.Loc]gs.WireShape, []gs.PortConstraint, []gs.PortDependency) {
	lo, hi, out := gs.L(5, 0, geom.West), gs.L(5, 0, geom.South), gs.L(5, 0, geom.East)
	ports := portMap(
		port(gs.Send, gs.Behavior, gs.L(4, 0, geom.East)),
		port(gs.Send, gs.Behavior, gs.L(5, 1, geom.North)),
		port(gs.Recv, gs.Behavior, lo),
		port(gs.Recv, gs.Behavior, hi),
		port(gs.Send, gs.Behavior, out),
		port(gs.Recv, gs.Behavior, gs.L(6, 0, geom.West)),
	)
	frags := fragments(t, "4,0 e Stub; 5,0 w Stub; 5,0 s Stub; 5,1 n Stub; 5,0 e Stub; 6,0 w Stub")
	cs := []gs.PortConstraint{
		gs.Exact(gs.L(4, 0, geom.East), gs.Two),
		gs.Equal(lo, hi),
		gs.Double(out, lo),
	}
	deps := []gs.PortDependency{{Recv: lo, Send: out}, {Recv: hi, Send: out}}
	return ports, frags, cs, deps
}

func TestSizesPackDoubling(t *testing.T) {
	ports, frags, cs, deps := packCircuit(t)
	a := gs.Analyze(ports, frags, cs, deps)
	require.Empty(t, a.Errors)
	for l, want := range map[gs.Loc]gs.WireSize{
		gs.L(5, 0, geom.West):  gs.Two,
		gs.L(5, 0, geom.South): gs.Two,
		gs.L(5, 0, geom.East):  gs.Four,
	} {
		assert.Equal(t, gs.Exactly(want), a.Wires[a.PortWires[l]].Size, l.String())
	}
	gi := a.GroupIndex()
	assert.Less(t, gi[a.PortWires[gs.L(5, 0, geom.West)]], gi[a.PortWires[gs.L(5, 0, geom.East)]])
}

func TestSizesConfluent(t *testing.T) {
	ports, frags, cs, deps := packCircuit(t)
	cs = append(cs, gs.MaxSize(gs.L(6, 0, geom.West), gs.Eight), gs.MinSize(gs.L(5, 0, geom.East), gs.Two))
	ref := gs.Analyze(ports, frags, cs, deps)
	f := func(seed uint64) bool {
		c2 := append([]gs.PortConstraint(nil), cs...)
		r := rand.New(rand.NewPCG(seed, seed))
		r.Shuffle(len(c2), func(i, j int) { c2[i], c2[j] = c2[j], c2[i] })
		a := gs.Analyze(ports, frags, c2, deps)
		for i := range a.Wires {
			if !a.Wires[i].Size.Equal(ref.Wires[i].Size) {
				return false
			}
		}
		return true
	}
	if err := quick.Check(f, nil); err != nil {
		t.Error(err)
	}
}

func TestSizesDoubleSameWire(t *testing.T) {
	ports, frags := singleWire(t)
	a := gs.Analyze(ports, frags, []gs.PortConstraint{
		gs.Double(gs.L(0, 0, geom.East), gs.L(1, 0, geom.West)),
	}, nil)
	assert.True(t, a.Wires[0].Size.IsEmpty())
	assert.Equal(t, []gs.WireError{{Kind: gs.NoValidSize, Wires: []gs.WireID{0}}}, a.Errors)
}

func TestAnalogMismatch(t *testing.T) {
	ports := portMap(
		port(gs.Send, gs.AnalogColor, gs.L(0, 0, geom.East)),
		port(gs.Recv, gs.Behavior, gs.L(1, 0, geom.West)))
	a := gs.Analyze(ports, fragments(t, "0,0 e Stub; 1,0 w Stub"), []gs.PortConstraint{
		gs.Exact(gs.L(0, 0, geom.East), gs.Analog),
	}, nil)
	require.NotEmpty(t, a.Errors)
	assert.Equal(t, gs.PortColorMismatch, a.Errors[0].Kind)
	assert.Equal(t, gs.Ambiguous, a.Wires[0].Color)
}

func TestUnbrokenLoop(t *testing.T) {
	// a chip at (1,0) whose output (1,0):e loops back to its input (1,0):w
	// through a U-turn below.
	in, out := gs.L(1, 0, geom.West), gs.L(1, 0, geom.East)
	ports := portMap(port(gs.Recv, gs.Behavior, in), port(gs.Send, gs.Behavior, out))
	frags := fragments(t, "1,0 w Stub; 0,0 e TurnLeft; 0,0 s TurnRight; 0,1 n TurnLeft; 0,1 e TurnRight;"+
		"1,1 w Straight; 1,1 e Straight; 2,1 w TurnLeft; 2,1 n TurnRight; 2,0 s TurnLeft; 2,0 w TurnRight; 1,0 e Stub")
	deps := []gs.PortDependency{{Recv: in, Send: out}}
	a := gs.Analyze(ports, frags, nil, deps)
	require.Len(t, a.Wires, 1)
	require.Len(t, a.Errors, 1)
	assert.Equal(t, gs.UnbrokenLoop, a.Errors[0].Kind)
	assert.Equal(t, []gs.WireID{0}, a.Errors[0].Wires)
	assert.Equal(t, "Wires [0] form a loop", a.Errors[0].Error())

	// without the dependency the loop is broken.
	a = gs.Analyze(ports, frags, nil, nil)
	assert.Empty(t, a.Errors)
}

func TestTwoWireLoop(t *testing.T) {
	// two chips feeding each other.
	a1, b1 := gs.L(0, 0, geom.West), gs.L(0, 0, geom.East)
	a2, b2 := gs.L(1, 0, geom.West), gs.L(1, 0, geom.East)
	ports := portMap(port(gs.Recv, gs.Event, a1), port(gs.Send, gs.Event, b1),
		port(gs.Recv, gs.Event, a2), port(gs.Send, gs.Event, b2))
	wires := []*gs.Wire{
		{Ports: portMap(ports[b1], ports[a2]), Color: gs.EventWire},
		{Ports: portMap(ports[b2], ports[a1]), Color: gs.EventWire},
	}
	groups, errs := gs.DetectLoops(wires, gs.MapPortsToWires(wires),
		[]gs.PortDependency{{Recv: a1, Send: b1}, {Recv: a2, Send: b2}})
	assert.Nil(t, groups)
	require.Len(t, errs, 1)
	assert.Equal(t, []gs.WireID{0, 1}, errs[0].Wires)
	assert.True(t, errs[0].HasEvents)
}
