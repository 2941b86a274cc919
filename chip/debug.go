// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package chip

import (
	"encoding/binary"

	"github.com/db47h/gridsim"
	"github.com/db47h/gridsim/geom"
)

// Display shows the value of the wire connected to it. Its display data is
// the 4 byte big endian value sampled at the end of the last cycle.
//
//	Inputs: in (0,0 S)
//
var display = &gridsim.ChipSpec{
	Name:  "Display",
	Size:  geom.Size{W: 2, H: 1},
	Ports: []gridsim.PortSpec{recv(bhv, 0, 0, geom.South)},
	Mount: func(s *gridsim.Socket) []gridsim.Mounted {
		return one(0, &displayEval{coords: s.Coords(), in: s.Wire(0)})
	},
}

type displayEval struct {
	coords geom.Coords
	in     gridsim.WireID
	data   [4]byte
}

func (d *displayEval) Eval(*gridsim.State) {}

// NeedsAnotherCycle samples the input once every evaluator of the cycle has
// run.
//
func (d *displayEval) NeedsAnotherCycle(st *gridsim.State) bool {
	binary.BigEndian.PutUint32(d.data[:], st.RecvBehavior(d.in))
	return false
}

func (d *displayEval) Coords() geom.Coords { return d.coords }

func (d *displayEval) DisplayData() []byte { return d.data[:] }

// Comment chips have no ports and do nothing.
//
var comment = &gridsim.ChipSpec{
	Name: "Comment",
	Size: unit,
	Mount: func(*gridsim.Socket) []gridsim.Mounted {
		return nil
	},
}

// toggleSpec returns the spec of a toggle switch in initial state on. Clicking
// the switch during evaluation flips it.
//
//	Outputs: out (E, 1 bit)
//
func toggleSpec(on bool) *gridsim.ChipSpec {
	return &gridsim.ChipSpec{
		Name:        "Toggle",
		Size:        unit,
		Ports:       []gridsim.PortSpec{send(bhv, 0, 0, geom.East)},
		Constraints: []gridsim.ChipConstraint{gridsim.ExactSize(0, gridsim.One)},
		Mount: func(s *gridsim.Socket) []gridsim.Mounted {
			return one(0, &toggleEval{coords: s.Coords(), out: s.Wire(0), on: on})
		},
	}
}

type toggleEval struct {
	coords  geom.Coords
	out     gridsim.WireID
	on      bool
	toggles uint32
}

func (t *toggleEval) Eval(st *gridsim.State) {
	if t.toggles > 0 {
		st.RecordInput(t.coords, 0, t.toggles)
		t.toggles = 0
	}
	var v uint32
	if t.on {
		v = 1
	}
	st.SendBehavior(t.out, v)
}

func (t *toggleEval) Coords() geom.Coords { return t.coords }

func (t *toggleEval) OnPress(_, count uint32) {
	if count%2 != 0 {
		t.on = !t.on
	}
	t.toggles = satAdd(t.toggles, count)
}

// breakSpec returns the spec of a breakpoint chip. Events pass through
// unchanged and trigger a breakpoint when the chip is enabled. Clicking the
// chip during evaluation enables or disables it.
//
//	Inputs: in (W)
//	Outputs: out (E)
//
func breakSpec(enabled bool) *gridsim.ChipSpec {
	return &gridsim.ChipSpec{
		Name: "Break",
		Size: unit,
		Ports: []gridsim.PortSpec{
			recv(evt, 0, 0, geom.West),
			send(evt, 0, 0, geom.East),
		},
		Constraints:  []gridsim.ChipConstraint{gridsim.SameSize(0, 1)},
		Dependencies: [][2]int{{0, 1}},
		Mount: func(s *gridsim.Socket) []gridsim.Mounted {
			return one(1, &breakEval{coords: s.Coords(), in: s.Wire(0), out: s.Wire(1), enabled: enabled})
		},
	}
}

type breakEval struct {
	coords  geom.Coords
	in, out gridsim.WireID
	enabled bool
}

func (b *breakEval) Eval(st *gridsim.State) {
	if v, ok := st.RecvEvent(b.in); ok {
		st.SendEvent(b.out, v)
		if b.enabled {
			st.Breakpoint(b.coords)
		}
	}
}

func (b *breakEval) Coords() geom.Coords { return b.coords }

func (b *breakEval) DisplayData() []byte {
	if b.enabled {
		return []byte{1}
	}
	return []byte{0}
}

func (b *breakEval) OnPress(_, count uint32) {
	if count%2 != 0 {
		b.enabled = !b.enabled
	}
}

// buttonSpec returns the spec of a push button, optionally bound to a
// hotkey. Each press, by click or hotkey, fires one event in its own cycle.
//
//	Outputs: out (E, 0 bit)
//
func buttonSpec(hotkey *gridsim.HotkeyCode) *gridsim.ChipSpec {
	return &gridsim.ChipSpec{
		Name:        "Button",
		Size:        unit,
		Ports:       []gridsim.PortSpec{send(evt, 0, 0, geom.East)},
		Constraints: []gridsim.ChipConstraint{gridsim.ExactSize(0, gridsim.Zero)},
		Mount: func(s *gridsim.Socket) []gridsim.Mounted {
			return one(0, &buttonEval{coords: s.Coords(), out: s.Wire(0), hotkey: hotkey})
		},
	}
}

type buttonEval struct {
	coords  geom.Coords
	out     gridsim.WireID
	hotkey  *gridsim.HotkeyCode
	presses uint32
}

func (b *buttonEval) Eval(st *gridsim.State) {
	if b.hotkey != nil {
		b.presses = satAdd(b.presses, st.PopHotkeyPresses(*b.hotkey))
	}
	if b.presses > 0 {
		b.presses--
		st.SendEvent(b.out, 0)
		st.RecordInput(b.coords, 0, 1)
	}
}

func (b *buttonEval) NeedsAnotherCycle(*gridsim.State) bool { return b.presses > 0 }

func (b *buttonEval) Coords() geom.Coords { return b.coords }

func (b *buttonEval) OnPress(_, count uint32) { b.presses = satAdd(b.presses, count) }

func satAdd(a, b uint32) uint32 {
	if s := a + b; s >= a {
		return s
	}
	return ^uint32(0)
}
