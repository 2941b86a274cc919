// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package chip

import (
	"github.com/db47h/gridsim"
	"github.com/db47h/gridsim/geom"
)

var constPorts = []gridsim.PortSpec{send(bhv, 0, 0, geom.East)}

// constSpec returns the spec of a Const chip outputting v. The output wire
// must be wide enough for v.
//
//	Outputs: out (E)
//	Function: out = v
//
func constSpec(v uint32) *gridsim.ChipSpec {
	var cs []gridsim.ChipConstraint
	if sz := gridsim.MinSizeForValue(v); sz > gridsim.One {
		cs = []gridsim.ChipConstraint{gridsim.AtLeastSize(0, sz)}
	}
	return &gridsim.ChipSpec{
		Name:        "Const",
		Size:        unit,
		Ports:       constPorts,
		Constraints: cs,
		Mount: func(s *gridsim.Socket) []gridsim.Mounted {
			out := s.Wire(0)
			return one(0, gridsim.EvalFunc(func(st *gridsim.State) {
				st.SendBehavior(out, v)
			}))
		},
	}
}

// coerceSpec returns the spec of a Coerce chip. Both ports have size sz. It
// is used to pin the size of otherwise ambiguous wires.
//
//	Inputs: in (W)
//	Outputs: out (E)
//	Function: out = in
//
func coerceSpec(sz gridsim.WireSize) *gridsim.ChipSpec {
	return &gridsim.ChipSpec{
		Name: "Coerce",
		Size: unit,
		Ports: []gridsim.PortSpec{
			recv(bhv, 0, 0, geom.West),
			send(bhv, 0, 0, geom.East),
		},
		Constraints:  allExact(sz, 0, 1),
		Dependencies: [][2]int{{0, 1}},
		Mount:        mountCopy,
	}
}

func mountCopy(s *gridsim.Socket) []gridsim.Mounted {
	in, out := s.Wire(0), s.Wire(1)
	return one(1, gridsim.EvalFunc(func(st *gridsim.State) {
		st.SendBehavior(out, st.RecvBehavior(in))
	}))
}

// Pack concatenates two behaviors into one twice as wide.
//
//	Inputs: lo (W), hi (N)
//	Outputs: out (E)
//	Function: out = lo | hi << size(lo)
//
var pack = &gridsim.ChipSpec{
	Name: "Pack",
	Size: unit,
	Ports: []gridsim.PortSpec{
		recv(bhv, 0, 0, geom.West),
		recv(bhv, 0, 0, geom.North),
		send(bhv, 0, 0, geom.East),
	},
	Constraints: []gridsim.ChipConstraint{
		gridsim.SameSize(0, 1),
		gridsim.DoubleSize(2, 0),
		gridsim.DoubleSize(2, 1),
	},
	Dependencies: [][2]int{{0, 2}, {1, 2}},
	Mount: func(s *gridsim.Socket) []gridsim.Mounted {
		lo, hi, out, shift := s.Wire(0), s.Wire(1), s.Wire(2), s.Size(0).NumBits()
		return one(2, gridsim.EvalFunc(func(st *gridsim.State) {
			st.SendBehavior(out, st.RecvBehavior(lo)|st.RecvBehavior(hi)<<shift)
		}))
	},
}

// Unpack splits a behavior into its low and high halves.
//
//	Inputs: in (W)
//	Outputs: lo (E), hi (N)
//	Function: lo = in & mask(lo), hi = in >> size(lo)
//
var unpack = &gridsim.ChipSpec{
	Name: "Unpack",
	Size: unit,
	Ports: []gridsim.PortSpec{
		recv(bhv, 0, 0, geom.West),
		send(bhv, 0, 0, geom.East),
		send(bhv, 0, 0, geom.North),
	},
	Constraints: []gridsim.ChipConstraint{
		gridsim.SameSize(1, 2),
		gridsim.DoubleSize(0, 1),
		gridsim.DoubleSize(0, 2),
	},
	Dependencies: [][2]int{{0, 1}, {0, 2}},
	Mount: func(s *gridsim.Socket) []gridsim.Mounted {
		in, lo, hi := s.Wire(0), s.Wire(1), s.Wire(2)
		mask, shift := s.Size(1).Mask(), s.Size(1).NumBits()
		return one(1, gridsim.EvalFunc(func(st *gridsim.State) {
			v := st.RecvBehavior(in)
			st.SendBehavior(lo, v&mask)
			st.SendBehavior(hi, v>>shift)
		}))
	},
}

// Discard turns value carrying events into 0-bit events.
//
//	Inputs: in (W)
//	Outputs: out (E)
//	Function: out = 0 when in fires
//
var discard = &gridsim.ChipSpec{
	Name: "Discard",
	Size: unit,
	Ports: []gridsim.PortSpec{
		recv(evt, 0, 0, geom.West),
		send(evt, 0, 0, geom.East),
	},
	Constraints: []gridsim.ChipConstraint{
		gridsim.AtLeastSize(0, gridsim.One),
		gridsim.ExactSize(1, gridsim.Zero),
	},
	Dependencies: [][2]int{{0, 1}},
	Mount: func(s *gridsim.Socket) []gridsim.Mounted {
		in, out := s.Wire(0), s.Wire(1)
		return one(1, gridsim.EvalFunc(func(st *gridsim.State) {
			if st.HasEvent(in) {
				st.SendEvent(out, 0)
			}
		}))
	},
}

// Sample emits the current value of a behavior whenever its trigger fires.
//
//	Inputs: trigger (W), in (S)
//	Outputs: out (E)
//	Function: out = in when trigger fires
//
var sample = &gridsim.ChipSpec{
	Name: "Sample",
	Size: unit,
	Ports: []gridsim.PortSpec{
		recv(evt, 0, 0, geom.West),
		recv(bhv, 0, 0, geom.South),
		send(evt, 0, 0, geom.East),
	},
	Constraints: []gridsim.ChipConstraint{
		gridsim.ExactSize(0, gridsim.Zero),
		gridsim.SameSize(1, 2),
	},
	Dependencies: [][2]int{{0, 2}, {1, 2}},
	Mount: func(s *gridsim.Socket) []gridsim.Mounted {
		trigger, in, out := s.Wire(0), s.Wire(1), s.Wire(2)
		return one(2, gridsim.EvalFunc(func(st *gridsim.State) {
			if st.HasEvent(trigger) {
				st.SendEvent(out, st.RecvBehavior(in))
			}
		}))
	},
}

// Join merges two event streams. When both inputs fire in the same cycle,
// the first one wins.
//
//	Inputs: in1 (W), in2 (S)
//	Outputs: out (E)
//	Function: out = in1 if it fired, in2 otherwise
//
var join = &gridsim.ChipSpec{
	Name: "Join",
	Size: unit,
	Ports: []gridsim.PortSpec{
		recv(evt, 0, 0, geom.West),
		recv(evt, 0, 0, geom.South),
		send(evt, 0, 0, geom.East),
	},
	Constraints:  allSame(0, 1, 2),
	Dependencies: [][2]int{{0, 2}, {1, 2}},
	Mount: func(s *gridsim.Socket) []gridsim.Mounted {
		in1, in2, out := s.Wire(0), s.Wire(1), s.Wire(2)
		return one(2, gridsim.EvalFunc(func(st *gridsim.State) {
			if v, ok := st.RecvEvent(in1); ok {
				st.SendEvent(out, v)
			} else if v, ok := st.RecvEvent(in2); ok {
				st.SendEvent(out, v)
			}
		}))
	},
}

// Random emits a random value whenever its trigger fires. Values are drawn
// from the circuit's random number generator.
//
//	Inputs: trigger (W)
//	Outputs: out (E)
//
var random = &gridsim.ChipSpec{
	Name: "Random",
	Size: unit,
	Ports: []gridsim.PortSpec{
		recv(evt, 0, 0, geom.West),
		send(evt, 0, 0, geom.East),
	},
	Constraints: []gridsim.ChipConstraint{
		gridsim.ExactSize(0, gridsim.Zero),
		gridsim.AtLeastSize(1, gridsim.One),
	},
	Dependencies: [][2]int{{0, 1}},
	Mount: func(s *gridsim.Socket) []gridsim.Mounted {
		trigger, out, mask, rng := s.Wire(0), s.Wire(1), s.Size(1).Mask(), s.Rand()
		return one(1, gridsim.EvalFunc(func(st *gridsim.State) {
			if st.HasEvent(trigger) {
				st.SendEvent(out, rng.Uint32()&mask)
			}
		}))
	},
}
