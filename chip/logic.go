// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package chip

import (
	"github.com/db47h/gridsim"
	"github.com/db47h/gridsim/geom"
)

// Not inverts every bit of its input.
//
//	Inputs: in (W)
//	Outputs: out (E)
//	Function: out = ^in
//
var not = newUnop("Not", func(v uint32) uint32 { return ^v })

// Bitwise gates.
//
//	Inputs: a (W), b (S)
//	Outputs: out (E)
//
var (
	// out = a & b
	and = newBinop("And", func(a, b uint32) uint32 { return a & b })
	// out = a | b
	or = newBinop("Or", func(a, b uint32) uint32 { return a | b })
	// out = a ^ b
	xor = newBinop("Xor", func(a, b uint32) uint32 { return a ^ b })
)

// Mux selects one of two behaviors.
//
//	Inputs: a (W), b (S), sel (N, 1 bit)
//	Outputs: out (E)
//	Function: if sel == 0 { out = a } else { out = b }
//
var mux = &gridsim.ChipSpec{
	Name: "Mux",
	Size: unit,
	Ports: []gridsim.PortSpec{
		recv(bhv, 0, 0, geom.West),
		recv(bhv, 0, 0, geom.South),
		send(bhv, 0, 0, geom.East),
		recv(bhv, 0, 0, geom.North),
	},
	Constraints:  append(allSame(0, 1, 2), gridsim.ExactSize(3, gridsim.One)),
	Dependencies: [][2]int{{0, 2}, {1, 2}, {3, 2}},
	Mount: func(s *gridsim.Socket) []gridsim.Mounted {
		a, b, out, sel := s.Wire(0), s.Wire(1), s.Wire(2), s.Wire(3)
		return one(2, gridsim.EvalFunc(func(st *gridsim.State) {
			if st.RecvBehavior(sel) == 0 {
				st.SendBehavior(out, st.RecvBehavior(a))
			} else {
				st.SendBehavior(out, st.RecvBehavior(b))
			}
		}))
	},
}

// Demux routes events to one of two outputs.
//
//	Inputs: in (W), sel (N, 1 bit)
//	Outputs: out1 (S), out0 (E)
//	Function: if sel != 0 { out1 = in } else { out0 = in }
//
var demux = &gridsim.ChipSpec{
	Name: "Demux",
	Size: unit,
	Ports: []gridsim.PortSpec{
		recv(evt, 0, 0, geom.West),
		send(evt, 0, 0, geom.South),
		send(evt, 0, 0, geom.East),
		recv(bhv, 0, 0, geom.North),
	},
	Constraints:  append(allSame(0, 1, 2), gridsim.ExactSize(3, gridsim.One)),
	Dependencies: fullDeps([]int{0, 3}, []int{1, 2}),
	Mount: func(s *gridsim.Socket) []gridsim.Mounted {
		in, out1, out0, sel := s.Wire(0), s.Wire(1), s.Wire(2), s.Wire(3)
		return one(2, gridsim.EvalFunc(func(st *gridsim.State) {
			if v, ok := st.RecvEvent(in); ok {
				if st.RecvBehavior(sel) != 0 {
					st.SendEvent(out1, v)
				} else {
					st.SendEvent(out0, v)
				}
			}
		}))
	},
}

// Filter drops events while its control input is set.
//
//	Inputs: in (W), ctrl (N, 1 bit)
//	Outputs: out (E)
//	Function: out = in if ctrl == 0
//
var filter = &gridsim.ChipSpec{
	Name: "Filter",
	Size: unit,
	Ports: []gridsim.PortSpec{
		recv(evt, 0, 0, geom.West),
		send(evt, 0, 0, geom.East),
		recv(bhv, 0, 0, geom.North),
	},
	Constraints: []gridsim.ChipConstraint{
		gridsim.SameSize(0, 1),
		gridsim.ExactSize(2, gridsim.One),
	},
	Dependencies: [][2]int{{0, 1}, {2, 1}},
	Mount: func(s *gridsim.Socket) []gridsim.Mounted {
		in, out, ctrl := s.Wire(0), s.Wire(1), s.Wire(2)
		return one(1, gridsim.EvalFunc(func(st *gridsim.State) {
			if v, ok := st.RecvEvent(in); ok && st.RecvBehavior(ctrl) == 0 {
				st.SendEvent(out, v)
			}
		}))
	},
}

// comparators
type cmpop func(a, b uint32) bool

func (op cmpop) mount(s *gridsim.Socket) []gridsim.Mounted {
	a, b, out := s.Wire(0), s.Wire(1), s.Wire(2)
	return one(2, gridsim.EvalFunc(func(st *gridsim.State) {
		var v uint32
		if op(st.RecvBehavior(a), st.RecvBehavior(b)) {
			v = 1
		}
		st.SendBehavior(out, v)
	}))
}

var cmpPorts = []gridsim.PortSpec{
	recv(bhv, 0, 0, geom.West),
	recv(bhv, 0, 0, geom.East),
	send(bhv, 0, 0, geom.North),
}

func newCmp(name string, fn func(a, b uint32) bool) *gridsim.ChipSpec {
	return &gridsim.ChipSpec{
		Name:  name,
		Size:  unit,
		Ports: cmpPorts,
		Constraints: []gridsim.ChipConstraint{
			gridsim.SameSize(0, 1),
			gridsim.ExactSize(2, gridsim.One),
		},
		Dependencies: [][2]int{{0, 2}, {1, 2}},
		Mount:        cmpop(fn).mount,
	}
}

// Comparison chips.
//
//	Inputs: a (W), b (E)
//	Outputs: out (N, 1 bit)
//
var (
	// out = a < b
	cmp = newCmp("Cmp", func(a, b uint32) bool { return a < b })
	// out = a <= b
	cmpEq = newCmp("CmpEq", func(a, b uint32) bool { return a <= b })
	// out = a == b
	eq = newCmp("Eq", func(a, b uint32) bool { return a == b })
)
