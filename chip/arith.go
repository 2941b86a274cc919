// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package chip

import (
	"github.com/db47h/gridsim"
	"github.com/db47h/gridsim/geom"
)

// binary operators over behavior wires of the same size.
type binop func(a, b uint32) uint32

func (op binop) mount(s *gridsim.Socket) []gridsim.Mounted {
	a, b, out, mask := s.Wire(0), s.Wire(1), s.Wire(2), s.Size(2).Mask()
	return one(2, gridsim.EvalFunc(func(st *gridsim.State) {
		st.SendBehavior(out, op(st.RecvBehavior(a), st.RecvBehavior(b))&mask)
	}))
}

var (
	binopPorts = []gridsim.PortSpec{
		recv(bhv, 0, 0, geom.West),
		recv(bhv, 0, 0, geom.South),
		send(bhv, 0, 0, geom.East),
	}
	binopConstraints = allSame(0, 1, 2)
	binopDeps        = [][2]int{{0, 2}, {1, 2}}
)

func newBinop(name string, fn func(a, b uint32) uint32) *gridsim.ChipSpec {
	return &gridsim.ChipSpec{
		Name:         name,
		Size:         unit,
		Ports:        binopPorts,
		Constraints:  binopConstraints,
		Dependencies: binopDeps,
		Mount:        binop(fn).mount,
	}
}

// Arithmetic chips. They all have the same port layout:
//
//	Inputs: a (W), b (S)
//	Outputs: out (E)
//
// Results are truncated to the wire size.
//
var (
	// out = a + b
	add = newBinop("Add", func(a, b uint32) uint32 { return a + b })
	// out = |a - b|
	sub = newBinop("Sub", func(a, b uint32) uint32 {
		if a < b {
			return b - a
		}
		return a - b
	})
	// out = a * b
	mul = newBinop("Mul", func(a, b uint32) uint32 { return a * b })
)

// Mul4Bit multiplies two 4-bit values into a low and high nibble.
//
//	Inputs: a (W), b (S)
//	Outputs: lo (E), hi (N)
//	Function: lo = (a*b) & 0xf, hi = (a*b) >> 4
//
var mul4Bit = &gridsim.ChipSpec{
	Name: "Mul4Bit",
	Size: unit,
	Ports: []gridsim.PortSpec{
		recv(bhv, 0, 0, geom.West),
		recv(bhv, 0, 0, geom.South),
		send(bhv, 0, 0, geom.East),
		send(bhv, 0, 0, geom.North),
	},
	Constraints:  allExact(gridsim.Four, 0, 1, 2, 3),
	Dependencies: fullDeps([]int{0, 1}, []int{2, 3}),
	Mount: func(s *gridsim.Socket) []gridsim.Mounted {
		a, b, lo, hi := s.Wire(0), s.Wire(1), s.Wire(2), s.Wire(3)
		return one(2, gridsim.EvalFunc(func(st *gridsim.State) {
			p := st.RecvBehavior(a) * st.RecvBehavior(b)
			st.SendBehavior(lo, p&0xf)
			st.SendBehavior(hi, p>>4&0xf)
		}))
	},
}

// unary operators over behavior wires of the same size.
type unop func(v uint32) uint32

func (op unop) mount(s *gridsim.Socket) []gridsim.Mounted {
	in, out, mask := s.Wire(0), s.Wire(1), s.Size(1).Mask()
	return one(1, gridsim.EvalFunc(func(st *gridsim.State) {
		st.SendBehavior(out, op(st.RecvBehavior(in))&mask)
	}))
}

var unopPorts = []gridsim.PortSpec{
	recv(bhv, 0, 0, geom.West),
	send(bhv, 0, 0, geom.East),
}

func newUnop(name string, fn func(v uint32) uint32) *gridsim.ChipSpec {
	return &gridsim.ChipSpec{
		Name:         name,
		Size:         unit,
		Ports:        unopPorts,
		Constraints:  []gridsim.ChipConstraint{gridsim.SameSize(0, 1)},
		Dependencies: [][2]int{{0, 1}},
		Mount:        unop(fn).mount,
	}
}

// Unary arithmetic chips.
//
//	Inputs: in (W)
//	Outputs: out (E)
//
var (
	// out = in >> 1
	halve = newUnop("Halve", func(v uint32) uint32 { return v >> 1 })
	// out = -in (two's complement)
	neg = newUnop("Neg", func(v uint32) uint32 { return ^v + 1 })
)

// Inc adds a behavior to every event passing through.
//
//	Inputs: in (W), delta (S)
//	Outputs: out (E)
//	Function: out = in + delta when in fires
//
var inc = &gridsim.ChipSpec{
	Name: "Inc",
	Size: unit,
	Ports: []gridsim.PortSpec{
		recv(evt, 0, 0, geom.West),
		recv(bhv, 0, 0, geom.South),
		send(evt, 0, 0, geom.East),
	},
	Constraints:  allSame(0, 1, 2),
	Dependencies: [][2]int{{0, 2}, {1, 2}},
	Mount: func(s *gridsim.Socket) []gridsim.Mounted {
		in, delta, out, mask := s.Wire(0), s.Wire(1), s.Wire(2), s.Size(2).Mask()
		return one(2, gridsim.EvalFunc(func(st *gridsim.State) {
			if v, ok := st.RecvEvent(in); ok {
				st.SendEvent(out, (v+st.RecvBehavior(delta))&mask)
			}
		}))
	},
}
