// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package chip

import (
	"github.com/db47h/gridsim"
	"github.com/db47h/gridsim/geom"
)

// analog binary operators.
type aop func(a, b geom.Fixed) geom.Fixed

func (op aop) mount(s *gridsim.Socket) []gridsim.Mounted {
	a, b, out := s.Wire(0), s.Wire(1), s.Wire(2)
	return one(2, gridsim.EvalFunc(func(st *gridsim.State) {
		st.SendAnalog(out, op(st.RecvAnalog(a), st.RecvAnalog(b)))
	}))
}

func newAop(name string, fn func(a, b geom.Fixed) geom.Fixed) *gridsim.ChipSpec {
	return &gridsim.ChipSpec{
		Name: name,
		Size: unit,
		Ports: []gridsim.PortSpec{
			recv(anl, 0, 0, geom.West),
			recv(anl, 0, 0, geom.South),
			send(anl, 0, 0, geom.East),
		},
		Constraints:  allExact(gridsim.Analog, 0, 1, 2),
		Dependencies: [][2]int{{0, 2}, {1, 2}},
		Mount:        aop(fn).mount,
	}
}

// Analog arithmetic. Results saturate to [-1, 1].
//
//	Inputs: a (W), b (S)
//	Outputs: out (E)
//
var (
	// out = a + b
	aAdd = newAop("AAdd", geom.Fixed.Add)
	// out = a * b
	aMul = newAop("AMul", geom.Fixed.Mul)
)

// ACmp compares two analog values when its test event fires.
//
//	Inputs: a (W), b (E), test (S, 0 bit)
//	Outputs: out (N, 1 bit)
//	Function: out = a < b when test fires
//
var aCmp = &gridsim.ChipSpec{
	Name: "ACmp",
	Size: unit,
	Ports: []gridsim.PortSpec{
		recv(anl, 0, 0, geom.West),
		recv(anl, 0, 0, geom.East),
		recv(evt, 0, 0, geom.South),
		send(evt, 0, 0, geom.North),
	},
	Constraints: []gridsim.ChipConstraint{
		gridsim.ExactSize(0, gridsim.Analog),
		gridsim.ExactSize(1, gridsim.Analog),
		gridsim.ExactSize(2, gridsim.Zero),
		gridsim.ExactSize(3, gridsim.One),
	},
	Dependencies: fullDeps([]int{0, 1, 2}, []int{3}),
	Mount: func(s *gridsim.Socket) []gridsim.Mounted {
		a, b, test, out := s.Wire(0), s.Wire(1), s.Wire(2), s.Wire(3)
		return one(3, gridsim.EvalFunc(func(st *gridsim.State) {
			if st.HasEvent(test) {
				var v uint32
				if st.RecvAnalog(a) < st.RecvAnalog(b) {
					v = 1
				}
				st.SendEvent(out, v)
			}
		}))
	},
}

// Relay selects one of two analog values.
//
//	Inputs: a (W), b (S), sel (N, 1 bit)
//	Outputs: out (E)
//	Function: if sel == 0 { out = a } else { out = b }
//
var relay = &gridsim.ChipSpec{
	Name: "Relay",
	Size: unit,
	Ports: []gridsim.PortSpec{
		recv(anl, 0, 0, geom.West),
		recv(anl, 0, 0, geom.South),
		send(anl, 0, 0, geom.East),
		recv(bhv, 0, 0, geom.North),
	},
	Constraints:  append(allExact(gridsim.Analog, 0, 1, 2), gridsim.ExactSize(3, gridsim.One)),
	Dependencies: [][2]int{{0, 2}, {1, 2}, {3, 2}},
	Mount: func(s *gridsim.Socket) []gridsim.Mounted {
		a, b, out, sel := s.Wire(0), s.Wire(1), s.Wire(2), s.Wire(3)
		return one(2, gridsim.EvalFunc(func(st *gridsim.State) {
			if st.RecvBehavior(sel) == 0 {
				st.SendAnalog(out, st.RecvAnalog(a))
			} else {
				st.SendAnalog(out, st.RecvAnalog(b))
			}
		}))
	},
}

// Integrate integrates its input over cycles. Each cycle accounts for
// 1/MaxCyclesPerTimeStep of a time step, and the chip keeps requesting cycles
// until its output saturates or the input is zero.
//
//	Inputs: in (W), reset (N, 0 bit), initial (S)
//	Outputs: out (E)
//
var integrate = &gridsim.ChipSpec{
	Name: "Integrate",
	Size: unit,
	Ports: []gridsim.PortSpec{
		recv(anl, 0, 0, geom.West),
		recv(evt, 0, 0, geom.North),
		recv(anl, 0, 0, geom.South),
		send(anl, 0, 0, geom.East),
	},
	Constraints: []gridsim.ChipConstraint{
		gridsim.ExactSize(0, gridsim.Analog),
		gridsim.ExactSize(1, gridsim.Zero),
		gridsim.ExactSize(2, gridsim.Analog),
		gridsim.ExactSize(3, gridsim.Analog),
	},
	Dependencies: fullDeps([]int{0, 1, 2}, []int{3}),
	Mount: func(s *gridsim.Socket) []gridsim.Mounted {
		return one(3, &integrateEval{in: s.Wire(0), reset: s.Wire(1), initial: s.Wire(2), out: s.Wire(3)})
	},
}

var integrateDT = geom.FixedFromRatio(1, gridsim.MaxCyclesPerTimeStep)

type integrateEval struct {
	in, reset, initial, out gridsim.WireID
	last, value             geom.Fixed
}

func (e *integrateEval) Eval(st *gridsim.State) {
	if st.HasEvent(e.reset) {
		e.value = st.RecvAnalog(e.initial)
	}
	st.SendAnalog(e.out, e.value)
	e.last = st.RecvAnalog(e.in)
	e.value = e.value.Add(e.last.Mul(integrateDT))
}

func (e *integrateEval) NeedsAnotherCycle(st *gridsim.State) bool {
	if st.Cycle()+1 >= gridsim.MaxCyclesPerTimeStep {
		return false
	}
	switch {
	case e.last < 0:
		return e.value != -geom.FixedOne
	case e.last > 0:
		return e.value != geom.FixedOne
	}
	return false
}
