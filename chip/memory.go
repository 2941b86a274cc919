// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package chip

import (
	"github.com/db47h/gridsim"
	"github.com/db47h/gridsim/geom"
)

// Latest holds the value of the last event received.
//
//	Inputs: in (W)
//	Outputs: out (E)
//
var latest = &gridsim.ChipSpec{
	Name: "Latest",
	Size: unit,
	Ports: []gridsim.PortSpec{
		recv(evt, 0, 0, geom.West),
		send(bhv, 0, 0, geom.East),
	},
	Constraints:  []gridsim.ChipConstraint{gridsim.SameSize(0, 1)},
	Dependencies: [][2]int{{0, 1}},
	Mount: func(s *gridsim.Socket) []gridsim.Mounted {
		in, out := s.Wire(0), s.Wire(1)
		return one(1, gridsim.EvalFunc(func(st *gridsim.State) {
			if v, ok := st.RecvEvent(in); ok {
				st.SendBehavior(out, v)
			}
		}))
	},
}

// Latch is a set/reset flip flop. Receiving both events at once toggles it.
//
//	Inputs: set (W, 0 bit), reset (S, 0 bit)
//	Outputs: out (E, 1 bit)
//
var latch = &gridsim.ChipSpec{
	Name: "Latch",
	Size: unit,
	Ports: []gridsim.PortSpec{
		recv(evt, 0, 0, geom.West),
		recv(evt, 0, 0, geom.South),
		send(bhv, 0, 0, geom.East),
	},
	Constraints: []gridsim.ChipConstraint{
		gridsim.ExactSize(0, gridsim.Zero),
		gridsim.ExactSize(1, gridsim.Zero),
		gridsim.ExactSize(2, gridsim.One),
	},
	Dependencies: [][2]int{{0, 2}, {1, 2}},
	Mount: func(s *gridsim.Socket) []gridsim.Mounted {
		set, reset, out := s.Wire(0), s.Wire(1), s.Wire(2)
		var q uint32
		return one(2, gridsim.EvalFunc(func(st *gridsim.State) {
			on, off := st.HasEvent(set), st.HasEvent(reset)
			switch {
			case on && off:
				q ^= 1
			case on:
				q = 1
			case off:
				q = 0
			}
			st.SendBehavior(out, q)
		}))
	},
}

// Counter is an up/down counter.
//
//	Inputs: set (0,0 S), inc (1,0 N, 0 bit), dec (1,0 S, 0 bit)
//	Outputs: out (0,0 N)
//
var counter = &gridsim.ChipSpec{
	Name: "Counter",
	Size: geom.Size{W: 2, H: 1},
	Ports: []gridsim.PortSpec{
		recv(evt, 0, 0, geom.South),
		recv(evt, 1, 0, geom.North),
		recv(evt, 1, 0, geom.South),
		send(bhv, 0, 0, geom.North),
	},
	Constraints: []gridsim.ChipConstraint{
		gridsim.SameSize(0, 3),
		gridsim.ExactSize(1, gridsim.Zero),
		gridsim.ExactSize(2, gridsim.Zero),
	},
	Dependencies: fullDeps([]int{0, 1, 2}, []int{3}),
	Mount: func(s *gridsim.Socket) []gridsim.Mounted {
		set, up, down, out, mask := s.Wire(0), s.Wire(1), s.Wire(2), s.Wire(3), s.Size(3).Mask()
		var v uint32
		return one(3, gridsim.EvalFunc(func(st *gridsim.State) {
			if n, ok := st.RecvEvent(set); ok {
				v = n
			}
			if st.HasEvent(up) {
				v = (v + 1) & mask
			}
			if st.HasEvent(down) {
				v = (v - 1) & mask
			}
			st.SendBehavior(out, v)
		}))
	},
}

// Ram is a dual port random access memory. Each port has an address input,
// a write event input and a data output.
//
//	Inputs: addr1 (0,0 W), write1 (0,0 N), addr2 (1,1 E), write2 (1,1 S)
//	Outputs: data1 (0,1 W), data2 (1,0 E)
//
var ram = &gridsim.ChipSpec{
	Name: "Ram",
	Size: geom.Size{W: 2, H: 2},
	Ports: []gridsim.PortSpec{
		recv(bhv, 0, 0, geom.West),
		recv(evt, 0, 0, geom.North),
		send(bhv, 0, 1, geom.West),
		recv(bhv, 1, 1, geom.East),
		recv(evt, 1, 1, geom.South),
		send(bhv, 1, 0, geom.East),
	},
	Constraints: append([]gridsim.ChipConstraint{
		gridsim.AtMostSize(0, gridsim.Eight),
		gridsim.AtMostSize(3, gridsim.Eight),
		gridsim.AtLeastSize(1, gridsim.One),
		gridsim.AtLeastSize(4, gridsim.One),
		gridsim.SameSize(0, 3),
	}, allSame(1, 2, 4, 5)...),
	Dependencies: fullDeps([]int{0, 1, 3, 4}, []int{2, 5}),
	Mount: func(s *gridsim.Socket) []gridsim.Mounted {
		return one(2, &ramEval{
			addr:   [2]gridsim.WireID{s.Wire(0), s.Wire(3)},
			write:  [2]gridsim.WireID{s.Wire(1), s.Wire(4)},
			data:   [2]gridsim.WireID{s.Wire(2), s.Wire(5)},
			values: make([]uint32, 1<<s.Size(0).NumBits()),
		})
	},
}

type ramEval struct {
	addr, write, data [2]gridsim.WireID
	values            []uint32
}

func (r *ramEval) Eval(st *gridsim.State) {
	for i := range r.addr {
		if v, ok := st.RecvEvent(r.write[i]); ok {
			r.values[st.RecvBehavior(r.addr[i])] = v
		}
	}
	for i := range r.addr {
		st.SendBehavior(r.data[i], r.values[st.RecvBehavior(r.addr[i])])
	}
}

// maxStackLen is the capacity of Stack and Queue chips.
const maxStackLen = 0xff

var stackPorts = []gridsim.PortSpec{
	recv(evt, 0, 0, geom.West),
	send(bhv, 0, 1, geom.West),
	recv(evt, 1, 1, geom.East),
	send(evt, 1, 0, geom.East),
}

var stackConstraints = []gridsim.ChipConstraint{
	gridsim.ExactSize(1, gridsim.Eight),
	gridsim.ExactSize(2, gridsim.Zero),
	gridsim.AtLeastSize(0, gridsim.One),
	gridsim.AtLeastSize(3, gridsim.One),
	gridsim.SameSize(0, 3),
}

// Stack is a LIFO of up to 255 values. Pushes to a full stack are dropped
// unless a value is popped in the same cycle.
//
//	Inputs: push (0,0 W), pop (1,1 E, 0 bit)
//	Outputs: count (0,1 W, 8 bits), out (1,0 E)
//
var stack = &gridsim.ChipSpec{
	Name:         "Stack",
	Size:         geom.Size{W: 2, H: 2},
	Ports:        stackPorts,
	Constraints:  stackConstraints,
	Dependencies: fullDeps([]int{0, 2}, []int{1, 3}),
	Mount: func(s *gridsim.Socket) []gridsim.Mounted {
		return one(3, &stackEval{
			push: s.Wire(0), count: s.Wire(1), pop: s.Wire(2), out: s.Wire(3),
		})
	},
}

// Queue is a FIFO of up to 255 values. Its port layout is that of Stack.
//
var queue = &gridsim.ChipSpec{
	Name:         "Queue",
	Size:         geom.Size{W: 2, H: 2},
	Ports:        stackPorts,
	Constraints:  stackConstraints,
	Dependencies: fullDeps([]int{0, 2}, []int{1, 3}),
	Mount: func(s *gridsim.Socket) []gridsim.Mounted {
		return one(3, &stackEval{
			push: s.Wire(0), count: s.Wire(1), pop: s.Wire(2), out: s.Wire(3), fifo: true,
		})
	},
}

type stackEval struct {
	push, count, pop, out gridsim.WireID
	fifo                  bool
	values                []uint32
}

func (k *stackEval) Eval(st *gridsim.State) {
	pop := st.HasEvent(k.pop)
	if v, ok := st.RecvEvent(k.push); ok && (pop || len(k.values) < maxStackLen) {
		k.values = append(k.values, v)
	}
	if pop && len(k.values) > 0 {
		var v uint32
		if k.fifo {
			v, k.values = k.values[0], k.values[1:]
		} else {
			n := len(k.values) - 1
			v, k.values = k.values[n], k.values[:n]
		}
		st.SendEvent(k.out, v)
	}
	st.SendBehavior(k.count, uint32(len(k.values)))
}

// Screen is a 256 byte memory with three access ports that can be displayed
// and touched during evaluation. Touching the screen emits the touched
// address.
//
//	Inputs: addrN (2,0 N), writeN (3,0 N), addrW (0,2 W), writeW (0,1 W),
//	        addrS (2,4 S), writeS (1,4 S)
//	Outputs: dataN (1,0 N), dataW (0,3 W), dataS (3,4 S), touch (4,2 E)
//
var screen = &gridsim.ChipSpec{
	Name: "Screen",
	Size: geom.Size{W: 5, H: 5},
	Ports: []gridsim.PortSpec{
		recv(bhv, 2, 0, geom.North),
		recv(evt, 3, 0, geom.North),
		send(bhv, 1, 0, geom.North),
		recv(bhv, 0, 2, geom.West),
		recv(evt, 0, 1, geom.West),
		send(bhv, 0, 3, geom.West),
		recv(bhv, 2, 4, geom.South),
		recv(evt, 1, 4, geom.South),
		send(bhv, 3, 4, geom.South),
		send(evt, 4, 2, geom.East),
	},
	Constraints:  allExact(gridsim.Eight, 0, 1, 2, 3, 4, 5, 6, 7, 8, 9),
	Dependencies: fullDeps([]int{0, 1, 3, 4, 6, 7}, []int{2, 5, 8, 9}),
	Mount: func(s *gridsim.Socket) []gridsim.Mounted {
		return one(2, &screenEval{
			coords: s.Coords(),
			addr:   [3]gridsim.WireID{s.Wire(0), s.Wire(3), s.Wire(6)},
			write:  [3]gridsim.WireID{s.Wire(1), s.Wire(4), s.Wire(7)},
			data:   [3]gridsim.WireID{s.Wire(2), s.Wire(5), s.Wire(8)},
			touch:  s.Wire(9),
			values: make([]byte, 256),
		})
	},
}

type screenEval struct {
	coords            geom.Coords
	addr, write, data [3]gridsim.WireID
	touch             gridsim.WireID
	values            []byte
	pressed           uint32
	isPressed         bool
}

func (e *screenEval) Eval(st *gridsim.State) {
	for i := range e.addr {
		if v, ok := st.RecvEvent(e.write[i]); ok {
			e.values[st.RecvBehavior(e.addr[i])&0xff] = byte(v)
		}
	}
	for i := range e.addr {
		st.SendBehavior(e.data[i], uint32(e.values[st.RecvBehavior(e.addr[i])&0xff]))
	}
	if e.isPressed {
		st.RecordInput(e.coords, e.pressed, 1)
		st.SendEvent(e.touch, e.pressed)
		e.isPressed = false
	}
}

func (e *screenEval) Coords() geom.Coords { return e.coords }

func (e *screenEval) DisplayData() []byte { return e.values }

func (e *screenEval) OnPress(sublocation, _ uint32) {
	e.pressed, e.isPressed = sublocation&0xff, true
}
