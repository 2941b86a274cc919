// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package chip

import (
	"github.com/db47h/gridsim"
	"github.com/db47h/gridsim/geom"
)

// port colors
const (
	bhv = gridsim.Behavior
	evt = gridsim.Event
	anl = gridsim.AnalogColor
)

var unit = geom.Size{W: 1, H: 1}

func recv(c gridsim.PortColor, x, y int, d geom.Direction) gridsim.PortSpec {
	return gridsim.PortSpec{Flow: gridsim.Recv, Color: c, Loc: gridsim.L(x, y, d)}
}

func send(c gridsim.PortColor, x, y int, d geom.Direction) gridsim.PortSpec {
	return gridsim.PortSpec{Flow: gridsim.Send, Color: c, Loc: gridsim.L(x, y, d)}
}

// allSame returns SameSize constraints between every pair of ports.
//
func allSame(ports ...int) []gridsim.ChipConstraint {
	var cs []gridsim.ChipConstraint
	for i, p := range ports {
		for _, q := range ports[i+1:] {
			cs = append(cs, gridsim.SameSize(p, q))
		}
	}
	return cs
}

// allExact returns ExactSize constraints setting every port to size s.
//
func allExact(s gridsim.WireSize, ports ...int) []gridsim.ChipConstraint {
	cs := make([]gridsim.ChipConstraint, len(ports))
	for i, p := range ports {
		cs[i] = gridsim.ExactSize(p, s)
	}
	return cs
}

// fullDeps returns dependencies from every recv port to every send port.
//
func fullDeps(recvs []int, sends []int) [][2]int {
	ds := make([][2]int, 0, len(recvs)*len(sends))
	for _, s := range sends {
		for _, r := range recvs {
			ds = append(ds, [2]int{r, s})
		}
	}
	return ds
}

// one returns a single mounted evaluator.
//
func one(port int, e gridsim.Eval) []gridsim.Mounted {
	return []gridsim.Mounted{{Port: port, Eval: e}}
}

// catalog holds the specs of chips without payload. Chips with a payload have
// their spec built by ChipType.Spec.
//
var catalog = [kindCount]*gridsim.ChipSpec{
	Pack:      pack,
	Unpack:    unpack,
	Discard:   discard,
	Sample:    sample,
	Join:      join,
	Random:    random,
	Add:       add,
	Sub:       sub,
	Mul:       mul,
	Mul4Bit:   mul4Bit,
	Halve:     halve,
	Neg:       neg,
	Inc:       inc,
	Cmp:       cmp,
	CmpEq:     cmpEq,
	Eq:        eq,
	Not:       not,
	And:       and,
	Or:        or,
	Xor:       xor,
	Mux:       mux,
	Demux:     demux,
	Filter:    filter,
	Delay:     delay,
	Clock:     clock,
	EggTimer:  eggTimer,
	Stopwatch: stopwatch,
	Latest:    latest,
	Latch:     latch,
	Counter:   counter,
	Ram:       ram,
	Stack:     stack,
	Queue:     queue,
	Screen:    screen,
	AAdd:      aAdd,
	AMul:      aMul,
	ACmp:      aCmp,
	Relay:     relay,
	Integrate: integrate,
	Display:   display,
	Comment:   comment,
}
