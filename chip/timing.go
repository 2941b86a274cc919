// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package chip

import (
	"github.com/db47h/gridsim"
	"github.com/db47h/gridsim/geom"
)

// Delay re-emits an event at the next cycle of the same time step. It is the
// only way to break an event loop.
//
//	Inputs: in (W)
//	Outputs: out (E)
//	Function: out(cycle) = in(cycle-1)
//
var delay = &gridsim.ChipSpec{
	Name: "Delay",
	Size: unit,
	Ports: []gridsim.PortSpec{
		recv(evt, 0, 0, geom.West),
		send(evt, 0, 0, geom.East),
	},
	Constraints: []gridsim.ChipConstraint{gridsim.SameSize(0, 1)},
	Mount: func(s *gridsim.Socket) []gridsim.Mounted {
		return one(1, &delayEval{in: s.Wire(0), out: s.Wire(1)})
	},
}

type delayEval struct {
	in, out gridsim.WireID
	value   uint32
	pending bool
}

func (d *delayEval) Eval(st *gridsim.State) {
	if d.pending {
		st.SendEvent(d.out, d.value)
		d.pending = false
	}
}

func (d *delayEval) NeedsAnotherCycle(st *gridsim.State) bool {
	d.value, d.pending = st.RecvEvent(d.in)
	return d.pending
}

// Clock re-emits an event at the start of the next time step.
//
//	Inputs: in (W, 0 bit)
//	Outputs: out (E, 0 bit)
//	Function: out(time step) = in(time step-1)
//
var clock = &gridsim.ChipSpec{
	Name: "Clock",
	Size: unit,
	Ports: []gridsim.PortSpec{
		recv(evt, 0, 0, geom.West),
		send(evt, 0, 0, geom.East),
	},
	Constraints: allExact(gridsim.Zero, 0, 1),
	Mount: func(s *gridsim.Socket) []gridsim.Mounted {
		return one(1, &clockEval{in: s.Wire(0), out: s.Wire(1)})
	},
}

type clockEval struct {
	in, out  gridsim.WireID
	received bool
	fire     bool
}

func (c *clockEval) Eval(st *gridsim.State) {
	if c.fire {
		st.SendEvent(c.out, 0)
		c.fire = false
	}
}

func (c *clockEval) NeedsAnotherCycle(st *gridsim.State) bool {
	if st.HasEvent(c.in) {
		c.received = true
	}
	return false
}

func (c *clockEval) OnTimeStep() {
	c.fire, c.received = c.received, false
}

// EggTimer counts down time steps and fires when the count reaches zero.
//
//	Inputs: set (0,0 S)
//	Outputs: remain (1,0 N), alarm (0,0 N, 0 bit)
//	Function: remain = time steps left; alarm fires when remain drops to 0
//	          or when set to 0.
//
var eggTimer = &gridsim.ChipSpec{
	Name: "EggTimer",
	Size: geom.Size{W: 2, H: 1},
	Ports: []gridsim.PortSpec{
		recv(evt, 0, 0, geom.South),
		send(bhv, 1, 0, geom.North),
		send(evt, 0, 0, geom.North),
	},
	Constraints: []gridsim.ChipConstraint{
		gridsim.SameSize(0, 1),
		gridsim.ExactSize(2, gridsim.Zero),
	},
	Dependencies: [][2]int{{0, 1}, {0, 2}},
	Mount: func(s *gridsim.Socket) []gridsim.Mounted {
		return one(1, &eggTimerEval{set: s.Wire(0), remain: s.Wire(1), alarm: s.Wire(2)})
	},
}

type eggTimerEval struct {
	set, remain, alarm gridsim.WireID
	time               uint32
	ring               bool
}

func (e *eggTimerEval) Eval(st *gridsim.State) {
	if v, ok := st.RecvEvent(e.set); ok {
		e.time = v
		if v == 0 {
			e.ring = true
		}
	}
	st.SendBehavior(e.remain, e.time)
	if e.ring {
		st.SendEvent(e.alarm, 0)
		e.ring = false
	}
}

func (e *eggTimerEval) OnTimeStep() {
	if e.time > 0 {
		e.time--
		e.ring = e.time == 0
	}
}

// Stopwatch counts elapsed time steps while running.
//
//	Inputs: start (0,0 S), stop (1,0 N), reset (1,0 S); all 0 bit
//	Outputs: time (0,0 N)
//
var stopwatch = &gridsim.ChipSpec{
	Name: "Stopwatch",
	Size: geom.Size{W: 2, H: 1},
	Ports: []gridsim.PortSpec{
		recv(evt, 0, 0, geom.South),
		recv(evt, 1, 0, geom.North),
		recv(evt, 1, 0, geom.South),
		send(bhv, 0, 0, geom.North),
	},
	Constraints:  allExact(gridsim.Zero, 0, 1, 2),
	Dependencies: fullDeps([]int{0, 1, 2}, []int{3}),
	Mount: func(s *gridsim.Socket) []gridsim.Mounted {
		return one(3, &stopwatchEval{
			start: s.Wire(0),
			stop:  s.Wire(1),
			reset: s.Wire(2),
			out:   s.Wire(3),
			mask:  s.Size(3).Mask(),
		})
	},
}

type stopwatchEval struct {
	start, stop, reset, out gridsim.WireID
	mask                    uint32
	time                    uint32
	running                 bool
}

func (w *stopwatchEval) Eval(st *gridsim.State) {
	start, stop := st.HasEvent(w.start), st.HasEvent(w.stop)
	if start && !stop {
		w.running = true
	} else if stop && !start {
		w.running = false
	}
	if st.HasEvent(w.reset) {
		w.time = 0
	}
	st.SendBehavior(w.out, w.time)
}

func (w *stopwatchEval) OnTimeStep() {
	if w.running {
		w.time = (w.time + 1) & w.mask
	}
}
