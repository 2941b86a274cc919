// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package puzzle

import (
	"math"

	gs "github.com/db47h/gridsim"
	"github.com/db47h/gridsim/geom"
)

// period of the analog sandbox sine wave, in time steps
const sinePeriod = 10

var (
	startupIface = Interface{
		Name:        "Startup",
		Description: "Connects to the power supply.",
		Side:        geom.North, Pos: Right(0),
		Ports:       []InterfacePort{in("Init", gs.Event, gs.Zero)},
	}
	timePort = in("Time", gs.Behavior, gs.Eight)
	tickPort = in("Tick", gs.Event, gs.Zero)
	sinePort = in("Sine", gs.AnalogColor, gs.Analog)
)

func timerIface(ports ...InterfacePort) Interface {
	return Interface{
		Name:        "Timer",
		Description: "Connects to a digital timer.",
		Side:        geom.West, Pos: Right(0),
		Ports:       ports,
	}
}

var (
	behaviorSandboxInterfaces = []Interface{timerIface(timePort)}
	eventSandboxInterfaces    = []Interface{startupIface, timerIface(timePort, tickPort)}
	analogSandboxInterfaces   = []Interface{startupIface, timerIface(timePort, tickPort, sinePort)}
)

// sandbox is the environment of sandbox puzzles. It provides a timer and
// never completes.
//
type sandbox struct {
	gs.BasePuzzle
	init, time, tick, sine gs.WireID
}

func newBehaviorSandbox(slots [][]gs.Slot) *sandbox {
	return &sandbox{
		init: gs.NoWire,
		time: slots[0][0].Wire,
		tick: gs.NoWire,
		sine: gs.NoWire,
	}
}

func newEventSandbox(slots [][]gs.Slot) *sandbox {
	return &sandbox{
		init: slots[0][0].Wire,
		time: slots[1][0].Wire,
		tick: slots[1][1].Wire,
		sine: gs.NoWire,
	}
}

func newAnalogSandbox(slots [][]gs.Slot) *sandbox {
	sb := newEventSandbox(slots)
	sb.sine = slots[1][2].Wire
	return sb
}

func (*sandbox) TaskIsCompleted(*gs.State) bool { return false }

func (sb *sandbox) BeginTimeStep(s *gs.State) {
	if sb.init != gs.NoWire && s.TimeStep() == 0 {
		s.SendEvent(sb.init, 0)
	}
	s.SendBehavior(sb.time, s.TimeStep()&0xff)
	if sb.tick != gs.NoWire {
		s.SendEvent(sb.tick, 0)
	}
	sb.sendSine(s)
}

func (sb *sandbox) BeginAdditionalCycle(s *gs.State) { sb.sendSine(s) }

func (sb *sandbox) sendSine(s *gs.State) {
	if sb.sine == gs.NoWire {
		return
	}
	t := (s.TimeStep()%sinePeriod)*gs.MaxCyclesPerTimeStep + s.Cycle()
	theta := 2 * math.Pi * float64(t) / (sinePeriod * gs.MaxCyclesPerTimeStep)
	s.SendAnalog(sb.sine, geom.FixedFromFloat(math.Sin(theta)))
}

// NeedsAnotherCycle runs the analog sandbox at the full cycle rate as long
// as something listens to the sine wave.
//
func (sb *sandbox) NeedsAnotherCycle(s *gs.State) bool {
	return sb.sine != gs.NoWire && s.Cycle()+1 < gs.MaxCyclesPerTimeStep && !s.IsNullWire(sb.sine)
}
