// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package puzzle

import (
	"fmt"
	"math"

	gs "github.com/db47h/gridsim"
	"github.com/db47h/gridsim/geom"
)

const (
	landerGravity       = 2.0
	landerTerminalSpeed = 15.0
	landerAirResistance = landerGravity / (landerTerminalSpeed * landerTerminalSpeed)
	landerAccelPerFuel  = 0.1

	landerInitAltitude = 250.0
	landerInitVelocity = -1.0
	landerInitAngle    = 90
	landerInitFuel     = 250

	landerMaxSpeed = 5.0
	landerMinAngle = 85
	landerMaxAngle = 95
)

var landerInterfaces = []Interface{
	{
		Name:        "Instruments",
		Description: "Reports the current altitude, the descent angle in degrees (90 is vertical) and the remaining fuel.",
		Side:        geom.West, Pos: Center,
		Ports: []InterfacePort{
			in("Alt", gs.Behavior, gs.Eight),
			in("Angle", gs.Behavior, gs.Eight),
			in("Fuel", gs.Behavior, gs.Eight),
		},
	},
	{
		Name:        "Thrusters",
		Description: "Controls the port and starboard thrusters. Each unit of thrust burns one unit of fuel. Uneven thrust turns the lander.",
		Side:        geom.South, Pos: Center,
		Ports: []InterfacePort{
			out("Port", gs.Behavior, gs.Four),
			out("Stbd", gs.Behavior, gs.Four),
		},
	},
}

// Lander is the environment of the orbital lander puzzle: the circuit must
// fire thrusters to land softly and upright, against gravity and crosswinds.
//
type Lander struct {
	gs.BasePuzzle
	alt, angle, fuel, port, stbd gs.Slot

	altitude float64
	velocity float64
	angleDeg int
	fuelLeft uint32
}

func newLander(slots [][]gs.Slot) *Lander {
	return &Lander{
		alt:      slots[0][0],
		angle:    slots[0][1],
		fuel:     slots[0][2],
		port:     slots[1][0],
		stbd:     slots[1][1],
		altitude: landerInitAltitude,
		velocity: landerInitVelocity,
		angleDeg: landerInitAngle,
		fuelLeft: landerInitFuel,
	}
}

// Altitude returns the current altitude, rounded up.
//
func (l *Lander) Altitude() uint32 { return uint32(math.Ceil(l.altitude)) }

// Velocity returns the vertical velocity. Negative values go down.
//
func (l *Lander) Velocity() float64 { return l.velocity }

// Angle returns the descent angle in degrees.
//
func (l *Lander) Angle() uint32 { return uint32(l.angleDeg) }

// Fuel returns the remaining fuel.
//
func (l *Lander) Fuel() uint32 { return l.fuelLeft }

// SecondsPerTimeStep implements gridsim.PuzzleEval.
//
func (l *Lander) SecondsPerTimeStep() float64 { return 0.05 }

// TaskIsCompleted implements gridsim.PuzzleEval. The task ends on touchdown;
// a crash is reported as errors raised on the last time step.
//
func (l *Lander) TaskIsCompleted(*gs.State) bool { return l.Altitude() == 0 }

// BeginTimeStep implements gridsim.PuzzleEval.
//
func (l *Lander) BeginTimeStep(s *gs.State) {
	s.SendBehavior(l.alt.Wire, l.Altitude())
	s.SendBehavior(l.angle.Wire, l.Angle())
	s.SendBehavior(l.fuel.Wire, l.fuelLeft)
}

// EndTimeStep implements gridsim.PuzzleEval.
//
func (l *Lander) EndTimeStep(s *gs.State) []gs.EvalError {
	port, stbd := LimitThrust(s.RecvBehavior(l.port.Wire), s.RecvBehavior(l.stbd.Wire), l.fuelLeft)
	l.fuelLeft -= port + stbd
	wind := WindAt(l.altitude)

	l.altitude = min(max(l.altitude+l.velocity, 0), landerInitAltitude)

	l.velocity -= landerGravity
	l.velocity += float64(port+stbd) * landerAccelPerFuel * math.Sin(float64(l.angleDeg)*math.Pi/180)
	l.velocity -= landerAirResistance * l.velocity * math.Abs(l.velocity)

	l.angleDeg = min(max(l.angleDeg+int(port)-int(stbd)+wind, 0), 180)

	if l.altitude > 0 {
		return nil
	}
	var errs []gs.EvalError
	if -l.velocity > landerMaxSpeed {
		errs = append(errs, gs.EvalError{TimeStep: s.TimeStep(), Message: fmt.Sprintf(
			"Landed at too high a speed (%v d/t is above the safe limit of %v d/t).",
			math.Ceil(-l.velocity), landerMaxSpeed)})
	}
	if l.angleDeg < landerMinAngle || l.angleDeg > landerMaxAngle {
		errs = append(errs, gs.EvalError{TimeStep: s.TimeStep(), Message: fmt.Sprintf(
			"Landed at too shallow an angle (%d° is not in the safe range of %d° to %d°).",
			l.angleDeg, landerMinAngle, landerMaxAngle)})
	}
	return errs
}

// LimitThrust scales down the requested thrust to the available fuel. Cuts
// are shared evenly between both thrusters.
//
func LimitThrust(port, stbd, fuel uint32) (uint32, uint32) {
	if port+stbd <= fuel {
		return port, stbd
	}
	short := port + stbd - fuel
	common := min(port, stbd, short/2)
	port -= common
	stbd -= common
	short -= 2 * common
	switch {
	case short == 0:
	case port == 0:
		stbd -= short
	case stbd == 0:
		port -= short
	case port > stbd:
		port--
	default:
		stbd--
	}
	return port, stbd
}

// WindAt returns the crosswind at the given altitude, in degrees per time
// step.
//
func WindAt(altitude float64) int {
	return int(math.Round(math.Sin(math.Sqrt(0.5*altitude)) * math.Cbrt(0.1*altitude)))
}
