// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package puzzle

import (
	"math"

	gs "github.com/db47h/gridsim"
	"github.com/db47h/gridsim/geom"
)

const (
	reactorDrift     = 0.2
	reactorImbalance = 1.1
	reactorHoldTime  = 5 // time steps
	reactorNumRods   = 3
)

var reactorTargets = []uint32{7, 9, 1, 3, 6, 4, 0, 8, 5, 2, 1, 7, 4, 2, 8, 0, 9, 6, 3, 5}

var reactorInterfaces = []Interface{
	{
		Name:        "Thermostat",
		Description: "Connects to sensors in the power grid that report the current and desired power outputs of the backup reactor (from 0 to 9).",
		Side:        geom.West, Pos: Left(1),
		Ports: []InterfacePort{
			in("Power", gs.Behavior, gs.Four),
			in("Target", gs.Behavior, gs.Four),
		},
	},
	{
		Name:        "Control Rods",
		Description: "Connects to the actuators of the three control rods. Higher values retract a rod and raise the total power output. Rods set to unequal values slow the reactor's response.",
		Side:        geom.East, Pos: Left(0),
		Ports: []InterfacePort{
			out("Rod1", gs.Behavior, gs.Two),
			out("Rod2", gs.Behavior, gs.Two),
			out("Rod3", gs.Behavior, gs.Two),
		},
	},
}

// Reactor is the environment of the backup reactor puzzle: the circuit must
// move control rods so that the power output follows a list of targets, each
// held for five time steps.
//
type Reactor struct {
	gs.BasePuzzle
	power, target gs.Slot
	rods          []gs.Slot

	rodValues []uint32
	current   float64
	held      int
	numHeld   int
}

func newReactor(slots [][]gs.Slot) *Reactor {
	return &Reactor{
		power:     slots[0][0],
		target:    slots[0][1],
		rods:      slots[1],
		rodValues: make([]uint32, reactorNumRods),
	}
}

// Power returns the current power output, rounded.
//
func (r *Reactor) Power() uint32 { return uint32(math.Round(r.current)) }

// Target returns the desired power output.
//
func (r *Reactor) Target() uint32 {
	return reactorTargets[min(r.numHeld, len(reactorTargets)-1)]
}

// TargetsHeld returns the number of targets reached and held so far.
//
func (r *Reactor) TargetsHeld() int { return r.numHeld }

// RodValues returns the rod settings read at the end of the last time step.
//
func (r *Reactor) RodValues() []uint32 { return r.rodValues }

// TaskIsCompleted implements gridsim.PuzzleEval.
//
func (r *Reactor) TaskIsCompleted(*gs.State) bool { return r.numHeld >= len(reactorTargets) }

// BeginTimeStep implements gridsim.PuzzleEval.
//
func (r *Reactor) BeginTimeStep(s *gs.State) {
	p := r.Power()
	if p == r.Target() {
		r.held++
		if r.held >= reactorHoldTime {
			r.held = 0
			r.numHeld++
		}
	} else {
		r.held = 0
	}
	s.SendBehavior(r.power.Wire, p)
	s.SendBehavior(r.target.Wire, r.Target())
}

// EndTimeStep implements gridsim.PuzzleEval.
//
func (r *Reactor) EndTimeStep(s *gs.State) []gs.EvalError {
	var total uint32
	for i, rod := range r.rods {
		r.rodValues[i] = s.RecvBehavior(rod.Wire)
		total += r.rodValues[i]
	}
	avg := float64(total) / float64(len(r.rods))
	var imbalance float64
	for _, v := range r.rodValues {
		d := avg - float64(v)
		imbalance += d * d
	}
	r.current += reactorDrift * math.Pow(reactorImbalance, -imbalance) * (float64(total) - r.current)
	return nil
}
