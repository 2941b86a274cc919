// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package puzzle

import (
	"math"

	gs "github.com/db47h/gridsim"
	"github.com/db47h/gridsim/geom"
)

const (
	heliostatInitEnergy   = 1000
	heliostatVictory      = 5000
	heliostatDrain        = 30
	heliostatMaxPower     = 100
	heliostatOrbitStep    = 5 // degrees per time step
	heliostatPositions    = 16
	heliostatInitPosition = 3
)

var heliostatInterfaces = []Interface{
	{
		Name:        "Sensor",
		Description: "Connects to a photosensor array that determines the ideal position for the heliostat mirror, and reports the current power output.",
		Side:        geom.West, Pos: Left(0),
		Ports: []InterfacePort{
			in("Goal", gs.Behavior, gs.Four),
			in("Power", gs.Behavior, gs.Eight),
		},
	},
	{
		Name:        "Motor",
		Description: "Connects to a stepper motor that controls the position of the heliostat mirror. Send 1 to turn clockwise, 2 to turn counterclockwise.",
		Side:        geom.East, Pos: Right(0),
		Ports: []InterfacePort{
			in("Pos", gs.Behavior, gs.Four),
			out("Motor", gs.Behavior, gs.Two),
		},
	},
}

// Heliostat is the environment of the heliostat puzzle: the circuit must
// steer a mirror toward the sun to store energy.
//
type Heliostat struct {
	gs.BasePuzzle
	goal, power, pos, motor gs.Slot

	energy   int
	orbit    int // degrees
	position int
	eff      int
}

func newHeliostat(slots [][]gs.Slot) *Heliostat {
	return &Heliostat{
		goal:     slots[0][0],
		power:    slots[0][1],
		pos:      slots[1][0],
		motor:    slots[1][1],
		energy:   heliostatInitEnergy,
		position: heliostatInitPosition,
	}
}

// Energy returns the stored energy.
//
func (h *Heliostat) Energy() int { return h.energy }

// Position returns the mirror position, from 0 to 15.
//
func (h *Heliostat) Position() int { return h.position }

func (h *Heliostat) inShadow() bool { return h.orbit >= 135 && h.orbit <= 225 }

func (h *Heliostat) goalPosition() int {
	if h.inShadow() {
		return h.position
	}
	g := int(math.Round(heliostatPositions * -float64(h.orbit) / 360))
	return modFloor(g, heliostatPositions)
}

func (h *Heliostat) efficiency(goal int) int {
	if h.inShadow() {
		return 0
	}
	d := math.Abs(float64(h.position - goal))
	return int(math.Round(4 + 48*(math.Cos(d*math.Pi/8)+1)))
}

// TaskIsCompleted implements gridsim.PuzzleEval.
//
func (h *Heliostat) TaskIsCompleted(*gs.State) bool { return h.energy >= heliostatVictory }

// BeginTimeStep implements gridsim.PuzzleEval.
//
func (h *Heliostat) BeginTimeStep(s *gs.State) {
	goal := h.goalPosition()
	h.eff = h.efficiency(goal)
	s.SendBehavior(h.goal.Wire, uint32(goal))
	s.SendBehavior(h.power.Wire, uint32(h.eff))
	s.SendBehavior(h.pos.Wire, uint32(h.position))
}

// EndTimeStep implements gridsim.PuzzleEval.
//
func (h *Heliostat) EndTimeStep(s *gs.State) []gs.EvalError {
	h.energy += heliostatMaxPower * h.eff / 100
	h.energy = max(h.energy-heliostatDrain, 0)
	switch s.RecvBehavior(h.motor.Wire) {
	case 1:
		h.position = (h.position + 1) % heliostatPositions
	case 2:
		h.position = (h.position + heliostatPositions - 1) % heliostatPositions
	}
	h.orbit = (h.orbit + heliostatOrbitStep) % 360
	return nil
}

func modFloor(a, n int) int {
	return ((a % n) + n) % n
}
