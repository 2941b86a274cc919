// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package puzzle

import (
	gs "github.com/db47h/gridsim"
	"github.com/db47h/gridsim/geom"
)

const (
	turretPositions       = 8
	turretDegPerPosition  = 360 / turretPositions
	turretRadarDegPerStep = 45
	turretCooldown        = 30 // time steps
	turretTurnTime        = 3  // time steps per position
	turretDegPerStep      = turretDegPerPosition / turretTurnTime
	turretEnemyStartDist  = 255
	turretMaxDamage       = 5
)

type turretWave struct {
	timeStep, pos, speed uint32
}

var turretWaves = []turretWave{
	{0, 5, 2},
	{10, 3, 3},
	{60, 6, 2},
	{80, 2, 3},
	{90, 7, 3},
	{100, 0, 4},
}

var turretInterfaces = []Interface{
	{
		Name:        "Radar",
		Description: "Connects to the base's radar dish. Dir is the direction the dish is facing. Each time step, the distance of the closest enemy in that direction, if any, is sent to Dist.",
		Side:        geom.West, Pos: Left(1),
		Ports: []InterfacePort{
			in("Dir", gs.Behavior, gs.Four),
			in("Dist", gs.Event, gs.Eight),
		},
	},
	{
		Name:        "Cannon",
		Description: "Connects to the pulse cannon mounted on the turret. Send an event to Fire to destroy the closest enemy in the direction the turret is facing. Loaded signals when the cannon is ready to fire.",
		Side:        geom.East, Pos: Right(1),
		Ports: []InterfacePort{
			out("Fire", gs.Event, gs.Zero),
			in("Loaded", gs.Event, gs.Zero),
		},
	},
	{
		Name:        "Turret",
		Description: "Connects to the motor on the turret base. Send 1 to Rotate to turn clockwise, 0 to turn counterclockwise. Done signals when the turret has finished moving.",
		Side:        geom.South, Pos: Center,
		Ports: []InterfacePort{
			in("Face", gs.Behavior, gs.Four),
			out("Rotate", gs.Event, gs.One),
			in("Done", gs.Event, gs.Zero),
		},
	},
}

// Enemy is an enemy closing in on the base.
//
type Enemy struct {
	Pos, Dist, Speed uint32
}

// Turret is the environment of the defense turret puzzle: the circuit must
// track enemies on radar and shoot them down before they reach the base.
//
type Turret struct {
	gs.BasePuzzle
	dir, dist, fire, loaded, face, rotate, done gs.Slot

	radarDeg  uint32
	cooldown  uint32
	isLoaded  bool
	turn      int // remaining time steps, negative when turning counterclockwise
	turretDeg uint32
	turnDone  bool
	enemies   []Enemy
	appeared  int
	damage    uint32
}

func newTurret(slots [][]gs.Slot) *Turret {
	return &Turret{
		dir:      slots[0][0],
		dist:     slots[0][1],
		fire:     slots[1][0],
		loaded:   slots[1][1],
		face:     slots[2][0],
		rotate:   slots[2][1],
		done:     slots[2][2],
		isLoaded: true,
	}
}

func degToPosition(deg, per uint32) uint32 {
	return (deg + per/2) / per % turretPositions
}

// Position returns the direction the turret is facing, from 0 to 7.
//
func (t *Turret) Position() uint32 { return degToPosition(t.turretDeg, turretDegPerPosition) }

// Angle returns the turret angle in degrees.
//
func (t *Turret) Angle() uint32 { return t.turretDeg }

// RadarPosition returns the direction the radar dish is facing.
//
func (t *Turret) RadarPosition() uint32 { return degToPosition(t.radarDeg, turretDegPerPosition) }

// Cooldown returns the number of time steps until the cannon is loaded.
//
func (t *Turret) Cooldown() uint32 { return t.cooldown }

// Damage returns the number of enemies that reached the base.
//
func (t *Turret) Damage() uint32 { return t.damage }

// Enemies returns the enemies currently closing in.
//
func (t *Turret) Enemies() []Enemy { return t.enemies }

func (t *Turret) closest(pos uint32) int {
	idx, dist := -1, uint32(turretEnemyStartDist)
	for i, e := range t.enemies {
		if e.Pos == pos && e.Dist <= dist {
			idx, dist = i, e.Dist
		}
	}
	return idx
}

// SecondsPerTimeStep implements gridsim.PuzzleEval.
//
func (t *Turret) SecondsPerTimeStep() float64 { return 0.05 }

// TaskIsCompleted implements gridsim.PuzzleEval.
//
func (t *Turret) TaskIsCompleted(*gs.State) bool {
	return t.appeared == len(turretWaves) && len(t.enemies) == 0
}

// BeginTimeStep implements gridsim.PuzzleEval.
//
func (t *Turret) BeginTimeStep(s *gs.State) {
	for t.appeared < len(turretWaves) && turretWaves[t.appeared].timeStep <= s.TimeStep() {
		w := turretWaves[t.appeared]
		t.enemies = append(t.enemies, Enemy{Pos: w.pos, Dist: turretEnemyStartDist, Speed: w.speed})
		t.appeared++
	}
	radar := t.RadarPosition()
	s.SendBehavior(t.dir.Wire, radar)
	if i := t.closest(radar); i >= 0 {
		s.SendEvent(t.dist.Wire, t.enemies[i].Dist)
	}
	s.SendBehavior(t.face.Wire, t.Position())
	if t.isLoaded {
		s.SendEvent(t.loaded.Wire, 0)
		t.isLoaded = false
	}
	if t.turnDone {
		s.SendEvent(t.done.Wire, 0)
		t.turnDone = false
	}
}

// EndCycle implements gridsim.PuzzleEval.
//
func (t *Turret) EndCycle(s *gs.State) []gs.EvalError {
	var errs []gs.EvalError
	if v, ok := s.RecvEvent(t.rotate.Wire); ok {
		switch {
		case t.turn != 0:
			errs = append(errs, s.FatalPortError(t.rotate.Loc, "Cannot rotate turret while it is still moving."))
		case v == 0:
			t.turn = -turretTurnTime
		default:
			t.turn = turretTurnTime
		}
	}
	if s.HasEvent(t.fire.Wire) {
		if t.cooldown > 0 {
			errs = append(errs, s.FatalPortError(t.fire.Loc, "Cannot fire cannon while it is still cooling down."))
		} else {
			t.cooldown = turretCooldown
			if i := t.closest(t.Position()); i >= 0 {
				t.enemies = append(t.enemies[:i], t.enemies[i+1:]...)
			}
		}
	}
	return errs
}

// EndTimeStep implements gridsim.PuzzleEval.
//
func (t *Turret) EndTimeStep(s *gs.State) []gs.EvalError {
	switch {
	case t.turn > 0:
		t.turretDeg = (t.turretDeg + turretDegPerStep) % 360
		t.turn--
		t.turnDone = t.turn == 0
	case t.turn < 0:
		t.turretDeg = (t.turretDeg + 360 - turretDegPerStep) % 360
		t.turn++
		t.turnDone = t.turn == 0
	}
	if t.cooldown > 0 {
		t.cooldown--
		t.isLoaded = t.cooldown == 0
	}
	t.radarDeg = (t.radarDeg + turretRadarDegPerStep) % 360

	n := 0
	for _, e := range t.enemies {
		e.Dist -= min(e.Speed, e.Dist)
		if e.Dist == 0 {
			t.damage++
			continue
		}
		t.enemies[n] = e
		n++
	}
	t.enemies = t.enemies[:n]
	if t.damage >= turretMaxDamage {
		return []gs.EvalError{s.FatalError("Base has taken too much damage")}
	}
	return nil
}
