// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package puzzle_test

import (
	"testing"

	gs "github.com/db47h/gridsim"
	"github.com/db47h/gridsim/geom"
	"github.com/db47h/gridsim/puzzle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLimitThrust(t *testing.T) {
	td := []struct {
		port, stbd, fuel uint32
		wp, ws           uint32
	}{
		{3, 4, 10, 3, 4},
		{10, 10, 10, 5, 5},
		{10, 2, 6, 6, 0},
		{5, 4, 8, 4, 4},
		{4, 5, 8, 4, 4},
		{7, 6, 10, 5, 5},
		{3, 3, 0, 0, 0},
	}
	for _, d := range td {
		p, s := puzzle.LimitThrust(d.port, d.stbd, d.fuel)
		assert.Equal(t, d.wp, p, "%v", d)
		assert.Equal(t, d.ws, s, "%v", d)
	}
}

func TestWindAt(t *testing.T) {
	for alt, w := range map[float64]int{0: 0, 10: 1, 50: -2, 100: 2, 200: -1, 250: -3} {
		assert.Equal(t, w, puzzle.WindAt(alt), "%v", alt)
	}
}

func TestLander(t *testing.T) {
	// free fall
	r := newRig(puzzle.CommandLander, nil, nil)
	l := r.c.Puzzle().(*puzzle.Lander)
	assert.Equal(t, uint32(250), l.Altitude())
	assert.Equal(t, gs.Failure, r.run(100).Kind)
	errs := r.c.Errors()
	require.Len(t, errs, 2)
	for _, e := range errs {
		assert.False(t, e.Fatal)
		assert.Equal(t, uint32(23), e.TimeStep)
	}
	assert.Equal(t, "Landed at too high a speed (13 d/t is above the safe limit of 5 d/t).", errs[0].Message)
	assert.Equal(t, "Landed at too shallow an angle (75° is not in the safe range of 85° to 95°).", errs[1].Message)
	assert.Equal(t, uint32(250), l.Fuel())

	// brake near the ground and fight the wind
	prev := 251
	r = newRig(puzzle.CommandLander, nil, func(r *rig, s *gs.State) {
		alt, angle := int(s.RecvBehavior(r.w(0, 0))), int(s.RecvBehavior(r.w(0, 1)))
		v := alt - prev
		prev = alt
		thrust := 0
		if alt <= 50 {
			thrust = 20
			if v < -4 {
				thrust = 30
			}
		}
		d := min(max(90-angle, -4), 4)
		var port, stbd int
		switch {
		case thrust > 0:
			port = min(15, (thrust+d)/2)
			stbd = min(15, thrust-port)
		case d >= 4:
			port = d
		case d <= -4:
			stbd = -d
		}
		s.SendBehavior(r.w(1, 0), uint32(port))
		s.SendBehavior(r.w(1, 1), uint32(stbd))
	})
	res := r.run(100)
	require.Equal(t, gs.Victory, res.Kind, "%v", r.c.Errors())
	assert.Equal(t, uint32(0), res.Score, "manual inputs")
	l = r.c.Puzzle().(*puzzle.Lander)
	assert.Equal(t, uint32(0), l.Altitude())
	assert.Less(t, l.Fuel(), uint32(250))
	assert.GreaterOrEqual(t, l.Velocity(), -5.0)
}

func turretEval() func(r *rig, s *gs.State) {
	var (
		dists  = [8]int{-1, -1, -1, -1, -1, -1, -1, -1}
		loaded bool
		moving bool
	)
	return func(r *rig, s *gs.State) {
		dir := s.RecvBehavior(r.w(0, 0))
		dists[dir] = -1
		if v, ok := s.RecvEvent(r.w(0, 1)); ok {
			dists[dir] = int(v)
		}
		if s.HasEvent(r.w(1, 1)) {
			loaded = true
		}
		if s.HasEvent(r.w(2, 2)) {
			moving = false
		}
		if moving {
			return
		}
		best := -1
		for p, d := range dists {
			if d >= 0 && (best < 0 || d < dists[best]) {
				best = p
			}
		}
		if best < 0 {
			return
		}
		switch face := int(s.RecvBehavior(r.w(2, 0))); {
		case face != best:
			var cw uint32
			if (best-face+8)%8 <= 4 {
				cw = 1
			}
			s.SendEvent(r.w(2, 1), cw)
			moving = true
		case loaded:
			s.SendEvent(r.w(1, 0), 0)
			loaded = false
			dists[best] = -1
		}
	}
}

func TestTurret(t *testing.T) {
	r := newRig(puzzle.CommandTurret, nil, turretEval())
	res := r.run(1000)
	require.Equal(t, gs.Victory, res.Kind, "%v", r.c.Errors())
	assert.Equal(t, uint32(0), res.Score)
	assert.Equal(t, uint32(165), r.c.TimeStep())
	tu := r.c.Puzzle().(*puzzle.Turret)
	assert.Equal(t, uint32(0), tu.Damage())
	assert.Empty(t, tu.Enemies())

	// idle circuit
	r = newRig(puzzle.CommandTurret, nil, nil)
	assert.Equal(t, gs.Continue, r.run(1).Kind)
	tu = r.c.Puzzle().(*puzzle.Turret)
	assert.Equal(t, []puzzle.Enemy{{Pos: 5, Dist: 253, Speed: 2}}, tu.Enemies())
	assert.Equal(t, uint32(1), tu.RadarPosition())
	assert.Equal(t, gs.Failure, r.run(1000).Kind)
	errs := r.c.Errors()
	require.Len(t, errs, 1)
	assert.True(t, errs[0].Fatal)
	assert.Equal(t, uint32(174), errs[0].TimeStep)
	assert.Equal(t, "Base has taken too much damage", errs[0].Message)
	assert.Equal(t, uint32(5), r.c.Puzzle().(*puzzle.Turret).Damage())
}

func TestTurretErrors(t *testing.T) {
	td := []struct {
		i, j int
		msg  string
	}{
		{2, 1, "Cannot rotate turret while it is still moving."},
		{1, 0, "Cannot fire cannon while it is still cooling down."},
	}
	for _, d := range td {
		r := newRig(puzzle.CommandTurret, nil, func(r *rig, s *gs.State) {
			s.SendEvent(r.w(d.i, d.j), 0)
		})
		assert.Equal(t, gs.Failure, r.run(10).Kind)
		errs := r.c.Errors()
		require.Len(t, errs, 1, d.msg)
		assert.True(t, errs[0].Fatal)
		assert.Equal(t, uint32(1), errs[0].TimeStep)
		assert.Equal(t, d.msg, errs[0].Message)
		require.NotNil(t, errs[0].Port)
		assert.Equal(t, r.slots[d.i][d.j].Loc, *errs[0].Port)
	}
}

// sapperRoute issues one drone command per Ready event: F moves forward, R
// and L turn clockwise and counterclockwise.
//
func sapperRoute(route string) func(r *rig, s *gs.State) {
	i := 0
	return func(r *rig, s *gs.State) {
		if !s.HasEvent(r.w(2, 0)) || i >= len(route) {
			return
		}
		switch route[i] {
		case 'F':
			s.SendEvent(r.w(2, 1), 0)
		case 'R':
			s.SendEvent(r.w(2, 2), 1)
		case 'L':
			s.SendEvent(r.w(2, 2), 0)
		}
		i++
	}
}

const sapperSolution = "LFFRFLFFFRFFRFFFLFFLFRFLFFLFRFFRFRRFLFFLFRFFRFLFRFFRFFFLFFLFFFRFLFFFFRFLFRFLFFFRFFRFLFRFFLFFLFFFLFRRFRFFFRFFRFFLFRFLFFLFFFRFLFRFLFFRFFFRFFRFLFFLFFLFRFFRFFFRRFFFLFFLFRFFRFFRFLFFLFFFFFRFLFFRFLFFRFLFRFFRFFRFLFFLFRFLFFLFFFFF"

func TestSapper(t *testing.T) {
	r := newRig(puzzle.CommandSapper, nil, sapperRoute(sapperSolution))
	res := r.run(1000)
	require.Equal(t, gs.Victory, res.Kind, "%v", r.c.Errors())
	assert.Equal(t, uint32(0), res.Score)
	assert.Equal(t, uint32(580), r.c.TimeStep())
	p := r.c.Puzzle().(*puzzle.Sapper)
	assert.Equal(t, [4]bool{true, true, true, true}, p.SectionsArmed())
	assert.Equal(t, geom.C(1, 14), p.Position())
	assert.Equal(t, int8(-3), puzzle.MazeCell(p.Position()))

	// straight ahead into a mine
	r = newRig(puzzle.CommandSapper, nil, sapperRoute("FFFFF"))
	assert.Equal(t, gs.Continue, r.run(1).Kind)
	assert.Equal(t, uint32(0), r.c.WireValue(r.w(0, 0)), "scan")
	assert.Equal(t, uint32(0), r.c.WireValue(r.w(1, 0)), "face")
	assert.Equal(t, uint32(8), r.c.WireValue(r.w(1, 1)), "x")
	assert.Equal(t, uint32(8), r.c.WireValue(r.w(1, 2)), "y")
	assert.Equal(t, gs.Failure, r.run(100).Kind)
	errs := r.c.Errors()
	require.Len(t, errs, 1)
	assert.True(t, errs[0].Fatal)
	assert.Equal(t, uint32(11), errs[0].TimeStep)
	assert.Equal(t, "Hit a mine!", errs[0].Message)
	assert.Equal(t, uint32(1), r.c.WireValue(r.w(0, 0)), "scan")
	p = r.c.Puzzle().(*puzzle.Sapper)
	assert.Equal(t, geom.C(8, 3), p.Position())
	assert.Equal(t, int8(1), puzzle.MazeCell(p.Position()))
}

func TestSapperErrors(t *testing.T) {
	td := []struct {
		j   int
		msg string
	}{
		{1, "Cannot move drone while it is still moving."},
		{2, "Cannot turn drone while it is still moving."},
	}
	for _, d := range td {
		r := newRig(puzzle.CommandSapper, nil, func(r *rig, s *gs.State) {
			s.SendEvent(r.w(2, d.j), 0)
		})
		assert.Equal(t, gs.Failure, r.run(10).Kind)
		errs := r.c.Errors()
		require.Len(t, errs, 1, d.msg)
		assert.Equal(t, uint32(1), errs[0].TimeStep)
		assert.Equal(t, d.msg, errs[0].Message)
	}
	assert.Equal(t, int8(0), puzzle.MazeCell(geom.C(-1, 3)))
}
