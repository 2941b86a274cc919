// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package geom_test

import (
	"testing"
	"testing/quick"

	"github.com/db47h/gridsim/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func allOrientations() []geom.Orientation {
	var os []geom.Orientation
	for _, m := range []bool{false, true} {
		for r := 0; r < 4; r++ {
			os = append(os, geom.NewOrientation(r, m))
		}
	}
	return os
}

func TestDirection(t *testing.T) {
	for _, d := range geom.AllDirections {
		assert.Equal(t, d, d.RotateCW().RotateCCW())
		assert.Equal(t, d.Neg(), d.RotateCW().RotateCW())
		assert.Equal(t, geom.Coords{}, d.Delta().Add(d.Neg().Delta()))
		l, ok := geom.DirectionFromLetter(d.Letter())
		assert.True(t, ok)
		assert.Equal(t, d, l)
		p, err := geom.ParseDirection(d.String())
		require.NoError(t, err)
		assert.Equal(t, d, p)
	}
	assert.Equal(t, geom.South, geom.East.RotateCW())
	assert.Equal(t, geom.North, geom.South.FlipVert())
	assert.Equal(t, geom.East, geom.East.FlipVert())
	assert.Equal(t, geom.West, geom.East.FlipHorz())
	assert.Equal(t, geom.C(4, 5), geom.C(3, 5).Plus(geom.East))
}

func TestOrientationString(t *testing.T) {
	td := []struct {
		o    geom.Orientation
		want string
	}{
		{geom.Orientation{}, "f0"},
		{geom.Orientation{}.RotateCCW(), "f3"},
		{geom.Orientation{}.FlipHorz(), "t2"},
		{geom.Orientation{}.FlipVert(), "t0"},
	}
	for _, d := range td {
		t.Run(d.want, func(t *testing.T) {
			assert.Equal(t, d.want, d.o.String())
			o, err := geom.ParseOrientation(d.want)
			require.NoError(t, err)
			assert.Equal(t, d.o, o)
		})
	}
	_, err := geom.ParseOrientation("x9")
	assert.Error(t, err)
}

func TestOrientationApply(t *testing.T) {
	o := geom.Orientation{}
	for _, d := range geom.AllDirections {
		assert.Equal(t, d, o.Apply(d))
		assert.Equal(t, d.RotateCW(), o.RotateCW().Apply(d))
		assert.Equal(t, d.RotateCCW(), o.RotateCCW().Apply(d))
		assert.Equal(t, d.FlipVert(), o.FlipVert().Apply(d))
		assert.Equal(t, d.FlipHorz(), o.FlipHorz().Apply(d))
	}
	flipRot := o.FlipVert().RotateCW()
	assert.Equal(t, o, flipRot.Compose(flipRot))
	assert.Equal(t, o.FlipHorz(), o.RotateCW().FlipVert().RotateCCW())
}

// Composition must agree with successive application, for directions as well
// as for offsets within a chip footprint.
//
func TestOrientationCompose(t *testing.T) {
	size := geom.Size{W: 3, H: 2}
	for _, a := range allOrientations() {
		for _, b := range allOrientations() {
			ab := a.Compose(b)
			for _, d := range geom.AllDirections {
				assert.Equal(t, a.Apply(b.Apply(d)), ab.Apply(d), "%v*%v*%v", a, b, d)
			}
			geom.RectAt(geom.Coords{}, size).Cells(func(c geom.Coords) {
				want := a.TransformInSize(b.TransformInSize(c, size), b.ApplySize(size))
				assert.Equal(t, want, ab.TransformInSize(c, size))
			})
		}
	}
}

func TestTransformInSize(t *testing.T) {
	size := geom.Size{W: 2, H: 3}
	for _, o := range allOrientations() {
		out := geom.RectAt(geom.Coords{}, o.ApplySize(size))
		seen := make(map[geom.Coords]bool)
		geom.RectAt(geom.Coords{}, size).Cells(func(c geom.Coords) {
			tc := o.TransformInSize(c, size)
			assert.True(t, out.Contains(tc), "%v: %v -> %v", o, c, tc)
			assert.False(t, seen[tc])
			seen[tc] = true
		})
	}
	assert.Equal(t, geom.C(2, 0), geom.NewOrientation(1, false).TransformInSize(geom.C(0, 0), size))
}

func TestRect(t *testing.T) {
	r := geom.Rect{X: 1, Y: 2, W: 3, H: 4}
	assert.True(t, r.Contains(geom.C(1, 2)))
	assert.True(t, r.Contains(geom.C(3, 5)))
	assert.False(t, r.Contains(geom.C(4, 5)))
	assert.True(t, r.ContainsRect(geom.Rect{X: 2, Y: 3, W: 2, H: 2}))
	assert.False(t, r.ContainsRect(geom.Rect{X: 2, Y: 3, W: 3, H: 2}))
	assert.True(t, r.ContainsRect(geom.Rect{X: 100, Y: 100}))
	assert.True(t, r.Intersects(geom.Rect{X: 3, Y: 5, W: 5, H: 5}))
	assert.False(t, r.Intersects(geom.Rect{X: 4, Y: 2, W: 5, H: 5}))
	assert.Equal(t, geom.Rect{X: 0, Y: 1, W: 5, H: 6}, r.Expand(1))
	n := 0
	r.Cells(func(geom.Coords) { n++ })
	assert.Equal(t, r.Area(), n)
}

func TestFixed(t *testing.T) {
	assert.Equal(t, geom.FixedOne, geom.NewFixed(1<<40))
	assert.Equal(t, -geom.FixedOne, geom.NewFixed(-(1 << 40)))
	assert.Equal(t, geom.FixedFromFloat(0.5), geom.NewFixed(500000000))
	assert.Equal(t, geom.FixedFromFloat(-0.25), geom.FixedFromRatio(-1, 4))
	assert.Equal(t, geom.NewFixed(333333333), geom.FixedFromRatio(1, 3))
	assert.Equal(t, geom.NewFixed(666666667), geom.FixedFromRatio(2, 3))
	assert.Equal(t, geom.FixedOne, geom.FixedFromRatio(5, 3))
	assert.Equal(t, geom.FixedOne, geom.FixedFromRatio(3, 0))
	assert.Equal(t, -geom.FixedOne, geom.FixedFromRatio(-3, 0))
	assert.Equal(t, geom.FixedZero, geom.FixedFromRatio(0, 0))
	assert.Equal(t, geom.FixedOne, geom.FixedFromFloat(7))
	assert.Equal(t, geom.FixedFromFloat(0.25), geom.FixedFromFloat(0.5).Mul(geom.FixedFromFloat(0.5)))
	assert.Equal(t, geom.FixedOne, geom.FixedFromFloat(0.75).Add(geom.FixedFromFloat(0.75)))
	assert.Equal(t, -geom.FixedOne, geom.FixedFromFloat(-0.75).Sub(geom.FixedFromFloat(0.75)))
	assert.Equal(t, geom.FixedFromFloat(0.5), geom.FixedFromFloat(-0.5).Abs())
}

func TestFixedEncode(t *testing.T) {
	f := func(v int32) bool {
		x := geom.NewFixed(int64(v))
		return geom.DecodeFixed(x.Encode()) == x && geom.FixedFromFloat(x.Float()) == x
	}
	if err := quick.Check(f, nil); err != nil {
		t.Error(err)
	}
}
