// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package save

import (
	"math"
	"os"
	"slices"

	"github.com/db47h/gridsim/puzzle"
	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
)

// ScorePoint is a locally achieved (area, score) pair. Lower is better on
// both axes.
//
type ScorePoint struct {
	Area  int32
	Score uint32
}

// ScoreCurve is a Pareto frontier of score points, sorted by increasing area
// and strictly decreasing score.
//
type ScoreCurve struct {
	points []ScorePoint
}

// NewScoreCurve returns the frontier of the given points.
//
func NewScoreCurve(points ...ScorePoint) ScoreCurve {
	ps := slices.Clone(points)
	return ScoreCurve{fix(ps)}
}

// IsEmpty reports whether the curve holds no points.
//
func (c ScoreCurve) IsEmpty() bool { return len(c.points) == 0 }

// Points returns the points of the curve. The slice must not be modified.
//
func (c ScoreCurve) Points() []ScorePoint { return c.points }

// Insert adds a point to the curve. Dominated points are dropped. Copies of
// the curve made before the call are left untouched.
//
func (c *ScoreCurve) Insert(p ScorePoint) {
	c.points = fix(append(slices.Clip(c.points), p))
}

func fix(ps []ScorePoint) []ScorePoint {
	slices.SortFunc(ps, func(a, b ScorePoint) int {
		if a.Area != b.Area {
			return int(a.Area) - int(b.Area)
		}
		return cmpU32(a.Score, b.Score)
	})
	best := int64(math.MaxInt64)
	out := ps[:0]
	for _, p := range ps {
		if int64(p.Score) < best {
			best = int64(p.Score)
			out = append(out, p)
		}
	}
	return out
}

// ScoreCurveMap holds the score curve of each puzzle.
//
type ScoreCurveMap struct {
	m map[puzzle.Puzzle]ScoreCurve
}

// NewScoreCurveMap returns an empty map.
//
func NewScoreCurveMap() *ScoreCurveMap {
	return &ScoreCurveMap{m: make(map[puzzle.Puzzle]ScoreCurve)}
}

// Get returns the curve for p, which may be empty.
//
func (m *ScoreCurveMap) Get(p puzzle.Puzzle) ScoreCurve { return m.m[p] }

// Set replaces the curve for p. Setting an empty curve removes p.
//
func (m *ScoreCurveMap) Set(p puzzle.Puzzle, c ScoreCurve) {
	if c.IsEmpty() {
		delete(m.m, p)
		return
	}
	m.m[p] = c
}

// Insert adds a point to the curve of p.
//
func (m *ScoreCurveMap) Insert(p puzzle.Puzzle, area int32, score uint32) {
	c := m.m[p]
	c.Insert(ScorePoint{area, score})
	m.m[p] = c
}

// Len returns the number of puzzles with a non-empty curve.
//
func (m *ScoreCurveMap) Len() int { return len(m.m) }

// EncodeScores returns the TOML form of m: one key per puzzle name, holding
// an array of [area, score] pairs.
//
func EncodeScores(m *ScoreCurveMap) ([]byte, error) {
	doc := make(map[string][][2]int64, len(m.m))
	for p, c := range m.m {
		ps := make([][2]int64, 0, len(c.points))
		for _, pt := range c.points {
			ps = append(ps, [2]int64{int64(pt.Area), int64(pt.Score)})
		}
		doc[p.String()] = ps
	}
	b, err := toml.Marshal(doc)
	return b, errors.Wrap(err, "could not serialize scores")
}

// DecodeScores parses a TOML score document. Unknown puzzle names are an
// error.
//
func DecodeScores(b []byte) (*ScoreCurveMap, error) {
	var doc map[string][][2]int64
	if err := toml.Unmarshal(b, &doc); err != nil {
		return nil, errors.Wrap(err, "could not deserialize scores")
	}
	m := NewScoreCurveMap()
	for name, ps := range doc {
		p, err := puzzle.Parse(name)
		if err != nil {
			return nil, errors.Wrap(err, "could not deserialize scores")
		}
		pts := make([]ScorePoint, 0, len(ps))
		for _, v := range ps {
			if v[0] < math.MinInt32 || v[0] > math.MaxInt32 || v[1] < 0 || v[1] > math.MaxUint32 {
				return nil, errors.Errorf("could not deserialize scores: point %v out of range", v)
			}
			pts = append(pts, ScorePoint{int32(v[0]), uint32(v[1])})
		}
		m.Set(p, NewScoreCurve(pts...))
	}
	return m, nil
}

// LoadScores reads a score file. A missing file yields an empty map.
//
func LoadScores(name string) (*ScoreCurveMap, error) {
	b, err := os.ReadFile(name)
	if err != nil {
		if os.IsNotExist(err) {
			return NewScoreCurveMap(), nil
		}
		return nil, errors.Wrap(err, "could not read score file")
	}
	return DecodeScores(b)
}

// SaveScores writes a score file.
//
func SaveScores(name string, m *ScoreCurveMap) error {
	b, err := EncodeScores(m)
	if err != nil {
		return err
	}
	return errors.Wrap(os.WriteFile(name, b, 0644), "could not write score file")
}
