// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package gridsim

import (
	"strconv"
	"strings"

	"github.com/db47h/gridsim/geom"
	"github.com/pkg/errors"
)

// ParseLoc parses a location of the form "x,y d" where d is one of the
// direction letters e, s, w or n. For example:
//
//	ParseLoc("3,-1 n") // returns Loc{geom.C(3, -1), geom.North}
//
func ParseLoc(s string) (Loc, error) {
	f := strings.Fields(s)
	if len(f) != 2 {
		return Loc{}, parseError(s, 0, "expected coordinates and direction")
	}
	return parseLoc(s, f[0], f[1])
}

func parseLoc(in, coords, dir string) (Loc, error) {
	xs, ys, ok := strings.Cut(coords, ",")
	if !ok {
		return Loc{}, parseError(in, strings.Index(in, coords), "expected x,y coordinates")
	}
	x, err := strconv.Atoi(xs)
	if err != nil {
		return Loc{}, parseError(in, strings.Index(in, coords), "invalid x coordinate")
	}
	y, err := strconv.Atoi(ys)
	if err != nil {
		return Loc{}, parseError(in, strings.Index(in, coords)+len(xs)+1, "invalid y coordinate")
	}
	if len(dir) != 1 {
		return Loc{}, parseError(in, strings.Index(in, dir), "invalid direction "+dir)
	}
	d, ok := geom.DirectionFromLetter(dir[0])
	if !ok {
		return Loc{}, parseError(in, strings.Index(in, dir), "invalid direction "+dir)
	}
	return L(x, y, d), nil
}

// ParseFragments parses a list of wire fragments separated by semicolons.
// Each fragment is written as a location followed by a shape name:
//
//	ParseFragments("0,0 e Stub; 1,0 w TurnRight; 1,0 s TurnLeft; 1,1 n Stub")
//
// Each fragment must appear only once.
//
func ParseFragments(desc string) (map[Loc]WireShape, error) {
	m := make(map[Loc]WireShape)
	pos := 0
	for _, entry := range strings.Split(desc, ";") {
		f := strings.Fields(entry)
		switch len(f) {
		case 0:
			pos += len(entry) + 1
			continue
		case 3:
		default:
			return nil, parseError(desc, pos, "expected coordinates, direction and shape")
		}
		l, err := parseLoc(desc, f[0], f[1])
		if err != nil {
			return nil, err
		}
		s, err := ParseWireShape(f[2])
		if err != nil {
			return nil, parseError(desc, pos+strings.Index(entry, f[2]), err.Error())
		}
		if _, ok := m[l]; ok {
			return nil, parseError(desc, pos, "duplicate fragment at "+l.String())
		}
		m[l] = s
		pos += len(entry) + 1
	}
	return m, nil
}

func parseError(in string, pos int, msg string) error {
	return errors.Errorf("in %q at pos %d: %s", in, pos+1, msg)
}
