// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package geom

import "github.com/pkg/errors"

// Direction designates one side of a grid cell.
//
type Direction uint8

// Cell sides, in clockwise order.
//
const (
	East Direction = iota
	South
	West
	North
)

// AllDirections lists the four sides in clockwise order starting East.
//
var AllDirections = [4]Direction{East, South, West, North}

var dirDeltas = [4]Coords{{1, 0}, {0, 1}, {-1, 0}, {0, -1}}

// Delta returns the offset to the neighboring cell on side d.
//
func (d Direction) Delta() Coords { return dirDeltas[d&3] }

// RotateCW returns d rotated a quarter turn clockwise.
//
func (d Direction) RotateCW() Direction { return (d + 1) & 3 }

// RotateCCW returns d rotated a quarter turn counter-clockwise.
//
func (d Direction) RotateCCW() Direction { return (d + 3) & 3 }

// Neg returns the opposite side.
//
func (d Direction) Neg() Direction { return (d + 2) & 3 }

// FlipVert mirrors d across the horizontal axis (North and South swap).
//
func (d Direction) FlipVert() Direction {
	if d == North || d == South {
		return d.Neg()
	}
	return d
}

// FlipHorz mirrors d across the vertical axis (East and West swap).
//
func (d Direction) FlipHorz() Direction {
	if d == East || d == West {
		return d.Neg()
	}
	return d
}

// IsVertical returns true for North and South.
//
func (d Direction) IsVertical() bool { return d == North || d == South }

var dirNames = [4]string{"East", "South", "West", "North"}

func (d Direction) String() string { return dirNames[d&3] }

// Letter returns the single lowercase letter used for d in location keys.
//
func (d Direction) Letter() byte { return "eswn"[d&3] }

// DirectionFromLetter is the inverse of Direction.Letter.
//
func DirectionFromLetter(b byte) (Direction, bool) {
	switch b {
	case 'e':
		return East, true
	case 's':
		return South, true
	case 'w':
		return West, true
	case 'n':
		return North, true
	}
	return 0, false
}

// ParseDirection parses a direction name as returned by Direction.String.
//
func ParseDirection(s string) (Direction, error) {
	for i, n := range dirNames {
		if n == s {
			return Direction(i), nil
		}
	}
	return 0, errors.Errorf("invalid direction %q", s)
}
