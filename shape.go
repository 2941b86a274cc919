// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package gridsim

import (
	"github.com/db47h/gridsim/geom"
	"github.com/pkg/errors"
)

// WireShape is the shape of a wire fragment within its cell, seen from the
// side the fragment occupies.
//
type WireShape uint8

// Wire shapes. Left and right are relative to a traveller entering the cell
// from the fragment's side.
//
const (
	// Stub is a fragment that ends at the cell edge. Ports attach to stubs.
	Stub WireShape = iota
	// Straight joins the fragment to the opposite side.
	Straight
	// TurnLeft joins the fragment to the side clockwise from it.
	TurnLeft
	// TurnRight joins the fragment to the side counter-clockwise from it.
	TurnRight
	// SplitLeft joins the fragment, the opposite side and the clockwise side.
	SplitLeft
	// SplitRight joins the fragment, the opposite side and the
	// counter-clockwise side.
	SplitRight
	// SplitTee is the stem of a tee: the fragment joins both of its adjacent
	// sides.
	SplitTee
	// SplitFour joins all four sides of the cell.
	SplitFour
	// Cross carries two wires through the cell without connecting them.
	Cross
)

var shapeNames = [...]string{"Stub", "Straight", "TurnLeft", "TurnRight",
	"SplitLeft", "SplitRight", "SplitTee", "SplitFour", "Cross"}

func (s WireShape) String() string {
	if int(s) < len(shapeNames) {
		return shapeNames[s]
	}
	return "WireShape(?)"
}

// ParseWireShape parses a shape name as returned by WireShape.String.
//
func ParseWireShape(str string) (WireShape, error) {
	for i, n := range shapeNames {
		if n == str {
			return WireShape(i), nil
		}
	}
	return 0, errors.Errorf("invalid wire shape %q", str)
}

// Mirror returns the shape as seen in a mirror: left and right swap.
//
func (s WireShape) Mirror() WireShape {
	switch s {
	case TurnLeft:
		return TurnRight
	case TurnRight:
		return TurnLeft
	case SplitLeft:
		return SplitRight
	case SplitRight:
		return SplitLeft
	}
	return s
}

// Connections returns the other sides of the same cell that a fragment of
// shape s at side d is electrically joined to.
//
func (s WireShape) Connections(d geom.Direction) []geom.Direction {
	switch s {
	case Straight, Cross:
		return []geom.Direction{d.Neg()}
	case TurnLeft:
		return []geom.Direction{d.RotateCW()}
	case TurnRight:
		return []geom.Direction{d.RotateCCW()}
	case SplitLeft:
		return []geom.Direction{d.Neg(), d.RotateCW()}
	case SplitRight:
		return []geom.Direction{d.Neg(), d.RotateCCW()}
	case SplitTee:
		return []geom.Direction{d.RotateCW(), d.RotateCCW()}
	case SplitFour:
		return []geom.Direction{d.Neg(), d.RotateCW(), d.RotateCCW()}
	}
	return nil
}

// SideShape is a fragment shape at a given side of a cell.
//
type SideShape struct {
	Dir   geom.Direction
	Shape WireShape
}

// Layout returns the fragments that must coexist in the same cell with a
// fragment of shape s at side d, excluding d itself. A Stub requires nothing.
//
func (s WireShape) Layout(d geom.Direction) []SideShape {
	switch s {
	case Straight:
		return []SideShape{{d.Neg(), Straight}}
	case TurnLeft:
		return []SideShape{{d.RotateCW(), TurnRight}}
	case TurnRight:
		return []SideShape{{d.RotateCCW(), TurnLeft}}
	case SplitTee:
		return []SideShape{{d.RotateCW(), SplitRight}, {d.RotateCCW(), SplitLeft}}
	case SplitLeft:
		return []SideShape{{d.RotateCW(), SplitTee}, {d.Neg(), SplitRight}}
	case SplitRight:
		return []SideShape{{d.RotateCCW(), SplitTee}, {d.Neg(), SplitLeft}}
	case SplitFour, Cross:
		return []SideShape{{d.RotateCW(), s}, {d.Neg(), s}, {d.RotateCCW(), s}}
	}
	return nil
}
