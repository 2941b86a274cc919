// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package gridsim

import (
	"strconv"

	"github.com/db47h/gridsim/geom"
)

// Loc identifies one side of a grid cell. Ports and wire fragments are both
// keyed by Loc.
//
type Loc struct {
	Coords geom.Coords
	Dir    geom.Direction
}

// L is a shorthand for Loc{geom.C(x, y), dir}.
//
func L(x, y int, dir geom.Direction) Loc {
	return Loc{geom.C(x, y), dir}
}

// Facing returns the Loc on the other side of the cell edge: the neighboring
// cell in direction Dir, looking back.
//
func (l Loc) Facing() Loc {
	return Loc{l.Coords.Plus(l.Dir), l.Dir.Neg()}
}

// Side returns the Loc for side d of the same cell.
//
func (l Loc) Side(d geom.Direction) Loc {
	return Loc{l.Coords, d}
}

// Less orders locations by cell (row-major) then by direction.
//
func (l Loc) Less(o Loc) bool {
	if l.Coords != o.Coords {
		return l.Coords.Less(o.Coords)
	}
	return l.Dir < o.Dir
}

func (l Loc) String() string {
	return l.Coords.String() + ":" + string(l.Dir.Letter())
}

// PortFlow is the direction of data through a port.
//
type PortFlow uint8

// Port flows.
//
const (
	Send PortFlow = iota
	Recv
)

func (f PortFlow) String() string {
	if f == Send {
		return "Send"
	}
	return "Recv"
}

// PortColor is the kind of data a port carries.
//
type PortColor uint8

// Port colors.
//
const (
	Behavior PortColor = iota
	Event
	AnalogColor
)

func (c PortColor) String() string {
	switch c {
	case Behavior:
		return "Behavior"
	case Event:
		return "Event"
	}
	return "Analog"
}

// PortSpec describes a port at a fixed location.
//
// In a ChipSpec, Loc is relative to the chip's unrotated top-left cell. Once
// placed on a grid it is absolute.
//
type PortSpec struct {
	Flow    PortFlow
	Color   PortColor
	Loc     Loc
	MaxSize WireSize
}

// ConstraintKind enumerates the wire size constraints.
//
type ConstraintKind uint8

// Constraint kinds.
//
const (
	// Size of Loc's wire is exactly Size.
	ConstraintExact ConstraintKind = iota
	// Size of Loc's wire is at least Size.
	ConstraintAtLeast
	// Size of Loc's wire is at most Size.
	ConstraintAtMost
	// Loc and Other are on wires of the same size.
	ConstraintEqual
	// Loc's wire is twice the size of Other's wire.
	ConstraintDouble
)

// A PortConstraint restricts the size of the wires attached to one or two
// ports.
//
type PortConstraint struct {
	Kind  ConstraintKind
	Loc   Loc
	Other Loc
	Size  WireSize
}

// Exact returns a ConstraintExact constraint.
//
func Exact(l Loc, s WireSize) PortConstraint {
	return PortConstraint{Kind: ConstraintExact, Loc: l, Size: s}
}

// MinSize returns a ConstraintAtLeast constraint.
//
func MinSize(l Loc, s WireSize) PortConstraint {
	return PortConstraint{Kind: ConstraintAtLeast, Loc: l, Size: s}
}

// MaxSize returns a ConstraintAtMost constraint.
//
func MaxSize(l Loc, s WireSize) PortConstraint {
	return PortConstraint{Kind: ConstraintAtMost, Loc: l, Size: s}
}

// Equal returns a ConstraintEqual constraint.
//
func Equal(l, other Loc) PortConstraint {
	return PortConstraint{Kind: ConstraintEqual, Loc: l, Other: other}
}

// Double returns a ConstraintDouble constraint: l's wire is twice as wide as
// other's.
//
func Double(l, other Loc) PortConstraint {
	return PortConstraint{Kind: ConstraintDouble, Loc: l, Other: other}
}

func (c PortConstraint) String() string {
	switch c.Kind {
	case ConstraintExact:
		return "Exact(" + c.Loc.String() + ", " + c.Size.String() + ")"
	case ConstraintAtLeast:
		return "AtLeast(" + c.Loc.String() + ", " + c.Size.String() + ")"
	case ConstraintAtMost:
		return "AtMost(" + c.Loc.String() + ", " + c.Size.String() + ")"
	case ConstraintEqual:
		return "Equal(" + c.Loc.String() + ", " + c.Other.String() + ")"
	case ConstraintDouble:
		return "Double(" + c.Loc.String() + ", " + c.Other.String() + ")"
	}
	return "PortConstraint(" + strconv.Itoa(int(c.Kind)) + ")"
}

// PortDependency states that the value sent on Send depends on the value
// received on Recv within the same cycle.
//
type PortDependency struct {
	Recv Loc
	Send Loc
}
