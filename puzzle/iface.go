// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package puzzle

import (
	gs "github.com/db47h/gridsim"
	"github.com/db47h/gridsim/geom"
)

// Anchor is the end of a board side an interface is measured from.
//
type Anchor uint8

// Interface anchors. Left and right are seen from inside the board, facing
// the side.
//
const (
	AnchorLeft Anchor = iota
	AnchorCenter
	AnchorRight
)

// Position is the position of an interface along its side of the board.
//
type Position struct {
	Anchor Anchor
	Offset int
}

// Left returns a position d cells from the left end of a side.
//
func Left(d int) Position { return Position{AnchorLeft, d} }

// Right returns a position d cells from the right end of a side.
//
func Right(d int) Position { return Position{AnchorRight, d} }

// Center is the position centered on a side.
//
var Center = Position{Anchor: AnchorCenter}

// InterfacePort is a single port of an interface.
//
type InterfacePort struct {
	Name  string
	Flow  gs.PortFlow
	Color gs.PortColor
	Size  gs.WireSize
}

// An Interface is a strip of ports just outside of the board bounds through
// which a puzzle talks to the circuit. Its ports face the board.
//
type Interface struct {
	Name        string
	Description string
	Side        geom.Direction
	Pos         Position
	Ports       []InterfacePort
}

func (i *Interface) span(bounds geom.Rect) int {
	if i.Side.IsVertical() {
		return bounds.W
	}
	return bounds.H
}

// TopLeft returns the coordinates of the interface's top-left cell for the
// given board bounds.
//
func (i *Interface) TopLeft(bounds geom.Rect) geom.Coords {
	span, n := i.span(bounds), len(i.Ports)
	var dist int
	switch i.Pos.Anchor {
	case AnchorLeft:
		dist = i.Pos.Offset
	case AnchorCenter:
		dist = (span - n) / 2
	case AnchorRight:
		dist = span - n - i.Pos.Offset
	}
	var d geom.Coords
	switch i.Side {
	case geom.East:
		d = geom.C(bounds.W, span-n-dist)
	case geom.South:
		d = geom.C(dist, bounds.H)
	case geom.West:
		d = geom.C(-1, dist)
	case geom.North:
		d = geom.C(span-n-dist, -1)
	}
	return bounds.TopLeft().Add(d)
}

// Size returns the footprint of the interface.
//
func (i *Interface) Size() geom.Size {
	if i.Side.IsVertical() {
		return geom.Size{W: len(i.Ports), H: 1}
	}
	return geom.Size{W: 1, H: len(i.Ports)}
}

// Rect returns the cells covered by the interface.
//
func (i *Interface) Rect(bounds geom.Rect) geom.Rect {
	return geom.RectAt(i.TopLeft(bounds), i.Size())
}

// PortSpecs returns the interface's ports for the given board bounds.
//
func (i *Interface) PortSpecs(bounds geom.Rect) []gs.PortSpec {
	return i.PortsAt(i.TopLeft(bounds))
}

// PortsAt returns the interface's ports with its top-left cell at tl.
//
func (i *Interface) PortsAt(tl geom.Coords) []gs.PortSpec {
	var step geom.Direction
	switch i.Side {
	case geom.South, geom.West:
		step = i.Side.RotateCCW()
	default:
		step = i.Side.RotateCW()
	}
	dir := i.Side.Neg()
	ps := make([]gs.PortSpec, len(i.Ports))
	c := tl
	for n, p := range i.Ports {
		ps[n] = gs.PortSpec{
			Flow:    p.Flow,
			Color:   p.Color,
			Loc:     gs.Loc{Coords: c, Dir: dir},
			MaxSize: p.Size,
		}
		c = c.Plus(step)
	}
	return ps
}

// Constraints returns the size constraints of the interface's ports.
//
func (i *Interface) Constraints(bounds geom.Rect) []gs.PortConstraint {
	ps := i.PortSpecs(bounds)
	cs := make([]gs.PortConstraint, len(ps))
	for n, p := range ps {
		cs[n] = gs.Exact(p.Loc, i.Ports[n].Size)
	}
	return cs
}

// MinBoundsSize returns the smallest board size able to hold all the given
// interfaces without overlap.
//
func MinBoundsSize(ifaces []Interface) geom.Size {
	sz := geom.Size{W: 1, H: 1}
	for _, dir := range geom.AllDirections {
		var left, center, right int
		for i := range ifaces {
			f := &ifaces[i]
			if f.Side != dir {
				continue
			}
			n := len(f.Ports)
			switch f.Pos.Anchor {
			case AnchorLeft:
				left = max(left, n+f.Pos.Offset)
			case AnchorCenter:
				center = max(center, n)
			case AnchorRight:
				right = max(right, n+f.Pos.Offset)
			}
		}
		need := left + right
		if center > 0 {
			need = 2*max(left, right) + center
		}
		if dir.IsVertical() {
			sz.W = max(sz.W, need)
		} else {
			sz.H = max(sz.H, need)
		}
	}
	return sz
}
