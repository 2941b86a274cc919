// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package gridsim

import (
	"math/rand/v2"

	"github.com/db47h/gridsim/geom"
)

// Mounted is an evaluator returned by a MountFn. Port is the index of the
// chip port whose wire decides the subcycle in which the evaluator runs.
// This is normally one of the chip's sending ports.
//
type Mounted struct {
	Port int
	Eval Eval
}

// A MountFn mounts a chip into socket s. MountFn's should query the socket
// for the wires assigned to the chip's ports and return evaluators closing
// over them.
//
// For example, a Not chip can be defined like this:
//
//	not := &ChipSpec{
//		Name:  "Not",
//		Size:  geom.Size{W: 1, H: 1},
//		Ports: []PortSpec{
//			{Flow: Recv, Color: Behavior, Loc: L(0, 0, geom.West)},
//			{Flow: Send, Color: Behavior, Loc: L(0, 0, geom.East)},
//		},
//		Constraints:  []ChipConstraint{SameSize(0, 1)},
//		Dependencies: [][2]int{{0, 1}},
//		Mount: func(s *Socket) []Mounted {
//			in, out, mask := s.Wire(0), s.Wire(1), s.Size(1).Mask()
//			return []Mounted{{1, EvalFunc(func(st *State) {
//				st.SendBehavior(out, ^st.RecvBehavior(in)&mask)
//			})}}
//		},
//	}
//
type MountFn func(s *Socket) []Mounted

// ChipConstraint is a size constraint over a chip's ports, identified by
// their index in ChipSpec.Ports.
//
type ChipConstraint struct {
	Kind  ConstraintKind
	Port  int
	Other int
	Size  WireSize
}

// ExactSize returns a ConstraintExact chip constraint.
//
func ExactSize(port int, s WireSize) ChipConstraint {
	return ChipConstraint{Kind: ConstraintExact, Port: port, Size: s}
}

// AtLeastSize returns a ConstraintAtLeast chip constraint.
//
func AtLeastSize(port int, s WireSize) ChipConstraint {
	return ChipConstraint{Kind: ConstraintAtLeast, Port: port, Size: s}
}

// AtMostSize returns a ConstraintAtMost chip constraint.
//
func AtMostSize(port int, s WireSize) ChipConstraint {
	return ChipConstraint{Kind: ConstraintAtMost, Port: port, Size: s}
}

// SameSize returns a ConstraintEqual chip constraint.
//
func SameSize(port, other int) ChipConstraint {
	return ChipConstraint{Kind: ConstraintEqual, Port: port, Other: other}
}

// DoubleSize returns a ConstraintDouble chip constraint: port's wire is twice
// as wide as other's.
//
func DoubleSize(port, other int) ChipConstraint {
	return ChipConstraint{Kind: ConstraintDouble, Port: port, Other: other}
}

// A ChipSpec is the blueprint of a chip type.
//
type ChipSpec struct {
	// Chip name.
	Name string
	// Footprint before orientation.
	Size geom.Size
	// Ports, relative to the chip's top-left cell before orientation.
	// MaxSize is computed from Constraints and can be left zero.
	Ports []PortSpec
	// Size constraints.
	Constraints []ChipConstraint
	// Dependencies are (recv, send) pairs of port indices: the value sent on
	// the send port depends on the value received on the recv port within
	// the same cycle.
	Dependencies [][2]int
	// Mount function (see MountFn).
	Mount MountFn
}

// Footprint returns the size of the chip when placed with orientation o.
//
func (c *ChipSpec) Footprint(o geom.Orientation) geom.Size {
	return o.ApplySize(c.Size)
}

func (c *ChipSpec) loc(i int, at geom.Coords, o geom.Orientation) Loc {
	l := c.Ports[i].Loc
	return Loc{at.Add(o.TransformInSize(l.Coords, c.Size)), o.Apply(l.Dir)}
}

// maxSize returns the widest size port i could possibly take.
//
func (c *ChipSpec) maxSize(i int) WireSize {
	ms := MaxDiscrete
	for _, k := range c.Constraints {
		switch {
		case k.Kind == ConstraintExact && k.Port == i:
			return k.Size
		case k.Kind == ConstraintAtMost && k.Port == i:
			ms = min(ms, k.Size)
		case k.Kind == ConstraintDouble && k.Other == i:
			ms = min(ms, MaxDiscrete.Half())
		}
	}
	return ms
}

// PlacedPorts returns the chip's ports for a chip at coords at with
// orientation o.
//
func (c *ChipSpec) PlacedPorts(at geom.Coords, o geom.Orientation) []PortSpec {
	ps := make([]PortSpec, len(c.Ports))
	for i, p := range c.Ports {
		p.Loc = c.loc(i, at, o)
		p.MaxSize = c.maxSize(i)
		ps[i] = p
	}
	return ps
}

// PlacedConstraints returns the chip's constraints for a chip at coords at
// with orientation o.
//
func (c *ChipSpec) PlacedConstraints(at geom.Coords, o geom.Orientation) []PortConstraint {
	cs := make([]PortConstraint, len(c.Constraints))
	for i, k := range c.Constraints {
		pc := PortConstraint{Kind: k.Kind, Loc: c.loc(k.Port, at, o), Size: k.Size}
		if k.Kind == ConstraintEqual || k.Kind == ConstraintDouble {
			pc.Other = c.loc(k.Other, at, o)
		}
		cs[i] = pc
	}
	return cs
}

// PlacedDependencies returns the chip's dependencies for a chip at coords at
// with orientation o.
//
func (c *ChipSpec) PlacedDependencies(at geom.Coords, o geom.Orientation) []PortDependency {
	ds := make([]PortDependency, len(c.Dependencies))
	for i, d := range c.Dependencies {
		ds[i] = PortDependency{Recv: c.loc(d[0], at, o), Send: c.loc(d[1], at, o)}
	}
	return ds
}

// A Placement is a chip spec placed on a grid.
//
type Placement struct {
	Spec   *ChipSpec
	Coords geom.Coords
	Orient geom.Orientation
}

// Mount mounts every placed chip and sorts the returned evaluators into the
// analysis' evaluation groups. It must only be called on an analysis without
// errors.
//
func (a *Analysis) Mount(chips []Placement, rng *rand.Rand) [][]Eval {
	groupOf := a.GroupIndex()
	groups := make([][]Eval, len(a.Groups))
	for _, p := range chips {
		ports := p.Spec.PlacedPorts(p.Coords, p.Orient)
		s := &Socket{
			coords: p.Coords,
			wires:  make([]WireID, len(ports)),
			sizes:  make([]WireSize, len(ports)),
			rng:    rng,
		}
		for i, port := range ports {
			id := a.PortWires[port.Loc]
			s.wires[i] = id
			s.sizes[i], _ = a.Wires[id].Size.LowerBound()
		}
		for _, m := range p.Spec.Mount(s) {
			g := groupOf[s.Wire(m.Port)]
			groups[g] = append(groups[g], m.Eval)
		}
	}
	return groups
}
