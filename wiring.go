// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package gridsim

import (
	"slices"
	"strconv"
)

// WireColor is the inferred kind of a logical wire.
//
type WireColor uint8

// Wire colors.
//
const (
	// Unknown wires have no ports attached.
	Unknown WireColor = iota
	// Ambiguous wires connect ports of different colors.
	Ambiguous
	BehaviorWire
	EventWire
	AnalogWire
)

func (c WireColor) String() string {
	switch c {
	case Ambiguous:
		return "Ambiguous"
	case BehaviorWire:
		return "Behavior"
	case EventWire:
		return "Event"
	case AnalogWire:
		return "Analog"
	}
	return "Unknown"
}

// WireID is the dense index of a logical wire. It is also its address on the
// value bus.
//
type WireID int

// NoWire is returned when a location has no wire.
//
const NoWire WireID = -1

// A Wire is a connected set of wire fragments together with the ports
// attached to its stubs.
//
type Wire struct {
	Fragments []Loc // sorted
	Ports     map[Loc]PortSpec
	Color     WireColor
	Size      SizeInterval
	HasError  bool
}

func newWire(frags []Loc, ports map[Loc]PortSpec) *Wire {
	slices.SortFunc(frags, cmpLoc)
	return &Wire{
		Fragments: frags,
		Ports:     ports,
		Size:      FullInterval(),
	}
}

// IsNull returns true if the wire has no fragments: it stands for a single
// unconnected port.
//
func (w *Wire) IsNull() bool { return len(w.Fragments) == 0 }

// Sender returns the location of the wire's sending port, if any.
//
func (w *Wire) Sender() (Loc, bool) {
	var locs []Loc
	for l, p := range w.Ports {
		if p.Flow == Send {
			locs = append(locs, l)
		}
	}
	if len(locs) == 0 {
		return Loc{}, false
	}
	return slices.MinFunc(locs, cmpLoc), true
}

func cmpLoc(a, b Loc) int {
	switch {
	case a.Less(b):
		return -1
	case b.Less(a):
		return 1
	}
	return 0
}

// SortedLocs returns the keys of m in Loc order.
//
func SortedLocs[V any](m map[Loc]V) []Loc {
	locs := make([]Loc, 0, len(m))
	for l := range m {
		locs = append(locs, l)
	}
	slices.SortFunc(locs, cmpLoc)
	return locs
}

// GroupWires collects fragments into logical wires. Ports attach to the wire
// owning the Stub at their location. Ports without a fragment get a wire of
// their own, after all fragment wires.
//
// Wire numbering only depends on map contents: components are numbered in
// order of their smallest fragment location.
//
func GroupWires(ports map[Loc]PortSpec, fragments map[Loc]WireShape) []*Wire {
	var wires []*Wire
	seen := make(map[Loc]bool, len(fragments))
	for _, start := range SortedLocs(fragments) {
		if seen[start] {
			continue
		}
		seen[start] = true
		frags := []Loc{start}
		wp := make(map[Loc]PortSpec)
		stack := []Loc{start}
		for len(stack) > 0 {
			l := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			shape := fragments[l]
			if shape == Stub {
				if p, ok := ports[l]; ok {
					wp[l] = p
				}
			}
			next := []Loc{l.Facing()}
			for _, d := range shape.Connections(l.Dir) {
				next = append(next, l.Side(d))
			}
			for _, n := range next {
				if _, ok := fragments[n]; ok && !seen[n] {
					seen[n] = true
					frags = append(frags, n)
					stack = append(stack, n)
				}
			}
		}
		wires = append(wires, newWire(frags, wp))
	}
	for _, l := range SortedLocs(ports) {
		if _, ok := fragments[l]; !ok {
			wires = append(wires, newWire(nil, map[Loc]PortSpec{l: ports[l]}))
		}
	}
	return wires
}

// ColorWires sets the color and initial size interval of every wire from the
// ports attached to it.
//
func ColorWires(wires []*Wire) []WireError {
	var errs []WireError
	for i, w := range wires {
		var senders int
		var beh, evt, ana bool
		for _, p := range w.Ports {
			if p.Flow == Send {
				senders++
			}
			switch p.Color {
			case Behavior:
				beh = true
			case Event:
				evt = true
			case AnalogColor:
				ana = true
			}
		}
		switch {
		case beh && (evt || ana) || evt && ana:
			w.Color = Ambiguous
			w.Size = AtLeast(One)
			w.HasError = true
			errs = append(errs, WireError{Kind: PortColorMismatch, Wires: []WireID{WireID(i)}})
		case beh:
			w.Color = BehaviorWire
			w.Size = AtLeast(One)
		case evt:
			w.Color = EventWire
			w.Size = FullInterval()
		case ana:
			w.Color = AnalogWire
			w.Size = Exactly(Analog)
		default:
			w.Color = Unknown
			w.Size = EmptyInterval()
		}
		if senders > 1 {
			w.HasError = true
			errs = append(errs, WireError{Kind: MultipleSenders, Wires: []WireID{WireID(i)}})
		}
	}
	return errs
}

// MapPortsToWires returns the wire attached to each port.
//
func MapPortsToWires(wires []*Wire) map[Loc]WireID {
	m := make(map[Loc]WireID)
	for i, w := range wires {
		for l := range w.Ports {
			m[l] = WireID(i)
		}
	}
	return m
}

// WireErrorKind enumerates analysis errors.
//
type WireErrorKind uint8

// Analysis error kinds.
//
const (
	MultipleSenders WireErrorKind = iota
	PortColorMismatch
	NoValidSize
	UnbrokenLoop
)

// WireError is an error found while analysing wires. Any WireError prevents
// evaluation.
//
type WireError struct {
	Kind  WireErrorKind
	Wires []WireID
	// For UnbrokenLoop: true if the loop includes event wires.
	HasEvents bool
}

func (e WireError) Error() string {
	switch e.Kind {
	case MultipleSenders:
		return "Wire " + strconv.Itoa(int(e.Wires[0])) + " has multiple senders"
	case PortColorMismatch:
		return "Wire " + strconv.Itoa(int(e.Wires[0])) + " has a color mismatch"
	case NoValidSize:
		return "Wire " + strconv.Itoa(int(e.Wires[0])) + " has a size mismatch"
	}
	s := "Wires ["
	for i, id := range e.Wires {
		if i > 0 {
			s += ", "
		}
		s += strconv.Itoa(int(id))
	}
	return s + "] form a loop"
}
