// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package gridsim

import (
	"math/rand/v2"
	"strconv"

	"github.com/db47h/gridsim/geom"
)

// A Socket maps a chip's port indices to the wires assigned to them in a
// circuit.
//
type Socket struct {
	coords geom.Coords
	wires  []WireID
	sizes  []WireSize
	rng    *rand.Rand
}

// NewSocket returns a socket for a chip at coords whose port i is attached to
// wires[i] of size sizes[i]. It is mostly useful to test MountFn's in
// isolation.
//
func NewSocket(coords geom.Coords, wires []WireID, sizes []WireSize, rng *rand.Rand) *Socket {
	if len(wires) != len(sizes) {
		panic("wire and size count mismatch")
	}
	return &Socket{coords, wires, sizes, rng}
}

// NumPorts returns the number of ports in the socket.
//
func (s *Socket) NumPorts() int { return len(s.wires) }

// Wire returns the wire attached to port i.
// This function panics if the port does not exist.
//
func (s *Socket) Wire(i int) WireID {
	s.check(i)
	return s.wires[i]
}

// Size returns the size of the wire attached to port i.
// This function panics if the port does not exist.
//
func (s *Socket) Size(i int) WireSize {
	s.check(i)
	return s.sizes[i]
}

// Coords returns the coordinates of the chip's top-left cell.
//
func (s *Socket) Coords() geom.Coords { return s.coords }

// Rand returns the circuit's random number generator.
//
func (s *Socket) Rand() *rand.Rand { return s.rng }

func (s *Socket) check(i int) {
	if i < 0 || i >= len(s.wires) {
		panic("port " + strconv.Itoa(i) + " does not exist")
	}
}

// A Slot is a puzzle interface port attached to a wire.
//
type Slot struct {
	Loc  Loc
	Wire WireID
	Size WireSize
}

// Slots returns the wires attached to the given interface ports.
//
func (a *Analysis) Slots(ports []PortSpec) []Slot {
	ss := make([]Slot, len(ports))
	for i, p := range ports {
		id := a.PortWires[p.Loc]
		sz, _ := a.Wires[id].Size.LowerBound()
		ss[i] = Slot{p.Loc, id, sz}
	}
	return ss
}
