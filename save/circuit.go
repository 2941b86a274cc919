// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package save implements the on-disk formats of circuits, solutions, score
// curves and hotkey bindings.
//
// Circuits, solutions and scores are TOML documents. Hotkey bindings are YAML.
//
package save

import (
	"os"
	"slices"
	"strings"

	gs "github.com/db47h/gridsim"
	"github.com/db47h/gridsim/chip"
	"github.com/db47h/gridsim/geom"
	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
)

// CircuitData is the serialized form of a circuit.
//
// Chips maps the DeltaKey of a chip's top-left cell to "<orient>-<ctype>",
// e.g. "f0-Add" or "t3-Const(12)". Wires maps the LocationKey of each wire
// fragment to its shape name.
//
type CircuitData struct {
	Bounds [4]int            `toml:"bounds"`
	Chips  map[string]string `toml:"chips"`
	Wires  map[string]string `toml:"wires"`
}

// NewCircuitData returns an empty circuit with the given bounds.
//
func NewCircuitData(bounds geom.Rect) *CircuitData {
	return &CircuitData{
		Bounds: [4]int{bounds.X, bounds.Y, bounds.W, bounds.H},
		Chips:  make(map[string]string),
		Wires:  make(map[string]string),
	}
}

// BoundsRect returns the circuit's bounds.
//
func (d *CircuitData) BoundsRect() geom.Rect {
	return geom.Rect{X: d.Bounds[0], Y: d.Bounds[1], W: d.Bounds[2], H: d.Bounds[3]}
}

// SetChip records a chip at delta.
//
func (d *CircuitData) SetChip(delta geom.Coords, ct chip.ChipType, o geom.Orientation) {
	if d.Chips == nil {
		d.Chips = make(map[string]string)
	}
	d.Chips[DeltaKey(delta)] = o.String() + "-" + ct.String()
}

// SetWire records a wire fragment.
//
func (d *CircuitData) SetWire(delta geom.Coords, dir geom.Direction, s gs.WireShape) {
	if d.Wires == nil {
		d.Wires = make(map[string]string)
	}
	d.Wires[LocationKey(delta, dir)] = s.String()
}

// ChipEntry is a decoded chip.
//
type ChipEntry struct {
	Delta  geom.Coords
	Type   chip.ChipType
	Orient geom.Orientation
}

// ParseChipValue parses the "<orient>-<ctype>" form of a chip.
//
func ParseChipValue(v string) (chip.ChipType, geom.Orientation, error) {
	on, cs, ok := strings.Cut(v, "-")
	if !ok {
		return chip.ChipType{}, geom.Orientation{}, errors.Errorf("invalid chip spec %q", v)
	}
	o, err := geom.ParseOrientation(on)
	if err != nil {
		return chip.ChipType{}, geom.Orientation{}, errors.Wrapf(err, "invalid chip spec %q", v)
	}
	ct, err := chip.Parse(cs)
	if err != nil {
		return chip.ChipType{}, geom.Orientation{}, errors.Wrapf(err, "invalid chip spec %q", v)
	}
	return ct, o, nil
}

// ChipEntries decodes the chips, sorted by position.
//
func (d *CircuitData) ChipEntries() ([]ChipEntry, error) {
	es := make([]ChipEntry, 0, len(d.Chips))
	for k, v := range d.Chips {
		delta, err := ParseDeltaKey(k)
		if err != nil {
			return nil, err
		}
		ct, o, err := ParseChipValue(v)
		if err != nil {
			return nil, err
		}
		es = append(es, ChipEntry{delta, ct, o})
	}
	slices.SortFunc(es, func(a, b ChipEntry) int { return cmpCoords(a.Delta, b.Delta) })
	return es, nil
}

// WireEntry is a decoded wire fragment.
//
type WireEntry struct {
	Delta geom.Coords
	Dir   geom.Direction
	Shape gs.WireShape
}

// WireEntries decodes the wire fragments, sorted by location.
//
func (d *CircuitData) WireEntries() ([]WireEntry, error) {
	es := make([]WireEntry, 0, len(d.Wires))
	for k, v := range d.Wires {
		delta, dir, err := ParseLocationKey(k)
		if err != nil {
			return nil, err
		}
		s, err := gs.ParseWireShape(v)
		if err != nil {
			return nil, errors.Wrapf(err, "wire %s", k)
		}
		es = append(es, WireEntry{delta, dir, s})
	}
	slices.SortFunc(es, func(a, b WireEntry) int {
		if c := cmpCoords(a.Delta, b.Delta); c != 0 {
			return c
		}
		return int(a.Dir) - int(b.Dir)
	})
	return es, nil
}

func cmpCoords(a, b geom.Coords) int {
	if a.X != b.X {
		return a.X - b.X
	}
	return a.Y - b.Y
}

// EncodeCircuit returns the TOML form of d.
//
func EncodeCircuit(d *CircuitData) ([]byte, error) {
	b, err := toml.Marshal(d)
	return b, errors.Wrap(err, "could not serialize circuit")
}

// DecodeCircuit parses a TOML circuit.
//
func DecodeCircuit(b []byte) (*CircuitData, error) {
	d := new(CircuitData)
	if err := toml.Unmarshal(b, d); err != nil {
		return nil, errors.Wrap(err, "could not deserialize circuit")
	}
	return d, nil
}

// LoadCircuit reads a circuit file.
//
func LoadCircuit(name string) (*CircuitData, error) {
	b, err := os.ReadFile(name)
	if err != nil {
		return nil, errors.Wrap(err, "could not read circuit file")
	}
	return DecodeCircuit(b)
}

// SaveCircuit writes a circuit file.
//
func SaveCircuit(name string, d *CircuitData) error {
	b, err := EncodeCircuit(d)
	if err != nil {
		return err
	}
	return errors.Wrap(os.WriteFile(name, b, 0644), "could not write circuit file")
}
