// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package chip provides the catalog of chips that can be placed on a gridsim
// board.
//
// Every chip type is described by a gridsim.ChipSpec holding its ports, wire
// size constraints, combinational dependencies and mount function. Chip types
// with a payload (constant value, coercion size, ...) are represented by a
// ChipType value.
//
package chip

import (
	"strconv"
	"strings"

	"github.com/db47h/gridsim"
	"github.com/db47h/gridsim/geom"
	"github.com/pkg/errors"
)

// Kind identifies a chip type regardless of its payload.
//
type Kind uint8

// Chip kinds.
//
const (
	// Values
	Const Kind = iota
	Coerce
	Pack
	Unpack
	Discard
	Sample
	Join
	Random
	// Arithmetic
	Add
	Sub
	Mul
	Mul4Bit
	Halve
	Neg
	Inc
	// Comparison
	Cmp
	CmpEq
	Eq
	// Logic
	Not
	And
	Or
	Xor
	Mux
	Demux
	Filter
	// Timing
	Delay
	Clock
	EggTimer
	Stopwatch
	// Memory
	Latest
	Latch
	Counter
	Ram
	Stack
	Queue
	Screen
	// Analog
	AAdd
	AMul
	ACmp
	Relay
	Integrate
	// Debug and interaction
	Display
	Toggle
	Break
	Button
	Comment

	kindCount
)

var kindNames = [kindCount]string{
	"Const", "Coerce", "Pack", "Unpack", "Discard", "Sample", "Join", "Random",
	"Add", "Sub", "Mul", "Mul4Bit", "Halve", "Neg", "Inc",
	"Cmp", "CmpEq", "Eq",
	"Not", "And", "Or", "Xor", "Mux", "Demux", "Filter",
	"Delay", "Clock", "EggTimer", "Stopwatch",
	"Latest", "Latch", "Counter", "Ram", "Stack", "Queue", "Screen",
	"AAdd", "AMul", "ACmp", "Relay", "Integrate",
	"Display", "Toggle", "Break", "Button", "Comment",
}

// AllKinds returns every chip kind in catalog order.
//
func AllKinds() []Kind {
	ks := make([]Kind, kindCount)
	for i := range ks {
		ks[i] = Kind(i)
	}
	return ks
}

func (k Kind) String() string {
	if k < kindCount {
		return kindNames[k]
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// HasPayload returns true if chips of kind k carry a payload.
//
func (k Kind) HasPayload() bool {
	switch k {
	case Const, Coerce, Toggle, Break, Button, Comment:
		return true
	}
	return false
}

// Type returns the chip type of kind k with a zero payload, except for
// Coerce which defaults to One, and Break which defaults to enabled.
//
func (k Kind) Type() ChipType {
	switch k {
	case Coerce:
		return NewCoerce(gridsim.One)
	case Break:
		return NewBreak(true)
	}
	return ChipType{Kind: k}
}

// ChipType is a chip kind along with its payload. Only the payload field
// relevant to the kind is set. ChipType values are comparable.
//
type ChipType struct {
	Kind Kind
	// Const value.
	Value uint32
	// Coerce size.
	Size gridsim.WireSize
	// Break enabled, Toggle state, or Button has a hotkey.
	Flag bool
	// Button hotkey.
	Hotkey gridsim.HotkeyCode
	// Comment text.
	Text string
}

// MaxConstValue is the largest constant a Const chip can output.
//
const MaxConstValue = 0xffff

// NewConst returns a Const chip outputting v.
//
func NewConst(v uint32) ChipType { return ChipType{Kind: Const, Value: v} }

// NewCoerce returns a Coerce chip for size s.
//
func NewCoerce(s gridsim.WireSize) ChipType { return ChipType{Kind: Coerce, Size: s} }

// NewBreak returns a breakpoint chip.
//
func NewBreak(enabled bool) ChipType { return ChipType{Kind: Break, Flag: enabled} }

// NewToggle returns a toggle switch in state on.
//
func NewToggle(on bool) ChipType { return ChipType{Kind: Toggle, Flag: on} }

// NewButton returns a button without hotkey.
//
func NewButton() ChipType { return ChipType{Kind: Button} }

// NewHotkeyButton returns a button that is also pressed by hotkey h.
//
func NewHotkeyButton(h gridsim.HotkeyCode) ChipType {
	return ChipType{Kind: Button, Flag: true, Hotkey: h}
}

// NewComment returns a comment chip.
//
func NewComment(text string) ChipType { return ChipType{Kind: Comment, Text: text} }

// String returns the chip type in the form Name or Name(payload).
//
func (t ChipType) String() string {
	switch t.Kind {
	case Const:
		return "Const(" + strconv.FormatUint(uint64(t.Value), 10) + ")"
	case Coerce:
		return "Coerce(" + strconv.Itoa(int(t.Size.NumBits())) + ")"
	case Toggle, Break:
		return t.Kind.String() + "(" + strconv.FormatBool(t.Flag) + ")"
	case Button:
		if t.Flag {
			return "Button(" + t.Hotkey.String() + ")"
		}
	case Comment:
		return "Comment(" + t.Text + ")"
	}
	return t.Kind.String()
}

// Parse parses a chip type in the format returned by ChipType.String.
//
func Parse(s string) (ChipType, error) {
	name, payload, hasPayload := s, "", false
	if i := strings.IndexByte(s, '('); i >= 0 {
		if !strings.HasSuffix(s, ")") {
			return ChipType{}, errors.Errorf("invalid chip type %q: missing closing parenthesis", s)
		}
		name, payload, hasPayload = s[:i], s[i+1:len(s)-1], true
	}
	k, ok := kindByName(name)
	if !ok {
		return ChipType{}, errors.Errorf("unknown chip type %q", s)
	}
	if !hasPayload {
		switch k {
		case Button:
			return NewButton(), nil
		case Const, Coerce, Toggle, Break, Comment:
			return ChipType{}, errors.Errorf("invalid chip type %q: missing payload", s)
		}
		return ChipType{Kind: k}, nil
	}
	switch k {
	case Const:
		v, err := strconv.ParseUint(payload, 10, 32)
		if err != nil || v > MaxConstValue {
			return ChipType{}, errors.Errorf("invalid constant in %q", s)
		}
		return NewConst(uint32(v)), nil
	case Coerce:
		sz, err := gridsim.ParseWireSize(payload)
		if err != nil || sz == gridsim.Zero || sz == gridsim.Analog {
			return ChipType{}, errors.Errorf("invalid size in %q", s)
		}
		return NewCoerce(sz), nil
	case Toggle, Break:
		b, err := strconv.ParseBool(payload)
		if err != nil {
			return ChipType{}, errors.Wrapf(err, "invalid chip type %q", s)
		}
		return ChipType{Kind: k, Flag: b}, nil
	case Button:
		h, err := gridsim.ParseHotkeyCode(payload)
		if err != nil {
			return ChipType{}, errors.WithMessagef(err, "invalid chip type %q", s)
		}
		return NewHotkeyButton(h), nil
	case Comment:
		return NewComment(payload), nil
	}
	return ChipType{}, errors.Errorf("invalid chip type %q: %s takes no payload", s, name)
}

func kindByName(name string) (Kind, bool) {
	for i, n := range kindNames {
		if n == name {
			return Kind(i), true
		}
	}
	return 0, false
}

// Spec returns the chip's blueprint.
//
func (t ChipType) Spec() *gridsim.ChipSpec {
	switch t.Kind {
	case Const:
		return constSpec(t.Value)
	case Coerce:
		return coerceSpec(t.Size)
	case Toggle:
		return toggleSpec(t.Flag)
	case Break:
		return breakSpec(t.Flag)
	case Button:
		if t.Flag {
			return buttonSpec(&t.Hotkey)
		}
		return buttonSpec(nil)
	}
	return catalog[t.Kind]
}

// Size returns the chip's footprint in its default orientation.
//
func (t ChipType) Size() geom.Size { return t.Spec().Size }

// Footprint returns the chip's footprint when placed with orientation o.
//
func (t ChipType) Footprint(o geom.Orientation) geom.Size { return t.Spec().Footprint(o) }

// Ports returns the chip's ports for a chip placed at c with orientation o.
//
func (t ChipType) Ports(c geom.Coords, o geom.Orientation) []gridsim.PortSpec {
	return t.Spec().PlacedPorts(c, o)
}

// Constraints returns the chip's wire size constraints for a chip placed at c
// with orientation o.
//
func (t ChipType) Constraints(c geom.Coords, o geom.Orientation) []gridsim.PortConstraint {
	return t.Spec().PlacedConstraints(c, o)
}

// Dependencies returns the chip's port dependencies for a chip placed at c
// with orientation o.
//
func (t ChipType) Dependencies(c geom.Coords, o geom.Orientation) []gridsim.PortDependency {
	return t.Spec().PlacedDependencies(c, o)
}

// UsesEvents returns true if any of the chip's ports carries events.
//
func (t ChipType) UsesEvents() bool { return t.usesColor(gridsim.Event) }

// UsesAnalog returns true if any of the chip's ports carries analog values.
//
func (t ChipType) UsesAnalog() bool { return t.usesColor(gridsim.AnalogColor) }

func (t ChipType) usesColor(c gridsim.PortColor) bool {
	for _, p := range t.Spec().Ports {
		if p.Color == c {
			return true
		}
	}
	return false
}
