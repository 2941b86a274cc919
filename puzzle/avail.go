// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package puzzle

import (
	"slices"

	"github.com/db47h/gridsim/chip"
)

// AvailKind is the kind of an availability rule.
//
type AvailKind uint8

// Availability rules.
//
const (
	// The chip is available in every puzzle.
	Always AvailKind = iota
	// The chip is only available in command and sandbox puzzles.
	InteractiveOnly
	// The chip is only available in the listed puzzles.
	OnlyIn
	// The chip is available from a given puzzle on.
	StartingWith
	// The chip is available in puzzles after a solved one.
	UnlockedBy
)

// An Availability rule tells which puzzles a chip can be used in.
//
type Availability struct {
	Kind    AvailKind
	Puzzles []Puzzle // OnlyIn
	Puzzle  Puzzle   // StartingWith, UnlockedBy
	// Puzzles the chip is never available in, whatever the rule.
	Except []Puzzle
}

var always = Availability{Kind: Always}

func onlyIn(ps ...Puzzle) Availability { return Availability{Kind: OnlyIn, Puzzles: ps} }

func unlockedBy(p Puzzle) Availability { return Availability{Kind: UnlockedBy, Puzzle: p} }

func startingWith(p Puzzle) Availability { return Availability{Kind: StartingWith, Puzzle: p} }

// puzzles that must be solved with clocks only
var clockOnly = []Puzzle{FabricateEggTimer, FabricateStopwatch}

var availability = map[chip.Kind]Availability{
	chip.Xor:       unlockedBy(FabricateXor),
	chip.Mul:       unlockedBy(FabricateMul),
	chip.Mul4Bit:   onlyIn(FabricateMul),
	chip.Halve:     unlockedBy(FabricateHalve),
	chip.Inc:       unlockedBy(FabricateInc),
	chip.Counter:   unlockedBy(FabricateCounter),
	chip.EggTimer:  unlockedBy(FabricateEggTimer),
	chip.Toggle:    {Kind: InteractiveOnly},
	chip.Button:    {Kind: InteractiveOnly},
	chip.Random:    onlyIn(SandboxEvent, SandboxAnalog),
	chip.Screen:    onlyIn(SandboxEvent, SandboxAnalog),
	chip.Stopwatch: unlockedBy(FabricateStopwatch),
	chip.Cmp:       startingWith(AutomateHeliostat),
	chip.CmpEq:     startingWith(AutomateHeliostat),
	chip.Eq:        startingWith(AutomateHeliostat),
	chip.Ram:       {Kind: Always, Except: clockOnly},
	chip.Stack:     {Kind: UnlockedBy, Puzzle: FabricateStack, Except: clockOnly},
	chip.Queue:     {Kind: UnlockedBy, Puzzle: FabricateQueue, Except: clockOnly},
}

// AvailabilityOf returns the availability rule of chip kind k.
//
func AvailabilityOf(k chip.Kind) Availability {
	if a, ok := availability[k]; ok {
		return a
	}
	return always
}

// Allows reports whether the rule allows a chip in puzzle p given the set of
// solved puzzles.
//
func (a Availability) Allows(p Puzzle, solved Solved) bool {
	if slices.Contains(a.Except, p) {
		return false
	}
	switch a.Kind {
	case InteractiveOnly:
		k := p.Kind()
		return k == Command || k == Sandbox
	case OnlyIn:
		return slices.Contains(a.Puzzles, p)
	case StartingWith:
		return p >= a.Puzzle
	case UnlockedBy:
		return p > a.Puzzle && solved[a.Puzzle]
	}
	return true
}

// IsChipAllowed reports whether chip kind k can be used in puzzle p.
//
func (p Puzzle) IsChipAllowed(k chip.Kind, solved Solved) bool {
	ct := k.Type()
	if ct.UsesEvents() && !p.AllowsEvents() {
		return false
	}
	if ct.UsesAnalog() && !p.AllowsAnalog() {
		return false
	}
	return AvailabilityOf(k).Allows(p, solved)
}

// ChipSet is a set of chip kinds.
//
type ChipSet map[chip.Kind]bool

// Has reports whether the set holds the chip type's kind.
//
func (s ChipSet) Has(ct chip.ChipType) bool { return s[ct.Kind] }

// AllowedChips returns the set of chip kinds available in puzzle p.
//
func (p Puzzle) AllowedChips(solved Solved) ChipSet {
	s := make(ChipSet)
	for _, k := range chip.AllKinds() {
		if p.IsChipAllowed(k, solved) {
			s[k] = true
		}
	}
	return s
}
