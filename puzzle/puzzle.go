// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package puzzle

import (
	"strconv"

	gs "github.com/db47h/gridsim"
	"github.com/db47h/gridsim/geom"
	"github.com/pkg/errors"
)

// Kind is the category of a puzzle.
//
type Kind uint8

// Puzzle kinds.
//
const (
	// Fabricate puzzles check the circuit against a table of inputs and
	// expected outputs.
	Fabricate Kind = iota
	// Automate puzzles drive a simulated device.
	Automate
	// Command puzzles are interactive.
	Command
	// Sandbox puzzles never complete.
	Sandbox
)

func (k Kind) String() string {
	switch k {
	case Fabricate:
		return "Fabricate"
	case Automate:
		return "Automate"
	case Command:
		return "Command"
	case Sandbox:
		return "Sandbox"
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// Puzzle identifies a puzzle. Puzzles are ordered: a chip unlocked by a
// puzzle is only available in the puzzles that come after it.
//
type Puzzle uint8

// Puzzles.
//
const (
	FabricateXor Puzzle = iota
	FabricateMul
	FabricateHalve
	AutomateHeliostat
	AutomateReactor
	CommandLander
	FabricateInc
	FabricateCounter
	CommandTurret
	FabricateStack
	FabricateQueue
	AutomateTranslator
	CommandSapper
	FabricateEggTimer
	FabricateStopwatch
	AutomateStorageDepot
	SandboxBehavior
	SandboxEvent
	SandboxAnalog

	puzzleCount
)

type metadata struct {
	name   string
	title  string
	kind   Kind
	score  gs.ScoreUnits
	events bool
	analog bool
	size   geom.Size
	ifaces []Interface
}

var puzzles = [puzzleCount]*metadata{
	FabricateXor: {
		name: "FabricateXor", title: "XOR Gate",
		kind: Fabricate, score: gs.ScoreWireLength,
		size: geom.Size{W: 5, H: 5}, ifaces: xorInterfaces,
	},
	FabricateMul: {
		name: "FabricateMul", title: "Multiplier",
		kind: Fabricate, score: gs.ScoreWireLength,
		size: geom.Size{W: 7, H: 7}, ifaces: mulInterfaces,
	},
	FabricateHalve: {
		name: "FabricateHalve", title: "Halver",
		kind: Fabricate, score: gs.ScoreWireLength,
		size: geom.Size{W: 7, H: 5}, ifaces: halveInterfaces,
	},
	AutomateHeliostat: {
		name: "AutomateHeliostat", title: "Heliostat",
		kind: Automate, score: gs.ScoreTime,
		size: geom.Size{W: 6, H: 5}, ifaces: heliostatInterfaces,
	},
	AutomateReactor: {
		name: "AutomateReactor", title: "Backup Reactor",
		kind: Automate, score: gs.ScoreTime,
		size: geom.Size{W: 6, H: 8}, ifaces: reactorInterfaces,
	},
	CommandLander: {
		name: "CommandLander", title: "Orbital Lander",
		kind: Command, score: gs.ScoreManualInputs,
		size: geom.Size{W: 6, H: 8}, ifaces: landerInterfaces,
	},
	FabricateInc: {
		name: "FabricateInc", title: "Incrementor",
		kind: Fabricate, score: gs.ScoreWireLength, events: true,
		size: geom.Size{W: 5, H: 5}, ifaces: incInterfaces,
	},
	FabricateCounter: {
		name: "FabricateCounter", title: "Counter",
		kind: Fabricate, score: gs.ScoreWireLength, events: true,
		size: geom.Size{W: 7, H: 5}, ifaces: counterInterfaces,
	},
	CommandTurret: {
		name: "CommandTurret", title: "Defense Turret",
		kind: Command, score: gs.ScoreManualInputs, events: true,
		size: geom.Size{W: 9, H: 7}, ifaces: turretInterfaces,
	},
	FabricateStack: {
		name: "FabricateStack", title: "Stack Memory",
		kind: Fabricate, score: gs.ScoreWireLength, events: true,
		size: geom.Size{W: 7, H: 6}, ifaces: stackInterfaces,
	},
	FabricateQueue: {
		name: "FabricateQueue", title: "Queue Memory",
		kind: Fabricate, score: gs.ScoreWireLength, events: true,
		size: geom.Size{W: 7, H: 6}, ifaces: queueInterfaces,
	},
	AutomateTranslator: {
		name: "AutomateTranslator", title: "Translator",
		kind: Automate, score: gs.ScoreTime, events: true,
		size: geom.Size{W: 8, H: 5}, ifaces: translatorInterfaces,
	},
	CommandSapper: {
		name: "CommandSapper", title: "Sapper Drone",
		kind: Command, score: gs.ScoreManualInputs, events: true,
		size: geom.Size{W: 9, H: 7}, ifaces: sapperInterfaces,
	},
	FabricateEggTimer: {
		name: "FabricateEggTimer", title: "Egg Timer",
		kind: Fabricate, score: gs.ScoreWireLength, events: true,
		size: geom.Size{W: 7, H: 7}, ifaces: eggTimerInterfaces,
	},
	FabricateStopwatch: {
		name: "FabricateStopwatch", title: "Stopwatch",
		kind: Fabricate, score: gs.ScoreWireLength, events: true,
		size: geom.Size{W: 7, H: 7}, ifaces: stopwatchInterfaces,
	},
	AutomateStorageDepot: {
		name: "AutomateStorageDepot", title: "Storage Depot",
		kind: Automate, score: gs.ScoreTime, events: true,
		size: geom.Size{W: 8, H: 6}, ifaces: storageInterfaces,
	},
	SandboxBehavior: {
		name: "SandboxBehavior", title: "Behavior Sandbox",
		kind: Sandbox, score: gs.ScoreTime,
		size: geom.Size{W: 8, H: 6}, ifaces: behaviorSandboxInterfaces,
	},
	SandboxEvent: {
		name: "SandboxEvent", title: "Event Sandbox",
		kind: Sandbox, score: gs.ScoreTime, events: true,
		size: geom.Size{W: 8, H: 6}, ifaces: eventSandboxInterfaces,
	},
	SandboxAnalog: {
		name: "SandboxAnalog", title: "Analog Sandbox",
		kind: Sandbox, score: gs.ScoreTime, events: true, analog: true,
		size: geom.Size{W: 8, H: 6}, ifaces: analogSandboxInterfaces,
	},
}

// All returns every puzzle in order.
//
func All() []Puzzle {
	ps := make([]Puzzle, puzzleCount)
	for i := range ps {
		ps[i] = Puzzle(i)
	}
	return ps
}

// Parse returns the puzzle with the given name.
//
func Parse(name string) (Puzzle, error) {
	for i, m := range puzzles {
		if m.name == name {
			return Puzzle(i), nil
		}
	}
	return 0, errors.Errorf("unknown puzzle %q", name)
}

// MarshalText implements encoding.TextMarshaler.
//
func (p Puzzle) MarshalText() ([]byte, error) {
	if p >= puzzleCount {
		return nil, errors.Errorf("invalid puzzle %d", p)
	}
	return []byte(puzzles[p].name), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
//
func (p *Puzzle) UnmarshalText(b []byte) error {
	v, err := Parse(string(b))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

func (p Puzzle) meta() *metadata {
	if p >= puzzleCount {
		panic("invalid puzzle " + strconv.Itoa(int(p)))
	}
	return puzzles[p]
}

func (p Puzzle) String() string {
	if p >= puzzleCount {
		return "Puzzle(" + strconv.Itoa(int(p)) + ")"
	}
	return puzzles[p].name
}

// Title returns the puzzle's display title.
//
func (p Puzzle) Title() string { return p.meta().title }

// Kind returns the puzzle's kind.
//
func (p Puzzle) Kind() Kind { return p.meta().kind }

// ScoreUnits returns what the puzzle's score counts.
//
func (p Puzzle) ScoreUnits() gs.ScoreUnits { return p.meta().score }

// AllowsEvents reports whether event chips may be used in the puzzle.
//
func (p Puzzle) AllowsEvents() bool { return p.meta().events }

// AllowsAnalog reports whether analog chips may be used in the puzzle.
//
func (p Puzzle) AllowsAnalog() bool { return p.meta().analog }

// InitialBoundsSize returns the size of the board of a fresh circuit.
//
func (p Puzzle) InitialBoundsSize() geom.Size { return p.meta().size }

// InitialBounds returns the board rectangle of a fresh circuit.
//
func (p Puzzle) InitialBounds() geom.Rect {
	return geom.RectAt(geom.C(0, 0), p.meta().size)
}

// Interfaces returns the puzzle's interfaces. The returned slice must not be
// modified.
//
func (p Puzzle) Interfaces() []Interface { return p.meta().ifaces }

// MinBoundsSize returns the smallest board that fits the puzzle's interfaces.
//
func (p Puzzle) MinBoundsSize() geom.Size { return MinBoundsSize(p.meta().ifaces) }

// NewEval returns a fresh evaluator for the puzzle. slots holds the wires
// attached to each interface, in interface order.
//
func (p Puzzle) NewEval(slots [][]gs.Slot) gs.PuzzleEval {
	switch p {
	case FabricateXor:
		return NewTable(slots, xorTable)
	case FabricateMul:
		return NewTable(slots, mulTable)
	case FabricateHalve:
		return NewTable(slots, halveTable())
	case FabricateInc:
		return NewTable(slots, incTable)
	case FabricateCounter:
		return NewTable(slots, counterTable)
	case FabricateEggTimer:
		return NewTable(slots, eggTimerTable)
	case FabricateStack:
		return NewTable(slots, stackTable)
	case FabricateQueue:
		return NewTable(slots, queueTable)
	case FabricateStopwatch:
		return NewTable(slots, stopwatchTable)
	case AutomateHeliostat:
		return newHeliostat(slots)
	case AutomateTranslator:
		return newTranslator(slots)
	case AutomateReactor:
		return newReactor(slots)
	case AutomateStorageDepot:
		return newStorageDepot(slots)
	case CommandLander:
		return newLander(slots)
	case CommandTurret:
		return newTurret(slots)
	case CommandSapper:
		return newSapper(slots)
	case SandboxBehavior:
		return newBehaviorSandbox(slots)
	case SandboxEvent:
		return newEventSandbox(slots)
	case SandboxAnalog:
		return newAnalogSandbox(slots)
	}
	panic("invalid puzzle " + strconv.Itoa(int(p)))
}

// Solved is a set of solved puzzles.
//
type Solved map[Puzzle]bool

// port helpers

func in(name string, c gs.PortColor, s gs.WireSize) InterfacePort {
	return InterfacePort{Name: name, Flow: gs.Send, Color: c, Size: s}
}

func out(name string, c gs.PortColor, s gs.WireSize) InterfacePort {
	return InterfacePort{Name: name, Flow: gs.Recv, Color: c, Size: s}
}
