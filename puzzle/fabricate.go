// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package puzzle

import (
	gs "github.com/db47h/gridsim"
	"github.com/db47h/gridsim/geom"
)

// no event
const x = NoEvent

var xorInterfaces = []Interface{
	{
		Name: "In1", Description: "First input (0 or 1).",
		Side: geom.West, Pos: Center,
		Ports: []InterfacePort{in("In1", gs.Behavior, gs.One)},
	},
	{
		Name: "In2", Description: "Second input (0 or 1).",
		Side: geom.South, Pos: Center,
		Ports: []InterfacePort{in("In2", gs.Behavior, gs.One)},
	},
	{
		Name: "Out", Description: "Should be 1 if exactly one input is 1, or 0 otherwise.",
		Side: geom.East, Pos: Center,
		Ports: []InterfacePort{out("Out", gs.Behavior, gs.One)},
	},
}

var xorTable = &TableData{
	Ifaces: xorInterfaces,
	Values: []uint64{
		0, 0, 0,
		1, 0, 1,
		0, 1, 1,
		1, 1, 0,
	},
}

var mulInterfaces = []Interface{
	{
		Name: "In1", Description: "First input (from 0 to 255).",
		Side: geom.West, Pos: Center,
		Ports: []InterfacePort{in("In1", gs.Behavior, gs.Eight)},
	},
	{
		Name: "In2", Description: "Second input (from 0 to 255).",
		Side: geom.South, Pos: Center,
		Ports: []InterfacePort{in("In2", gs.Behavior, gs.Eight)},
	},
	{
		Name: "Out", Description: "Should be the product of the two inputs (which will never be more than 255 for this task).",
		Side: geom.East, Pos: Center,
		Ports: []InterfacePort{out("Out", gs.Behavior, gs.Eight)},
	},
}

var mulTable = &TableData{
	Ifaces: mulInterfaces,
	Values: []uint64{
		4, 3, 12,
		3, 10, 30,
		20, 12, 240,
		1, 197, 197,
		83, 0, 0,
		13, 19, 247,
		12, 1, 12,
		2, 73, 146,
		0, 7, 0,
		7, 13, 91,
	},
}

var halveInterfaces = []Interface{
	{
		Name: "In", Description: "Input (from 0 to 15).",
		Side: geom.West, Pos: Center,
		Ports: []InterfacePort{in("In", gs.Behavior, gs.Four)},
	},
	{
		Name: "Out", Description: "Should be half the value of the input, rounded down.",
		Side: geom.East, Pos: Center,
		Ports: []InterfacePort{out("Out", gs.Behavior, gs.Four)},
	},
}

func halveTable() *TableData {
	vs := make([]uint64, 0, 32)
	for n := uint64(0); n < 16; n++ {
		vs = append(vs, n, n/2)
	}
	return &TableData{Ifaces: halveInterfaces, Values: vs}
}

var incInterfaces = []Interface{
	{
		Name: "InE", Description: "Input events arrive here.",
		Side: geom.West, Pos: Center,
		Ports: []InterfacePort{in("InE", gs.Event, gs.Four)},
	},
	{
		Name: "InB", Description: "Input behavior, to be added to each event.",
		Side: geom.South, Pos: Center,
		Ports: []InterfacePort{in("InB", gs.Behavior, gs.Four)},
	},
	{
		Name: "Out", Description: "Should send an event with the sum of InE and InB for each input event.",
		Side: geom.East, Pos: Center,
		Ports: []InterfacePort{out("Out", gs.Event, gs.Four)},
	},
}

var incTable = &TableData{
	Ifaces: incInterfaces,
	Values: []uint64{
		4, 7, 11,
		x, 12, x,
		6, 0, 6,
		9, 1, 10,
		x, 8, x,
		0, 14, 14,
		1, 2, 3,
		5, 10, 15,
	},
}

var counterInterfaces = []Interface{
	{
		Name: "Set", Description: "When an event arrives here, the count should be set to its value.",
		Side: geom.South, Pos: Left(0),
		Ports: []InterfacePort{in("Set", gs.Event, gs.Four)},
	},
	{
		Name: "Inc", Description: "When an event arrives here, the count should be incremented by one.",
		Side: geom.North, Pos: Left(0),
		Ports: []InterfacePort{in("Inc", gs.Event, gs.Zero)},
	},
	{
		Name: "Dec", Description: "When an event arrives here, the count should be decremented by one.",
		Side: geom.South, Pos: Right(0),
		Ports: []InterfacePort{in("Dec", gs.Event, gs.Zero)},
	},
	{
		Name: "Out", Description: "Should be the current count, wrapping around between 0 and 15.",
		Side: geom.North, Pos: Right(0),
		Ports: []InterfacePort{out("Out", gs.Behavior, gs.Four)},
	},
}

var counterTable = &TableData{
	Ifaces: counterInterfaces,
	Values: []uint64{
		x, x, x, 0,
		x, 0, x, 1,
		x, 0, x, 2,
		x, 0, x, 3,
		x, x, 0, 2,
		x, x, 0, 1,
		x, x, 0, 0,
		x, x, 0, 15,
		x, x, 0, 14,
		x, 0, x, 15,
		x, 0, x, 0,
		x, 0, x, 1,
		7, x, x, 7,
		x, 0, x, 8,
		11, x, x, 11,
		x, x, 0, 10,
		3, 0, x, 4,
		13, x, 0, 12,
		x, 0, 0, 12,
		5, 0, 0, 5,
	},
}

var eggTimerInterfaces = []Interface{
	{
		Name: "Set", Description: "When an event arrives here, the timer should be set to that many time steps.",
		Side: geom.West, Pos: Center,
		Ports: []InterfacePort{in("Set", gs.Event, gs.Eight)},
	},
	{
		Name: "Remain", Description: "Should be the number of time steps remaining.",
		Side: geom.North, Pos: Center,
		Ports: []InterfacePort{out("Remain", gs.Behavior, gs.Eight)},
	},
	{
		Name: "Alarm", Description: "Should send an event when the remaining time reaches zero.",
		Side: geom.East, Pos: Center,
		Ports: []InterfacePort{out("Alarm", gs.Event, gs.Zero)},
	},
}

var eggTimerTable = &TableData{
	Ifaces: eggTimerInterfaces,
	Values: []uint64{
		x, 0, x,
		3, 3, x,
		x, 2, x,
		x, 1, x,
		x, 0, 0,
		x, 0, x,
		5, 5, x,
		x, 4, x,
		1, 1, x,
		x, 0, 0,
		3, 3, x,
		x, 2, x,
		x, 1, x,
		9, 9, x,
		x, 8, x,
		x, 7, x,
		0, 0, 0,
		x, 0, x,
		0, 0, 0,
		x, 0, x,
	},
}

func memoryInterfaces(what, front string) []Interface {
	return []Interface{
		{
			Name: "Push", Description: "When an event arrives here, its value should be pushed " + front + " the " + what + ".",
			Side: geom.West, Pos: Left(0),
			Ports: []InterfacePort{in("Push", gs.Event, gs.Four)},
		},
		{
			Name: "Pop", Description: "When an event arrives here, the next value of the " + what + " should be popped off and sent to the Out port.",
			Side: geom.East, Pos: Left(0),
			Ports: []InterfacePort{in("Pop", gs.Event, gs.Zero)},
		},
		{
			Name: "Out", Description: "Values popped off the " + what + " should be sent here.",
			Side: geom.East, Pos: Right(0),
			Ports: []InterfacePort{out("Out", gs.Event, gs.Four)},
		},
		{
			Name: "Count", Description: "Should be the number of values currently in the " + what + ".",
			Side: geom.West, Pos: Right(0),
			Ports: []InterfacePort{out("Count", gs.Behavior, gs.Eight)},
		},
	}
}

var (
	stackInterfaces = memoryInterfaces("stack", "onto the top of")
	queueInterfaces = memoryInterfaces("queue", "into the back of")
)

var stackTable = &TableData{
	Ifaces: stackInterfaces,
	Values: []uint64{
		5, x, x, 1,
		3, x, x, 2,
		12, x, x, 3,
		x, 0, 12, 2,
		x, 0, 3, 1,
		x, 0, 5, 0,
		x, 0, x, 0,
		12, x, x, 1,
		14, x, x, 2,
		9, x, x, 3,
		4, x, x, 4,
		x, 0, 4, 3,
		x, 0, 9, 2,
		2, x, x, 3,
		x, 0, 2, 2,
		x, 0, 14, 1,
		9, 0, 9, 1,
		x, 0, 12, 0,
		x, 0, x, 0,
		1, 0, 1, 0,
	},
}

var queueTable = &TableData{
	Ifaces: queueInterfaces,
	Values: []uint64{
		5, x, x, 1,
		3, x, x, 2,
		12, x, x, 3,
		x, 0, 5, 2,
		x, 0, 3, 1,
		x, 0, 12, 0,
		x, 0, x, 0,
		12, x, x, 1,
		14, x, x, 2,
		9, x, x, 3,
		4, x, x, 4,
		x, 0, 12, 3,
		x, 0, 14, 2,
		2, x, x, 3,
		x, 0, 9, 2,
		x, 0, 4, 1,
		9, 0, 2, 1,
		x, 0, 9, 0,
		x, 0, x, 0,
		1, 0, 1, 0,
	},
}

var stopwatchInterfaces = []Interface{
	{
		Name: "Start", Description: "When an event arrives here, the timer should start counting up from its current value.",
		Side: geom.West, Pos: Center,
		Ports: []InterfacePort{in("Start", gs.Event, gs.Zero)},
	},
	{
		Name: "Stop", Description: "When an event arrives here, the timer should pause.",
		Side: geom.South, Pos: Center,
		Ports: []InterfacePort{in("Stop", gs.Event, gs.Zero)},
	},
	{
		Name: "Reset", Description: "When an event arrives here, the timer should be reset to zero.",
		Side: geom.North, Pos: Center,
		Ports: []InterfacePort{in("Reset", gs.Event, gs.Zero)},
	},
	{
		Name: "Time", Description: "Should be the current timer value, starting at zero.",
		Side: geom.East, Pos: Center,
		Ports: []InterfacePort{out("Time", gs.Behavior, gs.Eight)},
	},
}

var stopwatchTable = &TableData{
	Ifaces: stopwatchInterfaces,
	Values: []uint64{
		x, x, x, 0,
		0, x, x, 0,
		x, x, x, 1,
		x, x, x, 2,
		x, 0, x, 3,
		x, x, x, 3,
		x, x, 0, 0,
		x, x, x, 0,
		0, x, x, 0,
		x, x, x, 1,
		x, x, x, 2,
		x, x, 0, 0,
		x, x, x, 1,
		x, x, x, 2,
		x, 0, x, 3,
		x, x, x, 3,
		0, x, 0, 0,
		x, x, x, 1,
		x, x, x, 2,
		x, 0, 0, 0,
		x, x, x, 0,
	},
}
