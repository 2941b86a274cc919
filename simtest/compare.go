// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package simtest

import (
	"strings"
	"testing"

	gs "github.com/db47h/gridsim"
	"github.com/db47h/gridsim/grid"
)

// ComparePorts runs two boards of the same puzzle side by side for up to
// steps time steps and compares the values received by the puzzle's output
// ports at the end of every time step. Both runs see the same inputs since
// the puzzle drives them.
//
func ComparePorts(t *testing.T, steps int, g1, g2 *grid.EditGrid) {
	t.Helper()
	if g1.Puzzle() != g2.Puzzle() {
		t.Fatalf("puzzle mismatch: %s != %s", g1.Puzzle(), g2.Puzzle())
	}
	c1, err := g1.StartEval()
	if err != nil {
		t.Fatalf("first circuit: %+v", err)
	}
	defer g1.StopEval()
	c2, err := g2.StartEval()
	if err != nil {
		t.Fatalf("second circuit: %+v", err)
	}
	defer g2.StopEval()

	type port struct {
		name string
		w1   gs.WireID
		w2   gs.WireID
	}
	var ports []port
	a1, a2 := g1.Analysis(), g2.Analysis()
	for i, f := range g1.Interfaces() {
		ps2 := g2.Interfaces()[i].PortSpecs(g2.Bounds())
		for j, p := range f.PortSpecs(g1.Bounds()) {
			if p.Flow != gs.Recv {
				continue
			}
			ports = append(ports, port{
				name: f.Name + "." + f.Ports[j].Name,
				w1:   a1.PortWires[p.Loc],
				w2:   a2.PortWires[ps2[j].Loc],
			})
		}
	}

	for ts := 0; ts < steps; ts++ {
		r1, r2 := c1.StepTime(), c2.StepTime()
		if r1.Kind != r2.Kind {
			t.Fatalf("time step %d: results differ: %v != %v", ts, r1, r2)
		}
		var b strings.Builder
		for _, p := range ports {
			v1, v2 := c1.WireValue(p.w1), c2.WireValue(p.w2)
			if v1 != v2 {
				if b.Len() > 0 {
					b.WriteString(", ")
				}
				b.WriteString(p.name)
			}
		}
		if b.Len() > 0 {
			t.Fatalf("time step %d: outputs differ: %s", ts, b.String())
		}
		if r1.Kind != gs.Continue {
			return
		}
	}
}
