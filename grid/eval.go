// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package grid

import (
	"math/rand/v2"

	gs "github.com/db47h/gridsim"
	"github.com/db47h/gridsim/save"
	"github.com/pkg/errors"
)

// Analysis returns the wire analysis of the board. The result is cached until
// the next mutation.
//
func (g *EditGrid) Analysis() *gs.Analysis {
	if g.analysis != nil {
		return g.analysis
	}
	ports := make(map[gs.Loc]gs.PortSpec)
	var (
		cs   []gs.PortConstraint
		deps []gs.PortDependency
	)
	for i := range g.ifaces {
		for _, p := range g.ifaces[i].PortSpecs(g.bounds) {
			ports[p.Loc] = p
		}
		cs = append(cs, g.ifaces[i].Constraints(g.bounds)...)
	}
	for _, c := range g.Chips() {
		for _, p := range c.Type.Ports(c.Coords, c.Orient) {
			ports[p.Loc] = p
		}
		cs = append(cs, c.Type.Constraints(c.Coords, c.Orient)...)
		deps = append(deps, c.Type.Dependencies(c.Coords, c.Orient)...)
	}
	g.analysis = gs.Analyze(ports, g.frags, cs, deps)
	for _, err := range g.analysis.Errors {
		g.log.Debug("wire error", "puzzle", g.puzzle, "error", err)
	}
	return g.analysis
}

// Wires returns the logical wires of the board.
//
func (g *EditGrid) Wires() []*gs.Wire { return g.Analysis().Wires }

// WireAt returns the wire of the fragment or port at l.
//
func (g *EditGrid) WireAt(l gs.Loc) (gs.WireID, bool) {
	a := g.Analysis()
	if id, ok := a.FragmentWires[l]; ok {
		return id, true
	}
	id, ok := a.PortWires[l]
	return id, ok
}

// Errors returns the wire analysis errors. The board can only be evaluated
// if there are none.
//
func (g *EditGrid) Errors() []gs.WireError { return g.Analysis().Errors }

// HasErrors reports whether the wire analysis found any error.
//
func (g *EditGrid) HasErrors() bool { return len(g.Errors()) > 0 }

// StartEval freezes the board and returns a new evaluation of it. Pending
// provisional changes are committed first.
//
func (g *EditGrid) StartEval() (*gs.Circuit, error) {
	if g.eval != nil {
		return nil, ErrEvaluating
	}
	g.CommitProvisional()
	a := g.Analysis()
	if len(a.Errors) > 0 {
		return nil, errors.WithMessage(a.Errors[0], "cannot evaluate circuit")
	}
	chips := g.Chips()
	ps := make([]gs.Placement, len(chips))
	for i, c := range chips {
		ps[i] = gs.Placement{Spec: c.Type.Spec(), Coords: c.Coords, Orient: c.Orient}
	}
	rng := rand.New(rand.NewPCG(g.seed, g.seed^0x9e3779b97f4a7c15))
	evals := a.Mount(ps, rng)
	slots := make([][]gs.Slot, len(g.ifaces))
	for i := range g.ifaces {
		slots[i] = a.Slots(g.ifaces[i].PortSpecs(g.bounds))
	}
	g.eval = gs.NewCircuit(evals, a.NullWires(), len(a.Wires), g.puzzle.NewEval(slots), gs.CircuitOptions{
		Logger:     g.log,
		ScoreUnits: g.puzzle.ScoreUnits(),
		WireLength: a.WireLength(),
	})
	g.log.Debug("evaluation started", "puzzle", g.puzzle, "wires", len(a.Wires), "groups", len(a.Groups))
	return g.eval, nil
}

// StopEval ends the current evaluation, if any, and unfreezes the board.
//
func (g *EditGrid) StopEval() {
	if g.eval != nil {
		g.log.Debug("evaluation stopped", "time_step", g.eval.TimeStep())
	}
	g.eval = nil
}

// Eval returns the running evaluation, or nil.
//
func (g *EditGrid) Eval() *gs.Circuit { return g.eval }

// RecordedInputs returns the user inputs consumed by the running evaluation,
// relative to the top-left corner of the board.
//
func (g *EditGrid) RecordedInputs() save.InputsData {
	if g.eval == nil {
		return nil
	}
	return save.FromRecords(g.eval.RecordedInputs(), g.bounds.TopLeft())
}
