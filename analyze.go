// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package gridsim

import "slices"

// WireSizes narrows the size interval of every wire until all constraints
// hold or no further progress can be made. Wires left with an empty interval
// are reported as NoValidSize.
//
// Intervals only ever shrink, so the result does not depend on the order of
// constraints.
//
func WireSizes(wires []*Wire, portWires map[Loc]WireID, constraints []PortConstraint) []WireError {
	cs := slices.Clone(constraints)
	for changed := true; changed; {
		changed = false
		cs = slices.DeleteFunc(cs, func(c PortConstraint) bool {
			keep, ch := applyConstraint(wires, portWires, c)
			changed = changed || ch
			return !keep
		})
	}

	var errs []WireError
	for i, w := range wires {
		if w.Color != Unknown && w.Size.IsEmpty() {
			w.HasError = true
			errs = append(errs, WireError{Kind: NoValidSize, Wires: []WireID{WireID(i)}})
		}
	}
	return errs
}

// applyConstraint applies c once. It returns whether c must be retained for
// another pass and whether any interval changed.
//
func applyConstraint(wires []*Wire, portWires map[Loc]WireID, c PortConstraint) (keep, changed bool) {
	id, ok := portWires[c.Loc]
	if !ok {
		return false, false
	}
	w := wires[id]
	switch c.Kind {
	case ConstraintExact:
		sz := w.Size.Intersect(Exactly(c.Size))
		if !sz.Equal(w.Size) {
			w.Size = sz
			return false, true
		}
		return false, false
	case ConstraintAtLeast:
		return false, w.Size.MakeAtLeast(c.Size)
	case ConstraintAtMost:
		return false, w.Size.MakeAtMost(c.Size)
	}

	id2, ok := portWires[c.Other]
	if !ok {
		return false, false
	}
	w2 := wires[id2]
	if c.Kind == ConstraintDouble && id == id2 {
		changed = !w.Size.IsEmpty()
		w.Size = EmptyInterval()
		return false, changed
	}
	if id == id2 || w.Size.IsEmpty() || w2.Size.IsEmpty() {
		return false, false
	}
	s1, s2 := w.Size, w2.Size
	if c.Kind == ConstraintEqual {
		sz := s1.Intersect(s2)
		w.Size, w2.Size = sz, sz
		return sz.IsAmbiguous(), !sz.Equal(s1) || !sz.Equal(s2)
	}
	n1 := s1.Intersect(s2.Double())
	n2 := s2.Intersect(s1.Half())
	w.Size, w2.Size = n1, n2
	return n1.IsAmbiguous() || n2.IsAmbiguous(), !n1.Equal(s1) || !n2.Equal(s2)
}

// DetectLoops sorts wires into evaluation groups. A dependency from a
// receiving port to a sending port of the same chip makes the sending wire
// come after the receiving wire. Groups are numbered from 0 and wires within
// a group are independent.
//
// If the dependency graph has cycles, every strongly connected component that
// forms a loop is reported as UnbrokenLoop and no groups are returned.
//
func DetectLoops(wires []*Wire, portWires map[Loc]WireID, deps []PortDependency) ([][]WireID, []WireError) {
	succ := make([][]WireID, len(wires))
	indeg := make([]int, len(wires))
	for _, d := range deps {
		r, ok1 := portWires[d.Recv]
		s, ok2 := portWires[d.Send]
		if !ok1 || !ok2 {
			continue
		}
		succ[r] = append(succ[r], s)
		indeg[s]++
	}

	var groups [][]WireID
	var cur []WireID
	for i := range wires {
		if indeg[i] == 0 {
			cur = append(cur, WireID(i))
		}
	}
	sorted := 0
	for len(cur) > 0 {
		groups = append(groups, cur)
		sorted += len(cur)
		var next []WireID
		for _, id := range cur {
			for _, s := range succ[id] {
				if indeg[s]--; indeg[s] == 0 {
					next = append(next, s)
				}
			}
		}
		slices.Sort(next)
		cur = next
	}
	if sorted == len(wires) {
		return groups, nil
	}

	remaining := make(map[WireID]bool)
	for i := range wires {
		if indeg[i] > 0 {
			remaining[WireID(i)] = true
		}
	}
	var errs []WireError
	for _, comp := range components(succ, remaining) {
		if len(comp) == 1 && !slices.Contains(succ[comp[0]], comp[0]) {
			continue
		}
		e := WireError{Kind: UnbrokenLoop, Wires: comp}
		for _, id := range comp {
			e.HasEvents = e.HasEvents || wires[id].Color == EventWire
			wires[id].HasError = true
		}
		errs = append(errs, e)
	}
	return nil, errs
}

// components returns the strongly connected components of the subgraph
// induced by nodes, using Tarjan's algorithm. Each component is sorted and
// components are ordered by their smallest node.
//
func components(succ [][]WireID, nodes map[WireID]bool) [][]WireID {
	var (
		index   = make(map[WireID]int)
		low     = make(map[WireID]int)
		onStack = make(map[WireID]bool)
		stack   []WireID
		comps   [][]WireID
		n       int
	)
	var visit func(v WireID)
	visit = func(v WireID) {
		index[v], low[v] = n, n
		n++
		stack = append(stack, v)
		onStack[v] = true
		for _, w := range succ[v] {
			if !nodes[w] {
				continue
			}
			if _, ok := index[w]; !ok {
				visit(w)
				low[v] = min(low[v], low[w])
			} else if onStack[w] {
				low[v] = min(low[v], index[w])
			}
		}
		if low[v] == index[v] {
			var comp []WireID
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				comp = append(comp, w)
				if w == v {
					break
				}
			}
			slices.Sort(comp)
			comps = append(comps, comp)
		}
	}
	ids := make([]WireID, 0, len(nodes))
	for id := range nodes {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		if _, ok := index[id]; !ok {
			visit(id)
		}
	}
	slices.SortFunc(comps, func(a, b []WireID) int { return int(a[0] - b[0]) })
	return comps
}

// Analysis is the result of analysing the wires of a circuit.
//
type Analysis struct {
	Wires []*Wire
	// PortWires maps each port to its wire.
	PortWires map[Loc]WireID
	// FragmentWires maps each wire fragment to its wire.
	FragmentWires map[Loc]WireID
	// Groups holds the wires in evaluation order. It is nil if Errors is not
	// empty.
	Groups [][]WireID
	Errors []WireError
}

// Analyze groups fragments into wires, colors them, infers their sizes and
// sorts them into evaluation groups.
//
func Analyze(ports map[Loc]PortSpec, fragments map[Loc]WireShape, constraints []PortConstraint, deps []PortDependency) *Analysis {
	a := &Analysis{
		Wires: GroupWires(ports, fragments),
	}
	a.FragmentWires = make(map[Loc]WireID, len(fragments))
	for i, w := range a.Wires {
		for _, l := range w.Fragments {
			a.FragmentWires[l] = WireID(i)
		}
	}
	a.Errors = ColorWires(a.Wires)
	a.PortWires = MapPortsToWires(a.Wires)
	a.Errors = append(a.Errors, WireSizes(a.Wires, a.PortWires, constraints)...)
	groups, errs := DetectLoops(a.Wires, a.PortWires, deps)
	if len(errs) > 0 {
		a.Errors = append(a.Errors, errs...)
	} else if len(a.Errors) == 0 {
		a.Groups = groups
	}
	return a
}

// WireLength returns the number of fragments on wires.
//
func (a *Analysis) WireLength() int {
	return len(a.FragmentWires)
}

// NullWires returns the set of fragment-less wires.
//
func (a *Analysis) NullWires() map[WireID]bool {
	m := make(map[WireID]bool)
	for i, w := range a.Wires {
		if w.IsNull() {
			m[WireID(i)] = true
		}
	}
	return m
}

// GroupIndex returns the evaluation group of each wire.
//
func (a *Analysis) GroupIndex() []int {
	gi := make([]int, len(a.Wires))
	for g, ids := range a.Groups {
		for _, id := range ids {
			gi[id] = g
		}
	}
	return gi
}
