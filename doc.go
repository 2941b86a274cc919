/*
Package gridsim provides a deterministic, cycle accurate simulator for circuits
built from chips and wires on a 2D grid.

A circuit is described by the ports of its chips and puzzle interfaces and by
the wire fragments laid on the grid. Analyze groups fragments into logical
wires, infers their color (behavior, event or analog) and size, and sorts them
into evaluation groups. Mounting the chips of an analysed circuit yields chip
evaluators grouped by subcycle, which NewCircuit turns into a runnable Circuit
driven by a PuzzleEval.

Evaluation proceeds in time steps. Each time step runs one or more cycles, and
each cycle runs the subcycle groups in order, until no wire changes. The host
advances the simulation with StepSubcycle, StepCycle, StepTime or Tick.

Chip types are defined with a ChipSpec whose MountFn returns closures around the
wires assigned to the chip's ports. The chip package provides the standard chip
catalog and the puzzle package the puzzle environments.
*/
package gridsim
