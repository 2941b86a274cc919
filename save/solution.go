// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package save

import (
	"os"
	"slices"

	gs "github.com/db47h/gridsim"
	"github.com/db47h/gridsim/geom"
	"github.com/db47h/gridsim/puzzle"
	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
)

// InputEntry is one recorded user input. Delta is the DeltaKey of the pressed
// chip relative to the top-left corner of the circuit bounds.
//
type InputEntry struct {
	TimeStep    uint32 `toml:"time_step"`
	Cycle       uint32 `toml:"cycle"`
	Delta       string `toml:"delta"`
	Sublocation uint32 `toml:"sublocation"`
	Count       uint32 `toml:"count"`
}

// InputsData is the list of user inputs recorded during a run, in the order
// they were consumed.
//
type InputsData []InputEntry

// FromRecords converts runtime input records to their serialized form.
//
func FromRecords(records []gs.InputRecord, topLeft geom.Coords) InputsData {
	if len(records) == 0 {
		return nil
	}
	d := make(InputsData, 0, len(records))
	for _, r := range records {
		d = append(d, InputEntry{
			TimeStep:    r.TimeStep,
			Cycle:       r.Cycle,
			Delta:       DeltaKey(r.Coords.Sub(topLeft)),
			Sublocation: r.Sublocation,
			Count:       r.Count,
		})
	}
	return d
}

// Records returns the inputs as runtime records, sorted by time step then
// cycle.
//
func (d InputsData) Records(topLeft geom.Coords) ([]gs.InputRecord, error) {
	rs := make([]gs.InputRecord, 0, len(d))
	for _, e := range d {
		delta, err := ParseDeltaKey(e.Delta)
		if err != nil {
			return nil, errors.Wrap(err, "invalid input entry")
		}
		rs = append(rs, gs.InputRecord{
			TimeStep:    e.TimeStep,
			Cycle:       e.Cycle,
			Coords:      topLeft.Add(delta),
			Sublocation: e.Sublocation,
			Count:       e.Count,
		})
	}
	slices.SortStableFunc(rs, func(a, b gs.InputRecord) int {
		if a.TimeStep != b.TimeStep {
			return cmpU32(a.TimeStep, b.TimeStep)
		}
		return cmpU32(a.Cycle, b.Cycle)
	})
	return rs, nil
}

func cmpU32(a, b uint32) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// SolutionData is a verified solution to a puzzle.
//
type SolutionData struct {
	Puzzle    puzzle.Puzzle `toml:"puzzle"`
	Score     uint32        `toml:"score"`
	TimeSteps uint32        `toml:"time_steps"`
	Circuit   CircuitData   `toml:"circuit"`
	Inputs    InputsData    `toml:"inputs,omitempty"`
}

// EncodeSolution returns the TOML form of s.
//
func EncodeSolution(s *SolutionData) ([]byte, error) {
	b, err := toml.Marshal(s)
	return b, errors.Wrap(err, "could not serialize solution")
}

// DecodeSolution parses a TOML solution.
//
func DecodeSolution(b []byte) (*SolutionData, error) {
	s := new(SolutionData)
	if err := toml.Unmarshal(b, s); err != nil {
		return nil, errors.Wrap(err, "could not deserialize solution")
	}
	return s, nil
}

// LoadSolution reads a solution file.
//
func LoadSolution(name string) (*SolutionData, error) {
	b, err := os.ReadFile(name)
	if err != nil {
		return nil, errors.Wrap(err, "could not read solution file")
	}
	return DecodeSolution(b)
}

// SaveSolution writes a solution file.
//
func SaveSolution(name string, s *SolutionData) error {
	b, err := EncodeSolution(s)
	if err != nil {
		return err
	}
	return errors.Wrap(os.WriteFile(name, b, 0644), "could not write solution file")
}
