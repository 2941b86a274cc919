// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package gridsim

import (
	"math"
	"time"
)

func seconds(s float64) time.Duration {
	return time.Duration(math.Round(s * float64(time.Second)))
}

// Tick advances an auto-running circuit by the given wall clock time, in
// seconds. Elapsed time accumulates as credit, and one time step is run for
// each SecondsPerTimeStep of credit. Leftover credit carries over to the next
// call.
//
// Credit is kept in whole nanoseconds so that ticks adding up to a multiple
// of the time step length run exactly that many steps.
//
// Tick returns the number of time steps completed and the result of the last
// step. On any result other than Continue, remaining credit is discarded.
//
func (c *Circuit) Tick(elapsed float64) (int, EvalResult) {
	spts := seconds(c.puzzle.SecondsPerTimeStep())
	if spts <= 0 {
		return 0, EvalResult{}
	}
	c.credit += seconds(elapsed)
	n := 0
	for c.credit >= spts {
		c.credit -= spts
		r := c.StepTime()
		if r.Kind != Continue {
			c.credit = 0
			return n, r
		}
		n++
	}
	return n, EvalResult{}
}

// Credit returns the auto-run time credit left over from previous ticks, in
// seconds.
//
func (c *Circuit) Credit() float64 { return c.credit.Seconds() }
