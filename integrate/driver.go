// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package integrate

import (
	"math"

	"github.com/hirseboy/SIM-VICUS-sub000/inp"
	"github.com/hirseboy/SIM-VICUS-sub000/modl"
)

// OutputSink is the minimal capability the driver needs from the output
// manager (package outmgr, not imported here to avoid a dependency
// cycle): force one quantity snapshot at t. Built following the same
// small-capability-interface idiom as modl.TimeDependent/StepCompleter.
type OutputSink interface {
	Write(t float64) error
	NextOutputTime(t float64) float64
}

// Driver implements the integrator contract of spec §4.3: dt0, setTime,
// setY, yDot, stepCompleted, writeOutputs, nextOutputTime,
// calculateErrorWeights. It owns the global state vector and dispatches
// evaluation through the dependency graph's layered model groups (spec
// §4.1-4.2), exactly as the teacher's fem.Domain owns Sol.Y and dispatches
// through its element list.
type Driver struct {
	graph   *modl.Graph
	runners []*groupRunner
	sv      *modl.StateVector

	timeDependent  []modl.TimeDependent
	stepCompleters []modl.StepCompleter
	sinks          []OutputSink

	solver inp.SolverData
	workers int

	t         float64
	y         []float64
	ydot      []float64
	timeDirty bool
	stateDirty bool

	// Stats accumulates per-step counters for the --step-stats CLI surface.
	Stats StepStats
}

// StepStats tallies the run for the --step-stats report (spec §6).
type StepStats struct {
	AcceptedSteps int
	RejectedSteps int
	NewtonIters   int
}

// NewDriver assembles a Driver from the model graph and the flattened
// lists of capability subsets the kernel package has already sorted out
// during construction (spec §5's construction-order stage lifecycle).
func NewDriver(graph *modl.Graph, sv *modl.StateVector, timeDependent []modl.TimeDependent,
	stepCompleters []modl.StepCompleter, sinks []OutputSink, solver inp.SolverData, workers int) *Driver {
	if workers < 1 {
		workers = 1
	}
	// below 1000 unknowns the graph is evaluated serially, the same
	// cutoff value modl.Builder's workerCount uses
	if sv.Len() < 1000 {
		workers = 1
	}
	return &Driver{
		graph: graph, runners: buildGroups(graph), sv: sv,
		timeDependent: timeDependent, stepCompleters: stepCompleters, sinks: sinks,
		solver: solver, workers: workers,
		y: make([]float64, sv.Len()), ydot: make([]float64, sv.Len()),
	}
}

// Dt0 returns the initial step from the project's solver settings.
func (d *Driver) Dt0() float64 { return d.solver.InitialStep }

// SetTime caches t and flags the time-dependent refresh as pending. It
// does not itself run the refresh: that happens lazily, the first time
// YDot is asked for a derivative at this t (spec §4.3 "flag time-dirty").
func (d *Driver) SetTime(t float64) {
	if t != d.t {
		d.timeDirty = true
	}
	d.t = t
}

// SetY copies y into the internal state vector and flags the
// state-dependent refresh as pending. Bitwise-identical y is a no-op,
// matching the "implementation may compare for bitwise equality to skip"
// allowance of spec §4.3.
func (d *Driver) SetY(y []float64) error {
	if sliceEqual(d.y, y) {
		return nil
	}
	copy(d.y, y)
	if err := d.sv.Scatter(d.y); err != nil {
		return err
	}
	d.stateDirty = true
	return nil
}

// YDot runs whichever refreshes are pending, evaluates the full
// dependency graph and copies the resulting derivatives into ydot (spec
// §4.3 "yDot").
func (d *Driver) YDot(ydot []float64) error {
	if d.timeDirty {
		for _, m := range d.timeDependent {
			if err := m.SetTime(d.t); err != nil {
				return err
			}
		}
		d.timeDirty = false
		d.stateDirty = true // a time change always invalidates state-dependent results
	}
	if d.stateDirty {
		if err := evaluateGraph(d.graph, d.runners, d.t, d.workers); err != nil {
			return err
		}
		d.stateDirty = false
	}
	if err := d.sv.Gather(d.ydot); err != nil {
		return err
	}
	copy(ydot, d.ydot)
	return nil
}

// StepCompleted notifies time-dependent models that a step has converged
// (spec §4.3 "stepCompleted"); they may advance internal history.
func (d *Driver) StepCompleted(t float64) error {
	for _, sc := range d.stepCompleters {
		if err := sc.StepCompleted(t); err != nil {
			return err
		}
	}
	return nil
}

// WriteOutputs forces a setTime+setY+yDot at t and delegates to every
// registered output sink (spec §4.3 "writeOutputs").
func (d *Driver) WriteOutputs(t float64, y []float64) error {
	d.SetTime(t)
	if err := d.SetY(y); err != nil {
		return err
	}
	var scratch []float64
	if n := d.sv.Len(); n > 0 {
		scratch = make([]float64, n)
	}
	if err := d.YDot(scratch); err != nil {
		return err
	}
	for _, s := range d.sinks {
		if err := s.Write(t); err != nil {
			return err
		}
	}
	return nil
}

// NextOutputTime returns the minimum next-output time over every
// registered output grid (spec §4.3 "nextOutputTime").
func (d *Driver) NextOutputTime(t float64) float64 {
	next := math.Inf(1)
	for _, s := range d.sinks {
		if n := s.NextOutputTime(t); n < next {
			next = n
		}
	}
	return next
}

// CalculateErrorWeights fills weights with the component-wise error
// scale of spec §4.3: 1/(relTol*|y_i| + absTol).
func (d *Driver) CalculateErrorWeights(y, weights []float64) {
	for i, yi := range y {
		weights[i] = 1 / (d.solver.RelTol*math.Abs(yi) + d.solver.AbsTol)
	}
}

func sliceEqual(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
