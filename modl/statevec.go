// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package modl

import "github.com/cpmech/gosl/chk"

// slot records where one StateConsumer's states live in the flat vector.
type slot struct {
	owner  StateConsumer
	offset int
	n      int
}

// StateVector is the global y used by the integrator: a flat array of
// doubles backing every StateConsumer's private states, addressed
// through a per-object offset table (spec §4.2 "global state vector").
type StateVector struct {
	slots []slot
	n     int
}

// NewStateVector lays out consumers in the given order, which callers
// should derive from the layered dependency graph so that offsets are
// stable across a run (spec §4.2 "fixed order evaluation").
func NewStateVector(consumers []StateConsumer) *StateVector {
	sv := &StateVector{}
	off := 0
	for _, c := range consumers {
		n := c.NStates()
		if n < 0 {
			panic("modl: NStates returned a negative count")
		}
		sv.slots = append(sv.slots, slot{owner: c, offset: off, n: n})
		off += n
	}
	sv.n = off
	return sv
}

// Len returns the total number of unknowns.
func (sv *StateVector) Len() int { return sv.n }

// Initial fills y with every consumer's initial state.
func (sv *StateVector) Initial(y []float64) {
	for _, s := range sv.slots {
		if s.n == 0 {
			continue
		}
		s.owner.YInitial(y[s.offset : s.offset+s.n])
	}
}

// Scatter distributes y into every consumer (e.g. before evaluating
// yDot), in offset order.
func (sv *StateVector) Scatter(y []float64) error {
	for _, s := range sv.slots {
		if s.n == 0 {
			continue
		}
		if err := s.owner.SetY(y[s.offset : s.offset+s.n]); err != nil {
			return err
		}
	}
	return nil
}

// Gather collects every consumer's time derivative into ydot, in offset
// order; call after the model graph has been fully evaluated for the
// current y so every input a consumer's YDot reads is current.
func (sv *StateVector) Gather(ydot []float64) error {
	for _, s := range sv.slots {
		if s.n == 0 {
			continue
		}
		if err := s.owner.YDot(ydot[s.offset : s.offset+s.n]); err != nil {
			return err
		}
	}
	return nil
}

// OffsetOf returns the (offset, n) pair for a consumer, for callers
// that need to slice y directly. Panics if c was not part of the
// vector's layout: that is a
// wiring mistake, not a runtime condition to tolerate.
func (sv *StateVector) OffsetOf(c StateConsumer) (offset, n int) {
	for _, s := range sv.slots {
		if s.owner == c {
			return s.offset, s.n
		}
	}
	panic(chk.Err("modl: state consumer not part of this state vector").Error())
}
