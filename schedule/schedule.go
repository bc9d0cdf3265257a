// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package schedule implements the schedules collaborator of spec §6: a
// time-dependent model backed by gosl/fun.TimeSpace, consulted by the model
// graph builder between the FMI-import override and the native publish
// map (spec §4.1 step 2).
package schedule

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun"
	"github.com/hirseboy/SIM-VICUS-sub000/inp"
	"github.com/hirseboy/SIM-VICUS-sub000/quantity"
)

// Entry binds a published name to a gosl/fun.TimeSpace evaluated each
// setTime.
type Entry struct {
	Name string
	Fcn  fun.TimeSpace
	val  float64
}

// Schedules is a TimeDependent AbstractModel: it refreshes every entry's
// current value at setTime and exposes each as a named result (spec §3
// "Model object", restricted to the TimeDependent capability since
// schedules never consume inputs).
type Schedules struct {
	id      uint
	entries []*Entry
	byName  map[string]*Entry
}

// New builds a Schedules model from the project's named-function table,
// selecting the subset referenced by name in defs.
func New(id uint, table inp.FuncsData, names []string) (*Schedules, error) {
	s := &Schedules{id: id, byName: make(map[string]*Entry)}
	for _, name := range names {
		fcn, err := table.Get(name)
		if err != nil {
			return nil, chk.Err("schedule %q: %v", name, err)
		}
		e := &Entry{Name: name, Fcn: fcn}
		s.entries = append(s.entries, e)
		s.byName[name] = e
	}
	return s, nil
}

func (s *Schedules) Id() uint                  { return s.id }
func (s *Schedules) RefType() quantity.RefType { return quantity.RefSchedule }
func (s *Schedules) DisplayName() string       { return "Schedules" }

func (s *Schedules) InitResults() error { return nil }

func (s *Schedules) ResultDescriptions() []quantity.Description {
	out := make([]quantity.Description, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, quantity.Description{Name: e.Name, Index: -1, Size: 1, Unit: "-"})
	}
	return out
}

func (s *Schedules) ResultValueRef(name quantity.Name) (*float64, bool) {
	e, ok := s.byName[name.Name]
	if !ok {
		return nil, false
	}
	return &e.val, true
}

// SetTime refreshes every entry from its backing function (spec §4.2
// "Refresh time-dependent models").
func (s *Schedules) SetTime(t float64) error {
	for _, e := range s.entries {
		e.val = e.Fcn.F(t, nil)
	}
	return nil
}

// ResolveResultReference implements modl.ValueSource: schedules are
// consulted by (RefType, Id, Name), matching any schedule-provided
// quantity when the reference names this schedule object (spec §4.1
// step 2, "the schedules collaborator").
func (s *Schedules) ResolveResultReference(ref quantity.InputReference, want quantity.Description) *float64 {
	if ref.RefType != quantity.RefSchedule || ref.Id != s.id {
		return nil
	}
	addr, ok := s.ResultValueRef(ref.Name)
	if !ok {
		return nil
	}
	return addr
}
