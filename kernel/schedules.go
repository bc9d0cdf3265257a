// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package kernel

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/hirseboy/SIM-VICUS-sub000/inp"
	"github.com/hirseboy/SIM-VICUS-sub000/modl"
	"github.com/hirseboy/SIM-VICUS-sub000/quantity"
	"github.com/hirseboy/SIM-VICUS-sub000/schedule"
)

// scheduleSet is the composite modl.ValueSource a project with more than
// one schedule definition needs: modl.Builder.Schedules is a single
// field, but a real project builds one schedule.Schedules instance per
// distinct inp.ScheduleDefData.Id (each potentially wrapping a different
// function under a different consumer-facing name). Every member only
// answers for its own id (schedule.Schedules.ResolveResultReference
// checks ref.Id == s.id), so trying each in turn is sufficient; no
// dispatch table keyed by id is needed.
type scheduleSet []*schedule.Schedules

func (set scheduleSet) ResolveResultReference(ref quantity.InputReference, want quantity.Description) *float64 {
	for _, s := range set {
		if addr := s.ResolveResultReference(ref, want); addr != nil {
			return addr
		}
	}
	return nil
}

// buildSchedules turns the project's schedule definitions into one
// schedule.Schedules instance each, renaming the referenced function
// entry to the quantity name its consumer expects (ScheduleDefData.As),
// and returns the composite ValueSource to install as
// modl.Builder.Schedules. Returns a nil scheduleSet for an empty
// project so kernel.New can skip setting Builder.Schedules entirely.
func buildSchedules(defs []inp.ScheduleDefData, functions inp.FuncsData) ([]*schedule.Schedules, modl.ValueSource, error) {
	if len(defs) == 0 {
		return nil, nil, nil
	}
	out := make([]*schedule.Schedules, 0, len(defs))
	for _, def := range defs {
		renamed, err := renamedFunction(def, functions)
		if err != nil {
			return nil, nil, err
		}
		sch, err := schedule.New(def.Id, inp.FuncsData{renamed}, []string{def.As})
		if err != nil {
			return nil, nil, chk.Err("schedule %d: %v", def.Id, err)
		}
		out = append(out, sch)
	}
	return out, scheduleSet(out), nil
}

// renamedFunction builds the shallow copy of the referenced FuncData
// published under the consumer-facing name As, per
// inp.ScheduleDefData's doc comment. "zero"/"none" bypass the function
// table entirely (inp.FuncsData.Get's own special case), so they are
// rebuilt here as an explicit constant-zero entry instead of going
// through Find.
func renamedFunction(def inp.ScheduleDefData, functions inp.FuncsData) (*inp.FuncData, error) {
	if def.Function == "zero" || def.Function == "none" {
		return &inp.FuncData{Name: def.As, Type: "cte", Prms: dbf.Params{&dbf.P{N: "c", V: 0}}}, nil
	}
	f, ok := functions.Find(def.Function)
	if !ok {
		return nil, chk.Err("schedule %d: references unknown function %q", def.Id, def.Function)
	}
	return &inp.FuncData{Name: def.As, Type: f.Type, Prms: f.Prms}, nil
}
