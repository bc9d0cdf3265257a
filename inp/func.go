// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun"
	"github.com/cpmech/gosl/fun/dbf"
)

// FuncData describes one named time function referenced by a schedule,
// a controller setpoint, or a heat-exchange spline (SPEC_FULL.md §3:
// gosl/fun backs the schedule value-source contract).
type FuncData struct {
	Name string     `json:"name"` // e.g. "heating-setpoint", "zero"
	Type string     `json:"type"` // "cte", "pts" (linear interpolation), "rmp" (ramp)
	Prms dbf.Params `json:"prms"`
}

// FuncsData is the project's named-function table.
type FuncsData []*FuncData

// Find returns the raw entry for name, or false if the table has none.
// Used to build a renamed shallow copy (see ScheduleDefData.As) rather
// than constructing a gosl/fun.TimeSpace directly.
func (o FuncsData) Find(name string) (*FuncData, bool) {
	for _, f := range o {
		if f.Name == name {
			return f, true
		}
	}
	return nil, false
}

// Get resolves a function by name, building it with gosl/fun. "zero"
// and "none" always resolve to the zero function without a table entry.
func (o FuncsData) Get(name string) (fun.TimeSpace, error) {
	if name == "zero" || name == "none" {
		return &fun.Zero, nil
	}
	for _, f := range o {
		if f.Name == name {
			fcn, err := fun.New(f.Type, f.Prms)
			if err != nil {
				return nil, chk.Err("cannot build function %q: %v", name, err)
			}
			return fcn, nil
		}
	}
	return nil, chk.Err("cannot find function named %q", name)
}
