// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package zone

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/hirseboy/SIM-VICUS-sub000/inp"
	"github.com/hirseboy/SIM-VICUS-sub000/quantity"
)

func Test_zone01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("zone: active zone has one state and integrates a constant load")

	z := New(inp.ZoneData{Id: 1, Type: "Active", Volume: 50, InitialTemperature: 293.15}, false, false, 1, 0, 0)
	if err := z.InitResults(); err != nil {
		tst.Errorf("InitResults failed: %v\n", err)
		return
	}
	if err := z.InitInputReferences(); err != nil {
		tst.Errorf("InitInputReferences failed: %v\n", err)
		return
	}
	if z.NStates() != 1 {
		tst.Errorf("expected 1 state, got %d\n", z.NStates())
		return
	}

	load := (1.2 * 1005.0) * 50.0 // W, chosen so dT/dt = 1 K/s exactly
	refs := z.InputReferences()
	if len(refs) != 1 {
		tst.Errorf("expected 1 input reference, got %d\n", len(refs))
		return
	}
	z.SetInputValueRef(refs[0], quantity.Description{}, &load)

	y := make([]float64, 1)
	z.YInitial(y)
	chk.Scalar(tst, "y0", 1e-12, y[0], 293.15)

	if err := z.SetY(y); err != nil {
		tst.Errorf("SetY failed: %v\n", err)
		return
	}
	ydot := make([]float64, 1)
	if err := z.YDot(ydot); err != nil {
		tst.Errorf("YDot failed: %v\n", err)
		return
	}
	chk.Scalar(tst, "dT/dt", 1e-9, ydot[0], 1.0)
}

func Test_zone02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("zone: constant zone has no states and a fixed temperature")

	z := New(inp.ZoneData{Id: 2, Type: "Constant", ConstantTemperature: 283.15}, false, false, 0, 0, 0)
	if err := z.InitResults(); err != nil {
		tst.Errorf("InitResults failed: %v\n", err)
		return
	}
	if z.NStates() != 0 {
		tst.Errorf("expected 0 states for a Constant zone, got %d\n", z.NStates())
		return
	}
	addr, ok := z.ResultValueRef(quantity.Name{Name: "AirTemperature", Index: -1})
	if !ok {
		tst.Errorf("expected AirTemperature to resolve\n")
		return
	}
	chk.Scalar(tst, "constant zone temperature", 1e-12, *addr, 283.15)
}

func Test_zone03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("zone: moisture and CO2 states only appear when enabled and active")

	z := New(inp.ZoneData{Id: 3, Type: "Active", Volume: 20, InitialTemperature: 293.15}, true, true, 0, 1, 1)
	if err := z.InitInputReferences(); err != nil {
		tst.Errorf("InitInputReferences failed: %v\n", err)
		return
	}
	if z.NStates() != 3 {
		tst.Errorf("expected 3 states (T, moisture, CO2), got %d\n", z.NStates())
	}
	descs := z.ResultDescriptions()
	if len(descs) != 3 {
		tst.Errorf("expected 3 published results, got %d\n", len(descs))
	}
}
