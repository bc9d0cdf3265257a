// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package schedule

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/hirseboy/SIM-VICUS-sub000/inp"
	"github.com/hirseboy/SIM-VICUS-sub000/quantity"
)

func Test_schedule01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("schedule: constant function resolves through ResolveResultReference")

	table := inp.FuncsData{
		{Name: "heating-setpoint", Type: "cte", Prms: dbf.Params{{N: "c", V: 293.15}}},
	}
	s, err := New(1, table, []string{"heating-setpoint"})
	if err != nil {
		tst.Errorf("New failed: %v\n", err)
		return
	}
	if err := s.SetTime(0); err != nil {
		tst.Errorf("SetTime failed: %v\n", err)
		return
	}

	ref := quantity.InputReference{RefType: quantity.RefSchedule, Id: 1, Name: quantity.Name{Name: "heating-setpoint", Index: -1}, Required: true}
	addr := s.ResolveResultReference(ref, quantity.Description{})
	if addr == nil {
		tst.Errorf("expected a resolved address\n")
		return
	}
	chk.Scalar(tst, "heating-setpoint", 1e-12, *addr, 293.15)
}

func Test_schedule02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("schedule: unknown schedule id does not resolve")

	table := inp.FuncsData{{Name: "zero-sched", Type: "cte", Prms: dbf.Params{{N: "c", V: 0}}}}
	s, err := New(1, table, []string{"zero-sched"})
	if err != nil {
		tst.Errorf("New failed: %v\n", err)
		return
	}
	ref := quantity.InputReference{RefType: quantity.RefSchedule, Id: 2, Name: quantity.Name{Name: "zero-sched", Index: -1}}
	if addr := s.ResolveResultReference(ref, quantity.Description{}); addr != nil {
		tst.Errorf("expected nil for a schedule id mismatch\n")
	}
}

func Test_climate01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("climate: linear interpolation between samples")

	c := NewClimate(1, map[string]TimeSeries{
		"AmbientTemperature": {T: []float64{0, 3600}, V: []float64{280, 290}},
	})
	if err := c.SetTime(1800); err != nil {
		tst.Errorf("SetTime failed: %v\n", err)
		return
	}
	addr, ok := c.ResultValueRef(quantity.Name{Name: "AmbientTemperature", Index: -1})
	if !ok {
		tst.Errorf("expected AmbientTemperature to resolve\n")
		return
	}
	chk.Scalar(tst, "AmbientTemperature@1800s", 1e-9, *addr, 285)
}

func Test_fmi01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("fmi: shadow overrides a native producer's reference")

	shadow := 42.0
	f := NewFMIImport()
	f.Shadow(quantity.RefModel, 7, "Value", -1, &shadow)

	ref := quantity.InputReference{RefType: quantity.RefModel, Id: 7, Name: quantity.Name{Name: "Value", Index: -1}, Required: true}
	addr := f.ResolveResultReference(ref, quantity.Description{})
	if addr == nil {
		tst.Errorf("expected shadow address to resolve\n")
		return
	}
	chk.Scalar(tst, "shadow", 1e-15, *addr, 42)
}
