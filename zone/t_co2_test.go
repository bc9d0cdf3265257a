// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package zone

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/hirseboy/SIM-VICUS-sub000/quantity"
)

func Test_co2_01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("co2: generation and ventilation flux sum with no bound inputs")

	m := NewCO2Model(1, 9, 0, 0.01, 0.0006)
	if err := m.InitInputReferences(); err != nil {
		tst.Errorf("InitInputReferences failed: %v\n", err)
		return
	}
	refs := m.InputReferences()
	if len(refs) != 1 {
		tst.Errorf("expected 1 input reference with no schedule wired, got %d\n", len(refs))
		return
	}
	if err := m.Update(0); err != nil {
		tst.Errorf("Update failed: %v\n", err)
		return
	}
	// no zone concentration bound: ventilation term sees zoneConc ==
	// outsideCO2, so the whole flux collapses to zero generation.
	chk.Scalar(tst, "unbound flux", 1e-12, m.flux, 0)
}

func Test_co2_02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("co2: ventilation flux proportional to the zone/outside concentration gap")

	m := NewCO2Model(1, 9, 0, 0.01, 0.0006)
	if err := m.InitInputReferences(); err != nil {
		tst.Errorf("InitInputReferences failed: %v\n", err)
		return
	}
	zoneConc := 0.0010
	m.SetInputValueRef(m.zoneRef, quantity.Description{}, &zoneConc)
	if err := m.Update(0); err != nil {
		tst.Errorf("Update failed: %v\n", err)
		return
	}
	want := co2AirDensity * 0.01 * (0.0006 - 0.0010)
	chk.Scalar(tst, "ventilation-only flux", 1e-15, m.flux, want)
}

func Test_co2_03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("co2: a wired generation schedule reference is declared")

	m := NewCO2Model(2, 9, 5, 0.01, 0.0006)
	if err := m.InitInputReferences(); err != nil {
		tst.Errorf("InitInputReferences failed: %v\n", err)
		return
	}
	refs := m.InputReferences()
	if len(refs) != 2 {
		tst.Errorf("expected 2 input references with a schedule wired, got %d\n", len(refs))
		return
	}
	gen := 0.00002
	for _, r := range refs {
		if r.RefType == quantity.RefSchedule {
			m.SetInputValueRef(r, quantity.Description{}, &gen)
		}
	}
	if err := m.Update(0); err != nil {
		tst.Errorf("Update failed: %v\n", err)
		return
	}
	want := gen + co2AirDensity*0.01*(0.0006-0.0006)
	chk.Scalar(tst, "generation+ventilation flux", 1e-15, m.flux, want)
}
