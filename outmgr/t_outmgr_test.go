// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package outmgr

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/hirseboy/SIM-VICUS-sub000/inp"
	"github.com/hirseboy/SIM-VICUS-sub000/quantity"
)

func Test_grid01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("grid.nextAfter: smallest S+kΔ strictly greater than t")

	g := newGrid(inp.OutputGridData{
		Name: "g",
		Intervals: []inp.OutputIntervalData{
			{Start: 0, End: 3600, StepSize: 900},
		},
	})
	chk.Scalar(tst, "nextAfter(-1)", 1e-9, g.nextAfter(-1), 0)
	chk.Scalar(tst, "nextAfter(0)", 1e-9, g.nextAfter(0), 900)
	chk.Scalar(tst, "nextAfter(899)", 1e-9, g.nextAfter(899), 900)
	chk.Scalar(tst, "nextAfter(900)", 1e-9, g.nextAfter(900), 1800)
	if n := g.nextAfter(3600); !math.IsInf(n, 1) {
		tst.Errorf("expected no further output time past the interval end, got %v\n", n)
	}
}

func Test_grid02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("grid.nextAfter: minimum across two overlapping intervals")

	g := newGrid(inp.OutputGridData{
		Name: "g",
		Intervals: []inp.OutputIntervalData{
			{Start: 0, End: 100, StepSize: 10},
			{Start: 0, End: 100, StepSize: 25},
		},
	})
	chk.Scalar(tst, "nextAfter(0)", 1e-9, g.nextAfter(0), 10)
	chk.Scalar(tst, "nextAfter(20)", 1e-9, g.nextAfter(20), 25)
}

func constLookup(vals map[string]*float64) LookupFunc {
	return func(refType quantity.RefType, id uint, name string, index int) (*float64, quantity.Description, bool) {
		key := refType.String() + "#" + name
		v, ok := vals[key]
		if !ok {
			return nil, quantity.Description{}, false
		}
		return v, quantity.Description{Name: name, Unit: "K"}, true
	}
}

func Test_manager01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("output manager: instantaneous samples land on grid boundaries")

	dir := tst.TempDir()
	temperature := 293.15
	lookup := constLookup(map[string]*float64{"Zone#T": &temperature})

	data := inp.OutputData{
		Grids: []inp.OutputGridData{
			{Name: "grid1", Intervals: []inp.OutputIntervalData{{Start: 0, End: 20, StepSize: 10}}},
		},
		Definitions: []inp.OutputDefinitionData{
			{GridName: "grid1", RefType: "Zone", Id: 1, QuantityName: "T", Mode: "Instantaneous"},
		},
	}

	m, err := New(dir, data, lookup, false, nil)
	if err != nil {
		tst.Errorf("New failed: %v\n", err)
		return
	}

	for _, t := range []float64{0, 10, 20} {
		if err := m.StepCompleted(t); err != nil {
			tst.Errorf("StepCompleted(%v) failed: %v\n", t, err)
			return
		}
		temperature += 1
		if err := m.Write(t); err != nil {
			tst.Errorf("Write(%v) failed: %v\n", t, err)
			return
		}
	}
	if err := m.Close(); err != nil {
		tst.Errorf("Close failed: %v\n", err)
		return
	}

	raw, err := os.ReadFile(filepath.Join(dir, "results", "grid1.tsv"))
	if err != nil {
		tst.Errorf("reading result file failed: %v\n", err)
		return
	}
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	if len(lines) != 4 { // header + 3 rows
		tst.Errorf("expected 4 lines (header + 3 rows), got %d: %v\n", len(lines), lines)
	}
}

func Test_manager02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("output manager: time-average accumulates a trapezoid between writes")

	dir := tst.TempDir()
	value := 0.0
	lookup := constLookup(map[string]*float64{"Model#P": &value})

	data := inp.OutputData{
		Grids: []inp.OutputGridData{
			{Name: "g", Intervals: []inp.OutputIntervalData{{Start: 0, End: 10, StepSize: 10}}},
		},
		Definitions: []inp.OutputDefinitionData{
			{GridName: "g", RefType: "Model", Id: 1, QuantityName: "P", Mode: "TimeAverage"},
		},
	}
	m, err := New(dir, data, lookup, false, nil)
	if err != nil {
		tst.Errorf("New failed: %v\n", err)
		return
	}

	b := m.files[0].bindings[0]
	value = 0
	m.StepCompleted(0)
	value = 10
	m.StepCompleted(10)
	got := b.sample(10)
	// trapezoid of a linear ramp 0->10 over [0,10] averages to 5
	chk.Scalar(tst, "time-average of a linear ramp", 1e-9, got, 5)
}

func Test_manager_unresolved(tst *testing.T) {

	//verbose()
	chk.PrintTitle("output manager: an unresolved definition is a fatal configuration error")

	dir := tst.TempDir()
	lookup := constLookup(nil)
	data := inp.OutputData{
		Grids:       []inp.OutputGridData{{Name: "g", Intervals: []inp.OutputIntervalData{{Start: 0, End: 10, StepSize: 1}}}},
		Definitions: []inp.OutputDefinitionData{{GridName: "g", RefType: "Zone", Id: 9, QuantityName: "Missing"}},
	}
	if _, err := New(dir, data, lookup, false, nil); err == nil {
		tst.Errorf("expected an error for an unresolved output definition\n")
	}
}
