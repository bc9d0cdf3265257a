// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

import (
	"testing"

	"github.com/cpmech/gosl/chk"
)

func Test_sim01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("sim: defaults and validation")

	raw := []byte(`{
		"data": {"starttime": 0, "endtime": 3600},
		"solver": {"abstol": 1e-6, "reltol": 1e-4, "discstep": 1e-6, "iterativesolverconvcoeff": 1e-9, "nonlinearconvcoeff": 1e-10, "initialstep": 1},
		"zones": [{"id": 1, "type": "Active", "volume": 50, "initialtemperature": 293.15}]
	}`)

	s, err := ParseSimulation(raw)
	if err != nil {
		tst.Errorf("ParseSimulation failed: %v\n", err)
		return
	}
	if s.Solver.Integrator != "ImplicitEuler" {
		tst.Errorf("expected default integrator ImplicitEuler, got %q\n", s.Solver.Integrator)
	}
	if s.Solver.LES != "GMRES" || s.Solver.Precond != "ILU" {
		tst.Errorf("expected default LES=GMRES precond=ILU, got LES=%q precond=%q\n", s.Solver.LES, s.Solver.Precond)
	}
}

func Test_sim02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("sim: mandatory solver parameters rejected when non-positive")

	sd := SolverData{}
	sd.SetDefault()
	if err := sd.Validate(); err == nil {
		tst.Errorf("expected Validate to fail with zero tolerances\n")
	}
}

func Test_sim03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("sim: PI controller is unimplemented-fatal")

	c := ControllerData{Type: "PI", ControlledProperty: "MassFlux"}
	if err := c.Validate(); err == nil {
		tst.Errorf("expected PI controller to be rejected\n")
	}
}

func Test_sim04(tst *testing.T) {

	//verbose()
	chk.PrintTitle("sim: hydraulic network requires exactly one reference node")

	h := HydraulicNetworkData{
		Nodes: []NetworkNodeData{{Id: 1}, {Id: 2}},
	}
	if err := h.Validate(); err == nil {
		tst.Errorf("expected error: no reference node\n")
	}

	h.Nodes[0].Reference = true
	h.Nodes[1].Reference = true
	if err := h.Validate(); err == nil {
		tst.Errorf("expected error: two reference nodes\n")
	}

	h.Nodes[1].Reference = false
	if err := h.Validate(); err != nil {
		tst.Errorf("expected a single reference node to validate, got: %v\n", err)
	}
}

func Test_sim05(tst *testing.T) {

	//verbose()
	chk.PrintTitle("sim: duplicate zone ids rejected")

	raw := []byte(`{
		"data": {"starttime": 0, "endtime": 10},
		"solver": {"abstol": 1e-6, "reltol": 1e-4, "discstep": 1e-6, "iterativesolverconvcoeff": 1e-9, "nonlinearconvcoeff": 1e-10, "initialstep": 1},
		"zones": [
			{"id": 1, "type": "Constant", "constanttemperature": 293.15},
			{"id": 1, "type": "Constant", "constanttemperature": 293.15}
		]
	}`)
	if _, err := ParseSimulation(raw); err == nil {
		tst.Errorf("expected duplicate zone id error\n")
	}
}

func Test_sim06(tst *testing.T) {

	//verbose()
	chk.PrintTitle("sim: schedule definitions validate against the function table")

	base := Simulation{
		Data: Data{StartTime: 0, EndTime: 10},
		Solver: SolverData{AbsTol: 1e-6, RelTol: 1e-4, DiscStep: 1e-6,
			IterativeSolverConvCoeff: 1e-9, NonlinearConvCoeff: 1e-10, InitialStep: 1},
		Zones: []ZoneData{{Id: 1, Type: "Constant", ConstantTemperature: 293.15}},
	}

	s := base
	s.Functions = FuncsData{{Name: "heating-setpoint", Type: "cte"}}
	s.Schedules = []ScheduleDefData{{Id: 1, Function: "heating-setpoint", As: "HeatExchangeValue"}}
	s.Default()
	if err := s.Validate(); err != nil {
		tst.Errorf("expected a valid schedule definition to validate, got: %v\n", err)
	}

	s2 := base
	s2.Schedules = []ScheduleDefData{{Id: 1, Function: "missing", As: "HeatExchangeValue"}}
	s2.Default()
	if err := s2.Validate(); err == nil {
		tst.Errorf("expected an error for a schedule referencing an unknown function\n")
	}

	s3 := base
	s3.Functions = FuncsData{{Name: "heating-setpoint", Type: "cte"}}
	s3.Schedules = []ScheduleDefData{{Id: 1, Function: "heating-setpoint", As: "HeatExchangeValue"}, {Id: 1, Function: "heating-setpoint", As: "PressureHead"}}
	s3.Default()
	if err := s3.Validate(); err == nil {
		tst.Errorf("expected an error for a duplicate schedule id\n")
	}
}
