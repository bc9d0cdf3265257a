// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package kernel

import (
	"os"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/hirseboy/SIM-VICUS-sub000/inp"
	"github.com/hirseboy/SIM-VICUS-sub000/quantity"
)

// minimalProject builds one Active zone fed by a pump+pipe hydraulic
// loop whose pipe exchanges heat with that zone, the same topology
// reproduced in hydr/t_hydr_test.go and thermal/t_thermal_test.go, just
// with the pipe's heat exchange wired to a project zone instead of a
// constant sink.
func minimalProject() *inp.Simulation {
	s := &inp.Simulation{
		Data: inp.Data{StartTime: 0, EndTime: 60},
		Zones: []inp.ZoneData{
			{Id: 1, Type: "Active", Volume: 50, InitialTemperature: 293.15},
		},
		Network: &inp.HydraulicNetworkData{
			Fluid: inp.FluidData{Name: "water", Density: 998.2, KinematicViscosity: 1.138e-6, HeatCapacity: 4182, ThermalConductivity: 0.6, ReferenceTemperature: 288.15},
			Nodes: []inp.NetworkNodeData{
				{Id: 1, Reference: true},
				{Id: 2},
			},
			PipeProperties: []inp.PipePropertiesData{
				{Id: 1, DiameterInner: 0.02, Roughness: 1e-5, Length: 10, NParallel: 1, UValue: 2.0},
			},
			Elements: []inp.NetworkElementData{
				{Id: 1, ComponentType: "ConstantPressurePump", InletNodeId: 1, OutletNodeId: 2, PressureHead: 5000},
				{Id: 2, ComponentType: "Pipe", InletNodeId: 2, OutletNodeId: 1, PipePropertiesId: 1,
					HeatExchange: &inp.HeatExchangeData{Type: "Zone", ZoneId: 1, ZoneUAValue: 5.0}},
			},
		},
	}
	s.Default()
	return s
}

func Test_new01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("kernel: construction wires a zone to its network's HeatLoss without a fatal Resolve error")

	proj := minimalProject()
	dirout, err := os.MkdirTemp("", "kernel_test_new01")
	if err != nil {
		tst.Errorf("MkdirTemp failed: %v\n", err)
		return
	}
	defer os.RemoveAll(dirout)

	s, err := New(proj, nil, dirout, false, 1)
	if err != nil {
		tst.Errorf("New failed: %v\n", err)
		return
	}
	defer s.Close()

	z, ok := s.zones[1]
	if !ok {
		tst.Errorf("expected zone 1 to be constructed\n")
		return
	}
	if z.NStates() != 1 {
		tst.Errorf("expected one state (AirTemperature) for zone 1, got %d\n", z.NStates())
	}

	if _, _, ok := s.builder.Lookup(quantity.RefNetworkElement, thermalNetworkId, "HeatLoss", 2); !ok {
		tst.Errorf("expected the pipe's HeatLoss to be published\n")
	}
}

func Test_new02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("kernel: the thermal network's MassFlux inputs resolve against the hydraulic network's publish keys")

	proj := minimalProject()
	dirout, err := os.MkdirTemp("", "kernel_test_new02")
	if err != nil {
		tst.Errorf("MkdirTemp failed: %v\n", err)
		return
	}
	defer os.RemoveAll(dirout)

	s, err := New(proj, nil, dirout, false, 1)
	if err != nil {
		tst.Errorf("New failed: %v\n", err)
		return
	}
	defer s.Close()

	if s.thermalNet == nil {
		tst.Errorf("expected a thermal network to be constructed\n")
		return
	}
	// New itself is the assertion here: before the hydrNetId fix,
	// Builder.Resolve would have returned a fatal "unresolved required
	// input" error the moment this thermal network's MassFlux
	// references were checked against the hydraulic network's publish
	// keys, since the two disagreed about which network id to use.
	if len(s.thermalNet.ResultDescriptions()) == 0 {
		tst.Errorf("expected the thermal network to publish at least one result\n")
	}
}

func Test_new03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("kernel: reference list and step-stats surfaces are available right after construction")

	proj := minimalProject()
	dirout, err := os.MkdirTemp("", "kernel_test_new03")
	if err != nil {
		tst.Errorf("MkdirTemp failed: %v\n", err)
		return
	}
	defer os.RemoveAll(dirout)

	s, err := New(proj, nil, dirout, false, 1)
	if err != nil {
		tst.Errorf("New failed: %v\n", err)
		return
	}
	defer s.Close()

	if err := s.WriteReferenceList(); err != nil {
		tst.Errorf("WriteReferenceList failed: %v\n", err)
	}
	if _, err := os.Stat(dirout + "/var/output_references.txt"); err != nil {
		tst.Errorf("expected a reference list file, got: %v\n", err)
	}

	stats := s.Stats()
	if stats.AcceptedSteps != 0 || stats.NewtonIters != 0 {
		tst.Errorf("expected zero step counters before Run, got %+v\n", stats)
	}
}

func Test_new04(tst *testing.T) {

	//verbose()
	chk.PrintTitle("kernel: a project without a network skips network construction cleanly")

	proj := &inp.Simulation{
		Data:  inp.Data{StartTime: 0, EndTime: 10},
		Zones: []inp.ZoneData{{Id: 1, Type: "Constant", ConstantTemperature: 293.15}},
	}
	proj.Default()

	dirout, err := os.MkdirTemp("", "kernel_test_new04")
	if err != nil {
		tst.Errorf("MkdirTemp failed: %v\n", err)
		return
	}
	defer os.RemoveAll(dirout)

	s, err := New(proj, nil, dirout, false, 1)
	if err != nil {
		tst.Errorf("New failed: %v\n", err)
		return
	}
	defer s.Close()

	if s.hydrNet != nil || s.thermalNet != nil {
		tst.Errorf("expected no network to be constructed\n")
	}
}
