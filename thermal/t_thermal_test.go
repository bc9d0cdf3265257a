// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package thermal

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/hirseboy/SIM-VICUS-sub000/inp"
	"github.com/hirseboy/SIM-VICUS-sub000/quantity"
)

func Test_adiabatic01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("adiabatic: no heat loss, ydot driven by inflow alone")

	e := newAdiabaticElement(1, 1e-3, 1000, 4182)
	e.setInitialTemperature(293.15)
	e.setNodalConditions(0.01, 313.15, 293.15)
	ydot := make([]float64, 1)
	e.internalDerivatives(ydot)
	if ydot[0] <= 0 {
		tst.Errorf("hotter inflow than cell content must raise enthalpy: ydot=%v\n", ydot[0])
	}
	chk.Scalar(tst, "no heat loss reported", 1e-15, e.heatLoss(), 0)
}

func Test_heatloss01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("heat loss element: constant sink reduces ydot relative to the adiabatic case")

	constant := 500.0
	e := newHeatLossElement(1, 1e-3, 1000, 4182, source{constant: &constant}, nil)
	e.setInitialTemperature(293.15)
	e.setNodalConditions(0.01, 293.15, 293.15)
	ydot := make([]float64, 1)
	e.internalDerivatives(ydot)
	chk.Scalar(tst, "reported heat loss matches the constant", 1e-12, e.heatLoss(), 500)
	if ydot[0] >= 0 {
		tst.Errorf("a pure sink with matched inflow temperature must cool the cell: ydot=%v\n", ydot[0])
	}
}

func Test_staticPipe01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("static pipe: hotter fluid than ambient loses heat, outlet mean temperature drops")

	ambient := 283.15
	e := newStaticPipeElement(1, 50, 0.02, 2.0, 980, 4182, 0.6, 4.3e-7, source{constant: &ambient}, nil)
	e.setNodalConditions(0.05, 333.15, 0)
	if e.heatLoss() <= 0 {
		tst.Errorf("pipe warmer than ambient must report positive heat loss, got %v\n", e.heatLoss())
	}
	if e.meanTemperature() >= 333.15 {
		tst.Errorf("mean temperature must drop below the inlet temperature, got %v\n", e.meanTemperature())
	}
}

func Test_dynamicPipe01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("dynamic pipe: forward flow upwinds from the inlet into the first cell")

	e := newDynamicPipeElement(1, 20, 4, 0.02, 2.0, 980, 4182, 0.6, 4.3e-7, source{}, nil)
	e.setInitialTemperature(293.15)
	e.setNodalConditions(0.05, 313.15, 0)
	ydot := make([]float64, e.nInternalStates())
	e.internalDerivatives(ydot)
	if ydot[0] <= 0 {
		tst.Errorf("hot inflow must raise the first cell's enthalpy under forward flow: ydot[0]=%v\n", ydot[0])
	}
}

func Test_idealHeater01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("ideal heater: delivers exactly the flow needed to reach the setpoint")

	e := newIdealHeaterElement(1, 333.15, 4182)
	e.setNodalConditions(0.05, 313.15, 0)
	want := 0.05 * 4182 * (333.15 - 313.15)
	chk.Scalar(tst, "heat flow matches mdot*cp*deltaT", 1e-9, -e.heatLoss(), want)
}

func Test_heatPump01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("heat pump: positive lift yields a finite Carnot COP and a bounded electrical draw")

	cop := carnotCOP(313.15, 283.15)
	if cop <= 1 {
		tst.Errorf("COP for a positive lift must exceed 1, got %v\n", cop)
	}

	e := newHeatPumpElement(1, 1e-3, 1000, 4182, 0.5, 2000, 313.15, 0)
	e.setInitialTemperature(293.15)
	e.setNodalConditions(0.05, 293.15, 0)
	ydot := make([]float64, 1)
	e.internalDerivatives(ydot)
	if e.ElectricalPower() <= 0 {
		tst.Errorf("expected positive electrical draw, got %v\n", e.ElectricalPower())
	}
	if -e.heatLoss() > 2000+1e-9 {
		tst.Errorf("heat delivered must respect the configured maximum, got %v\n", -e.heatLoss())
	}
}

// Test_network01 checks the compatibility matrix is enforced: a
// ConstantPressurePump does not support a non-None heat exchange.
func Test_network01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("thermal network: illegal component/heat-exchange combination is fatal at construction")

	net := inp.HydraulicNetworkData{
		Fluid: inp.FluidData{Density: 998.2, KinematicViscosity: 1.138e-6, HeatCapacity: 4182, ThermalConductivity: 0.6},
		Nodes: []inp.NetworkNodeData{{Id: 1, Reference: true}, {Id: 2}},
		Elements: []inp.NetworkElementData{
			{Id: 1, ComponentType: "ConstantPressurePump", InletNodeId: 1, OutletNodeId: 2,
				HeatExchange: &inp.HeatExchangeData{Type: "Constant", Value: 100}},
		},
	}
	if _, err := New(1, net); err == nil {
		tst.Errorf("expected a fatal error for a pump with a configured heat exchange\n")
	}
}

// Test_network02 builds a legal pipe + adiabatic pump loop and runs one
// lockstep thermal step, checking node mixing and the published results.
func Test_network02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("thermal network: legal topology runs one step and publishes mean temperatures")

	net := inp.HydraulicNetworkData{
		Fluid: inp.FluidData{Density: 998.2, KinematicViscosity: 1.138e-6, HeatCapacity: 4182, ThermalConductivity: 0.6},
		Nodes: []inp.NetworkNodeData{{Id: 1, Reference: true}, {Id: 2}},
		PipeProperties: []inp.PipePropertiesData{
			{Id: 1, DiameterInner: 0.02, Roughness: 1e-5, Length: 10, NParallel: 1, UValue: 2.0},
		},
		Elements: []inp.NetworkElementData{
			{Id: 1, ComponentType: "ConstantPressurePump", InletNodeId: 1, OutletNodeId: 2, PressureHead: 5000},
			{Id: 2, ComponentType: "Pipe", InletNodeId: 2, OutletNodeId: 1, PipePropertiesId: 1,
				HeatExchange: &inp.HeatExchangeData{Type: "Constant", Value: 283.15}},
		},
	}

	n, err := New(1, net)
	if err != nil {
		tst.Errorf("New failed: %v\n", err)
		return
	}

	mdotA, mdotB := 0.05, 0.05
	n.InitInputReferences()
	n.mdots[0] = &mdotA
	n.mdots[1] = &mdotB

	n.SetInitialTemperature(313.15)
	y := make([]float64, n.NStates())
	n.YInitial(y)
	if err := n.SetY(y); err != nil {
		tst.Errorf("SetY failed: %v\n", err)
		return
	}
	if err := n.Update(0); err != nil {
		tst.Errorf("Update failed: %v\n", err)
		return
	}

	addr, ok := n.ResultValueRef(quantity.Name{Name: "MeanTemperature", Index: 2})
	if !ok {
		tst.Errorf("expected a MeanTemperature result for element 2\n")
		return
	}
	if *addr >= 313.15 {
		tst.Errorf("pipe warmer than its constant heat-exchange target must cool after Update, got %v\n", *addr)
	}

	lossAddr, ok := n.ResultValueRef(quantity.Name{Name: "HeatLoss", Index: 2})
	if !ok {
		tst.Errorf("expected a HeatLoss result for element 2\n")
		return
	}
	if *lossAddr <= 0 {
		tst.Errorf("expected positive heat loss from the pipe, got %v\n", *lossAddr)
	}
}
