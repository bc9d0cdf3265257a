// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hydr

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/hirseboy/SIM-VICUS-sub000/inp"
)

func Test_friction01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("friction: Swamee-Jain factor is positive and decreases with smoother pipes")

	fRough := frictionFactorSwamee(50000, 0.02, 1e-4)
	fSmooth := frictionFactorSwamee(50000, 0.02, 1e-6)
	if fRough <= 0 || fSmooth <= 0 {
		tst.Errorf("friction factors must be positive: rough=%v smooth=%v\n", fRough, fSmooth)
	}
	if fSmooth >= fRough {
		tst.Errorf("a smoother pipe must have a smaller friction factor: smooth=%v rough=%v\n", fSmooth, fRough)
	}
}

func Test_controller01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("controller: P output saturates at max and is linear below the relaxation band")

	c := &controller{kind: "P", property: "MassFlux", setpoint: 0, kp: 1, max: 1.0}
	// measured << setpoint => large positive error => saturated output
	y := c.output(-10)
	chk.Scalar(tst, "saturated P output", 1e-3, y, 1.0)

	// near zero error, output tracks Kp*e linearly (well below the band)
	y2 := c.output(-0.1)
	chk.Scalar(tst, "linear-region P output", 1e-9, y2, 0.1)
}

func Test_controller02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("controller: OnOff switches fully on below setpoint, fully off above")

	c := &controller{kind: "OnOff", setpoint: 293.15, max: 1.0}
	chk.Scalar(tst, "below setpoint", 1e-15, c.output(290), 1.0)
	chk.Scalar(tst, "above setpoint", 1e-15, c.output(300), 0.0)
}

// Test_network01 reproduces spec §8 scenario B: a constant-head pump and
// a single pipe forming a closed loop between a reference node and one
// free node. The converged state must satisfy both element system
// functions (residual ~ 0) and mass continuity around the loop.
func Test_network01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("network: pipe + constant-head pump loop converges to a consistent steady state")

	net := inp.HydraulicNetworkData{
		Fluid: inp.FluidData{Name: "water", Density: 998.2, KinematicViscosity: 1.138e-6, HeatCapacity: 4182, ReferenceTemperature: 288.15},
		Nodes: []inp.NetworkNodeData{
			{Id: 1, Reference: true},
			{Id: 2},
		},
		PipeProperties: []inp.PipePropertiesData{
			{Id: 1, DiameterInner: 0.02, Roughness: 1e-5, Length: 10, NParallel: 1},
		},
		Elements: []inp.NetworkElementData{
			{Id: 1, ComponentType: "ConstantPressurePump", InletNodeId: 1, OutletNodeId: 2, PressureHead: 5000},
			{Id: 2, ComponentType: "Pipe", InletNodeId: 2, OutletNodeId: 1, PipePropertiesId: 1},
		},
	}

	n, err := New(1, net)
	if err != nil {
		tst.Errorf("New failed: %v\n", err)
		return
	}
	if err := n.Solve(); err != nil {
		tst.Errorf("Solve failed: %v\n", err)
		return
	}

	pump := n.elems[0]
	pipe := n.elems[1]
	pA := n.pressureOf(1)
	pB := n.pressureOf(2)
	mdotPump := n.mdots[0]
	mdotPipe := n.mdots[1]

	rPump := math.Abs(pump.systemFunction(mdotPump, pA, pB))
	rPipe := math.Abs(pipe.systemFunction(mdotPipe, pB, pA))
	chk.Scalar(tst, "pump residual", 1e-4, rPump, 0)
	chk.Scalar(tst, "pipe residual", 1e-4, rPipe, 0)
	chk.Scalar(tst, "mass continuity around the loop", 1e-4, mdotPump-mdotPipe, 0)

	if mdotPipe <= 0 {
		tst.Errorf("expected a positive steady-state mass flow, got %v\n", mdotPipe)
	}
}
