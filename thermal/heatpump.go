// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package thermal

import "github.com/hirseboy/SIM-VICUS-sub000/quantity"

// heatPumpElement is spec §4.5's "Ideal-Carnot heat pump" supply-side
// element: the heat delivered to the fluid is the Carnot-limit COP
// (scaled down by a user efficiency factor) times the electrical power
// drawn, clamped at the nominal heating power, with the difference
// rejected from the bound source-side temperature.
type heatPumpElement struct {
	id      uint
	fluidCp float64
	volume  float64
	fluidDensity float64

	carnotEfficiency float64 // fraction of the ideal Carnot COP actually achieved, (0,1]
	maxHeatingPower  float64 // W, 0 == unbounded
	supplySetpoint   float64 // K, target outlet temperature
	sourceElementId  uint
	sourceTemp       *float64

	h, mdot, tIn float64
	heatDelivered   float64
	electricalPower float64
}

func newHeatPumpElement(id uint, volume, density, cp, carnotEfficiency, maxHeatingPower, supplySetpoint float64, sourceElementId uint) *heatPumpElement {
	if carnotEfficiency <= 0 {
		carnotEfficiency = 1
	}
	return &heatPumpElement{
		id: id, volume: volume, fluidDensity: density, fluidCp: cp,
		carnotEfficiency: carnotEfficiency, maxHeatingPower: maxHeatingPower,
		supplySetpoint: supplySetpoint, sourceElementId: sourceElementId,
	}
}

func (e *heatPumpElement) Id() uint             { return e.id }
func (e *heatPumpElement) nInternalStates() int { return 1 }

func (e *heatPumpElement) setInitialTemperature(t float64) {
	e.h = specificEnthalpyOf(t, e.fluidCp)
}

func (e *heatPumpElement) initialInternalStates(y0 []float64) { y0[0] = e.h }
func (e *heatPumpElement) setInternalStates(y []float64)      { e.h = y[0] }

func (e *heatPumpElement) setNodalConditions(mdot, tIn, tOut float64) {
	e.mdot, e.tIn = mdot, tIn
}

// carnotCOP is the reversible-cycle coefficient of performance for the
// given supply/source temperatures (both K), floored at 1 so a
// vanishing or negative lift never produces an unphysical COP.
func carnotCOP(supply, source float64) float64 {
	lift := supply - source
	if lift < 0.1 {
		lift = 0.1
	}
	cop := supply / lift
	if cop < 1 {
		cop = 1
	}
	return cop
}

func (e *heatPumpElement) internalDerivatives(ydot []float64) {
	hIn := specificEnthalpyOf(e.tIn, e.fluidCp)
	mass := e.volume * e.fluidDensity
	if mass <= 0 {
		mass = 1
	}
	requested := e.mdot * e.fluidCp * (e.supplySetpoint - e.tIn)
	if requested < 0 {
		requested = 0
	}
	if e.maxHeatingPower > 0 && requested > e.maxHeatingPower {
		requested = e.maxHeatingPower
	}
	sourceTemp := e.meanTemperature() - 5 // fallback lift when no source is bound
	if e.sourceTemp != nil {
		sourceTemp = *e.sourceTemp
	}
	cop := carnotCOP(e.meanTemperature(), sourceTemp) * e.carnotEfficiency
	e.heatDelivered = requested
	e.electricalPower = requested / cop
	ydot[0] = (e.mdot*(hIn-e.h) + requested) / mass
}

// ElectricalPower is the electrical draw implied by the Carnot-limited
// COP at the current operating point, W.
func (e *heatPumpElement) ElectricalPower() float64 { return e.electricalPower }

func (e *heatPumpElement) dependencies() []quantity.InputReference {
	if e.sourceElementId == 0 {
		return nil
	}
	return []quantity.InputReference{{RefType: quantity.RefNetworkElement, Id: e.sourceElementId,
		Name: quantity.Name{Name: "MeanTemperature", Index: int(e.sourceElementId)}, Required: false}}
}

func (e *heatPumpElement) setDependencyValueRef(ref quantity.InputReference, desc quantity.Description, src *float64) {
	e.sourceTemp = src
}

func (e *heatPumpElement) meanTemperature() float64 { return temperatureOf(e.h, e.fluidCp) }
func (e *heatPumpElement) heatLoss() float64        { return -e.heatDelivered }
