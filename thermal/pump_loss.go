// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package thermal

import (
	"math"

	"github.com/hirseboy/SIM-VICUS-sub000/quantity"
)

// pumpLossElement is the thermal companion of a hydraulic pump that
// loses part of its hydraulic power to the fluid as heat (SPEC_FULL.md
// §4 item 3): hydraulicPower = |mdot/rho . deltaP|, heat gain =
// (1-efficiency)*hydraulicPower, efficiency defaulting to 1 (no loss)
// when unset so a pump with no configured efficiency behaves exactly
// like adiabaticElement.
type pumpLossElement struct {
	id           uint
	fluidCp      float64
	fluidDensity float64
	volume       float64
	efficiency   float64 // (0,1], 1 == no loss

	deltaP *float64 // bound to the paired hydraulic element's pressure rise, Pa

	h, mdot, tIn, tOut float64
	heatGain           float64
}

func newPumpLossElement(id uint, volume, density, cp, efficiency float64) *pumpLossElement {
	if efficiency <= 0 || efficiency > 1 {
		efficiency = 1
	}
	return &pumpLossElement{id: id, volume: volume, fluidDensity: density, fluidCp: cp, efficiency: efficiency}
}

func (e *pumpLossElement) Id() uint             { return e.id }
func (e *pumpLossElement) nInternalStates() int { return 1 }

func (e *pumpLossElement) setInitialTemperature(t float64) {
	e.h = specificEnthalpyOf(t, e.fluidCp)
}

func (e *pumpLossElement) initialInternalStates(y0 []float64) { y0[0] = e.h }
func (e *pumpLossElement) setInternalStates(y []float64)      { e.h = y[0] }

func (e *pumpLossElement) setNodalConditions(mdot, tIn, tOut float64) {
	e.mdot, e.tIn, e.tOut = mdot, tIn, tOut
}

func (e *pumpLossElement) internalDerivatives(ydot []float64) {
	hIn := specificEnthalpyOf(e.tIn, e.fluidCp)
	mass := e.volume * e.fluidDensity
	if mass <= 0 {
		mass = 1
	}
	var dp float64
	if e.deltaP != nil {
		dp = *e.deltaP
	}
	hydraulicPower := math.Abs(e.mdot / e.fluidDensity * dp)
	e.heatGain = (1 - e.efficiency) * hydraulicPower
	ydot[0] = (e.mdot*(hIn-e.h) + e.heatGain) / mass
}

func (e *pumpLossElement) dependencies() []quantity.InputReference {
	return []quantity.InputReference{{RefType: quantity.RefNetworkElement, Id: e.id, Name: quantity.Name{Name: "PressureRise", Index: -1}, Required: false}}
}

func (e *pumpLossElement) setDependencyValueRef(ref quantity.InputReference, desc quantity.Description, src *float64) {
	e.deltaP = src
}

func (e *pumpLossElement) meanTemperature() float64 { return temperatureOf(e.h, e.fluidCp) }
func (e *pumpLossElement) heatLoss() float64        { return -e.heatGain }
