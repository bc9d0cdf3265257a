// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package thermal

import "github.com/hirseboy/SIM-VICUS-sub000/quantity"

// adiabaticElement transports enthalpy with no heat loss (spec §4.5
// "Adiabatic element"): a single lumped cell, ydot = mdot*(hIn - h).
type adiabaticElement struct {
	id          uint
	fluidCp     float64
	volume      float64
	fluidDensity float64

	h, mdot, tIn, tOut float64
}

func newAdiabaticElement(id uint, volume, density, cp float64) *adiabaticElement {
	return &adiabaticElement{id: id, volume: volume, fluidDensity: density, fluidCp: cp}
}

func (e *adiabaticElement) Id() uint { return e.id }

func (e *adiabaticElement) nInternalStates() int { return 1 }

func (e *adiabaticElement) setInitialTemperature(t float64) {
	e.h = specificEnthalpyOf(t, e.fluidCp)
}

func (e *adiabaticElement) initialInternalStates(y0 []float64) { y0[0] = e.h }

func (e *adiabaticElement) setInternalStates(y []float64) { e.h = y[0] }

func (e *adiabaticElement) setNodalConditions(mdot, tIn, tOut float64) {
	e.mdot, e.tIn, e.tOut = mdot, tIn, tOut
}

func (e *adiabaticElement) internalDerivatives(ydot []float64) {
	hIn := specificEnthalpyOf(e.tIn, e.fluidCp)
	mass := e.volume * e.fluidDensity
	if mass <= 0 {
		mass = 1
	}
	ydot[0] = e.mdot * (hIn - e.h) / mass
}

func (e *adiabaticElement) dependencies() []quantity.InputReference { return nil }
func (e *adiabaticElement) setDependencyValueRef(ref quantity.InputReference, desc quantity.Description, src *float64) {
}

func (e *adiabaticElement) meanTemperature() float64 { return temperatureOf(e.h, e.fluidCp) }
func (e *adiabaticElement) heatLoss() float64        { return 0 }
