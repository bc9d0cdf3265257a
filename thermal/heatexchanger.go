// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package thermal

import "github.com/hirseboy/SIM-VICUS-sub000/quantity"

// heatExchangerElement is spec §4.5's "Heat exchanger": a single lumped
// cell that exchanges a prescribed heat flux with an external medium,
// same shape as heatLossElement but the published sign convention is a
// gain (spec §4.5 "heatExchangeValueRef" resolves to the supply side).
type heatExchangerElement struct {
	id      uint
	fluidCp float64
	volume  float64
	fluidDensity float64

	source source
	dep    *quantity.InputReference

	h, mdot, tIn, tOut float64
}

func newHeatExchangerElement(id uint, volume, density, cp float64, src source, dep *quantity.InputReference) *heatExchangerElement {
	return &heatExchangerElement{id: id, volume: volume, fluidDensity: density, fluidCp: cp, source: src, dep: dep}
}

func (e *heatExchangerElement) Id() uint             { return e.id }
func (e *heatExchangerElement) nInternalStates() int { return 1 }

func (e *heatExchangerElement) setInitialTemperature(t float64) {
	e.h = specificEnthalpyOf(t, e.fluidCp)
}

func (e *heatExchangerElement) initialInternalStates(y0 []float64) { y0[0] = e.h }
func (e *heatExchangerElement) setInternalStates(y []float64)      { e.h = y[0] }

func (e *heatExchangerElement) setNodalConditions(mdot, tIn, tOut float64) {
	e.mdot, e.tIn, e.tOut = mdot, tIn, tOut
}

func (e *heatExchangerElement) internalDerivatives(ydot []float64) {
	hIn := specificEnthalpyOf(e.tIn, e.fluidCp)
	mass := e.volume * e.fluidDensity
	if mass <= 0 {
		mass = 1
	}
	gain := e.source.value(e.meanTemperature())
	ydot[0] = (e.mdot*(hIn-e.h) + gain) / mass
}

func (e *heatExchangerElement) dependencies() []quantity.InputReference {
	if e.dep == nil {
		return nil
	}
	return []quantity.InputReference{*e.dep}
}

func (e *heatExchangerElement) setDependencyValueRef(ref quantity.InputReference, desc quantity.Description, src *float64) {
	e.source.external = src
}

func (e *heatExchangerElement) meanTemperature() float64 { return temperatureOf(e.h, e.fluidCp) }
func (e *heatExchangerElement) heatLoss() float64        { return -e.source.value(e.meanTemperature()) }
