// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package thermal

import "github.com/hirseboy/SIM-VICUS-sub000/quantity"

// heatLossElement is spec §4.5's "Element with external heat loss": a
// single lumped cell whose ydot gains an extra sink term read from a
// parameter, a scheduled spline, or a zone-temperature difference times
// an external heat-transfer coefficient.
type heatLossElement struct {
	id       uint
	fluidCp  float64
	volume   float64
	fluidDensity float64

	source source // resolved heat-loss source (spec §4.5 "heatExchangeValueRef")
	dep    *quantity.InputReference

	h, mdot, tIn, tOut float64
}

// source abstracts the three legal heat-exchange origins of spec §4.5:
// a fixed constant, a spline sampled each SetTime, or a model-graph
// result (e.g. a zone air temperature combined with a transfer
// coefficient).
type source struct {
	constant *float64 // Type == "Constant"
	external *float64 // Type == "Spline"/"Zone": bound pointer, already in W
	uaToZone float64  // W/K, 0 if the Zone variant does not apply a coefficient
}

func (s *source) value(ownTemperature float64) float64 {
	if s.constant != nil {
		return *s.constant
	}
	if s.external != nil {
		if s.uaToZone != 0 {
			return s.uaToZone * (ownTemperature - *s.external)
		}
		return *s.external
	}
	return 0
}

func newHeatLossElement(id uint, volume, density, cp float64, src source, dep *quantity.InputReference) *heatLossElement {
	return &heatLossElement{id: id, volume: volume, fluidDensity: density, fluidCp: cp, source: src, dep: dep}
}

func (e *heatLossElement) Id() uint { return e.id }

func (e *heatLossElement) nInternalStates() int { return 1 }

func (e *heatLossElement) setInitialTemperature(t float64) { e.h = specificEnthalpyOf(t, e.fluidCp) }

func (e *heatLossElement) initialInternalStates(y0 []float64) { y0[0] = e.h }

func (e *heatLossElement) setInternalStates(y []float64) { e.h = y[0] }

func (e *heatLossElement) setNodalConditions(mdot, tIn, tOut float64) {
	e.mdot, e.tIn, e.tOut = mdot, tIn, tOut
}

func (e *heatLossElement) internalDerivatives(ydot []float64) {
	hIn := specificEnthalpyOf(e.tIn, e.fluidCp)
	mass := e.volume * e.fluidDensity
	if mass <= 0 {
		mass = 1
	}
	loss := e.source.value(e.meanTemperature())
	ydot[0] = (e.mdot*(hIn-e.h) - loss) / mass
}

func (e *heatLossElement) dependencies() []quantity.InputReference {
	if e.dep == nil {
		return nil
	}
	return []quantity.InputReference{*e.dep}
}

func (e *heatLossElement) setDependencyValueRef(ref quantity.InputReference, desc quantity.Description, src *float64) {
	e.source.external = src
}

func (e *heatLossElement) meanTemperature() float64 { return temperatureOf(e.h, e.fluidCp) }
func (e *heatLossElement) heatLoss() float64        { return e.source.value(e.meanTemperature()) }
