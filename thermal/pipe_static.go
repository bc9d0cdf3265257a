// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package thermal

import (
	"math"

	"github.com/hirseboy/SIM-VICUS-sub000/quantity"
)

// staticPipeElement is spec §4.5's "Static pipe": an analytical
// temperature drop from an overall UA (inner Nusselt-Gnielinski
// correlation, outer coefficient parameter, wall conduction), used when
// the pipe's fluid volume is negligible — no ODE state of its own.
type staticPipeElement struct {
	id uint

	length, innerDiameter, wallUValue float64 // wallUValue: combined wall+outer conductance, W/(m2.K), referenced to the inner surface (inp.PipePropertiesData carries one lumped value, not separate layers)

	fluidDensity, fluidCp, fluidConductivity, fluidViscosity float64

	ambient   source
	dep       *quantity.InputReference
	mdot, tIn float64
	heatLossW float64
	meanTemp  float64
}

func newStaticPipeElement(id uint, length, innerD, wallU,
	density, cp, conductivity, viscosity float64, ambient source, dep *quantity.InputReference) *staticPipeElement {
	return &staticPipeElement{
		id: id, length: length, innerDiameter: innerD, wallUValue: wallU,
		fluidDensity: density, fluidCp: cp, fluidConductivity: conductivity, fluidViscosity: viscosity,
		ambient: ambient, dep: dep,
	}
}

func (e *staticPipeElement) Id() uint            { return e.id }
func (e *staticPipeElement) nInternalStates() int { return 0 }
func (e *staticPipeElement) setInitialTemperature(t float64) { e.meanTemp = t }
func (e *staticPipeElement) initialInternalStates(y0 []float64) {}
func (e *staticPipeElement) setInternalStates(y []float64)       {}

// overallUA combines the inner-film (Gnielinski), wall-conduction and
// outer-film resistances in series (spec §4.5).
func (e *staticPipeElement) overallUA() float64 {
	area := e.fluidDensity * e.innerDiameter * e.innerDiameter * math.Pi / 4
	velocity := math.Abs(e.mdot) / area
	re := reynoldsNumber(velocity, e.fluidViscosity, e.innerDiameter)
	pr := prandtlNumber(e.fluidViscosity, e.fluidCp, e.fluidConductivity, e.fluidDensity)
	nu := nusseltNumber(re, pr, e.length, e.innerDiameter)
	innerHTC := nu * e.fluidConductivity / e.innerDiameter
	rInner := 1 / (innerHTC * e.innerDiameter)
	rWall := 1 / (e.wallUValue * e.innerDiameter)
	return math.Pi * e.length / (rInner + rWall)
}

func (e *staticPipeElement) setNodalConditions(mdot, tIn, tOut float64) {
	e.mdot, e.tIn = mdot, tIn
	ambient := e.ambient.value(tIn)
	if math.Abs(mdot) < 1e-12 {
		e.heatLossW = 0
		e.meanTemp = tIn
		return
	}
	ua := e.overallUA()
	capRate := math.Abs(mdot) * e.fluidCp
	drop := (tIn - ambient) * (1 - math.Exp(-ua/capRate))
	e.heatLossW = capRate * drop
	e.meanTemp = tIn - drop/2
}

func (e *staticPipeElement) internalDerivatives(ydot []float64) {}

func (e *staticPipeElement) dependencies() []quantity.InputReference {
	if e.dep == nil {
		return nil
	}
	return []quantity.InputReference{*e.dep}
}

func (e *staticPipeElement) setDependencyValueRef(ref quantity.InputReference, desc quantity.Description, src *float64) {
	e.ambient.external = src
}

func (e *staticPipeElement) meanTemperature() float64 { return e.meanTemp }
func (e *staticPipeElement) heatLoss() float64        { return e.heatLossW }
