// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package thermal

import (
	"math"

	"github.com/hirseboy/SIM-VICUS-sub000/quantity"
)

// dynamicPipeElement is spec §4.5's "Dynamic pipe": discretised into
// the pipe's configured DiscretizationCells cells, upwind advection using
// the sign of mdot, per-cell heat loss to ambient. hasAmbient is false
// (no UA term computed) only when the element is constructed with
// neither a constant nor a bound external ambient source.
type dynamicPipeElement struct {
	id uint

	nCells                int
	cellLength            float64
	innerDiameter         float64
	fluidDensity, fluidCp, fluidConductivity, fluidViscosity float64
	wallUValue            float64 // combined wall+outer conductance, W/(m2.K), referenced to the inner surface

	ambient    source
	dep        *quantity.InputReference
	hasAmbient bool

	h         []float64 // specific enthalpy per cell
	mdot, tIn float64
	lossTotal float64
}

func newDynamicPipeElement(id uint, length float64, nCells int, innerD, wallU,
	density, cp, conductivity, viscosity float64, ambient source, dep *quantity.InputReference) *dynamicPipeElement {
	if nCells < 1 {
		nCells = 1
	}
	return &dynamicPipeElement{
		id: id, nCells: nCells, cellLength: length / float64(nCells),
		innerDiameter: innerD, wallUValue: wallU,
		fluidDensity: density, fluidCp: cp, fluidConductivity: conductivity, fluidViscosity: viscosity,
		h: make([]float64, nCells),
		ambient: ambient, dep: dep, hasAmbient: dep != nil || ambient.constant != nil,
	}
}

func (e *dynamicPipeElement) Id() uint             { return e.id }
func (e *dynamicPipeElement) nInternalStates() int { return e.nCells }

func (e *dynamicPipeElement) setInitialTemperature(t float64) {
	for i := range e.h {
		e.h[i] = specificEnthalpyOf(t, e.fluidCp)
	}
}

func (e *dynamicPipeElement) initialInternalStates(y0 []float64) { copy(y0, e.h) }
func (e *dynamicPipeElement) setInternalStates(y []float64)      { copy(e.h, y) }

func (e *dynamicPipeElement) setNodalConditions(mdot, tIn, tOut float64) {
	e.mdot, e.tIn = mdot, tIn
}

func (e *dynamicPipeElement) cellUA() float64 {
	area := e.fluidDensity * e.innerDiameter * e.innerDiameter * math.Pi / 4
	velocity := math.Abs(e.mdot) / area
	re := reynoldsNumber(velocity, e.fluidViscosity, e.innerDiameter)
	pr := prandtlNumber(e.fluidViscosity, e.fluidCp, e.fluidConductivity, e.fluidDensity)
	nu := nusseltNumber(re, pr, e.cellLength, e.innerDiameter)
	innerHTC := nu * e.fluidConductivity / e.innerDiameter
	rInner := 1 / (innerHTC * e.innerDiameter)
	rWall := 1 / (e.wallUValue * e.innerDiameter)
	return math.Pi * e.cellLength / (rInner + rWall)
}

func (e *dynamicPipeElement) internalDerivatives(ydot []float64) {
	mass := e.cellLength * e.fluidDensity * math.Pi / 4 * e.innerDiameter * e.innerDiameter
	if mass <= 0 {
		mass = 1
	}
	e.lossTotal = 0
	ua := 0.0
	if e.hasAmbient {
		ua = e.cellUA()
	}
	hIn := specificEnthalpyOf(e.tIn, e.fluidCp)
	forward := e.mdot >= 0
	for i := 0; i < e.nCells; i++ {
		var upstream float64
		if forward {
			if i == 0 {
				upstream = hIn
			} else {
				upstream = e.h[i-1]
			}
		} else {
			if i == e.nCells-1 {
				upstream = hIn
			} else {
				upstream = e.h[i+1]
			}
		}
		loss := 0.0
		if e.hasAmbient {
			ambientT := e.ambient.value(temperatureOf(e.h[i], e.fluidCp))
			loss = ua * (temperatureOf(e.h[i], e.fluidCp) - ambientT)
		}
		e.lossTotal += loss
		ydot[i] = (e.mdot*(upstream-e.h[i]) - loss) / mass
	}
}

func (e *dynamicPipeElement) dependencies() []quantity.InputReference {
	if e.dep == nil {
		return nil
	}
	return []quantity.InputReference{*e.dep}
}

func (e *dynamicPipeElement) setDependencyValueRef(ref quantity.InputReference, desc quantity.Description, src *float64) {
	e.ambient.external = src
}

func (e *dynamicPipeElement) meanTemperature() float64 {
	sum := 0.0
	for _, h := range e.h {
		sum += temperatureOf(h, e.fluidCp)
	}
	return sum / float64(len(e.h))
}

func (e *dynamicPipeElement) heatLoss() float64 { return e.lossTotal }
