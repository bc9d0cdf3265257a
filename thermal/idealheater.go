// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package thermal

import "github.com/hirseboy/SIM-VICUS-sub000/quantity"

// idealHeaterElement is spec §4.5's "Ideal heater/cooler": no internal
// state, it enforces a supply temperature setpoint exactly by applying
// whatever heat flow is required (an idealisation of a perfectly
// controlled heating/cooling coil).
type idealHeaterElement struct {
	id       uint
	fluidCp  float64
	setpoint float64

	mdot, tIn float64
	heatFlow  float64
}

func newIdealHeaterElement(id uint, setpoint, cp float64) *idealHeaterElement {
	return &idealHeaterElement{id: id, setpoint: setpoint, fluidCp: cp}
}

func (e *idealHeaterElement) Id() uint             { return e.id }
func (e *idealHeaterElement) nInternalStates() int { return 0 }

func (e *idealHeaterElement) setInitialTemperature(t float64) {}
func (e *idealHeaterElement) initialInternalStates(y0 []float64) {}
func (e *idealHeaterElement) setInternalStates(y []float64)       {}

func (e *idealHeaterElement) setNodalConditions(mdot, tIn, tOut float64) {
	e.mdot, e.tIn = mdot, tIn
	e.heatFlow = mdot * e.fluidCp * (e.setpoint - tIn)
}

func (e *idealHeaterElement) internalDerivatives(ydot []float64) {}

func (e *idealHeaterElement) dependencies() []quantity.InputReference { return nil }
func (e *idealHeaterElement) setDependencyValueRef(ref quantity.InputReference, desc quantity.Description, src *float64) {
}

func (e *idealHeaterElement) meanTemperature() float64 { return e.setpoint }
func (e *idealHeaterElement) heatLoss() float64        { return -e.heatFlow }
