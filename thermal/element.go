// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package thermal

import "github.com/hirseboy/SIM-VICUS-sub000/quantity"

// flowElement is the thermal companion of one hydraulic element (spec
// §3 "Thermal flow element"). Every element owns zero or more internal
// (specific-enthalpy) states, a slice of the network's global state
// vector; "zero" covers the static elements whose temperature drop is
// computed analytically with no ODE state of its own.
type flowElement interface {
	Id() uint

	nInternalStates() int
	setInitialTemperature(t float64)
	initialInternalStates(y0 []float64)
	setInternalStates(y []float64)

	// setNodalConditions passes the boundary temperatures and current
	// mass flow computed by the hydraulic solver and node-mixing step;
	// the element computes its heat-loss distribution here.
	setNodalConditions(mdot, tIn, tOut float64)

	// internalDerivatives writes d(specific enthalpy)/dt per cell,
	// upwind advection plus heat-loss sink (spec §4.5 step 4).
	internalDerivatives(ydot []float64)

	// dependencies declares/binds this element's heat-exchange input
	// (a constant, a scheduled spline, or an external model result).
	dependencies() []quantity.InputReference
	setDependencyValueRef(ref quantity.InputReference, desc quantity.Description, src *float64)

	// meanTemperature is exposed as a result so pumps/controllers can
	// reference this element's fluid temperature (spec §4.5 "State
	// mapping").
	meanTemperature() float64

	// heatLoss is this step's total heat extracted from the fluid
	// (positive = loss to ambient), used by pump-with-performance-loss
	// to report net gain instead, and by tests.
	heatLoss() float64
}

// specificEnthalpyOf/temperatureOf convert between the state variable
// (specific enthalpy, J/kg) and temperature using a constant heat
// capacity, matching the teacher's convention of working in specific
// quantities rather than temperature directly (spec §4.5 "State
// mapping": "recomputes cell temperatures (= h / cp)").
func specificEnthalpyOf(t, cp float64) float64 { return t * cp }
func temperatureOf(h, cp float64) float64      { return h / cp }
