// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package hydr implements the pressure-flow Newton network of spec §4.4:
// a graph of nodes (one pressure unknown each, except the reference
// node) and elements (one mass-flow unknown and one system-function
// residual each), solved every step in lockstep with the zone and
// thermal balances.
package hydr

import "github.com/hirseboy/SIM-VICUS-sub000/quantity"

// flowElement is the contract every hydraulic element implements (spec
// §4.4 "Flow-element contract").
type flowElement interface {
	Id() uint
	InletNode() uint
	OutletNode() uint

	// systemFunction is the element's residual F(mdot, pIn, pOut); the
	// Newton solver drives it to zero for every element.
	systemFunction(mdot, pIn, pOut float64) float64

	// partials returns (dF/dmdot, dF/dpIn, dF/dpOut). Pressure partials
	// are exactly +-1 by construction (spec §4.4); the mdot partial is a
	// one-sided finite difference with step mdotFDStep.
	partials(mdot, pIn, pOut float64) (dFdm, dFdpIn, dFdpOut float64)

	// inputReferences/setInputValueRef wire schedule-, thermostat- or
	// heat-exchange-driven inputs (controllers, scheduled pump heads).
	inputReferences() []quantity.InputReference
	setInputValueRef(ref quantity.InputReference, desc quantity.Description, src *float64)

	// updateResults publishes computed controller/auxiliary outputs once
	// the Newton solve has converged for this step.
	updateResults(mdot, pIn, pOut float64)
}

// mdotFDStep is the one-sided finite-difference step used for the
// mass-flow partial (spec §4.4: "typically obtained by one-sided finite
// difference with step 1e-5 kg/s").
const mdotFDStep = 1e-5

// partialsFD evaluates a numerical dF/dmdot via one-sided finite
// differences, shared by every concrete element so the FD step stays
// uniform across the network (spec §9 "uniform FD scheme").
func partialsFD(f func(mdot float64) float64, mdot float64) float64 {
	return (f(mdot+mdotFDStep) - f(mdot)) / mdotFDStep
}

// node is one hydraulic network node: a pressure unknown, or a fixed
// value if it is the network's single reference node (spec §3, and
// inp.HydraulicNetworkData.Validate's uniqueness check).
type node struct {
	id        uint
	reference bool
	pressure  float64
}
