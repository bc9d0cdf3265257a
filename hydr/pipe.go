// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hydr

import (
	"math"

	"github.com/hirseboy/SIM-VICUS-sub000/inp"
	"github.com/hirseboy/SIM-VICUS-sub000/quantity"
)

// pipeElement is the simple one-cell pipe of spec §4.4: F = pIn - pOut -
// dpFriction(mdot/nParallel), Swamee-Jain friction factor, plus an
// optional controller adding a throttling zeta term.
type pipeElement struct {
	id, inlet, outlet uint

	length    float64
	diameter  float64
	roughness float64
	nParallel float64

	fluidDensity float64
	fluidNu      float64 // kinematic viscosity, m2/s

	ctrl         *controller
	ctrlZetaMax  float64
	ctrlTargetZoneId uint
	ctrlInput    *float64 // bound measured value for ctrl.output
}

func newPipeElement(e inp.NetworkElementData, pipe inp.PipePropertiesData, fluid inp.FluidData) *pipeElement {
	nParallel := float64(pipe.NParallel)
	if nParallel < 1 {
		nParallel = 1
	}
	p := &pipeElement{
		id: e.Id, inlet: e.InletNodeId, outlet: e.OutletNodeId,
		length: pipe.Length, diameter: pipe.DiameterInner, roughness: pipe.Roughness,
		nParallel:    nParallel,
		fluidDensity: fluid.Density, fluidNu: fluid.KinematicViscosity,
	}
	if e.Controller != nil {
		p.ctrl = &controller{kind: e.Controller.Type, property: e.Controller.ControlledProperty,
			setpoint: e.Controller.Setpoint, kp: e.Controller.Kp, max: e.Controller.MaximumControllerResultValue}
		p.ctrlZetaMax = e.Controller.MaximumControllerResultValue
		p.ctrlTargetZoneId = e.Controller.TargetZoneId
	}
	return p
}

func (p *pipeElement) Id() uint         { return p.id }
func (p *pipeElement) InletNode() uint  { return p.inlet }
func (p *pipeElement) OutletNode() uint { return p.outlet }

// pressureLossFriction takes mdot already divided by the parallel-pipe
// count (spec §4.4: "Delta_friction(mdot / n_parallel)"); the division
// happens once, at the systemFunction call site.
func (p *pipeElement) pressureLossFriction(mdot float64) float64 {
	area := p.fluidDensity * p.diameter * p.diameter * math.Pi / 4
	velocity := mdot / area
	re := math.Abs(velocity) * p.diameter / p.fluidNu
	zeta := p.length / p.diameter * frictionFactorSwamee(re, p.diameter, p.roughness)
	if p.ctrl != nil {
		zeta += p.zetaControlled()
	}
	return zeta * p.fluidDensity / 2 * math.Abs(velocity) * velocity
}

// zetaControlled maps the controller's 0..max output to an added flow
// resistance: no control signal (no measurement bound yet) closes the
// valve fully, matching the original's "closed by default" policy.
func (p *pipeElement) zetaControlled() float64 {
	if p.ctrlInput == nil {
		return p.ctrlZetaMax
	}
	open := p.ctrl.output(*p.ctrlInput)
	return p.ctrlZetaMax - open // open==max -> zeta contribution 0 (fully open)
}

func (p *pipeElement) systemFunction(mdot, pIn, pOut float64) float64 {
	return pIn - pOut - p.pressureLossFriction(mdot/p.nParallel)
}

func (p *pipeElement) partials(mdot, pIn, pOut float64) (dFdm, dFdpIn, dFdpOut float64) {
	dFdm = partialsFD(func(m float64) float64 { return p.systemFunction(m, pIn, pOut) }, mdot)
	return dFdm, 1, -1
}

func (p *pipeElement) inputReferences() []quantity.InputReference {
	if p.ctrl == nil {
		return nil
	}
	return []quantity.InputReference{{RefType: quantity.RefZone, Id: p.ctrlTargetZoneId, Name: quantity.Name{Name: "AirTemperature", Index: -1}, Required: false}}
}

func (p *pipeElement) setInputValueRef(ref quantity.InputReference, desc quantity.Description, src *float64) {
	p.ctrlInput = src
}

func (p *pipeElement) updateResults(mdot, pIn, pOut float64) {}
