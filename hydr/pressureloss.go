// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hydr

import (
	"math"

	"github.com/hirseboy/SIM-VICUS-sub000/inp"
	"github.com/hirseboy/SIM-VICUS-sub000/quantity"
)

// pressureLossElement is the fixed pressure-loss element of spec §4.4:
// F = pIn - pOut - zeta*rho*|v|*v/2, v = mdot/(rho*A). An optional
// controller adjusts zeta the same way the pipe element does.
type pressureLossElement struct {
	id, inlet, outlet uint
	zeta              float64
	diameter          float64
	fluidDensity      float64

	ctrl             *controller
	ctrlZetaMax      float64
	ctrlTargetZoneId uint
	ctrlInput        *float64
}

func newPressureLossElement(e inp.NetworkElementData, fluid inp.FluidData) *pressureLossElement {
	el := &pressureLossElement{
		id: e.Id, inlet: e.InletNodeId, outlet: e.OutletNodeId,
		zeta: e.Zeta, diameter: e.Diameter, fluidDensity: fluid.Density,
	}
	if e.Controller != nil {
		el.ctrl = &controller{kind: e.Controller.Type, property: e.Controller.ControlledProperty,
			setpoint: e.Controller.Setpoint, kp: e.Controller.Kp, max: e.Controller.MaximumControllerResultValue}
		el.ctrlZetaMax = e.Controller.MaximumControllerResultValue
		el.ctrlTargetZoneId = e.Controller.TargetZoneId
	}
	return el
}

func (e *pressureLossElement) Id() uint         { return e.id }
func (e *pressureLossElement) InletNode() uint  { return e.inlet }
func (e *pressureLossElement) OutletNode() uint { return e.outlet }

func (e *pressureLossElement) effectiveZeta() float64 {
	z := e.zeta
	if e.ctrl != nil {
		open := 0.0
		if e.ctrlInput != nil {
			open = e.ctrl.output(*e.ctrlInput)
		}
		z += e.ctrlZetaMax - open
	}
	return z
}

func (e *pressureLossElement) systemFunction(mdot, pIn, pOut float64) float64 {
	area := e.fluidDensity * e.diameter * e.diameter * math.Pi / 4
	v := mdot / area
	return pIn - pOut - e.effectiveZeta()*e.fluidDensity/2*math.Abs(v)*v
}

func (e *pressureLossElement) partials(mdot, pIn, pOut float64) (dFdm, dFdpIn, dFdpOut float64) {
	dFdm = partialsFD(func(m float64) float64 { return e.systemFunction(m, pIn, pOut) }, mdot)
	return dFdm, 1, -1
}

func (e *pressureLossElement) inputReferences() []quantity.InputReference {
	if e.ctrl == nil {
		return nil
	}
	return []quantity.InputReference{{RefType: quantity.RefZone, Id: e.ctrlTargetZoneId, Name: quantity.Name{Name: "AirTemperature", Index: -1}, Required: false}}
}

func (e *pressureLossElement) setInputValueRef(ref quantity.InputReference, desc quantity.Description, src *float64) {
	e.ctrlInput = src
}

func (e *pressureLossElement) updateResults(mdot, pIn, pOut float64) {}
