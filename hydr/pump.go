// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hydr

import (
	"github.com/hirseboy/SIM-VICUS-sub000/inp"
	"github.com/hirseboy/SIM-VICUS-sub000/quantity"
)

// constantPressurePump is spec §4.4's constant-pressure pump:
// F = pIn - pOut + dpHead. The head may be overridden by a scheduled
// input (e.g. a time-varying pump curve), bound through scheduleRef.
type constantPressurePump struct {
	id, inlet, outlet uint
	head              float64
	scheduleId        uint
	scheduleRef       *float64
}

func newConstantPressurePump(e inp.NetworkElementData) *constantPressurePump {
	return &constantPressurePump{id: e.Id, inlet: e.InletNodeId, outlet: e.OutletNodeId,
		head: e.PressureHead, scheduleId: e.PressureHeadScheduleId}
}

func (p *constantPressurePump) Id() uint         { return p.id }
func (p *constantPressurePump) InletNode() uint  { return p.inlet }
func (p *constantPressurePump) OutletNode() uint { return p.outlet }

func (p *constantPressurePump) effectiveHead() float64 {
	if p.scheduleRef != nil {
		return *p.scheduleRef
	}
	return p.head
}

func (p *constantPressurePump) systemFunction(mdot, pIn, pOut float64) float64 {
	return pIn - pOut + p.effectiveHead()
}

func (p *constantPressurePump) partials(mdot, pIn, pOut float64) (dFdm, dFdpIn, dFdpOut float64) {
	return 0, 1, -1
}

func (p *constantPressurePump) inputReferences() []quantity.InputReference {
	if p.scheduleId == 0 {
		return nil
	}
	return []quantity.InputReference{{RefType: quantity.RefSchedule, Id: p.scheduleId, Name: quantity.Name{Name: "PressureHead", Index: -1}, Required: false}}
}

func (p *constantPressurePump) setInputValueRef(ref quantity.InputReference, desc quantity.Description, src *float64) {
	p.scheduleRef = src
}

func (p *constantPressurePump) updateResults(mdot, pIn, pOut float64) {}

// controlledPump computes its pressure head from a PI-type controller
// on a downstream target (mass flow or temperature difference), clipped
// at a configured maximum (spec §4.4's "Controlled pump"). PI itself is
// rejected at config-validation time; only the P/OnOff kinds reach here.
type controlledPump struct {
	id, inlet, outlet uint
	ctrl              *controller
	measured          *float64
	measuredTargetZoneId uint
}

func newControlledPump(e inp.NetworkElementData) *controlledPump {
	p := &controlledPump{id: e.Id, inlet: e.InletNodeId, outlet: e.OutletNodeId}
	if e.Controller != nil {
		p.ctrl = &controller{kind: e.Controller.Type, property: e.Controller.ControlledProperty,
			setpoint: e.Controller.Setpoint, kp: e.Controller.Kp, max: e.Controller.MaximumControllerResultValue}
		p.measuredTargetZoneId = e.Controller.TargetZoneId
	}
	return p
}

func (p *controlledPump) Id() uint         { return p.id }
func (p *controlledPump) InletNode() uint  { return p.inlet }
func (p *controlledPump) OutletNode() uint { return p.outlet }

func (p *controlledPump) head(mdot float64) float64 {
	if p.ctrl == nil {
		return 0
	}
	measured := mdot
	if p.ctrl.property != "MassFlux" && p.measured != nil {
		measured = *p.measured
	}
	return p.ctrl.output(measured)
}

func (p *controlledPump) systemFunction(mdot, pIn, pOut float64) float64 {
	return pIn - pOut + p.head(mdot)
}

func (p *controlledPump) partials(mdot, pIn, pOut float64) (dFdm, dFdpIn, dFdpOut float64) {
	dFdm = partialsFD(func(m float64) float64 { return p.systemFunction(m, pIn, pOut) }, mdot)
	return dFdm, 1, -1
}

func (p *controlledPump) inputReferences() []quantity.InputReference {
	if p.ctrl == nil || p.ctrl.property == "MassFlux" {
		return nil
	}
	return []quantity.InputReference{{RefType: quantity.RefZone, Id: p.measuredTargetZoneId, Name: quantity.Name{Name: "AirTemperature", Index: -1}, Required: false}}
}

func (p *controlledPump) setInputValueRef(ref quantity.InputReference, desc quantity.Description, src *float64) {
	p.measured = src
}

func (p *controlledPump) updateResults(mdot, pIn, pOut float64) {}
