// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package zone

import "github.com/hirseboy/SIM-VICUS-sub000/quantity"

// co2AirDensity approximates air density for turning a ventilation
// volumetric flow rate into a mass exchange rate, consistent with
// dryAirHeatCapacity's implicit air properties.
const co2AirDensity = 1.2

// CO2Model is the optional per-zone CO2 source of SPEC_FULL.md §4 item
// 5: a well-mixed mass balance with a constant generation rate taken
// from a schedule and a ventilation exchange with outside air,
// published as a single flux result that the owning zone's CO2Load
// slot is bound to, exactly like a thermal.heatLossElement's source
// feeds a zone's ThermalLoad slot.
type CO2Model struct {
	id     uint
	zoneId uint

	ventilationRate float64 // m3/s exchanged with outside air
	outsideCO2      float64 // kg/kg, constant outside concentration

	generation        *float64 // kg/s, bound to a schedule
	zoneConcentration *float64 // kg/kg, bound to the owning zone's CO2Concentration

	flux float64 // kg/s, published result

	genRef  *quantity.InputReference
	zoneRef quantity.InputReference
}

// NewCO2Model builds the model. scheduleId == 0 means no generation
// source is wired (the flux is then ventilation-only).
func NewCO2Model(id, zoneId, scheduleId uint, ventilationRate, outsideCO2 float64) *CO2Model {
	m := &CO2Model{id: id, zoneId: zoneId, ventilationRate: ventilationRate, outsideCO2: outsideCO2}
	if scheduleId != 0 {
		ref := quantity.InputReference{
			RefType: quantity.RefSchedule, Id: scheduleId,
			Name:     quantity.Name{Name: "CO2GenerationRate", Index: -1},
			Required: false,
		}
		m.genRef = &ref
	}
	return m
}

func (m *CO2Model) Id() uint                  { return m.id }
func (m *CO2Model) RefType() quantity.RefType { return quantity.RefModel }
func (m *CO2Model) DisplayName() string       { return "CO2Model" }
func (m *CO2Model) InitResults() error        { return nil }

func (m *CO2Model) ResultDescriptions() []quantity.Description {
	return []quantity.Description{{Name: "CO2Flux", Index: -1, Size: 1, Unit: "kg/s"}}
}

func (m *CO2Model) ResultValueRef(name quantity.Name) (*float64, bool) {
	if name.Name == "CO2Flux" {
		return &m.flux, true
	}
	return nil, false
}

// InitInputReferences declares the owning zone's current CO2
// concentration as an input — resolved automatically through the
// generic publish map, since zone.Zone publishes exactly this key.
func (m *CO2Model) InitInputReferences() error {
	m.zoneRef = quantity.InputReference{
		RefType: quantity.RefZone, Id: m.zoneId,
		Name:     quantity.Name{Name: "CO2Concentration", Index: -1},
		Required: false,
	}
	return nil
}

func (m *CO2Model) InputReferences() []quantity.InputReference {
	refs := []quantity.InputReference{m.zoneRef}
	if m.genRef != nil {
		refs = append(refs, *m.genRef)
	}
	return refs
}

func (m *CO2Model) SetInputValueRef(ref quantity.InputReference, desc quantity.Description, src *float64) {
	switch ref.RefType {
	case quantity.RefZone:
		m.zoneConcentration = src
	case quantity.RefSchedule:
		m.generation = src
	}
}

// Update computes the generation-plus-ventilation flux. A nil
// generation or zone-concentration pointer contributes the same as an
// absent source would (zero generation; outside-air concentration for
// the zone side of the ventilation term).
func (m *CO2Model) Update(t float64) error {
	gen := 0.0
	if m.generation != nil {
		gen = *m.generation
	}
	zoneConc := m.outsideCO2
	if m.zoneConcentration != nil {
		zoneConc = *m.zoneConcentration
	}
	m.flux = gen + co2AirDensity*m.ventilationRate*(m.outsideCO2-zoneConc)
	return nil
}
