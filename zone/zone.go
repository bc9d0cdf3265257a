// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package zone implements the room/zone air-balance model of spec §4.5
// and §3 "Global state vector": one state (temperature) for an Active
// zone, none for Constant/Ground, plus optional moisture and CO2
// states (SPEC_FULL.md §4.4/§4.5 supplements).
package zone

import (
	"github.com/hirseboy/SIM-VICUS-sub000/inp"
	"github.com/hirseboy/SIM-VICUS-sub000/modl"
	"github.com/hirseboy/SIM-VICUS-sub000/quantity"
)

// dryAirHeatCapacity is rho*cp for air at typical room conditions,
// J/(m3.K), used to convert a thermal load [W] into dT/dt [K/s];
// rho=1.2 kg/m3, cp=1005 J/(kg.K) (spec §8 scenario A pins the
// free-float result to this exact product).
const dryAirHeatCapacity = 1.2 * 1005.0

// moistureCapacity is the lumped moisture-buffer capacity per unit
// volume, kg/(m3 . (kg/kg)), used for the optional second state.
const moistureCapacity = 1.2

// co2Capacity is the lumped CO2-buffer capacity per unit volume,
// used for the optional third state (SPEC_FULL.md §4.5's new feature).
const co2Capacity = 1.2

// Zone is the room-balance model object: an AbstractStateDependency
// (sums incoming loads) and, when active, a StateConsumer owning one to
// three states (spec §3: "zones: 1, or 2 if moisture enabled").
type Zone struct {
	id          uint
	data        inp.ZoneData
	hasMoisture bool
	hasCO2      bool

	temperature    float64
	moistureRatio  float64
	co2Concentration float64

	// inputs: sum of thermal loads [W], moisture loads [kg/s], CO2
	// loads [kg/s], each bound to zero or more producers.
	thermalLoads  []*float64
	moistureLoads []*float64
	co2Loads      []*float64
	nThermal      int
	nMoisture     int
	nCO2          int

	loadRefsTemplate []quantity.InputReference
}

// New builds a Zone from its project description. hasMoisture/hasCO2
// mirror the simulation-wide flags (spec §6: "enable-moisture flag,
// enable-CO2 flag"); nThermalLoads, nMoistureLoads and nCO2Loads control
// how many load input slots of each kind are declared (e.g. one thermal
// slot per contributing model: walls, windows, infiltration, internal
// gains).
func New(data inp.ZoneData, hasMoisture, hasCO2 bool, nThermalLoads, nMoistureLoads, nCO2Loads int) *Zone {
	return &Zone{
		id:          data.Id,
		data:        data,
		hasMoisture: hasMoisture && data.Type == "Active",
		hasCO2:      hasCO2 && data.Type == "Active",
		temperature: data.InitialTemperature,
		nThermal:    nThermalLoads,
		nMoisture:   nMoistureLoads,
		nCO2:        nCO2Loads,
	}
}

func (z *Zone) Id() uint                  { return z.id }
func (z *Zone) RefType() quantity.RefType { return quantity.RefZone }
func (z *Zone) DisplayName() string       { return z.data.DisplayName }

func (z *Zone) InitResults() error {
	if z.data.Type == "Constant" {
		z.temperature = z.data.ConstantTemperature
	}
	return nil
}

func (z *Zone) ResultDescriptions() []quantity.Description {
	out := []quantity.Description{{Name: "AirTemperature", Index: -1, Size: 1, Unit: "K", Constant: z.data.Type != "Active"}}
	if z.hasMoisture {
		out = append(out, quantity.Description{Name: "RelativeHumidity", Index: -1, Size: 1, Unit: "-"})
	}
	if z.hasCO2 {
		out = append(out, quantity.Description{Name: "CO2Concentration", Index: -1, Size: 1, Unit: "kg/kg"})
	}
	return out
}

func (z *Zone) ResultValueRef(name quantity.Name) (*float64, bool) {
	switch name.Name {
	case "AirTemperature":
		return &z.temperature, true
	case "RelativeHumidity":
		if z.hasMoisture {
			return &z.moistureRatio, true
		}
	case "CO2Concentration":
		if z.hasCO2 {
			return &z.co2Concentration, true
		}
	}
	return nil, false
}

// InitInputReferences declares one optional thermal-load input per
// declared slot (spec: RoomBalanceModel's many optional InputRef_*
// fields, generalised to a flat list rather than enumerating every
// original named load separately).
func (z *Zone) InitInputReferences() error {
	if z.data.Type != "Active" {
		return nil
	}
	z.thermalLoads = make([]*float64, z.nThermal)
	z.moistureLoads = make([]*float64, z.nMoisture)
	z.co2Loads = make([]*float64, z.nCO2)

	z.loadRefsTemplate = nil
	for i := 0; i < z.nThermal; i++ {
		z.loadRefsTemplate = append(z.loadRefsTemplate, quantity.InputReference{
			RefType: quantity.RefZone, Id: z.id,
			Name:     quantity.Name{Name: "ThermalLoad", Index: i},
			Required: false,
		})
	}
	for i := 0; i < z.nMoisture; i++ {
		z.loadRefsTemplate = append(z.loadRefsTemplate, quantity.InputReference{
			RefType: quantity.RefZone, Id: z.id,
			Name:     quantity.Name{Name: "MoistureLoad", Index: z.nThermal + i},
			Required: false,
		})
	}
	for i := 0; i < z.nCO2; i++ {
		z.loadRefsTemplate = append(z.loadRefsTemplate, quantity.InputReference{
			RefType: quantity.RefZone, Id: z.id,
			Name:     quantity.Name{Name: "CO2Load", Index: z.nThermal + z.nMoisture + i},
			Required: false,
		})
	}
	return nil
}

func (z *Zone) InputReferences() []quantity.InputReference { return z.loadRefsTemplate }

func (z *Zone) SetInputValueRef(ref quantity.InputReference, desc quantity.Description, src *float64) {
	i := ref.Name.Index
	switch {
	case i < z.nThermal:
		z.thermalLoads[i] = src
	case i < z.nThermal+z.nMoisture:
		z.moistureLoads[i-z.nThermal] = src
	default:
		z.co2Loads[i-z.nThermal-z.nMoisture] = src
	}
}

// Update is a no-op for Zone: the balance is evaluated in YDot, since a
// zone's "result" (temperature) IS a state, not a derived quantity
// (spec §3: "State-dependent model" vs. §3 "Global state vector").
func (z *Zone) Update(t float64) error { return nil }

// NStates implements modl.StateConsumer.
func (z *Zone) NStates() int {
	if z.data.Type != "Active" {
		return 0
	}
	n := 1
	if z.hasMoisture {
		n++
	}
	if z.hasCO2 {
		n++
	}
	return n
}

func (z *Zone) YInitial(y []float64) {
	y[0] = z.temperature
	idx := 1
	if z.hasMoisture {
		y[idx] = z.moistureRatio
		idx++
	}
	if z.hasCO2 {
		y[idx] = z.co2Concentration
	}
}

func (z *Zone) SetY(y []float64) error {
	z.temperature = y[0]
	idx := 1
	if z.hasMoisture {
		z.moistureRatio = y[idx]
		idx++
	}
	if z.hasCO2 {
		z.co2Concentration = y[idx]
	}
	return nil
}

// YDot implements the balance: C * dT/dt = sum(loads) (spec §4.5's
// RoomBalanceModel "sum of fluxes and divergences into the room").
func (z *Zone) YDot(ydot []float64) error {
	if z.data.Volume <= 0 {
		return modl.NewRecoverable("zone %d: non-physical volume %v", z.id, z.data.Volume)
	}
	thermalSum := sumBound(z.thermalLoads)
	ydot[0] = thermalSum / (dryAirHeatCapacity * z.data.Volume)

	idx := 1
	if z.hasMoisture {
		ydot[idx] = sumBound(z.moistureLoads) / (moistureCapacity * z.data.Volume)
		idx++
	}
	if z.hasCO2 {
		ydot[idx] = sumBound(z.co2Loads) / (co2Capacity * z.data.Volume)
	}
	return nil
}

func sumBound(ptrs []*float64) float64 {
	s := 0.0
	for _, p := range ptrs {
		if p != nil {
			s += *p
		}
	}
	return s
}

