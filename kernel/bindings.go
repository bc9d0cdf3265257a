// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package kernel

import (
	"github.com/cpmech/gosl/chk"
	"github.com/hirseboy/SIM-VICUS-sub000/inp"
	"github.com/hirseboy/SIM-VICUS-sub000/quantity"
)

// zoneThermalElements groups the network elements whose heat exchange
// targets a zone (HeatExchangeData.Type == "Zone"), by that zone's id,
// in project-file order. Condenser/Evaporator heat exchanges also bind
// to quantity.RefZone (see thermal.resolveSource's comment: they reuse
// the Zone wiring to read the *other side's* temperature rather than a
// room's), so they are deliberately excluded here: ZoneId there names a
// network element, not one of this project's zones, and nothing should
// feed a HeatLoss result back into a zone's air balance for them.
func zoneThermalElements(proj *inp.Simulation) map[uint][]uint {
	out := make(map[uint][]uint)
	if proj.Network == nil {
		return out
	}
	for _, e := range proj.Network.Elements {
		if e.HeatExchange == nil || e.HeatExchange.Type != "Zone" {
			continue
		}
		out[e.HeatExchange.ZoneId] = append(out[e.HeatExchange.ZoneId], e.Id)
	}
	return out
}

// bindZoneLoads performs the two manual bindings nothing in the generic
// publish map resolves automatically, because the producer's published
// key and the zone's self-keyed input slot don't share an id: a thermal
// network element's HeatLoss result into the owning zone's ThermalLoad
// slot, and a zone's optional CO2Model's CO2Flux result into its single
// CO2Load slot. Moisture loads are left unbound by design (DESIGN.md):
// SPEC_FULL.md names no moisture-source producer, so zone.MoistureLoad
// stays nil-tolerant, equivalent to a constant humidity ratio.
func (s *Simulation) bindZoneLoads(targets map[uint][]uint) error {
	for zoneId, elemIds := range targets {
		z, ok := s.zones[zoneId]
		if !ok {
			return chk.Err("kernel: heat exchange targets unknown zone %d", zoneId)
		}
		if s.thermalNet == nil {
			return chk.Err("kernel: zone %d expects a thermal load but no network is configured", zoneId)
		}
		for i, elemId := range elemIds {
			addr, desc, ok := s.builder.Lookup(quantity.RefNetworkElement, thermalNetworkId, "HeatLoss", int(elemId))
			if !ok {
				return chk.Err("kernel: zone %d: thermal network element %d did not publish HeatLoss", zoneId, elemId)
			}
			ref := quantity.InputReference{RefType: quantity.RefZone, Id: zoneId, Name: quantity.Name{Name: "ThermalLoad", Index: i}}
			z.SetInputValueRef(ref, desc, addr)
		}
	}

	for _, zd := range s.proj.Zones {
		if !s.proj.Data.EnableCO2 || zd.CO2Source == nil {
			continue
		}
		z := s.zones[zd.Id]
		addr, desc, ok := s.builder.Lookup(quantity.RefModel, zd.Id, "CO2Flux", -1)
		if !ok {
			return chk.Err("kernel: zone %d: CO2Model did not publish CO2Flux", zd.Id)
		}
		co2Index := len(targets[zd.Id]) // thermal loads occupy [0, nThermal); zone.New gets no moisture-load slots, so CO2 is next
		ref := quantity.InputReference{RefType: quantity.RefZone, Id: zd.Id, Name: quantity.Name{Name: "CO2Load", Index: co2Index}}
		z.SetInputValueRef(ref, desc, addr)
	}
	return nil
}
