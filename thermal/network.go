// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package thermal

import (
	"math"

	"github.com/hirseboy/SIM-VICUS-sub000/inp"
	"github.com/hirseboy/SIM-VICUS-sub000/modl"
	"github.com/hirseboy/SIM-VICUS-sub000/quantity"
)

// Network is the thermal companion of a hydraulic network (spec §4.5):
// one flowElement per hydraulic element, sharing one enthalpy-transport
// ODE system. Node mixing and per-element boundary conditions are
// recomputed every YDot call from the bound hydraulic results (mass
// flow per element, and this package's own per-element mean
// temperatures feeding downstream elements through node mixing).
type Network struct {
	id uint

	// hydrNetId is the paired hydraulic network's own model id, the one
	// its MassFlux results are actually published under (hydr.Network
	// publishes with Id == its own network id and Index == the element
	// id, not the other way round); defaults to id itself so tests that
	// bind mdots directly and never run Resolve are unaffected.
	hydrNetId uint

	elems    []flowElement
	inlet    []uint
	outlet   []uint
	fluidCp  float64

	mdots []*float64 // bound to the paired hydraulic network's per-element MassFlux results

	nodeIds   []uint
	nodeIndex map[uint]int

	// meanTemp/heatLossVal are refreshed snapshots of every element's
	// meanTemperature()/heatLoss(), so ResultValueRef can hand out a
	// stable address per spec's AbstractModel contract instead of a
	// pointer to a function-local copy.
	meanTemp    []float64
	heatLossVal []float64

	// heatPumps/electricalPower publish the extra ElectricalPower result
	// for HeatPumpIdealCarnot elements only; heatPumps[i] is nil for
	// every other element.
	heatPumps       []*heatPumpElement
	electricalPower []float64
}

// compatibility enforces SPEC_FULL.md §4.2's hydraulic-component x
// heat-exchange matrix: which HeatExchangeData.Type values are legal
// for which ComponentType (grounded on
// NM_ThermalNetworkStatesModel::setup's per-component-type switch).
// Any combination not listed here is fatal at construction.
var compatibility = map[string]map[string]bool{
	"Pipe":                 {"None": true, "Constant": true, "Spline": true, "Zone": true},
	"PressureLossElement":  {"None": true, "Constant": true, "Spline": true, "Zone": true},
	"ControlledValve":      {"None": true, "Constant": true, "Spline": true, "Zone": true},
	"ConstantPressurePump": {"None": true},
	"ControlledPump":       {"None": true},
	"HeatExchanger":        {"Constant": true, "Spline": true, "Zone": true, "Condenser": true, "Evaporator": true},
	"HeatPumpIdealCarnot":  {"None": true, "Zone": true},
	"IdealHeaterCooler":    {"None": true},
}

// New builds a Network sharing the same topology as the hydraulic
// network it accompanies (spec §4.5: "one thermal element per
// hydraulic element").
func New(id uint, net inp.HydraulicNetworkData) (*Network, error) {
	n := &Network{id: id, hydrNetId: id, fluidCp: net.Fluid.HeatCapacity, nodeIndex: make(map[uint]int)}
	pipeById := make(map[uint]inp.PipePropertiesData)
	for _, pp := range net.PipeProperties {
		pipeById[pp.Id] = pp
	}
	for _, nd := range net.Nodes {
		n.nodeIndex[nd.Id] = len(n.nodeIds)
		n.nodeIds = append(n.nodeIds, nd.Id)
	}
	for _, e := range net.Elements {
		hx := "None"
		if e.HeatExchange != nil {
			hx = e.HeatExchange.Type
		}
		if allowed, ok := compatibility[e.ComponentType]; !ok || !allowed[hx] {
			return nil, modl.NewAbort("network element %d: component %q does not support heat exchange type %q",
				e.Id, e.ComponentType, hx)
		}

		src, dep := resolveSource(e.HeatExchange)

		var el flowElement
		switch e.ComponentType {
		case "Pipe":
			pp := pipeById[e.PipePropertiesId]
			if hx == "None" {
				el = newAdiabaticElement(e.Id, pipeVolume(pp), net.Fluid.Density, net.Fluid.HeatCapacity)
			} else if pp.DiscretizationCells > 0 {
				el = newDynamicPipeElement(e.Id, pp.Length, pp.DiscretizationCells, pp.DiameterInner, pp.UValue,
					net.Fluid.Density, net.Fluid.HeatCapacity, net.Fluid.ThermalConductivity, net.Fluid.KinematicViscosity, src, dep)
			} else {
				el = newStaticPipeElement(e.Id, pp.Length, pp.DiameterInner, pp.UValue,
					net.Fluid.Density, net.Fluid.HeatCapacity, net.Fluid.ThermalConductivity, net.Fluid.KinematicViscosity, src, dep)
			}
		case "PressureLossElement", "ControlledValve":
			if hx == "None" {
				el = newAdiabaticElement(e.Id, 1e-3, net.Fluid.Density, net.Fluid.HeatCapacity)
			} else {
				el = newHeatLossElement(e.Id, 1e-3, net.Fluid.Density, net.Fluid.HeatCapacity, src, dep)
			}
		case "ConstantPressurePump", "ControlledPump":
			if e.PumpEfficiency > 0 && e.PumpEfficiency < 1 {
				el = newPumpLossElement(e.Id, 1e-3, net.Fluid.Density, net.Fluid.HeatCapacity, e.PumpEfficiency)
			} else {
				el = newAdiabaticElement(e.Id, 1e-3, net.Fluid.Density, net.Fluid.HeatCapacity)
			}
		case "HeatExchanger":
			el = newHeatExchangerElement(e.Id, 1e-3, net.Fluid.Density, net.Fluid.HeatCapacity, src, dep)
		case "HeatPumpIdealCarnot":
			el = newHeatPumpElement(e.Id, 1e-3, net.Fluid.Density, net.Fluid.HeatCapacity,
				e.CarnotEfficiency, e.MaxHeatingPower, e.SupplyTemperatureSetpoint, e.SourceElementId)
		case "IdealHeaterCooler":
			el = newIdealHeaterElement(e.Id, e.SupplyTemperatureSetpoint, net.Fluid.HeatCapacity)
		default:
			return nil, modl.NewAbort("network element %d: unsupported component type %q", e.Id, e.ComponentType)
		}
		n.elems = append(n.elems, el)
		n.inlet = append(n.inlet, e.InletNodeId)
		n.outlet = append(n.outlet, e.OutletNodeId)
		if hp, ok := el.(*heatPumpElement); ok {
			n.heatPumps = append(n.heatPumps, hp)
		} else {
			n.heatPumps = append(n.heatPumps, nil)
		}
	}
	n.meanTemp = make([]float64, len(n.elems))
	n.heatLossVal = make([]float64, len(n.elems))
	n.electricalPower = make([]float64, len(n.elems))
	return n, nil
}

// refreshResults snapshots every element's derived quantities into the
// published-result backing slices.
func (n *Network) refreshResults() {
	for i, e := range n.elems {
		n.meanTemp[i] = e.meanTemperature()
		n.heatLossVal[i] = e.heatLoss()
		if n.heatPumps[i] != nil {
			n.electricalPower[i] = n.heatPumps[i].ElectricalPower()
		}
	}
}

// resolveSource turns a project-file heat-exchange description into a
// source value plus the input reference (if any) a caller must declare
// and bind, following the same per-id schedule-wrapping convention as
// hydr's scheduled pump head (hydr/pump.go "inputReferences"): a
// Spline reference names the model-graph id of the schedule wrapping
// that spline, not the spline by name.
func resolveSource(hx *inp.HeatExchangeData) (source, *quantity.InputReference) {
	if hx == nil {
		return source{}, nil
	}
	switch hx.Type {
	case "Constant":
		v := hx.Value
		return source{constant: &v}, nil
	case "Spline":
		ref := quantity.InputReference{RefType: quantity.RefSchedule, Id: hx.ScheduleId,
			Name: quantity.Name{Name: "HeatExchangeValue", Index: -1}, Required: false}
		return source{}, &ref
	case "Zone", "Condenser", "Evaporator":
		// Condenser/Evaporator (heat-pump-paired heat exchangers) reuse
		// the Zone wiring: a UA-scaled difference against a bound
		// temperature, here the network element named by ZoneId acting
		// as the other side of the exchange rather than a room.
		ref := quantity.InputReference{RefType: quantity.RefZone, Id: hx.ZoneId,
			Name: quantity.Name{Name: "AirTemperature", Index: -1}, Required: false}
		return source{uaToZone: hx.ZoneUAValue}, &ref
	default:
		return source{}, nil
	}
}

// pipeVolume estimates a lumped fluid volume from pipe geometry for the
// adiabatic-pipe case (no heat exchange configured, so no Gnielinski
// correlation is needed, but the enthalpy ODE still needs a thermal
// mass).
func pipeVolume(pp inp.PipePropertiesData) float64 {
	v := pp.Length * math.Pi / 4 * pp.DiameterInner * pp.DiameterInner
	if pp.NParallel > 1 {
		v *= float64(pp.NParallel)
	}
	if v <= 0 {
		return 1e-3
	}
	return v
}

func (n *Network) Id() uint                  { return n.id }
func (n *Network) RefType() quantity.RefType { return quantity.RefNetworkElement }
func (n *Network) DisplayName() string       { return "ThermalNetwork" }

func (n *Network) InitResults() error { return nil }

func (n *Network) ResultDescriptions() []quantity.Description {
	var out []quantity.Description
	for i, e := range n.elems {
		out = append(out, quantity.Description{Name: "MeanTemperature", Index: int(e.Id()), Size: 1, Unit: "K"})
		out = append(out, quantity.Description{Name: "HeatLoss", Index: int(e.Id()), Size: 1, Unit: "W"})
		if n.heatPumps[i] != nil {
			out = append(out, quantity.Description{Name: "ElectricalPower", Index: int(e.Id()), Size: 1, Unit: "W"})
		}
	}
	return out
}

func (n *Network) ResultValueRef(name quantity.Name) (*float64, bool) {
	for i, e := range n.elems {
		if int(e.Id()) != name.Index {
			continue
		}
		switch name.Name {
		case "MeanTemperature":
			return &n.meanTemp[i], true
		case "HeatLoss":
			return &n.heatLossVal[i], true
		case "ElectricalPower":
			if n.heatPumps[i] != nil {
				return &n.electricalPower[i], true
			}
		}
	}
	return nil, false
}

// InitInputReferences declares one MassFlux input per element, bound to
// the paired hydraulic network's results, plus each element's own
// heat-exchange dependency.
func (n *Network) InitInputReferences() error {
	n.mdots = make([]*float64, len(n.elems))
	return nil
}

func (n *Network) InputReferences() []quantity.InputReference {
	var out []quantity.InputReference
	for _, e := range n.elems {
		out = append(out, quantity.InputReference{
			RefType: quantity.RefNetworkElement, Id: n.hydrNetId,
			Name:     quantity.Name{Name: "MassFlux", Index: int(e.Id())},
			Required: true,
		})
		out = append(out, e.dependencies()...)
	}
	return out
}

// SetHydraulicNetworkId records which hydraulic network id this thermal
// network's MassFlux inputs resolve against; call before Resolve when the
// two networks were constructed with different ids.
func (n *Network) SetHydraulicNetworkId(hydrNetId uint) {
	n.hydrNetId = hydrNetId
}

func (n *Network) SetInputValueRef(ref quantity.InputReference, desc quantity.Description, src *float64) {
	for i, e := range n.elems {
		if ref.RefType == quantity.RefNetworkElement && ref.Id == n.hydrNetId && ref.Name.Name == "MassFlux" && ref.Name.Index == int(e.Id()) {
			n.mdots[i] = src
			return
		}
		for _, d := range e.dependencies() {
			if d == ref {
				e.setDependencyValueRef(ref, desc, src)
				return
			}
		}
	}
}

// Update recomputes node inlet temperatures by mass-weighted mixing and
// pushes nodal boundary conditions into every element (spec §4.5 step
// 2/3): per-step sequence "node enthalpy mixing -> setNodalConditions".
// The ODE derivatives themselves are computed in YDot, after this has
// run for the current y (the kernel calls Update before YDot within a
// step, spec §5 "Ordering guarantees").
func (n *Network) Update(t float64) error {
	nodeEnthalpyFlow := make([]float64, len(n.nodeIds))
	nodeMassFlow := make([]float64, len(n.nodeIds))
	for i, e := range n.elems {
		mdot := n.massFlux(i)
		if mdot >= 0 {
			nodeEnthalpyFlow[n.nodeIndex[n.outlet[i]]] += mdot * specificEnthalpyOf(e.meanTemperature(), n.fluidCp)
			nodeMassFlow[n.nodeIndex[n.outlet[i]]] += mdot
		} else {
			nodeEnthalpyFlow[n.nodeIndex[n.inlet[i]]] += -mdot * specificEnthalpyOf(e.meanTemperature(), n.fluidCp)
			nodeMassFlow[n.nodeIndex[n.inlet[i]]] += -mdot
		}
	}
	nodeTemp := make([]float64, len(n.nodeIds))
	for j := range n.nodeIds {
		if nodeMassFlow[j] > 1e-12 {
			nodeTemp[j] = temperatureOf(nodeEnthalpyFlow[j]/nodeMassFlow[j], n.fluidCp)
		}
	}
	for i, e := range n.elems {
		mdot := n.massFlux(i)
		var tIn float64
		if mdot >= 0 {
			tIn = nodeTemp[n.nodeIndex[n.inlet[i]]]
		} else {
			tIn = nodeTemp[n.nodeIndex[n.outlet[i]]]
		}
		e.setNodalConditions(mdot, tIn, e.meanTemperature())
	}
	n.refreshResults()
	return nil
}

func (n *Network) massFlux(i int) float64 {
	if n.mdots[i] == nil {
		return 0
	}
	return *n.mdots[i]
}

// NStates implements modl.StateConsumer: the union of every element's
// internal states, in element order.
func (n *Network) NStates() int {
	total := 0
	for _, e := range n.elems {
		total += e.nInternalStates()
	}
	return total
}

func (n *Network) YInitial(y []float64) {
	off := 0
	for _, e := range n.elems {
		ni := e.nInternalStates()
		if ni > 0 {
			e.initialInternalStates(y[off : off+ni])
		}
		off += ni
	}
}

func (n *Network) SetY(y []float64) error {
	off := 0
	for _, e := range n.elems {
		ni := e.nInternalStates()
		if ni > 0 {
			e.setInternalStates(y[off : off+ni])
		}
		off += ni
	}
	n.refreshResults()
	return nil
}

func (n *Network) YDot(ydot []float64) error {
	off := 0
	for _, e := range n.elems {
		ni := e.nInternalStates()
		if ni > 0 {
			e.internalDerivatives(ydot[off : off+ni])
		}
		off += ni
	}
	return nil
}

// SetInitialTemperature propagates a single start temperature to every
// element, used when the project file gives the network one initial
// fluid temperature (spec §4.5 "initial condition").
func (n *Network) SetInitialTemperature(t float64) {
	for _, e := range n.elems {
		e.setInitialTemperature(t)
	}
}
