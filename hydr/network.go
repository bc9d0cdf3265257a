// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hydr

import (
	"github.com/cpmech/gosl/la"
	"github.com/hirseboy/SIM-VICUS-sub000/inp"
	"github.com/hirseboy/SIM-VICUS-sub000/modl"
	"github.com/hirseboy/SIM-VICUS-sub000/quantity"
)

const (
	newtonTol   = 1e-6
	newtonMaxIt = 80
)

// Network is the whole attached fluid network of spec §3/§4.4: a Newton
// solve for one pressure per non-reference node and one mass flow per
// element, reusing the model-graph's Abstract(State)Dependency contract
// so the network participates in the graph like any other model (other
// models may read element mass flows or node pressures as results;
// see SPEC_FULL.md §4.2's heat-exchange wiring).
//
// Unknown ordering: all element mass flows first, then all
// non-reference node pressures (spec §4.4 "Unknowns").
type Network struct {
	id    uint
	nodes []*node
	elems []flowElement

	nodeIndex map[uint]int
	pIdx      map[uint]int // node id -> index into the pressure-unknown block, -1 for reference

	nUnknown int
	mdots    []float64

	// pressureRise is outlet-minus-inlet pressure per element, published
	// as a result so thermal companions (e.g. a pump-with-loss) can read
	// the hydraulic power their paired element adds to the fluid.
	pressureRise []float64
}

// New builds a Network from its project description. fluid is already
// resolved (spec §3's hydraulic network graph carries one fluid).
func New(id uint, net inp.HydraulicNetworkData) (*Network, error) {
	n := &Network{id: id, nodeIndex: make(map[uint]int), pIdx: make(map[uint]int)}
	for _, nd := range net.Nodes {
		n.nodes = append(n.nodes, &node{id: nd.Id, reference: nd.Reference})
		n.nodeIndex[nd.Id] = len(n.nodes) - 1
	}
	pipeById := make(map[uint]inp.PipePropertiesData)
	for _, pp := range net.PipeProperties {
		pipeById[pp.Id] = pp
	}
	var mdotGuess []float64
	for _, e := range net.Elements {
		var el flowElement
		switch e.ComponentType {
		case "Pipe":
			el = newPipeElement(e, pipeById[e.PipePropertiesId], net.Fluid)
		case "PressureLossElement", "ControlledValve", "HeatExchanger", "HeatPumpIdealCarnot", "IdealHeaterCooler":
			// Thermal-only components in the domain model are
			// hydraulically a configurable pressure loss (often zero).
			el = newPressureLossElement(e, net.Fluid)
		case "ConstantPressurePump":
			el = newConstantPressurePump(e)
		case "ControlledPump":
			el = newControlledPump(e)
		default:
			return nil, modl.NewAbort("network element %d: unsupported component type %q", e.Id, e.ComponentType)
		}
		n.elems = append(n.elems, el)
		// Newton started from exactly zero flow degenerates: friction
		// losses vanish faster than linearly near mdot == 0, leaving the
		// pipe row's mdot-partial numerically zero and the Jacobian
		// singular. Seed from the design mass flux (a small nonzero
		// default when none is given) the way a real commissioning run
		// would.
		guess := e.DesignMassFlux
		if guess == 0 {
			guess = 1e-3
		}
		mdotGuess = append(mdotGuess, guess)
	}
	idx := 0
	for _, nd := range n.nodes {
		if nd.reference {
			n.pIdx[nd.id] = -1
			continue
		}
		n.pIdx[nd.id] = idx
		idx++
	}
	n.nUnknown = len(n.elems) + idx
	n.mdots = mdotGuess
	n.pressureRise = make([]float64, len(n.elems))
	return n, nil
}

func (n *Network) Id() uint                  { return n.id }
func (n *Network) RefType() quantity.RefType { return quantity.RefNetworkElement }
func (n *Network) DisplayName() string       { return "HydraulicNetwork" }

func (n *Network) InitResults() error { return nil }

func (n *Network) ResultDescriptions() []quantity.Description {
	var out []quantity.Description
	for _, e := range n.elems {
		out = append(out, quantity.Description{Name: "MassFlux", Index: int(e.Id()), Size: 1, Unit: "kg/s"})
		out = append(out, quantity.Description{Name: "PressureRise", Index: int(e.Id()), Size: 1, Unit: "Pa"})
	}
	for _, nd := range n.nodes {
		out = append(out, quantity.Description{Name: "Pressure", Index: int(nd.id), Size: 1, Unit: "Pa"})
	}
	return out
}

func (n *Network) ResultValueRef(name quantity.Name) (*float64, bool) {
	switch name.Name {
	case "MassFlux":
		for i, e := range n.elems {
			if int(e.Id()) == name.Index {
				return &n.mdots[i], true
			}
		}
	case "PressureRise":
		for i, e := range n.elems {
			if int(e.Id()) == name.Index {
				return &n.pressureRise[i], true
			}
		}
	case "Pressure":
		for _, nd := range n.nodes {
			if int(nd.id) == name.Index {
				return &nd.pressure, true
			}
		}
	}
	return nil, false
}

func (n *Network) InitInputReferences() error { return nil }

func (n *Network) InputReferences() []quantity.InputReference {
	var out []quantity.InputReference
	for _, e := range n.elems {
		out = append(out, e.inputReferences()...)
	}
	return out
}

func (n *Network) SetInputValueRef(ref quantity.InputReference, desc quantity.Description, src *float64) {
	for _, e := range n.elems {
		for _, r := range e.inputReferences() {
			if r == ref {
				e.setInputValueRef(ref, desc, src)
				return
			}
		}
	}
}

// y packs the current iterate (mdots then non-reference node pressures).
func (n *Network) packY(y []float64) {
	copy(y, n.mdots)
	for _, nd := range n.nodes {
		if i := n.pIdx[nd.id]; i >= 0 {
			y[len(n.elems)+i] = nd.pressure
		}
	}
}

func (n *Network) unpackY(y []float64) {
	copy(n.mdots, y[:len(n.elems)])
	for _, nd := range n.nodes {
		if i := n.pIdx[nd.id]; i >= 0 {
			nd.pressure = y[len(n.elems)+i]
		}
	}
}

// residual computes one residual per element (its system function) and
// one mass-balance residual per non-reference node (spec §4.4).
func (n *Network) residual(y []float64, r []float64) {
	n.unpackY(y)
	ne := len(n.elems)
	balance := make([]float64, len(n.nodes))
	for i, e := range n.elems {
		pIn := n.pressureOf(e.InletNode())
		pOut := n.pressureOf(e.OutletNode())
		r[i] = e.systemFunction(n.mdots[i], pIn, pOut)
		balance[n.nodeIndex[e.InletNode()]] -= n.mdots[i]
		balance[n.nodeIndex[e.OutletNode()]] += n.mdots[i]
	}
	for _, nd := range n.nodes {
		if j := n.pIdx[nd.id]; j >= 0 {
			r[ne+j] = balance[n.nodeIndex[nd.id]]
		}
	}
}

func (n *Network) pressureOf(id uint) float64 {
	return n.nodes[n.nodeIndex[id]].pressure
}

// Solve runs the Newton loop to convergence (spec §4.4 "Solver"). On
// divergence it returns a RecoverableError so the outer integrator may
// cut its step.
func (n *Network) Solve() error {
	if n.nUnknown == 0 {
		return nil
	}
	y := make([]float64, n.nUnknown)
	n.packY(y)
	r := make([]float64, n.nUnknown)
	jac := make([][]float64, n.nUnknown)
	jacInv := make([][]float64, n.nUnknown)
	for i := range jac {
		jac[i] = make([]float64, n.nUnknown)
		jacInv[i] = make([]float64, n.nUnknown)
	}
	dy := make([]float64, n.nUnknown)

	for it := 0; it < newtonMaxIt; it++ {
		n.residual(y, r)
		if la.VecNorm(r) < newtonTol {
			n.unpackY(y)
			n.publish()
			return nil
		}
		n.assembleJacobian(y, jac)
		if err := la.MatInvG(jacInv, jac, 1e-13); err != nil {
			return modl.NewRecoverable("network %d: singular Jacobian in Newton solve: %v", n.id, err)
		}
		la.MatVecMul(dy, -1, jacInv, r)
		for i := range y {
			y[i] += dy[i]
		}
	}
	return modl.NewRecoverable("network %d: Newton solve did not converge in %d iterations", n.id, newtonMaxIt)
}

// assembleJacobian fills one row per element (its systemFunction
// partials, exactly +-1 on the pressure columns per spec §4.4) and one
// row per non-reference node (mass-balance: +-1 on its incident
// elements' mdot columns).
func (n *Network) assembleJacobian(y []float64, jac [][]float64) {
	n.unpackY(y)
	ne := len(n.elems)
	for i := range jac {
		for j := range jac[i] {
			jac[i][j] = 0
		}
	}
	for i, e := range n.elems {
		pIn := n.pressureOf(e.InletNode())
		pOut := n.pressureOf(e.OutletNode())
		dFdm, dFdpIn, dFdpOut := e.partials(n.mdots[i], pIn, pOut)
		jac[i][i] = dFdm
		if j := n.pIdx[e.InletNode()]; j >= 0 {
			jac[i][ne+j] = dFdpIn
		}
		if j := n.pIdx[e.OutletNode()]; j >= 0 {
			jac[i][ne+j] = dFdpOut
		}
	}
	for _, nd := range n.nodes {
		row, ok := n.pIdx[nd.id]
		if !ok || row < 0 {
			continue
		}
		for i, e := range n.elems {
			if e.InletNode() == nd.id {
				jac[ne+row][i] -= 1
			}
			if e.OutletNode() == nd.id {
				jac[ne+row][i] += 1
			}
		}
	}
}

func (n *Network) publish() {
	for i, e := range n.elems {
		pIn := n.pressureOf(e.InletNode())
		pOut := n.pressureOf(e.OutletNode())
		e.updateResults(n.mdots[i], pIn, pOut)
		n.pressureRise[i] = pOut - pIn
	}
}

// Update implements modl.AbstractStateDependency: one Newton solve per
// call, since the hydraulic network has no ODE state of its own (spec
// §4.4's unknowns are algebraic, solved fresh at the current (t, y)).
func (n *Network) Update(t float64) error {
	return n.Solve()
}
