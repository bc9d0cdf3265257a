// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package modl

import (
	"github.com/cpmech/gosl/la"
	"github.com/cpmech/gosl/num"
	"github.com/hirseboy/SIM-VICUS-sub000/quantity"
)

// groupTol is the local Newton tolerance for a cyclic model group,
// intentionally tighter than typical outer-integrator tolerances: a loose
// inner solve would leak noise into every downstream layer (spec §9
// "tighter than the outer integrator").
const groupTol = 1e-10

// groupMaxIt bounds the local Newton iteration; exceeding it is a
// Recoverable failure, letting the outer integrator retry with a smaller
// step rather than spinning forever.
const groupMaxIt = 30

// groupFDTol is the MatInvG pivot tolerance used to invert the small
// dense feedback Jacobian.
const groupFDTol = 1e-12

// unknown is one Newton unknown inside a cyclic component: a
// non-constant value published by member model `owner` under `desc`
// (see collectUnknowns for why every such result is included).
type unknown struct {
	owner AbstractModel
	desc  string
	addr  *float64
}

// ModelGroup evaluates one strongly connected component of the model
// graph every time step (spec §4.2 "Strongly connected group"). A
// component of size one with no self-loop degenerates to a single plain
// Update call; anything more cyclic goes through fixed-point seeding and
// Newton iteration on the feedback unknowns, using a numerically
// estimated Jacobian (gosl/num) inverted with gosl/la's dense solver,
// mirroring the consistent-matrix checks in the material-point drivers
// this kernel's solver idiom was learned from.
type ModelGroup struct {
	members  []AbstractModel
	deps     []AbstractStateDependency // subset of members that are state-dependent
	cyclic   bool
	unknowns []unknown
}

// NewModelGroup builds a group from one graph component.
func NewModelGroup(members []AbstractModel, cyclic bool) *ModelGroup {
	g := &ModelGroup{members: members, cyclic: cyclic}
	for _, m := range members {
		if dep, ok := m.(AbstractStateDependency); ok {
			g.deps = append(g.deps, dep)
		}
	}
	if cyclic {
		g.collectUnknowns()
	}
	return g
}

// collectUnknowns gathers every published result of every member: inside
// a cycle, any of them might feed back into the component, and picking
// exactly the feedback subset would require re-deriving edge membership
// per-result: fixed-pointing every published value converges to the same
// answer and is far simpler to keep correct.
func (g *ModelGroup) collectUnknowns() {
	for _, m := range g.members {
		for _, d := range m.ResultDescriptions() {
			if d.Constant {
				continue
			}
			addr, ok := m.ResultValueRef(quantity.Name{Name: d.Name, Index: d.Index})
			if !ok || addr == nil {
				continue
			}
			g.unknowns = append(g.unknowns, unknown{owner: m, desc: d.Name, addr: addr})
		}
	}
}

// Evaluate runs one pass of this component at time t. For an acyclic
// singleton it is a direct call; for a cyclic group it runs local Newton
// on the feedback unknowns until convergence or groupMaxIt is exhausted.
func (g *ModelGroup) Evaluate(t float64) error {
	if !g.cyclic {
		return g.updateAll(t)
	}
	n := len(g.unknowns)
	if n == 0 {
		return g.updateAll(t)
	}

	y := make([]float64, n)
	for i, u := range g.unknowns {
		y[i] = *u.addr
	}

	residual := func(r, yTry []float64) error {
		for i, u := range g.unknowns {
			*u.addr = yTry[i]
		}
		if err := g.updateAll(t); err != nil {
			return err
		}
		for i, u := range g.unknowns {
			r[i] = *u.addr - yTry[i]
		}
		return nil
	}

	jac := make([][]float64, n)
	jacInv := make([][]float64, n)
	for i := range jac {
		jac[i] = make([]float64, n)
		jacInv[i] = make([]float64, n)
	}
	r := make([]float64, n)
	dy := make([]float64, n)

	for it := 0; it < groupMaxIt; it++ {
		if err := residual(r, y); err != nil {
			return err
		}
		if la.VecNorm(r) < groupTol {
			return nil
		}

		// dense numerical Jacobian, column by column, each entry taken
		// with gosl/num's central difference (spec §4.3 "numerical
		// Jacobian"); acceptable cost for the small feedback sets a
		// cyclic component realistically has.
		var evalErr error
		for j := 0; j < n; j++ {
			for i := 0; i < n; i++ {
				entry := func(x float64, args ...interface{}) float64 {
					yTry := append([]float64(nil), y...)
					yTry[j] = x
					rr := make([]float64, n)
					if err := residual(rr, yTry); err != nil {
						evalErr = err
						return 0
					}
					return rr[i]
				}
				jac[i][j] = num.DerivCen(entry, y[j])
				if evalErr != nil {
					return evalErr
				}
			}
		}
		// restore state to the pre-perturbation residual before solving
		if err := residual(r, y); err != nil {
			return err
		}

		if err := la.MatInvG(jacInv, jac, groupFDTol); err != nil {
			return NewRecoverable("model group Newton: singular Jacobian: %v", err)
		}
		la.MatVecMul(dy, -1, jacInv, r)
		for i := range y {
			y[i] += dy[i]
		}
	}
	return NewRecoverable("model group Newton failed to converge in %d iterations (|r|=%.3e)", groupMaxIt, la.VecNorm(r))
}

func (g *ModelGroup) updateAll(t float64) error {
	for _, m := range g.deps {
		if err := m.Update(t); err != nil {
			return err
		}
	}
	return nil
}
