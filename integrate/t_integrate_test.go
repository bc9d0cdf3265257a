// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package integrate

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/hirseboy/SIM-VICUS-sub000/inp"
	"github.com/hirseboy/SIM-VICUS-sub000/modl"
	"github.com/hirseboy/SIM-VICUS-sub000/quantity"
)

// decayModel is a single-state StateConsumer realising ydot = -k*y, used
// to exercise the driver's time-stepping without pulling in
// zone/hydr/thermal (same minimal-fixture idiom as modl's t_graph_test.go
// fakeModel/stateFake).
type decayModel struct {
	k, y float64
}

func (m *decayModel) Id() uint                                      { return 1 }
func (m *decayModel) RefType() quantity.RefType                     { return quantity.RefModel }
func (m *decayModel) DisplayName() string                           { return "decay" }
func (m *decayModel) InitResults() error                            { return nil }
func (m *decayModel) ResultDescriptions() []quantity.Description    { return nil }
func (m *decayModel) ResultValueRef(quantity.Name) (*float64, bool) { return nil, false }
func (m *decayModel) InitInputReferences() error                    { return nil }
func (m *decayModel) InputReferences() []quantity.InputReference    { return nil }
func (m *decayModel) SetInputValueRef(quantity.InputReference, quantity.Description, *float64) {}
func (m *decayModel) Update(t float64) error       { return nil }
func (m *decayModel) NStates() int                 { return 1 }
func (m *decayModel) YInitial(y []float64)         { y[0] = m.y }
func (m *decayModel) SetY(y []float64) error       { m.y = y[0]; return nil }
func (m *decayModel) YDot(ydot []float64) error    { ydot[0] = -m.k * m.y; return nil }

type noSink struct{}

func (noSink) Write(t float64) error            { return nil }
func (noSink) NextOutputTime(t float64) float64 { return math.Inf(1) }

func newDecayDriver(k, y0 float64, solver inp.SolverData) (*Driver, *decayModel) {
	m := &decayModel{k: k, y: y0}
	g := modl.NewGraph([]modl.AbstractModel{m}, nil)
	sv := modl.NewStateVector([]modl.StateConsumer{m})
	return NewDriver(g, sv, nil, nil, []OutputSink{noSink{}}, solver, 1), m
}

func Test_linsolveDense01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("dense linear solve: 2x2 system with a known solution")

	a := [][]float64{{4, 1}, {1, 3}}
	b := []float64{1, 2}
	x, err := denseSolver{}.solve(a, b)
	if err != nil {
		tst.Errorf("solve failed: %v\n", err)
		return
	}
	chk.Scalar(tst, "x0", 1e-9, x[0], 1.0/11)
	chk.Scalar(tst, "x1", 1e-9, x[1], 7.0/11)
}

func Test_linsolveGMRES01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("GMRES: matches the dense solution on the same system")

	a := [][]float64{{4, 1}, {1, 3}}
	b := []float64{1, 2}
	k := &krylovSolver{method: "GMRES", maxDim: 2, tol: 1e-10, precond: nonePreconditioner{}}
	x, err := k.solve(a, b)
	if err != nil {
		tst.Errorf("solve failed: %v\n", err)
		return
	}
	chk.Scalar(tst, "x0", 1e-6, x[0], 1.0/11)
	chk.Scalar(tst, "x1", 1e-6, x[1], 7.0/11)
}

func Test_linsolveBiCGStab01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("BiCGStab: matches the dense solution on the same system")

	a := [][]float64{{4, 1}, {1, 3}}
	b := []float64{1, 2}
	k := &krylovSolver{method: "BiCGStab", maxDim: 2, tol: 1e-10, precond: jacobiPreconditioner{}}
	x, err := k.solve(a, b)
	if err != nil {
		tst.Errorf("solve failed: %v\n", err)
		return
	}
	chk.Scalar(tst, "x0", 1e-6, x[0], 1.0/11)
	chk.Scalar(tst, "x1", 1e-6, x[1], 7.0/11)
}

func Test_jacobian01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("jacobianOf: recovers the analytic Jacobian of a linear residual")

	residual := func(y []float64) ([]float64, error) {
		return []float64{2*y[0] + 3*y[1], y[0] - y[1]}, nil
	}
	jac := jacobianOf(residual, []float64{0, 0}, 1e-4)
	chk.Scalar(tst, "dR0/dy0", 1e-6, jac[0][0], 2)
	chk.Scalar(tst, "dR0/dy1", 1e-6, jac[0][1], 3)
	chk.Scalar(tst, "dR1/dy0", 1e-6, jac[1][0], 1)
	chk.Scalar(tst, "dR1/dy1", 1e-6, jac[1][1], -1)
}

func Test_explicitEuler01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("explicit Euler: decays monotonically toward zero")

	solver := inp.SolverData{
		Integrator: "ExplicitEuler",
		AbsTol: 1e-9, RelTol: 1e-6, DiscStep: 1e-6,
		IterativeSolverConvCoeff: 1e-9, NonlinearConvCoeff: 1e-10,
		InitialStep: 0.01,
	}
	d, _ := newDecayDriver(1.0, 1.0, solver)
	if err := d.Run(1.0, nil); err != nil {
		tst.Errorf("run failed: %v\n", err)
		return
	}
	want := math.Exp(-1.0)
	if math.Abs(d.y[0]-want) > 0.05 {
		tst.Errorf("expected y(1) close to e^-1=%v, got %v\n", want, d.y[0])
	}
	if d.Stats.AcceptedSteps == 0 {
		tst.Errorf("expected at least one accepted step\n")
	}
}

func Test_implicitEuler01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("implicit Euler: stable even with a stiff decay rate and a large step")

	solver := inp.SolverData{
		Integrator: "ImplicitEuler", LES: "Dense",
		AbsTol: 1e-9, RelTol: 1e-6, DiscStep: 1e-6,
		IterativeSolverConvCoeff: 1e-9, NonlinearConvCoeff: 1e-10,
		InitialStep: 0.5,
	}
	d, _ := newDecayDriver(1000.0, 1.0, solver)
	if err := d.Run(1.0, nil); err != nil {
		tst.Errorf("run failed: %v\n", err)
		return
	}
	if math.IsNaN(d.y[0]) || math.IsInf(d.y[0], 0) || math.Abs(d.y[0]) > 1 {
		tst.Errorf("implicit Euler should remain bounded for a stiff decay, got y=%v\n", d.y[0])
	}
}

func Test_calculateErrorWeights01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("error weights: 1/(relTol*|y|+absTol)")

	solver := inp.SolverData{AbsTol: 1e-6, RelTol: 1e-3}
	d, _ := newDecayDriver(1, 1, solver)
	y := []float64{10, -10}
	w := make([]float64, 2)
	d.CalculateErrorWeights(y, w)
	chk.Scalar(tst, "w0", 1e-6, w[0], 1/(1e-3*10+1e-6))
	chk.Scalar(tst, "w1", 1e-6, w[1], 1/(1e-3*10+1e-6))
}
