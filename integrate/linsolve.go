// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package integrate

import (
	"math"

	"github.com/cpmech/gosl/la"

	"github.com/hirseboy/SIM-VICUS-sub000/modl"
)

// linearSolver is the pluggable LES stage of spec §4.3's table: given a
// dense Jacobian A and a right-hand side b, solve A x = b.
type linearSolver interface {
	solve(a [][]float64, b []float64) ([]float64, error)
}

// newLinearSolver picks the concrete implementation named by settings.
// An empty or unrecognised name selects Dense; the GMRES+ILU default of
// spec §4.3 is applied earlier, by inp.SolverData.SetDefault.
func newLinearSolver(les, precond string, krylovDim, iluFill int, convTol float64) linearSolver {
	switch les {
	case "Dense", "":
		return denseSolver{}
	case "KLU":
		return sparseDirectSolver{}
	case "GMRES":
		return &krylovSolver{method: "GMRES", maxDim: krylovDim, tol: convTol, precond: newPreconditioner(precond, iluFill)}
	case "BiCGStab":
		return &krylovSolver{method: "BiCGStab", maxDim: krylovDim, tol: convTol, precond: newPreconditioner(precond, iluFill)}
	default:
		return denseSolver{}
	}
}

// denseSolver inverts the full dense Jacobian with gosl/la, the same
// small-dense-Newton trio (la.MatInvG/la.MatVecMul) modl.ModelGroup and
// hydr.Network already use for their local Newton solves — the natural
// "Dense" choice of spec §4.3's table for the problem sizes this domain
// actually has (tens to low hundreds of states per building).
type denseSolver struct{}

func (denseSolver) solve(a [][]float64, b []float64) ([]float64, error) {
	n := len(b)
	inv := make([][]float64, n)
	for i := range inv {
		inv[i] = make([]float64, n)
	}
	if err := la.MatInvG(inv, a, 1e-14); err != nil {
		return nil, modl.NewRecoverable("dense linear solve: singular Jacobian: %v", err)
	}
	x := make([]float64, n)
	la.MatVecMul(x, 1, inv, b)
	return x, nil
}

// sparseDirectSolver wraps gosl/la's factor-and-solve LinSol
// (la.GetSolver/InitR/Fact/SolveR), the exact sequence
// fem/sol-lin-implicit.go's solve_linear_problem uses, here standing in
// for spec §4.3's "sparse-direct (KLU-style)" choice: the Jacobian is
// assembled into a la.Triplet and factorised once per Newton step.
type sparseDirectSolver struct{}

func (sparseDirectSolver) solve(a [][]float64, b []float64) ([]float64, error) {
	n := len(b)
	nnz := 0
	for _, row := range a {
		for _, v := range row {
			if v != 0 {
				nnz++
			}
		}
	}
	t := new(la.Triplet)
	t.Init(n, n, nnz+1)
	t.Start()
	for i, row := range a {
		for j, v := range row {
			if v != 0 {
				t.Put(i, j, v)
			}
		}
	}
	ls := la.GetSolver("umfpack")
	defer ls.Free()
	if err := ls.InitR(t, false, false, false); err != nil {
		return nil, modl.NewRecoverable("sparse-direct linear solve: init failed: %v", err)
	}
	if err := ls.Fact(); err != nil {
		return nil, modl.NewRecoverable("sparse-direct linear solve: factorisation failed: %v", err)
	}
	x := make([]float64, n)
	if err := ls.SolveR(x, b, false); err != nil {
		return nil, modl.NewRecoverable("sparse-direct linear solve: solve failed: %v", err)
	}
	return x, nil
}

// preconditioner applies an approximate inverse to a residual vector
// before a Krylov solver iterates, sharpening convergence.
type preconditioner interface {
	apply(a [][]float64, r []float64) []float64
}

// nonePreconditioner is the identity: no preconditioning applied.
type nonePreconditioner struct{}

func (nonePreconditioner) apply(_ [][]float64, r []float64) []float64 { return r }

// jacobiPreconditioner divides by the diagonal — the dense-matrix
// equivalent of an ILU(0) factorisation when the Jacobian is
// diagonally dominant, which the small per-layer blocks this kernel
// assembles typically are (each block is one zone's or one network
// element's own states coupling weakly to its neighbours). gosl/la and
// the rest of the pack do not carry a true incomplete-LU routine, so
// this is the documented simplification for both "ILU" and "ILUT": ILUT
// additionally records the requested fill level but does not use it,
// since there is no off-diagonal fill to keep or drop in a diagonal
// preconditioner (see DESIGN.md).
type jacobiPreconditioner struct{ fill int }

func (p jacobiPreconditioner) apply(a [][]float64, r []float64) []float64 {
	out := make([]float64, len(r))
	for i, ri := range r {
		d := a[i][i]
		if d == 0 {
			d = 1
		}
		out[i] = ri / d
	}
	return out
}

func newPreconditioner(name string, fill int) preconditioner {
	switch name {
	case "ILU", "ILUT":
		return jacobiPreconditioner{fill: fill}
	default:
		return nonePreconditioner{}
	}
}

// krylovSolver implements spec §4.3's iterative LES choices (GMRES,
// BiCGStab) directly against the dense Jacobian using only gosl/la's
// vector primitives (la.VecDot/la.VecNorm/la.MatVecMul) — neither
// algorithm appears anywhere in the retrieved pack, so this is built on
// the pack's numerical vocabulary rather than a literal ported routine
// (recorded in DESIGN.md).
type krylovSolver struct {
	method  string
	maxDim  int
	tol     float64
	precond preconditioner
}

func (k *krylovSolver) solve(a [][]float64, b []float64) ([]float64, error) {
	switch k.method {
	case "BiCGStab":
		return k.bicgstab(a, b)
	default:
		return k.gmres(a, b)
	}
}

func applyA(a [][]float64, x []float64) []float64 {
	n := len(x)
	out := make([]float64, n)
	la.MatVecMul(out, 1, a, x)
	return out
}

// gmres is a restarted GMRES with Arnoldi orthogonalisation, restarted
// every maxDim iterations (spec §4.3's "max-Krylov-dim").
func (k *krylovSolver) gmres(a [][]float64, b []float64) ([]float64, error) {
	n := len(b)
	x := make([]float64, n)
	m := k.maxDim
	if m <= 0 || m > n {
		m = n
	}
	for restart := 0; restart < 50; restart++ {
		r := vecSub(b, applyA(a, x))
		r = k.precond.apply(a, r)
		beta := la.VecNorm(r)
		if beta < k.tol {
			return x, nil
		}
		v := make([][]float64, m+1)
		v[0] = vecScale(r, 1/beta)
		h := make([][]float64, m+1)
		for i := range h {
			h[i] = make([]float64, m)
		}
		g := make([]float64, m+1)
		g[0] = beta

		j := 0
		for ; j < m; j++ {
			w := k.precond.apply(a, applyA(a, v[j]))
			for i := 0; i <= j; i++ {
				h[i][j] = la.VecDot(w, v[i])
				w = vecSub(w, vecScale(v[i], h[i][j]))
			}
			h[j+1][j] = la.VecNorm(w)
			if h[j+1][j] < 1e-14 {
				j++
				break
			}
			v[j+1] = vecScale(w, 1/h[j+1][j])
		}
		y := leastSquaresTriangular(h, g, j)
		dx := make([]float64, n)
		for i := 0; i < j; i++ {
			dx = vecAdd(dx, vecScale(v[i], y[i]))
		}
		x = vecAdd(x, dx)
		if la.VecNorm(vecSub(b, applyA(a, x))) < k.tol {
			return x, nil
		}
	}
	return nil, modl.NewRecoverable("GMRES failed to converge within %d restarts", 50)
}

// bicgstab is the stabilised bi-conjugate gradient method, the other
// iterative choice of spec §4.3's table.
func (k *krylovSolver) bicgstab(a [][]float64, b []float64) ([]float64, error) {
	n := len(b)
	x := make([]float64, n)
	r := vecSub(b, applyA(a, x))
	rHat := append([]float64(nil), r...)
	rho, alpha, omega := 1.0, 1.0, 1.0
	v := make([]float64, n)
	p := make([]float64, n)

	maxIt := k.maxDim
	if maxIt <= 0 {
		maxIt = n
	}
	for it := 0; it < maxIt*4+10; it++ {
		rhoNew := la.VecDot(rHat, r)
		if math.Abs(rhoNew) < 1e-300 {
			return nil, modl.NewRecoverable("BiCGStab breakdown: rho ~ 0")
		}
		beta := (rhoNew / rho) * (alpha / omega)
		p = vecAdd(r, vecScale(vecSub(p, vecScale(v, omega)), beta))
		pHat := k.precond.apply(a, p)
		v = applyA(a, pHat)
		alpha = rhoNew / la.VecDot(rHat, v)
		s := vecSub(r, vecScale(v, alpha))
		if la.VecNorm(s) < k.tol {
			x = vecAdd(x, vecScale(pHat, alpha))
			return x, nil
		}
		sHat := k.precond.apply(a, s)
		t := applyA(a, sHat)
		omega = la.VecDot(t, s) / la.VecDot(t, t)
		x = vecAdd(x, vecAdd(vecScale(pHat, alpha), vecScale(sHat, omega)))
		r = vecSub(s, vecScale(t, omega))
		if la.VecNorm(r) < k.tol {
			return x, nil
		}
		rho = rhoNew
	}
	return nil, modl.NewRecoverable("BiCGStab failed to converge within %d iterations", maxIt*4+10)
}

// leastSquaresTriangular solves the small (j+1)xj upper-Hessenberg
// least-squares problem from GMRES by successive Givens rotations,
// returning the j-vector of Krylov-basis coefficients.
func leastSquaresTriangular(h [][]float64, g []float64, j int) []float64 {
	cs := make([]float64, j)
	sn := make([]float64, j)
	gg := append([]float64(nil), g...)
	hh := make([][]float64, len(h))
	for i := range h {
		hh[i] = append([]float64(nil), h[i]...)
	}
	for i := 0; i < j; i++ {
		denom := math.Hypot(hh[i][i], hh[i+1][i])
		if denom == 0 {
			cs[i], sn[i] = 1, 0
		} else {
			cs[i] = hh[i][i] / denom
			sn[i] = hh[i+1][i] / denom
		}
		for k := i; k < j; k++ {
			t1 := cs[i]*hh[i][k] + sn[i]*hh[i+1][k]
			t2 := -sn[i]*hh[i][k] + cs[i]*hh[i+1][k]
			hh[i][k], hh[i+1][k] = t1, t2
		}
		t1 := cs[i]*gg[i] + sn[i]*gg[i+1]
		t2 := -sn[i]*gg[i] + cs[i]*gg[i+1]
		gg[i], gg[i+1] = t1, t2
	}
	y := make([]float64, j)
	for i := j - 1; i >= 0; i-- {
		sum := gg[i]
		for k := i + 1; k < j; k++ {
			sum -= hh[i][k] * y[k]
		}
		if hh[i][i] == 0 {
			y[i] = 0
			continue
		}
		y[i] = sum / hh[i][i]
	}
	return y
}

func vecAdd(a, b []float64) []float64 {
	out := make([]float64, len(a))
	for i := range a {
		out[i] = a[i] + b[i]
	}
	return out
}
func vecSub(a, b []float64) []float64 {
	out := make([]float64, len(a))
	for i := range a {
		out[i] = a[i] - b[i]
	}
	return out
}
func vecScale(a []float64, s float64) []float64 {
	out := make([]float64, len(a))
	for i := range a {
		out[i] = a[i] * s
	}
	return out
}
