// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package integrate

// newtonMaxIt bounds the implicit-Euler per-step Newton iteration;
// exceeding it without converging halves the step and retries (spec §4.3
// "Jacobian: sparse CSR whose pattern comes from §4.2's graph" — here
// built dense, column by column, since this kernel's per-building state
// counts stay small; see DESIGN.md).
const newtonMaxIt = 20

// jacobianOf builds the dense numerical Jacobian of residual at y0 by
// central finite difference, column by column, at the project's
// configured discretisation step (inp.SolverData.DiscStep, spec §4.3's
// mandatory "discretisation step > 0" parameter) — the integrator's own
// Newton Jacobian, one layer above the per-layer model-group Jacobian
// modl.ModelGroup already builds with gosl/num.DerivCen at a fixed
// internal step; this one honours the user-configured step instead.
func jacobianOf(residual func([]float64) ([]float64, error), y0 []float64, step float64) [][]float64 {
	if step <= 0 {
		step = 1e-6
	}
	n := len(y0)
	jac := make([][]float64, n)
	for i := range jac {
		jac[i] = make([]float64, n)
	}
	for j := 0; j < n; j++ {
		yPlus := append([]float64(nil), y0...)
		yPlus[j] += step
		yMinus := append([]float64(nil), y0...)
		yMinus[j] -= step

		rPlus, errP := residual(yPlus)
		rMinus, errM := residual(yMinus)
		if errP != nil {
			rPlus = make([]float64, n)
		}
		if errM != nil {
			rMinus = make([]float64, n)
		}
		for i := 0; i < n; i++ {
			jac[i][j] = (rPlus[i] - rMinus[i]) / (2 * step)
		}
	}
	return jac
}
