// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package thermal implements the thermal flow-network companion of
// spec §4.5: one thermal element per hydraulic element, run in
// lockstep with the hydraulic Newton solve and the zone balances,
// sharing one enthalpy-transport ODE system.
package thermal

import "math"

// reynoldsNumber computes Re = v*D/nu for the inner-flow correlations
// (spec §4.5 "Nusselt-Gnielinski-style correlation").
func reynoldsNumber(velocity, viscosity, diameter float64) float64 {
	if viscosity <= 0 {
		return 0
	}
	return math.Abs(velocity) * diameter / viscosity
}

// prandtlNumber computes Pr = nu*rho*cp/k.
func prandtlNumber(viscosity, heatCapacity, conductivity, density float64) float64 {
	if conductivity <= 0 {
		return 0
	}
	return viscosity * density * heatCapacity / conductivity
}

// nusseltNumber is the Gnielinski correlation for turbulent internal
// pipe flow, falling back to the laminar constant (3.66, fully
// developed laminar flow, constant wall temperature) below the
// transitional Reynolds number.
func nusseltNumber(re, pr, length, diameter float64) float64 {
	if re < 2300 {
		return 3.66
	}
	f := math.Pow(0.79*math.Log(re)-1.64, -2) // Petukhov friction factor
	num := (f / 8) * (re - 1000) * pr
	den := 1 + 12.7*math.Sqrt(f/8)*(math.Pow(pr, 2.0/3.0)-1)
	nu := num / den
	// entrance-length correction, negligible for length >> diameter
	nu *= 1 + math.Pow(diameter/length, 2.0/3.0)
	return nu
}
