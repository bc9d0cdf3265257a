// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hydr

import "math"

// frictionFactorSwamee evaluates the Swamee-Jain approximation to the
// Colebrook-White friction factor, with no special treatment of the
// laminar-turbulent transition (spec §9 Open Question: "the source
// picks Swamee-Jain without special treatment of the transitional
// range; implementations should preserve this choice"). For Re == 0
// (stagnant flow) it returns 0 so pressureLossFriction degenerates to
// zero loss rather than dividing by zero.
func frictionFactorSwamee(re, diameter, roughness float64) float64 {
	if re <= 0 {
		return 0
	}
	arg := roughness/(3.7*diameter) + 5.74/math.Pow(re, 0.9)
	return 0.25 / math.Pow(math.Log10(arg), 2)
}
