// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hydr

import "math"

// relaxBand is the fraction of max below which the hard clip of spec
// §4.4 is replaced by a smooth tanh transition (spec §9 "Controller
// clipping inside Newton"): a kink at y == max breaks Newton
// convergence, so the last relaxBand*max of travel is softened.
const relaxBand = 0.05

// softClip reproduces the original's hard clip `y = min(y, max)` in the
// limit relaxBand -> 0, but blends smoothly into it over the top
// relaxBand fraction of [0, max] so the controller's output stays
// differentiable where Newton needs it (original_source
// NM_HydraulicNetworkFlowElements.cpp's own comment flags the hard clip
// as "problematic inside a Newton method without relaxation").
func softClip(y, max float64) float64 {
	if max <= 0 {
		return 0
	}
	band := relaxBand * max
	knee := max - band
	if y <= knee {
		if y < 0 {
			return 0
		}
		return y
	}
	// smoothly approach max as y grows past knee; tanh(0)=0 so the
	// function is continuous and C1 at y == knee.
	return knee + band*math.Tanh((y-knee)/band)
}

// controller is the shared P/OnOff control element of spec §4.4. PI is
// rejected earlier, at project-load time (inp.ControllerData.Validate),
// so it never reaches this type.
type controller struct {
	kind       string // "P", "OnOff"
	property   string // "MassFlux", "TemperatureDifference", "TemperatureDifferenceOfFollowingElement", "ThermostatValue"
	setpoint   float64
	kp         float64
	max        float64
}

// output computes the controller's 0..max output for the current
// measured value of its controlled property (spec §4.4's per-property
// error sign, followed by softClip).
func (c *controller) output(measured float64) float64 {
	if c.kind == "OnOff" {
		if measured < c.setpoint {
			return c.max
		}
		return 0
	}
	e := c.setpoint - measured
	y := c.kp * e
	return softClip(y, c.max)
}
