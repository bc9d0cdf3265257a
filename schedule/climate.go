// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package schedule

import "github.com/hirseboy/SIM-VICUS-sub000/quantity"

// Climate is the climate-data collaborator of spec §6. Reading the
// actual weather file is deliberately out of scope (spec §1 Non-goals):
// Climate only holds the already-parsed time series and implements the
// resolveResultReference contract, exactly like Schedules.
type Climate struct {
	id      uint
	entries []*climateEntry
	byName  map[string]*climateEntry
}

// TimeSeries is a sorted (time, value) table, linearly interpolated.
// The actual climate-file reader that populates this is external.
type TimeSeries struct {
	T []float64
	V []float64
}

type climateEntry struct {
	name   string
	series TimeSeries
	val    float64
}

// At returns the linearly interpolated value at t, clamping outside the
// series' range.
func (s TimeSeries) At(t float64) float64 {
	n := len(s.T)
	if n == 0 {
		return 0
	}
	if t <= s.T[0] {
		return s.V[0]
	}
	if t >= s.T[n-1] {
		return s.V[n-1]
	}
	lo, hi := 0, n-1
	for hi-lo > 1 {
		mid := (lo + hi) / 2
		if s.T[mid] <= t {
			lo = mid
		} else {
			hi = mid
		}
	}
	frac := (t - s.T[lo]) / (s.T[hi] - s.T[lo])
	return s.V[lo] + frac*(s.V[hi]-s.V[lo])
}

// NewClimate wraps a pre-loaded set of named time series (e.g. ambient
// temperature, direct/diffuse radiation) as the climate model object.
func NewClimate(id uint, series map[string]TimeSeries) *Climate {
	c := &Climate{id: id, byName: make(map[string]*climateEntry, len(series))}
	for name, s := range series {
		e := &climateEntry{name: name, series: s}
		c.entries = append(c.entries, e)
		c.byName[name] = e
	}
	return c
}

func (c *Climate) Id() uint                  { return c.id }
func (c *Climate) RefType() quantity.RefType { return quantity.RefLocation }
func (c *Climate) DisplayName() string       { return "Climate" }
func (c *Climate) InitResults() error        { return nil }

func (c *Climate) ResultDescriptions() []quantity.Description {
	out := make([]quantity.Description, 0, len(c.entries))
	for _, e := range c.entries {
		out = append(out, quantity.Description{Name: e.name, Index: -1, Size: 1, Unit: "-"})
	}
	return out
}

func (c *Climate) ResultValueRef(name quantity.Name) (*float64, bool) {
	e, ok := c.byName[name.Name]
	if !ok {
		return nil, false
	}
	return &e.val, true
}

// SetTime samples every series at t.
func (c *Climate) SetTime(t float64) error {
	for _, e := range c.entries {
		e.val = e.series.At(t)
	}
	return nil
}

// ResolveResultReference implements modl.ValueSource.
func (c *Climate) ResolveResultReference(ref quantity.InputReference, want quantity.Description) *float64 {
	if ref.RefType != quantity.RefLocation || ref.Id != c.id {
		return nil
	}
	addr, ok := c.ResultValueRef(ref.Name)
	if !ok {
		return nil
	}
	return addr
}
