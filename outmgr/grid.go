// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package outmgr implements the output manager of spec §4.6: output
// grids drive when a row is appended to each output file, and every
// configured quantity is sampled, time-averaged or time-integrated
// between those boundaries.
package outmgr

import (
	"math"

	"github.com/hirseboy/SIM-VICUS-sub000/inp"
)

// grid wraps one inp.OutputGridData, answering the "smallest S+kΔ
// strictly greater than t" question of spec §8 property 8.
type grid struct {
	name      string
	intervals []inp.OutputIntervalData
}

func newGrid(data inp.OutputGridData) *grid {
	return &grid{name: data.Name, intervals: data.Intervals}
}

// nextAfter returns the smallest output time over every interval of
// this grid that is strictly greater than t, or +Inf if no interval has
// one (every interval has already ended).
func (g *grid) nextAfter(t float64) float64 {
	next := math.Inf(1)
	for _, iv := range g.intervals {
		if iv.StepSize <= 0 {
			continue
		}
		end := iv.End
		if end == 0 {
			end = math.Inf(1)
		}
		var cand float64
		if t < iv.Start {
			cand = iv.Start
		} else {
			n := math.Floor((t-iv.Start)/iv.StepSize) + 1
			cand = iv.Start + n*iv.StepSize
		}
		if cand <= end+1e-12 && cand < next {
			next = cand
		}
	}
	return next
}
