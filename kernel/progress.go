// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package kernel

import (
	"time"

	"github.com/hirseboy/SIM-VICUS-sub000/integrate"
	"github.com/hirseboy/SIM-VICUS-sub000/klog"
)

// progressRecorder is a modl.StepCompleter that appends one row to
// log/progress.tsv per accepted integrator step (spec §6's persisted
// progress log), reading the driver's running Newton-iteration counter
// to report the delta since the previous accepted step. driver is set by
// kernel.New right after integrate.NewDriver returns: the recorder must
// already be in the stepCompleters slice passed to NewDriver, so the
// driver itself cannot be known until after construction.
type progressRecorder struct {
	log    *klog.ProgressLog
	driver *integrate.Driver

	start      time.Time
	lastT      float64
	lastNewton int
}

func (r *progressRecorder) StepCompleted(t float64) error {
	if r.start.IsZero() {
		r.start = time.Now()
		r.lastT = t
	}
	dt := t - r.lastT
	newton := r.driver.Stats.NewtonIters - r.lastNewton
	if err := r.log.Record(t, dt, newton, time.Since(r.start)); err != nil {
		return err
	}
	r.lastT = t
	r.lastNewton = r.driver.Stats.NewtonIters
	return nil
}
