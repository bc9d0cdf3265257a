// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package klog

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// ProgressLog appends one tab-separated row per accepted integrator
// step to <dirout>/log/progress.tsv (spec §6): t, Δt, #Newton
// iterations, wall-clock — the file-backed counterpart to the
// teacher's screen-only io.Pf("> Time = %f\r") progress reporting.
type ProgressLog struct {
	f  *os.File
	mu sync.Mutex
}

// NewProgressLog opens progress.tsv, writing the header on a fresh run
// and skipping it when appending to an existing file on restart.
func NewProgressLog(dirout string, restart bool) (*ProgressLog, error) {
	dir := filepath.Join(dirout, "log")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("klog: creating log dir: %v", err)
	}
	path := filepath.Join(dir, "progress.tsv")
	existed := false
	if _, err := os.Stat(path); err == nil {
		existed = true
	}
	flags := os.O_CREATE | os.O_WRONLY
	if restart {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}
	f, err := os.OpenFile(path, flags, 0644)
	if err != nil {
		return nil, fmt.Errorf("klog: opening progress.tsv: %v", err)
	}
	p := &ProgressLog{f: f}
	if !(restart && existed) {
		fmt.Fprintln(f, "time\tdt\tnewton_iters\twallclock_s")
	}
	return p, nil
}

// Record appends one row for an accepted step.
func (p *ProgressLog) Record(t, dt float64, newtonIters int, wallClock time.Duration) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, err := fmt.Fprintf(p.f, "%v\t%v\t%d\t%v\n", t, dt, newtonIters, wallClock.Seconds())
	return err
}

// Close flushes and closes progress.tsv.
func (p *ProgressLog) Close() error {
	return p.f.Close()
}
