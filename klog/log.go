// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package klog wraps gosl/io's colored printing primitives (io.Pf,
// io.Pfred, io.Pfgreen, io.Pfblue2 — the teacher's logging idiom
// throughout fem/*.go) into leveled, component-tagged lines written
// both to the screen and, uncolored, to <dirout>/log/screen.log (spec
// §6's persisted state layout).
package klog

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/cpmech/gosl/io"
)

// Logger is a component-tagged view onto one shared screen.log file.
type Logger struct {
	component string
	shared    *shared
}

type shared struct {
	mu   sync.Mutex
	file *os.File
}

// New opens <dirout>/log/screen.log — truncating on a fresh run,
// appending on restart (spec §6) — and returns a root logger with no
// component tag.
func New(dirout string, restart bool) (*Logger, error) {
	dir := filepath.Join(dirout, "log")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("klog: creating log dir: %v", err)
	}
	flags := os.O_CREATE | os.O_WRONLY
	if restart {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}
	f, err := os.OpenFile(filepath.Join(dir, "screen.log"), flags, 0644)
	if err != nil {
		return nil, fmt.Errorf("klog: opening screen.log: %v", err)
	}
	return &Logger{shared: &shared{file: f}}, nil
}

// Component returns a child logger tagged with name (e.g. "graph",
// "hydr", "integ", spec §2.1), sharing the same underlying file and
// write lock — every component funnels into the one screen.log, since
// parallel graph layers may log concurrently from several goroutines
// (spec §5's bounded worker pool).
func (l *Logger) Component(name string) *Logger {
	return &Logger{component: name, shared: l.shared}
}

func (l *Logger) tag() string {
	if l.component == "" {
		return ""
	}
	return "[" + l.component + "] "
}

func (l *Logger) write(line string) {
	l.shared.mu.Lock()
	defer l.shared.mu.Unlock()
	fmt.Fprintln(l.shared.file, line)
}

// Infof prints a plain informational line, screen and file.
func (l *Logger) Infof(format string, args ...interface{}) {
	line := l.tag() + fmt.Sprintf(format, args...)
	io.Pf("%s\n", line)
	l.write(line)
}

// Successf highlights a notable success (e.g. an accepted integrator
// step), green on screen per the teacher's io.Pfgreen convention.
func (l *Logger) Successf(format string, args ...interface{}) {
	line := l.tag() + fmt.Sprintf(format, args...)
	io.Pfgreen("%s\n", line)
	l.write(line)
}

// Warnf highlights a warning, screen-colored per io.Pfblue2.
func (l *Logger) Warnf(format string, args ...interface{}) {
	line := l.tag() + "WARNING: " + fmt.Sprintf(format, args...)
	io.Pfblue2("%s\n", line)
	l.write(line)
}

// Errorf reports a recoverable or fatal error, red on screen per
// io.Pfred, matching the teacher's error-reporting convention
// throughout fem/*.go.
func (l *Logger) Errorf(format string, args ...interface{}) {
	line := l.tag() + "ERROR: " + fmt.Sprintf(format, args...)
	io.Pfred("%s\n", line)
	l.write(line)
}

// Close flushes and closes the underlying screen.log file.
func (l *Logger) Close() error {
	return l.shared.file.Close()
}
