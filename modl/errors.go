// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package modl

import "github.com/cpmech/gosl/chk"

// EvalStatus is the outcome of one update()/yDot() evaluation (spec §7).
type EvalStatus int

const (
	// Success: all models updated normally.
	Success EvalStatus = iota
	// Recoverable: a model or the hydraulic/thermal Newton solver failed to
	// converge in a way the outer integrator may recover from by cutting
	// its step. Never swallowed silently (spec §7).
	Recoverable
	// Fatal: an Abort was raised; the run must stop.
	Fatal
)

// Worst keeps the most severe of two statuses: Success < Recoverable < Fatal.
func Worst(a, b EvalStatus) EvalStatus {
	if a > b {
		return a
	}
	return b
}

// RecoverableError marks a failure the integrator may retry with a smaller
// step: Newton divergence inside a model group or the hydraulic solver,
// or a non-physical state (negative temperature, zero mass flow where a
// division needs it).
type RecoverableError struct {
	msg string
}

func (e *RecoverableError) Error() string { return e.msg }

// NewRecoverable builds a RecoverableError, mirroring chk.Err's formatting.
func NewRecoverable(format string, args ...interface{}) error {
	return &RecoverableError{msg: chk.Err(format, args...).Error()}
}

// AbortError is fatal: a controller reached a forbidden regime, or the
// integrator exhausted its retry budget after repeated RecoverableErrors.
type AbortError struct {
	msg string
}

func (e *AbortError) Error() string { return e.msg }

// NewAbort builds an AbortError.
func NewAbort(format string, args ...interface{}) error {
	return &AbortError{msg: chk.Err(format, args...).Error()}
}

// StatusOf classifies an arbitrary error into the two algebraic-failure
// kinds of spec §7, defaulting unclassified errors to Fatal: an unknown
// error is a configuration mistake, not something the integrator should
// paper over by retrying forever.
func StatusOf(err error) EvalStatus {
	if err == nil {
		return Success
	}
	switch err.(type) {
	case *RecoverableError:
		return Recoverable
	case *AbortError:
		return Fatal
	default:
		return Fatal
	}
}
