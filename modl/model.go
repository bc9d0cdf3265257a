// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package modl implements the model graph: the collection of
// self-describing model objects whose results feed each other's inputs,
// assembled at startup into a directed dependency graph, cycle-broken
// into strongly-connected groups, and evaluated in a fixed order every
// time step (spec §4.1-4.2).
package modl

import "github.com/hirseboy/SIM-VICUS-sub000/quantity"

// AbstractModel is the capability every simulation actor has: it
// publishes results, carries an id and a reference-type (spec GLOSSARY
// "Model object"). A model that never consumes inputs (e.g. a schedule)
// implements only this interface.
type AbstractModel interface {
	Id() uint
	RefType() quantity.RefType
	DisplayName() string

	// InitResults initialises result storage and unit metadata. Must not
	// read any external pointer yet (spec §4.1).
	InitResults() error

	// ResultDescriptions enumerates what this object produces.
	ResultDescriptions() []quantity.Description

	// ResultValueRef returns a stable address for a named (and, for
	// vectors, indexed) result. Callers may cache the pointer for the
	// whole run.
	ResultValueRef(name quantity.Name) (*float64, bool)
}

// AbstractStateDependency is implemented by models whose results depend
// on the state vector or on other models' outputs (spec GLOSSARY
// "State-dependent model").
type AbstractStateDependency interface {
	AbstractModel

	// InitInputReferences declares dependencies on other models' outputs
	// and computes any derived constants. Called once, after every
	// object's InitResults has run.
	InitInputReferences() error

	// InputReferences enumerates this object's declared inputs.
	InputReferences() []quantity.InputReference

	// SetInputValueRef receives the resolved pointer for one input, in
	// the same order as InputReferences(). nil is permitted only when the
	// corresponding reference has Required == false.
	SetInputValueRef(ref quantity.InputReference, desc quantity.Description, src *float64)

	// Update implements pure-function semantics: given the current values
	// at the bound input pointers and the current time, write results
	// into this object's output memory. Must be non-blocking and
	// bounded-time (spec §5).
	Update(t float64) error
}

// TimeDependent is implemented by models whose results depend on
// simulation time only (climate, schedules). They run before
// state-dependent models within a time step (spec §5 "Ordering
// guarantees").
type TimeDependent interface {
	AbstractModel
	SetTime(t float64) error
}

// StepCompleter is an optional capability of time-dependent models: once
// a step has converged, they may advance internal history (spec §4.3
// "stepCompleted").
type StepCompleter interface {
	StepCompleted(t float64) error
}

// StateConsumer is implemented by state-dependent models that own a
// slice of the global state vector y (zones, pipe cells, ODE-balance
// models). The kernel calls these during setY/yDot dispatch.
type StateConsumer interface {
	AbstractStateDependency
	NStates() int
	YInitial(y []float64)
	SetY(y []float64) error
	YDot(ydot []float64) error
}
