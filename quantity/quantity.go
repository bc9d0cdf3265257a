// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package quantity holds the value-typed vocabulary every model object in
// the kernel is wired together with: quantity descriptions, value
// references and input references. Nothing in here touches the state
// vector or the dependency graph; it is pure data, shared by modl, hydr,
// thermal and outmgr.
package quantity

import "github.com/cpmech/gosl/chk"

// RefType tags the domain an id belongs to.
type RefType int

// reference-type vocabulary (spec GLOSSARY: "Reference-type")
const (
	RefSimulation RefType = iota
	RefZone
	RefLocation
	RefSchedule
	RefModel
	RefNetworkElement
	RefNetworkNode
	RefOutput
)

func (t RefType) String() string {
	switch t {
	case RefSimulation:
		return "Simulation"
	case RefZone:
		return "Zone"
	case RefLocation:
		return "Location"
	case RefSchedule:
		return "Schedule"
	case RefModel:
		return "Model"
	case RefNetworkElement:
		return "NetworkElement"
	case RefNetworkNode:
		return "NetworkNode"
	case RefOutput:
		return "Output"
	default:
		return "Unknown"
	}
}

// ParseRefType inverts String, for the project-file reftype strings
// outmgr's output definitions carry.
func ParseRefType(s string) (RefType, bool) {
	switch s {
	case "Simulation":
		return RefSimulation, true
	case "Zone":
		return RefZone, true
	case "Location":
		return RefLocation, true
	case "Schedule":
		return RefSchedule, true
	case "Model":
		return RefModel, true
	case "NetworkElement":
		return RefNetworkElement, true
	case "NetworkNode":
		return RefNetworkNode, true
	case "Output":
		return RefOutput, true
	default:
		return 0, false
	}
}

// Description describes one published result (spec §3 "Quantity description").
//
// Invariant: for vector-valued quantities, Size == len(IndexKeys) > 0;
// for scalars, Size == 1 and IndexKeys is empty.
type Description struct {
	Name        string
	Index       int // -1 when not applicable
	Unit        string
	Description string
	Size        int
	IndexKeys   []int
	Constant    bool // producer never changes after init; no graph edge recorded for it
}

// Check validates the scalar/vector invariant.
func (d Description) Check() error {
	if d.Size == 1 {
		if len(d.IndexKeys) != 0 {
			return chk.Err("quantity %q: scalar quantities must not declare index keys", d.Name)
		}
		return nil
	}
	if d.Size != len(d.IndexKeys) || d.Size == 0 {
		return chk.Err("quantity %q: vector quantity must have Size == len(IndexKeys) > 0 (size=%d, nkeys=%d)",
			d.Name, d.Size, len(d.IndexKeys))
	}
	return nil
}

// Name is a (name, optional-index) pair used both in InputReference and
// ValueReference.
type Name struct {
	Name  string
	Index int // -1 means "no index"
}

// InputReference is how a state-dependent model requests one input
// (spec §3 "Input reference").
type InputReference struct {
	RefType  RefType
	Id       uint
	Name     Name
	Required bool // false: nil pointer tolerated if unresolved
}

// String renders a diagnosable label, e.g. "Model#12.HeatingControlValue[3]".
func (r InputReference) String() string {
	s := r.RefType.String() + "#" + itoa(r.Id) + "." + r.Name.Name
	if r.Name.Index >= 0 {
		s += "[" + itoa(uint(r.Name.Index)) + "]"
	}
	return s
}

// ValueReference is a quantity description plus the (RefType, Id) of its
// producer. Must be globally unique across all models (spec §3).
type ValueReference struct {
	Description
	RefType RefType
	Id      uint
}

// Key returns the map key used by the publish phase: (RefType, Id, Name,
// Index). Index disambiguates the per-element entries a vector-valued
// producer (e.g. one network's per-element MassFlux) publishes under
// one shared Name.
type Key struct {
	RefType RefType
	Id      uint
	Name    string
	Index   int
}

// KeyOf builds the lookup key for a value reference.
func KeyOf(refType RefType, id uint, name string, index int) Key {
	return Key{RefType: refType, Id: id, Name: name, Index: index}
}

func itoa(v uint) string {
	if v == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	return string(buf[i:])
}
