// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package modl

import (
	"runtime"
	"sync"

	"github.com/cpmech/gosl/chk"
	"github.com/hirseboy/SIM-VICUS-sub000/quantity"
)

// ValueSource is the contract shared by the FMI-import and schedules
// collaborators of spec §4.1: given an input reference and the quantity
// description the consumer expects, return a stable pointer or nil
// (spec §6 "resolveResultReference").
type ValueSource interface {
	ResolveResultReference(ref quantity.InputReference, want quantity.Description) *float64
}

// published holds what the publish phase learned about one producer.
type published struct {
	model AbstractModel
	addr  *float64
	desc  quantity.Description
}

// Edge is a producer->consumer dependency discovered during the resolve
// phase (spec §4.1 step 2). Constant producers never contribute an edge.
type Edge struct {
	Producer AbstractModel
	Consumer AbstractStateDependency
}

// Builder runs the two-phase wiring algorithm of spec §4.1.
type Builder struct {
	// FMIImport, if set, is consulted first and overrides native
	// producers for the same reference (spec §9 "FMI-import override").
	FMIImport ValueSource
	// Schedules is consulted second, before the native publish map.
	Schedules ValueSource

	publishMap map[quantity.Key]published
	Edges      []Edge
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{publishMap: make(map[quantity.Key]published)}
}

// Publish runs the publish phase over all models (spec §4.1 step 1):
// InitResults, then ResultDescriptions, inserted into the global map.
// Duplicate keys are a fatal configuration error (spec §7.1).
//
// Publish is independently parallel across models: per the worker-pool
// cutoff in spec §5, small problems run serially to avoid goroutine
// overhead.
func (b *Builder) Publish(models []AbstractModel) error {
	type local struct {
		key   quantity.Key
		entry published
	}

	nWorkers := workerCount(len(models))
	chunks := make([][]local, nWorkers)
	var wg sync.WaitGroup
	errs := make([]error, nWorkers)

	chunkSize := (len(models) + nWorkers - 1) / nWorkers
	if chunkSize == 0 {
		chunkSize = 1
	}
	for w := 0; w < nWorkers; w++ {
		lo := w * chunkSize
		hi := lo + chunkSize
		if lo >= len(models) {
			break
		}
		if hi > len(models) {
			hi = len(models)
		}
		wg.Add(1)
		go func(w, lo, hi int) {
			defer wg.Done()
			var out []local
			for _, m := range models[lo:hi] {
				if err := m.InitResults(); err != nil {
					errs[w] = chk.Err("initResults failed for %v#%d: %v", m.RefType(), m.Id(), err)
					return
				}
				for _, d := range m.ResultDescriptions() {
					if err := d.Check(); err != nil {
						errs[w] = err
						return
					}
					addr, ok := m.ResultValueRef(quantity.Name{Name: d.Name, Index: d.Index})
					if !ok || addr == nil {
						errs[w] = chk.Err("model %v#%d declared result %q but returned no address", m.RefType(), m.Id(), d.Name)
						return
					}
					out = append(out, local{
						key:   quantity.KeyOf(m.RefType(), m.Id(), d.Name, d.Index),
						entry: published{model: m, addr: addr, desc: d},
					})
				}
			}
			chunks[w] = out
		}(w, lo, hi)
	}
	wg.Wait()
	for _, e := range errs {
		if e != nil {
			return e
		}
	}

	// serial merge keeps the map write path contention-free (spec §4.1.3, §5)
	for _, chunk := range chunks {
		for _, l := range chunk {
			if prev, dup := b.publishMap[l.key]; dup {
				return chk.Err("duplicate result reference %v.%s published by both %v#%d and %v#%d",
					l.key.RefType, l.key.Name, prev.model.RefType(), prev.model.Id(), l.entry.model.RefType(), l.entry.model.Id())
			}
			b.publishMap[l.key] = l.entry
		}
	}
	return nil
}

// Resolve runs the resolve phase over all state-dependent models (spec
// §4.1 step 2): InitInputReferences, enumerate InputReferences, bind
// each to a producer following the FMI > schedules > native precedence,
// and record a producer->consumer edge unless the quantity is constant.
func (b *Builder) Resolve(models []AbstractStateDependency) error {
	type localEdge struct {
		e Edge
	}

	nWorkers := workerCount(len(models))
	chunks := make([][]localEdge, nWorkers)
	var wg sync.WaitGroup
	errs := make([]error, nWorkers)

	chunkSize := (len(models) + nWorkers - 1) / nWorkers
	if chunkSize == 0 {
		chunkSize = 1
	}
	for w := 0; w < nWorkers; w++ {
		lo := w * chunkSize
		hi := lo + chunkSize
		if lo >= len(models) {
			break
		}
		if hi > len(models) {
			hi = len(models)
		}
		wg.Add(1)
		go func(w, lo, hi int) {
			defer wg.Done()
			var out []localEdge
			for _, m := range models[lo:hi] {
				if err := m.InitInputReferences(); err != nil {
					errs[w] = chk.Err("initInputReferences failed for %v#%d: %v", m.RefType(), m.Id(), err)
					return
				}
				for _, ref := range m.InputReferences() {
					addr, desc, producer, err := b.resolveOne(ref)
					if err != nil {
						errs[w] = err
						return
					}
					m.SetInputValueRef(ref, desc, addr)
					if addr != nil && producer != nil && !desc.Constant {
						out = append(out, localEdge{e: Edge{Producer: producer, Consumer: m}})
					}
				}
			}
			chunks[w] = out
		}(w, lo, hi)
	}
	wg.Wait()
	for _, e := range errs {
		if e != nil {
			return e
		}
	}
	for _, chunk := range chunks {
		for _, l := range chunk {
			b.Edges = append(b.Edges, l.e)
		}
	}
	return nil
}

// PublishedEntry names one resolvable result for the var/ output-
// reference list of spec §6 ("a plain-text dump of every resolvable
// result's canonical name, unit, and description").
type PublishedEntry struct {
	RefType quantity.RefType
	Id      uint
	Name    string
	Index   int
	Desc    quantity.Description
}

// Published returns every result registered during Publish, independent
// of whether any output definition or consumer ever references it.
func (b *Builder) Published() []PublishedEntry {
	entries := make([]PublishedEntry, 0, len(b.publishMap))
	for key, p := range b.publishMap {
		entries = append(entries, PublishedEntry{RefType: key.RefType, Id: key.Id, Name: key.Name, Index: key.Index, Desc: p.desc})
	}
	return entries
}

// Lookup resolves a published result directly by (RefType, Id, quantity
// name, index), the same publishMap the resolve phase consults, without
// going through a consumer's InputReference. index is -1 for a scalar
// result, or the producer's per-element index for a vector one (e.g. a
// network element id). The output manager (package outmgr) uses this to
// bind its output definitions to result pointers, exactly as spec §4.6
// describes resolving outputs "via §4.1's map".
func (b *Builder) Lookup(refType quantity.RefType, id uint, name string, index int) (*float64, quantity.Description, bool) {
	p, ok := b.publishMap[quantity.KeyOf(refType, id, name, index)]
	if !ok {
		return nil, quantity.Description{}, false
	}
	return p.addr, p.desc, true
}

// resolveOne implements the consult order of spec §4.1 step 2.
func (b *Builder) resolveOne(ref quantity.InputReference) (*float64, quantity.Description, AbstractModel, error) {
	want := quantity.Description{Name: ref.Name.Name}

	if b.FMIImport != nil {
		if addr := b.FMIImport.ResolveResultReference(ref, want); addr != nil {
			return addr, want, nil, nil
		}
	}
	if b.Schedules != nil {
		if addr := b.Schedules.ResolveResultReference(ref, want); addr != nil {
			return addr, want, nil, nil
		}
	}
	key := quantity.KeyOf(ref.RefType, ref.Id, ref.Name.Name, ref.Name.Index)
	if p, ok := b.publishMap[key]; ok {
		return p.addr, p.desc, p.model, nil
	}
	if ref.Required {
		return nil, quantity.Description{}, nil, chk.Err("unresolved required input %v requested", ref)
	}
	return nil, quantity.Description{}, nil, nil
}

// workerCount picks a small-problem-serial / large-problem-parallel
// split, mirroring spec §5's worker-pool cutoff (below ~1000 unknowns,
// evaluate serially to avoid overhead). Here "unknowns" is approximated
// by the number of models being processed.
func workerCount(n int) int {
	if n < 1000 {
		return 1
	}
	w := runtime.GOMAXPROCS(0)
	if w < 1 {
		w = 1
	}
	return w
}
