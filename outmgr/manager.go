// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package outmgr

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/cpmech/gosl/chk"
	"github.com/hirseboy/SIM-VICUS-sub000/inp"
	"github.com/hirseboy/SIM-VICUS-sub000/quantity"
)

// LookupFunc resolves one output definition's (reftype, id, quantity
// name, index) to the published result pointer, via §4.1's map (spec
// §4.6); kernel passes modl.Builder.Lookup directly. index is -1 for a
// scalar quantity, or the producer's per-element index (e.g. a network
// element id) for a vector one.
type LookupFunc func(refType quantity.RefType, id uint, name string, index int) (*float64, quantity.Description, bool)

// aggregationMode is one of spec §4.6's three sampling modes.
type aggregationMode int

const (
	instantaneous aggregationMode = iota
	timeAverage
	timeIntegral
)

func parseMode(s string) aggregationMode {
	switch s {
	case "TimeAverage":
		return timeAverage
	case "TimeIntegral":
		return timeIntegral
	default:
		return instantaneous
	}
}

// binding is one configured output column: a resolved result pointer
// plus whatever running accumulator its aggregation mode needs.
type binding struct {
	def  inp.OutputDefinitionData
	addr *float64
	desc quantity.Description
	mode aggregationMode

	start float64
	accum float64
	lastT float64
	lastV float64
	have  bool
}

// accumulate folds [lastT, t] into the running trapezoid integral; a
// no-op for Instantaneous bindings.
func (b *binding) accumulate(t float64) {
	if b.mode == instantaneous {
		return
	}
	v := *b.addr
	if b.have {
		b.accum += 0.5 * (b.lastV + v) * (t - b.lastT)
	} else {
		b.start = t
	}
	b.lastT, b.lastV, b.have = t, v, true
}

// sample returns the value to write at an output boundary t and resets
// whichever accumulator was consumed.
func (b *binding) sample(t float64) float64 {
	switch b.mode {
	case timeAverage:
		b.accumulate(t)
		v := *b.addr
		if dt := t - b.start; dt > 0 {
			v = b.accum / dt
		}
		b.accum, b.start = 0, t
		return v
	case timeIntegral:
		b.accumulate(t)
		v := b.accum
		b.accum, b.start = 0, t
		return v
	default:
		return *b.addr
	}
}

// outFile is one results/ time-series file: every definition sharing a
// grid is a column of the same file, one row per grid event.
type outFile struct {
	grid        *grid
	due         float64
	path        string
	bindings    []*binding
	f           *os.File
	wroteHeader bool
}

func (f *outFile) open(restart bool) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0755); err != nil {
		return chk.Err("output manager: creating results dir: %v", err)
	}
	existed := false
	if _, err := os.Stat(f.path); err == nil {
		existed = true
	}
	flags := os.O_CREATE | os.O_WRONLY
	if restart {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}
	fh, err := os.OpenFile(f.path, flags, 0644)
	if err != nil {
		return chk.Err("output manager: opening %s: %v", f.path, err)
	}
	f.f = fh
	f.wroteHeader = restart && existed
	return nil
}

func (f *outFile) writeRow(t float64) error {
	if !f.wroteHeader {
		cols := make([]string, 0, len(f.bindings)+1)
		cols = append(cols, "time")
		for _, b := range f.bindings {
			unit := b.desc.Unit
			if unit == "" {
				unit = "-"
			}
			name := b.def.QuantityName
			if idx := b.def.LookupIndex(); idx >= 0 {
				name = fmt.Sprintf("%s[%d]", name, idx)
			}
			cols = append(cols, fmt.Sprintf("%s#%d.%s[%s]", b.def.RefType, b.def.Id, name, unit))
		}
		if _, err := fmt.Fprintln(f.f, strings.Join(cols, "\t")); err != nil {
			return err
		}
		f.wroteHeader = true
	}
	vals := make([]string, 0, len(f.bindings)+1)
	vals = append(vals, strconv.FormatFloat(t, 'g', -1, 64))
	for _, b := range f.bindings {
		vals = append(vals, strconv.FormatFloat(b.sample(t), 'g', -1, 64))
	}
	_, err := fmt.Fprintln(f.f, strings.Join(vals, "\t"))
	return err
}

func (f *outFile) close() error {
	if f.f == nil {
		return nil
	}
	return f.f.Close()
}

// Manager implements spec §4.6: owns a collection of output files,
// resolves every configured definition to a source result pointer at
// init, and on each output-grid event time reads every pointer and
// appends one row per file. It also implements integrate.OutputSink
// (Write/NextOutputTime) and modl.StepCompleter (Accumulate is driven
// from StepCompleted so TimeAverage/TimeIntegral bindings see every
// accepted step, not just the output-grid boundaries).
type Manager struct {
	grids map[string]*grid
	files []*outFile
	logf  func(format string, args ...interface{})
}

// New resolves every output definition against lookup and opens its
// file (truncating fresh, appending on restart per spec §4.6).
func New(dirout string, data inp.OutputData, lookup LookupFunc, restart bool, logf func(string, ...interface{})) (*Manager, error) {
	if logf == nil {
		logf = func(string, ...interface{}) {}
	}
	grids := make(map[string]*grid, len(data.Grids))
	for _, g := range data.Grids {
		grids[g.Name] = newGrid(g)
	}

	byGrid := make(map[string]*outFile)
	var order []string
	for _, def := range data.Definitions {
		g, ok := grids[def.GridName]
		if !ok {
			return nil, chk.Err("output definition %s.%s references unknown grid %q", def.RefType, def.QuantityName, def.GridName)
		}
		refType, ok := quantity.ParseRefType(def.RefType)
		if !ok {
			return nil, chk.Err("output definition has unknown reftype %q", def.RefType)
		}
		addr, desc, ok := lookup(refType, def.Id, def.QuantityName, def.LookupIndex())
		if !ok || addr == nil {
			return nil, chk.Err("output definition %s#%d.%s did not resolve to a published result", def.RefType, def.Id, def.QuantityName)
		}
		of, exists := byGrid[def.GridName]
		if !exists {
			of = &outFile{
				grid: g,
				due:  g.nextAfter(math.Inf(-1)),
				path: filepath.Join(dirout, "results", def.GridName+".tsv"),
			}
			byGrid[def.GridName] = of
			order = append(order, def.GridName)
		}
		of.bindings = append(of.bindings, &binding{def: def, addr: addr, desc: desc, mode: parseMode(def.Mode)})
	}

	m := &Manager{grids: grids, logf: logf}
	for _, name := range order {
		of := byGrid[name]
		if err := of.open(restart); err != nil {
			return nil, err
		}
		m.files = append(m.files, of)
	}
	return m, nil
}

// StepCompleted folds the just-completed step into every
// TimeAverage/TimeIntegral binding's running accumulator (spec §4.6),
// independent of whether t happens to be an output-grid boundary.
func (m *Manager) StepCompleted(t float64) error {
	for _, f := range m.files {
		for _, b := range f.bindings {
			b.accumulate(t)
		}
	}
	return nil
}

// Write appends one row to every file whose grid is due at t. A failed
// write is logged and otherwise ignored (spec §7 "I/O error: surfaced,
// non-fatal for simulation"); it never aborts the run.
func (m *Manager) Write(t float64) error {
	for _, f := range m.files {
		if t+1e-9 < f.due {
			continue
		}
		if err := f.writeRow(t); err != nil {
			m.logf("output manager: write to %s failed: %v", f.path, err)
			continue
		}
		f.due = f.grid.nextAfter(t)
	}
	return nil
}

// NextOutputTime returns the smallest output time, over every
// registered grid, strictly greater than t (spec §8 property 8); it is
// stateless with respect to any individual file's write history.
func (m *Manager) NextOutputTime(t float64) float64 {
	next := math.Inf(1)
	for _, g := range m.grids {
		if n := g.nextAfter(t); n < next {
			next = n
		}
	}
	return next
}

// Close flushes and closes every open result file, part of the
// reverse-construction-order teardown of spec §5 (outputs, built last,
// are closed first).
func (m *Manager) Close() error {
	var first error
	for _, f := range m.files {
		if err := f.close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// WriteReferenceList dumps every resolvable result's canonical name,
// unit and description to var/output_references.txt (spec §6's
// "persisted state layout" var/ output-reference list) — independent
// of which results any output definition actually selected.
func WriteReferenceList(dirout string, entries []ReferenceEntry) error {
	dir := filepath.Join(dirout, "var")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return chk.Err("output manager: creating var dir: %v", err)
	}
	f, err := os.Create(filepath.Join(dir, "output_references.txt"))
	if err != nil {
		return chk.Err("output manager: creating reference list: %v", err)
	}
	defer f.Close()
	for _, e := range entries {
		unit := e.Unit
		if unit == "" {
			unit = "-"
		}
		if _, err := fmt.Fprintf(f, "%s#%d.%s\t%s\t%s\n", e.RefType, e.Id, e.Name, unit, e.Description); err != nil {
			return chk.Err("output manager: writing reference list: %v", err)
		}
	}
	return nil
}

// ReferenceEntry is one row of the var/ output-reference list.
type ReferenceEntry struct {
	RefType     string
	Id          uint
	Name        string
	Unit        string
	Description string
}
