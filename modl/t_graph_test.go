// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package modl

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/hirseboy/SIM-VICUS-sub000/quantity"
)

// fakeModel is a minimal AbstractStateDependency used to exercise the
// builder, graph and group logic without pulling in zone/hydr/thermal.
type fakeModel struct {
	id      uint
	name    string
	value   float64
	inputs  []quantity.InputReference
	bound   []*float64
	update  func(m *fakeModel, t float64) error
}

func (m *fakeModel) Id() uint                  { return m.id }
func (m *fakeModel) RefType() quantity.RefType { return quantity.RefModel }
func (m *fakeModel) DisplayName() string       { return m.name }
func (m *fakeModel) InitResults() error        { return nil }
func (m *fakeModel) ResultDescriptions() []quantity.Description {
	return []quantity.Description{{Name: "Value", Index: -1, Size: 1}}
}
func (m *fakeModel) ResultValueRef(name quantity.Name) (*float64, bool) {
	if name.Name != "Value" {
		return nil, false
	}
	return &m.value, true
}
func (m *fakeModel) InitInputReferences() error { return nil }
func (m *fakeModel) InputReferences() []quantity.InputReference {
	return m.inputs
}
func (m *fakeModel) SetInputValueRef(ref quantity.InputReference, desc quantity.Description, src *float64) {
	m.bound = append(m.bound, src)
}
func (m *fakeModel) Update(t float64) error {
	if m.update != nil {
		return m.update(m, t)
	}
	return nil
}

func Test_builder01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("builder: publish+resolve a simple chain")

	a := &fakeModel{id: 1, name: "a", value: 2}
	b := &fakeModel{id: 2, name: "b", inputs: []quantity.InputReference{
		{RefType: quantity.RefModel, Id: 1, Name: quantity.Name{Name: "Value", Index: -1}, Required: true},
	}}
	b.update = func(m *fakeModel, t float64) error {
		m.value = *m.bound[0] * 2
		return nil
	}

	bld := NewBuilder()
	if err := bld.Publish([]AbstractModel{a, b}); err != nil {
		tst.Errorf("Publish failed: %v\n", err)
		return
	}
	if err := bld.Resolve([]AbstractStateDependency{b}); err != nil {
		tst.Errorf("Resolve failed: %v\n", err)
		return
	}
	if len(bld.Edges) != 1 {
		tst.Errorf("expected 1 edge, got %d\n", len(bld.Edges))
		return
	}
	if err := b.Update(0); err != nil {
		tst.Errorf("Update failed: %v\n", err)
		return
	}
	chk.Scalar(tst, "b.value", 1e-15, b.value, 4)
}

func Test_builder02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("builder: duplicate publish is fatal")

	a := &fakeModel{id: 1, name: "a"}
	a2 := &fakeModel{id: 1, name: "a-dup"}

	bld := NewBuilder()
	if err := bld.Publish([]AbstractModel{a, a2}); err == nil {
		tst.Errorf("expected duplicate-key error, got nil\n")
	}
}

func Test_builder03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("builder: unresolved required input is fatal")

	b := &fakeModel{id: 2, name: "b", inputs: []quantity.InputReference{
		{RefType: quantity.RefModel, Id: 99, Name: quantity.Name{Name: "Value", Index: -1}, Required: true},
	}}

	bld := NewBuilder()
	if err := bld.Resolve([]AbstractStateDependency{b}); err == nil {
		tst.Errorf("expected unresolved-required error, got nil\n")
	}
}

func Test_graph01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("graph: acyclic chain condenses to singleton layers")

	a := &fakeModel{id: 1, name: "a"}
	b := &fakeModel{id: 2, name: "b"}
	c := &fakeModel{id: 3, name: "c"}

	edges := []Edge{
		{Producer: a, Consumer: b},
		{Producer: b, Consumer: c},
	}
	g := NewGraph([]AbstractModel{a, b, c}, edges)

	if g.NComponents() != 3 {
		tst.Errorf("expected 3 components, got %d\n", g.NComponents())
		return
	}
	if len(g.Layers) != 3 {
		tst.Errorf("expected 3 layers for a strict chain, got %d\n", len(g.Layers))
		return
	}
	for c := 0; c < g.NComponents(); c++ {
		if g.IsCyclic(c) {
			tst.Errorf("component %d should not be cyclic\n", c)
		}
	}
}

func Test_graph02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("graph: mutual feedback condenses to one cyclic component")

	a := &fakeModel{id: 1, name: "a"}
	b := &fakeModel{id: 2, name: "b"}

	edges := []Edge{
		{Producer: a, Consumer: b},
		{Producer: b, Consumer: a},
	}
	g := NewGraph([]AbstractModel{a, b}, edges)

	if g.NComponents() != 1 {
		tst.Errorf("expected 1 component for a 2-cycle, got %d\n", g.NComponents())
		return
	}
	if !g.IsCyclic(0) {
		tst.Errorf("expected the single component to be reported cyclic\n")
	}
}

func Test_group01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("model group: Newton converges x = 0.5*(x+10)")

	// single self-dependent model realising x_new = 0.5*(x_old + 10),
	// whose fixed point is x = 10.
	a := &fakeModel{id: 1, name: "a", value: 0}
	a.inputs = []quantity.InputReference{
		{RefType: quantity.RefModel, Id: 1, Name: quantity.Name{Name: "Value", Index: -1}, Required: true},
	}
	a.update = func(m *fakeModel, t float64) error {
		m.value = 0.5 * (m.value + 10)
		return nil
	}

	bld := NewBuilder()
	if err := bld.Publish([]AbstractModel{a}); err != nil {
		tst.Errorf("Publish failed: %v\n", err)
		return
	}
	if err := bld.Resolve([]AbstractStateDependency{a}); err != nil {
		tst.Errorf("Resolve failed: %v\n", err)
		return
	}

	g := NewGraph([]AbstractModel{a}, bld.Edges)
	if !g.IsCyclic(0) {
		tst.Errorf("self-loop should be reported cyclic\n")
		return
	}

	grp := NewModelGroup(g.ComponentModels(0), true)
	if err := grp.Evaluate(0); err != nil {
		tst.Errorf("group evaluate failed: %v\n", err)
		return
	}
	chk.Scalar(tst, "a.value", 1e-6, a.value, 10)
}

func Test_statevec01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("state vector: offsets and scatter/gather round trip")

	y := make([]float64, 5)
	c1 := &stateFake{n: 2, y0: []float64{1, 2}}
	c2 := &stateFake{n: 3, y0: []float64{3, 4, 5}}

	sv := NewStateVector([]StateConsumer{c1, c2})
	if sv.Len() != 5 {
		tst.Errorf("expected length 5, got %d\n", sv.Len())
		return
	}
	sv.Initial(y)
	chk.Scalar(tst, "y[0]", 1e-15, y[0], 1)
	chk.Scalar(tst, "y[4]", 1e-15, y[4], 5)

	if err := sv.Scatter(y); err != nil {
		tst.Errorf("scatter failed: %v\n", err)
		return
	}
	if c1.lastSetY[0] != 1 || c2.lastSetY[2] != 5 {
		tst.Errorf("scatter did not reach the right slices\n")
	}

	off, n := sv.OffsetOf(c2)
	if off != 2 || n != 3 {
		tst.Errorf("expected offset=2 n=3, got offset=%d n=%d\n", off, n)
	}
}

// stateFake is a minimal StateConsumer used only by t_graph_test.go.
type stateFake struct {
	fakeModel
	n        int
	y0       []float64
	lastSetY []float64
}

func (c *stateFake) NStates() int          { return c.n }
func (c *stateFake) YInitial(y []float64)  { copy(y, c.y0) }
func (c *stateFake) SetY(y []float64) error {
	c.lastSetY = append([]float64(nil), y...)
	return nil
}
func (c *stateFake) YDot(ydot []float64) error {
	for i := range ydot {
		ydot[i] = 0
	}
	return nil
}
