// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package schedule

import "github.com/hirseboy/SIM-VICUS-sub000/quantity"

// FMIImport is the optional FMI-import collaborator of spec §6. Loading
// and stepping an actual FMU is out of scope (spec §1 Non-goals); this
// type only implements the override contract consulted first by the
// model graph builder (spec §4.1 step 2, "FMI-import override"): a
// caller that has already stepped an FMU registers the shadow addresses
// it wants substituted for native producers.
type FMIImport struct {
	shadows map[quantity.Key]*float64
}

// NewFMIImport returns an empty override table.
func NewFMIImport() *FMIImport {
	return &FMIImport{shadows: make(map[quantity.Key]*float64)}
}

// Shadow registers addr as the value to use instead of any native
// producer for (refType, id, name, index). index is -1 for a scalar
// quantity.
func (f *FMIImport) Shadow(refType quantity.RefType, id uint, name string, index int, addr *float64) {
	f.shadows[quantity.KeyOf(refType, id, name, index)] = addr
}

// ResolveResultReference implements modl.ValueSource.
func (f *FMIImport) ResolveResultReference(ref quantity.InputReference, want quantity.Description) *float64 {
	addr, ok := f.shadows[quantity.KeyOf(ref.RefType, ref.Id, ref.Name.Name, ref.Name.Index)]
	if !ok {
		return nil
	}
	return addr
}
