// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package module implements the top-level environment a single evaluation
// runs against: a mapping from declared name to slot index, plus the slot
// vector of Values themselves. Freezing a module retires its mutable heap
// and makes the slot vector read-only, per spec §3/§4.2.
package module

import (
	"fmt"

	"golang.org/x/starlet/internal/collections"
	"golang.org/x/starlet/internal/heap"
)

// Module is a single evaluation's top-level environment: declared names
// resolve to slots in Values, in the order they were first assigned. A
// Module starts mutable (backed by a *heap.Heap) and is frozen exactly
// once, at which point Values is replaced by an equivalent, immutable
// FrozenValue vector and further assignment is rejected.
type Module struct {
	Name string

	names  *collections.SmallMap[collections.StringKey, int]
	values []heap.Value

	frozen       bool
	frozenValues []heap.FrozenValue
	frozenHeap   *heap.FrozenHeap
}

// New returns an empty, mutable Module.
func New(name string) *Module {
	return &Module{Name: name, names: collections.New[collections.StringKey, int]()}
}

// NumSlots returns the number of declared top-level names.
func (m *Module) NumSlots() int { return len(m.values) }

// SlotOf returns the slot index declared for name, allocating a fresh one
// on first reference. A fresh slot reads as unassigned (the zero Value)
// until a later Set.
func (m *Module) SlotOf(name string) int {
	if i, ok := m.names.Get(collections.StringKey(name)); ok {
		return i
	}
	i := len(m.values)
	m.names.Insert(collections.StringKey(name), i)
	m.values = append(m.values, heap.Value(0))
	return i
}

// Lookup resolves name directly, without allocating a slot if absent.
func (m *Module) Lookup(name string) (heap.Value, bool) {
	i, ok := m.names.Get(collections.StringKey(name))
	if !ok {
		return heap.Value(0), false
	}
	return m.Get(i), true
}

// Get reads slot i. The caller is expected to have validated i against
// NumSlots; this mirrors CallFrame.GetLocal's zero-Value-as-unassigned
// convention from package frame.
func (m *Module) Get(i int) heap.Value {
	if m.frozen {
		return m.frozenValues[i].Widen()
	}
	return m.values[i]
}

// Set writes slot i. It panics if the module has already been frozen —
// script code that reaches this path after freezing is a compiler or
// evaluator bug (CannotSetVariable, §7, is raised earlier, before Set is
// ever called, when the evaluator notices the target module is frozen).
func (m *Module) Set(i int, v heap.Value) {
	if m.frozen {
		panic(fmt.Sprintf("module: Set on frozen module %q", m.Name))
	}
	m.values[i] = v
}

// IsFrozen reports whether FreezeWith has already been called.
func (m *Module) IsFrozen() bool { return m.frozen }

// FreezeWith promotes every value reachable from m's slot vector into a
// new FrozenHeap and replaces Values with the frozen counterpart, exactly
// mirroring heap.Freeze — Module only adds the name→slot bookkeeping on
// top. h must be the Heap that allocated every live Value in m's slot
// vector (the Evaluator owns it, per §4.7; Module does not hold a Heap of
// its own). After FreezeWith, Get/Lookup continue to work (reading from
// the frozen vector instead) but Set panics.
func (m *Module) FreezeWith(h *heap.Heap) *heap.FrozenHeap {
	if m.frozen {
		return m.frozenHeap
	}
	fh, frozen := heap.Freeze(h, m.values)
	m.frozenValues = frozen
	m.frozenHeap = fh
	m.values = nil
	m.frozen = true
	return fh
}

// Names calls fn for every declared name and its slot index, in
// declaration order.
func (m *Module) Names(fn func(name string, slot int) bool) {
	m.names.Iter(func(k collections.StringKey, slot int) bool {
		return fn(string(k), slot)
	})
}
