// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package module

import (
	"golang.org/x/starlet/internal/collections"
	"golang.org/x/starlet/internal/heap"
)

// Globals is the host-provided, read-only mapping from name to
// FrozenValue used to resolve free names a module does not itself bind
// (§6, "Host globals"). It is built once by the host before any
// evaluation starts and then shared, without synchronization, across
// every evaluation that references it — safe because a FrozenValue's
// referent is immutable for the FrozenHeap's lifetime.
type Globals struct {
	names *collections.SmallMap[collections.StringKey, heap.FrozenValue]

	// heap retains the FrozenHeap that owns every value in names. A
	// FrozenValue is an opaque tagged word, invisible to the Go GC; without
	// this field nothing would keep the heap's objects slice (the real
	// unsafe.Pointer reference the GC does see) alive once the builder that
	// created it goes out of scope.
	heap *heap.FrozenHeap
}

// NewGlobals returns an empty Globals. Use GlobalsBuilder to populate one.
func NewGlobals() *Globals {
	return &Globals{names: collections.New[collections.StringKey, heap.FrozenValue]()}
}

// Lookup resolves name, or ok=false if the host never registered it.
func (g *Globals) Lookup(name string) (heap.FrozenValue, bool) {
	return g.names.Get(collections.StringKey(name))
}

// GlobalsBuilder accumulates (name, value) pairs and a single backing
// FrozenHeap, then seals both at once — mirroring the two-phase
// promote-then-seal shape FreezeWith uses for modules (see DESIGN.md's
// note on the original's transitional frozen-but-unsealed state).
type GlobalsBuilder struct {
	heap  *heap.Heap
	names []string
	vals  []heap.Value
}

// NewGlobalsBuilder returns a builder backed by a fresh, private Heap:
// every value registered with Set is expected to have been allocated
// from the Heap returned by Heap.
func NewGlobalsBuilder() *GlobalsBuilder {
	return &GlobalsBuilder{heap: heap.New()}
}

// Heap returns the builder's private Heap, for allocating values to pass
// to Set.
func (b *GlobalsBuilder) Heap() *heap.Heap { return b.heap }

// Set registers name, overwriting any earlier registration under the
// same name.
func (b *GlobalsBuilder) Set(name string, v heap.Value) {
	for i, n := range b.names {
		if n == name {
			b.vals[i] = v
			return
		}
	}
	b.names = append(b.names, name)
	b.vals = append(b.vals, v)
}

// Build freezes the builder's private heap and returns the finished,
// read-only Globals. The builder must not be used afterward.
func (b *GlobalsBuilder) Build() *Globals {
	fh, frozen := heap.Freeze(b.heap, b.vals)
	g := NewGlobals()
	g.heap = fh
	for i, name := range b.names {
		g.names.Insert(collections.StringKey(name), frozen[i])
	}
	return g
}
