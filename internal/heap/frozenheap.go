// Copyright 2017 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package heap

import "unsafe"

// FrozenHeap is an append-only arena sealed after construction: once built
// it accepts no further allocation and nothing reachable from it may be
// mutated. Multiple evaluators may share one FrozenHeap by reference,
// without synchronization, because nothing in it ever changes again.
type FrozenHeap struct {
	objects []unsafe.Pointer // retains promoted objects so they outlive the Heap they were promoted from
	refs    []*FrozenHeap    // reachability edges to other frozen heaps this one's objects point into
	sealed  bool
}

// NewFrozenHeap returns an empty, unsealed FrozenHeap. Module freezing is
// the normal way to populate one; NewFrozenHeap is exposed directly for
// hosts that want to intern values ahead of time (e.g. Globals).
func NewFrozenHeap() *FrozenHeap {
	return &FrozenHeap{}
}

// AddReference records that fh's retained objects may point into other,
// so other must be kept alive for at least as long as fh is. This is the
// explicit reachability edge the design calls for in place of automatic
// cross-heap tracing: it is the loader's job to call it once per
// cross-module reference at load time.
func (fh *FrozenHeap) AddReference(other *FrozenHeap) {
	fh.refs = append(fh.refs, other)
}

// Seal forbids further allocation into fh. Freezing a module always seals
// its resulting heap before handing it to the host.
func (fh *FrozenHeap) Seal() { fh.sealed = true }

// Freeze promotes every object reachable from roots out of h and into a new,
// sealed FrozenHeap, returning the frozen counterpart of each root in the
// same order. Objects are promoted in place — Go's allocator never moves a
// live object, so "promotion" only needs to (a) mark the object frozen so
// future mutation is rejected and (b) register the object with the new
// FrozenHeap so it stays reachable to the Go GC once h itself is dropped.
// Unreached objects are left out of the new heap; the Collect that Freeze
// runs has already dropped them from h, so they are garbage.
func Freeze(h *Heap, roots []Value) (*FrozenHeap, []FrozenValue) {
	live := h.Collect(roots)
	fh := &FrozenHeap{objects: make([]unsafe.Pointer, 0, len(live))}
	for p := range live {
		header(p).marked = true // reused as "frozen" outside of a collection cycle
		fh.objects = append(fh.objects, p)
	}
	frozen := make([]FrozenValue, len(roots))
	for i, r := range roots {
		if p, ok := r.UnpackRef(); ok {
			frozen[i] = FrozenValue(fromRef(p, false, r.IsString()))
		} else {
			frozen[i] = FrozenValue(r) // ints need no promotion
		}
	}
	fh.Seal()
	return fh, frozen
}

// isFrozen reports whether the object at p has been promoted by Freeze and
// must reject further mutation.
func isFrozen(p unsafe.Pointer) bool { return header(p).marked }
