// Copyright 2017 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package frame implements the call-frame layout and the per-evaluator
// scratch arena frames are carved from.
package frame

import (
	"fmt"

	"golang.org/x/starlet/internal/heap"
)

// CallFrame is the locals and operand stack for a single invocation,
// carved as one contiguous window out of an Arena. A local slot holds the
// zero Value until first write — the spec's invariant (i) that the zero
// Value is never valid doubles as the "referenced before assignment"
// sentinel, so no separate presence bitmap is needed.
type CallFrame struct {
	locals []heap.Value
	stack  []heap.Value
	sp     int // number of live operand-stack entries
}

// LocalCount returns the number of local slots.
func (f *CallFrame) LocalCount() int { return len(f.locals) }

// GetLocal returns the value in slot i, or ok=false if it has never been
// written (referenced-before-assignment).
func (f *CallFrame) GetLocal(i int) (heap.Value, bool) {
	v := f.locals[i]
	if v == heap.Value(0) {
		return heap.Value(0), false
	}
	return v, true
}

// SetLocal writes slot i. It is total: any prior value, including none, is
// overwritten.
func (f *CallFrame) SetLocal(i int, v heap.Value) {
	f.locals[i] = v
}

// Push pushes v onto the operand stack. The compiler guarantees no more
// than the declared stack_capacity pushes are ever live at once; Push does
// not re-check that bound on release builds.
func (f *CallFrame) Push(v heap.Value) {
	f.stack[f.sp] = v
	f.sp++
}

// Pop pops and returns the top of the operand stack.
func (f *CallFrame) Pop() heap.Value {
	f.sp--
	v := f.stack[f.sp]
	f.stack[f.sp] = heap.Value(0)
	return v
}

// StackLen returns the number of live operand-stack entries.
func (f *CallFrame) StackLen() int { return f.sp }

// AssertStackEmpty panics if the operand stack is not empty. The VM calls
// it at every sequence point (OpSequencePoint), so GC safe-points
// coincide exactly with an empty operand stack.
func (f *CallFrame) AssertStackEmpty() {
	if f.sp != 0 {
		panic(fmt.Sprintf("frame: operand stack not empty at sequence point (depth %d)", f.sp))
	}
}

// AppendRoots appends every assigned local and every live operand-stack
// entry to roots, for passing to heap.Collect. A GC pass is only ever
// triggered at a sequence point in the innermost, currently-executing
// frame — where AssertStackEmpty's invariant guarantees that frame's own
// stack is empty — but any ancestor frame paused on a nested Call may
// still hold live values it pushed before the call and hasn't popped
// yet, so every frame's operand stack is a genuine GC root, not just its
// locals.
func (f *CallFrame) AppendRoots(roots []heap.Value) []heap.Value {
	for _, v := range f.locals {
		if v != heap.Value(0) {
			roots = append(roots, v)
		}
	}
	for i := 0; i < f.sp; i++ {
		roots = append(roots, f.stack[i])
	}
	return roots
}

// Arena is the per-evaluator scratch region CallFrames are bump-allocated
// from — a "not the machine stack" stack, reused across every call in one
// evaluation. It is sized once, up front; exhausting it is a resource
// error, not silently handled by growing mid-evaluation (growing would
// require relocating already-live frames, which defeats the point of bump
// allocation).
type Arena struct {
	buf    []heap.Value
	top    int
	active []*CallFrame // frames currently on the Go call stack, outermost first
}

// NewArena returns an Arena with room for capacity Values of locals and
// operand-stack slots combined, across all frames live at once.
func NewArena(capacity int) *Arena {
	return &Arena{buf: make([]heap.Value, capacity)}
}

// AllocaFrame carves out a frame with localCount locals and stackCapacity
// operand-stack slots, runs body with it, and restores the arena's bump
// pointer to its value before the call on every exit path — including a
// panic propagating out of body — exactly mirroring the scoped-acquisition
// continuation-passing pattern used throughout the evaluator (§4.4, §4.7,
// §9). body's returned error is passed through unchanged.
func (a *Arena) AllocaFrame(localCount, stackCapacity int, body func(*CallFrame) (heap.Value, error)) (heap.Value, error) {
	total := localCount + stackCapacity
	if a.top+total > len(a.buf) {
		return heap.Value(0), fmt.Errorf("frame: arena exhausted (need %d words, %d free)", total, len(a.buf)-a.top)
	}
	mark := a.top
	window := a.buf[a.top : a.top+total : a.top+total]
	for i := range window {
		window[i] = heap.Value(0)
	}
	fr := &CallFrame{
		locals: window[:localCount:localCount],
		stack:  window[localCount:total:total],
	}
	a.top += total
	a.active = append(a.active, fr)
	defer func() {
		a.active = a.active[:len(a.active)-1]
		a.top = mark
	}()
	return body(fr)
}

// Depth returns the arena's current bump-pointer offset, useful for tests
// and diagnostics that want to assert scoping discipline directly.
func (a *Arena) Depth() int { return a.top }

// AppendRoots appends every root reachable from every frame currently
// on the call stack — not just the innermost one, since an ancestor
// frame paused on a nested Call can still hold live operand-stack
// values it pushed before the call and hasn't popped yet.
func (a *Arena) AppendRoots(roots []heap.Value) []heap.Value {
	for _, fr := range a.active {
		roots = fr.AppendRoots(roots)
	}
	return roots
}
