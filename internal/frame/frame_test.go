// Copyright 2017 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package frame

import (
	"errors"
	"testing"

	"golang.org/x/starlet/internal/heap"
)

func TestLocalUnassignedUntilWritten(t *testing.T) {
	a := NewArena(16)
	_, err := a.AllocaFrame(2, 4, func(fr *CallFrame) (heap.Value, error) {
		if _, ok := fr.GetLocal(0); ok {
			t.Fatalf("fresh local slot should read as unassigned")
		}
		fr.SetLocal(0, heap.FromInt(7))
		v, ok := fr.GetLocal(0)
		if !ok {
			t.Fatalf("written slot should read as assigned")
		}
		if i, _ := v.UnpackInt(); i != 7 {
			t.Fatalf("got %d, want 7", i)
		}
		return heap.Value(0), nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// TestAllocaFrameScopingOnError is testable property 7: the arena's
// bump pointer is restored whether body returns success or error.
func TestAllocaFrameScopingOnError(t *testing.T) {
	a := NewArena(16)
	before := a.Depth()
	_, err := a.AllocaFrame(2, 2, func(fr *CallFrame) (heap.Value, error) {
		return heap.Value(0), errors.New("boom")
	})
	if err == nil {
		t.Fatalf("expected error")
	}
	if a.Depth() != before {
		t.Fatalf("arena depth = %d, want %d (restored)", a.Depth(), before)
	}
}

func TestAllocaFrameScopingOnPanic(t *testing.T) {
	a := NewArena(16)
	before := a.Depth()
	func() {
		defer func() { recover() }()
		a.AllocaFrame(2, 2, func(fr *CallFrame) (heap.Value, error) {
			panic("boom")
		})
	}()
	if a.Depth() != before {
		t.Fatalf("arena depth = %d, want %d (restored after panic)", a.Depth(), before)
	}
}

func TestNestedFramesRestoreInOrder(t *testing.T) {
	a := NewArena(64)
	outerBefore := a.Depth()
	_, err := a.AllocaFrame(4, 4, func(outer *CallFrame) (heap.Value, error) {
		innerBefore := a.Depth()
		_, err := a.AllocaFrame(3, 3, func(inner *CallFrame) (heap.Value, error) {
			if a.Depth() == innerBefore {
				t.Fatalf("inner frame did not bump the arena")
			}
			return heap.Value(0), nil
		})
		if err != nil {
			t.Fatalf("inner: %v", err)
		}
		if a.Depth() != innerBefore {
			t.Fatalf("inner frame did not restore arena depth")
		}
		return heap.Value(0), nil
	})
	if err != nil {
		t.Fatalf("outer: %v", err)
	}
	if a.Depth() != outerBefore {
		t.Fatalf("outer frame did not restore arena depth")
	}
}

func TestOperandStackPushPop(t *testing.T) {
	a := NewArena(16)
	a.AllocaFrame(0, 4, func(fr *CallFrame) (heap.Value, error) {
		fr.Push(heap.FromInt(1))
		fr.Push(heap.FromInt(2))
		if fr.StackLen() != 2 {
			t.Fatalf("stack len = %d, want 2", fr.StackLen())
		}
		if v := fr.Pop(); mustInt(t, v) != 2 {
			t.Fatalf("pop = %d, want 2", mustInt(t, v))
		}
		if v := fr.Pop(); mustInt(t, v) != 1 {
			t.Fatalf("pop = %d, want 1", mustInt(t, v))
		}
		fr.AssertStackEmpty() // must not panic
		return heap.Value(0), nil
	})
}

func TestAssertStackEmptyPanicsWhenNotEmpty(t *testing.T) {
	a := NewArena(16)
	a.AllocaFrame(0, 4, func(fr *CallFrame) (heap.Value, error) {
		fr.Push(heap.FromInt(1))
		defer func() {
			if recover() == nil {
				t.Fatalf("expected panic from unbalanced stack")
			}
		}()
		fr.AssertStackEmpty()
		return heap.Value(0), nil
	})
}

func mustInt(t *testing.T, v heap.Value) int32 {
	t.Helper()
	i, ok := v.UnpackInt()
	if !ok {
		t.Fatalf("value is not an int")
	}
	return i
}
