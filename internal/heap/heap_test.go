// Copyright 2017 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package heap

import "testing"

func TestCollectDropsUnreachable(t *testing.T) {
	h := New()
	kept := h.NewString("kept")
	_ = h.NewString("garbage")
	if len(h.objects) != 2 {
		t.Fatalf("expected 2 live objects before collect, got %d", len(h.objects))
	}
	h.Collect([]Value{kept})
	if len(h.objects) != 1 {
		t.Fatalf("expected 1 live object after collect, got %d", len(h.objects))
	}
	s, ok := AsString(kept)
	if !ok || s != "kept" {
		t.Fatalf("surviving value corrupted: (%q,%v)", s, ok)
	}
}

func TestCollectTracesContainers(t *testing.T) {
	h := New()
	inner := h.NewString("inner")
	outer := h.NewTuple([]Value{inner})
	_ = h.NewString("garbage")

	h.Collect([]Value{outer})
	if len(h.objects) != 2 {
		t.Fatalf("expected tuple + inner string to survive, got %d objects", len(h.objects))
	}
	elems, ok := AsTuple(outer)
	if !ok || len(elems) != 1 {
		t.Fatalf("tuple corrupted after collect")
	}
	s, _ := AsString(elems[0])
	if s != "inner" {
		t.Fatalf("tuple element corrupted: %q", s)
	}
}

func TestFreezeRejectsFurtherMutation(t *testing.T) {
	h := New()
	d := h.NewDict()
	k := h.NewString("k")
	v := h.NewString("v")
	DictSet(d, k, v)

	_, frozen := Freeze(h, []Value{d})
	wide := frozen[0].Widen()

	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic mutating a frozen dict")
		}
	}()
	DictSet(wide, k, v)
}

func TestAllocationOverCapPanicsWithoutPartialState(t *testing.T) {
	h := New()
	h.NewString("room") // one object under the cap, to prove survivors are untouched
	before := len(h.objects)
	beforeBytes := h.bytesAllocated
	h.SetMaxBytes(h.bytesAllocated) // any further push must now exceed the cap

	panicked := func() (panicked bool) {
		defer func() {
			if recover() != nil {
				panicked = true
			}
		}()
		h.NewString("overflow")
		return false
	}()
	if !panicked {
		t.Fatalf("expected allocation past the byte cap to panic")
	}
	if len(h.objects) != before || h.bytesAllocated != beforeBytes {
		t.Fatalf("allocation failure left partial state: objects %d->%d, bytes %d->%d",
			before, len(h.objects), beforeBytes, h.bytesAllocated)
	}
}

func TestShouldCollectThreshold(t *testing.T) {
	h := New()
	if h.ShouldCollect() {
		t.Fatalf("empty heap should not need collection")
	}
	for i := 0; i < 100000; i++ {
		h.NewString("x")
	}
	if !h.ShouldCollect() {
		t.Fatalf("heavily allocated heap should signal collection is due")
	}
}
