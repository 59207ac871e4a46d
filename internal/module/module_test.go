// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package module

import (
	"testing"

	"golang.org/x/starlet/internal/heap"
)

func TestSlotOfAllocatesOnceAndReuses(t *testing.T) {
	m := New("test")
	a := m.SlotOf("x")
	b := m.SlotOf("x")
	if a != b {
		t.Fatalf("SlotOf(x) = %d then %d, want same slot reused", a, b)
	}
	if m.NumSlots() != 1 {
		t.Fatalf("NumSlots = %d, want 1", m.NumSlots())
	}
}

func TestFreshSlotReadsUnassigned(t *testing.T) {
	m := New("test")
	i := m.SlotOf("x")
	if v := m.Get(i); v != heap.Value(0) {
		t.Fatalf("fresh slot = %v, want unassigned (zero Value)", v)
	}
}

func TestSetThenLookup(t *testing.T) {
	h := heap.New()
	m := New("test")
	i := m.SlotOf("x")
	m.Set(i, heap.FromInt(42))
	v, ok := m.Lookup("x")
	if !ok {
		t.Fatalf("Lookup(x) not found")
	}
	if got, _ := v.UnpackInt(); got != 42 {
		t.Fatalf("x = %d, want 42", got)
	}
	_ = h
}

func TestSetOnFrozenModulePanics(t *testing.T) {
	h := heap.New()
	m := New("test")
	i := m.SlotOf("x")
	m.Set(i, heap.FromInt(1))
	m.FreezeWith(h)

	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic from Set on a frozen module")
		}
	}()
	m.Set(i, heap.FromInt(2))
}

func TestFreezePreservesValues(t *testing.T) {
	h := heap.New()
	m := New("test")
	i := m.SlotOf("greeting")
	m.Set(i, h.NewString("hello"))

	m.FreezeWith(h)
	if !m.IsFrozen() {
		t.Fatalf("expected IsFrozen after FreezeWith")
	}
	v, ok := m.Lookup("greeting")
	if !ok {
		t.Fatalf("greeting not found after freeze")
	}
	s, ok := heap.AsString(v)
	if !ok || s != "hello" {
		t.Fatalf("greeting = %q, want %q", s, "hello")
	}
}

func TestGlobalsBuilder(t *testing.T) {
	b := NewGlobalsBuilder()
	b.Set("PI_TIMES_100", heap.FromInt(314))
	b.Set("NAME", b.Heap().NewString("starlet"))
	g := b.Build()

	v, ok := g.Lookup("PI_TIMES_100")
	if !ok {
		t.Fatalf("PI_TIMES_100 not found")
	}
	if i, _ := v.Widen().UnpackInt(); i != 314 {
		t.Fatalf("PI_TIMES_100 = %d, want 314", i)
	}

	if _, ok := g.Lookup("MISSING"); ok {
		t.Fatalf("MISSING unexpectedly found")
	}
}

func TestNamesIterationIsDeclarationOrder(t *testing.T) {
	m := New("test")
	m.SlotOf("c")
	m.SlotOf("a")
	m.SlotOf("b")

	var order []string
	m.Names(func(name string, slot int) bool {
		order = append(order, name)
		return true
	})
	want := []string{"c", "a", "b"}
	if len(order) != len(want) {
		t.Fatalf("got %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("got %v, want %v", order, want)
		}
	}
}
