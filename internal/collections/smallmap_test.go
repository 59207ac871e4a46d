// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package collections

import "testing"

type strKey string

func (s strKey) Hash() uint32          { return HashString(string(s)) }
func (s strKey) Equal(o strKey) bool   { return s == o }

type intVal int

func (v intVal) Equal(o intVal) bool { return v == o }
func (v intVal) Hash() uint32        { return HashUint32(uint32(v)) }

func TestSmallMapInsertionOrder(t *testing.T) {
	m := New[strKey, intVal]()
	for i := 0; i < 20; i++ {
		if _, had := m.Insert(strKey(rune('a'+i)), intVal(i)); had {
			t.Fatalf("unexpected duplicate at %d", i)
		}
	}
	if m.Len() != 20 {
		t.Fatalf("len = %d, want 20", m.Len())
	}
	i := 0
	m.Iter(func(k strKey, v intVal) bool {
		if v != intVal(i) {
			t.Fatalf("entry %d: got %v, want %v", i, v, i)
		}
		i++
		return true
	})
}

func TestSmallMapReplacePreservesPosition(t *testing.T) {
	m := New[strKey, intVal]()
	m.Insert("a", 1)
	m.Insert("b", 2)
	m.Insert("c", 3)
	prev, had := m.Insert("b", 20)
	if !had || prev != 2 {
		t.Fatalf("Insert(b,20) = (%v,%v), want (2,true)", prev, had)
	}
	var keys []strKey
	m.Iter(func(k strKey, v intVal) bool {
		keys = append(keys, k)
		return true
	})
	want := []strKey{"a", "b", "c"}
	for i, k := range want {
		if keys[i] != k {
			t.Fatalf("keys = %v, want %v", keys, want)
		}
	}
	if v, _ := m.Get("b"); v != 20 {
		t.Fatalf("Get(b) = %v, want 20", v)
	}
}

// TestSmallMapIndexTransition is scenario S5 from the spec: insert keys
// 0..20, remove 5, and check iteration order, length, and lookups.
func TestSmallMapIndexTransition(t *testing.T) {
	m := New[strKey, intVal]()
	for i := 0; i < 20; i++ {
		m.Insert(strKey(rune('A'+i)), intVal(i))
	}
	if !m.indexed() {
		t.Fatalf("map with 20 entries should be indexed")
	}
	m.Remove(strKey(rune('A' + 5)))
	if m.Len() != 19 {
		t.Fatalf("len = %d, want 19", m.Len())
	}
	if _, ok := m.Get(strKey(rune('A' + 5))); ok {
		t.Fatalf("key 5 should be gone")
	}
	if v, ok := m.Get(strKey(rune('A' + 6))); !ok || v != 6 {
		t.Fatalf("Get(6) = (%v,%v), want (6,true)", v, ok)
	}
	var order []intVal
	m.Iter(func(k strKey, v intVal) bool {
		order = append(order, v)
		return true
	})
	want := []int{0, 1, 2, 3, 4, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19}
	if len(order) != len(want) {
		t.Fatalf("order len = %d, want %d", len(order), len(want))
	}
	for i, w := range want {
		if int(order[i]) != w {
			t.Fatalf("order[%d] = %d, want %d", i, order[i], w)
		}
	}
}

func TestSmallMapIndexPresenceThreshold(t *testing.T) {
	m := New[strKey, intVal]()
	for i := 0; i < indexThreshold; i++ {
		m.Insert(strKey(rune('a'+i)), intVal(i))
	}
	if m.indexed() {
		t.Fatalf("map with %d entries should not be indexed", indexThreshold)
	}
	m.Insert(strKey(rune('a'+indexThreshold)), intVal(indexThreshold))
	if !m.indexed() {
		t.Fatalf("map with %d entries should be indexed", indexThreshold+1)
	}
}

func TestSmallMapClearRetainsIndexAllocation(t *testing.T) {
	m := New[strKey, intVal]()
	for i := 0; i < 20; i++ {
		m.Insert(strKey(rune('a'+i)), intVal(i))
	}
	idxCap := cap(m.index)
	m.Clear()
	if m.Len() != 0 {
		t.Fatalf("len after clear = %d, want 0", m.Len())
	}
	if cap(m.index) != idxCap {
		t.Fatalf("index allocation not retained across clear")
	}
}

func TestSmallMapEqualAndHashCommutative(t *testing.T) {
	a := New[strKey, intVal]()
	a.Insert("x", 1)
	a.Insert("y", 2)

	b := New[strKey, intVal]()
	b.Insert("y", 2)
	b.Insert("x", 1)

	if !Equal(a, b) {
		t.Fatalf("maps with same entries in different order should be equal")
	}
	if Hash(a) != Hash(b) {
		t.Fatalf("equal maps should hash equally: %d != %d", Hash(a), Hash(b))
	}

	b.Insert("z", 3)
	if Equal(a, b) {
		t.Fatalf("maps with different entries should not be equal")
	}
}

func TestHashedKeyConsistency(t *testing.T) {
	k := strKey("hello")
	hk := NewHashedKey(k)
	if hk.Hash() != k.Hash() {
		t.Fatalf("HashedKey hash %d != key hash %d", hk.Hash(), k.Hash())
	}
	bk := NewBorrowedKey(&k)
	if bk.Hash() != k.Hash() || bk.Key() != k {
		t.Fatalf("BorrowedKey inconsistent with key")
	}
}
