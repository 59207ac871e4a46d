// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package heap implements the tagged value representation and the
// dual-heap memory model: a mutable, per-evaluation Heap and a sealed,
// shareable FrozenHeap.
package heap

import "unsafe"

// Value is a single machine word: either a small integer encoded entirely
// in-word, or a tagged pointer into a Heap or FrozenHeap. The low three
// bits carry the tag; every heap allocation is required to be 8-byte
// aligned so those bits are otherwise unused address bits (enforced by
// fromRef).
//
// This scheme requires a host word of at least 64 bits; init asserts it.
type Value uintptr

const (
	tagUnfrozen Value = 1 << 0 // referent lives in a mutable Heap
	tagInt      Value = 1 << 1 // upper bits are a signed 32-bit int, no allocation
	tagStr      Value = 1 << 2 // referent is a string object (no-dereference fast path)
	tagMask     Value = tagUnfrozen | tagInt | tagStr
)

func init() {
	if unsafe.Sizeof(Value(0)) < 8 {
		panic("package heap requires a host word of at least 64 bits")
	}
}

// FrozenValue is a Value statically known to carry a clear UNFROZEN bit.
// Every FrozenValue widens losslessly to a Value; a Value narrows to a
// FrozenValue only by checking IsUnfrozen first (see Widen and the
// Heap/FrozenHeap freeze boundary in frozenheap.go).
type FrozenValue Value

// Widen losslessly converts a FrozenValue to a Value. The referent's
// lifetime only ever grows by this conversion (the frozen heap that owns it
// outlives any Value wrapper), never shrinks, matching the covariance the
// spec requires of frozen references.
func (f FrozenValue) Widen() Value { return Value(f) }

// FromInt returns a Value holding i with no allocation. The 32-bit payload
// is shifted left three bits with the INT tag set; UnpackInt recovers it by
// an arithmetic right shift, which also strips the tag bits regardless of
// their value.
func FromInt(i int32) Value {
	return (Value(uintptr(int(i))) << 3) | tagInt
}

// IsInt reports whether v is an in-word integer.
func (v Value) IsInt() bool { return v&tagInt != 0 }

// UnpackInt returns v's integer payload, or ok=false if v is not an int.
func (v Value) UnpackInt() (i int32, ok bool) {
	if !v.IsInt() {
		return 0, false
	}
	return int32(int64(v) >> 3), true
}

// IsString reports whether v is a string object reference, without
// dereferencing it. Ints are never strings; the check is a single
// comparison on the tag bits the caller already has in a register.
func (v Value) IsString() bool { return v&(tagInt|tagStr) == tagStr }

// IsUnfrozen reports whether v's referent lives in a mutable Heap, again
// without dereferencing.
func (v Value) IsUnfrozen() bool { return v&tagInt == 0 && v&tagUnfrozen != 0 }

// pointer strips the tag bits, yielding the referent's real address.
func (v Value) pointer() unsafe.Pointer {
	return unsafe.Pointer(v &^ tagMask)
}

// UnpackRef returns the referent's address, or ok=false if v is an int.
func (v Value) UnpackRef() (unsafe.Pointer, bool) {
	if v.IsInt() {
		return nil, false
	}
	return v.pointer(), true
}

// PtrEq compares v and o as raw words: pointer/bit-pattern identity, not
// structural equality. Two distinct string objects with equal contents are
// not PtrEq; see Equal for structural comparison.
func (v Value) PtrEq(o Value) bool { return v == o }

// fromRef tags p, which must be 8-byte aligned, as a heap reference.
func fromRef(p unsafe.Pointer, unfrozen, isString bool) Value {
	v := Value(uintptr(p))
	if v&tagMask != 0 {
		panic("heap: object address is not 8-byte aligned")
	}
	if unfrozen {
		v |= tagUnfrozen
	}
	if isString {
		v |= tagStr
	}
	return v
}

// Hash returns v's canonical hash: structural for strings, numeric for
// ints, and dispatched to the referent's type descriptor otherwise. Two
// values that compare Equal always hash equally.
func (v Value) Hash() uint32 {
	if i, ok := v.UnpackInt(); ok {
		return hashInt(i)
	}
	return header(v.pointer()).hashFn(v.pointer())
}

// Equal reports whether v and o are structurally equal. There is no
// general object identity in this dialect: equality is always structural,
// dispatched through each referent's type descriptor.
func (v Value) Equal(o Value) bool {
	if vi, ok := v.UnpackInt(); ok {
		oi, ok := o.UnpackInt()
		return ok && vi == oi
	}
	if o.IsInt() {
		return false
	}
	vp, op := v.pointer(), o.pointer()
	vh, oh := header(vp), header(op)
	if vh.kind != oh.kind {
		return false
	}
	return vh.equalFn(vp, op)
}
