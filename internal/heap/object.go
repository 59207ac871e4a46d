// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package heap

import (
	"unsafe"

	"golang.org/x/starlet/internal/collections"
)

// kind identifies an object's concrete type without a dereference beyond
// the header itself; used to short-circuit Equal across mismatched types.
type kind uint8

const (
	kindString kind = iota
	kindTuple
	kindList
	kindDict
	kindFunction
	kindNone
)

// objHeader is embedded as the first field of every heap object. Because it
// is always at offset zero, a bare object address can be reinterpreted as
// *objHeader without knowing the concrete type, giving the GC mark bit and
// the type's trace/hash/equal descriptors a uniform access path. The
// descriptors themselves are ordinary Go func values (closures formed over
// the exact concrete type at construction time) — only the address
// arithmetic that finds the header is unsafe; everything it points to is a
// normal, GC-scanned Go allocation.
type objHeader struct {
	kind    kind
	marked  bool
	traceFn func(self unsafe.Pointer, t *Tracer)
	hashFn  func(self unsafe.Pointer) uint32
	equalFn func(a, b unsafe.Pointer) bool
}

func header(p unsafe.Pointer) *objHeader { return (*objHeader)(p) }

func hashInt(i int32) uint32 { return collections.HashUint32(uint32(i)) }

// --- string ---

type stringObject struct {
	objHeader
	s string
}

// NewString allocates s in h and returns the tagged Value for it.
func (h *Heap) NewString(s string) Value {
	o := &stringObject{s: s}
	o.kind = kindString
	o.traceFn = func(unsafe.Pointer, *Tracer) {}
	o.hashFn = func(self unsafe.Pointer) uint32 {
		return collections.HashString((*stringObject)(self).s)
	}
	o.equalFn = func(a, b unsafe.Pointer) bool {
		return (*stringObject)(a).s == (*stringObject)(b).s
	}
	return h.push(unsafe.Pointer(o), true)
}

// AsString returns the Go string underlying v, or ok=false if v is not a
// string value.
func AsString(v Value) (string, bool) {
	if !v.IsString() {
		return "", false
	}
	return (*stringObject)(v.pointer()).s, true
}

// --- tuple ---

type tupleObject struct {
	objHeader
	elems []Value
}

// NewTuple allocates an immutable fixed-length sequence in h.
func (h *Heap) NewTuple(elems []Value) Value {
	o := &tupleObject{elems: elems}
	initSequenceHeader(&o.objHeader, kindTuple, func(self unsafe.Pointer) []Value {
		return (*tupleObject)(self).elems
	})
	return h.push(unsafe.Pointer(o), false)
}

// AsTuple returns the elements of v, or ok=false if v is not a tuple.
func AsTuple(v Value) ([]Value, bool) {
	p, ok := v.UnpackRef()
	if !ok || header(p).kind != kindTuple {
		return nil, false
	}
	return (*tupleObject)(p).elems, true
}

// --- list ---

type listObject struct {
	objHeader
	elems []Value
}

// NewList allocates a mutable sequence in h.
func (h *Heap) NewList(elems []Value) Value {
	o := &listObject{elems: elems}
	initSequenceHeader(&o.objHeader, kindList, func(self unsafe.Pointer) []Value {
		return (*listObject)(self).elems
	})
	return h.push(unsafe.Pointer(o), false)
}

// AsList returns the elements of v, or ok=false if v is not a list.
func AsList(v Value) ([]Value, bool) {
	p, ok := v.UnpackRef()
	if !ok || header(p).kind != kindList {
		return nil, false
	}
	return (*listObject)(p).elems, true
}

// ListAppend appends elem to the list v. It panics if v is frozen; the
// caller (the evaluator) is expected to check IsUnfrozen before emitting a
// mutating bytecode against a value that might have been captured from a
// frozen module.
func ListAppend(v Value, elem Value) {
	p, ok := v.UnpackRef()
	if !ok || header(p).kind != kindList {
		panic("heap: ListAppend on a non-list value")
	}
	if isFrozen(p) {
		panic("heap: cannot mutate a frozen list")
	}
	lo := (*listObject)(p)
	lo.elems = append(lo.elems, elem)
}

func initSequenceHeader(h *objHeader, k kind, elemsOf func(unsafe.Pointer) []Value) {
	h.kind = k
	h.traceFn = func(self unsafe.Pointer, t *Tracer) {
		for _, v := range elemsOf(self) {
			t.Visit(v)
		}
	}
	h.hashFn = func(self unsafe.Pointer) uint32 {
		var hash uint32
		for _, v := range elemsOf(self) {
			hash = hash*33 + v.Hash()
		}
		return hash
	}
	h.equalFn = func(a, b unsafe.Pointer) bool {
		ae, be := elemsOf(a), elemsOf(b)
		if len(ae) != len(be) {
			return false
		}
		for i := range ae {
			if !ae[i].Equal(be[i]) {
				return false
			}
		}
		return true
	}
}

// --- dict ---

// valueKey adapts Value to collections.Hashable so the script-visible dict
// can be backed directly by SmallMap.
type valueKey Value

func (k valueKey) Hash() uint32          { return Value(k).Hash() }
func (k valueKey) Equal(o valueKey) bool { return Value(k).Equal(Value(o)) }

type dictObject struct {
	objHeader
	m *collections.SmallMap[valueKey, Value]
}

// NewDict allocates a mutable, insertion-ordered dict in h.
func (h *Heap) NewDict() Value {
	o := &dictObject{m: collections.New[valueKey, Value]()}
	o.kind = kindDict
	o.traceFn = func(self unsafe.Pointer, t *Tracer) {
		d := (*dictObject)(self)
		d.m.Iter(func(k valueKey, v Value) bool {
			t.Visit(Value(k))
			t.Visit(v)
			return true
		})
	}
	o.hashFn = func(self unsafe.Pointer) uint32 {
		return collections.Hash((*dictObject)(self).m)
	}
	o.equalFn = func(a, b unsafe.Pointer) bool {
		return collections.Equal((*dictObject)(a).m, (*dictObject)(b).m)
	}
	return h.push(unsafe.Pointer(o), false)
}

// asDict returns the SmallMap backing v, or ok=false if v is not a dict.
// Unexported because valueKey is: callers outside this package use
// IsDict/DictLen/DictIter/DictGet/DictSet instead.
func asDict(v Value) (*collections.SmallMap[valueKey, Value], bool) {
	p, ok := v.UnpackRef()
	if !ok || header(p).kind != kindDict {
		return nil, false
	}
	return (*dictObject)(p).m, true
}

// IsDict reports whether v is a dict value.
func IsDict(v Value) bool {
	p, ok := v.UnpackRef()
	return ok && header(p).kind == kindDict
}

// DictLen returns the number of entries in the dict v, or 0 if v is not a
// dict.
func DictLen(v Value) int {
	m, ok := asDict(v)
	if !ok {
		return 0
	}
	return m.Len()
}

// DictIter calls fn for each (key, value) pair of the dict v in insertion
// order, stopping early if fn returns false. It is a no-op if v is not a
// dict.
func DictIter(v Value, fn func(key, val Value) bool) {
	m, ok := asDict(v)
	if !ok {
		return
	}
	m.Iter(func(k valueKey, val Value) bool {
		return fn(Value(k), val)
	})
}

// DictSet inserts key=val into the dict v, keyed by key's own structural
// hash and equality. It panics if v is frozen.
func DictSet(v Value, key, val Value) {
	p, ok := v.UnpackRef()
	if !ok || header(p).kind != kindDict {
		panic("heap: DictSet on a non-dict value")
	}
	if isFrozen(p) {
		panic("heap: cannot mutate a frozen dict")
	}
	(*dictObject)(p).m.InsertHashed(collections.NewHashedKey(valueKey(key)), val)
}

// DictGet looks up key in the dict v.
func DictGet(v Value, key Value) (Value, bool) {
	m, ok := asDict(v)
	if !ok {
		return Value(0), false
	}
	return m.GetHashed(key.Hash(), valueKey(key))
}
