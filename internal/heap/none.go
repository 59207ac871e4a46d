// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package heap

import "unsafe"

// The dialect's None needs a value distinguishable from both the
// reserved "unassigned slot" zero Value and from every in-word integer
// (so None != 0 the int). A singleton heap-allocated object is the
// simplest way to get a distinct, structurally-equal-only-to-itself
// value within the three tag bits §4.1 allots — no fourth tag bit is
// spent on it.
type noneObject struct{ objHeader }

// NewNone allocates a fresh None value in h. Callers that evaluate many
// None literals are expected to cache and reuse the first one they make
// (see eval.Evaluator), since every None compares Equal to every other
// None regardless of identity.
func (h *Heap) NewNone() Value {
	o := &noneObject{}
	o.kind = kindNone
	o.traceFn = func(unsafe.Pointer, *Tracer) {}
	o.hashFn = func(unsafe.Pointer) uint32 { return 0x4e6f6e65 } // "None"
	o.equalFn = func(a, b unsafe.Pointer) bool { return true }
	return h.push(unsafe.Pointer(o), false)
}

// IsNone reports whether v is the None value.
func IsNone(v Value) bool {
	p, ok := v.UnpackRef()
	return ok && header(p).kind == kindNone
}
