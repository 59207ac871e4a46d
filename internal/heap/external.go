// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package heap

import "unsafe"

// externalObject lets a higher-level package (the compiler, the
// evaluator) store an arbitrary Go value on the heap — notably compiled
// function values — without heap itself needing to import that package.
// heap only ever sees payload through the three callbacks the creator
// supplies at NewExternal time; it has no idea what kindFunction actually
// contains.
type externalObject struct {
	objHeader
	payload interface{}
}

// NewExternal allocates payload as an opaque heap object. traceFn is
// called during Collect to visit any heap.Values payload holds (e.g. a
// captured module environment); hashFn/equalFn back Value.Hash/Equal the
// same way every other object kind does.
func (h *Heap) NewExternal(
	payload interface{},
	traceFn func(interface{}, *Tracer),
	hashFn func(interface{}) uint32,
	equalFn func(a, b interface{}) bool,
) Value {
	o := &externalObject{payload: payload}
	o.kind = kindFunction
	o.traceFn = func(self unsafe.Pointer, t *Tracer) {
		traceFn((*externalObject)(self).payload, t)
	}
	o.hashFn = func(self unsafe.Pointer) uint32 {
		return hashFn((*externalObject)(self).payload)
	}
	o.equalFn = func(a, b unsafe.Pointer) bool {
		return equalFn((*externalObject)(a).payload, (*externalObject)(b).payload)
	}
	return h.push(unsafe.Pointer(o), false)
}

// AsExternal returns the payload stored by NewExternal, or ok=false if v
// is not an external object.
func AsExternal(v Value) (interface{}, bool) {
	p, ok := v.UnpackRef()
	if !ok || header(p).kind != kindFunction {
		return nil, false
	}
	return (*externalObject)(p).payload, true
}
