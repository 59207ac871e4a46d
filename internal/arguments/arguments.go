// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package arguments

import (
	"golang.org/x/starlet/internal/collections"
	"golang.org/x/starlet/internal/heap"
)

// Arguments is a single call site's raw argument bundle, as assembled by the
// evaluator from a call expression before any binding to a particular
// callee's ParameterSpec has happened. Positional and Named are parallel
// to the call-site order; Args and KWargs carry the optional splatted
// forms. This is the protocol's caller side — see ParameterSpec.Bind for
// the callee side.
type Arguments struct {
	This       heap.Value // bound receiver, if the call is a method call
	HasThis    bool
	Positional []heap.Value
	Names      []string
	Named      []heap.Value // Named[i] is the value for Names[i]
	Args       heap.Value   // the *args value, if HasArgs
	HasArgs    bool
	KWargs     heap.Value // the **kwargs value, if HasKWargs
	HasKWargs  bool
}

// Bind maps call into the slot array a callee declared via spec, applying
// the eight-step algorithm of §4.5: positional fill, named fill, *args
// splat, the repeated-parameter collision check, **kwargs splat, default
// and required-parameter resolution, and finally materializing the
// callee's own *args/**kwargs slots (if it declared any) from whatever
// overflowed. slots must have length spec.NumSlots() and start zeroed;
// on error the slots written so far are left in place (the caller is
// expected to discard the whole frame on error, per the Arena scoping
// discipline in package frame).
func (spec *ParameterSpec) Bind(h *heap.Heap, call *Arguments, slots []heap.Value) *BindError {
	if spec.hasThis && !call.HasThis {
		return &BindError{Kind: MissingThis, Signature: spec.Signature}
	}

	// Step 1: fast path. Every declared parameter is plain positional, the
	// call supplies exactly that many positional arguments and nothing
	// else — copy straight across.
	if spec.argsIndex < 0 && spec.kwargsIndex < 0 &&
		spec.positional == len(spec.params) &&
		len(call.Positional) == spec.positional &&
		len(call.Named) == 0 && !call.HasArgs && !call.HasKWargs {
		copy(slots, call.Positional)
		return nil
	}

	var starArgsBuf []heap.Value
	var kwargsBuf *collections.SmallMap[collections.StringKey, heap.Value]

	// Step 2: positional arguments fill slots [0, spec.positional); any
	// overflow accumulates into the callee's *args.
	fillCount := 0
	for _, v := range call.Positional {
		if fillCount < spec.positional {
			slots[fillCount] = v
			fillCount++
		} else {
			starArgsBuf = append(starArgsBuf, v)
		}
	}

	// Step 3: named arguments at the call site resolve against the
	// callee's declared names, or buffer for the callee's **kwargs.
	lowestNamed := len(spec.params)
	for i, name := range call.Names {
		val := call.Named[i]
		if slot, ok := spec.names.Get(collections.StringKey(name)); ok {
			slots[slot] = val
			if slot < lowestNamed {
				lowestNamed = slot
			}
		} else {
			if kwargsBuf == nil {
				kwargsBuf = collections.New[collections.StringKey, heap.Value]()
			}
			kwargsBuf.Insert(collections.StringKey(name), val)
		}
	}

	// Step 4: the call site's own *args splat continues the positional
	// fill exactly as if its elements had been written literally.
	if call.HasArgs {
		elems, ok := splatElems(call.Args)
		if !ok {
			return &BindError{Kind: ArgsArrayIsNotIterable, Signature: spec.Signature}
		}
		for _, v := range elems {
			if fillCount < spec.positional {
				slots[fillCount] = v
				fillCount++
			} else {
				starArgsBuf = append(starArgsBuf, v)
			}
		}
	}

	// Step 5: a positional fill that reached past the lowest slot a named
	// argument already claimed is a collision — the same parameter would
	// be written twice.
	if fillCount > lowestNamed {
		return &BindError{Kind: RepeatedParameter, Signature: spec.Signature, Name: spec.params[lowestNamed].DisplayName()}
	}

	// Step 6: the call site's own **kwargs splat resolves against the
	// callee's declared names exactly like step 3, or buffers.
	if call.HasKWargs {
		if !heap.IsDict(call.KWargs) {
			return &BindError{Kind: KwArgsIsNotDict, Signature: spec.Signature}
		}
		var bindErr *BindError
		heap.DictIter(call.KWargs, func(k, v heap.Value) bool {
			name, ok := heap.AsString(k)
			if !ok {
				bindErr = &BindError{Kind: ArgsValueIsNotString, Signature: spec.Signature}
				return false
			}
			if slot, ok := spec.names.Get(collections.StringKey(name)); ok {
				if slots[slot] != heap.Value(0) {
					bindErr = &BindError{Kind: RepeatedParameter, Signature: spec.Signature, Name: spec.params[slot].DisplayName()}
					return false
				}
				slots[slot] = v
			} else {
				if kwargsBuf == nil {
					kwargsBuf = collections.New[collections.StringKey, heap.Value]()
				}
				if _, exists := kwargsBuf.Get(collections.StringKey(name)); exists {
					bindErr = &BindError{Kind: RepeatedParameter, Signature: spec.Signature, Name: name}
					return false
				}
				kwargsBuf.Insert(collections.StringKey(name), v)
			}
			return true
		})
		if bindErr != nil {
			return bindErr
		}
	}

	// Step 7: anything still unfilled falls back to its default, or is an
	// error if required.
	for i, p := range spec.params {
		if p.Kind == Args || p.Kind == KWargs {
			continue
		}
		if slots[i] != heap.Value(0) {
			continue
		}
		switch p.Kind {
		case Defaulted:
			slots[i] = p.Default
		case Required:
			return &BindError{Kind: MissingParameter, Signature: spec.Signature, Name: p.DisplayName()}
		}
	}

	// Step 8: materialize the callee's own variadic slots from whatever
	// overflowed, or reject the overflow if the callee declared none.
	if spec.argsIndex >= 0 {
		slots[spec.argsIndex] = h.NewTuple(starArgsBuf)
	} else if len(starArgsBuf) > 0 {
		return &BindError{Kind: ExtraPositionalParameters, Signature: spec.Signature, Count: len(starArgsBuf)}
	}
	if spec.kwargsIndex >= 0 {
		d := h.NewDict()
		if kwargsBuf != nil {
			kwargsBuf.Iter(func(k collections.StringKey, v heap.Value) bool {
				heap.DictSet(d, h.NewString(string(k)), v)
				return true
			})
		}
		slots[spec.kwargsIndex] = d
	} else if kwargsBuf != nil && !kwargsBuf.IsEmpty() {
		name, _ := kwargsBuf.At(0)
		return &BindError{Kind: ExtraNamedParameters, Signature: spec.Signature, Name: string(name)}
	}

	return nil
}

// splatElems returns the elements of a value that may stand in for a
// callee's *args splat: a tuple or a list. Any other kind fails the
// ArgsArrayIsNotIterable check (§7).
func splatElems(v heap.Value) ([]heap.Value, bool) {
	if elems, ok := heap.AsTuple(v); ok {
		return elems, true
	}
	if elems, ok := heap.AsList(v); ok {
		return elems, true
	}
	return nil, false
}
