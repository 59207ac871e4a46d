// Copyright 2019 The Starlark in Rust Authors.
// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package arguments implements the call-site binding protocol: mapping a
// caller's positional, named, *args, and **kwargs arguments onto a
// callee's declared parameter slots.
package arguments

import (
	"strings"

	"golang.org/x/starlet/internal/collections"
	"golang.org/x/starlet/internal/heap"
)

// ParamKind classifies a single declared parameter.
type ParamKind int

const (
	Required ParamKind = iota
	Optional
	Defaulted
	Args   // *args
	KWargs // **kwargs
)

// Param describes one declared parameter, in the callee's declaration
// order.
type Param struct {
	Name    string
	Kind    ParamKind
	Default heap.Value // valid only when Kind == Defaulted
}

// positionOnly reports whether p was declared with a "$" prefix — callers
// may not pass it by name, and the prefix is stripped for display.
func (p Param) positionOnly() bool { return strings.HasPrefix(p.Name, "$") }

// DisplayName strips the position-only "$" marker, if present.
func (p Param) DisplayName() string { return strings.TrimPrefix(p.Name, "$") }

// ParameterSpec is built once per callee from its declared parameter list
// and describes how Bind should map a call site's Arguments onto the
// callee's slot array.
type ParameterSpec struct {
	Signature string // for diagnostics, e.g. "f(a, b=2, *args, **kwargs)"
	params    []Param

	positional  int // count of parameters fillable positionally
	argsIndex   int // -1 if the callee takes no *args
	kwargsIndex int // -1 if the callee takes no **kwargs
	names       *collections.SmallMap[collections.StringKey, int]

	// hasThis restores the original implementation's bound-receiver slot
	// (see original_source/starlark/src/eval/runtime/arguments.rs): a
	// method call binds its receiver separately from the positional
	// arguments, and a call missing it raises MissingThis (§7) — a path
	// otherwise unreachable from ParameterSpec alone.
	hasThis bool
}

// NewParameterSpec builds a ParameterSpec from params, in declaration
// order. hasThis marks the callee as a bound method expecting a receiver.
func NewParameterSpec(signature string, hasThis bool, params []Param) *ParameterSpec {
	spec := &ParameterSpec{
		Signature:   signature,
		params:      params,
		argsIndex:   -1,
		kwargsIndex: -1,
		names:       collections.New[collections.StringKey, int](),
		hasThis:     hasThis,
	}
	noMorePositional := false
	for i, p := range params {
		switch p.Kind {
		case Args:
			spec.argsIndex = i
			noMorePositional = true
		case KWargs:
			spec.kwargsIndex = i
			noMorePositional = true
		default:
			if !noMorePositional {
				spec.positional = i + 1
			}
		}
		if !p.positionOnly() && p.Kind != Args && p.Kind != KWargs {
			spec.names.Insert(collections.StringKey(p.Name), i)
		}
	}
	return spec
}

// NumSlots returns the number of declared parameter slots (the length of
// the slot array Bind fills).
func (spec *ParameterSpec) NumSlots() int { return len(spec.params) }

// Param returns the i'th declared parameter.
func (spec *ParameterSpec) Param(i int) Param { return spec.params[i] }
