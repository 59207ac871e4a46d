// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package arguments

import (
	"golang.org/x/starlet/internal/collections"
	"golang.org/x/starlet/internal/heap"
)

// ParameterParser is the callee-side cursor over a bound slot array (§4.5,
// "parser side"): a native function body calls Next/NextOptional in the
// same order it declared its ParameterSpec, so the two stay in lockstep by
// construction rather than by parallel bookkeeping.
type ParameterParser struct {
	spec  *ParameterSpec
	slots []heap.Value
	pos   int
}

// NewParameterParser returns a cursor over slots, which must be the
// output of a prior successful spec.Bind.
func NewParameterParser(spec *ParameterSpec, slots []heap.Value) *ParameterParser {
	return &ParameterParser{spec: spec, slots: slots}
}

// Next returns the next slot's value. It panics if called more times than
// the callee declared parameters — a programming error in the native
// function, not a user-facing one, since Bind already guaranteed every
// Required slot is non-zero.
func (p *ParameterParser) Next() heap.Value {
	v := p.slots[p.pos]
	p.pos++
	return v
}

// NextOptional returns the next slot's value and whether it was ever
// assigned (by the caller or by a declared default); ok is false only for
// an Optional parameter the caller omitted and that has no default.
func (p *ParameterParser) NextOptional() (heap.Value, bool) {
	v := p.slots[p.pos]
	p.pos++
	return v, v != heap.Value(0)
}

// fusedPositional concatenates call's plain positional arguments with its
// *args splat (if any), the zero-copy "fusing" §4.6 calls for: a native
// function that only cares about positional arguments shouldn't have to
// know whether the caller wrote them literally or passed them via *args.
// Named arguments and **kwargs are ignored entirely — these helpers are
// for natives that take only positional parameters.
func (call *Arguments) fusedPositional() ([]heap.Value, *BindError) {
	if !call.HasArgs {
		return call.Positional, nil
	}
	elems, ok := splatElems(call.Args)
	if !ok {
		return nil, &BindError{Kind: ArgsArrayIsNotIterable}
	}
	fused := make([]heap.Value, 0, len(call.Positional)+len(elems))
	fused = append(fused, call.Positional...)
	fused = append(fused, elems...)
	return fused, nil
}

// FusedPositional extracts exactly n positional arguments from call (§4.6's
// positional<N>()), fusing any *args splat into the count, and fails with
// WrongNumberOfParameters if the fused count isn't exactly n. It is the
// zero-copy shortcut §4.6 describes for native functions with a fixed
// positional-only signature — no ParameterSpec/Bind round trip needed.
// Named "Fused", not "Positional", because Arguments already has a
// Positional field holding the caller's literal (unfused) positional list.
func (call *Arguments) FusedPositional(n int) ([]heap.Value, *BindError) {
	fused, err := call.fusedPositional()
	if err != nil {
		return nil, err
	}
	if len(fused) != n {
		return nil, &BindError{Kind: WrongNumberOfParameters, Count: len(fused), Min: n, Max: n}
	}
	return fused, nil
}

// Optional extracts exactly nRequired positional arguments followed by up
// to nOptional more, fusing *args the same way FusedPositional does. The
// returned slice always has length nRequired+nOptional; slots beyond what
// the caller actually supplied are the zero Value (see NextOptional's
// v != heap.Value(0) convention). Fails with WrongNumberOfParameters if the
// fused count falls outside [nRequired, nRequired+nOptional].
func (call *Arguments) Optional(nRequired, nOptional int) ([]heap.Value, *BindError) {
	fused, err := call.fusedPositional()
	if err != nil {
		return nil, err
	}
	if len(fused) < nRequired || len(fused) > nRequired+nOptional {
		return nil, &BindError{Kind: WrongNumberOfParameters, Count: len(fused), Min: nRequired, Max: nRequired + nOptional}
	}
	out := make([]heap.Value, nRequired+nOptional)
	copy(out, fused)
	return out, nil
}

// NamesMap collapses call's named arguments and **kwargs splat into a
// single SmallMap, named arguments first (call-site order) and then
// **kwargs entries, in the iteration order §4.6 requires. A key present in
// both, or twice within **kwargs, raises RepeatedParameter; a non-string
// **kwargs key raises ArgsValueIsNotString.
func (call *Arguments) NamesMap() (*collections.SmallMap[collections.StringKey, heap.Value], *BindError) {
	result := collections.New[collections.StringKey, heap.Value]()
	for i, name := range call.Names {
		key := collections.StringKey(name)
		if _, exists := result.Get(key); exists {
			return nil, &BindError{Kind: RepeatedParameter, Name: name}
		}
		result.Insert(key, call.Named[i])
	}
	if call.HasKWargs {
		if !heap.IsDict(call.KWargs) {
			return nil, &BindError{Kind: KwArgsIsNotDict}
		}
		var bindErr *BindError
		heap.DictIter(call.KWargs, func(k, v heap.Value) bool {
			name, ok := heap.AsString(k)
			if !ok {
				bindErr = &BindError{Kind: ArgsValueIsNotString}
				return false
			}
			key := collections.StringKey(name)
			if _, exists := result.Get(key); exists {
				bindErr = &BindError{Kind: RepeatedParameter, Name: name}
				return false
			}
			result.Insert(key, v)
			return true
		})
		if bindErr != nil {
			return nil, bindErr
		}
	}
	return result, nil
}

// ParamNames exposes the compiled name→slot table, for diagnostics and for
// the evaluator's own introspection builtins (e.g. a "dir"-style listing
// of a function's declared parameters). Unlike Arguments.NamesMap (§4.6,
// the call-site binder), this describes a callee's declared signature, not
// a particular call's arguments.
func (spec *ParameterSpec) ParamNames() func(func(name string, slot int) bool) {
	return func(yield func(string, int) bool) {
		for i, p := range spec.params {
			if p.Kind == Args || p.Kind == KWargs || p.positionOnly() {
				continue
			}
			if !yield(p.DisplayName(), i) {
				return
			}
		}
	}
}

// NoNamedArgs reports whether call supplied no named arguments and no
// **kwargs splat — the precondition a native function can check up front to skip the general
// binder entirely when it knows its own signature takes only positional
// parameters.
func NoNamedArgs(call *Arguments) bool {
	return len(call.Named) == 0 && !call.HasKWargs
}
