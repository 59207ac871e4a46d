// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package eval

import (
	"fmt"
	"strings"

	"golang.org/x/starlet/internal/heap"
	"golang.org/x/starlet/internal/syntax"
)

// ScopeErrorKind identifies one of the scope/value error conditions §7
// assigns to the core itself, as opposed to the parameter-binding errors
// arguments.BindError already covers.
type ScopeErrorKind int

const (
	LocalVariableReferencedBeforeAssignment ScopeErrorKind = iota
	CannotSetVariable
	MissingRequired
	IncorrectParameterTypeNamedWithExpected
)

func (k ScopeErrorKind) String() string {
	switch k {
	case LocalVariableReferencedBeforeAssignment:
		return "LocalVariableReferencedBeforeAssignment"
	case CannotSetVariable:
		return "CannotSetVariable"
	case MissingRequired:
		return "MissingRequired"
	case IncorrectParameterTypeNamedWithExpected:
		return "IncorrectParameterTypeNamedWithExpected"
	default:
		return "UnknownScopeError"
	}
}

// ScopeError is one of the core-raised errors listed in §7 that isn't a
// parameter-binding failure.
type ScopeError struct {
	Kind ScopeErrorKind
	Name string
}

func (e *ScopeError) Error() string {
	switch e.Kind {
	case LocalVariableReferencedBeforeAssignment:
		return fmt.Sprintf("local variable %q referenced before assignment", e.Name)
	case CannotSetVariable:
		return fmt.Sprintf("cannot set variable %q: module is frozen", e.Name)
	case MissingRequired:
		return fmt.Sprintf("missing required value %q", e.Name)
	case IncorrectParameterTypeNamedWithExpected:
		return fmt.Sprintf("incorrect type for parameter %q", e.Name)
	default:
		return e.Kind.String()
	}
}

// Annotation is one (span, call-stack-frame) pair accumulated as an error
// propagates outward (§6 "error surface", §7 "enriched with source span
// and call-stack snapshot").
type Annotation struct {
	Span  syntax.Span
	Frame string
}

// EvalError is the anyhow-style cause-plus-annotation-chain error type
// §7 calls for: fmt.Errorf("%w") chains carry the Go-idiomatic cause, and
// EvalError accumulates the (span, frame) trail on top as the error
// bubbles out through nested WithCallStack scopes, queryable with
// errors.As without needing a bespoke trait object the way the original
// implementation's `anyhow::Error` does.
type EvalError struct {
	Cause       error
	Annotations []Annotation // outermost call site last
}

// Annotate wraps err in an EvalError (or extends one already present),
// recording the frame active when the error crossed this call boundary.
func Annotate(err error, span syntax.Span, frame string) *EvalError {
	if ee, ok := err.(*EvalError); ok {
		ee.Annotations = append(ee.Annotations, Annotation{Span: span, Frame: frame})
		return ee
	}
	return &EvalError{Cause: err, Annotations: []Annotation{{Span: span, Frame: frame}}}
}

func (e *EvalError) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Cause.Error())
	for _, a := range e.Annotations {
		fmt.Fprintf(&sb, "\n\tat %s (%s)", a.Frame, a.Span)
	}
	return sb.String()
}

func (e *EvalError) Unwrap() error { return e.Cause }

// CheckRequired converts a bound slot's Value into T using unpack, the
// typed-extraction step §4.6/§7 layer on top of the parameter-binding
// helpers in package arguments: Bind (or Arguments.FusedPositional/Optional)
// only guarantees a Value is present, not that it has the Go type a native
// function actually wants. present should be the second result of
// ParameterParser.NextOptional (or true, for a slot fetched via Next, since
// Bind already guaranteed a Required slot is non-zero). It raises
// MissingRequired if the slot was never assigned, and
// IncorrectParameterTypeNamedWithExpected if unpack rejects the value.
func CheckRequired[T any](name string, v heap.Value, present bool, unpack func(heap.Value) (T, bool)) (T, error) {
	var zero T
	if !present {
		return zero, &ScopeError{Kind: MissingRequired, Name: name}
	}
	t, ok := unpack(v)
	if !ok {
		return zero, &ScopeError{Kind: IncorrectParameterTypeNamedWithExpected, Name: name}
	}
	return t, nil
}

// CheckOptional is CheckRequired for a parameter the caller may have
// omitted: a missing slot is not an error, it simply yields ok=false.
func CheckOptional[T any](name string, v heap.Value, present bool, unpack func(heap.Value) (T, bool)) (t T, ok bool, err error) {
	if !present {
		return t, false, nil
	}
	t, okUnpack := unpack(v)
	if !okUnpack {
		return t, false, &ScopeError{Kind: IncorrectParameterTypeNamedWithExpected, Name: name}
	}
	return t, true, nil
}
