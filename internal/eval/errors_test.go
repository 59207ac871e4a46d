// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package eval

import (
	"testing"

	"golang.org/x/starlet/internal/heap"
)

func TestCheckRequiredMissing(t *testing.T) {
	_, err := CheckRequired("n", heap.Value(0), false, heap.Value.UnpackInt)
	se, ok := err.(*ScopeError)
	if !ok || se.Kind != MissingRequired || se.Name != "n" {
		t.Fatalf("got %v, want MissingRequired(n)", err)
	}
}

func TestCheckRequiredWrongType(t *testing.T) {
	h := heap.New()
	_, err := CheckRequired("n", h.NewString("not an int"), true, heap.Value.UnpackInt)
	se, ok := err.(*ScopeError)
	if !ok || se.Kind != IncorrectParameterTypeNamedWithExpected || se.Name != "n" {
		t.Fatalf("got %v, want IncorrectParameterTypeNamedWithExpected(n)", err)
	}
}

func TestCheckRequiredOK(t *testing.T) {
	n, err := CheckRequired("n", heap.FromInt(7), true, heap.Value.UnpackInt)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 7 {
		t.Fatalf("got %d, want 7", n)
	}
}

func TestCheckOptionalAbsentIsNotAnError(t *testing.T) {
	_, ok, err := CheckOptional("n", heap.Value(0), false, heap.Value.UnpackInt)
	if err != nil || ok {
		t.Fatalf("got (ok=%v, err=%v), want (false, nil)", ok, err)
	}
}

func TestCheckOptionalWrongType(t *testing.T) {
	h := heap.New()
	_, _, err := CheckOptional("n", h.NewString("nope"), true, heap.Value.UnpackInt)
	se, ok := err.(*ScopeError)
	if !ok || se.Kind != IncorrectParameterTypeNamedWithExpected {
		t.Fatalf("got %v, want IncorrectParameterTypeNamedWithExpected", err)
	}
}
