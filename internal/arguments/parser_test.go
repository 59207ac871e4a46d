// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package arguments

import (
	"testing"

	"golang.org/x/starlet/internal/heap"
)

func TestPositionalExact(t *testing.T) {
	call := &Arguments{Positional: []heap.Value{heap.FromInt(1), heap.FromInt(2)}}
	got, err := call.FusedPositional(2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mustInt(t, got[0]) != 1 || mustInt(t, got[1]) != 2 {
		t.Fatalf("got %v, want [1, 2]", got)
	}
}

func TestPositionalFusesStarArgs(t *testing.T) {
	h := heap.New()
	tup := h.NewTuple([]heap.Value{heap.FromInt(3), heap.FromInt(4)})
	call := &Arguments{
		Positional: []heap.Value{heap.FromInt(1), heap.FromInt(2)},
		Args:       tup,
		HasArgs:    true,
	}
	got, err := call.FusedPositional(4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []int32{1, 2, 3, 4}
	for i, w := range want {
		if mustInt(t, got[i]) != w {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestPositionalWrongCount(t *testing.T) {
	call := &Arguments{Positional: []heap.Value{heap.FromInt(1)}}
	_, err := call.FusedPositional(2)
	if err == nil || err.Kind != WrongNumberOfParameters || err.Count != 1 || err.Min != 2 || err.Max != 2 {
		t.Fatalf("got %v, want WrongNumberOfParameters(got=1, 2..2)", err)
	}
}

func TestOptionalWithinRange(t *testing.T) {
	call := &Arguments{Positional: []heap.Value{heap.FromInt(1), heap.FromInt(2)}}
	got, err := call.Optional(1, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mustInt(t, got[0]) != 1 || mustInt(t, got[1]) != 2 {
		t.Fatalf("got %v, want [1, 2, _]", got)
	}
	if got[2] != heap.Value(0) {
		t.Fatalf("unfilled optional slot = %v, want zero Value", got[2])
	}
}

func TestOptionalOutOfRange(t *testing.T) {
	call := &Arguments{Positional: []heap.Value{heap.FromInt(1), heap.FromInt(2), heap.FromInt(3)}}
	_, err := call.Optional(1, 1)
	if err == nil || err.Kind != WrongNumberOfParameters || err.Min != 1 || err.Max != 2 || err.Count != 3 {
		t.Fatalf("got %v, want WrongNumberOfParameters(got=3, 1..2)", err)
	}
}

func TestNamesMapCollapsesNamedAndKWargs(t *testing.T) {
	h := heap.New()
	kwargs := h.NewDict()
	heap.DictSet(kwargs, h.NewString("y"), heap.FromInt(2))
	call := &Arguments{
		Names:     []string{"x"},
		Named:     []heap.Value{heap.FromInt(1)},
		KWargs:    kwargs,
		HasKWargs: true,
	}
	m, err := call.NamesMap()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Len() != 2 {
		t.Fatalf("got %d entries, want 2", m.Len())
	}
	k0, v0 := m.At(0)
	if string(k0) != "x" || mustInt(t, v0) != 1 {
		t.Fatalf("entry 0 = (%q, %v), want (x, 1)", k0, v0)
	}
	k1, v1 := m.At(1)
	if string(k1) != "y" || mustInt(t, v1) != 2 {
		t.Fatalf("entry 1 = (%q, %v), want (y, 2)", k1, v1)
	}
}

func TestNamesMapRejectsDuplicateKey(t *testing.T) {
	h := heap.New()
	kwargs := h.NewDict()
	heap.DictSet(kwargs, h.NewString("x"), heap.FromInt(2))
	call := &Arguments{
		Names:     []string{"x"},
		Named:     []heap.Value{heap.FromInt(1)},
		KWargs:    kwargs,
		HasKWargs: true,
	}
	_, err := call.NamesMap()
	if err == nil || err.Kind != RepeatedParameter || err.Name != "x" {
		t.Fatalf("got %v, want RepeatedParameter(x)", err)
	}
}

func TestNamesMapRejectsNonStringKWargsKey(t *testing.T) {
	h := heap.New()
	kwargs := h.NewDict()
	heap.DictSet(kwargs, heap.FromInt(9), heap.FromInt(2))
	call := &Arguments{KWargs: kwargs, HasKWargs: true}
	_, err := call.NamesMap()
	if err == nil || err.Kind != ArgsValueIsNotString {
		t.Fatalf("got %v, want ArgsValueIsNotString", err)
	}
}

func TestParamNamesIntrospection(t *testing.T) {
	spec := fSpec()
	var got []string
	spec.ParamNames()(func(name string, slot int) bool {
		got = append(got, name)
		return true
	})
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("got %v, want [a b]", got)
	}
}
