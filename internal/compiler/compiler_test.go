// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compiler

import (
	"testing"

	"golang.org/x/starlet/internal/arguments"
	"golang.org/x/starlet/internal/bytecode"
	"golang.org/x/starlet/internal/frame"
	"golang.org/x/starlet/internal/heap"
	"golang.org/x/starlet/internal/module"
	"golang.org/x/starlet/internal/syntax"
)

// testHost is a minimal bytecode.Host wired to a single module, enough to
// drive compiled chunks end to end without the full Evaluator.
type testHost struct {
	h     *heap.Heap
	m     *module.Module
	arena *frame.Arena
	none  heap.Value
}

func newTestHost() *testHost {
	h := heap.New()
	return &testHost{h: h, m: module.New("test"), arena: frame.NewArena(256), none: h.NewNone()}
}

func (t *testHost) Heap() *heap.Heap { return t.h }
func (t *testHost) LookupName(name string) (heap.Value, bool) {
	slot, ok := t.m.Lookup(name)
	return slot, ok
}
func (t *testHost) AssignTopLevel(name string, v heap.Value) error {
	t.m.Set(t.m.SlotOf(name), v)
	return nil
}
func (t *testHost) SequencePoint(syntax.Span) error { return nil }
func (t *testHost) None() heap.Value     { return t.none }

func (t *testHost) Call(fn heap.Value, call *arguments.Arguments) (heap.Value, error) {
	proto, ok := bytecode.AsFunction(fn)
	if !ok {
		return heap.Value(0), errNotCallableTest{}
	}
	slots := make([]heap.Value, proto.Spec.NumSlots())
	if err := proto.Spec.Bind(t.h, call, slots); err != nil {
		return heap.Value(0), err
	}
	var result heap.Value
	var execErr error
	_, err := t.arena.AllocaFrame(proto.Code.LocalCount, proto.Code.StackCapacity, func(fr *frame.CallFrame) (heap.Value, error) {
		for i, v := range slots {
			fr.SetLocal(i, v)
		}
		result, execErr = bytecode.Exec(t, proto.Code, fr)
		return result, execErr
	})
	if err != nil {
		return heap.Value(0), err
	}
	return result, execErr
}

type errNotCallableTest struct{}

func (errNotCallableTest) Error() string { return "value not callable" }

func runModule(t *testing.T, source string) *testHost {
	t.Helper()
	f, err := syntax.Parse("test.star", source)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	host := newTestHost()
	chunk, err := Compile(f, host.h, host.m.SlotOf)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	_, err = host.arena.AllocaFrame(chunk.LocalCount, chunk.StackCapacity, func(fr *frame.CallFrame) (heap.Value, error) {
		return bytecode.Exec(host, chunk, fr)
	})
	if err != nil {
		t.Fatalf("exec: %v", err)
	}
	return host
}

func TestCompileAssignAndArithmetic(t *testing.T) {
	host := runModule(t, "x = 1 + 2 * 3\n")
	v, ok := host.LookupName("x")
	if !ok {
		t.Fatalf("x not defined")
	}
	if i, _ := v.UnpackInt(); i != 7 {
		t.Fatalf("got %d, want 7", i)
	}
}

func TestCompileIfElse(t *testing.T) {
	host := runModule(t, "x = 1\nif x == 1:\n  y = 10\nelse:\n  y = 20\nend\n")
	v, ok := host.LookupName("y")
	if !ok {
		t.Fatalf("y not defined")
	}
	if i, _ := v.UnpackInt(); i != 10 {
		t.Fatalf("got %d, want 10", i)
	}
}

func TestCompileDefAndCall(t *testing.T) {
	host := runModule(t, "def add(a, b):\n  return a + b\nend\nz = add(3, 4)\n")
	v, ok := host.LookupName("z")
	if !ok {
		t.Fatalf("z not defined")
	}
	if i, _ := v.UnpackInt(); i != 7 {
		t.Fatalf("got %d, want 7", i)
	}
}

func TestCompileDefWithDefault(t *testing.T) {
	host := runModule(t, "def inc(a, step=1):\n  return a + step\nend\nz = inc(5)\n")
	v, ok := host.LookupName("z")
	if !ok {
		t.Fatalf("z not defined")
	}
	if i, _ := v.UnpackInt(); i != 6 {
		t.Fatalf("got %d, want 6", i)
	}
}

func TestCompileForOverList(t *testing.T) {
	host := runModule(t, "total = 0\nfor v in [1, 2, 3, 4]:\n  total = total + v\nend\n")
	v, ok := host.LookupName("total")
	if !ok {
		t.Fatalf("total not defined")
	}
	if i, _ := v.UnpackInt(); i != 10 {
		t.Fatalf("got %d, want 10", i)
	}
}

func TestCompileStringConcat(t *testing.T) {
	host := runModule(t, `s = "foo" + "bar"` + "\n")
	v, ok := host.LookupName("s")
	if !ok {
		t.Fatalf("s not defined")
	}
	str, ok := heap.AsString(v)
	if !ok || str != "foobar" {
		t.Fatalf("got %v, want foobar", v)
	}
}
