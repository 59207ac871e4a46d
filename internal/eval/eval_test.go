// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package eval

import (
	"testing"

	"golang.org/x/starlet/internal/compiler"
	"golang.org/x/starlet/internal/heap"
	"golang.org/x/starlet/internal/loader"
	"golang.org/x/starlet/internal/module"
	"golang.org/x/starlet/internal/syntax"
)

func compileAndRun(t *testing.T, ev *Evaluator, source string) {
	t.Helper()
	f, err := syntax.Parse("test.star", source)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	chunk, err := compiler.Compile(f, ev.Heap(), ev.Module().SlotOf)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if _, err := ev.Run(chunk); err != nil {
		t.Fatalf("run: %v", err)
	}
}

func TestEvaluatorAssignAndLookup(t *testing.T) {
	ev := New(module.New("test"), nil, loader.NullLoader{})
	compileAndRun(t, ev, "x = 1 + 2\n")
	v, ok := ev.LookupName("x")
	if !ok {
		t.Fatalf("x not defined")
	}
	if i, _ := v.UnpackInt(); i != 3 {
		t.Fatalf("got %d, want 3", i)
	}
}

func TestEvaluatorLookupFallsBackToGlobals(t *testing.T) {
	gb := module.NewGlobalsBuilder()
	gb.Set("K", heap.FromInt(7))
	globals := gb.Build()
	ev := New(module.New("test"), globals, loader.NullLoader{})
	compileAndRun(t, ev, "y = K + 1\n")
	v, ok := ev.LookupName("y")
	if !ok {
		t.Fatalf("y not defined")
	}
	if i, _ := v.UnpackInt(); i != 8 {
		t.Fatalf("got %d, want 8", i)
	}
}

func TestEvaluatorCallFunction(t *testing.T) {
	ev := New(module.New("test"), nil, loader.NullLoader{})
	compileAndRun(t, ev, "def add(a, b):\n  return a + b\nend\nz = add(10, 32)\n")
	v, ok := ev.LookupName("z")
	if !ok {
		t.Fatalf("z not defined")
	}
	if i, _ := v.UnpackInt(); i != 42 {
		t.Fatalf("got %d, want 42", i)
	}
}

func TestEvaluatorStmtHookFiresPerStatement(t *testing.T) {
	ev := New(module.New("test"), nil, loader.NullLoader{})
	var spans []syntax.Span
	ev.SetStmtHook(func(span syntax.Span, ev *Evaluator) error {
		spans = append(spans, span)
		return nil
	})
	compileAndRun(t, ev, "a = 1\nb = 2\nc = a + b\n")
	if len(spans) != 3 {
		t.Fatalf("got %d hook firings, want 3", len(spans))
	}
}

func TestEvaluatorStmtHookErrorAborts(t *testing.T) {
	ev := New(module.New("test"), nil, loader.NullLoader{})
	calls := 0
	stop := errStop{}
	ev.SetStmtHook(func(span syntax.Span, ev *Evaluator) error {
		calls++
		if calls == 2 {
			return stop
		}
		return nil
	})
	f, err := syntax.Parse("test.star", "a = 1\nb = 2\nc = 3\n")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	chunk, err := compiler.Compile(f, ev.Heap(), ev.Module().SlotOf)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if _, err := ev.Run(chunk); err == nil {
		t.Fatalf("expected hook error to abort execution")
	}
	if calls != 2 {
		t.Fatalf("got %d hook calls, want 2 (abort on second)", calls)
	}
	if _, ok := ev.LookupName("c"); ok {
		t.Fatalf("c should never have been assigned")
	}
}

type errStop struct{}

func (errStop) Error() string { return "stop" }

func TestEvaluatorAssignTopLevelAfterFreezeFails(t *testing.T) {
	ev := New(module.New("test"), nil, loader.NullLoader{})
	compileAndRun(t, ev, "x = 1\n")
	ev.Freeze()
	err := ev.AssignTopLevel("x", heap.FromInt(2))
	if err == nil {
		t.Fatalf("expected error assigning into a frozen module")
	}
	se, ok := err.(*ScopeError)
	if !ok || se.Kind != CannotSetVariable {
		t.Fatalf("got %v, want CannotSetVariable ScopeError", err)
	}
}

func TestEvaluatorLoadBindsNamesFromLoadedModule(t *testing.T) {
	loaded := module.New("lib")
	loaded.Set(loaded.SlotOf("GREETING"), heap.FromInt(99))
	loaded.FreezeWith(heap.New())

	ml := loader.MapLoader{"lib.star": loaded}
	ev := New(module.New("test"), nil, ml)
	if err := ev.Load("lib.star", []string{"g"}, []string{"GREETING"}); err != nil {
		t.Fatalf("load: %v", err)
	}
	v, ok := ev.LookupName("g")
	if !ok {
		t.Fatalf("g not bound after load")
	}
	if i, _ := v.UnpackInt(); i != 99 {
		t.Fatalf("got %d, want 99", i)
	}
}

func TestEvaluatorCallStackAnnotatesErrors(t *testing.T) {
	ev := New(module.New("test"), nil, loader.NullLoader{})
	_, err := ev.WithCallStack("outer", syntax.Span{}, func() (heap.Value, error) {
		return ev.WithCallStack("inner", syntax.Span{}, func() (heap.Value, error) {
			return heap.Value(0), errStop{}
		})
	})
	if err == nil {
		t.Fatalf("expected an annotated error")
	}
	ee, ok := err.(*EvalError)
	if !ok {
		t.Fatalf("got %T, want *EvalError", err)
	}
	if len(ee.Annotations) != 2 {
		t.Fatalf("got %d annotations, want 2", len(ee.Annotations))
	}
	if ee.Annotations[0].Frame != "inner" || ee.Annotations[1].Frame != "outer" {
		t.Fatalf("unexpected annotation order: %+v", ee.Annotations)
	}
}
