// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package syntax

import "testing"

func TestParseSimpleAssignment(t *testing.T) {
	f, err := Parse("t.star", "x = 1 + 2\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.Stmts) != 1 {
		t.Fatalf("got %d stmts, want 1", len(f.Stmts))
	}
	as, ok := f.Stmts[0].(*AssignStmt)
	if !ok {
		t.Fatalf("got %T, want *AssignStmt", f.Stmts[0])
	}
	if as.Name != "x" {
		t.Fatalf("Name = %q, want x", as.Name)
	}
	bin, ok := as.Value.(*BinaryExpr)
	if !ok || bin.Op != "+" {
		t.Fatalf("Value = %#v, want BinaryExpr(+)", as.Value)
	}
}

func TestParseDefWithVariadicParams(t *testing.T) {
	src := "def f(a, b=2, *args, **kwargs):\n  return a\nend\n"
	f, err := Parse("t.star", src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.Stmts) != 1 {
		t.Fatalf("got %d stmts, want 1", len(f.Stmts))
	}
	def, ok := f.Stmts[0].(*DefStmt)
	if !ok {
		t.Fatalf("got %T, want *DefStmt", f.Stmts[0])
	}
	if len(def.Params) != 4 {
		t.Fatalf("got %d params, want 4", len(def.Params))
	}
	if def.Params[1].Default == nil {
		t.Fatalf("b should have a default")
	}
	if !def.Params[2].Star || !def.Params[3].DStar {
		t.Fatalf("expected *args, **kwargs markers on params 2 and 3")
	}
}

func TestParseIfElse(t *testing.T) {
	src := "if x == 1:\n  y = 2\nelse:\n  y = 3\nend\n"
	f, err := Parse("t.star", src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ifs, ok := f.Stmts[0].(*IfStmt)
	if !ok {
		t.Fatalf("got %T, want *IfStmt", f.Stmts[0])
	}
	if len(ifs.Then) != 1 || len(ifs.Else) != 1 {
		t.Fatalf("then/else bodies wrong length: %d/%d", len(ifs.Then), len(ifs.Else))
	}
}

func TestParseCallWithNamedAndStarArgs(t *testing.T) {
	src := "f(1, 2, x=3, *rest, **more)\n"
	f, err := Parse("t.star", src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	es, ok := f.Stmts[0].(*ExprStmt)
	if !ok {
		t.Fatalf("got %T, want *ExprStmt", f.Stmts[0])
	}
	call, ok := es.X.(*CallExpr)
	if !ok {
		t.Fatalf("got %T, want *CallExpr", es.X)
	}
	if len(call.Args) != 5 {
		t.Fatalf("got %d args, want 5", len(call.Args))
	}
	if call.Args[2].Name != "x" {
		t.Fatalf("args[2].Name = %q, want x", call.Args[2].Name)
	}
	if !call.Args[3].Star || !call.Args[4].DStar {
		t.Fatalf("expected *rest and **more markers")
	}
}

func TestParseLoadStmt(t *testing.T) {
	src := "load(\"lib.star\", helper, h2=helper2)\n"
	f, err := Parse("t.star", src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ld, ok := f.Stmts[0].(*LoadStmt)
	if !ok {
		t.Fatalf("got %T, want *LoadStmt", f.Stmts[0])
	}
	if ld.Path != "lib.star" || len(ld.Names) != 2 {
		t.Fatalf("got %+v", ld)
	}
	if ld.Names[1] != "h2" || ld.Aliases[1] != "helper2" {
		t.Fatalf("alias binding wrong: %+v", ld)
	}
}
