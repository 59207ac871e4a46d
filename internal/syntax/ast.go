// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package syntax

// File is the root of a parsed source file: a flat sequence of top-level
// statements.
type File struct {
	Stmts []Stmt
	Map   *CodeMap
}

// Stmt is implemented by every statement node.
type Stmt interface{ stmtSpan() Span }

// Expr is implemented by every expression node.
type Expr interface{ exprSpan() Span }

// StmtSpan returns the source span of any statement node.
func StmtSpan(s Stmt) Span { return s.stmtSpan() }

// ExprSpan returns the source span of any expression node.
func ExprSpan(e Expr) Span { return e.exprSpan() }

// --- statements ---

type AssignStmt struct {
	Span   Span
	Name   string
	Value  Expr
}

func (s *AssignStmt) stmtSpan() Span { return s.Span }

type ExprStmt struct {
	Span Span
	X    Expr
}

func (s *ExprStmt) stmtSpan() Span { return s.Span }

type ReturnStmt struct {
	Span Span
	X    Expr // nil for a bare return
}

func (s *ReturnStmt) stmtSpan() Span { return s.Span }

// Param mirrors arguments.Param at the syntax level, before the compiler
// resolves Default expressions to constant Values.
type Param struct {
	Name    string
	Star    bool // *args
	DStar   bool // **kwargs
	Default Expr // non-nil for a Defaulted parameter
}

type DefStmt struct {
	Span   Span
	Name   string
	Params []Param
	Body   []Stmt
}

func (s *DefStmt) stmtSpan() Span { return s.Span }

type IfStmt struct {
	Span Span
	Cond Expr
	Then []Stmt
	Else []Stmt // nil if there is no else clause
}

func (s *IfStmt) stmtSpan() Span { return s.Span }

type ForStmt struct {
	Span Span
	Var  string
	X    Expr // the iterable
	Body []Stmt
}

func (s *ForStmt) stmtSpan() Span { return s.Span }

// LoadStmt is the module-load directive (§6): load("path", name, alias=name2).
type LoadStmt struct {
	Span    Span
	Path    string
	Names   []string // names to bind locally
	Aliases []string // Aliases[i] is the name in the loaded module for Names[i]
}

func (s *LoadStmt) stmtSpan() Span { return s.Span }

// --- expressions ---

type Ident struct {
	Span Span
	Name string
}

func (e *Ident) exprSpan() Span { return e.Span }

type IntLit struct {
	Span Span
	Val  int32
}

func (e *IntLit) exprSpan() Span { return e.Span }

type StringLit struct {
	Span Span
	Val  string
}

func (e *StringLit) exprSpan() Span { return e.Span }

type BoolLit struct {
	Span Span
	Val  bool
}

func (e *BoolLit) exprSpan() Span { return e.Span }

type NoneLit struct{ Span Span }

func (e *NoneLit) exprSpan() Span { return e.Span }

type BinaryExpr struct {
	Span  Span
	Op    string // "+", "-", "*", "/", "%", "==", "!=", "<", "<=", ">", ">=", "and", "or"
	X, Y  Expr
}

func (e *BinaryExpr) exprSpan() Span { return e.Span }

type UnaryExpr struct {
	Span Span
	Op   string // "-", "not"
	X    Expr
}

func (e *UnaryExpr) exprSpan() Span { return e.Span }

// Arg is one call-site argument: positional (Name == ""), named, *X, or
// **X, mirroring the shapes arguments.Arguments accepts.
type Arg struct {
	Name  string
	Star  bool
	DStar bool
	Value Expr
}

type CallExpr struct {
	Span Span
	Fn   Expr
	Args []Arg
}

func (e *CallExpr) exprSpan() Span { return e.Span }

type IndexExpr struct {
	Span    Span
	X, Index Expr
}

func (e *IndexExpr) exprSpan() Span { return e.Span }

type ListExpr struct {
	Span  Span
	Elems []Expr
}

func (e *ListExpr) exprSpan() Span { return e.Span }

type TupleExpr struct {
	Span  Span
	Elems []Expr
}

func (e *TupleExpr) exprSpan() Span { return e.Span }

type DictEntry struct {
	Key, Value Expr
}

type DictExpr struct {
	Span    Span
	Entries []DictEntry
}

func (e *DictExpr) exprSpan() Span { return e.Span }
