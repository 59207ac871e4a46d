// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package compiler lowers a parsed syntax.File into a bytecode.Chunk: for
// every def it additionally emits an arguments.ParameterSpec, matching
// the external-interface contract of §6 ("the compiler hands the
// evaluator a top-level bytecode object plus, for each callable, a
// ParameterSpec and (local_count, stack_capacity) pair").
package compiler

import (
	"fmt"

	"golang.org/x/starlet/internal/arguments"
	"golang.org/x/starlet/internal/bytecode"
	"golang.org/x/starlet/internal/heap"
	"golang.org/x/starlet/internal/syntax"
)

// CompileError reports a name-resolution or shape error found at compile
// time (as opposed to the parser's syntax errors).
type CompileError struct {
	Span syntax.Span
	Msg  string
}

func (e *CompileError) Error() string { return fmt.Sprintf("%s: %s", e.Span, e.Msg) }

// Compile lowers f into a top-level Chunk, suitable for passing to
// bytecode.Exec against a frame with chunk.LocalCount locals. Top-level
// names are read and written by name through OpLoadGlobal/OpStoreGlobal
// (the Host resolves them against the module); a non-nil slotOf only
// marks the state as the module top level and is never called, so
// chunk.LocalCount counts just the compiler's own synthetic locals (the
// for-loop slots).
func Compile(f *syntax.File, h *heap.Heap, slotOf func(name string) int) (*bytecode.Chunk, error) {
	c := &compilerState{chunk: &bytecode.Chunk{Map: f.Map}, heap: h, slotOf: slotOf, locals: map[string]int{}}
	for _, s := range f.Stmts {
		if err := c.compileStmt(s); err != nil {
			return nil, err
		}
		c.emitSequencePoint(syntax.StmtSpan(s))
	}
	c.emit(bytecode.Instr{Op: bytecode.OpReturnNone})
	c.chunk.LocalCount = len(c.locals)
	if c.maxStack > c.chunk.StackCapacity {
		c.chunk.StackCapacity = c.maxStack
	}
	return c.chunk, nil
}

// compilerState is one function body's (or the module top level's)
// compilation context. Nested defs get their own compilerState with a
// fresh, empty locals map — the dialect has no closures over outer
// locals (§1 Non-goals: no recursion, and the original_source supplement
// restores only a bound-receiver slot, not lexical closures), so a
// nested def's free names always resolve by name through OpLoadGlobal
// (the module environment) rather than through an enclosing compilerState.
type compilerState struct {
	chunk      *bytecode.Chunk
	heap       *heap.Heap
	slotOf     func(string) int // non-nil only at the module top level; never called
	locals     map[string]int   // local name -> slot, this function only
	stackDepth int
	maxStack   int
}

func (c *compilerState) newLocal(name string) int {
	if i, ok := c.locals[name]; ok {
		return i
	}
	i := len(c.locals)
	c.locals[name] = i
	return i
}

func (c *compilerState) emit(in bytecode.Instr) int {
	c.chunk.Code = append(c.chunk.Code, in)
	return len(c.chunk.Code) - 1
}

func (c *compilerState) push() {
	c.stackDepth++
	if c.stackDepth > c.maxStack {
		c.maxStack = c.stackDepth
	}
}

func (c *compilerState) pop(n int) { c.stackDepth -= n }

func (c *compilerState) emitSequencePoint(span syntax.Span) {
	c.emit(bytecode.Instr{Op: bytecode.OpSequencePoint, Span: span})
}

func (c *compilerState) addConst(k bytecode.Const) int32 {
	c.chunk.Consts = append(c.chunk.Consts, k)
	return int32(len(c.chunk.Consts) - 1)
}

func (c *compilerState) compileStmt(s syntax.Stmt) error {
	switch s := s.(type) {
	case *syntax.AssignStmt:
		if err := c.compileExpr(s.Value); err != nil {
			return err
		}
		c.compileStore(s.Name, s.Span)
		return nil
	case *syntax.ExprStmt:
		if err := c.compileExpr(s.X); err != nil {
			return err
		}
		c.emit(bytecode.Instr{Op: bytecode.OpPop, Span: s.Span})
		c.pop(1)
		return nil
	case *syntax.ReturnStmt:
		if s.X == nil {
			c.emit(bytecode.Instr{Op: bytecode.OpReturnNone, Span: s.Span})
			return nil
		}
		if err := c.compileExpr(s.X); err != nil {
			return err
		}
		c.emit(bytecode.Instr{Op: bytecode.OpReturn, Span: s.Span})
		c.pop(1)
		return nil
	case *syntax.DefStmt:
		return c.compileDef(s)
	case *syntax.IfStmt:
		return c.compileIf(s)
	case *syntax.ForStmt:
		return c.compileFor(s)
	case *syntax.LoadStmt:
		return &CompileError{Span: s.Span, Msg: "load statements require a configured loader; not supported by this compiler seam"}
	default:
		return &CompileError{Span: syntax.StmtSpan(s), Msg: fmt.Sprintf("unsupported statement %T", s)}
	}
}

// compileStore resolves name against the function-local map first (the
// dialect's assignment-creates-a-local rule inside a def body), and
// against the module environment at the top level.
func (c *compilerState) compileStore(name string, span syntax.Span) {
	if c.slotOf == nil {
		slot := c.newLocal(name)
		c.emit(bytecode.Instr{Op: bytecode.OpStoreLocal, A: int32(slot), Span: span})
		c.pop(1)
		return
	}
	c.emit(bytecode.Instr{Op: bytecode.OpStoreGlobal, Str: name, Span: span})
	c.pop(1)
}

func (c *compilerState) compileLoad(name string, span syntax.Span) {
	if c.slotOf == nil {
		if slot, ok := c.locals[name]; ok {
			c.emit(bytecode.Instr{Op: bytecode.OpLoadLocal, A: int32(slot), Span: span})
			c.push()
			return
		}
	}
	c.emit(bytecode.Instr{Op: bytecode.OpLoadGlobal, Str: name, Span: span})
	c.push()
}

func (c *compilerState) compileDef(s *syntax.DefStmt) error {
	inner := &compilerState{chunk: &bytecode.Chunk{Map: c.chunk.Map}, heap: c.heap, locals: map[string]int{}}
	var params []arguments.Param
	for _, p := range s.Params {
		inner.newLocal(p.Name)
		switch {
		case p.DStar:
			params = append(params, arguments.Param{Name: p.Name, Kind: arguments.KWargs})
		case p.Star:
			params = append(params, arguments.Param{Name: p.Name, Kind: arguments.Args})
		case p.Default != nil:
			def, err := c.constExprValue(p.Default)
			if err != nil {
				return err
			}
			params = append(params, arguments.Param{Name: p.Name, Kind: arguments.Defaulted, Default: def})
		default:
			params = append(params, arguments.Param{Name: p.Name, Kind: arguments.Required})
		}
	}
	for _, stmt := range s.Body {
		if err := inner.compileStmt(stmt); err != nil {
			return err
		}
		inner.emitSequencePoint(syntax.StmtSpan(stmt))
	}
	inner.emit(bytecode.Instr{Op: bytecode.OpReturnNone})
	inner.chunk.LocalCount = len(inner.locals)
	inner.chunk.StackCapacity = inner.maxStack

	spec := arguments.NewParameterSpec(signatureOf(s.Name, s.Params), false, params)
	proto := &bytecode.FuncProto{Name: s.Name, Spec: spec, Code: inner.chunk}
	idx := int32(len(c.chunk.FuncProtos))
	c.chunk.FuncProtos = append(c.chunk.FuncProtos, proto)
	c.emit(bytecode.Instr{Op: bytecode.OpMakeFunction, A: idx, Span: s.Span})
	c.push()
	c.compileStore(s.Name, s.Span)
	return nil
}

func (c *compilerState) compileIf(s *syntax.IfStmt) error {
	if err := c.compileExpr(s.Cond); err != nil {
		return err
	}
	jumpToElse := c.emit(bytecode.Instr{Span: s.Span})
	c.pop(1)
	for _, stmt := range s.Then {
		if err := c.compileStmt(stmt); err != nil {
			return err
		}
	}
	jumpToEnd := c.emit(bytecode.Instr{Span: s.Span})
	elseStart := int32(len(c.chunk.Code))
	for _, stmt := range s.Else {
		if err := c.compileStmt(stmt); err != nil {
			return err
		}
	}
	end := int32(len(c.chunk.Code))
	c.chunk.Code[jumpToElse] = bytecode.Instr{Op: bytecode.OpJumpIfFalse, A: elseStart, Span: s.Span}
	c.chunk.Code[jumpToEnd] = bytecode.Instr{Op: bytecode.OpJump, A: end, Span: s.Span}
	return nil
}

// compileFor lowers "for Var in X: Body end" into an index-counted loop
// over two synthetic locals — "$for_x«n»" holding the (list/tuple/string)
// being iterated and "$for_i«n»" holding the cursor — since the bytecode
// set carries no stateful iterator object of its own (§6 scopes the
// compiler/bytecode pair only as deep as the runtime nucleus needs).
// Dict iteration is intentionally unsupported here: a dict's key order is
// insertion order (collections.SmallMap), but nothing below exposes a
// "key at position i" accessor, so for now this only drives list, tuple,
// and string iterables.
func (c *compilerState) compileFor(s *syntax.ForStmt) error {
	n := len(c.locals)
	xLocal := c.newLocal(fmt.Sprintf("$for_x%d", n))
	iLocal := c.newLocal(fmt.Sprintf("$for_i%d", n))

	if err := c.compileExpr(s.X); err != nil {
		return err
	}
	c.emit(bytecode.Instr{Op: bytecode.OpStoreLocal, A: int32(xLocal), Span: s.Span})
	c.pop(1)

	c.emit(bytecode.Instr{Op: bytecode.OpConst, A: c.addConst(bytecode.Const{Int: 0}), Span: s.Span})
	c.push()
	c.emit(bytecode.Instr{Op: bytecode.OpStoreLocal, A: int32(iLocal), Span: s.Span})
	c.pop(1)

	loopStart := int32(len(c.chunk.Code))
	c.emit(bytecode.Instr{Op: bytecode.OpLoadLocal, A: int32(iLocal), Span: s.Span})
	c.push()
	c.emit(bytecode.Instr{Op: bytecode.OpLoadLocal, A: int32(xLocal), Span: s.Span})
	c.push()
	c.emit(bytecode.Instr{Op: bytecode.OpLen, Span: s.Span})
	c.emit(bytecode.Instr{Op: bytecode.OpBinary, A: int32(bytecode.BinLt), Span: s.Span})
	c.pop(1)
	exitJump := c.emit(bytecode.Instr{Span: s.Span})
	c.pop(1)

	c.emit(bytecode.Instr{Op: bytecode.OpLoadLocal, A: int32(xLocal), Span: s.Span})
	c.push()
	c.emit(bytecode.Instr{Op: bytecode.OpLoadLocal, A: int32(iLocal), Span: s.Span})
	c.push()
	c.emit(bytecode.Instr{Op: bytecode.OpIndex, Span: s.Span})
	c.pop(1)
	c.compileStore(s.Var, s.Span)

	for _, stmt := range s.Body {
		if err := c.compileStmt(stmt); err != nil {
			return err
		}
	}

	c.emit(bytecode.Instr{Op: bytecode.OpLoadLocal, A: int32(iLocal), Span: s.Span})
	c.push()
	c.emit(bytecode.Instr{Op: bytecode.OpConst, A: c.addConst(bytecode.Const{Int: 1}), Span: s.Span})
	c.push()
	c.emit(bytecode.Instr{Op: bytecode.OpBinary, A: int32(bytecode.BinAdd), Span: s.Span})
	c.pop(1)
	c.emit(bytecode.Instr{Op: bytecode.OpStoreLocal, A: int32(iLocal), Span: s.Span})
	c.pop(1)
	c.emit(bytecode.Instr{Op: bytecode.OpJump, A: loopStart, Span: s.Span})

	end := int32(len(c.chunk.Code))
	c.chunk.Code[exitJump] = bytecode.Instr{Op: bytecode.OpJumpIfFalse, A: end, Span: s.Span}
	return nil
}

func (c *compilerState) compileExpr(e syntax.Expr) error {
	switch e := e.(type) {
	case *syntax.IntLit:
		c.emit(bytecode.Instr{Op: bytecode.OpConst, A: c.addConst(bytecode.Const{Int: e.Val}), Span: e.Span})
		c.push()
	case *syntax.StringLit:
		c.emit(bytecode.Instr{Op: bytecode.OpConst, A: c.addConst(bytecode.Const{IsString: true, Str: e.Val}), Span: e.Span})
		c.push()
	case *syntax.BoolLit:
		v := int32(0)
		if e.Val {
			v = 1
		}
		c.emit(bytecode.Instr{Op: bytecode.OpConst, A: c.addConst(bytecode.Const{Int: v}), Span: e.Span})
		c.push()
	case *syntax.NoneLit:
		c.emit(bytecode.Instr{Op: bytecode.OpConst, A: c.addConst(bytecode.Const{IsNone: true}), Span: e.Span})
		c.push()
	case *syntax.Ident:
		c.compileLoad(e.Name, e.Span)
	case *syntax.BinaryExpr:
		if err := c.compileExpr(e.X); err != nil {
			return err
		}
		if err := c.compileExpr(e.Y); err != nil {
			return err
		}
		op, err := binOpOf(e.Op)
		if err != nil {
			return &CompileError{Span: e.Span, Msg: err.Error()}
		}
		c.emit(bytecode.Instr{Op: bytecode.OpBinary, A: int32(op), Span: e.Span})
		c.pop(1)
	case *syntax.UnaryExpr:
		if err := c.compileExpr(e.X); err != nil {
			return err
		}
		op, err := unOpOf(e.Op)
		if err != nil {
			return &CompileError{Span: e.Span, Msg: err.Error()}
		}
		c.emit(bytecode.Instr{Op: bytecode.OpUnary, A: int32(op), Span: e.Span})
	case *syntax.ListExpr:
		for _, el := range e.Elems {
			if err := c.compileExpr(el); err != nil {
				return err
			}
		}
		c.emit(bytecode.Instr{Op: bytecode.OpBuildList, A: int32(len(e.Elems)), Span: e.Span})
		c.pop(len(e.Elems))
		c.push()
	case *syntax.TupleExpr:
		for _, el := range e.Elems {
			if err := c.compileExpr(el); err != nil {
				return err
			}
		}
		c.emit(bytecode.Instr{Op: bytecode.OpBuildTuple, A: int32(len(e.Elems)), Span: e.Span})
		c.pop(len(e.Elems))
		c.push()
	case *syntax.DictExpr:
		for _, ent := range e.Entries {
			if err := c.compileExpr(ent.Key); err != nil {
				return err
			}
			if err := c.compileExpr(ent.Value); err != nil {
				return err
			}
		}
		c.emit(bytecode.Instr{Op: bytecode.OpBuildDict, A: int32(len(e.Entries)), Span: e.Span})
		c.pop(2 * len(e.Entries))
		c.push()
	case *syntax.IndexExpr:
		if err := c.compileExpr(e.X); err != nil {
			return err
		}
		if err := c.compileExpr(e.Index); err != nil {
			return err
		}
		c.emit(bytecode.Instr{Op: bytecode.OpIndex, Span: e.Span})
		c.pop(1)
	case *syntax.CallExpr:
		return c.compileCall(e)
	default:
		return &CompileError{Span: syntax.ExprSpan(e), Msg: fmt.Sprintf("unsupported expression %T", e)}
	}
	return nil
}

func (c *compilerState) compileCall(e *syntax.CallExpr) error {
	if err := c.compileExpr(e.Fn); err != nil {
		return err
	}
	site := bytecode.CallSite{}
	var positional, named []syntax.Arg
	var star, kwargs *syntax.Arg
	for i, a := range e.Args {
		switch {
		case a.DStar:
			kwargs = &e.Args[i]
		case a.Star:
			star = &e.Args[i]
		case a.Name != "":
			named = append(named, a)
		default:
			positional = append(positional, a)
		}
	}
	site.NumPositional = len(positional)
	for _, a := range positional {
		if err := c.compileExpr(a.Value); err != nil {
			return err
		}
	}
	for _, a := range named {
		site.Names = append(site.Names, a.Name)
		if err := c.compileExpr(a.Value); err != nil {
			return err
		}
	}
	if star != nil {
		site.HasStar = true
		if err := c.compileExpr(star.Value); err != nil {
			return err
		}
	}
	if kwargs != nil {
		site.HasKWargs = true
		if err := c.compileExpr(kwargs.Value); err != nil {
			return err
		}
	}
	idx := int32(len(c.chunk.CallSites))
	c.chunk.CallSites = append(c.chunk.CallSites, site)
	c.emit(bytecode.Instr{Op: bytecode.OpCall, A: idx, Span: e.Span})

	popped := 1 + len(positional) + len(named)
	if star != nil {
		popped++
	}
	if kwargs != nil {
		popped++
	}
	c.pop(popped)
	c.push()
	return nil
}

func binOpOf(op string) (bytecode.BinOp, error) {
	switch op {
	case "+":
		return bytecode.BinAdd, nil
	case "-":
		return bytecode.BinSub, nil
	case "*":
		return bytecode.BinMul, nil
	case "/":
		return bytecode.BinDiv, nil
	case "%":
		return bytecode.BinMod, nil
	case "==":
		return bytecode.BinEq, nil
	case "!=":
		return bytecode.BinNeq, nil
	case "<":
		return bytecode.BinLt, nil
	case "<=":
		return bytecode.BinLe, nil
	case ">":
		return bytecode.BinGt, nil
	case ">=":
		return bytecode.BinGe, nil
	case "and":
		return bytecode.BinAnd, nil
	case "or":
		return bytecode.BinOr, nil
	default:
		return 0, fmt.Errorf("unknown binary operator %q", op)
	}
}

func unOpOf(op string) (bytecode.UnOp, error) {
	switch op {
	case "-":
		return bytecode.UnNeg, nil
	case "not":
		return bytecode.UnNot, nil
	default:
		return 0, fmt.Errorf("unknown unary operator %q", op)
	}
}

// constExprValue evaluates a default-parameter expression that the
// grammar restricts to a literal (the dialect, like the language it is
// distilled from, requires parameter defaults to be constant at def
// time): realized directly on c.heap since ParameterSpec.Default is a
// bound heap.Value, not a deferred expression.
func (c *compilerState) constExprValue(e syntax.Expr) (heap.Value, error) {
	switch e := e.(type) {
	case *syntax.IntLit:
		return heap.FromInt(e.Val), nil
	case *syntax.StringLit:
		return c.heap.NewString(e.Val), nil
	case *syntax.BoolLit:
		if e.Val {
			return heap.FromInt(1), nil
		}
		return heap.FromInt(0), nil
	case *syntax.NoneLit:
		return c.heap.NewNone(), nil
	case *syntax.UnaryExpr:
		if e.Op == "-" {
			if lit, ok := e.X.(*syntax.IntLit); ok {
				return heap.FromInt(-lit.Val), nil
			}
		}
		return heap.Value(0), &CompileError{Span: e.Span, Msg: "parameter default must be a literal"}
	default:
		return heap.Value(0), &CompileError{Span: syntax.ExprSpan(e), Msg: "parameter default must be a literal"}
	}
}

func signatureOf(name string, params []syntax.Param) string {
	s := name + "("
	for i, p := range params {
		if i > 0 {
			s += ", "
		}
		switch {
		case p.DStar:
			s += "**" + p.Name
		case p.Star:
			s += "*" + p.Name
		case p.Default != nil:
			s += p.Name + "=..."
		default:
			s += p.Name
		}
	}
	return s + ")"
}
