// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package bytecode is the compiled form the compiler emits and the
// Evaluator drives: a stack-oriented opcode set operating over a
// frame.CallFrame's locals and operand stack. Opcode operands are stored
// as a typed instruction struct rather than packed into a raw byte
// stream plus a separate decoder — the dialect's real bytecode format is
// explicitly out of scope for this project's depth (§6 treats the
// compiler/bytecode pair as an external collaborator kept just complete
// enough to drive the runtime nucleus end-to-end), and a struct slice
// gets the same stack-discipline and sequence-point behavior without the
// added risk of a hand-rolled binary encoding that can never be compiled
// and checked here.
package bytecode

import (
	"golang.org/x/starlet/internal/arguments"
	"golang.org/x/starlet/internal/syntax"
)

// Op identifies one instruction.
type Op int

const (
	OpConst         Op = iota // push Consts[A]
	OpLoadLocal               // push locals[A]
	OpStoreLocal              // pop, store into locals[A]
	OpLoadGlobal              // push Host.LookupName(Str)
	OpStoreGlobal             // pop, Host.AssignTopLevel(Str, v)
	OpBuildTuple              // pop A values, push a tuple
	OpBuildList               // pop A values, push a list
	OpBuildDict               // pop 2*A values (key,val pairs), push a dict
	OpIndex                   // pop index, pop collection, push collection[index]
	OpLen                     // pop collection, push its length as an int
	OpBinary                  // pop y, pop x, push BinaryOp(A)(x, y)
	OpUnary                   // pop x, push UnaryOp(A)(x)
	OpMakeFunction            // push a function value bound to FuncProtos[A]
	OpCall                    // pop callee+args per CallSites[A], push result
	OpJump                    // unconditional jump to Code[A]
	OpJumpIfFalse             // pop cond; if falsy, jump to Code[A]
	OpPop                     // discard top of stack
	OpReturn                  // pop value, return it from the current frame
	OpReturnNone              // return with no value (None)
	OpSequencePoint           // stack must be empty; GC/host-hook boundary (§4.7, §9)
)

// BinOp/UnOp identify the operator a OpBinary/OpUnary instruction applies;
// kept distinct from the AST's string-typed Op so the evaluator's hot
// loop switches on small integers.
type BinOp int

const (
	BinAdd BinOp = iota
	BinSub
	BinMul
	BinDiv
	BinMod
	BinEq
	BinNeq
	BinLt
	BinLe
	BinGt
	BinGe
	BinAnd
	BinOr
)

type UnOp int

const (
	UnNeg UnOp = iota
	UnNot
)

// Const is one entry of a Chunk's constant pool: an in-word integer,
// None, or a string. A string constant is not cached: OpConst allocates
// it afresh on the running Heap each time it is pushed, since the same
// chunk may run against many different Heaps over its lifetime.
type Const struct {
	IsString bool
	IsNone   bool
	Int      int32
	Str      string
}

// CallSite describes the static shape of one call expression: how many
// of the values the OpCall instruction pops are positional, which are
// named (and under what name), and whether a *args/**kwargs value
// follows. The evaluator uses this purely to reconstruct an
// arguments.Arguments from the operand stack — see vm.go.
type CallSite struct {
	NumPositional int
	Names         []string // parallel to the Named values popped after positionals
	HasStar       bool
	HasKWargs     bool
}

// Instr is one bytecode instruction. Not every field is meaningful for
// every Op; see the Op constants' comments.
type Instr struct {
	Op   Op
	A    int32
	Str  string
	Span syntax.Span
}

// Chunk is one compiled code body — either a module's top-level
// statements or a single function's body.
type Chunk struct {
	Code          []Instr
	Consts        []Const
	CallSites     []CallSite
	FuncProtos    []*FuncProto
	LocalCount    int
	StackCapacity int
	Map           *syntax.CodeMap
}

// FuncProto is a compiled function: its parameter binding contract and
// the chunk to run once Spec.Bind has populated its locals.
type FuncProto struct {
	Name string
	Spec *arguments.ParameterSpec
	Code *Chunk
}
