// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bytecode

import (
	"fmt"
	"sync/atomic"

	"golang.org/x/starlet/internal/arguments"
	"golang.org/x/starlet/internal/frame"
	"golang.org/x/starlet/internal/heap"
	"golang.org/x/starlet/internal/syntax"
)

// Host is the seam through which Exec reaches back into the Evaluator
// without bytecode importing package eval (which itself imports
// bytecode) — name resolution, calls, and GC/hook timing all belong to
// the Evaluator's state, not to a single Chunk's execution.
type Host interface {
	Heap() *heap.Heap
	LookupName(name string) (heap.Value, bool)
	AssignTopLevel(name string, v heap.Value) error
	Call(fn heap.Value, call *arguments.Arguments) (heap.Value, error)
	SequencePoint(span syntax.Span) error
	None() heap.Value
}

// funcValue is the payload a compiled function is stored as on the heap,
// via heap.NewExternal, since heap's own object kinds are unexported and
// bytecode cannot add one of its own. id is a creation
// sequence number used only so two distinct function values hash
// differently; functions have no structural equality beyond identity.
type funcValue struct {
	Proto *FuncProto
	id    uint32
}

var nextFuncID uint32

// NewFunctionValue allocates proto as a callable heap value.
func NewFunctionValue(h *heap.Heap, proto *FuncProto) heap.Value {
	id := atomic.AddUint32(&nextFuncID, 1)
	return h.NewExternal(
		&funcValue{Proto: proto, id: id},
		func(interface{}, *heap.Tracer) {},
		func(p interface{}) uint32 { return p.(*funcValue).id },
		func(a, b interface{}) bool { return a.(*funcValue) == b.(*funcValue) },
	)
}

// AsFunction returns the FuncProto v was built from, or ok=false if v is
// not a function value.
func AsFunction(v heap.Value) (*FuncProto, bool) {
	payload, ok := heap.AsExternal(v)
	if !ok {
		return nil, false
	}
	fv, ok := payload.(*funcValue)
	if !ok {
		return nil, false
	}
	return fv.Proto, true
}

// execError wraps a runtime fault with the span active when it occurred,
// feeding the evaluator's annotation chain (§7).
type execError struct {
	span string
	err  error
}

func (e *execError) Error() string { return fmt.Sprintf("%s: %v", e.span, e.err) }
func (e *execError) Unwrap() error { return e.err }

// Exec runs chunk against fr to completion: either a value flows out via
// OpReturn/OpReturnNone/falling off the end (implicit None), or an error
// aborts the frame. fr must have chunk.LocalCount locals and
// chunk.StackCapacity operand-stack slots, matching what the compiler
// declared for this chunk (frame.Arena.AllocaFrame is how the caller gets
// such a frame).
func Exec(host Host, chunk *Chunk, fr *frame.CallFrame) (heap.Value, error) {
	h := host.Heap()
	pc := 0
	for pc < len(chunk.Code) {
		in := chunk.Code[pc]
		switch in.Op {
		case OpConst:
			c := chunk.Consts[in.A]
			switch {
			case c.IsNone:
				fr.Push(host.None())
			case c.IsString:
				fr.Push(h.NewString(c.Str))
			default:
				fr.Push(heap.FromInt(c.Int))
			}
		case OpLoadLocal:
			v, ok := fr.GetLocal(int(in.A))
			if !ok {
				return heap.Value(0), &execError{span: in.Span.String(), err: fmt.Errorf("local variable referenced before assignment")}
			}
			fr.Push(v)
		case OpStoreLocal:
			fr.SetLocal(int(in.A), fr.Pop())
		case OpLoadGlobal:
			v, ok := host.LookupName(in.Str)
			if !ok {
				return heap.Value(0), &execError{span: in.Span.String(), err: fmt.Errorf("name %q is not defined", in.Str)}
			}
			fr.Push(v)
		case OpStoreGlobal:
			if err := host.AssignTopLevel(in.Str, fr.Pop()); err != nil {
				return heap.Value(0), &execError{span: in.Span.String(), err: err}
			}
		case OpBuildTuple:
			n := int(in.A)
			elems := make([]heap.Value, n)
			for i := n - 1; i >= 0; i-- {
				elems[i] = fr.Pop()
			}
			fr.Push(h.NewTuple(elems))
		case OpBuildList:
			n := int(in.A)
			elems := make([]heap.Value, n)
			for i := n - 1; i >= 0; i-- {
				elems[i] = fr.Pop()
			}
			fr.Push(h.NewList(elems))
		case OpBuildDict:
			n := int(in.A)
			d := h.NewDict()
			pairs := make([][2]heap.Value, n)
			for i := n - 1; i >= 0; i-- {
				val := fr.Pop()
				key := fr.Pop()
				pairs[i] = [2]heap.Value{key, val}
			}
			for _, kv := range pairs {
				heap.DictSet(d, kv[0], kv[1])
			}
			fr.Push(d)
		case OpIndex:
			idx := fr.Pop()
			coll := fr.Pop()
			v, err := indexValue(coll, idx)
			if err != nil {
				return heap.Value(0), &execError{span: in.Span.String(), err: err}
			}
			fr.Push(v)
		case OpLen:
			n, err := lengthOf(fr.Pop())
			if err != nil {
				return heap.Value(0), &execError{span: in.Span.String(), err: err}
			}
			fr.Push(heap.FromInt(int32(n)))
		case OpBinary:
			y := fr.Pop()
			x := fr.Pop()
			v, err := evalBinary(h, BinOp(in.A), x, y)
			if err != nil {
				return heap.Value(0), &execError{span: in.Span.String(), err: err}
			}
			fr.Push(v)
		case OpUnary:
			x := fr.Pop()
			v, err := evalUnary(h, UnOp(in.A), x)
			if err != nil {
				return heap.Value(0), &execError{span: in.Span.String(), err: err}
			}
			fr.Push(v)
		case OpMakeFunction:
			fr.Push(NewFunctionValue(h, chunk.FuncProtos[in.A]))
		case OpCall:
			v, err := execCall(host, chunk, int(in.A), fr)
			if err != nil {
				return heap.Value(0), &execError{span: in.Span.String(), err: err}
			}
			fr.Push(v)
		case OpJump:
			pc = int(in.A)
			continue
		case OpJumpIfFalse:
			if !isTruthy(fr.Pop()) {
				pc = int(in.A)
				continue
			}
		case OpPop:
			fr.Pop()
		case OpReturn:
			return fr.Pop(), nil
		case OpReturnNone:
			return host.None(), nil
		case OpSequencePoint:
			fr.AssertStackEmpty()
			if err := host.SequencePoint(in.Span); err != nil {
				return heap.Value(0), err
			}
		}
		pc++
	}
	return host.None(), nil
}

// execCall pops the callee and its arguments off fr according to the
// CallSite descriptor, assembling an arguments.Arguments exactly as the
// static call shape the compiler recorded, then dispatches through Host.
func execCall(host Host, chunk *Chunk, siteIdx int, fr *frame.CallFrame) (heap.Value, error) {
	site := chunk.CallSites[siteIdx]
	var kwargs heap.Value
	hasKWargs := site.HasKWargs
	if hasKWargs {
		kwargs = fr.Pop()
	}
	var starArgs heap.Value
	hasStar := site.HasStar
	if hasStar {
		starArgs = fr.Pop()
	}
	named := make([]heap.Value, len(site.Names))
	for i := len(site.Names) - 1; i >= 0; i-- {
		named[i] = fr.Pop()
	}
	positional := make([]heap.Value, site.NumPositional)
	for i := site.NumPositional - 1; i >= 0; i-- {
		positional[i] = fr.Pop()
	}
	callee := fr.Pop()
	call := &arguments.Arguments{
		Positional: positional,
		Names:      site.Names,
		Named:      named,
		Args:       starArgs,
		HasArgs:    hasStar,
		KWargs:     kwargs,
		HasKWargs:  hasKWargs,
	}
	return host.Call(callee, call)
}

func isTruthy(v heap.Value) bool {
	if i, ok := v.UnpackInt(); ok {
		return i != 0
	}
	if heap.IsNone(v) {
		return false
	}
	if s, ok := heap.AsString(v); ok {
		return s != ""
	}
	if elems, ok := heap.AsTuple(v); ok {
		return len(elems) != 0
	}
	if elems, ok := heap.AsList(v); ok {
		return len(elems) != 0
	}
	if heap.IsDict(v) {
		return heap.DictLen(v) != 0
	}
	return true
}

func indexValue(coll, idx heap.Value) (heap.Value, error) {
	if heap.IsDict(coll) {
		v, ok := heap.DictGet(coll, idx)
		if !ok {
			return heap.Value(0), fmt.Errorf("key not found in dict")
		}
		return v, nil
	}
	i, ok := idx.UnpackInt()
	if !ok {
		return heap.Value(0), fmt.Errorf("index must be an int")
	}
	if elems, ok := heap.AsList(coll); ok {
		return indexSlice(elems, i)
	}
	if elems, ok := heap.AsTuple(coll); ok {
		return indexSlice(elems, i)
	}
	return heap.Value(0), fmt.Errorf("value is not indexable")
}

func lengthOf(v heap.Value) (int, error) {
	if elems, ok := heap.AsList(v); ok {
		return len(elems), nil
	}
	if elems, ok := heap.AsTuple(v); ok {
		return len(elems), nil
	}
	if heap.IsDict(v) {
		return heap.DictLen(v), nil
	}
	if s, ok := heap.AsString(v); ok {
		return len(s), nil
	}
	return 0, fmt.Errorf("value has no len()")
}

func indexSlice(elems []heap.Value, i int32) (heap.Value, error) {
	if i < 0 || int(i) >= len(elems) {
		return heap.Value(0), fmt.Errorf("index %d out of range (len %d)", i, len(elems))
	}
	return elems[i], nil
}
