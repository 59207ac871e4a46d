// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bytecode

import (
	"fmt"

	"golang.org/x/starlet/internal/heap"
)

// evalBinary implements the small fixed set of binary operators the
// dialect needs to drive the nucleus end to end: int arithmetic, string
// and list/tuple concatenation, and structural comparison built directly
// on Value.Equal (§1's "no general object identity — equality is
// structural"). and/or are evaluated eagerly rather than
// short-circuited — the compiler emits both operand pushes unconditionally
// before OpBinary, a simplification of the dialect's real short-circuit
// semantics recorded as an open-question resolution in DESIGN.md.
func evalBinary(h *heap.Heap, op BinOp, x, y heap.Value) (heap.Value, error) {
	switch op {
	case BinEq:
		return boolValue(x.Equal(y)), nil
	case BinNeq:
		return boolValue(!x.Equal(y)), nil
	case BinAnd:
		if !isTruthy(x) {
			return x, nil
		}
		return y, nil
	case BinOr:
		if isTruthy(x) {
			return x, nil
		}
		return y, nil
	}

	if xi, ok := x.UnpackInt(); ok {
		yi, ok := y.UnpackInt()
		if !ok {
			return heap.Value(0), fmt.Errorf("unsupported operand types for binary operator: int and non-int")
		}
		switch op {
		case BinAdd:
			return heap.FromInt(xi + yi), nil
		case BinSub:
			return heap.FromInt(xi - yi), nil
		case BinMul:
			return heap.FromInt(xi * yi), nil
		case BinDiv:
			if yi == 0 {
				return heap.Value(0), fmt.Errorf("division by zero")
			}
			return heap.FromInt(xi / yi), nil
		case BinMod:
			if yi == 0 {
				return heap.Value(0), fmt.Errorf("division by zero")
			}
			return heap.FromInt(xi % yi), nil
		case BinLt:
			return boolValue(xi < yi), nil
		case BinLe:
			return boolValue(xi <= yi), nil
		case BinGt:
			return boolValue(xi > yi), nil
		case BinGe:
			return boolValue(xi >= yi), nil
		}
	}

	if xs, ok := heap.AsString(x); ok {
		ys, ok := heap.AsString(y)
		if !ok {
			return heap.Value(0), fmt.Errorf("unsupported operand types for binary operator: string and non-string")
		}
		switch op {
		case BinAdd:
			return h.NewString(xs + ys), nil
		case BinLt:
			return boolValue(xs < ys), nil
		case BinLe:
			return boolValue(xs <= ys), nil
		case BinGt:
			return boolValue(xs > ys), nil
		case BinGe:
			return boolValue(xs >= ys), nil
		}
	}

	if xe, ok := heap.AsList(x); ok {
		if op == BinAdd {
			ye, ok := heap.AsList(y)
			if !ok {
				return heap.Value(0), fmt.Errorf("can only concatenate list with list")
			}
			combined := append(append([]heap.Value{}, xe...), ye...)
			return h.NewList(combined), nil
		}
	}

	if xe, ok := heap.AsTuple(x); ok {
		if op == BinAdd {
			ye, ok := heap.AsTuple(y)
			if !ok {
				return heap.Value(0), fmt.Errorf("can only concatenate tuple with tuple")
			}
			combined := append(append([]heap.Value{}, xe...), ye...)
			return h.NewTuple(combined), nil
		}
	}

	return heap.Value(0), fmt.Errorf("unsupported operand types for binary operator")
}

func evalUnary(h *heap.Heap, op UnOp, x heap.Value) (heap.Value, error) {
	switch op {
	case UnNeg:
		i, ok := x.UnpackInt()
		if !ok {
			return heap.Value(0), fmt.Errorf("unary minus requires an int operand")
		}
		return heap.FromInt(-i), nil
	case UnNot:
		return boolValue(!isTruthy(x)), nil
	default:
		return heap.Value(0), fmt.Errorf("unknown unary operator")
	}
}

// boolValue encodes a Go bool as the dialect's in-word int 1/0 — the
// Value tagging scheme (§4.1) reserves bits only for INT and STR, so
// booleans ride the existing int encoding rather than a fourth tag.
func boolValue(b bool) heap.Value {
	if b {
		return heap.FromInt(1)
	}
	return heap.FromInt(0)
}
