// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/starlet/internal/heap"
)

// formatValue renders a Value the way a REPL or `eval` invocation reports
// its result: None prints nothing-visible as "None", strings are quoted,
// and lists/tuples/dicts recurse. There is no separate bool kind in this
// dialect (true/false compile to the ints 1/0), so an int always prints
// as a plain number, never as True/False.
func formatValue(v heap.Value) string {
	if heap.IsNone(v) {
		return "None"
	}
	if i, ok := v.UnpackInt(); ok {
		return strconv.FormatInt(int64(i), 10)
	}
	if s, ok := heap.AsString(v); ok {
		return strconv.Quote(s)
	}
	if elems, ok := heap.AsList(v); ok {
		return "[" + formatElems(elems) + "]"
	}
	if elems, ok := heap.AsTuple(v); ok {
		return "(" + formatElems(elems) + ")"
	}
	if heap.IsDict(v) {
		var parts []string
		heap.DictIter(v, func(key, val heap.Value) bool {
			parts = append(parts, fmt.Sprintf("%s: %s", formatValue(key), formatValue(val)))
			return true
		})
		return "{" + strings.Join(parts, ", ") + "}"
	}
	return "<value>"
}

func formatElems(elems []heap.Value) string {
	parts := make([]string, len(elems))
	for i, e := range elems {
		parts[i] = formatValue(e)
	}
	return strings.Join(parts, ", ")
}
