// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"golang.org/x/starlet/internal/compiler"
	"golang.org/x/starlet/internal/eval"
	"golang.org/x/starlet/internal/loader"
	"golang.org/x/starlet/internal/module"
	"golang.org/x/starlet/internal/syntax"
)

func newEvalCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "eval <expr>",
		Short: "Evaluate a single expression and print its value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := evalExpr(args[0])
			if err != nil {
				return err
			}
			fmt.Println(v)
			return nil
		},
	}
}

// evalExpr runs expr as the right-hand side of a throwaway top-level
// assignment and reports the assigned value — the compiler only ever
// lets a bare expression statement's value be discarded (OpPop), so
// recovering it means binding it to a name the way any other top-level
// value would be.
func evalExpr(expr string) (string, error) {
	const resultName = "__result__"
	source := resultName + " = (" + expr + ")\n"
	f, err := syntax.Parse("<eval>", source)
	if err != nil {
		return "", fmt.Errorf("parse: %w", err)
	}
	globals := module.NewGlobalsBuilder().Build()
	mod := module.New("<eval>")
	ev := eval.New(mod, globals, loader.NullLoader{})
	chunk, err := compiler.Compile(f, ev.Heap(), mod.SlotOf)
	if err != nil {
		return "", fmt.Errorf("compile: %w", err)
	}
	if _, err := ev.Run(chunk); err != nil {
		return "", fmt.Errorf("run: %w", err)
	}
	v, ok := ev.LookupName(resultName)
	if !ok {
		return "", fmt.Errorf("expression produced no value")
	}
	return formatValue(v), nil
}
