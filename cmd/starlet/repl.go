// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"golang.org/x/starlet/internal/compiler"
	"golang.org/x/starlet/internal/eval"
	"golang.org/x/starlet/internal/loader"
	"golang.org/x/starlet/internal/module"
	"golang.org/x/starlet/internal/syntax"
)

func newReplCmd() *cobra.Command {
	var trace bool
	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Start an interactive read-eval-print loop",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRepl(trace)
		},
	}
	cmd.Flags().BoolVar(&trace, "trace", false, "print the source span of every statement as it executes")
	return cmd
}

// runRepl drives one Evaluator, and one persistent module, across every
// line entered: names assigned on one line stay visible on the next,
// the way a script's top level would. Blocks (anything introduced by a
// trailing ':') are buffered across multiple Readline calls until the
// matching `end` closes them, since the dialect's blocks are
// keyword-delimited rather than indentation-sensitive (§9's
// redesign-flag simplification).
func runRepl(trace bool) error {
	rl, err := readline.New(">>> ")
	if err != nil {
		return err
	}
	defer rl.Close()

	globals := module.NewGlobalsBuilder().Build()
	mod := module.New("<repl>")
	ev := eval.New(mod, globals, loader.NullLoader{})
	if trace {
		ev.SetStmtHook(func(span syntax.Span, ev *eval.Evaluator) error {
			fmt.Fprintf(readline.Stdout, "... %s\n", span)
			return nil
		})
	}

	var pending []string
	open := 0
	for {
		prompt := ">>> "
		if open > 0 {
			prompt = "... "
		}
		rl.SetPrompt(prompt)
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			if len(pending) == 0 {
				continue
			}
			pending = nil
			open = 0
			continue
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		trimmed := strings.TrimSpace(line)
		pending = append(pending, line)
		if strings.HasSuffix(trimmed, ":") {
			// else: continues the open if block; one end closes both.
			if !strings.HasPrefix(trimmed, "else") {
				open++
			}
			continue
		}
		if trimmed == "end" {
			open--
		}
		if open > 0 {
			continue
		}

		source := strings.Join(pending, "\n") + "\n"
		pending = nil
		open = 0
		if strings.TrimSpace(source) == "" {
			continue
		}
		replEvalLine(ev, mod, source)
	}
}

func replEvalLine(ev *eval.Evaluator, mod *module.Module, source string) {
	f, err := syntax.Parse("<repl>", source)
	if err != nil {
		fmt.Println(err)
		return
	}
	chunk, err := compiler.Compile(f, ev.Heap(), mod.SlotOf)
	if err != nil {
		fmt.Println(err)
		return
	}
	if _, err := ev.Run(chunk); err != nil {
		fmt.Println(err)
	}
}
