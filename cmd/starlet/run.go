// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"golang.org/x/starlet/internal/compiler"
	"golang.org/x/starlet/internal/eval"
	"golang.org/x/starlet/internal/module"
	"golang.org/x/starlet/internal/syntax"
)

func newRunCmd() *cobra.Command {
	var profile bool
	cmd := &cobra.Command{
		Use:   "run <file>",
		Short: "Run a script file as a module's top level",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFile(args[0], profile)
		},
	}
	cmd.Flags().BoolVar(&profile, "profile", false, "enable per-statement profiling (read back by a stmt hook; no-op without one)")
	return cmd
}

func runFile(path string, profile bool) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	f, err := syntax.Parse(path, string(src))
	if err != nil {
		return err
	}
	globals := module.NewGlobalsBuilder().Build()
	mod := module.New(filepath.Base(path))
	ev := eval.New(mod, globals, newFSLoader(filepath.Dir(path), globals))
	ev.SetProfiling(profile)

	chunk, err := compiler.Compile(f, ev.Heap(), mod.SlotOf)
	if err != nil {
		return fmt.Errorf("compile: %w", err)
	}
	if _, err := ev.Run(chunk); err != nil {
		return fmt.Errorf("run: %w", err)
	}
	return nil
}
