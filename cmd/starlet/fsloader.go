// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/starlet/internal/compiler"
	"golang.org/x/starlet/internal/eval"
	"golang.org/x/starlet/internal/loader"
	"golang.org/x/starlet/internal/module"
	"golang.org/x/starlet/internal/syntax"
)

// fsLoader resolves load() directives against files on disk, relative to
// baseDir, running and freezing each one on first reference and caching
// the result for every subsequent load() of the same path — it lives in
// cmd/starlet rather than internal/loader because resolving a path means
// running a nested Evaluator, and internal/loader must not import
// internal/eval (the Evaluator already imports loader.FileLoader).
type fsLoader struct {
	baseDir string
	globals *module.Globals
	cache   map[string]*module.Module
}

func newFSLoader(baseDir string, globals *module.Globals) *fsLoader {
	return &fsLoader{baseDir: baseDir, globals: globals, cache: map[string]*module.Module{}}
}

// Load implements loader.FileLoader.
func (l *fsLoader) Load(path string) (*module.Module, error) {
	if mod, ok := l.cache[path]; ok {
		return mod, nil
	}
	full := filepath.Join(l.baseDir, path)
	src, err := os.ReadFile(full)
	if err != nil {
		return nil, fmt.Errorf("loader: %w", err)
	}
	f, err := syntax.Parse(full, string(src))
	if err != nil {
		return nil, fmt.Errorf("loader: %s: %w", full, err)
	}
	mod := module.New(path)
	ev := eval.New(mod, l.globals, newFSLoader(filepath.Dir(full), l.globals))
	chunk, err := compiler.Compile(f, ev.Heap(), mod.SlotOf)
	if err != nil {
		return nil, fmt.Errorf("loader: %s: %w", full, err)
	}
	if _, err := ev.Run(chunk); err != nil {
		return nil, fmt.Errorf("loader: %s: %w", full, err)
	}
	ev.Freeze()
	l.cache[path] = mod
	return mod, nil
}

var _ loader.FileLoader = (*fsLoader)(nil)
