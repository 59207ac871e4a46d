// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package loader defines the single external collaborator interface
// through which an Evaluator resolves a script's module-load directives
// (§6, "Loader"). The core only consumes this interface; concrete loaders
// (filesystem, embedded, in-memory for tests) live outside the nucleus.
package loader

import (
	"fmt"

	"golang.org/x/starlet/internal/module"
)

// FileLoader resolves a module-load directive's path to an already-frozen
// module. Implementations must never return an unfrozen module — the
// evaluator does not freeze on the loader's behalf, matching §6's "load(path)
// → FrozenModule | Error" contract exactly.
type FileLoader interface {
	Load(path string) (*module.Module, error)
}

// MapLoader is an in-memory FileLoader keyed by exact path match, used by
// tests and by hosts that pre-resolve imports ahead of time rather than
// touching the filesystem during evaluation.
type MapLoader map[string]*module.Module

// Load implements FileLoader.
func (m MapLoader) Load(path string) (*module.Module, error) {
	mod, ok := m[path]
	if !ok {
		return nil, fmt.Errorf("loader: no module registered for %q", path)
	}
	if !mod.IsFrozen() {
		return nil, fmt.Errorf("loader: module %q registered unfrozen", path)
	}
	return mod, nil
}

// NullLoader rejects every load, for evaluations that are known never to
// import anything.
type NullLoader struct{}

// Load implements FileLoader.
func (NullLoader) Load(path string) (*module.Module, error) {
	return nil, fmt.Errorf("loader: load(%q) attempted with no loader configured", path)
}
