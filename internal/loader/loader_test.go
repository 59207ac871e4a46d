// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package loader

import (
	"testing"

	"golang.org/x/starlet/internal/heap"
	"golang.org/x/starlet/internal/module"
)

func TestMapLoaderResolvesFrozenModule(t *testing.T) {
	h := heap.New()
	m := module.New("greetings")
	i := m.SlotOf("hello")
	m.Set(i, h.NewString("hi"))
	m.FreezeWith(h)

	ml := MapLoader{"greetings.star": m}
	got, err := ml.Load("greetings.star")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != m {
		t.Fatalf("Load returned a different module")
	}
}

func TestMapLoaderMissingPath(t *testing.T) {
	ml := MapLoader{}
	if _, err := ml.Load("missing.star"); err == nil {
		t.Fatalf("expected error for unregistered path")
	}
}

func TestMapLoaderRejectsUnfrozenModule(t *testing.T) {
	m := module.New("unfrozen")
	ml := MapLoader{"bad.star": m}
	if _, err := ml.Load("bad.star"); err == nil {
		t.Fatalf("expected error for an unfrozen module")
	}
}

func TestNullLoaderAlwaysErrors(t *testing.T) {
	var l NullLoader
	if _, err := l.Load("anything"); err == nil {
		t.Fatalf("expected error from NullLoader")
	}
}
