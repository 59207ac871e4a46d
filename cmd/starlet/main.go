// Copyright 2015 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command starlet is a command-line front end for the starlet runtime
// nucleus: run a script file, evaluate a single expression, or drive an
// interactive read-eval-print loop against the per-statement hook.
package main

import (
	"log"

	"github.com/spf13/cobra"
)

func main() {
	log.SetFlags(0)
	root := &cobra.Command{
		Use:   "starlet",
		Short: "Run scripts against the starlet evaluation nucleus",
	}
	root.AddCommand(newRunCmd())
	root.AddCommand(newEvalCmd())
	root.AddCommand(newReplCmd())

	if err := root.Execute(); err != nil {
		log.Fatal(err)
	}
}
