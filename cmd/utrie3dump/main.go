// Copyright 2024 The utrie3 Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

// Command utrie3dump reads a serialized trie from a file and prints its size
// in bytes plus the value of each code point given on the command line, for
// debugging a frozen trie without writing a throwaway test. It does not
// print the header fields. SPEC_FULL.md §10.4.
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/jbowens/utrie3"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s <trie-file> [code-point ...]\n", os.Args[0])
	}
	flag.Parse()
	args := flag.Args()
	if len(args) < 1 {
		flag.Usage()
		os.Exit(2)
	}

	b, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Fprintln(os.Stderr, "utrie3dump:", err)
		os.Exit(1)
	}

	frozen, err := utrie3.Parse(b)
	if err != nil {
		fmt.Fprintln(os.Stderr, "utrie3dump: parse failed:", err)
		os.Exit(1)
	}

	fmt.Printf("%d bytes\n", len(b))
	for _, arg := range args[1:] {
		cp, err := strconv.ParseInt(arg, 0, 64)
		if err != nil {
			fmt.Fprintf(os.Stderr, "utrie3dump: bad code point %q: %v\n", arg, err)
			continue
		}
		fmt.Printf("U+%04X -> %d\n", cp, frozen.Get(rune(cp)))
	}
}
