//go:build invariants || race
// +build invariants race

// Package invariants centralizes the compile-time switch for expensive
// consistency checks used while building a trie. Code should guard checks
// with `if invariants.Enabled { ... }` so that they compile away entirely in
// release builds.
package invariants

// Enabled is true when the binary was built with the "invariants" (or
// "race") build tag.
const Enabled = true
