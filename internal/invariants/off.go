//go:build !invariants && !race
// +build !invariants,!race

package invariants

// Enabled is true when the binary was built with the "invariants" (or
// "race") build tag.
const Enabled = false
