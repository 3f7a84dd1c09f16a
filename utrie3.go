// Copyright 2024 The utrie3 Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package utrie3

import (
	"fmt"

	"github.com/cockroachdb/redact"
	"github.com/jbowens/utrie3/internal/base"
	"github.com/jbowens/utrie3/internal/blockstore"
	"github.com/jbowens/utrie3/internal/invariants"
)

// Code re-exports the error taxonomy from spec §7 so callers never need to
// import an internal package to classify a returned error.
type Code = base.Code

// The five taxonomy members from spec §7.
const (
	CodeIllegalArgument   = base.CodeIllegalArgument
	CodeNoWritePermission = base.CodeNoWritePermission
	CodeMemoryAllocation  = base.CodeMemoryAllocation
	CodeIndexOutOfBounds  = base.CodeIndexOutOfBounds
	CodeInvalidFormat     = base.CodeInvalidFormat
)

// CodeOf recovers the taxonomy Code attached to err by this package, or
// CodeNone if err wasn't produced here.
func CodeOf(err error) Code { return base.CodeOf(err) }

// Trie is the mutable build-time representation of a code-point trie (spec
// component B). A zero Trie is not valid; construct one with Open.
//
// A Trie is mutable from construction until Freeze. Freeze is one-shot and
// terminal: it consumes the mutable representation (blocks, slot arrays)
// and leaves behind only the packed Frozen form, reachable through the
// *Frozen returned by Freeze.
type Trie struct {
	initialValue uint32
	errorValue   uint32

	// highStart is the block-aligned code point beyond which every slot is
	// implicit and reads as highValue. It grows monotonically during
	// build via ensureHighStart.
	highStart int32
	highValue uint32

	flags []flag
	index []uint32
	blocks blockstore.Store

	frozen   bool
	metrics  BuilderMetrics
}

// Open constructs a new mutable trie. Code points never explicitly set
// read as initialValue; queries for code points above 0x10FFFF return
// errorValue verbatim (errorValue is never masked, even on a 16-bit
// Freeze).
func Open(initialValue, errorValue uint32) *Trie {
	t := &Trie{
		initialValue: initialValue,
		errorValue:   errorValue,
		highValue:    initialValue,
	}
	return t
}

// Clone returns a deep copy of a mutable trie: its own block store and
// slot arrays, entirely independent of the original. Clone fails with
// CodeIllegalArgument if other is frozen.
func Clone(other *Trie) (*Trie, error) {
	if other == nil {
		return nil, base.NewIllegalArgumentError("utrie3: Clone of nil trie")
	}
	if other.frozen {
		return nil, base.NewIllegalArgumentError("utrie3: Clone of frozen trie")
	}
	c := &Trie{
		initialValue: other.initialValue,
		errorValue:   other.errorValue,
		highStart:    other.highStart,
		highValue:    other.highValue,
		flags:        append([]flag(nil), other.flags...),
		index:        append([]uint32(nil), other.index...),
		blocks:       *other.blocks.Clone(),
	}
	return c, nil
}

// Clone returns a deep copy of t. It is equivalent to the package-level
// Clone(t) and exists as a method for ergonomic chaining.
func (t *Trie) Clone() (*Trie, error) { return Clone(t) }

// IsFrozen reports whether Freeze has already been called on t.
func (t *Trie) IsFrozen() bool { return t != nil && t.frozen }

// Close releases t's memory. It is safe to call on a trie in either state,
// and safe to call more than once. Go's garbage collector reclaims the
// backing arrays once Close drops t's references, mirroring the spec's
// "close releases all memory" contract without requiring an explicit
// allocator.
func (t *Trie) Close() {
	if t == nil {
		return
	}
	t.flags = nil
	t.index = nil
	t.blocks = blockstore.Store{}
}

// Metrics returns a snapshot of the builder-side counters accumulated so
// far (block allocations, block store growths). See SPEC_FULL.md §6.3.
func (t *Trie) Metrics() BuilderMetrics { return t.metrics }

// String implements fmt.Stringer.
func (t *Trie) String() string {
	return fmt.Sprintf("Trie{highStart=%#x, highValue=%d, frozen=%v}", uint32(t.highStart), t.highValue, t.frozen)
}

// Assert that Trie implements redact.SafeFormatter: the trie's own shape
// (highStart, frozen) is safe to log, but the caller-supplied
// initialValue/errorValue/highValue are not, since callers may encode
// sensitive classification data as property values.
var _ redact.SafeFormatter = (*Trie)(nil)

// SafeFormat implements redact.SafeFormatter.
func (t *Trie) SafeFormat(w redact.SafePrinter, _ rune) {
	w.SafeString(redact.SafeString(fmt.Sprintf("Trie{highStart=%#x, frozen=%v}", uint32(t.highStart), t.frozen)))
	if !invariants.Enabled {
		return
	}
	w.Printf(" initialValue=%d highValue=%d errorValue=%d", t.initialValue, t.highValue, t.errorValue)
}

// invariantCheckSlotRange panics (only in invariants/race builds) if i is
// out of range for t's slot arrays. It exists purely to localize the
// repeated bounds-assertion idiom used throughout mutable.go/query.go.
func (t *Trie) invariantCheckSlotRange(i int) {
	if invariants.Enabled && (i < 0 || i >= len(t.flags)) {
		panic(fmt.Sprintf("utrie3: slot %d out of range [0, %d)", i, len(t.flags)))
	}
}

// ensureNotFrozen returns ErrNoWritePermission if t has already been
// frozen; every mutator calls this first.
func (t *Trie) ensureNotFrozen() error {
	if t.frozen {
		return base.ErrNoWritePermission
	}
	return nil
}
