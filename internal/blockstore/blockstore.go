// Copyright 2024 The utrie3 Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

// Package blockstore implements the append-only, expanding array of value
// words that backs every MIXED data block in a mutable trie (spec component
// A). It has no notion of code points, slots or flags; it is purely "a
// []uint32 that grows in three fixed steps and never moves a live pointer
// into the caller's hands", the way the teacher's columnBuilder.grow grows a
// []byte buffer by doubling.
package blockstore

import (
	"github.com/jbowens/utrie3/internal/base"
)

// Growth steps, fixed by the spec: initial capacity, then two further caps.
// The final cap equals 0x110000, the number of code points, since in the
// degenerate case where every code point lands in its own freshly
// materialized block the store can be asked to hold that many words.
const (
	initialCapacity = 16384
	secondCapacity  = 131072
	finalCapacity   = 0x110000
)

// Store is a growable array of 32-bit value words. Offsets into a Store are
// stable across Alloc calls that don't require growth, but a caller must
// never retain a slice obtained from Slice/Block across an Alloc call that
// does grow the store: growth reallocates the backing array and copies.
type Store struct {
	data    []uint32
	growths int
}

// Len returns the number of words currently stored.
func (s *Store) Len() int { return len(s.data) }

// Growths returns the number of times ensureCapacity has actually
// reallocated the backing array, for callers that want to count block-store
// growths (e.g. BuilderMetrics.BlockStoreGrowths) without caring which
// AllocBlock call triggered each one.
func (s *Store) Growths() int { return s.growths }

// nextCapacity returns the next growth step beyond the store's current
// capacity, or 0 if the store is already at finalCapacity.
func nextCapacity(cur int) int {
	switch {
	case cur < initialCapacity:
		return initialCapacity
	case cur < secondCapacity:
		return secondCapacity
	case cur < finalCapacity:
		return finalCapacity
	default:
		return 0
	}
}

// ensureCapacity grows s.data's capacity (copying into a fresh backing
// array) until it can hold need words, or returns false if need exceeds
// finalCapacity.
func (s *Store) ensureCapacity(need int) bool {
	if need > finalCapacity {
		return false
	}
	if cap(s.data) >= need {
		return true
	}
	newCap := cap(s.data)
	if newCap == 0 {
		newCap = initialCapacity
	}
	for newCap < need {
		next := nextCapacity(newCap)
		if next == 0 || next <= newCap {
			if finalCapacity >= need {
				next = finalCapacity
			} else {
				return false
			}
		}
		newCap = next
	}
	newData := make([]uint32, len(s.data), newCap)
	copy(newData, s.data)
	s.data = newData
	s.growths++
	return true
}

// AllocBlock appends a new DATA_BLOCK_LENGTH-sized block filled with value,
// returning the offset at which it begins. It reports ok=false (and leaves
// the store unchanged) if growth would exceed the fixed final capacity.
func (s *Store) AllocBlock(value uint32, blockLength int) (offset int, ok bool) {
	need := len(s.data) + blockLength
	if !s.ensureCapacity(need) {
		return 0, false
	}
	offset = len(s.data)
	s.data = s.data[:need]
	for i := offset; i < need; i++ {
		s.data[i] = value
	}
	return offset, true
}

// Get returns the word at offset i.
func (s *Store) Get(i int) uint32 { return s.data[i] }

// Set writes v at offset i.
func (s *Store) Set(i int, v uint32) { s.data[i] = v }

// Block returns the blockLength-word slice beginning at offset. The caller
// must not retain the slice across a subsequent AllocBlock call.
func (s *Store) Block(offset, blockLength int) []uint32 {
	return s.data[offset : offset+blockLength]
}

// Clone returns a deep copy of the store, used by (*utrie3.Trie).Clone.
func (s *Store) Clone() *Store {
	c := &Store{data: make([]uint32, len(s.data))}
	copy(c.data, s.data)
	return c
}

// MaskAll ANDs every stored word with mask in place. Used by Freeze when
// masking a trie down to 16-bit values before compaction.
func (s *Store) MaskAll(mask uint32) {
	for i := range s.data {
		s.data[i] &= mask
	}
}

// AllocBlockOrErr is a convenience wrapper that returns the spec's
// MEMORY_ALLOCATION error instead of a bool.
func (s *Store) AllocBlockOrErr(value uint32, blockLength int) (int, error) {
	offset, ok := s.AllocBlock(value, blockLength)
	if !ok {
		return 0, base.NewMemoryAllocationError("utrie3: block store exhausted at %d words", len(s.data))
	}
	return offset, nil
}
