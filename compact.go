// Copyright 2024 The utrie3 Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package utrie3

import (
	"github.com/jbowens/utrie3/internal/blockhash"
	"github.com/jbowens/utrie3/internal/compact"
)

// compactionState holds everything the serializer needs once the
// three-phase compactor (spec §4.5) has run. It replaces the mutable
// slot/block representation; nothing here is mutated again.
type compactionState struct {
	highStart int32
	highValue uint32

	dataArray      []uint32
	dataNullOffset int // NoDataNullOffset sentinel, or a valid dataArray offset

	bmpIndex2 []uint32 // length BMPILimit; raw (pre dataMove/shift) data offsets
	index1    []uint32 // length index1Length; absolute final index positions, written verbatim
	suppIndex2 []uint32 // raw (pre dataMove/shift) data offsets for the supplementary tail
	suppPad    int      // 0 or 1 literal 0xFFFE padding entries appended after suppIndex2

	index2NullOffset int // NoIndex2NullOffset sentinel, or a valid absolute index position

	stats compact.Stats
}

// indexLength is the total number of 16-bit index entries the serializer
// will emit: the BMP index-2 table, the supplementary index-1 table (if
// any), and the (possibly padded) supplementary index-2 tail.
func (c *compactionState) indexLength() int {
	return BMPILimit + len(c.index1) + len(c.suppIndex2) + c.suppPad
}

// mruEntry is one slot of the bounded MRU table used by
// compactWholeDataBlocks to dedup ALL_SAME slots (spec §4.5.2, Open
// Question #2 in DESIGN.md).
type mruEntry struct {
	used     bool
	value    uint32
	slot     int
	refcount int
}

const mruCapacity = 32

type mruTable struct {
	entries [mruCapacity]mruEntry
	n       int
}

// lookup returns the slot recorded for value and bumps its refcount, or
// (-1, false) if value isn't tracked.
func (m *mruTable) lookup(value uint32) (slot int, ok bool) {
	for i := 0; i < m.n; i++ {
		if m.entries[i].used && m.entries[i].value == value {
			m.entries[i].refcount++
			return m.entries[i].slot, true
		}
	}
	return -1, false
}

// insert adds a new (value, slot) pair, evicting the lowest-refcount entry
// if the table is already full. It never fails and returns nothing: overflow
// survives, per spec §4.5.2.
func (m *mruTable) insert(value uint32, slot int) {
	if m.n < mruCapacity {
		m.entries[m.n] = mruEntry{used: true, value: value, slot: slot, refcount: 1}
		m.n++
		return
	}
	lowest := 0
	for i := 1; i < m.n; i++ {
		if m.entries[i].refcount < m.entries[lowest].refcount {
			lowest = i
		}
	}
	m.entries[lowest] = mruEntry{used: true, value: value, slot: slot, refcount: 1}
}

// mostUsedSlot returns the slot of the highest-refcount entry, used to pick
// dataNullIndex once compactWholeDataBlocks finishes with the ALL_SAME
// slots. Returns (-1, false) if the table is empty.
func (m *mruTable) mostUsedSlot() (slot int, ok bool) {
	best := -1
	for i := 0; i < m.n; i++ {
		if !m.entries[i].used {
			continue
		}
		if best == -1 || m.entries[i].refcount > m.entries[best].refcount {
			best = i
		}
	}
	if best == -1 {
		return -1, false
	}
	return m.entries[best].slot, true
}

// growSlotsArraysTo extends t.flags/t.index to length newLen (in slots),
// filling every new slot as ALL_SAME/value, without touching t.highStart.
// Used by compact() to materialize the BMP-always-represented padding and
// the Shift1-boundary rounding from spec §4.5.1.
func (t *Trie) growSlotsArraysTo(newLen int, value uint32) {
	if newLen <= len(t.flags) {
		return
	}
	grown := make([]flag, newLen)
	copy(grown, t.flags)
	growni := make([]uint32, newLen)
	copy(growni, t.index)
	for i := len(t.flags); i < newLen; i++ {
		grown[i] = flagAllSame
		growni[i] = value
	}
	t.flags, t.index = grown, growni
}

// slotMatchesHighValue reports whether slot i (which must currently be
// ALL_SAME or MIXED) already holds nothing but highValue.
func (t *Trie) slotMatchesHighValue(i int) bool {
	switch t.flags[i].variant() {
	case flagAllSame:
		return t.index[i] == t.highValue
	case flagMixed:
		offset := int(t.index[i])
		for j := 0; j < DataBlockLength; j++ {
			if t.blocks.Get(offset+j) != t.highValue {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// findHighStart implements spec §4.5.1: it shrinks highStart to collapse a
// matching tail into the implicit highValue region, rounds the result up
// to a CPPerIndex1Entry boundary (materializing slots as needed), and
// ensures the BMP region is always fully represented. It returns
// suppHighStart, the boundary later phases use to decide whether any
// supplementary index-1 table exists.
func (t *Trie) findHighStart() (suppHighStart int32) {
	// highValue is recomputed from the trie's actual current content at
	// the top code point, not read off the stale t.highValue field: a
	// caller may have explicitly Set the highest code point to something
	// other than initialValue, and the scan below must collapse against
	// that value, not against whatever highValue happened to default to.
	t.highValue = t.Get(MaxCodePoint)

	i := int(t.highStart>>Shift2) - 1
	for i >= 0 && t.slotMatchesHighValue(i) {
		i--
	}
	newHighStart := int32(i+1) * DataBlockLength

	rounded := (newHighStart + CPPerIndex1Entry - 1) &^ (CPPerIndex1Entry - 1)
	if rounded > t.highStart {
		t.growSlotsArraysTo(int(rounded)>>Shift2, t.highValue)
	}
	t.highStart = rounded
	if t.highStart == SupplementaryLimit {
		t.highValue = t.initialValue
	}

	suppHighStart = t.highStart
	if t.highStart <= BMPLimit {
		t.growSlotsArraysTo(BMPILimit, t.highValue)
		suppHighStart = BMPLimit
	}
	return suppHighStart
}

// blocksEqual reports whether two DataBlockLength-word blocks are
// word-for-word identical.
func blocksEqual(a, b []uint32) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// wholeBlockResult summarizes what compactWholeDataBlocks found: its stats,
// the null-block slot and the unique word count.
type wholeBlockResult struct {
	stats          compact.Stats
	dataNullSlot   int // -1 if no ALL_SAME value was ever tracked
	uniqueWords    int
}

// compactWholeDataBlocks implements spec §4.5.2: flatten uniform MIXED
// blocks to ALL_SAME, dedup MIXED blocks against earlier MIXED blocks,
// dedup ALL_SAME slots via the bounded MRU table (falling back to a linear
// scan on overflow), and mark SUPP_DATA on any BMP slot matched from a
// supplementary slot. Returns the total word count of the surviving unique
// blocks and the slot whose value should back the shared null data block.
func (t *Trie) compactWholeDataBlocks(nSlots int) wholeBlockResult {
	// Flatten uniform MIXED blocks first, so MIXED-vs-MIXED dedup below
	// only ever compares genuinely mixed content.
	for i := 0; i < nSlots; i++ {
		if t.flags[i].variant() != flagMixed {
			continue
		}
		offset := int(t.index[i])
		block := t.blocks.Block(offset, DataBlockLength)
		uniform := true
		v := block[0]
		for _, w := range block[1:] {
			if w != v {
				uniform = false
				break
			}
		}
		if uniform {
			t.flags[i] = flagAllSame
			t.index[i] = v
		}
	}

	type mixedCandidate struct {
		slot  int
		block []uint32
	}
	byHash := make(map[uint64][]mixedCandidate)
	var allSameSlots []int // fallback linear-scan history for MRU overflow
	mru := &mruTable{}

	uniqueMixed := 0
	uniqueAllSame := 0
	sameAsCount := 0

	for i := 0; i < nSlots; i++ {
		switch t.flags[i].variant() {
		case flagMixed:
			offset := int(t.index[i])
			block := t.blocks.Block(offset, DataBlockLength)
			h := blockhash.Hash(block)
			matched := -1
			for _, cand := range byHash[h] {
				if blocksEqual(cand.block, block) {
					matched = cand.slot
					break
				}
			}
			if matched >= 0 {
				t.flags[i] = flagSameAs
				t.index[i] = uint32(matched)
				sameAsCount++
				if i >= BMPILimit && matched < BMPILimit {
					t.flags[matched] = t.flags[matched].withSuppData()
				}
			} else {
				byHash[h] = append(byHash[h], mixedCandidate{slot: i, block: block})
				uniqueMixed++
			}
		case flagAllSame:
			value := t.index[i]
			if slot, ok := mru.lookup(value); ok {
				t.flags[i] = flagSameAs
				t.index[i] = uint32(slot)
				sameAsCount++
				if i >= BMPILimit && slot < BMPILimit {
					t.flags[slot] = t.flags[slot].withSuppData()
				}
				continue
			}
			// Not in the MRU: fall back to a linear scan over every
			// earlier ALL_SAME slot we've tracked, per spec's "overflow
			// survives, it does not fail".
			matched := -1
			for _, slot := range allSameSlots {
				if t.index[slot] == value {
					matched = slot
					break
				}
			}
			if matched >= 0 {
				t.flags[i] = flagSameAs
				t.index[i] = uint32(matched)
				sameAsCount++
				if i >= BMPILimit && matched < BMPILimit {
					t.flags[matched] = t.flags[matched].withSuppData()
				}
				continue
			}
			allSameSlots = append(allSameSlots, i)
			mru.insert(value, i)
			uniqueAllSame++
		}
	}

	dataNullSlot := -1
	if slot, ok := mru.mostUsedSlot(); ok {
		dataNullSlot = slot
	}

	return wholeBlockResult{
		stats: compact.Stats{
			UniqueMixedBlocks:   uniqueMixed,
			UniqueAllSameValues: uniqueAllSame,
			SameAsSlots:         sameAsCount,
		},
		dataNullSlot: dataNullSlot,
		uniqueWords:  DataBlockLength * (uniqueMixed + uniqueAllSame),
	}
}
