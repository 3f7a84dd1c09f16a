// Copyright 2024 The utrie3 Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package utrie3

import (
	"time"

	"github.com/jbowens/utrie3/internal/base"
	"github.com/jbowens/utrie3/internal/blockstore"
	"github.com/jbowens/utrie3/internal/serialize"
)

// Frozen is the immutable, serialized form of a trie produced by Freeze. It
// answers Get directly out of its packed index/data arrays; it never
// reconstructs the mutable representation.
type Frozen struct {
	bytes  []byte
	parsed *serialize.Parsed
}

// Bytes returns the packed wire representation (spec §6.2): header, index
// array, then data array, all little-endian.
func (f *Frozen) Bytes() []byte { return f.bytes }

// Get mirrors Trie.Get over the frozen representation.
func (f *Frozen) Get(c rune) uint32 { return f.parsed.Get(int32(c)) }

// Parse reads a serialized trie back into a *Frozen, the counterpart to
// Freeze for a trie received over the wire rather than built locally.
// SPEC_FULL.md §10.3.
func Parse(b []byte) (*Frozen, error) {
	p, err := serialize.Parse(b)
	if err != nil {
		return nil, err
	}
	return &Frozen{bytes: append([]byte(nil), b...), parsed: p}, nil
}

// maskValues ANDs every value the trie currently holds with mask. Freeze
// calls this before compacting when valueBits is 16, per spec §4.6:
// initialValue, highValue, every ALL_SAME slot's value, and every
// block-store entry are masked; errorValue never is.
func (t *Trie) maskValues(mask uint32) {
	t.initialValue &= mask
	t.highValue &= mask
	for i := range t.flags {
		if t.flags[i].variant() == flagAllSame {
			t.index[i] &= mask
		}
	}
	t.blocks.MaskAll(mask)
}

// Freeze compacts and serializes t, consuming its mutable representation.
// valueBits must be 16 or 32. metrics may be nil. On success t is left
// frozen (IsFrozen reports true) and every mutator returns
// NO_WRITE_PERMISSION; on failure t remains mutable and the caller may
// retry after addressing the cause (spec §7). Spec §4.6.
func (t *Trie) Freeze(valueBits int, metrics *FreezeMetrics) (*Frozen, error) {
	if err := t.ensureNotFrozen(); err != nil {
		return nil, err
	}
	if valueBits != 16 && valueBits != 32 {
		return nil, base.NewIllegalArgumentError("utrie3: valueBits must be 16 or 32, got %d", valueBits)
	}

	start := time.Now()
	// Mask and compact a copy, so that t is unchanged if serialization fails.
	work, err := Clone(t)
	if err != nil {
		return nil, err
	}
	if valueBits == 16 {
		work.maskValues(0xFFFF)
	}

	cs := work.compact()

	index := make([]uint32, 0, BMPILimit+len(cs.index1)+len(cs.suppIndex2))
	index = append(index, cs.bmpIndex2...)
	index = append(index, cs.index1...)
	index = append(index, cs.suppIndex2...)

	in := serialize.Input{
		ValueBits:        valueBits,
		HighStart:        cs.highStart,
		HighValue:        cs.highValue,
		ErrorValue:       t.errorValue,
		Index:            index,
		Index1Length:     len(cs.index1),
		PadCount:         cs.suppPad,
		DataNullOffset:   cs.dataNullOffset,
		Index2NullOffset: cs.index2NullOffset,
		Data:             cs.dataArray,
	}
	bytes, err := serialize.Write(in)
	if err != nil {
		return nil, err
	}

	parsed, err := serialize.Parse(bytes)
	if err != nil {
		return nil, err
	}

	metrics.observeDuration(time.Since(start))
	metrics.addDeduped(int64(cs.stats.SameAsSlots))
	metrics.addOverlapped(int64(cs.stats.WordsOverlapped))

	t.frozen = true
	t.flags = nil
	t.index = nil
	t.blocks = blockstore.Store{}

	return &Frozen{bytes: bytes, parsed: parsed}, nil
}
