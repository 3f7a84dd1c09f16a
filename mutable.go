// Copyright 2024 The utrie3 Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package utrie3

import (
	"github.com/jbowens/utrie3/internal/base"
)

// ensureHighStart lazily grows the represented range so that c is no
// longer implicit: every slot from the old highStart up to (at least) the
// block containing c is materialized as ALL_SAME/initialValue. Spec §4.1.
func (t *Trie) ensureHighStart(c int32) {
	if c < t.highStart {
		return
	}
	newHighStart := (c + DataBlockLength) &^ (DataBlockLength - 1)
	if newHighStart > SupplementaryLimit {
		newHighStart = SupplementaryLimit
	}
	oldLen := int(t.highStart) >> Shift2
	newLen := int(newHighStart) >> Shift2
	if newLen > len(t.flags) {
		grown := make([]flag, newLen)
		copy(grown, t.flags)
		t.flags = grown
		growni := make([]uint32, newLen)
		copy(growni, t.index)
		t.index = growni
	}
	for i := oldLen; i < newLen; i++ {
		t.flags[i] = flagAllSame
		t.index[i] = t.initialValue
	}
	t.highStart = newHighStart
}

// getDataBlock returns the block-store offset of the MIXED block covering
// code point c, materializing an ALL_SAME slot into a fresh block first if
// necessary. Spec §4.1.
func (t *Trie) getDataBlock(c int32) (int, error) {
	i := int(c >> Shift2)
	t.invariantCheckSlotRange(i)
	if t.flags[i].variant() == flagMixed {
		return int(t.index[i]), nil
	}
	value := t.index[i]
	growthsBefore := t.blocks.Growths()
	offset, err := t.blocks.AllocBlockOrErr(value, DataBlockLength)
	if err != nil {
		return 0, err
	}
	t.metrics.BlocksAllocated++
	if grew := t.blocks.Growths() - growthsBefore; grew > 0 {
		t.metrics.BlockStoreGrowths += int64(grew)
	}
	t.flags[i] = flagMixed
	t.index[i] = uint32(offset)
	return offset, nil
}

// Set assigns v to code point c. It fails with CodeIllegalArgument if c
// exceeds 0x10FFFF, with CodeNoWritePermission if t is frozen, and with
// CodeMemoryAllocation if the block store cannot grow. Spec §4.2.
func (t *Trie) Set(c rune, v uint32) error {
	if err := t.ensureNotFrozen(); err != nil {
		return err
	}
	if c < 0 || int32(c) > MaxCodePoint {
		return base.NewIllegalArgumentError("utrie3: code point %#x out of range", c)
	}
	cp := int32(c)
	t.ensureHighStart(cp)
	offset, err := t.getDataBlock(cp)
	if err != nil {
		return err
	}
	t.blocks.Set(offset+int(cp&DataMask), v)
	return nil
}

// SetRange assigns v to every code point in [start, end] (inclusive). If
// overwrite is false, only code points currently reading as initialValue
// are changed; SetRange is a no-op in that case when v == initialValue.
// Spec §4.3.
func (t *Trie) SetRange(start, end rune, v uint32, overwrite bool) error {
	if err := t.ensureNotFrozen(); err != nil {
		return err
	}
	if start < 0 || end < 0 || int32(start) > MaxCodePoint || int32(end) > MaxCodePoint || start > end {
		return base.NewIllegalArgumentError("utrie3: bad range [%#x, %#x]", start, end)
	}
	if !overwrite && v == t.initialValue {
		return nil
	}
	s, e := int32(start), int32(end)
	t.ensureHighStart(e)

	// Leading partial block.
	if s&DataMask != 0 {
		blockEnd := (s &^ DataMask) + DataBlockLength
		limit := blockEnd
		if e+1 < limit {
			limit = e + 1
		}
		offset, err := t.getDataBlock(s)
		if err != nil {
			return err
		}
		for c := s; c < limit; c++ {
			idx := offset + int(c&DataMask)
			if overwrite || t.blocks.Get(idx) == t.initialValue {
				t.blocks.Set(idx, v)
			}
		}
		s = limit
		if s > e {
			return nil
		}
	}

	// Whole blocks.
	blockEnd := (e + 1) &^ DataMask
	for c := s; c < blockEnd; c += DataBlockLength {
		i := int(c >> Shift2)
		t.invariantCheckSlotRange(i)
		switch t.flags[i].variant() {
		case flagAllSame:
			if overwrite || t.index[i] == t.initialValue {
				t.index[i] = v
			}
		case flagMixed:
			offset := int(t.index[i])
			for j := 0; j < DataBlockLength; j++ {
				if overwrite || t.blocks.Get(offset+j) == t.initialValue {
					t.blocks.Set(offset+j, v)
				}
			}
		}
	}
	s = blockEnd

	// Trailing partial block.
	if s <= e {
		offset, err := t.getDataBlock(s)
		if err != nil {
			return err
		}
		rest := int(e&DataMask) + 1
		for j := 0; j < rest; j++ {
			idx := offset + j
			if overwrite || t.blocks.Get(idx) == t.initialValue {
				t.blocks.Set(idx, v)
			}
		}
	}
	return nil
}
