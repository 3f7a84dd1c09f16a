// Copyright 2024 The utrie3 Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package utrie3

// HandleValue is a pure, total transform applied to values during
// GetRange, letting a caller compare "equivalence classes" of values
// (e.g. masking to 16 bits early) rather than raw equality. Spec §9 design
// note: model as pure and total; GetRange memoizes handleValue(initialValue)
// and handleValue(highValue) once rather than recomputing them per
// comparison.
type HandleValue func(v uint32) uint32

func identityHandleValue(v uint32) uint32 { return v }

// Get returns the value assigned to code point c: errorValue if c is out
// of range, highValue if c is at or beyond highStart, or the value stored
// in c's slot otherwise. Spec §4.4.
func (t *Trie) Get(c rune) uint32 {
	if c < 0 || int32(c) > MaxCodePoint {
		return t.errorValue
	}
	cp := int32(c)
	if cp >= t.highStart {
		return t.highValue
	}
	i := int(cp >> Shift2)
	t.invariantCheckSlotRange(i)
	switch t.flags[i].variant() {
	case flagAllSame:
		return t.index[i]
	case flagMixed:
		return t.blocks.Get(int(t.index[i]) + int(cp&DataMask))
	default:
		return t.initialValue
	}
}

// GetRange returns the inclusive end of the maximal run of code points
// starting at start whose value, after applying the optional handleValue
// transform (identity if nil), equals that at start. The scan never
// returns a range that crosses the highStart boundary with differing
// values: if the run reaches highStart and handleValue(highValue) equals
// the run's value, the range extends all the way to 0x10FFFF; otherwise it
// stops at highStart-1. Spec §4.4.
//
// The returned value is the untransformed value at start. For a start
// outside [0, 0x10FFFF], GetRange returns (start, errorValue).
func (t *Trie) GetRange(start rune, handleValue HandleValue) (end rune, value uint32) {
	if handleValue == nil {
		handleValue = identityHandleValue
	}
	if start < 0 || int32(start) > MaxCodePoint {
		return start, t.errorValue
	}
	cp := int32(start)
	nullValue := handleValue(t.initialValue)
	highValueTransformed := handleValue(t.highValue)

	if cp >= t.highStart {
		// Every code point from highStart to 0x10FFFF reads as highValue,
		// so the maximal run starting anywhere in that region always
		// reaches the end of Unicode.
		return MaxCodePoint, t.highValue
	}

	startValue := t.Get(start)
	want := handleValue(startValue)

	for cp < t.highStart {
		i := int(cp >> Shift2)
		switch t.flags[i].variant() {
		case flagAllSame:
			if handleValue(t.index[i]) != want {
				return rune(cp - 1), startValue
			}
			cp += DataBlockLength
		case flagMixed:
			offset := int(t.index[i])
			blockStart := cp &^ DataMask
			j := int(cp - blockStart)
			for ; j < DataBlockLength; j++ {
				if handleValue(t.blocks.Get(offset+j)) != want {
					return rune(blockStart + int32(j) - 1), startValue
				}
			}
			cp = blockStart + DataBlockLength
		default:
			// Implicit slot read as initialValue; shouldn't occur for
			// cp < highStart, but fall through defensively.
			if nullValue != want {
				return cp - 1, startValue
			}
			cp += DataBlockLength
		}
	}
	// Reached highStart with the run still matching.
	if highValueTransformed == want {
		return MaxCodePoint, startValue
	}
	return rune(t.highStart - 1), startValue
}

// Enumerate walks every maximal run from 0 to 0x10FFFF, invoking fn with
// each run's inclusive bounds and the untransformed value at the run's first
// code point (runs are split by handleValue, if non-nil, but the value is
// not passed through it). It stops early if fn returns false. This is a
// thin convenience wrapper over GetRange, added per SPEC_FULL.md §10.1.
func (t *Trie) Enumerate(handleValue HandleValue, fn func(start, end rune, value uint32) bool) {
	c := rune(0)
	for {
		end, value := t.GetRange(c, handleValue)
		if !fn(c, end, value) {
			return
		}
		if end >= MaxCodePoint {
			return
		}
		c = end + 1
	}
}
