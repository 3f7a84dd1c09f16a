// Copyright 2024 The utrie3 Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package utrie3

// compact runs the three-phase compactor (spec §4.5) over t's mutable
// representation and returns everything the serializer needs. It mutates
// t's slot/flag/block arrays in place; callers must not use t for anything
// but serialization afterward (Freeze runs it on a clone of the caller's
// trie, which it then discards).
func (t *Trie) compact() *compactionState {
	suppHighStart := t.findHighStart()
	nSlots := int(t.highStart) >> Shift2

	whole := t.compactWholeDataBlocks(nSlots)
	dataArray, overlapWords := t.compactData(nSlots)

	dataNullOffset := NoDataNullOffset
	if whole.dataNullSlot >= 0 {
		dataNullOffset = int(t.index[whole.dataNullSlot])
	}

	index1, suppIndex2, suppPad, index2NullOffset := t.compactIndex2(nSlots, suppHighStart, dataNullOffset)

	cs := &compactionState{
		highStart:        t.highStart,
		highValue:        t.highValue,
		dataArray:        dataArray,
		dataNullOffset:   dataNullOffset,
		bmpIndex2:        append([]uint32(nil), t.index[:BMPILimit]...),
		index1:           index1,
		suppIndex2:       append([]uint32(nil), suppIndex2...),
		suppPad:          suppPad,
		index2NullOffset: index2NullOffset,
		stats:            whole.stats,
	}
	cs.stats.WordsOverlapped = overlapWords
	cs.stats.DataLength = len(dataArray)
	cs.stats.IndexLength = cs.indexLength()
	return cs
}
