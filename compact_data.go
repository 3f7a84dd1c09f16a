// Copyright 2024 The utrie3 Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package utrie3

// findAllSameBlock scans dest, stepping by granularity, for a run of
// blockLength consecutive words already equal to value. Used by compactData
// to avoid re-appending a block dest already contains.
func findAllSameBlock(dest []uint32, value uint32, blockLength, granularity int) (int, bool) {
	for p := 0; p+blockLength <= len(dest); p += granularity {
		ok := true
		for k := 0; k < blockLength; k++ {
			if dest[p+k] != value {
				ok = false
				break
			}
		}
		if ok {
			return p, true
		}
	}
	return 0, false
}

// getAllSameOverlap returns how many words of dest's tail (up to
// blockLength, rounded down to a multiple of granularity) already equal
// value, so compactData only needs to append the remainder.
func getAllSameOverlap(dest []uint32, value uint32, blockLength, granularity int) int {
	l := 0
	for l < blockLength && l < len(dest) && dest[len(dest)-1-l] == value {
		l++
	}
	return l - l%granularity
}

// findSameBlock scans dest, stepping by granularity, for an exact copy of
// block.
func findSameBlock(dest, block []uint32, granularity int) (int, bool) {
	n := len(block)
	for p := 0; p+n <= len(dest); p += granularity {
		if blocksEqual(dest[p:p+n], block) {
			return p, true
		}
	}
	return 0, false
}

// getOverlap returns the largest l (a multiple of granularity, at most
// len(block)) such that dest's last l words equal block's first l words.
func getOverlap(dest, block []uint32, granularity int) int {
	maxL := len(block)
	if maxL > len(dest) {
		maxL = len(dest)
	}
	for l := maxL; l > 0; l-- {
		if l%granularity != 0 {
			continue
		}
		if blocksEqual(dest[len(dest)-l:], block[:l]) {
			return l
		}
	}
	return 0
}

// slotValue reads the value stored at code point c's slot directly,
// resolving one level of SAME_AS indirection. Unlike the public Get, it's
// valid to call mid-compaction: compactWholeDataBlocks may already have
// rewritten a slot as SAME_AS before compactData lays down the ASCII
// prefix, and a SAME_AS target is always an ALL_SAME or MIXED slot (never
// another SAME_AS), so one indirection always resolves it.
func (t *Trie) slotValue(c int32) uint32 {
	i := int(c >> Shift2)
	switch t.flags[i].variant() {
	case flagAllSame:
		return t.index[i]
	case flagMixed:
		return t.blocks.Get(int(t.index[i]) + int(c&DataMask))
	case flagSameAs:
		target := int(t.index[i])
		switch t.flags[target].variant() {
		case flagAllSame:
			return t.index[target]
		case flagMixed:
			return t.blocks.Get(int(t.index[target]) + int(c&DataMask))
		}
	}
	return t.initialValue
}

// dataPlacementResult is what placing a single slot into the destination
// data array produced: the array's new length isn't returned because the
// caller already holds the (possibly reallocated) slice.
type dataPlacementResult struct {
	overlap int
}

// placeBlock appends slot i's block (or finds it already present) into
// *dest at the given search/overlap granularity, leaving the slot MOVED
// with its final offset. i must be ALL_SAME or MIXED (never SAME_AS: those
// are resolved once every other slot has been placed).
func (t *Trie) placeBlock(dest *[]uint32, i, granularity int) dataPlacementResult {
	switch t.flags[i].variant() {
	case flagAllSame:
		value := t.index[i]
		if p, ok := findAllSameBlock(*dest, value, DataBlockLength, granularity); ok {
			t.flags[i] = flagMoved
			t.index[i] = uint32(p)
			return dataPlacementResult{}
		}
		l := getAllSameOverlap(*dest, value, DataBlockLength, granularity)
		before := len(*dest)
		for k := l; k < DataBlockLength; k++ {
			*dest = append(*dest, value)
		}
		t.flags[i] = flagMoved
		t.index[i] = uint32(before - l)
		return dataPlacementResult{overlap: l}
	case flagMixed:
		offset := int(t.index[i])
		block := t.blocks.Block(offset, DataBlockLength)
		if p, ok := findSameBlock(*dest, block, granularity); ok {
			t.flags[i] = flagMoved
			t.index[i] = uint32(p)
			return dataPlacementResult{}
		}
		l := getOverlap(*dest, block, granularity)
		before := len(*dest)
		*dest = append(*dest, block[l:]...)
		t.flags[i] = flagMoved
		t.index[i] = uint32(before - l)
		return dataPlacementResult{overlap: l}
	default:
		return dataPlacementResult{}
	}
}

// compactData implements spec §4.5.3: lay down the ASCII linear prefix,
// place every remaining BMP slot (granularity 1), pad to an even boundary,
// then place every slot that carried SUPP_DATA plus every supplementary
// slot (granularity 2), and finally resolve every SAME_AS slot against its
// (by-now placed) target. nSlots is highStart>>Shift2 after findHighStart.
// Returns the final data array and the number of words elided by overlap.
func (t *Trie) compactData(nSlots int) (dataArray []uint32, overlapWords int) {
	dest := make([]uint32, 0, ASCIILimit+nSlots*DataBlockLength/4)
	// Read every ASCII value before marking any ASCII slot MOVED, so that a
	// SAME_AS slot's target is still ALL_SAME or MIXED when slotValue reads it.
	for i := 0; i < ASCIIILimit; i++ {
		base := int32(i * DataBlockLength)
		for j := int32(0); j < DataBlockLength; j++ {
			dest = append(dest, t.slotValue(base+j))
		}
	}
	for i := 0; i < ASCIIILimit; i++ {
		t.flags[i] = flagMoved
		t.index[i] = uint32(i * DataBlockLength)
	}

	bmpLimit := nSlots
	if bmpLimit > BMPILimit {
		bmpLimit = BMPILimit
	}
	for i := ASCIIILimit; i < bmpLimit; i++ {
		if t.flags[i].variant() == flagSameAs || t.flags[i].hasSuppData() {
			continue
		}
		overlapWords += t.placeBlock(&dest, i, 1).overlap
	}

	if len(dest)%DataGranularity != 0 {
		dest = append(dest, dest[len(dest)-1])
	}

	for i := ASCIIILimit; i < nSlots; i++ {
		if t.flags[i].variant() == flagMoved || t.flags[i].variant() == flagSameAs {
			continue
		}
		overlapWords += t.placeBlock(&dest, i, DataGranularity).overlap
	}

	for i := ASCIIILimit; i < nSlots; i++ {
		if t.flags[i].variant() != flagSameAs {
			continue
		}
		target := int(t.index[i])
		t.index[i] = t.index[target]
		t.flags[i] = flagMoved
	}

	return dest, overlapWords
}

// compactIndex2 implements spec §4.5.4: the BMP index-2 table is always
// the flat first BMPILimit entries of t.index (already final data offsets
// after compactData). If the trie has a supplementary region, this chunks
// the remaining entries into Index2BlockLength runs, dedups each chunk
// against the BMP table or an already-placed supplementary chunk (with a
// fast path for chunks that are entirely the shared null data block),
// appends with overlap otherwise, and records one index-1 entry per chunk.
func (t *Trie) compactIndex2(nSlots int, suppHighStart int32, dataNullOffset int) (index1, suppIndex2 []uint32, suppPad, index2NullOffset int) {
	if suppHighStart <= BMPLimit {
		return nil, nil, 0, NoIndex2NullOffset
	}

	index1Length := int(t.highStart-BMPLimit) >> Shift1
	dest2 := make([]uint32, BMPILimit, BMPILimit+nSlots-BMPILimit)
	copy(dest2, t.index[:BMPILimit])

	index1 = make([]uint32, 0, index1Length)
	index2NullOffset = NoIndex2NullOffset
	nullChunkFinal := -1

	for k := 0; k < index1Length; k++ {
		start := BMPILimit + k*Index2BlockLength
		chunk := t.index[start : start+Index2BlockLength]

		isNullChunk := dataNullOffset != NoDataNullOffset
		if isNullChunk {
			for _, v := range chunk {
				if int(v) != dataNullOffset {
					isNullChunk = false
					break
				}
			}
		}
		if isNullChunk && nullChunkFinal >= 0 {
			index1 = append(index1, uint32(nullChunkFinal))
			continue
		}

		var finalPos int
		if p, ok := findSameBlock(dest2[:BMPILimit], chunk, 1); ok {
			finalPos = p
		} else if len(dest2) > BMPILimit {
			if p, ok := findSameBlock(dest2[BMPILimit:], chunk, 1); ok {
				finalPos = BMPILimit + p + index1Length
			} else {
				finalPos = appendIndex2Chunk(&dest2, chunk, index1Length)
			}
		} else {
			finalPos = appendIndex2Chunk(&dest2, chunk, index1Length)
		}

		index1 = append(index1, uint32(finalPos))
		if isNullChunk && index2NullOffset == NoIndex2NullOffset {
			index2NullOffset = finalPos
			nullChunkFinal = finalPos
		}
	}

	suppIndex2 = dest2[BMPILimit:]
	// BMPILimit is even; pad so that index-1 plus the supplementary index-2
	// tail is even too, keeping the whole index length (the 16-bit dataMove)
	// even so shifted supplementary data offsets stay exact.
	if (index1Length+len(suppIndex2))%2 != 0 {
		suppPad = 1
	}
	return index1, suppIndex2, suppPad, index2NullOffset
}

// appendIndex2Chunk appends chunk to the supplementary tail of *dest2 (the
// portion from BMPILimit on) with maximal overlap (granularity 1, per spec
// §4.5.4 step 4), and returns the chunk's final absolute index position.
// The overlap search never reaches into the BMP region: the final
// serialized layout inserts the index-1 table between the BMP index-2 table
// and the supplementary tail, so a chunk placed there would no longer be
// contiguous with what dest2 implies.
func appendIndex2Chunk(dest2 *[]uint32, chunk []uint32, index1Length int) int {
	tail := (*dest2)[BMPILimit:]
	l := getOverlap(tail, chunk, 1)
	beforeTail := len(tail)
	*dest2 = append(*dest2, chunk[l:]...)
	rawTailPos := beforeTail - l
	return BMPILimit + rawTailPos + index1Length
}
