// Copyright 2024 The utrie3 Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package utrie3

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMRUTableLookupAndInsert(t *testing.T) {
	var m mruTable
	_, ok := m.lookup(5)
	require.False(t, ok)

	m.insert(5, 100)
	slot, ok := m.lookup(5)
	require.True(t, ok)
	require.Equal(t, 100, slot)
}

func TestMRUTableMostUsedSlot(t *testing.T) {
	var m mruTable
	m.insert(1, 10)
	m.insert(2, 20)
	// Bump value 2's refcount above value 1's.
	m.lookup(2)
	m.lookup(2)
	slot, ok := m.mostUsedSlot()
	require.True(t, ok)
	require.Equal(t, 20, slot)
}

func TestMRUTableEmptyHasNoMostUsed(t *testing.T) {
	var m mruTable
	_, ok := m.mostUsedSlot()
	require.False(t, ok)
}

func TestMRUTableEvictsLowestRefcountOnOverflow(t *testing.T) {
	var m mruTable
	for i := 0; i < mruCapacity; i++ {
		m.insert(uint32(i), i)
	}
	// Bump every entry but slot 0's refcount so it's the clear eviction
	// target.
	for i := 1; i < mruCapacity; i++ {
		m.lookup(uint32(i))
	}
	m.insert(uint32(mruCapacity), mruCapacity)

	_, ok := m.lookup(0)
	require.False(t, ok, "lowest-refcount entry should have been evicted")
	slot, ok := m.lookup(uint32(mruCapacity))
	require.True(t, ok)
	require.Equal(t, mruCapacity, slot)
}

func TestBlocksEqual(t *testing.T) {
	require.True(t, blocksEqual([]uint32{1, 2, 3}, []uint32{1, 2, 3}))
	require.False(t, blocksEqual([]uint32{1, 2, 3}, []uint32{1, 2, 4}))
	require.False(t, blocksEqual([]uint32{1, 2}, []uint32{1, 2, 3}))
}

func TestFindAllSameBlock(t *testing.T) {
	dest := []uint32{9, 9, 9, 9, 0, 0}
	p, ok := findAllSameBlock(dest, 9, 4, 1)
	require.True(t, ok)
	require.Equal(t, 0, p)

	_, ok = findAllSameBlock(dest, 5, 4, 1)
	require.False(t, ok)
}

func TestGetAllSameOverlap(t *testing.T) {
	dest := []uint32{1, 2, 7, 7, 7}
	require.Equal(t, 3, getAllSameOverlap(dest, 7, 4, 1))
	require.Equal(t, 2, getAllSameOverlap(dest, 7, 4, 2)) // raw run of 3 rounds down to a multiple of 2
}

func TestFindSameBlockAndOverlap(t *testing.T) {
	dest := []uint32{1, 2, 3, 4, 5}
	block := []uint32{3, 4, 5}
	p, ok := findSameBlock(dest, block, 1)
	require.True(t, ok)
	require.Equal(t, 2, p)

	tailBlock := []uint32{4, 5, 6, 7}
	require.Equal(t, 2, getOverlap(dest, tailBlock, 1))
}

// TestCompactCollapsesDuplicateBlocks builds two whole blocks with identical
// content (two ALL_SAME slots holding 7, which compactWholeDataBlocks dedups
// as SAME_AS) and checks that the frozen trie still returns correct Get
// results for both and for their neighbours.
func TestCompactCollapsesDuplicateBlocks(t *testing.T) {
	tr := Open(0, 0xBAD)
	require.NoError(t, tr.SetRange(0x1000, 0x100F, 7, true)) // one block, all 7
	require.NoError(t, tr.SetRange(0x2000, 0x200F, 7, true)) // identical block elsewhere

	frozen, err := tr.Freeze(32, nil)
	require.NoError(t, err)
	require.Equal(t, uint32(7), frozen.Get(0x1000))
	require.Equal(t, uint32(7), frozen.Get(0x2000))
	require.Equal(t, uint32(0), frozen.Get(0x1010))
}

// TestAppendIndex2ChunkConfinesOverlapToSupplementaryTail constructs a
// dest2 whose BMP-region tail and supplementary tail, read together, would
// give a longer overlap against chunk's head than the supplementary tail
// alone does. appendIndex2Chunk must take the shorter, BMP-excluding
// overlap: otherwise the appended chunk would start before BMPILimit in
// dest2's old (pre-fix) accounting, straddling the boundary the serializer
// later inserts the index-1 table into.
func TestAppendIndex2ChunkConfinesOverlapToSupplementaryTail(t *testing.T) {
	dest2 := make([]uint32, BMPILimit+3)
	dest2[BMPILimit-1] = 9 // BMP region's last entry
	dest2[BMPILimit+0] = 10
	dest2[BMPILimit+1] = 11
	dest2[BMPILimit+2] = 12

	chunk := make([]uint32, Index2BlockLength)
	chunk[0], chunk[1], chunk[2], chunk[3] = 9, 10, 11, 12

	const index1Length = 1
	pos := appendIndex2Chunk(&dest2, chunk, index1Length)

	// Had the overlap search reached into the BMP region, it would have
	// found l=4 (dest2's last four words, including the BMP entry, equal
	// chunk's first four) and appended only chunk[4:]. Confined to the
	// three-word supplementary tail, [10,11,12] doesn't match chunk's head
	// [9,10,11,...], so the overlap is zero and the whole chunk is appended.
	require.Equal(t, BMPILimit+3+index1Length, pos)
	require.Equal(t, BMPILimit+3+Index2BlockLength, len(dest2))
	require.Equal(t, uint32(9), dest2[pos-index1Length])
}

// TestCompactSupplementaryChunkDedup exercises a trie with real
// supplementary content spanning more than one index-1 chunk, where two
// chunks happen to be identical and should collapse in compactIndex2.
func TestCompactSupplementaryChunkDedup(t *testing.T) {
	tr := Open(0, 0xBAD)
	require.NoError(t, tr.Set(0x10000, 5))
	require.NoError(t, tr.Set(0x12000, 5)) // same value pattern, different chunk
	require.NoError(t, tr.Set(0x20000, 9)) // a distinct chunk further out

	frozen, err := tr.Freeze(32, nil)
	require.NoError(t, err)
	require.Equal(t, uint32(5), frozen.Get(0x10000))
	require.Equal(t, uint32(5), frozen.Get(0x12000))
	require.Equal(t, uint32(9), frozen.Get(0x20000))
	require.Equal(t, uint32(0), frozen.Get(0x10001))
	require.Equal(t, uint32(0), frozen.Get(0x1FFFF))
}
