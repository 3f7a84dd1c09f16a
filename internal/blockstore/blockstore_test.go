// Copyright 2024 The utrie3 Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package blockstore

import (
	"testing"

	"github.com/jbowens/utrie3/internal/base"
	"github.com/stretchr/testify/require"
)

func TestAllocBlockFillsValue(t *testing.T) {
	var s Store
	offset, ok := s.AllocBlock(7, 16)
	require.True(t, ok)
	require.Equal(t, 0, offset)
	for i := 0; i < 16; i++ {
		require.Equal(t, uint32(7), s.Get(offset+i))
	}
	require.Equal(t, 16, s.Len())
}

func TestAllocBlockAppends(t *testing.T) {
	var s Store
	o1, _ := s.AllocBlock(1, 16)
	o2, _ := s.AllocBlock(2, 16)
	require.Equal(t, 0, o1)
	require.Equal(t, 16, o2)
	require.Equal(t, 32, s.Len())
}

func TestSetAndGet(t *testing.T) {
	var s Store
	offset, _ := s.AllocBlock(0, 16)
	s.Set(offset+3, 99)
	require.Equal(t, uint32(99), s.Get(offset+3))
	require.Equal(t, uint32(0), s.Get(offset+2))
}

func TestBlockReturnsLiveSlice(t *testing.T) {
	var s Store
	offset, _ := s.AllocBlock(5, 16)
	block := s.Block(offset, 16)
	require.Len(t, block, 16)
	for _, v := range block {
		require.Equal(t, uint32(5), v)
	}
}

func TestGrowthCrossesSteps(t *testing.T) {
	var s Store
	// Force growth past the first two fixed capacity steps.
	blocks := 0
	for s.Len() < secondCapacity+16 {
		_, ok := s.AllocBlock(uint32(blocks), 16)
		require.True(t, ok)
		blocks++
	}
	require.GreaterOrEqual(t, s.Len(), secondCapacity+16)
	// Reallocated from zero to initialCapacity, then to secondCapacity,
	// then to finalCapacity to satisfy the last block past secondCapacity.
	require.Equal(t, 3, s.Growths())
}

func TestGrowthsCountsReallocationsNotAllocs(t *testing.T) {
	var s Store
	require.Equal(t, 0, s.Growths())
	s.AllocBlock(1, 16) // first alloc grows from zero capacity
	require.Equal(t, 1, s.Growths())
	s.AllocBlock(2, 16) // still well within initialCapacity, no further growth
	require.Equal(t, 1, s.Growths())
}

func TestAllocBlockOrErrFailsAtCapacity(t *testing.T) {
	var s Store
	// Fill to just short of finalCapacity, then request one block too many.
	s.data = make([]uint32, finalCapacity-8)
	_, err := s.AllocBlockOrErr(1, 16)
	require.Error(t, err)
	require.Equal(t, base.CodeMemoryAllocation, base.CodeOf(err))
}

func TestCloneIsIndependent(t *testing.T) {
	var s Store
	offset, _ := s.AllocBlock(1, 16)
	clone := s.Clone()
	clone.Set(offset, 42)
	require.Equal(t, uint32(1), s.Get(offset))
	require.Equal(t, uint32(42), clone.Get(offset))
}

func TestMaskAll(t *testing.T) {
	var s Store
	offset, _ := s.AllocBlock(0xFFFFFFFF, 4)
	s.MaskAll(0xFFFF)
	for i := 0; i < 4; i++ {
		require.Equal(t, uint32(0xFFFF), s.Get(offset+i))
	}
}
