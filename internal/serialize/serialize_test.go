// Copyright 2024 The utrie3 Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package serialize

import (
	"testing"

	"github.com/jbowens/utrie3/internal/base"
	"github.com/stretchr/testify/require"
)

func TestHeaderEncodeDecodeRoundTrip(t *testing.T) {
	h := Header{
		Signature:         SignatureV3,
		Options:           0x0021,
		IndexLength:       4096,
		ShiftedDataLength: 64,
		Index2NullOffset:  0xFFFF,
		ShiftedHighStart:  0,
		HighValue:         7,
		ErrorValue:        0xBAD,
	}
	got, err := DecodeHeader(h.Encode(nil))
	require.NoError(t, err)
	require.Equal(t, h, got)
}

func TestDecodeHeaderTruncated(t *testing.T) {
	_, err := DecodeHeader(make([]byte, HeaderSize-1))
	require.Error(t, err)
	require.Equal(t, base.CodeInvalidFormat, base.CodeOf(err))
}

func TestOptionsRoundTrip(t *testing.T) {
	tests := []struct {
		name           string
		valueBits      int
		dataNullOffset int
		dataMove       int
	}{
		{"16-bit no null block", 16, noDataNullOffset, 100},
		{"16-bit with null block", 16, 40, 100},
		{"32-bit no dataMove", 32, noDataNullOffset, 0},
		{"32-bit with null block", 32, 12, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := optionsFor(tt.valueBits, tt.dataNullOffset, tt.dataMove)
			h := Header{Options: opts}
			require.Equal(t, tt.valueBits, h.ValueBits())
			if tt.dataNullOffset == noDataNullOffset {
				require.Equal(t, noDataNullOffset, h.DataNullOffset())
			} else {
				require.Equal(t, tt.dataNullOffset+tt.dataMove, h.DataNullOffset())
			}
		})
	}
}

// buildMinimalInput constructs the smallest valid Input: a BMP-only index
// with no supplementary region, matching what compactData/compactIndex2
// would produce for a trie with highStart <= BMPLimit.
func buildMinimalInput(valueBits int) Input {
	index := make([]uint32, bmpILimit)
	data := make([]uint32, dataBlockLength*8) // ASCII prefix only
	return Input{
		ValueBits:        valueBits,
		HighStart:        0,
		HighValue:        0,
		ErrorValue:       0xBAD,
		Index:            index,
		Index1Length:     0,
		PadCount:         0,
		DataNullOffset:   noDataNullOffset,
		Index2NullOffset: noIndex2NullOffset,
		Data:             data,
	}
}

func TestWriteParseRoundTripMinimal16(t *testing.T) {
	in := buildMinimalInput(16)
	in.HighStart = 1 << shift1 // one index-1 entry's worth; code points below this read from the index/data arrays
	block5Offset := dataBlockLength * 3
	in.Index[5] = uint32(block5Offset)
	in.Data[block5Offset+5] = 42

	b, err := Write(in)
	require.NoError(t, err)

	p, err := Parse(b)
	require.NoError(t, err)
	require.Equal(t, uint32(0xBAD), p.Get(0x110000))
	require.Equal(t, uint32(42), p.Get(0x50+5))
	require.Equal(t, uint32(0), p.Get(0x50+6))
	require.Equal(t, uint32(0), p.Get(0x10FFFF)) // above highStart, reads as highValue == 0
}

func TestWriteParseRoundTripMinimal32(t *testing.T) {
	in := buildMinimalInput(32)
	b, err := Write(in)
	require.NoError(t, err)
	p, err := Parse(b)
	require.NoError(t, err)
	require.Equal(t, 32, p.valueBits)
	require.Equal(t, uint32(0xBAD), p.Get(-1))
}

func TestWriteRejectsBadValueBits(t *testing.T) {
	in := buildMinimalInput(8)
	_, err := Write(in)
	require.Error(t, err)
	require.Equal(t, base.CodeIllegalArgument, base.CodeOf(err))
}

func TestWriteDetectsIndexOutOfBounds(t *testing.T) {
	in := buildMinimalInput(16)
	// A BMP index entry that, after dataMove, doesn't fit in 16 bits.
	in.Index[10] = 0xFFFF
	_, err := Write(in)
	require.Error(t, err)
	require.Equal(t, base.CodeIndexOutOfBounds, base.CodeOf(err))
}

func TestWriteDetectsDataLengthOutOfBounds(t *testing.T) {
	in := buildMinimalInput(16)
	in.Data = make([]uint32, 0x20000) // shifted length exceeds 0xFFFF after dataMove
	_, err := Write(in)
	require.Error(t, err)
	require.Equal(t, base.CodeIndexOutOfBounds, base.CodeOf(err))
}

// TestWriteWithSupplementaryRegion exercises a trie with a single
// supplementary index-1 chunk pointing into a real index-2 run, including
// odd-length padding on the index-2 tail.
func TestWriteWithSupplementaryRegion(t *testing.T) {
	const index2BlockLength = 1 << (shift1 - shift2) // 512
	index1Length := 1
	highStart := int32(bmpLimit + (1 << shift1)) // exactly one 8192-code-point chunk

	suppIndex2 := make([]uint32, index2BlockLength+3) // deliberately not a multiple of 2
	dataOffset := dataBlockLength * 5
	suppIndex2[7] = uint32(dataOffset) // block 7 of the chunk holds real data

	index := make([]uint32, 0, bmpILimit+index1Length+len(suppIndex2))
	index = append(index, make([]uint32, bmpILimit)...)
	index = append(index, uint32(bmpILimit+index1Length)) // the chunk starts right after BMP+index-1
	index = append(index, suppIndex2...)

	data := make([]uint32, dataBlockLength*8)
	data[dataOffset+2] = 77

	in := Input{
		ValueBits:        32,
		HighStart:        highStart,
		HighValue:        3,
		ErrorValue:       0xBAD,
		Index:            index,
		Index1Length:     index1Length,
		PadCount:         1,
		DataNullOffset:   noDataNullOffset,
		Index2NullOffset: noIndex2NullOffset,
		Data:             data,
	}
	b, err := Write(in)
	require.NoError(t, err)
	p, err := Parse(b)
	require.NoError(t, err)
	require.Equal(t, highStart, p.highStart)

	// Code point in chunk block 7: bmpLimit + 7*dataBlockLength + 2.
	cp := int32(bmpLimit) + 7*dataBlockLength + 2
	require.Equal(t, uint32(77), p.Get(cp))
	require.Equal(t, uint32(0), p.Get(cp+1))
	// Beyond highStart everything reads as highValue.
	require.Equal(t, uint32(3), p.Get(highStart))
	require.Equal(t, uint32(3), p.Get(0x10FFFF))
}

// TestWriteWithSupplementaryRegion16Bit is the same shape as
// TestWriteWithSupplementaryRegion but with ValueBits 16 and a real
// supplementary region whose index-1 plus index-2 length is odd (PadCount 1):
// dataMove must include PadCount here, or every BMP/supplementary data
// offset reads one word early.
func TestWriteWithSupplementaryRegion16Bit(t *testing.T) {
	const index2BlockLength = 1 << (shift1 - shift2) // 512
	index1Length := 1
	highStart := int32(bmpLimit + (1 << shift1))

	suppIndex2 := make([]uint32, index2BlockLength+2) // with the one index-1 entry, an odd count
	dataOffset := dataBlockLength * 5
	suppIndex2[7] = uint32(dataOffset)

	index := make([]uint32, 0, bmpILimit+index1Length+len(suppIndex2))
	index = append(index, make([]uint32, bmpILimit)...)
	index = append(index, uint32(bmpILimit+index1Length))
	index = append(index, suppIndex2...)

	data := make([]uint32, dataBlockLength*8)
	data[dataOffset+2] = 77
	data[2] = 11 // an ASCII-range BMP entry, to also exercise the BMP offset path

	index[2] = 0 // BMP slot 2 points at data offset 0

	in := Input{
		ValueBits:        16,
		HighStart:        highStart,
		HighValue:        3,
		ErrorValue:       0xBAD,
		Index:            index,
		Index1Length:     index1Length,
		PadCount:         1,
		DataNullOffset:   noDataNullOffset,
		Index2NullOffset: noIndex2NullOffset,
		Data:             data,
	}
	b, err := Write(in)
	require.NoError(t, err)
	p, err := Parse(b)
	require.NoError(t, err)
	require.Equal(t, highStart, p.highStart)

	cp := int32(bmpLimit) + 7*dataBlockLength + 2
	require.Equal(t, uint32(77), p.Get(cp))
	require.Equal(t, uint32(0), p.Get(cp+1))
	require.Equal(t, uint32(11), p.Get(2*dataBlockLength+2))
	require.Equal(t, uint32(3), p.Get(highStart))
}

func TestParseSignatureDispatch(t *testing.T) {
	in := buildMinimalInput(16)
	b, err := Write(in)
	require.NoError(t, err)

	t.Run("v3 succeeds", func(t *testing.T) {
		_, err := Parse(b)
		require.NoError(t, err)
	})

	t.Run("v1 legacy is a distinct sentinel", func(t *testing.T) {
		corrupted := append([]byte(nil), b...)
		sig := signatureV1
		corrupted[0], corrupted[1], corrupted[2], corrupted[3] = byte(sig), byte(sig>>8), byte(sig>>16), byte(sig>>24)
		_, err := Parse(corrupted)
		require.ErrorIs(t, err, ErrLegacyFormatUnsupported)
	})

	t.Run("v2 is generically invalid", func(t *testing.T) {
		corrupted := append([]byte(nil), b...)
		sig := signatureV2
		corrupted[0], corrupted[1], corrupted[2], corrupted[3] = byte(sig), byte(sig>>8), byte(sig>>16), byte(sig>>24)
		_, err := Parse(corrupted)
		require.Error(t, err)
		require.Equal(t, base.CodeInvalidFormat, base.CodeOf(err))
		require.NotErrorIs(t, err, ErrLegacyFormatUnsupported)
	})

	t.Run("unknown signature is generically invalid", func(t *testing.T) {
		corrupted := append([]byte(nil), b...)
		corrupted[0], corrupted[1], corrupted[2], corrupted[3] = 0, 0, 0, 0
		_, err := Parse(corrupted)
		require.Error(t, err)
		require.Equal(t, base.CodeInvalidFormat, base.CodeOf(err))
	})
}

func TestParseTruncatedInput(t *testing.T) {
	in := buildMinimalInput(16)
	b, err := Write(in)
	require.NoError(t, err)
	_, err = Parse(b[:len(b)-10])
	require.Error(t, err)
	require.Equal(t, base.CodeInvalidFormat, base.CodeOf(err))
}
