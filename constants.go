// Copyright 2024 The utrie3 Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

package utrie3

// Fixed shape parameters. All are powers of two (or derived from powers of
// two) and are compile-time constants per spec §3.1; implementations must
// not make them configurable.
const (
	// Shift2 is the number of low bits of a code point that index into a
	// data block: DataBlockLength = 1<<Shift2.
	Shift2 = 4
	// DataBlockLength is the number of entries in a data block.
	DataBlockLength = 1 << Shift2
	// DataMask isolates the low bits of a code point within a data block.
	DataMask = DataBlockLength - 1

	// Shift1 is the number of low bits of a code point that index into an
	// index-1 entry's worth of code points.
	Shift1 = 13
	// CPPerIndex1Entry is the number of code points covered by one
	// index-1 entry.
	CPPerIndex1Entry = 1 << Shift1
	// Shift1To2 is the number of index-2 entries per index-1 entry.
	Shift1To2 = Shift1 - Shift2
	// Index2BlockLength is the number of index-2 entries in one index-1
	// entry's chunk (spec's UTRIE3_INDEX_2_BLOCK_LENGTH).
	Index2BlockLength = 1 << Shift1To2

	// IndexShift is the supplementary data granularity shift: data block
	// offsets above the BMP are stored right-shifted by IndexShift.
	IndexShift = 1
	// DataGranularity is the alignment required for supplementary data
	// blocks (1<<IndexShift).
	DataGranularity = 1 << IndexShift

	// BMPLimit is the first code point past the Basic Multilingual Plane.
	BMPLimit = 0x10000
	// SupplementaryLimit is the first code point past all of Unicode.
	SupplementaryLimit = 0x110000

	// BMPILimit is the number of BMP index-2 entries.
	BMPILimit = BMPLimit >> Shift2
	// ASCIILimit is the number of code points treated as a linear ASCII
	// prefix by the compactor.
	ASCIILimit = 0x80
	// ASCIIILimit is the number of ASCII index-2 entries.
	ASCIIILimit = ASCIILimit >> Shift2
	// ILimit is the maximum number of index-2 entries (one per data
	// block across the whole code point range).
	ILimit = SupplementaryLimit >> Shift2

	// OmittedBMPIndex1Length is the number of index-1 entries that would
	// cover the BMP if the BMP were not linearly indexed; it's subtracted
	// out because the BMP index-2 table is never chunked by index-1.
	OmittedBMPIndex1Length = BMPLimit >> Shift1

	// NoDataNullOffset is the sentinel recorded when no data block
	// qualifies as the shared "null block".
	NoDataNullOffset = 0xFFFFF
	// NoIndex2NullOffset is the sentinel recorded when no index-2 chunk
	// qualifies as the shared "null chunk".
	NoIndex2NullOffset = 0xFFFF

	// MaxCodePoint is the largest valid Unicode code point.
	MaxCodePoint = SupplementaryLimit - 1
)
