// Copyright 2024 The utrie3 Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

// Package serialize packs a compacted trie into the on-disk byte format and
// parses it back, mirroring the header-struct-plus-binary.LittleEndian
// idiom of the teacher's sstable/colblk block header and the version
// dispatch shape of its block trailer.
package serialize

import (
	"encoding/binary"

	"github.com/jbowens/utrie3/internal/base"
)

// Shape parameters duplicated from the top-level package's constants.go to
// avoid an import cycle (utrie3 imports serialize, not the other way).
const (
	shift2             = 4
	dataBlockLength    = 1 << shift2
	shift1             = 13
	indexShift         = 1
	bmpLimit           = 0x10000
	bmpILimit          = bmpLimit >> shift2
	noDataNullOffset   = 0xFFFFF
	noIndex2NullOffset = 0xFFFF
)

// Signature values for the three trie wire formats that have existed.
// Only version 3 (this package's own format) is fully decoded.
const (
	SignatureV3 uint32 = 0x33697254 // "Tri3" little-endian
	signatureV2 uint32 = 0x32697254 // "Tri2" little-endian
	signatureV1 uint32 = 0x65697254 // "Trie" little-endian
)

// ErrLegacyFormatUnsupported is returned by Parse when the input carries a
// recognized but unsupported version-1 signature. It's distinct from the
// generic invalid-format error because the signature is recognized; the
// caller just can't get a Parsed back for it (legacy conversion is out of
// scope, see SPEC_FULL.md §9 Open Question decisions).
var ErrLegacyFormatUnsupported = base.NewInvalidFormatError("utrie3: version-1 trie format is recognized but not supported")

// HeaderSize is the encoded size in bytes of Header.
const HeaderSize = 4 + 2 + 2 + 2 + 2 + 2 + 4 + 4

// Header is the fixed-size preamble of a serialized trie (spec §4.6 item 1).
type Header struct {
	Signature         uint32
	Options           uint16
	IndexLength       uint16
	ShiftedDataLength uint16
	Index2NullOffset  uint16
	ShiftedHighStart  uint16
	HighValue         uint32
	ErrorValue        uint32
}

// ValueBits decodes the low 4 bits of Options: 16 or 32.
func (h Header) ValueBits() int {
	if h.Options&0xF == 0 {
		return 16
	}
	return 32
}

// DataNullOffset decodes bits [15:4] of Options back into a data-array
// offset, or noDataNullOffset if none was recorded.
func (h Header) DataNullOffset() int {
	v := int(h.Options >> 4)
	if v == 0 {
		return noDataNullOffset
	}
	return v
}

func optionsFor(valueBits int, dataNullOffset, dataMove int) uint16 {
	var vb uint16
	if valueBits == 32 {
		vb = 1
	}
	adjusted := uint16(0)
	if dataNullOffset != noDataNullOffset {
		adjusted = uint16(dataNullOffset + dataMove)
	}
	return (adjusted << 4) | vb
}

// Encode appends h's 22-byte wire representation to dst and returns the
// result, mirroring the teacher's append-based header encoders.
func (h Header) Encode(dst []byte) []byte {
	var buf [HeaderSize]byte
	binary.LittleEndian.PutUint32(buf[0:4], h.Signature)
	binary.LittleEndian.PutUint16(buf[4:6], h.Options)
	binary.LittleEndian.PutUint16(buf[6:8], h.IndexLength)
	binary.LittleEndian.PutUint16(buf[8:10], h.ShiftedDataLength)
	binary.LittleEndian.PutUint16(buf[10:12], h.Index2NullOffset)
	binary.LittleEndian.PutUint16(buf[12:14], h.ShiftedHighStart)
	binary.LittleEndian.PutUint32(buf[14:18], h.HighValue)
	binary.LittleEndian.PutUint32(buf[18:22], h.ErrorValue)
	return append(dst, buf[:]...)
}

// DecodeHeader reads a Header from the front of b. It does not validate the
// signature; callers use Signature to dispatch before trusting the rest.
func DecodeHeader(b []byte) (Header, error) {
	if len(b) < HeaderSize {
		return Header{}, base.CorruptionErrorf("utrie3: truncated header (%d bytes, need %d)", len(b), HeaderSize)
	}
	return Header{
		Signature:         binary.LittleEndian.Uint32(b[0:4]),
		Options:           binary.LittleEndian.Uint16(b[4:6]),
		IndexLength:       binary.LittleEndian.Uint16(b[6:8]),
		ShiftedDataLength: binary.LittleEndian.Uint16(b[8:10]),
		Index2NullOffset:  binary.LittleEndian.Uint16(b[10:12]),
		ShiftedHighStart:  binary.LittleEndian.Uint16(b[12:14]),
		HighValue:         binary.LittleEndian.Uint32(b[14:18]),
		ErrorValue:        binary.LittleEndian.Uint32(b[18:22]),
	}, nil
}

// Input bundles everything Write needs from a compacted trie, keeping this
// package ignorant of package utrie3's slot/block representation.
type Input struct {
	ValueBits int // 16 or 32

	HighStart int32
	HighValue uint32
	ErrorValue uint32

	// Index is the full index array in entry order: BMPILimit BMP entries,
	// then (if any) the supplementary index-1 entries, then the
	// supplementary index-2 entries. BMP and supplementary-index-2 entries
	// are raw pre-dataMove data offsets; index-1 entries are already final
	// absolute index positions and pass through unshifted and unmoved.
	Index           []uint32
	Index1Length    int
	// PadCount is the number of literal 0xFFFE sentinel entries appended
	// after Index to round the whole index array to an even length (spec
	// §4.5.4's final padding step), so that a 16-bit dataMove is even.
	// These bypass the dataMove/shift transform entirely.
	PadCount        int
	DataNullOffset  int // noDataNullOffset sentinel, or a data-array offset
	Index2NullOffset int // noIndex2NullOffset sentinel, or an absolute index position

	// Data is the compacted data array.
	Data []uint32
}

// Write packs in into the canonical byte layout (spec §4.6), returning
// ILLEGAL_ARGUMENT for a bad valueBits and INDEX_OUTOFBOUNDS if any offset
// doesn't fit in 16 bits after the dataMove adjustment.
func Write(in Input) ([]byte, error) {
	if in.ValueBits != 16 && in.ValueBits != 32 {
		return nil, base.NewIllegalArgumentError("utrie3: valueBits must be 16 or 32, got %d", in.ValueBits)
	}

	// dataMove must match parseV3's dataMove (h.IndexLength, i.e.
	// len(in.Index)+in.PadCount): the padding sentinels written below are
	// part of the index region that precedes the data array in the final
	// byte layout, so they count too.
	dataMove := 0
	if in.ValueBits == 16 {
		dataMove = len(in.Index) + in.PadCount
	}

	if (dataMove+len(in.Data))>>indexShift > 0xFFFF {
		return nil, base.NewIndexOutOfBoundsError("utrie3: data length %d does not fit a 16-bit shifted offset after dataMove %d", len(in.Data), dataMove)
	}
	for i := 0; i < bmpILimit && i < len(in.Index); i++ {
		if dataMove+int(in.Index[i]) > 0xFFFF {
			return nil, base.NewIndexOutOfBoundsError("utrie3: BMP index entry %d does not fit 16 bits after dataMove %d", i, dataMove)
		}
	}

	h := Header{
		Signature:         SignatureV3,
		Options:           optionsFor(in.ValueBits, in.DataNullOffset, dataMove),
		IndexLength:       uint16(len(in.Index) + in.PadCount),
		ShiftedDataLength: uint16(len(in.Data) >> indexShift),
		Index2NullOffset:  uint16(in.Index2NullOffset),
		ShiftedHighStart:  uint16(in.HighStart >> shift1),
		HighValue:         in.HighValue,
		ErrorValue:        in.ErrorValue,
	}

	out := make([]byte, 0, HeaderSize+int(h.IndexLength)*2+len(in.Data)*4)
	out = h.Encode(out)

	// BMP index-2: unshifted dataMove+offset.
	for i := 0; i < bmpILimit; i++ {
		out = appendUint16(out, uint16(dataMove+int(in.Index[i])))
	}
	// Supplementary index-1: verbatim, no transform.
	for i := 0; i < in.Index1Length; i++ {
		out = appendUint16(out, uint16(in.Index[bmpILimit+i]))
	}
	// Supplementary index-2: dataMove+offset, then shifted.
	for i := bmpILimit + in.Index1Length; i < len(in.Index); i++ {
		out = appendUint16(out, uint16((dataMove+int(in.Index[i]))>>indexShift))
	}
	// Padding sentinels, written literally.
	for i := 0; i < in.PadCount; i++ {
		var padSentinel uint16 = 0xFFFF
		out = appendUint16(out, padSentinel<<indexShift)
	}

	if in.ValueBits == 16 {
		for _, v := range in.Data {
			out = appendUint16(out, uint16(v))
		}
	} else {
		for _, v := range in.Data {
			out = appendUint32(out, v)
		}
	}
	return out, nil
}

func appendUint16(dst []byte, v uint16) []byte {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	return append(dst, b[:]...)
}

func appendUint32(dst []byte, v uint32) []byte {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	return append(dst, b[:]...)
}

// Parsed is a frozen trie read back from bytes: enough to implement Get
// without decompacting anything.
type Parsed struct {
	header   Header
	valueBits int
	dataMove int
	index    []uint32 // decoded to uint32 for uniform arithmetic
	data     []uint32
	highStart int32
}

// Parse reads a serialized trie, dispatching on its 4-byte signature.
// Recognized-but-unsupported version 1 returns ErrLegacyFormatUnsupported;
// version 2 and anything else return an error with CodeInvalidFormat.
func Parse(b []byte) (*Parsed, error) {
	h, err := DecodeHeader(b)
	if err != nil {
		return nil, err
	}
	switch h.Signature {
	case SignatureV3:
		return parseV3(h, b)
	case signatureV1:
		return nil, ErrLegacyFormatUnsupported
	case signatureV2:
		return nil, base.NewInvalidFormatError("utrie3: version-2 trie format is not supported")
	default:
		return nil, base.NewInvalidFormatError("utrie3: unrecognized trie signature %#08x", h.Signature)
	}
}

func parseV3(h Header, b []byte) (*Parsed, error) {
	valueBits := h.ValueBits()
	dataMove := 0
	if valueBits == 16 {
		dataMove = int(h.IndexLength)
	}

	indexBytes := b[HeaderSize:]
	if len(indexBytes) < int(h.IndexLength)*2 {
		return nil, base.CorruptionErrorf("utrie3: truncated index array")
	}
	index := make([]uint32, h.IndexLength)
	for i := range index {
		index[i] = uint32(binary.LittleEndian.Uint16(indexBytes[i*2 : i*2+2]))
	}

	dataLength := int(h.ShiftedDataLength) << indexShift
	dataBytes := indexBytes[int(h.IndexLength)*2:]
	data := make([]uint32, dataLength)
	switch valueBits {
	case 16:
		if len(dataBytes) < dataLength*2 {
			return nil, base.CorruptionErrorf("utrie3: truncated 16-bit data array")
		}
		for i := range data {
			data[i] = uint32(binary.LittleEndian.Uint16(dataBytes[i*2 : i*2+2]))
		}
	case 32:
		if len(dataBytes) < dataLength*4 {
			return nil, base.CorruptionErrorf("utrie3: truncated 32-bit data array")
		}
		for i := range data {
			data[i] = binary.LittleEndian.Uint32(dataBytes[i*4 : i*4+4])
		}
	default:
		return nil, base.NewInvalidFormatError("utrie3: unrecognized valueBits in options %#04x", h.Options)
	}

	return &Parsed{
		header:    h,
		valueBits: valueBits,
		dataMove:  dataMove,
		index:     index,
		data:      data,
		highStart: int32(h.ShiftedHighStart) << shift1,
	}, nil
}

// Get mirrors the mutable trie's Get, reading directly out of the frozen
// index/data arrays with no decompaction.
func (p *Parsed) Get(c int32) uint32 {
	if c < 0 || c > 0x10FFFF {
		return p.header.ErrorValue
	}
	if c >= p.highStart {
		return p.header.HighValue
	}
	if c < bmpLimit {
		i := int(c) >> shift2
		offset := int(p.index[i]) - p.dataMove
		return p.data[offset+int(c)&(dataBlockLength-1)]
	}

	// Supplementary: the index-1 entry for c's 8192-code-point chunk holds
	// the absolute position of that chunk's 512-entry index-2 run, landing
	// either back in the BMP table (unshifted entries) or in the
	// supplementary index-2 tail (entries shifted by INDEX_SHIFT).
	index1Length := (int(p.highStart) - bmpLimit) >> shift1
	chunkIndex := (int(c) - bmpLimit) >> shift1
	if chunkIndex >= index1Length {
		return p.header.HighValue
	}
	chunkPos := int(p.index[bmpILimit+chunkIndex])
	blockInChunk := (int(c) - bmpLimit) >> shift2 & ((1 << (shift1 - shift2)) - 1)
	entryPos := chunkPos + blockInChunk

	var offset int
	if entryPos < bmpILimit {
		offset = int(p.index[entryPos]) - p.dataMove
	} else {
		offset = int(p.index[entryPos])<<indexShift - p.dataMove
	}
	return p.data[offset+int(c)&(dataBlockLength-1)]
}
