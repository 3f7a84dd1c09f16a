// Copyright 2024 The utrie3 Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

// Package blockhash provides a fast, seeded content hash of a 16-word data
// block, used purely as an in-memory pre-filter during compaction (the
// MIXED-block dedup in compactWholeDataBlocks). It is never part of the
// serialized trie; two blocks with the same hash still get compared
// byte-for-byte before being treated as equal, the way the teacher's cksum
// package seeds different hashes per data kind but always lets a caller
// (e.g. cksum.Key.Verify) fall back to an exact recomputation.
package blockhash

import (
	"unsafe"

	"github.com/zeebo/xxh3"
)

// seedDataBlock differentiates a data-block hash from any other hash domain
// a caller of this package might introduce later, mirroring cksum's
// per-datatype seed constants (seedUnversionedKey, seedVersion, ...).
const seedDataBlock uint64 = 0xD47A7B10C0DE

// Hash returns a seeded 64-bit content hash of block, a slice of
// DATA_BLOCK_LENGTH (or ASCII-prefix-length) uint32 values. Equal slices
// always hash equal; unequal slices hash equal only by chance, so callers
// must still confirm equality before treating a hash match as a dedup hit.
func Hash(block []uint32) uint64 {
	if len(block) == 0 {
		return xxh3.HashSeed(nil, seedDataBlock)
	}
	// Reinterpret the []uint32 as a []byte without copying; xxh3 only reads
	// the bytes, and block's backing array outlives this call.
	b := unsafe.Slice((*byte)(unsafe.Pointer(&block[0])), len(block)*4)
	return xxh3.HashSeed(b, seedDataBlock)
}
