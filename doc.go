// Copyright 2024 The utrie3 Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

// Package utrie3 builds and compacts a two-stage lookup table mapping every
// Unicode code point (0..=0x10FFFF) to an unsigned integer property value.
//
// A Trie starts mutable: Set and SetRange accept arbitrary point and range
// assignments, and Get/GetRange let a caller inspect what's been assigned
// so far. Freeze runs the three-phase compactor (whole-block deduplication,
// overlap-based block placement, index-2 compaction) and serializes the
// result to the final 16-bit-index, 16-or-32-bit-data layout described in
// SPEC_FULL.md §4.6/§6.2. Freeze is one-way: once called, the mutable
// representation is gone and only the packed bytes remain.
package utrie3
