// Copyright 2024 The utrie3 Authors. All rights reserved. Use of this
// source code is governed by a BSD-style license that can be found in the
// LICENSE file.

// Package base holds the error taxonomy shared by the trie builder,
// compactor and serializer. It has no dependency on the rest of the module
// so that every other package can depend on it without import cycles.
package base

import (
	"github.com/cockroachdb/errors"
)

// Code classifies a failure the way callers need to distinguish them: is the
// request malformed, is the trie in the wrong state, did memory run out, did
// compaction produce something unrepresentable, or was serialized input
// unrecognized.
type Code int

const (
	// CodeNone is the zero value; errors constructed through this package
	// never carry it.
	CodeNone Code = iota
	// CodeIllegalArgument covers a bad code-point range, an invalid
	// valueBits choice, or an operation on a nil/wrong-state trie.
	CodeIllegalArgument
	// CodeNoWritePermission covers a mutation attempted on a frozen trie.
	CodeNoWritePermission
	// CodeMemoryAllocation covers a failure to grow the block store.
	CodeMemoryAllocation
	// CodeIndexOutOfBounds covers a post-compaction offset that does not
	// fit in 16 bits for the requested value width.
	CodeIndexOutOfBounds
	// CodeInvalidFormat covers serialized input that is not a recognized
	// trie version.
	CodeInvalidFormat
)

// String implements fmt.Stringer.
func (c Code) String() string {
	switch c {
	case CodeIllegalArgument:
		return "ILLEGAL_ARGUMENT"
	case CodeNoWritePermission:
		return "NO_WRITE_PERMISSION"
	case CodeMemoryAllocation:
		return "MEMORY_ALLOCATION"
	case CodeIndexOutOfBounds:
		return "INDEX_OUTOFBOUNDS"
	case CodeInvalidFormat:
		return "INVALID_FORMAT"
	default:
		return "NONE"
	}
}

type codedError struct {
	code Code
	error
}

func (e *codedError) Unwrap() error { return e.error }

// withCode wraps err so that CodeOf can recover the taxonomy code later,
// without forcing every call site to define its own sentinel.
func withCode(code Code, err error) error {
	return &codedError{code: code, error: err}
}

// CodeOf recovers the Code that a New*Error constructor attached to err, or
// CodeNone if err was not constructed by this package.
func CodeOf(err error) Code {
	var ce *codedError
	if errors.As(err, &ce) {
		return ce.code
	}
	return CodeNone
}

// NewIllegalArgumentError reports a bad code-point range, invalid valueBits,
// or an operation on a nil/wrong-state trie.
func NewIllegalArgumentError(format string, args ...interface{}) error {
	return withCode(CodeIllegalArgument, errors.Newf(format, args...))
}

// ErrNoWritePermission is returned for any mutation attempted on a frozen
// trie. It is a single sentinel (rather than Newf'd per call site) since the
// message never varies.
var ErrNoWritePermission = withCode(CodeNoWritePermission, errors.New("utrie3: trie is frozen"))

// NewMemoryAllocationError reports that the block store could not grow to
// satisfy a request.
func NewMemoryAllocationError(format string, args ...interface{}) error {
	return withCode(CodeMemoryAllocation, errors.Newf(format, args...))
}

// NewIndexOutOfBoundsError reports that, after compaction, a required offset
// does not fit in 16 bits for the chosen value width.
func NewIndexOutOfBoundsError(format string, args ...interface{}) error {
	return withCode(CodeIndexOutOfBounds, errors.Newf(format, args...))
}

// NewInvalidFormatError reports that serialized input is not a recognized
// trie version.
func NewInvalidFormatError(format string, args ...interface{}) error {
	return withCode(CodeInvalidFormat, errors.Newf(format, args...))
}

// CorruptionErrorf constructs an error marked as data corruption and tagged
// CodeInvalidFormat, mirroring the teacher's base.CorruptionErrorf used at
// sstable/block decode sites. Callers use it where a byte range fails an
// internal consistency check (e.g. a truncated read) rather than where the
// outermost version signature is simply unrecognized, even though both
// report CodeInvalidFormat to CodeOf.
func CorruptionErrorf(format string, args ...interface{}) error {
	return MarkCorruptionError(withCode(CodeInvalidFormat, errors.Newf(format, args...)))
}

// errCorruptionMark is never returned directly; errors.Is(err, errCorruptionMark)
// is how callers test "is this corruption" without depending on the
// concrete error type.
var errCorruptionMark = errors.New("utrie3: corruption")

// MarkCorruptionError marks err as data corruption so that
// errors.Is(err, ErrCorruption) succeeds, mirroring the teacher's
// base.MarkCorruptionError.
func MarkCorruptionError(err error) error {
	if err == nil {
		return nil
	}
	return errors.Mark(err, errCorruptionMark)
}

// ErrCorruption is the marker checked via errors.Is to recognize an error
// produced by MarkCorruptionError/CorruptionErrorf.
var ErrCorruption = errCorruptionMark
