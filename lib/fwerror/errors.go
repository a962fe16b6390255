// Copyright 2026 The fwupd Authors
// SPDX-License-Identifier: Apache-2.0

package fwerror

import (
	"errors"
	"fmt"
)

// Kind classifies a codec failure.
type Kind uint8

const (
	// InvalidData is a malformed, truncated, or type-mismatched payload.
	InvalidData Kind = iota + 1

	// InvalidFile is a record-format violation in a line-oriented
	// firmware file (bad start token, short line, missing EOF).
	InvalidFile

	// InvalidChecksum is a record whose trailing checksum does not
	// match the bytes before it.
	InvalidChecksum

	// NotFound is a lookup miss: absent map key or protobuf field.
	NotFound

	// NotSupported is structurally valid input that cannot be used,
	// such as a map lookup starting on an item that is not a map.
	NotSupported

	// KindMismatch is an item accessor called against the wrong kind.
	KindMismatch
)

// String returns the name used in error messages and CLI output.
func (kind Kind) String() string {
	switch kind {
	case InvalidData:
		return "invalid-data"
	case InvalidFile:
		return "invalid-file"
	case InvalidChecksum:
		return "invalid-checksum"
	case NotFound:
		return "not-found"
	case NotSupported:
		return "not-supported"
	case KindMismatch:
		return "kind-mismatch"
	default:
		return fmt.Sprintf("unknown(%d)", kind)
	}
}

// Sentinels for errors.Is. Every *Error unwraps to the sentinel of its
// kind.
var (
	ErrInvalidData     = &sentinel{InvalidData}
	ErrInvalidFile     = &sentinel{InvalidFile}
	ErrInvalidChecksum = &sentinel{InvalidChecksum}
	ErrNotFound        = &sentinel{NotFound}
	ErrNotSupported    = &sentinel{NotSupported}
	ErrKindMismatch    = &sentinel{KindMismatch}
)

type sentinel struct {
	kind Kind
}

func (s *sentinel) Error() string {
	return s.kind.String()
}

func sentinelFor(kind Kind) error {
	switch kind {
	case InvalidData:
		return ErrInvalidData
	case InvalidFile:
		return ErrInvalidFile
	case InvalidChecksum:
		return ErrInvalidChecksum
	case NotFound:
		return ErrNotFound
	case NotSupported:
		return ErrNotSupported
	case KindMismatch:
		return ErrKindMismatch
	default:
		return nil
	}
}

// NoOffset marks an Error without a byte offset.
const NoOffset = -1

// Error is a codec failure with positional context.
type Error struct {
	// Kind classifies the failure.
	Kind Kind

	// Message describes the failure without positional prefix.
	Message string

	// Offset is the byte offset at which a binary parse failed, or
	// NoOffset.
	Offset int

	// Line is the 1-based line number of a failing text record, or 0.
	Line int
}

func (e *Error) Error() string {
	switch {
	case e.Line > 0:
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	case e.Offset >= 0:
		return fmt.Sprintf("offset 0x%x: %s", e.Offset, e.Message)
	default:
		return e.Message
	}
}

// Unwrap returns the sentinel for the error's kind so that
// errors.Is(err, ErrNotFound) works through any wrapping.
func (e *Error) Unwrap() error {
	return sentinelFor(e.Kind)
}

// New returns an Error without positional context.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Offset: NoOffset}
}

// AtOffset returns an Error positioned at a byte offset.
func AtOffset(kind Kind, offset int, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Offset: offset}
}

// AtLine returns an Error positioned at a 1-based line number.
func AtLine(kind Kind, line int, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Offset: NoOffset, Line: line}
}

// KindOf returns the kind of the first *Error in err's chain, or 0 if
// there is none.
func KindOf(err error) Kind {
	var codecErr *Error
	if errors.As(err, &codecErr) {
		return codecErr.Kind
	}
	return 0
}

// Is reports whether err is an *Error of the given kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}
