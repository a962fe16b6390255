// Copyright 2026 The fwupd Authors
// SPDX-License-Identifier: Apache-2.0

// Package fwerror defines the error taxonomy shared by the firmware
// codec packages (msgpack, protobuf, ihex, srec, memimage).
//
// Every failure is an [*Error] carrying a [Kind], a human-readable
// message, and optional positional context: a byte offset for binary
// parsers, a 1-based line number for the line-oriented record formats.
// Callers branch on the kind with errors.Is against the sentinels:
//
//	value, err := msgpack.MapLookup(items, 0, "version")
//	if errors.Is(err, fwerror.ErrNotFound) {
//	    // key absent: an ordinary outcome
//	}
//
// and extract positional context with errors.As:
//
//	var codecErr *fwerror.Error
//	if errors.As(err, &codecErr) && codecErr.Line > 0 {
//	    fmt.Printf("bad record on line %d\n", codecErr.Line)
//	}
//
// None of the codec packages retry or recover internally; errors
// propagate unchanged to the immediate caller.
package fwerror
