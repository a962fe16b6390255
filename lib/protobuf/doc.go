// Copyright 2026 The fwupd Authors
// SPDX-License-Identifier: Apache-2.0

// Package protobuf implements a minimal protocol buffers codec over a
// single growable buffer, the [Tape].
//
// There is no schema and no generated code. Writers append fields in
// call order (varint, boolean, string, embedded message, empty) and
// readers scan the tape linearly for the first field carrying a given
// field number. This is the shape device protocols that tunnel protobuf
// over HID or serial need: a handful of known fields, built and read by
// hand.
//
// Tags and lengths use standard varint encoding through
// google.golang.org/protobuf/encoding/protowire, so any field number
// from 1 to 2^29-1 is valid. Reading fails with an *fwerror.Error:
// NotFound when the scan reaches the end without a match, InvalidData
// for malformed encoding or a field of the wrong wire type. Start and
// end group wire types are not supported and read as InvalidData.
package protobuf
