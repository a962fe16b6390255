// Copyright 2026 The fwupd Authors
// SPDX-License-Identifier: Apache-2.0

// Package msgpack parses and writes MessagePack byte streams as flat
// sequences of [item.Item].
//
// Devices that speak MessagePack over a control channel send small
// self-describing payloads: typically one map of status fields. The
// codec keeps the wire format's flat shape instead of building a tree.
// A map or array header is one item carrying a count, and its contents
// are the items that follow it:
//
//	{"fixint": 6}  <->  [map(1), "fixint", 6]
//
// [Parse] decodes until the buffer is exhausted, failing with an
// *fwerror.Error that carries the byte offset of the failure. It never
// reads outside the input and always terminates. [Write] picks the
// narrowest encoding for every value, so Parse(Write(items)) returns
// items unchanged. [MapLookup] finds a string key in a map header's
// pairs. [Builder] assembles sequences whose header counts are checked,
// and [Tree] folds a sequence into nested values for display.
//
// Extension types (ext and fixext) are rejected as NotSupported: no
// device payload uses them and the item model has no kind for them.
package msgpack
