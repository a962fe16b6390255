// Copyright 2026 The fwupd Authors
// SPDX-License-Identifier: Apache-2.0

// Package item defines [Item], the tagged-union value that flat codecs
// (see lib/msgpack) parse into and write from.
//
// An Item is exactly one of nil, boolean, integer (int64), float
// (float64), binary, string, map header, or array header. Map and array
// headers carry only a count: the contents are the items that follow the
// header in the same flat sequence, not children of the header.
//
// Accessors are typed and never coerce. Reading an integer item with
// [Item.Float] fails with an error of kind fwerror.KindMismatch instead
// of returning a default value:
//
//	count, err := header.MapLen()
//	if err != nil {
//	    return err // the item was not a map header
//	}
package item
