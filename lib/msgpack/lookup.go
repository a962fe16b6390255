// Copyright 2026 The fwupd Authors
// SPDX-License-Identifier: Apache-2.0

package msgpack

import (
	"github.com/fwupd/fwupd-sub026/lib/fwerror"
	"github.com/fwupd/fwupd-sub026/lib/item"
)

// MapLookup resolves key in the map whose header is items[start] and
// returns the paired value item.
//
// The header's count N selects the 2N items after it, read as
// (key, value) pairs. Values are single items: a nested map or array
// value is returned as its header only, and its contents are not
// skipped, so lookups are only meaningful on maps whose values are
// scalars or whose layout the caller knows.
//
// Errors: NotSupported if items[start] is not a map header; InvalidData
// if start is out of range, the pairs run past the end of items, or a
// key is not a string; NotFound if no key matches. When keys repeat,
// the first match wins.
func MapLookup(items []item.Item, start int, key string) (item.Item, error) {
	if start < 0 || start >= len(items) {
		return item.Item{}, fwerror.New(fwerror.InvalidData,
			"map index %d out of range for %d items", start, len(items))
	}

	header := items[start]
	pairs, err := header.MapLen()
	if err != nil {
		return item.Item{}, fwerror.New(fwerror.NotSupported,
			"item %d is %s, not a map", start, header.Kind())
	}

	available := uint64(len(items) - start - 1)
	if pairs > available/2 {
		return item.Item{}, fwerror.New(fwerror.InvalidData,
			"map at item %d has %d pairs but only %d items follow", start, pairs, available)
	}

	for index := start + 1; index < start+1+int(pairs)*2; index += 2 {
		candidate, err := items[index].Text()
		if err != nil {
			return item.Item{}, fwerror.New(fwerror.InvalidData,
				"map key at item %d is %s, not a string", index, items[index].Kind())
		}
		if candidate == key {
			return items[index+1], nil
		}
	}

	return item.Item{}, fwerror.New(fwerror.NotFound, "map at item %d has no key %q", start, key)
}
