// Copyright 2026 The fwupd Authors
// SPDX-License-Identifier: Apache-2.0

package msgpack

import (
	"encoding/hex"
	"testing"

	"github.com/fwupd/fwupd-sub026/lib/fwerror"
	"github.com/fwupd/fwupd-sub026/lib/item"
)

// FuzzParse checks that Parse never panics, that failures carry a
// codec error kind, and that whatever parses re-encodes to a sequence
// that parses back identically.
func FuzzParse(f *testing.F) {
	seed, _ := hex.DecodeString(deviceReportHex)
	f.Add(seed)
	f.Add([]byte{})
	f.Add([]byte{0xc1})
	f.Add([]byte{0xdf, 0xff, 0xff, 0xff, 0xff})
	f.Add([]byte{0xc6, 0xff, 0xff, 0xff, 0xff})

	f.Fuzz(func(t *testing.T, data []byte) {
		items, err := Parse(data)
		if err != nil {
			if fwerror.KindOf(err) == 0 {
				t.Fatalf("Parse error without a kind: %v", err)
			}
			return
		}
		encoded, err := Write(items)
		if err != nil {
			t.Fatalf("Write of parsed items: %v", err)
		}
		again, err := Parse(encoded)
		if err != nil {
			t.Fatalf("Parse of re-encoded items: %v", err)
		}
		if !item.SequenceEqual(items, again) {
			t.Fatalf("re-encode changed the sequence:\n%v\n%v", items, again)
		}
		_, _ = Tree(items)
	})
}
