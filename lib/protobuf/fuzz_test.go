// Copyright 2026 The fwupd Authors
// SPDX-License-Identifier: Apache-2.0

package protobuf

import (
	"testing"

	"github.com/fwupd/fwupd-sub026/lib/fwerror"
)

// FuzzTape reads a device-shaped message (field 4 embedding a string in
// field 2 and an integer in field 3) out of arbitrary bytes.
func FuzzTape(f *testing.F) {
	inner := NewTape()
	inner.AddUint64(1, 150)
	inner.AddString(2, "foo")
	inner.AddUint64(3, 1)
	outer := NewTape()
	outer.AddEmbedded(4, inner)

	f.Add(outer.Bytes())
	f.Add([]byte{})
	f.Add([]byte{0x22, 0xff, 0xff, 0xff, 0xff, 0x0f})

	f.Fuzz(func(t *testing.T, data []byte) {
		tape := NewTapeFromBytes(data)
		if _, err := tape.Fields(); err != nil && fwerror.KindOf(err) == 0 {
			t.Fatalf("Fields error without a kind: %v", err)
		}
		embedded, err := tape.GetEmbedded(4)
		if err != nil {
			return
		}
		_, _ = embedded.GetString(2)
		_, _ = embedded.GetUint64(3)
		_, _ = embedded.GetBoolean(3)
	})
}
