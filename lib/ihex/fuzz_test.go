// Copyright 2026 The fwupd Authors
// SPDX-License-Identifier: Apache-2.0

package ihex

import (
	"bytes"
	"testing"

	"github.com/fwupd/fwupd-sub026/lib/fwerror"
)

// FuzzParse checks that arbitrary text never panics the parser and
// that any image it accepts survives a write and re-parse unchanged.
func FuzzParse(f *testing.F) {
	f.Add([]byte(picImage))
	f.Add([]byte(loremLine + "\n:00000001FF\n"))
	f.Add([]byte(":0200000480007A\n:04000000666F6F00B8\n:00000001FF\n"))
	f.Add([]byte(";\n\x1a"))

	f.Fuzz(func(t *testing.T, data []byte) {
		firmware, err := Parse(bytes.NewReader(data), Options{})
		if err != nil {
			if fwerror.KindOf(err) == 0 {
				t.Fatalf("Parse error without a kind: %v", err)
			}
			return
		}
		written, err := WriteImage(firmware.Image, WriteOptions{Signature: firmware.Signature})
		if err != nil {
			t.Fatalf("WriteImage: %v", err)
		}
		again, err := Parse(bytes.NewReader(written), Options{})
		if err != nil {
			t.Fatalf("re-parse of written image: %v\n%s", err, written)
		}
		before, after := firmware.Image.Segments(), again.Image.Segments()
		if len(before) != len(after) {
			t.Fatalf("segments changed: %s -> %s", firmware.Image, again.Image)
		}
		for index := range before {
			if before[index].Address != after[index].Address || !bytes.Equal(before[index].Data, after[index].Data) {
				t.Fatalf("segment %d changed", index)
			}
		}
	})
}
