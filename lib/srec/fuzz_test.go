// Copyright 2026 The fwupd Authors
// SPDX-License-Identifier: Apache-2.0

package srec

import (
	"bytes"
	"testing"

	"github.com/fwupd/fwupd-sub026/lib/fwerror"
)

// FuzzParse checks that arbitrary text never panics the parser and
// that any image it accepts survives a write and re-parse unchanged.
func FuzzParse(f *testing.F) {
	f.Add([]byte(overlapping))
	f.Add([]byte("S00600004844521B\nS104000041BA\nS5030001FB\nS9031234B6\n"))
	f.Add([]byte("S4030000FC\n"))
	f.Add([]byte("\r\n\x1a"))

	f.Fuzz(func(t *testing.T, data []byte) {
		firmware, err := Parse(bytes.NewReader(data), Options{})
		if err != nil {
			if fwerror.KindOf(err) == 0 {
				t.Fatalf("Parse error without a kind: %v", err)
			}
			return
		}
		if len(firmware.Header) > 0xFF-3 {
			return
		}
		written, err := WriteImage(firmware.Image, WriteOptions{
			Header:       string(firmware.Header),
			StartAddress: firmware.StartAddress,
		})
		if err != nil {
			t.Fatalf("WriteImage: %v", err)
		}
		again, err := Parse(bytes.NewReader(written), Options{})
		if err != nil {
			t.Fatalf("re-parse of written image: %v\n%s", err, written)
		}
		if again.Image.String() != firmware.Image.String() {
			t.Fatalf("segments changed: %s -> %s", firmware.Image, again.Image)
		}
		if !bytes.Equal(again.Header, firmware.Header) || again.StartAddress != firmware.StartAddress {
			t.Fatalf("header or start address changed")
		}
	})
}
