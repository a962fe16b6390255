// Copyright 2026 The fwupd Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"bytes"
	"os"
	"testing"

	"github.com/fwupd/fwupd-sub026/lib/fwerror"
)

func TestHex(t *testing.T) {
	got := Hex(t, `
		81          // map(1)
		a1 61       // "a"
		06`)
	want := []byte{0x81, 0xa1, 0x61, 0x06}
	if !bytes.Equal(got, want) {
		t.Errorf("Hex = %x, want %x", got, want)
	}
}

func TestWriteFile(t *testing.T) {
	path := WriteFile(t, "fixture.hex", []byte(":00000001FF\n"))
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(data) != ":00000001FF\n" {
		t.Errorf("fixture = %q", data)
	}
}

func TestRequireKind(t *testing.T) {
	RequireKind(t, fwerror.New(fwerror.NotFound, "missing"), fwerror.NotFound)
}
