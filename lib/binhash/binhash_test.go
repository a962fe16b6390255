// Copyright 2026 The fwupd Authors
// SPDX-License-Identifier: Apache-2.0

package binhash

import (
	"crypto/sha256"
	"os"
	"path/filepath"
	"testing"

	"github.com/zeebo/blake3"

	"github.com/fwupd/fwupd-sub026/lib/memimage"
)

// emptySHA256 and emptyBLAKE3 are the published digests of no input.
const (
	emptySHA256 = "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
	emptyBLAKE3 = "af1349b9f5f9a1a6a0404dea36dcc9499bcb25c9adc112b7cc9a93cae41f3262"
)

func TestSumEmpty(t *testing.T) {
	digests := Sum(nil)
	if got := digests.SHA256.String(); got != emptySHA256 {
		t.Errorf("SHA256 = %s, want %s", got, emptySHA256)
	}
	if got := digests.BLAKE3.String(); got != emptyBLAKE3 {
		t.Errorf("BLAKE3 = %s, want %s", got, emptyBLAKE3)
	}
}

func TestSumMatchesReference(t *testing.T) {
	content := []byte("Neque porro quis")
	digests := Sum(content)
	if digests.SHA256 != sha256.Sum256(content) {
		t.Errorf("SHA256 = %s", digests.SHA256)
	}
	if digests.BLAKE3 != blake3.Sum256(content) {
		t.Errorf("BLAKE3 = %s", digests.BLAKE3)
	}
}

func TestSumImageLayout(t *testing.T) {
	build := func(address uint64, data []byte) *memimage.Image {
		image := memimage.New(false)
		if err := image.Write(address, data); err != nil {
			t.Fatal(err)
		}
		return image
	}

	base := SumImage(build(0x1000, []byte{1, 2, 3}))
	if again := SumImage(build(0x1000, []byte{1, 2, 3})); again != base {
		t.Error("SumImage not deterministic")
	}
	if moved := SumImage(build(0x2000, []byte{1, 2, 3})); moved == base {
		t.Error("moving the data did not change the digest")
	}

	gapped := memimage.New(false)
	gapped.Write(0x1000, []byte{1})
	gapped.Write(0x1002, []byte{3})
	filled := build(0x1000, []byte{1, 0xFF, 3})
	if SumImage(gapped) == SumImage(filled) {
		t.Error("a gap hashed the same as a fill byte")
	}

	if SumImage(memimage.New(false)) != Sum(nil) {
		t.Error("empty image should hash as no input")
	}
}

func TestHashFile(t *testing.T) {
	content := make([]byte, 256*1024)
	for i := range content {
		content[i] = byte(i % 251)
	}
	path := filepath.Join(t.TempDir(), "firmware.bin")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	got, err := HashFile(path)
	if err != nil {
		t.Fatalf("HashFile: %v", err)
	}
	if got != Sum(content) {
		t.Errorf("HashFile = %+v, want %+v", got, Sum(content))
	}

	if _, err := HashFile(filepath.Join(t.TempDir(), "does-not-exist")); err == nil {
		t.Fatal("HashFile should fail for nonexistent file")
	}
}

func TestParseDigestRoundTrip(t *testing.T) {
	original := Sum([]byte("round-trip")).BLAKE3
	parsed, err := ParseDigest(FormatDigest(original))
	if err != nil {
		t.Fatalf("ParseDigest: %v", err)
	}
	if parsed != original {
		t.Errorf("ParseDigest round-trip failed: %s != %s", parsed, original)
	}
}

func TestParseDigestInvalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"not hex", "zzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzz"},
		{"too short", "abcd"},
		{"too long", emptySHA256 + "aa"},
		{"empty", ""},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if _, err := ParseDigest(test.input); err == nil {
				t.Errorf("ParseDigest(%q) should fail", test.input)
			}
		})
	}
}
