// Copyright 2026 The fwupd Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"encoding/hex"
	"strings"
	"testing"
	"unicode"

	"github.com/fwupd/fwupd-sub026/lib/fwerror"
)

// Hex decodes a hex fixture, ignoring whitespace.
//
//	data := testutil.Hex(t, `
//		81          // map(1)
//		a3 6b 65 79 // "key"
//		06`)
//
// Text from "//" to the end of a line is a comment.
func Hex(t testing.TB, fixture string) []byte {
	t.Helper()
	var cleaned strings.Builder
	for line := range strings.Lines(fixture) {
		if index := strings.Index(line, "//"); index >= 0 {
			line = line[:index]
		}
		for _, r := range line {
			if !unicode.IsSpace(r) {
				cleaned.WriteRune(r)
			}
		}
	}
	data, err := hex.DecodeString(cleaned.String())
	if err != nil {
		t.Fatalf("decoding hex fixture: %v", err)
	}
	return data
}

// RequireKind fails the test unless err is an *fwerror.Error of kind.
func RequireKind(t testing.TB, err error, kind fwerror.Kind) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", kind)
	}
	if got := fwerror.KindOf(err); got != kind {
		t.Fatalf("error kind = %s, want %s: %v", got, kind, err)
	}
}
