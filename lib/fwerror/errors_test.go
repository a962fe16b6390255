// Copyright 2026 The fwupd Authors
// SPDX-License-Identifier: Apache-2.0

package fwerror

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorFormatting(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "line",
			err:  AtLine(InvalidChecksum, 3, "checksum 0x%02x", 0x12),
			want: "line 3: checksum 0x12",
		},
		{
			name: "offset",
			err:  AtOffset(InvalidData, 0x1f, "truncated"),
			want: "offset 0x1f: truncated",
		},
		{
			name: "offset zero",
			err:  AtOffset(InvalidData, 0, "empty"),
			want: "offset 0x0: empty",
		},
		{
			name: "no position",
			err:  New(NotFound, "no key %q", "version"),
			want: `no key "version"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestErrorsIsThroughWrapping(t *testing.T) {
	inner := AtOffset(InvalidData, 4, "bad tag")
	wrapped := fmt.Errorf("parsing payload: %w", inner)

	if !errors.Is(wrapped, ErrInvalidData) {
		t.Error("errors.Is(wrapped, ErrInvalidData) = false")
	}
	if errors.Is(wrapped, ErrNotFound) {
		t.Error("errors.Is(wrapped, ErrNotFound) = true")
	}
	if !Is(wrapped, InvalidData) {
		t.Error("Is(wrapped, InvalidData) = false")
	}

	var codecErr *Error
	if !errors.As(wrapped, &codecErr) {
		t.Fatal("errors.As failed")
	}
	if codecErr.Offset != 4 {
		t.Errorf("Offset = %d, want 4", codecErr.Offset)
	}
}

func TestKindOfForeignError(t *testing.T) {
	if kind := KindOf(errors.New("plain")); kind != 0 {
		t.Errorf("KindOf(plain) = %v, want 0", kind)
	}
	if kind := KindOf(nil); kind != 0 {
		t.Errorf("KindOf(nil) = %v, want 0", kind)
	}
}

func TestKindString(t *testing.T) {
	kinds := []Kind{InvalidData, InvalidFile, InvalidChecksum, NotFound, NotSupported, KindMismatch}
	seen := make(map[string]bool)
	for _, kind := range kinds {
		name := kind.String()
		if seen[name] {
			t.Errorf("duplicate kind name %q", name)
		}
		seen[name] = true
		if sentinelFor(kind) == nil {
			t.Errorf("kind %s has no sentinel", name)
		}
	}
	if got := Kind(99).String(); got != "unknown(99)" {
		t.Errorf("Kind(99).String() = %q", got)
	}
}
