// Copyright 2026 The fwupd Authors
// SPDX-License-Identifier: Apache-2.0

package msgpack

import (
	"errors"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/fwupd/fwupd-sub026/lib/item"
)

func TestBuilderMatchesHandWrittenSequence(t *testing.T) {
	var builder Builder
	builder.Map(4, func(b *Builder) {
		b.String("fixint")
		b.Integer(6)
		b.String("uint8")
		b.Integer(256)
		b.String("float")
		b.Float(1.0)
		b.String("array-of-data")
		b.Array(1, func(b *Builder) {
			b.Binary([]byte{0x34, 0x12, 0x00})
		})
	})
	if got := builder.Items(); !item.SequenceEqual(got, deviceReport()) {
		t.Errorf("builder produced %v, want %v", got, deviceReport())
	}
}

func TestBuilderTopLevelValues(t *testing.T) {
	var builder Builder
	builder.Nil()
	builder.Boolean(true)
	builder.Array(0, nil)
	builder.Item(item.NewString("tail"))

	want := []item.Item{item.NewNil(), item.NewBoolean(true), item.NewArray(0), item.NewString("tail")}
	if got := builder.Items(); !item.SequenceEqual(got, want) {
		t.Errorf("Items() = %v, want %v", got, want)
	}
}

func TestBuilderCountMismatchPanics(t *testing.T) {
	tests := []struct {
		name  string
		build func(*Builder)
	}{
		{"map short", func(b *Builder) {
			b.Map(1, func(b *Builder) { b.String("key") })
		}},
		{"array long", func(b *Builder) {
			b.Array(1, func(b *Builder) { b.Nil(); b.Nil() })
		}},
		{"header through Item", func(b *Builder) {
			b.Item(item.NewMap(0))
		}},
		{"invalid item", func(b *Builder) {
			b.Item(item.Item{})
		}},
		{"Items inside container", func(b *Builder) {
			b.Array(1, func(b *Builder) { b.Items() })
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Error("expected panic")
				}
			}()
			var builder Builder
			tt.build(&builder)
		})
	}
}

func TestBuilderBinaryFromReaderError(t *testing.T) {
	var builder Builder
	failure := errors.New("device unplugged")
	err := builder.BinaryFromReader(iotest.ErrReader(failure))
	if !errors.Is(err, failure) {
		t.Fatalf("err = %v, want wrapped %v", err, failure)
	}
	if len(builder.Items()) != 0 {
		t.Errorf("failed read appended %v", builder.Items())
	}
}

func TestBuilderBinaryFromReader(t *testing.T) {
	var builder Builder
	if err := builder.BinaryFromReader(strings.NewReader("payload")); err != nil {
		t.Fatalf("BinaryFromReader: %v", err)
	}
	items := builder.Items()
	if len(items) != 1 || !items[0].Equal(item.NewBinary([]byte("payload"))) {
		t.Errorf("Items() = %v", items)
	}
	if !items[0].FromStream() {
		t.Error("binary read from a stream should report FromStream")
	}
}
