// Copyright 2026 The fwupd Authors
// SPDX-License-Identifier: Apache-2.0

package msgpack

import (
	"fmt"
	"io"

	"github.com/fwupd/fwupd-sub026/lib/item"
)

// Builder assembles a flat item sequence whose map and array headers
// are guaranteed to match the number of values written inside them.
//
//	var builder msgpack.Builder
//	builder.Map(2, func(b *msgpack.Builder) {
//	    b.String("name")
//	    b.String(filename)
//	    b.String("file_data")
//	    b.Binary(payload)
//	})
//	data, err := msgpack.Write(builder.Items())
//
// A fill function that writes a different number of values than its
// header announces is a programming error and panics.
type Builder struct {
	items []item.Item

	// levels counts the values written at each open container depth.
	// levels[0] is the top level.
	levels []uint64
}

func (b *Builder) add(value item.Item) {
	b.items = append(b.items, value)
	if len(b.levels) == 0 {
		b.levels = append(b.levels, 0)
	}
	b.levels[len(b.levels)-1]++
}

// Nil appends a nil value.
func (b *Builder) Nil() { b.add(item.NewNil()) }

// Boolean appends a boolean value.
func (b *Builder) Boolean(value bool) { b.add(item.NewBoolean(value)) }

// Integer appends an integer value.
func (b *Builder) Integer(value int64) { b.add(item.NewInteger(value)) }

// Float appends a float value.
func (b *Builder) Float(value float64) { b.add(item.NewFloat(value)) }

// String appends a string value.
func (b *Builder) String(value string) { b.add(item.NewString(value)) }

// Binary appends a binary value.
func (b *Builder) Binary(value []byte) { b.add(item.NewBinary(value)) }

// BinaryFromReader reads reader to completion and appends the result
// as a binary value. Nothing is appended on error.
func (b *Builder) BinaryFromReader(reader io.Reader) error {
	value, err := item.NewBinaryFromReader(reader)
	if err != nil {
		return err
	}
	b.add(value)
	return nil
}

// Item appends a pre-built scalar item. Headers must go through Map
// or Array so their counts are checked.
func (b *Builder) Item(value item.Item) {
	if kind := value.Kind(); kind == item.KindMap || kind == item.KindArray || !value.IsValid() {
		panic(fmt.Sprintf("msgpack: Builder.Item given %s; use Map or Array for headers", kind))
	}
	b.add(value)
}

// Map appends a map header for pairs key/value pairs and calls fill to
// write them. fill must write exactly 2*pairs values.
func (b *Builder) Map(pairs uint64, fill func(*Builder)) {
	b.container(item.NewMap(pairs), pairs*2, fill)
}

// Array appends an array header for count elements and calls fill to
// write them. fill must write exactly count values.
func (b *Builder) Array(count uint64, fill func(*Builder)) {
	b.container(item.NewArray(count), count, fill)
}

func (b *Builder) container(header item.Item, want uint64, fill func(*Builder)) {
	b.add(header)
	b.levels = append(b.levels, 0)
	if fill != nil {
		fill(b)
	}
	got := b.levels[len(b.levels)-1]
	b.levels = b.levels[:len(b.levels)-1]
	if got != want {
		panic(fmt.Sprintf("msgpack: %s header announces %d values but %d were written", header, want, got))
	}
}

// Items returns the assembled sequence. The builder must not be inside
// a Map or Array fill function.
func (b *Builder) Items() []item.Item {
	if len(b.levels) > 1 {
		panic("msgpack: Builder.Items called inside an open container")
	}
	return b.items
}
