// Copyright 2026 The fwupd Authors
// SPDX-License-Identifier: Apache-2.0

package msgpack

import (
	"encoding/binary"
	"math"
	"unicode/utf8"

	"github.com/fwupd/fwupd-sub026/lib/fwerror"
	"github.com/fwupd/fwupd-sub026/lib/item"
)

// Parse decodes every value in data into a flat item sequence. An
// empty buffer yields an empty, non-nil sequence. On failure the
// returned error is an *fwerror.Error whose Offset is the byte at which
// decoding failed.
func Parse(data []byte) ([]item.Item, error) {
	items := make([]item.Item, 0, estimateItems(len(data)))
	offset := 0
	for offset < len(data) {
		value, next, err := ParseItem(data, offset)
		if err != nil {
			return nil, err
		}
		items = append(items, value)
		offset = next
	}
	return items, nil
}

// estimateItems sizes the initial sequence allocation. Most values
// are a handful of bytes; the cap keeps hostile input from reserving
// large amounts of memory up front.
func estimateItems(size int) int {
	return min(size/4, 1024)
}

// ParseItem decodes the single value starting at offset and returns it
// with the offset of the byte after it.
func ParseItem(data []byte, offset int) (item.Item, int, error) {
	c := cursor{data: data, offset: offset}
	value, err := c.item()
	if err != nil {
		return item.Item{}, offset, err
	}
	return value, c.offset, nil
}

// cursor reads big-endian fields from a buffer with bounds checks.
// Every read either advances offset or fails without moving it.
type cursor struct {
	data   []byte
	offset int
}

func (c *cursor) remaining() int {
	return len(c.data) - c.offset
}

func (c *cursor) truncated(what string, need uint64) error {
	return fwerror.AtOffset(fwerror.InvalidData, c.offset,
		"truncated %s: need %d bytes, have %d", what, need, c.remaining())
}

func (c *cursor) take(what string, count uint64) ([]byte, error) {
	if count > uint64(c.remaining()) {
		return nil, c.truncated(what, count)
	}
	chunk := c.data[c.offset : c.offset+int(count)]
	c.offset += int(count)
	return chunk, nil
}

func (c *cursor) uint8(what string) (uint8, error) {
	chunk, err := c.take(what, 1)
	if err != nil {
		return 0, err
	}
	return chunk[0], nil
}

func (c *cursor) uint16(what string) (uint16, error) {
	chunk, err := c.take(what, 2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(chunk), nil
}

func (c *cursor) uint32(what string) (uint32, error) {
	chunk, err := c.take(what, 4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(chunk), nil
}

func (c *cursor) uint64(what string) (uint64, error) {
	chunk, err := c.take(what, 8)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(chunk), nil
}

// length reads a size prefix of the given byte width (1, 2, or 4).
func (c *cursor) length(what string, width int) (uint64, error) {
	switch width {
	case 1:
		value, err := c.uint8(what + " length")
		return uint64(value), err
	case 2:
		value, err := c.uint16(what + " length")
		return uint64(value), err
	default:
		value, err := c.uint32(what + " length")
		return uint64(value), err
	}
}

func (c *cursor) item() (item.Item, error) {
	start := c.offset
	tag, err := c.uint8("tag")
	if err != nil {
		return item.Item{}, err
	}

	switch {
	case tag <= tagPositiveFixintEnd:
		return item.NewInteger(int64(tag)), nil
	case tag >= tagNegativeFixint:
		return item.NewInteger(int64(int8(tag))), nil
	case tag >= tagFixmap && tag <= tagFixmapEnd:
		return item.NewMap(uint64(tag & 0x0f)), nil
	case tag >= tagFixarray && tag <= tagFixarrayEnd:
		return item.NewArray(uint64(tag & 0x0f)), nil
	case tag >= tagFixstr && tag <= tagFixstrEnd:
		return c.text(start, uint64(tag&0x1f))
	case tag >= tagFixext1 && tag <= tagFixext16:
		return item.Item{}, fwerror.AtOffset(fwerror.NotSupported, start,
			"extension tag 0x%02x not supported", tag)
	}

	switch tag {
	case tagNil:
		return item.NewNil(), nil
	case tagFalse:
		return item.NewBoolean(false), nil
	case tagTrue:
		return item.NewBoolean(true), nil

	case tagUint8:
		value, err := c.uint8("uint8")
		return item.NewInteger(int64(value)), err
	case tagUint16:
		value, err := c.uint16("uint16")
		return item.NewInteger(int64(value)), err
	case tagUint32:
		value, err := c.uint32("uint32")
		return item.NewInteger(int64(value)), err
	case tagUint64:
		value, err := c.uint64("uint64")
		if err != nil {
			return item.Item{}, err
		}
		if value > math.MaxInt64 {
			return item.Item{}, fwerror.AtOffset(fwerror.InvalidData, start,
				"uint64 value %d overflows a signed integer", value)
		}
		return item.NewInteger(int64(value)), nil

	case tagInt8:
		value, err := c.uint8("int8")
		return item.NewInteger(int64(int8(value))), err
	case tagInt16:
		value, err := c.uint16("int16")
		return item.NewInteger(int64(int16(value))), err
	case tagInt32:
		value, err := c.uint32("int32")
		return item.NewInteger(int64(int32(value))), err
	case tagInt64:
		value, err := c.uint64("int64")
		return item.NewInteger(int64(value)), err

	case tagFloat32:
		bits, err := c.uint32("float32")
		return item.NewFloat(float64(math.Float32frombits(bits))), err
	case tagFloat64:
		bits, err := c.uint64("float64")
		return item.NewFloat(math.Float64frombits(bits)), err

	case tagStr8, tagStr16, tagStr32:
		size, err := c.length("string", widthOf(tag, tagStr8))
		if err != nil {
			return item.Item{}, err
		}
		return c.text(start, size)

	case tagBin8, tagBin16, tagBin32:
		size, err := c.length("binary", widthOf(tag, tagBin8))
		if err != nil {
			return item.Item{}, err
		}
		payload, err := c.take("binary payload", size)
		if err != nil {
			return item.Item{}, err
		}
		return item.NewBinary(payload), nil

	case tagArray16, tagArray32:
		count, err := c.length("array", widthOf(tag, tagArray16)*2)
		return item.NewArray(count), err
	case tagMap16, tagMap32:
		count, err := c.length("map", widthOf(tag, tagMap16)*2)
		return item.NewMap(count), err

	case tagExt8, tagExt16, tagExt32:
		return item.Item{}, fwerror.AtOffset(fwerror.NotSupported, start,
			"extension tag 0x%02x not supported", tag)
	}

	c.offset = start
	return item.Item{}, fwerror.AtOffset(fwerror.InvalidData, start, "invalid tag 0x%02x", tag)
}

// widthOf maps a tag in an 8/16/32 family to its length-prefix width
// in bytes, given the family's first tag. For the 16/32-only families
// the caller doubles the result.
func widthOf(tag, first byte) int {
	return 1 << (tag - first)
}

func (c *cursor) text(start int, size uint64) (item.Item, error) {
	payload, err := c.take("string payload", size)
	if err != nil {
		return item.Item{}, err
	}
	if !utf8.Valid(payload) {
		return item.Item{}, fwerror.AtOffset(fwerror.InvalidData, start, "invalid UTF-8 string")
	}
	return item.NewString(string(payload)), nil
}
