// Copyright 2026 The fwupd Authors
// SPDX-License-Identifier: Apache-2.0

package msgpack

import (
	"encoding/binary"
	"math"

	"github.com/fwupd/fwupd-sub026/lib/fwerror"
	"github.com/fwupd/fwupd-sub026/lib/item"
)

// Write encodes items using the most compact representation for each
// value. Writing an empty sequence yields an empty buffer.
//
// Width selection is deterministic: non-negative integers use fixint up
// to 127, then uint8, uint16, uint32, uint64 at their type limits;
// negative integers use negative fixint down to -32, then int8, int16,
// int32, int64. Floats are always float64. Strings use fixstr up to 31
// bytes, then str8/16/32; binaries use bin8/16/32; headers use
// fixmap/fixarray up to 15, then the 16 and 32-bit forms. Payloads and
// counts above 2^32-1 fail with a NotSupported error.
func Write(items []item.Item) ([]byte, error) {
	buffer := make([]byte, 0, estimateSize(items))
	for index, value := range items {
		var err error
		buffer, err = AppendItem(buffer, value)
		if err != nil {
			return nil, fwerror.New(fwerror.KindOf(err), "item %d: %s", index, err.Error())
		}
	}
	return buffer, nil
}

func estimateSize(items []item.Item) int {
	size := 0
	for _, value := range items {
		size += 9 + value.PayloadLen()
	}
	return size
}

// AppendItem appends the encoding of one item to buffer.
func AppendItem(buffer []byte, value item.Item) ([]byte, error) {
	switch value.Kind() {
	case item.KindNil:
		return append(buffer, tagNil), nil

	case item.KindBoolean:
		flag, _ := value.Boolean()
		if flag {
			return append(buffer, tagTrue), nil
		}
		return append(buffer, tagFalse), nil

	case item.KindInteger:
		integer, _ := value.Integer()
		return appendInteger(buffer, integer), nil

	case item.KindFloat:
		float, _ := value.Float()
		buffer = append(buffer, tagFloat64)
		return binary.BigEndian.AppendUint64(buffer, math.Float64bits(float)), nil

	case item.KindString:
		text, _ := value.Text()
		return appendString(buffer, text)

	case item.KindBinary:
		payload, _ := value.Binary()
		return appendBinary(buffer, payload)

	case item.KindArray:
		count, _ := value.ArrayLen()
		return appendHeader(buffer, count, tagFixarray, tagArray16, tagArray32, "array")

	case item.KindMap:
		count, _ := value.MapLen()
		return appendHeader(buffer, count, tagFixmap, tagMap16, tagMap32, "map")
	}

	return nil, fwerror.New(fwerror.NotSupported, "item kind %s not supported", value.Kind())
}

func appendInteger(buffer []byte, value int64) []byte {
	if value >= 0 {
		switch {
		case value <= tagPositiveFixintEnd:
			return append(buffer, byte(value))
		case value <= math.MaxUint8:
			return append(buffer, tagUint8, byte(value))
		case value <= math.MaxUint16:
			buffer = append(buffer, tagUint16)
			return binary.BigEndian.AppendUint16(buffer, uint16(value))
		case value <= math.MaxUint32:
			buffer = append(buffer, tagUint32)
			return binary.BigEndian.AppendUint32(buffer, uint32(value))
		default:
			buffer = append(buffer, tagUint64)
			return binary.BigEndian.AppendUint64(buffer, uint64(value))
		}
	}

	switch {
	case value >= negativeFixMin:
		return append(buffer, byte(int8(value)))
	case value >= math.MinInt8:
		return append(buffer, tagInt8, byte(int8(value)))
	case value >= math.MinInt16:
		buffer = append(buffer, tagInt16)
		return binary.BigEndian.AppendUint16(buffer, uint16(int16(value)))
	case value >= math.MinInt32:
		buffer = append(buffer, tagInt32)
		return binary.BigEndian.AppendUint32(buffer, uint32(int32(value)))
	default:
		buffer = append(buffer, tagInt64)
		return binary.BigEndian.AppendUint64(buffer, uint64(value))
	}
}

func appendString(buffer []byte, text string) ([]byte, error) {
	size := uint64(len(text))
	switch {
	case size <= fixstrMaxLen:
		buffer = append(buffer, tagFixstr|byte(size))
	case size <= math.MaxUint8:
		buffer = append(buffer, tagStr8, byte(size))
	case size <= math.MaxUint16:
		buffer = append(buffer, tagStr16)
		buffer = binary.BigEndian.AppendUint16(buffer, uint16(size))
	case size <= math.MaxUint32:
		buffer = append(buffer, tagStr32)
		buffer = binary.BigEndian.AppendUint32(buffer, uint32(size))
	default:
		return nil, fwerror.New(fwerror.NotSupported, "string of %d bytes too long", size)
	}
	return append(buffer, text...), nil
}

// appendBinary writes the length prefix before the payload, so the
// payload must be fully materialized. Binary items built from a reader
// are read to completion at construction.
func appendBinary(buffer []byte, payload []byte) ([]byte, error) {
	size := uint64(len(payload))
	switch {
	case size <= math.MaxUint8:
		buffer = append(buffer, tagBin8, byte(size))
	case size <= math.MaxUint16:
		buffer = append(buffer, tagBin16)
		buffer = binary.BigEndian.AppendUint16(buffer, uint16(size))
	case size <= math.MaxUint32:
		buffer = append(buffer, tagBin32)
		buffer = binary.BigEndian.AppendUint32(buffer, uint32(size))
	default:
		return nil, fwerror.New(fwerror.NotSupported, "binary of %d bytes too large", size)
	}
	return append(buffer, payload...), nil
}

func appendHeader(buffer []byte, count uint64, fix, tag16, tag32 byte, what string) ([]byte, error) {
	switch {
	case count <= fixheaderMax:
		return append(buffer, fix|byte(count)), nil
	case count <= math.MaxUint16:
		buffer = append(buffer, tag16)
		return binary.BigEndian.AppendUint16(buffer, uint16(count)), nil
	case count <= math.MaxUint32:
		buffer = append(buffer, tag32)
		return binary.BigEndian.AppendUint32(buffer, uint32(count)), nil
	default:
		return nil, fwerror.New(fwerror.NotSupported, "%s of %d entries too large", what, count)
	}
}
