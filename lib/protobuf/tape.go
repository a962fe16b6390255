// Copyright 2026 The fwupd Authors
// SPDX-License-Identifier: Apache-2.0

package protobuf

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/fwupd/fwupd-sub026/lib/fwerror"
)

// maxReportedFields bounds the field-number list carried in a NotFound
// message.
const maxReportedFields = 32

// Tape is one encoded message. The zero value is an empty tape ready
// for use. A Tape is not safe for concurrent mutation.
type Tape struct {
	buffer []byte
}

// NewTape returns an empty tape.
func NewTape() *Tape {
	return &Tape{}
}

// NewTapeFromBytes returns a tape holding a copy of data, for reading
// a message received from a device.
func NewTapeFromBytes(data []byte) *Tape {
	return &Tape{buffer: append([]byte(nil), data...)}
}

// Bytes returns a copy of the encoded message.
func (t *Tape) Bytes() []byte {
	return append([]byte(nil), t.buffer...)
}

// Len returns the encoded size in bytes.
func (t *Tape) Len() int {
	return len(t.buffer)
}

// String returns a lower-case hex dump of the encoded bytes.
func (t *Tape) String() string {
	return hex.EncodeToString(t.buffer)
}

func checkNumber(number protowire.Number) {
	if !number.IsValid() {
		panic(fmt.Sprintf("protobuf: invalid field number %d", number))
	}
}

// AddVarint appends a varint field.
func (t *Tape) AddVarint(number protowire.Number, value uint64) {
	checkNumber(number)
	t.buffer = protowire.AppendTag(t.buffer, number, protowire.VarintType)
	t.buffer = protowire.AppendVarint(t.buffer, value)
}

// AddUint64 appends an unsigned integer field. It is encoded as a
// varint and is identical to AddVarint.
func (t *Tape) AddUint64(number protowire.Number, value uint64) {
	t.AddVarint(number, value)
}

// AddBoolean appends a boolean field as a varint 0 or 1.
func (t *Tape) AddBoolean(number protowire.Number, value bool) {
	t.AddVarint(number, protowire.EncodeBool(value))
}

// AddString appends a length-delimited string field.
func (t *Tape) AddString(number protowire.Number, text string) {
	checkNumber(number)
	t.buffer = protowire.AppendTag(t.buffer, number, protowire.BytesType)
	t.buffer = protowire.AppendString(t.buffer, text)
}

// AddBytes appends a length-delimited field holding raw bytes.
func (t *Tape) AddBytes(number protowire.Number, data []byte) {
	checkNumber(number)
	t.buffer = protowire.AppendTag(t.buffer, number, protowire.BytesType)
	t.buffer = protowire.AppendBytes(t.buffer, data)
}

// AddEmbedded appends other's encoded bytes as a length-delimited
// sub-message. other is not modified and may be appended again.
func (t *Tape) AddEmbedded(number protowire.Number, other *Tape) {
	t.AddBytes(number, other.buffer)
}

// AddEmpty appends a zero-length length-delimited field, the encoding of
// an empty sub-message or empty string.
func (t *Tape) AddEmpty(number protowire.Number) {
	t.AddBytes(number, nil)
}

// Field is one decoded field.
type Field struct {
	Number protowire.Number
	Type   protowire.Type

	// Offset is the byte offset of the field's tag within the tape.
	Offset int

	// Value holds the decoded integer for varint, fixed32 and fixed64
	// fields.
	Value uint64

	// Payload holds the contents of a length-delimited field. It aliases
	// the tape's buffer.
	Payload []byte
}

// Fields decodes every field in the tape in order.
func (t *Tape) Fields() ([]Field, error) {
	var fields []Field
	err := t.walk(func(field Field) bool {
		fields = append(fields, field)
		return true
	})
	if err != nil {
		return nil, err
	}
	return fields, nil
}

// walk decodes fields in order, calling visit for each until visit
// returns false. Fields after the one visit stops on are not decoded,
// so a lookup succeeds even if later bytes are malformed.
func (t *Tape) walk(visit func(Field) bool) error {
	offset := 0
	for offset < len(t.buffer) {
		number, wireType, tagSize := protowire.ConsumeTag(t.buffer[offset:])
		if tagSize < 0 {
			return fwerror.AtOffset(fwerror.InvalidData, offset,
				"field tag: %v", protowire.ParseError(tagSize))
		}
		field := Field{Number: number, Type: wireType, Offset: offset}
		valueOffset := offset + tagSize
		rest := t.buffer[valueOffset:]

		var valueSize int
		switch wireType {
		case protowire.VarintType:
			field.Value, valueSize = protowire.ConsumeVarint(rest)
		case protowire.Fixed64Type:
			field.Value, valueSize = protowire.ConsumeFixed64(rest)
		case protowire.Fixed32Type:
			var value uint32
			value, valueSize = protowire.ConsumeFixed32(rest)
			field.Value = uint64(value)
		case protowire.BytesType:
			field.Payload, valueSize = protowire.ConsumeBytes(rest)
		default:
			return fwerror.AtOffset(fwerror.InvalidData, offset,
				"field %d has unsupported wire type %s", number, WireTypeName(wireType))
		}
		if valueSize < 0 {
			return fwerror.AtOffset(fwerror.InvalidData, valueOffset,
				"field %d %s value: %v", number, WireTypeName(wireType), protowire.ParseError(valueSize))
		}

		offset = valueOffset + valueSize
		if !visit(field) {
			return nil
		}
	}
	return nil
}

// find returns the first field with the given number.
func (t *Tape) find(number protowire.Number) (Field, error) {
	var (
		found Field
		ok    bool
		seen  []string
	)
	err := t.walk(func(field Field) bool {
		if field.Number == number {
			found, ok = field, true
			return false
		}
		if len(seen) < maxReportedFields {
			seen = append(seen, strconv.Itoa(int(field.Number)))
		}
		return true
	})
	if err != nil {
		return Field{}, err
	}
	if !ok {
		if len(seen) == 0 {
			return Field{}, fwerror.New(fwerror.NotFound, "no field %d in empty message", number)
		}
		return Field{}, fwerror.New(fwerror.NotFound, "no field %d, found fields %s", number, strings.Join(seen, ","))
	}
	return found, nil
}

func wrongType(field Field, want string) error {
	return fwerror.AtOffset(fwerror.InvalidData, field.Offset,
		"field %d has wire type %s, want %s", field.Number, WireTypeName(field.Type), want)
}

// GetUint64 returns the first field with the given number as an
// unsigned integer. Varint, fixed64 and fixed32 (little-endian) wire
// types are accepted.
func (t *Tape) GetUint64(number protowire.Number) (uint64, error) {
	field, err := t.find(number)
	if err != nil {
		return 0, err
	}
	if field.Type == protowire.BytesType {
		return 0, wrongType(field, "an integer")
	}
	return field.Value, nil
}

// GetBoolean returns the first field with the given number as a
// boolean. The field must be a varint holding 0 or 1.
func (t *Tape) GetBoolean(number protowire.Number) (bool, error) {
	field, err := t.find(number)
	if err != nil {
		return false, err
	}
	if field.Type != protowire.VarintType {
		return false, wrongType(field, "varint")
	}
	if field.Value > 1 {
		return false, fwerror.AtOffset(fwerror.InvalidData, field.Offset,
			"boolean field %d holds 0x%x", number, field.Value)
	}
	return field.Value == 1, nil
}

// GetString returns the first field with the given number as text. The
// field must be length-delimited and valid UTF-8.
func (t *Tape) GetString(number protowire.Number) (string, error) {
	field, err := t.find(number)
	if err != nil {
		return "", err
	}
	if field.Type != protowire.BytesType {
		return "", wrongType(field, "bytes")
	}
	if !utf8.Valid(field.Payload) {
		return "", fwerror.AtOffset(fwerror.InvalidData, field.Offset,
			"string field %d is not valid UTF-8", number)
	}
	return string(field.Payload), nil
}

// GetBytes returns a copy of the first length-delimited field with the
// given number.
func (t *Tape) GetBytes(number protowire.Number) ([]byte, error) {
	field, err := t.find(number)
	if err != nil {
		return nil, err
	}
	if field.Type != protowire.BytesType {
		return nil, wrongType(field, "bytes")
	}
	return append([]byte{}, field.Payload...), nil
}

// GetEmbedded returns the first length-delimited field with the given
// number as a new tape. The sub-message is not decoded until read.
func (t *Tape) GetEmbedded(number protowire.Number) (*Tape, error) {
	field, err := t.find(number)
	if err != nil {
		return nil, err
	}
	if field.Type != protowire.BytesType {
		return nil, wrongType(field, "bytes")
	}
	return NewTapeFromBytes(field.Payload), nil
}

// WireTypeName returns the protobuf name of a wire type.
func WireTypeName(wireType protowire.Type) string {
	switch wireType {
	case protowire.VarintType:
		return "varint"
	case protowire.Fixed64Type:
		return "i64"
	case protowire.BytesType:
		return "len"
	case protowire.StartGroupType:
		return "sgroup"
	case protowire.EndGroupType:
		return "egroup"
	case protowire.Fixed32Type:
		return "i32"
	}
	return "unknown(" + strconv.Itoa(int(wireType)) + ")"
}
