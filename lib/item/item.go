// Copyright 2026 The fwupd Authors
// SPDX-License-Identifier: Apache-2.0

package item

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/fwupd/fwupd-sub026/lib/fwerror"
)

// Kind identifies which payload an Item carries.
type Kind uint8

const (
	KindNil Kind = iota + 1
	KindBoolean
	KindInteger
	KindFloat
	KindBinary
	KindString
	KindMap
	KindArray
)

// String returns the lowercase kind name.
func (kind Kind) String() string {
	switch kind {
	case KindNil:
		return "nil"
	case KindBoolean:
		return "boolean"
	case KindInteger:
		return "integer"
	case KindFloat:
		return "float"
	case KindBinary:
		return "binary"
	case KindString:
		return "string"
	case KindMap:
		return "map"
	case KindArray:
		return "array"
	default:
		return fmt.Sprintf("unknown(%d)", kind)
	}
}

// Item is one value in a flat codec item sequence. The zero Item is
// invalid; build items with the New* constructors. Items are
// immutable: constructors copy their input and accessors copy their
// output, so an Item can be shared freely between goroutines.
type Item struct {
	kind Kind

	// integer holds the boolean (0/1), the integer value, the float
	// bits, or the map/array count depending on kind.
	integer uint64

	// data holds the binary payload or the string bytes.
	data []byte

	fromStream bool
}

// NewNil returns a nil item.
func NewNil() Item {
	return Item{kind: KindNil}
}

// NewBoolean returns a boolean item.
func NewBoolean(value bool) Item {
	var integer uint64
	if value {
		integer = 1
	}
	return Item{kind: KindBoolean, integer: integer}
}

// NewInteger returns a signed integer item.
func NewInteger(value int64) Item {
	return Item{kind: KindInteger, integer: uint64(value)}
}

// NewFloat returns a 64-bit float item.
func NewFloat(value float64) Item {
	return Item{kind: KindFloat, integer: math.Float64bits(value)}
}

// NewBinary returns a binary item holding a copy of data.
func NewBinary(data []byte) Item {
	return Item{kind: KindBinary, data: bytes.Clone(nonNil(data))}
}

// NewBinaryFromReader reads reader to completion and returns a binary
// item holding everything read. The read blocks until the reader
// returns io.EOF or an error; cancellation belongs to the reader.
func NewBinaryFromReader(reader io.Reader) (Item, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return Item{}, fmt.Errorf("reading binary item: %w", err)
	}
	return Item{kind: KindBinary, data: nonNil(data), fromStream: true}, nil
}

// NewString returns a string item.
func NewString(value string) Item {
	return Item{kind: KindString, data: []byte(value)}
}

// NewMap returns a map header announcing count key/value pairs. The
// pairs are the 2*count items that follow the header in the sequence.
func NewMap(count uint64) Item {
	return Item{kind: KindMap, integer: count}
}

// NewArray returns an array header announcing count elements. The
// elements are the count items that follow the header in the sequence.
func NewArray(count uint64) Item {
	return Item{kind: KindArray, integer: count}
}

func nonNil(data []byte) []byte {
	if data == nil {
		return []byte{}
	}
	return data
}

// Kind returns the item's kind.
func (i Item) Kind() Kind {
	return i.kind
}

// IsValid reports whether the item was built by a constructor.
func (i Item) IsValid() bool {
	return i.kind >= KindNil && i.kind <= KindArray
}

// FromStream reports whether a binary item was built from a reader.
func (i Item) FromStream() bool {
	return i.fromStream
}

func (i Item) mismatch(want Kind) error {
	return fwerror.New(fwerror.KindMismatch, "item is %s, not %s", i.kind, want)
}

// Boolean returns the value of a boolean item.
func (i Item) Boolean() (bool, error) {
	if i.kind != KindBoolean {
		return false, i.mismatch(KindBoolean)
	}
	return i.integer != 0, nil
}

// Integer returns the value of an integer item.
func (i Item) Integer() (int64, error) {
	if i.kind != KindInteger {
		return 0, i.mismatch(KindInteger)
	}
	return int64(i.integer), nil
}

// Float returns the value of a float item.
func (i Item) Float() (float64, error) {
	if i.kind != KindFloat {
		return 0, i.mismatch(KindFloat)
	}
	return math.Float64frombits(i.integer), nil
}

// Binary returns a copy of a binary item's payload.
func (i Item) Binary() ([]byte, error) {
	if i.kind != KindBinary {
		return nil, i.mismatch(KindBinary)
	}
	return bytes.Clone(i.data), nil
}

// Text returns the value of a string item.
func (i Item) Text() (string, error) {
	if i.kind != KindString {
		return "", i.mismatch(KindString)
	}
	return string(i.data), nil
}

// MapLen returns the pair count of a map header.
func (i Item) MapLen() (uint64, error) {
	if i.kind != KindMap {
		return 0, i.mismatch(KindMap)
	}
	return i.integer, nil
}

// ArrayLen returns the element count of an array header.
func (i Item) ArrayLen() (uint64, error) {
	if i.kind != KindArray {
		return 0, i.mismatch(KindArray)
	}
	return i.integer, nil
}

// PayloadLen returns the byte length of a binary or string payload,
// and 0 for every other kind.
func (i Item) PayloadLen() int {
	return len(i.data)
}

// Equal reports whether two items have the same kind and payload.
// Floats compare by bit pattern so NaN equals itself. Whether a binary
// item came from a stream does not affect equality.
func (i Item) Equal(other Item) bool {
	if i.kind != other.kind {
		return false
	}
	switch i.kind {
	case KindBinary, KindString:
		return bytes.Equal(i.data, other.data)
	case KindNil:
		return true
	default:
		return i.integer == other.integer
	}
}

// String renders the item for logs and debugging output.
func (i Item) String() string {
	switch i.kind {
	case KindNil:
		return "nil"
	case KindBoolean:
		return strconv.FormatBool(i.integer != 0)
	case KindInteger:
		return strconv.FormatInt(int64(i.integer), 10)
	case KindFloat:
		return strconv.FormatFloat(math.Float64frombits(i.integer), 'g', -1, 64)
	case KindBinary:
		return "h'" + hex.EncodeToString(i.data) + "'"
	case KindString:
		return strconv.Quote(string(i.data))
	case KindMap:
		return fmt.Sprintf("map(%d)", i.integer)
	case KindArray:
		return fmt.Sprintf("array(%d)", i.integer)
	default:
		return "invalid"
	}
}

// SequenceEqual reports whether two item sequences are element-wise
// Equal.
func SequenceEqual(a, b []Item) bool {
	if len(a) != len(b) {
		return false
	}
	for index := range a {
		if !a[index].Equal(b[index]) {
			return false
		}
	}
	return true
}
