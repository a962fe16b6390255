// Copyright 2026 The fwupd Authors
// SPDX-License-Identifier: Apache-2.0

package msgpack

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/fwupd/fwupd-sub026/lib/fwerror"
	"github.com/fwupd/fwupd-sub026/lib/item"
)

// maxTreeDepth bounds container nesting in Tree so hostile input
// cannot drive unbounded recursion.
const maxTreeDepth = 512

// Map is an ordered map value produced by Tree. Keys keep their wire
// order; keys need not be strings.
type Map []Pair

// Pair is one key/value entry of a Map.
type Pair struct {
	Key   any
	Value any
}

// Binary is a binary value produced by Tree. It marshals to JSON as
// {"$bin": "<hex>"}, the form ItemsFromJSON accepts.
type Binary []byte

// MarshalJSON renders the binary as a tagged hex object.
func (b Binary) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]string{binaryKey: hex.EncodeToString(b)})
}

// Float is a float value produced by Tree. JSON has no NaN or
// infinity, so those marshal as the strings "NaN", "+Inf" and "-Inf",
// matching the item's text form; finite values marshal as numbers.
type Float float64

// MarshalJSON renders the float as a number, or a string when it is
// not finite.
func (f Float) MarshalJSON() ([]byte, error) {
	value := float64(f)
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return json.Marshal(strconv.FormatFloat(value, 'g', -1, 64))
	}
	return json.Marshal(value)
}

// MarshalJSON renders the map as a JSON object in wire order. Non-string
// keys are rendered with fmt's %v formatting.
func (m Map) MarshalJSON() ([]byte, error) {
	var buffer bytes.Buffer
	buffer.WriteByte('{')
	for index, pair := range m {
		if index > 0 {
			buffer.WriteByte(',')
		}
		key, ok := pair.Key.(string)
		if !ok {
			key = fmt.Sprintf("%v", pair.Key)
		}
		encodedKey, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		encodedValue, err := json.Marshal(pair.Value)
		if err != nil {
			return nil, fmt.Errorf("map key %q: %w", key, err)
		}
		buffer.Write(encodedKey)
		buffer.WriteByte(':')
		buffer.Write(encodedValue)
	}
	buffer.WriteByte('}')
	return buffer.Bytes(), nil
}

// Tree folds a flat item sequence into nested Go values, consuming as
// many items as each header announces. Each top-level value becomes
// one element of the result. Scalars map to nil, bool, int64, Float,
// Binary, and string; arrays to []any; maps to Map.
//
// Tree is a display convenience layered on the flat representation:
// the codec itself never nests. A header whose count exceeds the items
// remaining fails with InvalidData.
func Tree(items []item.Item) ([]any, error) {
	builder := treeBuilder{items: items}
	var values []any
	for builder.index < len(items) {
		value, err := builder.value(0)
		if err != nil {
			return nil, err
		}
		values = append(values, value)
	}
	return values, nil
}

type treeBuilder struct {
	items []item.Item
	index int
}

func (t *treeBuilder) remaining() uint64 {
	return uint64(len(t.items) - t.index)
}

func (t *treeBuilder) value(depth int) (any, error) {
	if t.index >= len(t.items) {
		return nil, fwerror.New(fwerror.InvalidData, "sequence ended inside a container")
	}
	if depth > maxTreeDepth {
		return nil, fwerror.New(fwerror.InvalidData, "containers nested deeper than %d", maxTreeDepth)
	}

	position := t.index
	current := t.items[position]
	t.index++

	switch current.Kind() {
	case item.KindNil:
		return nil, nil
	case item.KindBoolean:
		return current.Boolean()
	case item.KindInteger:
		return current.Integer()
	case item.KindFloat:
		value, err := current.Float()
		return Float(value), err
	case item.KindString:
		return current.Text()
	case item.KindBinary:
		payload, err := current.Binary()
		return Binary(payload), err

	case item.KindArray:
		count, _ := current.ArrayLen()
		if count > t.remaining() {
			return nil, fwerror.New(fwerror.InvalidData,
				"array at item %d announces %d elements, %d items remain", position, count, t.remaining())
		}
		elements := make([]any, 0, count)
		for range count {
			element, err := t.value(depth + 1)
			if err != nil {
				return nil, err
			}
			elements = append(elements, element)
		}
		return elements, nil

	case item.KindMap:
		pairs, _ := current.MapLen()
		if pairs > t.remaining()/2 {
			return nil, fwerror.New(fwerror.InvalidData,
				"map at item %d announces %d pairs, %d items remain", position, pairs, t.remaining())
		}
		entries := make(Map, 0, pairs)
		for range pairs {
			key, err := t.value(depth + 1)
			if err != nil {
				return nil, err
			}
			value, err := t.value(depth + 1)
			if err != nil {
				return nil, err
			}
			entries = append(entries, Pair{Key: key, Value: value})
		}
		return entries, nil
	}

	return nil, fwerror.New(fwerror.NotSupported, "item %d has invalid kind", position)
}
