// Copyright 2026 The fwupd Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/fwupd/fwupd-sub026/lib/fwerror"
	"github.com/fwupd/fwupd-sub026/lib/item"
)

// Header markers. A map or array header item has no CBOR equivalent on
// its own, so it is written as a one-entry map {"map": N} or
// {"array": N}.
const (
	mapMarker   = "map"
	arrayMarker = "array"
)

// ItemValue returns the CBOR-encodable value for one item.
func ItemValue(current item.Item) any {
	switch current.Kind() {
	case item.KindBoolean:
		value, _ := current.Boolean()
		return value
	case item.KindInteger:
		value, _ := current.Integer()
		return value
	case item.KindFloat:
		value, _ := current.Float()
		return value
	case item.KindBinary:
		value, _ := current.Binary()
		return value
	case item.KindString:
		value, _ := current.Text()
		return value
	case item.KindMap:
		count, _ := current.MapLen()
		return map[string]uint64{mapMarker: count}
	case item.KindArray:
		count, _ := current.ArrayLen()
		return map[string]uint64{arrayMarker: count}
	}
	return nil
}

// EncodeItems writes items to w as a CBOR sequence (RFC 8742), one data
// item per item.
func EncodeItems(w io.Writer, items []item.Item) error {
	encoder := NewEncoder(w)
	for index, current := range items {
		if err := encoder.Encode(ItemValue(current)); err != nil {
			return fmt.Errorf("encoding item %d: %w", index, err)
		}
	}
	return nil
}

// DecodeItems reads a CBOR sequence written by EncodeItems back into
// items. Arrays, tags, and maps other than header markers have no flat
// item form and fail with NotSupported.
func DecodeItems(data []byte) ([]item.Item, error) {
	decoder := NewDecoder(bytes.NewReader(data))
	items := []item.Item{}
	for {
		var value any
		err := decoder.Decode(&value)
		if errors.Is(err, io.EOF) {
			return items, nil
		}
		if err != nil {
			return nil, fwerror.AtOffset(fwerror.InvalidData, decoder.NumBytesRead(),
				"decoding CBOR item %d: %v", len(items), err)
		}
		current, err := itemFromValue(value)
		if err != nil {
			return nil, fmt.Errorf("CBOR item %d: %w", len(items), err)
		}
		items = append(items, current)
	}
}

func itemFromValue(value any) (item.Item, error) {
	switch typed := value.(type) {
	case nil:
		return item.NewNil(), nil
	case bool:
		return item.NewBoolean(typed), nil
	case int64:
		return item.NewInteger(typed), nil
	case uint64:
		if typed > math.MaxInt64 {
			return item.Item{}, fwerror.New(fwerror.InvalidData, "integer %d exceeds int64", typed)
		}
		return item.NewInteger(int64(typed)), nil
	case float64:
		return item.NewFloat(typed), nil
	case []byte:
		return item.NewBinary(typed), nil
	case string:
		return item.NewString(typed), nil
	case map[string]any:
		if len(typed) == 1 {
			for key, raw := range typed {
				count, ok := raw.(uint64)
				if !ok {
					break
				}
				switch key {
				case mapMarker:
					return item.NewMap(count), nil
				case arrayMarker:
					return item.NewArray(count), nil
				}
			}
		}
		return item.Item{}, fwerror.New(fwerror.NotSupported, "map is not a header marker")
	}
	return item.Item{}, fwerror.New(fwerror.NotSupported, "CBOR value of type %T has no item form", value)
}
