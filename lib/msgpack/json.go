// Copyright 2026 The fwupd Authors
// SPDX-License-Identifier: Apache-2.0

package msgpack

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"strings"

	"github.com/tidwall/jsonc"

	"github.com/fwupd/fwupd-sub026/lib/fwerror"
	"github.com/fwupd/fwupd-sub026/lib/item"
)

// binaryKey marks a JSON object that stands for a binary value:
// {"$bin": "0a0b0c"}.
const binaryKey = "$bin"

// ItemsFromJSON converts a stream of JSON values into a flat item
// sequence. Comments and trailing commas are accepted (JSONC). Objects
// become maps in document order, arrays become arrays, integral numbers
// become integers, other numbers floats, and {"$bin": "<hex>"} objects
// binaries.
func ItemsFromJSON(data []byte) ([]item.Item, error) {
	decoder := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(data)))
	decoder.UseNumber()

	var builder Builder
	for {
		node, err := readNode(decoder, 0)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		node.emit(&builder)
	}
	items := builder.Items()
	if items == nil {
		items = []item.Item{}
	}
	return items, nil
}

// jsonNode is an ordered parse of one JSON value. Scalars are
// converted while reading so that emitting cannot fail.
type jsonNode struct {
	scalar item.Item
	keys   []string
	values []jsonNode
	kind   byte // 0 scalar, '{' object, '[' array
}

func readNode(decoder *json.Decoder, depth int) (jsonNode, error) {
	if depth > maxTreeDepth {
		return jsonNode{}, fwerror.New(fwerror.InvalidData, "JSON nested deeper than %d", maxTreeDepth)
	}
	token, err := decoder.Token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return jsonNode{}, io.EOF
		}
		return jsonNode{}, fwerror.New(fwerror.InvalidData, "parsing JSON: %v", err)
	}

	delimiter, isDelimiter := token.(json.Delim)
	if !isDelimiter {
		scalar, err := convertScalar(token)
		if err != nil {
			return jsonNode{}, err
		}
		return jsonNode{scalar: scalar}, nil
	}

	switch delimiter {
	case '[':
		node := jsonNode{kind: '['}
		for decoder.More() {
			child, err := readNode(decoder, depth+1)
			if err != nil {
				return jsonNode{}, unexpectedEOF(err)
			}
			node.values = append(node.values, child)
		}
		if _, err := decoder.Token(); err != nil {
			return jsonNode{}, fwerror.New(fwerror.InvalidData, "parsing JSON array: %v", err)
		}
		return node, nil

	case '{':
		node := jsonNode{kind: '{'}
		for decoder.More() {
			keyToken, err := decoder.Token()
			if err != nil {
				return jsonNode{}, fwerror.New(fwerror.InvalidData, "parsing JSON object key: %v", err)
			}
			key, ok := keyToken.(string)
			if !ok {
				return jsonNode{}, fwerror.New(fwerror.InvalidData, "JSON object key %v is not a string", keyToken)
			}
			child, err := readNode(decoder, depth+1)
			if err != nil {
				return jsonNode{}, unexpectedEOF(err)
			}
			node.keys = append(node.keys, key)
			node.values = append(node.values, child)
		}
		if _, err := decoder.Token(); err != nil {
			return jsonNode{}, fwerror.New(fwerror.InvalidData, "parsing JSON object: %v", err)
		}
		if len(node.keys) == 1 && node.keys[0] == binaryKey {
			return binaryNode(node.values[0])
		}
		return node, nil
	}

	return jsonNode{}, fwerror.New(fwerror.InvalidData, "unexpected JSON delimiter %q", delimiter)
}

func unexpectedEOF(err error) error {
	if errors.Is(err, io.EOF) {
		return fwerror.New(fwerror.InvalidData, "JSON ended inside a container")
	}
	return err
}

func convertScalar(token json.Token) (item.Item, error) {
	switch value := token.(type) {
	case nil:
		return item.NewNil(), nil
	case bool:
		return item.NewBoolean(value), nil
	case string:
		return item.NewString(value), nil
	case json.Number:
		text := value.String()
		if !strings.ContainsAny(text, ".eE") {
			integer, err := value.Int64()
			if err != nil {
				return item.Item{}, fwerror.New(fwerror.InvalidData, "integer %s out of range", text)
			}
			return item.NewInteger(integer), nil
		}
		float, err := value.Float64()
		if err != nil {
			return item.Item{}, fwerror.New(fwerror.InvalidData, "float %s out of range", text)
		}
		return item.NewFloat(float), nil
	}
	return item.Item{}, fwerror.New(fwerror.InvalidData, "unsupported JSON value %T", token)
}

func binaryNode(value jsonNode) (jsonNode, error) {
	text, err := value.scalar.Text()
	if value.kind != 0 || err != nil {
		return jsonNode{}, fwerror.New(fwerror.InvalidData, "%s value must be a hex string", binaryKey)
	}
	payload, err := hex.DecodeString(text)
	if err != nil {
		return jsonNode{}, fwerror.New(fwerror.InvalidData, "%s value: %v", binaryKey, err)
	}
	return jsonNode{scalar: item.NewBinary(payload)}, nil
}

func (n jsonNode) emit(builder *Builder) {
	switch n.kind {
	case '[':
		builder.Array(uint64(len(n.values)), func(b *Builder) {
			for _, child := range n.values {
				child.emit(b)
			}
		})
	case '{':
		builder.Map(uint64(len(n.keys)), func(b *Builder) {
			for index, child := range n.values {
				b.String(n.keys[index])
				child.emit(b)
			}
		})
	default:
		builder.Item(n.scalar)
	}
}
