// Copyright 2026 The fwupd Authors
// SPDX-License-Identifier: Apache-2.0

package msgpack

import (
	"encoding/json"
	"testing"

	"github.com/fwupd/fwupd-sub026/lib/fwerror"
	"github.com/fwupd/fwupd-sub026/lib/item"
)

func TestItemsFromJSON(t *testing.T) {
	input := []byte(`{
		// status report
		"fixint": 6,
		"uint8": 256,
		"float": 1.0,
		"array-of-data": [{"$bin": "341200"}],
	}`)
	items, err := ItemsFromJSON(input)
	if err != nil {
		t.Fatalf("ItemsFromJSON: %v", err)
	}
	if !item.SequenceEqual(items, deviceReport()) {
		t.Errorf("ItemsFromJSON = %v, want %v", items, deviceReport())
	}
}

func TestItemsFromJSONStream(t *testing.T) {
	items, err := ItemsFromJSON([]byte(`null true -3 2.5e0 "x" []`))
	if err != nil {
		t.Fatalf("ItemsFromJSON: %v", err)
	}
	want := []item.Item{
		item.NewNil(), item.NewBoolean(true), item.NewInteger(-3),
		item.NewFloat(2.5), item.NewString("x"), item.NewArray(0),
	}
	if !item.SequenceEqual(items, want) {
		t.Errorf("ItemsFromJSON = %v, want %v", items, want)
	}
}

func TestItemsFromJSONEmpty(t *testing.T) {
	items, err := ItemsFromJSON([]byte("  // nothing\n"))
	if err != nil {
		t.Fatalf("ItemsFromJSON: %v", err)
	}
	if items == nil || len(items) != 0 {
		t.Errorf("ItemsFromJSON = %v, want empty", items)
	}
}

func TestItemsFromJSONErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"unterminated object", `{"a": 1`},
		{"unterminated array", `[1, 2`},
		{"integer overflow", `18446744073709551616`},
		{"bin not a string", `{"$bin": 5}`},
		{"bin not hex", `{"$bin": "zz"}`},
		{"stray close", `]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ItemsFromJSON([]byte(tt.input))
			if !fwerror.Is(err, fwerror.InvalidData) {
				t.Errorf("err = %v, want invalid data", err)
			}
		})
	}
}

func TestJSONTreeRoundTrip(t *testing.T) {
	// JSON cannot tell 1.0 from 1, so the sequence avoids integral floats.
	want := []item.Item{
		item.NewMap(3),
		item.NewString("name"), item.NewString("firmware.bin"),
		item.NewString("ratio"), item.NewFloat(0.25),
		item.NewString("blocks"), item.NewArray(2),
		item.NewBinary([]byte{0xde, 0xad}), item.NewInteger(-7),
	}
	data, err := Write(want)
	if err != nil {
		t.Fatal(err)
	}
	parsed, err := Parse(data)
	if err != nil {
		t.Fatal(err)
	}
	values, err := Tree(parsed)
	if err != nil {
		t.Fatal(err)
	}
	var encoded []byte
	for _, value := range values {
		line, err := json.Marshal(value)
		if err != nil {
			t.Fatal(err)
		}
		encoded = append(append(encoded, line...), '\n')
	}
	back, err := ItemsFromJSON(encoded)
	if err != nil {
		t.Fatalf("ItemsFromJSON(%s): %v", encoded, err)
	}
	if !item.SequenceEqual(back, want) {
		t.Errorf("JSON round trip = %v, want %v", back, want)
	}
}
