// Copyright 2026 The fwupd Authors
// SPDX-License-Identifier: Apache-2.0

package msgpack

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/fwupd/fwupd-sub026/cmd/fwcodec/cli"
	"github.com/fwupd/fwupd-sub026/lib/codec"
	"github.com/fwupd/fwupd-sub026/lib/fwerror"
	"github.com/fwupd/fwupd-sub026/lib/item"
	"github.com/fwupd/fwupd-sub026/lib/testutil"
)

// reportHex is {"Flags": 1, "Guid": h'0a0b', "Tags": ["a"]}.
const reportHex = `
	83                  // map(3)
	a5 466c616773 01    // "Flags": 1
	a4 47756964 c4020a0b // "Guid": h'0a0b'
	a4 54616773 91 a161 // "Tags": ["a"]
`

func TestDecodePayloadText(t *testing.T) {
	var buffer bytes.Buffer
	err := decodePayload(testutil.Hex(t, reportHex), &buffer, cli.OutputParams{Output: cli.FormatText})
	if err != nil {
		t.Fatalf("decodePayload: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buffer.String()), "\n")
	if len(lines) != 9 {
		t.Fatalf("got %d lines, want header + 8 items:\n%s", len(lines), buffer.String())
	}
	for index, want := range []string{
		"INDEX",
		"map(3)",
		`"Flags"`,
		"1",
		`"Guid"`,
		"h'0a0b'",
		`"Tags"`,
		"array(1)",
		`"a"`,
	} {
		if !strings.HasSuffix(lines[index], want) && !strings.HasPrefix(lines[index], want) {
			t.Errorf("line %d = %q, want it to show %s", index, lines[index], want)
		}
	}
	if !strings.Contains(lines[4], "0x0008") {
		t.Errorf("Guid key row = %q, want offset 0x0008", lines[4])
	}
}

func TestDecodePayloadJSON(t *testing.T) {
	var buffer bytes.Buffer
	err := decodePayload(testutil.Hex(t, reportHex), &buffer, cli.OutputParams{Output: cli.FormatJSON})
	if err != nil {
		t.Fatalf("decodePayload: %v", err)
	}

	var decoded []map[string]any
	if err := json.Unmarshal(buffer.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not a JSON array of objects: %v\n%s", err, buffer.String())
	}
	if len(decoded) != 1 {
		t.Fatalf("got %d top-level values, want 1", len(decoded))
	}
	report := decoded[0]
	if report["Flags"] != float64(1) {
		t.Errorf("Flags = %v", report["Flags"])
	}
	guid, ok := report["Guid"].(map[string]any)
	if !ok || guid["$bin"] != "0a0b" {
		t.Errorf("Guid = %v, want {\"$bin\": \"0a0b\"}", report["Guid"])
	}
	if !strings.Contains(buffer.String(), `"Flags": 1`) ||
		strings.Index(buffer.String(), "Flags") > strings.Index(buffer.String(), "Tags") {
		t.Errorf("JSON output lost wire order:\n%s", buffer.String())
	}
}

func TestDecodePayloadJSONNonFinite(t *testing.T) {
	var buffer bytes.Buffer
	// [NaN, -Inf] as float64.
	payload := testutil.Hex(t, "92 cb7ff8000000000000 cbfff0000000000000")
	if err := decodePayload(payload, &buffer, cli.OutputParams{Output: cli.FormatJSON}); err != nil {
		t.Fatalf("decodePayload: %v", err)
	}
	var decoded [][]string
	if err := json.Unmarshal(buffer.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buffer.String())
	}
	if len(decoded) != 1 || len(decoded[0]) != 2 || decoded[0][0] != "NaN" || decoded[0][1] != "-Inf" {
		t.Errorf("decoded = %v, want [[NaN -Inf]]", decoded)
	}
}

func TestDecodePayloadCBOR(t *testing.T) {
	var buffer bytes.Buffer
	err := decodePayload(testutil.Hex(t, "92 c0 c3"), &buffer, cli.OutputParams{Output: cli.FormatCBOR})
	if err != nil {
		t.Fatalf("decodePayload: %v", err)
	}
	items, err := codec.DecodeItems(buffer.Bytes())
	if err != nil {
		t.Fatalf("DecodeItems: %v", err)
	}
	want := []item.Item{item.NewArray(2), item.NewNil(), item.NewBoolean(true)}
	if !item.SequenceEqual(items, want) {
		t.Errorf("items = %v, want %v", items, want)
	}
}

func TestDecodePayloadEmpty(t *testing.T) {
	var buffer bytes.Buffer
	if err := decodePayload(nil, &buffer, cli.OutputParams{Output: cli.FormatJSON}); err != nil {
		t.Fatalf("decodePayload: %v", err)
	}
	if strings.TrimSpace(buffer.String()) != "[]" {
		t.Errorf("output = %q, want []", buffer.String())
	}
}

func TestDecodePayloadTruncated(t *testing.T) {
	err := decodePayload(testutil.Hex(t, "a5 4663"), &bytes.Buffer{}, cli.OutputParams{})
	testutil.RequireKind(t, err, fwerror.InvalidData)
}

func TestEncodeJSON(t *testing.T) {
	input := []byte(`{
		// device flags
		"Flags": 1,
		"Guid": {"$bin": "0a0b"},
		"Tags": ["a",],
	}`)

	var raw bytes.Buffer
	if err := encodeJSON(input, &raw, false, slog.New(slog.DiscardHandler)); err != nil {
		t.Fatalf("encodeJSON: %v", err)
	}
	want := testutil.Hex(t, reportHex)
	if !bytes.Equal(raw.Bytes(), want) {
		t.Errorf("encoded = %x, want %x", raw.Bytes(), want)
	}

	var text bytes.Buffer
	if err := encodeJSON(input, &text, true, slog.New(slog.DiscardHandler)); err != nil {
		t.Fatalf("encodeJSON: %v", err)
	}
	if text.String() != hex.EncodeToString(want)+"\n" {
		t.Errorf("hex output = %q", text.String())
	}
}

func TestEncodeJSONInvalid(t *testing.T) {
	err := encodeJSON([]byte(`{"Flags": `), &bytes.Buffer{}, false, slog.New(slog.DiscardHandler))
	if err == nil {
		t.Fatal("encodeJSON accepted truncated JSON")
	}
}

func TestLookupKey(t *testing.T) {
	data := testutil.Hex(t, reportHex)

	tests := []struct {
		name   string
		key    string
		output string
		want   string
	}{
		{name: "integer text", key: "Flags", output: cli.FormatText, want: "1\n"},
		{name: "binary text", key: "Guid", output: cli.FormatText, want: "h'0a0b'\n"},
		{name: "array header text", key: "Tags", output: cli.FormatText, want: "array(1)\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buffer bytes.Buffer
			if err := lookupKey(data, 0, tt.key, &buffer, cli.OutputParams{Output: tt.output}); err != nil {
				t.Fatalf("lookupKey: %v", err)
			}
			if buffer.String() != tt.want {
				t.Errorf("output = %q, want %q", buffer.String(), tt.want)
			}
		})
	}
}

func TestLookupKeyJSON(t *testing.T) {
	var buffer bytes.Buffer
	err := lookupKey(testutil.Hex(t, reportHex), 0, "Tags", &buffer, cli.OutputParams{Output: cli.FormatJSON})
	if err != nil {
		t.Fatalf("lookupKey: %v", err)
	}
	var result struct {
		Key   string            `json:"key"`
		Kind  string            `json:"kind"`
		Value map[string]uint64 `json:"value"`
	}
	if err := json.Unmarshal(buffer.Bytes(), &result); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if result.Key != "Tags" || result.Kind != "array" || result.Value["array"] != 1 {
		t.Errorf("result = %+v", result)
	}
}

func TestLookupKeyErrors(t *testing.T) {
	data := testutil.Hex(t, reportHex)

	err := lookupKey(data, 0, "Missing", &bytes.Buffer{}, cli.OutputParams{})
	testutil.RequireKind(t, err, fwerror.NotFound)

	err = lookupKey(data, 1, "Flags", &bytes.Buffer{}, cli.OutputParams{})
	testutil.RequireKind(t, err, fwerror.NotSupported)
}
