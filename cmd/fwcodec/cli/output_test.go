// Copyright 2026 The fwupd Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"
	"testing"

	"github.com/fwupd/fwupd-sub026/lib/codec"
)

type segmentReport struct {
	Start string `json:"start"`
	Size  int    `json:"size"`
}

func TestOutputParams_Emit(t *testing.T) {
	report := []segmentReport{{Start: "0x0", Size: 16}}
	text := func(w io.Writer) error {
		_, err := io.WriteString(w, "one segment\n")
		return err
	}

	t.Run("text", func(t *testing.T) {
		var buffer bytes.Buffer
		params := OutputParams{Output: FormatText}
		if err := params.Emit(&buffer, report, text); err != nil {
			t.Fatalf("Emit: %v", err)
		}
		if buffer.String() != "one segment\n" {
			t.Errorf("output = %q", buffer.String())
		}
	})

	t.Run("json", func(t *testing.T) {
		var buffer bytes.Buffer
		params := OutputParams{Output: FormatJSON}
		if err := params.Emit(&buffer, report, text); err != nil {
			t.Fatalf("Emit: %v", err)
		}
		var decoded []segmentReport
		if err := json.Unmarshal(buffer.Bytes(), &decoded); err != nil {
			t.Fatalf("output is not JSON: %v\n%s", err, buffer.String())
		}
		if len(decoded) != 1 || decoded[0].Size != 16 {
			t.Errorf("decoded = %+v", decoded)
		}
	})

	t.Run("json nil slice", func(t *testing.T) {
		var buffer bytes.Buffer
		params := OutputParams{Output: FormatJSON}
		var empty []segmentReport
		if err := params.Emit(&buffer, empty, text); err != nil {
			t.Fatalf("Emit: %v", err)
		}
		if strings.TrimSpace(buffer.String()) != "[]" {
			t.Errorf("output = %q, want []", buffer.String())
		}
	})

	t.Run("cbor", func(t *testing.T) {
		var buffer bytes.Buffer
		params := OutputParams{Output: FormatCBOR}
		if err := params.Emit(&buffer, report, text); err != nil {
			t.Fatalf("Emit: %v", err)
		}
		var decoded []segmentReport
		if err := codec.Unmarshal(buffer.Bytes(), &decoded); err != nil {
			t.Fatalf("output is not CBOR: %v", err)
		}
		if len(decoded) != 1 || decoded[0].Start != "0x0" {
			t.Errorf("decoded = %+v", decoded)
		}
	})

	t.Run("unknown", func(t *testing.T) {
		params := OutputParams{Output: "yaml"}
		err := params.Emit(io.Discard, report, text)
		if err == nil || !strings.Contains(err.Error(), `unknown output format "yaml"`) {
			t.Errorf("Emit error = %v", err)
		}
	})
}

func TestTable_Write(t *testing.T) {
	table := NewTable("LINE", "TYPE", "ADDRESS")
	table.Row("1", "data", "0x0000")
	table.Row("12", "end of file", "0x0000")
	table.Row("3")

	if table.Len() != 3 {
		t.Errorf("Len = %d, want 3", table.Len())
	}

	var buffer bytes.Buffer
	if err := table.Write(&buffer); err != nil {
		t.Fatalf("Write: %v", err)
	}
	want := "" +
		"LINE  TYPE         ADDRESS\n" +
		"1     data         0x0000\n" +
		"12    end of file  0x0000\n" +
		"3\n"
	if buffer.String() != want {
		t.Errorf("table output:\n%s\nwant:\n%s", buffer.String(), want)
	}
}

func TestTable_Limit(t *testing.T) {
	table := NewTable("KIND", "VALUE")
	table.Limit(1, 8)
	table.Row("string", `"abcdefghijkl"`)
	table.Row("integer", "7")

	var buffer bytes.Buffer
	if err := table.Write(&buffer); err != nil {
		t.Fatalf("Write: %v", err)
	}
	want := "" +
		"KIND     VALUE\n" +
		"string   \"abcdef…\n" +
		"integer  7\n"
	if buffer.String() != want {
		t.Errorf("table output:\n%s\nwant:\n%s", buffer.String(), want)
	}
}

func TestWriteJSON_PlainOnNonTerminal(t *testing.T) {
	var buffer bytes.Buffer
	if err := WriteJSON(&buffer, map[string]int{"count": 2}); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	if buffer.String() != "{\n  \"count\": 2\n}\n" {
		t.Errorf("WriteJSON = %q", buffer.String())
	}
	if highlightFormatter(&buffer) != "" {
		t.Error("buffer treated as a color terminal")
	}
}
