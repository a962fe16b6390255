// Copyright 2026 The fwupd Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"

	"github.com/fwupd/fwupd-sub026/lib/codec"
)

// Output formats accepted by --output.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatCBOR = "cbor"
)

// OutputParams is an embeddable struct that adds --output to a
// command's parameter struct.
//
//	type infoParams struct {
//	    cli.CommonParams
//	    cli.OutputParams
//	}
//
//	// In Run:
//	return params.Emit(os.Stdout, report, func(w io.Writer) error { ... })
type OutputParams struct {
	Output string `json:"-" flag:"output,o" desc:"output format: text, json or cbor" default:"text"`
}

// Emit writes result to w in the selected format. For text output it
// calls text instead. JSON is indented; CBOR uses deterministic
// encoding. Nil slices are normalized to empty slices first so JSON
// output is [] rather than null.
func (o *OutputParams) Emit(w io.Writer, result any, text func(io.Writer) error) error {
	switch o.Output {
	case FormatText, "":
		return text(w)
	case FormatJSON:
		return WriteJSON(w, normalizeNilSlice(result))
	case FormatCBOR:
		data, err := codec.Marshal(normalizeNilSlice(result))
		if err != nil {
			return fmt.Errorf("encoding CBOR output: %w", err)
		}
		_, err = w.Write(data)
		return err
	default:
		return fmt.Errorf("unknown output format %q (want text, json or cbor)", o.Output)
	}
}

// WriteJSON marshals value as indented JSON and writes it to w. On a
// color terminal the JSON is syntax highlighted.
func WriteJSON(w io.Writer, value any) error {
	var buffer bytes.Buffer
	encoder := json.NewEncoder(&buffer)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(value); err != nil {
		return err
	}
	if formatter := highlightFormatter(w); formatter != "" {
		return quick.Highlight(w, buffer.String(), "json", formatter, "monokai")
	}
	_, err := w.Write(buffer.Bytes())
	return err
}

// highlightFormatter returns the chroma formatter matching the
// terminal's color profile, or "" when w is not a color terminal.
// NO_COLOR and CLICOLOR_FORCE are honoured.
func highlightFormatter(w io.Writer) string {
	if !isTerminal(w) {
		return ""
	}
	switch termenv.EnvColorProfile() {
	case termenv.TrueColor:
		return "terminal16m"
	case termenv.ANSI256:
		return "terminal256"
	case termenv.ANSI:
		return "terminal16"
	}
	return ""
}

// normalizeNilSlice returns an empty slice of the same type if value
// is a nil slice. Returns value unchanged for all other types.
func normalizeNilSlice(value any) any {
	v := reflect.ValueOf(value)
	if v.Kind() == reflect.Slice && v.IsNil() {
		return reflect.MakeSlice(v.Type(), 0, 0).Interface()
	}
	return value
}

var headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))

// Table accumulates rows and writes them as aligned columns. The header
// row is styled when the destination is a terminal.
type Table struct {
	header []string
	rows   [][]string

	// limits caps the display width of a column; zero is unlimited.
	limits []int
}

// NewTable returns a table with the given column headings.
func NewTable(header ...string) *Table {
	return &Table{header: header, limits: make([]int, len(header))}
}

// Limit truncates cells of column to at most width cells, marking cut
// cells with an ellipsis.
func (t *Table) Limit(column, width int) {
	t.limits[column] = width
}

// Row appends a row. Missing cells are blank; extra cells are dropped.
func (t *Table) Row(cells ...string) {
	row := make([]string, len(t.header))
	copy(row, cells)
	for column, limit := range t.limits {
		if limit > 0 {
			row[column] = ansi.Truncate(row[column], limit, "…")
		}
	}
	t.rows = append(t.rows, row)
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Write renders the table to w. Columns are separated by two spaces and
// the last column is not padded.
func (t *Table) Write(w io.Writer) error {
	widths := make([]int, len(t.header))
	for column, heading := range t.header {
		widths[column] = lipgloss.Width(heading)
	}
	for _, row := range t.rows {
		for column, cell := range row {
			widths[column] = max(widths[column], lipgloss.Width(cell))
		}
	}

	styled := isTerminal(w)
	var builder strings.Builder
	writeRow := func(cells []string, style *lipgloss.Style) {
		var line strings.Builder
		for column, cell := range cells {
			if column > 0 {
				line.WriteString("  ")
			}
			line.WriteString(cell)
			if column < len(cells)-1 {
				line.WriteString(strings.Repeat(" ", widths[column]-lipgloss.Width(cell)))
			}
		}
		text := strings.TrimRight(line.String(), " ")
		if style != nil {
			text = style.Render(text)
		}
		builder.WriteString(text)
		builder.WriteByte('\n')
	}

	if styled {
		writeRow(t.header, &headerStyle)
	} else {
		writeRow(t.header, nil)
	}
	for _, row := range t.rows {
		writeRow(row, nil)
	}
	_, err := io.WriteString(w, builder.String())
	return err
}
