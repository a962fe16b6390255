// Copyright 2026 The fwupd Authors
// SPDX-License-Identifier: Apache-2.0

package protobuf

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"unicode"
	"unicode/utf8"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/fwupd/fwupd-sub026/cmd/fwcodec/cli"
	libprotobuf "github.com/fwupd/fwupd-sub026/lib/protobuf"
)

type dumpParams struct {
	cli.CommonParams
	cli.PayloadParams
	cli.OutputParams
}

func dumpCommand() *cli.Command {
	var params dumpParams

	return &cli.Command{
		Name:    "dump",
		Summary: "List every field of a message",
		Description: `Decode a message and list its fields in wire order.

Length-delimited fields are shown as quoted text when they are
printable UTF-8 and as hex otherwise. Sub-messages are not expanded;
use "get --type message" with the field number to list one.`,
		Usage:  "fwcodec protobuf dump [flags] [file]",
		Params: func() any { return &params },
		Run: func(_ context.Context, args []string, logger *slog.Logger) error {
			data, args, err := params.ReadInput(args)
			if err != nil {
				return err
			}
			if err := cli.NoArgs("protobuf dump", args); err != nil {
				return err
			}
			logger.Debug("decoding message", "bytes", len(data))
			return dumpMessage(libprotobuf.NewTapeFromBytes(data), os.Stdout, params.OutputParams)
		},
	}
}

// fieldRow is the structured form of one decoded field.
type fieldRow struct {
	Number int32  `json:"number"`
	Type   string `json:"type"`
	Offset int    `json:"offset"`
	Value  any    `json:"value"`
}

func dumpMessage(tape *libprotobuf.Tape, w io.Writer, output cli.OutputParams) error {
	fields, err := tape.Fields()
	if err != nil {
		return err
	}

	rows := make([]fieldRow, 0, len(fields))
	for _, field := range fields {
		row := fieldRow{
			Number: int32(field.Number),
			Type:   libprotobuf.WireTypeName(field.Type),
			Offset: field.Offset,
		}
		if field.Type == protowire.BytesType {
			row.Value = hex.EncodeToString(field.Payload)
		} else {
			row.Value = field.Value
		}
		rows = append(rows, row)
	}

	return output.Emit(w, rows, func(w io.Writer) error {
		table := cli.NewTable("FIELD", "TYPE", "OFFSET", "VALUE")
		for _, field := range fields {
			table.Row(
				strconv.Itoa(int(field.Number)),
				libprotobuf.WireTypeName(field.Type),
				fmt.Sprintf("0x%04x", field.Offset),
				formatField(field),
			)
		}
		return table.Write(w)
	})
}

// formatField renders a field value for the text listing.
func formatField(field libprotobuf.Field) string {
	if field.Type != protowire.BytesType {
		return strconv.FormatUint(field.Value, 10)
	}
	if len(field.Payload) > 0 && printable(field.Payload) {
		return strconv.Quote(string(field.Payload))
	}
	return "h'" + hex.EncodeToString(field.Payload) + "'"
}

func printable(data []byte) bool {
	if !utf8.Valid(data) {
		return false
	}
	for _, r := range string(data) {
		if !unicode.IsPrint(r) {
			return false
		}
	}
	return true
}
