// Copyright 2026 The fwupd Authors
// SPDX-License-Identifier: Apache-2.0

package msgpack

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fwupd/fwupd-sub026/cmd/fwcodec/cli"
	"github.com/fwupd/fwupd-sub026/lib/codec"
	"github.com/fwupd/fwupd-sub026/lib/item"
	libmsgpack "github.com/fwupd/fwupd-sub026/lib/msgpack"
)

// valueWidth caps the VALUE column of the text listing. Full values
// are available with --output json.
const valueWidth = 72

type decodeParams struct {
	cli.CommonParams
	cli.PayloadParams
	cli.OutputParams
}

func decodeCommand() *cli.Command {
	var params decodeParams

	return &cli.Command{
		Name:    "decode",
		Summary: "List the items of a MessagePack payload",
		Description: `Parse a MessagePack payload into its flat item sequence.

Text output is a table of items with the byte offset each one starts
at. JSON output folds the sequence into nested values: maps keep their
wire order and binaries appear as {"$bin": "<hex>"}, the form "encode"
reads back. CBOR output writes one CBOR data item per flat item, with
map and array headers as {"map": N} and {"array": N}.`,
		Usage:  "fwcodec msgpack decode [flags] [file]",
		Params: func() any { return &params },
		Run: func(_ context.Context, args []string, logger *slog.Logger) error {
			data, args, err := params.ReadInput(args)
			if err != nil {
				return err
			}
			if err := cli.NoArgs("msgpack decode", args); err != nil {
				return err
			}
			logger.Debug("decoding payload", "bytes", len(data))
			return decodePayload(data, os.Stdout, params.OutputParams)
		},
	}
}

// decodedItem is one row of the decode listing.
type decodedItem struct {
	Index  int    `json:"index"`
	Offset int    `json:"offset"`
	Kind   string `json:"kind"`
	Value  string `json:"value"`
}

// decodePayload parses data and writes it to w in the selected format.
func decodePayload(data []byte, w io.Writer, output cli.OutputParams) error {
	var items []item.Item
	var rows []decodedItem
	for offset := 0; offset < len(data); {
		value, next, err := libmsgpack.ParseItem(data, offset)
		if err != nil {
			return err
		}
		rows = append(rows, decodedItem{
			Index:  len(items),
			Offset: offset,
			Kind:   value.Kind().String(),
			Value:  value.String(),
		})
		items = append(items, value)
		offset = next
	}

	switch output.Output {
	case cli.FormatJSON:
		tree, err := libmsgpack.Tree(items)
		if err != nil {
			return err
		}
		return cli.WriteJSON(w, normalizeTree(tree))
	case cli.FormatCBOR:
		return codec.EncodeItems(w, items)
	}

	return output.Emit(w, rows, func(w io.Writer) error {
		table := cli.NewTable("INDEX", "OFFSET", "KIND", "VALUE")
		table.Limit(3, valueWidth)
		for _, row := range rows {
			table.Row(fmt.Sprint(row.Index), fmt.Sprintf("0x%04x", row.Offset), row.Kind, row.Value)
		}
		return table.Write(w)
	})
}

// normalizeTree makes an empty payload render as [] rather than null.
func normalizeTree(tree []any) []any {
	if tree == nil {
		return []any{}
	}
	return tree
}
