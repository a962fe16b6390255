// Copyright 2026 The fwupd Authors
// SPDX-License-Identifier: Apache-2.0

package msgpack

import (
	"context"
	"encoding/hex"
	"io"
	"log/slog"
	"os"

	"github.com/fwupd/fwupd-sub026/cmd/fwcodec/cli"
	libmsgpack "github.com/fwupd/fwupd-sub026/lib/msgpack"
)

type encodeParams struct {
	cli.CommonParams
	HexOutput bool `json:"-" flag:"hex,x" desc:"write hex text instead of raw bytes"`
}

func encodeCommand() *cli.Command {
	var params encodeParams

	return &cli.Command{
		Name:    "encode",
		Summary: "Convert JSON to MessagePack",
		Description: `Read one or more JSON values and write them as a MessagePack payload.

Comments and trailing commas are accepted. Objects become maps in
document order, integral numbers become integers and other numbers
floats. An object of the single form {"$bin": "<hex>"} becomes a binary
item. Several top-level values produce several top-level items.`,
		Usage:  "fwcodec msgpack encode [flags] [file]",
		Params: func() any { return &params },
		Examples: []cli.Example{
			{
				Description: "Encode with a binary field and print hex",
				Command:     "echo '{\"Blob\": {\"$bin\": \"0a0b\"}}' | fwcodec msgpack encode --hex",
			},
		},
		Run: func(_ context.Context, args []string, logger *slog.Logger) error {
			cfg, err := params.LoadConfig()
			if err != nil {
				return err
			}
			var input cli.InputParams
			data, args, err := input.ReadInput(args, cfg)
			if err != nil {
				return err
			}
			if err := cli.NoArgs("msgpack encode", args); err != nil {
				return err
			}
			return encodeJSON(data, os.Stdout, params.HexOutput, logger)
		},
	}
}

// encodeJSON converts the JSONC document in data to MessagePack and
// writes it to w, as raw bytes or as a line of hex.
func encodeJSON(data []byte, w io.Writer, hexOutput bool, logger *slog.Logger) error {
	items, err := libmsgpack.ItemsFromJSON(data)
	if err != nil {
		return err
	}
	encoded, err := libmsgpack.Write(items)
	if err != nil {
		return err
	}
	logger.Debug("encoded payload", "items", len(items), "bytes", len(encoded))

	if hexOutput {
		_, err = io.WriteString(w, hex.EncodeToString(encoded)+"\n")
		return err
	}
	_, err = w.Write(encoded)
	return err
}
