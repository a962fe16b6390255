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

type lookupParams struct {
	cli.CommonParams
	cli.PayloadParams
	cli.OutputParams
	Start int `json:"-" flag:"start" desc:"index of the map header item to search"`
}

func lookupCommand() *cli.Command {
	var params lookupParams

	return &cli.Command{
		Name:    "lookup",
		Summary: "Print the value stored under a key of a map",
		Description: `Find a string key in a map and print the item paired with it.

The map is the item at --start (default 0, the first item). Values are
single items: when the value is itself a map or array only its header
is printed. When a key repeats, the first occurrence wins.

Exits with an error when the item at --start is not a map or the key is
absent.`,
		Usage:  "fwcodec msgpack lookup [flags] <key> [file]",
		Params: func() any { return &params },
		Examples: []cli.Example{
			{
				Description: "Read the Flags field of a device report",
				Command:     "fwcodec msgpack lookup Flags report.msgpack",
			},
		},
		Run: func(_ context.Context, args []string, logger *slog.Logger) error {
			data, args, err := params.ReadInput(args)
			if err != nil {
				return err
			}
			if len(args) == 0 {
				return fmt.Errorf("msgpack lookup: key argument required")
			}
			if err := cli.NoArgs("msgpack lookup", args[1:]); err != nil {
				return err
			}
			logger.Debug("looking up key", "key", args[0], "start", params.Start)
			return lookupKey(data, params.Start, args[0], os.Stdout, params.OutputParams)
		},
	}
}

// lookupResult is the structured form of a lookup.
type lookupResult struct {
	Key   string `json:"key"`
	Kind  string `json:"kind"`
	Value any    `json:"value"`
}

// lookupKey parses data and writes the value paired with key in the
// map at start.
func lookupKey(data []byte, start int, key string, w io.Writer, output cli.OutputParams) error {
	items, err := libmsgpack.Parse(data)
	if err != nil {
		return err
	}
	value, err := libmsgpack.MapLookup(items, start, key)
	if err != nil {
		return err
	}

	result := lookupResult{Key: key, Kind: value.Kind().String(), Value: itemValue(value)}
	return output.Emit(w, result, func(w io.Writer) error {
		_, err := fmt.Fprintln(w, value.String())
		return err
	})
}

// itemValue is the JSON value of a single item. Container headers
// render as {"map": N} or {"array": N}.
func itemValue(value item.Item) any {
	if kind := value.Kind(); kind == item.KindMap || kind == item.KindArray {
		return codec.ItemValue(value)
	}
	tree, err := libmsgpack.Tree([]item.Item{value})
	if err != nil || len(tree) != 1 {
		return value.String()
	}
	return tree[0]
}
