// Copyright 2026 The fwupd Authors
// SPDX-License-Identifier: Apache-2.0

package msgpack

import (
	"github.com/fwupd/fwupd-sub026/cmd/fwcodec/cli"
)

// Command returns the "msgpack" command group.
func Command() *cli.Command {
	return &cli.Command{
		Name:    "msgpack",
		Summary: "Decode, encode, and query MessagePack payloads",
		Description: `Tools for the flat MessagePack item codec.

A payload is a sequence of items. Maps and arrays are headers carrying
an element count; their contents follow as ordinary items rather than
nested values. "decode" shows that flat view with byte offsets, or
folds it into a JSON tree with --output json.

All subcommands accept an optional trailing file path argument. When
omitted, input is read from stdin. zstd and LZ4 compressed input is
unpacked automatically.`,
		Subcommands: []*cli.Command{
			decodeCommand(),
			encodeCommand(),
			lookupCommand(),
		},
		Examples: []cli.Example{
			{
				Description: "List the items of a payload",
				Command:     "fwcodec msgpack decode report.msgpack",
			},
			{
				Description: "Encode a JSON document",
				Command:     "echo '{\"DeviceId\": \"abc\", \"Flags\": 3}' | fwcodec msgpack encode > report.msgpack",
			},
			{
				Description: "Read one key from a hex payload",
				Command:     "echo '81 a3 6b 65 79 01' | fwcodec msgpack lookup --hex key",
			},
		},
	}
}
