// Copyright 2026 The fwupd Authors
// SPDX-License-Identifier: Apache-2.0

package protobuf

import (
	"github.com/fwupd/fwupd-sub026/cmd/fwcodec/cli"
)

// Command returns the "protobuf" command group.
func Command() *cli.Command {
	return &cli.Command{
		Name:    "protobuf",
		Summary: "Inspect and build schemaless protobuf messages",
		Description: `Work with protobuf messages without a schema.

Fields are addressed by number. A dotted path such as 3.1 reads field 1
of the sub-message in field 3. When a field number repeats, the first
occurrence is used.`,
		Subcommands: []*cli.Command{
			dumpCommand(),
			getCommand(),
			encodeCommand(),
		},
		Examples: []cli.Example{
			{
				Description: "List the fields of a message",
				Command:     "fwcodec protobuf dump reply.bin",
			},
			{
				Description: "Read a nested string field",
				Command:     "fwcodec protobuf get --type string 3.1 reply.bin",
			},
			{
				Description: "Build a request",
				Command:     "fwcodec protobuf encode --hex 1=varint:5 2=string:hello > request.hex",
			},
		},
	}
}
