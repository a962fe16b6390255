// Copyright 2026 The fwupd Authors
// SPDX-License-Identifier: Apache-2.0

package firmware

import (
	"github.com/fwupd/fwupd-sub026/cmd/fwcodec/cli"
)

// IHexCommand returns the "ihex" command group.
func IHexCommand() *cli.Command {
	return &cli.Command{
		Name:    "ihex",
		Summary: "Inspect, extract, and write Intel HEX files",
		Description: `Tools for Intel HEX firmware files.

Data records are placed at their 16-bit address plus the base set by the
most recent extended linear (04) or extended segment (02) record. The
result is a sparse memory image: "info" summarises it, "extract"
flattens it to a binary, and "write" goes the other way.

Signature (0xFD) records carry a detached signature and are kept apart
from the image.

All subcommands accept an optional trailing file path argument. When
omitted, input is read from stdin.`,
		Subcommands: []*cli.Command{
			recordsCommand(&ihexFormat),
			infoCommand(&ihexFormat),
			extractCommand(&ihexFormat),
			ihexWriteCommand(),
			convertCommand(&ihexFormat),
		},
		Examples: []cli.Example{
			{
				Description: "Summarise a firmware image",
				Command:     "fwcodec ihex info firmware.hex",
			},
			{
				Description: "Flatten to a binary with zero-filled gaps",
				Command:     "fwcodec ihex extract --fill 0 -O firmware.bin firmware.hex",
			},
			{
				Description: "Find lines with bad checksums",
				Command:     "fwcodec ihex records --ignore-checksum firmware.hex",
			},
		},
	}
}

// SRecCommand returns the "srec" command group.
func SRecCommand() *cli.Command {
	return &cli.Command{
		Name:    "srec",
		Summary: "Inspect, extract, and write Motorola S-record files",
		Description: `Tools for Motorola S-record firmware files.

S1, S2 and S3 records carry data at 16, 24 and 32-bit addresses. The S0
header usually names the module, S5 and S6 records count the data
records before them, and the S7, S8 or S9 termination record holds the
start address.

All subcommands accept an optional trailing file path argument. When
omitted, input is read from stdin.`,
		Subcommands: []*cli.Command{
			recordsCommand(&srecFormat),
			infoCommand(&srecFormat),
			extractCommand(&srecFormat),
			srecWriteCommand(),
			convertCommand(&srecFormat),
		},
		Examples: []cli.Example{
			{
				Description: "Summarise a firmware image",
				Command:     "fwcodec srec info firmware.srec",
			},
			{
				Description: "Convert to Intel HEX",
				Command:     "fwcodec srec convert firmware.srec > firmware.hex",
			},
		},
	}
}
