// Copyright 2026 The fwupd Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands builds the complete fwcodec command tree.
package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fwupd/fwupd-sub026/cmd/fwcodec/cli"
	"github.com/fwupd/fwupd-sub026/cmd/fwcodec/firmware"
	msgpackcmd "github.com/fwupd/fwupd-sub026/cmd/fwcodec/msgpack"
	protobufcmd "github.com/fwupd/fwupd-sub026/cmd/fwcodec/protobuf"
	"github.com/fwupd/fwupd-sub026/lib/version"
)

// Root builds and returns the complete fwcodec command tree.
func Root() *cli.Command {
	return &cli.Command{
		Name: "fwcodec",
		Description: `fwcodec: binary codecs for firmware update payloads.

Decode and build MessagePack and protobuf payloads exchanged with
devices, and inspect, flatten, and write Intel HEX and Motorola
S-record firmware images.

Configuration is read from --config or $FWCODEC_CONFIG when set.`,
		Subcommands: []*cli.Command{
			firmware.IHexCommand(),
			firmware.SRecCommand(),
			msgpackcmd.Command(),
			protobufcmd.Command(),
			versionCommand(),
		},
		Examples: []cli.Example{
			{
				Description: "Summarise an Intel HEX image",
				Command:     "fwcodec ihex info firmware.hex",
			},
			{
				Description: "Convert an S-record file to a flat binary",
				Command:     "fwcodec srec extract -O firmware.bin firmware.srec",
			},
			{
				Description: "Decode a MessagePack payload to JSON",
				Command:     "fwcodec msgpack decode -o json report.msgpack",
			},
			{
				Description: "List the fields of a protobuf reply",
				Command:     "fwcodec protobuf dump reply.bin",
			},
		},
	}
}

type versionParams struct {
	cli.CommonParams
}

func versionCommand() *cli.Command {
	var params versionParams

	return &cli.Command{
		Name:    "version",
		Summary: "Print version information",
		Params:  func() any { return &params },
		Run: func(_ context.Context, args []string, _ *slog.Logger) error {
			if err := cli.NoArgs("version", args); err != nil {
				return err
			}
			return printVersion(os.Stdout, params.Verbose)
		},
	}
}

// printVersion writes the version banner. With verbose it adds the
// digests of the running binary.
func printVersion(w io.Writer, verbose bool) error {
	if _, err := fmt.Fprintf(w, "fwcodec %s\n", version.Full()); err != nil {
		return err
	}
	if !verbose {
		return nil
	}
	digests, path, err := version.SelfDigests()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "  Binary: %s\n  SHA256: %s\n  BLAKE3: %s\n", path, digests.SHA256, digests.BLAKE3)
	return err
}
