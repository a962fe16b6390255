// Copyright 2026 The fwupd Authors
// SPDX-License-Identifier: Apache-2.0

package firmware

import (
	"context"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/fwupd/fwupd-sub026/cmd/fwcodec/cli"
	"github.com/fwupd/fwupd-sub026/lib/config"
	"github.com/fwupd/fwupd-sub026/lib/memimage"
)

// WriteParams are the flags shared by both write commands.
type WriteParams struct {
	Address   uint64 `json:"-" flag:"address,a" desc:"load address of the first input byte"`
	LineWidth int    `json:"-" flag:"line-width,w" desc:"data bytes per record, 0 for the configured value"`
	Start     string `json:"-" flag:"start" desc:"entry point written to the file"`
}

// document places data at the load address.
func (p WriteParams) document(data []byte) (*document, error) {
	image := memimage.New(false)
	if err := image.Write(p.Address, data); err != nil {
		return nil, err
	}
	doc := &document{Image: image}
	if p.Start != "" {
		start, err := strconv.ParseUint(p.Start, 0, 32)
		if err != nil {
			return nil, fmt.Errorf("--start %q: %w", p.Start, err)
		}
		doc.StartAddress, doc.HasStartAddress = uint32(start), true
	}
	return doc, nil
}

// settings returns the writer settings for f with the flag overrides
// applied.
func (p WriteParams) settings(f *format, cfg *config.Config) writeSettings {
	settings := f.settings(cfg)
	if p.LineWidth > 0 {
		settings.LineWidth = p.LineWidth
	}
	return settings
}

type ihexWriteParams struct {
	cli.CommonParams
	cli.PayloadParams
	FileParams
	WriteParams
	Signature string `json:"-" flag:"signature" desc:"hex bytes written as signature (0xFD) records"`
}

func ihexWriteCommand() *cli.Command {
	var params ihexWriteParams

	return &cli.Command{
		Name:    "write",
		Summary: "Convert a raw binary to Intel HEX",
		Description: `Read a raw binary and write it as Intel HEX records loaded at --address.

Records never cross a 64 KiB boundary. An extended linear address (04)
record is written whenever the upper 16 address bits change. With
--start a start linear address (05) record is added, and with
--signature the given bytes follow the data as signature records.`,
		Usage:  "fwcodec ihex write [flags] [file]",
		Params: func() any { return &params },
		Examples: []cli.Example{
			{
				Description: "Write an application image for flash at 0x08000000",
				Command:     "fwcodec ihex write --address 0x08000000 --start 0x08000101 app.bin > app.hex",
			},
		},
		Run: func(_ context.Context, args []string, logger *slog.Logger) error {
			cfg, err := params.LoadConfig()
			if err != nil {
				return err
			}
			data, args, err := params.ReadInput(args)
			if err != nil {
				return err
			}
			if err := cli.NoArgs("ihex write", args); err != nil {
				return err
			}
			text, err := writeIHex(data, params, cfg)
			if err != nil {
				return err
			}
			logger.Debug("encoded image", "input_bytes", len(data), "output_bytes", len(text))
			return writeOutput(text, params.FileParams, cfg, os.Stdout, logger)
		},
	}
}

func writeIHex(data []byte, params ihexWriteParams, cfg *config.Config) ([]byte, error) {
	doc, err := params.document(data)
	if err != nil {
		return nil, err
	}
	if params.Signature != "" {
		doc.Metadata, err = hex.DecodeString(params.Signature)
		if err != nil {
			return nil, fmt.Errorf("--signature: %w", err)
		}
	}
	return ihexFormat.write(doc, params.settings(&ihexFormat, cfg))
}

type srecWriteParams struct {
	cli.CommonParams
	cli.PayloadParams
	FileParams
	WriteParams
	AddressBits int    `json:"-" flag:"address-bits" desc:"16, 24 or 32-bit records, 0 for the configured width"`
	Header      string `json:"-" flag:"header" desc:"S0 header text (default from config)"`
}

func srecWriteCommand() *cli.Command {
	var params srecWriteParams

	return &cli.Command{
		Name:    "write",
		Summary: "Convert a raw binary to S-records",
		Description: `Read a raw binary and write it as S-records loaded at --address.

The output starts with an S0 header, follows the data records with an
S5 (or S6) record count, and ends with the termination record matching
the address width. The narrowest width that covers the image and start
address is used unless --address-bits or the configuration says
otherwise.`,
		Usage:  "fwcodec srec write [flags] [file]",
		Params: func() any { return &params },
		Examples: []cli.Example{
			{
				Description: "Write 32-bit records with a module name",
				Command:     "fwcodec srec write --address-bits 32 --header bootloader boot.bin > boot.srec",
			},
		},
		Run: func(_ context.Context, args []string, logger *slog.Logger) error {
			cfg, err := params.LoadConfig()
			if err != nil {
				return err
			}
			data, args, err := params.ReadInput(args)
			if err != nil {
				return err
			}
			if err := cli.NoArgs("srec write", args); err != nil {
				return err
			}
			text, err := writeSRec(data, params, cfg)
			if err != nil {
				return err
			}
			logger.Debug("encoded image", "input_bytes", len(data), "output_bytes", len(text))
			return writeOutput(text, params.FileParams, cfg, os.Stdout, logger)
		},
	}
}

func writeSRec(data []byte, params srecWriteParams, cfg *config.Config) ([]byte, error) {
	doc, err := params.document(data)
	if err != nil {
		return nil, err
	}
	doc.Metadata = []byte(cfg.SRec.Header)
	if params.Header != "" {
		doc.Metadata = []byte(params.Header)
	}
	settings := params.settings(&srecFormat, cfg)
	if params.AddressBits != 0 {
		settings.AddressBits = params.AddressBits
	}
	return srecFormat.write(doc, settings)
}
