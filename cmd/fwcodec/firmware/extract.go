// Copyright 2026 The fwupd Authors
// SPDX-License-Identifier: Apache-2.0

package firmware

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/fwupd/fwupd-sub026/cmd/fwcodec/cli"
	"github.com/fwupd/fwupd-sub026/lib/config"
)

type extractParams struct {
	cli.CommonParams
	cli.InputParams
	FileParams
	Fill    int    `json:"-" flag:"fill" desc:"byte written into gaps, -1 for the configured value" default:"-1"`
	MaxSize uint64 `json:"-" flag:"max-size" desc:"largest span to flatten in bytes, 0 for the configured value"`
	Strict  bool   `json:"-" flag:"strict" desc:"fail on overlapping data records (default from config)"`
}

func extractCommand(f *format) *cli.Command {
	var params extractParams

	return &cli.Command{
		Name:    "extract",
		Summary: "Flatten the image to a raw binary",
		Description: fmt.Sprintf(`Parse a %s file and write its memory image as one contiguous
binary starting at the lowest written address.

Gaps between written ranges are filled with --fill (0xFF by default,
matching erased flash). Images spanning more than --max-size bytes are
refused so a stray record at a distant address cannot produce a
multi-gigabyte file. The base address is logged.`, f.title),
		Usage:  fmt.Sprintf("fwcodec %s extract [flags] [file]", f.name),
		Params: func() any { return &params },
		Run: func(_ context.Context, args []string, logger *slog.Logger) error {
			cfg, err := params.LoadConfig()
			if err != nil {
				return err
			}
			data, args, err := params.ReadInput(args, cfg)
			if err != nil {
				return err
			}
			if err := cli.NoArgs(f.name+" extract", args); err != nil {
				return err
			}
			flat, err := extractImage(f, data, params, cfg, logger)
			if err != nil {
				return err
			}
			return writeOutput(flat, params.FileParams, cfg, os.Stdout, logger)
		},
	}
}

// extractImage parses data and flattens its image.
func extractImage(f *format, data []byte, params extractParams, cfg *config.Config, logger *slog.Logger) ([]byte, error) {
	fill := cfg.FillByte()
	if params.Fill >= 0 {
		if params.Fill > 0xFF {
			return nil, fmt.Errorf("--fill %d is not a byte value", params.Fill)
		}
		fill = byte(params.Fill)
	}
	limit := cfg.Image.MaxFlatten
	if params.MaxSize > 0 {
		limit = params.MaxSize
	}

	opts := newParseOptions(cfg, logger)
	opts.Strict = opts.Strict || params.Strict
	doc, err := f.parse(bytes.NewReader(data), opts)
	if err != nil {
		return nil, err
	}
	base, flat, err := doc.Image.Flatten(fill, limit)
	if err != nil {
		return nil, err
	}
	logger.Info("flattened image",
		"base", fmt.Sprintf("0x%08x", base),
		"bytes", len(flat),
		"segments", len(doc.Image.Segments()),
	)
	return flat, nil
}
