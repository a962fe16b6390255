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

type convertParams struct {
	cli.CommonParams
	cli.InputParams
	FileParams
	To     string `json:"-" flag:"to" desc:"output format: ihex or srec (default: the other format)"`
	Strict bool   `json:"-" flag:"strict" desc:"fail on overlapping data records (default from config)"`
}

func convertCommand(f *format) *cli.Command {
	var params convertParams
	other := &srecFormat
	if f == &srecFormat {
		other = &ihexFormat
	}

	return &cli.Command{
		Name:    "convert",
		Summary: "Rewrite the image in another record format",
		Description: fmt.Sprintf(`Parse a %s file and write the same memory image as %s (or the
format named by --to) using the configured writer settings.

The start address is carried over. The %s is kept only when the output
format is the same; S-record output without one uses the configured
header.`, f.title, other.title, f.metadataName),
		Usage:  fmt.Sprintf("fwcodec %s convert [flags] [file]", f.name),
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
			if err := cli.NoArgs(f.name+" convert", args); err != nil {
				return err
			}
			target := other
			if params.To != "" {
				if target, err = formatByName(params.To); err != nil {
					return err
				}
			}
			text, err := convertFile(f, target, data, cfg.Image.Strict || params.Strict, cfg, logger)
			if err != nil {
				return err
			}
			return writeOutput(text, params.FileParams, cfg, os.Stdout, logger)
		},
	}
}

// convertFile parses data as source and renders it as target.
func convertFile(source, target *format, data []byte, strict bool, cfg *config.Config, logger *slog.Logger) ([]byte, error) {
	opts := newParseOptions(cfg, logger)
	opts.Strict = strict
	doc, err := source.parse(bytes.NewReader(data), opts)
	if err != nil {
		return nil, err
	}
	if target != source {
		if len(doc.Metadata) > 0 {
			logger.Warn("dropping "+source.metadataName+" not representable in "+target.title,
				"bytes", len(doc.Metadata))
		}
		doc.Metadata = nil
	}
	if target == &srecFormat && len(doc.Metadata) == 0 {
		doc.Metadata = []byte(cfg.SRec.Header)
	}
	logger.Debug("converting", "from", source.name, "to", target.name, "image", doc.Image.String())
	return target.write(doc, target.settings(cfg))
}
