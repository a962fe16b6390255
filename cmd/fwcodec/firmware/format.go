// Copyright 2026 The fwupd Authors
// SPDX-License-Identifier: Apache-2.0

package firmware

import (
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"

	"github.com/fwupd/fwupd-sub026/lib/config"
	"github.com/fwupd/fwupd-sub026/lib/ihex"
	"github.com/fwupd/fwupd-sub026/lib/memimage"
	"github.com/fwupd/fwupd-sub026/lib/srec"
)

// parseOptions are the format-independent parse settings.
type parseOptions struct {
	IgnoreChecksum bool
	Strict         bool

	// Comments allows ';' comment lines in Intel HEX input.
	Comments bool

	Logger *slog.Logger
}

// newParseOptions fills the configured settings; callers add the
// per-command flags.
func newParseOptions(cfg *config.Config, logger *slog.Logger) parseOptions {
	return parseOptions{
		Strict:   cfg.Image.Strict,
		Comments: cfg.IHex.Comments,
		Logger:   logger,
	}
}

// recordRow is one tokenized record in a format-independent shape.
type recordRow struct {
	Line          int    `json:"line"`
	Kind          string `json:"kind"`
	Address       uint32 `json:"address"`
	Length        int    `json:"length"`
	ChecksumValid bool   `json:"checksum_valid"`
	Data          string `json:"data"`
}

// document is a parsed firmware file.
type document struct {
	Image *memimage.Image

	// Metadata is the Intel HEX signature or the S-record header.
	Metadata []byte

	StartAddress    uint32
	HasStartAddress bool

	// Records counts every record in the file, including the final one.
	Records int
}

// writeSettings are the writer knobs shared by both formats.
// AddressBits applies to S-records only; zero picks the narrowest.
type writeSettings struct {
	LineWidth   int
	AddressBits int
}

// format adapts one record format to the shared subcommands.
type format struct {
	name         string
	title        string
	metadataName string

	// metadataText is set when the metadata is conventionally ASCII.
	metadataText bool

	tokenize func(io.Reader, parseOptions) ([]recordRow, error)
	parse    func(io.Reader, parseOptions) (*document, error)
	write    func(*document, writeSettings) ([]byte, error)

	// settings returns the configured writer defaults.
	settings func(*config.Config) writeSettings
}

// formatMetadata renders metadata as quoted text or hex.
func (f *format) formatMetadata(metadata []byte) string {
	if f.metadataText {
		return fmt.Sprintf("%q", metadata)
	}
	return hex.EncodeToString(metadata)
}

var ihexFormat = format{
	name:         "ihex",
	title:        "Intel HEX",
	metadataName: "signature",

	tokenize: func(reader io.Reader, opts parseOptions) ([]recordRow, error) {
		records, err := ihex.Tokenize(reader, ihex.Options{
			IgnoreChecksum: opts.IgnoreChecksum,
			AllowComments:  opts.Comments,
			Logger:         opts.Logger,
		})
		if err != nil {
			return nil, err
		}
		rows := make([]recordRow, 0, len(records))
		for _, record := range records {
			rows = append(rows, recordRow{
				Line:          record.Line,
				Kind:          record.Kind.String(),
				Address:       uint32(record.Address),
				Length:        len(record.Data),
				ChecksumValid: record.ChecksumValid,
				Data:          hex.EncodeToString(record.Data),
			})
		}
		return rows, nil
	},

	parse: func(reader io.Reader, opts parseOptions) (*document, error) {
		firmware, err := ihex.Parse(reader, ihex.Options{
			IgnoreChecksum: opts.IgnoreChecksum,
			Strict:         opts.Strict,
			AllowComments:  opts.Comments,
			Logger:         opts.Logger,
		})
		if err != nil {
			return nil, err
		}
		return &document{
			Image:           firmware.Image,
			Metadata:        firmware.Signature,
			StartAddress:    firmware.StartAddress,
			HasStartAddress: firmware.HasStartAddress,
			Records:         len(firmware.Records()),
		}, nil
	},

	write: func(doc *document, settings writeSettings) ([]byte, error) {
		return ihex.WriteImage(doc.Image, ihex.WriteOptions{
			LineWidth:       settings.LineWidth,
			Signature:       doc.Metadata,
			StartAddress:    doc.StartAddress,
			HasStartAddress: doc.HasStartAddress,
		})
	},

	settings: func(cfg *config.Config) writeSettings {
		return writeSettings{LineWidth: cfg.IHex.LineWidth}
	},
}

var srecFormat = format{
	name:         "srec",
	title:        "Motorola S-record",
	metadataName: "header",
	metadataText: true,

	tokenize: func(reader io.Reader, opts parseOptions) ([]recordRow, error) {
		records, err := srec.Tokenize(reader, srec.Options{IgnoreChecksum: opts.IgnoreChecksum, Logger: opts.Logger})
		if err != nil {
			return nil, err
		}
		rows := make([]recordRow, 0, len(records))
		for _, record := range records {
			rows = append(rows, recordRow{
				Line:          record.Line,
				Kind:          record.Kind.String(),
				Address:       record.Address,
				Length:        len(record.Data),
				ChecksumValid: record.ChecksumValid,
				Data:          hex.EncodeToString(record.Data),
			})
		}
		return rows, nil
	},

	parse: func(reader io.Reader, opts parseOptions) (*document, error) {
		firmware, err := srec.Parse(reader, srec.Options{
			IgnoreChecksum: opts.IgnoreChecksum,
			Strict:         opts.Strict,
			Logger:         opts.Logger,
		})
		if err != nil {
			return nil, err
		}
		return &document{
			Image:           firmware.Image,
			Metadata:        firmware.Header,
			StartAddress:    firmware.StartAddress,
			HasStartAddress: true,
			Records:         len(firmware.Records()),
		}, nil
	},

	write: func(doc *document, settings writeSettings) ([]byte, error) {
		return srec.WriteImage(doc.Image, srec.WriteOptions{
			LineWidth:    settings.LineWidth,
			AddressBits:  settings.AddressBits,
			Header:       string(doc.Metadata),
			StartAddress: doc.StartAddress,
		})
	},

	settings: func(cfg *config.Config) writeSettings {
		return writeSettings{LineWidth: cfg.SRec.LineWidth, AddressBits: cfg.AddressBits()}
	},
}

// formatByName returns the format called name.
func formatByName(name string) (*format, error) {
	switch name {
	case ihexFormat.name:
		return &ihexFormat, nil
	case srecFormat.name:
		return &srecFormat, nil
	}
	return nil, fmt.Errorf("unknown format %q (want ihex or srec)", name)
}
