// Copyright 2026 The fwupd Authors
// SPDX-License-Identifier: Apache-2.0

package firmware

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fwupd/fwupd-sub026/cmd/fwcodec/cli"
	"github.com/fwupd/fwupd-sub026/lib/binhash"
)

type infoParams struct {
	cli.CommonParams
	cli.InputParams
	cli.OutputParams
	Strict bool `json:"-" flag:"strict" desc:"fail on overlapping data records (default from config)"`
}

func infoCommand(f *format) *cli.Command {
	var params infoParams

	return &cli.Command{
		Name:    "info",
		Summary: "Summarise the memory image of a " + f.title + " file",
		Description: fmt.Sprintf(`Parse a %s file and describe the image it holds: the written
address ranges, the %s, the start address, and digests.

The image digests cover each written range as its address and length
(big-endian uint64) followed by its bytes, so two files describing the
same memory agree regardless of record layout. The file digests cover
the input bytes after decompression.`, f.title, f.metadataName),
		Usage:  fmt.Sprintf("fwcodec %s info [flags] [file]", f.name),
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
			if err := cli.NoArgs(f.name+" info", args); err != nil {
				return err
			}
			opts := newParseOptions(cfg, logger)
			opts.Strict = opts.Strict || params.Strict
			return describeFile(f, data, opts, os.Stdout, params.OutputParams)
		},
	}
}

type segmentReport struct {
	Address uint64 `json:"address"`
	End     uint64 `json:"end"`
	Size    int    `json:"size"`
}

type digestReport struct {
	SHA256 string `json:"sha256"`
	BLAKE3 string `json:"blake3"`
}

type infoReport struct {
	Format       string          `json:"format"`
	Records      int             `json:"records"`
	DataBytes    int             `json:"data_bytes"`
	Low          uint64          `json:"low"`
	High         uint64          `json:"high"`
	Segments     []segmentReport `json:"segments"`
	StartAddress *uint32         `json:"start_address,omitempty"`
	Metadata     string          `json:"metadata,omitempty"`
	Image        digestReport    `json:"image"`
	File         digestReport    `json:"file"`
}

func newDigestReport(digests binhash.Digests) digestReport {
	return digestReport{SHA256: digests.SHA256.String(), BLAKE3: digests.BLAKE3.String()}
}

// describe builds the report for a parsed document.
func describe(f *format, doc *document, data []byte) infoReport {
	low, high := doc.Image.Bounds()
	report := infoReport{
		Format:    f.name,
		Records:   doc.Records,
		DataBytes: doc.Image.Len(),
		Low:       low,
		High:      high,
		Segments:  []segmentReport{},
		Image:     newDigestReport(binhash.SumImage(doc.Image)),
		File:      newDigestReport(binhash.Sum(data)),
	}
	if len(doc.Metadata) > 0 {
		report.Metadata = f.formatMetadata(doc.Metadata)
	}
	for _, segment := range doc.Image.Segments() {
		report.Segments = append(report.Segments, segmentReport{
			Address: segment.Address,
			End:     segment.End(),
			Size:    len(segment.Data),
		})
	}
	if doc.HasStartAddress {
		start := doc.StartAddress
		report.StartAddress = &start
	}
	return report
}

func describeFile(f *format, data []byte, opts parseOptions, w io.Writer, output cli.OutputParams) error {
	doc, err := f.parse(bytes.NewReader(data), opts)
	if err != nil {
		return err
	}
	report := describe(f, doc, data)

	return output.Emit(w, report, func(w io.Writer) error {
		fmt.Fprintf(w, "format:       %s\n", f.title)
		fmt.Fprintf(w, "records:      %d\n", report.Records)
		fmt.Fprintf(w, "data bytes:   %d\n", report.DataBytes)
		if len(report.Segments) > 0 {
			fmt.Fprintf(w, "bounds:       0x%08x-0x%08x\n", report.Low, report.High)
		}
		fmt.Fprintf(w, "segments:     %d\n", len(report.Segments))
		for _, segment := range report.Segments {
			fmt.Fprintf(w, "  0x%08x-0x%08x  %d bytes\n", segment.Address, segment.End, segment.Size)
		}
		if report.StartAddress != nil {
			fmt.Fprintf(w, "start:        0x%08x\n", *report.StartAddress)
		}
		if report.Metadata != "" {
			fmt.Fprintf(w, "%-13s %s\n", f.metadataName+":", report.Metadata)
		}
		fmt.Fprintf(w, "image sha256: %s\n", report.Image.SHA256)
		fmt.Fprintf(w, "image blake3: %s\n", report.Image.BLAKE3)
		fmt.Fprintf(w, "file sha256:  %s\n", report.File.SHA256)
		_, err := fmt.Fprintf(w, "file blake3:  %s\n", report.File.BLAKE3)
		return err
	})
}
