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
	"strconv"

	"github.com/fwupd/fwupd-sub026/cmd/fwcodec/cli"
)

// dataPreview is the number of data bytes shown per record in text
// output.
const dataPreview = 16

type recordsParams struct {
	cli.CommonParams
	cli.InputParams
	cli.OutputParams
	IgnoreChecksum bool `json:"-" flag:"ignore-checksum" desc:"list records with bad checksums instead of failing (exits 1 if any)"`
}

func recordsCommand(f *format) *cli.Command {
	var params recordsParams

	return &cli.Command{
		Name:    "records",
		Summary: "List the records of a " + f.title + " file",
		Description: fmt.Sprintf(`Tokenize a %s file and list its records in file order.

Records are only checked line by line: the listing stops at the
end-of-file record but addresses are not combined into an image. Use
"info" for that.

A bad checksum fails with the line number. With --ignore-checksum the
record is listed with CHECKSUM "bad" and the command exits with status
1 after printing the listing.`, f.title),
		Usage:  fmt.Sprintf("fwcodec %s records [flags] [file]", f.name),
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
			if err := cli.NoArgs(f.name+" records", args); err != nil {
				return err
			}
			opts := newParseOptions(cfg, logger)
			opts.IgnoreChecksum = params.IgnoreChecksum
			bad, err := listRecords(f, data, opts, os.Stdout, params.OutputParams)
			if err != nil {
				return err
			}
			if bad > 0 {
				logger.Warn("records with bad checksums", "count", bad)
				return &cli.ExitError{Code: 1}
			}
			return nil
		},
	}
}

// listRecords tokenizes data and writes the record listing to w. It
// returns the number of records whose checksum did not match.
func listRecords(f *format, data []byte, opts parseOptions, w io.Writer, output cli.OutputParams) (int, error) {
	rows, err := f.tokenize(bytes.NewReader(data), opts)
	if err != nil {
		return 0, err
	}

	bad := 0
	for _, row := range rows {
		if !row.ChecksumValid {
			bad++
		}
	}

	err = output.Emit(w, rows, func(w io.Writer) error {
		table := cli.NewTable("LINE", "TYPE", "ADDRESS", "LENGTH", "CHECKSUM", "DATA")
		for _, row := range rows {
			checksum := "ok"
			if !row.ChecksumValid {
				checksum = "bad"
			}
			table.Row(
				strconv.Itoa(row.Line),
				row.Kind,
				fmt.Sprintf("0x%04x", row.Address),
				strconv.Itoa(row.Length),
				checksum,
				previewData(row.Data),
			)
		}
		return table.Write(w)
	})
	return bad, err
}

// previewData shortens a hex payload to dataPreview bytes.
func previewData(hexData string) string {
	if len(hexData) <= 2*dataPreview {
		return hexData
	}
	return hexData[:2*dataPreview] + "..."
}
