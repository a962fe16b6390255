// Copyright 2026 The fwupd Authors
// SPDX-License-Identifier: Apache-2.0

package firmware

import (
	"io"
	"log/slog"
	"os"

	"github.com/fwupd/fwupd-sub026/lib/binhash"
	"github.com/fwupd/fwupd-sub026/lib/blob"
	"github.com/fwupd/fwupd-sub026/lib/config"
)

// FileParams are the flags of commands that produce a file. The type
// is exported so that flag binding can reach its fields when embedded.
type FileParams struct {
	Out      string `json:"-" flag:"out,O" desc:"write to this file instead of stdout"`
	Compress string `json:"-" flag:"compress" desc:"compress the output: none, zstd or lz4 (default from config)"`
}

// writeOutput compresses data as requested (falling back to the
// configured compression) and writes it to the --out path, or to
// stdout when no path is given. Files written are hashed and logged.
func writeOutput(data []byte, params FileParams, cfg *config.Config, stdout io.Writer, logger *slog.Logger) error {
	name := params.Compress
	if name == "" {
		name = cfg.Output.Compress
	}
	compression, err := blob.ParseCompression(name)
	if err != nil {
		return err
	}
	data, err = blob.Compress(data, compression)
	if err != nil {
		return err
	}

	if params.Out == "" || params.Out == "-" {
		_, err = stdout.Write(data)
		return err
	}
	if err := os.WriteFile(params.Out, data, 0o644); err != nil {
		return err
	}
	digests, err := binhash.HashFile(params.Out)
	if err != nil {
		return err
	}
	logger.Info("wrote output",
		"path", params.Out,
		"bytes", len(data),
		"compression", compression.String(),
		"sha256", digests.SHA256.String(),
	)
	return nil
}
