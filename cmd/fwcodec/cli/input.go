// Copyright 2026 The fwupd Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"fmt"
	"os"

	"github.com/fwupd/fwupd-sub026/lib/blob"
	"github.com/fwupd/fwupd-sub026/lib/config"
)

// CommonParams are embedded by every leaf command.
type CommonParams struct {
	ConfigPath string `json:"-" flag:"config" desc:"configuration file (default: $FWCODEC_CONFIG)"`
	Verbose    bool   `json:"-" flag:"verbose,v" desc:"log parse details at debug level"`
}

// IsVerbose reports whether --verbose was given. Execute uses it to
// pick the logger level.
func (p *CommonParams) IsVerbose() bool {
	return p.Verbose
}

// LoadConfig resolves the configuration from --config, FWCODEC_CONFIG,
// or the defaults.
func (p *CommonParams) LoadConfig() (*config.Config, error) {
	return config.Resolve(p.ConfigPath)
}

// InputParams is embedded by commands that read Intel HEX or S-record
// text. Record files start with ':' or 'S', so compressed input is
// recognised by its frame magic and unpacked.
type InputParams struct {
	HexInput     bool `json:"-" flag:"hex,x" desc:"treat input as hex-encoded bytes"`
	NoDecompress bool `json:"-" flag:"no-decompress" desc:"do not unpack zstd or lz4 compressed input"`
}

// ReadInput resolves input data from either a file (the last element
// of args, if it names a regular file on disk) or stdin.
//
// Compressed input is unpacked unless --no-decompress is given or the
// configuration disables it. With --hex the bytes are then decoded as
// whitespace-separated hex.
//
// Returns the input bytes and the args with any consumed file path
// removed. The caller validates the remaining args.
func (p *InputParams) ReadInput(args []string, cfg *config.Config) ([]byte, []string, error) {
	return readInput(args, blob.Options{
		Hex:        p.HexInput,
		Decompress: cfg.Input.Decompress && !p.NoDecompress,
	})
}

// PayloadParams is embedded by commands that read arbitrary binary
// input (msgpack and protobuf payloads, raw images). Any leading bytes
// are valid there, including compression magic, so input is only
// unpacked when --decompress asks for it.
type PayloadParams struct {
	HexInput   bool `json:"-" flag:"hex,x" desc:"treat input as hex-encoded bytes"`
	Decompress bool `json:"-" flag:"decompress" desc:"input is a zstd or lz4 frame; unpack it before decoding"`
}

// ReadInput resolves input the way [InputParams.ReadInput] does. With
// --decompress the input must be a zstd or lz4 frame.
func (p *PayloadParams) ReadInput(args []string) ([]byte, []string, error) {
	return readInput(args, blob.Options{Hex: p.HexInput, Compressed: p.Decompress})
}

func readInput(args []string, options blob.Options) ([]byte, []string, error) {
	if length := len(args); length > 0 {
		candidate := args[length-1]
		info, err := os.Stat(candidate)
		if err == nil && !info.IsDir() {
			data, err := blob.Load(candidate, options)
			if err != nil {
				return nil, nil, err
			}
			return data, args[:length-1], nil
		}
	}

	data, err := blob.Read(os.Stdin, options)
	if err != nil {
		return nil, nil, fmt.Errorf("read stdin: %w", err)
	}
	return data, args, nil
}

// NoArgs returns an error naming the first unexpected positional
// argument, or nil when args is empty.
func NoArgs(command string, args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("%s: unexpected argument %q (no such file?)", command, args[0])
	}
	return nil
}
