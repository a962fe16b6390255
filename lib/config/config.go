// Copyright 2026 The fwupd Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"slices"

	"gopkg.in/yaml.v3"
)

// EnvironmentVariable names the variable Load reads the config path from.
const EnvironmentVariable = "FWCODEC_CONFIG"

// Config is the fwcodec configuration.
type Config struct {
	// IHex configures the Intel HEX writer.
	IHex IHexConfig `yaml:"ihex"`

	// SRec configures the S-record writer.
	SRec SRecConfig `yaml:"srec"`

	// Image configures memory image assembly and flattening.
	Image ImageConfig `yaml:"image"`

	// Input configures how input files are read.
	Input InputConfig `yaml:"input"`

	// Output configures how written files are stored.
	Output OutputConfig `yaml:"output"`
}

// IHexConfig configures Intel HEX parsing and writing.
type IHexConfig struct {
	// LineWidth is the number of data bytes per record.
	// Default: 16
	LineWidth int `yaml:"line_width"`

	// Comments skips lines starting with ';' when parsing. When off
	// such a line is an invalid record.
	Comments bool `yaml:"comments"`
}

// SRecConfig configures the S-record writer.
type SRecConfig struct {
	// LineWidth is the number of data bytes per record.
	// Default: 16
	LineWidth int `yaml:"line_width"`

	// AddressWidth selects the record family: "auto", "16", "24" or
	// "32". Auto picks the narrowest width covering the image.
	// Default: auto
	AddressWidth string `yaml:"address_width"`

	// Header is the S0 record text.
	Header string `yaml:"header"`
}

// ImageConfig configures memory image handling.
type ImageConfig struct {
	// Strict makes overlapping data records an error.
	Strict bool `yaml:"strict"`

	// Fill is the byte written into gaps when an image is flattened.
	// Default: 0xFF (erased flash)
	Fill int `yaml:"fill"`

	// MaxFlatten bounds the size of a flattened image in bytes.
	// Default: 64 MiB
	MaxFlatten uint64 `yaml:"max_flatten"`
}

// InputConfig configures input handling.
type InputConfig struct {
	// Decompress unpacks zstd and LZ4-frame Intel HEX and S-record
	// input detected by magic. Binary payloads are only unpacked on
	// request.
	// Default: true
	Decompress bool `yaml:"decompress"`
}

// OutputConfig configures written files.
type OutputConfig struct {
	// Compress is "none", "zstd" or "lz4".
	// Default: none
	Compress string `yaml:"compress"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		IHex: IHexConfig{LineWidth: 16},
		SRec: SRecConfig{
			LineWidth:    16,
			AddressWidth: "auto",
		},
		Image: ImageConfig{
			Fill:       0xFF,
			MaxFlatten: 64 << 20,
		},
		Input:  InputConfig{Decompress: true},
		Output: OutputConfig{Compress: "none"},
	}
}

// Load loads configuration from the path in FWCODEC_CONFIG. It fails
// if the variable is not set.
func Load() (*Config, error) {
	configPath := os.Getenv(EnvironmentVariable)
	if configPath == "" {
		return nil, fmt.Errorf("%s environment variable not set; "+
			"set it to the path of your fwcodec.yaml config file, or use --config flag", EnvironmentVariable)
	}
	return LoadFile(configPath)
}

// LoadFile loads configuration from path. Fields absent from the file
// keep their Default values.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	cfg.expandVariables()
	return cfg, nil
}

// Resolve loads path if non-empty, else FWCODEC_CONFIG if set, else
// returns Default. The result is validated.
func Resolve(path string) (*Config, error) {
	var cfg *Config
	var err error
	switch {
	case path != "":
		cfg, err = LoadFile(path)
	case os.Getenv(EnvironmentVariable) != "":
		cfg, err = Load()
	default:
		cfg = Default()
	}
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (c *Config) expandVariables() {
	c.SRec.Header = expandVars(c.SRec.Header)
	c.SRec.AddressWidth = expandVars(c.SRec.AddressWidth)
	c.Output.Compress = expandVars(c.Output.Compress)
}

// varPattern matches ${VAR} and ${VAR:-default}.
var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

func expandVars(s string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if value := os.Getenv(parts[1]); value != "" {
			return value
		}
		return parts[2]
	})
}

// Validate checks the configuration for errors, reporting all of them.
func (c *Config) Validate() error {
	var errs []error

	if c.IHex.LineWidth < 1 || c.IHex.LineWidth > 255 {
		errs = append(errs, fmt.Errorf("ihex.line_width must be 1-255, got %d", c.IHex.LineWidth))
	}
	if c.SRec.LineWidth < 1 || c.SRec.LineWidth > 250 {
		errs = append(errs, fmt.Errorf("srec.line_width must be 1-250, got %d", c.SRec.LineWidth))
	}
	widths := []string{"auto", "16", "24", "32"}
	if !slices.Contains(widths, c.SRec.AddressWidth) {
		errs = append(errs, fmt.Errorf("srec.address_width must be one of: %v", widths))
	}
	if len(c.SRec.Header) > 252 {
		errs = append(errs, fmt.Errorf("srec.header is %d bytes, at most 252 fit one record", len(c.SRec.Header)))
	}
	if c.Image.Fill < 0 || c.Image.Fill > 0xFF {
		errs = append(errs, fmt.Errorf("image.fill must be a byte value, got %d", c.Image.Fill))
	}
	if c.Image.MaxFlatten == 0 {
		errs = append(errs, fmt.Errorf("image.max_flatten is required"))
	}
	compressions := []string{"none", "zstd", "lz4"}
	if !slices.Contains(compressions, c.Output.Compress) {
		errs = append(errs, fmt.Errorf("output.compress must be one of: %v", compressions))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// AddressBits returns the S-record address width as a bit count, or
// zero for auto.
func (c *Config) AddressBits() int {
	switch c.SRec.AddressWidth {
	case "16":
		return 16
	case "24":
		return 24
	case "32":
		return 32
	}
	return 0
}

// FillByte returns Image.Fill as a byte.
func (c *Config) FillByte() byte {
	return byte(c.Image.Fill)
}
