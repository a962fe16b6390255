// Copyright 2026 The fwupd Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides YAML configuration loading for fwcodec.
//
// Configuration is loaded from a single file specified by either the
// FWCODEC_CONFIG environment variable (via [Load]) or a --config flag
// (via [LoadFile]). There is no ~/.config discovery and no automatic
// file search. Without either, [Resolve] returns [Default].
//
// The file sets defaults for the codecs: record widths for the
// writers, the S0 header text, strict overlap handling, the fill byte
// used when flattening an image, and whether compressed input is
// unpacked. Command-line flags override these per invocation.
//
// ${VAR} and ${VAR:-default} patterns in string fields are expanded
// after loading.
package config
