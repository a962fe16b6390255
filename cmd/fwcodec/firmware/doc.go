// Copyright 2026 The fwupd Authors
// SPDX-License-Identifier: Apache-2.0

// Package firmware implements the "fwcodec ihex" and "fwcodec srec"
// command groups. Both formats describe a sparse memory image as lines
// of hex records, so the two groups share one set of subcommands
// (records, info, extract, write, convert) parameterized by a format
// value that adapts lib/ihex or lib/srec to a common document shape.
package firmware
