// Copyright 2026 The fwupd Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec provides the CBOR encoding used for machine-readable
// fwcodec output.
//
// Every command that prints a report can emit it as text, JSON or CBOR.
// The CBOR form uses Core Deterministic Encoding (RFC 8949 §4.2):
// sorted map keys, smallest integer encoding, no indefinite-length
// items. Running the same command over the same firmware always
// produces identical bytes, so outputs can be diffed and hashed.
//
// For report structs:
//
//	data, err := codec.Marshal(report)
//
// For flat MessagePack item sequences, [EncodeItems] writes one CBOR
// data item per item, and [DecodeItems] reads such a sequence back.
//
// # Struct Tag Rules
//
// Report types carry `json` tags only. fxamacker/cbor v2 reads `json`
// tags when `cbor` tags are absent, so one tag controls field naming
// and omitempty for both output formats.
package codec
