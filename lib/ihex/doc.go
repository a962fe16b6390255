// Copyright 2026 The fwupd Authors
// SPDX-License-Identifier: Apache-2.0

// Package ihex reads and writes Intel HEX firmware files.
//
// [Tokenize] decodes ':'-prefixed lines into [Record] values, checking
// the two's complement checksum of each. [Assemble] applies extended
// segment (02) and extended linear (04) address records to produce a
// [memimage.Image] of absolute 32-bit addresses, collecting start
// address records (03, 05) and signature records (FD) on the side.
// [Write] emits the canonical form: 16-byte data records, an 04 record
// whenever the upper 16 address bits change, and a closing 01 record.
package ihex
