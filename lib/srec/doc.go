// Copyright 2026 The fwupd Authors
// SPDX-License-Identifier: Apache-2.0

// Package srec reads and writes Motorola S-record firmware files.
//
// Each line is 'S', a type digit, a count byte, a 16, 24 or 32-bit
// address, data, and a checksum that is the ones' complement of the
// byte sum. [Tokenize] decodes lines into [Record] values with their
// line numbers. [Assemble] folds records into a [memimage.Image], so a
// file's data can be read back by address whatever order its records
// came in. [Write] renders an image back to text, picking the
// narrowest address width that covers it unless told otherwise.
//
// S4 is reserved and rejected. Count records (S5, S6) are checked
// against the number of data records seen.
package srec
