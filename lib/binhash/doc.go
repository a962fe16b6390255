// Copyright 2026 The fwupd Authors
// SPDX-License-Identifier: Apache-2.0

// Package binhash digests firmware payloads and assembled images.
//
// Every digest is computed twice, SHA-256 and BLAKE3, in one pass over
// the data. SHA-256 is what firmware metadata (cabinet archives, LVFS
// manifests) records, so `fwcodec ihex info` prints it for comparison.
// BLAKE3 is the fast content hash used to compare images locally.
//
// [Sum] hashes a byte payload. [SumImage] hashes an assembled
// [memimage.Image] including its layout: each written range is framed
// by its address and length, so two images with the same bytes at
// different addresses never collide, and a gap is never confused with
// fill bytes. [HashFile] streams a file with constant memory use.
// [FormatDigest] and [ParseDigest] convert digests to and from hex.
package binhash
