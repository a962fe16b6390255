// Copyright 2026 The fwupd Authors
// SPDX-License-Identifier: Apache-2.0

package binhash

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"os"

	"github.com/zeebo/blake3"

	"github.com/fwupd/fwupd-sub026/lib/memimage"
)

// Digest is a 32-byte hash value.
type Digest [32]byte

// Digests holds both hashes of the same input.
type Digests struct {
	SHA256 Digest
	BLAKE3 Digest
}

// pair feeds one input to both hash functions.
type pair struct {
	sha    hash.Hash
	blake  *blake3.Hasher
	writer io.Writer
}

func newPair() *pair {
	p := &pair{sha: sha256.New(), blake: blake3.New()}
	p.writer = io.MultiWriter(p.sha, p.blake)
	return p
}

func (p *pair) sum() Digests {
	var digests Digests
	copy(digests.SHA256[:], p.sha.Sum(nil))
	copy(digests.BLAKE3[:], p.blake.Sum(nil))
	return digests
}

// Sum digests data.
func Sum(data []byte) Digests {
	p := newPair()
	p.writer.Write(data)
	return p.sum()
}

// SumImage digests the written ranges of image in address order. Each
// range contributes its address and length as big-endian uint64s
// followed by its bytes.
func SumImage(image *memimage.Image) Digests {
	p := newPair()
	var frame [16]byte
	for _, segment := range image.Segments() {
		binary.BigEndian.PutUint64(frame[0:8], segment.Address)
		binary.BigEndian.PutUint64(frame[8:16], uint64(len(segment.Data)))
		p.writer.Write(frame[:])
		p.writer.Write(segment.Data)
	}
	return p.sum()
}

// HashFile digests the file at path. The file is streamed through the
// hash functions so memory use is constant regardless of file size.
func HashFile(path string) (Digests, error) {
	file, err := os.Open(path)
	if err != nil {
		return Digests{}, fmt.Errorf("opening %s for hashing: %w", path, err)
	}
	defer file.Close()

	p := newPair()
	if _, err := io.Copy(p.writer, file); err != nil {
		return Digests{}, fmt.Errorf("hashing %s: %w", path, err)
	}
	return p.sum(), nil
}

// FormatDigest returns the lower-case hex form of digest.
func FormatDigest(digest Digest) string {
	return hex.EncodeToString(digest[:])
}

// String returns the lower-case hex form of the digest.
func (d Digest) String() string {
	return FormatDigest(d)
}

// ParseDigest parses a 64-character hex digest.
func ParseDigest(hexString string) (Digest, error) {
	var digest Digest
	decoded, err := hex.DecodeString(hexString)
	if err != nil {
		return digest, fmt.Errorf("parsing hash digest: %w", err)
	}
	if len(decoded) != len(digest) {
		return digest, fmt.Errorf("hash digest is %d bytes, want %d", len(decoded), len(digest))
	}
	copy(digest[:], decoded)
	return digest, nil
}
