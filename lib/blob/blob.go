// Copyright 2026 The fwupd Authors
// SPDX-License-Identifier: Apache-2.0

// Package blob loads firmware input for the codecs: files or stdin,
// optionally hex-encoded, optionally zstd or LZ4-frame compressed.
package blob

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"unicode"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/fwupd/fwupd-sub026/lib/fwerror"
)

// Compression identifies a whole-file compression format.
type Compression uint8

const (
	CompressionNone Compression = iota
	CompressionZstd
	CompressionLZ4
)

// DefaultMaxSize bounds decompressed input. Firmware images are at
// most a few tens of MiB; anything larger is almost certainly a
// decompression bomb.
const DefaultMaxSize = 256 << 20

var (
	zstdMagic = []byte{0x28, 0xB5, 0x2F, 0xFD}
	lz4Magic  = []byte{0x04, 0x22, 0x4D, 0x18}
)

const (
	// lz4MinimumFrame is the magic, the three descriptor bytes of a frame
	// without content size or dictionary, and the end mark.
	lz4MinimumFrame = 11

	// lz4ContentChecksum is the FLG bit announcing a trailing content
	// checksum after the end mark.
	lz4ContentChecksum = 0x04
)

// String returns the name accepted by ParseCompression.
func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionZstd:
		return "zstd"
	case CompressionLZ4:
		return "lz4"
	default:
		return fmt.Sprintf("unknown(%d)", c)
	}
}

// ParseCompression parses "none", "zstd" or "lz4". The empty string is
// "none".
func ParseCompression(name string) (Compression, error) {
	switch name {
	case "", "none":
		return CompressionNone, nil
	case "zstd":
		return CompressionZstd, nil
	case "lz4":
		return CompressionLZ4, nil
	default:
		return 0, fmt.Errorf("unknown compression %q (want none, zstd or lz4)", name)
	}
}

// Detect identifies the compression of data by its frame magic.
func Detect(data []byte) Compression {
	switch {
	case bytes.HasPrefix(data, zstdMagic):
		return CompressionZstd
	case bytes.HasPrefix(data, lz4Magic):
		return CompressionLZ4
	default:
		return CompressionNone
	}
}

// zstdEncoder and zstdDecoder are shared; both are safe for concurrent
// use with EncodeAll and DecodeAll.
var (
	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
)

func init() {
	var err error
	zstdEncoder, err = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		panic("blob: zstd encoder initialization failed: " + err.Error())
	}
	zstdDecoder, err = zstd.NewReader(nil, zstd.WithDecoderMaxMemory(DefaultMaxSize))
	if err != nil {
		panic("blob: zstd decoder initialization failed: " + err.Error())
	}
}

// Compress returns data compressed with c. CompressionNone returns data
// unchanged.
func Compress(data []byte, c Compression) ([]byte, error) {
	switch c {
	case CompressionNone:
		return data, nil
	case CompressionZstd:
		return zstdEncoder.EncodeAll(data, nil), nil
	case CompressionLZ4:
		var buffer bytes.Buffer
		writer := lz4.NewWriter(&buffer)
		if _, err := writer.Write(data); err != nil {
			return nil, fmt.Errorf("lz4 compress: %w", err)
		}
		if err := writer.Close(); err != nil {
			return nil, fmt.Errorf("lz4 compress: %w", err)
		}
		return buffer.Bytes(), nil
	default:
		return nil, fwerror.New(fwerror.NotSupported, "compression %s", c)
	}
}

// Decompress detects the compression of data and undoes it. Input
// without a recognized magic is returned unchanged. Output larger than
// maxSize fails with NotSupported.
func Decompress(data []byte, maxSize int64) ([]byte, Compression, error) {
	compression := Detect(data)
	switch compression {
	case CompressionZstd:
		result, err := zstdDecoder.DecodeAll(data, nil)
		if err != nil {
			return nil, compression, fwerror.New(fwerror.InvalidFile, "zstd decompress: %v", err)
		}
		if int64(len(result)) > maxSize {
			return nil, compression, fwerror.New(fwerror.NotSupported,
				"decompressed input exceeds %d bytes", maxSize)
		}
		return result, compression, nil

	case CompressionLZ4:
		if !lz4Complete(data) {
			return nil, compression, fwerror.New(fwerror.InvalidFile,
				"lz4 decompress: frame of %d bytes is truncated", len(data))
		}
		result, err := readLimited(lz4.NewReader(bytes.NewReader(data)), maxSize)
		if err != nil {
			return nil, compression, err
		}
		return result, compression, nil
	}
	return data, CompressionNone, nil
}

// lz4Complete reports whether data is long enough to hold a frame and
// ends with the end mark, followed by the content checksum when the
// frame descriptor announces one. The reader treats a stream that stops
// at a block boundary as finished, so truncation is caught here.
func lz4Complete(data []byte) bool {
	if len(data) < lz4MinimumFrame {
		return false
	}
	trailer := 4
	if data[4]&lz4ContentChecksum != 0 {
		trailer += 4
	}
	if len(data) < lz4MinimumFrame+trailer-4 {
		return false
	}
	return binary.LittleEndian.Uint32(data[len(data)-trailer:]) == 0
}

func readLimited(reader io.Reader, maxSize int64) ([]byte, error) {
	result, err := io.ReadAll(io.LimitReader(reader, maxSize+1))
	if err != nil {
		return nil, fwerror.New(fwerror.InvalidFile, "lz4 decompress: %v", err)
	}
	if int64(len(result)) > maxSize {
		return nil, fwerror.New(fwerror.NotSupported, "decompressed input exceeds %d bytes", maxSize)
	}
	return result, nil
}

// DecodeHex strips whitespace from hex-encoded input and decodes it.
// Whitespace between digit pairs is allowed ("a1 63 6b" or "a1636b").
func DecodeHex(data []byte) ([]byte, error) {
	cleaned := bytes.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, data)

	decoded := make([]byte, hex.DecodedLen(len(cleaned)))
	count, err := hex.Decode(decoded, cleaned)
	if err != nil {
		return nil, fwerror.New(fwerror.InvalidData, "decode hex: %v", err)
	}
	return decoded[:count], nil
}

// Options controls Load and Read.
type Options struct {
	// Hex decodes the input as whitespace-separated hex after reading.
	Hex bool

	// Decompress undoes zstd or LZ4-frame compression detected by magic.
	// It applies before hex decoding.
	Decompress bool

	// Compressed requires a zstd or LZ4 frame: input without one fails
	// with InvalidFile instead of passing through. It implies Decompress.
	Compressed bool

	// MaxSize bounds decompressed input; zero means DefaultMaxSize.
	MaxSize int64
}

func (o Options) maxSize() int64 {
	if o.MaxSize <= 0 {
		return DefaultMaxSize
	}
	return o.MaxSize
}

// Load reads path, or stdin when path is "" or "-", and applies opts.
func Load(path string, opts Options) ([]byte, error) {
	if path == "" || path == "-" {
		return Read(os.Stdin, opts)
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	data, err := Read(file, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return data, nil
}

// Read reads all of reader and applies opts.
func Read(reader io.Reader, opts Options) ([]byte, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}
	if opts.Compressed && Detect(data) == CompressionNone {
		return nil, fwerror.New(fwerror.InvalidFile, "input is not a zstd or lz4 frame")
	}
	if opts.Decompress || opts.Compressed {
		data, _, err = Decompress(data, opts.maxSize())
		if err != nil {
			return nil, err
		}
	}
	if opts.Hex {
		data, err = DecodeHex(data)
		if err != nil {
			return nil, err
		}
	}
	return data, nil
}
