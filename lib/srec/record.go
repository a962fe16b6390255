// Copyright 2026 The fwupd Authors
// SPDX-License-Identifier: Apache-2.0

package srec

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/fwupd/fwupd-sub026/lib/fwerror"
	"github.com/fwupd/fwupd-sub026/lib/hexline"
)

// RecordKind is the digit following the 'S' of a record.
type RecordKind uint8

const (
	KindHeader      RecordKind = 0
	KindData16      RecordKind = 1
	KindData24      RecordKind = 2
	KindData32      RecordKind = 3
	KindReserved    RecordKind = 4
	KindCount16     RecordKind = 5
	KindCount24     RecordKind = 6
	KindTerminate32 RecordKind = 7
	KindTerminate24 RecordKind = 8
	KindTerminate16 RecordKind = 9
)

// minimumLineLength covers S, type, count, a 16-bit address and the
// checksum.
const minimumLineLength = 10

// String returns a short description such as "S1 data".
func (kind RecordKind) String() string {
	switch kind {
	case KindHeader:
		return "S0 header"
	case KindData16, KindData24, KindData32:
		return fmt.Sprintf("S%d data", uint8(kind))
	case KindCount16, KindCount24:
		return fmt.Sprintf("S%d count", uint8(kind))
	case KindTerminate32, KindTerminate24, KindTerminate16:
		return fmt.Sprintf("S%d termination", uint8(kind))
	}
	return fmt.Sprintf("S%d reserved", uint8(kind))
}

// AddressSize returns the width in bytes of the kind's address field.
func (kind RecordKind) AddressSize() int {
	switch kind {
	case KindData24, KindCount24, KindTerminate24:
		return 3
	case KindData32, KindTerminate32:
		return 4
	}
	return 2
}

// IsData reports whether the kind carries image data.
func (kind RecordKind) IsData() bool {
	return kind == KindData16 || kind == KindData24 || kind == KindData32
}

// IsTermination reports whether the kind ends the record stream.
func (kind RecordKind) IsTermination() bool {
	return kind == KindTerminate32 || kind == KindTerminate24 || kind == KindTerminate16
}

// DataKind returns the data record kind a termination record closes:
// S9 ends S1 files, S8 ends S2 files and S7 ends S3 files.
func (kind RecordKind) DataKind() RecordKind {
	switch kind {
	case KindTerminate16:
		return KindData16
	case KindTerminate24:
		return KindData24
	case KindTerminate32:
		return KindData32
	}
	return kind
}

// Record is one decoded line.
type Record struct {
	// Line is the 1-based line number in the source text.
	Line int

	// ByteCount is the count field: address, data and checksum bytes.
	ByteCount int

	Kind RecordKind

	// Address is the address field, 16, 24 or 32 bits wide by kind.
	// For count records it is the count; for termination records the
	// start address.
	Address uint32

	Data []byte

	// ChecksumValid is false only for records kept despite a bad
	// checksum because Options.IgnoreChecksum was set.
	ChecksumValid bool
}

// Options controls parsing.
type Options struct {
	// IgnoreChecksum keeps records whose checksum does not match,
	// marking them ChecksumValid=false, instead of failing.
	IgnoreChecksum bool

	// Strict makes overlapping data records an error during image
	// assembly. Without it the last write wins.
	Strict bool

	// Logger receives a debug trace of the records seen. Nil is silent.
	Logger *slog.Logger
}

func (o Options) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return o.Logger
}

// Tokenize reads every record from reader. CRLF line endings are
// accepted and blank lines skipped. Every line must start with 'S' and
// have a count matching its length (InvalidFile) and a valid checksum
// (InvalidChecksum, unless IgnoreChecksum). Errors carry the line
// number.
func Tokenize(reader io.Reader, opts Options) ([]Record, error) {
	var records []Record
	scanner := hexline.NewScanner(reader)
	for scanner.Scan() {
		record, err := ParseLine(scanner.Line(), scanner.Text(), opts.IgnoreChecksum)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// ParseLine decodes one record line.
func ParseLine(line int, text string, ignoreChecksum bool) (Record, error) {
	if text == "" || text[0] != 'S' {
		return Record{}, fwerror.AtLine(fwerror.InvalidFile, line, "record does not start with 'S'")
	}
	if len(text) < minimumLineLength {
		return Record{}, fwerror.AtLine(fwerror.InvalidFile, line,
			"record is %d characters, shorter than the minimum %d", len(text), minimumLineLength)
	}
	if text[1] < '0' || text[1] > '9' {
		return Record{}, fwerror.AtLine(fwerror.InvalidFile, line, "invalid record type %q", text[1])
	}
	kind := RecordKind(text[1] - '0')
	if kind == KindReserved {
		return Record{}, fwerror.AtLine(fwerror.InvalidFile, line, "reserved record type S4")
	}

	raw, err := hexline.Decode(line, text[2:])
	if err != nil {
		return Record{}, err
	}
	count := int(raw[0])
	if len(raw) != count+1 {
		return Record{}, fwerror.AtLine(fwerror.InvalidFile, line,
			"count field is %d but %d bytes follow it", count, len(raw)-1)
	}
	addressSize := kind.AddressSize()
	if count < addressSize+1 {
		return Record{}, fwerror.AtLine(fwerror.InvalidFile, line,
			"count %d too small for %s with a %d-byte address", count, kind, addressSize)
	}

	var address uint32
	for _, b := range raw[1 : 1+addressSize] {
		address = address<<8 | uint32(b)
	}
	record := Record{
		Line:          line,
		ByteCount:     count,
		Kind:          kind,
		Address:       address,
		Data:          raw[1+addressSize : len(raw)-1],
		ChecksumValid: checksum(raw[:len(raw)-1]) == raw[len(raw)-1],
	}
	if !record.ChecksumValid && !ignoreChecksum {
		return Record{}, fwerror.AtLine(fwerror.InvalidChecksum, line,
			"checksum 0x%02x, expected 0x%02x", raw[len(raw)-1], checksum(raw[:len(raw)-1]))
	}
	return record, nil
}

// checksum is the ones' complement of the 8-bit sum of the count,
// address and data bytes.
func checksum(body []byte) byte {
	return ^hexline.Sum(body)
}
