// Copyright 2026 The fwupd Authors
// SPDX-License-Identifier: Apache-2.0

package ihex

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/fwupd/fwupd-sub026/lib/fwerror"
	"github.com/fwupd/fwupd-sub026/lib/hexline"
)

// RecordKind is the record type byte of an Intel HEX line.
type RecordKind uint8

const (
	KindData            RecordKind = 0x00
	KindEOF             RecordKind = 0x01
	KindExtendedSegment RecordKind = 0x02
	KindStartSegment    RecordKind = 0x03
	KindExtendedLinear  RecordKind = 0x04
	KindStartLinear     RecordKind = 0x05
	KindSignature       RecordKind = 0xFD
)

const (
	startCode         = ':'
	minimumLineLength = 11
	recordOverhead    = 5 // count, address (2), type, checksum
)

// String returns the conventional name of the record kind.
func (kind RecordKind) String() string {
	switch kind {
	case KindData:
		return "data"
	case KindEOF:
		return "eof"
	case KindExtendedSegment:
		return "extended-segment"
	case KindStartSegment:
		return "start-segment"
	case KindExtendedLinear:
		return "extended-linear"
	case KindStartLinear:
		return "start-linear"
	case KindSignature:
		return "signature"
	}
	return fmt.Sprintf("unknown(0x%02x)", uint8(kind))
}

// Record is one decoded line.
type Record struct {
	// Line is the 1-based line number in the source text.
	Line int

	// ByteCount is the declared payload length; it always equals
	// len(Data).
	ByteCount int

	Kind RecordKind

	// Address is the 16-bit address field as written on the line,
	// before any extended address is applied.
	Address uint16

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

	// AllowComments skips lines starting with ';'. Without it such a
	// line fails like any other line missing the ':' start code.
	AllowComments bool

	// Logger receives a debug trace of address changes. Nil is silent.
	Logger *slog.Logger
}

func (o Options) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return o.Logger
}

// Tokenize reads every record from reader, including any after the EOF
// record; Assemble decides what may follow it. Blank lines are skipped,
// as are lines starting with ';' when opts.AllowComments is set.
//
// Every line must start with ':' (InvalidFile), hold at least 11
// characters (InvalidFile), declare a byte count matching its length
// (InvalidFile), and carry a checksum making the sum of all its bytes
// zero (InvalidChecksum, unless IgnoreChecksum). All errors carry the
// line number.
func Tokenize(reader io.Reader, opts Options) ([]Record, error) {
	var records []Record
	scanner := hexline.NewScanner(reader)
	for scanner.Scan() {
		text := scanner.Text()
		if opts.AllowComments && strings.HasPrefix(text, ";") {
			continue
		}
		record, err := ParseLine(scanner.Line(), text, opts.IgnoreChecksum)
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

// ParseLine decodes one record line. line is used for error context
// and stored in the record.
func ParseLine(line int, text string, ignoreChecksum bool) (Record, error) {
	if text == "" || text[0] != startCode {
		return Record{}, fwerror.AtLine(fwerror.InvalidFile, line, "record does not start with ':'")
	}
	if len(text) < minimumLineLength {
		return Record{}, fwerror.AtLine(fwerror.InvalidFile, line,
			"record is %d characters, shorter than the minimum %d", len(text), minimumLineLength)
	}
	raw, err := hexline.Decode(line, text[1:])
	if err != nil {
		return Record{}, err
	}

	count := int(raw[0])
	if len(raw) != count+recordOverhead {
		return Record{}, fwerror.AtLine(fwerror.InvalidFile, line,
			"record declares %d data bytes but holds %d", count, len(raw)-recordOverhead)
	}

	record := Record{
		Line:          line,
		ByteCount:     count,
		Address:       uint16(raw[1])<<8 | uint16(raw[2]),
		Kind:          RecordKind(raw[3]),
		Data:          raw[4 : 4+count],
		ChecksumValid: hexline.Sum(raw) == 0,
	}
	if !record.ChecksumValid && !ignoreChecksum {
		expected := checksum(raw[:len(raw)-1])
		return Record{}, fwerror.AtLine(fwerror.InvalidChecksum, line,
			"checksum 0x%02x, expected 0x%02x", raw[len(raw)-1], expected)
	}
	return record, nil
}

// checksum is the two's complement of the 8-bit sum of the record's
// count, address, type and data bytes.
func checksum(body []byte) byte {
	return -hexline.Sum(body)
}
