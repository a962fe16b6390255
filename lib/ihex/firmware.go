// Copyright 2026 The fwupd Authors
// SPDX-License-Identifier: Apache-2.0

package ihex

import (
	"errors"
	"io"

	"github.com/fwupd/fwupd-sub026/lib/fwerror"
	"github.com/fwupd/fwupd-sub026/lib/memimage"
)

// Firmware is a parsed Intel HEX file: its records in file order and
// the memory image they describe.
type Firmware struct {
	records []Record

	// Image holds every data record's payload at its absolute address.
	Image *memimage.Image

	// Signature is the concatenated payload of all signature records,
	// or nil when the file carries none.
	Signature []byte

	// StartAddress is the entry point from a start linear (05) record,
	// or CS<<4+IP from a start segment (03) record. HasStartAddress is
	// false when the file has neither.
	StartAddress    uint32
	HasStartAddress bool
}

// Records returns the records in file order.
func (f *Firmware) Records() []Record {
	return f.records
}

// Parse tokenizes reader and assembles the image. The record stream
// must contain exactly one EOF record (InvalidFile otherwise).
func Parse(reader io.Reader, opts Options) (*Firmware, error) {
	records, err := Tokenize(reader, opts)
	if err != nil {
		return nil, err
	}
	return Assemble(records, opts)
}

// Assemble folds tokenized records into a Firmware. Data addresses are
// the record's 16-bit address plus the base from the most recent
// extended linear (04) or extended segment (02) record; the two share
// one base and the later record replaces the earlier. Data may appear
// in any address order. Overlapping data overwrites unless
// opts.Strict, where it is InvalidData at the offending line.
//
// After the EOF record only signature records are collected; a second
// EOF is InvalidFile, as is any data or address record. Record types
// this package does not know are vendor sections there and skipped.
func Assemble(records []Record, opts Options) (*Firmware, error) {
	logger := opts.logger()
	firmware := &Firmware{records: records, Image: memimage.New(opts.Strict)}
	var base uint32
	sawEOF := false

	for _, record := range records {
		if sawEOF {
			switch record.Kind {
			case KindSignature:
				firmware.Signature = append(firmware.Signature, record.Data...)
				continue
			case KindEOF:
				return nil, fwerror.AtLine(fwerror.InvalidFile, record.Line, "duplicate EOF, file may be corrupt")
			case KindData, KindExtendedSegment, KindStartSegment, KindExtendedLinear, KindStartLinear:
				return nil, fwerror.AtLine(fwerror.InvalidFile, record.Line, "%s record after EOF", record.Kind)
			}
			logger.Debug("skipping vendor record after EOF", "line", record.Line, "type", record.Kind)
			continue
		}
		switch record.Kind {
		case KindData:
			address := uint64(base) + uint64(record.Address)
			if err := firmware.Image.Write(address, record.Data); err != nil {
				return nil, atLine(err, record.Line)
			}

		case KindEOF:
			if record.ByteCount != 0 {
				return nil, fwerror.AtLine(fwerror.InvalidFile, record.Line,
					"EOF record carries %d data bytes", record.ByteCount)
			}
			sawEOF = true

		case KindExtendedLinear:
			upper, err := recordUint(record, 2)
			if err != nil {
				return nil, err
			}
			base = upper << 16
			logger.Debug("extended linear address", "line", record.Line, "base", base)

		case KindExtendedSegment:
			segment, err := recordUint(record, 2)
			if err != nil {
				return nil, err
			}
			base = segment << 4
			logger.Debug("extended segment address", "line", record.Line, "base", base)

		case KindStartLinear:
			start, err := recordUint(record, 4)
			if err != nil {
				return nil, err
			}
			firmware.StartAddress, firmware.HasStartAddress = start, true

		case KindStartSegment:
			start, err := recordUint(record, 4)
			if err != nil {
				return nil, err
			}
			codeSegment, instructionPointer := start>>16, start&0xFFFF
			firmware.StartAddress, firmware.HasStartAddress = codeSegment<<4+instructionPointer, true

		case KindSignature:
			firmware.Signature = append(firmware.Signature, record.Data...)

		default:
			return nil, fwerror.AtLine(fwerror.InvalidFile, record.Line,
				"unknown record type 0x%02x", uint8(record.Kind))
		}
	}

	if !sawEOF {
		return nil, fwerror.New(fwerror.InvalidFile, "no EOF record, file may be truncated")
	}
	return firmware, nil
}

// recordUint decodes a big-endian address payload of exactly size
// bytes.
func recordUint(record Record, size int) (uint32, error) {
	if len(record.Data) != size {
		return 0, fwerror.AtLine(fwerror.InvalidFile, record.Line,
			"%s record needs %d data bytes, has %d", record.Kind, size, len(record.Data))
	}
	var value uint32
	for _, b := range record.Data {
		value = value<<8 | uint32(b)
	}
	return value, nil
}

// atLine re-anchors an image error at the record's line.
func atLine(err error, line int) error {
	var codecErr *fwerror.Error
	if errors.As(err, &codecErr) {
		return fwerror.AtLine(codecErr.Kind, line, "%s", codecErr.Message)
	}
	return err
}
