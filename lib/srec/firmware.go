// Copyright 2026 The fwupd Authors
// SPDX-License-Identifier: Apache-2.0

package srec

import (
	"errors"
	"io"

	"github.com/fwupd/fwupd-sub026/lib/fwerror"
	"github.com/fwupd/fwupd-sub026/lib/memimage"
)

// Firmware is a parsed S-record file.
type Firmware struct {
	records []Record

	// Image holds every data record's payload at its address.
	Image *memimage.Image

	// Header is the payload of the S0 record, typically a module name.
	Header []byte

	// StartAddress is the entry point from the termination record.
	StartAddress uint32

	// DataRecords is the number of S1, S2 and S3 records.
	DataRecords int
}

// Records returns the records in file order, ending with the
// termination record.
func (f *Firmware) Records() []Record {
	return f.records
}

// Parse tokenizes reader and assembles the image. The stream must end
// with a termination record (InvalidFile otherwise).
func Parse(reader io.Reader, opts Options) (*Firmware, error) {
	records, err := Tokenize(reader, opts)
	if err != nil {
		return nil, err
	}
	return Assemble(records, opts)
}

// Assemble folds tokenized records into a Firmware. Data records are
// written at their address in file order. Overlapping data overwrites
// unless opts.Strict, where it is InvalidData at the offending line.
//
// The record type digit is outside the checksum, so the records must
// also agree with each other (InvalidFile at the offending line):
//   - the S0 header, if any, is the first record;
//   - every data record carries data and has the width of the final
//     termination record (S1 with S9, S2 with S8, S3 with S7);
//   - count records (S5, S6) carry no data and equal the number of
//     data records before them;
//   - the termination record carries no data and is the last record.
func Assemble(records []Record, opts Options) (*Firmware, error) {
	logger := opts.logger()
	firmware := &Firmware{records: records, Image: memimage.New(opts.Strict)}

	var dataKind RecordKind
	if len(records) > 0 && records[len(records)-1].Kind.IsTermination() {
		dataKind = records[len(records)-1].Kind.DataKind()
	}

	for index, record := range records {
		switch {
		case record.Kind == KindHeader:
			if index != 0 {
				return nil, fwerror.AtLine(fwerror.InvalidFile, record.Line, "S0 header is not the first record")
			}
			firmware.Header = append([]byte{}, record.Data...)
			logger.Debug("header", "line", record.Line, "text", string(record.Data))

		case record.Kind.IsData():
			if len(record.Data) == 0 {
				return nil, fwerror.AtLine(fwerror.InvalidFile, record.Line, "%s record carries no data", record.Kind)
			}
			if dataKind != 0 && record.Kind != dataKind {
				return nil, fwerror.AtLine(fwerror.InvalidFile, record.Line,
					"%s record in a file of S%d data records", record.Kind, uint8(dataKind))
			}
			if err := firmware.Image.Write(uint64(record.Address), record.Data); err != nil {
				return nil, atLine(err, record.Line)
			}
			firmware.DataRecords++

		case record.Kind == KindCount16 || record.Kind == KindCount24:
			if len(record.Data) != 0 {
				return nil, fwerror.AtLine(fwerror.InvalidFile, record.Line,
					"%s record carries %d data bytes", record.Kind, len(record.Data))
			}
			if int(record.Address) != firmware.DataRecords {
				return nil, fwerror.AtLine(fwerror.InvalidFile, record.Line,
					"record count %d does not match %d data records", record.Address, firmware.DataRecords)
			}

		case record.Kind.IsTermination():
			if len(record.Data) != 0 {
				return nil, fwerror.AtLine(fwerror.InvalidFile, record.Line,
					"%s record carries %d data bytes", record.Kind, len(record.Data))
			}
			if index != len(records)-1 {
				return nil, fwerror.AtLine(fwerror.InvalidFile, record.Line,
					"%s record is followed by line %d", record.Kind, records[index+1].Line)
			}
			firmware.StartAddress = record.Address
			logger.Debug("termination", "line", record.Line, "start", record.Address)

		default:
			return nil, fwerror.AtLine(fwerror.InvalidFile, record.Line, "unexpected %s record", record.Kind)
		}
	}

	if dataKind == 0 {
		return nil, fwerror.New(fwerror.InvalidFile, "no termination record, file may be truncated")
	}
	return firmware, nil
}

// atLine re-anchors an image error at the record's line.
func atLine(err error, line int) error {
	var codecErr *fwerror.Error
	if errors.As(err, &codecErr) {
		return fwerror.AtLine(codecErr.Kind, line, "%s", codecErr.Message)
	}
	return err
}
