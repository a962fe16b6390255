// Copyright 2026 The fwupd Authors
// SPDX-License-Identifier: Apache-2.0

package ihex

import (
	"fmt"
	"strings"

	"github.com/fwupd/fwupd-sub026/lib/fwerror"
	"github.com/fwupd/fwupd-sub026/lib/memimage"
)

// DefaultLineWidth is the number of data bytes per record written when
// WriteOptions.LineWidth is zero.
const DefaultLineWidth = 16

// WriteOptions controls output.
type WriteOptions struct {
	// LineWidth is the maximum data bytes per record, 1 to 255.
	LineWidth int

	// Signature, when non-empty, is written as signature (0xFD) records
	// after the data and before the EOF record.
	Signature []byte

	// StartAddress, when HasStartAddress is set, is written as a start
	// linear (05) record.
	StartAddress    uint32
	HasStartAddress bool
}

func (o WriteOptions) width() (int, error) {
	if o.LineWidth == 0 {
		return DefaultLineWidth, nil
	}
	if o.LineWidth < 1 || o.LineWidth > 0xFF {
		return 0, fwerror.New(fwerror.NotSupported, "line width %d outside 1-255", o.LineWidth)
	}
	return o.LineWidth, nil
}

// Write renders image followed by each extra region as Intel HEX text.
// Regions are written in the order given, each split into records of at
// most the line width that never cross a 64 KiB boundary. An extended
// linear address (04) record precedes any record whose upper 16 address
// bits differ from the previous record's; the initial upper bits are
// zero. The text ends with an EOF record. Lines are upper-case hex
// terminated by "\n".
func Write(image memimage.Segment, regions []memimage.Segment, opts WriteOptions) ([]byte, error) {
	return WriteSegments(append([]memimage.Segment{image}, regions...), opts)
}

// WriteImage renders every written range of image, in address order.
func WriteImage(image *memimage.Image, opts WriteOptions) ([]byte, error) {
	return WriteSegments(image.Segments(), opts)
}

// WriteSegments renders segments in the order given.
func WriteSegments(segments []memimage.Segment, opts WriteOptions) ([]byte, error) {
	width, err := opts.width()
	if err != nil {
		return nil, err
	}

	var builder strings.Builder
	var upper uint32
	for _, segment := range segments {
		if segment.End() > memimage.MaxAddress+1 {
			return nil, fwerror.New(fwerror.InvalidData,
				"region at 0x%x of %d bytes exceeds the 32-bit address space", segment.Address, len(segment.Data))
		}
		for offset := 0; offset < len(segment.Data); {
			address := uint32(segment.Address) + uint32(offset)
			if address>>16 != upper {
				upper = address >> 16
				writeRecord(&builder, 0, KindExtendedLinear, []byte{byte(upper >> 8), byte(upper)})
			}
			size := min(width, len(segment.Data)-offset, 0x10000-int(address&0xFFFF))
			writeRecord(&builder, uint16(address), KindData, segment.Data[offset:offset+size])
			offset += size
		}
	}

	for offset := 0; offset < len(opts.Signature); offset += width {
		end := min(offset+width, len(opts.Signature))
		writeRecord(&builder, uint16(offset), KindSignature, opts.Signature[offset:end])
	}

	if opts.HasStartAddress {
		start := opts.StartAddress
		writeRecord(&builder, 0, KindStartLinear, []byte{byte(start >> 24), byte(start >> 16), byte(start >> 8), byte(start)})
	}

	writeRecord(&builder, 0, KindEOF, nil)
	return []byte(builder.String()), nil
}

// FormatRecord renders one record line without its terminator.
func FormatRecord(address uint16, kind RecordKind, data []byte) string {
	var builder strings.Builder
	writeRecordBody(&builder, address, kind, data)
	return builder.String()
}

func writeRecord(builder *strings.Builder, address uint16, kind RecordKind, data []byte) {
	writeRecordBody(builder, address, kind, data)
	builder.WriteByte('\n')
}

func writeRecordBody(builder *strings.Builder, address uint16, kind RecordKind, data []byte) {
	body := make([]byte, 0, len(data)+4)
	body = append(body, byte(len(data)), byte(address>>8), byte(address), byte(kind))
	body = append(body, data...)
	builder.WriteByte(startCode)
	for _, b := range body {
		fmt.Fprintf(builder, "%02X", b)
	}
	fmt.Fprintf(builder, "%02X", checksum(body))
}
