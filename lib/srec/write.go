// Copyright 2026 The fwupd Authors
// SPDX-License-Identifier: Apache-2.0

package srec

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
	// LineWidth is the maximum data bytes per record. The count byte
	// also covers the address and checksum, so the limit is 255 minus
	// the address size minus one.
	LineWidth int

	// AddressBits selects S1/S9 (16), S2/S8 (24) or S3/S7 (32)
	// records. Zero picks the narrowest width covering the image and
	// start address.
	AddressBits int

	// Header is the S0 record text.
	Header string

	// StartAddress goes in the termination record.
	StartAddress uint32
}

// Write renders image followed by each extra region as S-record text:
// an S0 header, data records of at most the line width, an S5 count
// record (S6 when there are more than 65535 data records), and the
// termination record matching the address width. Lines are upper-case
// hex terminated by "\n".
func Write(image memimage.Segment, regions []memimage.Segment, opts WriteOptions) ([]byte, error) {
	return WriteSegments(append([]memimage.Segment{image}, regions...), opts)
}

// WriteImage renders every written range of image, in address order.
func WriteImage(image *memimage.Image, opts WriteOptions) ([]byte, error) {
	return WriteSegments(image.Segments(), opts)
}

// WriteSegments renders segments in the order given.
func WriteSegments(segments []memimage.Segment, opts WriteOptions) ([]byte, error) {
	highest := uint64(opts.StartAddress)
	for _, segment := range segments {
		if len(segment.Data) == 0 {
			continue
		}
		if segment.End() > memimage.MaxAddress+1 {
			return nil, fwerror.New(fwerror.InvalidData,
				"region at 0x%x of %d bytes exceeds the 32-bit address space", segment.Address, len(segment.Data))
		}
		highest = max(highest, segment.End()-1)
	}

	dataKind, terminateKind, err := kindsFor(opts.AddressBits, highest)
	if err != nil {
		return nil, err
	}
	width, err := lineWidth(opts.LineWidth, dataKind)
	if err != nil {
		return nil, err
	}
	if len(opts.Header) > 0xFF-3 {
		return nil, fwerror.New(fwerror.NotSupported, "header of %d bytes does not fit one S0 record", len(opts.Header))
	}

	var builder strings.Builder
	writeRecord(&builder, KindHeader, 0, []byte(opts.Header))

	count := 0
	for _, segment := range segments {
		for offset := 0; offset < len(segment.Data); offset += width {
			end := min(offset+width, len(segment.Data))
			writeRecord(&builder, dataKind, uint32(segment.Address)+uint32(offset), segment.Data[offset:end])
			count++
		}
	}

	switch {
	case count <= 0xFFFF:
		writeRecord(&builder, KindCount16, uint32(count), nil)
	case count <= 0xFFFFFF:
		writeRecord(&builder, KindCount24, uint32(count), nil)
	}
	writeRecord(&builder, terminateKind, opts.StartAddress, nil)
	return []byte(builder.String()), nil
}

func kindsFor(bits int, highest uint64) (RecordKind, RecordKind, error) {
	if bits == 0 {
		switch {
		case highest <= 0xFFFF:
			bits = 16
		case highest <= 0xFFFFFF:
			bits = 24
		default:
			bits = 32
		}
	}
	var data, terminate RecordKind
	switch bits {
	case 16:
		data, terminate = KindData16, KindTerminate16
	case 24:
		data, terminate = KindData24, KindTerminate24
	case 32:
		data, terminate = KindData32, KindTerminate32
	default:
		return 0, 0, fwerror.New(fwerror.NotSupported, "address width %d bits, want 16, 24 or 32", bits)
	}
	if highest >= 1<<bits {
		return 0, 0, fwerror.New(fwerror.NotSupported,
			"address 0x%x does not fit %d-bit S-records", highest, bits)
	}
	return data, terminate, nil
}

func lineWidth(requested int, kind RecordKind) (int, error) {
	limit := 0xFF - kind.AddressSize() - 1
	if requested == 0 {
		return DefaultLineWidth, nil
	}
	if requested < 1 || requested > limit {
		return 0, fwerror.New(fwerror.NotSupported, "line width %d outside 1-%d", requested, limit)
	}
	return requested, nil
}

// FormatRecord renders one record line without its terminator.
func FormatRecord(kind RecordKind, address uint32, data []byte) string {
	var builder strings.Builder
	writeRecordBody(&builder, kind, address, data)
	return builder.String()
}

func writeRecord(builder *strings.Builder, kind RecordKind, address uint32, data []byte) {
	writeRecordBody(builder, kind, address, data)
	builder.WriteByte('\n')
}

func writeRecordBody(builder *strings.Builder, kind RecordKind, address uint32, data []byte) {
	addressSize := kind.AddressSize()
	body := make([]byte, 0, 1+addressSize+len(data))
	body = append(body, byte(addressSize+len(data)+1))
	for shift := (addressSize - 1) * 8; shift >= 0; shift -= 8 {
		body = append(body, byte(address>>shift))
	}
	body = append(body, data...)

	fmt.Fprintf(builder, "S%d", uint8(kind))
	for _, b := range body {
		fmt.Fprintf(builder, "%02X", b)
	}
	fmt.Fprintf(builder, "%02X", checksum(body))
}
