// Copyright 2026 The fwupd Authors
// SPDX-License-Identifier: Apache-2.0

// Package memimage holds a sparse firmware memory image: the bytes that
// records wrote, keyed by absolute address, with the unwritten gaps
// between them tracked rather than assumed to be zero.
//
// Record formats such as Intel HEX and S-record describe an image as a
// sequence of (address, bytes) writes. An Image folds those writes into
// sorted, coalesced segments. By default a later write over an earlier
// one wins; a strict image rejects any overlap instead.
package memimage

import (
	"fmt"
	"sort"

	"github.com/fwupd/fwupd-sub026/lib/fwerror"
)

// MaxAddress is the highest address an Image accepts. Every supported
// record format addresses at most 32 bits.
const MaxAddress = 0xFFFFFFFF

// Segment is one contiguous written range.
type Segment struct {
	Address uint64
	Data    []byte
}

// End returns the address one past the segment's last byte.
func (s Segment) End() uint64 {
	return s.Address + uint64(len(s.Data))
}

// Image is a sparse memory image. The zero value is an empty,
// non-strict image.
type Image struct {
	// segments is sorted by Address. Segments never overlap and never
	// touch: adjacent writes are coalesced.
	segments []Segment
	strict   bool
}

// New returns an empty image. A strict image fails writes that overlap
// bytes already written.
func New(strict bool) *Image {
	return &Image{strict: strict}
}

// Strict reports whether overlapping writes are rejected.
func (m *Image) Strict() bool {
	return m.strict
}

// Write copies data into the image at address. Empty writes are no-ops.
// Writes extending past MaxAddress fail with InvalidData, as do
// overlapping writes on a strict image. A failed write leaves the image
// unchanged.
func (m *Image) Write(address uint64, data []byte) error {
	if len(data) == 0 {
		return nil
	}
	end := address + uint64(len(data))
	if address > MaxAddress || end-1 > MaxAddress || end < address {
		return fwerror.New(fwerror.InvalidData,
			"write of %d bytes at 0x%x exceeds the 32-bit address space", len(data), address)
	}

	// first is the first segment that ends at or after address, which is
	// the first one this write can overlap or touch.
	first := sort.Search(len(m.segments), func(i int) bool {
		return m.segments[i].End() >= address
	})
	last := first
	for last < len(m.segments) && m.segments[last].Address <= end {
		segment := m.segments[last]
		if m.strict && segment.Address < end && segment.End() > address {
			overlap := max(segment.Address, address)
			return fwerror.New(fwerror.InvalidData,
				"write of %d bytes at 0x%x overlaps data already at 0x%x", len(data), address, overlap)
		}
		last++
	}

	if first == last {
		merged := Segment{Address: address, Data: append([]byte(nil), data...)}
		m.segments = append(m.segments, Segment{})
		copy(m.segments[first+1:], m.segments[first:])
		m.segments[first] = merged
		return nil
	}

	start := min(address, m.segments[first].Address)
	stop := max(end, m.segments[last-1].End())
	buffer := make([]byte, stop-start)
	for _, segment := range m.segments[first:last] {
		copy(buffer[segment.Address-start:], segment.Data)
	}
	copy(buffer[address-start:], data)

	m.segments[first] = Segment{Address: start, Data: buffer}
	m.segments = append(m.segments[:first+1], m.segments[last:]...)
	return nil
}

// Segments returns the written ranges in address order. The returned
// slices are copies.
func (m *Image) Segments() []Segment {
	segments := make([]Segment, len(m.segments))
	for index, segment := range m.segments {
		segments[index] = Segment{Address: segment.Address, Data: append([]byte(nil), segment.Data...)}
	}
	return segments
}

// Len returns the number of bytes written.
func (m *Image) Len() int {
	total := 0
	for _, segment := range m.segments {
		total += len(segment.Data)
	}
	return total
}

// Empty reports whether nothing has been written.
func (m *Image) Empty() bool {
	return len(m.segments) == 0
}

// Bounds returns the lowest written address and the address one past
// the highest written byte. Both are zero for an empty image.
func (m *Image) Bounds() (start, end uint64) {
	if len(m.segments) == 0 {
		return 0, 0
	}
	return m.segments[0].Address, m.segments[len(m.segments)-1].End()
}

// Read returns a copy of size bytes starting at address. Every byte in
// the range must have been written; a range touching a gap fails with
// NotFound.
func (m *Image) Read(address uint64, size int) ([]byte, error) {
	if size == 0 {
		return []byte{}, nil
	}
	index := sort.Search(len(m.segments), func(i int) bool {
		return m.segments[i].End() > address
	})
	if index == len(m.segments) || m.segments[index].Address > address ||
		m.segments[index].End() < address+uint64(size) {
		return nil, fwerror.New(fwerror.NotFound,
			"range 0x%x+%d is not fully written", address, size)
	}
	segment := m.segments[index]
	offset := address - segment.Address
	return append([]byte(nil), segment.Data[offset:offset+uint64(size)]...), nil
}

// Flatten returns the image as one contiguous buffer starting at the
// lowest written address, with gaps set to fill. Images spanning more
// than limit bytes fail with NotSupported so a stray record at a far
// address cannot force a multi-gigabyte allocation.
func (m *Image) Flatten(fill byte, limit uint64) (uint64, []byte, error) {
	start, end := m.Bounds()
	if end-start > limit {
		return 0, nil, fwerror.New(fwerror.NotSupported,
			"image spans 0x%x-0x%x (%d bytes), over the %d byte limit", start, end, end-start, limit)
	}
	buffer := make([]byte, end-start)
	if fill != 0 {
		for index := range buffer {
			buffer[index] = fill
		}
	}
	for _, segment := range m.segments {
		copy(buffer[segment.Address-start:], segment.Data)
	}
	return start, buffer, nil
}

// String summarises the written ranges, e.g. "0x0-0x10, 0x8000-0x8004".
func (m *Image) String() string {
	if len(m.segments) == 0 {
		return "empty"
	}
	text := ""
	for index, segment := range m.segments {
		if index > 0 {
			text += ", "
		}
		text += fmt.Sprintf("0x%x-0x%x", segment.Address, segment.End())
	}
	return text
}
