// Copyright 2026 The fwupd Authors
// SPDX-License-Identifier: Apache-2.0

package msgpack

// Leading tag bytes. Ranged tags (fixint, fixmap, fixarray, fixstr,
// negative fixint) carry their value or length in the low bits.
const (
	tagPositiveFixintEnd = 0x7f
	tagFixmap            = 0x80
	tagFixmapEnd         = 0x8f
	tagFixarray          = 0x90
	tagFixarrayEnd       = 0x9f
	tagFixstr            = 0xa0
	tagFixstrEnd         = 0xbf
	tagNil               = 0xc0
	tagNeverUsed         = 0xc1
	tagFalse             = 0xc2
	tagTrue              = 0xc3
	tagBin8              = 0xc4
	tagBin16             = 0xc5
	tagBin32             = 0xc6
	tagExt8              = 0xc7
	tagExt16             = 0xc8
	tagExt32             = 0xc9
	tagFloat32           = 0xca
	tagFloat64           = 0xcb
	tagUint8             = 0xcc
	tagUint16            = 0xcd
	tagUint32            = 0xce
	tagUint64            = 0xcf
	tagInt8              = 0xd0
	tagInt16             = 0xd1
	tagInt32             = 0xd2
	tagInt64             = 0xd3
	tagFixext1           = 0xd4
	tagFixext16          = 0xd8
	tagStr8              = 0xd9
	tagStr16             = 0xda
	tagStr32             = 0xdb
	tagArray16           = 0xdc
	tagArray32           = 0xdd
	tagMap16             = 0xde
	tagMap32             = 0xdf
	tagNegativeFixint    = 0xe0
)

const (
	fixstrMaxLen   = 31
	fixheaderMax   = 15
	negativeFixMin = -32
)
