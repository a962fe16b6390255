// Copyright 2026 The fwupd Authors
// SPDX-License-Identifier: Apache-2.0

// Fwcodec is the command-line front end for the firmware codec
// libraries. It provides subcommands for Intel HEX and S-record images
// (ihex, srec: records, info, extract, write, convert), MessagePack
// payloads (msgpack: decode, encode, lookup), and schemaless protobuf
// messages (protobuf: dump, get, encode).
package main
