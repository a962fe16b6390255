// Copyright 2026 The fwupd Authors
// SPDX-License-Identifier: Apache-2.0

// Package protobuf implements the "fwcodec protobuf" command group over
// lib/protobuf tapes: listing the fields of a message, reading one
// field by number or dotted path, and building a message from field
// assignments given on the command line.
package protobuf
