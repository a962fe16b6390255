// Copyright 2026 The fwupd Authors
// SPDX-License-Identifier: Apache-2.0

// Package msgpack implements the "fwcodec msgpack" command group:
// decoding MessagePack payloads to an item listing or JSON tree,
// encoding JSONC documents to MessagePack, and resolving a key in a
// top-level map.
//
// The commands are thin wrappers over lib/msgpack. Each Run closure
// resolves configuration and input, then hands bytes to a function
// that writes to an io.Writer so tests can drive it with buffers.
package msgpack
