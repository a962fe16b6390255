// Copyright 2026 The fwupd Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers for the codec packages
// and the fwcodec CLI.
//
// [Hex] decodes whitespace-separated hex fixtures so golden byte
// strings can be laid out one field per line. [WriteFile] places a
// fixture in a per-test temporary directory. [RequireKind] asserts
// that an error is an *fwerror.Error of a given kind, printing the
// error on mismatch.
//
// All helpers call t.Fatalf on failure rather than returning errors,
// since test setup failures are not recoverable.
package testutil
