// Copyright 2026 The fwupd Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli provides the command-line framework for fwcodec.
//
// The central type is [Command], which represents a named subcommand with
// optional nested [Command.Subcommands], a params factory whose tagged
// fields become flags, and a Run function. Commands are assembled into a
// tree in cmd/fwcodec/commands and dispatched via [Command.Execute],
// which handles flag parsing, subcommand routing, and structured help
// output with examples.
//
// When a user types an unknown subcommand or flag, the framework computes
// Levenshtein edit distance against all known names and suggests the
// closest match (threshold: distance <= 3).
//
// Parameter structs compose shared flag sets by embedding:
//
//   - [CommonParams]: --config and --verbose.
//   - [InputParams]: --hex and --no-decompress, with [InputParams.ReadInput]
//     resolving a trailing file argument or stdin. Used for record text.
//   - [PayloadParams]: --hex and --decompress for binary payloads, where
//     compression is never guessed from the leading bytes.
//   - [OutputParams]: --output text|json|cbor, with [OutputParams.Emit].
//
// [Table] renders text listings with a styled header on terminals.
package cli
