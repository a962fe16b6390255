// Copyright 2026 The fwupd Authors
// SPDX-License-Identifier: Apache-2.0

package protobuf

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/fwupd/fwupd-sub026/cmd/fwcodec/cli"
	libprotobuf "github.com/fwupd/fwupd-sub026/lib/protobuf"
)

type encodeParams struct {
	cli.CommonParams
	HexOutput bool `json:"-" flag:"hex,x" desc:"write hex text instead of raw bytes"`
}

func encodeCommand() *cli.Command {
	var params encodeParams

	return &cli.Command{
		Name:    "encode",
		Summary: "Build a message from field assignments",
		Description: `Append one field per argument, in order, and write the message.

Each argument is <field>=<type>:<value> with type one of:

  varint   unsigned decimal or 0x-prefixed integer
  bool     true or false
  string   UTF-8 text
  bytes    hex digits
  empty    zero-length field; the value is omitted ("4=empty")

Field numbers are 1 to 536870911. Repeated numbers are written as
given.`,
		Usage:  "fwcodec protobuf encode [flags] <field>=<type>:<value>...",
		Params: func() any { return &params },
		Run: func(_ context.Context, args []string, logger *slog.Logger) error {
			if _, err := params.LoadConfig(); err != nil {
				return err
			}
			if len(args) == 0 {
				return fmt.Errorf("protobuf encode: at least one field assignment required")
			}
			tape, err := buildTape(args)
			if err != nil {
				return err
			}
			logger.Debug("built message", "fields", len(args), "bytes", tape.Len())
			return writeTape(tape, os.Stdout, params.HexOutput)
		},
	}
}

// buildTape appends one field per assignment.
func buildTape(assignments []string) (*libprotobuf.Tape, error) {
	tape := libprotobuf.NewTape()
	for _, assignment := range assignments {
		if err := appendAssignment(tape, assignment); err != nil {
			return nil, err
		}
	}
	return tape, nil
}

func appendAssignment(tape *libprotobuf.Tape, assignment string) error {
	fieldText, typed, ok := strings.Cut(assignment, "=")
	if !ok {
		return fmt.Errorf("field assignment %q: want <field>=<type>:<value>", assignment)
	}
	numbers, err := parseFieldPath(fieldText)
	if err != nil {
		return err
	}
	if len(numbers) != 1 {
		return fmt.Errorf("field assignment %q: nested paths are not supported", assignment)
	}
	number := numbers[0]

	valueType, value, _ := strings.Cut(typed, ":")
	switch valueType {
	case "varint":
		integer, err := strconv.ParseUint(value, 0, 64)
		if err != nil {
			return fmt.Errorf("field assignment %q: %w", assignment, err)
		}
		tape.AddVarint(number, integer)
	case "bool":
		boolean, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("field assignment %q: %w", assignment, err)
		}
		tape.AddBoolean(number, boolean)
	case "string":
		tape.AddString(number, value)
	case "bytes":
		payload, err := hex.DecodeString(value)
		if err != nil {
			return fmt.Errorf("field assignment %q: %w", assignment, err)
		}
		tape.AddBytes(number, payload)
	case "empty":
		tape.AddEmpty(number)
	default:
		return fmt.Errorf("field assignment %q: unknown type %q", assignment, valueType)
	}
	return nil
}

func writeTape(tape *libprotobuf.Tape, w io.Writer, hexOutput bool) error {
	if hexOutput {
		_, err := fmt.Fprintln(w, tape.String())
		return err
	}
	_, err := w.Write(tape.Bytes())
	return err
}
