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

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/fwupd/fwupd-sub026/cmd/fwcodec/cli"
	libprotobuf "github.com/fwupd/fwupd-sub026/lib/protobuf"
)

// Value types accepted by --type.
const (
	typeUint64  = "uint64"
	typeBoolean = "bool"
	typeString  = "string"
	typeBytes   = "bytes"
	typeMessage = "message"
)

type getParams struct {
	cli.CommonParams
	cli.PayloadParams
	cli.OutputParams
	Type string `json:"-" flag:"type,t" desc:"field type: uint64, bool, string, bytes or message" default:"uint64"`
}

func getCommand() *cli.Command {
	var params getParams

	return &cli.Command{
		Name:    "get",
		Summary: "Read one field of a message",
		Description: `Print the first field with the given number, read as --type.

The field may be a dotted path: every component but the last names a
length-delimited field holding a sub-message. With --type message the
selected sub-message is listed like "dump".

Exits with an error when the field is absent or its wire type does not
match the requested type.`,
		Usage:  "fwcodec protobuf get [flags] <field> [file]",
		Params: func() any { return &params },
		Examples: []cli.Example{
			{
				Description: "Read a version number",
				Command:     "fwcodec protobuf get 2 reply.bin",
			},
			{
				Description: "Read raw bytes from a nested message",
				Command:     "fwcodec protobuf get -t bytes 4.2 reply.bin",
			},
		},
		Run: func(_ context.Context, args []string, logger *slog.Logger) error {
			data, args, err := params.ReadInput(args)
			if err != nil {
				return err
			}
			if len(args) == 0 {
				return fmt.Errorf("protobuf get: field argument required")
			}
			if err := cli.NoArgs("protobuf get", args[1:]); err != nil {
				return err
			}
			logger.Debug("reading field", "path", args[0], "type", params.Type)
			return getField(libprotobuf.NewTapeFromBytes(data), args[0], params.Type, os.Stdout, params.OutputParams)
		},
	}
}

// parseFieldPath parses "3" or "3.1.2" into field numbers.
func parseFieldPath(path string) ([]protowire.Number, error) {
	var numbers []protowire.Number
	for component := range strings.SplitSeq(path, ".") {
		value, err := strconv.ParseInt(component, 10, 32)
		if err != nil || !protowire.Number(value).IsValid() {
			return nil, fmt.Errorf("invalid field number %q in %q", component, path)
		}
		numbers = append(numbers, protowire.Number(value))
	}
	return numbers, nil
}

// fieldResult is the structured form of a get.
type fieldResult struct {
	Field string `json:"field"`
	Type  string `json:"type"`
	Value any    `json:"value"`
}

func getField(tape *libprotobuf.Tape, path, valueType string, w io.Writer, output cli.OutputParams) error {
	numbers, err := parseFieldPath(path)
	if err != nil {
		return err
	}
	for _, number := range numbers[:len(numbers)-1] {
		tape, err = tape.GetEmbedded(number)
		if err != nil {
			return err
		}
	}
	number := numbers[len(numbers)-1]

	var value any
	var text string
	switch valueType {
	case typeUint64:
		integer, err := tape.GetUint64(number)
		if err != nil {
			return err
		}
		value, text = integer, strconv.FormatUint(integer, 10)
	case typeBoolean:
		boolean, err := tape.GetBoolean(number)
		if err != nil {
			return err
		}
		value, text = boolean, strconv.FormatBool(boolean)
	case typeString:
		str, err := tape.GetString(number)
		if err != nil {
			return err
		}
		value, text = str, str
	case typeBytes:
		payload, err := tape.GetBytes(number)
		if err != nil {
			return err
		}
		text = hex.EncodeToString(payload)
		value = text
	case typeMessage:
		embedded, err := tape.GetEmbedded(number)
		if err != nil {
			return err
		}
		return dumpMessage(embedded, w, output)
	default:
		return fmt.Errorf("unknown field type %q (want uint64, bool, string, bytes or message)", valueType)
	}

	result := fieldResult{Field: path, Type: valueType, Value: value}
	return output.Emit(w, result, func(w io.Writer) error {
		_, err := fmt.Fprintln(w, text)
		return err
	})
}
