// Copyright 2026 The fwupd Authors
// SPDX-License-Identifier: Apache-2.0

// Package hexline reads the line-oriented ASCII-hex text shared by the
// Intel HEX and S-record firmware formats.
package hexline

import (
	"bufio"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fwupd/fwupd-sub026/lib/fwerror"
)

// MaxLineLength bounds a single input line. The longest valid record
// in either format is a few hundred characters.
const MaxLineLength = 64 * 1024

// sub is the ASCII SUB control character some DOS-era tools append as
// an end-of-file marker.
const sub = "\x1a"

// Scanner yields the non-blank lines of a record file with their
// 1-based line numbers. LF and CRLF endings are both accepted; a line is
// cut at its first CR or SUB character.
type Scanner struct {
	scanner *bufio.Scanner
	line    int
	text    string
}

// NewScanner returns a Scanner reading from reader.
func NewScanner(reader io.Reader) *Scanner {
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 4096), MaxLineLength)
	return &Scanner{scanner: scanner}
}

// Scan advances to the next non-blank line, returning false at the end
// of input or on a read error. Check Err afterwards.
func (s *Scanner) Scan() bool {
	for s.scanner.Scan() {
		s.line++
		text := s.scanner.Text()
		if index := strings.IndexAny(text, "\r"+sub); index >= 0 {
			text = text[:index]
		}
		text = strings.TrimRight(text, " \t")
		if text == "" {
			continue
		}
		s.text = text
		return true
	}
	return false
}

// Line returns the 1-based line number of the current line.
func (s *Scanner) Line() int {
	return s.line
}

// Text returns the current line with its terminator removed.
func (s *Scanner) Text() string {
	return s.text
}

// Err returns the first read error. An over-long line is reported as
// InvalidFile at the line that could not be read.
func (s *Scanner) Err() error {
	err := s.scanner.Err()
	if errors.Is(err, bufio.ErrTooLong) {
		return fwerror.AtLine(fwerror.InvalidFile, s.line+1, "line longer than %d bytes", MaxLineLength)
	}
	if err != nil {
		return fmt.Errorf("reading records: %w", err)
	}
	return nil
}

// Decode decodes a run of hex digit pairs from a record line. Odd
// length or a non-hex character is InvalidFile at line.
func Decode(line int, digits string) ([]byte, error) {
	if len(digits)%2 != 0 {
		return nil, fwerror.AtLine(fwerror.InvalidFile, line, "odd number of hex digits (%d)", len(digits))
	}
	decoded, err := hex.DecodeString(digits)
	if err != nil {
		var invalid hex.InvalidByteError
		if errors.As(err, &invalid) {
			return nil, fwerror.AtLine(fwerror.InvalidFile, line, "invalid hex character %q", byte(invalid))
		}
		return nil, fwerror.AtLine(fwerror.InvalidFile, line, "%v", err)
	}
	return decoded, nil
}

// Sum returns the 8-bit sum of data.
func Sum(data []byte) byte {
	var sum byte
	for _, value := range data {
		sum += value
	}
	return sum
}
