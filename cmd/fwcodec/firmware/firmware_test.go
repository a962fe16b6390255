// Copyright 2026 The fwupd Authors
// SPDX-License-Identifier: Apache-2.0

package firmware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fwupd/fwupd-sub026/cmd/fwcodec/cli"
	"github.com/fwupd/fwupd-sub026/lib/blob"
	"github.com/fwupd/fwupd-sub026/lib/config"
	"github.com/fwupd/fwupd-sub026/lib/fwerror"
	"github.com/fwupd/fwupd-sub026/lib/testutil"
)

// ihexFixture and srecFixture describe the same image: "ABCD" at
// 0x100, "EF" at 0x110, entry point 0x100.
const ihexFixture = ":0401000041424344F1\n" +
	":02011000454662\n" +
	":020000FDDEAD76\n" +
	":0400000500000100F6\n" +
	":00000001FF\n"

const srecFixture = "S006000041505018\n" +
	"S107010041424344ED\n" +
	"S105011045465E\n" +
	"S5030002FA\n" +
	"S9030100FB\n"

func quietLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestListRecords(t *testing.T) {
	var buffer bytes.Buffer
	bad, err := listRecords(&ihexFormat, []byte(ihexFixture), parseOptions{Logger: quietLogger()}, &buffer, cli.OutputParams{})
	if err != nil {
		t.Fatalf("listRecords: %v", err)
	}
	if bad != 0 {
		t.Errorf("bad = %d, want 0", bad)
	}
	want := "" +
		"LINE  TYPE          ADDRESS  LENGTH  CHECKSUM  DATA\n" +
		"1     data          0x0100   4       ok        41424344\n" +
		"2     data          0x0110   2       ok        4546\n" +
		"3     signature     0x0000   2       ok        dead\n" +
		"4     start-linear  0x0000   4       ok        00000100\n" +
		"5     eof           0x0000   0       ok\n"
	if buffer.String() != want {
		t.Errorf("listing:\n%s\nwant:\n%s", buffer.String(), want)
	}
}

func TestListRecordsBadChecksum(t *testing.T) {
	corrupt := strings.Replace(ihexFixture, ":02011000454662", ":02011000454663", 1)

	_, err := listRecords(&ihexFormat, []byte(corrupt), parseOptions{Logger: quietLogger()}, &bytes.Buffer{}, cli.OutputParams{})
	testutil.RequireKind(t, err, fwerror.InvalidChecksum)

	var buffer bytes.Buffer
	bad, err := listRecords(&ihexFormat, []byte(corrupt), parseOptions{IgnoreChecksum: true, Logger: quietLogger()}, &buffer, cli.OutputParams{Output: cli.FormatJSON})
	if err != nil {
		t.Fatalf("listRecords: %v", err)
	}
	if bad != 1 {
		t.Errorf("bad = %d, want 1", bad)
	}
	var rows []recordRow
	if err := json.Unmarshal(buffer.Bytes(), &rows); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if len(rows) != 5 || rows[1].ChecksumValid || !rows[0].ChecksumValid {
		t.Errorf("rows = %+v", rows)
	}
}

func TestListRecordsSRec(t *testing.T) {
	var buffer bytes.Buffer
	_, err := listRecords(&srecFormat, []byte(srecFixture), parseOptions{Logger: quietLogger()}, &buffer, cli.OutputParams{})
	if err != nil {
		t.Fatalf("listRecords: %v", err)
	}
	for _, want := range []string{"S0 header", "S1 data", "S5 count", "S9 termination", "415050"} {
		if !strings.Contains(buffer.String(), want) {
			t.Errorf("listing missing %q:\n%s", want, buffer.String())
		}
	}
}

func TestPreviewData(t *testing.T) {
	short := strings.Repeat("ab", dataPreview)
	if got := previewData(short); got != short {
		t.Errorf("previewData(%d bytes) = %q", dataPreview, got)
	}
	long := strings.Repeat("ab", dataPreview+1)
	if got := previewData(long); got != short+"..." {
		t.Errorf("previewData(%d bytes) = %q", dataPreview+1, got)
	}
}

func TestDescribeFile(t *testing.T) {
	var buffer bytes.Buffer
	err := describeFile(&ihexFormat, []byte(ihexFixture), parseOptions{}, &buffer, cli.OutputParams{})
	if err != nil {
		t.Fatalf("describeFile: %v", err)
	}
	for _, want := range []string{
		"format:       Intel HEX\n",
		"records:      5\n",
		"data bytes:   6\n",
		"bounds:       0x00000100-0x00000112\n",
		"segments:     2\n",
		"  0x00000100-0x00000104  4 bytes\n",
		"  0x00000110-0x00000112  2 bytes\n",
		"start:        0x00000100\n",
		"signature:    dead\n",
		"image sha256: ",
	} {
		if !strings.Contains(buffer.String(), want) {
			t.Errorf("info missing %q:\n%s", want, buffer.String())
		}
	}
}

func TestDescribeFileJSON(t *testing.T) {
	var buffer bytes.Buffer
	err := describeFile(&srecFormat, []byte(srecFixture), parseOptions{}, &buffer, cli.OutputParams{Output: cli.FormatJSON})
	if err != nil {
		t.Fatalf("describeFile: %v", err)
	}
	var report infoReport
	if err := json.Unmarshal(buffer.Bytes(), &report); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if report.Format != "srec" || report.Records != 5 || report.DataBytes != 6 {
		t.Errorf("report = %+v", report)
	}
	if report.Metadata != `"APP"` {
		t.Errorf("metadata = %q, want quoted header", report.Metadata)
	}
	if report.StartAddress == nil || *report.StartAddress != 0x100 {
		t.Errorf("start address = %v", report.StartAddress)
	}
	if len(report.Segments) != 2 || report.Segments[1].Address != 0x110 || report.Segments[1].End != 0x112 {
		t.Errorf("segments = %+v", report.Segments)
	}
}

func TestImageDigestsIgnoreRecordFormat(t *testing.T) {
	ihexDoc, err := ihexFormat.parse(strings.NewReader(ihexFixture), parseOptions{})
	if err != nil {
		t.Fatalf("parse ihex: %v", err)
	}
	srecDoc, err := srecFormat.parse(strings.NewReader(srecFixture), parseOptions{})
	if err != nil {
		t.Fatalf("parse srec: %v", err)
	}

	ihexReport := describe(&ihexFormat, ihexDoc, []byte(ihexFixture))
	srecReport := describe(&srecFormat, srecDoc, []byte(srecFixture))
	if ihexReport.Image != srecReport.Image {
		t.Errorf("image digests differ: %+v vs %+v", ihexReport.Image, srecReport.Image)
	}
	if ihexReport.File == srecReport.File {
		t.Error("file digests of different inputs are equal")
	}
}

func TestDescribeFileStrictOverlap(t *testing.T) {
	overlapping := ":0401000041424344F1\n:0401000041424344F1\n:00000001FF\n"
	err := describeFile(&ihexFormat, []byte(overlapping), parseOptions{Strict: true}, &bytes.Buffer{}, cli.OutputParams{})
	testutil.RequireKind(t, err, fwerror.InvalidData)

	if err := describeFile(&ihexFormat, []byte(overlapping), parseOptions{}, &bytes.Buffer{}, cli.OutputParams{}); err != nil {
		t.Errorf("non-strict describeFile: %v", err)
	}
}

func TestExtractImage(t *testing.T) {
	cfg := config.Default()

	flat, err := extractImage(&ihexFormat, []byte(ihexFixture), extractParams{Fill: -1}, cfg, quietLogger())
	if err != nil {
		t.Fatalf("extractImage: %v", err)
	}
	want := append([]byte("ABCD"), bytes.Repeat([]byte{0xFF}, 12)...)
	want = append(want, "EF"...)
	if !bytes.Equal(flat, want) {
		t.Errorf("flat = %x, want %x", flat, want)
	}

	flat, err = extractImage(&srecFormat, []byte(srecFixture), extractParams{Fill: 0}, cfg, quietLogger())
	if err != nil {
		t.Fatalf("extractImage: %v", err)
	}
	if flat[4] != 0 || len(flat) != 18 {
		t.Errorf("flat = %x, want zero-filled 18 bytes", flat)
	}
}

func TestExtractImageLimits(t *testing.T) {
	cfg := config.Default()

	_, err := extractImage(&ihexFormat, []byte(ihexFixture), extractParams{Fill: -1, MaxSize: 16}, cfg, quietLogger())
	testutil.RequireKind(t, err, fwerror.NotSupported)

	cfg.Image.MaxFlatten = 8
	_, err = extractImage(&ihexFormat, []byte(ihexFixture), extractParams{Fill: -1}, cfg, quietLogger())
	testutil.RequireKind(t, err, fwerror.NotSupported)

	_, err = extractImage(&ihexFormat, []byte(ihexFixture), extractParams{Fill: 256}, config.Default(), quietLogger())
	if err == nil || !strings.Contains(err.Error(), "not a byte value") {
		t.Errorf("fill 256 error = %v", err)
	}
}

func TestWriteIHex(t *testing.T) {
	params := ihexWriteParams{WriteParams: WriteParams{Address: 0x10000, LineWidth: 2, Start: "0x10000"}}
	text, err := writeIHex([]byte("ABC"), params, config.Default())
	if err != nil {
		t.Fatalf("writeIHex: %v", err)
	}
	want := ":020000040001F9\n" +
		":0200000041427B\n" +
		":0100020043BA\n" +
		":0400000500010000F6\n" +
		":00000001FF\n"
	if string(text) != want {
		t.Errorf("writeIHex:\n%s\nwant:\n%s", text, want)
	}
}

func TestWriteIHexSignatureRoundTrip(t *testing.T) {
	params := ihexWriteParams{
		WriteParams: WriteParams{Address: 0x100},
		Signature:   "dead",
	}
	text, err := writeIHex([]byte("ABCD"), params, config.Default())
	if err != nil {
		t.Fatalf("writeIHex: %v", err)
	}
	doc, err := ihexFormat.parse(bytes.NewReader(text), parseOptions{})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !bytes.Equal(doc.Metadata, []byte{0xDE, 0xAD}) || doc.HasStartAddress {
		t.Errorf("doc = %+v", doc)
	}
}

func TestWriteIHexErrors(t *testing.T) {
	_, err := writeIHex([]byte("A"), ihexWriteParams{Signature: "xyz"}, config.Default())
	if err == nil || !strings.Contains(err.Error(), "--signature") {
		t.Errorf("bad signature error = %v", err)
	}
	_, err = writeIHex([]byte("A"), ihexWriteParams{WriteParams: WriteParams{Start: "0x100000000"}}, config.Default())
	if err == nil || !strings.Contains(err.Error(), "--start") {
		t.Errorf("bad start error = %v", err)
	}
	_, err = writeIHex([]byte("AB"), ihexWriteParams{WriteParams: WriteParams{Address: 0xFFFFFFFF}}, config.Default())
	testutil.RequireKind(t, err, fwerror.InvalidData)
}

func TestWriteSRec(t *testing.T) {
	params := srecWriteParams{WriteParams: WriteParams{Address: 0x10000}}
	text, err := writeSRec([]byte("ABC"), params, config.Default())
	if err != nil {
		t.Fatalf("writeSRec: %v", err)
	}
	want := "S0030000FC\n" +
		"S20701000041424331\n" +
		"S5030001FB\n" +
		"S804000000FB\n"
	if string(text) != want {
		t.Errorf("writeSRec:\n%s\nwant:\n%s", text, want)
	}
}

func TestWriteSRecHeaderAndWidth(t *testing.T) {
	cfg := config.Default()
	cfg.SRec.Header = "APP"

	text, err := writeSRec([]byte("ABCD"), srecWriteParams{WriteParams: WriteParams{Address: 0x100}}, cfg)
	if err != nil {
		t.Fatalf("writeSRec: %v", err)
	}
	if !strings.HasPrefix(string(text), "S006000041505018\nS107010041424344ED\n") {
		t.Errorf("configured header not used:\n%s", text)
	}

	params := srecWriteParams{
		WriteParams: WriteParams{Address: 0x100},
		AddressBits: 32,
		Header:      "X",
	}
	text, err = writeSRec([]byte("ABCD"), params, cfg)
	if err != nil {
		t.Fatalf("writeSRec: %v", err)
	}
	doc, err := srecFormat.parse(bytes.NewReader(text), parseOptions{})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if string(doc.Metadata) != "X" {
		t.Errorf("header = %q, want X", doc.Metadata)
	}
	if !strings.Contains(string(text), "\nS3") || !strings.Contains(string(text), "\nS7") {
		t.Errorf("--address-bits 32 not honoured:\n%s", text)
	}

	params.AddressBits = 12
	_, err = writeSRec([]byte("ABCD"), params, cfg)
	testutil.RequireKind(t, err, fwerror.NotSupported)
}

func TestConvertFile(t *testing.T) {
	cfg := config.Default()

	text, err := convertFile(&ihexFormat, &srecFormat, []byte(ihexFixture), false, cfg, quietLogger())
	if err != nil {
		t.Fatalf("convert ihex to srec: %v", err)
	}
	want := "S0030000FC\n" +
		"S107010041424344ED\n" +
		"S105011045465E\n" +
		"S5030002FA\n" +
		"S9030100FB\n"
	if string(text) != want {
		t.Errorf("ihex to srec:\n%s\nwant:\n%s", text, want)
	}

	text, err = convertFile(&srecFormat, &ihexFormat, []byte(srecFixture), false, cfg, quietLogger())
	if err != nil {
		t.Fatalf("convert srec to ihex: %v", err)
	}
	want = ":0401000041424344F1\n" +
		":02011000454662\n" +
		":0400000500000100F6\n" +
		":00000001FF\n"
	if string(text) != want {
		t.Errorf("srec to ihex:\n%s\nwant:\n%s", text, want)
	}
}

func TestConvertFileSameFormatKeepsMetadata(t *testing.T) {
	text, err := convertFile(&ihexFormat, &ihexFormat, []byte(ihexFixture), false, config.Default(), quietLogger())
	if err != nil {
		t.Fatalf("convertFile: %v", err)
	}
	if string(text) != ihexFixture {
		t.Errorf("ihex to ihex:\n%s\nwant:\n%s", text, ihexFixture)
	}

	text, err = convertFile(&srecFormat, &srecFormat, []byte(srecFixture), false, config.Default(), quietLogger())
	if err != nil {
		t.Fatalf("convertFile: %v", err)
	}
	if string(text) != srecFixture {
		t.Errorf("srec to srec:\n%s\nwant:\n%s", text, srecFixture)
	}
}

func TestFormatByName(t *testing.T) {
	for _, name := range []string{"ihex", "srec"} {
		f, err := formatByName(name)
		if err != nil || f.name != name {
			t.Errorf("formatByName(%q) = %v, %v", name, f, err)
		}
	}
	if _, err := formatByName("bin"); err == nil {
		t.Error("formatByName accepted bin")
	}
}

func TestWriteOutput(t *testing.T) {
	cfg := config.Default()
	payload := []byte(ihexFixture)

	var stdout bytes.Buffer
	if err := writeOutput(payload, FileParams{}, cfg, &stdout, quietLogger()); err != nil {
		t.Fatalf("writeOutput: %v", err)
	}
	if !bytes.Equal(stdout.Bytes(), payload) {
		t.Errorf("stdout = %q", stdout.String())
	}

	path := filepath.Join(t.TempDir(), "image.hex.zst")
	if err := writeOutput(payload, FileParams{Out: path, Compress: "zstd"}, cfg, &stdout, quietLogger()); err != nil {
		t.Fatalf("writeOutput: %v", err)
	}
	written, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if blob.Detect(written) != blob.CompressionZstd {
		t.Fatalf("output is not zstd: %x", written[:min(8, len(written))])
	}
	unpacked, _, err := blob.Decompress(written, blob.DefaultMaxSize)
	if err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	if !bytes.Equal(unpacked, payload) {
		t.Errorf("round trip = %q", unpacked)
	}

	cfg.Output.Compress = "lz4"
	stdout.Reset()
	if err := writeOutput(payload, FileParams{Out: "-"}, cfg, &stdout, quietLogger()); err != nil {
		t.Fatalf("writeOutput: %v", err)
	}
	if blob.Detect(stdout.Bytes()) != blob.CompressionLZ4 {
		t.Error("configured lz4 compression not applied")
	}

	err = writeOutput(payload, FileParams{Compress: "gzip"}, cfg, &stdout, quietLogger())
	if err == nil || !strings.Contains(err.Error(), `unknown compression "gzip"`) {
		t.Errorf("gzip error = %v", err)
	}
}

func TestParseCommentsFromConfig(t *testing.T) {
	commented := "; built by a vendor tool\n" + ihexFixture

	cfg := config.Default()
	if _, err := ihexFormat.parse(strings.NewReader(commented), newParseOptions(cfg, quietLogger())); !fwerror.Is(err, fwerror.InvalidFile) {
		t.Errorf("parse with comments disabled err = %v, want InvalidFile", err)
	}

	cfg.IHex.Comments = true
	doc, err := ihexFormat.parse(strings.NewReader(commented), newParseOptions(cfg, quietLogger()))
	if err != nil {
		t.Fatalf("parse with comments enabled: %v", err)
	}
	if doc.Image.Len() != 6 {
		t.Errorf("image holds %d bytes, want 6", doc.Image.Len())
	}
}
