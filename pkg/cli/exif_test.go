package cli

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
	"image/png"
	"os"
	"strings"
	"testing"
)

func writeTempFile(t *testing.T, pattern string, data []byte) string {
	t.Helper()
	f, err := os.CreateTemp(t.TempDir(), pattern)
	if err != nil {
		t.Fatalf("CreateTemp failed: %v", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		t.Fatalf("write temp file failed: %v", err)
	}
	f.Close()
	return f.Name()
}

func TestExtractEXIFFields(t *testing.T) {
	b, err := buildJPEGWithEXIF(6)
	if err != nil {
		t.Fatalf("buildJPEGWithEXIF failed: %v", err)
	}
	path := writeTempFile(t, "exif-fixture-*.jpg", b)

	ex, err := ExtractEXIF(path)
	if err != nil {
		t.Fatalf("ExtractEXIF failed: %v", err)
	}

	if ex.Make != "GoCam" {
		t.Fatalf("expected Make GoCam, got %q", ex.Make)
	}
	if ex.Model != "GoCam 2000" {
		t.Fatalf("expected Model, got %q", ex.Model)
	}
	if ex.Software != "gdfx-test" {
		t.Fatalf("expected Software, got %q", ex.Software)
	}
	if ex.Orientation != 6 {
		t.Fatalf("expected Orientation 6, got %d", ex.Orientation)
	}
	if ex.DateTime != "2021:05:06 07:08:09" {
		t.Fatalf("expected DateTime, got %q", ex.DateTime)
	}
	if ex.DateTimeOriginal != "2020:01:02 03:04:05" {
		t.Fatalf("expected DateTimeOriginal, got %q", ex.DateTimeOriginal)
	}
	if len(ex.Raw) == 0 {
		t.Fatalf("expected raw tags to be captured")
	}

	out := FormatEXIF(ex)
	for _, want := range []string{"GoCam", "gdfx-test", "Orient", "2020:01:02"} {
		if !strings.Contains(out, want) {
			t.Fatalf("FormatEXIF output missing %q:\n%s", want, out)
		}
	}
}

func TestExtractEXIFBigEndian(t *testing.T) {
	b, err := buildJPEGWithEXIFBigEndian(6)
	if err != nil {
		t.Fatalf("buildJPEGWithEXIFBigEndian failed: %v", err)
	}
	path := writeTempFile(t, "exif-be-fixture-*.jpg", b)

	ex, err := ExtractEXIF(path)
	if err != nil {
		t.Fatalf("ExtractEXIF failed: %v", err)
	}
	if ex.Orientation != 6 {
		t.Fatalf("big-endian orientation mismatch: %+v", ex)
	}
	if ex.DateTimeOriginal != "2020:01:02 03:04:05" {
		t.Fatalf("big-endian DateTimeOriginal mismatch: %q", ex.DateTimeOriginal)
	}
}

// A malformed IFD pointer must not panic; the result may simply be empty.
func TestExtractEXIFMalformedIFD(t *testing.T) {
	b, err := buildJPEGWithMalformedIFD()
	if err != nil {
		t.Fatalf("buildJPEGWithMalformedIFD failed: %v", err)
	}
	path := writeTempFile(t, "exif-malformed-*.jpg", b)

	ex, err := ExtractEXIF(path)
	if err != nil {
		t.Fatalf("ExtractEXIF returned error on malformed IFD: %v", err)
	}
	if ex.Orientation != 0 || ex.Make != "" {
		t.Fatalf("expected empty EXIF for malformed IFD, got %+v", ex)
	}
}

func TestExtractEXIFRejectsNonJPEG(t *testing.T) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewNRGBA(image.Rect(0, 0, 1, 1))); err != nil {
		t.Fatalf("png encode failed: %v", err)
	}
	path := writeTempFile(t, "exif-*.png", buf.Bytes())

	if _, err := ExtractEXIF(path); err == nil {
		t.Fatalf("expected error for non-JPEG input")
	}
}

func TestFormatEXIFEmpty(t *testing.T) {
	if got := FormatEXIF(EXIF{}); got != "no EXIF tags found\n" {
		t.Fatalf("unexpected empty formatting: %q", got)
	}
}

// buildJPEGWithEXIF assembles a minimal JPEG whose APP1 block carries a
// little-endian TIFF with IFD0 string tags, an inline orientation and an
// Exif sub-IFD holding DateTimeOriginal. String values live in a data area
// after both IFDs; their offsets are computed up front.
func buildJPEGWithEXIF(orientation uint16) ([]byte, error) {
	makeStr := []byte("GoCam\x00")
	modelStr := []byte("GoCam 2000\x00")
	softStr := []byte("gdfx-test\x00")
	dtStr := []byte("2021:05:06 07:08:09\x00")
	dtoStr := []byte("2020:01:02 03:04:05\x00")

	const ifd0Count = 6
	const exifCount = 1
	exifOffset := uint32(8 + 2 + ifd0Count*12 + 4)
	dataStart := exifOffset + uint32(2+exifCount*12+4)

	makeOff := dataStart
	modelOff := makeOff + uint32(len(makeStr))
	softOff := modelOff + uint32(len(modelStr))
	dtOff := softOff + uint32(len(softStr))
	dtoOff := dtOff + uint32(len(dtStr))

	var tiff bytes.Buffer
	tiff.Write([]byte{'I', 'I'})
	binary.Write(&tiff, binary.LittleEndian, uint16(0x2A))
	binary.Write(&tiff, binary.LittleEndian, uint32(8))

	writeEntry := func(tag, typeID uint16, count, value uint32) {
		binary.Write(&tiff, binary.LittleEndian, tag)
		binary.Write(&tiff, binary.LittleEndian, typeID)
		binary.Write(&tiff, binary.LittleEndian, count)
		binary.Write(&tiff, binary.LittleEndian, value)
	}

	binary.Write(&tiff, binary.LittleEndian, uint16(ifd0Count))
	writeEntry(0x010F, 2, uint32(len(makeStr)), makeOff)
	writeEntry(0x0110, 2, uint32(len(modelStr)), modelOff)
	writeEntry(0x0112, 3, 1, uint32(orientation)) // inline SHORT, low bytes first
	writeEntry(0x0131, 2, uint32(len(softStr)), softOff)
	writeEntry(0x0132, 2, uint32(len(dtStr)), dtOff)
	writeEntry(0x8769, 4, 1, exifOffset)
	binary.Write(&tiff, binary.LittleEndian, uint32(0)) // next IFD

	if uint32(tiff.Len()) != exifOffset {
		return nil, fmt.Errorf("exif IFD offset mismatch: %d vs %d", tiff.Len(), exifOffset)
	}
	binary.Write(&tiff, binary.LittleEndian, uint16(exifCount))
	writeEntry(0x9003, 2, uint32(len(dtoStr)), dtoOff)
	binary.Write(&tiff, binary.LittleEndian, uint32(0))

	if uint32(tiff.Len()) != dataStart {
		return nil, fmt.Errorf("data start mismatch: %d vs %d", tiff.Len(), dataStart)
	}
	tiff.Write(makeStr)
	tiff.Write(modelStr)
	tiff.Write(softStr)
	tiff.Write(dtStr)
	tiff.Write(dtoStr)

	return wrapTIFFInJPEG(tiff.Bytes()), nil
}

// buildJPEGWithEXIFBigEndian mirrors the little-endian fixture with MM byte
// order. Inline SHORT values must occupy the high-order bytes of the value
// field.
func buildJPEGWithEXIFBigEndian(orientation uint16) ([]byte, error) {
	dtoStr := []byte("2020:01:02 03:04:05\x00")

	const ifd0Count = 2
	const exifCount = 1
	exifOffset := uint32(8 + 2 + ifd0Count*12 + 4)
	dataStart := exifOffset + uint32(2+exifCount*12+4)
	dtoOff := dataStart

	var tiff bytes.Buffer
	tiff.Write([]byte{'M', 'M'})
	binary.Write(&tiff, binary.BigEndian, uint16(0x2A))
	binary.Write(&tiff, binary.BigEndian, uint32(8))

	writeEntry := func(tag, typeID uint16, count, value uint32) {
		binary.Write(&tiff, binary.BigEndian, tag)
		binary.Write(&tiff, binary.BigEndian, typeID)
		binary.Write(&tiff, binary.BigEndian, count)
		binary.Write(&tiff, binary.BigEndian, value)
	}

	binary.Write(&tiff, binary.BigEndian, uint16(ifd0Count))
	writeEntry(0x0112, 3, 1, uint32(orientation)<<16)
	writeEntry(0x8769, 4, 1, exifOffset)
	binary.Write(&tiff, binary.BigEndian, uint32(0))

	if uint32(tiff.Len()) != exifOffset {
		return nil, fmt.Errorf("exif IFD offset mismatch: %d vs %d", tiff.Len(), exifOffset)
	}
	binary.Write(&tiff, binary.BigEndian, uint16(exifCount))
	writeEntry(0x9003, 2, uint32(len(dtoStr)), dtoOff)
	binary.Write(&tiff, binary.BigEndian, uint32(0))

	tiff.Write(dtoStr)

	return wrapTIFFInJPEG(tiff.Bytes()), nil
}

// buildJPEGWithMalformedIFD points IFD0 beyond the end of the buffer.
func buildJPEGWithMalformedIFD() ([]byte, error) {
	var tiff bytes.Buffer
	tiff.Write([]byte{'I', 'I'})
	binary.Write(&tiff, binary.LittleEndian, uint16(0x2A))
	binary.Write(&tiff, binary.LittleEndian, uint32(0xFFFFFF))
	return wrapTIFFInJPEG(tiff.Bytes()), nil
}

func wrapTIFFInJPEG(tiffData []byte) []byte {
	var out bytes.Buffer
	out.Write([]byte{0xFF, 0xD8})
	out.Write([]byte{0xFF, 0xE1})
	app1Len := uint16(2 + 6 + len(tiffData))
	binary.Write(&out, binary.BigEndian, app1Len)
	out.Write([]byte("Exif\x00\x00"))
	out.Write(tiffData)
	out.Write([]byte{0xFF, 0xD9})
	return out.Bytes()
}
