package cli

import (
	"bytes"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// EXIF is the subset of metadata the CLI reports and acts on. Orientation
// drives auto-rotation at load time; the rest is informational.
type EXIF struct {
	Make             string            `json:"make,omitempty"`
	Model            string            `json:"model,omitempty"`
	Software         string            `json:"software,omitempty"`
	Orientation      int               `json:"orientation,omitempty"`
	DateTime         string            `json:"datetime,omitempty"`
	DateTimeOriginal string            `json:"datetime_original,omitempty"`
	Raw              map[uint32]string `json:"raw,omitempty"`
}

const (
	ifdType0    = 0
	ifdTypeExif = 1
)

// ExtractEXIF reads the JPEG file at path and returns its parsed tags.
// Non-JPEG files fail; they carry no EXIF this package understands.
func ExtractEXIF(path string) (EXIF, error) {
	var out EXIF
	b, err := os.ReadFile(path)
	if err != nil {
		return out, err
	}
	if len(b) < 3 || !bytes.Equal(b[:3], []byte{0xFF, 0xD8, 0xFF}) {
		return out, fmt.Errorf("unsupported format for EXIF extraction")
	}
	tiffStart, err := parseTIFFStartFromJPEG(b)
	if err != nil {
		return out, err
	}
	tags, err := readEXIFTags(b, tiffStart)
	if err != nil {
		return out, err
	}
	return convertTagsToEXIF(tags), nil
}

// convertTagsToEXIF converts the keyed tag map into a typed EXIF struct.
func convertTagsToEXIF(tags map[uint32]string) EXIF {
	out := EXIF{Raw: map[uint32]string{}}
	for k, v := range tags {
		out.Raw[k] = v
	}
	get := func(ifd int, tag uint16) string {
		return tags[(uint32(ifd)<<16)|uint32(tag)]
	}
	out.Make = get(ifdType0, 0x010F)
	out.Model = get(ifdType0, 0x0110)
	out.Software = get(ifdType0, 0x0131)
	out.DateTime = get(ifdType0, 0x0132)
	out.DateTimeOriginal = get(ifdTypeExif, 0x9003)
	if v := get(ifdType0, 0x0112); v != "" {
		if vi, err := strconv.Atoi(strings.SplitN(v, ",", 2)[0]); err == nil {
			out.Orientation = vi
		}
	}
	return out
}

// FormatEXIF renders the struct for terminal display, omitting empty fields.
func FormatEXIF(e EXIF) string {
	var sb strings.Builder
	add := func(label, value string) {
		if value != "" {
			fmt.Fprintf(&sb, "%-10s %s\n", label+":", value)
		}
	}
	add("Make", e.Make)
	add("Model", e.Model)
	add("Software", e.Software)
	if e.Orientation != 0 {
		add("Orient", strconv.Itoa(e.Orientation))
	}
	add("Taken", e.DateTimeOriginal)
	add("Modified", e.DateTime)
	if sb.Len() == 0 {
		return "no EXIF tags found\n"
	}
	return sb.String()
}
