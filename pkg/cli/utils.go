package cli

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/tmarksen/gdfx/pkg/gdimg"
)

// PromptLine displays a prompt and reads a full line of input from the user.
// The returned string is trimmed of surrounding whitespace (including the newline).
func PromptLine(prompt string) (string, error) {
	fmt.Print(prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// PromptLineWithFzfReader reads a full line from the provided reader and
// treats a lone "/" as a request to pick a file with fzf. Reading the whole
// line keeps paths with spaces intact. If fzf is unavailable or the selection
// is cancelled, it falls back to a typed prompt.
func PromptLineWithFzfReader(reader *bufio.Reader, prompt string) (string, error) {
	fmt.Print(prompt)

	line, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	input := strings.TrimSpace(line)

	if input == "/" {
		sel, selErr := SelectFileWithFzf(".")
		if selErr == nil && sel != "" {
			fmt.Printf(" [fzf] %s\n", sel)
			return sel, nil
		}
		return PromptLine(prompt)
	}
	return input, nil
}

// LoadBitmap reads the file at path into a Bitmap and reports the detected
// format name. JPEGs with an EXIF orientation tag are rotated upright before
// being returned. Formats: png, jpeg, gif, tiff, bmp, webp.
func LoadBitmap(path string) (*gdimg.Bitmap, string, error) {
	// Read the full file so JPEG bytes stay available for EXIF inspection.
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, "", err
	}
	format := detectFormat(b)

	orientation := 1
	if format == "jpeg" {
		if o, err := extractJPEGOrientation(b); err == nil && o >= 1 && o <= 8 {
			orientation = o
		}
	}

	img, decodedFormat, err := image.Decode(bytes.NewReader(b))
	if err != nil {
		return nil, "", fmt.Errorf("decode %s: %w", path, err)
	}
	if format == "" {
		format = decodedFormat
	}

	bm := gdimg.FromImage(img)
	if bm == nil {
		return nil, "", fmt.Errorf("image has no pixels: %s", path)
	}
	if orientation != 1 {
		bm = gdimg.AutoOrient(bm, orientation)
	}
	return bm, format, nil
}

// detectFormat sniffs the file signature. An empty string means the magic
// bytes matched nothing we know; the decoder's verdict is used instead.
func detectFormat(b []byte) string {
	switch {
	case len(b) >= 3 && bytes.Equal(b[:3], []byte{0xFF, 0xD8, 0xFF}):
		return "jpeg"
	case len(b) >= 8 && bytes.Equal(b[:8], []byte("\x89PNG\r\n\x1a\n")):
		return "png"
	case len(b) >= 6 && (bytes.Equal(b[:6], []byte("GIF87a")) || bytes.Equal(b[:6], []byte("GIF89a"))):
		return "gif"
	case len(b) >= 4 && (bytes.Equal(b[:4], []byte{0x49, 0x49, 0x2A, 0x00}) || bytes.Equal(b[:4], []byte{0x4D, 0x4D, 0x00, 0x2A})):
		return "tiff"
	case len(b) >= 2 && bytes.Equal(b[:2], []byte("BM")):
		return "bmp"
	case len(b) >= 12 && bytes.Equal(b[:4], []byte("RIFF")) && bytes.Equal(b[8:12], []byte("WEBP")):
		return "webp"
	}
	return ""
}

// parseTIFFStartFromJPEG scans JPEG segments to find an APP1 Exif block and
// returns the offset in data where the TIFF header begins.
func parseTIFFStartFromJPEG(data []byte) (int, error) {
	if len(data) < 4 {
		return -1, fmt.Errorf("data too short")
	}
	i := 2 // skip initial 0xFF 0xD8
	for i+4 < len(data) {
		if data[i] != 0xFF {
			i++
			continue
		}
		marker := data[i+1]
		if marker == 0xDA { // start of scan, no EXIF past this point
			break
		}
		segLen := int(data[i+2])<<8 | int(data[i+3])
		if marker == 0xE1 && segLen >= 8 {
			if i+10 <= len(data) && string(data[i+4:i+10]) == "Exif\x00\x00" {
				return i + 10, nil
			}
		}
		if segLen <= 2 {
			i += 2
		} else {
			i += 2 + segLen
		}
	}
	return -1, fmt.Errorf("no exif segment")
}

// readEXIFTags reads IFD0 and the Exif sub-IFD from TIFF data starting at
// tiffStart. Keys encode the IFD type in the high 16 bits and the tag ID in
// the low 16: (ifdType<<16)|tag. Only BYTE, ASCII, SHORT and LONG values are
// decoded; rationals and the GPS IFD are skipped.
func readEXIFTags(data []byte, tiffStart int) (map[uint32]string, error) {
	res := map[uint32]string{}
	if tiffStart < 0 || tiffStart+8 > len(data) {
		return res, fmt.Errorf("tiff header truncated")
	}
	var order binary.ByteOrder
	switch {
	case data[tiffStart] == 'M' && data[tiffStart+1] == 'M':
		order = binary.BigEndian
	case data[tiffStart] == 'I' && data[tiffStart+1] == 'I':
		order = binary.LittleEndian
	default:
		return res, fmt.Errorf("unknown tiff byte order")
	}
	if order.Uint16(data[tiffStart+2:tiffStart+4]) != 0x002A {
		return res, fmt.Errorf("invalid tiff magic")
	}

	visited := map[int]bool{}
	var readIFD func(ifdOffset, ifdType int)
	readIFD = func(ifdOffset, ifdType int) {
		absIfd := tiffStart + ifdOffset
		if absIfd+2 > len(data) || visited[absIfd] {
			return
		}
		visited[absIfd] = true
		nEntries := int(order.Uint16(data[absIfd : absIfd+2]))
		entriesBase := absIfd + 2
		for e := 0; e < nEntries; e++ {
			ent := entriesBase + e*12
			if ent+12 > len(data) {
				break
			}
			tag := order.Uint16(data[ent : ent+2])
			typ := order.Uint16(data[ent+2 : ent+4])
			count := order.Uint32(data[ent+4 : ent+8])
			valOff := data[ent+8 : ent+12]

			// follow the Exif sub-IFD pointer; the GPS IFD is ignored
			if tag == 0x8769 {
				off32 := int(order.Uint32(valOff))
				if off32 > 0 && tiffStart+off32 < len(data) {
					readIFD(off32, ifdTypeExif)
				}
				continue
			}

			sizePer := 0
			switch typ {
			case 1, 2: // BYTE, ASCII
				sizePer = 1
			case 3: // SHORT
				sizePer = 2
			case 4: // LONG
				sizePer = 4
			default:
				continue
			}
			totalSize := int(count) * sizePer
			if totalSize <= 0 {
				continue
			}
			var valueBytes []byte
			if totalSize <= 4 {
				buf := make([]byte, 4)
				copy(buf, valOff)
				valueBytes = buf[:totalSize]
			} else {
				off32 := int(order.Uint32(valOff))
				if off32 < 0 || tiffStart+off32+totalSize > len(data) {
					continue
				}
				valueBytes = data[tiffStart+off32 : tiffStart+off32+totalSize]
			}

			sval := ""
			switch typ {
			case 1:
				parts := make([]string, 0, len(valueBytes))
				for _, v := range valueBytes {
					parts = append(parts, strconv.Itoa(int(v)))
				}
				sval = strings.Join(parts, ",")
			case 2:
				if idx := bytes.IndexByte(valueBytes, 0); idx >= 0 {
					valueBytes = valueBytes[:idx]
				}
				sval = strings.TrimSpace(string(valueBytes))
			case 3:
				parts := make([]string, 0, count)
				for i := 0; i+2 <= len(valueBytes); i += 2 {
					parts = append(parts, strconv.Itoa(int(order.Uint16(valueBytes[i:i+2]))))
				}
				sval = strings.Join(parts, ",")
			case 4:
				parts := make([]string, 0, count)
				for i := 0; i+4 <= len(valueBytes); i += 4 {
					parts = append(parts, strconv.Itoa(int(order.Uint32(valueBytes[i:i+4]))))
				}
				sval = strings.Join(parts, ",")
			}
			if sval != "" {
				res[(uint32(ifdType)<<16)|uint32(tag)] = sval
			}
		}
		// chained IFDs inherit the type of the IFD that linked them
		last := entriesBase + nEntries*12
		if last+4 <= len(data) {
			nextOff := int(order.Uint32(data[last : last+4]))
			if nextOff > 0 && tiffStart+nextOff < len(data) {
				readIFD(nextOff, ifdType)
			}
		}
	}

	off := int(order.Uint32(data[tiffStart+4 : tiffStart+8]))
	if off <= 0 || tiffStart+off >= len(data) {
		return res, nil
	}
	readIFD(off, ifdType0)
	return res, nil
}

// extractJPEGOrientation returns the EXIF orientation (1..8) from JPEG bytes.
func extractJPEGOrientation(data []byte) (int, error) {
	tiffStart, err := parseTIFFStartFromJPEG(data)
	if err != nil {
		return 0, err
	}
	tags, err := readEXIFTags(data, tiffStart)
	if err != nil {
		return 0, err
	}
	if v, ok := tags[(ifdType0<<16)|0x0112]; ok {
		if vi, err := strconv.Atoi(strings.SplitN(v, ",", 2)[0]); err == nil {
			return vi, nil
		}
	}
	return 0, fmt.Errorf("orientation tag not found")
}

// SaveBitmap writes a bitmap to disk using the format inferred from the
// filename extension. Supports .png, .jpg/.jpeg, .gif, .tif/.tiff and .bmp;
// anything else is written as PNG. The alpha channel survives export only
// when the bitmap's save-alpha flag is set and the format can carry it.
func SaveBitmap(path string, bm *gdimg.Bitmap) error {
	if bm == nil {
		return fmt.Errorf("nil bitmap")
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	img := bm.ToNRGBA()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return png.Encode(f, img)
	case ".jpg", ".jpeg":
		return jpeg.Encode(f, img, &jpeg.Options{Quality: 92})
	case ".gif":
		return gif.Encode(f, img, nil)
	case ".tif", ".tiff":
		return tiff.Encode(f, img, nil)
	case ".bmp":
		return bmp.Encode(f, img)
	default:
		// default to PNG
		return png.Encode(f, img)
	}
}

// GetBitmapInfo returns a short info string for a loaded bitmap. The format
// name comes from LoadBitmap; pass "" when it is unknown.
func GetBitmapInfo(bm *gdimg.Bitmap, format string) (string, error) {
	if bm == nil {
		return "", fmt.Errorf("nil bitmap")
	}
	if format == "" {
		format = "unknown"
	}
	transparent, translucent := 0, 0
	for y := 0; y < bm.Height(); y++ {
		for x := 0; x < bm.Width(); x++ {
			switch a := bm.GetPixel(x, y).A; {
			case a == 127:
				transparent++
			case a > 0:
				translucent++
			}
		}
	}
	alpha := "opaque"
	if transparent > 0 || translucent > 0 {
		alpha = fmt.Sprintf("%d transparent, %d translucent px", transparent, translucent)
	}
	return fmt.Sprintf("Format: %s, Width: %d, Height: %d, Alpha: %s",
		strings.ToUpper(format), bm.Width(), bm.Height(), alpha), nil
}
