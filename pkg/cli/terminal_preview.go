package cli

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image/jpeg"
	"image/png"
	"math"
	"os"
	"os/exec"
	"strings"

	"github.com/tmarksen/gdfx/pkg/gdimg"
)

// Terminal preview for Kitty and iTerm2 style inline-image protocols.
//
// Backend order:
//   - kitty graphics protocol (chunked base64 inside ESC _G ... ESC \) when
//     kitty or a compatible terminal is detected.
//   - iTerm2 OSC 1337 inline file sequence for iTerm2, WezTerm, Warp, Tabby,
//     VSCode and friends.
//   - an external sixel renderer (img2sixel) for sixel-capable terminals.
//   - chafa block rendering when the binary is on PATH.
//   - a built-in ANSI half-block renderer as the last resort, which works in
//     any truecolor terminal.
//
// GDFX_PREVIEW_DEBUG=1 traces backend selection on stderr.
var previewDebug bool

func init() {
	debug := os.Getenv("GDFX_PREVIEW_DEBUG")
	if debug == "1" || debug == "true" {
		previewDebug = true
	}
}

func debugf(format string, args ...interface{}) {
	if previewDebug {
		fmt.Fprintf(os.Stderr, "gdfx-preview: "+format+"\n", args...)
	}
}

func isKitty() bool {
	if os.Getenv("KITTY_WINDOW_ID") != "" {
		return true
	}
	// ghostty and konsole expose kitty-compatible graphics support
	term := strings.ToLower(os.Getenv("TERM"))
	if strings.Contains(term, "kitty") || strings.Contains(term, "ghostty") {
		return true
	}
	if os.Getenv("KONSOLE_VERSION") != "" {
		return true
	}
	return false
}

// isInlineImageCapable detects terminals that implement the iTerm2-style
// OSC 1337 inline image protocol, based on TERM_PROGRAM and TERM hints.
func isInlineImageCapable() bool {
	switch os.Getenv("TERM_PROGRAM") {
	case "iTerm.app", "WezTerm", "Warp", "Hyper", "vscode", "VSCode", "Tabby":
		debugf("TERM_PROGRAM indicates inline-capable: %s", os.Getenv("TERM_PROGRAM"))
		return true
	}
	term := strings.ToLower(os.Getenv("TERM"))
	if strings.Contains(term, "wezterm") || strings.Contains(term, "warp") ||
		strings.Contains(term, "tabby") || strings.Contains(term, "vscode") {
		debugf("TERM suggests inline-capable: %s", term)
		return true
	}
	return os.Getenv("ITERM_SESSION_ID") != ""
}

// isSixelCapable detects terminals likely to support sixel graphics. The
// heuristic is coarse; GDFX_SIXEL=1 forces it on.
func isSixelCapable() bool {
	if os.Getenv("GDFX_SIXEL") == "1" {
		return true
	}
	term := strings.ToLower(os.Getenv("TERM"))
	if strings.Contains(term, "foot") || strings.Contains(term, "mlterm") {
		return true
	}
	if os.Getenv("WT_SESSION") != "" { // newer Windows Terminal builds support sixel
		return true
	}
	return false
}

// hasChafa reports whether the external 'chafa' binary is available in PATH.
func hasChafa() bool {
	if os.Getenv("GDFX_NO_CHAFA") == "1" {
		return false
	}
	_, err := exec.LookPath("chafa")
	return err == nil
}

// postImageNewlines picks how many blank lines to emit after an image so the
// prompt lands just below it instead of far down or on top of it.
func postImageNewlines(requestedRows int) int {
	switch {
	case requestedRows <= 0:
		return 1
	case requestedRows <= 2:
		return 1
	case requestedRows <= 6:
		return 2
	case requestedRows <= 20:
		return 3
	default:
		return 4
	}
}

// PreviewSupported reports whether the environment likely supports an inline
// terminal preview through one of the native protocols or chafa. The built-in
// half-block renderer is always available regardless.
func PreviewSupported() bool {
	supported := isKitty() || isInlineImageCapable() || isSixelCapable() || hasChafa()
	debugf("PreviewSupported -> %v (kitty=%v inline=%v sixel=%v chafa=%v)",
		supported, isKitty(), isInlineImageCapable(), isSixelCapable(), hasChafa())
	return supported
}

// PreviewBitmap renders a bitmap into the terminal. format is a container
// hint like "png" or "jpeg"; kitty always receives PNG. When every protocol
// backend fails, the built-in half-block renderer takes over, so the only
// errors are a nil bitmap or an encode failure.
func PreviewBitmap(bm *gdimg.Bitmap, format string) error {
	if bm == nil {
		return fmt.Errorf("nil bitmap")
	}
	f := strings.ToLower(format)
	if isKitty() || strings.ToLower(os.Getenv("GDFX_PREVIEW_BACKEND")) == "kitty" {
		f = "png"
	}
	var buf bytes.Buffer
	if f == "jpeg" || f == "jpg" {
		if err := jpeg.Encode(&buf, bm.ToNRGBA(), &jpeg.Options{Quality: 92}); err != nil {
			return fmt.Errorf("jpeg encode failed: %w", err)
		}
	} else {
		if err := png.Encode(&buf, bm.ToNRGBA()); err != nil {
			return fmt.Errorf("png encode failed: %w", err)
		}
		f = "png"
	}
	size := computePreviewSize(bm.Width(), bm.Height())
	if err := previewBytes(buf.Bytes(), f, size); err != nil {
		debugf("protocol backends failed (%v), using half-block renderer", err)
		return renderHalfBlocks(bm, size)
	}
	return nil
}

// PreviewSize conveys a target placement for terminal preview backends.
type PreviewSize struct {
	Cols        int // terminal character columns
	Rows        int // terminal character rows
	PixelWidth  int // approximate pixel width (Cols * cellWidth)
	PixelHeight int // approximate pixel height (Rows * cellHeight)
}

// computePreviewSize maps pixel dimensions into a clamped terminal cell
// size, preserving aspect ratio and never scaling up.
func computePreviewSize(w, h int) PreviewSize {
	const charW = 8
	const charH = 16
	const minCols, minRows = 6, 3
	const maxCols, maxRows = 80, 40

	scaleW := float64(maxCols*charW) / float64(w)
	scaleH := float64(maxRows*charH) / float64(h)
	scale := math.Min(1.0, math.Min(scaleW, scaleH))

	cols := int(math.Round(float64(w) * scale / charW))
	rows := int(math.Round(float64(h) * scale / charH))

	if cols < minCols {
		cols = minCols
	}
	if cols > maxCols {
		cols = maxCols
	}
	if rows < minRows {
		rows = minRows
	}
	if rows > maxRows {
		rows = maxRows
	}

	return PreviewSize{
		Cols:        cols,
		Rows:        rows,
		PixelWidth:  cols * charW,
		PixelHeight: rows * charH,
	}
}

// previewBytes sends encoded image bytes through the first backend that
// works. GDFX_PREVIEW_BACKEND forces a particular one to be tried first.
func previewBytes(blob []byte, format string, size PreviewSize) error {
	if len(blob) == 0 {
		return fmt.Errorf("empty image blob")
	}

	if v := strings.ToLower(os.Getenv("GDFX_PREVIEW_BACKEND")); v != "" {
		debugf("GDFX_PREVIEW_BACKEND override: %s", v)
		var err error
		switch v {
		case "kitty":
			err = sendKittyImage(blob, format, size)
		case "inline", "iterm", "wezterm":
			err = sendInlineImage(blob, format, size)
		case "sixel":
			err = sendSixelImage(blob, size)
		case "chafa":
			err = sendChafaImage(blob, size)
		default:
			err = fmt.Errorf("unknown backend %q", v)
		}
		if err == nil {
			return nil
		}
		debugf("override %s failed: %v", v, err)
		// fall through to normal detection order
	}

	// Inline first: the modern emulators implement it most reliably.
	if isInlineImageCapable() {
		debugf("attempting inline protocol")
		if err := sendInlineImage(blob, format, size); err == nil {
			return nil
		} else {
			debugf("inline protocol failed: %v", err)
		}
	}
	if isKitty() {
		debugf("attempting kitty protocol")
		if err := sendKittyImage(blob, "png", size); err == nil {
			return nil
		} else {
			debugf("kitty protocol failed: %v", err)
		}
	}
	if isSixelCapable() {
		if err := sendSixelImage(blob, size); err == nil {
			return nil
		} else {
			debugf("sixel failed: %v", err)
		}
	}
	if hasChafa() {
		if err := sendChafaImage(blob, size); err == nil {
			return nil
		} else {
			debugf("chafa failed: %v", err)
		}
	}
	return fmt.Errorf("no preview protocol matched")
}

// sendKittyImage sends encoded image bytes using the kitty graphics
// protocol, chunking the base64 payload into <=4096-byte pieces per spec.
// The first chunk carries the control keys: a=T transmit+display, t=d direct
// payload, f=100 PNG data, q=2 suppress responses, c/r the placement area.
func sendKittyImage(data []byte, format string, size PreviewSize) error {
	if len(data) == 0 {
		return fmt.Errorf("no data")
	}

	debugf("sendKittyImage sending %d bytes (raw %s), placement %dx%d cells",
		len(data), format, size.Cols, size.Rows)

	enc := base64.StdEncoding.EncodeToString(data)
	const chunkSize = 4096

	total := len(enc)
	first := true
	for pos := 0; pos < total; pos += chunkSize {
		end := pos + chunkSize
		if end > total {
			end = total
		}
		chunk := enc[pos:end]

		mVal := "0"
		if end != total {
			mVal = "1"
		}

		var header string
		if first {
			header = fmt.Sprintf("\x1b_Ga=T,f=100,t=d,q=2,c=%d,r=%d,m=%s;", size.Cols, size.Rows, mVal)
			first = false
		} else {
			// continuation chunks carry only m= and the payload
			header = "\x1b_Gm=" + mVal + ";"
		}
		if _, err := os.Stdout.WriteString(header + chunk + "\x1b\\"); err != nil {
			return err
		}
	}

	for i := 0; i < postImageNewlines(size.Rows); i++ {
		fmt.Println()
	}
	return nil
}

// sendInlineImage emits the iTerm2-style inline image OSC 1337 sequence.
func sendInlineImage(data []byte, format string, size PreviewSize) error {
	if len(data) == 0 {
		return fmt.Errorf("no data")
	}
	debugf("sendInlineImage sending %d bytes (format=%s)", len(data), format)
	enc := base64.StdEncoding.EncodeToString(data)
	name := "preview.png"
	if strings.HasPrefix(strings.ToLower(format), "j") {
		name = "preview.jpg"
	}
	meta := fmt.Sprintf("size=%d;", len(data))
	if size.PixelWidth > 0 && size.PixelHeight > 0 {
		meta += fmt.Sprintf("width=%dpx;height=%dpx;", size.PixelWidth, size.PixelHeight)
	}
	seq := "\x1b]1337;File=name=" + name + ";inline=1;" + meta + ":" + enc + "\a"
	_, err := os.Stdout.WriteString(seq)
	if err != nil {
		return err
	}

	for i := 0; i < postImageNewlines(0); i++ {
		fmt.Println()
	}
	return nil
}

// sendSixelImage pipes the encoded image to img2sixel, which emits sixel
// data to stdout. Writing a sixel encoder here is not worth it while the
// external tool exists.
func sendSixelImage(data []byte, size PreviewSize) error {
	if len(data) == 0 {
		return fmt.Errorf("no data")
	}

	debugf("sendSixelImage piping %d bytes to img2sixel", len(data))

	cmd := exec.Command("img2sixel", "-")
	cmd.Stdin = bytes.NewReader(data)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("img2sixel failed: %w", err)
	}

	for i := 0; i < postImageNewlines(size.Rows); i++ {
		fmt.Println()
	}
	return nil
}

// sendChafaImage invokes chafa to render the encoded image as block symbols.
func sendChafaImage(data []byte, size PreviewSize) error {
	if len(data) == 0 {
		return fmt.Errorf("no data")
	}
	if _, err := exec.LookPath("chafa"); err != nil {
		return fmt.Errorf("chafa not found in PATH: %w", err)
	}

	debugf("sendChafaImage invoking chafa for %d bytes", len(data))

	chafaSize := fmt.Sprintf("%dx%d", size.Cols, size.Rows)
	cmd := exec.Command("chafa", "--fill=block", "--symbols=block", "-s", chafaSize, "-")
	cmd.Stdin = bytes.NewReader(data)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("chafa failed: %w", err)
	}

	for i := 0; i < postImageNewlines(size.Rows); i++ {
		fmt.Println()
	}
	return nil
}

// renderHalfBlocks paints the bitmap with ANSI truecolor half-block cells,
// two pixel rows per terminal row. It needs nothing beyond a terminal that
// understands 24-bit SGR sequences.
func renderHalfBlocks(bm *gdimg.Bitmap, size PreviewSize) error {
	small := bm
	maxW, maxH := size.Cols, size.Rows*2
	if bm.Width() > maxW || bm.Height() > maxH {
		var err error
		small, err = gdimg.BestFit(bm, maxW, maxH)
		if err != nil {
			return err
		}
	}

	var sb strings.Builder
	for y := 0; y < small.Height(); y += 2 {
		for x := 0; x < small.Width(); x++ {
			top := small.GetPixel(x, y)
			bottom := top
			haveBottom := y+1 < small.Height()
			if haveBottom {
				bottom = small.GetPixel(x, y+1)
			}
			switch {
			case top.A == 127 && (!haveBottom || bottom.A == 127):
				sb.WriteString("\x1b[0m ")
			case !haveBottom || bottom.A == 127:
				fmt.Fprintf(&sb, "\x1b[0m\x1b[38;2;%d;%d;%dm▀", top.R, top.G, top.B)
			case top.A == 127:
				fmt.Fprintf(&sb, "\x1b[0m\x1b[38;2;%d;%d;%dm▄", bottom.R, bottom.G, bottom.B)
			default:
				fmt.Fprintf(&sb, "\x1b[38;2;%d;%d;%dm\x1b[48;2;%d;%d;%dm▀",
					top.R, top.G, top.B, bottom.R, bottom.G, bottom.B)
			}
		}
		sb.WriteString("\x1b[0m\n")
	}
	_, err := os.Stdout.WriteString(sb.String())
	return err
}
