package cli

import (
	"bytes"
	"encoding/base64"
	"os"
	"strings"
	"testing"

	"github.com/tmarksen/gdfx/pkg/gdimg"
)

// clearPreviewEnv blanks every variable the backend detection reads so a test
// starts from a terminal with no preview capabilities.
func clearPreviewEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"TERM_PROGRAM", "ITERM_SESSION_ID", "KITTY_WINDOW_ID", "KONSOLE_VERSION",
		"WT_SESSION", "GDFX_SIXEL", "GDFX_PREVIEW_BACKEND", "GDFX_NO_CHAFA",
	} {
		t.Setenv(key, "")
	}
	t.Setenv("TERM", "dumb")
}

// captureStdout runs fn with os.Stdout redirected to a pipe and returns
// everything written.
func captureStdout(t *testing.T, fn func() error) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe failed: %v", err)
	}
	os.Stdout = w

	fnErr := fn()

	w.Close()
	os.Stdout = old
	var buf bytes.Buffer
	_, _ = buf.ReadFrom(r)
	if fnErr != nil {
		t.Fatalf("preview failed: %v", fnErr)
	}
	return buf.String()
}

func solidBitmap(t *testing.T, w, h int, c gdimg.ColorSpec) *gdimg.Bitmap {
	t.Helper()
	bm, err := gdimg.New(w, h)
	if err != nil {
		t.Fatal(err)
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			bm.SetPixel(x, y, c)
		}
	}
	return bm
}

func TestPreviewInlineSequence(t *testing.T) {
	clearPreviewEnv(t)
	t.Setenv("TERM_PROGRAM", "WezTerm")
	t.Setenv("TERM", "xterm-256color")

	bm := solidBitmap(t, 2, 2, gdimg.ColorSpec{R: 255})
	out := captureStdout(t, func() error { return PreviewBitmap(bm, "png") })

	if !strings.Contains(out, "\x1b]1337;File=") {
		t.Fatalf("expected inline OSC 1337 sequence, got: %q", out)
	}
	if !strings.Contains(out, "inline=1") {
		t.Fatalf("expected inline=1 in sequence, got: %q", out)
	}
}

func TestPreviewEncodesJPEG(t *testing.T) {
	clearPreviewEnv(t)
	t.Setenv("TERM_PROGRAM", "WezTerm")
	t.Setenv("TERM", "xterm-256color")

	bm := solidBitmap(t, 4, 4, gdimg.ColorSpec{R: 10, G: 20, B: 30})
	out := captureStdout(t, func() error { return PreviewBitmap(bm, "jpeg") })

	// The base64 payload sits between ':' and the terminating BEL.
	idx := strings.Index(out, ":")
	if idx < 0 {
		t.Fatalf("no ':' found in output: %q", out)
	}
	payload := out[idx+1:]
	if bi := strings.Index(payload, "\a"); bi >= 0 {
		payload = payload[:bi]
	}
	dec, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		t.Fatalf("base64 decode failed: %v", err)
	}
	if len(dec) < 2 || dec[0] != 0xFF || dec[1] != 0xD8 {
		t.Fatalf("expected JPEG SOI bytes at payload start, got: %x", dec[:min(len(dec), 4)])
	}
}

func TestPreviewBackendOverrideKitty(t *testing.T) {
	clearPreviewEnv(t)
	t.Setenv("GDFX_PREVIEW_BACKEND", "kitty")

	bm := solidBitmap(t, 2, 2, gdimg.ColorSpec{G: 255})
	out := captureStdout(t, func() error { return PreviewBitmap(bm, "jpeg") })

	if !strings.Contains(out, "\x1b_Ga=T,f=100") {
		t.Fatalf("expected kitty graphics header, got: %q", out)
	}
	// A tiny image fits a single chunk, so the final-chunk marker is m=0.
	if !strings.Contains(out, "m=0;") {
		t.Fatalf("expected single-chunk m=0 marker, got: %q", out)
	}
}

func TestPreviewFallsBackToHalfBlocks(t *testing.T) {
	clearPreviewEnv(t)
	t.Setenv("GDFX_NO_CHAFA", "1")

	bm, err := gdimg.New(2, 2)
	if err != nil {
		t.Fatal(err)
	}
	for x := 0; x < 2; x++ {
		bm.SetPixel(x, 0, gdimg.ColorSpec{R: 255})
		bm.SetPixel(x, 1, gdimg.ColorSpec{B: 255})
	}
	out := captureStdout(t, func() error { return PreviewBitmap(bm, "png") })

	for _, want := range []string{"\x1b[38;2;255;0;0m", "\x1b[48;2;0;0;255m", "▀"} {
		if !strings.Contains(out, want) {
			t.Fatalf("half-block output missing %q: %q", want, out)
		}
	}
}

func TestHalfBlocksTransparentTop(t *testing.T) {
	clearPreviewEnv(t)
	t.Setenv("GDFX_NO_CHAFA", "1")

	bm, err := gdimg.New(1, 2)
	if err != nil {
		t.Fatal(err)
	}
	bm.SetPixel(0, 1, gdimg.ColorSpec{G: 255})
	out := captureStdout(t, func() error { return PreviewBitmap(bm, "png") })

	if !strings.Contains(out, "▄") {
		t.Fatalf("expected lower half-block for transparent top, got: %q", out)
	}
	if !strings.Contains(out, "\x1b[38;2;0;255;0m") {
		t.Fatalf("expected green foreground, got: %q", out)
	}
}

func TestPreviewSupportedDetection(t *testing.T) {
	clearPreviewEnv(t)
	t.Setenv("GDFX_NO_CHAFA", "1")
	if PreviewSupported() {
		t.Fatalf("expected no preview support in a bare environment")
	}

	t.Setenv("TERM_PROGRAM", "iTerm.app")
	if !PreviewSupported() {
		t.Fatalf("expected inline support with TERM_PROGRAM=iTerm.app")
	}
}

func TestComputePreviewSize(t *testing.T) {
	cases := []struct {
		w, h       int
		cols, rows int
	}{
		{640, 320, 80, 20},
		{6400, 6400, 80, 40},
		{800, 1600, 40, 40},
		{16, 16, 6, 3},
		{2, 2, 6, 3},
	}
	for _, c := range cases {
		got := computePreviewSize(c.w, c.h)
		if got.Cols != c.cols || got.Rows != c.rows {
			t.Fatalf("computePreviewSize(%d,%d) = %dx%d cells, want %dx%d",
				c.w, c.h, got.Cols, got.Rows, c.cols, c.rows)
		}
		if got.PixelWidth != got.Cols*8 || got.PixelHeight != got.Rows*16 {
			t.Fatalf("computePreviewSize(%d,%d) pixel size %dx%d inconsistent with cells",
				c.w, c.h, got.PixelWidth, got.PixelHeight)
		}
	}
}

func TestPostImageNewlines(t *testing.T) {
	cases := map[int]int{0: 1, 1: 1, 2: 1, 3: 2, 6: 2, 7: 3, 20: 3, 21: 4, 40: 4}
	for rows, want := range cases {
		if got := postImageNewlines(rows); got != want {
			t.Fatalf("postImageNewlines(%d) = %d, want %d", rows, got, want)
		}
	}
}
