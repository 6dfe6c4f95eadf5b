package gdimg

import (
	"bytes"
	"errors"
	"testing"
)

func TestFillCoversEveryPixel(t *testing.T) {
	bm, _ := New(10, 10)
	if err := Fill(bm, "#336699"); err != nil {
		t.Fatalf("fill failed: %v", err)
	}
	want := ColorSpec{51, 102, 153, alphaOpaque}
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			if got := bm.GetPixel(x, y); got != want {
				t.Fatalf("pixel (%d,%d) = %+v, want %+v", x, y, got, want)
			}
		}
	}
}

func TestFillKeepsRequestedAlpha(t *testing.T) {
	bm := makeSolidBitmap(3, 3, ColorSpec{9, 9, 9, 0})
	bm.SetAlphaBlending(true)
	if err := Fill(bm, []int{1, 2, 3, 64}); err != nil {
		t.Fatalf("fill failed: %v", err)
	}
	if got := bm.GetPixel(1, 1); got != (ColorSpec{1, 2, 3, 64}) {
		t.Fatalf("fill stored %+v, want the raw color", got)
	}
	if bm.AlphaBlending() || !bm.SaveAlpha() {
		t.Fatalf("fill left flags blending=%v saveAlpha=%v", bm.AlphaBlending(), bm.SaveAlpha())
	}
}

func TestFillRejectsBadColor(t *testing.T) {
	bm := makeSolidBitmap(2, 2, ColorSpec{5, 5, 5, 5})
	snapshot := append([]uint8(nil), bm.Pix...)
	if err := Fill(bm, "nope"); !errors.Is(err, ErrInvalidColorFormat) {
		t.Fatalf("got %v, want color format error", err)
	}
	if !bytes.Equal(bm.Pix, snapshot) {
		t.Fatalf("failed fill modified pixels")
	}
}
