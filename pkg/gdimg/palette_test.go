package gdimg

import (
	"math"
	"testing"
)

func TestDominantColorsOrdersByCount(t *testing.T) {
	bm, _ := New(10, 10)
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			i := bm.PixOffset(x, y)
			if y < 6 {
				bm.Pix[i+0] = 255 // quantizes to 0xf00000
			} else {
				bm.Pix[i+2] = 255 // quantizes to 0x0000f0
			}
			bm.Pix[i+3] = alphaOpaque
		}
	}
	entries := DominantColors(bm, 5)
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].Hex != "#f00000" || entries[0].Count != 60 {
		t.Fatalf("first entry %+v, want red with 60 pixels", entries[0])
	}
	if entries[1].Hex != "#0000f0" || entries[1].Count != 40 {
		t.Fatalf("second entry %+v, want blue with 40 pixels", entries[1])
	}
	if math.Abs(entries[0].Share-0.6) > 1e-9 || math.Abs(entries[1].Share-0.4) > 1e-9 {
		t.Fatalf("shares %v / %v, want 0.6 / 0.4", entries[0].Share, entries[1].Share)
	}
}

func TestDominantColorsFoldsNearDuplicates(t *testing.T) {
	bm, _ := New(9, 1)
	reds := []ColorSpec{
		{240, 0, 0, alphaOpaque},
		{240, 16, 0, alphaOpaque},
		{0, 0, 240, alphaOpaque},
	}
	for x := 0; x < 9; x++ {
		c := reds[x%3]
		i := bm.PixOffset(x, 0)
		bm.Pix[i+0] = c.R
		bm.Pix[i+1] = c.G
		bm.Pix[i+2] = c.B
		bm.Pix[i+3] = c.A
	}
	entries := DominantColors(bm, 5)
	if len(entries) != 2 {
		t.Fatalf("near-identical reds were not folded: %+v", entries)
	}
	if entries[0].Count != 6 {
		t.Fatalf("folded red count %d, want 6", entries[0].Count)
	}
}

func TestDominantColorsSkipsTransparent(t *testing.T) {
	bm, _ := New(4, 4) // fully transparent
	if entries := DominantColors(bm, 3); entries != nil {
		t.Fatalf("transparent-only bitmap produced %+v", entries)
	}
}

func TestDominantColorsLimit(t *testing.T) {
	bm := makeGradientBitmap(16, 16)
	entries := DominantColors(bm, 3)
	if len(entries) > 3 {
		t.Fatalf("asked for 3 colors, got %d", len(entries))
	}
	for i := 1; i < len(entries); i++ {
		if entries[i].Count > entries[i-1].Count {
			t.Fatalf("entries not sorted by count: %+v", entries)
		}
	}
}
