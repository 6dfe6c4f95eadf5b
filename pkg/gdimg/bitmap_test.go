package gdimg

import (
	"image"
	"image/color"
	"testing"
)

func makeSolidBitmap(w, h int, c ColorSpec) *Bitmap {
	bm, _ := New(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := bm.PixOffset(x, y)
			bm.Pix[i+0] = c.R
			bm.Pix[i+1] = c.G
			bm.Pix[i+2] = c.B
			bm.Pix[i+3] = c.A
		}
	}
	return bm
}

func TestNewStartsTransparent(t *testing.T) {
	bm, err := New(4, 3)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if bm.Width() != 4 || bm.Height() != 3 {
		t.Fatalf("unexpected dimensions %dx%d", bm.Width(), bm.Height())
	}
	for i := 0; i < len(bm.Pix); i += 4 {
		if bm.Pix[i] != 0 || bm.Pix[i+1] != 0 || bm.Pix[i+2] != 0 || bm.Pix[i+3] != alphaTransparent {
			t.Fatalf("pixel %d not transparent: %v", i/4, bm.Pix[i:i+4])
		}
	}
	if !bm.SaveAlpha() || bm.AlphaBlending() {
		t.Fatalf("unexpected flag defaults: saveAlpha=%v blending=%v", bm.SaveAlpha(), bm.AlphaBlending())
	}
}

func TestNewRejectsBadDimensions(t *testing.T) {
	for _, dims := range [][2]int{{0, 5}, {5, 0}, {-1, 5}, {5, -1}} {
		if _, err := New(dims[0], dims[1]); err == nil {
			t.Fatalf("expected error for %dx%d", dims[0], dims[1])
		}
	}
}

func TestAlphaConversionRoundtrip(t *testing.T) {
	for a := 0; a <= int(alphaTransparent); a++ {
		got := toGDAlpha(toStdAlpha(uint8(a)))
		if got != uint8(a) {
			t.Fatalf("alpha %d roundtripped to %d", a, got)
		}
	}
	if toStdAlpha(alphaOpaque) != 255 || toStdAlpha(alphaTransparent) != 0 {
		t.Fatalf("endpoint conversion wrong: %d %d", toStdAlpha(alphaOpaque), toStdAlpha(alphaTransparent))
	}
}

func TestFromImageConvertsAlpha(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	img.SetNRGBA(0, 0, color.NRGBA{R: 10, G: 20, B: 30, A: 255})
	img.SetNRGBA(1, 0, color.NRGBA{R: 40, G: 50, B: 60, A: 0})
	bm := FromImage(img)
	if bm == nil {
		t.Fatalf("FromImage returned nil")
	}
	if got := bm.GetPixel(0, 0); got != (ColorSpec{10, 20, 30, alphaOpaque}) {
		t.Fatalf("opaque pixel converted to %+v", got)
	}
	if got := bm.GetPixel(1, 0); got != (ColorSpec{40, 50, 60, alphaTransparent}) {
		t.Fatalf("transparent pixel converted to %+v", got)
	}
}

func TestSetPixelBlending(t *testing.T) {
	bm := makeSolidBitmap(1, 1, ColorSpec{10, 20, 30, 100})

	bm.SetPixel(0, 0, ColorSpec{200, 100, 50, 32})
	if got := bm.GetPixel(0, 0); got != (ColorSpec{200, 100, 50, 32}) {
		t.Fatalf("raw set stored %+v", got)
	}

	bm = makeSolidBitmap(1, 1, ColorSpec{10, 20, 30, 100})
	bm.SetAlphaBlending(true)
	bm.SetPixel(0, 0, ColorSpec{200, 100, 50, 32})
	if got := bm.GetPixel(0, 0); got != (ColorSpec{152, 80, 45, 25}) {
		t.Fatalf("blended set stored %+v, want {152 80 45 25}", got)
	}
}

func TestSetPixelIgnoresOutOfBounds(t *testing.T) {
	bm := makeSolidBitmap(2, 2, ColorSpec{1, 2, 3, 0})
	bm.SetPixel(-1, 0, ColorSpec{R: 255})
	bm.SetPixel(0, 5, ColorSpec{R: 255})
	if got := bm.GetPixel(-1, 0); got != (ColorSpec{}) {
		t.Fatalf("out-of-bounds get returned %+v", got)
	}
	for i := 0; i < len(bm.Pix); i += 4 {
		if bm.Pix[i] != 1 {
			t.Fatalf("out-of-bounds set modified pixel %d", i/4)
		}
	}
}

func TestCloneIsIndependent(t *testing.T) {
	bm := makeSolidBitmap(2, 2, ColorSpec{5, 6, 7, 8})
	bm.SetAlphaBlending(true)
	cl := bm.Clone()
	if !cl.AlphaBlending() || !cl.SaveAlpha() {
		t.Fatalf("clone dropped flags")
	}
	cl.Pix[0] = 99
	if bm.Pix[0] != 5 {
		t.Fatalf("mutating clone touched the original")
	}
}

func TestToNRGBAHonorsSaveAlpha(t *testing.T) {
	bm := makeSolidBitmap(1, 1, ColorSpec{10, 20, 30, 64})

	bm.SetSaveAlpha(true)
	img := bm.ToNRGBA()
	if img.Pix[3] != toStdAlpha(64) {
		t.Fatalf("saveAlpha on: got alpha %d, want %d", img.Pix[3], toStdAlpha(64))
	}

	bm.SetSaveAlpha(false)
	img = bm.ToNRGBA()
	if img.Pix[3] != 255 {
		t.Fatalf("saveAlpha off: got alpha %d, want 255", img.Pix[3])
	}
}

func TestImageInterface(t *testing.T) {
	bm := makeSolidBitmap(3, 2, ColorSpec{100, 110, 120, 0})
	if bm.Bounds() != image.Rect(0, 0, 3, 2) {
		t.Fatalf("unexpected bounds %v", bm.Bounds())
	}
	c := bm.At(1, 1).(color.NRGBA)
	if c.A != 255 || c.R != 100 {
		t.Fatalf("At returned %+v", c)
	}
	bm.Set(1, 1, color.NRGBA{R: 1, G: 2, B: 3, A: 0})
	if got := bm.GetPixel(1, 1); got != (ColorSpec{1, 2, 3, alphaTransparent}) {
		t.Fatalf("Set stored %+v", got)
	}
}

func TestSetFromNRGBARejectsMismatch(t *testing.T) {
	bm := makeSolidBitmap(2, 2, ColorSpec{})
	if err := bm.setFromNRGBA(image.NewNRGBA(image.Rect(0, 0, 3, 2))); err == nil {
		t.Fatalf("expected dimension mismatch error")
	}
}
