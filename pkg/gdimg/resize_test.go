package gdimg

import (
	"testing"
)

func TestResizeExactDimensions(t *testing.T) {
	bm := makeSolidBitmap(20, 10, ColorSpec{40, 80, 120, alphaOpaque})
	out, err := Resize(bm, 7, 5)
	if err != nil {
		t.Fatalf("resize failed: %v", err)
	}
	if out.Width() != 7 || out.Height() != 5 {
		t.Fatalf("resized to %dx%d, want 7x5", out.Width(), out.Height())
	}
	if got := out.GetPixel(3, 2); got != (ColorSpec{40, 80, 120, alphaOpaque}) {
		t.Fatalf("solid color did not survive resampling: %+v", got)
	}
}

func TestResizeRejectsBadDimensions(t *testing.T) {
	bm := makeSolidBitmap(4, 4, ColorSpec{})
	for _, dims := range [][2]int{{0, 5}, {5, 0}, {-3, 5}} {
		if _, err := Resize(bm, dims[0], dims[1]); err == nil {
			t.Fatalf("Resize(%d, %d) accepted", dims[0], dims[1])
		}
	}
}

func TestFitToWidthKeepsAspect(t *testing.T) {
	bm := makeSolidBitmap(100, 50, ColorSpec{1, 2, 3, alphaOpaque})
	out, err := FitToWidth(bm, 40)
	if err != nil {
		t.Fatalf("fit failed: %v", err)
	}
	if out.Width() != 40 || out.Height() != 20 {
		t.Fatalf("fit produced %dx%d, want 40x20", out.Width(), out.Height())
	}
}

func TestFitToHeightKeepsAspect(t *testing.T) {
	bm := makeSolidBitmap(50, 100, ColorSpec{1, 2, 3, alphaOpaque})
	out, err := FitToHeight(bm, 20)
	if err != nil {
		t.Fatalf("fit failed: %v", err)
	}
	if out.Width() != 10 || out.Height() != 20 {
		t.Fatalf("fit produced %dx%d, want 10x20", out.Width(), out.Height())
	}
}

func TestBestFitShrinksProportionally(t *testing.T) {
	bm := makeSolidBitmap(100, 50, ColorSpec{5, 5, 5, alphaOpaque})
	out, err := BestFit(bm, 50, 50)
	if err != nil {
		t.Fatalf("best fit failed: %v", err)
	}
	if out.Width() != 50 || out.Height() != 25 {
		t.Fatalf("best fit produced %dx%d, want 50x25", out.Width(), out.Height())
	}
}

func TestBestFitNeverGrows(t *testing.T) {
	bm := makeSolidBitmap(30, 20, ColorSpec{5, 5, 5, alphaOpaque})
	out, err := BestFit(bm, 100, 100)
	if err != nil {
		t.Fatalf("best fit failed: %v", err)
	}
	if out != bm {
		t.Fatalf("already-fitting bitmap was reallocated")
	}
}

func TestThumbnailSquareDefault(t *testing.T) {
	bm := makeSolidBitmap(20, 10, ColorSpec{9, 9, 9, alphaOpaque})
	out, err := Thumbnail(bm, 10, 0)
	if err != nil {
		t.Fatalf("thumbnail failed: %v", err)
	}
	if out.Width() != 10 || out.Height() != 10 {
		t.Fatalf("thumbnail produced %dx%d, want 10x10", out.Width(), out.Height())
	}
}

func TestCropSwapsAndClamps(t *testing.T) {
	bm := makeGradientBitmap(10, 10)

	out, err := Crop(bm, 8, 8, 2, 2)
	if err != nil {
		t.Fatalf("crop failed: %v", err)
	}
	if out.Width() != 6 || out.Height() != 6 {
		t.Fatalf("swapped crop produced %dx%d, want 6x6", out.Width(), out.Height())
	}
	if out.GetPixel(0, 0) != bm.GetPixel(2, 2) {
		t.Fatalf("crop content does not start at (2,2)")
	}

	out, err = Crop(bm, -5, -5, 5, 5)
	if err != nil {
		t.Fatalf("clamped crop failed: %v", err)
	}
	if out.Width() != 5 || out.Height() != 5 {
		t.Fatalf("clamped crop produced %dx%d, want 5x5", out.Width(), out.Height())
	}
}

func TestCropRejectsEmptyRegion(t *testing.T) {
	bm := makeGradientBitmap(10, 10)
	if _, err := Crop(bm, 12, 0, 15, 5); err == nil {
		t.Fatalf("crop fully outside the canvas accepted")
	}
	if _, err := Crop(bm, 3, 3, 3, 9); err == nil {
		t.Fatalf("zero-width crop accepted")
	}
}

func TestSquareCropCentered(t *testing.T) {
	bm := makeGradientBitmap(10, 4)
	out, err := SquareCrop(bm)
	if err != nil {
		t.Fatalf("square crop failed: %v", err)
	}
	if out.Width() != 4 || out.Height() != 4 {
		t.Fatalf("square crop produced %dx%d, want 4x4", out.Width(), out.Height())
	}
	if out.GetPixel(0, 0) != bm.GetPixel(3, 0) {
		t.Fatalf("square crop is not centered")
	}
}
