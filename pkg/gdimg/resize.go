package gdimg

import (
	"fmt"
	"image"
	"math"

	"github.com/disintegration/imaging"
)

// Resize resamples the bitmap to exactly width x height (Lanczos) and
// returns a new canvas.
func Resize(bm *Bitmap, width, height int) (*Bitmap, error) {
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("resize dimensions must be positive, got %dx%d", width, height)
	}
	out := FromImage(imaging.Resize(bm.rawNRGBA(), width, height, imaging.Lanczos))
	out.SetSaveAlpha(true)
	return out, nil
}

// FitToWidth scales the bitmap to the given width, keeping aspect ratio.
func FitToWidth(bm *Bitmap, width int) (*Bitmap, error) {
	if width < 1 {
		return nil, fmt.Errorf("fit width must be positive, got %d", width)
	}
	height := int(math.Round(float64(width) * float64(bm.Height()) / float64(bm.Width())))
	if height < 1 {
		height = 1
	}
	return Resize(bm, width, height)
}

// FitToHeight scales the bitmap to the given height, keeping aspect ratio.
func FitToHeight(bm *Bitmap, height int) (*Bitmap, error) {
	if height < 1 {
		return nil, fmt.Errorf("fit height must be positive, got %d", height)
	}
	width := int(math.Round(float64(height) * float64(bm.Width()) / float64(bm.Height())))
	if width < 1 {
		width = 1
	}
	return Resize(bm, width, height)
}

// BestFit shrinks the bitmap proportionally until it fits inside
// maxWidth x maxHeight. A bitmap that already fits is returned as-is, the
// same handle, with no allocation.
func BestFit(bm *Bitmap, maxWidth, maxHeight int) (*Bitmap, error) {
	if maxWidth < 1 || maxHeight < 1 {
		return nil, fmt.Errorf("best-fit bounds must be positive, got %dx%d", maxWidth, maxHeight)
	}
	w := bm.Width()
	h := bm.Height()
	if w <= maxWidth && h <= maxHeight {
		return bm, nil
	}
	ratio := math.Min(float64(maxWidth)/float64(w), float64(maxHeight)/float64(h))
	nw := int(math.Round(float64(w) * ratio))
	nh := int(math.Round(float64(h) * ratio))
	if nw < 1 {
		nw = 1
	}
	if nh < 1 {
		nh = 1
	}
	return Resize(bm, nw, nh)
}

// Thumbnail crops the bitmap to cover width x height (centered) and
// resamples it to exactly that size. A height of 0 makes a square.
func Thumbnail(bm *Bitmap, width, height int) (*Bitmap, error) {
	if height == 0 {
		height = width
	}
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("thumbnail dimensions must be positive, got %dx%d", width, height)
	}
	out := FromImage(imaging.Fill(bm.rawNRGBA(), width, height, imaging.Center, imaging.Lanczos))
	out.SetSaveAlpha(true)
	return out, nil
}

// Crop cuts the rectangle spanned by the two corners and returns it as a
// new canvas. Corner order does not matter; coordinates clamp to the
// canvas. An empty region after clamping is an error.
func Crop(bm *Bitmap, x1, y1, x2, y2 int) (*Bitmap, error) {
	if x2 < x1 {
		x1, x2 = x2, x1
	}
	if y2 < y1 {
		y1, y2 = y2, y1
	}
	x1 = clampInt(x1, 0, bm.Width())
	x2 = clampInt(x2, 0, bm.Width())
	y1 = clampInt(y1, 0, bm.Height())
	y2 = clampInt(y2, 0, bm.Height())
	if x2-x1 < 1 || y2-y1 < 1 {
		return nil, fmt.Errorf("empty crop region (%d,%d)-(%d,%d)", x1, y1, x2, y2)
	}
	out := FromImage(imaging.Crop(bm.rawNRGBA(), image.Rect(x1, y1, x2, y2)))
	out.SetSaveAlpha(true)
	return out, nil
}

// SquareCrop cuts the largest centered square.
func SquareCrop(bm *Bitmap) (*Bitmap, error) {
	size := minInt(bm.Width(), bm.Height())
	x := (bm.Width() - size) / 2
	y := (bm.Height() - size) / 2
	return Crop(bm, x, y, x+size, y+size)
}
