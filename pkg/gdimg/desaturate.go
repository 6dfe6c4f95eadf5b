package gdimg

import (
	"image"
)

// Desaturate reduces color saturation by percent (clamped to 0..100).
//
// The return value is asymmetric, and callers rely on it to know whether
// the original handle is still the current canvas:
//
//   - percent == 100: the bitmap is grayscaled in place and returned
//     unchanged (the same handle, no allocation).
//   - percent < 100: a raw (unblended) copy of the canvas is grayscaled,
//     then merged over the ORIGINAL at opacity=percent through MergeAlpha,
//     mutating the original; the grayscale COPY is returned as the new
//     current bitmap.
func (e *Engine) Desaturate(bm *Bitmap, percent int) (*Bitmap, error) {
	pct := ClampPercent(percent)
	if pct == 100 {
		if err := e.filter()(bm, FilterGrayscale); err != nil {
			return nil, err
		}
		return bm, nil
	}
	gray := bm.Clone()
	gray.SetAlphaBlending(false)
	gray.SetSaveAlpha(true)
	if err := e.filter()(gray, FilterGrayscale); err != nil {
		return nil, err
	}
	size := image.Pt(bm.Width(), bm.Height())
	if err := MergeAlpha(bm, gray, image.Point{}, image.Point{}, size, float64(pct)); err != nil {
		return nil, err
	}
	return gray, nil
}

// Opacity re-renders the bitmap at the given opacity onto a fresh, fully
// transparent canvas and returns the new bitmap; the source is not
// modified. The value accepts a 0..1 fraction or a 0..100 percentage
// (ClampOpacity).
func (e *Engine) Opacity(bm *Bitmap, opacity float64) (*Bitmap, error) {
	pct := ClampOpacity(opacity)
	out, err := New(bm.Width(), bm.Height())
	if err != nil {
		return nil, err
	}
	size := image.Pt(bm.Width(), bm.Height())
	if err := MergeAlpha(out, bm, image.Point{}, image.Point{}, size, pct); err != nil {
		return nil, err
	}
	return out, nil
}
