package gdimg

import (
	"math"
	"strings"
)

// BlurKind selects the blur primitive. Anything other than "gaussian"
// resolves to selective, matching the permissive behavior of the original
// API family.
type BlurKind int

const (
	BlurSelective BlurKind = iota
	BlurGaussian
)

// ParseBlurKind maps a textual blur type to a BlurKind. It is total:
// unrecognized strings mean selective.
func ParseBlurKind(s string) BlurKind {
	if strings.EqualFold(strings.TrimSpace(s), "gaussian") {
		return BlurGaussian
	}
	return BlurSelective
}

// Engine applies the operation surface to bitmaps. Filter is the injected
// "apply named filter" capability; the zero value and NewEngine both use
// the built-in backend. Tests substitute a fake to observe dispatches
// without touching pixels.
type Engine struct {
	Filter FilterFunc
}

// NewEngine returns an Engine wired to the built-in filter backend.
func NewEngine() *Engine {
	return &Engine{Filter: ApplyFilter}
}

func (e *Engine) filter() FilterFunc {
	if e != nil && e.Filter != nil {
		return e.Filter
	}
	return ApplyFilter
}

// Grayscale converts the bitmap to gray levels in place.
func (e *Engine) Grayscale(bm *Bitmap) error {
	return e.filter()(bm, FilterGrayscale)
}

// Sepia applies a warm-toned monochrome: grayscale followed by a fixed
// additive colorize of (100, 50, 0).
func (e *Engine) Sepia(bm *Bitmap) error {
	if err := e.filter()(bm, FilterGrayscale); err != nil {
		return err
	}
	return e.filter()(bm, FilterColorize, 100, 50, 0, 0)
}

// Invert negates every color channel in place.
func (e *Engine) Invert(bm *Bitmap) error {
	return e.filter()(bm, FilterNegate)
}

// Emboss applies the emboss kernel in place.
func (e *Engine) Emboss(bm *Bitmap) error {
	return e.filter()(bm, FilterEmboss)
}

// Edges applies the edge-detect kernel in place.
func (e *Engine) Edges(bm *Bitmap) error {
	return e.filter()(bm, FilterEdgeDetect)
}

// MeanRemove applies the mean-removal (sharpening) kernel in place.
func (e *Engine) MeanRemove(bm *Bitmap) error {
	return e.filter()(bm, FilterMeanRemoval)
}

// Pixelate replaces block x block cells with their average color. Block
// sizes below 1 are treated as 1 (identity).
func (e *Engine) Pixelate(bm *Bitmap, block int) error {
	if block < 1 {
		block = 1
	}
	return e.filter()(bm, FilterPixelate, block)
}

// Blur applies the selected blur primitive passes times. Each pass is an
// independent full-image application, not a composed kernel. The pass count
// clamps to at least 1.
func (e *Engine) Blur(bm *Bitmap, kind BlurKind, passes int) error {
	passes = ClampBlurPasses(passes)
	fk := FilterSelectiveBlur
	if kind == BlurGaussian {
		fk = FilterGaussianBlur
	}
	for i := 0; i < passes; i++ {
		if err := e.filter()(bm, fk); err != nil {
			return err
		}
	}
	return nil
}

// Smooth applies the smooth kernel passes times, the count clamped to
// 1..2048.
func (e *Engine) Smooth(bm *Bitmap, passes int) error {
	passes = ClampSmooth(passes)
	for i := 0; i < passes; i++ {
		if err := e.filter()(bm, FilterSmooth, smoothWeight); err != nil {
			return err
		}
	}
	return nil
}

// Brightness shifts all color channels by level, clamped to -255..255.
func (e *Engine) Brightness(bm *Bitmap, level int) error {
	return e.filter()(bm, FilterBrightness, ClampBrightness(level))
}

// Contrast adjusts contrast by level, clamped to -100..100. Following the
// underlying primitive's convention, negative levels increase contrast and
// positive levels flatten it.
func (e *Engine) Contrast(bm *Bitmap, level int) error {
	return e.filter()(bm, FilterContrast, ClampContrast(level))
}

// Colorize tints the bitmap toward the given color at the given opacity.
// The color accepts any form NormalizeColor does; its own alpha is ignored.
// The opacity accepts a 0..1 fraction or a 0..100 percentage and converts
// to the filter's 0..127 alpha argument as round((100-pct)/100*127).
func (e *Engine) Colorize(bm *Bitmap, colorValue any, opacity float64) error {
	spec, err := NormalizeColor(colorValue)
	if err != nil {
		return err
	}
	pct := ClampOpacity(opacity)
	alpha := int(math.Round((100 - pct) / 100 * alphaTransparent))
	return e.filter()(bm, FilterColorize, int(spec.R), int(spec.G), int(spec.B), alpha)
}

// Fill paints the whole canvas with the color; see the package function.
func (e *Engine) Fill(bm *Bitmap, colorValue any) error {
	return Fill(bm, colorValue)
}

// Flip mirrors the bitmap; see the package function.
func (e *Engine) Flip(bm *Bitmap, direction string) (*Bitmap, error) {
	return Flip(bm, direction)
}

// Rotate turns the bitmap; see the package function.
func (e *Engine) Rotate(bm *Bitmap, angle float64, bg any) (*Bitmap, error) {
	return Rotate(bm, angle, bg)
}

// Text draws a string onto the bitmap; see the package function.
func (e *Engine) Text(bm *Bitmap, text, fontPath string, size float64, x, y int, colorValue any) error {
	return Text(bm, text, fontPath, size, x, y, colorValue)
}

// Sharpen applies an unsharp-style sharpen.
func (e *Engine) Sharpen(bm *Bitmap) error {
	return e.filter()(bm, FilterSharpen)
}

// Sobel replaces the image with its Sobel gradient magnitude.
func (e *Engine) Sobel(bm *Bitmap) error {
	return e.filter()(bm, FilterSobel)
}

// Dilate grows bright regions by radius.
func (e *Engine) Dilate(bm *Bitmap, radius int) error {
	if radius < 1 {
		radius = 1
	}
	return e.filter()(bm, FilterDilate, radius)
}

// Erode shrinks bright regions by radius.
func (e *Engine) Erode(bm *Bitmap, radius int) error {
	if radius < 1 {
		radius = 1
	}
	return e.filter()(bm, FilterErode, radius)
}

// BoxBlur applies a single box blur of the given radius.
func (e *Engine) BoxBlur(bm *Bitmap, radius int) error {
	if radius < 1 {
		radius = 1
	}
	return e.filter()(bm, FilterBoxBlur, radius)
}

// Gamma applies gamma correction; 1.0 is identity.
func (e *Engine) Gamma(bm *Bitmap, gamma float64) error {
	if gamma <= 0 {
		gamma = 1
	}
	return e.filter()(bm, FilterGamma, int(math.Round(gamma*100)))
}

// Saturation adjusts color saturation by level in -100..100.
func (e *Engine) Saturation(bm *Bitmap, level int) error {
	return e.filter()(bm, FilterSaturation, clampInt(level, -100, 100))
}

// Hue rotates the hue wheel by degrees.
func (e *Engine) Hue(bm *Bitmap, degrees int) error {
	return e.filter()(bm, FilterHue, degrees)
}
