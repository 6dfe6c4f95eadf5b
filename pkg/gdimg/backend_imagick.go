//go:build imagick

package gdimg

import (
	"fmt"
	"image"
	"sync"

	"gopkg.in/gographics/imagick.v3/imagick"
)

// MagickFilter is an alternative FilterFunc backed by ImageMagick's
// MagickWand. It approximates the built-in backend with native
// primitives, so results can differ in detail; the pixel-exact reference
// remains ApplyFilter. Build with -tags imagick and a MagickWand
// installation.
//
// The MagickWand environment is initialized lazily on first use and left
// to the process to tear down.
func MagickFilter(bm *Bitmap, kind FilterKind, args ...int) error {
	magickOnce.Do(imagick.Initialize)

	mw := imagick.NewMagickWand()
	defer mw.Destroy()

	src := bm.rawNRGBA()
	w := uint(bm.Width())
	h := uint(bm.Height())
	if err := mw.ConstituteImage(w, h, "RGBA", imagick.PIXEL_CHAR, src.Pix); err != nil {
		return fmt.Errorf("failed to constitute wand image: %w", err)
	}

	var err error
	switch kind {
	case FilterNegate:
		err = mw.NegateImage(false)
	case FilterGrayscale:
		err = mw.TransformImageColorspace(imagick.COLORSPACE_GRAY)
	case FilterBrightness:
		// additive -255..255 mapped onto the wand's percent scale
		err = mw.BrightnessContrastImage(float64(argOr(args, 0, 0))/255*100, 0)
	case FilterContrast:
		// positive levels flatten here, the wand's sign runs the other way
		err = mw.BrightnessContrastImage(0, -float64(argOr(args, 0, 0)))
	case FilterColorize:
		if len(args) < 3 {
			return fmt.Errorf("colorize needs r, g, b args")
		}
		err = magickColorize(mw, args)
	case FilterEdgeDetect:
		err = mw.EdgeImage(1)
	case FilterEmboss:
		err = mw.EmbossImage(0, 1)
	case FilterGaussianBlur:
		err = mw.GaussianBlurImage(0, 1)
	case FilterBoxBlur:
		radius := float64(argOr(args, 0, 1))
		err = mw.BlurImage(radius, radius/2+0.5)
	case FilterSharpen:
		err = mw.SharpenImage(0, 1)
	case FilterGamma:
		gamma := float64(argOr(args, 0, 100)) / 100
		if gamma <= 0 {
			gamma = 1
		}
		err = mw.GammaImage(gamma)
	case FilterSaturation:
		err = mw.ModulateImage(100, 100+float64(argOr(args, 0, 0)), 100)
	case FilterHue:
		err = mw.ModulateImage(100, 100, 100+float64(argOr(args, 0, 0))*200/360)
	default:
		return fmt.Errorf("%w: %v has no wand equivalent", ErrUnsupportedFilter, kind)
	}
	if err != nil {
		return fmt.Errorf("wand %v failed: %w", kind, err)
	}

	raw, err := mw.ExportImagePixels(0, 0, w, h, "RGBA", imagick.PIXEL_CHAR)
	if err != nil {
		return fmt.Errorf("failed to export wand pixels: %w", err)
	}
	pix, ok := raw.([]uint8)
	if !ok || len(pix) != len(src.Pix) {
		return fmt.Errorf("unexpected wand pixel export shape")
	}
	out := &image.NRGBA{Pix: pix, Stride: src.Stride, Rect: src.Rect}
	return bm.setFromNRGBA(out)
}

// NewMagickEngine returns an engine dispatching through MagickFilter.
func NewMagickEngine() *Engine {
	return &Engine{Filter: MagickFilter}
}

var magickOnce sync.Once

func magickColorize(mw *imagick.MagickWand, args []int) error {
	tint := imagick.NewPixelWand()
	defer tint.Destroy()
	tint.SetRed(float64(clampInt(args[0], 0, 255)) / 255)
	tint.SetGreen(float64(clampInt(args[1], 0, 255)) / 255)
	tint.SetBlue(float64(clampInt(args[2], 0, 255)) / 255)

	// the fourth arg carries the 0..127 alpha, 0 meaning full strength
	strength := 1.0
	if len(args) > 3 {
		strength = 1 - float64(clampInt(args[3], 0, alphaTransparent))/float64(alphaTransparent)
	}
	blend := imagick.NewPixelWand()
	defer blend.Destroy()
	blend.SetRed(strength)
	blend.SetGreen(strength)
	blend.SetBlue(strength)
	blend.SetAlpha(strength)

	return mw.ColorizeImage(tint, blend)
}
