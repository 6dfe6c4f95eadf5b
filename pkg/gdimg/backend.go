package gdimg

import (
	"fmt"
	"image"
	"math"

	"github.com/anthonynsimon/bild/adjust"
	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/effect"
)

// Kernels for the convolution-backed GD filter kinds.
var (
	kernelEdgeDetect  = [3][3]float64{{-1, 0, -1}, {0, 4, 0}, {-1, 0, -1}}
	kernelEmboss      = [3][3]float64{{1.5, 0, 0}, {0, 0, 0}, {0, 0, -1.5}}
	kernelGaussian    = [3][3]float64{{1, 2, 1}, {2, 4, 2}, {1, 2, 1}}
	kernelMeanRemoval = [3][3]float64{{-1, -1, -1}, {-1, 9, -1}, {-1, -1, -1}}
)

// smoothWeight is the center weight of the smooth kernel. The pass count is
// caller-controlled; the kernel itself is a backend constant.
const smoothWeight = 4

// ApplyFilter is the built-in FilterFunc. The classic kinds follow the GD
// kernel definitions and operate directly in the 0..127 alpha domain,
// preserving per-pixel alpha; float results round half away from zero. The
// extended kinds bridge through standard NRGBA to an image-effects library.
// Unknown kinds fail with ErrUnsupportedFilter.
func ApplyFilter(bm *Bitmap, kind FilterKind, args ...int) error {
	if bm == nil {
		return fmt.Errorf("filter target is nil")
	}
	switch kind {
	case FilterNegate:
		negate(bm)
		return nil
	case FilterGrayscale:
		grayscale(bm)
		return nil
	case FilterBrightness:
		brightness(bm, ClampBrightness(argOr(args, 0, 0)))
		return nil
	case FilterContrast:
		contrast(bm, ClampContrast(argOr(args, 0, 0)))
		return nil
	case FilterColorize:
		if len(args) < 3 {
			return fmt.Errorf("colorize needs r, g, b and optionally alpha, got %d args", len(args))
		}
		colorize(bm, args[0], args[1], args[2], argOr(args, 3, 0))
		return nil
	case FilterEdgeDetect:
		convolve3x3(bm, kernelEdgeDetect, 1, 127)
		return nil
	case FilterEmboss:
		convolve3x3(bm, kernelEmboss, 1, 127)
		return nil
	case FilterGaussianBlur:
		convolve3x3(bm, kernelGaussian, 16, 0)
		return nil
	case FilterSelectiveBlur:
		// stands in for GD's adaptive blur with a radius-1 box pass
		return bridgeNRGBA(bm, func(img image.Image) *image.NRGBA {
			return blur.Box(img, 1)
		})
	case FilterMeanRemoval:
		convolve3x3(bm, kernelMeanRemoval, 1, 0)
		return nil
	case FilterSmooth:
		w := float64(argOr(args, 0, smoothWeight))
		convolve3x3(bm, [3][3]float64{{1, 1, 1}, {1, w, 1}, {1, 1, 1}}, w+8, 0)
		return nil
	case FilterPixelate:
		block := argOr(args, 0, 1)
		if block < 1 {
			block = 1
		}
		pixelate(bm, block)
		return nil
	case FilterSharpen:
		return bridgeNRGBA(bm, effect.Sharpen)
	case FilterSobel:
		return bridgeNRGBA(bm, effect.Sobel)
	case FilterDilate:
		r := float64(argOr(args, 0, 1))
		return bridgeNRGBA(bm, func(img image.Image) *image.NRGBA {
			return effect.Dilate(img, r)
		})
	case FilterErode:
		r := float64(argOr(args, 0, 1))
		return bridgeNRGBA(bm, func(img image.Image) *image.NRGBA {
			return effect.Erode(img, r)
		})
	case FilterBoxBlur:
		r := float64(argOr(args, 0, 1))
		return bridgeNRGBA(bm, func(img image.Image) *image.NRGBA {
			return blur.Box(img, r)
		})
	case FilterGamma:
		// arg is gamma x100, e.g. 220 for 2.2
		g := float64(argOr(args, 0, 100)) / 100
		if g <= 0 {
			g = 1
		}
		return bridgeNRGBA(bm, func(img image.Image) *image.NRGBA {
			return adjust.Gamma(img, g)
		})
	case FilterSaturation:
		change := float64(clampInt(argOr(args, 0, 0), -100, 100)) / 100
		return bridgeNRGBA(bm, func(img image.Image) *image.NRGBA {
			return adjust.Saturation(img, change)
		})
	case FilterHue:
		deg := argOr(args, 0, 0)
		return bridgeNRGBA(bm, func(img image.Image) *image.NRGBA {
			return adjust.Hue(img, deg)
		})
	default:
		return fmt.Errorf("%w: %v", ErrUnsupportedFilter, kind)
	}
}

func argOr(args []int, i, def int) int {
	if i < len(args) {
		return args[i]
	}
	return def
}

// bridgeNRGBA routes the bitmap through a transform working in standard
// 8-bit alpha and writes the result back into the 0..127 domain. Only used
// for kinds whose pixels the package does not pin exactly.
func bridgeNRGBA(bm *Bitmap, fn func(image.Image) *image.NRGBA) error {
	out := fn(bm.rawNRGBA())
	if out == nil {
		return fmt.Errorf("filter produced no image")
	}
	return bm.setFromNRGBA(out)
}

func negate(bm *Bitmap) {
	for i := 0; i < len(bm.Pix); i += 4 {
		bm.Pix[i+0] = 255 - bm.Pix[i+0]
		bm.Pix[i+1] = 255 - bm.Pix[i+1]
		bm.Pix[i+2] = 255 - bm.Pix[i+2]
	}
}

func grayscale(bm *Bitmap) {
	for i := 0; i < len(bm.Pix); i += 4 {
		gray := clampRound255(0.299*float64(bm.Pix[i+0]) + 0.587*float64(bm.Pix[i+1]) + 0.114*float64(bm.Pix[i+2]))
		bm.Pix[i+0] = gray
		bm.Pix[i+1] = gray
		bm.Pix[i+2] = gray
	}
}

func brightness(bm *Bitmap, level int) {
	if level == 0 {
		return
	}
	for i := 0; i < len(bm.Pix); i += 4 {
		bm.Pix[i+0] = uint8(clampInt(int(bm.Pix[i+0])+level, 0, 255))
		bm.Pix[i+1] = uint8(clampInt(int(bm.Pix[i+1])+level, 0, 255))
		bm.Pix[i+2] = uint8(clampInt(int(bm.Pix[i+2])+level, 0, 255))
	}
}

// contrast follows the GD curve: positive levels flatten toward mid-gray,
// negative levels steepen. The factor ((100-level)/100)^2 scales each
// channel's distance from 0.5.
func contrast(bm *Bitmap, level int) {
	f := (100.0 - float64(level)) / 100.0
	f *= f
	for i := 0; i < len(bm.Pix); i += 4 {
		for c := 0; c < 3; c++ {
			v := (float64(bm.Pix[i+c])/255.0-0.5)*f + 0.5
			bm.Pix[i+c] = clampRound255(v * 255.0)
		}
	}
}

// colorize shifts each channel additively; the alpha argument shifts the
// 0..127 alpha byte the same way.
func colorize(bm *Bitmap, r, g, b, a int) {
	for i := 0; i < len(bm.Pix); i += 4 {
		bm.Pix[i+0] = uint8(clampInt(int(bm.Pix[i+0])+r, 0, 255))
		bm.Pix[i+1] = uint8(clampInt(int(bm.Pix[i+1])+g, 0, 255))
		bm.Pix[i+2] = uint8(clampInt(int(bm.Pix[i+2])+b, 0, 255))
		bm.Pix[i+3] = uint8(clampInt(int(bm.Pix[i+3])+a, 0, alphaTransparent))
	}
}

// pixelate averages each block x block cell (RGBA, partial cells at the
// right/bottom edges average over what remains) and writes the average back
// over the whole cell.
func pixelate(bm *Bitmap, block int) {
	if block <= 1 {
		return
	}
	w := bm.width
	h := bm.height
	for by := 0; by < h; by += block {
		for bx := 0; bx < w; bx += block {
			x1 := minInt(bx+block, w)
			y1 := minInt(by+block, h)
			var tr, tg, tb, ta, n int
			for y := by; y < y1; y++ {
				for x := bx; x < x1; x++ {
					i := bm.PixOffset(x, y)
					tr += int(bm.Pix[i+0])
					tg += int(bm.Pix[i+1])
					tb += int(bm.Pix[i+2])
					ta += int(bm.Pix[i+3])
					n++
				}
			}
			r := uint8(math.Round(float64(tr) / float64(n)))
			g := uint8(math.Round(float64(tg) / float64(n)))
			b := uint8(math.Round(float64(tb) / float64(n)))
			a := uint8(math.Round(float64(ta) / float64(n)))
			for y := by; y < y1; y++ {
				for x := bx; x < x1; x++ {
					i := bm.PixOffset(x, y)
					bm.Pix[i+0] = r
					bm.Pix[i+1] = g
					bm.Pix[i+2] = b
					bm.Pix[i+3] = a
				}
			}
		}
	}
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
