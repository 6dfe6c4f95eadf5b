package gdimg

import (
	"errors"
)

// ErrUnsupportedFilter reports a filter kind the backend does not implement.
var ErrUnsupportedFilter = errors.New("unsupported filter kind")

// FilterKind names a primitive in-place effect. The first block mirrors the
// classic GD filter set; the kinds after it are extensions served by the
// built-in backend.
type FilterKind int

const (
	FilterNegate FilterKind = iota
	FilterGrayscale
	FilterBrightness
	FilterContrast
	FilterColorize
	FilterEdgeDetect
	FilterEmboss
	FilterGaussianBlur
	FilterSelectiveBlur
	FilterMeanRemoval
	FilterSmooth
	FilterPixelate

	FilterSharpen
	FilterSobel
	FilterDilate
	FilterErode
	FilterBoxBlur
	FilterGamma
	FilterSaturation
	FilterHue
)

var filterNames = map[FilterKind]string{
	FilterNegate:        "negate",
	FilterGrayscale:     "grayscale",
	FilterBrightness:    "brightness",
	FilterContrast:      "contrast",
	FilterColorize:      "colorize",
	FilterEdgeDetect:    "edgedetect",
	FilterEmboss:        "emboss",
	FilterGaussianBlur:  "gaussianblur",
	FilterSelectiveBlur: "selectiveblur",
	FilterMeanRemoval:   "meanremoval",
	FilterSmooth:        "smooth",
	FilterPixelate:      "pixelate",
	FilterSharpen:       "sharpen",
	FilterSobel:         "sobel",
	FilterDilate:        "dilate",
	FilterErode:         "erode",
	FilterBoxBlur:       "boxblur",
	FilterGamma:         "gamma",
	FilterSaturation:    "saturation",
	FilterHue:           "hue",
}

func (k FilterKind) String() string {
	if name, ok := filterNames[k]; ok {
		return name
	}
	return "unknown"
}

// FilterFunc applies a named primitive effect to the bitmap in place. It is
// the pluggable capability behind every single-pass effect: Engine uses the
// built-in ApplyFilter unless a caller injects something else (a native
// backend, or a recording fake in tests). Implementations mutate pixel data
// and never reallocate the bitmap.
type FilterFunc func(bm *Bitmap, kind FilterKind, args ...int) error
