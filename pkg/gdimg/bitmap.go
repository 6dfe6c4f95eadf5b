package gdimg

import (
	"fmt"
	"image"
	"image/color"
	"math"
)

// Bitmap is an in-memory RGBA canvas using the GD alpha convention: the
// alpha byte ranges 0..127 where 0 is fully opaque and 127 is fully
// transparent. All operations in this package work directly in that domain;
// conversion to and from the standard library's 8-bit straight alpha happens
// only at the image.Image boundary (FromImage, ToNRGBA, At, Set).
type Bitmap struct {
	width  int
	height int
	// Pix holds the pixel data, 4 bytes per pixel in R, G, B, A order,
	// row-major. The alpha byte must stay within 0..127.
	Pix []uint8

	alphaBlending bool
	saveAlpha     bool
}

// New allocates a width x height canvas with every pixel initialized fully
// transparent (RGB 0, alpha 127). Alpha blending starts disabled and the
// alpha channel is marked to survive export, so a fresh canvas behaves like
// a transparent overlay target rather than an opaque black one.
func New(width, height int) (*Bitmap, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("bitmap dimensions must be positive, got %dx%d", width, height)
	}
	b := &Bitmap{
		width:     width,
		height:    height,
		Pix:       make([]uint8, width*height*4),
		saveAlpha: true,
	}
	for i := 3; i < len(b.Pix); i += 4 {
		b.Pix[i] = alphaTransparent
	}
	return b, nil
}

const (
	alphaOpaque      = 0
	alphaTransparent = 127
)

// toGDAlpha converts standard 8-bit alpha (255 opaque) to the 0..127 inverted
// convention. Rounds half away from zero; the two conversions round-trip.
func toGDAlpha(a8 uint8) uint8 {
	return uint8(math.Round(float64(255-a8) * 127.0 / 255.0))
}

// toStdAlpha converts 0..127 inverted alpha back to 8-bit straight alpha.
func toStdAlpha(a7 uint8) uint8 {
	return uint8(math.Round(float64(127-a7) * 255.0 / 127.0))
}

// FromImage decodes any image.Image into a Bitmap, converting alpha into the
// 0..127 domain. Returns nil for a nil source.
func FromImage(img image.Image) *Bitmap {
	if img == nil {
		return nil
	}
	bounds := img.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()
	if w <= 0 || h <= 0 {
		return nil
	}
	out, _ := New(w, h)
	if nrgba, ok := img.(*image.NRGBA); ok {
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				si := nrgba.PixOffset(bounds.Min.X+x, bounds.Min.Y+y)
				di := out.PixOffset(x, y)
				out.Pix[di+0] = nrgba.Pix[si+0]
				out.Pix[di+1] = nrgba.Pix[si+1]
				out.Pix[di+2] = nrgba.Pix[si+2]
				out.Pix[di+3] = toGDAlpha(nrgba.Pix[si+3])
			}
		}
		return out
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.NRGBAModel.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.NRGBA)
			di := out.PixOffset(x, y)
			out.Pix[di+0] = c.R
			out.Pix[di+1] = c.G
			out.Pix[di+2] = c.B
			out.Pix[di+3] = toGDAlpha(c.A)
		}
	}
	return out
}

// Width returns the canvas width in pixels.
func (b *Bitmap) Width() int { return b.width }

// Height returns the canvas height in pixels.
func (b *Bitmap) Height() int { return b.height }

// PixOffset returns the index of the first byte of the pixel at (x, y).
func (b *Bitmap) PixOffset(x, y int) int {
	return (y*b.width + x) * 4
}

// GetPixel returns the pixel at (x, y). Out-of-bounds coordinates return the
// zero ColorSpec.
func (b *Bitmap) GetPixel(x, y int) ColorSpec {
	if x < 0 || y < 0 || x >= b.width || y >= b.height {
		return ColorSpec{}
	}
	i := b.PixOffset(x, y)
	return ColorSpec{R: b.Pix[i+0], G: b.Pix[i+1], B: b.Pix[i+2], A: b.Pix[i+3]}
}

// SetPixel writes the pixel at (x, y). When alpha blending is enabled the
// incoming pixel is composited over the existing one using the same
// arithmetic as MergeAlpha at full opacity; otherwise it overwrites raw.
// Out-of-bounds coordinates are ignored.
func (b *Bitmap) SetPixel(x, y int, c ColorSpec) {
	if x < 0 || y < 0 || x >= b.width || y >= b.height {
		return
	}
	i := b.PixOffset(x, y)
	if b.alphaBlending {
		mergePixel(b.Pix, i, c.R, c.G, c.B, c.A, 100)
		return
	}
	b.Pix[i+0] = c.R
	b.Pix[i+1] = c.G
	b.Pix[i+2] = c.B
	b.Pix[i+3] = c.A
}

// Clone returns a full raw copy of the bitmap: pixel bytes are duplicated
// verbatim with no blending, and the blending/save-alpha flags carry over.
func (b *Bitmap) Clone() *Bitmap {
	out := &Bitmap{
		width:         b.width,
		height:        b.height,
		Pix:           make([]uint8, len(b.Pix)),
		alphaBlending: b.alphaBlending,
		saveAlpha:     b.saveAlpha,
	}
	copy(out.Pix, b.Pix)
	return out
}

// SetAlphaBlending toggles whether SetPixel composites over existing pixels.
func (b *Bitmap) SetAlphaBlending(on bool) { b.alphaBlending = on }

// AlphaBlending reports whether SetPixel composites over existing pixels.
func (b *Bitmap) AlphaBlending() bool { return b.alphaBlending }

// SetSaveAlpha toggles whether the alpha channel survives export. When off,
// ToNRGBA (and therefore every encoder) flattens the image to fully opaque.
func (b *Bitmap) SetSaveAlpha(on bool) { b.saveAlpha = on }

// SaveAlpha reports whether the alpha channel survives export.
func (b *Bitmap) SaveAlpha() bool { return b.saveAlpha }

// ColorModel implements image.Image.
func (b *Bitmap) ColorModel() color.Model { return color.NRGBAModel }

// Bounds implements image.Image.
func (b *Bitmap) Bounds() image.Rectangle { return image.Rect(0, 0, b.width, b.height) }

// At implements image.Image, converting alpha out of the 0..127 domain.
func (b *Bitmap) At(x, y int) color.Color {
	if x < 0 || y < 0 || x >= b.width || y >= b.height {
		return color.NRGBA{}
	}
	i := b.PixOffset(x, y)
	return color.NRGBA{R: b.Pix[i+0], G: b.Pix[i+1], B: b.Pix[i+2], A: toStdAlpha(b.Pix[i+3])}
}

// Set implements draw.Image with a raw store, converting alpha into the
// 0..127 domain. The standard draw routines compute their own blending, so
// Set never composites regardless of the blending flag.
func (b *Bitmap) Set(x, y int, c color.Color) {
	if x < 0 || y < 0 || x >= b.width || y >= b.height {
		return
	}
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	i := b.PixOffset(x, y)
	b.Pix[i+0] = n.R
	b.Pix[i+1] = n.G
	b.Pix[i+2] = n.B
	b.Pix[i+3] = toGDAlpha(n.A)
}

// ToNRGBA converts the bitmap to a standard *image.NRGBA. With save-alpha
// off the result is fully opaque.
func (b *Bitmap) ToNRGBA() *image.NRGBA {
	out := image.NewNRGBA(image.Rect(0, 0, b.width, b.height))
	for i, o := 0, 0; i < len(b.Pix); i, o = i+4, o+4 {
		out.Pix[o+0] = b.Pix[i+0]
		out.Pix[o+1] = b.Pix[i+1]
		out.Pix[o+2] = b.Pix[i+2]
		if b.saveAlpha {
			out.Pix[o+3] = toStdAlpha(b.Pix[i+3])
		} else {
			out.Pix[o+3] = 255
		}
	}
	return out
}

// rawNRGBA converts like ToNRGBA but always carries the alpha channel,
// regardless of the save-alpha flag. Internal bridges to libraries that
// compute in standard alpha use this so mid-pipeline transforms never
// flatten.
func (b *Bitmap) rawNRGBA() *image.NRGBA {
	out := image.NewNRGBA(image.Rect(0, 0, b.width, b.height))
	for i, o := 0, 0; i < len(b.Pix); i, o = i+4, o+4 {
		out.Pix[o+0] = b.Pix[i+0]
		out.Pix[o+1] = b.Pix[i+1]
		out.Pix[o+2] = b.Pix[i+2]
		out.Pix[o+3] = toStdAlpha(b.Pix[i+3])
	}
	return out
}

// setFromNRGBA overwrites the pixel buffer from a same-sized NRGBA image,
// converting alpha into the 0..127 domain. Used by backend filters that
// round-trip through libraries working in standard alpha.
func (b *Bitmap) setFromNRGBA(img *image.NRGBA) error {
	bounds := img.Bounds()
	if bounds.Dx() != b.width || bounds.Dy() != b.height {
		return fmt.Errorf("dimension mismatch: bitmap %dx%d, image %dx%d", b.width, b.height, bounds.Dx(), bounds.Dy())
	}
	for y := 0; y < b.height; y++ {
		for x := 0; x < b.width; x++ {
			si := img.PixOffset(bounds.Min.X+x, bounds.Min.Y+y)
			di := b.PixOffset(x, y)
			b.Pix[di+0] = img.Pix[si+0]
			b.Pix[di+1] = img.Pix[si+1]
			b.Pix[di+2] = img.Pix[si+2]
			b.Pix[di+3] = toGDAlpha(img.Pix[si+3])
		}
	}
	return nil
}
