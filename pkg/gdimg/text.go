package gdimg

import (
	"image"
	"log"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// Text draws a string onto the bitmap in place. The dot (x, y) is the
// baseline origin in pixel coordinates. fontPath may be empty to use the
// built-in basic font; size is in points and only applies to loaded
// fonts. Any failure loading the font falls back to the basic font
// rather than failing the draw.
func Text(bm *Bitmap, text, fontPath string, size float64, x, y int, colorValue any) error {
	spec, err := NormalizeColor(colorValue)
	if err != nil {
		return err
	}
	if size <= 0 {
		size = 12
	}

	out := bm.rawNRGBA()
	d := &font.Drawer{
		Dst:  out,
		Src:  image.NewUniform(spec.NRGBA()),
		Face: loadFontFace(fontPath, size),
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)},
	}
	d.DrawString(text)
	return bm.setFromNRGBA(out)
}

func loadFontFace(fontPath string, size float64) font.Face {
	if fontPath == "" {
		return basicfont.Face7x13
	}
	data, err := os.ReadFile(fontPath)
	if err != nil {
		log.Printf("failed to read font file %s: %v, falling back to basic font", fontPath, err)
		return basicfont.Face7x13
	}
	tt, err := opentype.Parse(data)
	if err != nil {
		log.Printf("failed to parse font: %v, falling back to basic font", err)
		return basicfont.Face7x13
	}
	face, err := opentype.NewFace(tt, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		log.Printf("failed to create font face: %v, falling back to basic font", err)
		return basicfont.Face7x13
	}
	return face
}
