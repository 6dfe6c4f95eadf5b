package gdimg

import (
	"github.com/disintegration/imaging"
)

// Rotate turns the bitmap by angle degrees, positive values rotating the
// content clockwise on screen, and returns a new canvas sized to bound the
// rotated content. Newly exposed area is filled with bg, which accepts any
// form NormalizeColor does. The angle must lie strictly between -360 and
// 360; the resulting canvas keeps its alpha channel live. The source is
// never modified.
func Rotate(bm *Bitmap, angle float64, bg any) (*Bitmap, error) {
	if err := CheckAngle(angle); err != nil {
		return nil, err
	}
	spec, err := NormalizeColor(bg)
	if err != nil {
		return nil, err
	}
	// imaging rotates counter-clockwise for positive angles, so the sign
	// flips to keep positive input clockwise.
	rotated := imaging.Rotate(bm.rawNRGBA(), -angle, spec.NRGBA())
	out := FromImage(rotated)
	out.SetSaveAlpha(true)
	return out, nil
}
