package gdimg

import (
	"image"
	"strings"
)

// Overlay blends the overlay bitmap onto bm at a named position plus
// optional pixel offsets. Opacity follows the usual percent scale and
// fractional values up to 1 are treated as ratios. Unknown position
// names fall back to center. The overlay must land fully inside the
// canvas or nothing is blended.
func Overlay(bm, overlay *Bitmap, position string, opacity float64, xOffset, yOffset int) error {
	pct := ClampOpacity(opacity)
	ow := overlay.Width()
	oh := overlay.Height()

	var x, y int
	switch strings.ToLower(strings.TrimSpace(position)) {
	case "top left", "topleft":
		x, y = 0, 0
	case "top right", "topright":
		x, y = bm.Width()-ow, 0
	case "top":
		x, y = (bm.Width()-ow)/2, 0
	case "bottom left", "bottomleft":
		x, y = 0, bm.Height()-oh
	case "bottom right", "bottomright":
		x, y = bm.Width()-ow, bm.Height()-oh
	case "bottom":
		x, y = (bm.Width()-ow)/2, bm.Height()-oh
	case "left":
		x, y = 0, (bm.Height()-oh)/2
	case "right":
		x, y = bm.Width()-ow, (bm.Height()-oh)/2
	default:
		x, y = (bm.Width()-ow)/2, (bm.Height()-oh)/2
	}
	x += xOffset
	y += yOffset

	return MergeAlpha(bm, overlay, image.Pt(x, y), image.Point{}, image.Pt(ow, oh), pct)
}
