package gdimg

import (
	"errors"
	"fmt"
	"image"
	"math"
)

// ErrRegionOutOfBounds reports a merge rectangle extending past either
// bitmap. Detected before any pixel is written; a failed merge never
// partially blends.
var ErrRegionOutOfBounds = errors.New("merge region out of bounds")

func clampRound255(v float64) uint8 {
	r := math.Round(v)
	if r < 0 {
		return 0
	}
	if r > 255 {
		return 255
	}
	return uint8(r)
}

func clampRound127(v float64) uint8 {
	r := math.Round(v)
	if r < 0 {
		return 0
	}
	if r > alphaTransparent {
		return alphaTransparent
	}
	return uint8(r)
}

// mergePixel composites the source components over the destination pixel at
// byte index i. Both alphas are in the 0..127 inverted domain. Every caller
// that blends (MergeAlpha, SetPixel with blending on) funnels through here
// so the arithmetic stays identical.
func mergePixel(pix []uint8, i int, sr, sg, sb, sa uint8, opacityPercent float64) {
	srcOp := float64(alphaTransparent-int(sa)) / alphaTransparent * (opacityPercent / 100)
	dstOp := float64(alphaTransparent-int(pix[i+3])) / alphaTransparent
	pix[i+0] = clampRound255(float64(sr)*srcOp + float64(pix[i+0])*(1-srcOp))
	pix[i+1] = clampRound255(float64(sg)*srcOp + float64(pix[i+1])*(1-srcOp))
	pix[i+2] = clampRound255(float64(sb)*srcOp + float64(pix[i+2])*(1-srcOp))
	pix[i+3] = clampRound127(alphaTransparent * (1 - (srcOp + dstOp*(1-srcOp))))
}

// MergeAlpha blends a size.X x size.Y rectangle of src, read from srcOff,
// over dst at dstOff. opacityPercent (0..100) scales the source's own
// per-pixel opacity: each source alpha becomes an opacity fraction
// (127-a)/127, is multiplied by opacityPercent/100, and the channels blend
// as src*o + dst*(1-o). The resulting alpha compounds source over
// destination opacity: 127*(1-(o_src+o_dst*(1-o_src))). All results round
// half away from zero (math.Round) and clamp to their channel ranges; the
// arithmetic is pixel-exact and shared by Opacity, Desaturate and Overlay.
//
// A rectangle that extends past either bitmap fails with
// ErrRegionOutOfBounds before anything is written. A zero-area rectangle is
// a no-op. When dst and src are the same bitmap the regions must not
// overlap.
func MergeAlpha(dst, src *Bitmap, dstOff, srcOff, size image.Point, opacityPercent float64) error {
	if dst == nil || src == nil {
		return fmt.Errorf("merge requires non-nil bitmaps")
	}
	if size.X == 0 || size.Y == 0 {
		return nil
	}
	if size.X < 0 || size.Y < 0 ||
		srcOff.X < 0 || srcOff.Y < 0 ||
		dstOff.X < 0 || dstOff.Y < 0 ||
		srcOff.X+size.X > src.width || srcOff.Y+size.Y > src.height ||
		dstOff.X+size.X > dst.width || dstOff.Y+size.Y > dst.height {
		return fmt.Errorf("%w: region %dx%d at src(%d,%d)/dst(%d,%d), src %dx%d, dst %dx%d",
			ErrRegionOutOfBounds, size.X, size.Y, srcOff.X, srcOff.Y, dstOff.X, dstOff.Y,
			src.width, src.height, dst.width, dst.height)
	}
	for y := 0; y < size.Y; y++ {
		si := src.PixOffset(srcOff.X, srcOff.Y+y)
		di := dst.PixOffset(dstOff.X, dstOff.Y+y)
		for x := 0; x < size.X; x++ {
			mergePixel(dst.Pix, di, src.Pix[si+0], src.Pix[si+1], src.Pix[si+2], src.Pix[si+3], opacityPercent)
			si += 4
			di += 4
		}
	}
	return nil
}
