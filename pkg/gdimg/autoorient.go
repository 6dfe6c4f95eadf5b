package gdimg

// AutoOrient bakes an EXIF orientation value (1 through 8) into the pixel
// data so the bitmap displays upright everywhere. Orientation 1 and any
// unrecognized value return the bitmap unchanged, same handle.
func AutoOrient(bm *Bitmap, orientation int) *Bitmap {
	switch orientation {
	case 2:
		return flipX(bm)
	case 3:
		return rotate180(bm)
	case 4:
		return flipY(bm)
	case 5:
		return flipX(rotate90CW(bm))
	case 6:
		return rotate90CW(bm)
	case 7:
		return flipX(rotate90CCW(bm))
	case 8:
		return rotate90CCW(bm)
	default:
		return bm
	}
}

// rotate90CW turns the bitmap a quarter turn clockwise. The top-left
// source pixel lands in the top-right corner.
func rotate90CW(bm *Bitmap) *Bitmap {
	out, _ := New(bm.height, bm.width)
	for y := 0; y < out.height; y++ {
		for x := 0; x < out.width; x++ {
			si := bm.PixOffset(y, bm.height-1-x)
			di := out.PixOffset(x, y)
			copy(out.Pix[di:di+4], bm.Pix[si:si+4])
		}
	}
	return out
}

// rotate90CCW turns the bitmap a quarter turn counter-clockwise.
func rotate90CCW(bm *Bitmap) *Bitmap {
	out, _ := New(bm.height, bm.width)
	for y := 0; y < out.height; y++ {
		for x := 0; x < out.width; x++ {
			si := bm.PixOffset(bm.width-1-y, x)
			di := out.PixOffset(x, y)
			copy(out.Pix[di:di+4], bm.Pix[si:si+4])
		}
	}
	return out
}

// rotate180 is a half turn, cheaper than two quarter turns.
func rotate180(bm *Bitmap) *Bitmap {
	out, _ := New(bm.width, bm.height)
	for y := 0; y < bm.height; y++ {
		for x := 0; x < bm.width; x++ {
			si := bm.PixOffset(x, y)
			di := out.PixOffset(bm.width-1-x, bm.height-1-y)
			copy(out.Pix[di:di+4], bm.Pix[si:si+4])
		}
	}
	return out
}
