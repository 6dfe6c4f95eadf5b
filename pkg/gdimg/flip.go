package gdimg

// Flip mirrors the bitmap across the named axis and returns a new canvas.
// "y" maps source row i to row height-1-i, "x" maps source column j to
// column width-1-j, and "xy"/"yx" apply both (the two orders commute, each
// step through its own intermediate canvas). The returned canvas is
// allocated fully transparent before being overwritten, so its alpha
// channel is live. The source is never modified.
func Flip(bm *Bitmap, direction string) (*Bitmap, error) {
	dir, err := ParseDirection(direction)
	if err != nil {
		return nil, err
	}
	switch dir {
	case FlipX:
		return flipX(bm), nil
	case FlipY:
		return flipY(bm), nil
	default:
		return flipY(flipX(bm)), nil
	}
}

// flipY copies whole scanlines, top row to bottom row.
func flipY(bm *Bitmap) *Bitmap {
	out, _ := New(bm.width, bm.height)
	rowLen := bm.width * 4
	for y := 0; y < bm.height; y++ {
		si := bm.PixOffset(0, y)
		di := out.PixOffset(0, bm.height-1-y)
		copy(out.Pix[di:di+rowLen], bm.Pix[si:si+rowLen])
	}
	return out
}

// flipX copies column-wise, leftmost column to rightmost.
func flipX(bm *Bitmap) *Bitmap {
	out, _ := New(bm.width, bm.height)
	for y := 0; y < bm.height; y++ {
		for x := 0; x < bm.width; x++ {
			si := bm.PixOffset(x, y)
			di := out.PixOffset(bm.width-1-x, y)
			copy(out.Pix[di:di+4], bm.Pix[si:si+4])
		}
	}
	return out
}
