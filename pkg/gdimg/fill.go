package gdimg

// Fill paints every pixel of the canvas with the given color, including the
// color's own alpha. The color accepts any form NormalizeColor does. The
// bitmap's alpha channel is marked live and blending is switched off so the
// write is a raw overwrite; existing flags are otherwise left alone.
// Mutates in place.
func Fill(bm *Bitmap, colorValue any) error {
	spec, err := NormalizeColor(colorValue)
	if err != nil {
		return err
	}
	bm.SetSaveAlpha(true)
	bm.SetAlphaBlending(false)
	for i := 0; i < len(bm.Pix); i += 4 {
		bm.Pix[i+0] = spec.R
		bm.Pix[i+1] = spec.G
		bm.Pix[i+2] = spec.B
		bm.Pix[i+3] = spec.A
	}
	return nil
}
