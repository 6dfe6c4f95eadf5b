package gdimg

import (
	"sync"
)

// convolve3x3 runs a 3x3 convolution over the RGB channels, dividing each
// weighted sum by div and adding offset, in the classic GD arrangement. The
// center pixel's alpha is preserved. Edge pixels sample with clamped
// coordinates. Reads come from a snapshot taken before any write, so rows
// can run in parallel without observing partial results.
func convolve3x3(bm *Bitmap, kernel [3][3]float64, div, offset float64) {
	if div == 0 {
		div = 1
	}
	src := bm.Clone()
	w := bm.width
	h := bm.height
	var wg sync.WaitGroup
	for y := 0; y < h; y++ {
		wg.Add(1)
		go func(y int) {
			defer wg.Done()
			for x := 0; x < w; x++ {
				var sr, sg, sb float64
				for ky := -1; ky <= 1; ky++ {
					sy := clampInt(y+ky, 0, h-1)
					for kx := -1; kx <= 1; kx++ {
						sx := clampInt(x+kx, 0, w-1)
						i := src.PixOffset(sx, sy)
						kv := kernel[ky+1][kx+1]
						sr += float64(src.Pix[i+0]) * kv
						sg += float64(src.Pix[i+1]) * kv
						sb += float64(src.Pix[i+2]) * kv
					}
				}
				di := bm.PixOffset(x, y)
				bm.Pix[di+0] = clampRound255(sr/div + offset)
				bm.Pix[di+1] = clampRound255(sg/div + offset)
				bm.Pix[di+2] = clampRound255(sb/div + offset)
			}
		}(y)
	}
	wg.Wait()
}
