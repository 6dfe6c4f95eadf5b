package gdimg

import (
	"sort"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// PaletteEntry is one dominant color with its pixel count and share of
// the counted pixels.
type PaletteEntry struct {
	Color ColorSpec
	Hex   string
	Count int
	Share float64
}

// labDedupeDistance is the minimum CIE Lab distance between two reported
// palette entries. Buckets closer than this fold into the stronger one.
const labDedupeDistance = 0.12

// DominantColors returns up to n dominant colors, strongest first.
// Channels are quantized to 4 bits per channel before counting so noise
// does not fragment the buckets, and perceptually close buckets are
// folded together. Fully transparent pixels are not counted.
func DominantColors(bm *Bitmap, n int) []PaletteEntry {
	if n < 1 {
		n = 5
	}
	counts := make(map[ColorSpec]int)
	total := 0
	for i := 0; i < len(bm.Pix); i += 4 {
		if bm.Pix[i+3] == alphaTransparent {
			continue
		}
		key := ColorSpec{
			R: bm.Pix[i] & 0xf0,
			G: bm.Pix[i+1] & 0xf0,
			B: bm.Pix[i+2] & 0xf0,
		}
		counts[key]++
		total++
	}
	if total == 0 {
		return nil
	}

	buckets := make([]PaletteEntry, 0, len(counts))
	for spec, count := range counts {
		buckets = append(buckets, PaletteEntry{Color: spec, Count: count})
	}
	sort.Slice(buckets, func(i, j int) bool {
		if buckets[i].Count != buckets[j].Count {
			return buckets[i].Count > buckets[j].Count
		}
		// stable order for equal counts
		a, b := buckets[i].Color, buckets[j].Color
		if a.R != b.R {
			return a.R < b.R
		}
		if a.G != b.G {
			return a.G < b.G
		}
		return a.B < b.B
	})

	out := make([]PaletteEntry, 0, n)
	picked := make([]colorful.Color, 0, n)
	for _, entry := range buckets {
		if len(out) == n {
			break
		}
		c := colorful.Color{
			R: float64(entry.Color.R) / 255,
			G: float64(entry.Color.G) / 255,
			B: float64(entry.Color.B) / 255,
		}
		folded := false
		for i, p := range picked {
			if p.DistanceLab(c) < labDedupeDistance {
				out[i].Count += entry.Count
				folded = true
				break
			}
		}
		if folded {
			continue
		}
		entry.Hex = c.Hex()
		picked = append(picked, c)
		out = append(out, entry)
	}
	for i := range out {
		out[i].Share = float64(out[i].Count) / float64(total)
	}
	// folding can reorder by count
	sort.Slice(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}
