package gdimg

import (
	"github.com/anthonynsimon/bild/histogram"
)

// ChannelStats summarizes one channel's 256-bin histogram.
type ChannelStats struct {
	Name string
	Mean float64
	Peak int
	Bins []int
}

// HistogramStats computes per-channel histograms for R, G and B.
func HistogramStats(bm *Bitmap) []ChannelStats {
	hist := histogram.NewRGBAHistogram(bm.rawNRGBA())
	return []ChannelStats{
		summarize("R", hist.R.Bins),
		summarize("G", hist.G.Bins),
		summarize("B", hist.B.Bins),
	}
}

func summarize(name string, bins []int) ChannelStats {
	stats := ChannelStats{Name: name, Bins: bins}
	total := 0
	weighted := 0
	for i, count := range bins {
		total += count
		weighted += i * count
		if count > bins[stats.Peak] {
			stats.Peak = i
		}
	}
	if total > 0 {
		stats.Mean = float64(weighted) / float64(total)
	}
	return stats
}
