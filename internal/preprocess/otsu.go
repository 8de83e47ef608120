package preprocess

import "image"

// otsuLevel computes the global threshold that maximizes between-class
// variance over the grayscale histogram (Otsu's method). It splits a bimodal
// brightness distribution - dark glyphs on a light background or the reverse -
// at the valley between the two modes.
func otsuLevel(gray *image.Gray) uint8 {
	var hist [256]int64
	w := gray.Bounds().Dx()
	h := gray.Bounds().Dy()
	total := int64(w) * int64(h)
	if total == 0 {
		return 128
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			hist[gray.GrayAt(x, y).Y]++
		}
	}

	var sumAll int64
	for v, n := range hist {
		sumAll += int64(v) * n
	}

	// The maximum can be a plateau (exactly bimodal histograms); taking the
	// plateau midpoint puts the cutoff in the valley between the modes.
	var (
		sumBack    int64
		weightBack int64
		bestVar    float64
		firstBest  int
		lastBest   int
	)
	for level := 0; level < 256; level++ {
		weightBack += hist[level]
		if weightBack == 0 {
			continue
		}
		weightFore := total - weightBack
		if weightFore == 0 {
			break
		}
		sumBack += int64(level) * hist[level]

		meanBack := float64(sumBack) / float64(weightBack)
		meanFore := float64(sumAll-sumBack) / float64(weightFore)
		diff := meanBack - meanFore
		between := float64(weightBack) * float64(weightFore) * diff * diff

		if between > bestVar {
			bestVar = between
			firstBest = level
			lastBest = level
		} else if between == bestVar {
			lastBest = level
		}
	}
	return uint8((firstBest + lastBest) / 2)
}
