package preprocess

import (
	"image"
	"image/color"
)

var white = color.NRGBA{R: 255, G: 255, B: 255, A: 255}

// blendOverWhite composites one premultiplied channel value over white.
func blendOverWhite(premultiplied, alpha float64) float64 {
	v := premultiplied + (1 - alpha)
	if v > 1 {
		v = 1
	}
	return v
}

func nrgba8(r, g, b float64) color.NRGBA {
	return color.NRGBA{
		R: uint8(r*255 + 0.5),
		G: uint8(g*255 + 0.5),
		B: uint8(b*255 + 0.5),
		A: 255,
	}
}

// adaptiveThreshold binarizes gray against the mean of a window×window
// neighborhood minus bias. A pixel becomes white when it is brighter than its
// local mean, which keeps text legible across gradient and unevenly lit
// backgrounds where a single global cutoff fails.
//
// The local means come from a summed-area table, so the cost is O(w*h)
// regardless of window size.
func adaptiveThreshold(gray *image.Gray, window, bias int) *image.Gray {
	w := gray.Bounds().Dx()
	h := gray.Bounds().Dy()
	out := image.NewGray(image.Rect(0, 0, w, h))
	if w == 0 || h == 0 {
		return out
	}

	// integral[y][x] holds the sum over the rectangle [0,x) x [0,y).
	integral := make([][]int64, h+1)
	integral[0] = make([]int64, w+1)
	for y := 0; y < h; y++ {
		integral[y+1] = make([]int64, w+1)
		var rowSum int64
		for x := 0; x < w; x++ {
			rowSum += int64(gray.GrayAt(x, y).Y)
			integral[y+1][x+1] = integral[y][x+1] + rowSum
		}
	}

	half := window / 2
	for y := 0; y < h; y++ {
		y0 := clampInt(y-half, 0, h)
		y1 := clampInt(y+half+1, 0, h)
		for x := 0; x < w; x++ {
			x0 := clampInt(x-half, 0, w)
			x1 := clampInt(x+half+1, 0, w)

			area := int64(x1-x0) * int64(y1-y0)
			sum := integral[y1][x1] - integral[y0][x1] - integral[y1][x0] + integral[y0][x0]
			mean := sum / area

			if int64(gray.GrayAt(x, y).Y) > mean-int64(bias) {
				out.SetGray(x, y, color.Gray{Y: 255})
			} else {
				out.SetGray(x, y, color.Gray{Y: 0})
			}
		}
	}
	return out
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
