package preprocess

import (
	"image"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// lightnessSampleStride caps the work on large regions; perceived lightness
// barely changes when sampling every third pixel.
const lightnessSampleStride = 3

// meanLightness estimates the mean perceptual lightness of the visible
// (non-masked) pixels, on a 0-100 scale. CIE Lab lightness tracks how bright
// the region looks to a reader far better than raw RGB luma, which is what
// the contrast strategy needs to recenter faded text.
func meanLightness(img image.Image) float64 {
	bounds := img.Bounds()

	var sum float64
	var count int
	for y := bounds.Min.Y; y < bounds.Max.Y; y += lightnessSampleStride {
		for x := bounds.Min.X; x < bounds.Max.X; x += lightnessSampleStride {
			c, ok := colorful.MakeColor(img.At(x, y))
			if !ok { // fully transparent: masked out
				continue
			}
			l, _, _ := c.Lab()
			sum += l
			count++
		}
	}
	if count == 0 {
		return 50
	}
	return sum / float64(count) * 100
}
