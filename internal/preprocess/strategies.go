// Package preprocess derives OCR candidate images from one masked capture.
//
// A screen region's background cannot be known in advance: it may be light UI
// chrome, a dark terminal, a photo, or a low-contrast overlay. Instead of
// guessing, the strategy set produces several independently preprocessed
// variants and lets confidence scoring pick the winner. Every transform is a
// pure function of the masked image - strategies never consume each other's
// output - so they are safe to generate in parallel.
package preprocess

import (
	"image"
	"sync"

	"github.com/anthonynsimon/bild/effect"
	"github.com/anthonynsimon/bild/segment"
	"github.com/disintegration/imaging"
)

// StrategyID identifies one preprocessing variant. The declaration order is
// the fixed generation order; consensus tie-breaks resolve to the earlier ID.
type StrategyID int

const (
	// StrategyAdaptive binarizes against a local mean, handling uneven
	// lighting and gradient backgrounds. Light-background oriented.
	StrategyAdaptive StrategyID = iota

	// StrategyOtsu binarizes against a global variance-maximizing cutoff,
	// handling uniform high-contrast regions.
	StrategyOtsu

	// StrategyContrast boosts contrast around the region's own midtone for
	// faded or low-contrast text.
	StrategyContrast

	// StrategyAdaptiveInverted is the photometric inversion of the adaptive
	// variant, for light text on dark backgrounds.
	StrategyAdaptiveInverted

	// StrategyOtsuInverted is the photometric inversion of the Otsu variant.
	StrategyOtsuInverted
)

var strategyNames = map[StrategyID]string{
	StrategyAdaptive:         "adaptive",
	StrategyOtsu:             "otsu",
	StrategyContrast:         "contrast",
	StrategyAdaptiveInverted: "adaptive-inverted",
	StrategyOtsuInverted:     "otsu-inverted",
}

func (id StrategyID) String() string {
	if name, ok := strategyNames[id]; ok {
		return name
	}
	return "unknown"
}

// Candidate is one preprocessed variant of the masked image.
type Candidate struct {
	ID    StrategyID
	Image image.Image
}

// Options tunes the transforms. Zero values select the defaults that match
// the adaptive parameters the pipeline was calibrated with.
type Options struct {
	// AdaptiveWindow is the odd side length of the local-mean window.
	AdaptiveWindow int

	// AdaptiveBias is subtracted from the local mean before comparison.
	AdaptiveBias int

	// ContrastFactor is the percentage passed to contrast adjustment.
	ContrastFactor float64

	// MedianRadius is the denoise radius applied before thresholding.
	MedianRadius float64
}

func (o Options) withDefaults() Options {
	if o.AdaptiveWindow <= 0 {
		o.AdaptiveWindow = 11
	}
	if o.AdaptiveWindow%2 == 0 {
		o.AdaptiveWindow++
	}
	if o.AdaptiveBias == 0 {
		o.AdaptiveBias = 2
	}
	if o.ContrastFactor == 0 {
		o.ContrastFactor = 40
	}
	if o.MedianRadius == 0 {
		o.MedianRadius = 1.5
	}
	return o
}

// Generate produces the full candidate set from a masked image.
//
// Transparent (masked-out) pixels are flattened onto white first, so the
// binarizers see a paper-like background rather than black holes. The result
// always contains both light-background and dark-background oriented
// candidates, in the fixed StrategyID order.
func Generate(masked image.Image, opts Options) []Candidate {
	opts = opts.withDefaults()
	flat := flattenOnWhite(masked)

	transforms := []struct {
		id    StrategyID
		apply func(*image.NRGBA) image.Image
	}{
		{StrategyAdaptive, func(src *image.NRGBA) image.Image {
			return adaptiveBinarize(src, opts)
		}},
		{StrategyOtsu, func(src *image.NRGBA) image.Image {
			return otsuBinarize(src)
		}},
		{StrategyContrast, func(src *image.NRGBA) image.Image {
			return contrastEnhance(src, opts.ContrastFactor)
		}},
		{StrategyAdaptiveInverted, func(src *image.NRGBA) image.Image {
			return effect.Invert(adaptiveBinarize(src, opts))
		}},
		{StrategyOtsuInverted, func(src *image.NRGBA) image.Image {
			return effect.Invert(otsuBinarize(src))
		}},
	}

	candidates := make([]Candidate, len(transforms))
	var wg sync.WaitGroup
	for i, tr := range transforms {
		wg.Add(1)
		go func(i int, id StrategyID, apply func(*image.NRGBA) image.Image) {
			defer wg.Done()
			candidates[i] = Candidate{ID: id, Image: apply(flat)}
		}(i, tr.id, tr.apply)
	}
	wg.Wait()

	return candidates
}

// adaptiveBinarize denoises, grayscales and thresholds against the local mean.
func adaptiveBinarize(src *image.NRGBA, opts Options) image.Image {
	denoised := effect.Median(src, opts.MedianRadius)
	gray := toGray(imaging.Grayscale(denoised))
	return adaptiveThreshold(gray, opts.AdaptiveWindow, opts.AdaptiveBias)
}

// otsuBinarize grayscales and thresholds at the Otsu cutoff.
func otsuBinarize(src *image.NRGBA) image.Image {
	gray := toGray(imaging.Grayscale(src))
	return segment.Threshold(gray, otsuLevel(gray))
}

// contrastEnhance recenters brightness on the region's mean lightness, then
// applies a fixed contrast boost. Text stays grayscale rather than binarized,
// which the OCR engine sometimes prefers on anti-aliased fonts.
func contrastEnhance(src *image.NRGBA, factor float64) image.Image {
	gray := imaging.Grayscale(src)
	shift := 50 - meanLightness(src)
	if shift > 40 {
		shift = 40
	} else if shift < -40 {
		shift = -40
	}
	recentered := imaging.AdjustBrightness(gray, shift)
	return imaging.AdjustContrast(recentered, factor)
}

// flattenOnWhite composites the masked image over a white background,
// discarding alpha.
func flattenOnWhite(src image.Image) *image.NRGBA {
	bounds := src.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	for y := 0; y < bounds.Dy(); y++ {
		for x := 0; x < bounds.Dx(); x++ {
			r, g, b, a := src.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			if a == 0 {
				out.Set(x, y, white)
				continue
			}
			// Un-premultiply and blend over white.
			af := float64(a) / 0xffff
			rf := blendOverWhite(float64(r)/0xffff, af)
			gf := blendOverWhite(float64(g)/0xffff, af)
			bf := blendOverWhite(float64(b)/0xffff, af)
			out.SetNRGBA(x, y, nrgba8(rf, gf, bf))
		}
	}
	return out
}

// toGray converts any image to *image.Gray for the threshold kernels.
func toGray(src image.Image) *image.Gray {
	bounds := src.Bounds()
	out := image.NewGray(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	for y := 0; y < bounds.Dy(); y++ {
		for x := 0; x < bounds.Dx(); x++ {
			out.Set(x, y, src.At(bounds.Min.X+x, bounds.Min.Y+y))
		}
	}
	return out
}
