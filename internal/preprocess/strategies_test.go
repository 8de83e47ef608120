package preprocess

import (
	"image"
	"image/color"
	"testing"
)

// textImage paints dark "glyph" blocks on a light background, roughly what a
// masked capture of black-on-white text looks like.
func textImage(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	bg := color.NRGBA{R: 235, G: 235, B: 235, A: 255}
	fg := color.NRGBA{R: 20, G: 20, B: 20, A: 255}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, bg)
		}
	}
	// Three glyph-sized blocks along the middle row.
	for _, x0 := range []int{8, 24, 40} {
		for y := h/2 - 5; y < h/2+5; y++ {
			for x := x0; x < x0+8 && x < w; x++ {
				img.SetNRGBA(x, y, fg)
			}
		}
	}
	return img
}

func uniformImage(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

// meanGray averages the luma of every pixel of a candidate.
func meanGray(img image.Image) float64 {
	bounds := img.Bounds()
	var sum, n float64
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			sum += (0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)) / 0xffff
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / n
}

func TestGenerate_FixedOrderAndCount(t *testing.T) {
	candidates := Generate(textImage(64, 32), Options{})

	if len(candidates) < 2 {
		t.Fatalf("candidate count: got %d, want at least 2", len(candidates))
	}
	want := []StrategyID{
		StrategyAdaptive, StrategyOtsu, StrategyContrast,
		StrategyAdaptiveInverted, StrategyOtsuInverted,
	}
	if len(candidates) != len(want) {
		t.Fatalf("candidate count: got %d, want %d", len(candidates), len(want))
	}
	for i, c := range candidates {
		if c.ID != want[i] {
			t.Errorf("candidate %d: got %v, want %v", i, c.ID, want[i])
		}
		if c.Image == nil {
			t.Errorf("candidate %v has nil image", c.ID)
		}
	}
}

func TestGenerate_BothPolaritiesPresent(t *testing.T) {
	candidates := Generate(textImage(64, 32), Options{})

	byID := map[StrategyID]image.Image{}
	for _, c := range candidates {
		byID[c.ID] = c.Image
	}

	// Dark text on a light background: the adaptive variant stays mostly
	// light, its inversion mostly dark.
	if m := meanGray(byID[StrategyAdaptive]); m < 0.5 {
		t.Errorf("adaptive candidate mean luma %.2f, want light background (> 0.5)", m)
	}
	if m := meanGray(byID[StrategyAdaptiveInverted]); m > 0.5 {
		t.Errorf("inverted candidate mean luma %.2f, want dark background (< 0.5)", m)
	}
}

func TestGenerate_CandidatesDifferFromSource(t *testing.T) {
	src := textImage(64, 32)
	for _, c := range Generate(src, Options{}) {
		if imagesEqual(src, c.Image) {
			t.Errorf("candidate %v is identical to the source image", c.ID)
		}
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	src := textImage(64, 32)
	first := Generate(src, Options{})
	second := Generate(src, Options{})

	for i := range first {
		if first[i].ID != second[i].ID {
			t.Fatalf("order differs between runs at %d", i)
		}
		if !imagesEqual(first[i].Image, second[i].Image) {
			t.Errorf("candidate %v not reproducible", first[i].ID)
		}
	}
}

func TestGenerate_TransparentPixelsFlattenedWhite(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 16, 16))
	// Entirely transparent masked image.
	candidates := Generate(src, Options{})

	for _, c := range candidates {
		switch c.ID {
		case StrategyAdaptive, StrategyOtsu:
			if m := meanGray(c.Image); m < 0.9 {
				t.Errorf("%v: transparent input should flatten to white, mean luma %.2f", c.ID, m)
			}
		}
	}
}

func TestAdaptiveThreshold_GradientBackground(t *testing.T) {
	// A glyph on a strong horizontal gradient defeats a global cutoff but
	// not a local one.
	w, h := 64, 32
	gray := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			gray.SetGray(x, y, color.Gray{Y: uint8(64 + x*2)})
		}
	}
	for y := 12; y < 20; y++ {
		for x := 50; x < 58; x++ {
			gray.SetGray(x, y, color.Gray{Y: 10})
		}
	}

	out := adaptiveThreshold(gray, 11, 2)

	if out.GrayAt(54, 16).Y != 0 {
		t.Error("glyph pixel on bright side of gradient should binarize black")
	}
	if out.GrayAt(5, 5).Y != 255 {
		t.Error("background pixel on dark side of gradient should binarize white")
	}
}

func TestOtsuLevel_Bimodal(t *testing.T) {
	gray := image.NewGray(image.Rect(0, 0, 10, 10))
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			if x < 5 {
				gray.SetGray(x, y, color.Gray{Y: 0})
			} else {
				gray.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}

	level := otsuLevel(gray)
	if level < 64 || level > 192 {
		t.Errorf("otsu level %d should land in the valley between the modes", level)
	}
}

func TestMeanLightness(t *testing.T) {
	light := uniformImage(30, 30, color.NRGBA{R: 250, G: 250, B: 250, A: 255})
	dark := uniformImage(30, 30, color.NRGBA{R: 10, G: 10, B: 10, A: 255})

	if l := meanLightness(light); l < 80 {
		t.Errorf("near-white image lightness %.1f, want > 80", l)
	}
	if l := meanLightness(dark); l > 20 {
		t.Errorf("near-black image lightness %.1f, want < 20", l)
	}
	// Fully transparent input falls back to midtone.
	if l := meanLightness(image.NewNRGBA(image.Rect(0, 0, 8, 8))); l != 50 {
		t.Errorf("transparent image lightness %.1f, want 50", l)
	}
}

func imagesEqual(a, b image.Image) bool {
	ab, bb := a.Bounds(), b.Bounds()
	if ab.Dx() != bb.Dx() || ab.Dy() != bb.Dy() {
		return false
	}
	for y := 0; y < ab.Dy(); y++ {
		for x := 0; x < ab.Dx(); x++ {
			ar, ag, abl, aa := a.At(ab.Min.X+x, ab.Min.Y+y).RGBA()
			br, bg, bbl, ba := b.At(bb.Min.X+x, bb.Min.Y+y).RGBA()
			if ar != br || ag != bg || abl != bbl || aa != ba {
				return false
			}
		}
	}
	return true
}
