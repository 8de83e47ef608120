package session

import (
	"context"
	"image"

	"circle-search/internal/region"
)

// StaticRegion serves a pre-drawn path, e.g. from a CLI flag.
type StaticRegion struct {
	Path region.Path
}

// Select returns the static path, or a cancellation when it is degenerate.
func (s StaticRegion) Select(_ context.Context, _ image.Image) (region.Path, bool, error) {
	if s.Path.Degenerate() {
		return nil, false, nil
	}
	return s.Path, true, nil
}

// FullFrame selects the entire captured image. This is the right default when
// the capture tool already did interactive region selection (flameshot, maim
// -s and friends crop before writing the file).
type FullFrame struct{}

// Select returns the image's corner rectangle.
func (FullFrame) Select(_ context.Context, img image.Image) (region.Path, bool, error) {
	b := img.Bounds()
	if b.Dx() < 2 || b.Dy() < 2 {
		return nil, false, nil
	}
	return region.Path{
		{X: b.Min.X, Y: b.Min.Y},
		{X: b.Max.X - 1, Y: b.Min.Y},
		{X: b.Max.X - 1, Y: b.Max.Y - 1},
		{X: b.Min.X, Y: b.Max.Y - 1},
	}, true, nil
}
