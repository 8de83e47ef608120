// Package mask converts a freehand selection path into a pixel-accurate crop.
//
// Apply crops the captured frame to the path's bounding box and blanks every
// pixel that falls outside the drawn polygon, so OCR and visual search only
// ever see what the user circled.
//
// # Fill rule
//
// Coverage uses the even-odd rule: a pixel is inside when a ray from it
// crosses the polygon's edges an odd number of times. For a self-intersecting
// freehand loop this excludes the "pinched" overlap region rather than filling
// everything, which matches what the stroke looks like on screen. Points lying
// exactly on an edge count as inside, so the path's own vertices are always
// covered.
package mask

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"

	"circle-search/internal/region"
)

// minPolygonArea is the enclosed area (in px²) below which a path is treated
// as effectively collinear and replaced by an inscribed ellipse, so the user
// always gets some masked region instead of a void capture.
const minPolygonArea = 1.0

// Apply crops img to the path's bounding box and makes every pixel outside
// the polygon fully transparent.
//
// The bounding box is clamped to the image, so out-of-range path coordinates
// never read outside the pixel buffer. The result always has the clamped
// bounding box's dimensions. Apply is total for a valid image and a
// non-degenerate path; the caller is responsible for rejecting paths with
// fewer than three distinct points before reaching this stage.
func Apply(img image.Image, path region.Path) *image.NRGBA {
	box := path.Bounds().Intersect(img.Bounds())
	if box.Empty() {
		return image.NewNRGBA(image.Rectangle{})
	}

	inside := Coverage(path)

	cropped := imaging.Crop(img, box)
	out := image.NewNRGBA(image.Rect(0, 0, box.Dx(), box.Dy()))

	empty := color.NRGBA{}
	for y := 0; y < box.Dy(); y++ {
		for x := 0; x < box.Dx(); x++ {
			if inside(box.Min.X+x, box.Min.Y+y) {
				out.SetNRGBA(x, y, cropped.NRGBAAt(x, y))
			} else {
				out.SetNRGBA(x, y, empty)
			}
		}
	}
	return out
}

// Coverage builds the point-in-region test for a path.
//
// Near-zero-area paths (nearly collinear strokes that survived the minimum
// point check) fall back to an ellipse inscribed in the bounding box.
func Coverage(path region.Path) func(x, y int) bool {
	if path.Area() < minPolygonArea {
		return ellipseCoverage(path.Bounds())
	}
	return func(x, y int) bool {
		return insidePolygon(path, x, y)
	}
}

// insidePolygon implements the even-odd rule with an explicit on-edge check
// so boundary points are classified as inside.
func insidePolygon(path region.Path, x, y int) bool {
	px, py := float64(x), float64(y)

	inside := false
	j := len(path) - 1
	for i := range path {
		xi, yi := float64(path[i].X), float64(path[i].Y)
		xj, yj := float64(path[j].X), float64(path[j].Y)

		if onSegment(px, py, xi, yi, xj, yj) {
			return true
		}
		if (yi > py) != (yj > py) {
			if px < (xj-xi)*(py-yi)/(yj-yi)+xi {
				inside = !inside
			}
		}
		j = i
	}
	return inside
}

// onSegment reports whether (px,py) lies on the segment (x1,y1)-(x2,y2).
func onSegment(px, py, x1, y1, x2, y2 float64) bool {
	// Collinearity via cross product, then bounding interval.
	cross := (x2-x1)*(py-y1) - (y2-y1)*(px-x1)
	if cross > 1e-9 || cross < -1e-9 {
		return false
	}
	if px < min64(x1, x2) || px > max64(x1, x2) {
		return false
	}
	if py < min64(y1, y2) || py > max64(y1, y2) {
		return false
	}
	return true
}

// ellipseCoverage tests against the ellipse inscribed in box.
func ellipseCoverage(box image.Rectangle) func(x, y int) bool {
	cx := float64(box.Min.X+box.Max.X-1) / 2
	cy := float64(box.Min.Y+box.Max.Y-1) / 2
	rx := float64(box.Dx()) / 2
	ry := float64(box.Dy()) / 2
	if rx <= 0 {
		rx = 0.5
	}
	if ry <= 0 {
		ry = 0.5
	}
	return func(x, y int) bool {
		dx := (float64(x) - cx) / rx
		dy := (float64(y) - cy) / ry
		return dx*dx+dy*dy <= 1
	}
}

func min64(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func max64(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
