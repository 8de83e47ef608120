// Package region turns a stream of pointer events into a closed selection path.
//
// The GUI collaborator owns the pointer; this package owns only the minimal
// state needed to accumulate a freehand stroke and decide whether it forms a
// usable selection. A stroke with fewer than three distinct points is not an
// error - it is the user declining to select anything.
package region

import "image"

// Point is a pixel coordinate in screen space.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Path is the ordered sequence of points of a freehand selection. The path is
// conceptually closed: the last point connects back to the first.
type Path []Point

// MinPoints is the smallest number of distinct points that can enclose area.
const MinPoints = 3

// Bounds returns the axis-aligned bounding rectangle of the path.
// The rectangle is half-open per image.Rectangle convention, so a vertex at
// (x, y) maps to Max of (x+1, y+1). An empty path yields the zero rectangle.
func (p Path) Bounds() image.Rectangle {
	if len(p) == 0 {
		return image.Rectangle{}
	}
	r := image.Rect(p[0].X, p[0].Y, p[0].X+1, p[0].Y+1)
	for _, pt := range p[1:] {
		if pt.X < r.Min.X {
			r.Min.X = pt.X
		}
		if pt.Y < r.Min.Y {
			r.Min.Y = pt.Y
		}
		if pt.X+1 > r.Max.X {
			r.Max.X = pt.X + 1
		}
		if pt.Y+1 > r.Max.Y {
			r.Max.Y = pt.Y + 1
		}
	}
	return r
}

// Distinct counts the unique points in the path.
func (p Path) Distinct() int {
	seen := make(map[Point]struct{}, len(p))
	for _, pt := range p {
		seen[pt] = struct{}{}
	}
	return len(seen)
}

// Degenerate reports whether the path has too few distinct points to enclose
// any region.
func (p Path) Degenerate() bool {
	return p.Distinct() < MinPoints
}

// Area returns the absolute area enclosed by the closed path (shoelace
// formula). Self-intersecting paths yield the net signed area, which is
// exactly what the mask engine wants for its near-zero-area check.
func (p Path) Area() float64 {
	if len(p) < MinPoints {
		return 0
	}
	sum := 0.0
	j := len(p) - 1
	for i := range p {
		sum += float64(p[j].X+p[i].X) * float64(p[j].Y-p[i].Y)
		j = i
	}
	if sum < 0 {
		sum = -sum
	}
	return sum / 2
}

// Recorder accumulates pointer events into a Path.
//
// The expected event order is Press, zero or more Moves, then Release.
// Events outside an active stroke are ignored. Consecutive duplicate points
// are dropped so a stationary drag cannot masquerade as a polygon.
type Recorder struct {
	points Path
	active bool
}

// Press starts a new stroke at (x, y), discarding any previous one.
func (r *Recorder) Press(x, y int) {
	r.points = Path{{X: x, Y: y}}
	r.active = true
}

// Move extends the active stroke. A move without a preceding press is ignored.
func (r *Recorder) Move(x, y int) {
	if !r.active {
		return
	}
	pt := Point{X: x, Y: y}
	if last := r.points[len(r.points)-1]; last == pt {
		return
	}
	r.points = append(r.points, pt)
}

// Release finishes the stroke and resets the recorder.
//
// It returns the completed path and true when the stroke encloses a usable
// region, or nil and false for a degenerate stroke (the "user cancelled"
// outcome - fewer than three distinct points).
func (r *Recorder) Release() (Path, bool) {
	path := r.points
	r.points = nil
	r.active = false
	if path.Degenerate() {
		return nil, false
	}
	return path, true
}
