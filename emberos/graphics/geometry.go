package graphics

// Point is a 2D vector in pixels.
type Point struct {
	X, Y int
}

func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Rect is an axis-aligned rectangle: origin plus size.
type Rect struct {
	Pos  Point
	Size Point
}

// Empty reports whether the rectangle covers no pixels.
func (r Rect) Empty() bool { return r.Size.X <= 0 || r.Size.Y <= 0 }

// Contains reports whether p lies inside the rectangle.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Pos.X && p.X < r.Pos.X+r.Size.X &&
		p.Y >= r.Pos.Y && p.Y < r.Pos.Y+r.Size.Y
}

// Intersect returns the overlap of two rectangles; empty if they are
// disjoint.
func (r Rect) Intersect(o Rect) Rect {
	x0 := max(r.Pos.X, o.Pos.X)
	y0 := max(r.Pos.Y, o.Pos.Y)
	x1 := min(r.Pos.X+r.Size.X, o.Pos.X+o.Size.X)
	y1 := min(r.Pos.Y+r.Size.Y, o.Pos.Y+o.Size.Y)
	if x1 <= x0 || y1 <= y0 {
		return Rect{}
	}
	return Rect{Pos: Point{x0, y0}, Size: Point{x1 - x0, y1 - y0}}
}

// Union returns the smallest rectangle covering both.
func (r Rect) Union(o Rect) Rect {
	if r.Empty() {
		return o
	}
	if o.Empty() {
		return r
	}
	x0 := min(r.Pos.X, o.Pos.X)
	y0 := min(r.Pos.Y, o.Pos.Y)
	x1 := max(r.Pos.X+r.Size.X, o.Pos.X+o.Size.X)
	y1 := max(r.Pos.Y+r.Size.Y, o.Pos.Y+o.Size.Y)
	return Rect{Pos: Point{x0, y0}, Size: Point{x1 - x0, y1 - y0}}
}

// Translate returns the rectangle shifted by d.
func (r Rect) Translate(d Point) Rect {
	return Rect{Pos: r.Pos.Add(d), Size: r.Size}
}
