package geo

import "errors"

var errTooFewVertices = errors.New("polygon needs at least 3 distinct vertices")

// A Polygon is a ring of WGS84 longitude/latitude vertices. The ring does
// not need to be explicitly closed; Closed returns a closed copy for
// transports that require one.
type Polygon struct {
	Vertices []Point
}

// Validate checks that p has enough distinct vertices to enclose an area.
func (p Polygon) Validate() error {
	n := len(p.Vertices)
	if n > 1 && p.Vertices[0] == p.Vertices[n-1] {
		n--
	}
	if n < 3 {
		return errTooFewVertices
	}
	return nil
}

// Closed returns p's vertices with the first vertex appended if the ring is
// not already closed.
func (p Polygon) Closed() []Point {
	n := len(p.Vertices)
	if n == 0 || p.Vertices[0] == p.Vertices[n-1] {
		return p.Vertices
	}
	closed := make([]Point, n+1)
	copy(closed, p.Vertices)
	closed[n] = p.Vertices[0]
	return closed
}

// Bounds returns the axis-aligned bounding box of p as min and max points.
// Both are zero points if p has no vertices.
func (p Polygon) Bounds() (Point, Point) {
	if len(p.Vertices) == 0 {
		return Point{}, Point{}
	}
	min, max := p.Vertices[0], p.Vertices[0]
	for _, v := range p.Vertices[1:] {
		if v.X < min.X {
			min.X = v.X
		}
		if v.X > max.X {
			max.X = v.X
		}
		if v.Y < min.Y {
			min.Y = v.Y
		}
		if v.Y > max.Y {
			max.Y = v.Y
		}
	}
	return min, max
}
