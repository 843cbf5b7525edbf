package geo

// A Point is a 2D coordinate in an explicit CRS. It is a comparable value
// type so that it can be used directly as a grouping key. Equality is exact
// positional identity: two points are the same pixel if and only if both
// coordinates are bit-identical.
type Point struct {
	X float64
	Y float64
}

// Less orders points by X, then Y. It gives grouped outputs a deterministic
// order.
func (p Point) Less(q Point) bool {
	if p.X != q.X {
		return p.X < q.X
	}
	return p.Y < q.Y
}
