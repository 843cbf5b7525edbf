package analysis

import (
	"errors"
	"math"

	"github.com/earthwave/cryotempo-analysis/geo"
)

var errCellSize = errors.New("cell size must be positive")

// A Grid is a raster view over one epoch of a gridded elevation product.
// Cells are identified by the exact node coordinates of the product, on a
// uniform cellSize spacing. Missing cells are NaN.
type Grid struct {
	cellSize   float64
	elevations map[geo.Point]float64
}

// NewGrid builds a Grid from one epoch of gridded samples. When a location
// appears more than once the first sample wins.
func NewGrid(samples []Sample, cellSize float64) (*Grid, error) {
	if cellSize <= 0 {
		return nil, errCellSize
	}
	if len(samples) == 0 {
		return nil, ErrNoSamples
	}
	elevations := make(map[geo.Point]float64, len(samples))
	for _, sample := range samples {
		if _, ok := elevations[sample.Loc]; !ok {
			elevations[sample.Loc] = sample.Elevation
		}
	}
	return &Grid{
		cellSize:   cellSize,
		elevations: elevations,
	}, nil
}

// CellSize returns g's cell spacing.
func (g *Grid) CellSize() float64 {
	return g.cellSize
}

// Elevation returns the elevation of the cell at p, or NaN if the cell is
// not covered.
func (g *Grid) Elevation(p geo.Point) float64 {
	if elevation, ok := g.elevations[p]; ok {
		return elevation
	}
	return math.NaN()
}

// InterpolateBilinear samples g at arbitrary coordinates, interpolating
// between the four grid nodes surrounding each point. Points with any
// missing surrounding node interpolate to NaN.
func (g *Grid) InterpolateBilinear(points []geo.Point) []float64 {
	result := make([]float64, len(points))
	for i, point := range points {
		x0 := g.cellSize * math.Floor(point.X/g.cellSize)
		y0 := g.cellSize * math.Floor(point.Y/g.cellSize)
		x1 := x0 + g.cellSize
		y1 := y0 + g.cellSize
		dx := (point.X - x0) / g.cellSize
		dy := (point.Y - y0) / g.cellSize
		result[i] = 0 +
			g.Elevation(geo.Point{X: x0, Y: y0})*(1-dx)*(1-dy) +
			g.Elevation(geo.Point{X: x1, Y: y0})*dx*(1-dy) +
			g.Elevation(geo.Point{X: x0, Y: y1})*(1-dx)*dy +
			g.Elevation(geo.Point{X: x1, Y: y1})*dx*dy
	}
	return result
}
