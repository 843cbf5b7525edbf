package geo

import (
	"github.com/twpayne/go-proj/v10"
)

// A Reprojector transforms point slices between two coordinate reference
// systems.
type Reprojector struct {
	pj *proj.PJ
}

// NewReprojector returns a Reprojector from sourceCRS to targetCRS, where
// both are authority strings like "epsg:4326".
func NewReprojector(sourceCRS, targetCRS string) (*Reprojector, error) {
	pj, err := proj.NewCRSToCRS(sourceCRS, targetCRS, nil)
	if err != nil {
		return nil, err
	}
	return &Reprojector{pj: pj}, nil
}

// NewWGS84ToPolarStereographic returns a Reprojector from WGS84 longitude/
// latitude to the polar stereographic CRS of the gridded EOLIS product.
func NewWGS84ToPolarStereographic() (*Reprojector, error) {
	return NewReprojector("epsg:4326", "epsg:3413")
}

// Forward transforms points from the source CRS to the target CRS. The
// input is not modified. Points entering as X=longitude, Y=latitude are
// flipped to the latitude-first axis order that epsg:4326 declares.
func (r *Reprojector) Forward(points []Point) ([]Point, error) {
	coords := coordSlices(points)
	flipCoords(coords)
	if err := r.pj.ForwardFloat64Slices(coords); err != nil {
		return nil, err
	}
	return pointsFromCoords(coords), nil
}

// Inverse transforms points from the target CRS back to the source CRS,
// returning X=longitude, Y=latitude.
func (r *Reprojector) Inverse(points []Point) ([]Point, error) {
	coords := coordSlices(points)
	if err := r.pj.InverseFloat64Slices(coords); err != nil {
		return nil, err
	}
	flipCoords(coords)
	return pointsFromCoords(coords), nil
}

func coordSlices(points []Point) [][]float64 {
	coordsFlat := make([]float64, 2*len(points))
	coords := make([][]float64, len(points))
	for i, point := range points {
		coordsFlat[2*i] = point.X
		coordsFlat[2*i+1] = point.Y
		coords[i] = coordsFlat[2*i : 2*i+2]
	}
	return coords
}

func pointsFromCoords(coords [][]float64) []Point {
	points := make([]Point, len(coords))
	for i, coord := range coords {
		points[i] = Point{X: coord[0], Y: coord[1]}
	}
	return points
}

func flipCoords(coords [][]float64) {
	for i, coord := range coords {
		coords[i][0], coords[i][1] = coord[1], coord[0]
	}
}
