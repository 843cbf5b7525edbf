// Package specklia is a client for the Specklia geospatial point data
// service. It submits polygon and time-window queries for satellite
// altimetry products and returns typed rows together with per-source
// provenance records. Query semantics, authentication internals, and
// storage are the service's concern; this package only speaks its HTTP API.
package specklia

import (
	"encoding/json"
	"math"
	"time"

	"github.com/earthwave/cryotempo-analysis/geo"
)

// A Dataset describes one dataset hosted by the service.
type Dataset struct {
	ID           string `json:"dataset_id"`
	Name         string `json:"dataset_name"`
	Description  string `json:"description"`
	EPSG         int    `json:"epsg"`
	MinTimestamp int64  `json:"min_timestamp"`
	MaxTimestamp int64  `json:"max_timestamp"`
}

// A RowFilter restricts returned rows to those where Column satisfies Op
// against Value. Op is one of the service's comparison operators
// (">", ">=", "<", "<=", "=").
type RowFilter struct {
	Column string  `json:"column"`
	Op     string  `json:"operator"`
	Value  float64 `json:"threshold"`
}

// A QueryRequest selects rows of a dataset inside a WGS84 polygon and an
// inclusive time window. Columns optionally projects the returned columns;
// Filters optionally restricts rows.
type QueryRequest struct {
	DatasetID string
	Polygon   geo.Polygon
	Start     time.Time
	End       time.Time
	Columns   []string
	Filters   []RowFilter
}

// A Source is a provenance record: one per original source file that
// contributed rows to a query result.
type Source struct {
	ID           string  `json:"source_id"`
	MinLon       float64 `json:"min_lon"`
	MaxLon       float64 `json:"max_lon"`
	MinLat       float64 `json:"min_lat"`
	MaxLat       float64 `json:"max_lat"`
	MinTimestamp int64   `json:"min_timestamp"`
	MaxTimestamp int64   `json:"max_timestamp"`
}

// A PointRecord is one elevation row. Uncertainty is NaN when the service
// returns no value for it.
type PointRecord struct {
	Lon         float64
	Lat         float64
	Timestamp   int64
	Elevation   float64
	Uncertainty float64
}

// UnmarshalJSON maps a null uncertainty to NaN.
func (r *PointRecord) UnmarshalJSON(data []byte) error {
	var row struct {
		Lon         float64  `json:"lon"`
		Lat         float64  `json:"lat"`
		Timestamp   int64    `json:"timestamp"`
		Elevation   float64  `json:"elevation"`
		Uncertainty *float64 `json:"uncertainty"`
	}
	if err := json.Unmarshal(data, &row); err != nil {
		return err
	}
	r.Lon = row.Lon
	r.Lat = row.Lat
	r.Timestamp = row.Timestamp
	r.Elevation = row.Elevation
	if row.Uncertainty != nil {
		r.Uncertainty = *row.Uncertainty
	} else {
		r.Uncertainty = math.NaN()
	}
	return nil
}

// A PointQueryResult is the rows and provenance returned by QueryPoints.
type PointQueryResult struct {
	Rows    []PointRecord `json:"rows"`
	Sources []Source      `json:"sources"`
}

// A PolygonRecord is one boundary row, such as an RGI glacier outline.
type PolygonRecord struct {
	Name     string      `json:"name"`
	Boundary [][]float64 `json:"polygon"` // [lon, lat] vertex pairs.
}

// Polygon returns the record's boundary as a geo.Polygon.
func (r PolygonRecord) Polygon() geo.Polygon {
	vertices := make([]geo.Point, len(r.Boundary))
	for i, vertex := range r.Boundary {
		vertices[i] = geo.Point{X: vertex[0], Y: vertex[1]}
	}
	return geo.Polygon{Vertices: vertices}
}

// A PolygonQueryResult is the rows and provenance returned by QueryPolygons.
type PolygonQueryResult struct {
	Rows    []PolygonRecord `json:"rows"`
	Sources []Source        `json:"sources"`
}
