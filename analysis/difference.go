package analysis

import (
	"math"
	"slices"

	"github.com/earthwave/cryotempo-analysis/geo"
)

// A PointDifference is the elevation change at one location between two
// epochs, with the combined uncertainty of the pair.
type PointDifference struct {
	Loc   geo.Point
	Diff  float64
	Sigma float64
}

// DifferenceMap inner-joins two epochs on exact location and returns the
// per-location difference target minus reference. Locations present in
// only one epoch are dropped. When a location carries several samples in
// an epoch the first is used. The difference is reported even when an
// uncertainty is unusable; the combined sigma is then NaN. The result is
// sorted by location.
func DifferenceMap(reference, target []Sample) []PointDifference {
	refByLoc := make(map[geo.Point]Sample, len(reference))
	for _, sample := range reference {
		if _, ok := refByLoc[sample.Loc]; !ok {
			refByLoc[sample.Loc] = sample
		}
	}

	differences := make([]PointDifference, 0, len(target))
	seen := make(map[geo.Point]struct{}, len(target))
	for _, sample := range target {
		ref, ok := refByLoc[sample.Loc]
		if !ok {
			continue
		}
		if _, dup := seen[sample.Loc]; dup {
			continue
		}
		seen[sample.Loc] = struct{}{}

		sigma := math.NaN()
		if usableUncertainty(sample.Uncertainty) && usableUncertainty(ref.Uncertainty) {
			sigma = math.Sqrt(sample.Uncertainty*sample.Uncertainty + ref.Uncertainty*ref.Uncertainty)
		}
		differences = append(differences, PointDifference{
			Loc:   sample.Loc,
			Diff:  sample.Elevation - ref.Elevation,
			Sigma: sigma,
		})
	}

	slices.SortFunc(differences, func(a, b PointDifference) int {
		return comparePoints(a.Loc, b.Loc)
	})
	return differences
}
