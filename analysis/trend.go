package analysis

import (
	"slices"

	"gonum.org/v1/gonum/stat"

	"github.com/earthwave/cryotempo-analysis/geo"
)

// secondsPerYear converts a per-second rate to a per-year rate using a
// 365-day year. Leap days are deliberately not accounted for.
const secondsPerYear = 60 * 60 * 24 * 365

// A PixelTrend is the fitted elevation rate at one spatial location, in
// metres per year.
type PixelTrend struct {
	Loc         geo.Point
	RatePerYear float64
}

// PixelTrends fits an ordinary least-squares line of elevation against time
// independently for each distinct location in samples and returns the slope
// rescaled to metres per year.
//
// A location needs at least two distinct timestamps to define a slope;
// locations with fewer are skipped, not reported. The result is sorted by
// location. PixelTrends returns ErrNoSamples for an empty batch.
func PixelTrends(samples []Sample) ([]PixelTrend, error) {
	if len(samples) == 0 {
		return nil, ErrNoSamples
	}

	byLoc := make(map[geo.Point][]Sample)
	for _, sample := range samples {
		byLoc[sample.Loc] = append(byLoc[sample.Loc], sample)
	}
	locs := make([]geo.Point, 0, len(byLoc))
	for loc := range byLoc {
		locs = append(locs, loc)
	}
	slices.SortFunc(locs, comparePoints)

	trends := make([]PixelTrend, 0, len(locs))
	for _, loc := range locs {
		group := byLoc[loc]
		// Sorting changes nothing about the least-squares solution, but
		// keeps intermediate values reproducible across runs.
		slices.SortFunc(group, func(a, b Sample) int {
			return a.Time.Compare(b.Time)
		})

		// Abscissas are shifted to the group's first observation before the
		// fit: epoch-scale timestamps spanning a narrow range are poorly
		// conditioned.
		origin := group[0].Time
		xs := make([]float64, len(group))
		ys := make([]float64, len(group))
		distinct := 1
		for i, sample := range group {
			xs[i] = sample.Time.Sub(origin).Seconds()
			ys[i] = sample.Elevation
			if i > 0 && xs[i] != xs[i-1] {
				distinct++
			}
		}
		if distinct < 2 {
			continue
		}

		_, slope := stat.LinearRegression(xs, ys, nil, false)
		trends = append(trends, PixelTrend{
			Loc:         loc,
			RatePerYear: slope * secondsPerYear,
		})
	}

	return trends, nil
}
