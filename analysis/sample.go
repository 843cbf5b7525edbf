// Package analysis implements derived statistics over satellite altimetry
// elevation samples: an uncertainty-weighted elevation-difference time
// series, per-pixel elevation trends, epoch difference maps, and
// uncertainty summaries. All functions are pure: they never modify their
// input and hold no state between calls.
package analysis

import (
	"errors"
	"math"
	"time"

	"github.com/earthwave/cryotempo-analysis/geo"
)

// ErrNoSamples is returned when a computation is given an empty batch.
var ErrNoSamples = errors.New("no samples")

// A Sample is a single elevation observation. Loc is compared by exact
// positional identity: two samples belong to the same pixel if and only if
// their coordinates are identical. Uncertainty is in metres; NaN marks an
// absent value.
type Sample struct {
	Loc         geo.Point
	Time        time.Time
	Elevation   float64
	Uncertainty float64
}

// usableUncertainty reports whether u may contribute to a weighted
// computation. Zero, negative, infinite, and NaN uncertainties are excluded
// per sample rather than being allowed to poison a whole batch.
func usableUncertainty(u float64) bool {
	return u > 0 && !math.IsInf(u, 1)
}

func comparePoints(a, b geo.Point) int {
	switch {
	case a.Less(b):
		return -1
	case b.Less(a):
		return 1
	default:
		return 0
	}
}
