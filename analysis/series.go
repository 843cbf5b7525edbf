package analysis

import (
	"math"
	"slices"
	"time"

	"github.com/earthwave/cryotempo-analysis/geo"
)

// A TimeSeriesPoint is the uncertainty-weighted mean elevation difference
// at one timestamp, relative to the earliest timestamp in the batch, with
// the propagated uncertainty of the mean.
type TimeSeriesPoint struct {
	Time  time.Time
	Diff  float64
	Sigma float64
}

// DifferenceSeries computes, per distinct timestamp in samples, the
// weighted mean elevation difference against the earliest timestamp.
//
// Samples at each timestamp are paired with reference samples at the same
// exact location (an inner hash-join: locations present on only one side
// are dropped). Each pair contributes diff = e(t) - e(t0) with combined
// sigma = sqrt(u(t)^2 + u(t0)^2), and pairs are averaged with 1/sigma^2
// weights. Samples whose uncertainty is zero, negative, NaN, or infinite
// are excluded from the pairing. A timestamp with no contributing pairs
// yields a NaN entry rather than an error.
//
// The result has one entry per distinct input timestamp, ascending. The
// entry for the reference timestamp itself pairs every sample with itself
// and therefore has Diff == 0. DifferenceSeries returns ErrNoSamples for an
// empty batch.
func DifferenceSeries(samples []Sample) ([]TimeSeriesPoint, error) {
	if len(samples) == 0 {
		return nil, ErrNoSamples
	}

	// Bucket samples by timestamp, at second precision.
	byTime := make(map[int64][]Sample)
	for _, sample := range samples {
		epoch := sample.Time.Unix()
		byTime[epoch] = append(byTime[epoch], sample)
	}
	epochs := make([]int64, 0, len(byTime))
	for epoch := range byTime {
		epochs = append(epochs, epoch)
	}
	slices.Sort(epochs)

	// Index the reference epoch by location for the join.
	reference := make(map[geo.Point][]Sample)
	for _, sample := range byTime[epochs[0]] {
		if !usableUncertainty(sample.Uncertainty) {
			continue
		}
		reference[sample.Loc] = append(reference[sample.Loc], sample)
	}

	series := make([]TimeSeriesPoint, 0, len(epochs))
	for _, epoch := range epochs {
		var sumWeights, sumWeightedDiffs float64
		for _, sample := range byTime[epoch] {
			if !usableUncertainty(sample.Uncertainty) {
				continue
			}
			for _, ref := range reference[sample.Loc] {
				diff := sample.Elevation - ref.Elevation
				variance := sample.Uncertainty*sample.Uncertainty + ref.Uncertainty*ref.Uncertainty
				sumWeights += 1 / variance
				sumWeightedDiffs += diff / variance
			}
		}
		point := TimeSeriesPoint{Time: time.Unix(epoch, 0).UTC()}
		if sumWeights > 0 {
			point.Diff = sumWeightedDiffs / sumWeights
			point.Sigma = math.Sqrt(1 / sumWeights)
		} else {
			point.Diff = math.NaN()
			point.Sigma = math.NaN()
		}
		series = append(series, point)
	}

	return series, nil
}
