package analysis_test

import (
	"math"
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/earthwave/cryotempo-analysis/analysis"
	"github.com/earthwave/cryotempo-analysis/geo"
)

const secondsPerYear = 60 * 60 * 24 * 365

func TestPixelTrends_EmptyInput(t *testing.T) {
	_, err := analysis.PixelTrends(nil)
	assert.IsError(t, err, analysis.ErrNoSamples)
}

func TestPixelTrends_RecoversLinearTrend(t *testing.T) {
	// Noise-free linear elevations: every location must recover its own
	// slope to within floating-point tolerance.
	slopes := map[geo.Point]float64{
		locA: -1.5 / secondsPerYear,
		locB: 0.75 / secondsPerYear,
		locC: 0,
	}
	var samples []analysis.Sample
	for loc, slope := range slopes {
		for month := 0; month < 12; month++ {
			at := t0.AddDate(0, month, 0)
			samples = append(samples, analysis.Sample{
				Loc:         loc,
				Time:        at,
				Elevation:   1000 + slope*at.Sub(t0).Seconds(),
				Uncertainty: 1,
			})
		}
	}

	trends, err := analysis.PixelTrends(samples)
	assert.NoError(t, err)
	assert.Equal(t, len(slopes), len(trends))
	for _, trend := range trends {
		expected := slopes[trend.Loc] * secondsPerYear
		if expected == 0 {
			assert.True(t, math.Abs(trend.RatePerYear) < 1e-9)
		} else {
			assert.True(t, math.Abs(trend.RatePerYear-expected) < 1e-9*math.Abs(expected))
		}
	}
}

func TestPixelTrends_TwoPointSlope(t *testing.T) {
	e1, e2 := 100.0, 97.0
	samples := []analysis.Sample{
		{Loc: locA, Time: t0, Elevation: e1, Uncertainty: 1},
		{Loc: locA, Time: t1, Elevation: e2, Uncertainty: 1},
	}

	trends, err := analysis.PixelTrends(samples)
	assert.NoError(t, err)
	assert.Equal(t, 1, len(trends))
	expected := (e2 - e1) / t1.Sub(t0).Seconds() * secondsPerYear
	assert.True(t, math.Abs(trends[0].RatePerYear-expected) < 1e-9*math.Abs(expected))
}

func TestPixelTrends_SkipsShortGroups(t *testing.T) {
	samples := []analysis.Sample{
		{Loc: locA, Time: t0, Elevation: 100, Uncertainty: 1},
		{Loc: locA, Time: t1, Elevation: 101, Uncertainty: 1},
		// One observation only.
		{Loc: locB, Time: t0, Elevation: 50, Uncertainty: 1},
		// Two observations but a single distinct timestamp.
		{Loc: locC, Time: t0, Elevation: 10, Uncertainty: 1},
		{Loc: locC, Time: t0, Elevation: 12, Uncertainty: 1},
	}

	trends, err := analysis.PixelTrends(samples)
	assert.NoError(t, err)
	assert.Equal(t, 1, len(trends))
	assert.Equal(t, locA, trends[0].Loc)
}

func TestPixelTrends_SortedByLocation(t *testing.T) {
	var samples []analysis.Sample
	for _, loc := range []geo.Point{locA, locC, locB} {
		samples = append(samples,
			analysis.Sample{Loc: loc, Time: t0, Elevation: 1, Uncertainty: 1},
			analysis.Sample{Loc: loc, Time: t1, Elevation: 2, Uncertainty: 1},
		)
	}

	trends, err := analysis.PixelTrends(samples)
	assert.NoError(t, err)
	assert.Equal(t, 3, len(trends))
	for i := 1; i < len(trends); i++ {
		assert.True(t, trends[i-1].Loc.Less(trends[i].Loc))
	}
}

func TestPixelTrends_Idempotent(t *testing.T) {
	samples := []analysis.Sample{
		{Loc: locA, Time: t0, Elevation: 100, Uncertainty: 1},
		{Loc: locA, Time: t1, Elevation: 99.5, Uncertainty: 1},
		{Loc: locA, Time: t2, Elevation: 98.8, Uncertainty: 1},
		{Loc: locB, Time: t0, Elevation: 40, Uncertainty: 1},
		{Loc: locB, Time: t2, Elevation: 41, Uncertainty: 1},
	}

	first, err := analysis.PixelTrends(samples)
	assert.NoError(t, err)
	second, err := analysis.PixelTrends(samples)
	assert.NoError(t, err)
	assert.Equal(t, first, second)
}
