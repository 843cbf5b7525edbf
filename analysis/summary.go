package analysis

import (
	"math"

	"github.com/montanaflynn/stats"
)

// A HistogramBin is a half-open uncertainty interval [Low, High) and the
// number of samples falling in it. The last bin is closed on both sides.
type HistogramBin struct {
	Low   float64
	High  float64
	Count int
}

// An UncertaintySummary describes the distribution of the usable
// uncertainties in a batch.
type UncertaintySummary struct {
	Count  int
	Mean   float64
	Median float64
	P90    float64
	Max    float64
	Bins   []HistogramBin
}

// SummarizeUncertainty summarizes the uncertainty column of a batch over
// fixed-width bins. Samples with zero, negative, NaN, or infinite
// uncertainty are excluded, matching the weighting rules of
// DifferenceSeries. If no sample has a usable uncertainty the summary has
// Count 0 and NaN statistics. binCount values below 1 default to 10.
// SummarizeUncertainty returns ErrNoSamples for an empty batch.
func SummarizeUncertainty(samples []Sample, binCount int) (UncertaintySummary, error) {
	if len(samples) == 0 {
		return UncertaintySummary{}, ErrNoSamples
	}
	if binCount < 1 {
		binCount = 10
	}

	uncertainties := make([]float64, 0, len(samples))
	for _, sample := range samples {
		if usableUncertainty(sample.Uncertainty) {
			uncertainties = append(uncertainties, sample.Uncertainty)
		}
	}
	if len(uncertainties) == 0 {
		nan := math.NaN()
		return UncertaintySummary{Mean: nan, Median: nan, P90: nan, Max: nan}, nil
	}

	mean, _ := stats.Mean(uncertainties)
	median, _ := stats.Median(uncertainties)
	p90, _ := stats.Percentile(uncertainties, 90)
	max, _ := stats.Max(uncertainties)

	summary := UncertaintySummary{
		Count:  len(uncertainties),
		Mean:   mean,
		Median: median,
		P90:    p90,
		Max:    max,
		Bins:   make([]HistogramBin, binCount),
	}

	width := max / float64(binCount)
	if width == 0 {
		width = 1
	}
	for i := range summary.Bins {
		summary.Bins[i].Low = float64(i) * width
		summary.Bins[i].High = float64(i+1) * width
	}
	for _, u := range uncertainties {
		bin := int(u / width)
		if bin >= binCount {
			bin = binCount - 1
		}
		summary.Bins[bin].Count++
	}

	return summary, nil
}
