// Command glacier-demo queries Specklia for CryoTEMPO-EOLIS elevation data
// over a named RGI glacier and derives elevation-change statistics: a
// weighted elevation-difference time series, a per-pixel trend map, an
// epoch difference map, and an uncertainty summary. Results are written as
// CSV for external plotting.
package main

import (
	"context"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"math"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/earthwave/cryotempo-analysis/analysis"
	"github.com/earthwave/cryotempo-analysis/geo"
	"github.com/earthwave/cryotempo-analysis/internal/config"
	"github.com/earthwave/cryotempo-analysis/internal/observability"
	"github.com/earthwave/cryotempo-analysis/specklia"
)

func run(ctx context.Context) error {
	glacierName := flag.String("glacier", "Vatnajoekull", "RGI glacier name")
	boundaryDataset := flag.String("boundary-dataset", "rgi-v7-glaciers", "RGI glacier boundary dataset ID")
	pointsDataset := flag.String("points-dataset", "cryotempo-eolis-gridded", "elevation dataset ID")
	startArg := flag.String("start", "2021-01-01", "window start (YYYY-MM-DD)")
	endArg := flag.String("end", "2021-12-31", "window end (YYYY-MM-DD)")
	searchArea := flag.String("search-area", "-28,63.3,-14.5,66.8", "lon/lat search box: minLon,minLat,maxLon,maxLat")
	outDir := flag.String("out", ".", "output directory for CSV files")
	cellSize := flag.Float64("cell-size", 2000, "gridded product cell size in metres")
	listDatasets := flag.Bool("list-datasets", false, "list available datasets and exit")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := observability.NewLogger(cfg)

	start, err := time.Parse(time.DateOnly, *startArg)
	if err != nil {
		return err
	}
	end, err := time.Parse(time.DateOnly, *endArg)
	if err != nil {
		return err
	}
	searchPolygon, err := parseSearchArea(*searchArea)
	if err != nil {
		return err
	}

	raw := specklia.NewClient(cfg.SpeckliaURL, cfg.SpeckliaAPIKey,
		specklia.WithLogger(logger),
		specklia.WithRetries(cfg.SpeckliaRetries),
		specklia.WithTimeout(cfg.SpeckliaTimeout),
	)
	if *listDatasets {
		datasets, err := raw.ListDatasets(ctx)
		if err != nil {
			return err
		}
		for _, dataset := range datasets {
			fmt.Printf("%s\t%s\tepsg:%d\n", dataset.ID, dataset.Name, dataset.EPSG)
		}
		return nil
	}
	client, err := specklia.NewCachedClient(raw, cfg.CacheSize)
	if err != nil {
		return err
	}

	boundary, err := fetchBoundary(ctx, client, *boundaryDataset, *glacierName, searchPolygon, logger)
	if err != nil {
		return err
	}

	result, err := client.QueryPoints(ctx, specklia.QueryRequest{
		DatasetID: *pointsDataset,
		Polygon:   boundary,
		Start:     start,
		End:       end,
	})
	if err != nil {
		return err
	}
	logger.Info("retrieved elevation rows",
		"dataset", *pointsDataset,
		"rows", len(result.Rows),
		"sources", len(result.Sources),
	)
	for _, source := range result.Sources {
		logger.Debug("source", "id", source.ID,
			"min_timestamp", source.MinTimestamp, "max_timestamp", source.MaxTimestamp)
	}
	if len(result.Rows) == 0 {
		return errors.New("no elevation rows in the requested window")
	}

	// Group pixels in the gridded product's own CRS so that exact-location
	// keys line up with grid cells.
	reprojector, err := geo.NewWGS84ToPolarStereographic()
	if err != nil {
		return err
	}
	samples, err := toSamples(result.Rows, reprojector)
	if err != nil {
		return err
	}

	series, err := analysis.DifferenceSeries(samples)
	if err != nil {
		return err
	}
	trends, err := analysis.PixelTrends(samples)
	if err != nil {
		return err
	}
	summary, err := analysis.SummarizeUncertainty(samples, 20)
	if err != nil {
		return err
	}
	lastEpoch := epochSamples(samples, series[len(series)-1].Time)
	differences := analysis.DifferenceMap(
		epochSamples(samples, series[0].Time),
		lastEpoch,
	)

	// Sample the most recent gridded epoch at the centre of the glacier's
	// bounding box.
	grid, err := analysis.NewGrid(lastEpoch, *cellSize)
	if err != nil {
		return err
	}
	minBound, maxBound := boundary.Bounds()
	centre, err := reprojector.Forward([]geo.Point{{
		X: (minBound.X + maxBound.X) / 2,
		Y: (minBound.Y + maxBound.Y) / 2,
	}})
	if err != nil {
		return err
	}
	centreElevations := grid.InterpolateBilinear(centre)
	logger.Info("glacier centre elevation",
		"x", centre[0].X,
		"y", centre[0].Y,
		"elevation", centreElevations[0],
	)

	logger.Info("uncertainty summary",
		"count", summary.Count,
		"mean", summary.Mean,
		"median", summary.Median,
		"p90", summary.P90,
		"max", summary.Max,
	)

	if err := writeSeriesCSV(*outDir, series); err != nil {
		return err
	}
	if err := writeTrendsCSV(*outDir, trends); err != nil {
		return err
	}
	if err := writeDifferencesCSV(*outDir, differences); err != nil {
		return err
	}
	logger.Info("wrote outputs", "dir", *outDir,
		"series_points", len(series), "trend_pixels", len(trends), "difference_pixels", len(differences))

	return nil
}

// fetchBoundary queries the boundary dataset inside the search area and
// picks the named glacier. Name matching happens client-side because row
// filters only compare numeric columns.
func fetchBoundary(ctx context.Context, client *specklia.CachedClient, dataset, name string, searchArea geo.Polygon, logger *slog.Logger) (geo.Polygon, error) {
	result, err := client.QueryPolygons(ctx, specklia.QueryRequest{
		DatasetID: dataset,
		Polygon:   searchArea,
		// RGI outlines are static; the service still requires a window.
		Start: time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2100, time.January, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		return geo.Polygon{}, err
	}
	for _, row := range result.Rows {
		if strings.EqualFold(row.Name, name) {
			boundary := row.Polygon()
			if err := boundary.Validate(); err != nil {
				return geo.Polygon{}, fmt.Errorf("boundary for %q: %w", name, err)
			}
			logger.Info("found glacier boundary", "glacier", row.Name, "vertices", len(boundary.Vertices))
			return boundary, nil
		}
	}
	return geo.Polygon{}, fmt.Errorf("glacier %q not found in dataset %q", name, dataset)
}

func parseSearchArea(arg string) (geo.Polygon, error) {
	parts := strings.Split(arg, ",")
	if len(parts) != 4 {
		return geo.Polygon{}, fmt.Errorf("search area %q: want minLon,minLat,maxLon,maxLat", arg)
	}
	bounds := make([]float64, 4)
	for i, part := range parts {
		value, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return geo.Polygon{}, fmt.Errorf("search area %q: %w", arg, err)
		}
		bounds[i] = value
	}
	minLon, minLat, maxLon, maxLat := bounds[0], bounds[1], bounds[2], bounds[3]
	return geo.Polygon{Vertices: []geo.Point{
		{X: minLon, Y: minLat},
		{X: maxLon, Y: minLat},
		{X: maxLon, Y: maxLat},
		{X: minLon, Y: maxLat},
	}}, nil
}

// toSamples converts API rows to analysis samples, keyed by their location
// in the gridded product's CRS.
func toSamples(rows []specklia.PointRecord, reprojector *geo.Reprojector) ([]analysis.Sample, error) {
	lonLats := make([]geo.Point, len(rows))
	for i, row := range rows {
		lonLats[i] = geo.Point{X: row.Lon, Y: row.Lat}
	}
	locs, err := reprojector.Forward(lonLats)
	if err != nil {
		return nil, err
	}
	samples := make([]analysis.Sample, len(rows))
	for i, row := range rows {
		samples[i] = analysis.Sample{
			Loc:         locs[i],
			Time:        time.Unix(row.Timestamp, 0).UTC(),
			Elevation:   row.Elevation,
			Uncertainty: row.Uncertainty,
		}
	}
	return samples, nil
}

// epochSamples returns the samples observed at exactly t.
func epochSamples(samples []analysis.Sample, t time.Time) []analysis.Sample {
	var epoch []analysis.Sample
	for _, sample := range samples {
		if sample.Time.Equal(t) {
			epoch = append(epoch, sample)
		}
	}
	return epoch
}

func writeSeriesCSV(dir string, series []analysis.TimeSeriesPoint) error {
	records := make([][]string, 0, len(series)+1)
	records = append(records, []string{"timestamp", "dh_m", "sigma_m"})
	for _, point := range series {
		records = append(records, []string{
			point.Time.Format(time.RFC3339),
			formatFloat(point.Diff),
			formatFloat(point.Sigma),
		})
	}
	return writeCSV(dir, "difference_series.csv", records)
}

func writeTrendsCSV(dir string, trends []analysis.PixelTrend) error {
	records := make([][]string, 0, len(trends)+1)
	records = append(records, []string{"x", "y", "rate_m_per_year"})
	for _, trend := range trends {
		records = append(records, []string{
			formatFloat(trend.Loc.X),
			formatFloat(trend.Loc.Y),
			formatFloat(trend.RatePerYear),
		})
	}
	return writeCSV(dir, "pixel_trends.csv", records)
}

func writeDifferencesCSV(dir string, differences []analysis.PointDifference) error {
	records := make([][]string, 0, len(differences)+1)
	records = append(records, []string{"x", "y", "dh_m", "sigma_m"})
	for _, difference := range differences {
		records = append(records, []string{
			formatFloat(difference.Loc.X),
			formatFloat(difference.Loc.Y),
			formatFloat(difference.Diff),
			formatFloat(difference.Sigma),
		})
	}
	return writeCSV(dir, "difference_map.csv", records)
}

func writeCSV(dir, name string, records [][]string) error {
	f, err := os.Create(dir + "/" + name)
	if err != nil {
		return err
	}
	w := csv.NewWriter(f)
	if err := w.WriteAll(records); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func formatFloat(value float64) string {
	if math.IsNaN(value) {
		return ""
	}
	return strconv.FormatFloat(value, 'g', -1, 64)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
