package specklia_test

import (
	"context"
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/earthwave/cryotempo-analysis/specklia"
)

type countingQuerier struct {
	pointCalls   int
	polygonCalls int
}

func (q *countingQuerier) QueryPoints(_ context.Context, _ specklia.QueryRequest) (*specklia.PointQueryResult, error) {
	q.pointCalls++
	return &specklia.PointQueryResult{
		Rows: []specklia.PointRecord{{Lon: -27.2, Lat: 64.0, Elevation: 1803.2, Uncertainty: 0.35}},
	}, nil
}

func (q *countingQuerier) QueryPolygons(_ context.Context, _ specklia.QueryRequest) (*specklia.PolygonQueryResult, error) {
	q.polygonCalls++
	return &specklia.PolygonQueryResult{
		Rows: []specklia.PolygonRecord{{Name: "Vatnajoekull"}},
	}, nil
}

func TestCachedClient_QueryPoints(t *testing.T) {
	inner := &countingQuerier{}
	client, err := specklia.NewCachedClient(inner, 8)
	assert.NoError(t, err)

	ctx := context.Background()
	req := testRequest()

	first, err := client.QueryPoints(ctx, req)
	assert.NoError(t, err)
	second, err := client.QueryPoints(ctx, req)
	assert.NoError(t, err)
	assert.Equal(t, 1, inner.pointCalls)
	assert.Equal(t, first, second)

	// A different time window is a different cache entry.
	changed := req
	changed.End = changed.End.AddDate(1, 0, 0)
	_, err = client.QueryPoints(ctx, changed)
	assert.NoError(t, err)
	assert.Equal(t, 2, inner.pointCalls)
}

func TestCachedClient_QueryKindsAreSeparate(t *testing.T) {
	inner := &countingQuerier{}
	client, err := specklia.NewCachedClient(inner, 8)
	assert.NoError(t, err)

	ctx := context.Background()
	req := testRequest()

	_, err = client.QueryPoints(ctx, req)
	assert.NoError(t, err)
	_, err = client.QueryPolygons(ctx, req)
	assert.NoError(t, err)
	_, err = client.QueryPolygons(ctx, req)
	assert.NoError(t, err)

	assert.Equal(t, 1, inner.pointCalls)
	assert.Equal(t, 1, inner.polygonCalls)
}

func TestCachedClient_Eviction(t *testing.T) {
	inner := &countingQuerier{}
	client, err := specklia.NewCachedClient(inner, 1)
	assert.NoError(t, err)

	ctx := context.Background()
	first := testRequest()
	second := testRequest()
	second.DatasetID = "cryotempo-eolis-gridded"

	_, err = client.QueryPoints(ctx, first)
	assert.NoError(t, err)
	_, err = client.QueryPoints(ctx, second)
	assert.NoError(t, err)
	// first has been evicted by second.
	_, err = client.QueryPoints(ctx, first)
	assert.NoError(t, err)
	assert.Equal(t, 3, inner.pointCalls)
}
