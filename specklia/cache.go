package specklia

import (
	"context"
	"encoding/json"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

// A Querier runs Specklia queries. Both Client and CachedClient implement
// it.
type Querier interface {
	QueryPoints(ctx context.Context, req QueryRequest) (*PointQueryResult, error)
	QueryPolygons(ctx context.Context, req QueryRequest) (*PolygonQueryResult, error)
}

// A CachedClient wraps a Querier with an LRU cache keyed by the full query.
// Identical queries within the cache's lifetime are answered locally.
// Results are shared between callers and must be treated as read-only.
type CachedClient struct {
	inner    Querier
	points   *lru.Cache[string, *PointQueryResult]
	polygons *lru.Cache[string, *PolygonQueryResult]
}

// NewCachedClient returns a CachedClient around inner holding up to
// cacheSize entries per query kind.
func NewCachedClient(inner Querier, cacheSize int) (*CachedClient, error) {
	points, err := lru.New[string, *PointQueryResult](cacheSize)
	if err != nil {
		return nil, err
	}
	polygons, err := lru.New[string, *PolygonQueryResult](cacheSize)
	if err != nil {
		return nil, err
	}
	return &CachedClient{
		inner:    inner,
		points:   points,
		polygons: polygons,
	}, nil
}

func (c *CachedClient) QueryPoints(ctx context.Context, req QueryRequest) (*PointQueryResult, error) {
	key, err := cacheKey("points", req)
	if err != nil {
		return nil, err
	}
	if result, ok := c.points.Get(key); ok {
		queryCacheHits.Inc()
		return result, nil
	}
	queryCacheMisses.Inc()
	result, err := c.inner.QueryPoints(ctx, req)
	if err != nil {
		return nil, err
	}
	c.points.Add(key, result)
	return result, nil
}

func (c *CachedClient) QueryPolygons(ctx context.Context, req QueryRequest) (*PolygonQueryResult, error) {
	key, err := cacheKey("polygons", req)
	if err != nil {
		return nil, err
	}
	if result, ok := c.polygons.Get(key); ok {
		queryCacheHits.Inc()
		return result, nil
	}
	queryCacheMisses.Inc()
	result, err := c.inner.QueryPolygons(ctx, req)
	if err != nil {
		return nil, err
	}
	c.polygons.Add(key, result)
	return result, nil
}

// cacheKey derives a deterministic key from the request. JSON encoding of
// the request struct is stable: field order is fixed and slices keep their
// order.
func cacheKey(kind string, req QueryRequest) (string, error) {
	encoded, err := json.Marshal(req)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s:%s", kind, encoded), nil
}
