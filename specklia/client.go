package specklia

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/jonboulle/clockwork"
)

const (
	defaultTimeout = 30 * time.Second
	defaultRetries = 3
	initialBackoff = 200 * time.Millisecond
	maxBackoff     = 5 * time.Second
)

// A Client queries the Specklia service. It is safe for concurrent use.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
	clock      clockwork.Clock
	maxRetries int
}

// A ClientOption sets an option on a Client.
type ClientOption func(*Client)

// NewClient returns a Client for the service at baseURL, authenticating
// with apiKey.
func NewClient(baseURL, apiKey string, options ...ClientOption) *Client {
	c := &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: defaultTimeout},
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		clock:      clockwork.NewRealClock(),
		maxRetries: defaultRetries,
	}
	for _, option := range options {
		option(c)
	}
	return c
}

func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithTimeout sets the per-request timeout on the client's HTTP client.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

func WithClock(clock clockwork.Clock) ClientOption {
	return func(c *Client) {
		c.clock = clock
	}
}

// WithRetries sets the number of retries after a failed attempt. Zero
// disables retrying.
func WithRetries(maxRetries int) ClientOption {
	return func(c *Client) {
		c.maxRetries = maxRetries
	}
}

// ListDatasets returns the datasets visible to the client's API key.
func (c *Client) ListDatasets(ctx context.Context) ([]Dataset, error) {
	var datasets []Dataset
	if err := c.do(ctx, http.MethodGet, "/datasets", nil, &datasets); err != nil {
		return nil, err
	}
	return datasets, nil
}

// QueryPoints returns the elevation rows of a point or gridded dataset
// inside the request's polygon and time window, with provenance.
func (c *Client) QueryPoints(ctx context.Context, req QueryRequest) (*PointQueryResult, error) {
	body, err := queryBody(req)
	if err != nil {
		return nil, err
	}
	var result PointQueryResult
	if err := c.do(ctx, http.MethodPost, "/query", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// QueryPolygons returns the boundary rows of a polygon dataset inside the
// request's polygon and time window, with provenance.
func (c *Client) QueryPolygons(ctx context.Context, req QueryRequest) (*PolygonQueryResult, error) {
	body, err := queryBody(req)
	if err != nil {
		return nil, err
	}
	var result PolygonQueryResult
	if err := c.do(ctx, http.MethodPost, "/query", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// queryBody translates a QueryRequest to the service's wire form. The
// polygon ring is closed on the way out because the service requires it.
func queryBody(req QueryRequest) (map[string]any, error) {
	if req.DatasetID == "" {
		return nil, errors.New("dataset ID is required")
	}
	if err := req.Polygon.Validate(); err != nil {
		return nil, err
	}
	ring := req.Polygon.Closed()
	polygon := make([][]float64, len(ring))
	for i, vertex := range ring {
		polygon[i] = []float64{vertex.X, vertex.Y}
	}
	body := map[string]any{
		"dataset_id":       req.DatasetID,
		"epsg4326_polygon": polygon,
		"min_timestamp":    req.Start.Unix(),
		"max_timestamp":    req.End.Unix(),
	}
	if len(req.Columns) > 0 {
		body["columns_to_return"] = req.Columns
	}
	if len(req.Filters) > 0 {
		body["additional_filters"] = req.Filters
	}
	return body, nil
}

// A statusError is a non-2xx response. Only server-side statuses are
// retried.
type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("specklia API error: status %d: %s", e.code, e.body)
}

func (e *statusError) retryable() bool {
	return e.code >= http.StatusInternalServerError
}

// do performs one API call with bounded retry and exponential backoff.
func (c *Client) do(ctx context.Context, method, path string, reqBody, respBody any) error {
	var lastErr error
	backoff := initialBackoff
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			queryRetries.Inc()
			if !c.sleep(ctx, backoff) {
				return ctx.Err()
			}
			backoff = min(2*backoff, maxBackoff)
		}

		err := c.doOnce(ctx, method, path, reqBody, respBody)
		if err == nil {
			return nil
		}
		lastErr = err

		var se *statusError
		if errors.As(err, &se) && !se.retryable() {
			return err
		}
		if ctx.Err() != nil {
			return err
		}
		c.logger.Warn("specklia request failed",
			"method", method,
			"path", path,
			"attempt", attempt+1,
			"error", err,
		)
	}
	queryFailures.Inc()
	return lastErr
}

func (c *Client) doOnce(ctx context.Context, method, path string, reqBody, respBody any) error {
	var bodyReader io.Reader
	if reqBody != nil {
		encoded, err := json.Marshal(reqBody)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		bodyReader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("X-API-Key", c.apiKey)
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := c.clock.Now()
	queryRequests.Inc()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("specklia request: %w", err)
	}
	defer resp.Body.Close()
	requestDuration.Observe(c.clock.Since(start).Seconds())

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &statusError{code: resp.StatusCode, body: string(bytes.TrimSpace(body))}
	}

	if err := json.NewDecoder(resp.Body).Decode(respBody); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// sleep waits for d or until ctx is cancelled, reporting whether the full
// duration elapsed.
func (c *Client) sleep(ctx context.Context, d time.Duration) bool {
	select {
	case <-ctx.Done():
		return false
	case <-c.clock.After(d):
		return true
	}
}
