// Package buienradar fetches the Buienradar current-observations feed.
package buienradar

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/weather-ingest/internal/domain"
)

// Client retrieves raw station observations from the feed endpoint.
// It implements pipeline.Fetcher.
type Client struct {
	feedURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a feed client with a bounded request timeout.
func NewClient(feedURL string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		feedURL: feedURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// feed mirrors the slice of the Buienradar response this service consumes.
type feed struct {
	Actual *actual `json:"actual"`
}

type actual struct {
	StationMeasurements []domain.RawObservation `json:"stationmeasurements"`
}

// Fetch performs one GET of the feed and returns the raw observation list.
// Failures come back as *domain.FetchError: transport for network errors and
// non-2xx statuses, shape for bodies that parse wrong or lack the expected
// nested structure. No retries happen here; the scheduler's next cycle is
// the retry.
func (c *Client) Fetch(ctx context.Context) ([]domain.RawObservation, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.feedURL, nil)
	if err != nil {
		return nil, &domain.FetchError{Kind: domain.FailureTransport, Err: fmt.Errorf("create request: %w", err)}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &domain.FetchError{Kind: domain.FailureTransport, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &domain.FetchError{
			Kind: domain.FailureTransport,
			Err:  fmt.Errorf("feed returned status %d: %s", resp.StatusCode, body),
		}
	}

	var f feed
	if err := json.NewDecoder(resp.Body).Decode(&f); err != nil {
		return nil, &domain.FetchError{Kind: domain.FailureShape, Err: fmt.Errorf("decode response: %w", err)}
	}
	if f.Actual == nil || f.Actual.StationMeasurements == nil {
		return nil, &domain.FetchError{
			Kind: domain.FailureShape,
			Err:  fmt.Errorf("response missing actual.stationmeasurements"),
		}
	}

	c.logger.Info("fetched station observations", "count", len(f.Actual.StationMeasurements))
	return f.Actual.StationMeasurements, nil
}
