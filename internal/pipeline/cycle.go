// Package pipeline drives the periodic fetch-normalize-persist cycle.
package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"

	"github.com/couchcryptid/weather-ingest/internal/domain"
	"github.com/couchcryptid/weather-ingest/internal/observability"
)

// Fetcher retrieves one batch of raw observations from the upstream feed.
type Fetcher interface {
	Fetch(ctx context.Context) ([]domain.RawObservation, error)
}

// Persister writes the two normalized datasets to the destination store.
type Persister interface {
	ReplaceStations(ctx context.Context, stations []domain.Station) (int64, error)
	InsertMeasurements(ctx context.Context, measurements []domain.Measurement) (int64, error)
}

// Cycle executes one complete collection pass. Every failure is caught here:
// fetch and normalization failures skip the persist step entirely, and each
// persist sub-write is attempted independently so a fault in one relation
// does not block the other. Nothing propagates to the scheduler beyond the
// success flag.
type Cycle struct {
	fetcher   Fetcher
	persister Persister
	logger    *slog.Logger
	metrics   *observability.Metrics
	succeeded atomic.Bool
}

// NewCycle wires the cycle stages together.
func NewCycle(f Fetcher, p Persister, logger *slog.Logger, metrics *observability.Metrics) *Cycle {
	return &Cycle{
		fetcher:   f,
		persister: p,
		logger:    logger,
		metrics:   metrics,
	}
}

// CheckReadiness returns nil once at least one cycle has fully succeeded.
func (c *Cycle) CheckReadiness(_ context.Context) error {
	if !c.succeeded.Load() {
		return errors.New("no collection cycle has succeeded yet")
	}
	return nil
}

// Run performs one fetch-normalize-persist pass and reports whether it
// completed fully.
func (c *Cycle) Run(ctx context.Context) bool {
	c.logger.Info("starting collection cycle")

	raw, err := c.fetcher.Fetch(ctx)
	if err != nil {
		kind := domain.FailureTransport
		var fe *domain.FetchError
		if errors.As(err, &fe) {
			kind = fe.Kind
		}
		c.metrics.FetchFailures.WithLabelValues(string(kind)).Inc()
		c.logger.Error("fetch failed, skipping cycle", "kind", string(kind), "error", err)
		return false
	}
	c.metrics.ObservationsFetched.Add(float64(len(raw)))

	measurements, stations, err := domain.Normalize(raw)
	if err != nil {
		c.logger.Error("normalization failed, skipping cycle", "error", err)
		return false
	}
	if len(measurements) == 0 && len(stations) == 0 {
		c.logger.Warn("feed contained no observations, skipping cycle")
		return false
	}
	c.logger.Info("normalized feed data",
		"measurements", len(measurements), "stations", len(stations))

	// Stations first so measurement foreign keys resolve.
	ok := true
	if n, err := c.persister.ReplaceStations(ctx, stations); err != nil {
		c.logger.Error("station snapshot write failed", "error", err)
		ok = false
	} else {
		c.metrics.StationsReplaced.Add(float64(n))
		c.logger.Info("stored station snapshot", "stations", n)
	}

	if n, err := c.persister.InsertMeasurements(ctx, measurements); err != nil {
		c.logger.Error("measurement write failed", "error", err)
		ok = false
	} else {
		c.metrics.MeasurementsInserted.Add(float64(n))
		c.logger.Info("stored measurements",
			"inserted", n, "duplicates", int64(len(measurements))-n)
	}

	if ok {
		c.succeeded.Store(true)
		c.logger.Info("collection cycle completed")
	}
	return ok
}
