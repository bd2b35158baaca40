package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/weather-ingest/internal/observability"
)

// CycleRunner runs one collection pass and reports success.
type CycleRunner interface {
	Run(ctx context.Context) bool
}

// Scheduler repeats the cycle at a fixed wall-clock period. The first cycle
// runs immediately; each subsequent wait is shortened by the previous
// cycle's execution time so cycle starts stay approximately periodic. A
// failed cycle gets a normal-length wait, not a fast retry.
type Scheduler struct {
	cycle    CycleRunner
	interval time.Duration
	clock    clockwork.Clock
	logger   *slog.Logger
	metrics  *observability.Metrics
}

// NewScheduler creates a Scheduler. The clock is injectable so tests can
// simulate many cycles without real waiting.
func NewScheduler(cycle CycleRunner, interval time.Duration, clock clockwork.Clock, logger *slog.Logger, metrics *observability.Metrics) *Scheduler {
	return &Scheduler{
		cycle:    cycle,
		interval: interval,
		clock:    clock,
		logger:   logger,
		metrics:  metrics,
	}
}

// Run loops until the context is cancelled. Individual cycle failures are
// absorbed; cancellation is observed during the inter-cycle wait or by the
// blocking calls inside the running cycle.
func (s *Scheduler) Run(ctx context.Context) error {
	s.logger.Info("scheduler started", "interval", s.interval)
	s.metrics.SchedulerRunning.Set(1)
	defer s.metrics.SchedulerRunning.Set(0)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopped", "reason", ctx.Err())
			return nil
		default:
		}

		start := s.clock.Now()
		ok := s.cycle.Run(ctx)
		elapsed := s.clock.Since(start)
		s.metrics.CycleDuration.Observe(elapsed.Seconds())

		wait := nextWait(s.interval, elapsed)
		if ok {
			s.metrics.CyclesTotal.WithLabelValues("success").Inc()
			s.logger.Info("cycle finished", "elapsed", elapsed, "next_in", wait)
		} else {
			s.metrics.CyclesTotal.WithLabelValues("failure").Inc()
			s.logger.Warn("cycle failed, retrying after normal interval", "next_in", wait)
		}

		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopped", "reason", ctx.Err())
			return nil
		case <-s.clock.After(wait):
		}
	}
}

// nextWait compensates the period for cycle execution time, keeping cycle
// start times periodic. Never negative: a cycle slower than the period is
// followed immediately by the next one.
func nextWait(interval, elapsed time.Duration) time.Duration {
	wait := interval - elapsed
	if wait < 0 {
		return 0
	}
	return wait
}
