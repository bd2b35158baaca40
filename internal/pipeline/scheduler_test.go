package pipeline

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/weather-ingest/internal/observability"
)

type countingRunner struct {
	runs chan struct{}
	ok   bool
}

func (r *countingRunner) Run(_ context.Context) bool {
	r.runs <- struct{}{}
	return r.ok
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNextWait_CompensatesExecutionTime(t *testing.T) {
	assert.Equal(t, 1155*time.Second, nextWait(1200*time.Second, 45*time.Second))
}

func TestNextWait_NeverNegative(t *testing.T) {
	assert.Equal(t, time.Duration(0), nextWait(20*time.Minute, 25*time.Minute))
	assert.Equal(t, time.Duration(0), nextWait(time.Minute, time.Minute))
}

func TestScheduler_RunsFirstCycleImmediately(t *testing.T) {
	fc := clockwork.NewFakeClock()
	runner := &countingRunner{runs: make(chan struct{}, 8), ok: true}
	s := NewScheduler(runner, 20*time.Minute, fc, discardLogger(), observability.NewMetricsForTesting())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	// No clock advance needed for the first cycle.
	select {
	case <-runner.runs:
	case <-time.After(2 * time.Second):
		t.Fatal("first cycle did not run immediately")
	}

	cancel()
	require.NoError(t, <-done)
}

func TestScheduler_RepeatsAtInterval(t *testing.T) {
	fc := clockwork.NewFakeClock()
	runner := &countingRunner{runs: make(chan struct{}, 8), ok: true}
	interval := 20 * time.Minute
	s := NewScheduler(runner, interval, fc, discardLogger(), observability.NewMetricsForTesting())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	for i := range 3 {
		select {
		case <-runner.runs:
		case <-time.After(2 * time.Second):
			t.Fatalf("cycle %d did not run", i+1)
		}
		// Wait for the scheduler to arrive at its inter-cycle sleep, then
		// jump past it.
		require.NoError(t, fc.BlockUntilContext(ctx, 1))
		fc.Advance(interval)
	}

	cancel()
	require.NoError(t, <-done)
}

func TestScheduler_FailedCycleWaitsNormalInterval(t *testing.T) {
	fc := clockwork.NewFakeClock()
	runner := &countingRunner{runs: make(chan struct{}, 8), ok: false}
	interval := 20 * time.Minute
	s := NewScheduler(runner, interval, fc, discardLogger(), observability.NewMetricsForTesting())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	<-runner.runs
	require.NoError(t, fc.BlockUntilContext(ctx, 1))

	// Advancing just short of the interval must not trigger a fast retry.
	fc.Advance(interval - time.Second)
	select {
	case <-runner.runs:
		t.Fatal("failed cycle retried before the full interval elapsed")
	case <-time.After(50 * time.Millisecond):
	}

	fc.Advance(time.Second)
	select {
	case <-runner.runs:
	case <-time.After(2 * time.Second):
		t.Fatal("next cycle did not run after the full interval")
	}

	cancel()
	require.NoError(t, <-done)
}

func TestScheduler_StopsOnCancelledContext(t *testing.T) {
	fc := clockwork.NewFakeClock()
	runner := &countingRunner{runs: make(chan struct{}, 8), ok: true}
	s := NewScheduler(runner, 20*time.Minute, fc, discardLogger(), observability.NewMetricsForTesting())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, s.Run(ctx))
	assert.Empty(t, runner.runs)
}
