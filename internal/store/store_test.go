package store_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/couchcryptid/weather-ingest/internal/domain"
	"github.com/couchcryptid/weather-ingest/internal/store"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "weather.db"))
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, s.Close()) })
	require.NoError(t, s.EnsureSchema(context.Background()))
	return s
}

func schiphol() domain.Station {
	return domain.Station{ID: "6240", Name: "Meetstation Schiphol", Latitude: 52.32, Longitude: 4.79, Region: "Amsterdam"}
}

func deBilt() domain.Station {
	return domain.Station{ID: "6260", Name: "Meetstation De Bilt", Latitude: 52.1, Longitude: 5.18, Region: "Utrecht"}
}

func measurement(stationID, ts string) domain.Measurement {
	return domain.Measurement{
		ID:        domain.MeasurementID(stationID, ts),
		StationID: stationID,
		Timestamp: ts,
	}
}

func TestOpen_CreatesContainingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "weather.db")
	s, err := store.Open(path)
	require.NoError(t, err)
	defer s.Close()
	require.NoError(t, s.EnsureSchema(context.Background()))
}

func TestEnsureSchema_Idempotent(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for range 3 {
		require.NoError(t, s.EnsureSchema(ctx))
	}

	// Schema still usable after repeated setup.
	_, err := s.ReplaceStations(ctx, []domain.Station{schiphol()})
	require.NoError(t, err)
	stations, err := s.ListStations(ctx)
	require.NoError(t, err)
	assert.Len(t, stations, 1)
}

func TestEnsureSchema_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weather.db")
	ctx := context.Background()

	s, err := store.Open(path)
	require.NoError(t, err)
	require.NoError(t, s.EnsureSchema(ctx))
	_, err = s.ReplaceStations(ctx, []domain.Station{schiphol()})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = store.Open(path)
	require.NoError(t, err)
	defer s.Close()
	require.NoError(t, s.EnsureSchema(ctx))

	stations, err := s.ListStations(ctx)
	require.NoError(t, err)
	assert.Len(t, stations, 1)
}

func TestInsertMeasurements_DeduplicatesByDerivedKey(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.ReplaceStations(ctx, []domain.Station{schiphol()})
	require.NoError(t, err)

	batch := []domain.Measurement{
		measurement("6240", "2024-01-01T10:00:00"),
		measurement("6240", "2024-01-01T10:20:00"),
	}

	n, err := s.InsertMeasurements(ctx, batch)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	// Feeding the identical batch again inserts nothing and does not error.
	n, err = s.InsertMeasurements(ctx, batch)
	require.NoError(t, err)
	assert.EqualValues(t, 0, n)

	total, err := s.CountMeasurements(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
}

func TestInsertMeasurements_FirstWriteWins(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.ReplaceStations(ctx, []domain.Station{schiphol()})
	require.NoError(t, err)

	first := measurement("6240", "2024-01-01T10:00:00")
	first.Temperature.Valid = true
	first.Temperature.Float64 = 5.2
	_, err = s.InsertMeasurements(ctx, []domain.Measurement{first})
	require.NoError(t, err)

	// Same derived key with a different sensor value must be discarded.
	second := measurement("6240", "2024-01-01T10:00:00")
	second.Temperature.Valid = true
	second.Temperature.Float64 = 99
	n, err := s.InsertMeasurements(ctx, []domain.Measurement{second})
	require.NoError(t, err)
	assert.EqualValues(t, 0, n)

	stored, err := s.MeasurementsForStation(ctx, "6240", "", "", 10)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.InEpsilon(t, 5.2, stored[0].Temperature.Float64, 0.0001)
}

func TestInsertMeasurements_UnknownStationFails(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	// Foreign keys are on: measurements without a station row must error,
	// not be silently ignored.
	_, err := s.InsertMeasurements(ctx, []domain.Measurement{measurement("9999", "2024-01-01T10:00:00")})
	assert.Error(t, err)
}

func TestReplaceStations_SnapshotSemantics(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	s1 := []domain.Station{schiphol(), deBilt()}
	n, err := s.ReplaceStations(ctx, s1)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	renamed := deBilt()
	renamed.Name = "KNMI De Bilt"
	s2 := []domain.Station{renamed}
	_, err = s.ReplaceStations(ctx, s2)
	require.NoError(t, err)

	stations, err := s.ListStations(ctx)
	require.NoError(t, err)
	if diff := cmp.Diff(s2, stations); diff != "" {
		t.Fatalf("roster mismatch (-want +got):\n%s", diff)
	}
}

func TestReplaceStations_EmptySnapshotIsNoOp(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.ReplaceStations(ctx, []domain.Station{schiphol()})
	require.NoError(t, err)

	n, err := s.ReplaceStations(ctx, nil)
	require.NoError(t, err)
	assert.EqualValues(t, 0, n)

	stations, err := s.ListStations(ctx)
	require.NoError(t, err)
	assert.Len(t, stations, 1)
}

func TestReplaceStations_CascadeOnlyForDroppedStations(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.ReplaceStations(ctx, []domain.Station{schiphol(), deBilt()})
	require.NoError(t, err)
	_, err = s.InsertMeasurements(ctx, []domain.Measurement{
		measurement("6240", "2024-01-01T10:00:00"),
		measurement("6260", "2024-01-01T10:00:00"),
	})
	require.NoError(t, err)

	// De Bilt leaves the feed; Schiphol survives with its history intact.
	_, err = s.ReplaceStations(ctx, []domain.Station{schiphol()})
	require.NoError(t, err)

	total, err := s.CountMeasurements(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)

	kept, err := s.MeasurementsForStation(ctx, "6240", "", "", 10)
	require.NoError(t, err)
	assert.Len(t, kept, 1)

	gone, err := s.MeasurementsForStation(ctx, "6260", "", "", 10)
	require.NoError(t, err)
	assert.Empty(t, gone)
}

func TestMeasurementsForStation_TimeRange(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.ReplaceStations(ctx, []domain.Station{schiphol()})
	require.NoError(t, err)
	_, err = s.InsertMeasurements(ctx, []domain.Measurement{
		measurement("6240", "2024-01-01T09:40:00"),
		measurement("6240", "2024-01-01T10:00:00"),
		measurement("6240", "2024-01-01T10:20:00"),
	})
	require.NoError(t, err)

	got, err := s.MeasurementsForStation(ctx, "6240", "2024-01-01T10:00:00", "2024-01-01T10:00:00", 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "2024-01-01T10:00:00", got[0].Timestamp)

	// Open upper bound, newest first.
	got, err = s.MeasurementsForStation(ctx, "6240", "2024-01-01T10:00:00", "", 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "2024-01-01T10:20:00", got[0].Timestamp)
}

func TestLatestTimestamps(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.ReplaceStations(ctx, []domain.Station{schiphol(), deBilt()})
	require.NoError(t, err)
	_, err = s.InsertMeasurements(ctx, []domain.Measurement{
		measurement("6240", "2024-01-01T10:00:00"),
		measurement("6240", "2024-01-01T10:20:00"),
		measurement("6260", "2024-01-01T10:00:00"),
	})
	require.NoError(t, err)

	latest, err := s.LatestTimestamps(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"6240": "2024-01-01T10:20:00",
		"6260": "2024-01-01T10:00:00",
	}, latest)
}
