package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/couchcryptid/weather-ingest/internal/domain"
)

// ReplaceStations makes the stations relation exactly the given snapshot.
// Present stations are written last-write-wins; stations absent from the
// snapshot are deleted, and the foreign key cascade removes their
// measurements. Stations that survive keep their history, so the cascade
// only ever fires for stations that actually left the feed.
//
// An empty snapshot is a no-op: a cycle that saw nothing must not wipe the
// roster.
func (s *Store) ReplaceStations(ctx context.Context, stations []domain.Station) (int64, error) {
	if len(stations) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin stations tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	placeholders := make([]string, 0, len(stations))
	args := make([]any, 0, len(stations))
	for _, st := range stations {
		placeholders = append(placeholders, "?")
		args = append(args, st.ID)
	}
	del := fmt.Sprintf("DELETE FROM stations WHERE station_id NOT IN (%s)", strings.Join(placeholders, ","))
	if _, err := tx.ExecContext(ctx, del, args...); err != nil {
		return 0, fmt.Errorf("delete absent stations: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO stations (station_id, name, latitude, longitude, region)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(station_id) DO UPDATE SET
			name = excluded.name,
			latitude = excluded.latitude,
			longitude = excluded.longitude,
			region = excluded.region`)
	if err != nil {
		return 0, fmt.Errorf("prepare station upsert: %w", err)
	}
	defer stmt.Close()

	for _, st := range stations {
		if _, err := stmt.ExecContext(ctx, st.ID, st.Name, st.Latitude, st.Longitude, st.Region); err != nil {
			return 0, fmt.Errorf("write station %s: %w", st.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit stations: %w", err)
	}
	return int64(len(stations)), nil
}

// InsertMeasurements appends measurements, silently skipping rows whose
// derived key already exists. OR IGNORE absorbs the expected duplicate-key
// conflicts on both the primary key and the (station_id, timestamp) unique
// index; genuine storage errors still surface. Returns the number of rows
// actually inserted.
func (s *Store) InsertMeasurements(ctx context.Context, measurements []domain.Measurement) (int64, error) {
	if len(measurements) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin measurements tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR IGNORE INTO measurements (
			measurement_id, station_id, timestamp,
			temperature, ground_temperature, feel_temperature,
			wind_gusts, wind_speed_beaufort, humidity, precipitation, sun_power
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("prepare measurement insert: %w", err)
	}
	defer stmt.Close()

	var inserted int64
	for _, m := range measurements {
		res, err := stmt.ExecContext(ctx,
			m.ID, m.StationID, m.Timestamp,
			m.Temperature, m.GroundTemp, m.FeelTemp,
			m.WindGusts, m.WindSpeedBft, m.Humidity, m.Precipitation, m.SunPower)
		if err != nil {
			return 0, fmt.Errorf("insert measurement %s: %w", m.ID, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("rows affected for %s: %w", m.ID, err)
		}
		inserted += n
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit measurements: %w", err)
	}
	return inserted, nil
}
