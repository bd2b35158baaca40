package store

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/couchcryptid/weather-ingest/internal/domain"
)

// ListStations returns the current roster ordered by station id.
func (s *Store) ListStations(ctx context.Context) ([]domain.Station, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT station_id, name, latitude, longitude, region FROM stations ORDER BY station_id`)
	if err != nil {
		return nil, fmt.Errorf("query stations: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("close stations rows", "error", err)
		}
	}()

	var out []domain.Station
	for rows.Next() {
		var st domain.Station
		if err := rows.Scan(&st.ID, &st.Name, &st.Latitude, &st.Longitude, &st.Region); err != nil {
			return nil, fmt.Errorf("scan station: %w", err)
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

// CountMeasurements returns the total number of stored measurements.
func (s *Store) CountMeasurements(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM measurements`).Scan(&n)
	return n, err
}

// MeasurementsForStation returns up to limit measurements for one station
// within [from, to], newest first. The bounds compare lexically, which is
// correct for the feed's fixed timestamp format. Empty bounds are open.
func (s *Store) MeasurementsForStation(ctx context.Context, stationID, from, to string, limit int) ([]domain.Measurement, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT measurement_id, station_id, timestamp,
		       temperature, ground_temperature, feel_temperature,
		       wind_gusts, wind_speed_beaufort, humidity, precipitation, sun_power
		FROM measurements
		WHERE station_id = ? AND timestamp >= ? AND (? = '' OR timestamp <= ?)
		ORDER BY timestamp DESC
		LIMIT ?`, stationID, from, to, to, limit)
	if err != nil {
		return nil, fmt.Errorf("query measurements: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("close measurements rows", "error", err)
		}
	}()

	var out []domain.Measurement
	for rows.Next() {
		var m domain.Measurement
		if err := rows.Scan(&m.ID, &m.StationID, &m.Timestamp,
			&m.Temperature, &m.GroundTemp, &m.FeelTemp,
			&m.WindGusts, &m.WindSpeedBft, &m.Humidity, &m.Precipitation, &m.SunPower); err != nil {
			return nil, fmt.Errorf("scan measurement: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// LatestTimestamps returns each station's most recent observation time,
// keyed by station id. Used by the dbstat report tool.
func (s *Store) LatestTimestamps(ctx context.Context) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT station_id, MAX(timestamp) FROM measurements GROUP BY station_id`)
	if err != nil {
		return nil, fmt.Errorf("query latest timestamps: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("close latest timestamp rows", "error", err)
		}
	}()

	out := make(map[string]string)
	for rows.Next() {
		var id, ts string
		if err := rows.Scan(&id, &ts); err != nil {
			return nil, fmt.Errorf("scan latest timestamp: %w", err)
		}
		out[id] = ts
	}
	return out, rows.Err()
}
