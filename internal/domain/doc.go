// Package domain models Buienradar current-observation data.
//
// # Data Source
//
// Observations come from the Buienradar public feed at
// https://data.buienradar.nl/2.0/feed/json. The feed carries one object per
// KNMI/Buienradar station under actual.stationmeasurements, refreshed every
// ten to twenty minutes. There is no authentication.
//
// # Feed Conventions
//
// Station ids:
//
//	Numeric in the feed (e.g. 6240 for Schiphol), but treated as opaque
//	strings throughout this service. Decoding goes through json.Number so a
//	numeric id never picks up a float representation.
//
// Timestamps:
//
//	Local-time strings like "2024-01-01T10:00:00". Stored as-is; the feed
//	format is stable and reparsing would only add a failure mode.
//
// Sensor values:
//
//	Any sensor field may be absent for a station (not every station carries
//	every instrument). Absent values stay NULL in the store; no interpolation
//	or imputation is performed.
//
// # ID Derivation
//
// Measurement ids are the station id and timestamp joined with an underscore,
// e.g. "6240_2024-01-01T10:00:00". The pair (station id, timestamp) is the
// natural key of an observation, so the derived id makes inserts idempotent
// (INSERT OR IGNORE) and replays safe. See [MeasurementID].
package domain
