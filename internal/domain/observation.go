package domain

import (
	"database/sql"
	"encoding/json"
)

// RawObservation is one entry of actual.stationmeasurements as delivered by
// the Buienradar feed. Sensor fields are pointers because not every station
// reports every instrument; identity fields are validated during Normalize.
type RawObservation struct {
	StationID     json.Number `json:"stationid"`
	StationName   string      `json:"stationname"`
	Lat           *float64    `json:"lat"`
	Lon           *float64    `json:"lon"`
	Regio         string      `json:"regio"`
	Timestamp     string      `json:"timestamp"`
	Temperature   *float64    `json:"temperature"`
	GroundTemp    *float64    `json:"groundtemperature"`
	FeelTemp      *float64    `json:"feeltemperature"`
	WindGusts     *float64    `json:"windgusts"`
	WindSpeedBft  *int64      `json:"windspeedBft"`
	Humidity      *float64    `json:"humidity"`
	Precipitation *float64    `json:"precipitation"`
	SunPower      *float64    `json:"sunpower"`
}

// Station is one row of the stations relation. The roster is a complete
// snapshot each cycle: a later cycle's row for the same id wholly replaces
// the earlier one.
type Station struct {
	ID        string  `json:"station_id"`
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Region    string  `json:"region"`
}

// Measurement is one row of the measurements relation. ID is derived, not
// upstream-native; see MeasurementID. The struct is comparable so exact
// duplicate rows can be dropped with a plain map during normalization.
type Measurement struct {
	ID            string          `json:"measurement_id"`
	StationID     string          `json:"station_id"`
	Timestamp     string          `json:"timestamp"`
	Temperature   sql.NullFloat64 `json:"temperature"`
	GroundTemp    sql.NullFloat64 `json:"ground_temperature"`
	FeelTemp      sql.NullFloat64 `json:"feel_temperature"`
	WindGusts     sql.NullFloat64 `json:"wind_gusts"`
	WindSpeedBft  sql.NullInt64   `json:"wind_speed_beaufort"`
	Humidity      sql.NullFloat64 `json:"humidity"`
	Precipitation sql.NullFloat64 `json:"precipitation"`
	SunPower      sql.NullFloat64 `json:"sun_power"`
}

// MeasurementID derives the measurement primary key from its natural key
// pair. Both parts are already strings by the time they arrive here; the
// json.Number decode keeps numeric station ids exact.
//
// The underscore separator could in principle conflate two distinct pairs if
// a station id itself contained an underscore ("A_1"+"2" vs "A"+"1_2").
// Buienradar ids are plain integers, so this does not occur in practice.
func MeasurementID(stationID, timestamp string) string {
	return stationID + "_" + timestamp
}

func nullFloat(p *float64) sql.NullFloat64 {
	if p == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *p, Valid: true}
}

func nullInt(p *int64) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *p, Valid: true}
}
