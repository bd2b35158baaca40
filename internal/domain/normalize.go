package domain

import "fmt"

// Normalize projects raw feed entries onto the two relational datasets:
// measurements (append-only, keyed by the derived id) and stations (full
// snapshot). Exact duplicate rows within one response are dropped, guarding
// against the feed listing the same observation twice.
//
// An empty input yields nil for both outputs. A record missing any required
// identity field fails the whole call: the caller is expected to skip the
// cycle rather than write a partial batch.
func Normalize(raw []RawObservation) ([]Measurement, []Station, error) {
	if len(raw) == 0 {
		return nil, nil, nil
	}

	measurements := make([]Measurement, 0, len(raw))
	stations := make([]Station, 0, len(raw))
	seenM := make(map[Measurement]struct{}, len(raw))
	seenS := make(map[Station]struct{}, len(raw))

	for i, obs := range raw {
		if err := validate(obs); err != nil {
			return nil, nil, fmt.Errorf("observation %d: %w", i, err)
		}

		stationID := obs.StationID.String()

		m := Measurement{
			ID:            MeasurementID(stationID, obs.Timestamp),
			StationID:     stationID,
			Timestamp:     obs.Timestamp,
			Temperature:   nullFloat(obs.Temperature),
			GroundTemp:    nullFloat(obs.GroundTemp),
			FeelTemp:      nullFloat(obs.FeelTemp),
			WindGusts:     nullFloat(obs.WindGusts),
			WindSpeedBft:  nullInt(obs.WindSpeedBft),
			Humidity:      nullFloat(obs.Humidity),
			Precipitation: nullFloat(obs.Precipitation),
			SunPower:      nullFloat(obs.SunPower),
		}
		if _, dup := seenM[m]; !dup {
			seenM[m] = struct{}{}
			measurements = append(measurements, m)
		}

		s := Station{
			ID:        stationID,
			Name:      obs.StationName,
			Latitude:  *obs.Lat,
			Longitude: *obs.Lon,
			Region:    obs.Regio,
		}
		if _, dup := seenS[s]; !dup {
			seenS[s] = struct{}{}
			stations = append(stations, s)
		}
	}

	return measurements, stations, nil
}

// validate checks the identity fields every observation must carry. Sensor
// values are legitimately absent and stay nullable.
func validate(obs RawObservation) error {
	switch {
	case obs.StationID.String() == "":
		return fmt.Errorf("missing stationid")
	case obs.Timestamp == "":
		return fmt.Errorf("missing timestamp")
	case obs.StationName == "":
		return fmt.Errorf("missing stationname")
	case obs.Lat == nil:
		return fmt.Errorf("missing lat")
	case obs.Lon == nil:
		return fmt.Errorf("missing lon")
	case obs.Regio == "":
		return fmt.Errorf("missing regio")
	}
	return nil
}
