// Command genfeed writes a mock Buienradar feed JSON fixture. It uses the
// actual domain types so fixtures always match what the fetcher decodes,
// which makes them usable both as test data and as a stub feed for local
// development (serve the file and point FEED_URL at it).
//
// Usage:
//
//	go run ./cmd/genfeed -stations 5 -timestamp 2024-01-01T10:00:00 -out testdata/feed.json
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand/v2"
	"os"
	"path/filepath"
	"time"

	"github.com/couchcryptid/weather-ingest/internal/domain"
)

// A few real Buienradar stations so fixtures look plausible.
var knownStations = []struct {
	id     string
	name   string
	lat    float64
	lon    float64
	region string
}{
	{"6240", "Meetstation Schiphol", 52.32, 4.79, "Amsterdam"},
	{"6260", "Meetstation De Bilt", 52.1, 5.18, "Utrecht"},
	{"6280", "Meetstation Groningen", 53.13, 6.58, "Groningen"},
	{"6310", "Meetstation Vlissingen", 51.44, 3.6, "Vlissingen"},
	{"6344", "Meetstation Rotterdam", 51.96, 4.45, "Rotterdam"},
	{"6370", "Meetstation Eindhoven", 51.45, 5.42, "Eindhoven"},
	{"6391", "Meetstation Arcen", 51.5, 6.2, "Venlo"},
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	stations := flag.Int("stations", len(knownStations), "number of stations to emit")
	timestamp := flag.String("timestamp", time.Now().Format("2006-01-02T15:04:05"), "observation timestamp")
	out := flag.String("out", "", "output path for the feed fixture")
	seed := flag.Uint64("seed", 1, "random seed for sensor values")
	flag.Parse()

	if *out == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -out")
	}
	if *stations < 1 || *stations > len(knownStations) {
		return fmt.Errorf("-stations must be between 1 and %d", len(knownStations))
	}

	rng := rand.New(rand.NewPCG(*seed, 0))

	observations := make([]domain.RawObservation, 0, *stations)
	for _, s := range knownStations[:*stations] {
		lat, lon := s.lat, s.lon
		temp := round1(rng.Float64()*25 - 5)
		feel := round1(temp - rng.Float64()*3)
		gusts := round1(rng.Float64() * 20)
		bft := int64(rng.IntN(9))
		humidity := round1(40 + rng.Float64()*60)

		observations = append(observations, domain.RawObservation{
			StationID:    json.Number(s.id),
			StationName:  s.name,
			Lat:          &lat,
			Lon:          &lon,
			Regio:        s.region,
			Timestamp:    *timestamp,
			Temperature:  &temp,
			FeelTemp:     &feel,
			WindGusts:    &gusts,
			WindSpeedBft: &bft,
			Humidity:     &humidity,
		})
	}

	feed := map[string]any{
		"actual": map[string]any{
			"stationmeasurements": observations,
		},
	}

	if err := writeJSON(*out, feed); err != nil {
		return fmt.Errorf("writing feed fixture: %w", err)
	}
	log.Printf("wrote %d stations to %s", *stations, *out)
	return nil
}

func round1(v float64) float64 {
	return float64(int(v*10)) / 10
}

func writeJSON(path string, v any) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o600)
}
