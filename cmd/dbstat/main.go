// Command dbstat reports on the contents of the ingestion database: the
// station roster, total measurement count, and each station's most recent
// observation time. It is the read-only external-consumer view of the store
// and is useful for checking that the service is keeping up.
//
// Usage:
//
//	go run ./cmd/dbstat -db data/weather.db
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/couchcryptid/weather-ingest/internal/store"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	dbPath := flag.String("db", "data/weather.db", "path to the ingestion SQLite database")
	flag.Parse()

	if _, err := os.Stat(*dbPath); err != nil {
		return fmt.Errorf("database not found at %s: %w", *dbPath, err)
	}

	s, err := store.Open(*dbPath)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx := context.Background()

	stations, err := s.ListStations(ctx)
	if err != nil {
		return fmt.Errorf("listing stations: %w", err)
	}
	total, err := s.CountMeasurements(ctx)
	if err != nil {
		return fmt.Errorf("counting measurements: %w", err)
	}
	latest, err := s.LatestTimestamps(ctx)
	if err != nil {
		return fmt.Errorf("reading latest timestamps: %w", err)
	}

	fmt.Printf("stations: %d\n", len(stations))
	fmt.Printf("measurements: %d\n", total)
	fmt.Println()
	for _, st := range stations {
		ts := latest[st.ID]
		if ts == "" {
			ts = "(no measurements)"
		}
		fmt.Printf("  %-6s %-28s %-12s latest %s\n", st.ID, st.Name, st.Region, ts)
	}
	return nil
}
