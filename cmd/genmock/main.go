// Command genmock writes a deterministic fixture of hourly metric snapshots
// for one day. It drives the real generator from a frozen clock so the
// fixture matches what the service produces for the same seed and noise.
//
// Usage:
//
//	go run ./cmd/genmock \
//	  -date 2024-04-26 \
//	  -out data/mock/snapshots_240426.json
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/bloomwatch/internal/domain"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	date := flag.String("date", "2024-04-26", "UTC day to generate, YYYY-MM-DD")
	out := flag.String("out", "", "output path for the JSON fixture")
	seed := flag.Uint64("seed", 1, "random seed")
	noise := flag.Float64("noise", 0, "noise scale; 0 makes every value deterministic")
	hours := flag.Int("hours", 24, "number of hourly snapshots")
	flag.Parse()

	if *out == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -out")
	}
	day, err := time.Parse(time.DateOnly, *date)
	if err != nil {
		return fmt.Errorf("parse -date: %w", err)
	}
	if *hours <= 0 {
		return fmt.Errorf("-hours must be positive")
	}

	clock := clockwork.NewFakeClockAt(day.UTC())
	domain.SetClock(clock)
	defer domain.SetClock(nil)

	gen := domain.NewSeededGenerator(*seed, *noise)
	snaps := make([]domain.MetricsSnapshot, 0, *hours)
	for range *hours {
		snaps = append(snaps, gen.GenerateNow())
		clock.Advance(time.Hour)
	}

	if err := writeJSON(*out, snaps); err != nil {
		return fmt.Errorf("writing fixture: %w", err)
	}
	log.Printf("wrote %d snapshots: %s", len(snaps), *out)

	printStats(snaps)
	return nil
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o600)
}

// statsResult holds the extremes reported by printStats.
type statsResult struct {
	minActive, maxActive int
	minTemp, maxTemp     float64
	peakHour             int
	statusCounts         map[domain.RegionStatus]int
}

func collectStats(snaps []domain.MetricsSnapshot) statsResult {
	s := statsResult{statusCounts: map[domain.RegionStatus]int{}}
	for i := range snaps {
		snap := &snaps[i]
		if i == 0 || snap.ActiveBlooms < s.minActive {
			s.minActive = snap.ActiveBlooms
		}
		if i == 0 || snap.ActiveBlooms > s.maxActive {
			s.maxActive = snap.ActiveBlooms
			s.peakHour = snap.Timestamp.Hour()
		}
		if i == 0 || snap.Temperature < s.minTemp {
			s.minTemp = snap.Temperature
		}
		if i == 0 || snap.Temperature > s.maxTemp {
			s.maxTemp = snap.Temperature
		}
		for _, r := range snap.Regions {
			s.statusCounts[r.Status]++
		}
	}
	return s
}

func printStats(snaps []domain.MetricsSnapshot) {
	stats := collectStats(snaps)

	fmt.Println("\n=== Stats for updating test assertions ===")
	fmt.Printf("Snapshots: %d\n", len(snaps))
	fmt.Printf("Active blooms: min=%d, max=%d (hour %02d)\n", stats.minActive, stats.maxActive, stats.peakHour)
	fmt.Printf("Temperature: min=%.2f, max=%.2f\n", stats.minTemp, stats.maxTemp)
	fmt.Printf("Region status: peak=%d, off=%d, year-round=%d\n",
		stats.statusCounts[domain.StatusPeakSeason],
		stats.statusCounts[domain.StatusOffSeason],
		stats.statusCounts[domain.StatusYearRound])
}
