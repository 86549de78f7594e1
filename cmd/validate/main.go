// Command validate checks a snapshot fixture written by genmock against the
// generator's invariants: every field present and finite, humidity and
// wind bounds, the predicted/active ratio, the hemisphere season rule, and
// the static catalog invariants. With -deterministic it also regenerates
// every snapshot with zero noise and compares it field by field.
//
// Usage:
//
//	go run ./cmd/validate \
//	  -fixture data/mock/snapshots_240426.json \
//	  -deterministic
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"math"
	"os"

	"github.com/google/go-cmp/cmp"

	"github.com/couchcryptid/bloomwatch/internal/domain"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	fixture := flag.String("fixture", "", "path to the snapshot JSON fixture")
	deterministic := flag.Bool("deterministic", false, "fixture was generated with zero noise; compare against regeneration")
	flag.Parse()

	if *fixture == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*fixture, *deterministic); code != 0 {
		os.Exit(code)
	}
}

func run(path string, deterministic bool) int {
	fmt.Println("=== Bloom Snapshot Validation ===")
	fmt.Println()

	snaps, err := loadJSON[domain.MetricsSnapshot](path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load fixture: %v\n", err)
		return 1
	}

	phases := []*phase{
		validateCompleteness(snaps),
		validateBounds(snaps),
		validateRegionSeasons(snaps),
		validateCatalogs(),
	}
	if deterministic {
		phases = append(phases, validateDeterminism(snaps))
	}

	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Snapshots: %d\n", len(snaps))

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

func loadJSON[T any](path string) ([]T, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var out []T
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ── Phase 1: completeness ──

func validateCompleteness(snaps []domain.MetricsSnapshot) *phase {
	p := &phase{name: "Phase 1: Snapshot completeness"}
	if len(snaps) == 0 {
		p.errorf("fixture contains no snapshots")
		return p
	}
	for i := range snaps {
		s := &snaps[i]
		if s.Timestamp.IsZero() {
			p.errorf("snapshot %d: missing timestamp", i)
		}
		if i > 0 && !s.Timestamp.After(snaps[i-1].Timestamp) {
			p.errorf("snapshot %d: timestamp %s not after previous", i, s.Timestamp)
		}
		for name, v := range map[string]float64{
			"temperature": s.Temperature,
			"humidity":    s.Humidity,
			"wind_speed":  s.WindSpeed,
			"uv_index":    s.UVIndex,
		} {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				p.errorf("snapshot %d: %s is not finite", i, name)
			}
		}
		if len(s.Regions) != 3 {
			p.errorf("snapshot %d: %d regions, want 3", i, len(s.Regions))
		}
		if len(s.TopSpecies) != 5 {
			p.errorf("snapshot %d: %d top species, want 5", i, len(s.TopSpecies))
		}
		if len(s.Alerts) == 0 {
			p.errorf("snapshot %d: no alerts", i)
		}
		for _, sp := range s.TopSpecies {
			if sp.Name == "" || sp.PeakSeasonLabel == "" {
				p.errorf("snapshot %d: species entry missing name or peak season", i)
			}
		}
	}
	return p
}

// ── Phase 2: bounds ──

func validateBounds(snaps []domain.MetricsSnapshot) *phase {
	p := &phase{name: "Phase 2: Value bounds"}
	for i := range snaps {
		s := &snaps[i]
		if s.Humidity < 0 || s.Humidity > 100 {
			p.errorf("snapshot %d: humidity %.2f outside [0,100]", i, s.Humidity)
		}
		if s.WindSpeed < 0 {
			p.errorf("snapshot %d: negative wind speed %.2f", i, s.WindSpeed)
		}
		if s.UVIndex < 0 {
			p.errorf("snapshot %d: negative UV index %.2f", i, s.UVIndex)
		}
		if s.ActiveBlooms < 0 || s.SpeciesCount < 0 {
			p.errorf("snapshot %d: negative counts", i)
		}
		if want := int(math.Round(float64(s.ActiveBlooms) * 1.15)); s.PredictedBlooms != want {
			p.errorf("snapshot %d: predicted_blooms %d, want %d", i, s.PredictedBlooms, want)
		}
		for _, r := range s.Regions {
			if r.Humidity < 0 || r.Humidity > 100 {
				p.errorf("snapshot %d: %s humidity %.2f outside [0,100]", i, r.Name, r.Humidity)
			}
			if r.Blooms < 0 {
				p.errorf("snapshot %d: %s negative blooms", i, r.Name)
			}
		}
	}
	return p
}

// ── Phase 3: hemisphere seasons ──

func validateRegionSeasons(snaps []domain.MetricsSnapshot) *phase {
	p := &phase{name: "Phase 3: Region season rule"}
	for i := range snaps {
		s := &snaps[i]
		month := s.Timestamp.Month()
		for _, r := range s.Regions {
			var want domain.RegionStatus
			switch r.Name {
			case domain.RegionNorthern:
				want = domain.NorthernStatus(month)
			case domain.RegionSouthern:
				want = domain.SouthernStatus(month)
			case domain.RegionTropics:
				want = domain.StatusYearRound
			default:
				p.errorf("snapshot %d: unknown region %q", i, r.Name)
				continue
			}
			if r.Status != want {
				p.errorf("snapshot %d: %s in %s is %q, want %q", i, r.Name, month, r.Status, want)
			}
		}
	}
	return p
}

// ── Phase 4: catalogs ──

func validateCatalogs() *phase {
	p := &phase{name: "Phase 4: Catalog invariants"}

	seen := map[string]bool{}
	for _, e := range domain.SpeciesCatalog() {
		if seen[e.ID] {
			p.errorf("species %q: duplicate id", e.ID)
		}
		seen[e.ID] = true
		if !domain.ValidSeason(e.Season) {
			p.errorf("species %q: season %v is not ordered calendar months", e.ID, e.Season)
		}
	}

	total := 0
	for _, d := range domain.Distribution() {
		total += d.Percentage
	}
	if total != 100 {
		p.errorf("distribution percentages sum to %d, want 100", total)
	}

	if n := len(domain.Stages()); n != domain.StageCount {
		p.errorf("%d stages, want %d", n, domain.StageCount)
	}
	return p
}

// ── Phase 5: determinism ──

func validateDeterminism(snaps []domain.MetricsSnapshot) *phase {
	p := &phase{name: "Phase 5: Zero-noise determinism"}
	gen := domain.NewGenerator(nil, 0)
	for i := range snaps {
		want := gen.Generate(snaps[i].Timestamp)
		if diff := cmp.Diff(want, snaps[i]); diff != "" {
			p.errorf("snapshot %d (%s) differs from regeneration (-want +got):\n%s",
				i, snaps[i].Timestamp.Format("15:04"), diff)
		}
	}
	return p
}
