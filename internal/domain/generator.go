package domain

import (
	"math"
	"math/rand/v2"
	"slices"
	"sync"
	"time"
)

// Region names used in generated snapshots.
const (
	RegionNorthern = "Northern Hemisphere"
	RegionSouthern = "Southern Hemisphere"
	RegionTropics  = "Tropics"
)

// RandomSource supplies uniform draws in [0, 1). *rand.Rand satisfies it.
type RandomSource interface {
	Float64() float64
}

// wave is one synthetic signal: baseline + amplitude*sin(hour*phase) plus up
// to noise units of uniform jitter.
type wave struct {
	baseline  float64
	amplitude float64
	phase     float64
	noise     float64
}

var (
	temperatureWave  = wave{baseline: 22, amplitude: 6, phase: math.Pi / 12, noise: 3}
	humidityWave     = wave{baseline: 65, amplitude: 15, phase: math.Pi / 8, noise: 10}
	windSpeedWave    = wave{baseline: 12, amplitude: 5, phase: math.Pi / 6, noise: 4}
	uvIndexWave      = wave{baseline: 5, amplitude: 4, phase: math.Pi / 12, noise: 2}
	activeBloomsWave = wave{baseline: 1247, amplitude: 180, phase: math.Pi / 12, noise: 120}
	speciesCountWave = wave{baseline: 156, noise: 20}
)

// predictedRatio scales active blooms into the next-period forecast.
const predictedRatio = 1.15

type regionProfile struct {
	name        string
	status      func(time.Month) RegionStatus
	peakBlooms  float64
	offBlooms   float64
	bloomsWave  wave // baseline ignored; replaced by the seasonal level
	temperature wave
	humidity    wave
}

var regionProfiles = []regionProfile{
	{
		name:        RegionNorthern,
		status:      NorthernStatus,
		peakBlooms:  842,
		offBlooms:   310,
		bloomsWave:  wave{amplitude: 90, phase: math.Pi / 12, noise: 60},
		temperature: wave{baseline: 18, amplitude: 6, phase: math.Pi / 12, noise: 2},
		humidity:    wave{baseline: 62, amplitude: 10, phase: math.Pi / 8, noise: 8},
	},
	{
		name:        RegionSouthern,
		status:      SouthernStatus,
		peakBlooms:  615,
		offBlooms:   240,
		bloomsWave:  wave{amplitude: 70, phase: math.Pi / 12, noise: 50},
		temperature: wave{baseline: 21, amplitude: 5, phase: math.Pi / 12, noise: 2},
		humidity:    wave{baseline: 58, amplitude: 12, phase: math.Pi / 8, noise: 8},
	},
	{
		name:        RegionTropics,
		status:      func(time.Month) RegionStatus { return StatusYearRound },
		peakBlooms:  905,
		offBlooms:   905,
		bloomsWave:  wave{amplitude: 40, phase: math.Pi / 6, noise: 40},
		temperature: wave{baseline: 28, amplitude: 3, phase: math.Pi / 12, noise: 1.5},
		humidity:    wave{baseline: 80, amplitude: 8, phase: math.Pi / 8, noise: 6},
	},
}

type speciesProfile struct {
	name   string
	blooms float64
	trend  Trend
	peak   string
}

var speciesProfiles = []speciesProfile{
	{name: "Cherry Blossom", blooms: 342, trend: TrendUp, peak: "Mar-Apr"},
	{name: "Lotus", blooms: 287, trend: TrendStable, peak: "Jun-Aug"},
	{name: "Sunflower", blooms: 256, trend: TrendUp, peak: "Jul-Sep"},
	{name: "Lavender", blooms: 198, trend: TrendDown, peak: "May-Jul"},
	{name: "Tulip", blooms: 165, trend: TrendUp, peak: "Apr-May"},
}

// speciesJitter bounds the per-snapshot variation of species bloom counts.
const speciesJitter = 40

var alerts = []Alert{
	{Severity: SeverityWarning, Message: "High temperatures may bring Cherry Blossom peak forward in Kyoto", RelativeTime: "10 min ago"},
	{Severity: SeverityInfo, Message: "Lavender fields in Provence entering peak season", RelativeTime: "1 hour ago"},
	{Severity: SeveritySuccess, Message: "Lotus bloom prediction accuracy reached 94%", RelativeTime: "3 hours ago"},
}

// Generator produces synthetic MetricsSnapshots. It is safe for concurrent use.
type Generator struct {
	mu         sync.Mutex
	rng        RandomSource
	noiseScale float64
}

// NewGenerator creates a Generator drawing jitter from rng. noiseScale
// multiplies every jitter amplitude; 0 makes generation deterministic.
func NewGenerator(rng RandomSource, noiseScale float64) *Generator {
	if noiseScale < 0 {
		noiseScale = 0
	}
	return &Generator{rng: rng, noiseScale: noiseScale}
}

// NewSeededGenerator creates a Generator backed by a PCG source with the given seed.
func NewSeededGenerator(seed uint64, noiseScale float64) *Generator {
	return NewGenerator(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)), noiseScale)
}

// GenerateNow generates a snapshot for the package clock's current time.
func (g *Generator) GenerateNow() MetricsSnapshot {
	return g.Generate(Now())
}

// Generate builds a complete snapshot for now. The result depends only on the
// hour and month of now plus the random draws.
func (g *Generator) Generate(now time.Time) MetricsSnapshot {
	g.mu.Lock()
	defer g.mu.Unlock()

	hour := float64(now.Hour())
	month := now.Month()

	active := roundInt(g.sample(activeBloomsWave, hour))

	snap := MetricsSnapshot{
		Timestamp:       now,
		Temperature:     g.sample(temperatureWave, hour),
		Humidity:        clamp(g.sample(humidityWave, hour), 0, 100),
		WindSpeed:       math.Max(0, g.sample(windSpeedWave, hour)),
		UVIndex:         math.Max(0, g.sample(uvIndexWave, hour)),
		ActiveBlooms:    active,
		PredictedBlooms: roundInt(float64(active) * predictedRatio),
		SpeciesCount:    roundInt(g.sample(speciesCountWave, hour)),
		Regions:         make([]RegionMetrics, 0, len(regionProfiles)),
		TopSpecies:      make([]SpeciesMetric, 0, len(speciesProfiles)),
		Alerts:          slices.Clone(alerts),
	}

	for _, p := range regionProfiles {
		status := p.status(month)
		bw := p.bloomsWave
		bw.baseline = p.offBlooms
		if status != StatusOffSeason {
			bw.baseline = p.peakBlooms
		}
		snap.Regions = append(snap.Regions, RegionMetrics{
			Name:        p.name,
			Blooms:      max(0, roundInt(g.sample(bw, hour))),
			Status:      status,
			Temperature: g.sample(p.temperature, hour),
			Humidity:    clamp(g.sample(p.humidity, hour), 0, 100),
		})
	}

	for _, p := range speciesProfiles {
		snap.TopSpecies = append(snap.TopSpecies, SpeciesMetric{
			Name:            p.name,
			Blooms:          roundInt(p.blooms + g.jitter(speciesJitter)),
			Trend:           p.trend,
			PeakSeasonLabel: p.peak,
		})
	}

	return snap
}

// Seasonal returns the seasonal forecast drawing uplift jitter from the
// generator's source. With zero noise every month gets the minimum uplift.
func (g *Generator) Seasonal() SeasonalSummary {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.noiseScale == 0 {
		return SeasonalForecast(nil)
	}
	return SeasonalForecast(g.rng)
}

func (g *Generator) sample(w wave, hour float64) float64 {
	return w.baseline + w.amplitude*math.Sin(hour*w.phase) + g.jitter(w.noise)
}

func (g *Generator) jitter(amplitude float64) float64 {
	if g.noiseScale == 0 || amplitude == 0 || g.rng == nil {
		return 0
	}
	return g.rng.Float64() * amplitude * g.noiseScale
}

// NorthernStatus is PeakSeason for March through June.
func NorthernStatus(m time.Month) RegionStatus {
	if m >= time.March && m <= time.June {
		return StatusPeakSeason
	}
	return StatusOffSeason
}

// SouthernStatus is PeakSeason for September through December.
func SouthernStatus(m time.Month) RegionStatus {
	if m >= time.September {
		return StatusPeakSeason
	}
	return StatusOffSeason
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}

func roundInt(v float64) int {
	return int(math.Round(v))
}
