package domain

import "time"

// RegionStatus describes where a region sits in its flowering season.
type RegionStatus string

const (
	StatusPeakSeason RegionStatus = "Peak Season"
	StatusOffSeason  RegionStatus = "Off Season"
	StatusYearRound  RegionStatus = "Year Round"
)

// Trend is the direction of a species' bloom count over recent seasons.
type Trend string

const (
	TrendUp     Trend = "up"
	TrendDown   Trend = "down"
	TrendStable Trend = "stable"
)

// Severity classifies an alert for display.
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
)

// MetricsSnapshot is one complete set of dashboard metrics generated at a
// point in time. Snapshots are replaced wholesale, never updated in place.
type MetricsSnapshot struct {
	Timestamp       time.Time       `json:"timestamp"`
	Temperature     float64         `json:"temperature"`
	Humidity        float64         `json:"humidity"`
	WindSpeed       float64         `json:"wind_speed"`
	UVIndex         float64         `json:"uv_index"`
	ActiveBlooms    int             `json:"active_blooms"`
	PredictedBlooms int             `json:"predicted_blooms"`
	SpeciesCount    int             `json:"species_count"`
	Regions         []RegionMetrics `json:"regions"`
	TopSpecies      []SpeciesMetric `json:"top_species"`
	Alerts          []Alert         `json:"alerts"`
}

// RegionMetrics summarises one hemisphere band.
type RegionMetrics struct {
	Name        string       `json:"name"`
	Blooms      int          `json:"blooms"`
	Status      RegionStatus `json:"status"`
	Temperature float64      `json:"temperature"`
	Humidity    float64      `json:"humidity"`
}

// SpeciesMetric is a ranked species entry in a snapshot.
type SpeciesMetric struct {
	Name            string `json:"name"`
	Blooms          int    `json:"blooms"`
	Trend           Trend  `json:"trend"`
	PeakSeasonLabel string `json:"peak_season"`
}

// Alert is a static dashboard notice.
type Alert struct {
	Severity     Severity `json:"severity"`
	Message      string   `json:"message"`
	RelativeTime string   `json:"relative_time"`
}
