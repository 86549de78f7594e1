package domain

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// SeasonalPoint is the observed bloom count for a month, with a forecast.
type SeasonalPoint struct {
	Month     string `json:"month"`
	Blooms    int    `json:"blooms"`
	Predicted int    `json:"predicted"`
}

// SeasonalSummary aggregates the monthly series.
type SeasonalSummary struct {
	Points    []SeasonalPoint `json:"points"`
	Mean      float64         `json:"mean"`
	StdDev    float64         `json:"std_dev"`
	PeakMonth string          `json:"peak_month"`
	// Slope is the least-squares change in blooms per month across the year.
	Slope float64 `json:"slope"`
}

var seasonalTrends = []SeasonalPoint{
	{Month: "Jan", Blooms: 15},
	{Month: "Feb", Blooms: 20},
	{Month: "Mar", Blooms: 50},
	{Month: "Apr", Blooms: 80},
	{Month: "May", Blooms: 100},
	{Month: "Jun", Blooms: 120},
	{Month: "Jul", Blooms: 150},
	{Month: "Aug", Blooms: 140},
	{Month: "Sep", Blooms: 100},
	{Month: "Oct", Blooms: 70},
	{Month: "Nov", Blooms: 40},
	{Month: "Dec", Blooms: 20},
}

// Forecast uplift is 10% plus up to another 20% of jitter.
const (
	forecastUplift = 1.1
	forecastJitter = 0.2
)

// SeasonalForecast returns the monthly trend with predicted values and summary
// statistics. A nil rng yields the minimum 10% uplift for every month.
func SeasonalForecast(rng RandomSource) SeasonalSummary {
	points := make([]SeasonalPoint, len(seasonalTrends))
	xs := make([]float64, len(seasonalTrends))
	ys := make([]float64, len(seasonalTrends))

	peak := 0
	for i, p := range seasonalTrends {
		factor := forecastUplift
		if rng != nil {
			factor += rng.Float64() * forecastJitter
		}
		p.Predicted = roundInt(float64(p.Blooms) * factor)
		points[i] = p

		xs[i] = float64(i)
		ys[i] = float64(p.Blooms)
		if p.Blooms > seasonalTrends[peak].Blooms {
			peak = i
		}
	}

	mean, std := stat.MeanStdDev(ys, nil)
	_, slope := stat.LinearRegression(xs, ys, nil, false)

	return SeasonalSummary{
		Points:    points,
		Mean:      mean,
		StdDev:    std,
		PeakMonth: seasonalTrends[peak].Month,
		Slope:     math.Round(slope*1000) / 1000,
	}
}
