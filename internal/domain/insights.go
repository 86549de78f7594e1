package domain

import (
	"slices"
	"time"
)

// InsightRotation is how long each insight stays featured.
const InsightRotation = 4 * time.Second

// Insight is a forecast headline shown in the rotating insights panel.
type Insight struct {
	Kind       string `json:"type"` // prediction, trend, insight
	Title      string `json:"title"`
	Message    string `json:"message"`
	Confidence int    `json:"confidence"`
	Impact     string `json:"impact"` // high, medium, low
}

var insights = []Insight{
	{Kind: "prediction", Title: "Climate Shift Alert", Message: "Cherry Blossoms expected 2 weeks earlier in 2026 due to rising temperatures", Confidence: 87, Impact: "high"},
	{Kind: "trend", Title: "Bloom Duration Extension", Message: "Lotus blooms showing 15% longer flowering periods across Asia", Confidence: 92, Impact: "medium"},
	{Kind: "insight", Title: "Species Migration Pattern", Message: "Lavender cultivation expanding northward by 200km over past decade", Confidence: 78, Impact: "medium"},
	{Kind: "prediction", Title: "Rainfall Correlation", Message: "Sunflower blooms predicted to increase 25% with current precipitation trends", Confidence: 84, Impact: "high"},
	{Kind: "trend", Title: "Biodiversity Index", Message: "Global flower diversity showing positive 3.2% annual growth", Confidence: 95, Impact: "low"},
}

// Insights returns every insight in display order.
func Insights() []Insight { return slices.Clone(insights) }

// FeaturedInsight returns the index of the insight featured at t. The index
// advances by one every InsightRotation and wraps around.
func FeaturedInsight(t time.Time) int {
	slot := t.UnixNano() / int64(InsightRotation)
	n := int64(len(insights))
	return int((slot%n + n) % n)
}
