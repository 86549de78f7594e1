package domain

import "slices"

// Months holds the canonical month names in calendar order.
var Months = []string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// SpeciesCatalogEntry is a static species record shown in the explorer.
type SpeciesCatalogEntry struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	ImageRef    string   `json:"image"`
	Season      []string `json:"season"`
	Description string   `json:"description"`
}

// Discussion is a community thread.
type Discussion struct {
	ID           int      `json:"id"`
	Title        string   `json:"title"`
	Author       string   `json:"author"`
	Replies      int      `json:"replies"`
	Likes        int      `json:"likes"`
	RelativeTime string   `json:"time"`
	Tags         []string `json:"tags"`
	Content      string   `json:"content"`
}

// Hotspot is a single observed bloom location inside a region.
type Hotspot struct {
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Species string  `json:"species"`
	Status  string  `json:"status"`
}

// Region is a continental grouping of bloom hotspots.
type Region struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	ActiveBlooms int       `json:"active_blooms"`
	Hotspots     []Hotspot `json:"hotspots"`
}

// DistributionShare is one species' share of observed blooms.
type DistributionShare struct {
	Species    string `json:"species"`
	Percentage int    `json:"percentage"`
}

// ClimateFactor rates how strongly a factor drives blooming.
type ClimateFactor struct {
	Factor string `json:"factor"`
	Impact int    `json:"impact"`
}

// TimelineEvent is a notable bloom event in the calendar.
type TimelineEvent struct {
	Month string `json:"month"`
	Event string `json:"event"`
}

// SpeciesCatalog returns the explorer species catalog. The returned slice is a
// copy; callers may reorder it freely.
func SpeciesCatalog() []SpeciesCatalogEntry {
	return cloneEntries(speciesCatalog)
}

// Discussions returns the community discussion catalog.
func Discussions() []Discussion {
	out := make([]Discussion, len(discussions))
	for i, d := range discussions {
		d.Tags = slices.Clone(d.Tags)
		out[i] = d
	}
	return out
}

// Regions returns the regional hotspot catalog.
func Regions() []Region {
	out := make([]Region, len(regions))
	for i, r := range regions {
		r.Hotspots = slices.Clone(r.Hotspots)
		out[i] = r
	}
	return out
}

// Distribution returns the species distribution shares.
func Distribution() []DistributionShare { return slices.Clone(distribution) }

// ClimateFactors returns the climate correlation ratings.
func ClimateFactors() []ClimateFactor { return slices.Clone(climateFactors) }

// Timeline returns the bloom event calendar.
func Timeline() []TimelineEvent { return slices.Clone(timeline) }

// ValidSeason reports whether season is a non-empty, calendar-ordered subset
// of Months without duplicates.
func ValidSeason(season []string) bool {
	if len(season) == 0 {
		return false
	}
	last := -1
	for _, m := range season {
		idx := slices.Index(Months, m)
		if idx <= last {
			return false
		}
		last = idx
	}
	return true
}

func cloneEntries(in []SpeciesCatalogEntry) []SpeciesCatalogEntry {
	out := make([]SpeciesCatalogEntry, len(in))
	for i, e := range in {
		e.Season = slices.Clone(e.Season)
		out[i] = e
	}
	return out
}

var speciesCatalog = []SpeciesCatalogEntry{
	{
		ID:          "lotus",
		Name:        "Lotus",
		ImageRef:    "/beautiful-pink-lotus-flower-in-pond.jpg",
		Season:      []string{"June", "July", "August"},
		Description: "Sacred flower commonly found in Asia.",
	},
	{
		ID:          "cherry_blossom",
		Name:        "Cherry Blossom",
		ImageRef:    "/pink-cherry-blossom-tree-in-spring.jpg",
		Season:      []string{"March", "April"},
		Description: "Symbol of spring in Japan.",
	},
	{
		ID:          "sunflower",
		Name:        "Sunflower",
		ImageRef:    "/bright-yellow-sunflower-field.jpg",
		Season:      []string{"July", "August", "September"},
		Description: "Large yellow blooms turning towards the sun.",
	},
	{
		ID:          "lavender",
		Name:        "Lavender",
		ImageRef:    "/purple-lavender-field-in-provence.jpg",
		Season:      []string{"May", "June", "July"},
		Description: "Fragrant purple flowers popular in Mediterranean regions.",
	},
}

var discussions = []Discussion{
	{
		ID:           1,
		Title:        "Spring Bloom Patterns in Northern Hemisphere",
		Author:       "Dr. Sarah Chen",
		Replies:      12,
		Likes:        45,
		RelativeTime: "2 hours ago",
		Tags:         []string{"Research", "Spring", "Climate"},
		Content:      "Recent observations show earlier blooming times across northern regions. This could indicate climate change impacts on plant phenology...",
	},
	{
		ID:           2,
		Title:        "Climate Change Impact on Flowering Times",
		Author:       "Prof. Michael Torres",
		Replies:      8,
		Likes:        32,
		RelativeTime: "5 hours ago",
		Tags:         []string{"Climate", "Research", "Phenology"},
		Content:      "Our 10-year study reveals significant shifts in flowering schedules. Some species are blooming up to 3 weeks earlier than historical averages...",
	},
	{
		ID:           3,
		Title:        "Citizen Science: How to Contribute",
		Author:       "BloomWatch Team",
		Replies:      15,
		Likes:        67,
		RelativeTime: "1 day ago",
		Tags:         []string{"Citizen Science", "Guide", "Community"},
		Content:      "Learn how you can contribute to global bloom tracking through our citizen science program. Every observation matters!",
	},
	{
		ID:           4,
		Title:        "Machine Learning in Phenology Prediction",
		Author:       "Dr. Alex Kumar",
		Replies:      6,
		Likes:        28,
		RelativeTime: "2 days ago",
		Tags:         []string{"AI", "Machine Learning", "Prediction"},
		Content:      "Exploring how ML algorithms can improve bloom prediction accuracy using satellite data and weather patterns...",
	},
}

var regions = []Region{
	{
		ID: "asia", Name: "Asia", ActiveBlooms: 125,
		Hotspots: []Hotspot{
			{Lat: 28.6, Lng: 77.2, Species: "Lotus", Status: "Full Bloom"},
			{Lat: 35.6, Lng: 139.7, Species: "Cherry Blossom", Status: "Early Bloom"},
			{Lat: 22.3, Lng: 114.2, Species: "Lotus", Status: "Peak Bloom"},
			{Lat: 31.2, Lng: 121.5, Species: "Cherry Blossom", Status: "Full Bloom"},
			{Lat: 37.5, Lng: 127.0, Species: "Cherry Blossom", Status: "Early Bloom"},
			{Lat: 13.7, Lng: 100.5, Species: "Lotus", Status: "Late Bloom"},
		},
	},
	{
		ID: "europe", Name: "Europe", ActiveBlooms: 90,
		Hotspots: []Hotspot{
			{Lat: 48.8, Lng: 2.3, Species: "Lavender", Status: "Peak Bloom"},
			{Lat: 41.9, Lng: 12.5, Species: "Sunflower", Status: "Late Bloom"},
			{Lat: 43.7, Lng: 7.4, Species: "Lavender", Status: "Full Bloom"},
			{Lat: 52.5, Lng: 13.4, Species: "Sunflower", Status: "Early Bloom"},
			{Lat: 40.4, Lng: -3.7, Species: "Sunflower", Status: "Peak Bloom"},
			{Lat: 51.5, Lng: -0.1, Species: "Lavender", Status: "Late Bloom"},
		},
	},
	{
		ID: "americas", Name: "Americas", ActiveBlooms: 75,
		Hotspots: []Hotspot{
			{Lat: 40.7, Lng: -74.0, Species: "Cherry Blossom", Status: "Early Bloom"},
			{Lat: 34.0, Lng: -118.2, Species: "Sunflower", Status: "Full Bloom"},
			{Lat: 45.5, Lng: -122.7, Species: "Cherry Blossom", Status: "Peak Bloom"},
			{Lat: -23.5, Lng: -46.6, Species: "Sunflower", Status: "Late Bloom"},
		},
	},
	{
		ID: "africa", Name: "Africa", ActiveBlooms: 45,
		Hotspots: []Hotspot{
			{Lat: -33.9, Lng: 18.4, Species: "Sunflower", Status: "Full Bloom"},
			{Lat: -26.2, Lng: 28.0, Species: "Sunflower", Status: "Peak Bloom"},
			{Lat: 30.0, Lng: 31.2, Species: "Lotus", Status: "Early Bloom"},
		},
	},
}

var distribution = []DistributionShare{
	{Species: "Lotus", Percentage: 25},
	{Species: "Cherry Blossom", Percentage: 30},
	{Species: "Sunflower", Percentage: 20},
	{Species: "Lavender", Percentage: 25},
}

var climateFactors = []ClimateFactor{
	{Factor: "Rainfall", Impact: 75},
	{Factor: "Temperature", Impact: 85},
	{Factor: "Soil Moisture", Impact: 60},
	{Factor: "Sunlight Hours", Impact: 90},
}

var timeline = []TimelineEvent{
	{Month: "March", Event: "Cherry Blossoms in Japan"},
	{Month: "May", Event: "Lavender Fields in France"},
	{Month: "July", Event: "Lotus Bloom in India"},
	{Month: "August", Event: "Sunflowers in Italy"},
}
