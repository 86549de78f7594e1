// Package domain models the BloomWatch flowering-phenology demo data.
//
// # Data Source
//
// There is no upstream feed. Every figure is either a static catalog entry
// (species, discussions, seasonal trends, regional hotspots, insights) or a
// synthetic value produced by [Generator] from the wall-clock time plus
// bounded random jitter.
//
// # Synthetic Metrics
//
// Each numeric metric follows
//
//	baseline + amplitude * sin(hour * phase) + U(0, noise)
//
// where hour is the hour of day (0-23) and U is a uniform draw scaled by the
// generator's noise scale. A generator built with noise scale 0 is a pure
// function of the timestamp.
//
// Region status depends only on the month:
//
//	Northern Hemisphere: PeakSeason for March-June, OffSeason otherwise
//	Southern Hemisphere: PeakSeason for September-December, OffSeason otherwise
//	Tropics:            YearRound
//
// Humidity is clamped to [0, 100]; wind speed and UV index are clamped at 0.
// Temperature is not clamped.
//
// # Bloom Cycle
//
// The growth animation walks five [Stage] values, Seed through Fruit, and
// wraps from Fruit back to Seed. [Stage.Next] and [Stage.Prev] implement the
// wrap-around arithmetic.
//
// # Filtering
//
// [Filter] is a stable predicate filter over any catalog. Search text is
// trimmed and case-folded; the category value "all" (or empty) bypasses the
// category predicate. An unknown category is an exact-match miss and yields
// an empty result.
package domain
