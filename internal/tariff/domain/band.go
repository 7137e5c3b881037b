package tariff

import "time"

// Band is a time-of-use pricing band covering the half-open hour
// range [StartHour, EndHour).
type Band struct {
	StartHour int
	EndHour   int
	BaseRate  float64
	Variation float64
}

// Contains reports whether the band covers the given hour of day.
func (b Band) Contains(hour int) bool {
	return hour >= b.StartHour && hour < b.EndHour
}

// DefaultBands is the compiled-in TOU schedule. The six bands
// partition [0, 24) with no gaps or overlaps.
var DefaultBands = []Band{
	{StartHour: 0, EndHour: 4, BaseRate: 3.5, Variation: 0.3},
	{StartHour: 4, EndHour: 8, BaseRate: 4.2, Variation: 0.4},
	{StartHour: 8, EndHour: 12, BaseRate: 5.8, Variation: 0.6},
	{StartHour: 12, EndHour: 16, BaseRate: 6.2, Variation: 0.5},
	{StartHour: 16, EndHour: 20, BaseRate: 7.5, Variation: 0.8},
	{StartHour: 20, EndHour: 24, BaseRate: 5.2, Variation: 0.4},
}

// DefaultRate is used if no band matches the current hour. Unreachable
// as long as the bands keep their full-day partition.
const DefaultRate = 5.0

// Season groups calendar months into pricing seasons.
type Season string

const (
	SeasonSummer  Season = "summer"
	SeasonMonsoon Season = "monsoon"
	SeasonWinter  Season = "winter"
)

// SeasonOf maps a calendar month to its pricing season.
func SeasonOf(month time.Month) Season {
	switch {
	case month >= time.April && month <= time.June:
		return SeasonSummer
	case month >= time.July && month <= time.October:
		return SeasonMonsoon
	default:
		return SeasonWinter
	}
}

// Multiplier returns the seasonal demand multiplier.
func (s Season) Multiplier() float64 {
	switch s {
	case SeasonSummer:
		return 1.15
	case SeasonWinter:
		return 0.9
	default:
		return 1.0
	}
}

const (
	// WeekdayMultiplier scales rates on working days.
	WeekdayMultiplier = 1.1
	// WeekendMultiplier scales rates on Saturday and Sunday.
	WeekendMultiplier = 0.95
)
