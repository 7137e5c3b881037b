package tariff

import (
	"math"
	"time"
)

// RandSource supplies uniform draws in [0, 1). Injected so that
// Compute stays deterministic under test.
type RandSource interface {
	Float64() float64
}

// Schedule holds the full pricing configuration used by Compute.
type Schedule struct {
	Bands             []Band
	DefaultRate       float64
	WeekdayMultiplier float64
	WeekendMultiplier float64
}

// DefaultSchedule returns the compiled-in schedule.
func DefaultSchedule() Schedule {
	return Schedule{
		Bands:             DefaultBands,
		DefaultRate:       DefaultRate,
		WeekdayMultiplier: WeekdayMultiplier,
		WeekendMultiplier: WeekendMultiplier,
	}
}

// BandAt selects the band covering the given hour.
func (s Schedule) BandAt(hour int) (Band, bool) {
	for _, band := range s.Bands {
		if band.Contains(hour) {
			return band, true
		}
	}
	return Band{}, false
}

// Compute synthesizes the tariff sample for the given instant. The
// base rate of the matching band gets gaussian noise scaled by its
// variation, seasonal and weekday/weekend demand multipliers, a final
// uniform jitter of up to one percent, then half-up rounding to two
// decimals.
func (s Schedule) Compute(now time.Time, rng RandSource) Sample {
	hour := now.Hour()
	weekday := now.Weekday()
	isWeekend := weekday == time.Saturday || weekday == time.Sunday
	season := SeasonOf(now.Month())

	band, ok := s.BandAt(hour)
	if !ok {
		return Sample{Rate: s.DefaultRate, Timestamp: now}
	}

	rate := band.BaseRate
	rate += Gaussian(rng, band.Variation)
	rate *= season.Multiplier()
	if isWeekend {
		rate *= s.WeekendMultiplier
	} else {
		rate *= s.WeekdayMultiplier
	}
	rate *= 1 + (rng.Float64()*0.02 - 0.01)

	return Sample{Rate: Round2(rate), Timestamp: now}
}

// Gaussian draws a normally distributed value with mean zero and the
// given standard deviation, via the Box-Muller transform over two
// independent uniform draws.
func Gaussian(rng RandSource, stdDev float64) float64 {
	u1 := rng.Float64()
	u2 := rng.Float64()
	z := math.Sqrt(-2.0*math.Log(u1)) * math.Cos(2.0*math.Pi*u2)
	return z * stdDev
}

// Round2 rounds half away from zero to two decimal places.
func Round2(value float64) float64 {
	return math.Round(value*100) / 100
}
