package readings

import (
	"errors"
	"sort"
	"time"
)

// Reading is one ingested meter/solar sample. Numeric fields carry
// NaN when the source field could not be parsed; aggregations skip
// NaN contributions.
type Reading struct {
	UserID         string    `json:"-"`
	SentAt         time.Time `json:"sendDate"`
	SolarPowerKW   float64   `json:"solarPowerKw"`
	SolarEnergyKWh float64   `json:"solarEnergyKwh"`
	ConsumptionKW  float64   `json:"consumptionKw"`
}

// ErrInvalidSentAt is returned when a reading has a zero timestamp.
var ErrInvalidSentAt = errors.New("readings: invalid sent at")

// DayKey is the local calendar date of the reading, used as the
// grouping key.
func (r Reading) DayKey() string {
	return r.SentAt.Format("2006-01-02")
}

// GroupByDay buckets readings by calendar day. Keys come back sorted
// ascending, so the last key is the latest day. The result is stable
// under permutation of the input: members of each bucket are sorted
// by timestamp.
func GroupByDay(list []Reading) ([]string, map[string][]Reading) {
	byDay := make(map[string][]Reading)
	for _, reading := range list {
		key := reading.DayKey()
		byDay[key] = append(byDay[key], reading)
	}

	keys := make([]string, 0, len(byDay))
	for key := range byDay {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		bucket := byDay[key]
		sort.Slice(bucket, func(i, j int) bool {
			return bucket[i].SentAt.Before(bucket[j].SentAt)
		})
	}
	return keys, byDay
}
