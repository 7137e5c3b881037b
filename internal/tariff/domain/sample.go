package tariff

import "time"

// Sample is one persisted tariff observation. Samples are immutable
// once written and ordered by timestamp.
type Sample struct {
	Rate      float64   `json:"rate"`
	Timestamp time.Time `json:"timestamp"`
}

// NewSample validates and builds a sample.
func NewSample(rate float64, at time.Time) (Sample, error) {
	if rate <= 0 {
		return Sample{}, ErrNonPositiveRate
	}
	if at.IsZero() {
		return Sample{}, ErrInvalidTimestamp
	}
	return Sample{Rate: rate, Timestamp: at}, nil
}
