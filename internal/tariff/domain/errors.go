package tariff

import "errors"

var (
	// ErrNonPositiveRate is returned when a sample rate is zero or negative.
	ErrNonPositiveRate = errors.New("tariff: non-positive rate")
	// ErrInvalidTimestamp is returned when a sample timestamp is zero.
	ErrInvalidTimestamp = errors.New("tariff: invalid timestamp")
	// ErrNoSamples is returned when the store holds no samples.
	ErrNoSamples = errors.New("tariff: no samples")
)
