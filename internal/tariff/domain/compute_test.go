package tariff

import (
	"math"
	"math/rand"
	"testing"
	"time"
)

// seqSource replays a fixed sequence of uniform draws.
type seqSource struct {
	values []float64
	next   int
}

func (s *seqSource) Float64() float64 {
	if s.next >= len(s.values) {
		return 0.5
	}
	v := s.values[s.next]
	s.next++
	return v
}

func TestBandsPartitionDay(t *testing.T) {
	schedule := DefaultSchedule()
	for hour := 0; hour < 24; hour++ {
		matches := 0
		for _, band := range schedule.Bands {
			if band.Contains(hour) {
				matches++
			}
		}
		if matches != 1 {
			t.Fatalf("hour %d matched %d bands, want exactly 1", hour, matches)
		}
	}
}

func TestSeasonOf(t *testing.T) {
	cases := []struct {
		month time.Month
		want  Season
	}{
		{time.January, SeasonWinter},
		{time.March, SeasonWinter},
		{time.April, SeasonSummer},
		{time.June, SeasonSummer},
		{time.July, SeasonMonsoon},
		{time.October, SeasonMonsoon},
		{time.November, SeasonWinter},
		{time.December, SeasonWinter},
	}
	for _, tc := range cases {
		if got := SeasonOf(tc.month); got != tc.want {
			t.Fatalf("SeasonOf(%s) = %s, want %s", tc.month, got, tc.want)
		}
	}
}

func TestGaussianDistribution(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	const (
		n      = 200000
		stdDev = 0.5
	)
	var sum, sumSq float64
	for i := 0; i < n; i++ {
		v := Gaussian(rng, stdDev)
		sum += v
		sumSq += v * v
	}
	mean := sum / n
	variance := sumSq/n - mean*mean
	if math.Abs(mean) > 0.01 {
		t.Fatalf("empirical mean %v, want ~0", mean)
	}
	if math.Abs(math.Sqrt(variance)-stdDev) > 0.01 {
		t.Fatalf("empirical stddev %v, want ~%v", math.Sqrt(variance), stdDev)
	}
}

func TestComputeMiddayWeekday(t *testing.T) {
	// 14:00 on a monsoon Wednesday: band 12-16 base 6.2, season x1.0,
	// weekday x1.1, noise and jitter suppressed.
	now := time.Date(2025, time.July, 9, 14, 0, 0, 0, time.UTC)
	rng := &seqSource{values: []float64{1.0, 0.5, 0.5}}

	sample := DefaultSchedule().Compute(now, rng)
	if want := 6.82; sample.Rate != want {
		t.Fatalf("rate = %v, want %v", sample.Rate, want)
	}
	if !sample.Timestamp.Equal(now) {
		t.Fatalf("timestamp = %v, want %v", sample.Timestamp, now)
	}
}

func TestComputeStaysWithinBandEnvelope(t *testing.T) {
	now := time.Date(2025, time.July, 9, 14, 0, 0, 0, time.UTC)
	rng := rand.New(rand.NewSource(7))
	schedule := DefaultSchedule()

	// Band 12-16: base 6.2, variation 0.5. Over many draws the rate
	// should stay well inside a generous +-4 sigma envelope after the
	// weekday multiplier.
	low := (6.2 - 4*0.5) * WeekdayMultiplier * 0.99
	high := (6.2 + 4*0.5) * WeekdayMultiplier * 1.01
	for i := 0; i < 10000; i++ {
		sample := schedule.Compute(now, rng)
		if sample.Rate < low || sample.Rate > high {
			t.Fatalf("rate %v outside envelope [%v, %v]", sample.Rate, low, high)
		}
	}
}

func TestComputeWeekendMultiplier(t *testing.T) {
	saturday := time.Date(2025, time.July, 12, 14, 0, 0, 0, time.UTC)
	rng := &seqSource{values: []float64{1.0, 0.5, 0.5}}

	sample := DefaultSchedule().Compute(saturday, rng)
	if want := Round2(6.2 * WeekendMultiplier); sample.Rate != want {
		t.Fatalf("rate = %v, want %v", sample.Rate, want)
	}
}

func TestRound2(t *testing.T) {
	values := []float64{6.8161, 7.4999, 0.005, 3.14159, 123.456}
	for _, v := range values {
		rounded := Round2(v)
		if math.Abs(rounded-v) > 0.005 {
			t.Fatalf("Round2(%v) = %v drifts more than half a cent", v, rounded)
		}
		if scaled := rounded * 100; math.Abs(scaled-math.Round(scaled)) > 1e-9 {
			t.Fatalf("Round2(%v) = %v keeps more than two decimals", v, rounded)
		}
	}
}

func TestNewSampleValidation(t *testing.T) {
	now := time.Now()
	if _, err := NewSample(0, now); err != ErrNonPositiveRate {
		t.Fatalf("expected ErrNonPositiveRate, got %v", err)
	}
	if _, err := NewSample(5.5, time.Time{}); err != ErrInvalidTimestamp {
		t.Fatalf("expected ErrInvalidTimestamp, got %v", err)
	}
	if _, err := NewSample(5.5, now); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
