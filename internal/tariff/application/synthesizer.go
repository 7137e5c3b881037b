package application

import (
	"context"
	"errors"
	"log"
	"math/rand"
	"time"

	"vidyutmitra/internal/observability/metrics"
	tariff "vidyutmitra/internal/tariff/domain"
)

// SampleAppender persists synthesized samples.
type SampleAppender interface {
	Append(ctx context.Context, sample tariff.Sample) error
}

// Clock abstracts time for deterministic tests.
type Clock interface {
	Now() time.Time
}

// Synthesizer produces one tariff sample per tick and appends it to
// the store. A failed append is logged and counted; the tick is never
// retried.
type Synthesizer struct {
	store    SampleAppender
	schedule tariff.Schedule
	clock    Clock
	rng      tariff.RandSource
	logger   *log.Logger
}

// SynthesizerOption configures the synthesizer.
type SynthesizerOption func(*Synthesizer)

// WithSchedule overrides the compiled-in TOU schedule.
func WithSchedule(schedule tariff.Schedule) SynthesizerOption {
	return func(s *Synthesizer) {
		if len(schedule.Bands) > 0 {
			s.schedule = schedule
		}
	}
}

// WithClock overrides the system clock.
func WithClock(clock Clock) SynthesizerOption {
	return func(s *Synthesizer) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithRandSource overrides the random source.
func WithRandSource(rng tariff.RandSource) SynthesizerOption {
	return func(s *Synthesizer) {
		if rng != nil {
			s.rng = rng
		}
	}
}

// NewSynthesizer constructs a synthesizer.
func NewSynthesizer(store SampleAppender, logger *log.Logger, opts ...SynthesizerOption) (*Synthesizer, error) {
	if store == nil {
		return nil, errors.New("synthesizer: nil store")
	}
	s := &Synthesizer{
		store:    store,
		schedule: tariff.DefaultSchedule(),
		clock:    systemClock{},
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
		logger:   logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Tick synthesizes and stores the sample for the current instant.
func (s *Synthesizer) Tick(ctx context.Context) {
	now := s.clock.Now()
	sample := s.schedule.Compute(now, s.rng)
	if err := s.store.Append(ctx, sample); err != nil {
		metrics.SynthesizerTick("error")
		if s.logger != nil {
			s.logger.Printf("tariff tick store error: %v", err)
		}
		return
	}
	metrics.SynthesizerTick("success")
	if s.logger != nil {
		s.logger.Printf("tariff sample stored: rate=%.2f at=%s", sample.Rate, sample.Timestamp.Format(time.RFC3339))
	}
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }
