package application

import (
	"context"
	"log"
	"time"
)

// Scheduler drives the synthesizer: once immediately at start, then on
// every top-of-hour tick until the context is cancelled. Ticks run
// sequentially and fail independently.
type Scheduler struct {
	synthesizer *Synthesizer
	logger      *log.Logger
}

// NewScheduler constructs a Scheduler.
func NewScheduler(synthesizer *Synthesizer, logger *log.Logger) *Scheduler {
	return &Scheduler{synthesizer: synthesizer, logger: logger}
}

// Start begins the scheduler loop. It blocks until ctx is done.
func (s *Scheduler) Start(ctx context.Context) {
	if s == nil || s.synthesizer == nil {
		return
	}
	if s.logger != nil {
		s.logger.Printf("tariff scheduler started")
	}
	s.synthesizer.Tick(ctx)

	timer := time.NewTimer(untilNextHour(time.Now()))
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-timer.C:
			s.synthesizer.Tick(ctx)
			timer.Reset(untilNextHour(now))
		}
	}
}

func untilNextHour(now time.Time) time.Duration {
	next := now.Truncate(time.Hour).Add(time.Hour)
	return next.Sub(now)
}
