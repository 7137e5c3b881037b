package application

import (
	"context"
	"errors"
	"io"
	"log"
	"math/rand"
	"testing"
	"time"

	tariff "vidyutmitra/internal/tariff/domain"
	"vidyutmitra/internal/tariff/infrastructure/memory"
)

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

type failingAppender struct {
	calls int
}

func (a *failingAppender) Append(context.Context, tariff.Sample) error {
	a.calls++
	return errors.New("store down")
}

func testLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func TestSynthesizerTickStoresOneSample(t *testing.T) {
	store := memory.NewSampleRepository()
	now := time.Date(2025, time.July, 9, 14, 0, 0, 0, time.UTC)
	synth, err := NewSynthesizer(store, testLogger(),
		WithClock(fixedClock{now: now}),
		WithRandSource(rand.New(rand.NewSource(1))),
	)
	if err != nil {
		t.Fatalf("new synthesizer: %v", err)
	}

	synth.Tick(context.Background())
	if store.Len() != 1 {
		t.Fatalf("stored %d samples, want 1", store.Len())
	}

	sample, err := store.Latest(context.Background())
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if !sample.Timestamp.Equal(now) {
		t.Fatalf("timestamp = %v, want %v", sample.Timestamp, now)
	}
	if sample.Rate <= 0 {
		t.Fatalf("rate = %v, want positive", sample.Rate)
	}
}

func TestSynthesizerTickSurvivesStoreFailure(t *testing.T) {
	appender := &failingAppender{}
	synth, err := NewSynthesizer(appender, testLogger())
	if err != nil {
		t.Fatalf("new synthesizer: %v", err)
	}

	// Failed ticks must not panic or retry; each tick is one append.
	synth.Tick(context.Background())
	synth.Tick(context.Background())
	if appender.calls != 2 {
		t.Fatalf("append calls = %d, want 2", appender.calls)
	}
}

func TestSynthesizerDeterministicWithSeededSource(t *testing.T) {
	now := time.Date(2025, time.July, 9, 14, 0, 0, 0, time.UTC)

	run := func() float64 {
		store := memory.NewSampleRepository()
		synth, err := NewSynthesizer(store, testLogger(),
			WithClock(fixedClock{now: now}),
			WithRandSource(rand.New(rand.NewSource(99))),
		)
		if err != nil {
			t.Fatalf("new synthesizer: %v", err)
		}
		synth.Tick(context.Background())
		sample, err := store.Latest(context.Background())
		if err != nil {
			t.Fatalf("latest: %v", err)
		}
		return sample.Rate
	}

	if first, second := run(), run(); first != second {
		t.Fatalf("seeded runs differ: %v vs %v", first, second)
	}
}

func TestNewSynthesizerRequiresStore(t *testing.T) {
	if _, err := NewSynthesizer(nil, testLogger()); err == nil {
		t.Fatal("expected error for nil store")
	}
}
