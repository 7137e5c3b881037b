package memory

import (
	"context"
	"errors"
	"sync"

	tariff "vidyutmitra/internal/tariff/domain"
)

// SampleRepository is an in-memory sample store for demo/testing.
type SampleRepository struct {
	mu      sync.RWMutex
	samples []tariff.Sample
}

// NewSampleRepository constructs a repository.
func NewSampleRepository() *SampleRepository {
	return &SampleRepository{}
}

// Append stores one sample.
func (r *SampleRepository) Append(ctx context.Context, sample tariff.Sample) error {
	_ = ctx
	if sample.Timestamp.IsZero() {
		return tariff.ErrInvalidTimestamp
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.samples = append(r.samples, sample)
	return nil
}

// Latest returns the most recent sample.
func (r *SampleRepository) Latest(ctx context.Context) (tariff.Sample, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(r.samples) == 0 {
		return tariff.Sample{}, tariff.ErrNoSamples
	}
	latest := r.samples[0]
	for _, sample := range r.samples[1:] {
		if sample.Timestamp.After(latest.Timestamp) {
			latest = sample
		}
	}
	return latest, nil
}

// ListRecent returns the most recent n samples ordered oldest first.
func (r *SampleRepository) ListRecent(ctx context.Context, n int) ([]tariff.Sample, error) {
	_ = ctx
	if n <= 0 {
		return nil, errors.New("sample repository: non-positive limit")
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	sorted := make([]tariff.Sample, len(r.samples))
	copy(sorted, r.samples)
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0 && sorted[j].Timestamp.Before(sorted[j-1].Timestamp); j-- {
			sorted[j], sorted[j-1] = sorted[j-1], sorted[j]
		}
	}
	if len(sorted) > n {
		sorted = sorted[len(sorted)-n:]
	}
	return sorted, nil
}

// Len reports the stored sample count.
func (r *SampleRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.samples)
}
