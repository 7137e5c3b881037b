package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	tariff "vidyutmitra/internal/tariff/domain"
)

const defaultSamplesTable = "tariff_samples"

// SampleRepository is the Postgres store for tariff samples. Samples
// are append-only; there is a single writer (the scheduler) and many
// readers.
type SampleRepository struct {
	db    *sql.DB
	table string
}

// RepositoryOption configures the repository.
type RepositoryOption func(*SampleRepository)

// WithTable overrides the samples table name.
func WithTable(table string) RepositoryOption {
	return func(r *SampleRepository) {
		if table != "" {
			r.table = table
		}
	}
}

// NewSampleRepository constructs a repository.
func NewSampleRepository(db *sql.DB, opts ...RepositoryOption) *SampleRepository {
	repo := &SampleRepository{db: db, table: defaultSamplesTable}
	for _, opt := range opts {
		opt(repo)
	}
	return repo
}

// Append inserts one sample.
func (r *SampleRepository) Append(ctx context.Context, sample tariff.Sample) error {
	if r == nil || r.db == nil {
		return errors.New("sample repository: nil db")
	}
	if sample.Timestamp.IsZero() {
		return tariff.ErrInvalidTimestamp
	}

	query := fmt.Sprintf(`
INSERT INTO %s (rate, ts)
VALUES ($1, $2)`, r.table)

	_, err := r.db.ExecContext(ctx, query, sample.Rate, sample.Timestamp.UTC())
	return err
}

// Latest returns the most recent sample, or ErrNoSamples when the
// store is empty.
func (r *SampleRepository) Latest(ctx context.Context) (tariff.Sample, error) {
	if r == nil || r.db == nil {
		return tariff.Sample{}, errors.New("sample repository: nil db")
	}

	query := fmt.Sprintf(`
SELECT rate, ts
FROM %s
ORDER BY ts DESC
LIMIT 1`, r.table)

	var sample tariff.Sample
	if err := r.db.QueryRowContext(ctx, query).Scan(&sample.Rate, &sample.Timestamp); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return tariff.Sample{}, tariff.ErrNoSamples
		}
		return tariff.Sample{}, err
	}
	return sample, nil
}

// ListRecent returns the most recent n samples ordered oldest first.
func (r *SampleRepository) ListRecent(ctx context.Context, n int) ([]tariff.Sample, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("sample repository: nil db")
	}
	if n <= 0 {
		return nil, errors.New("sample repository: non-positive limit")
	}

	query := fmt.Sprintf(`
SELECT rate, ts
FROM %s
ORDER BY ts DESC
LIMIT $1`, r.table)

	rows, err := r.db.QueryContext(ctx, query, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var samples []tariff.Sample
	for rows.Next() {
		var sample tariff.Sample
		if err := rows.Scan(&sample.Rate, &sample.Timestamp); err != nil {
			return nil, err
		}
		samples = append(samples, sample)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Newest-first read, oldest-first result.
	for i, j := 0, len(samples)-1; i < j; i, j = i+1, j-1 {
		samples[i], samples[j] = samples[j], samples[i]
	}
	return samples, nil
}
