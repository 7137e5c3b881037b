package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	readings "vidyutmitra/internal/readings/domain"
)

const defaultReadingsTable = "energy_readings"

// ReadingRepository is the Postgres store for meter readings.
type ReadingRepository struct {
	db    *sql.DB
	table string
}

// RepositoryOption configures the repository.
type RepositoryOption func(*ReadingRepository)

// WithTable overrides the readings table name.
func WithTable(table string) RepositoryOption {
	return func(r *ReadingRepository) {
		if table != "" {
			r.table = table
		}
	}
}

// NewReadingRepository constructs a repository.
func NewReadingRepository(db *sql.DB, opts ...RepositoryOption) *ReadingRepository {
	repo := &ReadingRepository{db: db, table: defaultReadingsTable}
	for _, opt := range opts {
		opt(repo)
	}
	return repo
}

// Store inserts a batch of readings for one user inside a transaction.
func (r *ReadingRepository) Store(ctx context.Context, userID string, list []readings.Reading) error {
	if r == nil || r.db == nil {
		return errors.New("reading repository: nil db")
	}
	if userID == "" {
		return errors.New("reading repository: empty user id")
	}
	if len(list) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	query := fmt.Sprintf(`
INSERT INTO %s (user_id, sent_at, solar_power_kw, solar_energy_kwh, consumption_kw)
VALUES ($1, $2, $3, $4, $5)`, r.table)

	for _, reading := range list {
		if reading.SentAt.IsZero() {
			return readings.ErrInvalidSentAt
		}
		if _, err := tx.ExecContext(ctx, query,
			userID,
			reading.SentAt.UTC(),
			reading.SolarPowerKW,
			reading.SolarEnergyKWh,
			reading.ConsumptionKW,
		); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// ListByUser returns the most recent readings for a user ordered
// oldest first.
func (r *ReadingRepository) ListByUser(ctx context.Context, userID string, limit int) ([]readings.Reading, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("reading repository: nil db")
	}
	if userID == "" {
		return nil, errors.New("reading repository: empty user id")
	}
	if limit <= 0 {
		return nil, errors.New("reading repository: non-positive limit")
	}

	query := fmt.Sprintf(`
SELECT sent_at, solar_power_kw, solar_energy_kwh, consumption_kw
FROM %s
WHERE user_id = $1
ORDER BY sent_at DESC
LIMIT $2`, r.table)

	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []readings.Reading
	for rows.Next() {
		reading := readings.Reading{UserID: userID}
		if err := rows.Scan(&reading.SentAt, &reading.SolarPowerKW, &reading.SolarEnergyKWh, &reading.ConsumptionKW); err != nil {
			return nil, err
		}
		list = append(list, reading)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i, j := 0, len(list)-1; i < j; i, j = i+1, j-1 {
		list[i], list[j] = list[j], list[i]
	}
	return list, nil
}
