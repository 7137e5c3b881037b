package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	profile "vidyutmitra/internal/profile/domain"
)

const defaultProfilesTable = "user_profiles"

// ProfileRepository is the Postgres store for user profiles.
type ProfileRepository struct {
	db    *sql.DB
	table string
}

// RepositoryOption configures the repository.
type RepositoryOption func(*ProfileRepository)

// WithTable overrides the profiles table name.
func WithTable(table string) RepositoryOption {
	return func(r *ProfileRepository) {
		if table != "" {
			r.table = table
		}
	}
}

// NewProfileRepository constructs a repository.
func NewProfileRepository(db *sql.DB, opts ...RepositoryOption) *ProfileRepository {
	repo := &ProfileRepository{db: db, table: defaultProfilesTable}
	for _, opt := range opts {
		opt(repo)
	}
	return repo
}

// Get loads the profile for a user.
func (r *ProfileRepository) Get(ctx context.Context, userID string) (*profile.Profile, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("profile repository: nil db")
	}
	if userID == "" {
		return nil, profile.ErrEmptyUserID
	}

	query := fmt.Sprintf(`
SELECT has_solar_panels, has_battery_storage, solar_capacity_kw,
	storage_capacity_kwh, monthly_bill, electricity_provider
FROM %s
WHERE user_id = $1`, r.table)

	p := profile.Profile{UserID: userID}
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&p.HasSolarPanels,
		&p.HasBatteryStorage,
		&p.SolarCapacityKW,
		&p.StorageCapacityKWh,
		&p.MonthlyBill,
		&p.ElectricityProvider,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, profile.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Put upserts the profile for a user.
func (r *ProfileRepository) Put(ctx context.Context, userID string, p profile.Profile) error {
	if r == nil || r.db == nil {
		return errors.New("profile repository: nil db")
	}
	if userID == "" {
		return profile.ErrEmptyUserID
	}
	if err := p.Validate(); err != nil {
		return err
	}

	query := fmt.Sprintf(`
INSERT INTO %s (user_id, has_solar_panels, has_battery_storage,
	solar_capacity_kw, storage_capacity_kwh, monthly_bill, electricity_provider)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (user_id) DO UPDATE SET
	has_solar_panels = EXCLUDED.has_solar_panels,
	has_battery_storage = EXCLUDED.has_battery_storage,
	solar_capacity_kw = EXCLUDED.solar_capacity_kw,
	storage_capacity_kwh = EXCLUDED.storage_capacity_kwh,
	monthly_bill = EXCLUDED.monthly_bill,
	electricity_provider = EXCLUDED.electricity_provider`, r.table)

	_, err := r.db.ExecContext(ctx, query,
		userID,
		p.HasSolarPanels,
		p.HasBatteryStorage,
		p.SolarCapacityKW,
		p.StorageCapacityKWh,
		p.MonthlyBill,
		p.ElectricityProvider,
	)
	return err
}
