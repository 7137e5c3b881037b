package profile

import "errors"

// Profile is the onboarding-captured user document. It is a read-only
// input to report generation.
type Profile struct {
	UserID              string  `json:"-"`
	HasSolarPanels      bool    `json:"hasSolarPanels"`
	HasBatteryStorage   bool    `json:"hasBatteryStorage"`
	SolarCapacityKW     float64 `json:"solarCapacityKw"`
	StorageCapacityKWh  float64 `json:"storageCapacityKwh"`
	MonthlyBill         float64 `json:"monthlyBill"`
	ElectricityProvider string  `json:"electricityProvider"`
}

var (
	// ErrNotFound is returned when no profile exists for the user.
	ErrNotFound = errors.New("profile: not found")
	// ErrEmptyUserID is returned for an empty user id.
	ErrEmptyUserID = errors.New("profile: empty user id")
)

// Validate checks field plausibility before persisting.
func (p Profile) Validate() error {
	if p.SolarCapacityKW < 0 || p.StorageCapacityKWh < 0 || p.MonthlyBill < 0 {
		return errors.New("profile: negative value")
	}
	if p.HasSolarPanels && p.SolarCapacityKW == 0 {
		return errors.New("profile: solar capacity required")
	}
	return nil
}
