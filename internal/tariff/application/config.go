package application

import (
	"errors"
	"os"

	"gopkg.in/yaml.v3"

	tariff "vidyutmitra/internal/tariff/domain"
)

// BandConfig is a YAML override for one TOU band.
type BandConfig struct {
	StartHour int     `yaml:"start_hour"`
	EndHour   int     `yaml:"end_hour"`
	BaseRate  float64 `yaml:"base_rate"`
	Variation float64 `yaml:"variation"`
}

// Config overrides the compiled-in pricing schedule.
type Config struct {
	Bands             []BandConfig `yaml:"bands"`
	DefaultRate       float64      `yaml:"default_rate"`
	WeekdayMultiplier float64      `yaml:"weekday_multiplier"`
	WeekendMultiplier float64      `yaml:"weekend_multiplier"`
}

// LoadConfig reads the schedule from the yaml file named by the
// TARIFF_CONFIG env var, falling back to defaults when unset.
func LoadConfig() (tariff.Schedule, error) {
	schedule := tariff.DefaultSchedule()

	path := os.Getenv("TARIFF_CONFIG")
	if path == "" {
		return schedule, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return schedule, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return schedule, err
	}
	return applyConfig(schedule, cfg)
}

func applyConfig(schedule tariff.Schedule, cfg Config) (tariff.Schedule, error) {
	if len(cfg.Bands) > 0 {
		bands := make([]tariff.Band, 0, len(cfg.Bands))
		for _, b := range cfg.Bands {
			bands = append(bands, tariff.Band{
				StartHour: b.StartHour,
				EndHour:   b.EndHour,
				BaseRate:  b.BaseRate,
				Variation: b.Variation,
			})
		}
		if err := validateBands(bands); err != nil {
			return schedule, err
		}
		schedule.Bands = bands
	}
	if cfg.DefaultRate > 0 {
		schedule.DefaultRate = cfg.DefaultRate
	}
	if cfg.WeekdayMultiplier > 0 {
		schedule.WeekdayMultiplier = cfg.WeekdayMultiplier
	}
	if cfg.WeekendMultiplier > 0 {
		schedule.WeekendMultiplier = cfg.WeekendMultiplier
	}
	return schedule, nil
}

// validateBands requires a full partition of [0, 24).
func validateBands(bands []tariff.Band) error {
	for hour := 0; hour < 24; hour++ {
		matches := 0
		for _, band := range bands {
			if band.Contains(hour) {
				matches++
			}
		}
		if matches != 1 {
			return errors.New("tariff config: bands must partition the 24-hour day")
		}
	}
	return nil
}
