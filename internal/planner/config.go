package planner

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config carries the planner tunables. Zero values are replaced by the
// defaults below, so a config file only needs the keys it overrides.
type Config struct {
	WalkSpeedMetersPerMin float64 `yaml:"walk_speed_m_per_min" validate:"gt=0"`
	MaxNearbyKm           float64 `yaml:"max_nearby_km" validate:"gt=0"`
	NearbyLimit           int     `yaml:"nearby_limit" validate:"gt=0"`
	MaxResults            int     `yaml:"max_results" validate:"gt=0"`
	TopStopsForTransfer   int     `yaml:"top_stops_for_transfer" validate:"gt=0"`
	FareBasePerLeg        float64 `yaml:"fare_base_per_leg" validate:"gte=0"`
	FarePerStop           float64 `yaml:"fare_per_stop" validate:"gte=0"`
	KmPerStopEstimate     float64 `yaml:"km_per_stop_estimate" validate:"gte=0"`
}

// DefaultConfig returns the stock planner settings: a 80 m/min walking
// speed, a 2 km nearby-stop radius, and five results.
func DefaultConfig() Config {
	return Config{
		WalkSpeedMetersPerMin: 80,
		MaxNearbyKm:           2.0,
		NearbyLimit:           20,
		MaxResults:            5,
		TopStopsForTransfer:   5,
		FareBasePerLeg:        5,
		FarePerStop:           1.5,
		KmPerStopEstimate:     0.5,
	}
}

// LoadConfig reads a YAML planner config, fills unset keys with defaults
// and validates the result.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("error reading planner config: %w", err)
	}

	cfg := Config{}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("error parsing planner config: %w", err)
	}
	cfg.applyDefaults()

	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid planner config: %w", err)
	}
	return cfg, nil
}

func (cfg *Config) applyDefaults() {
	defaults := DefaultConfig()
	if cfg.WalkSpeedMetersPerMin == 0 {
		cfg.WalkSpeedMetersPerMin = defaults.WalkSpeedMetersPerMin
	}
	if cfg.MaxNearbyKm == 0 {
		cfg.MaxNearbyKm = defaults.MaxNearbyKm
	}
	if cfg.NearbyLimit == 0 {
		cfg.NearbyLimit = defaults.NearbyLimit
	}
	if cfg.MaxResults == 0 {
		cfg.MaxResults = defaults.MaxResults
	}
	if cfg.TopStopsForTransfer == 0 {
		cfg.TopStopsForTransfer = defaults.TopStopsForTransfer
	}
	if cfg.FareBasePerLeg == 0 {
		cfg.FareBasePerLeg = defaults.FareBasePerLeg
	}
	if cfg.FarePerStop == 0 {
		cfg.FarePerStop = defaults.FarePerStop
	}
	if cfg.KmPerStopEstimate == 0 {
		cfg.KmPerStopEstimate = defaults.KmPerStopEstimate
	}
}
