// YAML config loader with CUE schema validation.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"geosentry/internal/anomaly"
	"geosentry/internal/zone"
)

// FeedBehavior tunes the simulated traveler feed, including fault
// injection rates in [0, 1].
type FeedBehavior struct {
	Entities     int     `yaml:"entities"`
	WalkSpeedKmh float64 `yaml:"walk_speed_kmh"`
	JumpRate     float64 `yaml:"jump_rate"`
	SpeedingRate float64 `yaml:"speeding_rate"`
	SilenceRate  float64 `yaml:"silence_rate"`
	VitalsRate   float64 `yaml:"vitals_rate"`
	DropoutRate  float64 `yaml:"dropout_rate"`
}

// Config is the root configuration: safe zones, detection policy, and
// the simulated feed.
type Config struct {
	Zones            []zone.SafeZone    `yaml:"zones"`
	Thresholds       anomaly.Thresholds `yaml:"thresholds"`
	HistoryCap       int                `yaml:"history_cap"`
	EventLogCap      int                `yaml:"event_log_cap"`
	ViolationRadiusM float64            `yaml:"violation_radius_m"`
	Feed             FeedBehavior       `yaml:"feed"`
}

// Load reads a YAML config, validates it against a CUE schema, then
// applies the semantic checks the schema cannot express.
func Load(configPath, cueSchemaPath string) (*Config, error) {
	if err := ValidateWithCue(configPath, cueSchemaPath); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks zone geometry and fills defaults for omitted sections.
func (c *Config) Validate() error {
	if len(c.Zones) == 0 {
		return fmt.Errorf("no zones defined in the configuration")
	}
	seen := make(map[string]bool)
	for _, z := range c.Zones {
		if err := z.Validate(); err != nil {
			return err
		}
		if z.ID != "" && seen[z.ID] {
			return fmt.Errorf("duplicate zone id %q", z.ID)
		}
		seen[z.ID] = true
	}
	if c.Thresholds == (anomaly.Thresholds{}) {
		c.Thresholds = anomaly.DefaultThresholds()
	}
	if c.Feed.Entities <= 0 {
		c.Feed.Entities = 5
	}
	if c.Feed.WalkSpeedKmh <= 0 {
		c.Feed.WalkSpeedKmh = 4
	}
	return nil
}
