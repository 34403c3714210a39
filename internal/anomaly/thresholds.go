package anomaly

// Thresholds collects every policy constant the detectors use, so tuning
// happens in configuration instead of code.
type Thresholds struct {
	JumpKM           float64 `yaml:"jump_km" json:"jump_km"`
	JumpHighKM       float64 `yaml:"jump_high_km" json:"jump_high_km"`
	SpeedKmh         float64 `yaml:"speed_kmh" json:"speed_kmh"`
	SpeedCriticalKmh float64 `yaml:"speed_critical_kmh" json:"speed_critical_kmh"`
	GapHours         float64 `yaml:"gap_hours" json:"gap_hours"`
	GapCriticalHours float64 `yaml:"gap_critical_hours" json:"gap_critical_hours"`
	HeartRateMin     float64 `yaml:"heart_rate_min" json:"heart_rate_min"`
	HeartRateMax     float64 `yaml:"heart_rate_max" json:"heart_rate_max"`
	HeartRateCritLow float64 `yaml:"heart_rate_crit_low" json:"heart_rate_crit_low"`
	HeartRateCritHi  float64 `yaml:"heart_rate_crit_hi" json:"heart_rate_crit_hi"`
	NightStartHour   int     `yaml:"night_start_hour" json:"night_start_hour"`
	NightEndHour     int     `yaml:"night_end_hour" json:"night_end_hour"`
}

// DefaultThresholds returns the stock policy.
func DefaultThresholds() Thresholds {
	return Thresholds{
		JumpKM:           50,
		JumpHighKM:       100,
		SpeedKmh:         120,
		SpeedCriticalKmh: 200,
		GapHours:         6,
		GapCriticalHours: 24,
		HeartRateMin:     50,
		HeartRateMax:     120,
		HeartRateCritLow: 40,
		HeartRateCritHi:  150,
		NightStartHour:   22,
		NightEndHour:     6,
	}
}
