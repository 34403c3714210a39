// Behavioral-anomaly detection over single telemetry samples.
package anomaly

import (
	"time"

	"geosentry/internal/geo"
)

// TimeOfDay buckets the hour of a sample's timestamp.
type TimeOfDay string

const (
	Morning   TimeOfDay = "morning"   // [06, 12)
	Afternoon TimeOfDay = "afternoon" // [12, 17)
	Evening   TimeOfDay = "evening"   // [17, 22)
	Night     TimeOfDay = "night"     // [22, 24) and [00, 06)
)

// BehaviorSample is one behavioral observation for an entity. Optional
// fields left nil simply disable the detectors that need them.
type BehaviorSample struct {
	EntityID      string     `json:"entity_id"`
	Timestamp     time.Time  `json:"ts"`
	Point         *geo.Point `json:"point,omitempty"`
	SpeedKmh      *float64   `json:"speed_kmh,omitempty"`
	LastContactAt *time.Time `json:"last_contact_at,omitempty"`
	HeartRate     *float64   `json:"heart_rate,omitempty"`
	Moving        bool       `json:"moving"`
}

// TimeOfDay derives the bucket from the sample timestamp's hour.
func (s BehaviorSample) TimeOfDay() TimeOfDay {
	switch h := s.Timestamp.Hour(); {
	case h >= 6 && h < 12:
		return Morning
	case h >= 12 && h < 17:
		return Afternoon
	case h >= 17 && h < 22:
		return Evening
	default:
		return Night
	}
}
