// Per-entity location tracking: samples, bounded history, and geofence events.
package track

import (
	"time"

	"geosentry/internal/geo"
)

// LocationSample is one observed position for a tracked entity.
// Samples are immutable once appended to history.
type LocationSample struct {
	EntityID  string    `json:"entity_id"`
	Point     geo.Point `json:"point"`
	AccuracyM *float64  `json:"accuracy_m,omitempty"`
	SpeedKmh  *float64  `json:"speed_kmh,omitempty"`
	Timestamp time.Time `json:"ts"`
	Source    string    `json:"source"`
}
