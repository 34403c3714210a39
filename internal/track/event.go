package track

import (
	"time"

	"geosentry/internal/geo"
)

// EventType classifies a geofence transition.
type EventType string

const (
	EventEntry     EventType = "entry"
	EventExit      EventType = "exit"
	EventViolation EventType = "violation"
)

// Severity grades geofence events and anomaly verdicts.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// GeofenceEvent records one zone transition for an entity. Events are
// created here and marked resolved by an external operator action.
type GeofenceEvent struct {
	ID        string    `json:"id"`
	EntityID  string    `json:"entity_id"`
	Type      EventType `json:"type"`
	ZoneName  string    `json:"zone_name"`
	Point     geo.Point `json:"point"`
	Timestamp time.Time `json:"ts"`
	Severity  Severity  `json:"severity"`
	Message   string    `json:"message"`
	Resolved  bool      `json:"resolved"`
}
