package anomaly

import (
	"time"

	"geosentry/internal/track"
)

// VerdictType names the behavioral signal a detector covers.
type VerdictType string

const (
	VerdictLocation      VerdictType = "location"
	VerdictMovement      VerdictType = "movement"
	VerdictCommunication VerdictType = "communication"
	VerdictHealth        VerdictType = "health"
	VerdictBehavior      VerdictType = "behavior"
)

// Verdict is one detector's judgment on a single sample. Verdicts are
// ephemeral: returned to the caller, never stored here.
type Verdict struct {
	EntityID    string             `json:"entity_id"`
	Type        VerdictType        `json:"type"`
	Severity    track.Severity     `json:"severity"`
	Confidence  float64            `json:"confidence"`
	Description string             `json:"description"`
	Evidence    map[string]float64 `json:"evidence,omitempty"`
	Timestamp   time.Time          `json:"ts"`
}
