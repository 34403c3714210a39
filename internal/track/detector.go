package track

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"geosentry/internal/geo"
	"geosentry/internal/zone"
)

// DefaultViolationRadiusM is how far from the nearest safe zone an entity
// may stray before a violation fires.
const DefaultViolationRadiusM = 5000

// DetectTransitions compares the previous and current membership snapshots
// for one entity and emits the resulting geofence events:
//
//   - exit for the primary zone (lowest id) of the previous snapshot when
//     the entity left all zones,
//   - violation when the entity is outside every zone and the nearest one
//     is farther than violationRadiusM,
//   - entry for every zone newly present in the current snapshot.
//
// A single update may fire several events, e.g. a simultaneous exit from
// one zone and entry into another.
func DetectTransitions(entityID string, prev, curr zone.Membership, p geo.Point, ts time.Time, violationRadiusM float64) []GeofenceEvent {
	if violationRadiusM <= 0 {
		violationRadiusM = DefaultViolationRadiusM
	}
	var events []GeofenceEvent

	if len(prev.Containing) > 0 && len(curr.Containing) == 0 {
		primary := prev.Containing[0]
		events = append(events, GeofenceEvent{
			ID:        uuid.New().String(),
			EntityID:  entityID,
			Type:      EventExit,
			ZoneName:  primary.Name,
			Point:     p,
			Timestamp: ts,
			Severity:  SeverityMedium,
			Message:   fmt.Sprintf("entity %s left safe zone %s", entityID, primary.Name),
		})
	}

	if len(curr.Containing) == 0 && curr.Nearest != nil && curr.Nearest.DistanceM > violationRadiusM {
		events = append(events, GeofenceEvent{
			ID:        uuid.New().String(),
			EntityID:  entityID,
			Type:      EventViolation,
			ZoneName:  curr.Nearest.Zone.Name,
			Point:     p,
			Timestamp: ts,
			Severity:  SeverityMedium,
			Message: fmt.Sprintf("entity %s is %.0f m from the nearest safe zone %s",
				entityID, curr.Nearest.DistanceM, curr.Nearest.Zone.Name),
		})
	}

	for _, z := range curr.Containing {
		if prev.Contains(z.ID) {
			continue
		}
		events = append(events, GeofenceEvent{
			ID:        uuid.New().String(),
			EntityID:  entityID,
			Type:      EventEntry,
			ZoneName:  z.Name,
			Point:     p,
			Timestamp: ts,
			Severity:  SeverityLow,
			Message:   fmt.Sprintf("entity %s entered safe zone %s", entityID, z.Name),
		})
	}

	return events
}
