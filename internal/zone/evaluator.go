package zone

import "geosentry/internal/geo"

// NearestZone pairs a zone with its distance from the evaluated point.
type NearestZone struct {
	Zone      SafeZone `json:"zone"`
	DistanceM float64  `json:"distance_m"`
}

// Membership is the result of evaluating a point against all active zones.
// Containing is ordered by ascending zone id; its first element is the
// entity's primary zone for transition purposes.
type Membership struct {
	Containing []SafeZone   `json:"containing"`
	Nearest    *NearestZone `json:"nearest,omitempty"`
}

// Evaluator answers point-in-zone and nearest-zone queries against a registry.
type Evaluator struct {
	reg *Registry
}

// NewEvaluator creates an evaluator backed by reg.
func NewEvaluator(reg *Registry) *Evaluator {
	return &Evaluator{reg: reg}
}

// Evaluate scans every active zone. A zone contains the point when the
// haversine distance to its center is within the radius. Nearest is the
// active zone minimizing that distance; ties break on ascending zone id,
// which List already guarantees by scan order.
func (e *Evaluator) Evaluate(p geo.Point) Membership {
	var m Membership
	for _, z := range e.reg.List(ListFilter{ActiveOnly: true}) {
		d := geo.Distance(p, z.Center)
		if d <= z.RadiusM {
			m.Containing = append(m.Containing, z)
		}
		if m.Nearest == nil || d < m.Nearest.DistanceM {
			m.Nearest = &NearestZone{Zone: z, DistanceM: d}
		}
	}
	return m
}

// Contains reports whether the membership includes the given zone id.
func (m Membership) Contains(id string) bool {
	for _, z := range m.Containing {
		if z.ID == id {
			return true
		}
	}
	return false
}
