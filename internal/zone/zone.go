// Safe-zone definitions and the shared registry they live in.
package zone

import (
	"fmt"

	"geosentry/internal/geo"
)

// Type categorizes a safe zone.
type Type string

const (
	TypeTouristArea   Type = "tourist_area"
	TypeEmbassy       Type = "embassy"
	TypeHospital      Type = "hospital"
	TypePoliceStation Type = "police_station"
	TypeCustom        Type = "custom"
)

// SafeZone is an operator-defined circular geofence.
type SafeZone struct {
	ID       string            `json:"id" yaml:"id"`
	Name     string            `json:"name" yaml:"name"`
	Center   geo.Point         `json:"center" yaml:"center"`
	RadiusM  float64           `json:"radius_m" yaml:"radius_m"`
	Type     Type              `json:"type" yaml:"type"`
	Active   bool              `json:"active" yaml:"active"`
	Metadata map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// Validate rejects zones with invalid geometry.
func (z SafeZone) Validate() error {
	if err := z.Center.Validate(); err != nil {
		return fmt.Errorf("zone %q center: %w", z.Name, err)
	}
	if z.RadiusM <= 0 {
		return fmt.Errorf("zone %q radius must be positive, got %v", z.Name, z.RadiusM)
	}
	return nil
}
