// Simulated traveler feed standing in for real device telemetry.
package feed

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"geosentry/internal/anomaly"
	"geosentry/internal/config"
	"geosentry/internal/engine"
	"geosentry/internal/geo"
	"geosentry/internal/zone"
)

// Traveler holds runtime state for one simulated entity.
type Traveler struct {
	ID            string
	Position      geo.Point
	Moving        bool
	HeartRate     float64
	LastContactAt time.Time
}

// Observation is one tick's output for a traveler. Update is nil when
// the device dropped out this tick; Behavior is always present.
type Observation struct {
	Update   *engine.LocationUpdate
	Behavior anomaly.BehaviorSample
}

// Generator walks a set of travelers around a home zone and injects
// faults (jumps, speeding, silence, vitals excursions) at configured rates.
type Generator struct {
	Travelers []*Traveler

	cfg  config.FeedBehavior
	home zone.SafeZone
	rand *rand.Rand
	now  func() time.Time
}

// NewGenerator spawns cfg.Entities travelers at the home zone's center.
func NewGenerator(cfg config.FeedBehavior, home zone.SafeZone, seed int64, now func() time.Time) *Generator {
	if now == nil {
		now = time.Now
	}
	g := &Generator{cfg: cfg, home: home, rand: rand.New(rand.NewSource(seed)), now: now}
	start := now()
	for i := 0; i < cfg.Entities; i++ {
		g.Travelers = append(g.Travelers, &Traveler{
			ID:            fmt.Sprintf("traveler-%03d", i+1),
			Position:      home.Center,
			Moving:        true,
			HeartRate:     60 + g.rand.Float64()*40,
			LastContactAt: start,
		})
	}
	return g
}

// Tick advances every traveler one step and returns its observations.
func (g *Generator) Tick() []Observation {
	ts := g.now()
	obs := make([]Observation, 0, len(g.Travelers))
	for _, t := range g.Travelers {
		obs = append(obs, g.step(t, ts))
	}
	return obs
}

func (g *Generator) step(t *Traveler, ts time.Time) Observation {
	speedKmh := g.cfg.WalkSpeedKmh
	t.Moving = g.rand.Float64() > 0.2

	switch {
	case g.rand.Float64() < g.cfg.JumpRate:
		// Teleport far outside the jump threshold.
		t.Position = offset(t.Position, 60000+g.rand.Float64()*90000, g.rand.Float64()*2*math.Pi)
	case t.Moving:
		stepM := speedKmh / 3.6 // per-second walking distance
		t.Position = offset(t.Position, stepM, g.rand.Float64()*2*math.Pi)
	}

	if g.rand.Float64() < g.cfg.SpeedingRate {
		speedKmh = 130 + g.rand.Float64()*120
		t.Moving = true
	}

	if g.rand.Float64() < g.cfg.SilenceRate {
		t.LastContactAt = ts.Add(-time.Duration(7+g.rand.Float64()*23) * time.Hour)
	} else if g.rand.Float64() < 0.5 {
		t.LastContactAt = ts
	}

	t.HeartRate = 60 + g.rand.Float64()*40
	if g.rand.Float64() < g.cfg.VitalsRate {
		if g.rand.Float64() < 0.5 {
			t.HeartRate = 30 + g.rand.Float64()*15
		} else {
			t.HeartRate = 130 + g.rand.Float64()*40
		}
	}

	p := t.Position
	hr := t.HeartRate
	last := t.LastContactAt
	sp := speedKmh
	o := Observation{
		Behavior: anomaly.BehaviorSample{
			EntityID:      t.ID,
			Timestamp:     ts,
			Point:         &p,
			SpeedKmh:      &sp,
			LastContactAt: &last,
			HeartRate:     &hr,
			Moving:        t.Moving,
		},
	}
	if g.rand.Float64() >= g.cfg.DropoutRate {
		o.Update = &engine.LocationUpdate{
			EntityID:  t.ID,
			Point:     t.Position,
			SpeedKmh:  &sp,
			Timestamp: ts,
			Source:    "simulated",
		}
	}
	return o
}

// offset moves a point by distM meters along the given bearing.
func offset(p geo.Point, distM, bearing float64) geo.Point {
	dLat := (distM * math.Cos(bearing)) / 111000
	dLon := (distM * math.Sin(bearing)) / (111000 * math.Cos(p.Lat*math.Pi/180))
	out := geo.Point{Lat: p.Lat + dLat, Lon: p.Lon + dLon}
	if out.Validate() != nil {
		return p
	}
	return out
}
