package anomaly

import (
	"fmt"
	"math"
	"time"

	"geosentry/internal/geo"
	"geosentry/internal/track"
)

// Context carries the minimal reference state a detector may need beyond
// the sample itself.
type Context struct {
	Thresholds Thresholds
	LastKnown  *geo.Point // most recent historical position, if any
	Now        time.Time
}

// Detector is one behavioral signal. Detect returns at most one verdict;
// a detector that cannot evaluate (missing optional field) reports false
// and never blocks the others.
type Detector interface {
	Name() string
	Detect(s BehaviorSample, ctx Context) (Verdict, bool)
}

type jumpDetector struct{}

func (jumpDetector) Name() string { return "location_jump" }

func (jumpDetector) Detect(s BehaviorSample, ctx Context) (Verdict, bool) {
	if s.Point == nil || ctx.LastKnown == nil {
		return Verdict{}, false
	}
	distKM := geo.Distance(*ctx.LastKnown, *s.Point) / 1000
	if distKM <= ctx.Thresholds.JumpKM {
		return Verdict{}, false
	}
	sev := track.SeverityMedium
	if distKM > ctx.Thresholds.JumpHighKM {
		sev = track.SeverityHigh
	}
	return Verdict{
		EntityID:    s.EntityID,
		Type:        VerdictLocation,
		Severity:    sev,
		Confidence:  math.Min(0.9, distKM/100),
		Description: fmt.Sprintf("position jumped %.1f km from last known location", distKM),
		Evidence:    map[string]float64{"distance_km": distKM},
		Timestamp:   s.Timestamp,
	}, true
}

type speedDetector struct{}

func (speedDetector) Name() string { return "speed" }

func (speedDetector) Detect(s BehaviorSample, ctx Context) (Verdict, bool) {
	if s.SpeedKmh == nil || *s.SpeedKmh <= ctx.Thresholds.SpeedKmh {
		return Verdict{}, false
	}
	sev := track.SeverityHigh
	if *s.SpeedKmh > ctx.Thresholds.SpeedCriticalKmh {
		sev = track.SeverityCritical
	}
	return Verdict{
		EntityID:    s.EntityID,
		Type:        VerdictMovement,
		Severity:    sev,
		Confidence:  0.85,
		Description: fmt.Sprintf("moving at %.0f km/h, above the %.0f km/h limit", *s.SpeedKmh, ctx.Thresholds.SpeedKmh),
		Evidence:    map[string]float64{"speed_kmh": *s.SpeedKmh},
		Timestamp:   s.Timestamp,
	}, true
}

// stillnessDetector flags an entity idle during the afternoon. A weak,
// high-false-positive signal kept with a low confidence on purpose.
type stillnessDetector struct{}

func (stillnessDetector) Name() string { return "stillness" }

func (stillnessDetector) Detect(s BehaviorSample, ctx Context) (Verdict, bool) {
	if s.Moving || s.TimeOfDay() != Afternoon {
		return Verdict{}, false
	}
	return Verdict{
		EntityID:    s.EntityID,
		Type:        VerdictBehavior,
		Severity:    track.SeverityMedium,
		Confidence:  0.6,
		Description: "no movement during afternoon hours",
		Timestamp:   s.Timestamp,
	}, true
}

type commGapDetector struct{}

func (commGapDetector) Name() string { return "communication_gap" }

func (commGapDetector) Detect(s BehaviorSample, ctx Context) (Verdict, bool) {
	if s.LastContactAt == nil {
		return Verdict{}, false
	}
	hours := ctx.Now.Sub(*s.LastContactAt).Hours()
	if hours <= ctx.Thresholds.GapHours {
		return Verdict{}, false
	}
	sev := track.SeverityHigh
	if hours > ctx.Thresholds.GapCriticalHours {
		sev = track.SeverityCritical
	}
	return Verdict{
		EntityID:    s.EntityID,
		Type:        VerdictCommunication,
		Severity:    sev,
		Confidence:  math.Min(0.9, hours/24),
		Description: fmt.Sprintf("no communication for %.1f hours", hours),
		Evidence:    map[string]float64{"gap_hours": hours},
		Timestamp:   s.Timestamp,
	}, true
}

type vitalsDetector struct{}

func (vitalsDetector) Name() string { return "vitals" }

func (vitalsDetector) Detect(s BehaviorSample, ctx Context) (Verdict, bool) {
	if s.HeartRate == nil {
		return Verdict{}, false
	}
	hr := *s.HeartRate
	t := ctx.Thresholds
	if hr >= t.HeartRateMin && hr <= t.HeartRateMax {
		return Verdict{}, false
	}
	sev := track.SeverityHigh
	if hr < t.HeartRateCritLow || hr > t.HeartRateCritHi {
		sev = track.SeverityCritical
	}
	return Verdict{
		EntityID:    s.EntityID,
		Type:        VerdictHealth,
		Severity:    sev,
		Confidence:  0.8,
		Description: fmt.Sprintf("heart rate %.0f bpm outside [%.0f, %.0f]", hr, t.HeartRateMin, t.HeartRateMax),
		Evidence:    map[string]float64{"heart_rate": hr},
		Timestamp:   s.Timestamp,
	}, true
}

type nightMovementDetector struct{}

func (nightMovementDetector) Name() string { return "night_movement" }

func (nightMovementDetector) Detect(s BehaviorSample, ctx Context) (Verdict, bool) {
	h := s.Timestamp.Hour()
	t := ctx.Thresholds
	if !s.Moving || (h < t.NightStartHour && h >= t.NightEndHour) {
		return Verdict{}, false
	}
	return Verdict{
		EntityID:    s.EntityID,
		Type:        VerdictBehavior,
		Severity:    track.SeverityMedium,
		Confidence:  0.7,
		Description: fmt.Sprintf("movement at %02d:00, inside quiet hours", h),
		Timestamp:   s.Timestamp,
	}, true
}
