package anomaly

import (
	"testing"
	"time"

	"geosentry/internal/geo"
	"geosentry/internal/track"
)

var noon = time.Date(2026, 8, 1, 12, 30, 0, 0, time.UTC)

func f64(v float64) *float64 { return &v }

func defaultCtx(now time.Time) Context {
	return Context{Thresholds: DefaultThresholds(), Now: now}
}

func TestSpeedDetector(t *testing.T) {
	cases := []struct {
		speed    float64
		fires    bool
		severity track.Severity
	}{
		{80, false, ""},
		{120, false, ""}, // at the limit, not above
		{150, true, track.SeverityHigh},
		{250, true, track.SeverityCritical},
	}
	for _, tc := range cases {
		s := BehaviorSample{EntityID: "t1", Timestamp: noon, SpeedKmh: f64(tc.speed), Moving: true}
		v, ok := speedDetector{}.Detect(s, defaultCtx(noon))
		if ok != tc.fires {
			t.Errorf("speed %.0f: fired = %v, want %v", tc.speed, ok, tc.fires)
			continue
		}
		if ok && (v.Severity != tc.severity || v.Type != VerdictMovement || v.Confidence != 0.85) {
			t.Errorf("speed %.0f: verdict = %+v", tc.speed, v)
		}
	}
}

func TestSpeedDetectorMissingField(t *testing.T) {
	s := BehaviorSample{EntityID: "t1", Timestamp: noon}
	if _, ok := (speedDetector{}).Detect(s, defaultCtx(noon)); ok {
		t.Error("detector must stay silent without a speed reading")
	}
}

func TestCommGapDetector(t *testing.T) {
	cases := []struct {
		gap      time.Duration
		fires    bool
		severity track.Severity
	}{
		{2 * time.Hour, false, ""},
		{7 * time.Hour, true, track.SeverityHigh},
		{25 * time.Hour, true, track.SeverityCritical},
	}
	for _, tc := range cases {
		last := noon.Add(-tc.gap)
		s := BehaviorSample{EntityID: "t1", Timestamp: noon, LastContactAt: &last}
		v, ok := commGapDetector{}.Detect(s, defaultCtx(noon))
		if ok != tc.fires {
			t.Errorf("gap %v: fired = %v, want %v", tc.gap, ok, tc.fires)
			continue
		}
		if !ok {
			continue
		}
		if v.Severity != tc.severity || v.Type != VerdictCommunication {
			t.Errorf("gap %v: verdict = %+v", tc.gap, v)
		}
		if v.Confidence > 0.9 {
			t.Errorf("gap %v: confidence %f exceeds cap", tc.gap, v.Confidence)
		}
	}
}

func TestJumpDetector(t *testing.T) {
	last := geo.Point{Lat: 28.6129, Lon: 77.2295}
	ctx := defaultCtx(noon)
	ctx.LastKnown = &last

	near := geo.Point{Lat: 28.62, Lon: 77.23}
	s := BehaviorSample{EntityID: "t1", Timestamp: noon, Point: &near}
	if _, ok := (jumpDetector{}).Detect(s, ctx); ok {
		t.Error("short hop should not fire")
	}

	// ~0.6 degrees of latitude is ~67 km: medium.
	medium := geo.Point{Lat: 29.2129, Lon: 77.2295}
	s.Point = &medium
	v, ok := jumpDetector{}.Detect(s, ctx)
	if !ok || v.Severity != track.SeverityMedium || v.Type != VerdictLocation {
		t.Errorf("67 km jump: verdict = %+v, ok = %v", v, ok)
	}

	// ~2 degrees is ~222 km: high, confidence capped at 0.9.
	far := geo.Point{Lat: 30.6129, Lon: 77.2295}
	s.Point = &far
	v, ok = jumpDetector{}.Detect(s, ctx)
	if !ok || v.Severity != track.SeverityHigh {
		t.Errorf("222 km jump: verdict = %+v, ok = %v", v, ok)
	}
	if v.Confidence != 0.9 {
		t.Errorf("222 km jump: confidence = %f, want 0.9", v.Confidence)
	}
}

func TestJumpDetectorNeedsBothPoints(t *testing.T) {
	p := geo.Point{Lat: 28.6, Lon: 77.2}
	s := BehaviorSample{EntityID: "t1", Timestamp: noon, Point: &p}
	if _, ok := (jumpDetector{}).Detect(s, defaultCtx(noon)); ok {
		t.Error("no last-known position: detector must stay silent")
	}
	ctx := defaultCtx(noon)
	ctx.LastKnown = &p
	s.Point = nil
	if _, ok := (jumpDetector{}).Detect(s, ctx); ok {
		t.Error("no sample position: detector must stay silent")
	}
}

func TestVitalsDetector(t *testing.T) {
	cases := []struct {
		hr       float64
		fires    bool
		severity track.Severity
	}{
		{70, false, ""},
		{50, false, ""},
		{120, false, ""},
		{45, true, track.SeverityHigh},
		{130, true, track.SeverityHigh},
		{35, true, track.SeverityCritical},
		{160, true, track.SeverityCritical},
	}
	for _, tc := range cases {
		s := BehaviorSample{EntityID: "t1", Timestamp: noon, HeartRate: f64(tc.hr)}
		v, ok := vitalsDetector{}.Detect(s, defaultCtx(noon))
		if ok != tc.fires {
			t.Errorf("hr %.0f: fired = %v, want %v", tc.hr, ok, tc.fires)
			continue
		}
		if ok && (v.Severity != tc.severity || v.Type != VerdictHealth || v.Confidence != 0.8) {
			t.Errorf("hr %.0f: verdict = %+v", tc.hr, v)
		}
	}
}

func TestStillnessDetector(t *testing.T) {
	s := BehaviorSample{EntityID: "t1", Timestamp: noon, Moving: false}
	v, ok := stillnessDetector{}.Detect(s, defaultCtx(noon))
	if !ok || v.Severity != track.SeverityMedium || v.Confidence != 0.6 {
		t.Errorf("afternoon stillness: verdict = %+v, ok = %v", v, ok)
	}

	s.Moving = true
	if _, ok := (stillnessDetector{}).Detect(s, defaultCtx(noon)); ok {
		t.Error("moving entity should not fire stillness")
	}

	morning := BehaviorSample{EntityID: "t1", Timestamp: time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)}
	if _, ok := (stillnessDetector{}).Detect(morning, defaultCtx(noon)); ok {
		t.Error("morning stillness should not fire")
	}
}

func TestNightMovementDetector(t *testing.T) {
	cases := []struct {
		hour  int
		fires bool
	}{
		{23, true},
		{2, true},
		{5, true},
		{6, false},
		{12, false},
		{21, false},
		{22, true},
	}
	for _, tc := range cases {
		ts := time.Date(2026, 8, 1, tc.hour, 15, 0, 0, time.UTC)
		s := BehaviorSample{EntityID: "t1", Timestamp: ts, Moving: true}
		v, ok := nightMovementDetector{}.Detect(s, defaultCtx(ts))
		if ok != tc.fires {
			t.Errorf("hour %d: fired = %v, want %v", tc.hour, ok, tc.fires)
		}
		if ok && (v.Severity != track.SeverityMedium || v.Confidence != 0.7) {
			t.Errorf("hour %d: verdict = %+v", tc.hour, v)
		}
	}

	still := BehaviorSample{EntityID: "t1", Timestamp: time.Date(2026, 8, 1, 23, 0, 0, 0, time.UTC), Moving: false}
	if _, ok := (nightMovementDetector{}).Detect(still, defaultCtx(noon)); ok {
		t.Error("stationary entity should not fire night movement")
	}
}

func TestTimeOfDayBuckets(t *testing.T) {
	cases := map[int]TimeOfDay{
		0: Night, 5: Night, 6: Morning, 11: Morning,
		12: Afternoon, 16: Afternoon, 17: Evening, 21: Evening, 22: Night, 23: Night,
	}
	for hour, want := range cases {
		s := BehaviorSample{Timestamp: time.Date(2026, 8, 1, hour, 0, 0, 0, time.UTC)}
		if got := s.TimeOfDay(); got != want {
			t.Errorf("hour %d: TimeOfDay = %s, want %s", hour, got, want)
		}
	}
}
