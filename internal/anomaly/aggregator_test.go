package anomaly

import (
	"testing"
	"time"
)

func TestAggregatorCollectsMultipleVerdicts(t *testing.T) {
	// Night, speeding, silent for 25h: speed + comm gap + night movement.
	ts := time.Date(2026, 8, 1, 23, 0, 0, 0, time.UTC)
	last := ts.Add(-25 * time.Hour)
	s := BehaviorSample{
		EntityID:      "t1",
		Timestamp:     ts,
		SpeedKmh:      f64(150),
		LastContactAt: &last,
		Moving:        true,
	}
	verdicts := NewAggregator().RunAll(s, defaultCtx(ts))
	if len(verdicts) != 3 {
		t.Fatalf("expected 3 verdicts, got %d: %+v", len(verdicts), verdicts)
	}
	// Fixed registration order: speed before comm gap before night movement.
	if verdicts[0].Type != VerdictMovement || verdicts[1].Type != VerdictCommunication || verdicts[2].Type != VerdictBehavior {
		t.Errorf("verdicts out of registration order: %+v", verdicts)
	}
}

func TestAggregatorQuietSample(t *testing.T) {
	ts := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	s := BehaviorSample{EntityID: "t1", Timestamp: ts, SpeedKmh: f64(4), Moving: true}
	if verdicts := NewAggregator().RunAll(s, defaultCtx(ts)); len(verdicts) != 0 {
		t.Errorf("expected no verdicts, got %+v", verdicts)
	}
}

func TestAggregatorMissingFieldsDegradeGracefully(t *testing.T) {
	// Bare sample: no optional fields at all. Only time-based detectors
	// can evaluate, and a morning stationary sample triggers none.
	ts := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	s := BehaviorSample{EntityID: "t1", Timestamp: ts}
	if verdicts := NewAggregator().RunAll(s, defaultCtx(ts)); len(verdicts) != 0 {
		t.Errorf("expected no verdicts, got %+v", verdicts)
	}
}

func TestAggregatorDetectorOrder(t *testing.T) {
	want := []string{"location_jump", "speed", "stillness", "communication_gap", "vitals", "night_movement"}
	got := NewAggregator().Detectors()
	if len(got) != len(want) {
		t.Fatalf("expected %d detectors, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("detector %d = %s, want %s", i, got[i], want[i])
		}
	}
}
