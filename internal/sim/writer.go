// Tick-driven runner feeding the engine from the simulated feed, plus the
// writer fan-out for samples, geofence events, and anomaly verdicts.
package sim

import (
	"geosentry/internal/anomaly"
	"geosentry/internal/track"
)

// SampleWriter receives every accepted location sample.
type SampleWriter interface {
	WriteSample(track.LocationSample) error
}

// Optional: sample writers may support batch mode.
type batchSampleWriter interface {
	WriteSamples([]track.LocationSample) error
}

// EventWriter receives geofence transition events.
type EventWriter interface {
	WriteEvent(track.GeofenceEvent) error
}

// Optional: event writers may support batch mode.
type batchEventWriter interface {
	WriteEvents([]track.GeofenceEvent) error
}

// VerdictWriter receives anomaly verdicts.
type VerdictWriter interface {
	WriteVerdict(anomaly.Verdict) error
}

// Optional: verdict writers may support batch mode.
type batchVerdictWriter interface {
	WriteVerdicts([]anomaly.Verdict) error
}

func writeSamples(w SampleWriter, rows []track.LocationSample) error {
	if w == nil || len(rows) == 0 {
		return nil
	}
	if bw, ok := w.(batchSampleWriter); ok {
		return bw.WriteSamples(rows)
	}
	for _, r := range rows {
		if err := w.WriteSample(r); err != nil {
			return err
		}
	}
	return nil
}

func writeEvents(w EventWriter, rows []track.GeofenceEvent) error {
	if w == nil || len(rows) == 0 {
		return nil
	}
	if bw, ok := w.(batchEventWriter); ok {
		return bw.WriteEvents(rows)
	}
	for _, r := range rows {
		if err := w.WriteEvent(r); err != nil {
			return err
		}
	}
	return nil
}

func writeVerdicts(w VerdictWriter, rows []anomaly.Verdict) error {
	if w == nil || len(rows) == 0 {
		return nil
	}
	if bw, ok := w.(batchVerdictWriter); ok {
		return bw.WriteVerdicts(rows)
	}
	for _, r := range rows {
		if err := w.WriteVerdict(r); err != nil {
			return err
		}
	}
	return nil
}
